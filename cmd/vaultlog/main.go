package main

import (
	"os"

	"github.com/ariel-frischer/vaultlog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// SourceURL is the project source URL
const SourceURL = "https://github.com/ariel-frischer/vaultlog"

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for vaultlog",
		Example: `  # Show version info
  vaultlog version

  # Plain output (for scripts)
  vaultlog version --plain`,
		Args: exactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			plain, _ := cmd.Flags().GetBool("plain")
			if plain {
				printPlainVersion(cmd.OutOrStdout())
				return
			}
			printPrettyVersion(cmd.OutOrStdout())
		},
	}
	cmd.GroupID = GroupConfiguration
	cmd.Flags().Bool("plain", false, "Plain output without formatting")
	return cmd
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(out io.Writer) {
	fmt.Fprintf(out, "vaultlog %s\n", Version)
	fmt.Fprintf(out, "commit: %s\n", Commit)
	fmt.Fprintf(out, "built: %s\n", BuildDate)
	fmt.Fprintf(out, "go: %s\n", runtime.Version())
	fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func printPrettyVersion(out io.Writer) {
	fmt.Fprintf(out, "%s %s\n", cBold("vaultlog"), cCyan(Version))
	fmt.Fprintf(out, "  %-9s %s\n", cDim("commit"), Commit)
	fmt.Fprintf(out, "  %-9s %s\n", cDim("built"), BuildDate)
	fmt.Fprintf(out, "  %-9s %s\n", cDim("go"), runtime.Version())
	fmt.Fprintf(out, "  %-9s %s/%s\n", cDim("platform"), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(out, "  %-9s %s\n", cDim("source"), SourceURL)
}

package cli

import "github.com/fatih/color"

// Color helpers for command output
var (
	cGreen  = color.New(color.FgGreen).SprintFunc()
	cYellow = color.New(color.FgYellow).SprintFunc()
	cCyan   = color.New(color.FgCyan).SprintFunc()
	cDim    = color.New(color.Faint).SprintFunc()
	cBold   = color.New(color.Bold).SprintFunc()
)

// Package cli implements the vaultlog command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	clierrors "github.com/ariel-frischer/vaultlog/internal/errors"
	"github.com/spf13/cobra"
)

// Command groups shown in help output.
const (
	GroupChangelog     = "changelog"
	GroupConfiguration = "configuration"
)

// NewRootCmd builds a fresh vaultlog command tree. Each call returns
// independent commands and flags.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vaultlog",
		Short: "Keep a changelog note of recently modified documents in a markdown vault",
		Long: `vaultlog keeps a changelog note inside a markdown vault (an Obsidian-style
folder of .md notes). The note lists the most recently modified documents,
newest first, each with a timestamp and a [[basename]] wiki-link.

Running vaultlog without a command updates the changelog once, or keeps it
current when the vault config sets watch: true.

The changelog note must already exist; vaultlog never creates it.`,
		Example: `  # Point vaultlog at an existing note and update it
  vaultlog config set changelog_path Changelog.md
  vaultlog update

  # Print the changelog without writing it
  vaultlog show --max 5 --table

  # Keep the note current while you edit
  vaultlog watch -C ~/Notes`,
		Args:          exactArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDefault,
	}

	cmd.AddGroup(
		&cobra.Group{ID: GroupChangelog, Title: "Changelog Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration Commands:"},
	)

	pf := cmd.PersistentFlags()
	pf.StringP("vault", "C", "", "Vault root directory (default: current directory)")
	pf.String("config", "", "Vault config file (default: <vault>/.vaultlog/config.yml)")
	pf.Bool("debug", false, "Enable debug logging")
	pf.BoolP("verbose", "v", false, "Enable info logging")
	pf.String("log-file", "", "Also write JSON logs to this file (rotated)")

	addChangelogFlags(cmd)

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), c.UseLine(),
			fmt.Sprintf("Run '%s --help' for usage", c.CommandPath()))
	})

	cmd.AddCommand(
		newUpdateCmd(),
		newShowCmd(),
		newWatchCmd(),
		newHistoryCmd(),
		newDoctorCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return cmd
}

// runDefault updates once, or watches when the vault config asks for it.
func runDefault(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if err := applyChangelogFlags(cmd, s.cfg); err != nil {
		return err
	}
	if s.cfg.Watch {
		return s.watch(cmd.Context())
	}
	return s.runUpdate(cmd.Context(), "update")
}

// Execute runs the command tree with os.Args and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd()
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), clierrors.FormatSimpleError(err, clierrors.Runtime))
	}
	return ExitCode(err)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the changelog without writing it",
		Long: `Scan the vault and print the changelog to stdout. Nothing in the vault is
modified, and no changelog note needs to exist. When changelog_path is set,
that note is still left out of the listing.`,
		Example: `  # Preview the changelog
  vaultlog show

  # Group by day with a custom time format
  vaultlog show --group-by-day --format 'HH:mm'`,
		Args: exactArgs(0),
		RunE: runShow,
	}
	cmd.GroupID = GroupChangelog
	addChangelogFlags(cmd)
	return cmd
}

func runShow(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if err := applyChangelogFlags(cmd, s.cfg); err != nil {
		return err
	}

	content, _, err := s.buildChangelog(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, content)
	return nil
}

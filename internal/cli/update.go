package cli

import (
	"context"

	"github.com/ariel-frischer/vaultlog/internal/lifecycle"
	"github.com/spf13/cobra"
)

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Rewrite the changelog note with recently modified documents",
		Long: `Scan the vault, build the changelog and replace the content of the
changelog note. The note must already exist. Unchanged content is not
rewritten.

Exit codes:
  0  changelog written (or already up to date)
  3  invalid flag value
  4  changelog note not set, missing, or outside the vault`,
		Example: `  # Update using the vault configuration
  vaultlog update

  # Update another vault, listing 20 documents as a table
  vaultlog update -C ~/Notes --max 20 --table

  # Write to a different note and skip templates
  vaultlog update --output Meta/Recent.md --exclude Templates/`,
		Args: exactArgs(0),
		RunE: runUpdateCmd,
	}
	cmd.GroupID = GroupChangelog
	addChangelogFlags(cmd)
	return cmd
}

func runUpdateCmd(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if err := applyChangelogFlags(cmd, s.cfg); err != nil {
		return err
	}
	return s.runUpdate(cmd.Context(), "update")
}

// runUpdate performs one update under the notification lifecycle.
func (s *session) runUpdate(ctx context.Context, command string) error {
	return lifecycle.RunWithContext(ctx, s.notifier, command, func(ctx context.Context) error {
		result, entries, err := s.update(ctx, command)
		if err != nil {
			return err
		}
		s.reportUpdate(result, entries)
		return nil
	})
}

package cli

import (
	"context"
	"fmt"

	clierrors "github.com/ariel-frischer/vaultlog/internal/errors"
	"github.com/ariel-frischer/vaultlog/internal/lifecycle"
	"github.com/ariel-frischer/vaultlog/internal/vault"
	"github.com/ariel-frischer/vaultlog/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the changelog note current while the vault changes",
		Long: `Update the changelog once, then watch the vault and update it again after
markdown documents are created, modified, renamed or deleted. Bursts of
changes are collapsed into one update (see the debounce setting).

A failed write is reported and watching continues; the next change retries.
Stop with Ctrl+C.`,
		Example: `  # Watch the current vault
  vaultlog watch

  # Watch with a longer quiet period
  VAULTLOG_DEBOUNCE=2s vaultlog watch -C ~/Notes`,
		Args: exactArgs(0),
		RunE: runWatchCmd,
	}
	cmd.GroupID = GroupChangelog
	addChangelogFlags(cmd)
	return cmd
}

func runWatchCmd(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if err := applyChangelogFlags(cmd, s.cfg); err != nil {
		return err
	}
	return s.watch(cmd.Context())
}

// watch runs the watcher and the update loop until ctx is done.
func (s *session) watch(ctx context.Context) error {
	if s.cfg.ChangelogPath == "" {
		err := clierrors.ChangelogPathNotSet()
		err.Cause = vault.ErrPathNotSet
		return err
	}

	w, err := watch.New(s.root,
		watch.WithDebounce(s.cfg.Debounce),
		watch.WithDestination(s.cfg.ChangelogPath),
		watch.WithExcludePrefixes(s.cfg.ExcludePaths),
		watch.WithMatcher(s.scanner()),
		watch.WithLogger(s.logger),
	)
	if err != nil {
		return clierrors.WatchFailed(err)
	}
	defer w.Close()

	return lifecycle.RunWithContext(ctx, s.notifier, "watch", func(ctx context.Context) error {
		fmt.Fprintf(s.out, "Watching %s (%d directories), press Ctrl+C to stop\n", s.root, w.WatchedDirs())

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := w.Run(ctx); err != nil {
				return clierrors.WatchFailed(err)
			}
			return nil
		})
		g.Go(func() error {
			s.refresh(ctx)
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-w.Triggers():
					s.refresh(ctx)
				}
			}
		})
		return g.Wait()
	})
}

// refresh performs one update for the watch loop. Failures are reported
// and never stop the loop.
func (s *session) refresh(ctx context.Context) {
	result, entries, err := s.update(ctx, "watch")
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn("changelog update failed", zap.Error(err))
		s.notifier.OnWriteFailed(s.cfg.ChangelogPath, err)
		fmt.Fprint(s.errOut, clierrors.FormatSimpleError(err, clierrors.Runtime))
		return
	}
	if result.Changed {
		s.reportUpdate(result, entries)
	}
}

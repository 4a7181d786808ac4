package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ariel-frischer/vaultlog/internal/changelog"
	"github.com/ariel-frischer/vaultlog/internal/config"
	clierrors "github.com/ariel-frischer/vaultlog/internal/errors"
	"github.com/ariel-frischer/vaultlog/internal/history"
	"github.com/ariel-frischer/vaultlog/internal/logging"
	"github.com/ariel-frischer/vaultlog/internal/notify"
	"github.com/ariel-frischer/vaultlog/internal/progress"
	"github.com/ariel-frischer/vaultlog/internal/vault"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// session holds everything one command invocation needs: the vault root,
// its merged configuration and the collaborators built from it.
type session struct {
	root     string
	cfg      *config.Configuration
	logger   *zap.Logger
	notifier *notify.Handler
	history  *history.Writer
	out      io.Writer
	errOut   io.Writer
}

// newSession resolves the vault, loads its configuration and builds the
// logger, notifier and history writer.
func newSession(cmd *cobra.Command) (*session, error) {
	root, err := resolveVaultRoot(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cmd, cfg.Log)
	if err != nil {
		return nil, clierrors.WrapWithMessage(err, clierrors.Configuration, "invalid log configuration",
			"Check the log section: vaultlog config show")
	}

	logger.Debug("session started",
		zap.String("vault", root),
		zap.String("command", cmd.CommandPath()),
		zap.String("changelog_path", cfg.ChangelogPath))

	return &session{
		root:     root,
		cfg:      cfg,
		logger:   logger,
		notifier: notify.NewHandler(cfg.Notifications, logger),
		history:  history.NewWriter(cfg.StateDir, cfg.MaxHistoryEntries, logger),
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
	}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

// resolveVaultRoot returns the absolute vault directory from --vault or the
// working directory.
func resolveVaultRoot(cmd *cobra.Command) (string, error) {
	root, _ := cmd.Flags().GetString("vault")
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", clierrors.VaultNotFound(".", err)
		}
		root = wd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", clierrors.VaultNotFound(root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", clierrors.VaultNotFound(abs, err)
	}
	if !info.IsDir() {
		return "", clierrors.VaultNotFound(abs, fmt.Errorf("%s is not a directory", abs))
	}
	return abs, nil
}

// loadConfig loads the layered configuration for root. Fallback warnings go
// to the command's stderr.
func loadConfig(cmd *cobra.Command, root string) (*config.Configuration, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		VaultRoot:         root,
		ProjectConfigPath: configPath,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, configLoadError(err)
	}
	return cfg, nil
}

func configLoadError(err error) error {
	var ve *config.ValidationError
	if errors.As(err, &ve) {
		return clierrors.ConfigParseError(ve.FilePath, err)
	}
	return clierrors.Wrap(err, clierrors.Configuration,
		"Check the --config path and file permissions")
}

// newLogger applies --debug, --verbose and --log-file on top of the log
// section of the configuration.
func newLogger(cmd *cobra.Command, cfg logging.Config) (*zap.Logger, error) {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Level = "debug"
	} else if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Level = "info"
	}
	if file, _ := cmd.Flags().GetString("log-file"); file != "" {
		cfg.File = file
	}
	return logging.New(cfg, cmd.ErrOrStderr())
}

// addChangelogFlags registers the flags that override rendering settings.
func addChangelogFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntP("max", "n", 0, "Number of documents to list (overrides max_entries)")
	f.StringSlice("exclude", nil, "Path prefix to leave out, repeatable (replaces exclude_paths)")
	f.String("format", "", "Entry time format, e.g. 'YYYY-MM-DD [at] HH[h]mm' (overrides time_format)")
	f.Bool("group-by-day", false, "Group entries under one heading per day")
	f.Bool("table", false, "Render a markdown table instead of a bullet list")
	f.StringP("output", "o", "", "Vault-relative changelog note (overrides changelog_path)")
}

// applyChangelogFlags copies explicitly set flags into cfg.
func applyChangelogFlags(cmd *cobra.Command, cfg *config.Configuration) error {
	f := cmd.Flags()

	if f.Changed("max") {
		n, _ := f.GetInt("max")
		if n < 0 {
			return clierrors.InvalidFlagValue("max", fmt.Sprint(n), "--max <n>   (n >= 0)")
		}
		cfg.MaxEntries = n
	}
	if f.Changed("exclude") {
		prefixes, _ := f.GetStringSlice("exclude")
		cfg.ExcludePaths = config.SplitList(strings.Join(prefixes, ","))
	}
	if f.Changed("format") {
		pattern, _ := f.GetString("format")
		if err := changelog.ValidateTimeFormat(pattern); err != nil {
			return clierrors.InvalidTimeFormat(pattern, err)
		}
		cfg.TimeFormat = pattern
	}
	if f.Changed("group-by-day") {
		cfg.GroupByDay, _ = f.GetBool("group-by-day")
	}
	if f.Changed("table") {
		cfg.TableOutput, _ = f.GetBool("table")
	}
	if f.Changed("output") {
		cfg.ChangelogPath, _ = f.GetString("output")
	}
	return nil
}

func (s *session) scanner() *vault.Scanner {
	return vault.NewScanner(s.root, s.cfg.ScannerOptions(s.logger)...)
}

// buildChangelog scans the vault and renders the changelog text. It returns
// the text and the number of listed documents.
func (s *session) buildChangelog(ctx context.Context) (string, int, error) {
	spin := progress.NewSpinner(s.errOut)
	spin.Start("Scanning vault")

	records, err := s.scanner().Records(ctx)
	if err != nil {
		spin.Fail("Scanning vault failed")
		return "", 0, clierrors.WrapWithMessage(err, clierrors.Runtime,
			fmt.Sprintf("scanning vault %s", s.root),
			"Check that the vault directory is readable")
	}
	spin.Stop()

	opts := s.cfg.ChangelogOptions()
	selected := changelog.Select(slices.Values(records), opts)

	var sb strings.Builder
	if err := changelog.Render(&sb, selected, opts); err != nil {
		return "", 0, err
	}

	s.logger.Debug("changelog built",
		zap.Int("documents", len(records)),
		zap.Int("entries", len(selected)))
	return sb.String(), len(selected), nil
}

// update rebuilds the changelog and writes it to the configured note.
// Every attempt, failed or not, is recorded in history; notifications are
// left to callers.
func (s *session) update(ctx context.Context, command string) (result vault.WriteResult, entries int, err error) {
	start := time.Now()
	path := s.cfg.ChangelogPath
	defer func() {
		code := ExitSuccess
		if err != nil {
			code = ExitCode(err)
		}
		s.history.LogUpdate(command, s.root, path, entries, result.Changed, code, time.Since(start))
	}()

	if strings.TrimSpace(path) == "" {
		cliErr := clierrors.ChangelogPathNotSet()
		cliErr.Cause = vault.ErrPathNotSet
		return vault.WriteResult{}, 0, cliErr
	}

	content, entries, err := s.buildChangelog(ctx)
	if err != nil {
		return vault.WriteResult{}, 0, err
	}

	result, err = vault.NewWriter(s.root).Write(path, content)
	if err != nil {
		return vault.WriteResult{}, entries, writeError(path, err)
	}

	s.logger.Info("changelog written",
		zap.String("path", result.Path),
		zap.Int("entries", entries),
		zap.Bool("changed", result.Changed))

	if result.Changed {
		s.notifier.OnUpdated(path, entries)
	}
	return result, entries, nil
}

// writeError turns a vault write failure into a CLIError that still
// matches the vault sentinel errors.
func writeError(path string, err error) error {
	switch {
	case errors.Is(err, vault.ErrOutsideVault):
		return clierrors.DestinationOutsideVault(path, err)
	case errors.Is(err, vault.ErrDestinationNotFound):
		return clierrors.DestinationNotFound(path, err)
	default:
		return clierrors.WrapWithMessage(err, clierrors.Runtime,
			fmt.Sprintf("Couldn't write changelog %s", path),
			"Check file permissions in the vault")
	}
}

// reportUpdate prints the outcome of a successful update.
func (s *session) reportUpdate(result vault.WriteResult, entries int) {
	if !result.Changed {
		fmt.Fprintf(s.out, "%s already up to date (%d %s)\n",
			s.cfg.ChangelogPath, entries, plural(entries, "entry", "entries"))
		return
	}
	fmt.Fprintf(s.out, "%s %s (%d %s)\n", cGreen("Updated"),
		s.cfg.ChangelogPath, entries, plural(entries, "entry", "entries"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

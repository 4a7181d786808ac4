// Package health provides vault health checks for vaultlog. It validates the
// vault directory, the changelog note, the git repository used for
// gitignore and commit times, and the desktop notification tools, returning
// structured reports used by the 'vaultlog doctor' command.
package health

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ariel-frischer/vaultlog/internal/config"
	"github.com/ariel-frischer/vaultlog/internal/notify"
	"github.com/ariel-frischer/vaultlog/internal/vault"
	"github.com/go-git/go-git/v5"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Optional checks are informational: a failure is shown but does not
	// fail the report.
	Optional bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Options selects what RunHealthChecks inspects.
type Options struct {
	VaultRoot string
	Config    *config.Configuration
	// Sender checks notification tools; nil uses the platform sender.
	Sender notify.Sender
}

// RunHealthChecks runs all health checks and returns a report.
func RunHealthChecks(opts Options) *HealthReport {
	sender := opts.Sender
	if sender == nil {
		sender = notify.NewSender()
	}

	report := &HealthReport{Passed: true}
	add := func(c CheckResult) {
		report.Checks = append(report.Checks, c)
		if !c.Passed && !c.Optional {
			report.Passed = false
		}
	}

	add(CheckVault(opts.VaultRoot))
	add(CheckChangelogNote(opts.VaultRoot, opts.Config.ChangelogPath))
	add(CheckGitRepository(opts.VaultRoot, opts.Config))
	add(CheckNotifications(opts.Config.Notifications, sender))

	return report
}

// CheckVault checks that the vault root is a readable directory.
func CheckVault(root string) CheckResult {
	entries, err := os.ReadDir(root)
	if err != nil {
		return CheckResult{
			Name:    "Vault",
			Passed:  false,
			Message: fmt.Sprintf("cannot read %s: %v", root, err),
		}
	}

	return CheckResult{
		Name:    "Vault",
		Passed:  true,
		Message: fmt.Sprintf("%s (%d top-level entries)", root, len(entries)),
	}
}

// CheckChangelogNote checks that changelog_path names an existing note
// inside the vault.
func CheckChangelogNote(root, rel string) CheckResult {
	if strings.TrimSpace(rel) == "" {
		return CheckResult{
			Name:    "Changelog note",
			Passed:  false,
			Message: "changelog_path is not set - run 'vaultlog config set changelog_path <note>'",
		}
	}

	dest, err := vault.Resolve(root, rel)
	if err != nil {
		return CheckResult{
			Name:    "Changelog note",
			Passed:  false,
			Message: fmt.Sprintf("%s: %v", rel, err),
		}
	}

	info, err := os.Stat(dest)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return CheckResult{
			Name:    "Changelog note",
			Passed:  false,
			Message: fmt.Sprintf("%s does not exist - create the note first", rel),
		}
	case err != nil:
		return CheckResult{
			Name:    "Changelog note",
			Passed:  false,
			Message: fmt.Sprintf("%s: %v", rel, err),
		}
	case !info.Mode().IsRegular():
		return CheckResult{
			Name:    "Changelog note",
			Passed:  false,
			Message: fmt.Sprintf("%s is not a regular file", rel),
		}
	}

	return CheckResult{
		Name:    "Changelog note",
		Passed:  true,
		Message: fmt.Sprintf("%s found", rel),
	}
}

// CheckGitRepository reports the repository enclosing the vault. It is
// required only for mtime_source: git, and even then vaultlog falls back to
// file times, so the check is optional.
func CheckGitRepository(root string, cfg *config.Configuration) CheckResult {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		msg := "not a git repository"
		if cfg.MtimeSource == string(vault.MtimeGit) {
			msg += " - mtime_source: git falls back to file times"
		}
		return CheckResult{
			Name:     "Git repository",
			Passed:   cfg.MtimeSource != string(vault.MtimeGit),
			Message:  msg,
			Optional: true,
		}
	}

	location := root
	if wt, err := repo.Worktree(); err == nil {
		location = wt.Filesystem.Root()
	}
	if _, err := repo.Head(); err != nil {
		return CheckResult{
			Name:     "Git repository",
			Passed:   cfg.MtimeSource != string(vault.MtimeGit),
			Message:  fmt.Sprintf("%s has no commits yet", location),
			Optional: true,
		}
	}

	return CheckResult{
		Name:     "Git repository",
		Passed:   true,
		Message:  fmt.Sprintf("%s (mtime_source: %s)", location, cfg.MtimeSource),
		Optional: true,
	}
}

// CheckNotifications checks that the tools for the configured notification
// type are installed.
func CheckNotifications(cfg notify.NotificationConfig, sender notify.Sender) CheckResult {
	if !cfg.Enabled {
		return CheckResult{
			Name:     "Notifications",
			Passed:   true,
			Message:  "disabled",
			Optional: true,
		}
	}

	var missing []string
	if cfg.Type != notify.OutputSound && !sender.VisualAvailable() {
		missing = append(missing, "visual")
	}
	if cfg.Type != notify.OutputVisual && !sender.SoundAvailable() {
		missing = append(missing, "sound")
	}
	if len(missing) > 0 {
		return CheckResult{
			Name:     "Notifications",
			Passed:   false,
			Message:  fmt.Sprintf("no %s notification tool found on %s", strings.Join(missing, " or "), notify.Platform()),
			Optional: true,
		}
	}

	return CheckResult{
		Name:     "Notifications",
		Passed:   true,
		Message:  fmt.Sprintf("%s notifications available", cfg.Type),
		Optional: true,
	}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var sb strings.Builder

	for _, check := range report.Checks {
		symbol := "✓"
		switch {
		case !check.Passed && check.Optional:
			symbol = "○"
		case !check.Passed:
			symbol = "✗"
		}
		fmt.Fprintf(&sb, "%s %s: %s\n", symbol, check.Name, check.Message)
	}

	return sb.String()
}

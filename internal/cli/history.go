package cli

import (
	"fmt"

	clierrors "github.com/ariel-frischer/vaultlog/internal/errors"
	"github.com/ariel-frischer/vaultlog/internal/history"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "View changelog update history",
		Long: `View a log of changelog updates with timestamp, command, note path, entry
count, exit code, and duration. Only the current vault is shown unless
--all is given.`,
		Example: `  # Last 10 updates of this vault
  vaultlog history -n 10

  # Updates across all vaults
  vaultlog history --all

  # Forget everything
  vaultlog history --clear`,
		Args: exactArgs(0),
		RunE: runHistory,
	}
	cmd.GroupID = GroupConfiguration
	cmd.Flags().Bool("all", false, "Show updates for every vault")
	cmd.Flags().IntP("limit", "n", 0, "Limit to last N entries (most recent)")
	cmd.Flags().BoolP("clear", "c", false, "Clear all history")
	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	root, err := resolveVaultRoot(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}
	return runHistoryWithStateDir(cmd, cfg.StateDir, root)
}

// runHistoryWithStateDir runs the history command against stateDir.
func runHistoryWithStateDir(cmd *cobra.Command, stateDir, vaultRoot string) error {
	clearFlag, _ := cmd.Flags().GetBool("clear")
	all, _ := cmd.Flags().GetBool("all")
	limit, _ := cmd.Flags().GetInt("limit")

	if limit < 0 {
		return clierrors.InvalidFlagValue("limit", fmt.Sprint(limit), "--limit <n>   (n >= 0)")
	}

	if clearFlag {
		if err := history.ClearHistory(stateDir); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	}

	histFile, err := history.LoadHistory(stateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	vaultFilter := vaultRoot
	if all {
		vaultFilter = ""
	}
	entries := filterEntries(histFile.Entries, vaultFilter, limit)

	if len(entries) == 0 {
		if vaultFilter != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "No history for vault '%s' (use --all for every vault).\n", vaultFilter)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No history available.")
		}
		return nil
	}

	displayEntries(cmd, entries, all)
	return nil
}

// filterEntries filters by vault and keeps the most recent limit entries.
func filterEntries(entries []history.HistoryEntry, vaultFilter string, limit int) []history.HistoryEntry {
	var result []history.HistoryEntry

	for _, entry := range entries {
		if vaultFilter == "" || entry.Vault == vaultFilter {
			result = append(result, entry)
		}
	}

	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}

	return result
}

// displayEntries formats and displays history entries.
func displayEntries(cmd *cobra.Command, entries []history.HistoryEntry, showVault bool) {
	out := cmd.OutOrStdout()

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	for _, entry := range entries {
		timestamp := entry.Timestamp.Format("2006-01-02 15:04:05")

		exitCodeStr := fmt.Sprintf("%d", entry.ExitCode)
		if entry.ExitCode == 0 {
			exitCodeStr = green(exitCodeStr)
		} else {
			exitCodeStr = red(exitCodeStr)
		}

		path := entry.Path
		if path == "" {
			path = "-"
		}
		if showVault && entry.Vault != "" {
			path = entry.Vault + " :: " + path
		}

		changed := "unchanged"
		if entry.Changed {
			changed = "changed"
		}

		fmt.Fprintf(out, "%s  %-7s  %-24s  %3d %-7s  %-9s  exit=%s  %s\n",
			cyan(timestamp),
			entry.Command,
			path,
			entry.Entries,
			plural(entry.Entries, "entry", "entries"),
			changed,
			exitCodeStr,
			entry.Duration,
		)
	}
}

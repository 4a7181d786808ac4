package cli

import (
	"fmt"

	clierrors "github.com/ariel-frischer/vaultlog/internal/errors"
	"github.com/ariel-frischer/vaultlog/internal/health"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the vault, the changelog note and optional tools",
		Long: `Check that the vault is readable and the changelog note exists, then report
on the git repository (used by respect_gitignore and mtime_source: git) and
the desktop notification tools. Only the vault and note checks can fail.`,
		Example: `  vaultlog doctor
  vaultlog doctor -C ~/Notes --output Meta/Changelog.md`,
		Args: exactArgs(0),
		RunE: runDoctor,
	}
	cmd.GroupID = GroupConfiguration
	cmd.Flags().StringP("output", "o", "", "Vault-relative changelog note (overrides changelog_path)")
	return cmd
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	root, err := resolveVaultRoot(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("output") {
		cfg.ChangelogPath, _ = cmd.Flags().GetString("output")
	}

	report := health.RunHealthChecks(health.Options{VaultRoot: root, Config: cfg})
	fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))

	if !report.Passed {
		return clierrors.NewPrerequisiteError("health checks failed",
			"Fix the items marked ✗ above")
	}
	return nil
}

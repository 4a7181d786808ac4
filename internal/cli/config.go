package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ariel-frischer/vaultlog/internal/config"
	clierrors "github.com/ariel-frischer/vaultlog/internal/errors"
	koanfjson "github.com/knadh/koanf/parsers/json"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vaultlog configuration",
		Long: `Manage vaultlog configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (VAULTLOG_*)
  2. Vault config (<vault>/.vaultlog/config.yml, or --config)
  3. Changelog plugin settings (<vault>/.obsidian/plugins/changelog/data.json)
  4. User config (~/.config/vaultlog/config.yml)
  5. Built-in defaults

Malformed values fall back to their defaults with a warning.`,
		Example: `  # Show the effective configuration
  vaultlog config show

  # Set a value in the vault config
  vaultlog config set max_entries 20

  # Set a value for every vault
  vaultlog config set --user notifications.enabled true`,
	}
	cmd.GroupID = GroupConfiguration
	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigSetCmd(),
		newConfigInitCmd(),
		newConfigPathCmd(),
		newConfigKeysCmd(),
		newConfigMigrateCmd(),
	)
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration and where it comes from",
		Args: exactArgs(0),
		RunE:  runConfigShow,
	}
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	root, err := resolveVaultRoot(cmd)
	if err != nil {
		return err
	}
	configPath, _ := cmd.Flags().GetString("config")

	values, err := config.EffectiveValues(config.LoadOptions{
		VaultRoot:         root,
		ProjectConfigPath: configPath,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return configLoadError(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cBold("Configuration Sources:"))
	printLocations(out, configLocations(root, configPath))
	fmt.Fprintf(out, "  %-8s %s*\n\n", config.SourceEnv, config.EnvPrefix)

	asJSON, _ := cmd.Flags().GetBool("json")
	var data []byte
	if asJSON {
		data, err = koanfjson.Parser().Marshal(values)
	} else {
		data, err = koanfyaml.Parser().Marshal(values)
	}
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	fmt.Fprintln(out, strings.TrimRight(string(data), "\n"))
	return nil
}

// configLocations lists the file layers, honoring a --config override for
// the vault layer.
func configLocations(root, configPath string) []config.ConfigLocation {
	locs := config.Locations(root)
	if configPath == "" {
		return locs
	}
	for i, loc := range locs {
		if loc.Source == config.SourceProject {
			_, err := os.Stat(configPath)
			locs[i] = config.ConfigLocation{Source: loc.Source, Path: configPath, Exists: err == nil}
		}
	}
	return locs
}

func printLocations(out io.Writer, locs []config.ConfigLocation) {
	for _, loc := range locs {
		status := cGreen("found")
		if !loc.Exists {
			status = cDim("not found")
		}
		fmt.Fprintf(out, "  %-8s %s (%s)\n", loc.Source, loc.Path, status)
	}
}

func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in the vault config (default) or the user config.
The value is checked against the key's type before the file is touched.
Comments and other keys in the file are preserved.

Lists accept comma-separated values: vaultlog config set exclude_paths "Templates/,Daily/"`,
		Example: `  vaultlog config set changelog_path Meta/Changelog.md
  vaultlog config set mtime_source git
  vaultlog config set --user notifications.type both`,
		Args: exactArgs(2),
		RunE: runConfigSet,
	}
	cmd.Flags().Bool("user", false, "Write to the user config instead of the vault config")
	return cmd
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	if _, err := config.ValidateValue(key, value); err != nil {
		var unknown config.ErrUnknownKey
		if errors.As(err, &unknown) {
			return clierrors.NewArgumentError(err.Error(), "List valid keys with: vaultlog config keys")
		}
		return clierrors.NewArgumentErrorWithUsage(
			fmt.Sprintf("invalid value for %s: %v", key, err),
			cmd.UseLine(),
		)
	}

	path, err := configTarget(cmd)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := config.SetConfigValue(path, key, value); err != nil {
		var ve *config.ValidationError
		if errors.As(err, &ve) {
			return clierrors.ConfigParseError(path, err)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", cCyan(key), value, path)
	return nil
}

// configTarget picks the file that set/init write: --user, --config, or
// the vault config.
func configTarget(cmd *cobra.Command) (string, error) {
	if user, _ := cmd.Flags().GetBool("user"); user {
		path, err := config.UserConfigPath()
		if err != nil {
			return "", clierrors.WrapWithMessage(err, clierrors.Configuration,
				"cannot locate the user config directory", "Set XDG_CONFIG_HOME or HOME")
		}
		return path, nil
	}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	root, err := resolveVaultRoot(cmd)
	if err != nil {
		return "", err
	}
	return config.ProjectConfigPath(root), nil
}

func newConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a commented config file with all defaults",
		Long: `Create <vault>/.vaultlog/config.yml (or the user config with --user) from
a template listing every option with its default. An existing file is left
unchanged unless --force is given.`,
		Args: exactArgs(0),
		RunE: runConfigInit,
	}
	cmd.Flags().Bool("user", false, "Create the user config instead of the vault config")
	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing config")
	return cmd
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path, err := configTarget(cmd)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(cmd.OutOrStdout(), "%s Config already exists at %s (use --force to overwrite)\n", cYellow("!"), path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", cGreen("✓"), path)
	return nil
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "List configuration file locations",
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := resolveVaultRoot(cmd)
			if err != nil {
				return err
			}
			configPath, _ := cmd.Flags().GetString("config")
			printLocations(cmd.OutOrStdout(), configLocations(root, configPath))
			return nil
		},
	}
}

func newConfigKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List every configuration key with its type and default",
		Args: exactArgs(0),
		Run: func(cmd *cobra.Command, _ []string) {
			printKeys(cmd.OutOrStdout())
		},
	}
}

func printKeys(out io.Writer) {
	keys := make([]string, 0, len(config.KnownKeys))
	for key := range config.KnownKeys {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		schema := config.KnownKeys[key]
		typ := schema.Type.String()
		if len(schema.AllowedValues) > 0 {
			typ = strings.Join(schema.AllowedValues, "|")
		}
		fmt.Fprintf(out, "%-36s %-22s default: %v\n", cCyan(key), typ, schema.Default)
		fmt.Fprintf(out, "    %s\n", cDim(schema.Description))
	}
}

func newConfigMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy changelog plugin settings into the vault config",
		Long: `Read .obsidian/plugins/changelog/data.json and write the equivalent
settings to <vault>/.vaultlog/config.yml. An existing vault config is never
overwritten. The plugin file is left untouched.`,
		Args: exactArgs(0),
		RunE: runConfigMigrate,
	}
	cmd.Flags().Bool("dry-run", false, "Show what would be migrated without writing")
	return cmd
}

func runConfigMigrate(cmd *cobra.Command, _ []string) error {
	root, err := resolveVaultRoot(cmd)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	result, err := config.MigratePluginSettings(root, dryRun)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Configuration,
			"Check that the plugin settings file is valid JSON")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Message)
	for _, key := range result.Keys {
		fmt.Fprintf(out, "  %s\n", key)
	}
	return nil
}

// exactArgs is cobra.ExactArgs reporting an argument error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return clierrors.NewArgumentErrorWithUsage(
				fmt.Sprintf("accepts %d arg(s), received %d", n, len(args)),
				cmd.UseLine(),
			)
		}
		return nil
	}
}

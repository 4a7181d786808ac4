// vaultlog - Changelog notes for markdown vaults
// Source: https://github.com/ariel-frischer/vaultlog

// Package config provides hierarchical configuration management for vaultlog using koanf.
// Configuration is loaded with priority: environment variables > vault config (.vaultlog/config.yml)
// > changelog plugin settings (.obsidian/plugins/changelog/data.json) > user config
// (~/.config/vaultlog/config.yml) > defaults. Malformed values fall back to their defaults
// with a warning; only unreadable YAML is an error.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ariel-frischer/vaultlog/internal/logging"
	"github.com/ariel-frischer/vaultlog/internal/notify"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read by vaultlog.
const EnvPrefix = "VAULTLOG_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourcePlugin  ConfigSource = "plugin"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)

// Configuration represents the vaultlog configuration
type Configuration struct {
	// ChangelogPath is the vault-relative path of the changelog note.
	// The note must already exist; vaultlog never creates it.
	ChangelogPath string `koanf:"changelog_path"`

	// MaxEntries caps the number of listed documents.
	MaxEntries int `koanf:"max_entries" validate:"min=0"`

	// Watch makes `vaultlog watch` the expected mode for this vault.
	Watch bool `koanf:"watch"`

	// ExcludePaths are path prefixes whose documents are never listed.
	// Accepts a YAML list or a comma-separated string.
	ExcludePaths []string `koanf:"exclude_paths"`

	TimeFormat  string `koanf:"time_format"`
	DayFormat   string `koanf:"day_format"`
	GroupByDay  bool   `koanf:"group_by_day"`
	TableOutput bool   `koanf:"table_output"`

	RespectGitignore bool   `koanf:"respect_gitignore"`
	MtimeSource      string `koanf:"mtime_source" validate:"oneof=filesystem git"`

	// Extensions lists the document extensions to include.
	Extensions []string `koanf:"extensions" validate:"min=1"`

	// Debounce is the quiet period before `watch` refreshes the changelog.
	Debounce time.Duration `koanf:"debounce"`

	MaxHistoryEntries int    `koanf:"max_history_entries" validate:"min=0"`
	StateDir          string `koanf:"state_dir"`

	Notifications notify.NotificationConfig `koanf:"notifications"`
	Log           logging.Config            `koanf:"log"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// VaultRoot is the vault whose project config and plugin settings are read.
	VaultRoot string
	// ProjectConfigPath overrides <vault>/.vaultlog/config.yml. A missing
	// override is an error; a missing default is not.
	ProjectConfigPath string
	// UserConfigPath overrides the user config path (default: XDG config dir).
	UserConfigPath string
	// SkipUserConfig ignores the user config entirely.
	SkipUserConfig bool
	// WarningWriter receives fallback warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses warnings
	SkipWarnings bool
}

// Load loads configuration for the vault at vaultRoot.
func Load(vaultRoot string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{VaultRoot: vaultRoot})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k, err := loadLayers(opts)
	if err != nil {
		return nil, err
	}
	return finalizeConfig(k, newWarner(opts))
}

// EffectiveValues returns the merged, sanitized configuration as a nested map,
// as used by `vaultlog config show`.
func EffectiveValues(opts LoadOptions) (map[string]interface{}, error) {
	k, err := loadLayers(opts)
	if err != nil {
		return nil, err
	}
	if _, err := finalizeConfig(k, newWarner(opts)); err != nil {
		return nil, err
	}
	return k.Raw(), nil
}

// loadLayers merges every configuration source, lowest priority first.
func loadLayers(opts LoadOptions) (*koanf.Koanf, error) {
	k := koanf.New(".")
	w := newWarner(opts)

	loadDefaults(k)

	if !opts.SkipUserConfig {
		if err := loadUserConfig(k, opts.UserConfigPath); err != nil {
			return nil, err
		}
	}

	if opts.VaultRoot != "" {
		loadPluginSettings(k, PluginSettingsPath(opts.VaultRoot), w)
	}

	if err := loadProjectConfig(k, opts); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return k, nil
}

// warner writes fallback warnings unless suppressed.
type warner struct {
	w    io.Writer
	skip bool
}

func newWarner(opts LoadOptions) warner {
	w := opts.WarningWriter
	if w == nil {
		w = os.Stderr
	}
	return warner{w: w, skip: opts.SkipWarnings}
}

func (w warner) warnf(format string, args ...interface{}) {
	if w.skip {
		return
	}
	fmt.Fprintf(w.w, "Warning: "+format+"\n", args...)
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads ~/.config/vaultlog/config.yml when present.
func loadUserConfig(k *koanf.Koanf, override string) error {
	path := override
	if path == "" {
		var err error
		if path, err = UserConfigPath(); err != nil {
			return nil
		}
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadYAMLConfig(k, path, SourceUser); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads <vault>/.vaultlog/config.yml or the explicit override.
func loadProjectConfig(k *koanf.Koanf, opts LoadOptions) error {
	path := opts.ProjectConfigPath
	if path == "" {
		if opts.VaultRoot == "" {
			return nil
		}
		path = ProjectConfigPath(opts.VaultRoot)
		if !fileExists(path) {
			return nil
		}
	} else if !fileExists(path) {
		return fmt.Errorf("config file not found: %s", path)
	}

	if err := loadYAMLConfig(k, path, SourceProject); err != nil {
		return fmt.Errorf("loading project config: %w", err)
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path string, source ConfigSource) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return err
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", source, path, err)
	}
	return nil
}

// loadPluginSettings maps the changelog plugin's data.json onto vaultlog keys.
// The file belongs to another tool, so problems with it only warn.
func loadPluginSettings(k *koanf.Koanf, path string, w warner) {
	if !fileExists(path) {
		return
	}

	pk := koanf.New(".")
	if err := pk.Load(file.Provider(path), json.Parser()); err != nil {
		w.warnf("ignoring unreadable plugin settings %s: %v", path, err)
		return
	}

	for _, m := range pluginKeyMap {
		if pk.Exists(m.plugin) {
			k.Set(m.key, pk.Get(m.plugin))
		}
	}
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// envTransform converts environment variable names to config keys.
// Example: VAULTLOG_NOTIFICATIONS_ON_ERROR -> notifications.on_error.
// Variables that do not name a known key are skipped.
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range []string{"notifications", "log"} {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			key = section + "." + rest
			break
		}
	}
	if _, ok := KnownKeys[key]; !ok {
		return ""
	}
	return key
}

// finalizeConfig sanitizes, unmarshals, and validates the merged layers.
// Invalid values are replaced by defaults with a warning.
func finalizeConfig(k *koanf.Koanf, w warner) (*Configuration, error) {
	sanitizeValues(k, w)

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}

	for range len(KnownKeys) {
		err := ValidateConfigValues(cfg, "config")
		if err == nil {
			break
		}
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field == "" {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
		schema, ok := KnownKeys[ve.Field]
		if !ok {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
		w.warnf("%s %s; using default %v", ve.Field, ve.Message, schema.Default)
		k.Set(ve.Field, schema.Default)
		if cfg, err = unmarshal(k); err != nil {
			return nil, err
		}
	}

	cfg.StateDir = expandHomePath(cfg.StateDir)
	cfg.Log.File = expandHomePath(cfg.Log.File)
	return cfg, nil
}

func unmarshal(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// sanitizeValues checks every known key against its schema, coercing valid
// values to their proper type and resetting invalid ones to the default.
func sanitizeValues(k *koanf.Koanf, w warner) {
	for _, key := range k.Keys() {
		if _, ok := KnownKeys[key]; !ok {
			w.warnf("ignoring unknown configuration key %q", key)
		}
	}

	keys := make([]string, 0, len(KnownKeys))
	for key := range KnownKeys {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if !k.Exists(key) {
			continue
		}
		schema := KnownKeys[key]
		parsed, err := coerceValue(schema, k.Get(key))
		if err != nil {
			w.warnf("%s: %v; using default %v", key, err, schema.Default)
			parsed = schema.Default
		}
		k.Set(key, parsed)
	}
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

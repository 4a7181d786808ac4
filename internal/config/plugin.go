package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/json"
	"gopkg.in/yaml.v3"
)

// pluginKeyMap maps the changelog plugin's data.json keys to vaultlog keys.
var pluginKeyMap = []struct {
	plugin string
	key    string
}{
	{plugin: "changelogFilePath", key: "changelog_path"},
	{plugin: "numberOfFilesToShow", key: "max_entries"},
	{plugin: "watchVaultChange", key: "watch"},
	{plugin: "excludePaths", key: "exclude_paths"},
}

// MigrationResult describes the outcome of a migration operation
type MigrationResult struct {
	SourcePath string
	TargetPath string
	Success    bool
	DryRun     bool
	Message    string
	// Keys lists the vaultlog keys written to the target.
	Keys []string
}

// MigratePluginSettings copies the plugin's data.json settings into the
// vault's .vaultlog/config.yml.
//
// Migration pipeline:
//  1. Read data.json → 2. Skip if config.yml exists → 3. Map keys → 4. Write
//
// The plugin file is left untouched; it belongs to the plugin.
func MigratePluginSettings(vaultRoot string, dryRun bool) (*MigrationResult, error) {
	source := PluginSettingsPath(vaultRoot)
	target := ProjectConfigPath(vaultRoot)
	result := &MigrationResult{
		SourcePath: source,
		TargetPath: target,
		DryRun:     dryRun,
	}

	data, err := os.ReadFile(source)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			result.Message = fmt.Sprintf("No plugin settings found at %s", source)
			return result, nil
		}
		return nil, fmt.Errorf("failed to read plugin settings: %w", err)
	}

	settings, err := json.Parser().Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse plugin settings: %w", err)
	}

	if _, err := os.Stat(target); err == nil {
		result.Message = fmt.Sprintf("Config already exists at %s (skipped)", target)
		return result, nil
	}

	var root yaml.Node
	for _, m := range pluginKeyMap {
		raw, ok := settings[m.plugin]
		if !ok {
			continue
		}
		value, err := coerceValue(KnownKeys[m.key], raw)
		if err != nil {
			// Same policy as loading: unusable values are left to defaults.
			continue
		}
		if err := SetNestedValue(&root, []string{m.key}, value); err != nil {
			return nil, err
		}
		result.Keys = append(result.Keys, m.key)
	}

	if len(result.Keys) == 0 {
		result.Message = fmt.Sprintf("No usable settings in %s", source)
		return result, nil
	}

	if dryRun {
		result.Success = true
		result.Message = fmt.Sprintf("Would migrate %s → %s", source, target)
		return result, nil
	}

	out, err := yaml.Marshal(&root)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	header := "# vaultlog configuration\n# Migrated from the changelog plugin settings\n\n"
	if err := os.WriteFile(target, []byte(header+string(out)), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write config: %w", err)
	}

	result.Success = true
	result.Message = fmt.Sprintf("Migrated %s → %s", source, target)
	return result, nil
}

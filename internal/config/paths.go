package config

import (
	"os"
	"path/filepath"
)

// ProjectConfigDirName is the per-vault configuration directory. It is
// dot-prefixed, so the vault scanner never lists its contents.
const ProjectConfigDirName = ".vaultlog"

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/vaultlog/config.yml
// - macOS: ~/Library/Application Support/vaultlog/config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "vaultlog"), nil
}

// ProjectConfigPath returns the vault-level config file path.
func ProjectConfigPath(vaultRoot string) string {
	return filepath.Join(ProjectConfigDir(vaultRoot), "config.yml")
}

// ProjectConfigDir returns the vault-level config directory.
func ProjectConfigDir(vaultRoot string) string {
	return filepath.Join(vaultRoot, ProjectConfigDirName)
}

// PluginSettingsPath returns the settings file of the Obsidian changelog
// plugin, which vaultlog reads as a lower-priority layer.
func PluginSettingsPath(vaultRoot string) string {
	return filepath.Join(vaultRoot, ".obsidian", "plugins", "changelog", "data.json")
}

// ConfigLocation describes one configuration file layer.
type ConfigLocation struct {
	Source ConfigSource
	Path   string
	Exists bool
}

// Locations lists the file layers for vaultRoot from lowest to highest priority.
func Locations(vaultRoot string) []ConfigLocation {
	var locs []ConfigLocation
	if p, err := UserConfigPath(); err == nil {
		locs = append(locs, ConfigLocation{Source: SourceUser, Path: p, Exists: fileExists(p)})
	}
	if vaultRoot != "" {
		plugin := PluginSettingsPath(vaultRoot)
		project := ProjectConfigPath(vaultRoot)
		locs = append(locs,
			ConfigLocation{Source: SourcePlugin, Path: plugin, Exists: fileExists(plugin)},
			ConfigLocation{Source: SourceProject, Path: project, Exists: fileExists(project)},
		)
	}
	return locs
}

package config

import (
	"time"

	"github.com/ariel-frischer/vaultlog/internal/changelog"
)

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# vaultlog configuration
# See 'vaultlog config -h' for commands, 'vaultlog config keys' for all options

# Changelog note
changelog_path: ""                    # Vault-relative path of an existing note, e.g. Changelog.md
max_entries: 10                       # Number of recently modified documents to list
exclude_paths: []                     # Path prefixes to leave out, e.g. [Templates/, Daily/]

# Rendering
time_format: "YYYY-MM-DD [at] HH[h]mm" # Moment-style tokens; [text] is literal
day_format: ""                        # Day heading pattern; empty uses the date part of time_format
group_by_day: false                   # One heading per calendar day (bullet list only)
table_output: false                   # Markdown table instead of a bullet list

# Scanning
respect_gitignore: true               # Skip documents matched by .gitignore
mtime_source: filesystem              # filesystem | git (last commit time)
extensions: [.md]                     # Document extensions to list

# Watching
watch: false                          # Expect 'vaultlog watch' for this vault
debounce: 200ms                       # Quiet period before refreshing

# History
max_history_entries: 100              # Changelog runs kept in history
state_dir: ~/.vaultlog/state          # Directory for state files

# Notifications (macOS and Linux desktops)
notifications:
  enabled: false                      # Enable notifications (opt-in)
  type: visual                        # sound | visual | both
  sound_file: ""                      # Custom sound file path (empty = system default)
  on_update: false                    # Notify when the changelog changes
  on_command_complete: false          # Notify when a command succeeds
  on_error: true                      # Notify when the changelog cannot be written

# Logging
log:
  level: warn                         # debug | info | warn | error
  file: ""                            # Rotating JSON log file (empty = console only)
  max_size: 10                        # MB per file before rotation
  max_backups: 3                      # Rotated files to keep
  max_age: 28                         # Days to keep rotated files
  compress: false                     # Gzip rotated files
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		// changelog_path: the note must already exist; empty means "not configured".
		"changelog_path": "",
		"max_entries":    changelog.DefaultMaxEntries,
		"watch":          false,
		"exclude_paths":  []string{},
		"time_format":    changelog.DefaultTimeFormat,
		"day_format":     "",
		"group_by_day":   false,
		"table_output":   false,
		// respect_gitignore: vaults synced through git usually ignore scratch folders.
		"respect_gitignore": true,
		"mtime_source":      "filesystem",
		"extensions":        []string{".md"},
		"debounce":          (200 * time.Millisecond).String(),
		// max_history_entries: oldest entries are pruned beyond this limit.
		"max_history_entries": 100,
		"state_dir":           "~/.vaultlog/state",
		// notifications: opt-in; errors notify by default once enabled.
		"notifications": map[string]interface{}{
			"enabled":             false,
			"type":                "visual",
			"sound_file":          "",
			"on_update":           false,
			"on_command_complete": false,
			"on_error":            true,
		},
		"log": map[string]interface{}{
			"level":       "warn",
			"file":        "",
			"max_size":    10,
			"max_backups": 3,
			"max_age":     28,
			"compress":    false,
		},
	}
}

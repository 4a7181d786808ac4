package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ariel-frischer/vaultlog/internal/changelog"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeDuration
	TypeString
	TypeEnum
	TypeList
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeDuration:
		return "duration"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	case TypeList:
		return "list"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path          string          // Dotted key path (e.g., "notifications.enabled")
	Type          ConfigValueType // Expected value type for validation
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
	Default       interface{}     // Default value
	Check         func(string) error
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"changelog_path": {
		Path:        "changelog_path",
		Type:        TypeString,
		Description: "Vault-relative path of the changelog note (must exist)",
		Default:     "",
	},
	"max_entries": {
		Path:        "max_entries",
		Type:        TypeInt,
		Description: "Number of recently modified documents to list",
		Default:     changelog.DefaultMaxEntries,
	},
	"watch": {
		Path:        "watch",
		Type:        TypeBool,
		Description: "Keep the changelog updated while the vault changes",
		Default:     false,
	},
	"exclude_paths": {
		Path:        "exclude_paths",
		Type:        TypeList,
		Description: "Path prefixes to leave out (list or comma-separated)",
		Default:     []string{},
	},
	"time_format": {
		Path:        "time_format",
		Type:        TypeString,
		Description: "Entry timestamp pattern (moment-style tokens, [literal] escapes)",
		Default:     changelog.DefaultTimeFormat,
		Check:       changelog.ValidateTimeFormat,
	},
	"day_format": {
		Path:        "day_format",
		Type:        TypeString,
		Description: "Day heading pattern used with group_by_day (empty: date part of time_format)",
		Default:     "",
		Check:       optionalTimeFormat,
	},
	"group_by_day": {
		Path:        "group_by_day",
		Type:        TypeBool,
		Description: "Group entries under one heading per calendar day",
		Default:     false,
	},
	"table_output": {
		Path:        "table_output",
		Type:        TypeBool,
		Description: "Render a markdown table instead of a bullet list",
		Default:     false,
	},
	"respect_gitignore": {
		Path:        "respect_gitignore",
		Type:        TypeBool,
		Description: "Skip documents matched by the vault's .gitignore",
		Default:     true,
	},
	"mtime_source": {
		Path:          "mtime_source",
		Type:          TypeEnum,
		AllowedValues: []string{"filesystem", "git"},
		Description:   "Where modification times come from",
		Default:       "filesystem",
	},
	"extensions": {
		Path:        "extensions",
		Type:        TypeList,
		Description: "Document extensions to list",
		Default:     []string{".md"},
	},
	"debounce": {
		Path:        "debounce",
		Type:        TypeDuration,
		Description: "Quiet period before watch refreshes the changelog (e.g., 200ms)",
		Default:     (200 * time.Millisecond).String(),
	},
	"max_history_entries": {
		Path:        "max_history_entries",
		Type:        TypeInt,
		Description: "Maximum number of history entries to retain",
		Default:     100,
	},
	"state_dir": {
		Path:        "state_dir",
		Type:        TypeString,
		Description: "Directory for state files",
		Default:     "~/.vaultlog/state",
	},
	"notifications.enabled": {
		Path:        "notifications.enabled",
		Type:        TypeBool,
		Description: "Enable or disable all notifications",
		Default:     false,
	},
	"notifications.type": {
		Path:          "notifications.type",
		Type:          TypeEnum,
		AllowedValues: []string{"sound", "visual", "both"},
		Description:   "Notification output type",
		Default:       "visual",
	},
	"notifications.sound_file": {
		Path:        "notifications.sound_file",
		Type:        TypeString,
		Description: "Custom sound file path for notifications",
		Default:     "",
	},
	"notifications.on_update": {
		Path:        "notifications.on_update",
		Type:        TypeBool,
		Description: "Notify when the changelog content changes",
		Default:     false,
	},
	"notifications.on_command_complete": {
		Path:        "notifications.on_command_complete",
		Type:        TypeBool,
		Description: "Notify when a command completes successfully",
		Default:     false,
	},
	"notifications.on_error": {
		Path:        "notifications.on_error",
		Type:        TypeBool,
		Description: "Notify when the changelog cannot be written",
		Default:     true,
	},
	"log.level": {
		Path:          "log.level",
		Type:          TypeEnum,
		AllowedValues: []string{"debug", "info", "warn", "error"},
		Description:   "Console log level",
		Default:       "warn",
	},
	"log.file": {
		Path:        "log.file",
		Type:        TypeString,
		Description: "Rotating JSON log file (empty = console only)",
		Default:     "",
	},
	"log.max_size": {
		Path:        "log.max_size",
		Type:        TypeInt,
		Description: "Log file size in MB before rotation",
		Default:     10,
	},
	"log.max_backups": {
		Path:        "log.max_backups",
		Type:        TypeInt,
		Description: "Rotated log files to keep",
		Default:     3,
	},
	"log.max_age": {
		Path:        "log.max_age",
		Type:        TypeInt,
		Description: "Days to keep rotated log files",
		Default:     28,
	},
	"log.compress": {
		Path:        "log.compress",
		Type:        TypeBool,
		Description: "Gzip rotated log files",
		Default:     false,
	},
}

func optionalTimeFormat(pattern string) error {
	if pattern == "" {
		return nil
	}
	return changelog.ValidateTimeFormat(pattern)
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// ParsedValue represents a configuration value after type inference and validation.
type ParsedValue struct {
	Raw    string      // Original string input from user
	Parsed interface{} // Value converted to correct type
	Type   ConfigValueType
}

// ValidateValue validates a value against the schema for a given key.
// Returns the parsed value or an error with details about what's wrong.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}
	return validateAgainstSchema(schema, value)
}

// validateAgainstSchema validates a value against a specific schema.
func validateAgainstSchema(schema ConfigKeySchema, value string) (ParsedValue, error) {
	var (
		pv  ParsedValue
		err error
	)
	switch schema.Type {
	case TypeBool:
		pv, err = parseBoolValue(value)
	case TypeInt:
		pv, err = parseIntValue(value)
	case TypeDuration:
		pv, err = parseDurationValue(value)
	case TypeEnum:
		pv, err = parseEnumValue(schema, value)
	case TypeList:
		pv = ParsedValue{Raw: value, Parsed: SplitList(value), Type: TypeList}
	case TypeString:
		pv = ParsedValue{Raw: value, Parsed: value, Type: TypeString}
	default:
		return ParsedValue{}, fmt.Errorf("unsupported type: %v", schema.Type)
	}
	if err != nil {
		return ParsedValue{}, err
	}
	if schema.Check != nil {
		if err := schema.Check(value); err != nil {
			return ParsedValue{}, err
		}
	}
	return pv, nil
}

// coerceValue converts a loaded value (from YAML, JSON or env) to the type
// the schema expects.
func coerceValue(schema ConfigKeySchema, raw interface{}) (interface{}, error) {
	if schema.Type == TypeList {
		return coerceList(raw)
	}
	s, ok := scalarString(raw)
	if !ok {
		return nil, fmt.Errorf("expected a %s, got %T", schema.Type, raw)
	}
	pv, err := validateAgainstSchema(schema, s)
	if err != nil {
		return nil, err
	}
	return pv.Parsed, nil
}

func coerceList(raw interface{}) ([]string, error) {
	switch v := raw.(type) {
	case string:
		return SplitList(v), nil
	case []string:
		return cleanList(v), nil
	case []interface{}:
		items := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := scalarString(item)
			if !ok {
				return nil, fmt.Errorf("list items must be scalars, got %T", item)
			}
			items = append(items, s)
		}
		return cleanList(items), nil
	case nil:
		return []string{}, nil
	default:
		return nil, fmt.Errorf("expected a list, got %T", raw)
	}
}

// SplitList splits a comma-separated value into trimmed, non-empty items.
func SplitList(s string) []string {
	return cleanList(strings.Split(s, ","))
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func scalarString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case time.Duration:
		return t.String(), true
	default:
		return "", false
	}
}

// parseBoolValue parses and validates a boolean value.
func parseBoolValue(value string) (ParsedValue, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true":
		return ParsedValue{Raw: value, Parsed: true, Type: TypeBool}, nil
	case "false":
		return ParsedValue{Raw: value, Parsed: false, Type: TypeBool}, nil
	default:
		return ParsedValue{}, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
	}
}

// parseIntValue parses and validates an integer value.
func parseIntValue(value string) (ParsedValue, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid integer: %q", value)
	}
	return ParsedValue{Raw: value, Parsed: n, Type: TypeInt}, nil
}

// parseDurationValue parses and validates a duration value.
func parseDurationValue(value string) (ParsedValue, error) {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid duration: %q (examples: 200ms, 1s, 2s500ms)", value)
	}
	if d < 0 {
		return ParsedValue{}, fmt.Errorf("invalid duration: %q (must not be negative)", value)
	}
	return ParsedValue{Raw: value, Parsed: d.String(), Type: TypeDuration}, nil
}

// parseEnumValue validates a value against allowed enum options.
func parseEnumValue(schema ConfigKeySchema, value string) (ParsedValue, error) {
	for _, allowed := range schema.AllowedValues {
		if value == allowed {
			return ParsedValue{Raw: value, Parsed: value, Type: TypeEnum}, nil
		}
	}
	return ParsedValue{}, fmt.Errorf(
		"invalid value: %q (valid options: %s)",
		value,
		strings.Join(schema.AllowedValues, ", "),
	)
}

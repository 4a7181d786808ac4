package errors

import "fmt"

// Common error messages for the vaultlog CLI.

// ChangelogPathNotSet is returned when no destination note is configured.
func ChangelogPathNotSet() *CLIError {
	return NewConfigError(
		"changelog path is not set",
		"Set it for this vault: vaultlog config set changelog_path Changelog.md",
		"Or pass it once: vaultlog update --output Changelog.md",
	)
}

// DestinationNotFound is returned when the changelog note does not exist or
// is not a regular file. vaultlog never creates the note itself.
func DestinationNotFound(path string, cause error) *CLIError {
	return &CLIError{
		Category: Prerequisite,
		Message:  fmt.Sprintf("Couldn't write changelog: check the file path (%s)", path),
		Remediation: []string{
			fmt.Sprintf("Create the note first: touch %q", path),
			"Or point changelog_path at an existing note: vaultlog config set changelog_path <path>",
		},
		Cause: cause,
	}
}

// DestinationOutsideVault is returned when changelog_path escapes the vault.
func DestinationOutsideVault(path string, cause error) *CLIError {
	return &CLIError{
		Category: Configuration,
		Message:  fmt.Sprintf("changelog path %q is outside the vault", path),
		Remediation: []string{
			"Use a path relative to the vault root, e.g. Changelog.md or Meta/Changelog.md",
		},
		Cause: cause,
	}
}

// VaultNotFound is returned when the vault root is missing or not a directory.
func VaultNotFound(root string, cause error) *CLIError {
	return &CLIError{
		Category: Prerequisite,
		Message:  fmt.Sprintf("vault not found: %s", root),
		Remediation: []string{
			"Run vaultlog from inside the vault, or pass --vault <dir>",
			"Check that the directory exists and is readable",
		},
		Cause: cause,
	}
}

// ConfigParseError is returned when a configuration file cannot be parsed.
func ConfigParseError(path string, cause error) *CLIError {
	return WrapWithMessage(cause, Configuration,
		fmt.Sprintf("failed to parse config %s", path),
		"Fix the YAML syntax at the reported line",
		"Show the effective configuration with: vaultlog config show",
	)
}

// InvalidFlagValue is returned when a command flag has an unusable value.
func InvalidFlagValue(flag, value, usage string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid value %q for --%s", value, flag),
		usage,
		"Run with --help to see accepted values",
	)
}

// InvalidTimeFormat is returned when a time pattern has no usable tokens.
func InvalidTimeFormat(pattern string, cause error) *CLIError {
	return WrapWithMessage(cause, Argument,
		fmt.Sprintf("invalid time format %q", pattern),
		"Use moment-style tokens, e.g. YYYY-MM-DD [at] HH[h]mm",
		"Wrap literal text in square brackets: [at]",
	)
}

// WatchFailed is returned when the file watcher stops unexpectedly.
func WatchFailed(cause error) *CLIError {
	return WrapWithMessage(cause, Runtime,
		"watching the vault failed",
		"Check the system limit on watched directories (fs.inotify.max_user_watches on Linux)",
		"Run 'vaultlog update' manually until the watcher is restarted",
	)
}

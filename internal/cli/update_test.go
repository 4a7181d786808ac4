// Package cli tests the update, show and default commands end to end.
// Related: internal/cli/update.go, internal/cli/show.go, internal/cli/session.go
// Tags: cli, update, show, changelog, exit-codes

package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ariel-frischer/vaultlog/internal/changelog"
	"github.com/ariel-frischer/vaultlog/internal/config"
	"github.com/ariel-frischer/vaultlog/internal/history"
	"github.com/ariel-frischer/vaultlog/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUpdate_WritesChangelog(t *testing.T) {
	home := isolate(t)
	vaultRoot := newVault(t)

	out, _, err := runCLI(t, "update", "-C", vaultRoot, "--output", "Changelog.md")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated Changelog.md (3 entries)")

	content := readNote(t, vaultRoot, "Changelog.md")
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], changelog.EntrySeparator+"[[Daily]]"))
	assert.True(t, strings.HasSuffix(lines[1], changelog.EntrySeparator+"[[B]]"))
	assert.True(t, strings.HasSuffix(lines[2], changelog.EntrySeparator+"[[A]]"))
	assert.NotContains(t, content, "[[Changelog]]")
	assert.NotContains(t, content, "[[workspace]]")

	// A second run finds nothing to change.
	out, _, err = runCLI(t, "update", "-C", vaultRoot, "--output", "Changelog.md")
	require.NoError(t, err)
	assert.Contains(t, out, "already up to date")

	hist, err := history.LoadHistory(filepath.Join(home, ".vaultlog", "state"))
	require.NoError(t, err)
	require.Len(t, hist.Entries, 2)
	assert.True(t, hist.Entries[0].Changed)
	assert.False(t, hist.Entries[1].Changed)
	assert.Equal(t, vaultRoot, hist.Entries[0].Vault)
	assert.Equal(t, 3, hist.Entries[0].Entries)
}

func TestUpdate_UsesVaultConfig(t *testing.T) {
	isolate(t)
	vaultRoot := newVault(t)
	writeConfig(t, vaultRoot, "changelog_path: Changelog.md\nmax_entries: 1\nexclude_paths: Templates/\n")

	_, _, err := runCLI(t, "update", "-C", vaultRoot)
	require.NoError(t, err)

	content := readNote(t, vaultRoot, "Changelog.md")
	assert.Contains(t, content, "[[B]]")
	assert.Equal(t, 1, strings.Count(content, "\n"))
}

func TestUpdate_FlagsOverrideConfig(t *testing.T) {
	isolate(t)
	vaultRoot := newVault(t)
	writeConfig(t, vaultRoot, "changelog_path: Changelog.md\nmax_entries: 1\n")

	_, _, err := runCLI(t, "update", "-C", vaultRoot, "--max", "5", "--exclude", "Templates/", "--table", "--format", "YYYY")
	require.NoError(t, err)

	content := readNote(t, vaultRoot, "Changelog.md")
	assert.True(t, strings.HasPrefix(content, changelog.TableHeader+"\n"+changelog.TableSeparator+"\n"))
	assert.Contains(t, content, "| [[B]] | 2024 |")
	assert.Contains(t, content, "| [[A]] | 2024 |")
	assert.NotContains(t, content, "[[Daily]]")
}

func TestUpdate_Errors(t *testing.T) {
	tests := map[string]struct {
		args     []string
		config   string
		wantCode int
		wantMsg  string
	}{
		"path not set": {
			args:     []string{"update"},
			wantCode: ExitDestinationMissing,
			wantMsg:  "changelog path is not set",
		},
		"destination missing": {
			args:     []string{"update", "--output", "Missing.md"},
			wantCode: ExitDestinationMissing,
			wantMsg:  "Couldn't write changelog: check the file path",
		},
		"destination is a directory": {
			args:     []string{"update", "--output", "Projects"},
			wantCode: ExitDestinationMissing,
		},
		"destination outside vault": {
			args:     []string{"update", "--output", "../outside.md"},
			wantCode: ExitDestinationMissing,
			wantMsg:  "outside the vault",
		},
		"negative max": {
			args:     []string{"update", "--output", "Changelog.md", "--max", "-1"},
			wantCode: ExitInvalidArguments,
			wantMsg:  `invalid value "-1" for --max`,
		},
		"format without tokens": {
			args:     []string{"update", "--output", "Changelog.md", "--format", "[plain]"},
			wantCode: ExitInvalidArguments,
			wantMsg:  "invalid time format",
		},
		"positional argument": {
			args:     []string{"update", "extra"},
			wantCode: ExitInvalidArguments,
		},
		"broken config": {
			args:     []string{"update"},
			config:   "max_entries: [1\n",
			wantCode: ExitFailure,
			wantMsg:  "failed to parse config",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			vaultRoot := newVault(t)
			if tt.config != "" {
				writeConfig(t, vaultRoot, tt.config)
			}
			before := readNote(t, vaultRoot, "Changelog.md")

			_, _, err := runCLI(t, append(tt.args, "-C", vaultRoot)...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, ExitCode(err))
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}

			assert.Equal(t, before, readNote(t, vaultRoot, "Changelog.md"))
			_, statErr := os.Stat(filepath.Join(vaultRoot, "Missing.md"))
			assert.True(t, os.IsNotExist(statErr), "the note is never created")
		})
	}
}

func TestUpdate_RecordsFailedAttempts(t *testing.T) {
	tests := map[string]struct {
		args     []string
		wantPath string
		wantCode int
	}{
		"path not set": {
			args:     []string{"update"},
			wantCode: ExitDestinationMissing,
		},
		"destination missing": {
			args:     []string{"update", "--output", "Missing.md"},
			wantPath: "Missing.md",
			wantCode: ExitDestinationMissing,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			home := isolate(t)
			vaultRoot := newVault(t)

			_, _, err := runCLI(t, append(tt.args, "-C", vaultRoot)...)
			require.Error(t, err)

			hist, err := history.LoadHistory(filepath.Join(home, ".vaultlog", "state"))
			require.NoError(t, err)
			require.Len(t, hist.Entries, 1)
			entry := hist.Entries[0]
			assert.Equal(t, "update", entry.Command)
			assert.Equal(t, tt.wantPath, entry.Path)
			assert.Equal(t, tt.wantCode, entry.ExitCode)
			assert.False(t, entry.Changed)
		})
	}
}

func TestSessionUpdate_RecordsScanFailure(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()
	s := &session{
		root:     filepath.Join(t.TempDir(), "removed-vault"),
		cfg:      &config.Configuration{ChangelogPath: "Changelog.md", MaxEntries: 10, Extensions: []string{".md"}},
		logger:   zap.NewNop(),
		notifier: notify.NewHandler(notify.DefaultConfig(), zap.NewNop()),
		history:  history.NewWriter(stateDir, 10, nil),
		out:      io.Discard,
		errOut:   io.Discard,
	}

	_, _, err := s.update(context.Background(), "watch")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, ExitCode(err))

	hist, err := history.LoadHistory(stateDir)
	require.NoError(t, err)
	require.Len(t, hist.Entries, 1)
	assert.Equal(t, "watch", hist.Entries[0].Command)
	assert.Equal(t, "Changelog.md", hist.Entries[0].Path)
	assert.Equal(t, ExitFailure, hist.Entries[0].ExitCode)
}

func TestUpdate_VaultNotFound(t *testing.T) {
	isolate(t)

	_, _, err := runCLI(t, "update", "-C", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault not found")
	assert.Equal(t, ExitFailure, ExitCode(err))
}

func TestUpdate_MalformedConfigFallsBack(t *testing.T) {
	isolate(t)
	vaultRoot := newVault(t)
	writeConfig(t, vaultRoot, "changelog_path: Changelog.md\nmax_entries: lots\n")

	_, stderr, err := runCLI(t, "update", "-C", vaultRoot)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Warning: max_entries")
	assert.Equal(t, 3, strings.Count(readNote(t, vaultRoot, "Changelog.md"), "\n"))
}

func TestDefaultCommand_Updates(t *testing.T) {
	isolate(t)
	vaultRoot := newVault(t)

	_, _, err := runCLI(t, "-C", vaultRoot, "--output", "Changelog.md", "--max", "2")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(readNote(t, vaultRoot, "Changelog.md"), "\n"))
}

func TestShow(t *testing.T) {
	tests := map[string]struct {
		args  []string
		check func(t *testing.T, out string)
	}{
		"bullets": {
			args: []string{"show", "--output", "Changelog.md"},
			check: func(t *testing.T, out string) {
				assert.Equal(t, 3, strings.Count(out, "\n"))
				assert.Less(t, strings.Index(out, "[[Daily]]"), strings.Index(out, "[[A]]"))
			},
		},
		"table with no entries": {
			args: []string{"show", "--table", "--max", "0"},
			check: func(t *testing.T, out string) {
				assert.Equal(t, changelog.TableHeader+"\n"+changelog.TableSeparator+"\n", out)
			},
		},
		"empty bullets": {
			args: []string{"show", "--max", "0"},
			check: func(t *testing.T, out string) {
				assert.Empty(t, out)
			},
		},
		"group by day": {
			args: []string{"show", "--output", "Changelog.md", "--group-by-day", "--format", "HH:mm"},
			check: func(t *testing.T, out string) {
				assert.Equal(t, 1, strings.Count(out, "### "), "all notes share one day")
				assert.Contains(t, out, "- 17:05"+changelog.EntrySeparator+"[[Daily]]")
			},
		},
		"changelog path still excluded": {
			args: []string{"show", "--output", "Projects/B.md"},
			check: func(t *testing.T, out string) {
				assert.NotContains(t, out, "[[B]]")
				assert.Contains(t, out, "[[Changelog]]")
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			vaultRoot := newVault(t)
			before := readNote(t, vaultRoot, "Changelog.md")

			out, _, err := runCLI(t, append(tt.args, "-C", vaultRoot)...)
			require.NoError(t, err)
			tt.check(t, out)
			assert.Equal(t, before, readNote(t, vaultRoot, "Changelog.md"), "show never writes")
		})
	}
}

func writeConfig(t *testing.T, vaultRoot, content string) {
	t.Helper()
	path := config.ProjectConfigPath(vaultRoot)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

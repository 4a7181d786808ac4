// Package history records changelog writes in a small YAML log under the
// state directory so that `vaultlog history` can show what changed and when.
package history

import "time"

// HistoryFileName is the name of the history log inside the state directory.
const HistoryFileName = "history.yaml"

// HistoryEntry is one recorded changelog run.
type HistoryEntry struct {
	ID        string    `yaml:"id"`
	Timestamp time.Time `yaml:"timestamp"`
	Command   string    `yaml:"command"`
	Vault     string    `yaml:"vault,omitempty"`
	Path      string    `yaml:"path,omitempty"`
	Entries   int       `yaml:"entries"`
	Changed   bool      `yaml:"changed"`
	ExitCode  int       `yaml:"exit_code"`
	Duration  string    `yaml:"duration"`
}

// HistoryFile is the on-disk layout of the history log.
type HistoryFile struct {
	Entries []HistoryEntry `yaml:"entries"`
}

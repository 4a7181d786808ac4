package history

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Writer provides thread-safe history logging with automatic pruning.
type Writer struct {
	// StateDir is the directory containing the history file.
	StateDir string
	// MaxEntries is the maximum number of entries to retain (0 keeps all).
	MaxEntries int

	logger *zap.Logger
	mu     sync.Mutex
}

// NewWriter creates a new history writer.
func NewWriter(stateDir string, maxEntries int, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{
		StateDir:   stateDir,
		MaxEntries: maxEntries,
		logger:     logger,
	}
}

// LogEntry adds a new entry to the history file.
// Errors are non-fatal: they are logged as warnings and never fail a command.
func (w *Writer) LogEntry(entry HistoryEntry) {
	if err := w.logEntryInternal(entry); err != nil {
		w.logger.Warn("failed to log history", zap.String("state_dir", w.StateDir), zap.Error(err))
	}
}

func (w *Writer) logEntryInternal(entry HistoryEntry) error {
	if w.StateDir == "" {
		return fmt.Errorf("state directory not set")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	history, err := LoadHistory(w.StateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	history.Entries = append(history.Entries, entry)

	// Prune oldest entries if over limit
	if w.MaxEntries > 0 && len(history.Entries) > w.MaxEntries {
		excess := len(history.Entries) - w.MaxEntries
		history.Entries = history.Entries[excess:]
	}

	if err := SaveHistory(w.StateDir, history); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}

	return nil
}

// LogUpdate is a convenience method to record one changelog run.
func (w *Writer) LogUpdate(command, vault, path string, entries int, changed bool, exitCode int, duration time.Duration) {
	w.LogEntry(HistoryEntry{
		Timestamp: time.Now(),
		Command:   command,
		Vault:     vault,
		Path:      path,
		Entries:   entries,
		Changed:   changed,
		ExitCode:  exitCode,
		Duration:  duration.Round(time.Millisecond).String(),
	})
}

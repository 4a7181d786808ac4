// Package vault reads documents from a markdown vault on disk and writes the
// changelog note back into it. It is the file-system side of the changelog
// package: the Scanner produces changelog.FileRecord snapshots and the Writer
// replaces the destination note's content.
package vault

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ariel-frischer/vaultlog/internal/changelog"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"go.uber.org/zap"
)

// MtimeSource selects where modification times come from.
type MtimeSource string

const (
	// MtimeFilesystem uses the file's modification time.
	MtimeFilesystem MtimeSource = "filesystem"
	// MtimeGit uses the time of the last commit touching the file.
	MtimeGit MtimeSource = "git"
)

// DefaultExtensions are the document extensions listed in the changelog.
var DefaultExtensions = []string{".md"}

// Scanner enumerates the documents of a vault.
type Scanner struct {
	root             string
	extensions       []string
	respectGitignore bool
	mtimeSource      MtimeSource
	logger           *zap.Logger

	// ignoreOnce guards the matcher cached for Ignores. Walk reloads its own.
	ignoreOnce sync.Once
	ignore     gitignore.Matcher
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithExtensions sets the file extensions to include (e.g. ".md", ".canvas").
func WithExtensions(exts ...string) ScannerOption {
	return func(s *Scanner) {
		if len(exts) > 0 {
			s.extensions = normalizeExtensions(exts)
		}
	}
}

// WithGitignore enables or disables .gitignore filtering.
func WithGitignore(enabled bool) ScannerOption {
	return func(s *Scanner) {
		s.respectGitignore = enabled
	}
}

// WithMtimeSource sets where modification times come from.
func WithMtimeSource(src MtimeSource) ScannerOption {
	return func(s *Scanner) {
		if src != "" {
			s.mtimeSource = src
		}
	}
}

// WithLogger sets the logger for scan diagnostics.
func WithLogger(l *zap.Logger) ScannerOption {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewScanner creates a Scanner rooted at root.
func NewScanner(root string, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		root:             root,
		extensions:       DefaultExtensions,
		respectGitignore: true,
		mtimeSource:      MtimeFilesystem,
		logger:           zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Root returns the vault root directory.
func (s *Scanner) Root() string {
	return s.root
}

// Records walks the vault and returns every matching document.
func (s *Scanner) Records(ctx context.Context) ([]changelog.FileRecord, error) {
	var records []changelog.FileRecord
	err := s.Walk(ctx, func(r changelog.FileRecord) error {
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Walk calls fn for each matching document in lexical order.
// It stops at the first error returned by fn or when ctx is cancelled.
func (s *Scanner) Walk(ctx context.Context, fn func(changelog.FileRecord) error) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("opening vault %s: %w", s.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault %s is not a directory", s.root)
	}

	matcher := s.loadIgnoreMatcher()
	commitTimes := s.loadCommitTimes(ctx)

	return filepath.WalkDir(s.root, func(p string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			// Unreadable entries are skipped rather than aborting the whole scan.
			s.logger.Debug("skipping unreadable path", zap.String("path", p), zap.Error(walkErr))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", p, err)
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if IsHidden(d.Name()) || ignored(matcher, rel, true) {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || IsHidden(d.Name()) || !s.HasDocumentExtension(d.Name()) {
			return nil
		}
		if ignored(matcher, rel, false) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			s.logger.Debug("skipping file without stat", zap.String("path", rel), zap.Error(err))
			return nil
		}

		return fn(changelog.FileRecord{
			Path:               rel,
			Basename:           Basename(rel),
			LastModifiedMillis: commitTimes.resolve(rel, fi.ModTime().UnixMilli()),
		})
	})
}

// HasDocumentExtension reports whether name has one of the scanner's extensions.
func (s *Scanner) HasDocumentExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range s.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Ignores reports whether a vault-relative slash path is excluded by the
// vault's .gitignore files. The patterns are read once, on first use.
func (s *Scanner) Ignores(rel string, isDir bool) bool {
	s.ignoreOnce.Do(func() {
		s.ignore = s.loadIgnoreMatcher()
	})
	return ignored(s.ignore, rel, isDir)
}

// loadIgnoreMatcher reads .gitignore files under the vault root.
// Returns nil when disabled or when no patterns exist.
func (s *Scanner) loadIgnoreMatcher() gitignore.Matcher {
	if !s.respectGitignore {
		return nil
	}

	patterns, err := gitignore.ReadPatterns(osfs.New(s.root), nil)
	if err != nil {
		s.logger.Debug("reading .gitignore patterns failed", zap.Error(err))
		return nil
	}
	if len(patterns) == 0 {
		return nil
	}

	s.logger.Debug("loaded .gitignore patterns", zap.Int("count", len(patterns)))
	return gitignore.NewMatcher(patterns)
}

// loadCommitTimes returns commit times when the git mtime source is selected.
func (s *Scanner) loadCommitTimes(ctx context.Context) *commitTimes {
	if s.mtimeSource != MtimeGit {
		return nil
	}

	times, err := loadCommitTimes(ctx, s.root)
	if err != nil {
		s.logger.Warn("falling back to file modification times", zap.Error(err))
		return nil
	}
	return times
}

func ignored(m gitignore.Matcher, rel string, isDir bool) bool {
	if m == nil {
		return false
	}
	return m.Match(strings.Split(rel, "/"), isDir)
}

// IsHidden reports whether a file or directory name is hidden (dot-prefixed).
// This covers .obsidian, .git and .trash.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// Basename returns the file name of a slash-separated path without its extension.
func Basename(rel string) string {
	base := path.Base(rel)
	return strings.TrimSuffix(base, path.Ext(base))
}

// normalizeExtensions lowercases extensions and ensures a leading dot.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		return DefaultExtensions
	}
	return out
}

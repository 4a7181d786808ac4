package vault

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrDestinationNotFound is returned when the changelog note does not exist
	// or is not a regular file. The note is never created implicitly.
	ErrDestinationNotFound = errors.New("changelog destination not found")

	// ErrOutsideVault is returned for destination paths that escape the vault root.
	ErrOutsideVault = errors.New("path is outside the vault")

	// ErrPathNotSet is returned when no destination path is configured.
	ErrPathNotSet = errors.New("changelog path is not set")
)

// WriteResult describes the outcome of a successful Write.
type WriteResult struct {
	// Path is the absolute path of the destination note.
	Path string
	// Changed is false when the note already had the requested content.
	Changed bool
	// Bytes is the size of the content written.
	Bytes int
}

// Writer replaces the content of the changelog note inside a vault.
type Writer struct {
	root string
}

// NewWriter creates a Writer for the vault at root.
func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// Write replaces the note at rel (vault-relative) with content.
//
// The destination must already exist as a regular file; otherwise
// ErrDestinationNotFound is returned and nothing is written. A symlinked
// note is written through to its target, which must also live in the vault.
// The replacement is atomic: content goes to a temporary file in the target's
// directory which is then renamed over it, keeping its permissions.
func (w *Writer) Write(rel, content string) (WriteResult, error) {
	dest, err := Resolve(w.root, rel)
	if err != nil {
		return WriteResult{}, err
	}

	target, err := w.followLinks(dest, rel)
	if err != nil {
		return WriteResult{}, err
	}

	info, err := os.Stat(target)
	if err != nil {
		return WriteResult{}, fmt.Errorf("checking %s: %w", rel, err)
	}
	if !info.Mode().IsRegular() {
		return WriteResult{}, fmt.Errorf("%w: %s is not a file", ErrDestinationNotFound, rel)
	}

	current, err := os.ReadFile(target)
	if err != nil {
		return WriteResult{}, fmt.Errorf("reading %s: %w", rel, err)
	}
	if bytes.Equal(current, []byte(content)) {
		return WriteResult{Path: dest, Changed: false, Bytes: len(content)}, nil
	}

	if err := atomicWrite(target, []byte(content), info.Mode().Perm()); err != nil {
		return WriteResult{}, fmt.Errorf("writing %s: %w", rel, err)
	}

	return WriteResult{Path: dest, Changed: true, Bytes: len(content)}, nil
}

// followLinks resolves symlinks in dest so the rename lands on the real note
// instead of replacing the link.
func (w *Writer) followLinks(dest, rel string) (string, error) {
	target, err := filepath.EvalSymlinks(dest)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrDestinationNotFound, rel)
		}
		return "", fmt.Errorf("checking %s: %w", rel, err)
	}

	root, err := filepath.EvalSymlinks(w.root)
	if err != nil {
		root = w.root
	}
	if !within(root, target) {
		return "", fmt.Errorf("%w: %s links to %s", ErrOutsideVault, rel, target)
	}
	return target, nil
}

// atomicWrite writes data to a temp file next to dest and renames it into place.
func atomicWrite(dest string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".vaultlog-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing file: %w", err)
	}
	return nil
}

// Resolve joins a vault-relative path onto root and rejects results that
// escape the vault.
func Resolve(root, rel string) (string, error) {
	if strings.TrimSpace(rel) == "" {
		return "", ErrPathNotSet
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s (expected a vault-relative path)", ErrOutsideVault, rel)
	}

	joined := filepath.Join(root, filepath.FromSlash(rel))
	if !within(root, joined) {
		return "", fmt.Errorf("%w: %s", ErrOutsideVault, rel)
	}
	return joined, nil
}

func within(root, path string) bool {
	back, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return back != ".." && !strings.HasPrefix(back, ".."+string(filepath.Separator))
}

// NormalizeRel converts a user-supplied destination to the slash form used in
// FileRecord.Path so that it can be compared against scanned records.
func NormalizeRel(rel string) string {
	rel = strings.TrimSpace(rel)
	if rel == "" {
		return ""
	}
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(filepath.FromSlash(rel))), "./")
}

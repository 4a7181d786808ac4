package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commitAll stages the given repo-relative files and commits them at when.
func commitAll(t *testing.T, wt *git.Worktree, when time.Time, files ...string) {
	t.Helper()
	for _, f := range files {
		_, err := wt.Add(f)
		require.NoError(t, err)
	}
	sig := &object.Signature{Name: "Vault Tester", Email: "tester@example.com", When: when}
	_, err := wt.Commit("update notes", &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)
}

func TestScanner_GitMtimeSource(t *testing.T) {
	t.Parallel()

	repoRoot := t.TempDir()
	repo, err := git.PlainInit(repoRoot, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	// The vault lives in a subdirectory of the repository.
	vaultRoot := filepath.Join(repoRoot, "vault")
	fsTime := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	first := time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)
	second := time.Date(2024, time.February, 20, 18, 30, 0, 0, time.UTC)

	writeNote(t, vaultRoot, "a.md", fsTime)
	writeNote(t, vaultRoot, "b.md", fsTime)
	writeNote(t, repoRoot, "README.md", fsTime)
	commitAll(t, wt, first, "vault/a.md", "vault/b.md", "README.md")

	require.NoError(t, os.WriteFile(filepath.Join(vaultRoot, "b.md"), []byte("changed\n"), 0o644))
	commitAll(t, wt, second, "vault/b.md")

	// Uncommitted edit and an untracked note fall back to file times.
	dirtyTime := time.Date(2024, time.March, 3, 3, 3, 0, 0, time.UTC)
	require.NoError(t, os.WriteFile(filepath.Join(vaultRoot, "a.md"), []byte("edited\n"), 0o644))
	require.NoError(t, os.Chtimes(filepath.Join(vaultRoot, "a.md"), dirtyTime, dirtyTime))
	writeNote(t, vaultRoot, "c.md", fsTime)
	require.NoError(t, os.Chtimes(filepath.Join(vaultRoot, "b.md"), fsTime, fsTime))

	records, err := NewScanner(vaultRoot, WithMtimeSource(MtimeGit)).Records(context.Background())
	require.NoError(t, err)

	got := make(map[string]int64, len(records))
	for _, r := range records {
		got[r.Path] = r.LastModifiedMillis
	}

	assert.Equal(t, map[string]int64{
		"a.md": dirtyTime.UnixMilli(),
		"b.md": second.UnixMilli(),
		"c.md": fsTime.UnixMilli(),
	}, got)
}

func TestScanner_GitMtimeSourceOutsideRepository(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mt := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	writeNote(t, root, "a.md", mt)

	records, err := NewScanner(root, WithMtimeSource(MtimeGit)).Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, mt.UnixMilli(), records[0].LastModifiedMillis)
}

func TestCommitTimes_NilResolvesToFallback(t *testing.T) {
	t.Parallel()

	var ct *commitTimes
	assert.Equal(t, int64(42), ct.resolve("a.md", 42))
}

func TestUnderPrefix(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		name   string
		prefix string
		want   string
		wantOK bool
	}{
		"no prefix":      {name: "a.md", prefix: "", want: "a.md", wantOK: true},
		"inside prefix":  {name: "vault/a.md", prefix: "vault/", want: "a.md", wantOK: true},
		"outside prefix": {name: "README.md", prefix: "vault/", wantOK: false},
		"sibling folder": {name: "vaults/a.md", prefix: "vault/", wantOK: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, ok := underPrefix(tt.name, tt.prefix)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVaultPrefix(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	sub := filepath.Join(repo, "notes", "vault")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	p, err := vaultPrefix(repo, repo)
	require.NoError(t, err)
	assert.Equal(t, "", p)

	p, err = vaultPrefix(repo, sub)
	require.NoError(t, err)
	assert.Equal(t, "notes/vault/", p)
}

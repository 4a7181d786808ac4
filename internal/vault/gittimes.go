package vault

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// maxHistoryCommits bounds the history walk on very long-lived repositories.
const maxHistoryCommits = 10000

// commitTimes maps vault-relative paths to the time of the last commit that
// changed them. A nil *commitTimes resolves every path to its fallback.
type commitTimes struct {
	times map[string]int64
	dirty map[string]bool
}

// resolve returns the commit time for rel, or fallback when the file is
// unknown to git or has uncommitted changes.
func (c *commitTimes) resolve(rel string, fallback int64) int64 {
	if c == nil || c.dirty[rel] {
		return fallback
	}
	if t, ok := c.times[rel]; ok {
		return t
	}
	return fallback
}

// loadCommitTimes walks history from HEAD, newest commit first, and records
// the first (latest) commit time seen for each file under root.
func loadCommitTimes(ctx context.Context, root string) (*commitTimes, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", root, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	prefix, err := vaultPrefix(wt.Filesystem.Root(), root)
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}

	commits, err := repo.Log(&git.LogOptions{
		From:  head.Hash(),
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("reading commit log: %w", err)
	}
	defer commits.Close()

	ct := &commitTimes{
		times: make(map[string]int64),
		dirty: make(map[string]bool),
	}

	walked := 0
	err = commits.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walked++; walked > maxHistoryCommits {
			return storer.ErrStop
		}

		names, err := changedFiles(c)
		if err != nil {
			return fmt.Errorf("diffing commit %s: %w", c.Hash, err)
		}
		for _, name := range names {
			rel, ok := underPrefix(name, prefix)
			if !ok {
				continue
			}
			if _, seen := ct.times[rel]; !seen {
				ct.times[rel] = c.Committer.When.UnixMilli()
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("getting worktree status: %w", err)
	}
	for name, st := range status {
		if st.Worktree == git.Unmodified && st.Staging == git.Unmodified {
			continue
		}
		if rel, ok := underPrefix(name, prefix); ok {
			ct.dirty[rel] = true
		}
	}

	return ct, nil
}

// changedFiles lists the paths added or modified by c relative to its first parent.
// Root commits report every file in their tree.
func changedFiles(c *object.Commit) ([]string, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}

	if c.NumParents() == 0 {
		var names []string
		err := tree.Files().ForEach(func(f *object.File) error {
			names = append(names, f.Name)
			return nil
		})
		return names, err
	}

	parent, err := c.Parent(0)
	if err != nil {
		return nil, err
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(changes))
	for _, ch := range changes {
		if ch.To.Name != "" {
			names = append(names, ch.To.Name)
		}
	}
	return names, nil
}

// vaultPrefix returns the vault root relative to the repository root, in
// slash form with a trailing slash, or "" when they are the same directory.
func vaultPrefix(repoRoot, vaultRoot string) (string, error) {
	repoAbs, err := canonical(repoRoot)
	if err != nil {
		return "", err
	}
	vaultAbs, err := canonical(vaultRoot)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(repoAbs, vaultAbs)
	if err != nil {
		return "", fmt.Errorf("locating vault inside repository: %w", err)
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel) + "/", nil
}

func canonical(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", p, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

func underPrefix(name, prefix string) (string, bool) {
	if prefix == "" {
		return name, true
	}
	if !strings.HasPrefix(name, prefix) {
		return "", false
	}
	return strings.TrimPrefix(name, prefix), true
}

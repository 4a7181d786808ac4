package changelog

import (
	"cmp"
	"iter"
	"slices"
	"strings"
)

// Build renders the changelog for files. It is equivalent to BuildSeq over
// slices.Values(files).
func Build(files []FileRecord, opts Options) string {
	return BuildSeq(slices.Values(files), opts)
}

// BuildSeq consumes files once and returns the rendered changelog text.
//
// Bullet output for an empty selection is the empty string. Table output
// always carries the header and separator rows, even with no entries.
func BuildSeq(files iter.Seq[FileRecord], opts Options) string {
	var sb strings.Builder
	// strings.Builder never returns a write error
	_ = Render(&sb, Select(files, opts), opts)
	return sb.String()
}

// Select applies exclusion, ordering and truncation without rendering.
//
// Records are sorted by LastModifiedMillis descending. The sort is stable, so
// records with equal times keep their input order.
func Select(files iter.Seq[FileRecord], opts Options) []FileRecord {
	prefixes := normalizePrefixes(opts.ExcludePrefixes)

	var kept []FileRecord
	for f := range files {
		if opts.ExcludedPath != "" && f.Path == opts.ExcludedPath {
			continue
		}
		if hasExcludedPrefix(f.Path, prefixes) {
			continue
		}
		kept = append(kept, f)
	}

	slices.SortStableFunc(kept, func(a, b FileRecord) int {
		return cmp.Compare(b.LastModifiedMillis, a.LastModifiedMillis)
	})

	limit := max(opts.MaxEntries, 0)
	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// normalizePrefixes trims each prefix and drops empty ones. An empty prefix
// would otherwise match every path.
func normalizePrefixes(prefixes []string) []string {
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// hasExcludedPrefix reports whether path starts with any prefix.
// Matching is on the raw string, not on path segments: "Meet" excludes "Meetings/x.md".
func hasExcludedPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

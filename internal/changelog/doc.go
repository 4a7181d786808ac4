// Package changelog builds the "recently modified" changelog note for a vault.
//
// This package implements:
//   - Selection of the most recently modified documents (exclusion, stable sort, truncation)
//   - Bullet-list and table rendering with [[wiki-link]] references
//   - Optional per-day grouping of bullet entries
//   - Moment-style time pattern formatting (YYYY-MM-DD [at] HH[h]mm)
//
// Everything here is a pure transformation over FileRecord snapshots. The
// package never touches the file system; callers obtain records from the
// vault package and hand the resulting text to a writer.
package changelog

package config

import (
	"slices"

	"github.com/ariel-frischer/vaultlog/internal/changelog"
	"github.com/ariel-frischer/vaultlog/internal/vault"
	"go.uber.org/zap"
)

// ChangelogOptions returns a fresh changelog.Options for one build.
// The returned value shares no slices with the configuration.
func (c *Configuration) ChangelogOptions() changelog.Options {
	return changelog.Options{
		ExcludedPath:    vault.NormalizeRel(c.ChangelogPath),
		ExcludePrefixes: slices.Clone(c.ExcludePaths),
		MaxEntries:      c.MaxEntries,
		TimeFormat:      c.TimeFormat,
		DayFormat:       c.DayFormat,
		GroupByDay:      c.GroupByDay,
		TableOutput:     c.TableOutput,
	}
}

// ScannerOptions returns the vault.Scanner options for this configuration.
func (c *Configuration) ScannerOptions(logger *zap.Logger) []vault.ScannerOption {
	return []vault.ScannerOption{
		vault.WithExtensions(c.Extensions...),
		vault.WithGitignore(c.RespectGitignore),
		vault.WithMtimeSource(vault.MtimeSource(c.MtimeSource)),
		vault.WithLogger(logger),
	}
}

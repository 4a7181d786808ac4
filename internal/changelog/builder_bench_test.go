package changelog

import (
	"fmt"
	"testing"
)

// generateVault creates n records with distinct modification times.
func generateVault(n int) []FileRecord {
	files := make([]FileRecord, n)
	for i := range files {
		files[i] = FileRecord{
			Path:               fmt.Sprintf("Folder%d/Note %d.md", i%20, i),
			Basename:           fmt.Sprintf("Note %d", i),
			LastModifiedMillis: int64((i * 7919) % n),
		}
	}
	return files
}

// BenchmarkBuild_10000Files measures a large vault with the default limit.
func BenchmarkBuild_10000Files(b *testing.B) {
	files := generateVault(10000)
	opts := DefaultOptions()
	opts.ExcludePrefixes = []string{"Folder3/", "Folder7/"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Build(files, opts)
	}
}

// BenchmarkBuild_GroupedTable100 measures a typical vault in table mode.
func BenchmarkBuild_GroupedTable100(b *testing.B) {
	files := generateVault(100)
	opts := DefaultOptions()
	opts.TableOutput = true
	opts.MaxEntries = 100

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Build(files, opts)
	}
}

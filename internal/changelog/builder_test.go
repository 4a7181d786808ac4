// Package changelog tests selection and rendering of the recent-files changelog.
// Related: internal/changelog/builder.go, internal/changelog/format.go
// Tags: changelog, build, select, render, group-by-day, table

package changelog

import (
	"fmt"
	"iter"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// at returns Unix milliseconds for a UTC wall-clock time.
func at(year int, month time.Month, day, hour, minute int) int64 {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC).UnixMilli()
}

func rec(path string, mtime int64) FileRecord {
	base := path[strings.LastIndex(path, "/")+1:]
	base = strings.TrimSuffix(base, ".md")
	return FileRecord{Path: path, Basename: base, LastModifiedMillis: mtime}
}

func utcOptions() Options {
	opts := DefaultOptions()
	opts.Location = time.UTC
	return opts
}

func TestBuild_ExcludesDestinationAndOrdersNewestFirst(t *testing.T) {
	t.Parallel()

	files := []FileRecord{
		{Path: "A.md", Basename: "A", LastModifiedMillis: 300},
		{Path: "B.md", Basename: "B", LastModifiedMillis: 100},
		{Path: "Log.md", Basename: "Log", LastModifiedMillis: 500},
	}
	opts := utcOptions()
	opts.ExcludedPath = "Log.md"
	opts.MaxEntries = 10

	got := Build(files, opts)

	want := "- 1970-01-01 at 00h00 · [[A]]\n" +
		"- 1970-01-01 at 00h00 · [[B]]\n"
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "[[Log]]")
}

func TestBuild_Bullets(t *testing.T) {
	t.Parallel()

	files := []FileRecord{
		rec("Projects/Roadmap.md", at(2024, time.March, 4, 9, 30)),
		rec("Inbox.md", at(2024, time.March, 5, 14, 7)),
		rec("Daily/2024-03-01.md", at(2024, time.March, 1, 22, 0)),
	}

	got := Build(files, utcOptions())

	want := "- 2024-03-05 at 14h07 · [[Inbox]]\n" +
		"- 2024-03-04 at 09h30 · [[Roadmap]]\n" +
		"- 2024-03-01 at 22h00 · [[2024-03-01]]\n"
	assert.Equal(t, want, got)
}

func TestBuild_ExcludePrefixes(t *testing.T) {
	t.Parallel()

	files := []FileRecord{
		rec("Meetings/Standup.md", 600),
		rec("People/Alice.md", 500),
		rec("Notes/People.md", 400),
		rec("MeetUp.md", 300),
		rec("Ideas.md", 200),
	}

	tests := map[string]struct {
		prefixes []string
		want     []string
		dropped  []string
	}{
		"no prefixes keeps everything": {
			prefixes: nil,
			want:     []string{"Standup", "Alice", "People", "MeetUp", "Ideas"},
		},
		"prefixes are trimmed": {
			prefixes: []string{" Meetings", "People "},
			want:     []string{"People", "MeetUp", "Ideas"},
			dropped:  []string{"Standup", "Alice"},
		},
		"empty entries are ignored": {
			prefixes: []string{"", "  ", "Ideas"},
			want:     []string{"Standup", "Alice", "People", "MeetUp"},
			dropped:  []string{"Ideas"},
		},
		"match is on the raw string, not path segments": {
			prefixes: []string{"Meet"},
			want:     []string{"Alice", "People", "Ideas"},
			dropped:  []string{"Standup", "MeetUp"},
		},
		"prefix must be at the start of the path": {
			prefixes: []string{"People"},
			want:     []string{"Standup", "People", "MeetUp", "Ideas"},
			dropped:  []string{"Alice"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			opts := utcOptions()
			opts.ExcludePrefixes = tt.prefixes

			selected := Select(slices.Values(files), opts)
			names := make([]string, len(selected))
			for i, r := range selected {
				names[i] = r.Basename
			}
			assert.Equal(t, tt.want, names)

			out := Build(files, opts)
			for _, d := range tt.dropped {
				assert.NotContains(t, out, "[["+d+"]]")
			}
		})
	}
}

func TestBuild_MaxEntries(t *testing.T) {
	t.Parallel()

	files := []FileRecord{
		rec("a.md", 5), rec("b.md", 4), rec("c.md", 3), rec("d.md", 2), rec("e.md", 1),
	}

	tests := map[string]struct {
		maxEntries int
		wantLines  int
	}{
		"negative clamps to zero": {maxEntries: -3, wantLines: 0},
		"zero lists nothing":      {maxEntries: 0, wantLines: 0},
		"smaller than input":      {maxEntries: 2, wantLines: 2},
		"equal to input":          {maxEntries: 5, wantLines: 5},
		"larger than input":       {maxEntries: 50, wantLines: 5},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			opts := utcOptions()
			opts.MaxEntries = tt.maxEntries

			got := Build(files, opts)
			assert.Equal(t, tt.wantLines, strings.Count(got, "\n"))
			if tt.wantLines == 0 {
				assert.Empty(t, got)
			}
		})
	}
}

func TestSelect_TiesKeepInputOrder(t *testing.T) {
	t.Parallel()

	files := []FileRecord{
		rec("first.md", 100),
		rec("newest.md", 200),
		rec("second.md", 100),
		rec("third.md", 100),
	}

	selected := Select(slices.Values(files), utcOptions())

	require.Len(t, selected, 4)
	assert.Equal(t, "newest", selected[0].Basename)
	assert.Equal(t, "first", selected[1].Basename)
	assert.Equal(t, "second", selected[2].Basename)
	assert.Equal(t, "third", selected[3].Basename)
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	files := []FileRecord{rec("old.md", 1), rec("new.md", 2)}
	original := slices.Clone(files)

	_ = Select(slices.Values(files), utcOptions())

	assert.Equal(t, original, files)
}

func TestBuild_Table(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		files []FileRecord
		want  string
	}{
		"empty selection still has header": {
			files: nil,
			want:  "| Title | Date |\n| ----- | ---- |\n",
		},
		"rows follow header": {
			files: []FileRecord{
				rec("Old.md", at(2024, time.January, 2, 8, 0)),
				rec("New.md", at(2024, time.January, 3, 18, 45)),
			},
			want: "| Title | Date |\n" +
				"| ----- | ---- |\n" +
				"| [[New]] | 2024-01-03 at 18h45 |\n" +
				"| [[Old]] | 2024-01-02 at 08h00 |\n",
		},
		"group by day is ignored in table mode": {
			files: []FileRecord{
				rec("One.md", at(2024, time.January, 2, 8, 0)),
			},
			want: "| Title | Date |\n" +
				"| ----- | ---- |\n" +
				"| [[One]] | 2024-01-02 at 08h00 |\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			opts := utcOptions()
			opts.TableOutput = true
			opts.GroupByDay = true

			got := Build(tt.files, opts)
			assert.Equal(t, tt.want, got)
			assert.True(t, strings.HasPrefix(got, TableHeader+"\n"+TableSeparator+"\n"))
		})
	}
}

func TestBuild_EmptyBulletOutput(t *testing.T) {
	t.Parallel()

	opts := utcOptions()
	opts.ExcludedPath = "Log.md"
	opts.GroupByDay = true

	assert.Empty(t, Build(nil, opts))
	assert.Empty(t, Build([]FileRecord{rec("Log.md", 10)}, opts))
}

func TestBuild_GroupByDay(t *testing.T) {
	t.Parallel()

	files := []FileRecord{
		rec("Tuesday-late.md", at(2024, time.March, 5, 23, 59)),
		rec("Monday.md", at(2024, time.March, 4, 10, 0)),
		rec("Tuesday-early.md", at(2024, time.March, 5, 0, 1)),
		rec("Sunday.md", at(2024, time.March, 3, 12, 0)),
	}
	opts := utcOptions()
	opts.GroupByDay = true
	opts.TimeFormat = "HH:mm"

	got := Build(files, opts)

	want := "### 2024-03-05\n\n" +
		"- 23:59 · [[Tuesday-late]]\n" +
		"- 00:01 · [[Tuesday-early]]\n" +
		"\n### 2024-03-04\n\n" +
		"- 10:00 · [[Monday]]\n" +
		"\n### 2024-03-03\n\n" +
		"- 12:00 · [[Sunday]]\n"
	assert.Equal(t, want, got)
}

func TestBuild_GroupByDayUsesLocation(t *testing.T) {
	t.Parallel()

	// 2024-03-05 02:00 UTC is still March 4th in New York.
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}

	files := []FileRecord{
		rec("late.md", at(2024, time.March, 5, 2, 0)),
		rec("early.md", at(2024, time.March, 4, 18, 0)),
	}
	opts := utcOptions()
	opts.Location = loc
	opts.GroupByDay = true

	got := Build(files, opts)

	assert.Equal(t, 1, strings.Count(got, "### "), "both entries fall on the same local day")
	assert.Contains(t, got, "### 2024-03-04")
}

func TestBuild_CustomDayFormat(t *testing.T) {
	t.Parallel()

	opts := utcOptions()
	opts.GroupByDay = true
	opts.DayFormat = "dddd, MMMM Do"

	got := Build([]FileRecord{rec("x.md", at(2024, time.March, 1, 9, 0))}, opts)

	assert.True(t, strings.HasPrefix(got, "### Friday, March 1st\n\n"), got)
}

func TestBuild_DayHeaderFollowsTimeFormat(t *testing.T) {
	t.Parallel()

	opts := utcOptions()
	opts.GroupByDay = true
	opts.TimeFormat = "DD/MM/YYYY HH:mm"

	got := Build([]FileRecord{rec("x.md", at(2024, time.March, 1, 10, 0))}, opts)

	assert.Equal(t, "### 01/03/2024\n\n- 01/03/2024 10:00 · [[x]]\n", got)
}

func TestBuildSeq_IteratesOnce(t *testing.T) {
	t.Parallel()

	files := []FileRecord{rec("a.md", 1), rec("b.md", 2)}
	calls := 0
	seq := iter.Seq[FileRecord](func(yield func(FileRecord) bool) {
		calls++
		for _, f := range files {
			if !yield(f) {
				return
			}
		}
	})

	got := BuildSeq(seq, utcOptions())

	assert.Equal(t, 1, calls)
	assert.Equal(t, Build(files, utcOptions()), got)
}

func TestBuild_Properties(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(7, 42))

	for round := range 50 {
		files := randomVault(r, r.IntN(40))
		opts := utcOptions()
		opts.MaxEntries = r.IntN(30)
		opts.ExcludePrefixes = []string{" Archive/", "People/"}
		if len(files) > 0 {
			opts.ExcludedPath = files[r.IntN(len(files))].Path
		}

		eligible := 0
		for _, f := range files {
			if f.Path != opts.ExcludedPath &&
				!strings.HasPrefix(f.Path, "Archive/") &&
				!strings.HasPrefix(f.Path, "People/") {
				eligible++
			}
		}

		selected := Select(slices.Values(files), opts)
		require.Len(t, selected, min(opts.MaxEntries, eligible), "round %d", round)

		for i, s := range selected {
			assert.NotEqual(t, opts.ExcludedPath, s.Path)
			assert.False(t, strings.HasPrefix(s.Path, "Archive/"))
			assert.False(t, strings.HasPrefix(s.Path, "People/"))
			if i > 0 {
				assert.GreaterOrEqual(t, selected[i-1].LastModifiedMillis, s.LastModifiedMillis)
			}
		}

		out := Build(files, opts)
		assert.Equal(t, len(selected), strings.Count(out, "[["), "round %d", round)

		// A limit at or above the eligible count renders the same text as a larger one.
		opts.MaxEntries = eligible
		atLimit := Build(files, opts)
		opts.MaxEntries = eligible + 100
		assert.Equal(t, atLimit, Build(files, opts), "round %d", round)
	}
}

func TestRender_PropagatesWriteErrors(t *testing.T) {
	t.Parallel()

	records := []FileRecord{rec("a.md", 1)}

	for name, opts := range map[string]Options{
		"bullets": utcOptions(),
		"table":   {TableOutput: true, Location: time.UTC},
		"grouped": {GroupByDay: true, Location: time.UTC},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := Render(failingWriter{}, records, opts)
			assert.Error(t, err)
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, fmt.Errorf("disk full") }

package changelog

import "time"

const (
	// DefaultTimeFormat renders as "2024-03-01 at 14h05".
	DefaultTimeFormat = "YYYY-MM-DD [at] HH[h]mm"

	// DefaultDayFormat is used for day headers when the time format has no
	// date portion to borrow.
	DefaultDayFormat = "YYYY-MM-DD"

	// DefaultMaxEntries is the number of entries listed when nothing is configured.
	DefaultMaxEntries = 10

	// TableHeader is the first line of table output.
	TableHeader = "| Title | Date |"

	// TableSeparator follows TableHeader in table output.
	TableSeparator = "| ----- | ---- |"

	// EntrySeparator sits between the timestamp and the link in bullet output.
	EntrySeparator = " · "
)

// FileRecord is an immutable snapshot of one vault document.
type FileRecord struct {
	// Path is the vault-relative path with forward slashes (e.g. "Notes/Idea.md").
	Path string `json:"path" yaml:"path"`
	// Basename is the file name without its extension (e.g. "Idea").
	Basename string `json:"basename" yaml:"basename"`
	// LastModifiedMillis is the modification time in Unix milliseconds.
	LastModifiedMillis int64 `json:"mtime" yaml:"mtime"`
}

// ModTime returns the modification time in the given location.
func (r FileRecord) ModTime(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(r.LastModifiedMillis).In(loc)
}

// Link returns the wiki-link token consumed by the note renderer.
func (r FileRecord) Link() string {
	return "[[" + r.Basename + "]]"
}

// Options controls which records are listed and how they are rendered.
// An Options value is built fresh for every call and never mutated by this package.
type Options struct {
	// ExcludedPath is the destination note itself; it is never listed.
	ExcludedPath string
	// ExcludePrefixes drops records whose path starts with any trimmed, non-empty entry.
	ExcludePrefixes []string
	// MaxEntries bounds the number of listed records. Negative values act as zero.
	MaxEntries int
	// TimeFormat is a moment-style pattern for entry timestamps.
	TimeFormat string
	// DayFormat is a moment-style pattern for day headers. Empty means the
	// date portion of TimeFormat.
	DayFormat string
	// GroupByDay emits a day header before each new calendar day (bullet output only).
	GroupByDay bool
	// TableOutput renders a two-column table instead of a bullet list.
	TableOutput bool
	// Location is the zone used for formatting and day comparison (nil = time.Local).
	Location *time.Location
}

// DefaultOptions returns the options used when no configuration is present.
func DefaultOptions() Options {
	return Options{
		MaxEntries: DefaultMaxEntries,
		TimeFormat: DefaultTimeFormat,
	}
}

func (o Options) timeFormat() string {
	if o.TimeFormat == "" {
		return DefaultTimeFormat
	}
	return o.TimeFormat
}

func (o Options) dayFormat() string {
	if o.DayFormat == "" {
		return datePortion(o.timeFormat())
	}
	return o.DayFormat
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

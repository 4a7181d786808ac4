package changelog

import (
	"fmt"
	"io"
	"time"
)

// Render writes already-selected records to w using the layout from opts.
// Records are written in the order given; callers normally pass the result of Select.
func Render(w io.Writer, records []FileRecord, opts Options) error {
	if opts.TableOutput {
		return writeTable(w, records, opts)
	}
	if opts.GroupByDay {
		return writeGroupedBullets(w, records, opts)
	}
	return writeBullets(w, records, opts)
}

// writeTable writes the header rows followed by one row per record.
func writeTable(w io.Writer, records []FileRecord, opts Options) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n", TableHeader, TableSeparator); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}

	loc := opts.location()
	for _, r := range records {
		stamp := FormatTime(r.ModTime(loc), opts.timeFormat())
		if _, err := fmt.Fprintf(w, "| %s | %s |\n", r.Link(), stamp); err != nil {
			return fmt.Errorf("writing table row for %s: %w", r.Path, err)
		}
	}
	return nil
}

// writeBullets writes one "- {time} · [[name]]" line per record.
func writeBullets(w io.Writer, records []FileRecord, opts Options) error {
	loc := opts.location()
	for _, r := range records {
		if err := writeBullet(w, r, loc, opts.timeFormat()); err != nil {
			return err
		}
	}
	return nil
}

// dayGroup holds consecutive records sharing a calendar day.
type dayGroup struct {
	day     time.Time
	records []FileRecord
}

// groupRecordsByDay groups consecutive records by calendar day, preserving order.
// A day that reappears after a different day starts a new group.
func groupRecordsByDay(records []FileRecord, loc *time.Location) []dayGroup {
	var groups []dayGroup
	var current *dayGroup

	for _, r := range records {
		t := r.ModTime(loc)
		if current == nil || !sameDay(current.day, t) {
			if current != nil {
				groups = append(groups, *current)
			}
			current = &dayGroup{day: t}
		}
		current.records = append(current.records, r)
	}

	if current != nil {
		groups = append(groups, *current)
	}

	return groups
}

// writeGroupedBullets writes a "### {day}" header before each day group.
func writeGroupedBullets(w io.Writer, records []FileRecord, opts Options) error {
	loc := opts.location()
	for i, group := range groupRecordsByDay(records, loc) {
		if err := writeDayHeader(w, group.day, opts.dayFormat(), i > 0); err != nil {
			return err
		}
		for _, r := range group.records {
			if err := writeBullet(w, r, loc, opts.timeFormat()); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeDayHeader writes the day header, preceded by a blank line between groups.
func writeDayHeader(w io.Writer, day time.Time, pattern string, addSeparator bool) error {
	if addSeparator {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "### %s\n\n", FormatTime(day, pattern)); err != nil {
		return fmt.Errorf("writing day header: %w", err)
	}
	return nil
}

func writeBullet(w io.Writer, r FileRecord, loc *time.Location, pattern string) error {
	stamp := FormatTime(r.ModTime(loc), pattern)
	if _, err := fmt.Fprintf(w, "- %s%s%s\n", stamp, EntrySeparator, r.Link()); err != nil {
		return fmt.Errorf("writing entry for %s: %w", r.Path, err)
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

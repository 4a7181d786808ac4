package changelog

import (
	"fmt"
	"strings"
	"time"

	"github.com/nleeper/goment"
)

// Two instants that differ in every calendar field, hour, minute, second,
// weekday, and zone offset. A pattern renders them identically only when it
// holds no tokens at all.
var (
	sampleEarly = time.Date(2001, time.February, 3, 4, 5, 6, 7*int(time.Millisecond), time.UTC)
	sampleLate  = time.Date(2012, time.November, 25, 16, 27, 38, 900*int(time.Millisecond), time.FixedZone("", 5*3600+1800))
)

// FormatTime formats t with a moment.js pattern such as "YYYY-MM-DD [at] HH[h]mm".
// Text inside square brackets is copied verbatim.
func FormatTime(t time.Time, pattern string) string {
	if pattern == "" {
		return ""
	}
	g, err := goment.New(t)
	if err != nil {
		return t.Format(time.RFC3339)
	}
	return g.Format(pattern)
}

// ValidateTimeFormat rejects patterns that are blank, leave a '[' escape
// open, or would render every entry with the same literal text.
func ValidateTimeFormat(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return fmt.Errorf("time format is empty")
	}

	depth := 0
	for i, r := range pattern {
		switch r {
		case '[':
			if depth == 0 {
				depth = i + 1
			}
		case ']':
			depth = 0
		}
	}
	if depth > 0 {
		return fmt.Errorf("unterminated '[' at position %d in %q", depth-1, pattern)
	}

	if FormatTime(sampleEarly, pattern) == FormatTime(sampleLate, pattern) {
		return fmt.Errorf("time format %q contains no date or time tokens", pattern)
	}
	return nil
}

// clockTokens are the first letters of tokens that describe the time of day
// rather than the calendar date.
const clockTokens = "HhkmsSAaZzXx"

// datePortion returns the part of a time pattern before its first clock
// token, without trailing separators or [literal] text. "DD/MM/YYYY HH:mm"
// gives "DD/MM/YYYY". Patterns that start with the clock fall back to
// DefaultDayFormat.
func datePortion(pattern string) string {
	cut := len(pattern)
scan:
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; {
		case c == '[':
			end := strings.IndexByte(pattern[i+1:], ']')
			if end < 0 {
				break scan
			}
			i += end + 1
		case strings.IndexByte(clockTokens, c) >= 0:
			cut = i
			break scan
		}
	}

	date := trimTrailingLiterals(pattern[:cut])
	if date == "" || ValidateTimeFormat(date) != nil {
		return DefaultDayFormat
	}
	return date
}

func trimTrailingLiterals(s string) string {
	for {
		trimmed := strings.TrimRight(s, " \t,.-/:T|·@")
		if strings.HasSuffix(trimmed, "]") {
			if open := strings.LastIndexByte(trimmed, '['); open >= 0 {
				trimmed = trimmed[:open]
			}
		}
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}

package changelog

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTime(t *testing.T) {
	t.Parallel()

	// Tuesday
	ts := time.Date(2024, time.March, 5, 14, 7, 9, 42*int(time.Millisecond), time.UTC)

	tests := map[string]struct {
		pattern string
		want    string
	}{
		"default pattern":        {pattern: DefaultTimeFormat, want: "2024-03-05 at 14h07"},
		"day pattern":            {pattern: DefaultDayFormat, want: "2024-03-05"},
		"short numeric":          {pattern: "YY/M/D", want: "24/3/5"},
		"long month and ordinal": {pattern: "MMMM Do, YYYY", want: "March 5th, 2024"},
		"short names":            {pattern: "ddd, MMM DD", want: "Tue, Mar 05"},
		"full weekday":           {pattern: "dddd", want: "Tuesday"},
		"two letter weekday":     {pattern: "dd", want: "Tu"},
		"weekday number":         {pattern: "d", want: "2"},
		"12 hour upper":          {pattern: "hh:mm A", want: "02:07 PM"},
		"12 hour lower":          {pattern: "h:mm a", want: "2:07 pm"},
		"seconds and millis":     {pattern: "HH:mm:ss.SSS", want: "14:07:09.042"},
		"unpadded time":          {pattern: "H:m:s", want: "14:7:9"},
		"bracket literal":        {pattern: "[YYYY] YYYY", want: "YYYY 2024"},
		"offset with colon":      {pattern: "Z", want: "+00:00"},
		"offset compact":         {pattern: "ZZ", want: "+0000"},
		"plain punctuation":      {pattern: "-- / : --", want: "-- / : --"},
		"quarter":                {pattern: "[Q]Q YYYY", want: "Q1 2024"},
		"iso weekday":            {pattern: "E", want: "2"},
		"24 hour from one":       {pattern: "k:mm", want: "14:07"},
		"empty pattern":          {pattern: "", want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatTime(ts, tt.pattern))
		})
	}
}

func TestFormatTime_UnixTokens(t *testing.T) {
	t.Parallel()

	ts := time.UnixMilli(1_709_647_629_042).UTC()

	assert.Equal(t, strconv.FormatInt(ts.Unix(), 10), FormatTime(ts, "X"))
	assert.Equal(t, "1709647629042", FormatTime(ts, "x"))
}

func TestFormatTime_MidnightAndNoon(t *testing.T) {
	t.Parallel()

	midnight := time.Date(2024, time.June, 1, 0, 15, 0, 0, time.UTC)
	noon := time.Date(2024, time.June, 1, 12, 15, 0, 0, time.UTC)

	assert.Equal(t, "12:15 AM", FormatTime(midnight, "h:mm A"))
	assert.Equal(t, "12:15 PM", FormatTime(noon, "h:mm A"))
}

func TestFormatTime_OrdinalDays(t *testing.T) {
	t.Parallel()

	tests := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th",
		11: "11th", 12: "12th", 13: "13th",
		21: "21st", 22: "22nd", 23: "23rd", 31: "31st",
	}

	for day, want := range tests {
		ts := time.Date(2024, time.January, day, 9, 0, 0, 0, time.UTC)
		assert.Equal(t, want, FormatTime(ts, "Do"), "day %d", day)
	}
}

func TestValidateTimeFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		pattern string
		wantErr bool
	}{
		"default":             {pattern: DefaultTimeFormat},
		"single token":        {pattern: "YYYY"},
		"empty":               {pattern: "", wantErr: true},
		"only literal":        {pattern: "[today]", wantErr: true},
		"only punctuation":    {pattern: "--", wantErr: true},
		"unterminated escape": {pattern: "YYYY [at", wantErr: true},
		"quarter only":        {pattern: "[Q]Q"},
		"zone offset only":    {pattern: "ZZ"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := ValidateTimeFormat(tt.pattern)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatePortion(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		pattern string
		want    string
	}{
		"default entry format": {pattern: DefaultTimeFormat, want: "YYYY-MM-DD"},
		"european":             {pattern: "DD/MM/YYYY HH:mm", want: "DD/MM/YYYY"},
		"iso with T":           {pattern: "YYYY-MM-DDTHH:mm:ss", want: "YYYY-MM-DD"},
		"long names":           {pattern: "dddd, MMMM Do [at] h:mm a", want: "dddd, MMMM Do"},
		"bracketed clock text": {pattern: "[hm] D MMM", want: "[hm] D MMM"},
		"date only":            {pattern: "MMM D", want: "MMM D"},
		"clock first":          {pattern: "HH:mm DD/MM", want: DefaultDayFormat},
		"clock only":           {pattern: "HH:mm", want: DefaultDayFormat},
		"epoch":                {pattern: "X", want: DefaultDayFormat},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, datePortion(tt.pattern))
		})
	}
}

// Package config tests the configuration key registry and value coercion.
// Related: internal/config/schema.go
// Tags: config, schema, validation
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		key     string
		value   string
		want    interface{}
		wantErr string
	}{
		"bool":               {key: "watch", value: "TRUE", want: true},
		"bad bool":           {key: "watch", value: "yes", wantErr: "invalid boolean"},
		"int":                {key: "max_entries", value: " 12 ", want: 12},
		"bad int":            {key: "max_entries", value: "1.5", wantErr: "invalid integer"},
		"duration":           {key: "debounce", value: "1s500ms", want: "1.5s"},
		"negative duration":  {key: "debounce", value: "-1s", wantErr: "must not be negative"},
		"enum":               {key: "notifications.type", value: "both", want: "both"},
		"bad enum":           {key: "log.level", value: "trace", wantErr: "valid options: debug, info, warn, error"},
		"list":               {key: "extensions", value: ".md, .markdown", want: []string{".md", ".markdown"}},
		"string":             {key: "changelog_path", value: "Changelog.md", want: "Changelog.md"},
		"checked string":     {key: "day_format", value: "dddd D MMMM", want: "dddd D MMMM"},
		"derived day format": {key: "day_format", value: "", want: ""},
		"literal day format": {key: "day_format", value: "[today]", wantErr: "no date or time tokens"},
		"unknown key":        {key: "nope", value: "1", wantErr: "unknown configuration key: nope"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ValidateValue(tt.key, tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Parsed)
			assert.Equal(t, tt.value, got.Raw)
		})
	}
}

func TestCoerceValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		key     string
		raw     interface{}
		want    interface{}
		wantErr bool
	}{
		"json number to int":     {key: "max_entries", raw: float64(7), want: 7},
		"yaml int":               {key: "max_entries", raw: 7, want: 7},
		"string int":             {key: "max_entries", raw: "7", want: 7},
		"fractional number":      {key: "max_entries", raw: 7.5, wantErr: true},
		"bool from string":       {key: "group_by_day", raw: "true", want: true},
		"comma string to list":   {key: "exclude_paths", raw: "a/, b/", want: []string{"a/", "b/"}},
		"yaml list":              {key: "exclude_paths", raw: []interface{}{"a/", " ", "b/"}, want: []string{"a/", "b/"}},
		"nil list":               {key: "exclude_paths", raw: nil, want: []string{}},
		"nested list item":       {key: "exclude_paths", raw: []interface{}{[]interface{}{"x"}}, wantErr: true},
		"map for scalar":         {key: "time_format", raw: map[string]interface{}{"a": 1}, wantErr: true},
		"time format no tokens":  {key: "time_format", raw: "[literal only]", wantErr: true},
		"duration from int text": {key: "debounce", raw: "250ms", want: "250ms"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := coerceValue(KnownKeys[tt.key], tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   string
		want []string
	}{
		"empty":          {in: "", want: []string{}},
		"single":         {in: "Templates/", want: []string{"Templates/"}},
		"trims":          {in: " a , b ", want: []string{"a", "b"}},
		"drops blanks":   {in: "a,,b, ,", want: []string{"a", "b"}},
		"keeps interior": {in: "My Notes/", want: []string{"My Notes/"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SplitList(tt.in))
		})
	}
}

func TestGetKeySchema(t *testing.T) {
	t.Parallel()

	schema, err := GetKeySchema("notifications.on_error")
	require.NoError(t, err)
	assert.Equal(t, TypeBool, schema.Type)
	assert.Equal(t, true, schema.Default)

	_, err = GetKeySchema("notifications.volume")
	var unknown ErrUnknownKey
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "notifications.volume", unknown.Key)
}

package wikidate

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{"13 September 2020", time.Date(2020, 9, 13, 0, 0, 0, 0, time.UTC)},
		{"12:34, 5 March 2019 (UTC)", time.Date(2019, 3, 5, 12, 34, 0, 0, time.UTC)},
		{"March 5, 2019", time.Date(2019, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2021-07-04", time.Date(2021, 7, 4, 0, 0, 0, 0, time.UTC)},
		{"  1 Jan 2010 ", time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2015/06/07", time.Date(2015, 6, 7, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.expected) {
			t.Errorf("Parse(%q): expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{"", " (UTC)", "not a date at all"} {
		if _, err := Parse(input); err == nil {
			t.Errorf("Expected error for %q", input)
		}
	}
}

package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDateString(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		expectError bool
	}{
		{name: "ISO", input: "2024-09-03", expected: "2024-09-03"},
		{name: "US slashes", input: "09/03/2024", expected: "2024-09-03"},
		{name: "US short", input: "9/3/24", expected: "2024-09-03"},
		{name: "month name", input: "Sep 3, 2024", expected: "2024-09-03"},
		{name: "time of day dropped", input: "2024-09-03 14:30:00", expected: "2024-09-03"},
		{name: "surrounding whitespace", input: "  2024-09-03  ", expected: "2024-09-03"},
		{name: "empty", input: "", expectError: true},
		{name: "garbage", input: "not a date", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseDateString(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, ToISODate(parsed))
			// Calendar date only, no time component
			assert.Equal(t, 0, parsed.Hour())
			assert.Equal(t, 0, parsed.Minute())
		})
	}
}

func TestParseDateStringIdempotent(t *testing.T) {
	first, err := ParseDateString("09/03/2024")
	assert.NoError(t, err)

	second, err := ParseDateString(ToISODate(first))
	assert.NoError(t, err)
	assert.True(t, first.Equal(second))
}

func TestToISODate(t *testing.T) {
	date := time.Date(2024, time.September, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-09-03", ToISODate(date))
}

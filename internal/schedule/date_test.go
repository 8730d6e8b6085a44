package schedule

import (
	"testing"
	"time"

	"github.com/AdamBeresnev/bracket-board/internal/bracket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	// A Thursday
	now := time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC)
	parser := NewDateParser()

	testCases := []struct {
		name     string
		input    string
		expected bracket.StartTime
	}{
		{name: "iso date", input: "2026-11-02", expected: "2026-11-02"},
		{name: "padded iso date", input: "  2026-11-02 ", expected: "2026-11-02"},
		{name: "empty", input: "", expected: bracket.UnknownStartTime},
		{name: "unknown keyword", input: "Unknown", expected: bracket.UnknownStartTime},
		{name: "sentinel", input: "Date unknown", expected: bracket.UnknownStartTime},
		{name: "tomorrow", input: "tomorrow", expected: "2026-10-16"},
		{name: "today", input: "Today", expected: "2026-10-15"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := parser.Parse(tc.input, now)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestParseRejectsGibberish(t *testing.T) {
	_, err := NewDateParser().Parse("qwzx", time.Now())
	assert.ErrorIs(t, err, ErrUnrecognizedDate)
}

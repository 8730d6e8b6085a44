package schedule

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AdamBeresnev/bracket-board/internal/bracket"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"
)

var ErrUnrecognizedDate = errors.New("could not recognize date")

// DateParser turns operator input into a match start time.
type DateParser struct {
	w *when.Parser
}

func NewDateParser() *DateParser {
	w := when.New(nil)
	w.Add(en.All...)
	return &DateParser{w: w}
}

// Parse accepts "YYYY-MM-DD", an empty string or "unknown" for an unknown
// date, or English phrases such as "next friday", resolved against now.
func (p *DateParser) Parse(input string, now time.Time) (bracket.StartTime, error) {
	input = strings.TrimSpace(input)
	switch strings.ToLower(input) {
	case "", "unknown", strings.ToLower(string(bracket.UnknownStartTime)):
		return bracket.UnknownStartTime, nil
	}

	if t, err := time.Parse(bracket.DateLayout, input); err == nil {
		return bracket.DateOf(t), nil
	}

	r, err := p.w.Parse(strings.ToLower(input), now)
	if err != nil {
		slog.Warn("date parser failed", "input", input, "error", err)
	}
	if r == nil {
		return "", fmt.Errorf("%w: %q", ErrUnrecognizedDate, input)
	}
	return bracket.DateOf(r.Time), nil
}

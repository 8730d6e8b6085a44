package bracket

import (
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/AdamBeresnev/bracket-board/internal/utils"
)

const MaxEntrants = 256

var (
	ErrInvalidEntrantCount = errors.New("entrant count must be a power of two between 2 and 256")
	ErrEmptyEntrantName    = errors.New("entrant name cannot be empty")
)

type Builder struct {
	now func() time.Time
	rnd *rand.Rand
}

type BuilderOption func(*Builder)

func WithBuilderClock(now func() time.Time) BuilderOption {
	return func(b *Builder) { b.now = now }
}

// WithRand fixes the source used for shuffling, mostly for tests.
func WithRand(r *rand.Rand) BuilderOption {
	return func(b *Builder) { b.rnd = r }
}

func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func validEntrantCount(n int) bool {
	return n >= 2 && n <= MaxEntrants && n&(n-1) == 0
}

// Build lays out every match of a single elimination bracket for names.
// Only round 1 receives participants, later rounds fill up as results are applied.
func (b *Builder) Build(names []string, randomize bool) ([]Match, error) {
	n := len(names)
	if !validEntrantCount(n) {
		return nil, ErrInvalidEntrantCount
	}

	participants := make([]Participant, n)
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, ErrEmptyEntrantName
		}
		participants[i] = Participant{ID: i + 1, Name: name}
	}

	if randomize {
		b.shuffle(participants)
	}

	today := DateOf(b.now())
	matches := make([]Match, 0, n-1)

	// Rounds halve until the final, n-1 matches in total
	for round, size := 1, n/2; size > 0; round, size = round+1, size/2 {
		for i := 0; i < size; i++ {
			matches = append(matches, Match{
				ID:           len(matches) + 1,
				RoundNumber:  round,
				StartTime:    today,
				State:        MatchScheduled,
				Participants: []Participant{},
			})
		}
	}

	for i := 0; i < n/2; i++ {
		matches[i].Participants = []Participant{participants[2*i], participants[2*i+1]}
	}

	offset := 0
	for size := n / 2; size > 1; size /= 2 {
		for i := 0; i < size; i++ {
			matches[offset+i].NextMatchID = utils.Ptr(matches[offset+size+i/2].ID)
		}
		offset += size
	}

	return matches, nil
}

func (b *Builder) shuffle(participants []Participant) {
	swap := func(i, j int) {
		participants[i], participants[j] = participants[j], participants[i]
	}
	if b.rnd != nil {
		b.rnd.Shuffle(len(participants), swap)
		return
	}
	rand.Shuffle(len(participants), swap)
}

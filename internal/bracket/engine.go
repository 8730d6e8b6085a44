package bracket

import (
	"time"

	"github.com/AdamBeresnev/bracket-board/internal/utils"
)

// Engine applies operator edits to a bracket. Every operation works on a deep
// copy of its input and reports whether its target could be resolved; when it
// could not, the returned matches equal the input.
type Engine struct {
	now func() time.Time
}

type EngineOption func(*Engine)

func WithEngineClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// locate finds the index-th match of a round, counting in construction order.
func locate(matches []Match, round, index int) (int, bool) {
	if index < 0 {
		return 0, false
	}
	seen := 0
	for i := range matches {
		if matches[i].RoundNumber != round {
			continue
		}
		if seen == index {
			return i, true
		}
		seen++
	}
	return 0, false
}

func indexByID(matches []Match, id int) (int, bool) {
	for i := range matches {
		if matches[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

// SelectWinner stages slot as the winner of a match, or clears the match
// result when slot was already the staged winner. Every match downstream of it
// is emptied and rescheduled.
func (e *Engine) SelectWinner(matches []Match, round, index, slot int) ([]Match, bool) {
	at, ok := locate(matches, round, index)
	if !ok || !IsMatchValid(matches[at]) || slot < 0 || slot > 1 {
		return matches, false
	}

	next := CloneMatches(matches)
	match := &next[at]

	wasWinner := match.Participants[slot].IsWinner
	for i := range match.Participants {
		match.Participants[i].clearResult()
	}
	if !wasWinner {
		match.Participants[slot].IsWinner = true
		match.Participants[slot].ResultText = ResultWinner
		match.Participants[1-slot].ResultText = ResultLost
	}

	invalidateFrom(next, match.NextMatchID)

	if match.StartTime.IsUnknown() {
		match.StartTime = DateOf(e.now())
	}

	return next, true
}

// invalidateFrom clears every match on the chain starting at id.
func invalidateFrom(matches []Match, id *int) {
	visited := make(map[int]bool)
	for id != nil && !visited[*id] {
		visited[*id] = true
		at, ok := indexByID(matches, *id)
		if !ok {
			return
		}
		matches[at].Participants = []Participant{}
		matches[at].State = MatchScheduled
		id = matches[at].NextMatchID
	}
}

// ApplyResults commits every staged winner: the match is marked done, its
// participants played, and a fresh copy of the winner enters the next match.
// A winner already present in the next match is not added twice, and a full
// next match is left alone.
func (e *Engine) ApplyResults(matches []Match) ([]Match, bool) {
	next := CloneMatches(matches)
	applied := false

	for i := range next {
		winner, ok := next[i].Winner()
		if !ok {
			continue
		}
		applied = true

		next[i].State = MatchScoreDone
		for j := range next[i].Participants {
			next[i].Participants[j].Status = utils.Ptr(ParticipantPlayed)
		}

		if next[i].NextMatchID == nil {
			continue
		}
		at, ok := indexByID(next, *next[i].NextMatchID)
		if !ok {
			continue
		}
		target := &next[at]
		if len(target.Participants) >= 2 || target.hasParticipant(winner.ID) {
			continue
		}
		target.Participants = append(target.Participants, winner.advanced())
	}

	if !applied {
		return matches, false
	}
	return next, true
}

// EditDate replaces the start time of the match with the given id.
func (e *Engine) EditDate(matches []Match, matchID int, date StartTime) ([]Match, bool) {
	at, ok := indexByID(matches, matchID)
	if !ok {
		return matches, false
	}
	next := CloneMatches(matches)
	next[at].StartTime = date
	return next, true
}

func (e *Engine) RenameParticipant(matches []Match, round, index, slot int, name string) ([]Match, bool) {
	at, ok := locate(matches, round, index)
	if !ok || slot < 0 || slot >= len(matches[at].Participants) {
		return matches, false
	}
	next := CloneMatches(matches)
	next[at].Participants[slot].Name = name
	return next, true
}

package bracket

import (
	"time"

	"github.com/AdamBeresnev/bracket-board/internal/utils"
)

type MatchState string

const (
	MatchScheduled MatchState = "SCHEDULED"
	MatchScoreDone MatchState = "SCORE_DONE"
)

const DateLayout = "2006-01-02"

// StartTime is either a DateLayout date or UnknownStartTime.
type StartTime string

const UnknownStartTime StartTime = "Date unknown"

func DateOf(t time.Time) StartTime {
	return StartTime(t.Format(DateLayout))
}

func (s StartTime) IsUnknown() bool {
	return s == UnknownStartTime || s == ""
}

type Match struct {
	ID          int        `db:"id" json:"id"`
	NextMatchID *int       `db:"next_match_id" json:"nextMatchId"`
	RoundNumber int        `db:"round_number" json:"roundNumber"`
	StartTime   StartTime  `db:"start_time" json:"startTime"`
	State       MatchState `db:"state" json:"state"`

	Participants []Participant `db:"-" json:"participants"`
}

func (m *Match) IsFinal() bool {
	return m.NextMatchID == nil
}

// Winner returns the participant currently marked as winner, staged or applied.
func (m *Match) Winner() (Participant, bool) {
	for _, p := range m.Participants {
		if p.IsWinner {
			return p, true
		}
	}
	return Participant{}, false
}

func (m *Match) hasParticipant(id int) bool {
	for _, p := range m.Participants {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (m Match) clone() Match {
	c := m
	if m.NextMatchID != nil {
		c.NextMatchID = utils.Ptr(*m.NextMatchID)
	}
	if m.Participants != nil {
		c.Participants = make([]Participant, len(m.Participants))
		for i, p := range m.Participants {
			if p.Status != nil {
				p.Status = utils.Ptr(*p.Status)
			}
			c.Participants[i] = p
		}
	}
	return c
}

// IsMatchValid reports whether the match holds two distinct participants.
func IsMatchValid(m Match) bool {
	if len(m.Participants) != 2 {
		return false
	}
	return m.Participants[0].ID != m.Participants[1].ID
}

// CloneMatches returns a deep copy of matches.
func CloneMatches(matches []Match) []Match {
	if matches == nil {
		return nil
	}
	out := make([]Match, len(matches))
	for i := range matches {
		out[i] = matches[i].clone()
	}
	return out
}

// MatchesInRound returns the matches of a round in construction order.
func MatchesInRound(matches []Match, round int) []Match {
	var out []Match
	for _, m := range matches {
		if m.RoundNumber == round {
			out = append(out, m)
		}
	}
	return out
}

func RoundCount(matches []Match) int {
	rounds := 0
	for _, m := range matches {
		if m.RoundNumber > rounds {
			rounds = m.RoundNumber
		}
	}
	return rounds
}

// EditableRound reports whether the matches of a round may be edited: the first
// round always, later rounds once a match of the previous round is done.
func EditableRound(matches []Match, round int) bool {
	if round <= 1 {
		return round == 1
	}
	for _, m := range matches {
		if m.RoundNumber == round-1 && m.State == MatchScoreDone {
			return true
		}
	}
	return false
}

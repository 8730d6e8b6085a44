package views

import (
	"fmt"
	"sort"

	"github.com/AdamBeresnev/bracket-board/internal/bracket"
)

type MatchView struct {
	bracket.Match
	// Index is the position of the match within its round, as the engine counts it.
	Index    int
	Editable bool
}

type RoundView struct {
	Number  int
	Name    string
	Matches []MatchView
}

type BracketData struct {
	Rounds   []RoundView
	Complete bool
	Champion *bracket.Participant
}

func PrepareBracketData(tournament *bracket.Tournament) BracketData {
	rounds := make(map[int][]MatchView)
	var roundNums []int

	for _, m := range tournament.Matches {
		if _, exists := rounds[m.RoundNumber]; !exists {
			roundNums = append(roundNums, m.RoundNumber)
		}
		rounds[m.RoundNumber] = append(rounds[m.RoundNumber], MatchView{
			Match: m,
			Index: len(rounds[m.RoundNumber]),
			Editable: bracket.IsMatchValid(m) &&
				bracket.EditableRound(tournament.Matches, m.RoundNumber),
		})
	}

	sort.Ints(roundNums)
	total := len(roundNums)

	data := BracketData{Complete: tournament.IsComplete()}
	for _, r := range roundNums {
		data.Rounds = append(data.Rounds, RoundView{
			Number:  r,
			Name:    RoundName(r, total),
			Matches: rounds[r],
		})
	}
	if champion, ok := tournament.Champion(); ok {
		data.Champion = &champion
	}
	return data
}

func RoundName(round, total int) string {
	switch total - round {
	case 0:
		return "Final"
	case 1:
		return "Semifinals"
	case 2:
		return "Quarterfinals"
	default:
		return fmt.Sprintf("Round %d", round)
	}
}

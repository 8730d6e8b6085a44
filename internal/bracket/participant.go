package bracket

type ParticipantStatus string

const ParticipantPlayed ParticipantStatus = "PLAYED"

const (
	ResultWinner = "Winner"
	ResultLost   = "Lost"
)

type Participant struct {
	ID         int                `db:"id" json:"id"`
	Name       string             `db:"name" json:"name"`
	Picture    string             `db:"picture" json:"picture"`
	ResultText string             `db:"result_text" json:"resultText"`
	IsWinner   bool               `db:"is_winner" json:"isWinner"`
	Status     *ParticipantStatus `db:"status" json:"status"`
}

// advanced returns the copy that enters the next match, with a fresh result state.
func (p Participant) advanced() Participant {
	return Participant{
		ID:      p.ID,
		Name:    p.Name,
		Picture: p.Picture,
	}
}

func (p *Participant) clearResult() {
	p.IsWinner = false
	p.ResultText = ""
}

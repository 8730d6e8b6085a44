package bracket

import (
	"time"

	"github.com/google/uuid"
)

type Privacy string

const (
	PrivacyPublic  Privacy = "public"
	PrivacyPrivate Privacy = "private"
)

func ParsePrivacy(s string) Privacy {
	if Privacy(s) == PrivacyPrivate {
		return PrivacyPrivate
	}
	return PrivacyPublic
}

type Tournament struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatorID uuid.UUID `db:"creator_id" json:"creator"`
	Privacy   Privacy   `db:"privacy" json:"privacy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	Matches []Match `db:"-" json:"matches"`
}

func (t *Tournament) Clone() Tournament {
	c := *t
	c.Matches = CloneMatches(t.Matches)
	return c
}

func (t *Tournament) VisibleTo(userID uuid.UUID) bool {
	return t.Privacy != PrivacyPrivate || t.CreatorID == userID
}

func (t *Tournament) Final() (*Match, bool) {
	for i := range t.Matches {
		if t.Matches[i].IsFinal() {
			return &t.Matches[i], true
		}
	}
	return nil, false
}

// IsComplete reports whether the final has been applied.
func (t *Tournament) IsComplete() bool {
	final, ok := t.Final()
	return ok && final.State == MatchScoreDone
}

func (t *Tournament) Champion() (Participant, bool) {
	if !t.IsComplete() {
		return Participant{}, false
	}
	final, _ := t.Final()
	return final.Winner()
}

package bracket

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTournamentClone(t *testing.T) {
	matches, err := NewBuilder().Build([]string{"A", "B", "C", "D"}, false)
	require.NoError(t, err)
	original := Tournament{ID: 1, Name: "Cup", Matches: matches}

	clone := original.Clone()
	clone.Matches[0].Participants[0].Name = "Changed"
	*clone.Matches[0].NextMatchID = 99

	assert.Equal(t, "A", original.Matches[0].Participants[0].Name)
	assert.Equal(t, 3, *original.Matches[0].NextMatchID)
}

func TestTournamentVisibility(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	tests := []struct {
		privacy Privacy
		viewer  uuid.UUID
		visible bool
	}{
		{PrivacyPublic, stranger, true},
		{PrivacyPrivate, owner, true},
		{PrivacyPrivate, stranger, false},
		{PrivacyPrivate, uuid.Nil, false},
	}

	for _, tt := range tests {
		tournament := Tournament{CreatorID: owner, Privacy: tt.privacy}
		assert.Equal(t, tt.visible, tournament.VisibleTo(tt.viewer), "%s seen by %s", tt.privacy, tt.viewer)
	}
}

func TestParsePrivacy(t *testing.T) {
	assert.Equal(t, PrivacyPrivate, ParsePrivacy("private"))
	assert.Equal(t, PrivacyPublic, ParsePrivacy("public"))
	assert.Equal(t, PrivacyPublic, ParsePrivacy(""))
	assert.Equal(t, PrivacyPublic, ParsePrivacy("secret"))
}

func TestChampionNeedsAppliedFinal(t *testing.T) {
	engine := NewEngine()
	matches, err := NewBuilder().Build([]string{"A", "B"}, false)
	require.NoError(t, err)

	matches, _ = engine.SelectWinner(matches, 1, 0, 0)
	staged := Tournament{Matches: matches}
	_, ok := staged.Champion()
	assert.False(t, ok, "a staged winner is not a champion yet")

	matches, _ = engine.ApplyResults(matches)
	done := Tournament{Matches: matches}
	champion, ok := done.Champion()
	require.True(t, ok)
	assert.Equal(t, "A", champion.Name)
}

package views

import (
	"bytes"
	"context"
	"testing"

	"github.com/AdamBeresnev/bracket-board/internal/bracket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderString(t *testing.T, render func(*bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, render(&buf))
	return buf.String()
}

func TestTournamentViewEscapesNames(t *testing.T) {
	matches, err := bracket.NewBuilder().Build([]string{"<script>x</script>", "Bob"}, false)
	require.NoError(t, err)
	tournament := &bracket.Tournament{ID: 7, Name: "Tom & Jerry Cup", Matches: matches}

	html := renderString(t, func(buf *bytes.Buffer) error {
		return TournamentView(tournament, PrepareBracketData(tournament), true).Render(context.Background(), buf)
	})

	assert.NotContains(t, html, "<script>x</script>")
	assert.Contains(t, html, "&lt;script&gt;x&lt;/script&gt;")
	assert.Contains(t, html, "Tom &amp; Jerry Cup")
	assert.Contains(t, html, `action="/tournaments/7/winner"`)
	assert.Contains(t, html, `action="/tournaments/7/matches/1/date"`)
}

func TestTournamentViewReadOnly(t *testing.T) {
	matches, err := bracket.NewBuilder().Build([]string{"Ann", "Bob"}, false)
	require.NoError(t, err)
	tournament := &bracket.Tournament{ID: 3, Name: "Viewer Cup", Matches: matches}

	html := renderString(t, func(buf *bytes.Buffer) error {
		return TournamentView(tournament, PrepareBracketData(tournament), false).Render(context.Background(), buf)
	})

	assert.Contains(t, html, "Ann")
	assert.NotContains(t, html, "<form method=\"post\" action=\"/tournaments/3")
}

func TestIndexShowsChampion(t *testing.T) {
	engine := bracket.NewEngine()
	matches, err := bracket.NewBuilder().Build([]string{"Ann", "Bob"}, false)
	require.NoError(t, err)
	matches, _ = engine.SelectWinner(matches, 1, 0, 1)
	matches, _ = engine.ApplyResults(matches)

	html := renderString(t, func(buf *bytes.Buffer) error {
		return Index([]bracket.Tournament{{ID: 1, Name: "Done Cup", Privacy: bracket.PrivacyPublic, Matches: matches}}).
			Render(context.Background(), buf)
	})

	assert.Contains(t, html, `href="/tournaments/1"`)
	assert.Contains(t, html, "Champion: Bob")
}

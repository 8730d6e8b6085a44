package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/AdamBeresnev/bracket-board/internal/bracket"
	"github.com/AdamBeresnev/bracket-board/internal/db"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSuperUserID = "00000000-0000-0000-0000-000000000001"

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Open(":memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")

	err = db.RunMigrations(database.DB, "../../migrations")
	require.NoError(t, err, "Failed to apply migrations")

	return database
}

func createTestTournament(t *testing.T, database *sqlx.DB, store *TournamentStore, name string, privacy bracket.Privacy, owner uuid.UUID, entrants ...string) *bracket.Tournament {
	t.Helper()

	matches, err := bracket.NewBuilder().Build(entrants, false)
	require.NoError(t, err)

	tournament := &bracket.Tournament{
		Name:      name,
		CreatorID: owner,
		Privacy:   privacy,
		CreatedAt: time.Now().UTC(),
		Matches:   matches,
	}

	tx, err := database.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateTournament(context.Background(), tx, tournament))
	require.NoError(t, store.SaveMatches(context.Background(), tx, tournament.ID, tournament.Matches))
	require.NoError(t, tx.Commit())

	return tournament
}

func TestCreateAndGetTournament(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	store := NewTournamentStore(database)
	ctx := context.Background()
	owner := uuid.MustParse(testSuperUserID)

	created := createTestTournament(t, database, store, "Spring Cup", bracket.PrivacyPublic, owner, "A", "B", "C", "D")
	assert.NotZero(t, created.ID)

	fetched, err := store.Get(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Spring Cup", fetched.Name)
	assert.Equal(t, owner, fetched.CreatorID)
	assert.Equal(t, bracket.PrivacyPublic, fetched.Privacy)
	assert.WithinDuration(t, created.CreatedAt, fetched.CreatedAt, time.Second)
	if diff := cmp.Diff(created.Matches, fetched.Matches); diff != "" {
		t.Errorf("bracket changed on round trip (-want +got):\n%s", diff)
	}
}

func TestGetMissingTournament(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	_, err := NewTournamentStore(database).Get(context.Background(), 404)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestNameExists(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	store := NewTournamentStore(database)
	createTestTournament(t, database, store, "Taken", bracket.PrivacyPublic, uuid.New(), "A", "B")

	tx, err := database.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	exists, err := store.NameExists(context.Background(), tx, "Taken")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.NameExists(context.Background(), tx, "Free")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateTournamentNameTaken(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	store := NewTournamentStore(database)
	ctx := context.Background()
	createTestTournament(t, database, store, "Taken", bracket.PrivacyPublic, uuid.New(), "A", "B")

	tx, err := database.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	err = store.CreateTournament(ctx, tx, &bracket.Tournament{
		Name:      "Taken",
		CreatorID: uuid.New(),
		Privacy:   bracket.PrivacyPublic,
		CreatedAt: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestPutAllNameTaken(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	store := NewTournamentStore(database)
	createTestTournament(t, database, store, "First", bracket.PrivacyPublic, uuid.New(), "A", "B")
	second := createTestTournament(t, database, store, "Second", bracket.PrivacyPublic, uuid.New(), "A", "B")

	second.Name = "First"
	err := store.PutAll(context.Background(), []bracket.Tournament{*second})
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestPutAll(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	store := NewTournamentStore(database)
	ctx := context.Background()
	owner := uuid.MustParse(testSuperUserID)

	first := createTestTournament(t, database, store, "First", bracket.PrivacyPublic, owner, "A", "B", "C", "D")
	second := createTestTournament(t, database, store, "Second", bracket.PrivacyPublic, owner, "E", "F")

	engine := bracket.NewEngine()
	firstMatches, ok := engine.SelectWinner(first.Matches, 1, 0, 1)
	require.True(t, ok)
	firstMatches, ok = engine.ApplyResults(firstMatches)
	require.True(t, ok)
	first.Matches = firstMatches
	second.Privacy = bracket.PrivacyPrivate

	require.NoError(t, store.PutAll(ctx, []bracket.Tournament{*first, *second}))

	fetched, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(first.Matches, fetched.Matches); diff != "" {
		t.Errorf("stored bracket differs (-want +got):\n%s", diff)
	}
	require.NotNil(t, fetched.Matches[0].Participants[0].Status)
	assert.Equal(t, bracket.ParticipantPlayed, *fetched.Matches[0].Participants[0].Status)
	require.Len(t, fetched.Matches[2].Participants, 1)
	assert.Equal(t, "B", fetched.Matches[2].Participants[0].Name)
	assert.Nil(t, fetched.Matches[2].Participants[0].Status)

	fetchedSecond, err := store.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, bracket.PrivacyPrivate, fetchedSecond.Privacy)
}

func TestPutAllRollsBackOnMissingTournament(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	store := NewTournamentStore(database)
	ctx := context.Background()

	existing := createTestTournament(t, database, store, "Existing", bracket.PrivacyPublic, uuid.New(), "A", "B")
	renamed := *existing
	renamed.Name = "Renamed"
	missing := bracket.Tournament{ID: 999, Name: "Ghost", Privacy: bracket.PrivacyPublic}

	err := store.PutAll(ctx, []bracket.Tournament{renamed, missing})
	assert.ErrorIs(t, err, sql.ErrNoRows)

	fetched, err := store.Get(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Existing", fetched.Name, "the whole batch should be rolled back")
}

func TestListVisible(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	store := NewTournamentStore(database)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	createTestTournament(t, database, store, "Public", bracket.PrivacyPublic, alice, "A", "B")
	createTestTournament(t, database, store, "Alice only", bracket.PrivacyPrivate, alice, "A", "B")
	createTestTournament(t, database, store, "Bob only", bracket.PrivacyPrivate, bob, "A", "B")

	names := func(tournaments []bracket.Tournament) []string {
		var out []string
		for _, tournament := range tournaments {
			out = append(out, tournament.Name)
			assert.Len(t, tournament.Matches, 1)
		}
		return out
	}

	forAlice, err := store.ListVisible(ctx, alice)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Public", "Alice only"}, names(forAlice))

	forBob, err := store.ListVisible(ctx, bob)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Public", "Bob only"}, names(forBob))
}

func TestListIncludesPrivate(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	store := NewTournamentStore(database)
	createTestTournament(t, database, store, "First", bracket.PrivacyPublic, uuid.New(), "A", "B")
	createTestTournament(t, database, store, "Second", bracket.PrivacyPrivate, uuid.New(), "A", "B", "C", "D")

	all, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "First", all[0].Name)
	assert.Equal(t, "Second", all[1].Name)
	assert.Len(t, all[1].Matches, 3)
}

func TestDeleteTournament(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	store := NewTournamentStore(database)
	ctx := context.Background()

	tournament := createTestTournament(t, database, store, "Doomed", bracket.PrivacyPublic, uuid.New(), "A", "B", "C", "D")

	require.NoError(t, store.Delete(ctx, tournament.ID))

	_, err := store.Get(ctx, tournament.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	var remaining int
	require.NoError(t, database.Get(&remaining, "SELECT COUNT(*) FROM participants WHERE tournament_id = ?", tournament.ID))
	assert.Zero(t, remaining, "participants should be removed with their tournament")

	assert.ErrorIs(t, store.Delete(ctx, tournament.ID), sql.ErrNoRows)
}

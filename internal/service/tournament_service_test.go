package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/AdamBeresnev/bracket-board/internal/bracket"
	"github.com/AdamBeresnev/bracket-board/internal/db"
	"github.com/AdamBeresnev/bracket-board/internal/metrics"
	"github.com/AdamBeresnev/bracket-board/internal/middleware"
	"github.com/AdamBeresnev/bracket-board/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Open(":memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")

	err = db.RunMigrations(database.DB, "../../migrations")
	require.NoError(t, err, "Failed to apply migrations")

	return database
}

func superUserContext() context.Context {
	return middleware.WithUserID(context.Background(), uuid.MustParse(middleware.SuperUserID))
}

func newServices(database *sqlx.DB) (*TournamentService, *MatchService, *store.TournamentStore) {
	tournamentStore := store.NewTournamentStore(database)
	m := metrics.New(prometheus.NewRegistry())
	return NewTournamentService(database, tournamentStore, m), NewMatchService(tournamentStore, m), tournamentStore
}

func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Entry %d", i+1)
	}
	return out
}

func TestCreateTournament(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	tournamentService, _, tournamentStore := newServices(database)
	ctx := superUserContext()

	testCases := []struct {
		name               string
		input              CreateTournamentInput
		expectedMatchCount int
		expectedError      error
	}{
		{
			name:               "Successful tournament creation with 4 entries",
			input:              CreateTournamentInput{Name: "Test Tournament 4", Entrants: names(4)},
			expectedMatchCount: 3,
		},
		{
			name:               "Successful randomized tournament with 32 entries",
			input:              CreateTournamentInput{Name: "Test Tournament 32", Entrants: names(32), Randomize: true},
			expectedMatchCount: 31,
		},
		{
			name:          "Tournament creation with 5 entries",
			input:         CreateTournamentInput{Name: "Test Tournament 5", Entrants: names(5)},
			expectedError: bracket.ErrInvalidEntrantCount,
		},
		{
			name:          "Tournament creation with 0 entries",
			input:         CreateTournamentInput{Name: "Test Tournament 0"},
			expectedError: bracket.ErrInvalidEntrantCount,
		},
		{
			name:          "Tournament without a name",
			input:         CreateTournamentInput{Name: "   ", Entrants: names(2)},
			expectedError: ErrEmptyName,
		},
		{
			name: "Entrant name too long",
			input: CreateTournamentInput{
				Name:     "Long names",
				Entrants: []string{"A", "This entrant name is much longer than fifty characters in total"},
			},
			expectedError: ErrEntrantNameTooLong,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			created, err := tournamentService.CreateTournament(ctx, tc.input)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)

			fetched, err := tournamentStore.Get(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.input.Name, fetched.Name)
			assert.Equal(t, uuid.MustParse(middleware.SuperUserID), fetched.CreatorID)
			assert.Equal(t, bracket.PrivacyPublic, fetched.Privacy)
			assert.Len(t, fetched.Matches, tc.expectedMatchCount)

			for _, match := range fetched.Matches {
				if match.RoundNumber == 1 {
					assert.True(t, bracket.IsMatchValid(match), "round 1 match %d should be playable", match.ID)
				}
			}
		})
	}
}

func TestCreateTournament_DuplicateName(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	tournamentService, _, _ := newServices(database)
	ctx := superUserContext()

	_, err := tournamentService.CreateTournament(ctx, CreateTournamentInput{Name: "Finals", Entrants: names(2)})
	require.NoError(t, err)

	_, err = tournamentService.CreateTournament(ctx, CreateTournamentInput{Name: " Finals ", Entrants: names(4)})
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestCreateTournament_RequiresUser(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	tournamentService, _, _ := newServices(database)

	_, err := tournamentService.CreateTournament(context.Background(), CreateTournamentInput{Name: "Anon", Entrants: names(2)})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestPrivateTournamentVisibility(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	tournamentService, _, _ := newServices(database)
	owner := superUserContext()
	stranger := middleware.WithUserID(context.Background(), uuid.New())

	created, err := tournamentService.CreateTournament(owner, CreateTournamentInput{
		Name:     "Invite only",
		Entrants: names(4),
		Privacy:  bracket.PrivacyPrivate,
	})
	require.NoError(t, err)

	_, err = tournamentService.GetTournament(owner, created.ID)
	assert.NoError(t, err)

	_, err = tournamentService.GetTournament(stranger, created.ID)
	assert.ErrorIs(t, err, ErrTournamentNotFound)

	listed, err := tournamentService.ListTournaments(stranger)
	require.NoError(t, err)
	assert.Empty(t, listed)

	listed, err = tournamentService.ListTournaments(owner)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestDeleteTournament(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	tournamentService, _, _ := newServices(database)
	owner := superUserContext()
	stranger := middleware.WithUserID(context.Background(), uuid.New())

	created, err := tournamentService.CreateTournament(owner, CreateTournamentInput{Name: "Short lived", Entrants: names(2)})
	require.NoError(t, err)

	assert.ErrorIs(t, tournamentService.DeleteTournament(stranger, created.ID), ErrForbidden)
	require.NoError(t, tournamentService.DeleteTournament(owner, created.ID))

	_, err = tournamentService.GetTournament(owner, created.ID)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
	assert.ErrorIs(t, tournamentService.DeleteTournament(owner, created.ID), ErrTournamentNotFound)
}

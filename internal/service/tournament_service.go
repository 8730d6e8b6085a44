package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AdamBeresnev/bracket-board/internal/bracket"
	"github.com/AdamBeresnev/bracket-board/internal/metrics"
	"github.com/AdamBeresnev/bracket-board/internal/middleware"
	"github.com/AdamBeresnev/bracket-board/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TournamentService struct {
	db      *sqlx.DB
	store   *store.TournamentStore
	builder *bracket.Builder
	metrics *metrics.Metrics
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore, m *metrics.Metrics) *TournamentService {
	return &TournamentService{db: db, store: store, builder: bracket.NewBuilder(), metrics: m}
}

type CreateTournamentInput struct {
	Name      string          `json:"name"`
	Entrants  []string        `json:"entrants"`
	Randomize bool            `json:"randomize"`
	Privacy   bracket.Privacy `json:"privacy"`
}

func (s *TournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*bracket.Tournament, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	for _, entrant := range input.Entrants {
		if err := validateEntrantName(strings.TrimSpace(entrant)); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Names are checked before any bracket work happens
	exists, err := s.store.NameExists(ctx, tx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check tournament name: %w", err)
	}
	if exists {
		return nil, ErrDuplicateName
	}

	matches, err := s.builder.Build(input.Entrants, input.Randomize)
	if err != nil {
		return nil, err
	}

	tournament := bracket.Tournament{
		Name:      name,
		CreatorID: userID,
		Privacy:   bracket.ParsePrivacy(string(input.Privacy)),
		CreatedAt: time.Now().UTC(),
		Matches:   matches,
	}

	if err := s.store.CreateTournament(ctx, tx, &tournament); err != nil {
		// Lost a race with a concurrent create after the name check
		if errors.Is(err, store.ErrNameTaken) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	if err := s.store.SaveMatches(ctx, tx, tournament.ID, tournament.Matches); err != nil {
		return nil, fmt.Errorf("failed to create matches: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.metrics.TournamentCreated(len(input.Entrants))
	slog.Info("tournament created", "tournament_id", tournament.ID, "entrants", len(input.Entrants), "randomize", input.Randomize)
	return &tournament, nil
}

// GetTournament hides private tournaments from everyone but their creator.
func (s *TournamentService) GetTournament(ctx context.Context, id int64) (*bracket.Tournament, error) {
	userID, _ := middleware.GetUserIDFromContext(ctx)
	return s.getVisible(ctx, id, userID)
}

func (s *TournamentService) getVisible(ctx context.Context, id int64, userID uuid.UUID) (*bracket.Tournament, error) {
	tournament, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if !tournament.VisibleTo(userID) {
		return nil, ErrTournamentNotFound
	}
	return tournament, nil
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]bracket.Tournament, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return s.store.ListVisible(ctx, userID)
}

func (s *TournamentService) DeleteTournament(ctx context.Context, id int64) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	tournament, err := s.getVisible(ctx, id, userID)
	if err != nil {
		return err
	}
	if tournament.CreatorID != userID {
		return ErrForbidden
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to delete tournament: %w", err)
	}

	slog.Info("tournament deleted", "tournament_id", id)
	return nil
}

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
	"github.com/AdamBeresnev/bracket-board/internal/schedule"
)

// TournamentRepository is the storage the match service needs: load one
// tournament, durably store a batch of them.
type TournamentRepository interface {
	Get(ctx context.Context, id int64) (*bracket.Tournament, error)
	PutAll(ctx context.Context, tournaments []bracket.Tournament) error
}

const (
	OpSelectWinner      = "select_winner"
	OpApplyResults      = "apply_results"
	OpEditDate          = "edit_date"
	OpRenameParticipant = "rename_participant"
)

type MatchService struct {
	repo    TournamentRepository
	engine  *bracket.Engine
	dates   *schedule.DateParser
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewMatchService(repo TournamentRepository, m *metrics.Metrics) *MatchService {
	return &MatchService{
		repo:    repo,
		engine:  bracket.NewEngine(),
		dates:   schedule.NewDateParser(),
		metrics: m,
		now:     time.Now,
	}
}

type ParticipantRef struct {
	Round int `json:"round"`
	Match int `json:"match"`
	Slot  int `json:"slot"`
}

func (s *MatchService) SelectWinner(ctx context.Context, tournamentID int64, ref ParticipantRef) (*bracket.Tournament, error) {
	return s.mutate(ctx, tournamentID, OpSelectWinner, func(matches []bracket.Match) ([]bracket.Match, bool) {
		return s.engine.SelectWinner(matches, ref.Round, ref.Match, ref.Slot)
	})
}

func (s *MatchService) ApplyResults(ctx context.Context, tournamentID int64) (*bracket.Tournament, error) {
	return s.mutate(ctx, tournamentID, OpApplyResults, s.engine.ApplyResults)
}

// EditDate accepts anything schedule.DateParser understands.
func (s *MatchService) EditDate(ctx context.Context, tournamentID int64, matchID int, input string) (*bracket.Tournament, error) {
	date, err := s.dates.Parse(input, s.now())
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, tournamentID, OpEditDate, func(matches []bracket.Match) ([]bracket.Match, bool) {
		return s.engine.EditDate(matches, matchID, date)
	})
}

func (s *MatchService) RenameParticipant(ctx context.Context, tournamentID int64, ref ParticipantRef, name string) (*bracket.Tournament, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, bracket.ErrEmptyEntrantName
	}
	if err := validateEntrantName(name); err != nil {
		return nil, err
	}
	return s.mutate(ctx, tournamentID, OpRenameParticipant, func(matches []bracket.Match) ([]bracket.Match, bool) {
		return s.engine.RenameParticipant(matches, ref.Round, ref.Match, ref.Slot, name)
	})
}

// mutate loads the tournament, runs op against its bracket and stores the
// result. Targets the engine cannot resolve leave the tournament untouched
// and nothing is written.
func (s *MatchService) mutate(ctx context.Context, tournamentID int64, operation string, op func([]bracket.Match) ([]bracket.Match, bool)) (*bracket.Tournament, error) {
	tournament, err := s.loadEditable(ctx, tournamentID)
	if err != nil {
		s.metrics.Mutation(operation, metrics.OutcomeFailed)
		return nil, err
	}

	matches, applied := op(tournament.Matches)
	if !applied {
		slog.Info("bracket mutation skipped", "operation", operation, "tournament_id", tournamentID)
		s.metrics.Mutation(operation, metrics.OutcomeSkipped)
		return tournament, nil
	}

	next := *tournament
	next.Matches = matches
	if err := s.repo.PutAll(ctx, []bracket.Tournament{next}); err != nil {
		s.metrics.Mutation(operation, metrics.OutcomeFailed)
		return nil, fmt.Errorf("failed to save tournament: %w", err)
	}

	s.metrics.Mutation(operation, metrics.OutcomeApplied)
	if next.IsComplete() {
		if champion, ok := next.Champion(); ok {
			slog.Info("tournament complete", "tournament_id", tournamentID, "champion", champion.Name)
		}
	}
	return &next, nil
}

func (s *MatchService) loadEditable(ctx context.Context, tournamentID int64) (*bracket.Tournament, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	tournament, err := s.repo.Get(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	if !tournament.VisibleTo(userID) {
		return nil, ErrTournamentNotFound
	}
	if tournament.CreatorID != userID {
		return nil, ErrForbidden
	}
	return tournament, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AdamBeresnev/bracket-board/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// ErrNameTaken is returned when a write hits the unique tournament name constraint.
var ErrNameTaken = errors.New("tournament name already taken")

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

type matchRow struct {
	TournamentID int64 `db:"tournament_id"`
	bracket.Match
}

type participantRow struct {
	TournamentID int64 `db:"tournament_id"`
	MatchID      int   `db:"match_id"`
	Slot         int   `db:"slot"`
	bracket.Participant
}

const (
	insertTournamentQuery = `INSERT INTO tournaments (name, creator_id, privacy, created_at)
        VALUES (:name, :creator_id, :privacy, :created_at)`
	updateTournamentQuery = `UPDATE tournaments SET name = :name, privacy = :privacy WHERE id = :id`
	insertMatchesQuery    = `INSERT INTO matches (tournament_id, id, next_match_id, round_number, start_time, state)
        VALUES (:tournament_id, :id, :next_match_id, :round_number, :start_time, :state)`
	insertParticipantsQuery = `INSERT INTO participants (tournament_id, match_id, slot, id, name, picture, result_text, is_winner, status)
        VALUES (:tournament_id, :match_id, :slot, :id, :name, :picture, :result_text, :is_winner, :status)`
)

// CreateTournament inserts the tournament row and sets its generated ID.
func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	res, err := tx.NamedExecContext(ctx, insertTournamentQuery, tournament)
	if err != nil {
		return nameTaken(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	tournament.ID = id
	return nil
}

func nameTaken(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%w: %v", ErrNameTaken, err)
	}
	return err
}

func (s *TournamentStore) NameExists(ctx context.Context, tx *sqlx.Tx, name string) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM tournaments WHERE name = ?)", name)
	return exists, err
}

// SaveMatches replaces every match and participant of a tournament.
func (s *TournamentStore) SaveMatches(ctx context.Context, tx *sqlx.Tx, tournamentID int64, matches []bracket.Match) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM participants WHERE tournament_id = ?", tournamentID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM matches WHERE tournament_id = ?", tournamentID); err != nil {
		return err
	}
	if len(matches) == 0 {
		return nil
	}

	matchRows := make([]matchRow, 0, len(matches))
	var participantRows []participantRow
	for _, m := range matches {
		matchRows = append(matchRows, matchRow{TournamentID: tournamentID, Match: m})
		for slot, p := range m.Participants {
			participantRows = append(participantRows, participantRow{
				TournamentID: tournamentID,
				MatchID:      m.ID,
				Slot:         slot,
				Participant:  p,
			})
		}
	}

	if _, err := tx.NamedExecContext(ctx, insertMatchesQuery, matchRows); err != nil {
		return err
	}
	if len(participantRows) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, insertParticipantsQuery, participantRows)
	return err
}

// Get loads a tournament with its full bracket. A missing tournament yields sql.ErrNoRows.
func (s *TournamentStore) Get(ctx context.Context, id int64) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	if err := s.db.GetContext(ctx, &tournament, "SELECT * FROM tournaments WHERE id = ?", id); err != nil {
		return nil, err
	}

	matches, err := s.getMatches(ctx, id)
	if err != nil {
		return nil, err
	}
	tournament.Matches = matches
	return &tournament, nil
}

func (s *TournamentStore) getMatches(ctx context.Context, tournamentID int64) ([]bracket.Match, error) {
	var matchRows []matchRow
	err := s.db.SelectContext(ctx, &matchRows, "SELECT * FROM matches WHERE tournament_id = ? ORDER BY id ASC", tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}

	var participantRows []participantRow
	err = s.db.SelectContext(ctx, &participantRows, "SELECT * FROM participants WHERE tournament_id = ? ORDER BY match_id ASC, slot ASC", tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	byMatch := make(map[int][]bracket.Participant)
	for _, p := range participantRows {
		byMatch[p.MatchID] = append(byMatch[p.MatchID], p.Participant)
	}

	matches := make([]bracket.Match, 0, len(matchRows))
	for _, row := range matchRows {
		m := row.Match
		m.Participants = byMatch[m.ID]
		if m.Participants == nil {
			m.Participants = []bracket.Participant{}
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// PutAll stores the given tournaments in a single transaction.
func (s *TournamentStore) PutAll(ctx context.Context, tournaments []bracket.Tournament) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := range tournaments {
		t := &tournaments[i]
		res, err := tx.NamedExecContext(ctx, updateTournamentQuery, t)
		if err != nil {
			return fmt.Errorf("failed to update tournament %d: %w", t.ID, nameTaken(err))
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("tournament %d: %w", t.ID, sql.ErrNoRows)
		}
		if err := s.SaveMatches(ctx, tx, t.ID, t.Matches); err != nil {
			return fmt.Errorf("failed to save matches of tournament %d: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// ListVisible returns the public tournaments and the private ones owned by userID.
func (s *TournamentStore) ListVisible(ctx context.Context, userID uuid.UUID) ([]bracket.Tournament, error) {
	var tournaments []bracket.Tournament
	err := s.db.SelectContext(ctx, &tournaments,
		"SELECT * FROM tournaments WHERE privacy = ? OR creator_id = ? ORDER BY created_at DESC, id DESC",
		bracket.PrivacyPublic, userID)
	if err != nil {
		return nil, err
	}
	return s.withMatches(ctx, tournaments)
}

// List returns every tournament regardless of privacy, for operator tooling.
func (s *TournamentStore) List(ctx context.Context) ([]bracket.Tournament, error) {
	var tournaments []bracket.Tournament
	if err := s.db.SelectContext(ctx, &tournaments, "SELECT * FROM tournaments ORDER BY id ASC"); err != nil {
		return nil, err
	}
	return s.withMatches(ctx, tournaments)
}

func (s *TournamentStore) withMatches(ctx context.Context, tournaments []bracket.Tournament) ([]bracket.Tournament, error) {
	for i := range tournaments {
		matches, err := s.getMatches(ctx, tournaments[i].ID)
		if err != nil {
			return nil, err
		}
		tournaments[i].Matches = matches
	}
	return tournaments, nil
}

func (s *TournamentStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tournaments WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

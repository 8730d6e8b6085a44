package service

import "errors"

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrForbidden          = errors.New("only the tournament creator can do that")
	ErrUnauthenticated    = errors.New("user ID not found in the context")
	ErrDuplicateName      = errors.New("a tournament with this name already exists")
	ErrEmptyName          = errors.New("tournament name cannot be empty")
	ErrEntrantNameTooLong = errors.New("entrant name exceeds 50 characters")
)

package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AdamBeresnev/bracket-board/internal/middleware"
	"github.com/AdamBeresnev/bracket-board/internal/store"
	users "github.com/AdamBeresnev/bracket-board/internal/user"
	"github.com/AdamBeresnev/bracket-board/internal/utils"
	"github.com/google/uuid"
	"github.com/markbates/goth"
)

type UserService struct {
	store *store.UserStore
}

func NewUserService(store *store.UserStore) *UserService {
	return &UserService{store: store}
}

func (s *UserService) FindOrCreateUserByProvider(ctx context.Context, gothUser goth.User) (*users.User, error) {
	user, err := s.store.GetUserByProvider(ctx, gothUser.Provider, gothUser.UserID)

	if err == nil {
		if utils.OrZero(user.AvatarURL) != gothUser.AvatarURL || user.Username != gothUser.Name {
			user.AvatarURL = utils.StringOrNil(gothUser.AvatarURL)
			user.Username = gothUser.Name
			if err := s.store.UpdateUserNameAndAvatar(ctx, user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		newUser := &users.User{
			ID:         uuid.New(),
			Email:      gothUser.Email,
			Username:   gothUser.Name,
			Provider:   &gothUser.Provider,
			ProviderID: &gothUser.UserID,
			AvatarURL:  utils.StringOrNil(gothUser.AvatarURL),
		}
		err := s.store.CreateUser(ctx, newUser)
		return newUser, err
	}

	return nil, err
}

func (s *UserService) EnsureGuestUser(ctx context.Context) (*users.User, error) {
	guestID := uuid.MustParse(middleware.SuperUserID)
	user, err := s.store.GetUser(ctx, guestID)
	if err == nil {
		return user, nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		guestUser := &users.User{
			ID:       guestID,
			Email:    "guest@bracket-board.local",
			Username: "Guest Organiser",
		}
		err := s.store.CreateUser(ctx, guestUser)
		return guestUser, err
	}
	return nil, err
}

package views

import (
	"context"

	"github.com/AdamBeresnev/bracket-board/internal/middleware"
	users "github.com/AdamBeresnev/bracket-board/internal/user"
)

func GetUser(ctx context.Context) *users.User {
	return middleware.GetAuthenticatedUser(ctx)
}

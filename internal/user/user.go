package users

import (
	"time"

	"github.com/google/uuid"
)

type ContextKey string

const UserKey ContextKey = "user"

type User struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Email      string    `db:"email" json:"-"`
	Username   string    `db:"username" json:"username"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	Provider   *string   `db:"provider" json:"-"`
	ProviderID *string   `db:"provider_id" json:"-"`
	AvatarURL  *string   `db:"avatar_url" json:"avatarUrl,omitempty"`
}

func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Identity is an authenticated caller. Email is the account email held by
// the user store at authentication time.
type Identity struct {
	UserID      uuid.UUID
	Email       string
	DisplayName string
}

type IdentityProvider interface {
	Authenticate(ctx context.Context, token string) (Identity, error)
}

type TokenIssuer interface {
	Issue(user User) (string, time.Time, error)
}

package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	CreatedAt   time.Time
}

type UserListQuery struct {
	Limit  int
	Cursor uuid.UUID
}

type UserList struct {
	Users  []User
	Cursor uuid.UUID
}

type UserRepository interface {
	Create(ctx context.Context, email, displayName string) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]User, error)
	List(ctx context.Context, q UserListQuery) (UserList, error)
	UpdateDisplayName(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

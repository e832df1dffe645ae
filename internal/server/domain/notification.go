package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type InvitationNotification struct {
	InvitationID uuid.UUID
	InviteeEmail string
	InviterName  string
	InviterRole  Role
	Code         string
	ExpiresAt    *time.Time
}

type Dispatcher interface {
	Send(ctx context.Context, n InvitationNotification) error
}

package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type InvitationStatus int

const (
	StatusPending InvitationStatus = iota
	StatusAccepted
	StatusDeclined
)

func (s InvitationStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusAccepted:
		return "accepted"
	case StatusDeclined:
		return "declined"
	}
	return fmt.Sprintf("InvitationStatus(%d)", int(s))
}

type Invitation struct {
	ID           uuid.UUID
	InviterID    uuid.UUID
	InviteeEmail string
	InviterRole  Role
	Status       InvitationStatus
	Code         string
	ExpiresAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (i Invitation) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}

// AddressedTo reports whether email is the invitee address.
func (i Invitation) AddressedTo(email string) bool {
	return NormalizeEmail(email) == i.InviteeEmail
}

// Link derives the parent and child of the relationship created when invitee
// accepts. The invitee always receives the complement of the inviter role.
func (i Invitation) Link(invitee uuid.UUID) (parentID, childID uuid.UUID, err error) {
	switch i.InviterRole {
	case RoleParent:
		return i.InviterID, invitee, nil
	case RoleChild:
		return invitee, i.InviterID, nil
	}
	return uuid.Nil, uuid.Nil, fmt.Errorf("%w: invitation %s has unknown inviter role %d", ErrValidation, i.ID, int(i.InviterRole))
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type InvitationRepository interface {
	// Create inserts inv unless it collides with a pending invitation for the
	// same pair or an existing code, in which case ErrConflict is returned.
	Create(ctx context.Context, inv Invitation) error
	GetByID(ctx context.Context, id uuid.UUID) (Invitation, error)
	GetByCode(ctx context.Context, code string) (Invitation, error)
	FindPending(ctx context.Context, inviterID uuid.UUID, email string) (Invitation, error)
	ListPendingByInvitee(ctx context.Context, email string) ([]Invitation, error)
	ListPendingByInviter(ctx context.Context, inviterID uuid.UUID) ([]Invitation, error)
	// Transition moves the invitation from one status to another only if it
	// still holds the expected status; otherwise ErrConflict is returned.
	Transition(ctx context.Context, id uuid.UUID, from, to InvitationStatus, at time.Time) error
}

package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const RelationshipParentChild = "parent_child"

type Relationship struct {
	ID        uuid.UUID
	ParentID  uuid.UUID
	ChildID   uuid.UUID
	Type      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Counterpart returns the other party of the relationship and the role that
// party holds relative to userID.
func (r Relationship) Counterpart(userID uuid.UUID) (uuid.UUID, Role, bool) {
	switch userID {
	case r.ParentID:
		return r.ChildID, RoleChild, true
	case r.ChildID:
		return r.ParentID, RoleParent, true
	}
	return uuid.Nil, 0, false
}

// FamilyMember is one entry of a user's family list.
type FamilyMember struct {
	UserID         uuid.UUID
	Role           Role
	DisplayName    string
	Email          string
	RelationshipID uuid.UUID
	Since          time.Time
}

type RelationshipRepository interface {
	// CreateIfNotExists inserts rel unless the (parent, child) pair is
	// already linked. It returns the stored row and whether it was created.
	CreateIfNotExists(ctx context.Context, rel Relationship) (Relationship, bool, error)
	GetByPair(ctx context.Context, parentID, childID uuid.UUID) (Relationship, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Relationship, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

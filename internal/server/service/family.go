package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	server "github.com/charadev96/famlink/internal/server/domain"
)

type FamilyService struct {
	Users         server.UserRepository
	Relationships server.RelationshipRepository
	Logger        *zerolog.Logger
}

// ListFamilyMembers returns the other party of every link userID takes part
// in, with the role that party holds relative to userID.
func (s *FamilyService) ListFamilyMembers(ctx context.Context, userID uuid.UUID) ([]server.FamilyMember, error) {
	rels, err := s.Relationships.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	members := make([]server.FamilyMember, 0, len(rels))
	ids := make([]uuid.UUID, 0, len(rels))
	for _, rel := range rels {
		other, role, ok := rel.Counterpart(userID)
		if !ok {
			continue
		}
		members = append(members, server.FamilyMember{
			UserID:         other,
			Role:           role,
			RelationshipID: rel.ID,
			Since:          rel.CreatedAt,
		})
		ids = append(ids, other)
	}

	users, err := s.Users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	profiles := make(map[uuid.UUID]server.User, len(users))
	for _, u := range users {
		profiles[u.ID] = u
	}
	for n := range members {
		p, ok := profiles[members[n].UserID]
		if !ok {
			continue
		}
		members[n].DisplayName = p.DisplayName
		members[n].Email = p.Email
	}
	return members, nil
}

// Unlink removes a relationship. Invitation history is left untouched.
func (s *FamilyService) Unlink(ctx context.Context, relationshipID uuid.UUID) error {
	if err := s.Relationships.Delete(ctx, relationshipID); err != nil {
		return err
	}
	nopIfNil(s.Logger).Info().
		Str("relationship", relationshipID.String()).
		Msg("removed relationship")
	return nil
}

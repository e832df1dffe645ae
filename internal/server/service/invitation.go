package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	server "github.com/charadev96/famlink/internal/server/domain"
	shared "github.com/charadev96/famlink/internal/shared/domain"
)

const defaultDispatchTimeout = 10 * time.Second

// InvitationService runs the invitation lifecycle. Every operation takes the
// caller identity explicitly and re-reads current state from the stores.
type InvitationService struct {
	Users         server.UserRepository
	Invitations   server.InvitationRepository
	Relationships server.RelationshipRepository
	Dispatcher    server.Dispatcher
	TXRunner      shared.TransactionRunner
	Logger        *zerolog.Logger
	Rand          io.Reader
	Now           func() time.Time

	// Expiry is added to the creation time to compute ExpiresAt. Zero
	// disables expiry.
	Expiry          time.Duration
	DispatchTimeout time.Duration
}

type CreateInvitationResult struct {
	Invitation server.Invitation
	Delivered  bool
	// Warning is set when the notification could not be delivered and the
	// code has to be shared by other means.
	Warning string
}

func (s *InvitationService) CreateInvitation(
	ctx context.Context,
	inviter server.Identity,
	role server.Role,
	inviteeEmail string,
) (CreateInvitationResult, error) {
	res := CreateInvitationResult{}
	if !role.Valid() {
		return res, fmt.Errorf("%w: inviter role must be parent or child", server.ErrValidation)
	}
	email, err := normalizeEmail(inviteeEmail)
	if err != nil {
		return res, err
	}
	if email == server.NormalizeEmail(inviter.Email) {
		return res, fmt.Errorf("%w: cannot invite your own email address", server.ErrValidation)
	}
	profile, err := s.Users.GetByID(ctx, inviter.UserID)
	if err != nil {
		return res, err
	}

	now := s.now()
	inv := server.Invitation{
		ID:           uuid.New(),
		InviterID:    inviter.UserID,
		InviteeEmail: email,
		InviterRole:  role,
		Status:       server.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if s.Expiry > 0 {
		exp := now.Add(s.Expiry)
		inv.ExpiresAt = &exp
	}

	for attempt := 0; ; attempt++ {
		if attempt == maxCodeAttempts {
			return res, fmt.Errorf("failed to allocate a unique invitation code after %d attempts", attempt)
		}
		inv.Code, err = generateCode(s.random())
		if err != nil {
			return res, err
		}
		err = s.Invitations.Create(ctx, inv)
		if err == nil {
			break
		}
		if !errors.Is(err, shared.ErrConflict) {
			return res, err
		}
		_, err = s.Invitations.FindPending(ctx, inviter.UserID, email)
		if err == nil {
			return res, server.ErrDuplicateInvitation
		}
		if !errors.Is(err, shared.ErrNotExist) {
			return res, err
		}
		s.log().Debug().
			Int("attempt", attempt+1).
			Msg("invitation code collision")
	}

	s.log().Info().
		Str("invitation", inv.ID.String()).
		Str("inviter", inviter.UserID.String()).
		Str("role", role.String()).
		Str("invitee", email).
		Msg("created invitation")

	res.Invitation = inv
	res.Delivered, res.Warning = s.notify(ctx, inv, profile)
	return res, nil
}

// notify delivers the invitation email. Its outcome never affects the
// persisted invitation.
func (s *InvitationService) notify(ctx context.Context, inv server.Invitation, inviter server.User) (bool, string) {
	if s.Dispatcher == nil {
		return false, fmt.Sprintf("email delivery is disabled, share code %s with the invitee", inv.Code)
	}
	timeout := s.DispatchTimeout
	if timeout <= 0 {
		timeout = defaultDispatchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	name := inviter.DisplayName
	if name == "" {
		name = inviter.Email
	}
	err := s.Dispatcher.Send(ctx, server.InvitationNotification{
		InvitationID: inv.ID,
		InviteeEmail: inv.InviteeEmail,
		InviterName:  name,
		InviterRole:  inv.InviterRole,
		Code:         inv.Code,
		ExpiresAt:    inv.ExpiresAt,
	})
	if err != nil {
		s.log().Warn().
			Err(err).
			Str("invitation", inv.ID.String()).
			Msg("failed to deliver invitation email")
		return false, fmt.Sprintf("invitation email could not be delivered, share code %s with the invitee", inv.Code)
	}
	return true, ""
}

func (s *InvitationService) ListPendingReceived(ctx context.Context, email string) ([]server.Invitation, error) {
	return s.Invitations.ListPendingByInvitee(ctx, email)
}

func (s *InvitationService) ListPendingSent(ctx context.Context, inviterID uuid.UUID) ([]server.Invitation, error) {
	return s.Invitations.ListPendingByInviter(ctx, inviterID)
}

// AcceptInvitation links the invitee to the inviter. Accepting an invitation
// the same invitee already accepted returns the existing relationship.
func (s *InvitationService) AcceptInvitation(ctx context.Context, id uuid.UUID, invitee server.Identity) (server.Relationship, error) {
	rel, err := s.accept(ctx, id, invitee)
	if errors.Is(err, shared.ErrConflict) {
		// Lost the status update to a concurrent response; the second pass
		// observes the winner's state.
		s.log().Debug().
			Str("invitation", id.String()).
			Msg("invitation changed concurrently, revalidating")
		rel, err = s.accept(ctx, id, invitee)
	}
	if errors.Is(err, shared.ErrConflict) {
		err = server.ErrInvitationNotPending
	}
	return rel, err
}

func (s *InvitationService) AcceptInvitationByCode(ctx context.Context, code string, invitee server.Identity) (server.Relationship, error) {
	inv, err := s.Invitations.GetByCode(ctx, code)
	if err != nil {
		return server.Relationship{}, err
	}
	return s.AcceptInvitation(ctx, inv.ID, invitee)
}

func (s *InvitationService) accept(ctx context.Context, id uuid.UUID, invitee server.Identity) (server.Relationship, error) {
	var rel server.Relationship
	err := s.TXRunner.Exec(ctx, func(ctx context.Context) error {
		inv, err := s.Invitations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authorize(inv, invitee); err != nil {
			return err
		}
		parentID, childID, err := inv.Link(invitee.UserID)
		if err != nil {
			return err
		}

		switch inv.Status {
		case server.StatusAccepted:
			existing, err := s.Relationships.GetByPair(ctx, parentID, childID)
			if errors.Is(err, shared.ErrNotExist) {
				return server.ErrInvitationNotPending
			}
			if err != nil {
				return err
			}
			rel = existing
			return nil
		case server.StatusDeclined:
			return server.ErrInvitationNotPending
		}

		now := s.now()
		if inv.Expired(now) {
			return fmt.Errorf("%w: invitation %s expired at %s",
				server.ErrInvitationExpired, inv.ID, inv.ExpiresAt.Format(time.RFC3339))
		}
		if err := s.Invitations.Transition(ctx, inv.ID, server.StatusPending, server.StatusAccepted, now); err != nil {
			return err
		}

		created, ok, err := s.Relationships.CreateIfNotExists(ctx, server.Relationship{
			ID:        uuid.New(),
			ParentID:  parentID,
			ChildID:   childID,
			Type:      server.RelationshipParentChild,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		if !ok {
			s.log().Info().
				Err(server.ErrDuplicateRelationship).
				Str("invitation", inv.ID.String()).
				Str("relationship", created.ID.String()).
				Msg("invitation accepted for existing link")
		}
		rel = created
		s.log().Info().
			Str("invitation", inv.ID.String()).
			Str("parent", parentID.String()).
			Str("child", childID.String()).
			Msg("accepted invitation")
		return nil
	})
	return rel, err
}

func (s *InvitationService) DeclineInvitation(ctx context.Context, id uuid.UUID, invitee server.Identity) error {
	return s.TXRunner.Exec(ctx, func(ctx context.Context) error {
		inv, err := s.Invitations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authorize(inv, invitee); err != nil {
			return err
		}
		if inv.Status != server.StatusPending {
			return server.ErrInvitationNotPending
		}
		err = s.Invitations.Transition(ctx, inv.ID, server.StatusPending, server.StatusDeclined, s.now())
		if errors.Is(err, shared.ErrConflict) {
			return server.ErrInvitationNotPending
		}
		if err != nil {
			return err
		}
		s.log().Info().
			Str("invitation", inv.ID.String()).
			Msg("declined invitation")
		return nil
	})
}

// authorize accepts only the addressed invitee.
func (s *InvitationService) authorize(inv server.Invitation, caller server.Identity) error {
	if caller.UserID != inv.InviterID && inv.AddressedTo(caller.Email) {
		return nil
	}
	s.log().Warn().
		Str("invitation", inv.ID.String()).
		Str("user", caller.UserID.String()).
		Msg("rejected response from a user the invitation is not addressed to")
	return fmt.Errorf("%w: invitation %s is not addressed to this account", server.ErrNotAuthorized, inv.ID)
}

func (s *InvitationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *InvitationService) random() io.Reader {
	if s.Rand == nil {
		return rand.Reader
	}
	return s.Rand
}

func (s *InvitationService) log() *zerolog.Logger {
	return nopIfNil(s.Logger)
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	server "github.com/charadev96/famlink/internal/server/domain"
	shared "github.com/charadev96/famlink/internal/shared/domain"
)

type UserService struct {
	Users         server.UserRepository
	Relationships server.RelationshipRepository
	Tokens        server.TokenIssuer
	TXRunner      shared.TransactionRunner
	Logger        *zerolog.Logger
}

func (s *UserService) CreateUser(ctx context.Context, email, displayName string) (uuid.UUID, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return uuid.Nil, err
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName, _, _ = strings.Cut(email, "@")
	}
	id, err := s.Users.Create(ctx, email, displayName)
	if err != nil {
		return uuid.Nil, err
	}
	nopIfNil(s.Logger).Info().
		Str("user", id.String()).
		Str("email", email).
		Msg("created user")
	return id, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (server.User, error) {
	return s.Users.GetByID(ctx, id)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (server.User, error) {
	return s.Users.GetByEmail(ctx, server.NormalizeEmail(email))
}

func (s *UserService) ListUsers(ctx context.Context, q server.UserListQuery) (server.UserList, error) {
	return s.Users.List(ctx, q)
}

func (s *UserService) IssueToken(ctx context.Context, id uuid.UUID) (string, time.Time, error) {
	user, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return "", time.Time{}, err
	}
	if s.Tokens == nil {
		return "", time.Time{}, fmt.Errorf("token issuing is not configured")
	}
	return s.Tokens.Issue(user)
}

// DeleteUser removes the account and every link naming it. Invitations are
// kept as history.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.TXRunner.Exec(ctx, func(ctx context.Context) error {
		n, err := s.Relationships.DeleteByUser(ctx, id)
		if err != nil {
			return err
		}
		if err := s.Users.Delete(ctx, id); err != nil {
			return err
		}
		nopIfNil(s.Logger).Info().
			Str("user", id.String()).
			Int64("relationships", n).
			Msg("deleted user")
		return nil
	})
}

package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	server "github.com/charadev96/famlink/internal/server/domain"
	shared "github.com/charadev96/famlink/internal/shared/domain"
)

const DefaultTTL = 30 * 24 * time.Hour

type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// JWTProvider mints and verifies HS256 identity tokens. The subject carries
// the user id. The email claim is informational only: Authenticate always
// reads the current email from Users.
type JWTProvider struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Users  server.UserRepository
	Now    func() time.Time
}

func (p *JWTProvider) Issue(user server.User) (string, time.Time, error) {
	if len(p.Secret) == 0 {
		return "", time.Time{}, errors.New("failed to issue token: empty signing secret")
	}
	ttl := p.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := p.now()
	exp := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.Issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
		Email: user.Email,
	})
	signed, err := token.SignedString(p.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to issue token: %w", err)
	}
	return signed, exp, nil
}

func (p *JWTProvider) Authenticate(ctx context.Context, token string) (server.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	}
	if p.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.Issuer))
	}
	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, func(*jwt.Token) (any, error) {
		return p.Secret, nil
	}, opts...)
	if err != nil {
		return server.Identity{}, fmt.Errorf("%w: %w", server.ErrUnauthenticated, err)
	}

	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return server.Identity{}, fmt.Errorf("%w: malformed subject", server.ErrUnauthenticated)
	}
	user, err := p.Users.GetByID(ctx, id)
	if errors.Is(err, shared.ErrNotExist) {
		return server.Identity{}, fmt.Errorf("%w: account %s no longer exists", server.ErrUnauthenticated, id)
	}
	if err != nil {
		return server.Identity{}, err
	}
	return server.Identity{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}, nil
}

func (p *JWTProvider) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

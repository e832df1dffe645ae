package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	server "github.com/charadev96/famlink/internal/server/domain"
	"github.com/charadev96/famlink/internal/server/repository"
	"github.com/charadev96/famlink/internal/shared/infra"
)

func newProvider(t *testing.T) (*JWTProvider, server.User) {
	t.Helper()
	ctx := context.Background()
	db, err := infra.OpenSQLite(ctx, infra.MemoryDSN(uuid.NewString()))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	users, err := repository.NewBunUserRepository(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	id, err := users.Create(ctx, "dad@example.com", "Dad")
	if err != nil {
		t.Fatal(err)
	}
	user, err := users.GetByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	return &JWTProvider{
		Secret: []byte("test-secret"),
		Issuer: "famlink-test",
		TTL:    time.Hour,
		Users:  users,
	}, user
}

func TestTokenRoundTrip(t *testing.T) {
	p, user := newProvider(t)

	token, exp, err := p.Issue(user)
	if err != nil {
		t.Fatal(err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expected expiry in the future, got %s", exp)
	}
	ident, err := p.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if ident.UserID != user.ID || ident.Email != "dad@example.com" || ident.DisplayName != "Dad" {
		t.Fatalf("unexpected identity %+v", ident)
	}
}

func TestTokenRejected(t *testing.T) {
	p, user := newProvider(t)
	ctx := context.Background()
	token, _, err := p.Issue(user)
	if err != nil {
		t.Fatal(err)
	}

	other := *p
	other.Secret = []byte("another-secret")
	forged, _, err := other.Issue(user)
	if err != nil {
		t.Fatal(err)
	}

	wrongIssuer := *p
	wrongIssuer.Issuer = "elsewhere"
	foreign, _, err := wrongIssuer.Issue(user)
	if err != nil {
		t.Fatal(err)
	}

	stale := *p
	stale.Now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := stale.Issue(user)
	if err != nil {
		t.Fatal(err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}

	ghost, _, err := p.Issue(server.User{ID: uuid.New(), Email: "ghost@example.com"})
	if err != nil {
		t.Fatal(err)
	}

	tests := map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": forged,
		"wrong issuer": foreign,
		"expired":      expired,
		"unsigned":     none,
		"deleted user": ghost,
		"truncated":    token[:len(token)-4],
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := p.Authenticate(ctx, tok)
			if !errors.Is(err, server.ErrUnauthenticated) {
				t.Fatalf("expected unauthenticated, got %v", err)
			}
		})
	}
}

package handler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	server "github.com/charadev96/famlink/internal/server/domain"
	shared "github.com/charadev96/famlink/internal/shared/domain"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{fmt.Errorf("%w: bad email", server.ErrValidation), codes.InvalidArgument},
		{server.ErrDuplicateInvitation, codes.AlreadyExists},
		{server.ErrInvitationNotPending, codes.FailedPrecondition},
		{fmt.Errorf("%w: yesterday", server.ErrInvitationExpired), codes.FailedPrecondition},
		{server.ErrNotAuthorized, codes.PermissionDenied},
		{server.ErrUnauthenticated, codes.Unauthenticated},
		{server.ErrRateLimited, codes.ResourceExhausted},
		{fmt.Errorf("failed to get invitation: %w", shared.ErrNotExist), codes.NotFound},
		{errors.New("disk on fire"), codes.Internal},
	}
	for _, tt := range tests {
		got := status.Code(Status(tt.err, nil))
		if got != tt.want {
			t.Fatalf("Status(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
	if Status(nil, nil) != nil {
		t.Fatal("nil error must stay nil")
	}
	st, _ := status.FromError(Status(errors.New("secret detail"), nil))
	if st.Message() != "internal error" {
		t.Fatalf("internal details must not leak, got %q", st.Message())
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
	}
	for _, tt := range tests {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", tt.header))
		got, ok := BearerToken(ctx)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("BearerToken(%q) = %q, %v", tt.header, got, ok)
		}
	}
	if _, ok := BearerToken(context.Background()); ok {
		t.Fatal("expected no token without metadata")
	}
}

type staticProvider struct {
	token string
	ident server.Identity
}

func (p staticProvider) Authenticate(ctx context.Context, token string) (server.Identity, error) {
	if token != p.token {
		return server.Identity{}, server.ErrUnauthenticated
	}
	return p.ident, nil
}

func TestAuthenticate(t *testing.T) {
	ident := server.Identity{UserID: uuid.New(), Email: "dad@example.com"}
	intercept := Authenticate(staticProvider{token: "good", ident: ident})
	info := &grpc.UnaryServerInfo{FullMethod: "/test/Method"}
	next := func(ctx context.Context, req any) (any, error) {
		return RequireIdentity(ctx)
	}

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer good"))
	got, err := intercept(ctx, nil, info, next)
	if err != nil {
		t.Fatal(err)
	}
	if got.(server.Identity) != ident {
		t.Fatalf("unexpected identity %+v", got)
	}

	for _, md := range []metadata.MD{
		metadata.Pairs("authorization", "Bearer bad"),
		metadata.MD{},
	} {
		ctx := metadata.NewIncomingContext(context.Background(), md)
		if _, err := intercept(ctx, nil, info, next); status.Code(err) != codes.Unauthenticated {
			t.Fatalf("expected unauthenticated, got %v", err)
		}
	}
}

func TestUserRateLimiter(t *testing.T) {
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	rl := NewUserRateLimiter(60, 2, time.Minute)
	rl.now = func() time.Time { return now }
	a, b := uuid.New(), uuid.New()

	if !rl.Allow(a) || !rl.Allow(a) {
		t.Fatal("burst must be allowed")
	}
	if rl.Allow(a) {
		t.Fatal("expected limit after burst")
	}
	if !rl.Allow(b) {
		t.Fatal("limits are per user")
	}

	now = now.Add(time.Second)
	if !rl.Allow(a) {
		t.Fatal("expected a token to be refilled after one second")
	}

	now = now.Add(2 * time.Minute)
	if n := rl.Prune(); n != 2 {
		t.Fatalf("expected both idle buckets pruned, got %d", n)
	}
}

func TestRateLimitInterceptor(t *testing.T) {
	rl := NewUserRateLimiter(1, 1, time.Minute)
	intercept := RateLimit(rl, "/test/Limited")
	ctx := WithIdentity(context.Background(), server.Identity{UserID: uuid.New()})
	next := func(ctx context.Context, req any) (any, error) { return "ok", nil }

	limited := &grpc.UnaryServerInfo{FullMethod: "/test/Limited"}
	if _, err := intercept(ctx, nil, limited, next); err != nil {
		t.Fatal(err)
	}
	if _, err := intercept(ctx, nil, limited, next); status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("expected resource exhausted, got %v", err)
	}
	free := &grpc.UnaryServerInfo{FullMethod: "/test/Free"}
	for range 3 {
		if _, err := intercept(ctx, nil, free, next); err != nil {
			t.Fatalf("unlisted methods are not limited: %v", err)
		}
	}
}

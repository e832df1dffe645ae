package handler

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	server "github.com/charadev96/famlink/internal/server/domain"
)

const authorizationKey = "authorization"

type identityKey struct{}

func WithIdentity(ctx context.Context, ident server.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, ident)
}

func IdentityFrom(ctx context.Context) (server.Identity, bool) {
	ident, ok := ctx.Value(identityKey{}).(server.Identity)
	return ident, ok
}

// RequireIdentity returns the caller identity or an Unauthenticated status.
func RequireIdentity(ctx context.Context) (server.Identity, error) {
	ident, ok := IdentityFrom(ctx)
	if !ok {
		return server.Identity{}, status.Error(codes.Unauthenticated, "missing identity")
	}
	return ident, nil
}

// BearerToken extracts the token from the "authorization: Bearer" metadata.
func BearerToken(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}
	for _, v := range md.Get(authorizationKey) {
		scheme, token, found := strings.Cut(v, " ")
		if found && strings.EqualFold(scheme, "bearer") && token != "" {
			return strings.TrimSpace(token), true
		}
	}
	return "", false
}

// Authenticate resolves the caller of every request through provider.
func Authenticate(provider server.IdentityProvider) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		token, ok := BearerToken(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing bearer token")
		}
		ident, err := provider.Authenticate(ctx, token)
		if err != nil {
			return nil, Status(err, nil)
		}
		return handler(WithIdentity(ctx, ident), req)
	}
}

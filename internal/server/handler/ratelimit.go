package handler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"

	server "github.com/charadev96/famlink/internal/server/domain"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// UserRateLimiter keeps one token bucket per authenticated user.
type UserRateLimiter struct {
	mu       sync.Mutex
	visitors map[uuid.UUID]*visitor

	limit rate.Limit
	burst int
	ttl   time.Duration
	now   func() time.Time
}

// NewUserRateLimiter allows perMinute requests per user with the given burst.
// Buckets idle for longer than ttl are dropped by Prune.
func NewUserRateLimiter(perMinute, burst int, ttl time.Duration) *UserRateLimiter {
	return &UserRateLimiter{
		visitors: make(map[uuid.UUID]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (rl *UserRateLimiter) Allow(user uuid.UUID) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.visitors[user]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[user] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (rl *UserRateLimiter) Prune() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	n := 0
	now := rl.now()
	for id, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.ttl {
			delete(rl.visitors, id)
			n++
		}
	}
	return n
}

// Run prunes idle buckets every minute until ctx is done.
func (rl *UserRateLimiter) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.Prune()
		case <-ctx.Done():
			return nil
		}
	}
}

// RateLimit applies rl to the listed methods. It must run after Authenticate.
func RateLimit(rl *UserRateLimiter, methods ...string) grpc.UnaryServerInterceptor {
	limited := make(map[string]bool, len(methods))
	for _, m := range methods {
		limited[m] = true
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !limited[info.FullMethod] {
			return handler(ctx, req)
		}
		ident, ok := IdentityFrom(ctx)
		if ok && !rl.Allow(ident.UserID) {
			return nil, Status(server.ErrRateLimited, nil)
		}
		return handler(ctx, req)
	}
}

package handler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

func Logging(logger *zerolog.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)

		ev := logger.Debug()
		switch code {
		case codes.OK:
		case codes.Internal, codes.Unknown:
			ev = logger.Error()
		default:
			ev = logger.Info()
		}
		if p, ok := peer.FromContext(ctx); ok {
			ev = ev.Str("peer", p.Addr.String())
		}
		ev.Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("elapsed", time.Since(start)).
			Msg("handled request")
		return resp, err
	}
}

package handler

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	server "github.com/charadev96/famlink/internal/server/domain"
	shared "github.com/charadev96/famlink/internal/shared/domain"
)

var codeTable = []struct {
	err  error
	code codes.Code
}{
	{server.ErrValidation, codes.InvalidArgument},
	{server.ErrDuplicateInvitation, codes.AlreadyExists},
	{server.ErrInvitationNotPending, codes.FailedPrecondition},
	{server.ErrInvitationExpired, codes.FailedPrecondition},
	{server.ErrNotAuthorized, codes.PermissionDenied},
	{server.ErrUnauthenticated, codes.Unauthenticated},
	{server.ErrRateLimited, codes.ResourceExhausted},
	{shared.ErrNotExist, codes.NotFound},
	{shared.ErrConflict, codes.AlreadyExists},
	{context.DeadlineExceeded, codes.DeadlineExceeded},
	{context.Canceled, codes.Canceled},
}

// Code returns the gRPC code err maps to.
func Code(err error) codes.Code {
	for _, e := range codeTable {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return codes.Internal
}

// Status converts a service error into a gRPC status. Internal errors are
// logged and replaced by a generic message.
func Status(err error, logger *zerolog.Logger) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	code := Code(err)
	if code == codes.Internal {
		if logger != nil {
			logger.Error().Err(err).Msg("request failed")
		}
		return status.Error(code, "internal error")
	}
	return status.Error(code, err.Error())
}

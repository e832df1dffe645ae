package domain

import "errors"

var (
	ErrValidation           = errors.New("invalid input")
	ErrDuplicateInvitation  = errors.New("a pending invitation already exists for this email")
	ErrInvitationNotPending = errors.New("this invitation was already handled")
	ErrInvitationExpired    = errors.New("invitation expired")
	ErrNotAuthorized        = errors.New("not authorized")
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrRateLimited          = errors.New("too many requests")

	// ErrDuplicateRelationship is only reported internally; acceptance still
	// succeeds when the link already exists.
	ErrDuplicateRelationship = errors.New("relationship already exists")
)

package notify

import (
	"context"

	"github.com/rs/zerolog"

	server "github.com/charadev96/famlink/internal/server/domain"
)

// LogDispatcher records invitations in the log instead of mailing them.
type LogDispatcher struct {
	Logger *zerolog.Logger
}

func (d *LogDispatcher) Send(ctx context.Context, n server.InvitationNotification) error {
	ev := d.Logger.Info().
		Str("invitation", n.InvitationID.String()).
		Str("to", n.InviteeEmail).
		Str("from", n.InviterName).
		Str("role", n.InviterRole.String()).
		Str("code", n.Code)
	if n.ExpiresAt != nil {
		ev = ev.Time("expires", *n.ExpiresAt)
	}
	ev.Msg("invitation email not sent, smtp is not configured")
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/uptrace/bun"

	server "github.com/charadev96/famlink/internal/server/domain"
	shared "github.com/charadev96/famlink/internal/shared/domain"
	"github.com/charadev96/famlink/internal/shared/infra"
)

const pendingInvitationIndex = "family_invitations_pending_pair_idx"

type BunInvitationRepository struct {
	db *bun.DB
}

func NewBunInvitationRepository(ctx context.Context, db *bun.DB) (*BunInvitationRepository, error) {
	r := &BunInvitationRepository{
		db: db,
	}
	tx := infra.ExtractTx(ctx, r.db)
	_, err := tx.NewCreateTable().
		Model((*invitation)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return r, fmt.Errorf("failed to create repository: %w", err)
	}
	_, err = tx.NewCreateIndex().
		Model((*invitation)(nil)).
		Index(pendingInvitationIndex).
		Unique().
		IfNotExists().
		Column("inviter_id", "invitee_email").
		Where("status = ?", server.StatusPending).
		Exec(ctx)
	if err != nil {
		return r, fmt.Errorf("failed to create pending invitation index: %w", err)
	}
	_, err = tx.NewCreateIndex().
		Model((*invitation)(nil)).
		Index("family_invitations_invitee_idx").
		IfNotExists().
		Column("invitee_email", "status").
		Exec(ctx)
	if err != nil {
		return r, fmt.Errorf("failed to create invitee index: %w", err)
	}
	return r, nil
}

func (r *BunInvitationRepository) Create(ctx context.Context, inv server.Invitation) error {
	tx := infra.ExtractTx(ctx, r.db)
	i := new(invitation)
	i.fromDomain(inv)
	res, err := tx.NewInsert().
		Model(i).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save invitation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to save invitation: %w", shared.ErrConflict)
	}
	return nil
}

func (r *BunInvitationRepository) GetByID(ctx context.Context, id uuid.UUID) (server.Invitation, error) {
	return r.getWhere(ctx, "id = ?", id)
}

func (r *BunInvitationRepository) GetByCode(ctx context.Context, code string) (server.Invitation, error) {
	return r.getWhere(ctx, "code = ?", strings.ToUpper(strings.TrimSpace(code)))
}

func (r *BunInvitationRepository) FindPending(ctx context.Context, inviterID uuid.UUID, email string) (server.Invitation, error) {
	tx := infra.ExtractTx(ctx, r.db)
	i := new(invitation)
	err := tx.NewSelect().
		Model(i).
		Where("inviter_id = ?", inviterID).
		Where("invitee_email = ?", server.NormalizeEmail(email)).
		Where("status = ?", server.StatusPending).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = shared.ErrNotExist
		}
		return server.Invitation{}, fmt.Errorf("failed to get pending invitation: %w", err)
	}
	return i.toDomain(), nil
}

func (r *BunInvitationRepository) getWhere(ctx context.Context, query string, arg any) (server.Invitation, error) {
	tx := infra.ExtractTx(ctx, r.db)
	i := new(invitation)
	err := tx.NewSelect().
		Model(i).
		Where(query, arg).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = shared.ErrNotExist
		}
		return server.Invitation{}, fmt.Errorf("failed to get invitation: %w", err)
	}
	return i.toDomain(), nil
}

func (r *BunInvitationRepository) ListPendingByInvitee(ctx context.Context, email string) ([]server.Invitation, error) {
	return r.listPending(ctx, "invitee_email = ?", server.NormalizeEmail(email))
}

func (r *BunInvitationRepository) ListPendingByInviter(ctx context.Context, inviterID uuid.UUID) ([]server.Invitation, error) {
	return r.listPending(ctx, "inviter_id = ?", inviterID)
}

func (r *BunInvitationRepository) listPending(ctx context.Context, query string, arg any) ([]server.Invitation, error) {
	tx := infra.ExtractTx(ctx, r.db)
	var rows []invitation
	err := tx.NewSelect().
		Model(&rows).
		Where(query, arg).
		Where("status = ?", server.StatusPending).
		Order("created_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	invs := make([]server.Invitation, len(rows))
	for n := range rows {
		invs[n] = rows[n].toDomain()
	}
	return invs, nil
}

func (r *BunInvitationRepository) Transition(
	ctx context.Context, id uuid.UUID,
	from, to server.InvitationStatus, at time.Time,
) error {
	tx := infra.ExtractTx(ctx, r.db)
	i := &invitation{ID: id}
	res, err := tx.NewUpdate().
		Model(i).
		Set("status = ?", to).
		Set("updated_at = ?", at.UTC()).
		WherePK().
		Where("status = ?", from).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update invitation status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to move invitation from %s to %s: %w", from, to, shared.ErrConflict)
	}
	return nil
}

type invitation struct {
	bun.BaseModel `bun:"table:family_invitations"`

	ID           uuid.UUID               `bun:",pk"`
	InviterID    uuid.UUID               `bun:",notnull"`
	InviteeEmail string                  `bun:",notnull"`
	InviterRole  server.Role             `bun:",notnull"`
	Status       server.InvitationStatus `bun:",notnull"`
	Code         string                  `bun:",unique,notnull"`
	ExpiresAt    *time.Time
	CreatedAt    time.Time `bun:",notnull"`
	UpdatedAt    time.Time `bun:",notnull"`
}

func (i *invitation) toDomain() server.Invitation {
	inv := server.Invitation{}
	copier.Copy(&inv, i)
	return inv
}

func (i *invitation) fromDomain(inv server.Invitation) {
	copier.Copy(i, &inv)
	i.InviteeEmail = server.NormalizeEmail(inv.InviteeEmail)
	i.Code = strings.ToUpper(inv.Code)
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/uptrace/bun"

	server "github.com/charadev96/famlink/internal/server/domain"
	shared "github.com/charadev96/famlink/internal/shared/domain"
	"github.com/charadev96/famlink/internal/shared/infra"
)

type BunRelationshipRepository struct {
	db *bun.DB
}

func NewBunRelationshipRepository(ctx context.Context, db *bun.DB) (*BunRelationshipRepository, error) {
	r := &BunRelationshipRepository{
		db: db,
	}
	tx := infra.ExtractTx(ctx, r.db)
	_, err := tx.NewCreateTable().
		Model((*relationship)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return r, fmt.Errorf("failed to create repository: %w", err)
	}
	_, err = tx.NewCreateIndex().
		Model((*relationship)(nil)).
		Index("family_relationships_child_idx").
		IfNotExists().
		Column("child_id").
		Exec(ctx)
	if err != nil {
		return r, fmt.Errorf("failed to create child index: %w", err)
	}
	return r, nil
}

func (r *BunRelationshipRepository) CreateIfNotExists(ctx context.Context, rel server.Relationship) (server.Relationship, bool, error) {
	tx := infra.ExtractTx(ctx, r.db)
	row := new(relationship)
	copier.Copy(row, &rel)
	if row.Type == "" {
		row.Type = server.RelationshipParentChild
	}
	res, err := tx.NewInsert().
		Model(row).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	if err != nil {
		return server.Relationship{}, false, fmt.Errorf("failed to save relationship: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		existing, err := r.GetByPair(ctx, rel.ParentID, rel.ChildID)
		return existing, false, err
	}
	created := server.Relationship{}
	copier.Copy(&created, row)
	return created, true, nil
}

func (r *BunRelationshipRepository) GetByPair(ctx context.Context, parentID, childID uuid.UUID) (server.Relationship, error) {
	tx := infra.ExtractTx(ctx, r.db)
	row := new(relationship)
	rel := server.Relationship{}
	err := tx.NewSelect().
		Model(row).
		Where("parent_id = ?", parentID).
		Where("child_id = ?", childID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = shared.ErrNotExist
		}
		return rel, fmt.Errorf("failed to get relationship: %w", err)
	}
	copier.Copy(&rel, row)
	return rel, nil
}

func (r *BunRelationshipRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]server.Relationship, error) {
	tx := infra.ExtractTx(ctx, r.db)
	var rows []relationship
	err := tx.NewSelect().
		Model(&rows).
		Where("parent_id = ?", userID).
		WhereOr("child_id = ?", userID).
		Order("created_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list relationships: %w", err)
	}
	rels := make([]server.Relationship, 0, len(rows))
	copier.Copy(&rels, &rows)
	return rels, nil
}

func (r *BunRelationshipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := infra.ExtractTx(ctx, r.db)
	row := &relationship{ID: id}
	res, err := tx.NewDelete().
		Model(row).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete relationship: %w", err)
	}
	return expectAffected(res, "relationship")
}

func (r *BunRelationshipRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tx := infra.ExtractTx(ctx, r.db)
	res, err := tx.NewDelete().
		Model((*relationship)(nil)).
		Where("parent_id = ?", userID).
		WhereOr("child_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete relationships: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

type relationship struct {
	bun.BaseModel `bun:"table:family_relationships"`

	ID        uuid.UUID `bun:",pk"`
	ParentID  uuid.UUID `bun:",notnull,unique:parent_child"`
	ChildID   uuid.UUID `bun:",notnull,unique:parent_child"`
	Type      string    `bun:"relationship_type,notnull"`
	CreatedAt time.Time `bun:",notnull"`
	UpdatedAt time.Time `bun:",notnull"`
}

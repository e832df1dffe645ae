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

type BunUserRepository struct {
	db *bun.DB
}

func NewBunUserRepository(ctx context.Context, db *bun.DB) (*BunUserRepository, error) {
	r := &BunUserRepository{
		db: db,
	}
	tx := infra.ExtractTx(ctx, r.db)
	_, err := tx.NewCreateTable().
		Model((*user)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return r, fmt.Errorf("failed to create repository: %w", err)
	}
	return r, nil
}

func (r *BunUserRepository) Create(ctx context.Context, email, displayName string) (uuid.UUID, error) {
	tx := infra.ExtractTx(ctx, r.db)
	id := uuid.New()
	u := &user{
		ID:          id,
		Email:       server.NormalizeEmail(email),
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}
	res, err := tx.NewInsert().
		Model(u).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return uuid.Nil, fmt.Errorf("failed to create user: email %q taken: %w", u.Email, shared.ErrConflict)
	}
	return id, nil
}

func (r *BunUserRepository) GetByID(ctx context.Context, id uuid.UUID) (server.User, error) {
	return r.getWhere(ctx, "id = ?", id)
}

func (r *BunUserRepository) GetByEmail(ctx context.Context, email string) (server.User, error) {
	return r.getWhere(ctx, "email = ?", server.NormalizeEmail(email))
}

func (r *BunUserRepository) getWhere(ctx context.Context, query string, arg any) (server.User, error) {
	tx := infra.ExtractTx(ctx, r.db)
	u := new(user)
	usr := server.User{}
	err := tx.NewSelect().
		Model(u).
		Where(query, arg).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = shared.ErrNotExist
		}
		return usr, fmt.Errorf("failed to get user: %w", err)
	}
	copier.Copy(&usr, u)
	return usr, nil
}

func (r *BunUserRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]server.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tx := infra.ExtractTx(ctx, r.db)
	var rows []user
	err := tx.NewSelect().
		Model(&rows).
		Where("id IN (?)", bun.In(ids)).
		Order("email ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]server.User, 0, len(rows))
	copier.Copy(&users, &rows)
	return users, nil
}

func (r *BunUserRepository) List(ctx context.Context, q server.UserListQuery) (server.UserList, error) {
	tx := infra.ExtractTx(ctx, r.db)
	if q.Limit <= 0 {
		q.Limit = 50
	}
	var rows []user
	query := tx.NewSelect().
		Model(&rows).
		Limit(q.Limit + 1).
		Order("id ASC")
	if q.Cursor != uuid.Nil {
		query = query.Where("id > ?", q.Cursor)
	}
	if err := query.Scan(ctx); err != nil {
		return server.UserList{}, fmt.Errorf("failed to list users: %w", err)
	}

	var next uuid.UUID
	if len(rows) > q.Limit {
		rows = rows[:q.Limit]
		next = rows[len(rows)-1].ID
	}
	users := make([]server.User, 0, len(rows))
	copier.Copy(&users, &rows)
	return server.UserList{
		Users:  users,
		Cursor: next,
	}, nil
}

func (r *BunUserRepository) UpdateDisplayName(ctx context.Context, id uuid.UUID, name string) error {
	tx := infra.ExtractTx(ctx, r.db)
	u := &user{ID: id, DisplayName: name}
	res, err := tx.NewUpdate().
		Model(u).
		Column("display_name").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update user display name: %w", err)
	}
	return expectAffected(res, "user")
}

func (r *BunUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := infra.ExtractTx(ctx, r.db)
	u := &user{ID: id}
	res, err := tx.NewDelete().
		Model(u).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return expectAffected(res, "user")
}

func expectAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return nil
	}
	if n == 0 {
		return fmt.Errorf("failed to find %s: %w", what, shared.ErrNotExist)
	}
	return nil
}

type user struct {
	bun.BaseModel `bun:"table:users"`

	ID          uuid.UUID `bun:",pk"`
	Email       string    `bun:",unique,notnull"`
	DisplayName string    `bun:",notnull"`
	CreatedAt   time.Time `bun:",notnull"`
}

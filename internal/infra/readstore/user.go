package readstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"equipment-rental/internal/domain/user"
	"equipment-rental/internal/infra"
	"equipment-rental/internal/infra/db"
	"equipment-rental/internal/usecase/queries"
	"equipment-rental/internal/usecase/shared"
)

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(db db.DBTX) *UserReadStore {
	return &UserReadStore{db: db}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	query, args, err := qb.
		Select("id", "email", "name", "role", "is_active").
		From("users").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build user query", err)
	}

	var view queries.AuthorizedUserView
	err = r.db.QueryRow(ctx, query, args...).
		Scan(&view.ID, &view.Email, &view.Name, &view.Role, &view.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}

	return &view, nil
}

func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	query, args, err := qb.
		Select("id", "email", "name", "role", "is_active", "password_hash").
		From("users").
		Where("email = ?", email).
		ToSql()
	if err != nil {
		return nil, "", infra.WrapRepoErr("failed to build user query", err)
	}

	var (
		view         queries.AuthorizedUserView
		passwordHash string
	)
	err = r.db.QueryRow(ctx, query, args...).
		Scan(&view.ID, &view.Email, &view.Name, &view.Role, &view.IsActive, &passwordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}

	return &view, passwordHash, nil
}

func (r *UserReadStore) SnapshotByID(ctx context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	view, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(view.Role)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid user role", err)
	}

	snapshot := &shared.UserSnapshot{
		ID:       view.ID,
		Name:     view.Name,
		Role:     role,
		IsActive: view.IsActive,
	}
	return snapshot, nil
}

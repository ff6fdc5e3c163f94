package repository

import (
	"context"
	"errors"

	"equipment-rental/internal/infra"
	"equipment-rental/internal/infra/db"
	"equipment-rental/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrCodeUniqueViolation = "23505"

type EquipmentRepository struct{}

func NewEquipmentRepository() *EquipmentRepository {
	return &EquipmentRepository{}
}

func (r *EquipmentRepository) Create(ctx context.Context, tx db.DBTX, params shared.CreateEquipmentParams) (uuid.UUID, error) {
	const query = `
		INSERT INTO equipment (name, category, description, image_url, stock, available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		params.Name, params.Category, params.Description,
		params.ImageURL, params.Stock, params.Available,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("equipment already exists", err, infra.KindDuplicateKey)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create equipment", err)
	}

	return id, nil
}

func (r *EquipmentRepository) Update(ctx context.Context, tx db.DBTX, id uuid.UUID, params shared.UpdateEquipmentParams) error {
	const query = `
		UPDATE equipment
		SET name = $2, category = $3, description = $4, available = $5, updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id, params.Name, params.Category, params.Description, params.Available)
	if err != nil {
		return infra.WrapRepoErr("failed to update equipment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("equipment not found", pgx.ErrNoRows, infra.KindNotFound)
	}

	return nil
}

func (r *EquipmentRepository) SetImageURL(ctx context.Context, tx db.DBTX, id uuid.UUID, imageURL *string) error {
	const query = `
		UPDATE equipment
		SET image_url = $2, updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id, imageURL)
	if err != nil {
		return infra.WrapRepoErr("failed to set equipment image", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("equipment not found", pgx.ErrNoRows, infra.KindNotFound)
	}

	return nil
}

// AdjustStockGuarded is the optimistic-concurrency core: the version predicate
// rejects writes based on a stale snapshot, and the stock predicate keeps the
// row from going negative even if two guarded updates interleave.
func (r *EquipmentRepository) AdjustStockGuarded(ctx context.Context, tx db.DBTX, id uuid.UUID, delta int32, expectedVersion int64) (bool, error) {
	const query = `
		UPDATE equipment
		SET stock = stock + $2, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $3 AND stock + $2 >= 0`

	tag, err := tx.Exec(ctx, query, id, delta, expectedVersion)
	if err != nil {
		return false, infra.WrapRepoErr("failed to adjust equipment stock", err)
	}

	return tag.RowsAffected() > 0, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation
}

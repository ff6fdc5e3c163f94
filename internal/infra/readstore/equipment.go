package readstore

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"equipment-rental/internal/infra"
	"equipment-rental/internal/infra/db"
	"equipment-rental/internal/usecase/queries"
	"equipment-rental/internal/usecase/shared"
)

type EquipmentReadStore struct {
	db db.DBTX
}

func NewEquipmentReadStore(db db.DBTX) *EquipmentReadStore {
	return &EquipmentReadStore{db: db}
}

const equipmentColumns = "id, name, category, description, image_url, stock, available, version, created_at, updated_at"

func (r *EquipmentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.EquipmentView, error) {
	query, args, err := qb.
		Select(equipmentColumns).
		From("equipment").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build equipment query", err)
	}

	view, err := scanEquipment(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("equipment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find equipment by ID", err)
	}

	return view, nil
}

func (r *EquipmentReadStore) FindAll(ctx context.Context, filter queries.EquipmentFilter) ([]*queries.EquipmentView, error) {
	builder := qb.
		Select(equipmentColumns).
		From("equipment").
		OrderBy("name ASC")

	if filter.Category != "" {
		builder = builder.Where("category = ?", filter.Category)
	}
	if filter.Keyword != "" {
		builder = builder.Where(sq.Or{
			sq.ILike{"name": "%" + filter.Keyword + "%"},
			sq.ILike{"description": "%" + filter.Keyword + "%"},
		})
	}
	if filter.AvailableOnly {
		builder = builder.Where("available = TRUE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build equipment list query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list equipment", err)
	}
	defer rows.Close()

	var views []*queries.EquipmentView
	for rows.Next() {
		view, err := scanEquipment(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan equipment row", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate equipment rows", err)
	}

	return views, nil
}

func (r *EquipmentReadStore) SnapshotByID(ctx context.Context, id uuid.UUID) (*shared.EquipmentSnapshot, error) {
	query, args, err := qb.
		Select(equipmentColumns).
		From("equipment").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build equipment snapshot query", err)
	}

	var snapshot shared.EquipmentSnapshot
	err = r.db.QueryRow(ctx, query, args...).
		Scan(&snapshot.ID, &snapshot.Name, &snapshot.Category, &snapshot.Description, &snapshot.ImageURL,
			&snapshot.Stock, &snapshot.Available, &snapshot.Version, &snapshot.CreatedAt, &snapshot.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("equipment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to snapshot equipment", err)
	}

	return &snapshot, nil
}

func scanEquipment(row pgx.Row) (*queries.EquipmentView, error) {
	var view queries.EquipmentView
	err := row.Scan(
		&view.ID, &view.Name, &view.Category, &view.Description, &view.ImageURL,
		&view.Stock, &view.Available, &view.Version, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

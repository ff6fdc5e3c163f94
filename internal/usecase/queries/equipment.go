package queries

import (
	"context"

	"github.com/google/uuid"

	"equipment-rental/internal/infra"
	"equipment-rental/internal/pkg/errs"
)

var ErrEquipmentNotFound = errs.New("equipment not found")

// EquipmentFilter narrows the catalog listing. Zero values mean no filtering.
type EquipmentFilter struct {
	Category      string
	Keyword       string
	AvailableOnly bool
}

type EquipmentQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*EquipmentView, error)
	List(ctx context.Context, filter EquipmentFilter) ([]*EquipmentView, error)
}

type EquipmentReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*EquipmentView, error)
	FindAll(ctx context.Context, filter EquipmentFilter) ([]*EquipmentView, error)
}

type equipmentQueriesImpl struct {
	readStore EquipmentReadStore
}

func NewEquipmentQueries(readStore EquipmentReadStore) EquipmentQueries {
	return &equipmentQueriesImpl{
		readStore: readStore,
	}
}

func (q *equipmentQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*EquipmentView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, err
	}

	return view, nil
}

func (q *equipmentQueriesImpl) List(ctx context.Context, filter EquipmentFilter) ([]*EquipmentView, error) {
	return q.readStore.FindAll(ctx, filter)
}

//go:build unit || e2e

package builder

import (
	"time"

	"equipment-rental/internal/domain/equipment"
	reqdto "equipment-rental/internal/handler/dto/request"
	"equipment-rental/internal/usecase/queries"
	"equipment-rental/internal/usecase/shared"

	"github.com/google/uuid"
)

type EquipmentBuilder struct {
	ID          uuid.UUID
	Name        string
	Category    string
	Description string
	ImageURL    *string
	Stock       int32
	Available   bool
	Version     int64
}

func NewEquipmentBuilder() *EquipmentBuilder {
	return &EquipmentBuilder{
		ID:          uuid.New(),
		Name:        "MacBook Pro 14",
		Category:    "laptop",
		Description: "14-inch laptop for development work",
		Stock:       5,
		Available:   true,
		Version:     0,
	}
}

func (e *EquipmentBuilder) With(mutate func(*EquipmentBuilder)) *EquipmentBuilder {
	mutate(e)
	return e
}

// Build methods
func (e *EquipmentBuilder) BuildDomain() (*equipment.Equipment, error) {
	return equipment.NewEquipment(e.Name, e.Category, e.Description, e.ImageURL, e.Stock, e.Available)
}

func (e *EquipmentBuilder) BuildView() *queries.EquipmentView {
	now := time.Now()
	return &queries.EquipmentView{
		ID:          e.ID,
		Name:        e.Name,
		Category:    e.Category,
		Description: e.Description,
		ImageURL:    e.ImageURL,
		Stock:       e.Stock,
		Available:   e.Available,
		Version:     e.Version,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (e *EquipmentBuilder) BuildSnapshot() *shared.EquipmentSnapshot {
	now := time.Now()
	return &shared.EquipmentSnapshot{
		ID:          e.ID,
		Name:        e.Name,
		Category:    e.Category,
		Description: e.Description,
		ImageURL:    e.ImageURL,
		Stock:       e.Stock,
		Available:   e.Available,
		Version:     e.Version,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (e *EquipmentBuilder) BuildCreateRequestDTO() reqdto.CreateEquipmentRequest {
	available := e.Available
	return reqdto.CreateEquipmentRequest{
		Name:        e.Name,
		Category:    e.Category,
		Description: e.Description,
		Stock:       e.Stock,
		Available:   &available,
	}
}

// Fluent builder methods
func (e *EquipmentBuilder) WithID(id uuid.UUID) *EquipmentBuilder {
	e.ID = id
	return e
}

func (e *EquipmentBuilder) WithName(name string) *EquipmentBuilder {
	e.Name = name
	return e
}

func (e *EquipmentBuilder) WithCategory(category string) *EquipmentBuilder {
	e.Category = category
	return e
}

func (e *EquipmentBuilder) WithStock(stock int32) *EquipmentBuilder {
	e.Stock = stock
	return e
}

func (e *EquipmentBuilder) WithVersion(version int64) *EquipmentBuilder {
	e.Version = version
	return e
}

func (e *EquipmentBuilder) AsUnavailable() *EquipmentBuilder {
	e.Available = false
	return e
}

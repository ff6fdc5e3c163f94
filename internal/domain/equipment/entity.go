package equipment

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName         = errors.New("equipment name required")
	ErrEmptyCategory     = errors.New("equipment category required")
	ErrNegativeStock     = errors.New("stock cannot be negative")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Equipment is a catalog item with a finite stock counter. The version field
// backs optimistic concurrency control in storage: every committed stock
// mutation must bump it by exactly one.
type Equipment struct {
	id          uuid.UUID
	name        string
	category    string
	description string
	imageURL    *string
	stock       int32
	available   bool
	version     int64
	createdAt   time.Time
	updatedAt   time.Time
}

func NewEquipment(name, category, description string, imageURL *string, stock int32, available bool) (*Equipment, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if strings.TrimSpace(category) == "" {
		return nil, ErrEmptyCategory
	}
	if stock < 0 {
		return nil, ErrNegativeStock
	}

	return &Equipment{
		id:          uuid.New(),
		name:        strings.TrimSpace(name),
		category:    strings.TrimSpace(category),
		description: description,
		imageURL:    imageURL,
		stock:       stock,
		available:   available,
		version:     0,
	}, nil
}

func ReconstructEquipment(
	id uuid.UUID,
	name, category, description string,
	imageURL *string,
	stock int32,
	available bool,
	version int64,
	createdAt, updatedAt time.Time,
) *Equipment {
	return &Equipment{
		id:          id,
		name:        name,
		category:    category,
		description: description,
		imageURL:    imageURL,
		stock:       stock,
		available:   available,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// DecreaseStock applies an in-memory decrement. Storage performs the same
// check again inside the guarded update; this guard exists so invalid
// operations fail before touching the database.
func (e *Equipment) DecreaseStock(quantity int32) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if e.stock < quantity {
		return ErrInsufficientStock
	}
	e.stock -= quantity
	e.version++
	return nil
}

func (e *Equipment) IncreaseStock(quantity int32) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	e.stock += quantity
	e.version++
	return nil
}

func (e *Equipment) SetImageURL(url *string) {
	e.imageURL = url
}

func (e *Equipment) ID() uuid.UUID        { return e.id }
func (e *Equipment) Name() string         { return e.name }
func (e *Equipment) Category() string     { return e.category }
func (e *Equipment) Description() string  { return e.description }
func (e *Equipment) ImageURL() *string    { return e.imageURL }
func (e *Equipment) Stock() int32         { return e.stock }
func (e *Equipment) Available() bool      { return e.available }
func (e *Equipment) Version() int64       { return e.version }
func (e *Equipment) CreatedAt() time.Time { return e.createdAt }
func (e *Equipment) UpdatedAt() time.Time { return e.updatedAt }

package shared

import (
	"context"
	"time"

	"equipment-rental/internal/domain/equipment"
	"equipment-rental/internal/domain/request"
	"equipment-rental/internal/domain/user"
	"equipment-rental/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Requests() RequestRepository
	Equipment() EquipmentRepository
	Users() UserRepository
	Reads() CommandReads
	DB() db.DBTX
}

// CommandReads serves the write side's own lookups. When obtained from a Tx
// it reads through the transaction, so the snapshot it returns is the one the
// guarded updates will be validated against.
type CommandReads interface {
	RequestWithItems(ctx context.Context, id uuid.UUID) (*RequestSnapshot, error)
	EquipmentByID(ctx context.Context, id uuid.UUID) (*EquipmentSnapshot, error)
	UserByID(ctx context.Context, id uuid.UUID) (*UserSnapshot, error)
}

// Minimal snapshots for command read operations
type RequestSnapshot struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Status    request.Status
	Items     []RequestItemSnapshot
	CreatedAt time.Time
}

type RequestItemSnapshot struct {
	ID          uuid.UUID
	EquipmentID uuid.UUID
	Quantity    int32
}

// Entity rebuilds the aggregate so command code can run the transition rules
// before issuing the conditional write.
func (s *RequestSnapshot) Entity() *request.EquipmentRequest {
	items := make([]request.LineItem, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, request.LineItem{ID: it.ID, EquipmentID: it.EquipmentID, Quantity: it.Quantity})
	}
	return request.ReconstructEquipmentRequest(
		s.ID, s.UserID, s.Status, nil, nil, items, s.CreatedAt, s.CreatedAt,
	)
}

type EquipmentSnapshot struct {
	ID          uuid.UUID
	Name        string
	Category    string
	Description string
	ImageURL    *string
	Stock       int32
	Available   bool
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s *EquipmentSnapshot) Entity() *equipment.Equipment {
	return equipment.ReconstructEquipment(
		s.ID, s.Name, s.Category, s.Description, s.ImageURL,
		s.Stock, s.Available, s.Version, s.CreatedAt, s.UpdatedAt,
	)
}

type UserSnapshot struct {
	ID       uuid.UUID
	Name     string
	Role     user.Role
	IsActive bool
}

type RequestRepository interface {
	Create(ctx context.Context, tx db.DBTX, req *request.EquipmentRequest) (uuid.UUID, error)
	// MarkApproved and MarkRejected are conditional on status = PENDING and
	// report whether the row transitioned.
	MarkApproved(ctx context.Context, tx db.DBTX, id uuid.UUID, processedAt time.Time) (bool, error)
	MarkRejected(ctx context.Context, tx db.DBTX, id uuid.UUID, reason string, processedAt time.Time) (bool, error)
}

type EquipmentRepository interface {
	Create(ctx context.Context, tx db.DBTX, params CreateEquipmentParams) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, id uuid.UUID, params UpdateEquipmentParams) error
	SetImageURL(ctx context.Context, tx db.DBTX, id uuid.UUID, imageURL *string) error
	// AdjustStockGuarded applies a compare-and-swap stock delta: the row is
	// touched only when its version still equals expectedVersion and the
	// resulting stock stays non-negative. Returns false when the guard
	// rejected the write.
	AdjustStockGuarded(ctx context.Context, tx db.DBTX, id uuid.UUID, delta int32, expectedVersion int64) (bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, tx db.DBTX, u *user.User) (uuid.UUID, error)
	UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID) error
}

type CreateEquipmentParams struct {
	Name        string
	Category    string
	Description string
	ImageURL    *string
	Stock       int32
	Available   bool
}

type UpdateEquipmentParams struct {
	Name        string
	Category    string
	Description string
	Available   bool
}

package request

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus    = errors.New("invalid request status")
	ErrNoItems          = errors.New("request must contain at least one item")
	ErrInvalidQuantity  = errors.New("item quantity must be positive")
	ErrEmptyReason      = errors.New("reject reason required")
	ErrAlreadyProcessed = errors.New("request already processed")
)

// LineItem is one (equipment, quantity) pair within a request. Items are
// created together with their parent request and immutable thereafter; they
// hold a plain equipment reference, never a live back-pointer.
type LineItem struct {
	ID          uuid.UUID
	EquipmentID uuid.UUID
	Quantity    int32
}

func NewLineItem(equipmentID uuid.UUID, quantity int32) (LineItem, error) {
	if quantity <= 0 {
		return LineItem{}, ErrInvalidQuantity
	}
	return LineItem{
		ID:          uuid.New(),
		EquipmentID: equipmentID,
		Quantity:    quantity,
	}, nil
}

// EquipmentRequest is the aggregate the lifecycle engine operates on.
// Transitions are one-way: PENDING to APPROVED or PENDING to REJECTED.
type EquipmentRequest struct {
	id           uuid.UUID
	userID       uuid.UUID
	status       Status
	rejectReason *string
	processedAt  *time.Time
	items        []LineItem
	createdAt    time.Time
	updatedAt    time.Time
}

func NewEquipmentRequest(userID uuid.UUID, items []LineItem) (*EquipmentRequest, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	return &EquipmentRequest{
		id:     uuid.New(),
		userID: userID,
		status: StatusPending,
		items:  items,
	}, nil
}

func ReconstructEquipmentRequest(
	id, userID uuid.UUID,
	status Status,
	rejectReason *string,
	processedAt *time.Time,
	items []LineItem,
	createdAt, updatedAt time.Time,
) *EquipmentRequest {
	return &EquipmentRequest{
		id:           id,
		userID:       userID,
		status:       status,
		rejectReason: rejectReason,
		processedAt:  processedAt,
		items:        items,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// Approve flips the request into its approved terminal state. Stock movement
// is not the entity's business; the lifecycle engine pairs this transition
// with the guarded decrements inside one transaction.
func (r *EquipmentRequest) Approve(now time.Time) error {
	if !r.IsPending() {
		return ErrAlreadyProcessed
	}
	r.status = StatusApproved
	r.processedAt = &now
	return nil
}

func (r *EquipmentRequest) Reject(reason string, now time.Time) error {
	if !r.IsPending() {
		return ErrAlreadyProcessed
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrEmptyReason
	}
	r.status = StatusRejected
	r.rejectReason = &reason
	r.processedAt = &now
	return nil
}

func (r *EquipmentRequest) IsPending() bool {
	return r.status == StatusPending
}

func (r *EquipmentRequest) ID() uuid.UUID           { return r.id }
func (r *EquipmentRequest) UserID() uuid.UUID       { return r.userID }
func (r *EquipmentRequest) Status() Status          { return r.status }
func (r *EquipmentRequest) RejectReason() *string   { return r.rejectReason }
func (r *EquipmentRequest) ProcessedAt() *time.Time { return r.processedAt }
func (r *EquipmentRequest) Items() []LineItem       { return r.items }
func (r *EquipmentRequest) CreatedAt() time.Time    { return r.createdAt }
func (r *EquipmentRequest) UpdatedAt() time.Time    { return r.updatedAt }

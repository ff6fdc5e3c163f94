//go:build unit || e2e

package builder

import (
	"time"

	"equipment-rental/internal/domain/request"
	reqdto "equipment-rental/internal/handler/dto/request"
	"equipment-rental/internal/usecase/queries"
	"equipment-rental/internal/usecase/shared"

	"github.com/google/uuid"
)

type RequestItemSpec struct {
	EquipmentID   uuid.UUID
	EquipmentName string
	Quantity      int32
}

type RequestBuilder struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	UserName     string
	Status       string
	Items        []RequestItemSpec
	RejectReason *string
	ProcessedAt  *time.Time
	CreatedAt    time.Time
}

func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		UserName: "Test User",
		Status:   "PENDING",
		Items: []RequestItemSpec{
			{EquipmentID: uuid.New(), EquipmentName: "MacBook Pro 14", Quantity: 1},
		},
		CreatedAt: time.Now(),
	}
}

func (r *RequestBuilder) With(mutate func(*RequestBuilder)) *RequestBuilder {
	mutate(r)
	return r
}

// Build methods
func (r *RequestBuilder) BuildDomain() (*request.EquipmentRequest, error) {
	items := make([]request.LineItem, 0, len(r.Items))
	for _, spec := range r.Items {
		li, err := request.NewLineItem(spec.EquipmentID, spec.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, li)
	}
	return request.NewEquipmentRequest(r.UserID, items)
}

func (r *RequestBuilder) BuildView() *queries.RequestView {
	items := make([]queries.RequestItemView, 0, len(r.Items))
	for _, spec := range r.Items {
		items = append(items, queries.RequestItemView{
			ID:            uuid.New(),
			EquipmentID:   spec.EquipmentID,
			EquipmentName: spec.EquipmentName,
			Quantity:      spec.Quantity,
		})
	}
	return &queries.RequestView{
		ID:           r.ID,
		UserID:       r.UserID,
		UserName:     r.UserName,
		Status:       r.Status,
		Items:        items,
		CreatedAt:    r.CreatedAt,
		ProcessedAt:  r.ProcessedAt,
		RejectReason: r.RejectReason,
	}
}

func (r *RequestBuilder) BuildSnapshot() *shared.RequestSnapshot {
	items := make([]shared.RequestItemSnapshot, 0, len(r.Items))
	for _, spec := range r.Items {
		items = append(items, shared.RequestItemSnapshot{
			ID:          uuid.New(),
			EquipmentID: spec.EquipmentID,
			Quantity:    spec.Quantity,
		})
	}
	return &shared.RequestSnapshot{
		ID:        r.ID,
		UserID:    r.UserID,
		Status:    request.Status(r.Status),
		Items:     items,
		CreatedAt: r.CreatedAt,
	}
}

func (r *RequestBuilder) BuildCreateRequestDTO() reqdto.CreateRequestRequest {
	items := make([]reqdto.RequestItemPayload, 0, len(r.Items))
	for _, spec := range r.Items {
		items = append(items, reqdto.RequestItemPayload{
			EquipmentID: spec.EquipmentID,
			Quantity:    spec.Quantity,
		})
	}
	return reqdto.CreateRequestRequest{Items: items}
}

// Fluent builder methods
func (r *RequestBuilder) WithID(id uuid.UUID) *RequestBuilder {
	r.ID = id
	return r
}

func (r *RequestBuilder) WithUserID(userID uuid.UUID) *RequestBuilder {
	r.UserID = userID
	return r
}

func (r *RequestBuilder) WithStatus(status string) *RequestBuilder {
	r.Status = status
	return r
}

func (r *RequestBuilder) WithItems(items ...RequestItemSpec) *RequestBuilder {
	r.Items = items
	return r
}

func (r *RequestBuilder) WithoutItems() *RequestBuilder {
	r.Items = nil
	return r
}

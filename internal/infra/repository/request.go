package repository

import (
	"context"
	"time"

	"equipment-rental/internal/domain/request"
	"equipment-rental/internal/infra"
	"equipment-rental/internal/infra/db"

	"github.com/google/uuid"
)

type RequestRepository struct{}

func NewRequestRepository() *RequestRepository {
	return &RequestRepository{}
}

func (r *RequestRepository) Create(ctx context.Context, tx db.DBTX, req *request.EquipmentRequest) (uuid.UUID, error) {
	const insertRequest = `
		INSERT INTO equipment_requests (user_id, status)
		VALUES ($1, $2)
		RETURNING id`

	var requestID uuid.UUID
	err := tx.QueryRow(ctx, insertRequest, req.UserID(), req.Status().String()).Scan(&requestID)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create equipment request", err)
	}

	// position records submission order so reads can reproduce it
	const insertItem = `
		INSERT INTO request_items (id, request_id, equipment_id, quantity, position)
		VALUES ($1, $2, $3, $4, $5)`

	for i, item := range req.Items() {
		if _, err := tx.Exec(ctx, insertItem, item.ID, requestID, item.EquipmentID, item.Quantity, i); err != nil {
			return uuid.Nil, infra.WrapRepoErr("failed to create request item", err)
		}
	}

	return requestID, nil
}

// MarkApproved flips a pending request to APPROVED. The status predicate keeps
// the transition one-way even when two admins race on the same request.
func (r *RequestRepository) MarkApproved(ctx context.Context, tx db.DBTX, id uuid.UUID, processedAt time.Time) (bool, error) {
	const query = `
		UPDATE equipment_requests
		SET status = 'APPROVED', processed_at = $2
		WHERE id = $1 AND status = 'PENDING'`

	tag, err := tx.Exec(ctx, query, id, processedAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to approve equipment request", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *RequestRepository) MarkRejected(ctx context.Context, tx db.DBTX, id uuid.UUID, reason string, processedAt time.Time) (bool, error) {
	const query = `
		UPDATE equipment_requests
		SET status = 'REJECTED', reject_reason = $2, processed_at = $3
		WHERE id = $1 AND status = 'PENDING'`

	tag, err := tx.Exec(ctx, query, id, reason, processedAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to reject equipment request", err)
	}

	return tag.RowsAffected() > 0, nil
}

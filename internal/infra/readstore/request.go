package readstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"equipment-rental/internal/domain/request"
	"equipment-rental/internal/infra"
	"equipment-rental/internal/infra/db"
	"equipment-rental/internal/usecase/queries"
	"equipment-rental/internal/usecase/shared"
)

type RequestReadStore struct {
	db db.DBTX
}

func NewRequestReadStore(db db.DBTX) *RequestReadStore {
	return &RequestReadStore{db: db}
}

func (r *RequestReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.RequestView, error) {
	views, err := r.findRequests(ctx, "r.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, infra.WrapRepoErr("request not found", pgx.ErrNoRows, infra.KindNotFound)
	}

	return views[0], nil
}

// Newest-first so users see their latest request on top
func (r *RequestReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*queries.RequestView, error) {
	return r.findRequests(ctx, "r.user_id = ?", userID)
}

func (r *RequestReadStore) FindAll(ctx context.Context, status *request.Status) ([]*queries.RequestView, error) {
	if status == nil {
		return r.findRequests(ctx, "", nil)
	}
	return r.findRequestsOrdered(ctx, "r.status = ?", status.String(), "r.created_at ASC")
}

func (r *RequestReadStore) SnapshotByID(ctx context.Context, id uuid.UUID) (*shared.RequestSnapshot, error) {
	view, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status, err := request.NewStatus(view.Status)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid request status", err)
	}

	snapshot := &shared.RequestSnapshot{
		ID:        view.ID,
		UserID:    view.UserID,
		Status:    status,
		CreatedAt: view.CreatedAt,
	}
	for _, item := range view.Items {
		snapshot.Items = append(snapshot.Items, shared.RequestItemSnapshot{
			ID:          item.ID,
			EquipmentID: item.EquipmentID,
			Quantity:    item.Quantity,
		})
	}
	return snapshot, nil
}

func (r *RequestReadStore) findRequests(ctx context.Context, pred string, arg any) ([]*queries.RequestView, error) {
	return r.findRequestsOrdered(ctx, pred, arg, "r.created_at DESC")
}

func (r *RequestReadStore) findRequestsOrdered(ctx context.Context, pred string, arg any, order string) ([]*queries.RequestView, error) {
	builder := qb.
		Select("r.id", "r.user_id", "u.name", "r.status", "r.created_at", "r.processed_at", "r.reject_reason").
		From("equipment_requests r").
		Join("users u ON u.id = r.user_id").
		OrderBy(order)
	if pred != "" {
		builder = builder.Where(pred, arg)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build request query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list requests", err)
	}
	defer rows.Close()

	var views []*queries.RequestView
	for rows.Next() {
		var view queries.RequestView
		err := rows.Scan(
			&view.ID, &view.UserID, &view.UserName, &view.Status,
			&view.CreatedAt, &view.ProcessedAt, &view.RejectReason,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan request row", err)
		}
		view.Items = []queries.RequestItemView{}
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate request rows", err)
	}

	if err := r.attachItems(ctx, views); err != nil {
		return nil, err
	}

	return views, nil
}

// attachItems loads line items for all requests in one round trip
func (r *RequestReadStore) attachItems(ctx context.Context, views []*queries.RequestView) error {
	if len(views) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(views))
	byID := make(map[uuid.UUID]*queries.RequestView, len(views))
	for _, view := range views {
		ids = append(ids, view.ID)
		byID[view.ID] = view
	}

	query, args, err := qb.
		Select("i.id", "i.request_id", "i.equipment_id", "e.name", "i.quantity").
		From("request_items i").
		Join("equipment e ON e.id = i.equipment_id").
		Where("i.request_id = ANY(?)", ids).
		OrderBy("i.position ASC").
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build request items query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to list request items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item      queries.RequestItemView
			requestID uuid.UUID
		)
		err := rows.Scan(&item.ID, &requestID, &item.EquipmentID, &item.EquipmentName, &item.Quantity)
		if err != nil {
			return infra.WrapRepoErr("failed to scan request item row", err)
		}
		if view, ok := byID[requestID]; ok {
			view.Items = append(view.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return infra.WrapRepoErr("failed to iterate request item rows", err)
	}

	return nil
}

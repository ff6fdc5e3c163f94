package queries

import (
	"context"

	"github.com/google/uuid"

	"equipment-rental/internal/domain/request"
	"equipment-rental/internal/infra"
	"equipment-rental/internal/pkg/errs"
)

var (
	ErrRequestNotFound     = errs.New("request not found")
	ErrRequestAccess       = errs.New("request access denied")
	ErrInvalidStatusFilter = errs.New("invalid status filter")
)

type RequestQueries interface {
	// GetByID enforces ownership: non-admin actors only see their own requests.
	GetByID(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID) (*RequestView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*RequestView, error)
	// ListAll returns all requests for review. With a status filter the order
	// is oldest-first so pending requests queue fairly; without it newest-first.
	ListAll(ctx context.Context, status *string) ([]*RequestView, error)
}

type RequestReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RequestView, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*RequestView, error)
	FindAll(ctx context.Context, status *request.Status) ([]*RequestView, error)
}

type requestQueriesImpl struct {
	readStore RequestReadStore
}

func NewRequestQueries(readStore RequestReadStore) RequestQueries {
	return &requestQueriesImpl{
		readStore: readStore,
	}
}

func (q *requestQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID) (*RequestView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if !isAdmin && view.UserID != actorID {
		return nil, ErrRequestAccess
	}

	return view, nil
}

func (q *requestQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*RequestView, error) {
	return q.readStore.FindByUserID(ctx, userID)
}

func (q *requestQueriesImpl) ListAll(ctx context.Context, status *string) ([]*RequestView, error) {
	var filter *request.Status
	if status != nil && *status != "" {
		st, err := request.NewStatus(*status)
		if err != nil {
			return nil, errs.Mark(err, ErrInvalidStatusFilter)
		}
		filter = &st
	}

	return q.readStore.FindAll(ctx, filter)
}

//go:build unit

package queries_test

import (
	"context"
	"testing"

	"equipment-rental/internal/domain/request"
	"equipment-rental/internal/infra"
	"equipment-rental/internal/usecase/queries"
	"equipment-rental/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRequestReadStore struct {
	byID      map[uuid.UUID]*queries.RequestView
	byUser    map[uuid.UUID][]*queries.RequestView
	allCalls  []*request.Status
	allResult []*queries.RequestView
}

func (f *fakeRequestReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.RequestView, error) {
	view, ok := f.byID[id]
	if !ok {
		return nil, infra.WrapRepoErr("request not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return view, nil
}

func (f *fakeRequestReadStore) FindByUserID(_ context.Context, userID uuid.UUID) ([]*queries.RequestView, error) {
	return f.byUser[userID], nil
}

func (f *fakeRequestReadStore) FindAll(_ context.Context, status *request.Status) ([]*queries.RequestView, error) {
	f.allCalls = append(f.allCalls, status)
	return f.allResult, nil
}

func TestRequestQueriesGetByID(t *testing.T) {
	ctx := context.Background()

	owner := uuid.New()
	view := builder.NewRequestBuilder().WithUserID(owner).BuildView()
	store := &fakeRequestReadStore{byID: map[uuid.UUID]*queries.RequestView{view.ID: view}}
	q := queries.NewRequestQueries(store)

	t.Run("owner sees own request", func(t *testing.T) {
		got, err := q.GetByID(ctx, owner, false, view.ID)
		require.NoError(t, err)
		if diff := cmp.Diff(view, got); diff != "" {
			t.Errorf("RequestView mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("admin sees any request", func(t *testing.T) {
		got, err := q.GetByID(ctx, uuid.New(), true, view.ID)
		require.NoError(t, err)
		assert.Equal(t, view.ID, got.ID)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		_, err := q.GetByID(ctx, uuid.New(), false, view.ID)
		require.ErrorIs(t, err, queries.ErrRequestAccess)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := q.GetByID(ctx, owner, false, uuid.New())
		require.ErrorIs(t, err, queries.ErrRequestNotFound)
	})
}

func TestRequestQueriesListAll(t *testing.T) {
	ctx := context.Background()

	t.Run("nil status passes through unfiltered", func(t *testing.T) {
		store := &fakeRequestReadStore{}
		q := queries.NewRequestQueries(store)

		_, err := q.ListAll(ctx, nil)
		require.NoError(t, err)
		require.Len(t, store.allCalls, 1)
		assert.Nil(t, store.allCalls[0])
	})

	t.Run("empty status behaves like nil", func(t *testing.T) {
		store := &fakeRequestReadStore{}
		q := queries.NewRequestQueries(store)

		empty := ""
		_, err := q.ListAll(ctx, &empty)
		require.NoError(t, err)
		require.Len(t, store.allCalls, 1)
		assert.Nil(t, store.allCalls[0])
	})

	t.Run("valid status is parsed", func(t *testing.T) {
		store := &fakeRequestReadStore{}
		q := queries.NewRequestQueries(store)

		pending := "PENDING"
		_, err := q.ListAll(ctx, &pending)
		require.NoError(t, err)
		require.Len(t, store.allCalls, 1)
		require.NotNil(t, store.allCalls[0])
		assert.Equal(t, request.StatusPending, *store.allCalls[0])
	})

	t.Run("invalid status", func(t *testing.T) {
		store := &fakeRequestReadStore{}
		q := queries.NewRequestQueries(store)

		bogus := "CANCELLED"
		_, err := q.ListAll(ctx, &bogus)
		require.ErrorIs(t, err, queries.ErrInvalidStatusFilter)
		assert.Empty(t, store.allCalls)
	})

	t.Run("lowercase status is rejected", func(t *testing.T) {
		store := &fakeRequestReadStore{}
		q := queries.NewRequestQueries(store)

		lower := "pending"
		_, err := q.ListAll(ctx, &lower)
		require.ErrorIs(t, err, queries.ErrInvalidStatusFilter)
	})
}

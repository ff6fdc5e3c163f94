//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"equipment-rental/internal/domain/request"
	"equipment-rental/internal/domain/user"
	"equipment-rental/internal/infra"
	"equipment-rental/internal/infra/db"
	"equipment-rental/internal/pkg/clock"
	"equipment-rental/internal/usecase/commands"
	"equipment-rental/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

// fakeStore is an in-memory stand-in for the transactional storage layer.
// AdjustStockGuarded reproduces the compare-and-swap semantics of the real
// repository, and onBeforeAdjust lets a test play the part of a concurrent
// writer that sneaks in between the snapshot read and the guarded update.
type fakeStore struct {
	users     map[uuid.UUID]*shared.UserSnapshot
	equipment map[uuid.UUID]*shared.EquipmentSnapshot
	requests  map[uuid.UUID]*requestRow

	onBeforeAdjust func(id uuid.UUID)
}

type requestRow struct {
	snap         shared.RequestSnapshot
	rejectReason string
	processedAt  *time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[uuid.UUID]*shared.UserSnapshot),
		equipment: make(map[uuid.UUID]*shared.EquipmentSnapshot),
		requests:  make(map[uuid.UUID]*requestRow),
	}
}

func (s *fakeStore) addUser(active bool) uuid.UUID {
	id := uuid.New()
	s.users[id] = &shared.UserSnapshot{ID: id, Name: "Test User", Role: user.RoleEmployee, IsActive: active}
	return id
}

func (s *fakeStore) addEquipment(name string, stock int32, available bool) uuid.UUID {
	id := uuid.New()
	s.equipment[id] = &shared.EquipmentSnapshot{ID: id, Name: name, Stock: stock, Available: available}
	return id
}

func (s *fakeStore) addPendingRequest(userID uuid.UUID, items ...shared.RequestItemSnapshot) uuid.UUID {
	id := uuid.New()
	s.requests[id] = &requestRow{snap: shared.RequestSnapshot{
		ID:        id,
		UserID:    userID,
		Status:    request.StatusPending,
		Items:     items,
		CreatedAt: fixedNow.Add(-time.Hour),
	}}
	return id
}

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, pgx.ErrNoRows, infra.KindNotFound)
}

// CommandReads

func (s *fakeStore) RequestWithItems(_ context.Context, id uuid.UUID) (*shared.RequestSnapshot, error) {
	row, ok := s.requests[id]
	if !ok {
		return nil, notFound("request not found")
	}
	snap := row.snap
	return &snap, nil
}

func (s *fakeStore) EquipmentByID(_ context.Context, id uuid.UUID) (*shared.EquipmentSnapshot, error) {
	equip, ok := s.equipment[id]
	if !ok {
		return nil, notFound("equipment not found")
	}
	snap := *equip
	return &snap, nil
}

func (s *fakeStore) UserByID(_ context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, notFound("user not found")
	}
	snap := *u
	return &snap, nil
}

// RequestRepository

func (s *fakeStore) Create(_ context.Context, _ db.DBTX, req *request.EquipmentRequest) (uuid.UUID, error) {
	items := make([]shared.RequestItemSnapshot, 0, len(req.Items()))
	for _, it := range req.Items() {
		items = append(items, shared.RequestItemSnapshot{ID: it.ID, EquipmentID: it.EquipmentID, Quantity: it.Quantity})
	}
	s.requests[req.ID()] = &requestRow{snap: shared.RequestSnapshot{
		ID:        req.ID(),
		UserID:    req.UserID(),
		Status:    req.Status(),
		Items:     items,
		CreatedAt: fixedNow,
	}}
	return req.ID(), nil
}

func (s *fakeStore) MarkApproved(_ context.Context, _ db.DBTX, id uuid.UUID, processedAt time.Time) (bool, error) {
	row, ok := s.requests[id]
	if !ok || row.snap.Status != request.StatusPending {
		return false, nil
	}
	row.snap.Status = request.StatusApproved
	row.processedAt = &processedAt
	return true, nil
}

func (s *fakeStore) MarkRejected(_ context.Context, _ db.DBTX, id uuid.UUID, reason string, processedAt time.Time) (bool, error) {
	row, ok := s.requests[id]
	if !ok || row.snap.Status != request.StatusPending {
		return false, nil
	}
	row.snap.Status = request.StatusRejected
	row.rejectReason = reason
	row.processedAt = &processedAt
	return true, nil
}

// EquipmentRepository

func (s *fakeStore) CreateEquipment(_ context.Context, _ db.DBTX, _ shared.CreateEquipmentParams) (uuid.UUID, error) {
	panic("not used in request tests")
}

func (s *fakeStore) Update(_ context.Context, _ db.DBTX, _ uuid.UUID, _ shared.UpdateEquipmentParams) error {
	panic("not used in request tests")
}

func (s *fakeStore) SetImageURL(_ context.Context, _ db.DBTX, _ uuid.UUID, _ *string) error {
	panic("not used in request tests")
}

func (s *fakeStore) AdjustStockGuarded(_ context.Context, _ db.DBTX, id uuid.UUID, delta int32, expectedVersion int64) (bool, error) {
	if s.onBeforeAdjust != nil {
		s.onBeforeAdjust(id)
	}
	equip, ok := s.equipment[id]
	if !ok {
		return false, nil
	}
	if equip.Version != expectedVersion || equip.Stock+delta < 0 {
		return false, nil
	}
	equip.Stock += delta
	equip.Version++
	return true, nil
}

// Adapters binding fakeStore into the shared contracts.

type fakeTx struct{ store *fakeStore }

func (t *fakeTx) Requests() shared.RequestRepository    { return &fakeRequestRepo{t.store} }
func (t *fakeTx) Equipment() shared.EquipmentRepository { return &fakeEquipmentRepo{t.store} }
func (t *fakeTx) Users() shared.UserRepository          { return nil }
func (t *fakeTx) Reads() shared.CommandReads            { return t.store }
func (t *fakeTx) DB() db.DBTX                           { return nil }

type fakeRequestRepo struct{ store *fakeStore }

func (r *fakeRequestRepo) Create(ctx context.Context, tx db.DBTX, req *request.EquipmentRequest) (uuid.UUID, error) {
	return r.store.Create(ctx, tx, req)
}

func (r *fakeRequestRepo) MarkApproved(ctx context.Context, tx db.DBTX, id uuid.UUID, processedAt time.Time) (bool, error) {
	return r.store.MarkApproved(ctx, tx, id, processedAt)
}

func (r *fakeRequestRepo) MarkRejected(ctx context.Context, tx db.DBTX, id uuid.UUID, reason string, processedAt time.Time) (bool, error) {
	return r.store.MarkRejected(ctx, tx, id, reason, processedAt)
}

type fakeEquipmentRepo struct{ store *fakeStore }

func (r *fakeEquipmentRepo) Create(ctx context.Context, tx db.DBTX, params shared.CreateEquipmentParams) (uuid.UUID, error) {
	return r.store.CreateEquipment(ctx, tx, params)
}

func (r *fakeEquipmentRepo) Update(ctx context.Context, tx db.DBTX, id uuid.UUID, params shared.UpdateEquipmentParams) error {
	return r.store.Update(ctx, tx, id, params)
}

func (r *fakeEquipmentRepo) SetImageURL(ctx context.Context, tx db.DBTX, id uuid.UUID, imageURL *string) error {
	return r.store.SetImageURL(ctx, tx, id, imageURL)
}

func (r *fakeEquipmentRepo) AdjustStockGuarded(ctx context.Context, tx db.DBTX, id uuid.UUID, delta int32, expectedVersion int64) (bool, error) {
	return r.store.AdjustStockGuarded(ctx, tx, id, delta, expectedVersion)
}

type fakeUoW struct{ store *fakeStore }

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{store: u.store})
}

func (u *fakeUoW) CommandReads() shared.CommandReads { return u.store }

func newUseCase(store *fakeStore) commands.RequestCommands {
	return commands.NewRequestUseCase(&fakeUoW{store: store}, clock.NewMockClock(fixedNow))
}

// ================================================================================
// CreateRequest
// ================================================================================

func TestCreateRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending request with its items", func(t *testing.T) {
		store := newFakeStore()
		userID := store.addUser(true)
		equipID := store.addEquipment("MacBook Pro 14", 5, true)

		result, err := newUseCase(store).CreateRequest(ctx, userID, []commands.RequestItemInput{
			{EquipmentID: equipID, Quantity: 2},
		})
		require.NoError(t, err)
		require.NotNil(t, result)

		row, ok := store.requests[result.RequestID]
		require.True(t, ok)
		assert.Equal(t, request.StatusPending, row.snap.Status)
		assert.Equal(t, userID, row.snap.UserID)
		require.Len(t, row.snap.Items, 1)
		assert.Equal(t, equipID, row.snap.Items[0].EquipmentID)
		assert.Equal(t, int32(2), row.snap.Items[0].Quantity)
	})

	t.Run("creation does not touch stock", func(t *testing.T) {
		store := newFakeStore()
		userID := store.addUser(true)
		equipID := store.addEquipment("Monitor", 3, true)

		_, err := newUseCase(store).CreateRequest(ctx, userID, []commands.RequestItemInput{
			{EquipmentID: equipID, Quantity: 3},
		})
		require.NoError(t, err)

		assert.Equal(t, int32(3), store.equipment[equipID].Stock)
		assert.Equal(t, int64(0), store.equipment[equipID].Version)
	})

	t.Run("unknown requester", func(t *testing.T) {
		store := newFakeStore()
		equipID := store.addEquipment("Monitor", 3, true)

		_, err := newUseCase(store).CreateRequest(ctx, uuid.New(), []commands.RequestItemInput{
			{EquipmentID: equipID, Quantity: 1},
		})
		require.ErrorIs(t, err, commands.ErrRequesterNotFound)
	})

	t.Run("inactive requester", func(t *testing.T) {
		store := newFakeStore()
		userID := store.addUser(false)
		equipID := store.addEquipment("Monitor", 3, true)

		_, err := newUseCase(store).CreateRequest(ctx, userID, []commands.RequestItemInput{
			{EquipmentID: equipID, Quantity: 1},
		})
		require.ErrorIs(t, err, commands.ErrRequesterInactive)
	})

	t.Run("unknown equipment", func(t *testing.T) {
		store := newFakeStore()
		userID := store.addUser(true)

		_, err := newUseCase(store).CreateRequest(ctx, userID, []commands.RequestItemInput{
			{EquipmentID: uuid.New(), Quantity: 1},
		})
		require.ErrorIs(t, err, commands.ErrEquipmentNotFoundWrite)
	})

	t.Run("unavailable equipment", func(t *testing.T) {
		store := newFakeStore()
		userID := store.addUser(true)
		equipID := store.addEquipment("Broken Printer", 3, false)

		_, err := newUseCase(store).CreateRequest(ctx, userID, []commands.RequestItemInput{
			{EquipmentID: equipID, Quantity: 1},
		})
		require.ErrorIs(t, err, commands.ErrEquipmentUnavailable)
	})

	t.Run("zero quantity", func(t *testing.T) {
		store := newFakeStore()
		userID := store.addUser(true)
		equipID := store.addEquipment("Monitor", 3, true)

		_, err := newUseCase(store).CreateRequest(ctx, userID, []commands.RequestItemInput{
			{EquipmentID: equipID, Quantity: 0},
		})
		require.ErrorIs(t, err, commands.ErrInvalidQuantity)
	})

	t.Run("no items", func(t *testing.T) {
		store := newFakeStore()
		userID := store.addUser(true)

		_, err := newUseCase(store).CreateRequest(ctx, userID, nil)
		require.ErrorIs(t, err, commands.ErrEmptyItems)
	})

	t.Run("requesting more than current stock is allowed", func(t *testing.T) {
		store := newFakeStore()
		userID := store.addUser(true)
		equipID := store.addEquipment("Monitor", 1, true)

		_, err := newUseCase(store).CreateRequest(ctx, userID, []commands.RequestItemInput{
			{EquipmentID: equipID, Quantity: 10},
		})
		require.NoError(t, err)
	})
}

// ================================================================================
// ApproveRequest
// ================================================================================

func TestApproveRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements stock, bumps version and flips status", func(t *testing.T) {
		store := newFakeStore()
		userID := store.addUser(true)
		equipID := store.addEquipment("MacBook Pro 14", 5, true)
		reqID := store.addPendingRequest(userID, shared.RequestItemSnapshot{ID: uuid.New(), EquipmentID: equipID, Quantity: 2})

		require.NoError(t, newUseCase(store).ApproveRequest(ctx, reqID))

		assert.Equal(t, int32(3), store.equipment[equipID].Stock)
		assert.Equal(t, int64(1), store.equipment[equipID].Version)
		assert.Equal(t, request.StatusApproved, store.requests[reqID].snap.Status)
		require.NotNil(t, store.requests[reqID].processedAt)
		assert.Equal(t, fixedNow, *store.requests[reqID].processedAt)
	})

	t.Run("approves the exact last unit", func(t *testing.T) {
		store := newFakeStore()
		userID := store.addUser(true)
		equipID := store.addEquipment("Monitor", 2, true)
		reqID := store.addPendingRequest(userID, shared.RequestItemSnapshot{ID: uuid.New(), EquipmentID: equipID, Quantity: 2})

		require.NoError(t, newUseCase(store).ApproveRequest(ctx, reqID))
		assert.Equal(t, int32(0), store.equipment[equipID].Stock)
	})

	t.Run("decrements every line item", func(t *testing.T) {
		store := newFakeStore()
		userID := store.addUser(true)
		laptopID := store.addEquipment("MacBook Pro 14", 5, true)
		mouseID := store.addEquipment("MX Master 3S", 10, true)
		reqID := store.addPendingRequest(userID,
			shared.RequestItemSnapshot{ID: uuid.New(), EquipmentID: laptopID, Quantity: 1},
			shared.RequestItemSnapshot{ID: uuid.New(), EquipmentID: mouseID, Quantity: 4},
		)

		require.NoError(t, newUseCase(store).ApproveRequest(ctx, reqID))
		assert.Equal(t, int32(4), store.equipment[laptopID].Stock)
		assert.Equal(t, int32(6), store.equipment[mouseID].Stock)
	})

	t.Run("insufficient stock names the equipment", func(t *testing.T) {
		store := newFakeStore()
		userID := store.addUser(true)
		equipID := store.addEquipment("Jabra Evolve2 65", 1, true)
		reqID := store.addPendingRequest(userID, shared.RequestItemSnapshot{ID: uuid.New(), EquipmentID: equipID, Quantity: 3})

		err := newUseCase(store).ApproveRequest(ctx, reqID)
		require.ErrorIs(t, err, commands.ErrInsufficientStock)
		assert.Contains(t, err.Error(), "Jabra Evolve2 65")

		assert.Equal(t, request.StatusPending, store.requests[reqID].snap.Status)
		assert.Equal(t, int32(1), store.equipment[equipID].Stock)
	})

	t.Run("version race with stock remaining is a conflict", func(t *testing.T) {
		store := newFakeStore()
		userID := store.addUser(true)
		equipID := store.addEquipment("Monitor", 10, true)
		reqID := store.addPendingRequest(userID, shared.RequestItemSnapshot{ID: uuid.New(), EquipmentID: equipID, Quantity: 1})

		raced := false
		store.onBeforeAdjust = func(id uuid.UUID) {
			if !raced {
				raced = true
				// Another writer restocks between the snapshot read and the CAS.
				store.equipment[id].Stock += 5
				store.equipment[id].Version++
			}
		}

		err := newUseCase(store).ApproveRequest(ctx, reqID)
		require.ErrorIs(t, err, commands.ErrStockConflict)
		assert.Equal(t, request.StatusPending, store.requests[reqID].snap.Status)
	})

	t.Run("race that takes the last unit is reported as insufficient stock", func(t *testing.T) {
		store := newFakeStore()
		userID := store.addUser(true)
		equipID := store.addEquipment("MacBook Pro 14", 1, true)
		reqID := store.addPendingRequest(userID, shared.RequestItemSnapshot{ID: uuid.New(), EquipmentID: equipID, Quantity: 1})

		raced := false
		store.onBeforeAdjust = func(id uuid.UUID) {
			if !raced {
				raced = true
				// A competing approval wins the last unit first.
				store.equipment[id].Stock--
				store.equipment[id].Version++
			}
		}

		err := newUseCase(store).ApproveRequest(ctx, reqID)
		require.ErrorIs(t, err, commands.ErrInsufficientStock)
		assert.Equal(t, int32(0), store.equipment[equipID].Stock)
		assert.Equal(t, request.StatusPending, store.requests[reqID].snap.Status)
	})

	t.Run("already approved", func(t *testing.T) {
		store := newFakeStore()
		userID := store.addUser(true)
		equipID := store.addEquipment("Monitor", 5, true)
		reqID := store.addPendingRequest(userID, shared.RequestItemSnapshot{ID: uuid.New(), EquipmentID: equipID, Quantity: 1})

		uc := newUseCase(store)
		require.NoError(t, uc.ApproveRequest(ctx, reqID))

		err := uc.ApproveRequest(ctx, reqID)
		require.ErrorIs(t, err, commands.ErrRequestAlreadyProcessed)
		// The second call must not decrement again.
		assert.Equal(t, int32(4), store.equipment[equipID].Stock)
		assert.Equal(t, int64(1), store.equipment[equipID].Version)
	})

	t.Run("already rejected", func(t *testing.T) {
		store := newFakeStore()
		userID := store.addUser(true)
		equipID := store.addEquipment("Monitor", 5, true)
		reqID := store.addPendingRequest(userID, shared.RequestItemSnapshot{ID: uuid.New(), EquipmentID: equipID, Quantity: 1})

		uc := newUseCase(store)
		require.NoError(t, uc.RejectRequest(ctx, reqID, "not needed"))

		err := uc.ApproveRequest(ctx, reqID)
		require.ErrorIs(t, err, commands.ErrRequestAlreadyProcessed)
		assert.Equal(t, int32(5), store.equipment[equipID].Stock)
	})

	t.Run("unknown request", func(t *testing.T) {
		store := newFakeStore()

		err := newUseCase(store).ApproveRequest(ctx, uuid.New())
		require.ErrorIs(t, err, commands.ErrRequestNotFoundWrite)
	})

	t.Run("equipment deleted since request was filed", func(t *testing.T) {
		store := newFakeStore()
		userID := store.addUser(true)
		reqID := store.addPendingRequest(userID, shared.RequestItemSnapshot{ID: uuid.New(), EquipmentID: uuid.New(), Quantity: 1})

		err := newUseCase(store).ApproveRequest(ctx, reqID)
		require.ErrorIs(t, err, commands.ErrEquipmentNotFoundWrite)
	})
}

// ================================================================================
// RejectRequest
// ================================================================================

func TestRejectRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("flips status and records the reason", func(t *testing.T) {
		store := newFakeStore()
		userID := store.addUser(true)
		equipID := store.addEquipment("Monitor", 5, true)
		reqID := store.addPendingRequest(userID, shared.RequestItemSnapshot{ID: uuid.New(), EquipmentID: equipID, Quantity: 2})

		require.NoError(t, newUseCase(store).RejectRequest(ctx, reqID, "out of budget this quarter"))

		row := store.requests[reqID]
		assert.Equal(t, request.StatusRejected, row.snap.Status)
		assert.Equal(t, "out of budget this quarter", row.rejectReason)
		require.NotNil(t, row.processedAt)
		assert.Equal(t, fixedNow, *row.processedAt)

		// Rejection never touches stock.
		assert.Equal(t, int32(5), store.equipment[equipID].Stock)
		assert.Equal(t, int64(0), store.equipment[equipID].Version)
	})

	t.Run("empty reason", func(t *testing.T) {
		store := newFakeStore()
		userID := store.addUser(true)
		reqID := store.addPendingRequest(userID, shared.RequestItemSnapshot{ID: uuid.New(), EquipmentID: uuid.New(), Quantity: 1})

		err := newUseCase(store).RejectRequest(ctx, reqID, "   ")
		require.ErrorIs(t, err, commands.ErrEmptyRejectReason)
		assert.Equal(t, request.StatusPending, store.requests[reqID].snap.Status)
	})

	t.Run("already processed", func(t *testing.T) {
		store := newFakeStore()
		userID := store.addUser(true)
		equipID := store.addEquipment("Monitor", 5, true)
		reqID := store.addPendingRequest(userID, shared.RequestItemSnapshot{ID: uuid.New(), EquipmentID: equipID, Quantity: 1})

		uc := newUseCase(store)
		require.NoError(t, uc.ApproveRequest(ctx, reqID))

		err := uc.RejectRequest(ctx, reqID, "changed my mind")
		require.ErrorIs(t, err, commands.ErrRequestAlreadyProcessed)
		assert.Equal(t, request.StatusApproved, store.requests[reqID].snap.Status)
	})

	t.Run("unknown request", func(t *testing.T) {
		store := newFakeStore()

		err := newUseCase(store).RejectRequest(ctx, uuid.New(), "whatever")
		require.ErrorIs(t, err, commands.ErrRequestNotFoundWrite)
	})
}

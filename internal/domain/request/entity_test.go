//go:build unit

package request_test

import (
	"testing"
	"time"

	"equipment-rental/internal/domain/request"
	"equipment-rental/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquipmentRequest(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewRequestBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, request.StatusPending, actual.Status())
		assert.True(t, actual.IsPending())
		assert.Len(t, actual.Items(), 1)
		assert.Nil(t, actual.RejectReason())
		assert.Nil(t, actual.ProcessedAt())
	})

	t.Run("no items NG", func(t *testing.T) {
		_, err := builder.NewRequestBuilder().WithoutItems().BuildDomain()
		require.ErrorIs(t, err, request.ErrNoItems)
	})

	t.Run("non-positive item quantity NG", func(t *testing.T) {
		_, err := request.NewLineItem(uuid.New(), 0)
		require.ErrorIs(t, err, request.ErrInvalidQuantity)

		_, err = request.NewLineItem(uuid.New(), -3)
		require.ErrorIs(t, err, request.ErrInvalidQuantity)
	})

	t.Run("multiple items OK", func(t *testing.T) {
		actual, err := builder.NewRequestBuilder().WithItems(
			builder.RequestItemSpec{EquipmentID: uuid.New(), Quantity: 1},
			builder.RequestItemSpec{EquipmentID: uuid.New(), Quantity: 3},
		).BuildDomain()
		require.NoError(t, err)
		assert.Len(t, actual.Items(), 2)
	})
}

func TestRequestTransitions(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("approve from pending", func(t *testing.T) {
		req, err := builder.NewRequestBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, req.Approve(now))
		assert.Equal(t, request.StatusApproved, req.Status())
		require.NotNil(t, req.ProcessedAt())
		assert.Equal(t, now, *req.ProcessedAt())
	})

	t.Run("reject from pending", func(t *testing.T) {
		req, err := builder.NewRequestBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, req.Reject("out of budget", now))
		assert.Equal(t, request.StatusRejected, req.Status())
		require.NotNil(t, req.RejectReason())
		assert.Equal(t, "out of budget", *req.RejectReason())
		require.NotNil(t, req.ProcessedAt())
	})

	t.Run("reject reason is trimmed", func(t *testing.T) {
		req, err := builder.NewRequestBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, req.Reject("  no longer needed  ", now))
		assert.Equal(t, "no longer needed", *req.RejectReason())
	})

	t.Run("reject with empty reason NG", func(t *testing.T) {
		req, err := builder.NewRequestBuilder().BuildDomain()
		require.NoError(t, err)

		require.ErrorIs(t, req.Reject("", now), request.ErrEmptyReason)
		require.ErrorIs(t, req.Reject("   ", now), request.ErrEmptyReason)
		assert.True(t, req.IsPending())
	})

	t.Run("approve twice NG", func(t *testing.T) {
		req, err := builder.NewRequestBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, req.Approve(now))
		require.ErrorIs(t, req.Approve(now), request.ErrAlreadyProcessed)
	})

	t.Run("reject after approve NG", func(t *testing.T) {
		req, err := builder.NewRequestBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, req.Approve(now))
		require.ErrorIs(t, req.Reject("too late", now), request.ErrAlreadyProcessed)
		assert.Equal(t, request.StatusApproved, req.Status())
	})

	t.Run("approve after reject NG", func(t *testing.T) {
		req, err := builder.NewRequestBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, req.Reject("duplicate request", now))
		require.ErrorIs(t, req.Approve(now), request.ErrAlreadyProcessed)
		assert.Equal(t, request.StatusRejected, req.Status())
	})
}

func TestStatus(t *testing.T) {
	t.Run("parse valid statuses", func(t *testing.T) {
		for _, s := range []string{"PENDING", "APPROVED", "REJECTED"} {
			status, err := request.NewStatus(s)
			require.NoError(t, err)
			assert.Equal(t, s, status.String())
		}
	})

	t.Run("parse invalid status NG", func(t *testing.T) {
		_, err := request.NewStatus("CANCELLED")
		require.ErrorIs(t, err, request.ErrInvalidStatus)

		_, err = request.NewStatus("pending")
		require.ErrorIs(t, err, request.ErrInvalidStatus)
	})

	t.Run("terminal statuses", func(t *testing.T) {
		assert.False(t, request.StatusPending.IsTerminal())
		assert.True(t, request.StatusApproved.IsTerminal())
		assert.True(t, request.StatusRejected.IsTerminal())
	})
}

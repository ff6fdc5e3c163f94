//go:build unit

package equipment_test

import (
	"testing"

	"equipment-rental/internal/domain/equipment"
	"equipment-rental/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.EquipmentBuilder)
	errIs  error
}

func TestEquipment(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewEquipmentBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, "MacBook Pro 14", actual.Name())
		assert.Equal(t, "laptop", actual.Category())
		assert.Equal(t, int32(5), actual.Stock())
		assert.True(t, actual.Available())
		assert.Equal(t, int64(0), actual.Version())
	})

	t.Run("field validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "empty name NG",
				mutate: func(b *builder.EquipmentBuilder) { b.WithName("") },
				errIs:  equipment.ErrEmptyName,
			},
			{
				name:   "whitespace-only name NG",
				mutate: func(b *builder.EquipmentBuilder) { b.WithName("   ") },
				errIs:  equipment.ErrEmptyName,
			},
			{
				name:   "empty category NG",
				mutate: func(b *builder.EquipmentBuilder) { b.WithCategory("") },
				errIs:  equipment.ErrEmptyCategory,
			},
			{
				name:   "negative stock NG",
				mutate: func(b *builder.EquipmentBuilder) { b.WithStock(-1) },
				errIs:  equipment.ErrNegativeStock,
			},
			{
				name:   "zero stock OK",
				mutate: func(b *builder.EquipmentBuilder) { b.WithStock(0) },
			},
			{
				name:   "unavailable OK",
				mutate: func(b *builder.EquipmentBuilder) { b.AsUnavailable() },
			},
		})
	})

	t.Run("name and category are trimmed", func(t *testing.T) {
		actual, err := builder.NewEquipmentBuilder().WithName("  Monitor  ").WithCategory(" display ").BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, "Monitor", actual.Name())
		assert.Equal(t, "display", actual.Category())
	})
}

func TestEquipmentStockMovement(t *testing.T) {
	t.Run("decrease reduces stock and bumps version", func(t *testing.T) {
		e, err := builder.NewEquipmentBuilder().WithStock(3).BuildDomain()
		require.NoError(t, err)

		require.NoError(t, e.DecreaseStock(2))
		assert.Equal(t, int32(1), e.Stock())
		assert.Equal(t, int64(1), e.Version())
	})

	t.Run("decrease below zero NG", func(t *testing.T) {
		e, err := builder.NewEquipmentBuilder().WithStock(1).BuildDomain()
		require.NoError(t, err)

		err = e.DecreaseStock(2)
		require.ErrorIs(t, err, equipment.ErrInsufficientStock)
		assert.Equal(t, int32(1), e.Stock())
		assert.Equal(t, int64(0), e.Version())
	})

	t.Run("decrease to exactly zero OK", func(t *testing.T) {
		e, err := builder.NewEquipmentBuilder().WithStock(2).BuildDomain()
		require.NoError(t, err)

		require.NoError(t, e.DecreaseStock(2))
		assert.Equal(t, int32(0), e.Stock())
	})

	t.Run("non-positive quantity NG", func(t *testing.T) {
		e, err := builder.NewEquipmentBuilder().BuildDomain()
		require.NoError(t, err)

		require.ErrorIs(t, e.DecreaseStock(0), equipment.ErrInvalidQuantity)
		require.ErrorIs(t, e.DecreaseStock(-1), equipment.ErrInvalidQuantity)
		require.ErrorIs(t, e.IncreaseStock(0), equipment.ErrInvalidQuantity)
	})

	t.Run("increase adds stock and bumps version", func(t *testing.T) {
		e, err := builder.NewEquipmentBuilder().WithStock(0).BuildDomain()
		require.NoError(t, err)

		require.NoError(t, e.IncreaseStock(4))
		assert.Equal(t, int32(4), e.Stock())
		assert.Equal(t, int64(1), e.Version())
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {

			actual, err := builder.NewEquipmentBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}

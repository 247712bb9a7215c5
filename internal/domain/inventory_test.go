package domain

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryPool_ReserveAndRelease(t *testing.T) {
	p := &InventoryPool{ProductID: 1, Available: 10}

	require.NoError(t, p.Reserve(4))
	assert.Equal(t, int32(6), p.Available)
	assert.Equal(t, int32(4), p.Reserved)

	// round-trip: cancelling the same quantity restores the prior state
	released := p.CancelReservation(4)
	assert.Equal(t, int32(4), released)
	assert.Equal(t, int32(10), p.Available)
	assert.Equal(t, int32(0), p.Reserved)
}

func TestInventoryPool_ReserveInsufficientStock(t *testing.T) {
	p := &InventoryPool{ProductID: 7, Available: 3}

	err := p.Reserve(5)
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorCategoryInventory, e.Category)
	assert.Equal(t, ErrKindInsufficientStock, e.Kind)

	// no partial reservation
	assert.Equal(t, int32(3), p.Available)
	assert.Equal(t, int32(0), p.Reserved)
}

func TestInventoryPool_ActivateClampsToReserved(t *testing.T) {
	p := &InventoryPool{ProductID: 1, Available: 5, Reserved: 3}

	moved := p.ActivateRental(10)
	assert.Equal(t, int32(3), moved)
	assert.Equal(t, int32(0), p.Reserved)
	assert.Equal(t, int32(3), p.Rented)
}

func TestInventoryPool_OverCancellationClamps(t *testing.T) {
	p := &InventoryPool{ProductID: 1, Available: 5, Reserved: 2}

	released := p.CancelReservation(9)
	assert.Equal(t, int32(2), released)
	assert.Equal(t, int32(0), p.Reserved)
	assert.Equal(t, int32(7), p.Available)
}

func TestInventoryPool_RelabelingKeepsTotal(t *testing.T) {
	p := &InventoryPool{ProductID: 1, Available: 8, Rented: 2}
	total := p.TotalStock()

	moved, err := p.MarkAsDamaged(1, PoolRented)
	require.NoError(t, err)
	assert.Equal(t, int32(1), moved)
	assert.Equal(t, total, p.TotalStock())

	moved, err = p.MoveToMaintenance(3, PoolAvailable)
	require.NoError(t, err)
	assert.Equal(t, int32(3), moved)
	assert.Equal(t, total, p.TotalStock())

	moved, err = p.MarkAsLost(2, PoolMaintenance)
	require.NoError(t, err)
	assert.Equal(t, int32(2), moved)
	assert.Equal(t, total, p.TotalStock())
}

func TestInventoryPool_InvalidSourcePool(t *testing.T) {
	p := &InventoryPool{ProductID: 1, Available: 5, Damaged: 1}

	_, err := p.MarkAsLost(1, PoolDamaged)
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorCategoryValidation, e.Category)
}

// Conservation: random sequences of pool operations never change the total.
func TestInventoryPool_ConservationUnderRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sources := []PoolName{PoolAvailable, PoolReserved, PoolRented, PoolMaintenance}

	p := &InventoryPool{ProductID: 1, Available: 50}
	total := p.TotalStock()

	for i := 0; i < 2000; i++ {
		qty := int32(rng.Intn(12))
		switch rng.Intn(7) {
		case 0:
			_ = p.Reserve(qty) // may fail; failure must not mutate
		case 1:
			p.CancelReservation(qty)
		case 2:
			p.ActivateRental(qty)
		case 3:
			p.ReturnFromRental(qty)
		case 4:
			_, _ = p.MoveToMaintenance(qty, sources[rng.Intn(len(sources))])
		case 5:
			_, _ = p.MarkAsDamaged(qty, sources[rng.Intn(len(sources))])
		case 6:
			_, _ = p.MarkAsLost(qty, sources[rng.Intn(len(sources))])
		}

		require.Equal(t, total, p.TotalStock(), "total changed after step %d", i)
		for name, c := range map[string]int32{
			"available":   p.Available,
			"reserved":    p.Reserved,
			"rented":      p.Rented,
			"maintenance": p.Maintenance,
			"damaged":     p.Damaged,
			"lost":        p.Lost,
		} {
			require.GreaterOrEqual(t, c, int32(0), "pool %s negative after step %d", name, i)
		}
		require.GreaterOrEqual(t, p.ActualAvailable(), int32(0))
	}
}

func TestInventoryPool_AddStockGrowsTotal(t *testing.T) {
	p := &InventoryPool{ProductID: 1, Available: 2}
	require.NoError(t, p.AddStock(5))
	assert.Equal(t, int32(7), p.Available)

	err := p.AddStock(0)
	require.Error(t, err)
}

func TestInventoryPool_DerivedReads(t *testing.T) {
	p := &InventoryPool{ProductID: 1, Available: 10, Reserved: 2, Rented: 3, AlertThreshold: 5}

	assert.Equal(t, int32(10), p.ActualAvailable())
	assert.Equal(t, int32(15), p.Circulating())
	assert.True(t, p.UtilizationRate().Equal(decimal.NewFromInt(50)), "utilization %s", p.UtilizationRate())
	assert.False(t, p.IsLowStock())

	low := &InventoryPool{ProductID: 1, Available: 4, Reserved: 6, AlertThreshold: 5}
	assert.True(t, low.IsLowStock())

	rp := int32(6)
	low.ReorderPoint = &rp
	assert.False(t, low.NeedsReorder())
	low.AutoReorderEnabled = true
	assert.True(t, low.NeedsReorder())

	empty := &InventoryPool{ProductID: 2}
	assert.True(t, empty.UtilizationRate().IsZero())
}

// Units already committed to the reserved or rented pools must not count
// against the free pool a second time: what the overlap check admits, the
// ledger can reserve.
func TestInventoryPool_ReserveIgnoresCommittedPools(t *testing.T) {
	p := &InventoryPool{ProductID: 1, Available: 3, Reserved: 2, Rented: 1}

	assert.Equal(t, int32(3), p.ActualAvailable())

	require.NoError(t, p.Reserve(3))
	assert.Equal(t, int32(0), p.Available)
	assert.Equal(t, int32(5), p.Reserved)

	err := p.Reserve(1)
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrKindInsufficientStock, e.Kind)
	assert.Equal(t, int32(0), e.Available)
}

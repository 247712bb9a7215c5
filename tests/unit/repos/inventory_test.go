package repos

import (
	"context"
	"testing"
	"time"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func poolRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"product_id", "available", "reserved", "rented", "maintenance", "damaged", "lost",
		"alert_threshold", "reorder_point", "auto_reorder_enabled", "version", "updated_on",
	})
}

func TestInventoryRepository_GetForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewInventoryRepository(db)
	ctx := context.Background()

	t.Run("Locks the pool row", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM inventory_pools WHERE product_id = \\$1 FOR UPDATE").
			WithArgs(int32(2)).
			WillReturnRows(poolRows().AddRow(2, 5, 1, 2, 0, 0, 0, 3, nil, false, 4, time.Now()))

		pool, err := repo.GetForUpdate(ctx, 2)
		assert.NoError(t, err)
		assert.Equal(t, int32(5), pool.Available)
		assert.Equal(t, int64(4), pool.Version)
	})
}

func TestInventoryRepository_GetByProductID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewInventoryRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		reorder := int32(2)
		mock.ExpectQuery("SELECT (.+) FROM inventory_pools WHERE product_id = \\$1$").
			WithArgs(int32(2)).
			WillReturnRows(poolRows().AddRow(2, 8, 0, 0, 1, 1, 0, 3, reorder, true, 1, time.Now()))

		pool, err := repo.GetByProductID(ctx, 2)
		assert.NoError(t, err)
		assert.Equal(t, int32(10), pool.TotalStock())
		assert.True(t, pool.AutoReorderEnabled)
	})
}

func TestInventoryRepository_SaveCounters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewInventoryRepository(db)
	ctx := context.Background()

	t.Run("Version matches", func(t *testing.T) {
		pool := &domain.InventoryPool{ProductID: 2, Available: 3, Reserved: 2, Version: 4}

		mock.ExpectExec("UPDATE inventory_pools").
			WithArgs(int32(3), int32(2), int32(0), int32(0), int32(0), int32(0), sqlmock.AnyArg(), int32(2), int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.SaveCounters(ctx, pool)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(5), pool.Version, "version bumped after the guarded write")
	})

	t.Run("Stale version writes nothing", func(t *testing.T) {
		pool := &domain.InventoryPool{ProductID: 2, Available: 3, Version: 4}

		mock.ExpectExec("UPDATE inventory_pools").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.SaveCounters(ctx, pool)
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, int64(4), pool.Version, "version untouched on a lost race")
	})
}

func TestInventoryRepository_ListLowStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewInventoryRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := poolRows().
			AddRow(2, 1, 1, 0, 0, 0, 0, 3, nil, false, 1, time.Now()).
			AddRow(5, 0, 0, 0, 2, 0, 0, 1, nil, false, 1, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM inventory_pools\\s+WHERE available <= alert_threshold").
			WillReturnRows(rows)

		pools, err := repo.ListLowStock(ctx)
		assert.NoError(t, err)
		assert.Len(t, pools, 2)
		assert.Equal(t, int32(2), pools[0].ProductID)
	})
}

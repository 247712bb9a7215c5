package repos

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func orderRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "order_number", "customer_id", "product_id", "quantity", "start_date", "end_date",
		"actual_return_date", "status", "rental_fee", "deposit_fee", "insurance_fee", "tax_amount", "overdue_fee",
		"extension_fee", "early_return_discount", "damage_fee", "cleaning_fee", "total_amount", "stock_reserved",
		"cancel_reason", "return_condition", "created_on", "updated_on",
	})
}

func addOrderRow(rows *sqlmock.Rows, id int32, status string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		id, "RO202608290001", 1, 2, 2, now, now.Add(5*24*time.Hour),
		nil, status, "10000", "0", "0", "1000", "0",
		"0", "0", "0", "0", "11000", true,
		"", "", now, now,
	)
}

func TestOrderRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewOrderRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		order := &domain.RentalOrder{
			OrderNumber: "RO202608290001",
			CustomerID:  1,
			ProductID:   2,
			Quantity:    2,
			StartDate:   time.Now(),
			EndDate:     time.Now().Add(5 * 24 * time.Hour),
			Status:      domain.OrderStatusPending,
			RentalFee:   decimal.NewFromInt(10000),
			TaxAmount:   decimal.NewFromInt(1000),
			TotalAmount: decimal.NewFromInt(11000),
		}

		mock.ExpectQuery("INSERT INTO rental_orders").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		err := repo.Create(ctx, order)
		assert.NoError(t, err)
		assert.Equal(t, int32(7), order.ID)
	})
}

func TestOrderRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewOrderRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rental_orders WHERE id = \\$1").
			WithArgs(int32(7)).
			WillReturnRows(addOrderRow(orderRows(), 7, "ACTIVE"))

		order, err := repo.GetByID(ctx, 7)
		assert.NoError(t, err)
		assert.NotNil(t, order)
		assert.Equal(t, int32(7), order.ID)
		assert.Equal(t, domain.OrderStatusActive, order.Status)
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(11000)))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rental_orders WHERE id = \\$1").
			WithArgs(int32(99)).
			WillReturnError(sql.ErrNoRows)

		order, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, order)
	})
}

func TestOrderRepository_UpdateWithStatusGuard(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewOrderRepository(db)
	ctx := context.Background()

	order := &domain.RentalOrder{ID: 7, Status: domain.OrderStatusReserved}
	allowed := []domain.OrderStatus{domain.OrderStatusPending}

	t.Run("Row still in allowed status", func(t *testing.T) {
		mock.ExpectExec("UPDATE rental_orders").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.UpdateWithStatusGuard(ctx, order, allowed)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Concurrent transition already won", func(t *testing.T) {
		mock.ExpectExec("UPDATE rental_orders").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.UpdateWithStatusGuard(ctx, order, allowed)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestOrderRepository_SumOverlappingQuantity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewOrderRepository(db)
	ctx := context.Background()
	start := time.Now()
	end := start.Add(5 * 24 * time.Hour)

	t.Run("Sums committed overlap", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\) FROM rental_orders`).
			WithArgs(int32(2), sqlmock.AnyArg(), end, start, int32(0)).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))

		total, err := repo.SumOverlappingQuantity(ctx, 2, start, end, domain.CommittedStatuses, 0)
		assert.NoError(t, err)
		assert.Equal(t, int32(3), total)
	})

	t.Run("No overlap sums to zero", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\) FROM rental_orders`).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

		total, err := repo.SumOverlappingQuantity(ctx, 2, start, end, domain.CommittedStatuses, 0)
		assert.NoError(t, err)
		assert.Equal(t, int32(0), total)
	})
}

func TestOrderRepository_ListUnsecured(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewOrderRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := addOrderRow(addOrderRow(orderRows(), 7, "RESERVED"), 8, "PENDING")
		mock.ExpectQuery("SELECT (.+) FROM rental_orders\\s+WHERE stock_reserved = FALSE").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(rows)

		orders, err := repo.ListUnsecured(ctx, time.Now().Add(24*time.Hour))
		assert.NoError(t, err)
		assert.Len(t, orders, 2)
		assert.Equal(t, int32(7), orders[0].ID)
	})
}

func TestOrderRepository_ListByCustomer(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewOrderRepository(db)
	ctx := context.Background()

	t.Run("Filters by status", func(t *testing.T) {
		mock.ExpectQuery("SELECT count").
			WithArgs(int32(1), "ACTIVE").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery("SELECT (.+) FROM rental_orders WHERE customer_id = \\$1 AND status = \\$2").
			WithArgs(int32(1), "ACTIVE", int32(20), int32(0)).
			WillReturnRows(addOrderRow(orderRows(), 7, "ACTIVE"))

		orders, count, err := repo.ListByCustomer(ctx, 1, "ACTIVE", 1, 20)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), count)
		assert.Len(t, orders, 1)
	})
}

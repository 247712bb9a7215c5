package unit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/service"
)

func newInventoryService() (service.InventoryService, *storeMocks, *MockEmailService) {
	store, m := newMockStore()
	emailSvc := new(MockEmailService)
	notifier := service.NewNotifier(m.notes, emailSvc)
	svc := service.NewInventoryService(store, nil, notifier, testRentalConfig())
	return svc, m, emailSvc
}

func TestInventoryService_AddStock(t *testing.T) {
	ctx := context.Background()
	productID := int32(2)

	t.Run("Success", func(t *testing.T) {
		svc, m, _ := newInventoryService()
		pool := &domain.InventoryPool{ProductID: productID, Available: 2}

		m.inventory.On("GetForUpdate", ctx, productID).Return(pool, nil)
		m.movements.On("Create", ctx, mock.AnythingOfType("*domain.StockMovement")).Return(nil)
		m.inventory.On("SaveCounters", ctx, pool).Return(true, nil)

		res, err := svc.AddStock(ctx, productID, 5, "restock delivery")
		assert.NoError(t, err)
		assert.Equal(t, int32(7), res.Available)
	})

	t.Run("Low stock alert fires after the mutation", func(t *testing.T) {
		svc, m, emailSvc := newInventoryService()
		pool := &domain.InventoryPool{ProductID: productID, Available: 0, AlertThreshold: 3}

		m.inventory.On("GetForUpdate", ctx, productID).Return(pool, nil)
		m.movements.On("Create", ctx, mock.AnythingOfType("*domain.StockMovement")).Return(nil)
		m.inventory.On("SaveCounters", ctx, pool).Return(true, nil)
		emailSvc.On("SendAdminNotification", ctx, "Low stock", mock.Anything).Return(nil)

		res, err := svc.AddStock(ctx, productID, 1, "")
		assert.NoError(t, err)
		assert.Equal(t, int32(1), res.Available)
		emailSvc.AssertCalled(t, "SendAdminNotification", ctx, "Low stock", mock.Anything)
	})

	t.Run("Concurrent counter change aborts", func(t *testing.T) {
		svc, m, _ := newInventoryService()
		pool := &domain.InventoryPool{ProductID: productID, Available: 2}

		m.inventory.On("GetForUpdate", ctx, productID).Return(pool, nil)
		m.movements.On("Create", ctx, mock.AnythingOfType("*domain.StockMovement")).Return(nil)
		m.inventory.On("SaveCounters", ctx, pool).Return(false, nil)

		_, err := svc.AddStock(ctx, productID, 5, "")
		e, ok := domain.AsError(err)
		assert.True(t, ok)
		assert.Equal(t, domain.ErrKindReservationFailed, e.Kind)
	})
}

func TestInventoryService_MarkAsDamaged(t *testing.T) {
	ctx := context.Background()
	productID := int32(2)

	t.Run("Clamps to the source pool", func(t *testing.T) {
		svc, m, _ := newInventoryService()
		pool := &domain.InventoryPool{ProductID: productID, Available: 10, Rented: 2}

		m.inventory.On("GetForUpdate", ctx, productID).Return(pool, nil)
		m.movements.On("Create", ctx, mock.AnythingOfType("*domain.StockMovement")).Return(nil)
		m.inventory.On("SaveCounters", ctx, pool).Return(true, nil)

		res, err := svc.MarkAsDamaged(ctx, productID, 5, domain.PoolRented, "came back broken")
		assert.NoError(t, err)
		assert.Equal(t, int32(0), res.Rented)
		assert.Equal(t, int32(2), res.Damaged)
	})

	t.Run("Damaged pool is not a valid source", func(t *testing.T) {
		svc, m, _ := newInventoryService()
		pool := &domain.InventoryPool{ProductID: productID, Damaged: 2}

		m.inventory.On("GetForUpdate", ctx, productID).Return(pool, nil)

		_, err := svc.MarkAsLost(ctx, productID, 1, domain.PoolDamaged, "")
		e, ok := domain.AsError(err)
		assert.True(t, ok)
		assert.Equal(t, domain.ErrorCategoryValidation, e.Category)
		m.inventory.AssertNotCalled(t, "SaveCounters", ctx, mock.Anything)
	})
}

func TestInventoryService_CheckAvailability(t *testing.T) {
	ctx := context.Background()
	productID := int32(2)
	start := time.Now().AddDate(0, 0, 5)
	end := start.AddDate(0, 0, 3)

	t.Run("Window with committed overlap", func(t *testing.T) {
		svc, m, _ := newInventoryService()

		m.inventory.On("GetByProductID", ctx, productID).Return(&domain.InventoryPool{ProductID: productID, Available: 4, Rented: 1}, nil)
		m.orders.On("SumOverlappingQuantity", ctx, productID, start, end, domain.CommittedStatuses, int32(0)).Return(int32(3), nil)

		ok, free, err := svc.CheckAvailability(ctx, productID, 2, start, end)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int32(2), free)

		ok, _, err = svc.CheckAvailability(ctx, productID, 3, start, end)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Inverted window is rejected", func(t *testing.T) {
		svc, _, _ := newInventoryService()

		_, _, err := svc.CheckAvailability(ctx, productID, 1, end, start)
		e, ok := domain.AsError(err)
		assert.True(t, ok)
		assert.Equal(t, domain.ErrKindBadPeriod, e.Kind)
	})
}

func TestInventoryService_SecureUpcomingReservations(t *testing.T) {
	ctx := context.Background()

	t.Run("Secures orders inside the horizon", func(t *testing.T) {
		svc, m, _ := newInventoryService()
		pool := &domain.InventoryPool{ProductID: 2, Available: 5}
		orders := []domain.RentalOrder{{
			ID: 7, OrderNumber: "RO1", CustomerID: 1, ProductID: 2, Quantity: 2,
			Status: domain.OrderStatusReserved,
		}}

		m.orders.On("ListUnsecured", ctx, mock.Anything).Return(orders, nil)
		m.inventory.On("GetForUpdate", ctx, int32(2)).Return(pool, nil)
		m.inventory.On("SaveCounters", ctx, pool).Return(true, nil)
		m.movements.On("Create", ctx, mock.AnythingOfType("*domain.StockMovement")).Return(nil)
		m.orders.On("UpdateWithStatusGuard", ctx, mock.AnythingOfType("*domain.RentalOrder"), domain.CommittedStatuses).Return(true, nil)

		secured, err := svc.SecureUpcomingReservations(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, secured)
		assert.Equal(t, int32(3), pool.Available)
		assert.Equal(t, int32(2), pool.Reserved)
	})

	t.Run("Insufficient stock pages the admin and continues", func(t *testing.T) {
		svc, m, emailSvc := newInventoryService()
		starved := &domain.InventoryPool{ProductID: 2, Available: 1}
		healthy := &domain.InventoryPool{ProductID: 3, Available: 5}
		orders := []domain.RentalOrder{
			{ID: 7, OrderNumber: "RO1", ProductID: 2, Quantity: 4, Status: domain.OrderStatusReserved},
			{ID: 8, OrderNumber: "RO2", ProductID: 3, Quantity: 1, Status: domain.OrderStatusReserved},
		}

		m.orders.On("ListUnsecured", ctx, mock.Anything).Return(orders, nil)
		m.inventory.On("GetForUpdate", ctx, int32(2)).Return(starved, nil)
		m.inventory.On("GetForUpdate", ctx, int32(3)).Return(healthy, nil)
		m.inventory.On("SaveCounters", ctx, healthy).Return(true, nil)
		m.movements.On("Create", ctx, mock.AnythingOfType("*domain.StockMovement")).Return(nil)
		m.orders.On("UpdateWithStatusGuard", ctx, mock.AnythingOfType("*domain.RentalOrder"), domain.CommittedStatuses).Return(true, nil)
		emailSvc.On("SendAdminNotification", ctx, "Reservation could not be secured", mock.Anything).Return(nil)

		secured, err := svc.SecureUpcomingReservations(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, secured)
		assert.Equal(t, int32(1), starved.Available, "failed order mutates nothing")
		emailSvc.AssertCalled(t, "SendAdminNotification", ctx, "Reservation could not be secured", mock.Anything)
	})
}

func TestInventoryService_AuditOvercommit(t *testing.T) {
	ctx := context.Background()

	t.Run("Reports the deepest overcommitted day", func(t *testing.T) {
		svc, m, emailSvc := newInventoryService()
		today := time.Now()
		products := []domain.RentalProduct{{ID: 2, Name: "Excavator", Enabled: true}}
		orders := []domain.RentalOrder{
			{ID: 1, ProductID: 2, Quantity: 2, StartDate: today, EndDate: today.AddDate(0, 0, 10), Status: domain.OrderStatusActive},
			{ID: 2, ProductID: 2, Quantity: 2, StartDate: today.AddDate(0, 0, 3), EndDate: today.AddDate(0, 0, 6), Status: domain.OrderStatusReserved},
		}

		m.products.On("List", ctx, false, int32(1), int32(1000)).Return(products, int32(1), nil)
		m.inventory.On("GetByProductID", ctx, int32(2)).Return(&domain.InventoryPool{ProductID: 2, Available: 3}, nil)
		m.orders.On("ListCommittedOverlapping", ctx, int32(2), mock.Anything, mock.Anything).Return(orders, nil)
		emailSvc.On("SendAdminNotification", ctx, "Inventory overcommit detected", mock.Anything).Return(nil)

		findings, err := svc.AuditOvercommit(ctx)
		assert.NoError(t, err)
		assert.Len(t, findings, 1)
		assert.Equal(t, domain.ErrKindOvercommit, findings[0].Kind)
		assert.Equal(t, int32(4), findings[0].Requested)
		assert.Equal(t, int32(3), findings[0].Available)
		assert.False(t, findings[0].Recoverable())
		assert.True(t, findings[0].RequiresAdminNotification())
	})

	t.Run("Clean ledger reports nothing", func(t *testing.T) {
		svc, m, emailSvc := newInventoryService()
		today := time.Now()
		products := []domain.RentalProduct{{ID: 2, Enabled: true}}
		orders := []domain.RentalOrder{
			{ID: 1, ProductID: 2, Quantity: 2, StartDate: today, EndDate: today.AddDate(0, 0, 10), Status: domain.OrderStatusActive},
		}

		m.products.On("List", ctx, false, int32(1), int32(1000)).Return(products, int32(1), nil)
		m.inventory.On("GetByProductID", ctx, int32(2)).Return(&domain.InventoryPool{ProductID: 2, Available: 3}, nil)
		m.orders.On("ListCommittedOverlapping", ctx, int32(2), mock.Anything, mock.Anything).Return(orders, nil)

		findings, err := svc.AuditOvercommit(ctx)
		assert.NoError(t, err)
		assert.Empty(t, findings)
		emailSvc.AssertNotCalled(t, "SendAdminNotification", ctx, mock.Anything, mock.Anything)
	})
}

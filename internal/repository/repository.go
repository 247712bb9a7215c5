package repository

import (
	"context"
	"time"

	"rentstack-backend/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.RentalProduct) error
	GetByID(ctx context.Context, id int32) (*domain.RentalProduct, error)
	Update(ctx context.Context, product *domain.RentalProduct) error
	List(ctx context.Context, enabledOnly bool, page, pageSize int32) ([]domain.RentalProduct, int32, error)
}

type InventoryRepository interface {
	Create(ctx context.Context, pool *domain.InventoryPool) error
	GetByProductID(ctx context.Context, productID int32) (*domain.InventoryPool, error)
	// GetForUpdate locks the pool row for the rest of the transaction. It is
	// only meaningful inside Store.RunInTx.
	GetForUpdate(ctx context.Context, productID int32) (*domain.InventoryPool, error)
	// SaveCounters writes the six counters guarded by the version read with
	// the pool; a false return means another writer got there first.
	SaveCounters(ctx context.Context, pool *domain.InventoryPool) (bool, error)
	ListLowStock(ctx context.Context) ([]domain.InventoryPool, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.RentalOrder) error
	GetByID(ctx context.Context, id int32) (*domain.RentalOrder, error)
	GetByOrderNumber(ctx context.Context, number string) (*domain.RentalOrder, error)
	// UpdateWithStatusGuard writes the order's mutable fields only while its
	// stored status is one of allowed; a false return means the precondition
	// no longer holds.
	UpdateWithStatusGuard(ctx context.Context, order *domain.RentalOrder, allowed []domain.OrderStatus) (bool, error)
	// SumOverlappingQuantity totals the quantity of orders for the product in
	// the given statuses whose window overlaps [start, end] inclusively,
	// excluding excludeOrderID when non-zero.
	SumOverlappingQuantity(ctx context.Context, productID int32, start, end time.Time, statuses []domain.OrderStatus, excludeOrderID int32) (int32, error)
	CountByCustomerAndStatuses(ctx context.Context, customerID int32, statuses []domain.OrderStatus) (int32, error)
	ListByCustomer(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.RentalOrder, int32, error)
	// ListUnsecured returns committed orders that have not reserved ledger
	// stock yet and start on or before the horizon date.
	ListUnsecured(ctx context.Context, horizon time.Time) ([]domain.RentalOrder, error)
	// ListCommittedOverlapping returns committed-status orders for a product
	// overlapping [start, end].
	ListCommittedOverlapping(ctx context.Context, productID int32, start, end time.Time) ([]domain.RentalOrder, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int32) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	SetBlocked(ctx context.Context, id int32, blocked bool, reason string) error
}

type StockMovementRepository interface {
	Create(ctx context.Context, movement *domain.StockMovement) error
	ListByProduct(ctx context.Context, productID int32, page, pageSize int32) ([]domain.StockMovement, int32, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, customerID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, customerID int32) error
}

type OrderNumberRepository interface {
	// Next returns the next order number for the day: prefix, yyyymmdd, and
	// a four-digit sequence that resets daily. The database serializes the
	// per-day sequence, so concurrent creations never collide.
	Next(ctx context.Context, prefix string, day time.Time) (string, error)
}

// Repositories bundles every repository over one database handle. Inside
// Store.RunInTx the bundle shares a single transaction.
type Repositories struct {
	Products      ProductRepository
	Inventory     InventoryRepository
	Orders        OrderRepository
	Customers     CustomerRepository
	Movements     StockMovementRepository
	Notifications NotificationRepository
	OrderNumbers  OrderNumberRepository
}

// Store is the persistence entry point. RunInTx runs fn inside one
// transaction: fn's repositories see uncommitted writes, any error rolls
// everything back.
type Store interface {
	Repos() Repositories
	RunInTx(ctx context.Context, fn func(r Repositories) error) error
}

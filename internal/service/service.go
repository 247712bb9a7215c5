package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/pricing"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, phone, password string) (*domain.Customer, string, string, error) // customer, access, refresh
	Login(ctx context.Context, email, password string) (string, string, error)                                 // access, refresh
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
}

type ProductService interface {
	CreateProduct(ctx context.Context, product *domain.RentalProduct, initialStock int32) (*domain.RentalProduct, error)
	GetProduct(ctx context.Context, id int32) (*domain.RentalProduct, error)
	UpdateProduct(ctx context.Context, product *domain.RentalProduct) error
	ListProducts(ctx context.Context, enabledOnly bool, page, pageSize int32) ([]domain.RentalProduct, int32, error)
}

type OrderService interface {
	QuoteOrder(ctx context.Context, productID, quantity int32, startDate, endDate string) (*pricing.Quote, error)
	CreateOrder(ctx context.Context, customerID, productID, quantity int32, startDate, endDate string) (*domain.RentalOrder, error)
	ApproveOrder(ctx context.Context, orderID int32) (*domain.RentalOrder, error)
	StartOrder(ctx context.Context, orderID int32) (*domain.RentalOrder, error)
	ReturnOrder(ctx context.Context, orderID int32, returnDate, condition string, damageFee, cleaningFee decimal.Decimal) (*domain.RentalOrder, error)
	CancelOrder(ctx context.Context, customerID, orderID int32, reason string) (*domain.RentalOrder, error)
	ExtendOrder(ctx context.Context, customerID, orderID int32, newEndDate string) (*domain.RentalOrder, error)
	GetOrder(ctx context.Context, customerID, orderID int32) (*domain.RentalOrder, error)
	ListOrders(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.RentalOrder, int32, error)
	MarkOverdue(ctx context.Context, orderID int32) (*domain.RentalOrder, error)
}

type InventoryService interface {
	GetPool(ctx context.Context, productID int32) (*domain.InventoryPool, error)
	CheckAvailability(ctx context.Context, productID, quantity int32, start, end time.Time) (bool, int32, error)
	AddStock(ctx context.Context, productID, quantity int32, note string) (*domain.InventoryPool, error)
	MoveToMaintenance(ctx context.Context, productID, quantity int32, source domain.PoolName, note string) (*domain.InventoryPool, error)
	MarkAsDamaged(ctx context.Context, productID, quantity int32, source domain.PoolName, note string) (*domain.InventoryPool, error)
	MarkAsLost(ctx context.Context, productID, quantity int32, source domain.PoolName, note string) (*domain.InventoryPool, error)
	ListLowStock(ctx context.Context) ([]domain.InventoryPool, error)
	ListMovements(ctx context.Context, productID, page, pageSize int32) ([]domain.StockMovement, int32, error)
	// SecureUpcomingReservations moves ledger stock into the reserved pool
	// for committed orders whose start date has reached the reservation
	// horizon. Returns the number of orders secured.
	SecureUpcomingReservations(ctx context.Context) (int, error)
	// AuditOvercommit cross-checks committed order quantities against pool
	// circulation per product and returns one error per overcommitted window.
	AuditOvercommit(ctx context.Context) ([]*domain.Error, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, customerID, notificationID int32) error
}

type EmailService interface {
	SendOrderConfirmation(ctx context.Context, email, name, orderNumber string, total decimal.Decimal) error
	SendOrderApproved(ctx context.Context, email, name, orderNumber string) error
	SendReturnReminder(ctx context.Context, email, name, orderNumber string, dueDate time.Time) error
	SendOverdueNotice(ctx context.Context, email, name, orderNumber string, overdueFee decimal.Decimal) error
	SendCancellationConfirmation(ctx context.Context, email, name, orderNumber, reason string) error

	SendAdminNotification(ctx context.Context, subject, message string) error
}

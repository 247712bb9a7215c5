package unit

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/repository"
)

// fakeStore satisfies repository.Store over the mock repositories. RunInTx
// simply invokes fn with the same bundle, so service transaction bodies run
// against the mocks.
type fakeStore struct {
	repos repository.Repositories
}

func (s *fakeStore) Repos() repository.Repositories {
	return s.repos
}

func (s *fakeStore) RunInTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	return fn(s.repos)
}

type storeMocks struct {
	products  *MockProductRepo
	inventory *MockInventoryRepo
	orders    *MockOrderRepo
	customers *MockCustomerRepo
	movements *MockMovementRepo
	notes     *MockNotificationRepo
	numbers   *MockOrderNumberRepo
}

func newMockStore() (*fakeStore, *storeMocks) {
	m := &storeMocks{
		products:  new(MockProductRepo),
		inventory: new(MockInventoryRepo),
		orders:    new(MockOrderRepo),
		customers: new(MockCustomerRepo),
		movements: new(MockMovementRepo),
		notes:     new(MockNotificationRepo),
		numbers:   new(MockOrderNumberRepo),
	}
	store := &fakeStore{repos: repository.Repositories{
		Products:      m.products,
		Inventory:     m.inventory,
		Orders:        m.orders,
		Customers:     m.customers,
		Movements:     m.movements,
		Notifications: m.notes,
		OrderNumbers:  m.numbers,
	}}
	return store, m
}

// MockProductRepo
type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) Create(ctx context.Context, product *domain.RentalProduct) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}
func (m *MockProductRepo) GetByID(ctx context.Context, id int32) (*domain.RentalProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalProduct), args.Error(1)
}
func (m *MockProductRepo) Update(ctx context.Context, product *domain.RentalProduct) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}
func (m *MockProductRepo) List(ctx context.Context, enabledOnly bool, page, pageSize int32) ([]domain.RentalProduct, int32, error) {
	args := m.Called(ctx, enabledOnly, page, pageSize)
	return args.Get(0).([]domain.RentalProduct), args.Get(1).(int32), args.Error(2)
}

// MockInventoryRepo
type MockInventoryRepo struct {
	mock.Mock
}

func (m *MockInventoryRepo) Create(ctx context.Context, pool *domain.InventoryPool) error {
	args := m.Called(ctx, pool)
	return args.Error(0)
}
func (m *MockInventoryRepo) GetByProductID(ctx context.Context, productID int32) (*domain.InventoryPool, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryPool), args.Error(1)
}
func (m *MockInventoryRepo) GetForUpdate(ctx context.Context, productID int32) (*domain.InventoryPool, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryPool), args.Error(1)
}
func (m *MockInventoryRepo) SaveCounters(ctx context.Context, pool *domain.InventoryPool) (bool, error) {
	args := m.Called(ctx, pool)
	return args.Bool(0), args.Error(1)
}
func (m *MockInventoryRepo) ListLowStock(ctx context.Context) ([]domain.InventoryPool, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.InventoryPool), args.Error(1)
}

// MockOrderRepo
type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, order *domain.RentalOrder) error {
	args := m.Called(ctx, order)
	if args.Error(0) == nil && order.ID == 0 {
		order.ID = 1
	}
	return args.Error(0)
}
func (m *MockOrderRepo) GetByID(ctx context.Context, id int32) (*domain.RentalOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalOrder), args.Error(1)
}
func (m *MockOrderRepo) GetByOrderNumber(ctx context.Context, number string) (*domain.RentalOrder, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalOrder), args.Error(1)
}
func (m *MockOrderRepo) UpdateWithStatusGuard(ctx context.Context, order *domain.RentalOrder, allowed []domain.OrderStatus) (bool, error) {
	args := m.Called(ctx, order, allowed)
	return args.Bool(0), args.Error(1)
}
func (m *MockOrderRepo) SumOverlappingQuantity(ctx context.Context, productID int32, start, end time.Time, statuses []domain.OrderStatus, excludeOrderID int32) (int32, error) {
	args := m.Called(ctx, productID, start, end, statuses, excludeOrderID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockOrderRepo) CountByCustomerAndStatuses(ctx context.Context, customerID int32, statuses []domain.OrderStatus) (int32, error) {
	args := m.Called(ctx, customerID, statuses)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockOrderRepo) ListByCustomer(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.RentalOrder, int32, error) {
	args := m.Called(ctx, customerID, status, page, pageSize)
	return args.Get(0).([]domain.RentalOrder), args.Get(1).(int32), args.Error(2)
}
func (m *MockOrderRepo) ListUnsecured(ctx context.Context, horizon time.Time) ([]domain.RentalOrder, error) {
	args := m.Called(ctx, horizon)
	return args.Get(0).([]domain.RentalOrder), args.Error(1)
}
func (m *MockOrderRepo) ListCommittedOverlapping(ctx context.Context, productID int32, start, end time.Time) ([]domain.RentalOrder, error) {
	args := m.Called(ctx, productID, start, end)
	return args.Get(0).([]domain.RentalOrder), args.Error(1)
}

// MockCustomerRepo
type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}
func (m *MockCustomerRepo) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) Update(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}
func (m *MockCustomerRepo) SetBlocked(ctx context.Context, id int32, blocked bool, reason string) error {
	args := m.Called(ctx, id, blocked, reason)
	return args.Error(0)
}

// MockMovementRepo
type MockMovementRepo struct {
	mock.Mock
}

func (m *MockMovementRepo) Create(ctx context.Context, movement *domain.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}
func (m *MockMovementRepo) ListByProduct(ctx context.Context, productID int32, page, pageSize int32) ([]domain.StockMovement, int32, error) {
	args := m.Called(ctx, productID, page, pageSize)
	return args.Get(0).([]domain.StockMovement), args.Get(1).(int32), args.Error(2)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, customerID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, customerID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, customerID int32) error {
	args := m.Called(ctx, id, customerID)
	return args.Error(0)
}

// MockOrderNumberRepo
type MockOrderNumberRepo struct {
	mock.Mock
}

func (m *MockOrderNumberRepo) Next(ctx context.Context, prefix string, day time.Time) (string, error) {
	args := m.Called(ctx, prefix, day)
	return args.String(0), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendOrderConfirmation(ctx context.Context, email, name, orderNumber string, total decimal.Decimal) error {
	args := m.Called(ctx, email, name, orderNumber, total)
	return args.Error(0)
}
func (m *MockEmailService) SendOrderApproved(ctx context.Context, email, name, orderNumber string) error {
	args := m.Called(ctx, email, name, orderNumber)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnReminder(ctx context.Context, email, name, orderNumber string, dueDate time.Time) error {
	args := m.Called(ctx, email, name, orderNumber, dueDate)
	return args.Error(0)
}
func (m *MockEmailService) SendOverdueNotice(ctx context.Context, email, name, orderNumber string, overdueFee decimal.Decimal) error {
	args := m.Called(ctx, email, name, orderNumber, overdueFee)
	return args.Error(0)
}
func (m *MockEmailService) SendCancellationConfirmation(ctx context.Context, email, name, orderNumber, reason string) error {
	args := m.Called(ctx, email, name, orderNumber, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendAdminNotification(ctx context.Context, subject, message string) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

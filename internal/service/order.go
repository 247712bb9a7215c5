package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"rentstack-backend/internal/cache"
	"rentstack-backend/internal/config"
	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/logger"
	"rentstack-backend/internal/pricing"
	"rentstack-backend/internal/repository"
)

// ReturnCondition values accepted by ReturnOrder.
const (
	ReturnConditionGood    = "GOOD"
	ReturnConditionDamaged = "DAMAGED"
)

type orderService struct {
	store    repository.Store
	gate     *ValidationGate
	settings pricing.Settings
	cache    *cache.AvailabilityCache
	notifier *Notifier

	orderNumberPrefix string
	horizonDays       int32
	now               func() time.Time
}

func NewOrderService(
	store repository.Store,
	gate *ValidationGate,
	settings pricing.Settings,
	availCache *cache.AvailabilityCache,
	notifier *Notifier,
	rentalCfg config.RentalConfig,
) OrderService {
	return &orderService{
		store:             store,
		gate:              gate,
		settings:          settings,
		cache:             availCache,
		notifier:          notifier,
		orderNumberPrefix: rentalCfg.OrderNumberPrefix,
		horizonDays:       int32(rentalCfg.ReservationHorizonDay),
		now:               time.Now,
	}
}

func (s *orderService) QuoteOrder(ctx context.Context, productID, quantity int32, startDate, endDate string) (*pricing.Quote, error) {
	start, end, err := parseWindow(startDate, endDate)
	if err != nil {
		return nil, err
	}

	product, err := s.store.Repos().Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.ValidateQuantity(product, quantity); err != nil {
		return nil, err
	}
	if err := s.gate.ValidatePeriod(product, start, end); err != nil {
		return nil, err
	}

	quote := pricing.ComputeQuote(product, domain.DaysBetween(start, end), quantity, s.settings)
	return &quote, nil
}

// CreateOrder validates the request, checks window availability, prices the
// order, and commits it atomically. Stock is only pulled into the reserved
// pool when the window starts within the reservation horizon; later orders
// are secured by the scheduled job as their start date approaches.
func (s *orderService) CreateOrder(ctx context.Context, customerID, productID, quantity int32, startDate, endDate string) (*domain.RentalOrder, error) {
	start, end, err := parseWindow(startDate, endDate)
	if err != nil {
		return nil, err
	}

	var order *domain.RentalOrder
	var stockTouched bool

	err = s.store.RunInTx(ctx, func(r repository.Repositories) error {
		customer, err := r.Customers.GetByID(ctx, customerID)
		if err != nil {
			return err
		}
		product, err := r.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		committed, err := r.Orders.CountByCustomerAndStatuses(ctx, customerID, domain.CommittedStatuses)
		if err != nil {
			return err
		}
		if err := s.gate.ValidateOrderRequest(customer, product, quantity, start, end, committed); err != nil {
			return err
		}
		if err := ensureWindowAvailability(ctx, r, productID, quantity, start, end, 0); err != nil {
			return err
		}

		days := domain.DaysBetween(start, end)
		quote := pricing.ComputeQuote(product, days, quantity, s.settings)

		number, err := r.OrderNumbers.Next(ctx, s.orderNumberPrefix, s.now())
		if err != nil {
			return err
		}

		order = &domain.RentalOrder{
			OrderNumber:  number,
			CustomerID:   customerID,
			ProductID:    productID,
			Quantity:     quantity,
			StartDate:    start,
			EndDate:      end,
			Status:       domain.OrderStatusPending,
			RentalFee:    quote.RentalFee,
			DepositFee:   quote.Deposit,
			InsuranceFee: quote.Insurance,
			TaxAmount:    quote.Tax,
		}
		order.RecomputeTotal()

		if err := r.Orders.Create(ctx, order); err != nil {
			return err
		}

		if s.withinHorizon(start) {
			if err := s.reserveStock(ctx, r, order); err != nil {
				return err
			}
			ok, err := r.Orders.UpdateWithStatusGuard(ctx, order, []domain.OrderStatus{domain.OrderStatusPending})
			if err != nil {
				return err
			}
			if !ok {
				return domain.NewStateError(order.Status, []domain.OrderStatus{domain.OrderStatusPending}, "create")
			}
			stockTouched = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if stockTouched {
		s.cache.Invalidate(ctx, productID)
	}
	s.notifyOrderEvent(ctx, order, domain.EventOrderCreated, "Order Created",
		fmt.Sprintf("Order %s was created, total %s", order.OrderNumber, order.TotalAmount.StringFixed(2)))
	s.sendOrderEmail(ctx, order, domain.EventOrderCreated)

	return order, nil
}

// ApproveOrder moves a pending order to reserved. The status guard makes a
// double approval fail without touching the row.
func (s *orderService) ApproveOrder(ctx context.Context, orderID int32) (*domain.RentalOrder, error) {
	order, err := s.transition(ctx, orderID, []domain.OrderStatus{domain.OrderStatusPending}, "approve",
		func(r repository.Repositories, o *domain.RentalOrder) error {
			o.Status = domain.OrderStatusReserved
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.notifyOrderEvent(ctx, order, domain.EventOrderApproved, "Order Approved",
		fmt.Sprintf("Order %s was approved", order.OrderNumber))
	s.sendOrderEmail(ctx, order, domain.EventOrderApproved)
	return order, nil
}

// StartOrder hands the units over: reserved stock becomes rented. An order
// whose stock was never secured reserves and activates in one step.
func (s *orderService) StartOrder(ctx context.Context, orderID int32) (*domain.RentalOrder, error) {
	order, err := s.transition(ctx, orderID, []domain.OrderStatus{domain.OrderStatusReserved}, "start",
		func(r repository.Repositories, o *domain.RentalOrder) error {
			pool, err := r.Inventory.GetForUpdate(ctx, o.ProductID)
			if err != nil {
				return err
			}
			if !o.StockReserved {
				if err := pool.Reserve(o.Quantity); err != nil {
					return err
				}
				o.StockReserved = true
			}
			moved := pool.ActivateRental(o.Quantity)
			if err := saveCounters(ctx, r, pool); err != nil {
				return err
			}
			if err := recordMovement(ctx, r, o, domain.MovementActivate, domain.PoolReserved, domain.PoolRented, o.Quantity, moved, ""); err != nil {
				return err
			}
			o.Status = domain.OrderStatusActive
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, order.ProductID)
	s.notifyOrderEvent(ctx, order, domain.EventOrderStarted, "Rental Started",
		fmt.Sprintf("Order %s is now active until %s", order.OrderNumber, order.EndDate.Format("2006-01-02")))
	return order, nil
}

// ReturnOrder settles an active or overdue rental. Late returns accrue the
// overdue fee, early returns earn a credit, and damaged returns relabel the
// units and close the order as damaged.
func (s *orderService) ReturnOrder(ctx context.Context, orderID int32, returnDate, condition string, damageFee, cleaningFee decimal.Decimal) (*domain.RentalOrder, error) {
	var when time.Time
	if returnDate == "" {
		when = s.now()
	} else {
		var err error
		when, err = parseDate("return_date", returnDate)
		if err != nil {
			return nil, err
		}
	}
	if condition == "" {
		condition = ReturnConditionGood
	}
	if condition != ReturnConditionGood && condition != ReturnConditionDamaged {
		return nil, domain.NewValidationError(domain.ErrKindMissingField, "condition",
			fmt.Sprintf("condition must be %s or %s", ReturnConditionGood, ReturnConditionDamaged))
	}
	if damageFee.IsNegative() || cleaningFee.IsNegative() {
		return nil, domain.NewValidationError(domain.ErrKindMissingField, "damage_fee", "fees must not be negative")
	}

	allowed := []domain.OrderStatus{domain.OrderStatusActive, domain.OrderStatusOverdue}
	order, err := s.transition(ctx, orderID, allowed, "return",
		func(r repository.Repositories, o *domain.RentalOrder) error {
			pool, err := r.Inventory.GetForUpdate(ctx, o.ProductID)
			if err != nil {
				return err
			}

			returned := pool.ReturnFromRental(o.Quantity)
			if err := recordMovement(ctx, r, o, domain.MovementReturn, domain.PoolRented, domain.PoolAvailable, o.Quantity, returned, ""); err != nil {
				return err
			}

			if condition == ReturnConditionDamaged {
				moved, err := pool.MarkAsDamaged(o.Quantity, domain.PoolAvailable)
				if err != nil {
					return err
				}
				if err := recordMovement(ctx, r, o, domain.MovementDamage, domain.PoolAvailable, domain.PoolDamaged, o.Quantity, moved, "damaged on return"); err != nil {
					return err
				}
			}
			if err := saveCounters(ctx, r, pool); err != nil {
				return err
			}

			if overdueDays := o.OverdueDays(when); overdueDays > 0 {
				o.OverdueFee = pricing.OverdueFee(o.TotalAmount, overdueDays, s.settings)
			} else if savedDays := o.SavedDays(when); savedDays > 0 {
				product, err := r.Products.GetByID(ctx, o.ProductID)
				if err != nil {
					return err
				}
				o.EarlyReturnDiscount = pricing.EarlyReturnDiscount(o.TotalAmount, o.RentalDays(), savedDays, product.EarlyReturnRate, s.settings)
			}

			o.DamageFee = damageFee
			o.CleaningFee = cleaningFee
			o.ActualReturnDate = &when
			o.ReturnCondition = condition
			o.StockReserved = false
			if condition == ReturnConditionDamaged {
				o.Status = domain.OrderStatusDamaged
			} else {
				o.Status = domain.OrderStatusReturned
			}
			o.RecomputeTotal()
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, order.ProductID)
	event := domain.EventOrderReturned
	if order.Status == domain.OrderStatusDamaged {
		event = domain.EventOrderDamaged
	}
	s.notifyOrderEvent(ctx, order, event, "Rental Returned",
		fmt.Sprintf("Order %s was returned, final total %s", order.OrderNumber, order.TotalAmount.StringFixed(2)))
	return order, nil
}

// CancelOrder cancels a pending or reserved order and releases any stock it
// holds. Orders are never deleted; cancellation is a terminal status.
func (s *orderService) CancelOrder(ctx context.Context, customerID, orderID int32, reason string) (*domain.RentalOrder, error) {
	allowed := []domain.OrderStatus{domain.OrderStatusPending, domain.OrderStatusReserved}
	var stockTouched bool
	order, err := s.transition(ctx, orderID, allowed, "cancel",
		func(r repository.Repositories, o *domain.RentalOrder) error {
			if customerID != 0 && o.CustomerID != customerID {
				return domain.NewValidationError(domain.ErrKindCustomerIneligible, "order_id", "order belongs to another customer")
			}
			if o.StockReserved {
				pool, err := r.Inventory.GetForUpdate(ctx, o.ProductID)
				if err != nil {
					return err
				}
				released := pool.CancelReservation(o.Quantity)
				if err := saveCounters(ctx, r, pool); err != nil {
					return err
				}
				if err := recordMovement(ctx, r, o, domain.MovementCancelReservation, domain.PoolReserved, domain.PoolAvailable, o.Quantity, released, reason); err != nil {
					return err
				}
				o.StockReserved = false
				stockTouched = true
			}
			o.Status = domain.OrderStatusCancelled
			o.CancelReason = reason
			return nil
		})
	if err != nil {
		return nil, err
	}

	if stockTouched {
		s.cache.Invalidate(ctx, order.ProductID)
	}
	s.notifyOrderEvent(ctx, order, domain.EventOrderCancelled, "Order Cancelled",
		fmt.Sprintf("Order %s was cancelled", order.OrderNumber))
	s.sendOrderEmail(ctx, order, domain.EventOrderCancelled)
	return order, nil
}

// ExtendOrder pushes an active order's end date out after confirming the
// extra days do not conflict with other committed orders.
func (s *orderService) ExtendOrder(ctx context.Context, customerID, orderID int32, newEndDate string) (*domain.RentalOrder, error) {
	newEnd, err := parseDate("new_end_date", newEndDate)
	if err != nil {
		return nil, err
	}

	order, err := s.transition(ctx, orderID, []domain.OrderStatus{domain.OrderStatusActive}, "extend",
		func(r repository.Repositories, o *domain.RentalOrder) error {
			if customerID != 0 && o.CustomerID != customerID {
				return domain.NewValidationError(domain.ErrKindCustomerIneligible, "order_id", "order belongs to another customer")
			}
			if !newEnd.After(o.EndDate) {
				return domain.NewValidationError(domain.ErrKindBadPeriod, "new_end_date", "new end date must be after the current end date")
			}
			product, err := r.Products.GetByID(ctx, o.ProductID)
			if err != nil {
				return err
			}
			extensionDays := domain.DaysBetween(o.EndDate, newEnd)
			totalDays := domain.DaysBetween(o.StartDate, newEnd)
			if product.MaxRentalDays != nil && totalDays > *product.MaxRentalDays {
				return domain.NewValidationError(domain.ErrKindBadPeriod, "new_end_date",
					fmt.Sprintf("rental must not exceed %d day(s)", *product.MaxRentalDays))
			}
			if err := ensureWindowAvailability(ctx, r, o.ProductID, o.Quantity, o.EndDate, newEnd, o.ID); err != nil {
				return err
			}

			fee := pricing.ExtensionFee(o.TotalAmount, o.RentalDays(), extensionDays, product.ExtensionRate, s.settings)
			o.ExtensionFee = o.ExtensionFee.Add(fee)
			o.EndDate = newEnd
			o.RecomputeTotal()
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.notifyOrderEvent(ctx, order, domain.EventOrderExtended, "Rental Extended",
		fmt.Sprintf("Order %s now ends on %s", order.OrderNumber, order.EndDate.Format("2006-01-02")))
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, customerID, orderID int32) (*domain.RentalOrder, error) {
	order, err := s.store.Repos().Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if customerID != 0 && order.CustomerID != customerID {
		return nil, domain.NewValidationError(domain.ErrKindCustomerIneligible, "order_id", "order belongs to another customer")
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.RentalOrder, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return s.store.Repos().Orders.ListByCustomer(ctx, customerID, status, page, pageSize)
}

// MarkOverdue flips a single active order past its end date to overdue.
// The scheduled job is the normal caller.
func (s *orderService) MarkOverdue(ctx context.Context, orderID int32) (*domain.RentalOrder, error) {
	order, err := s.transition(ctx, orderID, []domain.OrderStatus{domain.OrderStatusActive}, "mark overdue",
		func(r repository.Repositories, o *domain.RentalOrder) error {
			if !truncateToDay(o.EndDate).Before(truncateToDay(s.now())) {
				return domain.NewValidationError(domain.ErrKindBadPeriod, "end_date", "order is not past its end date")
			}
			o.Status = domain.OrderStatusOverdue
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.notifyOrderEvent(ctx, order, domain.EventOrderOverdue, "Rental Overdue",
		fmt.Sprintf("Order %s is past its end date of %s", order.OrderNumber, order.EndDate.Format("2006-01-02")))
	return order, nil
}

// transition runs one guarded status change inside a transaction. mutate
// receives the freshly loaded order and may touch the ledger; the final
// write only lands while the stored status is still one of allowed, so
// racing transitions lose cleanly.
func (s *orderService) transition(ctx context.Context, orderID int32, allowed []domain.OrderStatus, operation string,
	mutate func(r repository.Repositories, o *domain.RentalOrder) error) (*domain.RentalOrder, error) {

	var order *domain.RentalOrder
	err := s.store.RunInTx(ctx, func(r repository.Repositories) error {
		o, err := r.Orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !statusIn(o.Status, allowed) {
			return domain.NewStateError(o.Status, allowed, operation)
		}
		if err := mutate(r, o); err != nil {
			return err
		}
		ok, err := r.Orders.UpdateWithStatusGuard(ctx, o, allowed)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewStateError(o.Status, allowed, operation)
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// reserveStock pulls the order's quantity into the reserved pool under the
// row lock and records the movement.
func (s *orderService) reserveStock(ctx context.Context, r repository.Repositories, order *domain.RentalOrder) error {
	pool, err := r.Inventory.GetForUpdate(ctx, order.ProductID)
	if err != nil {
		return err
	}
	if err := pool.Reserve(order.Quantity); err != nil {
		return err
	}
	if err := saveCounters(ctx, r, pool); err != nil {
		return err
	}
	order.StockReserved = true
	return recordMovement(ctx, r, order, domain.MovementReserve, domain.PoolAvailable, domain.PoolReserved, order.Quantity, order.Quantity, "")
}

func (s *orderService) withinHorizon(start time.Time) bool {
	horizon := truncateToDay(s.now()).AddDate(0, 0, int(s.horizonDays))
	return !truncateToDay(start).After(horizon)
}

func (s *orderService) notifyOrderEvent(ctx context.Context, order *domain.RentalOrder, event, title, message string) {
	s.notifier.Notify(ctx, order.CustomerID, event, title, message, map[string]string{
		"order_id":     fmt.Sprintf("%d", order.ID),
		"order_number": order.OrderNumber,
	})
}

func (s *orderService) sendOrderEmail(ctx context.Context, order *domain.RentalOrder, event string) {
	email := s.notifier.Email()
	if email == nil {
		return
	}
	customer, err := s.store.Repos().Customers.GetByID(ctx, order.CustomerID)
	if err != nil {
		logger.Warn("skipping order email, customer lookup failed", "order_id", order.ID, "error", err)
		return
	}

	switch event {
	case domain.EventOrderCreated:
		err = email.SendOrderConfirmation(ctx, customer.Email, customer.Name, order.OrderNumber, order.TotalAmount)
	case domain.EventOrderApproved:
		err = email.SendOrderApproved(ctx, customer.Email, customer.Name, order.OrderNumber)
	case domain.EventOrderCancelled:
		err = email.SendCancellationConfirmation(ctx, customer.Email, customer.Name, order.OrderNumber, order.CancelReason)
	default:
		return
	}
	if err != nil {
		logger.Error("failed to send order email", "order_id", order.ID, "event", event, "error", err)
	}
}

func saveCounters(ctx context.Context, r repository.Repositories, pool *domain.InventoryPool) error {
	ok, err := r.Inventory.SaveCounters(ctx, pool)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.Error{
			Category:  domain.ErrorCategoryInventory,
			Kind:      domain.ErrKindReservationFailed,
			ProductID: pool.ProductID,
			Message:   "inventory changed concurrently, please retry",
		}
	}
	return nil
}

func recordMovement(ctx context.Context, r repository.Repositories, order *domain.RentalOrder, typ domain.MovementType, from, to domain.PoolName, requested, effective int32, note string) error {
	m := &domain.StockMovement{
		ProductID:    order.ProductID,
		Type:         typ,
		SourcePool:   from,
		DestPool:     to,
		RequestedQty: requested,
		EffectiveQty: effective,
		Note:         note,
	}
	if order.ID != 0 {
		id := order.ID
		m.OrderID = &id
	}
	return r.Movements.Create(ctx, m)
}

func statusIn(status domain.OrderStatus, set []domain.OrderStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

func parseWindow(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := parseDate("start_date", startDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate("end_date", endDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, domain.NewValidationError(domain.ErrKindMissingField, field, "date is required")
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, domain.NewValidationError(domain.ErrKindBadPeriod, field, "date must be in YYYY-MM-DD format")
	}
	return t, nil
}

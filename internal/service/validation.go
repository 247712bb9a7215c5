package service

import (
	"fmt"
	"time"

	"rentstack-backend/internal/config"
	"rentstack-backend/internal/domain"
)

// ValidationGate checks an order request before anything touches the ledger.
// All checks are pure: a failed check mutates nothing and the whole request
// is rejected on the first violation.
type ValidationGate struct {
	maxQuantityPerOrder int32
	maxActiveOrders     int32
	requireVerified     bool
	now                 func() time.Time
}

func NewValidationGate(cfg config.RentalConfig) *ValidationGate {
	return &ValidationGate{
		maxQuantityPerOrder: int32(cfg.MaxQuantityPerOrder),
		maxActiveOrders:     int32(cfg.MaxActiveOrders),
		requireVerified:     cfg.RequireVerified,
		now:                 time.Now,
	}
}

// ValidatePeriod checks the rental window against the product's duration
// rules and preparation lead time.
func (g *ValidationGate) ValidatePeriod(product *domain.RentalProduct, start, end time.Time) error {
	if !start.Before(end) {
		return domain.NewValidationError(domain.ErrKindBadPeriod, "end_date", "end date must be after start date")
	}

	today := truncateToDay(g.now())
	earliestStart := today.AddDate(0, 0, int(product.PreparationDays))
	if truncateToDay(start).Before(earliestStart) {
		return domain.NewValidationError(domain.ErrKindBadPeriod, "start_date",
			fmt.Sprintf("rental cannot start before %s", earliestStart.Format("2006-01-02")))
	}

	days := domain.DaysBetween(start, end)
	if days < product.MinRentalDays {
		return domain.NewValidationError(domain.ErrKindBadPeriod, "end_date",
			fmt.Sprintf("rental must be at least %d day(s)", product.MinRentalDays))
	}
	if product.MaxRentalDays != nil && days > *product.MaxRentalDays {
		return domain.NewValidationError(domain.ErrKindBadPeriod, "end_date",
			fmt.Sprintf("rental must not exceed %d day(s)", *product.MaxRentalDays))
	}
	return nil
}

// ValidateQuantity checks the requested quantity against the per-order cap
// and the product's stock capacity when one is set.
func (g *ValidationGate) ValidateQuantity(product *domain.RentalProduct, quantity int32) error {
	if quantity < 1 {
		return domain.NewValidationError(domain.ErrKindBadQuantity, "quantity", "quantity must be at least 1")
	}
	if quantity > g.maxQuantityPerOrder {
		return domain.NewValidationError(domain.ErrKindBadQuantity, "quantity",
			fmt.Sprintf("quantity must not exceed %d per order", g.maxQuantityPerOrder))
	}
	if product.StockCapacity != nil && quantity > *product.StockCapacity {
		return domain.NewValidationError(domain.ErrKindBadQuantity, "quantity",
			fmt.Sprintf("quantity exceeds the product's stock capacity of %d", *product.StockCapacity))
	}
	return nil
}

// ValidateCustomer checks eligibility: blocked customers are always rejected,
// unverified ones when verification is required, and anyone at the committed
// order cap.
func (g *ValidationGate) ValidateCustomer(customer *domain.Customer, committedOrders int32) error {
	if customer.Blocked {
		return domain.NewValidationError(domain.ErrKindCustomerIneligible, "customer_id", "customer account is blocked")
	}
	if g.requireVerified && !customer.Verified {
		return domain.NewValidationError(domain.ErrKindCustomerIneligible, "customer_id", "customer account is not verified")
	}
	if committedOrders >= g.maxActiveOrders {
		return domain.NewValidationError(domain.ErrKindCustomerIneligible, "customer_id",
			fmt.Sprintf("customer already has %d open order(s), limit is %d", committedOrders, g.maxActiveOrders))
	}
	return nil
}

// ValidateOrderRequest runs every pre-ledger check in order and stops at the
// first failure.
func (g *ValidationGate) ValidateOrderRequest(customer *domain.Customer, product *domain.RentalProduct, quantity int32, start, end time.Time, committedOrders int32) error {
	if !product.Enabled {
		return domain.NewValidationError(domain.ErrKindMissingField, "product_id", "product is not available for rental")
	}
	if err := g.ValidateCustomer(customer, committedOrders); err != nil {
		return err
	}
	if err := g.ValidateQuantity(product, quantity); err != nil {
		return err
	}
	return g.ValidatePeriod(product, start, end)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusReserved  OrderStatus = "RESERVED"
	OrderStatusActive    OrderStatus = "ACTIVE"
	OrderStatusReturned  OrderStatus = "RETURNED"
	OrderStatusOverdue   OrderStatus = "OVERDUE"
	OrderStatusDamaged   OrderStatus = "DAMAGED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// CommittedStatuses are the statuses that still tie up stock for the
// order's window and therefore count against availability.
var CommittedStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusReserved,
	OrderStatusActive,
	OrderStatusOverdue,
}

// IsTerminal reports whether no further transition can leave the status.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusReturned || s == OrderStatusCancelled || s == OrderStatusDamaged
}

// RentalOrder is an order for qty units of a product over a date range.
// Orders are never hard-deleted; cancellation and completion are terminal
// statuses, not row removal.
type RentalOrder struct {
	ID               int32       `json:"id"`
	OrderNumber      string      `json:"order_number"`
	CustomerID       int32       `json:"customer_id"`
	ProductID        int32       `json:"product_id"`
	Quantity         int32       `json:"quantity"`
	StartDate        time.Time   `json:"start_date"`
	EndDate          time.Time   `json:"end_date"`
	ActualReturnDate *time.Time  `json:"actual_return_date,omitempty"`
	Status           OrderStatus `json:"status"`

	// Fee snapshot — computed at creation, adjusted only by lifecycle
	// transitions. TotalAmount is always recomputed from the parts.
	RentalFee           decimal.Decimal `json:"rental_fee"`
	DepositFee          decimal.Decimal `json:"deposit_fee"`
	InsuranceFee        decimal.Decimal `json:"insurance_fee"`
	TaxAmount           decimal.Decimal `json:"tax_amount"`
	OverdueFee          decimal.Decimal `json:"overdue_fee"`
	ExtensionFee        decimal.Decimal `json:"extension_fee"`
	EarlyReturnDiscount decimal.Decimal `json:"early_return_discount"`
	DamageFee           decimal.Decimal `json:"damage_fee"`
	CleaningFee         decimal.Decimal `json:"cleaning_fee"`
	TotalAmount         decimal.Decimal `json:"total_amount"`

	// StockReserved records whether the order currently holds units in the
	// inventory ledger's reserved/rented pools. Orders whose window starts
	// beyond the reservation horizon are committed through this row alone
	// until the stock is secured.
	StockReserved bool `json:"stock_reserved"`

	CancelReason    string    `json:"cancel_reason,omitempty"`
	ReturnCondition string    `json:"return_condition,omitempty"`
	CreatedOn       time.Time `json:"created_on"`
	UpdatedOn       time.Time `json:"updated_on"`
}

// RentalDays is the billed length of the rental window.
func (o *RentalOrder) RentalDays() int32 {
	return DaysBetween(o.StartDate, o.EndDate)
}

// OverdueDays is the number of whole days the given return date exceeds the
// committed end date, zero when on time.
func (o *RentalOrder) OverdueDays(returnDate time.Time) int32 {
	d := DaysBetween(o.EndDate, returnDate)
	if d < 0 {
		return 0
	}
	return d
}

// SavedDays is the number of whole days an early return saves, zero when on
// time or late.
func (o *RentalOrder) SavedDays(returnDate time.Time) int32 {
	d := DaysBetween(o.ReturnDateOrEnd(returnDate), o.EndDate)
	if d < 0 {
		return 0
	}
	return d
}

func (o *RentalOrder) ReturnDateOrEnd(returnDate time.Time) time.Time {
	if returnDate.IsZero() {
		return o.EndDate
	}
	return returnDate
}

// RecomputeTotal re-derives the order total from its parts. The total is
// never adjusted incrementally, so it cannot drift from the fee fields.
func (o *RentalOrder) RecomputeTotal() {
	total := o.RentalFee.
		Add(o.DepositFee).
		Add(o.InsuranceFee).
		Add(o.TaxAmount).
		Add(o.OverdueFee).
		Add(o.ExtensionFee).
		Add(o.DamageFee).
		Add(o.CleaningFee).
		Sub(o.EarlyReturnDiscount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	o.TotalAmount = total
}

// DaysBetween returns the whole days from a to b, negative when b precedes
// a. Both values are treated as calendar dates in their own locations.
func DaysBetween(a, b time.Time) int32 {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int32(b.Sub(a).Hours() / 24)
}

// Overlaps reports whether the order's window overlaps [start, end], both
// bounds inclusive.
func (o *RentalOrder) Overlaps(start, end time.Time) bool {
	return !o.StartDate.After(end) && !o.EndDate.Before(start)
}

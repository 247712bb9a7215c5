package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCategory groups business errors into the four families callers
// discriminate on. Errors are tagged values, not type hierarchies.
type ErrorCategory string

const (
	ErrorCategoryValidation ErrorCategory = "VALIDATION"
	ErrorCategoryInventory  ErrorCategory = "INVENTORY"
	ErrorCategoryState      ErrorCategory = "STATE"
	ErrorCategoryPayment    ErrorCategory = "PAYMENT"
)

// ErrorKind identifies the specific failure within a category.
type ErrorKind string

const (
	// Validation kinds (user-correctable, no state mutated)
	ErrKindBadPeriod          ErrorKind = "BAD_PERIOD"
	ErrKindBadQuantity        ErrorKind = "BAD_QUANTITY"
	ErrKindMissingField       ErrorKind = "MISSING_FIELD"
	ErrKindCustomerIneligible ErrorKind = "CUSTOMER_INELIGIBLE"

	// Inventory kinds (business failures, operation aborted whole)
	ErrKindOutOfStock        ErrorKind = "OUT_OF_STOCK"
	ErrKindInsufficientStock ErrorKind = "INSUFFICIENT_STOCK"
	ErrKindPeriodConflict    ErrorKind = "PERIOD_CONFLICT"
	ErrKindReservationFailed ErrorKind = "RESERVATION_FAILED"
	ErrKindOvercommit        ErrorKind = "OVERCOMMIT"
	ErrKindStockCalculation  ErrorKind = "STOCK_CALCULATION"

	// State kind (invalid lifecycle transition)
	ErrKindInvalidTransition ErrorKind = "INVALID_TRANSITION"

	// Payment kinds (external gateway outcomes recorded by callers)
	ErrKindPaymentTimeout ErrorKind = "PAYMENT_TIMEOUT"
	ErrKindGatewayError   ErrorKind = "GATEWAY_ERROR"
	ErrKindCardExpired    ErrorKind = "CARD_EXPIRED"
	ErrKindCardInvalid    ErrorKind = "CARD_INVALID"
	ErrKindFraudSuspected ErrorKind = "FRAUD_SUSPECTED"
	ErrKindChargeback     ErrorKind = "CHARGEBACK"
)

// Error is the single business-error value for the engine. The zero fields
// that do not apply to a kind are simply left empty.
type Error struct {
	Category ErrorCategory
	Kind     ErrorKind
	Message  string

	// Validation payload
	Field string

	// Inventory payload
	ProductID   int32
	Requested   int32
	Available   int32
	WindowStart time.Time
	WindowEnd   time.Time

	// State payload
	CurrentStatus   OrderStatus
	AllowedStatuses []OrderStatus
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s/%s (%s): %s", e.Category, e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s/%s: %s", e.Category, e.Kind, e.Message)
}

// Retryable reports whether the caller may retry the same request without
// changing it. Only transient payment outcomes qualify.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case ErrKindPaymentTimeout, ErrKindGatewayError, ErrKindCardExpired, ErrKindCardInvalid:
		return true
	}
	return false
}

// Recoverable reports whether a corrected or adjusted request can succeed
// (different window, quantity, or fixed input). Critical integrity errors
// and fraud outcomes are not recoverable by the caller.
func (e *Error) Recoverable() bool {
	switch e.Kind {
	case ErrKindOvercommit, ErrKindStockCalculation, ErrKindFraudSuspected, ErrKindChargeback:
		return false
	}
	return true
}

// RequiresAdminNotification reports whether the error indicates a
// data-integrity or fraud condition that must reach a human immediately.
func (e *Error) RequiresAdminNotification() bool {
	switch e.Kind {
	case ErrKindOvercommit, ErrKindStockCalculation, ErrKindFraudSuspected, ErrKindChargeback:
		return true
	}
	return false
}

// CustomerDisplayable reports whether the message may be surfaced to the
// customer. Fraud and chargeback details never are.
func (e *Error) CustomerDisplayable() bool {
	return e.Kind != ErrKindFraudSuspected && e.Kind != ErrKindChargeback
}

func NewValidationError(kind ErrorKind, field, message string) *Error {
	return &Error{Category: ErrorCategoryValidation, Kind: kind, Field: field, Message: message}
}

func NewInsufficientStockError(productID, requested, available int32) *Error {
	return &Error{
		Category:  ErrorCategoryInventory,
		Kind:      ErrKindInsufficientStock,
		ProductID: productID,
		Requested: requested,
		Available: available,
		Message:   fmt.Sprintf("product %d has %d unit(s) available, %d requested", productID, available, requested),
	}
}

func NewPeriodConflictError(productID, requested, available int32, start, end time.Time) *Error {
	return &Error{
		Category:    ErrorCategoryInventory,
		Kind:        ErrKindPeriodConflict,
		ProductID:   productID,
		Requested:   requested,
		Available:   available,
		WindowStart: start,
		WindowEnd:   end,
		Message: fmt.Sprintf("product %d has only %d unit(s) free between %s and %s, %d requested",
			productID, available, start.Format("2006-01-02"), end.Format("2006-01-02"), requested),
	}
}

func NewOvercommitError(productID, committed, stock int32) *Error {
	return &Error{
		Category:  ErrorCategoryInventory,
		Kind:      ErrKindOvercommit,
		ProductID: productID,
		Requested: committed,
		Available: stock,
		Message:   fmt.Sprintf("product %d committed %d unit(s) against %d in circulation", productID, committed, stock),
	}
}

func NewStateError(current OrderStatus, allowed []OrderStatus, operation string) *Error {
	return &Error{
		Category:        ErrorCategoryState,
		Kind:            ErrKindInvalidTransition,
		CurrentStatus:   current,
		AllowedStatuses: allowed,
		Message:         fmt.Sprintf("%s requires status in %v, order is %s", operation, allowed, current),
	}
}

// AsError unwraps err into a *Error when it carries one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsCategory reports whether err is a business error of the given category.
func IsCategory(err error, cat ErrorCategory) bool {
	if e, ok := AsError(err); ok {
		return e.Category == cat
	}
	return false
}

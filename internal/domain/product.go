package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RentalProduct describes a rentable product and its rate card. A rate of
// zero means the tier is absent; at most one tier is picked per calculation.
type RentalProduct struct {
	ID               int32           `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Enabled          bool            `json:"enabled"`
	DailyRate        decimal.Decimal `json:"daily_rate"`
	WeeklyRate       decimal.Decimal `json:"weekly_rate"`
	MonthlyRate      decimal.Decimal `json:"monthly_rate"`
	MinRentalDays    int32           `json:"min_rental_days"`
	MaxRentalDays    *int32          `json:"max_rental_days,omitempty"`
	DepositRequired  bool            `json:"deposit_required"`
	InsuranceFee     decimal.Decimal `json:"insurance_fee"` // per unit
	DiscountRate     decimal.Decimal `json:"discount_rate"`
	ExtensionRate    decimal.Decimal `json:"extension_rate"`     // zero means use the configured default
	EarlyReturnRate  decimal.Decimal `json:"early_return_rate"`  // zero means use the configured default
	ReplacementFee   decimal.Decimal `json:"replacement_fee"`    // flat fee charged on product replacement
	ReplacementValue decimal.Decimal `json:"replacement_value"`  // basis for the deposit
	PreparationDays  int32           `json:"preparation_days"`   // lead time before a rental can start
	StockCapacity    *int32          `json:"stock_capacity,omitempty"` // nil means unlimited
	CreatedOn        time.Time       `json:"created_on"`
	UpdatedOn        time.Time       `json:"updated_on"`
}

// Validate enforces the product invariants.
func (p *RentalProduct) Validate() error {
	if p.Name == "" {
		return NewValidationError(ErrKindMissingField, "name", "product name is required")
	}
	if p.MinRentalDays < 1 {
		return NewValidationError(ErrKindBadPeriod, "min_rental_days", "minimum rental days must be at least 1")
	}
	if p.MaxRentalDays != nil && *p.MaxRentalDays < p.MinRentalDays {
		return NewValidationError(ErrKindBadPeriod, "max_rental_days", "maximum rental days must not be below the minimum")
	}
	for field, rate := range map[string]decimal.Decimal{
		"daily_rate":        p.DailyRate,
		"weekly_rate":       p.WeeklyRate,
		"monthly_rate":      p.MonthlyRate,
		"insurance_fee":     p.InsuranceFee,
		"discount_rate":     p.DiscountRate,
		"extension_rate":    p.ExtensionRate,
		"early_return_rate": p.EarlyReturnRate,
		"replacement_fee":   p.ReplacementFee,
		"replacement_value": p.ReplacementValue,
	} {
		if rate.IsNegative() {
			return NewValidationError(ErrKindMissingField, field, "rates and fees must not be negative")
		}
	}
	return nil
}

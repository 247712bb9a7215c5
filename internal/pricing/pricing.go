// Package pricing computes all monetary amounts for rental orders. Every
// value is a fixed-point decimal rounded to two places at each intermediate
// step; binary floats are never used for money.
package pricing

import (
	"github.com/shopspring/decimal"

	"rentstack-backend/internal/config"
	"rentstack-backend/internal/domain"
)

const (
	daysPerWeek  = 7
	daysPerMonth = 30
)

// Settings is a resolved snapshot of the configurable rates. It is built
// once per engine call so a single transaction observes consistent values.
type Settings struct {
	TaxRate                 decimal.Decimal
	LongTermDiscountRate    decimal.Decimal
	LongTermDays            int32
	MediumTermDiscountRate  decimal.Decimal
	MediumTermDays          int32
	OverdueFeeRate          decimal.Decimal
	DepositRate             decimal.Decimal
	DefaultExtensionRate    decimal.Decimal
	EarlyReturnDiscountRate decimal.Decimal
}

// SettingsFromConfig resolves the configured rates into a decimal snapshot.
func SettingsFromConfig(cfg config.PricingConfig) Settings {
	return Settings{
		TaxRate:                 decimal.NewFromFloat(cfg.TaxRate),
		LongTermDiscountRate:    decimal.NewFromFloat(cfg.LongTermDiscountRate),
		LongTermDays:            int32(cfg.LongTermDays),
		MediumTermDiscountRate:  decimal.NewFromFloat(cfg.MediumTermDiscountRate),
		MediumTermDays:          int32(cfg.MediumTermDays),
		OverdueFeeRate:          decimal.NewFromFloat(cfg.OverdueFeeRate),
		DepositRate:             decimal.NewFromFloat(cfg.DepositRate),
		DefaultExtensionRate:    decimal.NewFromFloat(cfg.DefaultExtensionRate),
		EarlyReturnDiscountRate: decimal.NewFromFloat(cfg.EarlyReturnDiscountRate),
	}
}

// RateCard is the per-unit rate tiers of a product. A zero rate means the
// tier is absent.
type RateCard struct {
	Daily   decimal.Decimal
	Weekly  decimal.Decimal
	Monthly decimal.Decimal
}

// RateCardOf extracts the rate card from a product.
func RateCardOf(p *domain.RentalProduct) RateCard {
	return RateCard{Daily: p.DailyRate, Weekly: p.WeeklyRate, Monthly: p.MonthlyRate}
}

// Quote is the priced breakdown for a new order.
type Quote struct {
	Base      decimal.Decimal
	Discount  decimal.Decimal
	RentalFee decimal.Decimal // base minus discount
	Insurance decimal.Decimal
	Tax       decimal.Decimal
	Deposit   decimal.Decimal
	Total     decimal.Decimal
}

// BasePrice picks exactly one rate tier. A monthly rate covers stretches of
// 30 days or more, with remainder days billed at the daily rate (or free
// when no daily rate exists); the weekly tier works the same over weeks of
// seven days. Otherwise the daily rate applies to every day.
func BasePrice(rates RateCard, days int32) decimal.Decimal {
	d := decimal.NewFromInt(int64(days))
	switch {
	case rates.Monthly.IsPositive() && days >= daysPerMonth:
		months := days / daysPerMonth
		remainder := days % daysPerMonth
		base := rates.Monthly.Mul(decimal.NewFromInt(int64(months))).Round(2)
		if remainder > 0 && rates.Daily.IsPositive() {
			base = base.Add(rates.Daily.Mul(decimal.NewFromInt(int64(remainder))).Round(2))
		}
		return base.Round(2)
	case rates.Weekly.IsPositive() && days >= daysPerWeek:
		weeks := days / daysPerWeek
		remainder := days % daysPerWeek
		base := rates.Weekly.Mul(decimal.NewFromInt(int64(weeks))).Round(2)
		if remainder > 0 && rates.Daily.IsPositive() {
			base = base.Add(rates.Daily.Mul(decimal.NewFromInt(int64(remainder))).Round(2))
		}
		return base.Round(2)
	default:
		return rates.Daily.Mul(d).Round(2)
	}
}

// Discount applies the duration discount plus the product's own rate,
// additively, to the base price.
func Discount(base decimal.Decimal, days int32, productRate decimal.Decimal, s Settings) decimal.Decimal {
	rate := productRate
	if days >= s.LongTermDays {
		rate = rate.Add(s.LongTermDiscountRate)
	} else if days >= s.MediumTermDays {
		rate = rate.Add(s.MediumTermDiscountRate)
	}
	if !rate.IsPositive() {
		return decimal.Zero
	}
	return base.Mul(rate).Round(2)
}

// Insurance is the flat per-unit insurance fee times quantity, applied
// after the discount.
func Insurance(perUnit decimal.Decimal, quantity int32) decimal.Decimal {
	return perUnit.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// Tax applies the configured rate to the discounted base plus insurance.
func Tax(subtotal decimal.Decimal, s Settings) decimal.Decimal {
	return subtotal.Mul(s.TaxRate).Round(2)
}

// Deposit is the refundable hold charged at creation when the product
// requires one.
func Deposit(required bool, replacementValue decimal.Decimal, quantity int32, s Settings) decimal.Decimal {
	if !required {
		return decimal.Zero
	}
	perUnit := s.DepositRate.Mul(replacementValue).Round(2)
	return perUnit.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// ComputeQuote prices a new order for the given product, duration and
// quantity.
func ComputeQuote(p *domain.RentalProduct, days, quantity int32, s Settings) Quote {
	perUnit := BasePrice(RateCardOf(p), days)
	base := perUnit.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
	discount := Discount(base, days, p.DiscountRate, s)
	rentalFee := base.Sub(discount)
	insurance := Insurance(p.InsuranceFee, quantity)
	tax := Tax(rentalFee.Add(insurance), s)
	deposit := Deposit(p.DepositRequired, p.ReplacementValue, quantity, s)

	return Quote{
		Base:      base,
		Discount:  discount,
		RentalFee: rentalFee,
		Insurance: insurance,
		Tax:       tax,
		Deposit:   deposit,
		Total:     rentalFee.Add(insurance).Add(tax).Add(deposit).Round(2),
	}
}

// OverdueFee charges the configured rate of the whole order total for each
// day late. This is deliberately a multiplier of the order total, not of
// the daily rate.
func OverdueFee(orderTotal decimal.Decimal, overdueDays int32, s Settings) decimal.Decimal {
	if overdueDays <= 0 {
		return decimal.Zero
	}
	perDay := s.OverdueFeeRate.Mul(orderTotal).Round(2)
	return perDay.Mul(decimal.NewFromInt(int64(overdueDays))).Round(2)
}

// ExtensionFee prices extra days at the order's effective per-day cost
// scaled by the extension rate. A zero product override falls back to the
// configured default.
func ExtensionFee(originalTotal decimal.Decimal, originalDays, extensionDays int32, productRate decimal.Decimal, s Settings) decimal.Decimal {
	if extensionDays <= 0 || originalDays <= 0 {
		return decimal.Zero
	}
	rate := productRate
	if rate.IsZero() {
		rate = s.DefaultExtensionRate
	}
	perDay := originalTotal.Div(decimal.NewFromInt(int64(originalDays))).Round(2)
	fee := perDay.Mul(decimal.NewFromInt(int64(extensionDays))).Round(2)
	return fee.Mul(rate).Round(2)
}

// EarlyReturnDiscount credits saved days at the order's effective per-day
// cost scaled by the discount rate. A zero product override falls back to
// the configured default.
func EarlyReturnDiscount(originalTotal decimal.Decimal, originalDays, savedDays int32, productRate decimal.Decimal, s Settings) decimal.Decimal {
	if savedDays <= 0 || originalDays <= 0 {
		return decimal.Zero
	}
	rate := productRate
	if rate.IsZero() {
		rate = s.EarlyReturnDiscountRate
	}
	perDay := originalTotal.Div(decimal.NewFromInt(int64(originalDays))).Round(2)
	credit := perDay.Mul(decimal.NewFromInt(int64(savedDays))).Round(2)
	return credit.Mul(rate).Round(2)
}

// ReplacementFee prices swapping the remaining days of a rental onto a
// different product. Upgrades charge the daily-equivalent difference for
// the remaining days plus the flat replacement fee; downgrades are free.
func ReplacementFee(source, target RateCard, remainingDays int32, flatFee decimal.Decimal) decimal.Decimal {
	if remainingDays <= 0 {
		return decimal.Zero
	}
	diff := DailyEquivalent(target).Sub(DailyEquivalent(source))
	if !diff.IsPositive() {
		return decimal.Zero
	}
	return diff.Mul(decimal.NewFromInt(int64(remainingDays))).Round(2).Add(flatFee).Round(2)
}

// DailyEquivalent normalizes a rate card to a per-day rate: the daily rate
// when present, otherwise the weekly rate over seven days, otherwise the
// monthly rate over thirty.
func DailyEquivalent(rates RateCard) decimal.Decimal {
	switch {
	case rates.Daily.IsPositive():
		return rates.Daily
	case rates.Weekly.IsPositive():
		return rates.Weekly.Div(decimal.NewFromInt(daysPerWeek)).Round(2)
	case rates.Monthly.IsPositive():
		return rates.Monthly.Div(decimal.NewFromInt(daysPerMonth)).Round(2)
	default:
		return decimal.Zero
	}
}

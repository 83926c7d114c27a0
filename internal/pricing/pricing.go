// Package pricing computes item line totals and order totals. All functions
// are pure; callers persist the results.
package pricing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tablekeep/pos-api/internal/apperr"
	"github.com/tablekeep/pos-api/internal/enum"
	"github.com/tablekeep/pos-api/internal/money"
)

var (
	ErrInvalidQuantity   = apperr.New(apperr.Validation, "quantity must be at least 1")
	ErrNegativePrice     = apperr.New(apperr.Validation, "unit price must not be negative")
	ErrNegativeLine      = apperr.New(apperr.Validation, "modifier adjustments make the line total negative")
	ErrInvalidPercentage = apperr.New(apperr.Validation, "percentage must be greater than 0 and at most 100")
	ErrInvalidAmount     = apperr.New(apperr.Validation, "amount must be greater than 0")
	ErrInvalidDiscount   = apperr.New(apperr.Validation, "invalid discount_type")
	ErrInvalidTaxRate    = apperr.New(apperr.Validation, "tax rate must be between 0 and 1")
)

var hundred = decimal.NewFromInt(100)

// ModifierTotal sums modifier price adjustments without rounding.
func ModifierTotal(adjustments []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range adjustments {
		total = total.Add(a)
	}
	return total
}

// LineTotal returns (unitPrice + Σadjustments) × quantity.
func LineTotal(unitPrice decimal.Decimal, adjustments []decimal.Decimal, quantity int32) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Zero, ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, ErrNegativePrice
	}
	each := unitPrice.Add(ModifierTotal(adjustments))
	if each.IsNegative() {
		return decimal.Zero, ErrNegativeLine
	}
	return money.Round(each.Mul(decimal.NewFromInt32(quantity))), nil
}

// DiscountAmount converts a discount request into the fixed amount stored on
// the discount record. Percentages apply to the subtotal at the time the
// discount is added and are not rescaled later.
func DiscountAmount(discountType string, value, subtotal decimal.Decimal) (decimal.Decimal, error) {
	switch discountType {
	case enum.DiscountTypePercentage:
		if !value.IsPositive() || value.GreaterThan(hundred) {
			return decimal.Zero, ErrInvalidPercentage
		}
		return money.Round(subtotal.Mul(value).Div(hundred)), nil
	case enum.DiscountTypeFixed:
		if !value.IsPositive() {
			return decimal.Zero, ErrInvalidAmount
		}
		return money.Round(value), nil
	}
	return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidDiscount, discountType)
}

// Line is the pricing view of an order item.
type Line struct {
	Total decimal.Decimal
	Void  bool
}

// OrderInput is everything that contributes to an order's derived totals.
type OrderInput struct {
	Lines     []Line
	Discounts []decimal.Decimal
	Comps     []decimal.Decimal
	Tips      []decimal.Decimal
	TaxRate   decimal.Decimal
}

// Totals are the derived monetary fields of an order.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	CompAmount     decimal.Decimal
	TaxableAmount  decimal.Decimal
	TaxAmount      decimal.Decimal
	TipAmount      decimal.Decimal
	Total          decimal.Decimal
}

// OrderTotals recomputes an order's totals from scratch.
//
//	subtotal = Σ non-void line totals
//	taxable  = max(0, subtotal − discounts − comps)
//	tax      = round(taxable × rate)
//	total    = taxable + tax
//
// Tips are tracked separately and are not part of total.
func OrderTotals(in OrderInput) (Totals, error) {
	if in.TaxRate.IsNegative() || in.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return Totals{}, ErrInvalidTaxRate
	}

	var t Totals
	for _, l := range in.Lines {
		if l.Void {
			continue
		}
		t.Subtotal = t.Subtotal.Add(l.Total)
	}
	t.DiscountAmount = ModifierTotal(in.Discounts)
	t.CompAmount = ModifierTotal(in.Comps)
	t.TipAmount = ModifierTotal(in.Tips)

	t.TaxableAmount = t.Subtotal.Sub(t.DiscountAmount).Sub(t.CompAmount)
	if t.TaxableAmount.IsNegative() {
		t.TaxableAmount = decimal.Zero
	}
	t.TaxAmount = money.Round(t.TaxableAmount.Mul(in.TaxRate))
	t.Total = t.TaxableAmount.Add(t.TaxAmount)
	return t, nil
}

// Allocate splits amount into len(weights) shares proportional to weights.
// Shares are whole cents and always sum to amount; leftover cents go to the
// shares with the largest remainders, earlier shares first on ties. When all
// weights are zero the amount is split evenly.
func Allocate(amount decimal.Decimal, weights []decimal.Decimal) []decimal.Decimal {
	n := len(weights)
	if n == 0 {
		return nil
	}

	totalWeight := decimal.Zero
	for _, w := range weights {
		if w.IsPositive() {
			totalWeight = totalWeight.Add(w)
		}
	}
	if totalWeight.IsZero() {
		weights = make([]decimal.Decimal, n)
		for i := range weights {
			weights[i] = decimal.NewFromInt(1)
		}
		totalWeight = decimal.NewFromInt(int64(n))
	}

	cents := money.Round(amount).Shift(money.Places)
	shares := make([]decimal.Decimal, n)
	remainders := make([]decimal.Decimal, n)
	assigned := decimal.Zero
	for i, w := range weights {
		if !w.IsPositive() {
			w = decimal.Zero
		}
		exact := cents.Mul(w).Div(totalWeight)
		shares[i] = exact.Floor()
		remainders[i] = exact.Sub(shares[i])
		assigned = assigned.Add(shares[i])
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})
	leftover := cents.Sub(assigned).IntPart()
	for k := int64(0); k < leftover; k++ {
		i := order[k%int64(n)]
		shares[i] = shares[i].Add(decimal.NewFromInt(1))
	}

	for i := range shares {
		shares[i] = shares[i].Shift(-money.Places)
	}
	return shares
}

// Package split partitions an order into payable checks.
package split

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tablekeep/pos-api/internal/apperr"
	"github.com/tablekeep/pos-api/internal/money"
	"github.com/tablekeep/pos-api/internal/pricing"
)

var (
	ErrTooFewGuests  = apperr.New(apperr.Validation, "even split needs at least 2 guests")
	ErrTooFewSeats   = apperr.New(apperr.InvalidState, "order has fewer than 2 seats to split")
	ErrTooFewGroups  = apperr.New(apperr.Validation, "custom split needs at least 2 non-empty groups")
	ErrUnknownItem   = apperr.New(apperr.Validation, "item does not belong to this order")
	ErrDuplicateItem = apperr.New(apperr.Validation, "item is assigned to more than one group")
	ErrUnassigned    = apperr.New(apperr.Validation, "items are not assigned to a check")
)

// Item is the split view of an order item.
type Item struct {
	ID        uuid.UUID
	Seat      int32
	LineTotal decimal.Decimal
	Void      bool
}

// Group is a named set of items that becomes one check.
type Group struct {
	Name    string
	ItemIDs []uuid.UUID
}

// Check is a priced group.
type Check struct {
	Name        string
	ItemIDs     []uuid.UUID
	Subtotal    decimal.Decimal
	Adjustments decimal.Decimal
	TaxAmount   decimal.Decimal
	Total       decimal.Decimal
}

// Even returns n per-guest shares of total. Shares sum exactly to total;
// leftover cents go to the first guests.
func Even(total decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n < 2 {
		return nil, ErrTooFewGuests
	}
	weights := make([]decimal.Decimal, n)
	for i := range weights {
		weights[i] = decimal.NewFromInt(1)
	}
	return pricing.Allocate(total, weights), nil
}

// BySeat makes one group per seat that has a live item. Void items follow
// their seat when that seat has a check.
func BySeat(items []Item) ([]Group, error) {
	bySeat := map[int32][]uuid.UUID{}
	for _, it := range items {
		if !it.Void {
			bySeat[it.Seat] = append(bySeat[it.Seat], it.ID)
		}
	}
	if len(bySeat) < 2 {
		return nil, ErrTooFewSeats
	}
	for _, it := range items {
		if it.Void {
			if _, ok := bySeat[it.Seat]; ok {
				bySeat[it.Seat] = append(bySeat[it.Seat], it.ID)
			}
		}
	}

	seats := make([]int32, 0, len(bySeat))
	for s := range bySeat {
		seats = append(seats, s)
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i] < seats[j] })

	groups := make([]Group, 0, len(seats))
	for _, s := range seats {
		groups = append(groups, Group{Name: fmt.Sprintf("Seat %d", s), ItemIDs: bySeat[s]})
	}
	return groups, nil
}

// Custom validates caller-supplied groups. Every live item must be in
// exactly one group; void items may be left out.
func Custom(groups []Group, items []Item) ([]Group, error) {
	known := make(map[uuid.UUID]Item, len(items))
	for _, it := range items {
		known[it.ID] = it
	}

	assigned := make(map[uuid.UUID]bool, len(items))
	out := make([]Group, 0, len(groups))
	for i, g := range groups {
		if len(g.ItemIDs) == 0 {
			continue
		}
		for _, id := range g.ItemIDs {
			if _, ok := known[id]; !ok {
				return nil, fmt.Errorf("group %d: item %s: %w", i+1, id, ErrUnknownItem)
			}
			if assigned[id] {
				return nil, fmt.Errorf("group %d: item %s: %w", i+1, id, ErrDuplicateItem)
			}
			assigned[id] = true
		}
		name := g.Name
		if name == "" {
			name = fmt.Sprintf("Check %d", len(out)+1)
		}
		out = append(out, Group{Name: name, ItemIDs: g.ItemIDs})
	}
	if len(out) < 2 {
		return nil, ErrTooFewGroups
	}

	unassigned := 0
	for _, it := range items {
		if !it.Void && !assigned[it.ID] {
			unassigned++
		}
	}
	if unassigned > 0 {
		return nil, fmt.Errorf("%d %w", unassigned, ErrUnassigned)
	}
	return out, nil
}

// Price computes each group's check totals. Subtotals come from the group's
// live items. The order's discounts, comps and tax are shared out in
// proportion to those subtotals, so the checks always add up to the order.
func Price(groups []Group, items []Item, order pricing.Totals) []Check {
	lines := make(map[uuid.UUID]Item, len(items))
	for _, it := range items {
		lines[it.ID] = it
	}

	checks := make([]Check, len(groups))
	weights := make([]decimal.Decimal, len(groups))
	for i, g := range groups {
		sub := decimal.Zero
		for _, id := range g.ItemIDs {
			if it, ok := lines[id]; ok && !it.Void {
				sub = sub.Add(it.LineTotal)
			}
		}
		checks[i] = Check{Name: g.Name, ItemIDs: g.ItemIDs, Subtotal: money.Round(sub)}
		weights[i] = sub
	}

	taxable := pricing.Allocate(order.TaxableAmount, weights)
	tax := pricing.Allocate(order.TaxAmount, weights)
	for i := range checks {
		checks[i].Adjustments = checks[i].Subtotal.Sub(taxable[i])
		checks[i].TaxAmount = tax[i]
		checks[i].Total = taxable[i].Add(tax[i])
	}
	return checks
}

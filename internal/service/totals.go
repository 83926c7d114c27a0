package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tablekeep/pos-api/internal/database"
	"github.com/tablekeep/pos-api/internal/enum"
	"github.com/tablekeep/pos-api/internal/money"
	"github.com/tablekeep/pos-api/internal/pricing"
	"github.com/tablekeep/pos-api/internal/split"
)

// OrderResult is an order with everything attached to it.
type OrderResult struct {
	Order     database.Order
	Items     []OrderItemResult
	Checks    []database.Check
	Payments  []database.Payment
	Discounts []database.Discount
	Comps     []database.Comp
	Voids     []database.Void
}

// OrderItemResult is an item with its modifiers.
type OrderItemResult struct {
	Item      database.OrderItem
	Modifiers []database.OrderItemModifier
}

// Item finds an item of the order by id.
func (r *OrderResult) Item(id uuid.UUID) (OrderItemResult, bool) {
	for _, it := range r.Items {
		if it.Item.ID == id {
			return it, true
		}
	}
	return OrderItemResult{}, false
}

func loadResult(ctx context.Context, store OrderStore, order database.Order) (*OrderResult, error) {
	items, err := store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	mods, err := store.ListOrderItemModifiersByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list item modifiers: %w", err)
	}
	checks, err := store.ListChecksByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	payments, err := store.ListPaymentsByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	discounts, err := store.ListDiscountsByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list discounts: %w", err)
	}
	comps, err := store.ListCompsByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list comps: %w", err)
	}
	voids, err := store.ListVoidsByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list voids: %w", err)
	}

	byItem := make(map[uuid.UUID][]database.OrderItemModifier, len(items))
	for _, m := range mods {
		byItem[m.OrderItemID] = append(byItem[m.OrderItemID], m)
	}
	result := &OrderResult{
		Order:     order,
		Items:     make([]OrderItemResult, len(items)),
		Checks:    checks,
		Payments:  payments,
		Discounts: discounts,
		Comps:     comps,
		Voids:     voids,
	}
	for i, it := range items {
		m := byItem[it.ID]
		if m == nil {
			m = []database.OrderItemModifier{}
		}
		result.Items[i] = OrderItemResult{Item: it, Modifiers: m}
	}
	return result, nil
}

// recalculate recomputes the order's derived totals from its items and
// adjustment records, persists them, and reprices any checks. It always
// rebuilds from scratch rather than applying deltas.
func recalculate(ctx context.Context, store OrderStore, order database.Order) (database.Order, pricing.Totals, error) {
	items, err := store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return order, pricing.Totals{}, fmt.Errorf("list items: %w", err)
	}
	discounts, err := store.ListDiscountsByOrder(ctx, order.ID)
	if err != nil {
		return order, pricing.Totals{}, fmt.Errorf("list discounts: %w", err)
	}
	comps, err := store.ListCompsByOrder(ctx, order.ID)
	if err != nil {
		return order, pricing.Totals{}, fmt.Errorf("list comps: %w", err)
	}
	payments, err := store.ListPaymentsByOrder(ctx, order.ID)
	if err != nil {
		return order, pricing.Totals{}, fmt.Errorf("list payments: %w", err)
	}
	rate, err := store.GetLocationTaxRate(ctx, order.LocationID)
	if err != nil {
		return order, pricing.Totals{}, fmt.Errorf("get tax rate: %w", err)
	}

	in := pricing.OrderInput{TaxRate: money.FromNumeric(rate)}
	for _, it := range items {
		in.Lines = append(in.Lines, pricing.Line{
			Total: money.FromNumeric(it.LineTotal),
			Void:  it.Status == enum.ItemStatusVoid,
		})
	}
	for _, d := range discounts {
		in.Discounts = append(in.Discounts, money.FromNumeric(d.Amount))
	}
	for _, c := range comps {
		in.Comps = append(in.Comps, money.FromNumeric(c.Amount))
	}
	for _, p := range payments {
		in.Tips = append(in.Tips, money.FromNumeric(p.TipAmount))
	}

	totals, err := pricing.OrderTotals(in)
	if err != nil {
		return order, pricing.Totals{}, fmt.Errorf("order %d: %w", order.OrderNumber, err)
	}

	updated, err := store.UpdateOrderTotals(ctx, database.UpdateOrderTotalsParams{
		ID:             order.ID,
		Subtotal:       money.ToNumeric(totals.Subtotal),
		DiscountAmount: money.ToNumeric(totals.DiscountAmount),
		CompAmount:     money.ToNumeric(totals.CompAmount),
		TaxAmount:      money.ToNumeric(totals.TaxAmount),
		TipAmount:      money.ToNumeric(totals.TipAmount),
		Total:          money.ToNumeric(totals.Total),
	})
	if err != nil {
		return order, pricing.Totals{}, fmt.Errorf("update order totals: %w", err)
	}

	if err := repriceChecks(ctx, store, order.ID, items, payments, totals); err != nil {
		return order, pricing.Totals{}, err
	}
	return updated, totals, nil
}

// repriceChecks recomputes every check of a split order from the items
// assigned to it and re-evaluates its paid flag.
func repriceChecks(ctx context.Context, store OrderStore, orderID uuid.UUID, items []database.OrderItem, payments []database.Payment, totals pricing.Totals) error {
	checks, err := store.ListChecksByOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("list checks: %w", err)
	}
	if len(checks) == 0 {
		return nil
	}

	index := make(map[uuid.UUID]int, len(checks))
	groups := make([]split.Group, len(checks))
	for i, c := range checks {
		index[c.ID] = i
		groups[i] = split.Group{Name: c.Name}
	}
	for _, it := range items {
		if !it.CheckID.Valid {
			continue
		}
		if i, ok := index[uuid.UUID(it.CheckID.Bytes)]; ok {
			groups[i].ItemIDs = append(groups[i].ItemIDs, it.ID)
		}
	}

	paid := checkPayments(payments)
	priced := split.Price(groups, splitItems(items), totals)
	for i, c := range checks {
		tendered, hasPayment := paid[c.ID]
		// An empty or fully voided check is not paid until someone pays it.
		isPaid := (hasPayment || priced[i].Total.IsPositive()) && tendered.GreaterThanOrEqual(priced[i].Total)
		_, err := store.UpdateCheckTotals(ctx, database.UpdateCheckTotalsParams{
			ID:        c.ID,
			Subtotal:  money.ToNumeric(priced[i].Subtotal),
			TaxAmount: money.ToNumeric(priced[i].TaxAmount),
			Total:     money.ToNumeric(priced[i].Total),
			IsPaid:    isPaid,
		})
		if err != nil {
			return fmt.Errorf("update check %q: %w", c.Name, err)
		}
	}
	return nil
}

// checkPayments sums amount+tip per check.
func checkPayments(payments []database.Payment) map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal)
	for _, p := range payments {
		if !p.CheckID.Valid {
			continue
		}
		id := uuid.UUID(p.CheckID.Bytes)
		out[id] = out[id].Add(money.FromNumeric(p.Amount)).Add(money.FromNumeric(p.TipAmount))
	}
	return out
}

func splitItems(items []database.OrderItem) []split.Item {
	out := make([]split.Item, len(items))
	for i, it := range items {
		out[i] = split.Item{
			ID:        it.ID,
			Seat:      it.SeatNumber,
			LineTotal: money.FromNumeric(it.LineTotal),
			Void:      it.Status == enum.ItemStatusVoid,
		}
	}
	return out
}

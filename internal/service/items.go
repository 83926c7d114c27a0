package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/tablekeep/pos-api/internal/database"
	"github.com/tablekeep/pos-api/internal/lifecycle"
	"github.com/tablekeep/pos-api/internal/menu"
	"github.com/tablekeep/pos-api/internal/money"
	"github.com/tablekeep/pos-api/internal/notify"
	"github.com/tablekeep/pos-api/internal/pricing"
)

type AddItemRequest struct {
	OrderRef
	Item ItemInput
}

// UpdateItemRequest edits a pending or held item. Nil fields are unchanged.
type UpdateItemRequest struct {
	OrderRef
	ItemID              uuid.UUID
	Quantity            *int32
	SeatNumber          *int32
	CourseNumber        *int32
	ModifierIDs         *[]uuid.UUID
	SpecialInstructions *string
}

type ItemRef struct {
	OrderRef
	ItemID uuid.UUID
}

// preparedItem is a validated, priced menu selection ready to insert.
type preparedItem struct {
	input     ItemInput
	menuItem  menu.Item
	modifiers []menu.Modifier
	lineTotal decimal.Decimal
}

// prepareItem validates a selection against the catalog and prices it.
func (s *OrderService) prepareItem(ctx context.Context, locationID uuid.UUID, in ItemInput) (preparedItem, error) {
	if in.SeatNumber == 0 {
		in.SeatNumber = 1
	}
	if in.CourseNumber == 0 {
		in.CourseNumber = 1
	}
	if in.SeatNumber < 1 {
		return preparedItem{}, ErrInvalidSeat
	}
	if in.CourseNumber < 1 {
		return preparedItem{}, ErrInvalidCourse
	}
	if in.Quantity < 1 {
		return preparedItem{}, pricing.ErrInvalidQuantity
	}

	item, err := s.catalog.GetItem(ctx, locationID, in.MenuItemID)
	if err != nil {
		return preparedItem{}, err
	}
	draft := menu.Draft{Item: item, Selected: in.ModifierIDs}
	if err := draft.Validate(); err != nil {
		return preparedItem{}, err
	}
	mods := draft.Modifiers()

	line, err := pricing.LineTotal(item.Price, adjustments(mods), in.Quantity)
	if err != nil {
		return preparedItem{}, err
	}
	return preparedItem{input: in, menuItem: item, modifiers: mods, lineTotal: line}, nil
}

func adjustments(mods []menu.Modifier) []decimal.Decimal {
	out := make([]decimal.Decimal, len(mods))
	for i, m := range mods {
		out[i] = m.PriceAdjustment
	}
	return out
}

func insertItem(ctx context.Context, store OrderStore, orderID uuid.UUID, p preparedItem, checkID pgtype.UUID) (database.OrderItem, error) {
	item, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
		OrderID:             orderID,
		MenuItemID:          p.menuItem.ID,
		CheckID:             checkID,
		Name:                p.menuItem.Name,
		Quantity:            p.input.Quantity,
		SeatNumber:          p.input.SeatNumber,
		CourseNumber:        p.input.CourseNumber,
		UnitPrice:           money.ToNumeric(p.menuItem.Price),
		ModifierTotal:       money.ToNumeric(pricing.ModifierTotal(adjustments(p.modifiers))),
		LineTotal:           money.ToNumeric(p.lineTotal),
		SpecialInstructions: optText(p.input.SpecialInstructions),
		StationID:           optUUID(p.menuItem.StationID),
	})
	if err != nil {
		return item, fmt.Errorf("create order item: %w", err)
	}
	if err := insertModifiers(ctx, store, item.ID, p.modifiers); err != nil {
		return item, err
	}
	return item, nil
}

func insertModifiers(ctx context.Context, store OrderStore, itemID uuid.UUID, mods []menu.Modifier) error {
	for _, m := range mods {
		_, err := store.CreateOrderItemModifier(ctx, database.CreateOrderItemModifierParams{
			OrderItemID:     itemID,
			ModifierID:      m.ID,
			Name:            m.Name,
			PriceAdjustment: money.ToNumeric(m.PriceAdjustment),
		})
		if err != nil {
			return fmt.Errorf("create order item modifier: %w", err)
		}
	}
	return nil
}

// AddItem adds a menu item to an open order as PENDING. On a split order the
// item must name an unpaid check.
func (s *OrderService) AddItem(ctx context.Context, req AddItemRequest) (*OrderResult, error) {
	p, err := s.prepareItem(ctx, req.LocationID, req.Item)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, req.OrderRef, notify.ItemAdded, func(store OrderStore, order database.Order) (database.Order, []uuid.UUID, error) {
		checkID, err := itemCheck(ctx, store, order.ID, req.Item.CheckID)
		if err != nil {
			return order, nil, err
		}
		item, err := insertItem(ctx, store, order.ID, p, checkID)
		if err != nil {
			return order, nil, err
		}
		return order, []uuid.UUID{item.ID}, nil
	})
}

// itemCheck resolves the check a new item goes on.
func itemCheck(ctx context.Context, store OrderStore, orderID uuid.UUID, requested *uuid.UUID) (pgtype.UUID, error) {
	checks, err := store.ListChecksByOrder(ctx, orderID)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("list checks: %w", err)
	}
	if requested == nil {
		if len(checks) > 0 {
			return pgtype.UUID{}, ErrCheckRequired
		}
		return pgtype.UUID{}, nil
	}
	for _, c := range checks {
		if c.ID == *requested {
			if c.IsPaid {
				return pgtype.UUID{}, fmt.Errorf("check %q: %w", c.Name, ErrCheckPaid)
			}
			return optUUID(requested), nil
		}
	}
	return pgtype.UUID{}, fmt.Errorf("check %s: %w", *requested, ErrCheckNotFound)
}

// UpdateItem changes quantity, seat, course, modifiers or instructions of an
// item that has not been fired. The unit price recorded at add time is kept.
func (s *OrderService) UpdateItem(ctx context.Context, req UpdateItemRequest) (*OrderResult, error) {
	if req.Quantity != nil && *req.Quantity < 1 {
		return nil, pricing.ErrInvalidQuantity
	}
	if req.SeatNumber != nil && *req.SeatNumber < 1 {
		return nil, ErrInvalidSeat
	}
	if req.CourseNumber != nil && *req.CourseNumber < 1 {
		return nil, ErrInvalidCourse
	}

	return s.mutate(ctx, req.OrderRef, notify.ItemUpdated, func(store OrderStore, order database.Order) (database.Order, []uuid.UUID, error) {
		item, err := getItem(ctx, store, order.ID, req.ItemID)
		if err != nil {
			return order, nil, err
		}
		if !lifecycle.IsEditable(item) {
			return order, nil, fmt.Errorf("item %q is %s: %w", item.Name, item.Status, ErrItemNotEditable)
		}

		params := database.UpdateOrderItemDetailsParams{
			ID:                  item.ID,
			Quantity:            item.Quantity,
			SeatNumber:          item.SeatNumber,
			CourseNumber:        item.CourseNumber,
			ModifierTotal:       item.ModifierTotal,
			SpecialInstructions: item.SpecialInstructions,
		}
		if req.Quantity != nil {
			params.Quantity = *req.Quantity
		}
		if req.SeatNumber != nil {
			params.SeatNumber = *req.SeatNumber
		}
		if req.CourseNumber != nil {
			params.CourseNumber = *req.CourseNumber
		}
		if req.SpecialInstructions != nil {
			params.SpecialInstructions = optText(*req.SpecialInstructions)
		}

		var mods []menu.Modifier
		if req.ModifierIDs != nil {
			menuItem, err := s.catalog.GetItem(ctx, order.LocationID, item.MenuItemID)
			if err != nil {
				return order, nil, err
			}
			// Already on the order; availability only gates new items.
			menuItem.Is86d = false
			draft := menu.Draft{Item: menuItem, Selected: *req.ModifierIDs}
			if err := draft.Validate(); err != nil {
				return order, nil, err
			}
			mods = draft.Modifiers()
			params.ModifierTotal = money.ToNumeric(pricing.ModifierTotal(adjustments(mods)))
		}

		line, err := pricing.LineTotal(
			money.FromNumeric(item.UnitPrice),
			[]decimal.Decimal{money.FromNumeric(params.ModifierTotal)},
			params.Quantity,
		)
		if err != nil {
			return order, nil, err
		}
		params.LineTotal = money.ToNumeric(line)

		if _, err := store.UpdateOrderItemDetails(ctx, params); err != nil {
			return order, nil, fmt.Errorf("update order item: %w", err)
		}
		if req.ModifierIDs != nil {
			if err := store.DeleteOrderItemModifiers(ctx, item.ID); err != nil {
				return order, nil, fmt.Errorf("delete order item modifiers: %w", err)
			}
			if err := insertModifiers(ctx, store, item.ID, mods); err != nil {
				return order, nil, err
			}
		}
		return order, []uuid.UUID{item.ID}, nil
	})
}

// RemoveItem deletes an item that never reached the kitchen. Anything else
// must be voided.
func (s *OrderService) RemoveItem(ctx context.Context, req ItemRef) (*OrderResult, error) {
	return s.mutate(ctx, req.OrderRef, notify.ItemRemoved, func(store OrderStore, order database.Order) (database.Order, []uuid.UUID, error) {
		item, err := getItem(ctx, store, order.ID, req.ItemID)
		if err != nil {
			return order, nil, err
		}
		if !lifecycle.IsRemovable(item) {
			return order, nil, fmt.Errorf("item %q is %s: %w", item.Name, item.Status, lifecycle.ErrNotRemovable)
		}
		n, err := store.DeletePendingOrderItem(ctx, item.ID)
		if err != nil {
			return order, nil, fmt.Errorf("delete order item: %w", err)
		}
		if n == 0 {
			return order, nil, fmt.Errorf("item %q: %w", item.Name, lifecycle.ErrNotRemovable)
		}
		order, err = deriveStatus(ctx, store, order, lifecycle.DeriveOrderStatus)
		return order, []uuid.UUID{item.ID}, err
	})
}

func getItem(ctx context.Context, store OrderStore, orderID, itemID uuid.UUID) (database.OrderItem, error) {
	item, err := store.GetOrderItem(ctx, database.GetOrderItemParams{ID: itemID, OrderID: orderID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item, fmt.Errorf("item %s: %w", itemID, ErrItemNotFound)
		}
		return item, fmt.Errorf("get order item: %w", err)
	}
	return item, nil
}

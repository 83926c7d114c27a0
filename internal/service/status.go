package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tablekeep/pos-api/internal/database"
	"github.com/tablekeep/pos-api/internal/lifecycle"
	"github.com/tablekeep/pos-api/internal/money"
	"github.com/tablekeep/pos-api/internal/notify"
	"go.uber.org/zap"
)

// FireRequest sends items to the kitchen. With no ItemIDs every eligible
// item is fired; Course narrows the selection to one course.
type FireRequest struct {
	OrderRef
	ItemIDs []uuid.UUID
	Course  *int32
}

type HoldRequest struct {
	OrderRef
	ItemIDs []uuid.UUID
}

type VoidItemRequest struct {
	ItemRef
	Reason     string
	ApprovedBy uuid.UUID
}

// --- Item transitions ---

// applyAction moves item through action and persists the new status and
// timestamps.
func applyAction(ctx context.Context, store OrderStore, item database.OrderItem, action lifecycle.Action, now time.Time) (database.OrderItem, error) {
	next, err := lifecycle.Transition(item, action, now)
	if err != nil {
		return item, fmt.Errorf("item %q: %w", item.Name, err)
	}
	updated, err := store.UpdateOrderItemStatus(ctx, database.UpdateOrderItemStatusParams{
		ID:        next.ID,
		Status:    next.Status,
		SentAt:    next.SentAt,
		FiredAt:   next.FiredAt,
		StartedAt: next.StartedAt,
		ReadyAt:   next.ReadyAt,
		ServedAt:  next.ServedAt,
		VoidedAt:  next.VoidedAt,
	})
	if err != nil {
		return item, fmt.Errorf("update item status: %w", err)
	}
	return updated, nil
}

// deriveStatus reloads the order's items and persists the status rule
// returns for them.
func deriveStatus(ctx context.Context, store OrderStore, order database.Order, rule func(current string, items []database.OrderItem) string) (database.Order, error) {
	items, err := store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return order, fmt.Errorf("list items: %w", err)
	}
	return setStatus(ctx, store, order, rule(order.Status, items))
}

func afterFire(current string, items []database.OrderItem) string {
	return lifecycle.DeriveOrderStatus(lifecycle.AfterFire(current), items)
}

func afterRecall(current string, _ []database.OrderItem) string {
	return lifecycle.AfterRecall(current)
}

// FireItems fires every PENDING or HELD item selected by the request.
// Items already fired are skipped. Firing nothing is not an error and
// publishes no event.
func (s *OrderService) FireItems(ctx context.Context, req FireRequest) (*OrderResult, error) {
	var fired []uuid.UUID
	result, err := s.mutate(ctx, req.OrderRef, "", func(store OrderStore, order database.Order) (database.Order, []uuid.UUID, error) {
		items, err := store.ListOrderItemsByOrder(ctx, order.ID)
		if err != nil {
			return order, nil, fmt.Errorf("list items: %w", err)
		}
		selected, err := selectItems(items, req.ItemIDs)
		if err != nil {
			return order, nil, err
		}

		now := s.now()
		for _, it := range selected {
			if !lifecycle.IsFireable(it) {
				continue
			}
			if req.Course != nil && it.CourseNumber != *req.Course {
				continue
			}
			if _, err := applyAction(ctx, store, it, lifecycle.Fire, now); err != nil {
				return order, nil, err
			}
			fired = append(fired, it.ID)
		}
		if len(fired) == 0 {
			return order, nil, nil
		}
		order, err = deriveStatus(ctx, store, order, afterFire)
		return order, fired, err
	})
	if err != nil {
		return nil, err
	}
	if len(fired) > 0 {
		s.log.Info("items fired",
			zap.String("order_id", result.Order.ID.String()),
			zap.Int("items", len(fired)))
		s.notifier.Notify(notify.OrderFired, req.LocationID, newOrderEvent(result.Order, fired...), req.ActorID)
	}
	return result, nil
}

// selectItems returns the items named by ids, or all items when ids is empty.
func selectItems(items []database.OrderItem, ids []uuid.UUID) ([]database.OrderItem, error) {
	if len(ids) == 0 {
		return items, nil
	}
	byID := make(map[uuid.UUID]database.OrderItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	out := make([]database.OrderItem, 0, len(ids))
	for _, id := range ids {
		it, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("item %s: %w", id, ErrItemNotFound)
		}
		out = append(out, it)
	}
	return out, nil
}

// HoldItems keeps PENDING items off the kitchen queue until fired.
func (s *OrderService) HoldItems(ctx context.Context, req HoldRequest) (*OrderResult, error) {
	if len(req.ItemIDs) == 0 {
		return nil, ErrNoItems
	}
	return s.mutate(ctx, req.OrderRef, notify.ItemsHeld, func(store OrderStore, order database.Order) (database.Order, []uuid.UUID, error) {
		items, err := store.ListOrderItemsByOrder(ctx, order.ID)
		if err != nil {
			return order, nil, fmt.Errorf("list items: %w", err)
		}
		selected, err := selectItems(items, req.ItemIDs)
		if err != nil {
			return order, nil, err
		}
		now := s.now()
		for _, it := range selected {
			if _, err := applyAction(ctx, store, it, lifecycle.Hold, now); err != nil {
				return order, nil, err
			}
		}
		order, err = deriveStatus(ctx, store, order, lifecycle.DeriveOrderStatus)
		return order, req.ItemIDs, err
	})
}

// transitionItem applies one action to one item and persists the order
// status given by rule.
func (s *OrderService) transitionItem(ctx context.Context, ref ItemRef, action lifecycle.Action, eventType string, rule func(string, []database.OrderItem) string) (*OrderResult, error) {
	return s.mutate(ctx, ref.OrderRef, eventType, func(store OrderStore, order database.Order) (database.Order, []uuid.UUID, error) {
		item, err := getItem(ctx, store, order.ID, ref.ItemID)
		if err != nil {
			return order, nil, err
		}
		if _, err := applyAction(ctx, store, item, action, s.now()); err != nil {
			return order, nil, err
		}
		order, err = deriveStatus(ctx, store, order, rule)
		return order, []uuid.UUID{item.ID}, err
	})
}

// StartItem marks a FIRED item as being worked on.
func (s *OrderService) StartItem(ctx context.Context, ref ItemRef) (*OrderResult, error) {
	return s.transitionItem(ctx, ref, lifecycle.Start, notify.ItemStarted, lifecycle.DeriveOrderStatus)
}

// BumpItem marks a single item READY.
func (s *OrderService) BumpItem(ctx context.Context, ref ItemRef) (*OrderResult, error) {
	return s.transitionItem(ctx, ref, lifecycle.Bump, notify.TicketBumped, lifecycle.AfterBump)
}

// ServeItem marks a READY item as delivered to the guest.
func (s *OrderService) ServeItem(ctx context.Context, ref ItemRef) (*OrderResult, error) {
	return s.transitionItem(ctx, ref, lifecycle.Serve, notify.ItemServed, lifecycle.DeriveOrderStatus)
}

// VoidItem voids an item that has not been served and records the void
// for audit. The item stays on the order but no longer counts toward totals.
func (s *OrderService) VoidItem(ctx context.Context, req VoidItemRequest) (*OrderResult, error) {
	if req.Reason == "" {
		return nil, ErrReasonRequired
	}
	if req.ApprovedBy == uuid.Nil {
		return nil, ErrApproverRequired
	}
	return s.mutate(ctx, req.OrderRef, notify.ItemVoided, func(store OrderStore, order database.Order) (database.Order, []uuid.UUID, error) {
		item, err := getItem(ctx, store, order.ID, req.ItemID)
		if err != nil {
			return order, nil, err
		}
		if err := s.voidItem(ctx, store, order, item, req.Reason, req.ApprovedBy, req.ActorID); err != nil {
			return order, nil, err
		}
		order, err = deriveStatus(ctx, store, order, lifecycle.DeriveOrderStatus)
		return order, []uuid.UUID{item.ID}, err
	})
}

func (s *OrderService) voidItem(ctx context.Context, store OrderStore, order database.Order, item database.OrderItem, reason string, approvedBy, actorID uuid.UUID) error {
	if _, err := applyAction(ctx, store, item, lifecycle.Void, s.now()); err != nil {
		return err
	}
	_, err := store.CreateVoid(ctx, database.CreateVoidParams{
		OrderID:     order.ID,
		OrderItemID: item.ID,
		Amount:      money.ToNumeric(money.FromNumeric(item.LineTotal)),
		Reason:      reason,
		ApprovedBy:  approvedBy,
		CreatedBy:   actorID,
	})
	if err != nil {
		return fmt.Errorf("create void: %w", err)
	}
	s.log.Info("item voided",
		zap.String("order_id", order.ID.String()),
		zap.String("item_id", item.ID.String()),
		zap.String("reason", reason))
	return nil
}

// --- Tickets ---

// BumpTicket marks every FIRED or IN_PROGRESS item of the order READY in one
// transaction, optionally only those routed to one station.
func (s *OrderService) BumpTicket(ctx context.Context, ref OrderRef, stationID *uuid.UUID) (*OrderResult, error) {
	return s.mutate(ctx, ref, notify.TicketBumped, func(store OrderStore, order database.Order) (database.Order, []uuid.UUID, error) {
		items, err := store.ListOrderItemsByOrder(ctx, order.ID)
		if err != nil {
			return order, nil, fmt.Errorf("list items: %w", err)
		}
		now := s.now()
		var bumped []uuid.UUID
		for _, it := range items {
			if !lifecycle.IsOutstanding(it) {
				continue
			}
			if stationID != nil && (!it.StationID.Valid || uuid.UUID(it.StationID.Bytes) != *stationID) {
				continue
			}
			if _, err := applyAction(ctx, store, it, lifecycle.Bump, now); err != nil {
				return order, nil, err
			}
			bumped = append(bumped, it.ID)
		}
		if len(bumped) == 0 {
			return order, nil, fmt.Errorf("order %d: %w", order.OrderNumber, ErrNothingToBump)
		}
		order, err = deriveStatus(ctx, store, order, lifecycle.AfterBump)
		return order, bumped, err
	})
}

// RecallTicket sends every READY item of the order back to IN_PROGRESS.
func (s *OrderService) RecallTicket(ctx context.Context, ref OrderRef) (*OrderResult, error) {
	return s.mutate(ctx, ref, notify.TicketRecalled, func(store OrderStore, order database.Order) (database.Order, []uuid.UUID, error) {
		items, err := store.ListOrderItemsByOrder(ctx, order.ID)
		if err != nil {
			return order, nil, fmt.Errorf("list items: %w", err)
		}
		now := s.now()
		var recalled []uuid.UUID
		for _, it := range items {
			if !lifecycle.CanApply(it.Status, lifecycle.Recall) {
				continue
			}
			if _, err := applyAction(ctx, store, it, lifecycle.Recall, now); err != nil {
				return order, nil, err
			}
			recalled = append(recalled, it.ID)
		}
		if len(recalled) == 0 {
			return order, nil, fmt.Errorf("order %d: %w", order.OrderNumber, ErrNothingToRecall)
		}
		order, err = deriveStatus(ctx, store, order, afterRecall)
		return order, recalled, err
	})
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/tablekeep/pos-api/internal/apperr"
	"github.com/tablekeep/pos-api/internal/database"
	"github.com/tablekeep/pos-api/internal/enum"
	"github.com/tablekeep/pos-api/internal/lifecycle"
	"github.com/tablekeep/pos-api/internal/money"
	"github.com/tablekeep/pos-api/internal/notify"
	"github.com/tablekeep/pos-api/internal/pricing"
	"github.com/tablekeep/pos-api/internal/split"
	"go.uber.org/zap"
)

var (
	ErrInvalidSplit = apperr.New(apperr.Validation, "strategy must be even, seat or custom")
	ErrCompVoided   = apperr.New(apperr.InvalidState, "cannot comp a voided item")
)

type CompRequest struct {
	OrderRef
	// ItemID ties the comp to one item. When set and Amount is zero the
	// item's line total is comped.
	ItemID     *uuid.UUID
	Amount     decimal.Decimal
	Reason     string
	ApprovedBy uuid.UUID
}

type DiscountRequest struct {
	OrderRef
	DiscountType string
	Value        decimal.Decimal
	Reason       string
	ApprovedBy   uuid.UUID
}

type PaymentRequest struct {
	OrderRef
	CheckID   *uuid.UUID
	Method    string
	Amount    decimal.Decimal
	TipAmount decimal.Decimal
	CardBrand string
	CardLast4 string
}

type SplitRequest struct {
	OrderRef
	Strategy string
	Guests   int
	Groups   []split.Group
}

// SplitResult is the order after a split. Shares is set for even splits
// only, which create no checks.
type SplitResult struct {
	Order  *OrderResult
	Shares []decimal.Decimal
}

// --- Adjustments ---

// AddComp records a complimentary deduction against the order.
func (s *OrderService) AddComp(ctx context.Context, req CompRequest) (*OrderResult, error) {
	if req.Reason == "" {
		return nil, ErrReasonRequired
	}
	if req.ApprovedBy == uuid.Nil {
		return nil, ErrApproverRequired
	}
	if req.ItemID == nil && !req.Amount.IsPositive() {
		return nil, pricing.ErrInvalidAmount
	}
	if req.Amount.IsNegative() {
		return nil, pricing.ErrInvalidAmount
	}

	return s.mutate(ctx, req.OrderRef, notify.OrderUpdated, func(store OrderStore, order database.Order) (database.Order, []uuid.UUID, error) {
		amount := req.Amount
		var itemIDs []uuid.UUID
		if req.ItemID != nil {
			item, err := getItem(ctx, store, order.ID, *req.ItemID)
			if err != nil {
				return order, nil, err
			}
			if item.Status == enum.ItemStatusVoid {
				return order, nil, fmt.Errorf("item %q: %w", item.Name, ErrCompVoided)
			}
			if amount.IsZero() {
				amount = money.FromNumeric(item.LineTotal)
			}
			itemIDs = append(itemIDs, item.ID)
		}

		_, err := store.CreateComp(ctx, database.CreateCompParams{
			OrderID:     order.ID,
			OrderItemID: optUUID(req.ItemID),
			Amount:      money.ToNumeric(amount),
			Reason:      req.Reason,
			ApprovedBy:  req.ApprovedBy,
			CreatedBy:   req.ActorID,
		})
		if err != nil {
			return order, nil, fmt.Errorf("create comp: %w", err)
		}
		s.log.Info("comp added",
			zap.String("order_id", order.ID.String()),
			zap.String("amount", money.Round(amount).StringFixed(money.Places)))
		return order, itemIDs, nil
	})
}

// AddDiscount records a discount. Percentages are converted to a fixed
// amount against the subtotal at this moment and never rescaled.
func (s *OrderService) AddDiscount(ctx context.Context, req DiscountRequest) (*OrderResult, error) {
	if req.Reason == "" {
		return nil, ErrReasonRequired
	}
	if req.ApprovedBy == uuid.Nil {
		return nil, ErrApproverRequired
	}
	return s.mutate(ctx, req.OrderRef, notify.OrderUpdated, func(store OrderStore, order database.Order) (database.Order, []uuid.UUID, error) {
		amount, err := pricing.DiscountAmount(req.DiscountType, req.Value, money.FromNumeric(order.Subtotal))
		if err != nil {
			return order, nil, err
		}
		_, err = store.CreateDiscount(ctx, database.CreateDiscountParams{
			OrderID:      order.ID,
			DiscountType: req.DiscountType,
			Value:        money.ToNumeric(req.Value),
			Amount:       money.ToNumeric(amount),
			Reason:       req.Reason,
			ApprovedBy:   req.ApprovedBy,
			CreatedBy:    req.ActorID,
		})
		if err != nil {
			return order, nil, fmt.Errorf("create discount: %w", err)
		}
		return order, nil, nil
	})
}

// --- Payments ---

// AddPayment records a tender against the order or one of its checks.
// The amount may not exceed what is still owed; tips are on top.
func (s *OrderService) AddPayment(ctx context.Context, req PaymentRequest) (*OrderResult, error) {
	if !enum.IsPaymentMethod(req.Method) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPayment, req.Method)
	}
	if !req.Amount.IsPositive() {
		return nil, pricing.ErrInvalidAmount
	}
	if req.TipAmount.IsNegative() {
		return nil, ErrInvalidTip
	}
	amount := money.Round(req.Amount)
	tip := money.Round(req.TipAmount)

	return s.mutate(ctx, req.OrderRef, notify.PaymentAdded, func(store OrderStore, order database.Order) (database.Order, []uuid.UUID, error) {
		payments, err := store.ListPaymentsByOrder(ctx, order.ID)
		if err != nil {
			return order, nil, fmt.Errorf("list payments: %w", err)
		}

		orderPaid, checkPaid := decimal.Zero, decimal.Zero
		for _, p := range payments {
			amt := money.FromNumeric(p.Amount)
			orderPaid = orderPaid.Add(amt)
			if req.CheckID != nil && p.CheckID.Valid && uuid.UUID(p.CheckID.Bytes) == *req.CheckID {
				checkPaid = checkPaid.Add(amt)
			}
		}

		// Order and check payments draw on the same balance.
		remaining := money.FromNumeric(order.Total).Sub(orderPaid)
		var checkID pgtype.UUID
		if req.CheckID != nil {
			check, err := findCheck(ctx, store, order.ID, *req.CheckID)
			if err != nil {
				return order, nil, err
			}
			if check.IsPaid {
				return order, nil, fmt.Errorf("check %q: %w", check.Name, ErrCheckPaid)
			}
			remaining = decimal.Min(remaining, money.FromNumeric(check.Total).Sub(checkPaid))
			checkID = optUUID(req.CheckID)
		}
		if !remaining.IsPositive() {
			return order, nil, ErrAlreadyPaid
		}
		if amount.GreaterThan(remaining) {
			return order, nil, fmt.Errorf("remaining %s: %w", remaining.StringFixed(money.Places), ErrOverpayment)
		}

		_, err = store.CreatePayment(ctx, database.CreatePaymentParams{
			OrderID:     order.ID,
			CheckID:     checkID,
			Method:      req.Method,
			Amount:      money.ToNumeric(amount),
			TipAmount:   money.ToNumeric(tip),
			CardBrand:   optText(req.CardBrand),
			CardLast4:   optText(req.CardLast4),
			ProcessedBy: req.ActorID,
		})
		if err != nil {
			return order, nil, fmt.Errorf("create payment: %w", err)
		}
		s.log.Info("payment added",
			zap.String("order_id", order.ID.String()),
			zap.String("method", req.Method),
			zap.String("amount", amount.StringFixed(money.Places)),
			zap.String("tip", tip.StringFixed(money.Places)))
		return order, nil, nil
	})
}

func findCheck(ctx context.Context, store OrderStore, orderID, checkID uuid.UUID) (database.Check, error) {
	checks, err := store.ListChecksByOrder(ctx, orderID)
	if err != nil {
		return database.Check{}, fmt.Errorf("list checks: %w", err)
	}
	for _, c := range checks {
		if c.ID == checkID {
			return c, nil
		}
	}
	return database.Check{}, fmt.Errorf("check %s: %w", checkID, ErrCheckNotFound)
}

// --- Checks ---

// SplitCheck splits the bill. Even splits only compute per-guest shares.
// Seat and custom splits replace any existing checks and assign every live
// item to exactly one new check.
func (s *OrderService) SplitCheck(ctx context.Context, req SplitRequest) (*SplitResult, error) {
	switch req.Strategy {
	case enum.SplitEven:
		return s.splitEven(ctx, req)
	case enum.SplitBySeat, enum.SplitCustom:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSplit, req.Strategy)
	}

	result, err := s.mutate(ctx, req.OrderRef, notify.OrderSplit, func(store OrderStore, order database.Order) (database.Order, []uuid.UUID, error) {
		if err := ensureNoCheckPayments(ctx, store, order); err != nil {
			return order, nil, err
		}
		items, err := store.ListOrderItemsByOrder(ctx, order.ID)
		if err != nil {
			return order, nil, fmt.Errorf("list items: %w", err)
		}

		var groups []split.Group
		if req.Strategy == enum.SplitBySeat {
			groups, err = split.BySeat(splitItems(items))
		} else {
			groups, err = split.Custom(req.Groups, splitItems(items))
		}
		if err != nil {
			return order, nil, err
		}

		if err := clearChecks(ctx, store, order.ID); err != nil {
			return order, nil, err
		}
		zero := money.ToNumeric(decimal.Zero)
		for _, g := range groups {
			check, err := store.CreateCheck(ctx, database.CreateCheckParams{
				OrderID:   order.ID,
				Name:      g.Name,
				Subtotal:  zero,
				TaxAmount: zero,
				Total:     zero,
			})
			if err != nil {
				return order, nil, fmt.Errorf("create check %q: %w", g.Name, err)
			}
			for _, id := range g.ItemIDs {
				err := store.UpdateOrderItemCheck(ctx, database.UpdateOrderItemCheckParams{
					ID:      id,
					CheckID: pgtype.UUID{Bytes: check.ID, Valid: true},
				})
				if err != nil {
					return order, nil, fmt.Errorf("assign item %s: %w", id, err)
				}
			}
		}
		s.log.Info("order split",
			zap.String("order_id", order.ID.String()),
			zap.String("strategy", req.Strategy),
			zap.Int("checks", len(groups)))
		return order, nil, nil
	})
	if err != nil {
		return nil, err
	}
	return &SplitResult{Order: result}, nil
}

func (s *OrderService) splitEven(ctx context.Context, req SplitRequest) (*SplitResult, error) {
	result, err := s.GetOrder(ctx, req.LocationID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if lifecycle.IsTerminal(result.Order.Status) {
		return nil, fmt.Errorf("order %d is %s: %w", result.Order.OrderNumber, result.Order.Status, lifecycle.ErrOrderFinished)
	}
	shares, err := split.Even(money.FromNumeric(result.Order.Total), req.Guests)
	if err != nil {
		return nil, err
	}
	return &SplitResult{Order: result, Shares: shares}, nil
}

// MergeChecks removes every check so the order is paid as one bill again.
func (s *OrderService) MergeChecks(ctx context.Context, ref OrderRef) (*OrderResult, error) {
	return s.mutate(ctx, ref, notify.OrderUpdated, func(store OrderStore, order database.Order) (database.Order, []uuid.UUID, error) {
		if err := ensureNoCheckPayments(ctx, store, order); err != nil {
			return order, nil, err
		}
		return order, nil, clearChecks(ctx, store, order.ID)
	})
}

func ensureNoCheckPayments(ctx context.Context, store OrderStore, order database.Order) error {
	payments, err := store.ListPaymentsByOrder(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("list payments: %w", err)
	}
	for _, p := range payments {
		if p.CheckID.Valid {
			return fmt.Errorf("order %d: %w", order.OrderNumber, ErrHasPayments)
		}
	}
	return nil
}

func clearChecks(ctx context.Context, store OrderStore, orderID uuid.UUID) error {
	if err := store.ClearOrderItemChecks(ctx, orderID); err != nil {
		return fmt.Errorf("clear item checks: %w", err)
	}
	if err := store.DeleteChecksByOrder(ctx, orderID); err != nil {
		return fmt.Errorf("delete checks: %w", err)
	}
	return nil
}

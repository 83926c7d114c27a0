package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/tablekeep/pos-api/internal/apperr"
	"github.com/tablekeep/pos-api/internal/database"
	"github.com/tablekeep/pos-api/internal/enum"
	"github.com/tablekeep/pos-api/internal/lifecycle"
	"github.com/tablekeep/pos-api/internal/menu"
	"github.com/tablekeep/pos-api/internal/money"
	"github.com/tablekeep/pos-api/internal/notify"
	"go.uber.org/zap"
)

const (
	maxOrderNumberRetries = 3
	orderNumberConstraint = "orders_location_id_business_date_order_number_key"
	defaultListLimit      = 50
	maxListLimit          = 200
)

// Errors returned by the order service.
var (
	ErrOrderNotFound     = apperr.New(apperr.NotFound, "order not found")
	ErrItemNotFound      = apperr.New(apperr.NotFound, "order item not found")
	ErrCheckNotFound     = apperr.New(apperr.NotFound, "check not found on this order")
	ErrInvalidOrderType  = apperr.New(apperr.Validation, "invalid order_type")
	ErrTableRequired     = apperr.New(apperr.Validation, "table_number is required for DINE_IN orders")
	ErrInvalidGuestCount = apperr.New(apperr.Validation, "guest_count must be at least 1")
	ErrInvalidSeat       = apperr.New(apperr.Validation, "seat_number must be at least 1")
	ErrInvalidCourse     = apperr.New(apperr.Validation, "course_number must be at least 1")
	ErrReasonRequired    = apperr.New(apperr.Validation, "reason is required")
	ErrApproverRequired  = apperr.New(apperr.Validation, "approved_by is required")
	ErrNoItems           = apperr.New(apperr.Validation, "item_ids are required")
	ErrInvalidPayment    = apperr.New(apperr.Validation, "invalid payment method")
	ErrInvalidTip        = apperr.New(apperr.Validation, "tip_amount must not be negative")
	ErrCheckRequired     = apperr.New(apperr.Validation, "order is split, check_id is required")
	ErrItemNotEditable   = apperr.New(apperr.InvalidState, "only pending or held items can be edited")
	ErrNotFullyPaid      = apperr.New(apperr.InvalidState, "order is not fully paid")
	ErrAlreadyPaid       = apperr.New(apperr.InvalidState, "already fully paid")
	ErrOverpayment       = apperr.New(apperr.InvalidState, "payment exceeds remaining balance")
	ErrCheckPaid         = apperr.New(apperr.InvalidState, "check is already paid")
	ErrHasPayments       = apperr.New(apperr.InvalidState, "order has payments")
	ErrNothingToBump     = apperr.New(apperr.InvalidState, "no fired items to bump")
	ErrNothingToRecall   = apperr.New(apperr.InvalidState, "no ready items to recall")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods the order service reads and writes.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetNextOrderNumber(ctx context.Context, arg database.GetNextOrderNumberParams) (int32, error)
	GetLocationTaxRate(ctx context.Context, id uuid.UUID) (pgtype.Numeric, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	GetOrderForUpdate(ctx context.Context, arg database.GetOrderForUpdateParams) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	UpdateOrderTable(ctx context.Context, arg database.UpdateOrderTableParams) (database.Order, error)
	UpdateOrderTotals(ctx context.Context, arg database.UpdateOrderTotalsParams) (database.Order, error)
	CloseOrder(ctx context.Context, arg database.CloseOrderParams) (database.Order, error)

	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	CreateOrderItemModifier(ctx context.Context, arg database.CreateOrderItemModifierParams) (database.OrderItemModifier, error)
	DeleteOrderItemModifiers(ctx context.Context, orderItemID uuid.UUID) error
	DeletePendingOrderItem(ctx context.Context, id uuid.UUID) (int64, error)
	GetOrderItem(ctx context.Context, arg database.GetOrderItemParams) (database.OrderItem, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	ListOrderItemModifiersByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItemModifier, error)
	UpdateOrderItemDetails(ctx context.Context, arg database.UpdateOrderItemDetailsParams) (database.OrderItem, error)
	UpdateOrderItemStatus(ctx context.Context, arg database.UpdateOrderItemStatusParams) (database.OrderItem, error)
	UpdateOrderItemCheck(ctx context.Context, arg database.UpdateOrderItemCheckParams) error
	ClearOrderItemChecks(ctx context.Context, orderID uuid.UUID) error

	CreateCheck(ctx context.Context, arg database.CreateCheckParams) (database.Check, error)
	DeleteChecksByOrder(ctx context.Context, orderID uuid.UUID) error
	ListChecksByOrder(ctx context.Context, orderID uuid.UUID) ([]database.Check, error)
	UpdateCheckTotals(ctx context.Context, arg database.UpdateCheckTotalsParams) (database.Check, error)
	CreatePayment(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error)
	ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.Payment, error)

	CreateComp(ctx context.Context, arg database.CreateCompParams) (database.Comp, error)
	CreateDiscount(ctx context.Context, arg database.CreateDiscountParams) (database.Discount, error)
	CreateVoid(ctx context.Context, arg database.CreateVoidParams) (database.Void, error)
	ListCompsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.Comp, error)
	ListDiscountsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.Discount, error)
	ListVoidsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.Void, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
// This allows the service to create store instances from transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// OrderService owns every mutation of orders, items, checks and payments.
// Each operation runs in one transaction holding the order's row lock and
// notifies only after commit.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
	catalog  menu.Catalog
	notifier notify.Notifier
	log      *zap.Logger
	now      func() time.Time
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore, catalog menu.Catalog, notifier notify.Notifier, log *zap.Logger) *OrderService {
	return &OrderService{
		pool:     pool,
		newStore: newStore,
		catalog:  catalog,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// --- Requests ---

// CreateOrderRequest opens a new order. Items are optional.
type CreateOrderRequest struct {
	LocationID  uuid.UUID
	ServerID    uuid.UUID
	OrderType   string
	TableNumber string
	GuestCount  int32
	Items       []ItemInput
}

// ItemInput describes one menu item selection.
type ItemInput struct {
	MenuItemID          uuid.UUID
	Quantity            int32
	SeatNumber          int32
	CourseNumber        int32
	ModifierIDs         []uuid.UUID
	SpecialInstructions string
	CheckID             *uuid.UUID
}

// OrderRef identifies an order and the staff member acting on it.
type OrderRef struct {
	LocationID uuid.UUID
	OrderID    uuid.UUID
	ActorID    uuid.UUID
}

type TransferTableRequest struct {
	OrderRef
	TableNumber string
	GuestCount  int32
}

type VoidOrderRequest struct {
	OrderRef
	Reason     string
	ApprovedBy uuid.UUID
}

type ListOrdersRequest struct {
	LocationID   uuid.UUID
	Statuses     []string
	BusinessDate *time.Time
	Limit        int32
	Offset       int32
}

// orderEvent is the payload for order notifications.
type orderEvent struct {
	OrderID     uuid.UUID   `json:"order_id"`
	OrderNumber int32       `json:"order_number"`
	Status      string      `json:"status"`
	TableNumber *string     `json:"table_number,omitempty"`
	Total       string      `json:"total"`
	ItemIDs     []uuid.UUID `json:"item_ids,omitempty"`
}

func newOrderEvent(o database.Order, itemIDs ...uuid.UUID) orderEvent {
	e := orderEvent{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		Total:       money.String(o.Total),
		ItemIDs:     itemIDs,
	}
	if o.TableNumber.Valid {
		table := o.TableNumber.String
		e.TableNumber = &table
	}
	return e
}

// --- Orders ---

// CreateOrder validates and creates an order with its initial items.
// Retries up to maxOrderNumberRetries times on order_number unique constraint
// violations (race condition where concurrent transactions get the same MAX).
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error) {
	// --- Validate ---
	if !enum.IsOrderType(req.OrderType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrderType, req.OrderType)
	}
	if req.OrderType == enum.OrderTypeDineIn && req.TableNumber == "" {
		return nil, ErrTableRequired
	}
	if req.GuestCount == 0 {
		req.GuestCount = 1
	}
	if req.GuestCount < 1 {
		return nil, ErrInvalidGuestCount
	}

	// --- Price items against the catalog ---
	items := make([]preparedItem, len(req.Items))
	for i, in := range req.Items {
		if in.CheckID != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrCheckNotFound)
		}
		p, err := s.prepareItem(ctx, req.LocationID, in)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, err)
		}
		items[i] = p
	}

	// Retry loop: handles order_number unique constraint race condition.
	var lastErr error
	for attempt := 0; attempt < maxOrderNumberRetries; attempt++ {
		result, err := s.createOrderTx(ctx, req, items)
		if err == nil {
			s.log.Info("order created",
				zap.String("order_id", result.Order.ID.String()),
				zap.Int32("order_number", result.Order.OrderNumber),
				zap.Int("items", len(result.Items)))
			s.notifier.Notify(notify.OrderCreated, req.LocationID, newOrderEvent(result.Order), req.ServerID)
			return result, nil
		}
		if isOrderNumberConflict(err) {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

// isOrderNumberConflict checks if the error is a unique constraint violation
// on the per-day order number (pgconn error code 23505).
func isOrderNumberConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == orderNumberConstraint
	}
	return false
}

// createOrderTx executes the full order creation in a single transaction.
func (s *OrderService) createOrderTx(ctx context.Context, req CreateOrderRequest, items []preparedItem) (*OrderResult, error) {
	var result *OrderResult
	err := s.inTx(ctx, func(store OrderStore) error {
		now := s.now()
		businessDate := pgtype.Date{
			Time:  time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
			Valid: true,
		}

		// --- Generate order number ---
		nextNum, err := store.GetNextOrderNumber(ctx, database.GetNextOrderNumberParams{
			LocationID:   req.LocationID,
			BusinessDate: businessDate,
		})
		if err != nil {
			return fmt.Errorf("get next order number: %w", err)
		}

		// --- Insert order ---
		order, err := store.CreateOrder(ctx, database.CreateOrderParams{
			LocationID:   req.LocationID,
			OrderNumber:  nextNum,
			BusinessDate: businessDate,
			OrderType:    req.OrderType,
			TableNumber:  optText(req.TableNumber),
			GuestCount:   req.GuestCount,
			ServerID:     req.ServerID,
			OpenedAt:     now,
		})
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		// --- Insert items ---
		for i, p := range items {
			if _, err := insertItem(ctx, store, order.ID, p, pgtype.UUID{}); err != nil {
				return fmt.Errorf("item[%d]: %w", i, err)
			}
		}

		order, _, err = recalculate(ctx, store, order)
		if err != nil {
			return err
		}
		result, err = loadResult(ctx, store, order)
		return err
	})
	return result, err
}

// GetOrder returns an order with everything attached to it.
func (s *OrderService) GetOrder(ctx context.Context, locationID, orderID uuid.UUID) (*OrderResult, error) {
	var result *OrderResult
	err := s.inTx(ctx, func(store OrderStore) error {
		order, err := store.GetOrder(ctx, database.GetOrderParams{ID: orderID, LocationID: locationID})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
			}
			return fmt.Errorf("get order: %w", err)
		}
		result, err = loadResult(ctx, store, order)
		return err
	})
	return result, err
}

// ListOrders returns a page of a location's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, req ListOrdersRequest) ([]database.Order, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}
	statuses := req.Statuses
	if statuses == nil {
		statuses = []string{}
	}
	params := database.ListOrdersParams{
		LocationID: req.LocationID,
		Statuses:   statuses,
		RowLimit:   limit,
		RowOffset:  offset,
	}
	if req.BusinessDate != nil {
		params.BusinessDate = pgtype.Date{Time: *req.BusinessDate, Valid: true}
	}

	var orders []database.Order
	err := s.inTx(ctx, func(store OrderStore) error {
		var err error
		orders, err = store.ListOrders(ctx, params)
		if err != nil {
			return fmt.Errorf("list orders: %w", err)
		}
		return nil
	})
	return orders, err
}

// TransferTable moves an order to another table. Status is unaffected.
func (s *OrderService) TransferTable(ctx context.Context, req TransferTableRequest) (*OrderResult, error) {
	return s.mutate(ctx, req.OrderRef, notify.OrderUpdated, func(store OrderStore, order database.Order) (database.Order, []uuid.UUID, error) {
		if order.OrderType == enum.OrderTypeDineIn && req.TableNumber == "" {
			return order, nil, ErrTableRequired
		}
		guests := req.GuestCount
		if guests == 0 {
			guests = order.GuestCount
		}
		if guests < 1 {
			return order, nil, ErrInvalidGuestCount
		}
		updated, err := store.UpdateOrderTable(ctx, database.UpdateOrderTableParams{
			ID:          order.ID,
			TableNumber: optText(req.TableNumber),
			GuestCount:  guests,
		})
		if err != nil {
			return order, nil, fmt.Errorf("update table: %w", err)
		}
		return updated, nil, nil
	})
}

// CloseOrder closes a fully paid order. Tips count toward the amount paid.
func (s *OrderService) CloseOrder(ctx context.Context, ref OrderRef) (*OrderResult, error) {
	return s.mutate(ctx, ref, notify.OrderClosed, func(store OrderStore, order database.Order) (database.Order, []uuid.UUID, error) {
		// Totals are current: every mutation recalculates before commit.
		payments, err := store.ListPaymentsByOrder(ctx, order.ID)
		if err != nil {
			return order, nil, fmt.Errorf("list payments: %w", err)
		}
		paid := decimal.Zero
		for _, p := range payments {
			paid = paid.Add(money.FromNumeric(p.Amount)).Add(money.FromNumeric(p.TipAmount))
		}
		total := money.FromNumeric(order.Total)
		if paid.LessThan(total) {
			return order, nil, fmt.Errorf("order %d: paid %s of %s: %w",
				order.OrderNumber, paid.StringFixed(money.Places), total.StringFixed(money.Places), ErrNotFullyPaid)
		}

		closed, err := store.CloseOrder(ctx, database.CloseOrderParams{
			ID:       order.ID,
			Status:   enum.OrderStatusClosed,
			ClosedAt: ts(s.now()),
		})
		if err != nil {
			return order, nil, fmt.Errorf("close order: %w", err)
		}
		s.log.Info("order closed",
			zap.String("order_id", order.ID.String()),
			zap.String("total", total.StringFixed(money.Places)))
		return closed, nil, nil
	})
}

// VoidOrder cancels a whole order. Every item that can still be voided is
// voided with an audit record. Orders with payments cannot be voided.
func (s *OrderService) VoidOrder(ctx context.Context, req VoidOrderRequest) (*OrderResult, error) {
	if req.Reason == "" {
		return nil, ErrReasonRequired
	}
	if req.ApprovedBy == uuid.Nil {
		return nil, ErrApproverRequired
	}
	return s.mutate(ctx, req.OrderRef, notify.OrderVoided, func(store OrderStore, order database.Order) (database.Order, []uuid.UUID, error) {
		payments, err := store.ListPaymentsByOrder(ctx, order.ID)
		if err != nil {
			return order, nil, fmt.Errorf("list payments: %w", err)
		}
		if len(payments) > 0 {
			return order, nil, fmt.Errorf("order %d: %w", order.OrderNumber, ErrHasPayments)
		}

		items, err := store.ListOrderItemsByOrder(ctx, order.ID)
		if err != nil {
			return order, nil, fmt.Errorf("list items: %w", err)
		}
		var voided []uuid.UUID
		for _, it := range items {
			if !lifecycle.CanApply(it.Status, lifecycle.Void) {
				continue
			}
			if err := s.voidItem(ctx, store, order, it, req.Reason, req.ApprovedBy, req.ActorID); err != nil {
				return order, nil, err
			}
			voided = append(voided, it.ID)
		}

		updated, err := store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{ID: order.ID, Status: enum.OrderStatusVoid})
		if err != nil {
			return order, nil, fmt.Errorf("update order status: %w", err)
		}
		s.log.Info("order voided",
			zap.String("order_id", order.ID.String()),
			zap.Int("items_voided", len(voided)),
			zap.String("approved_by", req.ApprovedBy.String()))
		return updated, voided, nil
	})
}

// --- Transaction helpers ---

// inTx runs fn in a transaction and commits when it returns nil.
func (s *OrderService) inTx(ctx context.Context, fn func(store OrderStore) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(s.newStore(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// mutation changes a locked, non-terminal order. It returns the order as
// it stands after the change and the item ids worth reporting.
type mutation func(store OrderStore, order database.Order) (database.Order, []uuid.UUID, error)

// mutate locks the order, applies fn, recomputes totals and loads the
// result. The event is published after commit unless eventType is empty.
func (s *OrderService) mutate(ctx context.Context, ref OrderRef, eventType string, fn mutation) (*OrderResult, error) {
	var (
		result  *OrderResult
		itemIDs []uuid.UUID
	)
	err := s.inTx(ctx, func(store OrderStore) error {
		order, err := lockOrder(ctx, store, ref)
		if err != nil {
			return err
		}
		order, itemIDs, err = fn(store, order)
		if err != nil {
			return err
		}
		order, _, err = recalculate(ctx, store, order)
		if err != nil {
			return err
		}
		result, err = loadResult(ctx, store, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	if eventType != "" {
		s.notifier.Notify(eventType, ref.LocationID, newOrderEvent(result.Order, itemIDs...), ref.ActorID)
	}
	return result, nil
}

// lockOrder reads the order with a row lock and rejects closed or void orders.
func lockOrder(ctx context.Context, store OrderStore, ref OrderRef) (database.Order, error) {
	order, err := store.GetOrderForUpdate(ctx, database.GetOrderForUpdateParams{
		ID:         ref.OrderID,
		LocationID: ref.LocationID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order, fmt.Errorf("order %s: %w", ref.OrderID, ErrOrderNotFound)
		}
		return order, fmt.Errorf("lock order: %w", err)
	}
	if lifecycle.IsTerminal(order.Status) {
		return order, fmt.Errorf("order %d is %s: %w", order.OrderNumber, order.Status, lifecycle.ErrOrderFinished)
	}
	return order, nil
}

// setStatus persists next when it differs from the order's status.
func setStatus(ctx context.Context, store OrderStore, order database.Order, next string) (database.Order, error) {
	if next == order.Status {
		return order, nil
	}
	updated, err := store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{ID: order.ID, Status: next})
	if err != nil {
		return order, fmt.Errorf("update order status: %w", err)
	}
	return updated, nil
}

func optText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func optUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

func ts(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

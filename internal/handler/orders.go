package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tablekeep/pos-api/internal/database"
	"github.com/tablekeep/pos-api/internal/enum"
	"github.com/tablekeep/pos-api/internal/middleware"
	"github.com/tablekeep/pos-api/internal/money"
	"github.com/tablekeep/pos-api/internal/service"
	"github.com/tablekeep/pos-api/internal/split"
	"go.uber.org/zap"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.OrderResult, error)
	GetOrder(ctx context.Context, locationID, orderID uuid.UUID) (*service.OrderResult, error)
	ListOrders(ctx context.Context, req service.ListOrdersRequest) ([]database.Order, error)
	AddItem(ctx context.Context, req service.AddItemRequest) (*service.OrderResult, error)
	UpdateItem(ctx context.Context, req service.UpdateItemRequest) (*service.OrderResult, error)
	RemoveItem(ctx context.Context, req service.ItemRef) (*service.OrderResult, error)
	FireItems(ctx context.Context, req service.FireRequest) (*service.OrderResult, error)
	HoldItems(ctx context.Context, req service.HoldRequest) (*service.OrderResult, error)
	StartItem(ctx context.Context, ref service.ItemRef) (*service.OrderResult, error)
	BumpItem(ctx context.Context, ref service.ItemRef) (*service.OrderResult, error)
	ServeItem(ctx context.Context, ref service.ItemRef) (*service.OrderResult, error)
	VoidItem(ctx context.Context, req service.VoidItemRequest) (*service.OrderResult, error)
	AddComp(ctx context.Context, req service.CompRequest) (*service.OrderResult, error)
	AddDiscount(ctx context.Context, req service.DiscountRequest) (*service.OrderResult, error)
	AddPayment(ctx context.Context, req service.PaymentRequest) (*service.OrderResult, error)
	SplitCheck(ctx context.Context, req service.SplitRequest) (*service.SplitResult, error)
	MergeChecks(ctx context.Context, ref service.OrderRef) (*service.OrderResult, error)
	TransferTable(ctx context.Context, req service.TransferTableRequest) (*service.OrderResult, error)
	CloseOrder(ctx context.Context, ref service.OrderRef) (*service.OrderResult, error)
	VoidOrder(ctx context.Context, req service.VoidOrderRequest) (*service.OrderResult, error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc OrderServicer
	log *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, log *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, log: log}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted inside a location-scoped subrouter: /locations/{lid}/orders
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	managers := middleware.RequireRole(enum.UserRoleOwner, enum.UserRoleManager)

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Post("/{id}/items", h.AddItem)
	r.Patch("/{id}/items/{itemId}", h.UpdateItem)
	r.Delete("/{id}/items/{itemId}", h.RemoveItem)
	r.Post("/{id}/fire", h.Fire)
	r.Post("/{id}/hold", h.Hold)
	r.Post("/{id}/items/{itemId}/start", h.StartItem)
	r.Post("/{id}/items/{itemId}/bump", h.BumpItem)
	r.Post("/{id}/items/{itemId}/serve", h.ServeItem)
	r.With(managers).Post("/{id}/items/{itemId}/void", h.VoidItem)

	r.With(managers).Post("/{id}/comps", h.AddComp)
	r.With(managers).Post("/{id}/discounts", h.AddDiscount)
	r.Post("/{id}/payments", h.AddPayment)
	r.Post("/{id}/split", h.Split)
	r.Delete("/{id}/checks", h.MergeChecks)

	r.Post("/{id}/transfer", h.Transfer)
	r.Post("/{id}/close", h.Close)
	r.With(managers).Post("/{id}/void", h.VoidOrder)
}

// --- Request types ---

type createOrderRequest struct {
	OrderType   string             `json:"order_type"`
	TableNumber string             `json:"table_number"`
	GuestCount  int32              `json:"guest_count"`
	Items       []orderItemRequest `json:"items"`
}

type orderItemRequest struct {
	MenuItemID          uuid.UUID   `json:"menu_item_id"`
	Quantity            int32       `json:"quantity"`
	SeatNumber          int32       `json:"seat_number"`
	CourseNumber        int32       `json:"course_number"`
	ModifierIDs         []uuid.UUID `json:"modifier_ids"`
	SpecialInstructions string      `json:"special_instructions"`
	CheckID             *uuid.UUID  `json:"check_id"`
}

func (r orderItemRequest) toInput() service.ItemInput {
	return service.ItemInput{
		MenuItemID:          r.MenuItemID,
		Quantity:            r.Quantity,
		SeatNumber:          r.SeatNumber,
		CourseNumber:        r.CourseNumber,
		ModifierIDs:         r.ModifierIDs,
		SpecialInstructions: r.SpecialInstructions,
		CheckID:             r.CheckID,
	}
}

type updateItemRequest struct {
	Quantity            *int32       `json:"quantity"`
	SeatNumber          *int32       `json:"seat_number"`
	CourseNumber        *int32       `json:"course_number"`
	ModifierIDs         *[]uuid.UUID `json:"modifier_ids"`
	SpecialInstructions *string      `json:"special_instructions"`
}

type itemSelectionRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids"`
	Course  *int32      `json:"course"`
}

type approvalRequest struct {
	Reason     string     `json:"reason"`
	ApprovedBy *uuid.UUID `json:"approved_by"`
}

type compRequest struct {
	approvalRequest
	ItemID *uuid.UUID `json:"order_item_id"`
	Amount string     `json:"amount"`
}

type discountRequest struct {
	approvalRequest
	DiscountType string `json:"discount_type"`
	Value        string `json:"value"`
}

type paymentRequest struct {
	CheckID   *uuid.UUID `json:"check_id"`
	Method    string     `json:"method"`
	Amount    string     `json:"amount"`
	TipAmount string     `json:"tip_amount"`
	CardBrand string     `json:"card_brand"`
	CardLast4 string     `json:"card_last4"`
}

type splitRequest struct {
	Strategy string              `json:"strategy"`
	Guests   int                 `json:"guests"`
	Groups   []splitGroupRequest `json:"groups"`
}

type splitGroupRequest struct {
	Name    string      `json:"name"`
	ItemIDs []uuid.UUID `json:"item_ids"`
}

type transferRequest struct {
	TableNumber string `json:"table_number"`
	GuestCount  int32  `json:"guest_count"`
}

type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Limit  int32           `json:"limit"`
	Offset int32           `json:"offset"`
}

type splitResponse struct {
	orderDetailResponse
	Shares []string `json:"shares,omitempty"`
}

// --- Handlers ---

// Create handles POST /locations/{lid}/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	locationID, ok := pathUUID(r, middleware.LocationParam)
	if !ok {
		badRequest(w, "invalid location ID")
		return
	}

	var req createOrderRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	items := make([]service.ItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = it.toInput()
	}

	result, err := h.svc.CreateOrder(r.Context(), service.CreateOrderRequest{
		LocationID:  locationID,
		ServerID:    claims.UserID,
		OrderType:   req.OrderType,
		TableNumber: req.TableNumber,
		GuestCount:  req.GuestCount,
		Items:       items,
	})
	if err != nil {
		writeError(w, h.log, "create order", err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderDetailResponse(result))
}

// List handles GET /locations/{lid}/orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	locationID, ok := pathUUID(r, middleware.LocationParam)
	if !ok {
		badRequest(w, "invalid location ID")
		return
	}

	q := r.URL.Query()
	req := service.ListOrdersRequest{
		LocationID: locationID,
		Statuses:   splitCSV(q.Get("status")),
		Limit:      20,
	}
	if s := q.Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			req.Limit = int32(min(v, 100))
		}
	}
	if s := q.Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			req.Offset = int32(v)
		}
	}
	if s := q.Get("date"); s != "" {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			badRequest(w, "date must be YYYY-MM-DD")
			return
		}
		req.BusinessDate = &d
	}

	orders, err := h.svc.ListOrders(r.Context(), req)
	if err != nil {
		writeError(w, h.log, "list orders", err)
		return
	}

	resp := orderListResponse{Orders: make([]orderResponse, len(orders)), Limit: req.Limit, Offset: req.Offset}
	for i, o := range orders {
		resp.Orders[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /locations/{lid}/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref, ok := orderRef(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetOrder(r.Context(), ref.LocationID, ref.OrderID)
	if err != nil {
		writeError(w, h.log, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDetailResponse(result))
}

// --- Items ---

// AddItem handles POST /locations/{lid}/orders/{id}/items.
func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ref, ok := orderRef(w, r)
	if !ok {
		return
	}
	var req orderItemRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	h.respond(w, http.StatusCreated, "add item")(h.svc.AddItem(r.Context(), service.AddItemRequest{OrderRef: ref, Item: req.toInput()}))
}

// UpdateItem handles PATCH /locations/{lid}/orders/{id}/items/{itemId}.
func (h *OrderHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ref, ok := itemRef(w, r)
	if !ok {
		return
	}
	var req updateItemRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	h.respond(w, http.StatusOK, "update item")(h.svc.UpdateItem(r.Context(), service.UpdateItemRequest{
		OrderRef:            ref.OrderRef,
		ItemID:              ref.ItemID,
		Quantity:            req.Quantity,
		SeatNumber:          req.SeatNumber,
		CourseNumber:        req.CourseNumber,
		ModifierIDs:         req.ModifierIDs,
		SpecialInstructions: req.SpecialInstructions,
	}))
}

// RemoveItem handles DELETE /locations/{lid}/orders/{id}/items/{itemId}.
func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ref, ok := itemRef(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, "remove item")(h.svc.RemoveItem(r.Context(), ref))
}

// Fire handles POST /locations/{lid}/orders/{id}/fire. An empty body fires
// every pending and held item.
func (h *OrderHandler) Fire(w http.ResponseWriter, r *http.Request) {
	ref, ok := orderRef(w, r)
	if !ok {
		return
	}
	var req itemSelectionRequest
	if err := decodeOptional(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	h.respond(w, http.StatusOK, "fire items")(h.svc.FireItems(r.Context(), service.FireRequest{
		OrderRef: ref,
		ItemIDs:  req.ItemIDs,
		Course:   req.Course,
	}))
}

// Hold handles POST /locations/{lid}/orders/{id}/hold.
func (h *OrderHandler) Hold(w http.ResponseWriter, r *http.Request) {
	ref, ok := orderRef(w, r)
	if !ok {
		return
	}
	var req itemSelectionRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	h.respond(w, http.StatusOK, "hold items")(h.svc.HoldItems(r.Context(), service.HoldRequest{OrderRef: ref, ItemIDs: req.ItemIDs}))
}

// StartItem handles POST /locations/{lid}/orders/{id}/items/{itemId}/start.
func (h *OrderHandler) StartItem(w http.ResponseWriter, r *http.Request) {
	ref, ok := itemRef(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, "start item")(h.svc.StartItem(r.Context(), ref))
}

// BumpItem handles POST /locations/{lid}/orders/{id}/items/{itemId}/bump.
func (h *OrderHandler) BumpItem(w http.ResponseWriter, r *http.Request) {
	ref, ok := itemRef(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, "bump item")(h.svc.BumpItem(r.Context(), ref))
}

// ServeItem handles POST /locations/{lid}/orders/{id}/items/{itemId}/serve.
func (h *OrderHandler) ServeItem(w http.ResponseWriter, r *http.Request) {
	ref, ok := itemRef(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, "serve item")(h.svc.ServeItem(r.Context(), ref))
}

// VoidItem handles POST /locations/{lid}/orders/{id}/items/{itemId}/void.
func (h *OrderHandler) VoidItem(w http.ResponseWriter, r *http.Request) {
	ref, ok := itemRef(w, r)
	if !ok {
		return
	}
	var req approvalRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	h.respond(w, http.StatusOK, "void item")(h.svc.VoidItem(r.Context(), service.VoidItemRequest{
		ItemRef:    ref,
		Reason:     req.Reason,
		ApprovedBy: req.approver(ref.ActorID),
	}))
}

// --- Adjustments and payments ---

// AddComp handles POST /locations/{lid}/orders/{id}/comps.
func (h *OrderHandler) AddComp(w http.ResponseWriter, r *http.Request) {
	ref, ok := orderRef(w, r)
	if !ok {
		return
	}
	var req compRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	amount, ok := parseAmount(w, "amount", req.Amount)
	if !ok {
		return
	}
	h.respond(w, http.StatusCreated, "add comp")(h.svc.AddComp(r.Context(), service.CompRequest{
		OrderRef:   ref,
		ItemID:     req.ItemID,
		Amount:     amount,
		Reason:     req.Reason,
		ApprovedBy: req.approver(ref.ActorID),
	}))
}

// AddDiscount handles POST /locations/{lid}/orders/{id}/discounts.
func (h *OrderHandler) AddDiscount(w http.ResponseWriter, r *http.Request) {
	ref, ok := orderRef(w, r)
	if !ok {
		return
	}
	var req discountRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	value, ok := parseAmount(w, "value", req.Value)
	if !ok {
		return
	}
	h.respond(w, http.StatusCreated, "add discount")(h.svc.AddDiscount(r.Context(), service.DiscountRequest{
		OrderRef:     ref,
		DiscountType: req.DiscountType,
		Value:        value,
		Reason:       req.Reason,
		ApprovedBy:   req.approver(ref.ActorID),
	}))
}

// AddPayment handles POST /locations/{lid}/orders/{id}/payments.
func (h *OrderHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	ref, ok := orderRef(w, r)
	if !ok {
		return
	}
	var req paymentRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	amount, ok := parseAmount(w, "amount", req.Amount)
	if !ok {
		return
	}
	tip, ok := parseAmount(w, "tip_amount", req.TipAmount)
	if !ok {
		return
	}
	h.respond(w, http.StatusCreated, "add payment")(h.svc.AddPayment(r.Context(), service.PaymentRequest{
		OrderRef:  ref,
		CheckID:   req.CheckID,
		Method:    req.Method,
		Amount:    amount,
		TipAmount: tip,
		CardBrand: req.CardBrand,
		CardLast4: req.CardLast4,
	}))
}

// Split handles POST /locations/{lid}/orders/{id}/split.
func (h *OrderHandler) Split(w http.ResponseWriter, r *http.Request) {
	ref, ok := orderRef(w, r)
	if !ok {
		return
	}
	var req splitRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	groups := make([]split.Group, len(req.Groups))
	for i, g := range req.Groups {
		groups[i] = split.Group{Name: g.Name, ItemIDs: g.ItemIDs}
	}

	result, err := h.svc.SplitCheck(r.Context(), service.SplitRequest{
		OrderRef: ref,
		Strategy: req.Strategy,
		Guests:   req.Guests,
		Groups:   groups,
	})
	if err != nil {
		writeError(w, h.log, "split check", err)
		return
	}

	resp := splitResponse{orderDetailResponse: toOrderDetailResponse(result.Order)}
	for _, share := range result.Shares {
		resp.Shares = append(resp.Shares, share.StringFixed(money.Places))
	}
	writeJSON(w, http.StatusOK, resp)
}

// MergeChecks handles DELETE /locations/{lid}/orders/{id}/checks.
func (h *OrderHandler) MergeChecks(w http.ResponseWriter, r *http.Request) {
	ref, ok := orderRef(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, "merge checks")(h.svc.MergeChecks(r.Context(), ref))
}

// --- Order lifecycle ---

// Transfer handles POST /locations/{lid}/orders/{id}/transfer.
func (h *OrderHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	ref, ok := orderRef(w, r)
	if !ok {
		return
	}
	var req transferRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	h.respond(w, http.StatusOK, "transfer table")(h.svc.TransferTable(r.Context(), service.TransferTableRequest{
		OrderRef:    ref,
		TableNumber: req.TableNumber,
		GuestCount:  req.GuestCount,
	}))
}

// Close handles POST /locations/{lid}/orders/{id}/close.
func (h *OrderHandler) Close(w http.ResponseWriter, r *http.Request) {
	ref, ok := orderRef(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, "close order")(h.svc.CloseOrder(r.Context(), ref))
}

// VoidOrder handles POST /locations/{lid}/orders/{id}/void.
func (h *OrderHandler) VoidOrder(w http.ResponseWriter, r *http.Request) {
	ref, ok := orderRef(w, r)
	if !ok {
		return
	}
	var req approvalRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	h.respond(w, http.StatusOK, "void order")(h.svc.VoidOrder(r.Context(), service.VoidOrderRequest{
		OrderRef:   ref,
		Reason:     req.Reason,
		ApprovedBy: req.approver(ref.ActorID),
	}))
}

// --- Helpers ---

// respond writes the order detail or maps the error.
func (h *OrderHandler) respond(w http.ResponseWriter, status int, op string) func(*service.OrderResult, error) {
	return func(result *service.OrderResult, err error) {
		if err != nil {
			writeError(w, h.log, op, err)
			return
		}
		writeJSON(w, status, toOrderDetailResponse(result))
	}
}

// approver defaults to the caller, who already passed the manager check.
func (a approvalRequest) approver(actorID uuid.UUID) uuid.UUID {
	if a.ApprovedBy != nil {
		return *a.ApprovedBy
	}
	return actorID
}

// parseAmount parses an optional money field. Empty is zero.
func parseAmount(w http.ResponseWriter, field, s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, true
	}
	d, err := money.Parse(s)
	if err != nil {
		badRequest(w, field+" must be a decimal amount")
		return decimal.Decimal{}, false
	}
	return d, true
}

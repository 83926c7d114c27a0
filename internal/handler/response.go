package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/tablekeep/pos-api/internal/apperr"
	"github.com/tablekeep/pos-api/internal/database"
	"github.com/tablekeep/pos-api/internal/middleware"
	"github.com/tablekeep/pos-api/internal/money"
	"github.com/tablekeep/pos-api/internal/service"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error's Kind to a status code. Internal errors are
// logged and hidden from the caller.
func writeError(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	kind := apperr.KindOf(err)
	body := map[string]any{"error": err.Error(), "kind": kind.String()}

	var status int
	switch kind {
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.Validation:
		status = http.StatusBadRequest
	case apperr.InvalidState:
		status = http.StatusConflict
	case apperr.Forbidden:
		status = http.StatusForbidden
	case apperr.Conflict:
		status = http.StatusConflict
		body["error"] = "concurrent update, please retry"
		body["retryable"] = true
		log.Warn(op, zap.Error(err))
	default:
		log.Error(op, zap.Error(err))
		status = http.StatusInternalServerError
		body["error"] = "internal server error"
	}
	writeJSON(w, status, body)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

var errBody = errors.New("invalid request body")

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBody
	}
	return nil
}

// decodeOptional is decode that accepts an empty body.
func decodeOptional(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errBody
	}
	return nil
}

// pathUUID parses a UUID route parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}

// orderRef builds the service reference for /locations/{lid}/orders/{id}.
func orderRef(w http.ResponseWriter, r *http.Request) (service.OrderRef, bool) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return service.OrderRef{}, false
	}
	locationID, ok := pathUUID(r, middleware.LocationParam)
	if !ok {
		badRequest(w, "invalid location ID")
		return service.OrderRef{}, false
	}
	orderID, ok := pathUUID(r, "id")
	if !ok {
		badRequest(w, "invalid order ID")
		return service.OrderRef{}, false
	}
	return service.OrderRef{LocationID: locationID, OrderID: orderID, ActorID: claims.UserID}, true
}

func itemRef(w http.ResponseWriter, r *http.Request) (service.ItemRef, bool) {
	ref, ok := orderRef(w, r)
	if !ok {
		return service.ItemRef{}, false
	}
	itemID, ok := pathUUID(r, "itemId")
	if !ok {
		badRequest(w, "invalid item ID")
		return service.ItemRef{}, false
	}
	return service.ItemRef{OrderRef: ref, ItemID: itemID}, true
}

// optionalUUIDQuery parses an optional UUID query parameter.
func optionalUUIDQuery(r *http.Request, name string) (*uuid.UUID, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, true
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, false
	}
	return &id, true
}

// --- Response types ---

type orderResponse struct {
	ID             uuid.UUID  `json:"id"`
	LocationID     uuid.UUID  `json:"location_id"`
	OrderNumber    int32      `json:"order_number"`
	BusinessDate   string     `json:"business_date"`
	OrderType      string     `json:"order_type"`
	TableNumber    *string    `json:"table_number"`
	GuestCount     int32      `json:"guest_count"`
	ServerID       uuid.UUID  `json:"server_id"`
	Status         string     `json:"status"`
	Subtotal       string     `json:"subtotal"`
	DiscountAmount string     `json:"discount_amount"`
	CompAmount     string     `json:"comp_amount"`
	TaxAmount      string     `json:"tax_amount"`
	TipAmount      string     `json:"tip_amount"`
	Total          string     `json:"total"`
	OpenedAt       time.Time  `json:"opened_at"`
	ClosedAt       *time.Time `json:"closed_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type orderDetailResponse struct {
	orderResponse
	Items     []orderItemResponse `json:"items"`
	Checks    []checkResponse     `json:"checks"`
	Payments  []paymentResponse   `json:"payments"`
	Discounts []discountResponse  `json:"discounts"`
	Comps     []compResponse      `json:"comps"`
	Voids     []voidResponse      `json:"voids"`
}

type orderItemResponse struct {
	ID                  uuid.UUID                   `json:"id"`
	MenuItemID          uuid.UUID                   `json:"menu_item_id"`
	CheckID             *uuid.UUID                  `json:"check_id"`
	Name                string                      `json:"name"`
	Quantity            int32                       `json:"quantity"`
	SeatNumber          int32                       `json:"seat_number"`
	CourseNumber        int32                       `json:"course_number"`
	UnitPrice           string                      `json:"unit_price"`
	ModifierTotal       string                      `json:"modifier_total"`
	LineTotal           string                      `json:"line_total"`
	SpecialInstructions *string                     `json:"special_instructions"`
	Status              string                      `json:"status"`
	StationID           *uuid.UUID                  `json:"station_id"`
	SentAt              *time.Time                  `json:"sent_at"`
	FiredAt             *time.Time                  `json:"fired_at"`
	StartedAt           *time.Time                  `json:"started_at"`
	ReadyAt             *time.Time                  `json:"ready_at"`
	ServedAt            *time.Time                  `json:"served_at"`
	VoidedAt            *time.Time                  `json:"voided_at"`
	Modifiers           []orderItemModifierResponse `json:"modifiers"`
}

type orderItemModifierResponse struct {
	ModifierID      uuid.UUID `json:"modifier_id"`
	Name            string    `json:"name"`
	PriceAdjustment string    `json:"price_adjustment"`
}

type checkResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Subtotal  string    `json:"subtotal"`
	TaxAmount string    `json:"tax_amount"`
	Total     string    `json:"total"`
	IsPaid    bool      `json:"is_paid"`
}

type paymentResponse struct {
	ID          uuid.UUID  `json:"id"`
	CheckID     *uuid.UUID `json:"check_id"`
	Method      string     `json:"method"`
	Amount      string     `json:"amount"`
	TipAmount   string     `json:"tip_amount"`
	CardBrand   *string    `json:"card_brand"`
	CardLast4   *string    `json:"card_last4"`
	ProcessedBy uuid.UUID  `json:"processed_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

type discountResponse struct {
	ID           uuid.UUID `json:"id"`
	DiscountType string    `json:"discount_type"`
	Value        string    `json:"value"`
	Amount       string    `json:"amount"`
	Reason       string    `json:"reason"`
	ApprovedBy   uuid.UUID `json:"approved_by"`
}

type compResponse struct {
	ID          uuid.UUID  `json:"id"`
	OrderItemID *uuid.UUID `json:"order_item_id"`
	Amount      string     `json:"amount"`
	Reason      string     `json:"reason"`
	ApprovedBy  uuid.UUID  `json:"approved_by"`
}

type voidResponse struct {
	ID          uuid.UUID `json:"id"`
	OrderItemID uuid.UUID `json:"order_item_id"`
	Amount      string    `json:"amount"`
	Reason      string    `json:"reason"`
	ApprovedBy  uuid.UUID `json:"approved_by"`
}

// --- Converters ---

func toOrderResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:             o.ID,
		LocationID:     o.LocationID,
		OrderNumber:    o.OrderNumber,
		OrderType:      o.OrderType,
		TableNumber:    textPtr(o.TableNumber),
		GuestCount:     o.GuestCount,
		ServerID:       o.ServerID,
		Status:         o.Status,
		Subtotal:       money.String(o.Subtotal),
		DiscountAmount: money.String(o.DiscountAmount),
		CompAmount:     money.String(o.CompAmount),
		TaxAmount:      money.String(o.TaxAmount),
		TipAmount:      money.String(o.TipAmount),
		Total:          money.String(o.Total),
		OpenedAt:       o.OpenedAt,
		ClosedAt:       timePtr(o.ClosedAt),
		UpdatedAt:      o.UpdatedAt,
	}
	if o.BusinessDate.Valid {
		resp.BusinessDate = o.BusinessDate.Time.Format(dateLayout)
	}
	return resp
}

func toOrderDetailResponse(res *service.OrderResult) orderDetailResponse {
	out := orderDetailResponse{
		orderResponse: toOrderResponse(res.Order),
		Items:         make([]orderItemResponse, len(res.Items)),
		Checks:        make([]checkResponse, len(res.Checks)),
		Payments:      make([]paymentResponse, len(res.Payments)),
		Discounts:     make([]discountResponse, len(res.Discounts)),
		Comps:         make([]compResponse, len(res.Comps)),
		Voids:         make([]voidResponse, len(res.Voids)),
	}
	for i, it := range res.Items {
		out.Items[i] = toOrderItemResponse(it)
	}
	for i, c := range res.Checks {
		out.Checks[i] = checkResponse{
			ID:        c.ID,
			Name:      c.Name,
			Subtotal:  money.String(c.Subtotal),
			TaxAmount: money.String(c.TaxAmount),
			Total:     money.String(c.Total),
			IsPaid:    c.IsPaid,
		}
	}
	for i, p := range res.Payments {
		out.Payments[i] = paymentResponse{
			ID:          p.ID,
			CheckID:     uuidPtr(p.CheckID),
			Method:      p.Method,
			Amount:      money.String(p.Amount),
			TipAmount:   money.String(p.TipAmount),
			CardBrand:   textPtr(p.CardBrand),
			CardLast4:   textPtr(p.CardLast4),
			ProcessedBy: p.ProcessedBy,
			CreatedAt:   p.CreatedAt,
		}
	}
	for i, d := range res.Discounts {
		out.Discounts[i] = discountResponse{
			ID:           d.ID,
			DiscountType: d.DiscountType,
			Value:        money.String(d.Value),
			Amount:       money.String(d.Amount),
			Reason:       d.Reason,
			ApprovedBy:   d.ApprovedBy,
		}
	}
	for i, c := range res.Comps {
		out.Comps[i] = compResponse{
			ID:          c.ID,
			OrderItemID: uuidPtr(c.OrderItemID),
			Amount:      money.String(c.Amount),
			Reason:      c.Reason,
			ApprovedBy:  c.ApprovedBy,
		}
	}
	for i, v := range res.Voids {
		out.Voids[i] = voidResponse{
			ID:          v.ID,
			OrderItemID: v.OrderItemID,
			Amount:      money.String(v.Amount),
			Reason:      v.Reason,
			ApprovedBy:  v.ApprovedBy,
		}
	}
	return out
}

func toOrderItemResponse(r service.OrderItemResult) orderItemResponse {
	it := r.Item
	resp := orderItemResponse{
		ID:                  it.ID,
		MenuItemID:          it.MenuItemID,
		CheckID:             uuidPtr(it.CheckID),
		Name:                it.Name,
		Quantity:            it.Quantity,
		SeatNumber:          it.SeatNumber,
		CourseNumber:        it.CourseNumber,
		UnitPrice:           money.String(it.UnitPrice),
		ModifierTotal:       money.String(it.ModifierTotal),
		LineTotal:           money.String(it.LineTotal),
		SpecialInstructions: textPtr(it.SpecialInstructions),
		Status:              it.Status,
		StationID:           uuidPtr(it.StationID),
		SentAt:              timePtr(it.SentAt),
		FiredAt:             timePtr(it.FiredAt),
		StartedAt:           timePtr(it.StartedAt),
		ReadyAt:             timePtr(it.ReadyAt),
		ServedAt:            timePtr(it.ServedAt),
		VoidedAt:            timePtr(it.VoidedAt),
		Modifiers:           make([]orderItemModifierResponse, len(r.Modifiers)),
	}
	for j, m := range r.Modifiers {
		resp.Modifiers[j] = orderItemModifierResponse{
			ModifierID:      m.ModifierID,
			Name:            m.Name,
			PriceAdjustment: money.String(m.PriceAdjustment),
		}
	}
	return resp
}

const dateLayout = "2006-01-02"

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}

func uuidPtr(u pgtype.UUID) *uuid.UUID {
	if !u.Valid {
		return nil
	}
	id := uuid.UUID(u.Bytes)
	return &id
}

func timePtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	return &ts.Time
}

// splitCSV splits a comma separated query value.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

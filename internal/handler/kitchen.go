package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tablekeep/pos-api/internal/kitchen"
	"github.com/tablekeep/pos-api/internal/middleware"
	"github.com/tablekeep/pos-api/internal/service"
	"go.uber.org/zap"
)

// KitchenReader serves station and expo screens. Satisfied by *kitchen.Service.
type KitchenReader interface {
	GetTickets(ctx context.Context, locationID uuid.UUID, stationID *uuid.UUID) ([]kitchen.Ticket, error)
	GetExpoView(ctx context.Context, locationID uuid.UUID) ([]kitchen.Ticket, error)
}

// TicketWriter applies ticket-level transitions. Satisfied by *service.OrderService.
type TicketWriter interface {
	BumpTicket(ctx context.Context, ref service.OrderRef, stationID *uuid.UUID) (*service.OrderResult, error)
	RecallTicket(ctx context.Context, ref service.OrderRef) (*service.OrderResult, error)
}

// KitchenHandler handles kitchen display endpoints.
type KitchenHandler struct {
	reader KitchenReader
	writer TicketWriter
	log    *zap.Logger
}

// NewKitchenHandler creates a new KitchenHandler.
func NewKitchenHandler(reader KitchenReader, writer TicketWriter, log *zap.Logger) *KitchenHandler {
	return &KitchenHandler{reader: reader, writer: writer, log: log}
}

// RegisterRoutes registers kitchen endpoints on the given Chi router.
// Expected to be mounted inside a location-scoped subrouter: /locations/{lid}/kitchen
func (h *KitchenHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tickets", h.Tickets)
	r.Get("/expo", h.Expo)
	r.Post("/tickets/{id}/bump", h.Bump)
	r.Post("/tickets/{id}/recall", h.Recall)
}

type ticketListResponse struct {
	Tickets []kitchen.Ticket `json:"tickets"`
}

// Tickets handles GET /locations/{lid}/kitchen/tickets?station=.
func (h *KitchenHandler) Tickets(w http.ResponseWriter, r *http.Request) {
	locationID, ok := pathUUID(r, middleware.LocationParam)
	if !ok {
		badRequest(w, "invalid location ID")
		return
	}
	stationID, ok := optionalUUIDQuery(r, "station")
	if !ok {
		badRequest(w, "invalid station ID")
		return
	}

	tickets, err := h.reader.GetTickets(r.Context(), locationID, stationID)
	if err != nil {
		writeError(w, h.log, "list tickets", err)
		return
	}
	writeJSON(w, http.StatusOK, ticketListResponse{Tickets: nonNilTickets(tickets)})
}

// Expo handles GET /locations/{lid}/kitchen/expo.
func (h *KitchenHandler) Expo(w http.ResponseWriter, r *http.Request) {
	locationID, ok := pathUUID(r, middleware.LocationParam)
	if !ok {
		badRequest(w, "invalid location ID")
		return
	}

	tickets, err := h.reader.GetExpoView(r.Context(), locationID)
	if err != nil {
		writeError(w, h.log, "expo view", err)
		return
	}
	writeJSON(w, http.StatusOK, ticketListResponse{Tickets: nonNilTickets(tickets)})
}

// Bump handles POST /locations/{lid}/kitchen/tickets/{id}/bump?station=.
func (h *KitchenHandler) Bump(w http.ResponseWriter, r *http.Request) {
	ref, ok := orderRef(w, r)
	if !ok {
		return
	}
	stationID, ok := optionalUUIDQuery(r, "station")
	if !ok {
		badRequest(w, "invalid station ID")
		return
	}

	result, err := h.writer.BumpTicket(r.Context(), ref, stationID)
	if err != nil {
		writeError(w, h.log, "bump ticket", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDetailResponse(result))
}

// Recall handles POST /locations/{lid}/kitchen/tickets/{id}/recall.
func (h *KitchenHandler) Recall(w http.ResponseWriter, r *http.Request) {
	ref, ok := orderRef(w, r)
	if !ok {
		return
	}

	result, err := h.writer.RecallTicket(r.Context(), ref)
	if err != nil {
		writeError(w, h.log, "recall ticket", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDetailResponse(result))
}

func nonNilTickets(t []kitchen.Ticket) []kitchen.Ticket {
	if t == nil {
		return []kitchen.Ticket{}
	}
	return t
}

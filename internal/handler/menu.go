package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tablekeep/pos-api/internal/menu"
	"github.com/tablekeep/pos-api/internal/middleware"
	"go.uber.org/zap"
)

// MenuAvailability toggles the 86 flag. Satisfied by *menu.Service.
type MenuAvailability interface {
	Set86(ctx context.Context, locationID, itemID uuid.UUID, is86d bool, actorID uuid.UUID) (menu.Availability, error)
}

// MenuHandler handles menu endpoints that affect service.
type MenuHandler struct {
	svc MenuAvailability
	log *zap.Logger
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(svc MenuAvailability, log *zap.Logger) *MenuHandler {
	return &MenuHandler{svc: svc, log: log}
}

// RegisterRoutes registers menu endpoints on the given Chi router.
// Expected to be mounted inside a location-scoped subrouter: /locations/{lid}/menu-items
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Put("/{id}/availability", h.SetAvailability)
}

type availabilityRequest struct {
	Is86d *bool `json:"is_86d"`
}

// SetAvailability handles PUT /locations/{lid}/menu-items/{id}/availability.
func (h *MenuHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
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
	itemID, ok := pathUUID(r, "id")
	if !ok {
		badRequest(w, "invalid menu item ID")
		return
	}

	var req availabilityRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.Is86d == nil {
		badRequest(w, "is_86d is required")
		return
	}

	avail, err := h.svc.Set86(r.Context(), locationID, itemID, *req.Is86d, claims.UserID)
	if err != nil {
		writeError(w, h.log, "set availability", err)
		return
	}
	writeJSON(w, http.StatusOK, avail)
}

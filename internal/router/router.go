package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/tablekeep/pos-api/internal/config"
	"github.com/tablekeep/pos-api/internal/handler"
	"github.com/tablekeep/pos-api/internal/kitchen"
	"github.com/tablekeep/pos-api/internal/menu"
	mw "github.com/tablekeep/pos-api/internal/middleware"
	"github.com/tablekeep/pos-api/internal/service"
	"github.com/tablekeep/pos-api/internal/ws"
	"go.uber.org/zap"
)

// Deps are the services the routes are wired to.
type Deps struct {
	Users   handler.AuthStore
	Orders  *service.OrderService
	Kitchen *kitchen.Service
	Menu    *menu.Service
	Hub     *ws.Hub
	Log     *zap.Logger
}

// New creates a Chi router with all application routes wired up.
// Applies authentication, location scoping, and role-based middleware as needed.
func New(cfg *config.Config, d Deps) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	authHandler := handler.NewAuthHandler(d.Users, cfg.JWTSecret, d.Log)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/locations/{lid}/events", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(d.Hub, cfg.JWTSecret, w, r)
	})

	// Location-scoped routes
	r.Route("/locations/{"+mw.LocationParam+"}", func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))
		r.Use(mw.RequireLocation)

		orderHandler := handler.NewOrderHandler(d.Orders, d.Log)
		r.Route("/orders", orderHandler.RegisterRoutes)

		kitchenHandler := handler.NewKitchenHandler(d.Kitchen, d.Orders, d.Log)
		r.Route("/kitchen", kitchenHandler.RegisterRoutes)

		menuHandler := handler.NewMenuHandler(d.Menu, d.Log)
		r.Route("/menu-items", menuHandler.RegisterRoutes)
	})

	d.Log.Info("router initialized")
	return r
}

package menu

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tablekeep/pos-api/internal/database"
	"github.com/tablekeep/pos-api/internal/notify"
	"go.uber.org/zap"
)

// AvailabilityStore defines the database methods needed to toggle 86.
// Satisfied by *database.Queries.
type AvailabilityStore interface {
	SetMenuItem86d(ctx context.Context, arg database.SetMenuItem86dParams) (database.MenuItem, error)
}

// Invalidator drops cached catalog entries. Satisfied by *CachedCatalog.
type Invalidator interface {
	Invalidate(ctx context.Context, locationID, itemID uuid.UUID)
}

// Availability is the result of an 86 toggle.
type Availability struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name"`
	Is86d      bool      `json:"is_86d"`
}

// Service owns menu mutations that affect order entry.
type Service struct {
	store    AvailabilityStore
	cache    Invalidator
	notifier notify.Notifier
	log      *zap.Logger
}

// NewService creates a Service. cache may be nil when no cache is configured.
func NewService(store AvailabilityStore, cache Invalidator, notifier notify.Notifier, log *zap.Logger) *Service {
	return &Service{store: store, cache: cache, notifier: notifier, log: log}
}

// Set86 marks a menu item unavailable (or available again) and tells every
// screen at the location.
func (s *Service) Set86(ctx context.Context, locationID, itemID uuid.UUID, is86d bool, actorID uuid.UUID) (Availability, error) {
	row, err := s.store.SetMenuItem86d(ctx, database.SetMenuItem86dParams{
		ID:         itemID,
		LocationID: locationID,
		Is86d:      is86d,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Availability{}, fmt.Errorf("menu item %s: %w", itemID, ErrItemNotFound)
		}
		return Availability{}, fmt.Errorf("set 86: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, locationID, itemID)
	}

	out := Availability{MenuItemID: row.ID, Name: row.Name, Is86d: row.Is86d}
	s.log.Info("menu item availability changed",
		zap.String("menu_item_id", row.ID.String()),
		zap.Bool("is_86d", row.Is86d))
	s.notifier.Notify(notify.MenuItem86d, locationID, out, actorID)
	return out, nil
}

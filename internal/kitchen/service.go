package kitchen

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/tablekeep/pos-api/internal/database"
	"github.com/tablekeep/pos-api/internal/enum"
)

// Store defines the database methods needed by kitchen views.
// Satisfied by *database.Queries.
type Store interface {
	ListKitchenItems(ctx context.Context, arg database.ListKitchenItemsParams) ([]database.ListKitchenItemsRow, error)
}

// Service serves station and expo screens.
type Service struct {
	store Store
	th    Thresholds
	now   func() time.Time
}

func NewService(store Store, th Thresholds) *Service {
	return &Service{store: store, th: th, now: time.Now}
}

// GetTickets returns tickets with items still on the line, optionally
// limited to one station's items.
func (s *Service) GetTickets(ctx context.Context, locationID uuid.UUID, stationID *uuid.UUID) ([]Ticket, error) {
	params := database.ListKitchenItemsParams{
		LocationID:    locationID,
		OrderStatuses: []string{enum.OrderStatusSent, enum.OrderStatusInProgress},
		ItemStatuses:  []string{enum.ItemStatusFired, enum.ItemStatusInProgress},
	}
	if stationID != nil {
		params.StationID = pgtype.UUID{Bytes: *stationID, Valid: true}
	}
	rows, err := s.store.ListKitchenItems(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list kitchen items: %w", err)
	}
	return BuildTickets(rows, s.now(), s.th), nil
}

// GetExpoView is the runner's view: like GetTickets across all stations,
// plus READY items and READY orders.
func (s *Service) GetExpoView(ctx context.Context, locationID uuid.UUID) ([]Ticket, error) {
	rows, err := s.store.ListKitchenItems(ctx, database.ListKitchenItemsParams{
		LocationID:    locationID,
		OrderStatuses: []string{enum.OrderStatusSent, enum.OrderStatusInProgress, enum.OrderStatusReady},
		ItemStatuses:  []string{enum.ItemStatusFired, enum.ItemStatusInProgress, enum.ItemStatusReady},
	})
	if err != nil {
		return nil, fmt.Errorf("list expo items: %w", err)
	}
	return BuildTickets(rows, s.now(), s.th), nil
}

// Package menu is the read-only menu catalog the order core prices against,
// plus the 86 toggle that marks an item unavailable.
package menu

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tablekeep/pos-api/internal/apperr"
	"github.com/tablekeep/pos-api/internal/database"
	"github.com/tablekeep/pos-api/internal/money"
)

var ErrItemNotFound = apperr.New(apperr.NotFound, "menu item not found")

// Item is a menu item with its modifier groups, as seen by order entry.
type Item struct {
	ID         uuid.UUID       `json:"id"`
	LocationID uuid.UUID       `json:"location_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Is86d      bool            `json:"is_86d"`
	StationID  *uuid.UUID      `json:"station_id,omitempty"`
	Groups     []Group         `json:"groups"`
}

// Group is a modifier group. MaxSelect nil means unbounded.
type Group struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	MinSelect int32      `json:"min_select"`
	MaxSelect *int32     `json:"max_select,omitempty"`
	Modifiers []Modifier `json:"modifiers"`
}

type Modifier struct {
	ID              uuid.UUID       `json:"id"`
	GroupID         uuid.UUID       `json:"group_id"`
	Name            string          `json:"name"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
}

// Required reports whether at least one modifier must be chosen.
func (g Group) Required() bool {
	return g.MinSelect >= 1
}

// Catalog looks up menu items for a location.
type Catalog interface {
	GetItem(ctx context.Context, locationID, itemID uuid.UUID) (Item, error)
}

// Store defines the database methods needed by the catalog.
// Satisfied by *database.Queries.
type Store interface {
	GetMenuItem(ctx context.Context, arg database.GetMenuItemParams) (database.MenuItem, error)
	ListModifierGroupsByMenuItem(ctx context.Context, menuItemID uuid.UUID) ([]database.ModifierGroup, error)
	ListModifiersByMenuItem(ctx context.Context, menuItemID uuid.UUID) ([]database.Modifier, error)
}

// DBCatalog reads menu items straight from Postgres.
type DBCatalog struct {
	store Store
}

func NewDBCatalog(store Store) *DBCatalog {
	return &DBCatalog{store: store}
}

func (c *DBCatalog) GetItem(ctx context.Context, locationID, itemID uuid.UUID) (Item, error) {
	row, err := c.store.GetMenuItem(ctx, database.GetMenuItemParams{ID: itemID, LocationID: locationID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, fmt.Errorf("menu item %s: %w", itemID, ErrItemNotFound)
		}
		return Item{}, fmt.Errorf("get menu item: %w", err)
	}

	groups, err := c.store.ListModifierGroupsByMenuItem(ctx, itemID)
	if err != nil {
		return Item{}, fmt.Errorf("list modifier groups: %w", err)
	}
	mods, err := c.store.ListModifiersByMenuItem(ctx, itemID)
	if err != nil {
		return Item{}, fmt.Errorf("list modifiers: %w", err)
	}

	item := itemFromRow(row)
	index := make(map[uuid.UUID]int, len(groups))
	item.Groups = make([]Group, len(groups))
	for i, g := range groups {
		index[g.ID] = i
		item.Groups[i] = Group{
			ID:        g.ID,
			Name:      g.Name,
			MinSelect: g.MinSelect,
			Modifiers: []Modifier{},
		}
		if g.MaxSelect.Valid {
			max := g.MaxSelect.Int32
			item.Groups[i].MaxSelect = &max
		}
	}
	for _, m := range mods {
		i, ok := index[m.ModifierGroupID]
		if !ok {
			continue
		}
		item.Groups[i].Modifiers = append(item.Groups[i].Modifiers, Modifier{
			ID:              m.ID,
			GroupID:         m.ModifierGroupID,
			Name:            m.Name,
			PriceAdjustment: money.FromNumeric(m.PriceAdjustment),
		})
	}
	return item, nil
}

func itemFromRow(row database.MenuItem) Item {
	item := Item{
		ID:         row.ID,
		LocationID: row.LocationID,
		Name:       row.Name,
		Price:      money.FromNumeric(row.Price),
		Is86d:      row.Is86d,
		Groups:     []Group{},
	}
	if row.StationID.Valid {
		id := uuid.UUID(row.StationID.Bytes)
		item.StationID = &id
	}
	return item
}

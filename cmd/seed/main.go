package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tablekeep/pos-api/internal/config"
	"github.com/tablekeep/pos-api/internal/enum"
	"github.com/tablekeep/pos-api/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type seedModifier struct {
	name  string
	price string
}

type seedGroup struct {
	name      string
	minSelect int32
	maxSelect *int32
	modifiers []seedModifier
}

type seedItem struct {
	name    string
	price   string
	station string
	groups  []seedGroup
}

func one() *int32 { n := int32(1); return &n }

var (
	stations = []string{"Grill", "Fry", "Bar"}

	menuItems = []seedItem{
		{name: "Cheeseburger", price: "14.00", station: "Grill", groups: []seedGroup{
			{name: "Temperature", minSelect: 1, maxSelect: one(), modifiers: []seedModifier{
				{"Medium rare", "0"}, {"Medium", "0"}, {"Well done", "0"},
			}},
			{name: "Add-ons", modifiers: []seedModifier{
				{"Bacon", "2.00"}, {"Avocado", "1.50"}, {"Extra cheese", "1.00"},
			}},
		}},
		{name: "Ribeye", price: "34.00", station: "Grill", groups: []seedGroup{
			{name: "Temperature", minSelect: 1, maxSelect: one(), modifiers: []seedModifier{
				{"Rare", "0"}, {"Medium rare", "0"}, {"Medium", "0"},
			}},
		}},
		{name: "Fries", price: "5.00", station: "Fry", groups: []seedGroup{
			{name: "Style", maxSelect: one(), modifiers: []seedModifier{
				{"Truffle", "3.00"}, {"Cajun", "0.50"},
			}},
		}},
		{name: "Caesar Salad", price: "11.00", station: "Grill"},
		{name: "Lemonade", price: "4.00", station: "Bar"},
		{name: "House Red", price: "9.00", station: "Bar"},
	}
)

func main() {
	email := flag.String("email", "", "Owner email address")
	password := flag.String("password", "", "Owner password")
	name := flag.String("name", "", "Owner full name")
	location := flag.String("location", "", "Location name")
	taxRate := flag.String("tax-rate", "0.0825", "Location tax rate")
	flag.Parse()

	log, err := logger.New("development")
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	if *email == "" {
		*email = os.Getenv("SEED_EMAIL")
	}
	if *password == "" {
		*password = os.Getenv("SEED_PASSWORD")
	}
	if *name == "" {
		*name = os.Getenv("SEED_NAME")
	}
	if *email == "" {
		*email = "owner@tablekeep.dev"
	}
	if *password == "" {
		*password = "password123"
		log.Warn("using default password 'password123', change it before production use")
	}
	if *name == "" {
		*name = "Owner"
	}
	if *location == "" {
		*location = "Tablekeep Downtown"
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal("ping database", zap.Error(err))
	}

	// All or nothing.
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatal("begin transaction", zap.Error(err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	locationID, created, err := seedLocation(ctx, tx, *location, *taxRate)
	if err != nil {
		log.Fatal("seed location", zap.Error(err))
	}
	log.Info("location", zap.String("id", locationID.String()), zap.Bool("created", created))

	userID, err := seedOwner(ctx, tx, locationID, *email, *password, *name)
	if err != nil {
		log.Fatal("seed owner", zap.Error(err))
	}
	log.Info("owner", zap.String("id", userID.String()), zap.String("email", *email))

	if created {
		if err := seedMenu(ctx, tx, locationID); err != nil {
			log.Fatal("seed menu", zap.Error(err))
		}
		log.Info("menu seeded", zap.Int("stations", len(stations)), zap.Int("items", len(menuItems)))
	} else {
		log.Info("location already existed, menu left as is")
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatal("commit", zap.Error(err))
	}
	log.Info("seed completed")
}

// seedLocation creates the location if it doesn't exist.
func seedLocation(ctx context.Context, tx pgx.Tx, name, taxRate string) (uuid.UUID, bool, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM locations WHERE name = $1 AND is_active = true LIMIT 1`, name).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, fmt.Errorf("check location: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO locations (name, tax_rate)
		VALUES ($1, $2::numeric)
		RETURNING id
	`, name, taxRate).Scan(&id)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("insert location: %w", err)
	}
	return id, true, nil
}

// seedOwner creates the owner user if it doesn't exist.
func seedOwner(ctx context.Context, tx pgx.Tx, locationID uuid.UUID, email, password, fullName string) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM users WHERE email = $1 LIMIT 1`, email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("check user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hash password: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO users (location_id, email, hashed_password, full_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, locationID, email, string(hashed), fullName, enum.UserRoleOwner).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// seedMenu creates stations and the sample menu for a new location.
func seedMenu(ctx context.Context, tx pgx.Tx, locationID uuid.UUID) error {
	stationIDs := make(map[string]uuid.UUID, len(stations))
	for _, name := range stations {
		var id uuid.UUID
		if err := tx.QueryRow(ctx,
			`INSERT INTO stations (location_id, name) VALUES ($1, $2) RETURNING id`,
			locationID, name,
		).Scan(&id); err != nil {
			return fmt.Errorf("insert station %s: %w", name, err)
		}
		stationIDs[name] = id
	}

	for _, item := range menuItems {
		var itemID uuid.UUID
		if err := tx.QueryRow(ctx, `
			INSERT INTO menu_items (location_id, station_id, name, price)
			VALUES ($1, $2, $3, $4::numeric)
			RETURNING id
		`, locationID, stationIDs[item.station], item.name, item.price).Scan(&itemID); err != nil {
			return fmt.Errorf("insert menu item %s: %w", item.name, err)
		}

		for i, g := range item.groups {
			var groupID uuid.UUID
			if err := tx.QueryRow(ctx, `
				INSERT INTO modifier_groups (menu_item_id, name, min_select, max_select, sort_order)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id
			`, itemID, g.name, g.minSelect, g.maxSelect, i).Scan(&groupID); err != nil {
				return fmt.Errorf("insert modifier group %s/%s: %w", item.name, g.name, err)
			}
			for _, m := range g.modifiers {
				if _, err := tx.Exec(ctx, `
					INSERT INTO modifiers (modifier_group_id, name, price_adjustment)
					VALUES ($1, $2, $3::numeric)
				`, groupID, m.name, m.price); err != nil {
					return fmt.Errorf("insert modifier %s: %w", m.name, err)
				}
			}
		}
	}
	return nil
}

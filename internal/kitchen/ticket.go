// Package kitchen projects live orders into kitchen tickets. It only reads;
// bump and recall are order mutations and go through the order service.
package kitchen

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/tablekeep/pos-api/internal/database"
	"github.com/tablekeep/pos-api/internal/enum"
)

// Thresholds split ticket age into new / cooking / late.
type Thresholds struct {
	CookingAfter time.Duration
	LateAfter    time.Duration
}

func DefaultThresholds() Thresholds {
	return Thresholds{CookingAfter: 10 * time.Minute, LateAfter: 15 * time.Minute}
}

// Classify returns the ticket status for a ticket of the given age.
func (th Thresholds) Classify(age time.Duration, allReady bool) string {
	switch {
	case allReady:
		return enum.TicketStatusReady
	case age <= th.CookingAfter:
		return enum.TicketStatusNew
	case age <= th.LateAfter:
		return enum.TicketStatusCooking
	default:
		return enum.TicketStatusLate
	}
}

type TicketItem struct {
	ID                  uuid.UUID  `json:"id"`
	Name                string     `json:"name"`
	Quantity            int32      `json:"quantity"`
	SeatNumber          int32      `json:"seat_number"`
	CourseNumber        int32      `json:"course_number"`
	SpecialInstructions *string    `json:"special_instructions,omitempty"`
	Modifiers           []string   `json:"modifiers"`
	Status              string     `json:"status"`
	StationID           *uuid.UUID `json:"station_id,omitempty"`
	FiredAt             *time.Time `json:"fired_at,omitempty"`
	StartedAt           *time.Time `json:"started_at,omitempty"`
	ReadyAt             *time.Time `json:"ready_at,omitempty"`
}

// Ticket is one order's visible items on a kitchen screen.
type Ticket struct {
	OrderID     uuid.UUID    `json:"order_id"`
	OrderNumber int32        `json:"order_number"`
	OrderType   string       `json:"order_type"`
	TableNumber *string      `json:"table_number,omitempty"`
	OrderStatus string       `json:"order_status"`
	Status      string       `json:"status"`
	FiredAt     *time.Time   `json:"fired_at,omitempty"`
	AgeSeconds  int64        `json:"age_seconds"`
	AllReady    bool         `json:"all_ready"`
	Items       []TicketItem `json:"items"`
}

// BuildTickets groups rows by order. Items within a ticket are ordered by
// course, seat, then fire time. Tickets are oldest first.
func BuildTickets(rows []database.ListKitchenItemsRow, now time.Time, th Thresholds) []Ticket {
	byOrder := make(map[uuid.UUID]*Ticket)
	var order []uuid.UUID
	for _, r := range rows {
		t, ok := byOrder[r.OrderID]
		if !ok {
			t = &Ticket{
				OrderID:     r.OrderID,
				OrderNumber: r.OrderNumber,
				OrderType:   r.OrderType,
				TableNumber: textPtr(r.TableNumber),
				OrderStatus: r.OrderStatus,
				Items:       []TicketItem{},
			}
			byOrder[r.OrderID] = t
			order = append(order, r.OrderID)
		}
		t.Items = append(t.Items, TicketItem{
			ID:                  r.ItemID,
			Name:                r.Name,
			Quantity:            r.Quantity,
			SeatNumber:          r.SeatNumber,
			CourseNumber:        r.CourseNumber,
			SpecialInstructions: textPtr(r.SpecialInstructions),
			Modifiers:           nonNil(r.ModifierNames),
			Status:              r.ItemStatus,
			StationID:           uuidPtr(r.StationID),
			FiredAt:             timePtr(r.FiredAt),
			StartedAt:           timePtr(r.StartedAt),
			ReadyAt:             timePtr(r.ReadyAt),
		})
	}

	tickets := make([]Ticket, 0, len(order))
	for _, id := range order {
		t := byOrder[id]
		sortItems(t.Items)

		allReady := true
		for _, it := range t.Items {
			if it.Status != enum.ItemStatusReady {
				allReady = false
			}
			if it.FiredAt != nil && (t.FiredAt == nil || it.FiredAt.Before(*t.FiredAt)) {
				fired := *it.FiredAt
				t.FiredAt = &fired
			}
		}

		var age time.Duration
		if t.FiredAt != nil {
			age = now.Sub(*t.FiredAt)
			if age < 0 {
				age = 0
			}
		}
		t.AllReady = allReady
		t.AgeSeconds = int64(age / time.Second)
		t.Status = th.Classify(age, allReady)
		tickets = append(tickets, *t)
	}

	sort.SliceStable(tickets, func(i, j int) bool {
		a, b := tickets[i].FiredAt, tickets[j].FiredAt
		switch {
		case a == nil && b == nil:
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.Before(*b)
		}
		return tickets[i].OrderNumber < tickets[j].OrderNumber
	})
	return tickets
}

func sortItems(items []TicketItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.CourseNumber != b.CourseNumber {
			return a.CourseNumber < b.CourseNumber
		}
		if a.SeatNumber != b.SeatNumber {
			return a.SeatNumber < b.SeatNumber
		}
		switch {
		case a.FiredAt == nil || b.FiredAt == nil:
			return a.FiredAt != nil && b.FiredAt == nil
		default:
			return a.FiredAt.Before(*b.FiredAt)
		}
	})
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
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
	t := ts.Time
	return &t
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

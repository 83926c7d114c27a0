package lifecycle

import (
	"github.com/tablekeep/pos-api/internal/apperr"
	"github.com/tablekeep/pos-api/internal/database"
	"github.com/tablekeep/pos-api/internal/enum"
)

var ErrOrderFinished = apperr.New(apperr.InvalidState, "order is closed or void")

// orderRank orders the non-terminal statuses for upgrade-only derivation.
var orderRank = map[string]int{
	enum.OrderStatusOpen:       0,
	enum.OrderStatusSent:       1,
	enum.OrderStatusInProgress: 2,
	enum.OrderStatusReady:      3,
	enum.OrderStatusServed:     4,
}

// IsTerminal reports whether no further mutation is allowed on the order.
func IsTerminal(status string) bool {
	return status == enum.OrderStatusClosed || status == enum.OrderStatusVoid
}

// DeriveOrderStatus upgrades current from item state. It never downgrades:
// an order only moves back to SENT through AfterFire.
func DeriveOrderStatus(current string, items []database.OrderItem) string {
	if IsTerminal(current) {
		return current
	}

	var active, served, readyOrServed, inProgress, fired int
	for _, it := range items {
		switch it.Status {
		case enum.ItemStatusVoid:
			continue
		case enum.ItemStatusServed:
			served++
			readyOrServed++
		case enum.ItemStatusReady:
			readyOrServed++
		case enum.ItemStatusInProgress:
			inProgress++
		case enum.ItemStatusFired:
			fired++
		}
		active++
	}
	if active == 0 {
		return current
	}

	candidate := enum.OrderStatusOpen
	switch {
	case served == active:
		candidate = enum.OrderStatusServed
	case readyOrServed == active:
		candidate = enum.OrderStatusReady
	case inProgress > 0:
		candidate = enum.OrderStatusInProgress
	case fired > 0 || readyOrServed > 0:
		candidate = enum.OrderStatusSent
	}
	return upgrade(current, candidate)
}

// AfterFire returns the order status once at least one item was fired.
// A READY or SERVED order re-enters SENT for the newly fired items.
func AfterFire(current string) string {
	switch current {
	case enum.OrderStatusOpen, enum.OrderStatusReady, enum.OrderStatusServed:
		return enum.OrderStatusSent
	}
	return current
}

// AfterBump returns the order status after items were bumped. Once nothing
// is left on the line the order is READY even if later courses are held.
func AfterBump(current string, items []database.OrderItem) string {
	if IsTerminal(current) {
		return current
	}
	outstanding, ready := 0, 0
	for _, it := range items {
		if IsOutstanding(it) {
			outstanding++
		}
		if it.Status == enum.ItemStatusReady {
			ready++
		}
	}
	if outstanding == 0 && ready > 0 {
		current = upgrade(current, enum.OrderStatusReady)
	}
	return DeriveOrderStatus(current, items)
}

// AfterRecall returns the order status after READY items were sent back.
func AfterRecall(current string) string {
	if IsTerminal(current) {
		return current
	}
	return enum.OrderStatusInProgress
}

func upgrade(current, candidate string) string {
	if orderRank[candidate] > orderRank[current] {
		return candidate
	}
	return current
}

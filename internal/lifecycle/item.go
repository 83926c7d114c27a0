// Package lifecycle holds the order item and order state machines. The
// functions here never touch storage; the order service persists results.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/tablekeep/pos-api/internal/apperr"
	"github.com/tablekeep/pos-api/internal/database"
	"github.com/tablekeep/pos-api/internal/enum"
)

// Action is a kitchen or floor action applied to an order item.
type Action string

const (
	Fire   Action = "fire"
	Hold   Action = "hold"
	Start  Action = "start"
	Bump   Action = "bump"
	Serve  Action = "serve"
	Void   Action = "void"
	Recall Action = "recall"
)

var (
	ErrInvalidTransition = apperr.New(apperr.InvalidState, "invalid item transition")
	ErrNotRemovable      = apperr.New(apperr.InvalidState, "item is not removable, void it instead")
	ErrVoidServed        = apperr.New(apperr.InvalidState, "served items cannot be voided")
)

var itemTransitions = map[string]map[Action]string{
	enum.ItemStatusPending: {
		Fire: enum.ItemStatusFired,
		Hold: enum.ItemStatusHeld,
		Void: enum.ItemStatusVoid,
	},
	enum.ItemStatusHeld: {
		Fire: enum.ItemStatusFired,
		Void: enum.ItemStatusVoid,
	},
	enum.ItemStatusFired: {
		Start: enum.ItemStatusInProgress,
		Bump:  enum.ItemStatusReady,
		Void:  enum.ItemStatusVoid,
	},
	enum.ItemStatusInProgress: {
		Bump: enum.ItemStatusReady,
		Void: enum.ItemStatusVoid,
	},
	enum.ItemStatusReady: {
		Serve:  enum.ItemStatusServed,
		Recall: enum.ItemStatusInProgress,
		Void:   enum.ItemStatusVoid,
	},
}

// NextItemStatus returns the status an item moves to under action.
func NextItemStatus(current string, action Action) (string, error) {
	if action == Void && current == enum.ItemStatusServed {
		return "", ErrVoidServed
	}
	next, ok := itemTransitions[current][action]
	if !ok {
		return "", fmt.Errorf("%w: cannot %s an item that is %s", ErrInvalidTransition, action, current)
	}
	return next, nil
}

// CanApply reports whether action is valid for an item in status current.
func CanApply(current string, action Action) bool {
	_, ok := itemTransitions[current][action]
	return ok
}

// Transition applies action to item at now and stamps the matching
// timestamp. The input is not modified.
func Transition(item database.OrderItem, action Action, now time.Time) (database.OrderItem, error) {
	next, err := NextItemStatus(item.Status, action)
	if err != nil {
		return item, err
	}

	ts := pgtype.Timestamptz{Time: now, Valid: true}
	item.Status = next
	switch action {
	case Fire:
		if !item.SentAt.Valid {
			item.SentAt = ts
		}
		item.FiredAt = ts
	case Start:
		item.StartedAt = ts
	case Bump:
		item.ReadyAt = ts
	case Serve:
		item.ServedAt = ts
	case Void:
		item.VoidedAt = ts
	case Recall:
		item.ReadyAt = pgtype.Timestamptz{}
		if !item.StartedAt.Valid {
			item.StartedAt = ts
		}
	}
	return item, nil
}

// IsRemovable reports whether item can be deleted outright. Only items that
// never reached the kitchen qualify.
func IsRemovable(item database.OrderItem) bool {
	return item.Status == enum.ItemStatusPending && !item.FiredAt.Valid && !item.SentAt.Valid
}

// IsEditable reports whether quantity, course and modifiers may change.
func IsEditable(item database.OrderItem) bool {
	return item.Status == enum.ItemStatusPending || item.Status == enum.ItemStatusHeld
}

// IsFireable reports whether item is eligible for fire.
func IsFireable(item database.OrderItem) bool {
	return CanApply(item.Status, Fire)
}

// IsOutstanding reports whether item is on the kitchen line.
func IsOutstanding(item database.OrderItem) bool {
	return item.Status == enum.ItemStatusFired || item.Status == enum.ItemStatusInProgress
}

package menu

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tablekeep/pos-api/internal/apperr"
)

var (
	ErrItem86d           = apperr.New(apperr.InvalidState, "menu item is 86'd")
	ErrUnknownModifier   = apperr.New(apperr.Validation, "modifier does not belong to menu item")
	ErrDuplicateModifier = apperr.New(apperr.Validation, "modifier selected more than once")
	ErrModifierSelection = apperr.New(apperr.Validation, "modifier selection out of range")
)

// Draft is a menu item plus the modifiers a guest picked, before it becomes
// an order item.
type Draft struct {
	Item     Item
	Selected []uuid.UUID
}

// Validate checks availability, that every selected modifier belongs to the
// item, and that each group's selection count is within [min, max].
func (d Draft) Validate() error {
	if d.Item.Is86d {
		return fmt.Errorf("%s: %w", d.Item.Name, ErrItem86d)
	}

	owner := make(map[uuid.UUID]int)
	for gi, g := range d.Item.Groups {
		for _, m := range g.Modifiers {
			owner[m.ID] = gi
		}
	}

	counts := make([]int32, len(d.Item.Groups))
	seen := make(map[uuid.UUID]bool, len(d.Selected))
	for _, id := range d.Selected {
		gi, ok := owner[id]
		if !ok {
			return fmt.Errorf("modifier %s: %w", id, ErrUnknownModifier)
		}
		if seen[id] {
			return fmt.Errorf("modifier %s: %w", id, ErrDuplicateModifier)
		}
		seen[id] = true
		counts[gi]++
	}

	for gi, g := range d.Item.Groups {
		n := counts[gi]
		if n < g.MinSelect {
			return fmt.Errorf("group %q needs at least %d: %w", g.Name, g.MinSelect, ErrModifierSelection)
		}
		if g.MaxSelect != nil && n > *g.MaxSelect {
			return fmt.Errorf("group %q allows at most %d: %w", g.Name, *g.MaxSelect, ErrModifierSelection)
		}
	}
	return nil
}

func (d Draft) IsValid() bool {
	return d.Validate() == nil
}

// Modifiers returns the selected modifiers in selection order. Unknown ids
// are skipped; call Validate first.
func (d Draft) Modifiers() []Modifier {
	byID := make(map[uuid.UUID]Modifier)
	for _, g := range d.Item.Groups {
		for _, m := range g.Modifiers {
			byID[m.ID] = m
		}
	}
	out := make([]Modifier, 0, len(d.Selected))
	for _, id := range d.Selected {
		if m, ok := byID[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

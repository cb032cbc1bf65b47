package catalog

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrItemInUse    = errors.New("catalog: item is referenced by an active menu")
	ErrEmptyMenu    = errors.New("catalog: active menu must contain at least one item")
	ErrInactiveItem = errors.New("catalog: menu references an inactive item")
	ErrBadTimeSlot  = errors.New("catalog: time slot start must precede end")
	ErrNotFound     = errors.New("catalog: not found")
)

// CheckItemDeactivation reports whether an item may be deactivated,
// given a snapshot of the menus that currently reference it.
func CheckItemDeactivation(menusUsingItem []MenuList) error {
	for _, m := range menusUsingItem {
		if m.Active {
			return fmt.Errorf("%w: menu %q", ErrItemInUse, m.Name)
		}
	}
	return nil
}

// CheckMenuComposition validates an active menu against a snapshot of its
// items: at least one item, none of them inactive. Inactive menus may hold
// anything; the checks re-apply when the menu is reactivated.
func CheckMenuComposition(menuActive bool, items []Item) error {
	if !menuActive {
		return nil
	}
	if len(items) == 0 {
		return ErrEmptyMenu
	}
	for _, it := range items {
		if !it.Active {
			return fmt.Errorf("%w: item %q", ErrInactiveItem, it.Name)
		}
	}
	return nil
}

// CheckTimeSlot validates clock times and their ordering.
func CheckTimeSlot(start, end string) error {
	s, err := time.Parse("15:04", start)
	if err != nil {
		return fmt.Errorf("catalog: bad start time %q: %w", start, err)
	}
	e, err := time.Parse("15:04", end)
	if err != nil {
		return fmt.Errorf("catalog: bad end time %q: %w", end, err)
	}
	if !s.Before(e) {
		return ErrBadTimeSlot
	}
	return nil
}

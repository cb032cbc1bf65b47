package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckItemDeactivation(t *testing.T) {
	err := CheckItemDeactivation([]MenuList{
		{ID: 1, Name: "Veg Weekly", Active: false},
	})
	assert.NoError(t, err, "only inactive menus reference the item")

	err = CheckItemDeactivation([]MenuList{
		{ID: 1, Name: "Veg Weekly", Active: false},
		{ID: 2, Name: "Deluxe", Active: true},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrItemInUse)
}

func TestCheckMenuComposition(t *testing.T) {
	active := []Item{{ID: 1, Name: "Dal", Active: true}, {ID: 2, Name: "Rice", Active: true}}

	assert.NoError(t, CheckMenuComposition(true, active))

	assert.ErrorIs(t, CheckMenuComposition(true, nil), ErrEmptyMenu)

	withInactive := append(active, Item{ID: 3, Name: "Paneer", Active: false})
	assert.ErrorIs(t, CheckMenuComposition(true, withInactive), ErrInactiveItem)

	// Inactive menus may hold anything; checks re-apply on activation.
	assert.NoError(t, CheckMenuComposition(false, withInactive))
	assert.NoError(t, CheckMenuComposition(false, nil))
}

func TestCheckTimeSlot(t *testing.T) {
	assert.NoError(t, CheckTimeSlot("12:00", "14:00"))
	assert.ErrorIs(t, CheckTimeSlot("14:00", "12:00"), ErrBadTimeSlot)
	assert.ErrorIs(t, CheckTimeSlot("12:00", "12:00"), ErrBadTimeSlot)
	assert.Error(t, CheckTimeSlot("noon", "14:00"))
}

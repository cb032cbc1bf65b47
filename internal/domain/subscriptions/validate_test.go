package subscriptions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailytiffin/mealsub/internal/domain/catalog"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validFixtures() (*catalog.MenuList, *catalog.TimeSlot, Request) {
	menu := &catalog.MenuList{ID: 1, Name: "Veg Weekly", ItemIDs: []int64{1, 2}, Active: true}
	slot := &catalog.TimeSlot{ID: 1, StartTime: "12:00", EndTime: "14:00", Active: true}
	req := Request{
		CustomerID: 7,
		MenuID:     1,
		TimeSlotID: 1,
		StartDate:  date(2024, 1, 1),
		EndDate:    date(2024, 1, 28),
		Days:       NewDaySet(Mon, Wed, Fri),
		Mode:       PayCard,
		Notify:     true,
	}
	return menu, slot, req
}

func ruleOf(t *testing.T, err error) string {
	t.Helper()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Rule
}

func TestValidateRequestOK(t *testing.T) {
	menu, slot, req := validFixtures()
	assert.NoError(t, ValidateRequest(menu, slot, req))

	// Single-day subscription is fine.
	req.EndDate = req.StartDate
	assert.NoError(t, ValidateRequest(menu, slot, req))

	// Exactly 30 days is the inclusive limit.
	req.EndDate = req.StartDate.AddDate(0, 0, 30)
	assert.NoError(t, ValidateRequest(menu, slot, req))
}

func TestValidateRequestMenu(t *testing.T) {
	menu, slot, req := validFixtures()

	assert.Equal(t, "menu_active", ruleOf(t, ValidateRequest(nil, slot, req)))

	menu.Active = false
	assert.Equal(t, "menu_active", ruleOf(t, ValidateRequest(menu, slot, req)))
}

func TestValidateRequestTimeSlot(t *testing.T) {
	menu, slot, req := validFixtures()

	assert.Equal(t, "time_slot_active", ruleOf(t, ValidateRequest(menu, nil, req)))

	slot.Active = false
	assert.Equal(t, "time_slot_active", ruleOf(t, ValidateRequest(menu, slot, req)))
}

func TestValidateRequestDates(t *testing.T) {
	menu, slot, req := validFixtures()

	req.EndDate = req.StartDate.AddDate(0, 0, -1)
	assert.Equal(t, "date_order", ruleOf(t, ValidateRequest(menu, slot, req)))

	req.EndDate = req.StartDate.AddDate(0, 0, 31)
	assert.Equal(t, "duration", ruleOf(t, ValidateRequest(menu, slot, req)))
}

func TestValidateRequestDays(t *testing.T) {
	menu, slot, req := validFixtures()

	req.Days = DaySet{}
	assert.Equal(t, "days", ruleOf(t, ValidateRequest(menu, slot, req)))

	req.Days = DaySet{Weekday("FUNDAY"): true}
	assert.Equal(t, "days", ruleOf(t, ValidateRequest(menu, slot, req)))
}

func TestValidateRequestMode(t *testing.T) {
	menu, slot, req := validFixtures()
	req.Mode = PaymentMode("crypto")
	assert.Equal(t, "payment_mode", ruleOf(t, ValidateRequest(menu, slot, req)))
}

func TestValidateRequestShortCircuits(t *testing.T) {
	// Inactive menu AND bad dates: the menu rule is reported first.
	menu, slot, req := validFixtures()
	menu.Active = false
	req.EndDate = req.StartDate.AddDate(0, 0, 45)
	assert.Equal(t, "menu_active", ruleOf(t, ValidateRequest(menu, slot, req)))
}

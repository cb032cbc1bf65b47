package subscriptions

import (
	"fmt"
	"time"

	"github.com/dailytiffin/mealsub/internal/domain/catalog"
)

// ValidationError names the first rule a request violated.
type ValidationError struct {
	Rule string
	Msg  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("subscriptions: %s: %s", e.Rule, e.Msg)
}

type Request struct {
	CustomerID int64
	MenuID     int64
	TimeSlotID int64
	StartDate  time.Time
	EndDate    time.Time
	Days       DaySet
	Mode       PaymentMode
	Notify     bool
}

// ValidateRequest runs the creation checks in order against explicit
// snapshots of the referenced menu and time slot; the first failure wins.
// menu/slot are nil when the reference does not resolve.
func ValidateRequest(menu *catalog.MenuList, slot *catalog.TimeSlot, req Request) error {
	if menu == nil || !menu.Active {
		return &ValidationError{Rule: "menu_active", Msg: "menu does not exist or is inactive"}
	}
	if slot == nil || !slot.Active {
		return &ValidationError{Rule: "time_slot_active", Msg: "time slot does not exist or is inactive"}
	}
	if req.EndDate.Before(req.StartDate) {
		return &ValidationError{Rule: "date_order", Msg: "end date precedes start date"}
	}
	if days := int(req.EndDate.Sub(req.StartDate).Hours() / 24); days > MaxDurationDays {
		return &ValidationError{
			Rule: "duration",
			Msg:  fmt.Sprintf("subscription spans %d days, limit is %d", days, MaxDurationDays),
		}
	}
	if len(req.Days) == 0 {
		return &ValidationError{Rule: "days", Msg: "no weekdays selected"}
	}
	for d := range req.Days {
		if _, err := ParseWeekday(string(d)); err != nil {
			return &ValidationError{Rule: "days", Msg: err.Error()}
		}
	}
	if !req.Mode.Valid() {
		return &ValidationError{Rule: "payment_mode", Msg: fmt.Sprintf("unknown mode %q", req.Mode)}
	}
	return nil
}

package schedule

import (
	"github.com/dailytiffin/mealsub/internal/domain/subscriptions"
)

// Expand walks the subscription's date range inclusively and emits one
// PENDING occurrence for every date whose weekday is selected, ascending.
// Pure: persistence and dedup live in Service.Materialize.
func Expand(sub *subscriptions.Subscription) []DeliverySchedule {
	var out []DeliverySchedule
	for d := sub.StartDate; !d.After(sub.EndDate); d = d.AddDate(0, 0, 1) {
		if !sub.Days.Has(subscriptions.WeekdayOf(d)) {
			continue
		}
		out = append(out, DeliverySchedule{
			SubscriptionID: sub.ID,
			Date:           d,
			Status:         StatusPending,
		})
	}
	return out
}

package schedule

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPreparing Status = "PREPARING"
	StatusOut       Status = "OUT"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// Forward-only chain; CANCELLED only before the meal leaves the kitchen.
var allowed = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusOut, StatusCancelled},
	StatusOut:       {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

func CanTransition(from, to Status) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

type InvalidTransitionError struct {
	From, To Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("schedule: invalid transition %s -> %s", e.From, e.To)
}

// DeliverySchedule is one concrete occurrence of a subscription.
type DeliverySchedule struct {
	ID             int64
	SubscriptionID int64
	Date           time.Time // date only, midnight UTC
	Status         Status
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dailytiffin/mealsub/internal/domain/subscriptions"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusSuccess  Status = "SUCCESS"
	StatusFailed   Status = "FAILED"
	StatusRefunded Status = "REFUNDED"
)

// Confirmation can only settle a pending payment; refunds only follow
// success. Nothing ever returns to PENDING.
var allowed = map[Status][]Status{
	StatusPending: {StatusSuccess, StatusFailed},
	StatusSuccess: {StatusRefunded},
}

func CanTransition(from, to Status) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

type InvalidStatusError struct {
	From, To Status
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("billing: invalid payment transition %s -> %s", e.From, e.To)
}

type Payment struct {
	ID             int64
	SubscriptionID int64
	Amount         decimal.Decimal
	TransactionID  string
	Status         Status
	Method         subscriptions.PaymentMode
	CreatedAt      time.Time
}

type Invoice struct {
	ID        int64
	PaymentID int64
	Number    string
	DueDate   time.Time
	Paid      bool
	CreatedAt time.Time
}

// InvoiceNumber formats a counter value; numbering starts at INV000001.
func InvoiceNumber(seq int64) string { return fmt.Sprintf("INV%06d", seq) }

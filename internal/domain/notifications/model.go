package notifications

import "time"

type Type string

const (
	TypeDelivery Type = "delivery"
	TypePayment  Type = "payment"
	TypeSystem   Type = "system"
)

type Notification struct {
	ID         int64
	CustomerID int64
	Type       Type
	Title      string
	Message    string
	Read       bool
	CreatedAt  time.Time
}

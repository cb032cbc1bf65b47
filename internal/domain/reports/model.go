package reports

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	Daily   Type = "DAILY"
	Weekly  Type = "WEEKLY"
	Monthly Type = "MONTHLY"
)

// Window is an inclusive date range.
type Window struct {
	From time.Time
	To   time.Time
}

// WindowFor derives the aggregation range looking back from as-of.
func WindowFor(t Type, asOf time.Time) (Window, error) {
	switch t {
	case Daily:
		return Window{From: asOf, To: asOf}, nil
	case Weekly:
		return Window{From: asOf.AddDate(0, 0, -7), To: asOf}, nil
	case Monthly:
		return Window{From: asOf.AddDate(0, 0, -30), To: asOf}, nil
	}
	return Window{}, fmt.Errorf("reports: unknown report type %q", t)
}

// Detail is the structured payload of a snapshot. Versioned so readers can
// tell apart rows written by older builds.
type Detail struct {
	SchemaVersion    int            `json:"schema_version"`
	PaymentsByMethod map[string]int `json:"payments_by_method"`
}

const detailSchemaVersion = 1

// Report is an immutable snapshot; regeneration writes a new row.
type Report struct {
	ID                int64
	Type              Type
	From              time.Time
	To                time.Time
	Revenue           decimal.Decimal
	SubscriptionCount int
	ActiveCustomers   int
	Detail            Detail
	GeneratedAt       time.Time
}

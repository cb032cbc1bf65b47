package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64
	Name        string
	Description string
	ImageURL    string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type OptionKind string

const (
	OptionChoice OptionKind = "choice"
	OptionText   OptionKind = "text"
	OptionFlag   OptionKind = "flag"
)

// CustomOption is one customization knob on an item, e.g. spice level.
// Values is only meaningful for OptionChoice.
type CustomOption struct {
	Name   string     `json:"name"`
	Kind   OptionKind `json:"kind"`
	Values []string   `json:"values,omitempty"`
}

type Item struct {
	ID          int64
	CategoryID  int64
	Name        string
	Description string
	Price       decimal.Decimal
	PrepMinutes int
	Options     []CustomOption
	Active      bool
	CreatedAt   time.Time
}

type MenuList struct {
	ID           int64
	Name         string
	Description  string
	ItemIDs      []int64
	PackagePrice *decimal.Decimal
	Active       bool
	CreatedAt    time.Time
}

// TimeSlot is a delivery window as clock times ("HH:MM", 24h), no date part.
type TimeSlot struct {
	ID        int64
	StartTime string
	EndTime   string
	Active    bool
	CreatedAt time.Time
}

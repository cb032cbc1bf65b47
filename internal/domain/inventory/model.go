package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

type Ingredient struct {
	ID            int64
	Name          string
	Unit          string // "kg", "l", "pcs"
	Quantity      decimal.Decimal
	MinStock      decimal.Decimal
	CostPerUnit   decimal.Decimal
	Supplier      string
	LastRestocked *time.Time
	CreatedAt     time.Time
}

// LowStock reports whether the ingredient is at or below its threshold.
func (i Ingredient) LowStock() bool {
	return i.Quantity.Cmp(i.MinStock) <= 0
}

// IngredientUsage records consumption against an item. Creating one
// decrements the ingredient's quantity in the same transaction.
type IngredientUsage struct {
	ID           int64
	IngredientID int64
	ItemID       int64
	Qty          decimal.Decimal
	CreatedAt    time.Time
}

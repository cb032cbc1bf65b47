package inventory

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"

	"github.com/dailytiffin/mealsub/internal/infra/metrics"
)

var (
	ErrNotFound = errors.New("inventory: not found")
	ErrBadQty   = errors.New("inventory: qty must be > 0")
	ErrConflict = errors.New("inventory: concurrent update, retry with a fresh read")
)

type Store interface {
	GetIngredient(ctx context.Context, id int64) (*Ingredient, error)
	// ApplyUsage decrements the ingredient and records the usage atomically:
	// both writes commit or neither does.
	ApplyUsage(ctx context.Context, u IngredientUsage) (*IngredientUsage, error)
	Restock(ctx context.Context, id int64, qty decimal.Decimal, at time.Time) (*Ingredient, error)
	ListLowStock(ctx context.Context) ([]Ingredient, error)
}

type Service struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

func NewService(store Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Consume writes one usage record and decrements stock by exactly qty.
// Stock may go negative: delivery-day prep must not block on bookkeeping
// lag, so shortage surfaces through LowStock instead of rejected writes.
func (s *Service) Consume(ctx context.Context, ingredientID, itemID int64, qty decimal.Decimal) (*IngredientUsage, error) {
	if qty.Sign() <= 0 {
		return nil, ErrBadQty
	}

	var usage *IngredientUsage
	b := retry.WithMaxRetries(2, retry.NewConstant(20*time.Millisecond))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		u, err := s.store.ApplyUsage(ctx, IngredientUsage{
			IngredientID: ingredientID,
			ItemID:       itemID,
			Qty:          qty,
		})
		if errors.Is(err, ErrConflict) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		usage = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	ing, err := s.store.GetIngredient(ctx, ingredientID)
	if err == nil && ing != nil && ing.LowStock() {
		metrics.LowStockDetected.Inc()
		s.log.Warn("ingredient low on stock",
			"ingredient_id", ing.ID,
			"name", ing.Name,
			"quantity", ing.Quantity.String(),
			"min_stock", ing.MinStock.String(),
		)
	}
	return usage, nil
}

func (s *Service) Restock(ctx context.Context, ingredientID int64, qty decimal.Decimal) (*Ingredient, error) {
	if qty.Sign() <= 0 {
		return nil, ErrBadQty
	}
	return s.store.Restock(ctx, ingredientID, qty, s.now())
}

// LowStock lists ingredients at or below their minimum, for alerting.
func (s *Service) LowStock(ctx context.Context) ([]Ingredient, error) {
	return s.store.ListLowStock(ctx)
}

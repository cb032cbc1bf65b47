package reports

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dailytiffin/mealsub/internal/infra/metrics"
)

// SubscriptionStats covers subscriptions whose whole [start,end] range lies
// inside the window.
type SubscriptionStats struct {
	Count           int
	DistinctClients int
}

// PaymentStats covers SUCCESS payments dated inside the window.
type PaymentStats struct {
	Revenue  decimal.Decimal
	ByMethod map[string]int
}

type Store interface {
	SubscriptionStats(ctx context.Context, w Window) (SubscriptionStats, error)
	PaymentStats(ctx context.Context, w Window) (PaymentStats, error)
	Save(ctx context.Context, r Report) (*Report, error)
	List(ctx context.Context, t Type) ([]Report, error)
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

// Generate computes and persists one snapshot. Snapshots are never updated
// in place; calling again writes a fresh row.
func (s *Service) Generate(ctx context.Context, t Type, asOf time.Time) (*Report, error) {
	w, err := WindowFor(t, asOf)
	if err != nil {
		return nil, err
	}

	subStats, err := s.store.SubscriptionStats(ctx, w)
	if err != nil {
		return nil, err
	}
	payStats, err := s.store.PaymentStats(ctx, w)
	if err != nil {
		return nil, err
	}

	rep, err := s.store.Save(ctx, Report{
		Type:              t,
		From:              w.From,
		To:                w.To,
		Revenue:           payStats.Revenue,
		SubscriptionCount: subStats.Count,
		ActiveCustomers:   subStats.DistinctClients,
		Detail: Detail{
			SchemaVersion:    detailSchemaVersion,
			PaymentsByMethod: payStats.ByMethod,
		},
		GeneratedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}
	metrics.ReportsGenerated.WithLabelValues(string(t)).Inc()
	s.log.Info("report generated",
		"type", t,
		"from", w.From.Format(time.DateOnly),
		"to", w.To.Format(time.DateOnly),
		"revenue", rep.Revenue.String(),
	)
	return rep, nil
}

func (s *Service) List(ctx context.Context, t Type) ([]Report, error) {
	return s.store.List(ctx, t)
}

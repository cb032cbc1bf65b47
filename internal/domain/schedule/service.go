package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dailytiffin/mealsub/internal/domain/notifications"
	"github.com/dailytiffin/mealsub/internal/domain/subscriptions"
	"github.com/dailytiffin/mealsub/internal/infra/metrics"
)

var (
	ErrNotFound = errors.New("schedule: not found")
	ErrConflict = errors.New("schedule: occurrence changed concurrently")
)

type Store interface {
	// UpsertPending creates the occurrence, or refreshes an existing one for
	// the same date while it is still PENDING; advanced occurrences are left
	// untouched. Must be atomic per occurrence.
	UpsertPending(ctx context.Context, occ DeliverySchedule) error
	GetByID(ctx context.Context, id int64) (*DeliverySchedule, error)
	ListBySubscription(ctx context.Context, subID int64) ([]DeliverySchedule, error)
	// UpdateStatusFrom flips status only when the row still holds `from`;
	// reports whether a row changed.
	UpdateStatusFrom(ctx context.Context, id int64, from, to Status, notes string) (bool, error)
	ListFiltered(ctx context.Context, f Filter) ([]DeliverySchedule, error)
}

type SubscriptionStore interface {
	GetByID(ctx context.Context, id int64) (*subscriptions.Subscription, error)
}

type Notifier interface {
	Create(ctx context.Context, n notifications.Notification) (*notifications.Notification, error)
}

type Filter struct {
	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
}

type Service struct {
	store    Store
	subs     SubscriptionStore
	notifier Notifier
	log      *slog.Logger
}

func NewService(store Store, subs SubscriptionStore, notifier Notifier, log *slog.Logger) *Service {
	return &Service{store: store, subs: subs, notifier: notifier, log: log}
}

// Materialize expands a subscription into concrete occurrences. Safe to
// re-run: dates already materialized keep their row (refreshed while
// PENDING), advanced dates are skipped, missing dates are created.
func (s *Service) Materialize(ctx context.Context, subscriptionID int64) ([]DeliverySchedule, error) {
	sub, err := s.subs.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNotFound
	}
	for _, occ := range Expand(sub) {
		if err := s.store.UpsertPending(ctx, occ); err != nil {
			return nil, err
		}
	}
	out, err := s.store.ListBySubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	s.log.Info("schedule materialized", "subscription_id", subscriptionID, "occurrences", len(out))
	return out, nil
}

// Transition moves one occurrence along the status machine. Illegal moves
// fail with InvalidTransitionError and leave the row unchanged.
func (s *Service) Transition(ctx context.Context, id int64, to Status, notes string) (*DeliverySchedule, error) {
	occ, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if occ == nil {
		return nil, ErrNotFound
	}
	if !CanTransition(occ.Status, to) {
		return nil, &InvalidTransitionError{From: occ.Status, To: to}
	}

	changed, err := s.store.UpdateStatusFrom(ctx, id, occ.Status, to, notes)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, ErrConflict
	}
	metrics.DeliveryTransitions.WithLabelValues(string(to)).Inc()

	if to == StatusOut || to == StatusDelivered {
		s.notifyDelivery(ctx, occ, to)
	}

	return s.store.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]DeliverySchedule, error) {
	return s.store.ListFiltered(ctx, f)
}

// notifyDelivery is best effort: a lost notification must not fail the
// transition that already committed.
func (s *Service) notifyDelivery(ctx context.Context, occ *DeliverySchedule, to Status) {
	sub, err := s.subs.GetByID(ctx, occ.SubscriptionID)
	if err != nil || sub == nil || !sub.Notify {
		return
	}
	title := "Your meal is on the way"
	if to == StatusDelivered {
		title = "Your meal was delivered"
	}
	_, err = s.notifier.Create(ctx, notifications.Notification{
		CustomerID: sub.CustomerID,
		Type:       notifications.TypeDelivery,
		Title:      title,
		Message:    fmt.Sprintf("Delivery for %s is now %s.", occ.Date.Format(time.DateOnly), to),
	})
	if err != nil {
		s.log.Error("delivery notification failed", "occurrence_id", occ.ID, "err", err)
	}
}

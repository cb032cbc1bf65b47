package subscriptions

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dailytiffin/mealsub/internal/domain/catalog"
	"github.com/dailytiffin/mealsub/internal/domain/customers"
)

var (
	ErrNotFound  = errors.New("subscriptions: not found")
	ErrForbidden = errors.New("subscriptions: caller may not see this customer")
)

type CatalogStore interface {
	GetMenu(ctx context.Context, id int64) (*catalog.MenuList, error)
	GetTimeSlot(ctx context.Context, id int64) (*catalog.TimeSlot, error)
}

type Store interface {
	Create(ctx context.Context, sub Subscription) (*Subscription, error)
	GetByID(ctx context.Context, id int64) (*Subscription, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]Subscription, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	catalog CatalogStore
	store   Store
	log     *slog.Logger
	now     func() time.Time
}

func NewService(cat CatalogStore, store Store, log *slog.Logger) *Service {
	return &Service{catalog: cat, store: store, log: log, now: time.Now}
}

// WithClock replaces the time source, for deterministic tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ValidateAndCreate persists a subscription after the composition checks
// pass. Delivery occurrences are NOT materialized here; that is a separate
// explicit step so creation and materialization retry independently.
func (s *Service) ValidateAndCreate(ctx context.Context, req Request) (*Subscription, error) {
	menu, err := s.catalog.GetMenu(ctx, req.MenuID)
	if err != nil {
		return nil, err
	}
	slot, err := s.catalog.GetTimeSlot(ctx, req.TimeSlotID)
	if err != nil {
		return nil, err
	}
	if err := ValidateRequest(menu, slot, req); err != nil {
		return nil, err
	}

	sub, err := s.store.Create(ctx, Subscription{
		CustomerID: req.CustomerID,
		MenuID:     req.MenuID,
		TimeSlotID: req.TimeSlotID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Days:       req.Days,
		Mode:       req.Mode,
		Notify:     req.Notify,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("subscription created",
		"subscription_id", sub.ID,
		"customer_id", sub.CustomerID,
		"start", sub.StartDate.Format(time.DateOnly),
		"end", sub.EndDate.Format(time.DateOnly),
	)
	return sub, nil
}

// ListForCustomer applies the caller's scope before reading.
func (s *Service) ListForCustomer(ctx context.Context, scope customers.Scope, customerID int64) ([]Subscription, error) {
	if !scope.CanSee(customerID) {
		return nil, ErrForbidden
	}
	return s.store.ListByCustomer(ctx, customerID)
}

// Delete removes a subscription the caller owns (or any, for staff);
// its delivery occurrences go with it.
func (s *Service) Delete(ctx context.Context, scope customers.Scope, id int64) error {
	sub, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sub == nil {
		return ErrNotFound
	}
	if !scope.CanSee(sub.CustomerID) {
		return ErrForbidden
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("subscription deleted", "subscription_id", id, "customer_id", sub.CustomerID)
	return nil
}

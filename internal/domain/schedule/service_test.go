package schedule

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailytiffin/mealsub/internal/domain/notifications"
	"github.com/dailytiffin/mealsub/internal/domain/subscriptions"
)

type occKey struct {
	subID int64
	date  time.Time
}

type fakeStore struct {
	nextID int64
	byID   map[int64]*DeliverySchedule
	byKey  map[occKey]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, byID: map[int64]*DeliverySchedule{}, byKey: map[occKey]int64{}}
}

func (f *fakeStore) UpsertPending(_ context.Context, occ DeliverySchedule) error {
	key := occKey{occ.SubscriptionID, occ.Date}
	if id, ok := f.byKey[key]; ok {
		if existing := f.byID[id]; existing.Status == StatusPending {
			existing.Notes = occ.Notes
		}
		return nil
	}
	occ.ID = f.nextID
	f.nextID++
	f.byID[occ.ID] = &occ
	f.byKey[key] = occ.ID
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*DeliverySchedule, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) ListBySubscription(_ context.Context, subID int64) ([]DeliverySchedule, error) {
	var out []DeliverySchedule
	for id := int64(1); id < f.nextID; id++ {
		if o, ok := f.byID[id]; ok && o.SubscriptionID == subID {
			out = append(out, *o)
		}
	}
	sortByDate(out)
	return out, nil
}

func sortByDate(occs []DeliverySchedule) {
	for i := 1; i < len(occs); i++ {
		for j := i; j > 0 && occs[j].Date.Before(occs[j-1].Date); j-- {
			occs[j], occs[j-1] = occs[j-1], occs[j]
		}
	}
}

func (f *fakeStore) UpdateStatusFrom(_ context.Context, id int64, from, to Status, notes string) (bool, error) {
	o, ok := f.byID[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	o.Notes = notes
	return true, nil
}

func (f *fakeStore) ListFiltered(_ context.Context, fl Filter) ([]DeliverySchedule, error) {
	var out []DeliverySchedule
	for id := int64(1); id < f.nextID; id++ {
		o, ok := f.byID[id]
		if !ok {
			continue
		}
		if fl.Status != nil && o.Status != *fl.Status {
			continue
		}
		if fl.DateFrom != nil && o.Date.Before(*fl.DateFrom) {
			continue
		}
		if fl.DateTo != nil && o.Date.After(*fl.DateTo) {
			continue
		}
		out = append(out, *o)
	}
	sortByDate(out)
	return out, nil
}

type fakeSubs struct{ subs map[int64]*subscriptions.Subscription }

func (f *fakeSubs) GetByID(_ context.Context, id int64) (*subscriptions.Subscription, error) {
	return f.subs[id], nil
}

type fakeNotifier struct{ created []notifications.Notification }

func (f *fakeNotifier) Create(_ context.Context, n notifications.Notification) (*notifications.Notification, error) {
	f.created = append(f.created, n)
	return &n, nil
}

func testSub() *subscriptions.Subscription {
	return &subscriptions.Subscription{
		ID:         5,
		CustomerID: 7,
		StartDate:  date(2024, 1, 1),
		EndDate:    date(2024, 1, 7),
		Days:       subscriptions.NewDaySet(subscriptions.Mon, subscriptions.Wed, subscriptions.Fri),
		Notify:     true,
	}
}

func newTestService(sub *subscriptions.Subscription) (*Service, *fakeStore, *fakeNotifier) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	subs := &fakeSubs{subs: map[int64]*subscriptions.Subscription{}}
	if sub != nil {
		subs.subs[sub.ID] = sub
	}
	return NewService(store, subs, notifier, slog.Default()), store, notifier
}

func TestMaterializeIdempotent(t *testing.T) {
	svc, _, _ := newTestService(testSub())
	ctx := context.Background()

	first, err := svc.Materialize(ctx, 5)
	require.NoError(t, err)
	require.Len(t, first, 3)

	second, err := svc.Materialize(ctx, 5)
	require.NoError(t, err)
	require.Len(t, second, 3, "re-materialization must not duplicate occurrences")
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Date, second[i].Date)
	}
}

func TestMaterializeLeavesAdvancedUntouched(t *testing.T) {
	svc, store, _ := newTestService(testSub())
	ctx := context.Background()

	occs, err := svc.Materialize(ctx, 5)
	require.NoError(t, err)

	_, err = svc.Transition(ctx, occs[0].ID, StatusPreparing, "on the stove")
	require.NoError(t, err)

	again, err := svc.Materialize(ctx, 5)
	require.NoError(t, err)
	require.Len(t, again, 3)
	assert.Equal(t, StatusPreparing, again[0].Status, "advanced occurrence survives re-materialization")
	assert.Equal(t, "on the stove", again[0].Notes)

	// Sanity: store holds exactly three rows for the subscription.
	all, _ := store.ListBySubscription(ctx, 5)
	assert.Len(t, all, 3)
}

func TestMaterializeUnknownSubscription(t *testing.T) {
	svc, _, _ := newTestService(nil)
	_, err := svc.Materialize(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransitionHappyPath(t *testing.T) {
	svc, _, _ := newTestService(testSub())
	ctx := context.Background()
	occs, err := svc.Materialize(ctx, 5)
	require.NoError(t, err)
	id := occs[0].ID

	for _, next := range []Status{StatusPreparing, StatusOut, StatusDelivered} {
		occ, err := svc.Transition(ctx, id, next, "")
		require.NoError(t, err)
		assert.Equal(t, next, occ.Status)
	}
}

func TestTransitionCancelRules(t *testing.T) {
	svc, _, _ := newTestService(testSub())
	ctx := context.Background()
	occs, err := svc.Materialize(ctx, 5)
	require.NoError(t, err)

	// PENDING -> CANCELLED allowed.
	occ, err := svc.Transition(ctx, occs[0].ID, StatusCancelled, "customer away")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, occ.Status)

	// Once DELIVERED, cancellation is rejected and state is unchanged.
	id := occs[1].ID
	for _, next := range []Status{StatusPreparing, StatusOut, StatusDelivered} {
		_, err = svc.Transition(ctx, id, next, "")
		require.NoError(t, err)
	}
	_, err = svc.Transition(ctx, id, StatusCancelled, "")
	var ite *InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, StatusDelivered, ite.From)

	after, err := svc.store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, after.Status, "failed transition leaves state unchanged")
}

func TestTransitionNotifies(t *testing.T) {
	svc, _, notifier := newTestService(testSub())
	ctx := context.Background()
	occs, err := svc.Materialize(ctx, 5)
	require.NoError(t, err)
	id := occs[0].ID

	_, err = svc.Transition(ctx, id, StatusPreparing, "")
	require.NoError(t, err)
	assert.Empty(t, notifier.created, "no notification before the meal leaves")

	_, err = svc.Transition(ctx, id, StatusOut, "")
	require.NoError(t, err)
	_, err = svc.Transition(ctx, id, StatusDelivered, "")
	require.NoError(t, err)

	require.Len(t, notifier.created, 2)
	assert.Equal(t, notifications.TypeDelivery, notifier.created[0].Type)
	assert.Equal(t, int64(7), notifier.created[0].CustomerID)
}

func TestTransitionNotifyOptOut(t *testing.T) {
	sub := testSub()
	sub.Notify = false
	svc, _, notifier := newTestService(sub)
	ctx := context.Background()
	occs, err := svc.Materialize(ctx, 5)
	require.NoError(t, err)

	for _, next := range []Status{StatusPreparing, StatusOut, StatusDelivered} {
		_, err = svc.Transition(ctx, occs[0].ID, next, "")
		require.NoError(t, err)
	}
	assert.Empty(t, notifier.created)
}

func TestListFiltered(t *testing.T) {
	svc, _, _ := newTestService(testSub())
	ctx := context.Background()
	occs, err := svc.Materialize(ctx, 5)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, occs[1].ID, StatusPreparing, "")
	require.NoError(t, err)

	pending := StatusPending
	got, err := svc.List(ctx, Filter{Status: &pending})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	from := date(2024, 1, 2)
	got, err = svc.List(ctx, Filter{DateFrom: &from})
	require.NoError(t, err)
	assert.Len(t, got, 2) // Jan 3 and Jan 5
}

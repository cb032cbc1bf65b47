package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailytiffin/mealsub/internal/domain/catalog"
	"github.com/dailytiffin/mealsub/internal/domain/customers"
	"github.com/dailytiffin/mealsub/internal/domain/notifications"
	"github.com/dailytiffin/mealsub/internal/domain/subscriptions"
)

type fakeCatalogStore struct {
	categories []catalog.Category
	items      []catalog.Item
	menus      []catalog.MenuList
	slots      []catalog.TimeSlot
}

func (f *fakeCatalogStore) CreateCategory(_ context.Context, name, description, imageURL string) (*catalog.Category, error) {
	c := catalog.Category{ID: int64(len(f.categories) + 1), Name: name, Description: description, ImageURL: imageURL, Active: true}
	f.categories = append(f.categories, c)
	return &c, nil
}

func (f *fakeCatalogStore) ListActiveCategories(context.Context) ([]catalog.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalogStore) DeactivateCategory(_ context.Context, id int64) error {
	return catalog.ErrNotFound
}

func (f *fakeCatalogStore) CreateItem(_ context.Context, it catalog.Item) (*catalog.Item, error) {
	it.ID = int64(len(f.items) + 1)
	it.Active = true
	f.items = append(f.items, it)
	return &it, nil
}

func (f *fakeCatalogStore) GetItem(_ context.Context, id int64) (*catalog.Item, error) {
	for _, it := range f.items {
		if it.ID == id {
			return &it, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogStore) ListActiveItems(context.Context) ([]catalog.Item, error) {
	return f.items, nil
}

func (f *fakeCatalogStore) CreateMenu(_ context.Context, m catalog.MenuList) (*catalog.MenuList, error) {
	m.ID = int64(len(f.menus) + 1)
	f.menus = append(f.menus, m)
	return &m, nil
}

func (f *fakeCatalogStore) ListActiveMenus(context.Context) ([]catalog.MenuList, error) {
	return f.menus, nil
}

func (f *fakeCatalogStore) ListActiveTimeSlots(context.Context) ([]catalog.TimeSlot, error) {
	return f.slots, nil
}

type fakeCustomerStore struct {
	profiles map[int64]*customers.Profile
}

func (f *fakeCustomerStore) Create(_ context.Context, p customers.Profile) (*customers.Profile, error) {
	if err := customers.ValidatePhone(p.Phone); err != nil {
		return nil, err
	}
	p.ID = int64(len(f.profiles) + 1)
	f.profiles[p.ID] = &p
	return &p, nil
}

func (f *fakeCustomerStore) GetByID(_ context.Context, id int64) (*customers.Profile, error) {
	return f.profiles[id], nil
}

type fakeNotifStore struct {
	unread map[int64][]notifications.Notification
}

func (f *fakeNotifStore) ListUnread(_ context.Context, customerID int64) ([]notifications.Notification, error) {
	return f.unread[customerID], nil
}

func (f *fakeNotifStore) MarkRead(_ context.Context, id int64) error {
	return notifications.ErrNotFound
}

// fakeSubCatalog backs the subscriptions service with one active menu and slot.
type fakeSubCatalog struct{}

func (fakeSubCatalog) GetMenu(context.Context, int64) (*catalog.MenuList, error) {
	return &catalog.MenuList{ID: 1, Active: true, ItemIDs: []int64{1}}, nil
}

func (fakeSubCatalog) GetTimeSlot(context.Context, int64) (*catalog.TimeSlot, error) {
	return &catalog.TimeSlot{ID: 1, StartTime: "09:00", EndTime: "11:00", Active: true}, nil
}

type fakeSubStore struct {
	subs map[int64]*subscriptions.Subscription
}

func (f *fakeSubStore) Create(_ context.Context, sub subscriptions.Subscription) (*subscriptions.Subscription, error) {
	sub.ID = int64(len(f.subs) + 1)
	f.subs[sub.ID] = &sub
	return &sub, nil
}

func (f *fakeSubStore) GetByID(_ context.Context, id int64) (*subscriptions.Subscription, error) {
	return f.subs[id], nil
}

func (f *fakeSubStore) Delete(_ context.Context, id int64) error {
	delete(f.subs, id)
	return nil
}

func (f *fakeSubStore) ListByCustomer(_ context.Context, customerID int64) ([]subscriptions.Subscription, error) {
	var out []subscriptions.Subscription
	for _, s := range f.subs {
		if s.CustomerID == customerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func testMux(t *testing.T) *http.ServeMux {
	t.Helper()
	log := slog.Default()
	subsSvc := subscriptions.NewService(fakeSubCatalog{}, &fakeSubStore{subs: map[int64]*subscriptions.Subscription{}}, log)
	return New(
		log,
		&fakeCatalogStore{menus: []catalog.MenuList{{ID: 1, Name: "Veg Weekly", Active: true}}},
		nil, // catalog admin paths not exercised here
		&fakeCustomerStore{profiles: map[int64]*customers.Profile{
			7: {ID: 7, FirstName: "Asha", Phone: "+919876543210"},
		}},
		&fakeNotifStore{unread: map[int64][]notifications.Notification{
			7: {{ID: 1, CustomerID: 7, Type: notifications.TypeDelivery, Title: "Your meal is on the way"}},
		}},
		subsSvc,
		nil, nil, nil, nil, nil,
		http.NotFoundHandler(),
	)
}

func TestListMenus(t *testing.T) {
	mux := testMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/menus", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Veg Weekly")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestCreateAndGetItem(t *testing.T) {
	mux := testMux(t)

	body := strings.NewReader(`{
		"category_id": 1, "name": "Dal Tadka", "price": "120.00", "prep_minutes": 20,
		"options": [{"name":"spice","kind":"choice","values":["mild","hot"]}]
	}`)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/catalog/items", body))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/items/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dal Tadka")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/items/9", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateItemBadPrice(t *testing.T) {
	mux := testMux(t)

	body := strings.NewReader(`{"category_id":1,"name":"Dal","price":"free"}`)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/catalog/items", body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCustomer(t *testing.T) {
	mux := testMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/7", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Asha")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/99", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCustomerBadPhone(t *testing.T) {
	mux := testMux(t)

	body := strings.NewReader(`{"FirstName":"Ravi","Phone":"not-a-phone"}`)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/customers", body))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestNotificationsScoped(t *testing.T) {
	mux := testMux(t)

	// Own notifications are visible.
	req := httptest.NewRequest(http.MethodGet, "/customers/7/notifications", nil)
	req.Header.Set("X-Customer-ID", "7")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "on the way")

	// Someone else's are not.
	req = httptest.NewRequest(http.MethodGet, "/customers/7/notifications", nil)
	req.Header.Set("X-Customer-ID", "8")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Staff sees everything.
	req = httptest.NewRequest(http.MethodGet, "/customers/7/notifications", nil)
	req.Header.Set("X-Customer-ID", "8")
	req.Header.Set("X-Staff", "true")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMarkNotificationReadNotFound(t *testing.T) {
	mux := testMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/notifications/42/read", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateSubscription(t *testing.T) {
	mux := testMux(t)

	body := strings.NewReader(`{
		"customer_id": 7, "menu_id": 1, "time_slot_id": 1,
		"start_date": "2024-01-01", "end_date": "2024-01-07",
		"selected_days": ["MON","WED","FRI"],
		"payment_mode": "cash", "delivery_notification": true
	}`)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/subscriptions", body))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"ID":1`)
}

func TestCreateSubscriptionRejectsLongRange(t *testing.T) {
	mux := testMux(t)

	body := strings.NewReader(`{
		"customer_id": 7, "menu_id": 1, "time_slot_id": 1,
		"start_date": "2024-01-01", "end_date": "2024-03-01",
		"selected_days": ["MON"], "payment_mode": "cash"
	}`)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/subscriptions", body))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "duration")
}

func TestListSubscriptionsForbiddenWithoutScope(t *testing.T) {
	mux := testMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/7/subscriptions", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestScopeFrom(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Customer-ID", "12")
	s := scopeFrom(req)
	assert.Equal(t, int64(12), s.CustomerID)
	assert.False(t, s.Staff)

	req.Header.Set("X-Staff", "true")
	assert.True(t, scopeFrom(req).Staff)

	// Garbage header leaves the zero scope.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Customer-ID", "abc")
	assert.Equal(t, customers.Scope{}, scopeFrom(req))
}

func TestBadDatesRejectedEarly(t *testing.T) {
	mux := testMux(t)

	body := strings.NewReader(`{"start_date":"01/01/2024","end_date":"2024-01-07"}`)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/subscriptions", body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

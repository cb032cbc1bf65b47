// Package api is the thin collaborator-facing surface over the core
// services. Authentication happens upstream; the gateway forwards the
// resolved identity in X-Customer-ID / X-Staff headers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dailytiffin/mealsub/internal/domain/billing"
	"github.com/dailytiffin/mealsub/internal/domain/catalog"
	"github.com/dailytiffin/mealsub/internal/domain/customers"
	"github.com/dailytiffin/mealsub/internal/domain/inventory"
	"github.com/dailytiffin/mealsub/internal/domain/notifications"
	"github.com/dailytiffin/mealsub/internal/domain/reports"
	"github.com/dailytiffin/mealsub/internal/domain/schedule"
	"github.com/dailytiffin/mealsub/internal/domain/subscriptions"
)

type CatalogStore interface {
	CreateCategory(ctx context.Context, name, description, imageURL string) (*catalog.Category, error)
	ListActiveCategories(ctx context.Context) ([]catalog.Category, error)
	DeactivateCategory(ctx context.Context, id int64) error
	CreateItem(ctx context.Context, it catalog.Item) (*catalog.Item, error)
	GetItem(ctx context.Context, id int64) (*catalog.Item, error)
	ListActiveItems(ctx context.Context) ([]catalog.Item, error)
	CreateMenu(ctx context.Context, m catalog.MenuList) (*catalog.MenuList, error)
	ListActiveMenus(ctx context.Context) ([]catalog.MenuList, error)
	ListActiveTimeSlots(ctx context.Context) ([]catalog.TimeSlot, error)
}

type InventoryStore interface {
	CreateIngredient(ctx context.Context, ing inventory.Ingredient) (*inventory.Ingredient, error)
	ListUsagesByIngredient(ctx context.Context, ingredientID int64) ([]inventory.IngredientUsage, error)
}

type CustomerStore interface {
	Create(ctx context.Context, p customers.Profile) (*customers.Profile, error)
	GetByID(ctx context.Context, id int64) (*customers.Profile, error)
}

type NotificationStore interface {
	ListUnread(ctx context.Context, customerID int64) ([]notifications.Notification, error)
	MarkRead(ctx context.Context, id int64) error
}

type API struct {
	log        *slog.Logger
	catalog    CatalogStore
	catalogSvc *catalog.Service
	customers  CustomerStore
	notifs     NotificationStore
	subs       *subscriptions.Service
	schedule   *schedule.Service
	billing    *billing.Service
	inventory  *inventory.Service
	invStore   InventoryStore
	reports    *reports.Service
}

func New(
	log *slog.Logger,
	cat CatalogStore,
	catSvc *catalog.Service,
	cust CustomerStore,
	notifs NotificationStore,
	subs *subscriptions.Service,
	sched *schedule.Service,
	bill *billing.Service,
	inv *inventory.Service,
	invStore InventoryStore,
	rep *reports.Service,
	paymentConfirm http.Handler,
) *http.ServeMux {
	a := &API{
		log: log, catalog: cat, catalogSvc: catSvc, customers: cust, notifs: notifs,
		subs: subs, schedule: sched, billing: bill, inventory: inv, invStore: invStore, reports: rep,
	}

	mux := http.NewServeMux()
	mux.Handle("POST /payments/confirm", paymentConfirm)

	mux.HandleFunc("GET /catalog/categories", a.listCategories)
	mux.HandleFunc("POST /catalog/categories", a.createCategory)
	mux.HandleFunc("POST /catalog/categories/{id}/deactivate", a.deactivateCategory)
	mux.HandleFunc("GET /catalog/items", a.listItems)
	mux.HandleFunc("POST /catalog/items", a.createItem)
	mux.HandleFunc("GET /catalog/items/{id}", a.getItem)
	mux.HandleFunc("POST /catalog/items/{id}/deactivate", a.deactivateItem)
	mux.HandleFunc("GET /catalog/menus", a.listMenus)
	mux.HandleFunc("POST /catalog/menus", a.createMenu)
	mux.HandleFunc("PUT /catalog/menus/{id}/items", a.setMenuItems)
	mux.HandleFunc("POST /catalog/menus/{id}/activate", a.activateMenu)
	mux.HandleFunc("GET /catalog/timeslots", a.listTimeSlots)
	mux.HandleFunc("POST /catalog/timeslots", a.createTimeSlot)

	mux.HandleFunc("POST /customers", a.createCustomer)
	mux.HandleFunc("GET /customers/{id}", a.getCustomer)
	mux.HandleFunc("GET /customers/{id}/notifications", a.listNotifications)
	mux.HandleFunc("POST /notifications/{id}/read", a.markNotificationRead)

	mux.HandleFunc("POST /subscriptions", a.createSubscription)
	mux.HandleFunc("DELETE /subscriptions/{id}", a.deleteSubscription)
	mux.HandleFunc("GET /customers/{id}/subscriptions", a.listSubscriptions)
	mux.HandleFunc("POST /subscriptions/{id}/schedule", a.materialize)

	mux.HandleFunc("GET /deliveries", a.listDeliveries)
	mux.HandleFunc("POST /deliveries/{id}/transition", a.transitionDelivery)

	mux.HandleFunc("POST /payments", a.recordPayment)
	mux.HandleFunc("GET /subscriptions/{id}/payments", a.listPayments)
	mux.HandleFunc("POST /payments/{id}/invoice", a.issueInvoice)
	mux.HandleFunc("GET /invoices/unpaid", a.listUnpaidInvoices)
	mux.HandleFunc("POST /invoices/{id}/paid", a.markInvoicePaid)

	mux.HandleFunc("POST /ingredients", a.createIngredient)
	mux.HandleFunc("POST /ingredients/{id}/consume", a.consumeIngredient)
	mux.HandleFunc("POST /ingredients/{id}/restock", a.restockIngredient)
	mux.HandleFunc("GET /ingredients/{id}/usages", a.listUsages)
	mux.HandleFunc("GET /ingredients/low-stock", a.lowStock)

	mux.HandleFunc("POST /reports", a.generateReport)
	mux.HandleFunc("GET /reports", a.listReports)

	return mux
}

/* helpers */

func scopeFrom(r *http.Request) customers.Scope {
	var s customers.Scope
	if id, err := strconv.ParseInt(r.Header.Get("X-Customer-ID"), 10, 64); err == nil {
		s.CustomerID = id
	}
	s.Staff = r.Header.Get("X-Staff") == "true"
	return s
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func (a *API) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Error("response encoding failed", "err", err)
	}
}

// writeError maps core error kinds onto HTTP codes; the core itself never
// formats presentation text.
func (a *API) writeError(w http.ResponseWriter, err error) {
	var (
		ve  *subscriptions.ValidationError
		ite *schedule.InvalidTransitionError
		ise *billing.InvalidStatusError
	)
	switch {
	case errors.As(err, &ve),
		errors.Is(err, billing.ErrBadAmount),
		errors.Is(err, inventory.ErrBadQty),
		errors.Is(err, billing.ErrNotSettled),
		errors.Is(err, catalog.ErrBadTimeSlot),
		errors.Is(err, catalog.ErrEmptyMenu),
		errors.Is(err, catalog.ErrInactiveItem),
		errors.Is(err, customers.ErrBadPhone):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &ite), errors.As(err, &ise),
		errors.Is(err, catalog.ErrItemInUse),
		errors.Is(err, billing.ErrDuplicateTransaction),
		errors.Is(err, billing.ErrInvoiceExists),
		errors.Is(err, billing.ErrConflict),
		errors.Is(err, inventory.ErrConflict),
		errors.Is(err, schedule.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, billing.ErrForbidden), errors.Is(err, subscriptions.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, billing.ErrNotFound),
		errors.Is(err, subscriptions.ErrNotFound),
		errors.Is(err, schedule.ErrNotFound),
		errors.Is(err, inventory.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, customers.ErrNotFound),
		errors.Is(err, notifications.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		a.log.Error("request failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

/* catalog */

func (a *API) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := a.catalog.ListActiveCategories(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, cats)
}

func (a *API) createCategory(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		ImageURL    string `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if in.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	c, err := a.catalog.CreateCategory(r.Context(), in.Name, in.Description, in.ImageURL)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, c)
}

// deactivateCategory soft-deletes the category and its items together.
func (a *API) deactivateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "bad category id", http.StatusBadRequest)
		return
	}
	if err := a.catalog.DeactivateCategory(r.Context(), id); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := a.catalog.ListActiveItems(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, items)
}

type itemRequest struct {
	CategoryID  int64                  `json:"category_id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Price       string                 `json:"price"`
	PrepMinutes int                    `json:"prep_minutes"`
	Options     []catalog.CustomOption `json:"options"`
}

func (a *API) createItem(w http.ResponseWriter, r *http.Request) {
	var in itemRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	price, err := decimal.NewFromString(in.Price)
	if err != nil {
		http.Error(w, "bad price", http.StatusBadRequest)
		return
	}
	it, err := a.catalog.CreateItem(r.Context(), catalog.Item{
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: in.Description,
		Price:       price,
		PrepMinutes: in.PrepMinutes,
		Options:     in.Options,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, it)
}

func (a *API) getItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "bad item id", http.StatusBadRequest)
		return
	}
	it, err := a.catalog.GetItem(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if it == nil {
		a.writeError(w, catalog.ErrNotFound)
		return
	}
	a.writeJSON(w, http.StatusOK, it)
}

type menuRequest struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	PackagePrice *string `json:"package_price"`
	ItemIDs      []int64 `json:"item_ids"`
}

func (a *API) createMenu(w http.ResponseWriter, r *http.Request) {
	var in menuRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	m := catalog.MenuList{Name: in.Name, Description: in.Description, ItemIDs: in.ItemIDs}
	if in.PackagePrice != nil {
		price, err := decimal.NewFromString(*in.PackagePrice)
		if err != nil {
			http.Error(w, "bad package_price", http.StatusBadRequest)
			return
		}
		m.PackagePrice = &price
	}
	out, err := a.catalog.CreateMenu(r.Context(), m)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, out)
}

func (a *API) listMenus(w http.ResponseWriter, r *http.Request) {
	menus, err := a.catalog.ListActiveMenus(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, menus)
}

func (a *API) listTimeSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := a.catalog.ListActiveTimeSlots(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, slots)
}

func (a *API) createTimeSlot(w http.ResponseWriter, r *http.Request) {
	var in struct {
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	slot, err := a.catalogSvc.CreateTimeSlot(r.Context(), in.StartTime, in.EndTime)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, slot)
}

func (a *API) deactivateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "bad item id", http.StatusBadRequest)
		return
	}
	if err := a.catalogSvc.DeactivateItem(r.Context(), id); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) setMenuItems(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "bad menu id", http.StatusBadRequest)
		return
	}
	var in struct {
		ItemIDs []int64 `json:"item_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := a.catalogSvc.UpdateMenuItems(r.Context(), id, in.ItemIDs); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) activateMenu(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "bad menu id", http.StatusBadRequest)
		return
	}
	if err := a.catalogSvc.ActivateMenu(r.Context(), id); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/* customers */

func (a *API) createCustomer(w http.ResponseWriter, r *http.Request) {
	var in customers.Profile
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	p, err := a.customers.Create(r.Context(), in)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, p)
}

func (a *API) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "bad customer id", http.StatusBadRequest)
		return
	}
	p, err := a.customers.GetByID(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if p == nil {
		a.writeError(w, customers.ErrNotFound)
		return
	}
	a.writeJSON(w, http.StatusOK, p)
}

func (a *API) listNotifications(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "bad customer id", http.StatusBadRequest)
		return
	}
	scope := scopeFrom(r)
	if !scope.CanSee(id) {
		a.writeError(w, subscriptions.ErrForbidden)
		return
	}
	ns, err := a.notifs.ListUnread(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, ns)
}

func (a *API) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "bad notification id", http.StatusBadRequest)
		return
	}
	if err := a.notifs.MarkRead(r.Context(), id); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/* subscriptions */

type subscriptionRequest struct {
	CustomerID int64    `json:"customer_id"`
	MenuID     int64    `json:"menu_id"`
	TimeSlotID int64    `json:"time_slot_id"`
	StartDate  string   `json:"start_date"` // YYYY-MM-DD
	EndDate    string   `json:"end_date"`
	Days       []string `json:"selected_days"`
	Mode       string   `json:"payment_mode"`
	Notify     bool     `json:"delivery_notification"`
}

func (a *API) createSubscription(w http.ResponseWriter, r *http.Request) {
	var in subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	start, err := time.Parse(time.DateOnly, in.StartDate)
	if err != nil {
		http.Error(w, "bad start_date", http.StatusBadRequest)
		return
	}
	end, err := time.Parse(time.DateOnly, in.EndDate)
	if err != nil {
		http.Error(w, "bad end_date", http.StatusBadRequest)
		return
	}
	days := subscriptions.DaySet{}
	for _, d := range in.Days {
		days[subscriptions.Weekday(d)] = true
	}

	sub, err := a.subs.ValidateAndCreate(r.Context(), subscriptions.Request{
		CustomerID: in.CustomerID,
		MenuID:     in.MenuID,
		TimeSlotID: in.TimeSlotID,
		StartDate:  start,
		EndDate:    end,
		Days:       days,
		Mode:       subscriptions.PaymentMode(in.Mode),
		Notify:     in.Notify,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, sub)
}

func (a *API) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r)
	if err != nil {
		http.Error(w, "bad customer id", http.StatusBadRequest)
		return
	}
	subs, err := a.subs.ListForCustomer(r.Context(), scopeFrom(r), customerID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, subs)
}

func (a *API) deleteSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "bad subscription id", http.StatusBadRequest)
		return
	}
	if err := a.subs.Delete(r.Context(), scopeFrom(r), id); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/* schedule */

func (a *API) materialize(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "bad subscription id", http.StatusBadRequest)
		return
	}
	occs, err := a.schedule.Materialize(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, occs)
}

func (a *API) listDeliveries(w http.ResponseWriter, r *http.Request) {
	var f schedule.Filter
	if s := r.URL.Query().Get("status"); s != "" {
		st := schedule.Status(s)
		f.Status = &st
	}
	if s := r.URL.Query().Get("from"); s != "" {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "bad from date", http.StatusBadRequest)
			return
		}
		f.DateFrom = &d
	}
	if s := r.URL.Query().Get("to"); s != "" {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "bad to date", http.StatusBadRequest)
			return
		}
		f.DateTo = &d
	}
	occs, err := a.schedule.List(r.Context(), f)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, occs)
}

func (a *API) transitionDelivery(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "bad delivery id", http.StatusBadRequest)
		return
	}
	to := schedule.Status(r.URL.Query().Get("to"))
	occ, err := a.schedule.Transition(r.Context(), id, to, r.URL.Query().Get("notes"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, occ)
}

/* billing */

type paymentRequest struct {
	SubscriptionID int64  `json:"subscription_id"`
	Amount         string `json:"amount"`
	TransactionID  string `json:"transaction_id"`
	Method         string `json:"method"`
}

func (a *API) recordPayment(w http.ResponseWriter, r *http.Request) {
	var in paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	amount, err := decimal.NewFromString(in.Amount)
	if err != nil {
		http.Error(w, "bad amount", http.StatusBadRequest)
		return
	}
	p, err := a.billing.RecordPayment(r.Context(), in.SubscriptionID, amount, in.TransactionID,
		subscriptions.PaymentMode(in.Method))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, p)
}

func (a *API) listPayments(w http.ResponseWriter, r *http.Request) {
	subID, err := pathID(r)
	if err != nil {
		http.Error(w, "bad subscription id", http.StatusBadRequest)
		return
	}
	ps, err := a.billing.ListPayments(r.Context(), scopeFrom(r), subID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, ps)
}

func (a *API) issueInvoice(w http.ResponseWriter, r *http.Request) {
	paymentID, err := pathID(r)
	if err != nil {
		http.Error(w, "bad payment id", http.StatusBadRequest)
		return
	}
	inv, err := a.billing.IssueInvoice(r.Context(), paymentID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, inv)
}

func (a *API) listUnpaidInvoices(w http.ResponseWriter, r *http.Request) {
	invs, err := a.billing.ListUnpaidInvoices(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, invs)
}

func (a *API) markInvoicePaid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "bad invoice id", http.StatusBadRequest)
		return
	}
	if err := a.billing.MarkInvoicePaid(r.Context(), id); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/* inventory */

type ingredientRequest struct {
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Quantity    string `json:"quantity"`
	MinStock    string `json:"min_stock"`
	CostPerUnit string `json:"cost_per_unit"`
	Supplier    string `json:"supplier"`
}

func (a *API) createIngredient(w http.ResponseWriter, r *http.Request) {
	var in ingredientRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	qty, err := decimal.NewFromString(in.Quantity)
	if err != nil {
		http.Error(w, "bad quantity", http.StatusBadRequest)
		return
	}
	minStock, err := decimal.NewFromString(in.MinStock)
	if err != nil {
		http.Error(w, "bad min_stock", http.StatusBadRequest)
		return
	}
	cost, err := decimal.NewFromString(in.CostPerUnit)
	if err != nil {
		http.Error(w, "bad cost_per_unit", http.StatusBadRequest)
		return
	}
	ing, err := a.invStore.CreateIngredient(r.Context(), inventory.Ingredient{
		Name:        in.Name,
		Unit:        in.Unit,
		Quantity:    qty,
		MinStock:    minStock,
		CostPerUnit: cost,
		Supplier:    in.Supplier,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, ing)
}

func (a *API) listUsages(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "bad ingredient id", http.StatusBadRequest)
		return
	}
	usages, err := a.invStore.ListUsagesByIngredient(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, usages)
}

type consumeRequest struct {
	ItemID int64  `json:"item_id"`
	Qty    string `json:"qty"`
}

func (a *API) consumeIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "bad ingredient id", http.StatusBadRequest)
		return
	}
	var in consumeRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	qty, err := decimal.NewFromString(in.Qty)
	if err != nil {
		http.Error(w, "bad qty", http.StatusBadRequest)
		return
	}
	usage, err := a.inventory.Consume(r.Context(), id, in.ItemID, qty)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, usage)
}

func (a *API) restockIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "bad ingredient id", http.StatusBadRequest)
		return
	}
	var in struct {
		Qty string `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	qty, err := decimal.NewFromString(in.Qty)
	if err != nil {
		http.Error(w, "bad qty", http.StatusBadRequest)
		return
	}
	ing, err := a.inventory.Restock(r.Context(), id, qty)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, ing)
}

func (a *API) lowStock(w http.ResponseWriter, r *http.Request) {
	ings, err := a.inventory.LowStock(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, ings)
}

/* reports */

func (a *API) generateReport(w http.ResponseWriter, r *http.Request) {
	asOf, err := time.Parse(time.DateOnly, r.URL.Query().Get("as_of"))
	if err != nil {
		http.Error(w, "bad as_of date", http.StatusBadRequest)
		return
	}
	t := reports.Type(r.URL.Query().Get("type"))
	if _, err := reports.WindowFor(t, asOf); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rep, err := a.reports.Generate(r.Context(), t, asOf)
	if err != nil {
		a.writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "xlsx" {
		data, err := reports.ExportXLSX(rep)
		if err != nil {
			a.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(data)
		return
	}
	a.writeJSON(w, http.StatusCreated, rep)
}

func (a *API) listReports(w http.ResponseWriter, r *http.Request) {
	reps, err := a.reports.List(r.Context(), reports.Type(r.URL.Query().Get("type")))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, reps)
}

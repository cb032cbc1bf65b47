package payments

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dailytiffin/mealsub/internal/domain/billing"
)

// Handler receives the external payment gateway's confirmation callback:
// POST /payments/confirm?tx=<transaction>&status=success|failed
// The gateway may deliver the same event more than once; the billing
// service treats replays as no-ops.
type Handler struct {
	log     *slog.Logger
	billing *billing.Service
}

func NewHandler(log *slog.Logger, b *billing.Service) *Handler {
	return &Handler{log: log, billing: b}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	tx := r.URL.Query().Get("tx")
	if tx == "" {
		http.Error(w, "missing tx parameter", http.StatusBadRequest)
		return
	}

	var to billing.Status
	switch r.URL.Query().Get("status") {
	case "success":
		to = billing.StatusSuccess
	case "failed":
		to = billing.StatusFailed
	default:
		http.Error(w, "status must be success or failed", http.StatusBadRequest)
		return
	}

	p, err := h.billing.UpdatePaymentStatus(ctx, tx, to)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(p.Status))
	case errors.Is(err, billing.ErrNotFound):
		http.Error(w, "unknown transaction", http.StatusNotFound)
	default:
		var ise *billing.InvalidStatusError
		if errors.As(err, &ise) {
			http.Error(w, ise.Error(), http.StatusConflict)
			return
		}
		h.log.Error("payment confirmation failed", "tx", tx, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

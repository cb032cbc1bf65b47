package billing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"

	"github.com/dailytiffin/mealsub/internal/domain/customers"
	"github.com/dailytiffin/mealsub/internal/domain/subscriptions"
	"github.com/dailytiffin/mealsub/internal/infra/metrics"
)

var (
	ErrDuplicateTransaction = errors.New("billing: transaction id already recorded")
	ErrNotFound             = errors.New("billing: not found")
	ErrConflict             = errors.New("billing: concurrent update, retry with a fresh read")
	ErrNotSettled           = errors.New("billing: invoice requires a SUCCESS payment")
	ErrInvoiceExists        = errors.New("billing: payment already has an invoice")
	ErrBadAmount            = errors.New("billing: amount must be positive")
	ErrForbidden            = errors.New("billing: caller may not see this subscription")
)

type Store interface {
	CreatePayment(ctx context.Context, p Payment) (*Payment, error)
	GetPayment(ctx context.Context, id int64) (*Payment, error)
	GetPaymentByTransaction(ctx context.Context, txID string) (*Payment, error)
	// SetPaymentStatusFrom flips status only when the row still holds `from`.
	SetPaymentStatusFrom(ctx context.Context, id int64, from, to Status) (bool, error)
	ListPaymentsBySubscription(ctx context.Context, subID int64) ([]Payment, error)
	// NextInvoiceSeq increments the dedicated counter row and returns the new
	// value; the increment must be a single atomic read-modify-write.
	NextInvoiceSeq(ctx context.Context) (int64, error)
	CreateInvoice(ctx context.Context, inv Invoice) (*Invoice, error)
	GetInvoiceForPayment(ctx context.Context, paymentID int64) (*Invoice, error)
	ListUnpaidInvoices(ctx context.Context) ([]Invoice, error)
	MarkInvoicePaid(ctx context.Context, id int64) error
}

type SubscriptionStore interface {
	GetByID(ctx context.Context, id int64) (*subscriptions.Subscription, error)
}

type Service struct {
	store   Store
	subs    SubscriptionStore
	log     *slog.Logger
	now     func() time.Time
	dueDays int
}

func NewService(store Store, subs SubscriptionStore, log *slog.Logger, invoiceDueDays int) *Service {
	return &Service{store: store, subs: subs, log: log, now: time.Now, dueDays: invoiceDueDays}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// conflictBackoff bounds internal retries of lost-update conflicts; after
// that the caller gets ErrConflict and must re-read.
func conflictBackoff() retry.Backoff {
	return retry.WithMaxRetries(2, retry.NewConstant(20*time.Millisecond))
}

// RecordPayment registers an incoming payment as PENDING. Gateway callbacks
// replay safely: a reused transaction id is rejected without touching the
// original row. Cash payments arrive without a gateway id; one is minted.
func (s *Service) RecordPayment(ctx context.Context, subID int64, amount decimal.Decimal, txID string, method subscriptions.PaymentMode) (*Payment, error) {
	if amount.Sign() <= 0 {
		return nil, ErrBadAmount
	}
	sub, err := s.subs.GetByID(ctx, subID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNotFound
	}
	if txID == "" {
		txID = uuid.NewString()
	}

	p, err := s.store.CreatePayment(ctx, Payment{
		SubscriptionID: subID,
		Amount:         amount,
		TransactionID:  txID,
		Status:         StatusPending,
		Method:         method,
	})
	if err != nil {
		return nil, err
	}
	metrics.PaymentsRecorded.WithLabelValues(string(method)).Inc()
	s.log.Info("payment recorded", "payment_id", p.ID, "subscription_id", subID, "tx", txID)
	return p, nil
}

// UpdatePaymentStatus applies an external confirmation event. Idempotent:
// confirming an already-confirmed payment with the same status is a no-op.
func (s *Service) UpdatePaymentStatus(ctx context.Context, transactionID string, to Status) (*Payment, error) {
	var out *Payment
	err := retry.Do(ctx, conflictBackoff(), func(ctx context.Context) error {
		p, err := s.store.GetPaymentByTransaction(ctx, transactionID)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrNotFound
		}
		if p.Status == to {
			out = p // replayed event, nothing to do
			return nil
		}
		if !CanTransition(p.Status, to) {
			return &InvalidStatusError{From: p.Status, To: to}
		}
		changed, err := s.store.SetPaymentStatusFrom(ctx, p.ID, p.Status, to)
		if err != nil {
			return err
		}
		if !changed {
			return retry.RetryableError(ErrConflict)
		}
		p.Status = to
		out = p
		metrics.PaymentStatusChanges.WithLabelValues(string(to)).Inc()
		s.log.Info("payment status updated", "payment_id", p.ID, "status", to)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// IssueInvoice allocates the next sequential number and binds it to a
// settled payment. At most one invoice per payment.
func (s *Service) IssueInvoice(ctx context.Context, paymentID int64) (*Invoice, error) {
	p, err := s.store.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	if p.Status != StatusSuccess {
		return nil, ErrNotSettled
	}

	var out *Invoice
	err = retry.Do(ctx, conflictBackoff(), func(ctx context.Context) error {
		seq, err := s.store.NextInvoiceSeq(ctx)
		if err != nil {
			if errors.Is(err, ErrConflict) {
				return retry.RetryableError(err)
			}
			return err
		}
		inv, err := s.store.CreateInvoice(ctx, Invoice{
			PaymentID: paymentID,
			Number:    InvoiceNumber(seq),
			DueDate:   s.now().AddDate(0, 0, s.dueDays),
		})
		if err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.InvoicesIssued.Inc()
	s.log.Info("invoice issued", "invoice", out.Number, "payment_id", paymentID)
	return out, nil
}

// ListPayments scopes reads to the subscription's owner or staff.
func (s *Service) ListPayments(ctx context.Context, scope customers.Scope, subID int64) ([]Payment, error) {
	sub, err := s.subs.GetByID(ctx, subID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNotFound
	}
	if !scope.CanSee(sub.CustomerID) {
		return nil, ErrForbidden
	}
	return s.store.ListPaymentsBySubscription(ctx, subID)
}

func (s *Service) ListUnpaidInvoices(ctx context.Context) ([]Invoice, error) {
	return s.store.ListUnpaidInvoices(ctx)
}

func (s *Service) MarkInvoicePaid(ctx context.Context, invoiceID int64) error {
	return s.store.MarkInvoicePaid(ctx, invoiceID)
}

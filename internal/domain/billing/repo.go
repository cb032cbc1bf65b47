package billing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dailytiffin/mealsub/internal/domain/subscriptions"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const payColumns = `id, subscription_id, amount, transaction_id, status, method, created_at`

func (r *Repo) CreatePayment(ctx context.Context, p Payment) (*Payment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO payments (subscription_id, amount, transaction_id, status, method)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING `+payColumns,
		p.SubscriptionID, p.Amount, p.TransactionID, string(p.Status), string(p.Method))
	out, err := scanPayment(row)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateTransaction
	}
	return out, err
}

func (r *Repo) GetPayment(ctx context.Context, id int64) (*Payment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+payColumns+` FROM payments WHERE id=$1`, id)
	p, err := scanPayment(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *Repo) GetPaymentByTransaction(ctx context.Context, txID string) (*Payment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+payColumns+` FROM payments WHERE transaction_id=$1`, txID)
	p, err := scanPayment(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *Repo) SetPaymentStatusFrom(ctx context.Context, id int64, from, to Status) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE payments SET status=$3 WHERE id=$1 AND status=$2
	`, id, string(from), string(to))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repo) ListPaymentsBySubscription(ctx context.Context, subID int64) ([]Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+payColumns+` FROM payments
		WHERE subscription_id=$1 ORDER BY created_at, id
	`, subID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// NextInvoiceSeq bumps the dedicated counter row. The whole read-modify-write
// is one statement, so concurrent issuers serialize on the row lock and can
// never observe the same value.
func (r *Repo) NextInvoiceSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := r.pool.QueryRow(ctx,
		`UPDATE invoice_counter SET value = value + 1 WHERE id = TRUE RETURNING value`,
	).Scan(&seq)
	return seq, err
}

const invColumns = `id, payment_id, number, due_date, paid, created_at`

func (r *Repo) CreateInvoice(ctx context.Context, inv Invoice) (*Invoice, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO invoices (payment_id, number, due_date)
		VALUES ($1,$2,$3)
		RETURNING `+invColumns,
		inv.PaymentID, inv.Number, inv.DueDate)
	out, err := scanInvoice(row)
	if isUniqueViolation(err) {
		return nil, ErrInvoiceExists
	}
	return out, err
}

func (r *Repo) GetInvoiceForPayment(ctx context.Context, paymentID int64) (*Invoice, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+invColumns+` FROM invoices WHERE payment_id=$1`, paymentID)
	inv, err := scanInvoice(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return inv, err
}

func (r *Repo) ListUnpaidInvoices(ctx context.Context) ([]Invoice, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+invColumns+` FROM invoices WHERE NOT paid ORDER BY due_date, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

func (r *Repo) MarkInvoicePaid(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE invoices SET paid=TRUE WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	var status, method string
	if err := row.Scan(&p.ID, &p.SubscriptionID, &p.Amount, &p.TransactionID, &status, &method, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Status = Status(status)
	p.Method = subscriptions.PaymentMode(method)
	return &p, nil
}

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	if err := row.Scan(&inv.ID, &inv.PaymentID, &inv.Number, &inv.DueDate, &inv.Paid, &inv.CreatedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

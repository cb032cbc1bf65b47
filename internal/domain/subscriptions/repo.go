package subscriptions

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const subColumns = `id, customer_id, menu_id, time_slot_id, start_date, end_date, selected_days, payment_mode, notify, created_at`

func (r *Repo) Create(ctx context.Context, sub Subscription) (*Subscription, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO subscriptions (customer_id, menu_id, time_slot_id, start_date, end_date, selected_days, payment_mode, notify)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING `+subColumns,
		sub.CustomerID, sub.MenuID, sub.TimeSlotID, sub.StartDate, sub.EndDate,
		sub.Days.Strings(), string(sub.Mode), sub.Notify)
	return scanSub(row)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Subscription, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+subColumns+` FROM subscriptions WHERE id=$1`, id)
	s, err := scanSub(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *Repo) ListByCustomer(ctx context.Context, customerID int64) ([]Subscription, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+subColumns+` FROM subscriptions
		WHERE customer_id=$1 ORDER BY start_date DESC, id DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Subscription
	for rows.Next() {
		s, err := scanSub(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// Delete removes a subscription; its delivery occurrences go with it
// (ON DELETE CASCADE; occurrences are derived data, regenerable).
func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subscriptions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSub(row pgx.Row) (*Subscription, error) {
	var s Subscription
	var days []string
	var mode string
	if err := row.Scan(&s.ID, &s.CustomerID, &s.MenuID, &s.TimeSlotID,
		&s.StartDate, &s.EndDate, &days, &mode, &s.Notify, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.Mode = PaymentMode(mode)
	s.Days = make(DaySet, len(days))
	for _, d := range days {
		wd, err := ParseWeekday(d)
		if err != nil {
			return nil, err
		}
		s.Days[wd] = true
	}
	return &s, nil
}

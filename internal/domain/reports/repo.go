package reports

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) SubscriptionStats(ctx context.Context, w Window) (SubscriptionStats, error) {
	var s SubscriptionStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT customer_id)
		FROM subscriptions
		WHERE start_date >= $1 AND end_date <= $2
	`, w.From, w.To).Scan(&s.Count, &s.DistinctClients)
	return s, err
}

func (r *Repo) PaymentStats(ctx context.Context, w Window) (PaymentStats, error) {
	s := PaymentStats{ByMethod: map[string]int{}}
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE status = 'SUCCESS' AND created_at::date BETWEEN $1 AND $2
	`, w.From, w.To).Scan(&s.Revenue)
	if err != nil {
		return s, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT method, COUNT(*)
		FROM payments
		WHERE status = 'SUCCESS' AND created_at::date BETWEEN $1 AND $2
		GROUP BY method
	`, w.From, w.To)
	if err != nil {
		return s, err
	}
	defer rows.Close()
	for rows.Next() {
		var method string
		var count int
		if err := rows.Scan(&method, &count); err != nil {
			return s, err
		}
		s.ByMethod[method] = count
	}
	return s, rows.Err()
}

func (r *Repo) Save(ctx context.Context, rep Report) (*Report, error) {
	detail, _ := json.Marshal(rep.Detail)
	row := r.pool.QueryRow(ctx, `
		INSERT INTO reports (type, range_from, range_to, revenue, subscription_count, active_customers, detail, generated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`, string(rep.Type), rep.From, rep.To, rep.Revenue, rep.SubscriptionCount, rep.ActiveCustomers, detail, rep.GeneratedAt)
	if err := row.Scan(&rep.ID); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *Repo) List(ctx context.Context, t Type) ([]Report, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, type, range_from, range_to, revenue, subscription_count, active_customers, detail, generated_at
		FROM reports WHERE type=$1 ORDER BY generated_at DESC
	`, string(t))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Report
	for rows.Next() {
		var rep Report
		var typ string
		var detail []byte
		if err := rows.Scan(&rep.ID, &typ, &rep.From, &rep.To, &rep.Revenue,
			&rep.SubscriptionCount, &rep.ActiveCustomers, &detail, &rep.GeneratedAt); err != nil {
			return nil, err
		}
		rep.Type = Type(typ)
		if len(detail) > 0 {
			_ = json.Unmarshal(detail, &rep.Detail)
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

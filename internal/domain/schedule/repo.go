package schedule

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const occColumns = `id, subscription_id, delivery_date, status, notes, created_at, updated_at`

func (r *Repo) UpsertPending(ctx context.Context, occ DeliverySchedule) error {
	// One row per (subscription, date). The WHERE clause keeps advanced
	// occurrences untouched on re-materialization.
	_, err := r.pool.Exec(ctx, `
		INSERT INTO delivery_schedules (subscription_id, delivery_date, status, notes)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (subscription_id, delivery_date)
		DO UPDATE SET notes = EXCLUDED.notes, updated_at = NOW()
		WHERE delivery_schedules.status = 'PENDING'
	`, occ.SubscriptionID, occ.Date, string(StatusPending), occ.Notes)
	return err
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*DeliverySchedule, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+occColumns+` FROM delivery_schedules WHERE id=$1`, id)
	occ, err := scanOcc(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return occ, err
}

func (r *Repo) ListBySubscription(ctx context.Context, subID int64) ([]DeliverySchedule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+occColumns+` FROM delivery_schedules
		WHERE subscription_id=$1 ORDER BY delivery_date
	`, subID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOccs(rows)
}

func (r *Repo) UpdateStatusFrom(ctx context.Context, id int64, from, to Status, notes string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE delivery_schedules
		SET status=$3, notes=$4, updated_at=NOW()
		WHERE id=$1 AND status=$2
	`, id, string(from), string(to), notes)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repo) ListFiltered(ctx context.Context, f Filter) ([]DeliverySchedule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+occColumns+` FROM delivery_schedules
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::date IS NULL OR delivery_date >= $2)
		  AND ($3::date IS NULL OR delivery_date <= $3)
		ORDER BY delivery_date, id
	`, f.Status, f.DateFrom, f.DateTo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOccs(rows)
}

func scanOcc(row pgx.Row) (*DeliverySchedule, error) {
	var o DeliverySchedule
	var status string
	if err := row.Scan(&o.ID, &o.SubscriptionID, &o.Date, &status, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = Status(status)
	return &o, nil
}

func collectOccs(rows pgx.Rows) ([]DeliverySchedule, error) {
	var out []DeliverySchedule
	for rows.Next() {
		o, err := scanOcc(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

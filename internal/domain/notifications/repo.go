package notifications

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("notifications: not found")

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, n Notification) (*Notification, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (customer_id, type, title, message)
		VALUES ($1,$2,$3,$4)
		RETURNING id, customer_id, type, title, message, read, created_at
	`, n.CustomerID, string(n.Type), n.Title, n.Message)
	var out Notification
	if err := row.Scan(&out.ID, &out.CustomerID, &out.Type, &out.Title, &out.Message, &out.Read, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) ListUnread(ctx context.Context, customerID int64) ([]Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, type, title, message, read, created_at
		FROM notifications
		WHERE customer_id=$1 AND NOT read
		ORDER BY created_at DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.CustomerID, &n.Type, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repo) MarkRead(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE notifications SET read=TRUE WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

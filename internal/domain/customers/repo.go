package customers

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Create is the only write: profiles are insert-only, no update path.
func (r *Repo) Create(ctx context.Context, p Profile) (*Profile, error) {
	if err := ValidatePhone(p.Phone); err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO customer_profiles (first_name, last_name, phone, address, location)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, first_name, last_name, phone, address, location, created_at
	`, p.FirstName, p.LastName, p.Phone, p.Address, p.Location)
	var out Profile
	if err := row.Scan(&out.ID, &out.FirstName, &out.LastName, &out.Phone, &out.Address, &out.Location, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Profile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, phone, address, location, created_at
		FROM customer_profiles WHERE id=$1
	`, id)
	var p Profile
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Phone, &p.Address, &p.Location, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

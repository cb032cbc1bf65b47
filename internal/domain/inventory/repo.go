package inventory

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const ingColumns = `id, name, unit, quantity, min_stock, cost_per_unit, supplier, last_restocked, created_at`

func (r *Repo) CreateIngredient(ctx context.Context, ing Ingredient) (*Ingredient, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO ingredients (name, unit, quantity, min_stock, cost_per_unit, supplier)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING `+ingColumns,
		ing.Name, ing.Unit, ing.Quantity, ing.MinStock, ing.CostPerUnit, ing.Supplier)
	return scanIngredient(row)
}

func (r *Repo) GetIngredient(ctx context.Context, id int64) (*Ingredient, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+ingColumns+` FROM ingredients WHERE id=$1`, id)
	ing, err := scanIngredient(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return ing, err
}

// ApplyUsage runs the decrement and the usage insert in one transaction.
// No stock guard: the balance may go negative.
func (r *Repo) ApplyUsage(ctx context.Context, u IngredientUsage) (*IngredientUsage, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE ingredients SET quantity = quantity - $2 WHERE id = $1
	`, u.IngredientID, u.Qty)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO ingredient_usages (ingredient_id, item_id, qty)
		VALUES ($1,$2,$3)
		RETURNING id, ingredient_id, item_id, qty, created_at
	`, u.IngredientID, u.ItemID, u.Qty)
	var out IngredientUsage
	if err := row.Scan(&out.ID, &out.IngredientID, &out.ItemID, &out.Qty, &out.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) Restock(ctx context.Context, id int64, qty decimal.Decimal, at time.Time) (*Ingredient, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE ingredients
		SET quantity = quantity + $2, last_restocked = $3
		WHERE id = $1
		RETURNING `+ingColumns,
		id, qty, at)
	ing, err := scanIngredient(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return ing, err
}

func (r *Repo) ListLowStock(ctx context.Context) ([]Ingredient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+ingColumns+` FROM ingredients
		WHERE quantity <= min_stock ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ing)
	}
	return out, rows.Err()
}

func (r *Repo) ListUsagesByIngredient(ctx context.Context, ingredientID int64) ([]IngredientUsage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, ingredient_id, item_id, qty, created_at
		FROM ingredient_usages
		WHERE ingredient_id=$1 ORDER BY created_at, id
	`, ingredientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []IngredientUsage
	for rows.Next() {
		var u IngredientUsage
		if err := rows.Scan(&u.ID, &u.IngredientID, &u.ItemID, &u.Qty, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanIngredient(row pgx.Row) (*Ingredient, error) {
	var ing Ingredient
	if err := row.Scan(&ing.ID, &ing.Name, &ing.Unit, &ing.Quantity, &ing.MinStock,
		&ing.CostPerUnit, &ing.Supplier, &ing.LastRestocked, &ing.CreatedAt); err != nil {
		return nil, err
	}
	return &ing, nil
}

package catalog

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

/* Categories */

func (r *Repo) CreateCategory(ctx context.Context, name, description, imageURL string) (*Category, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (name, description, image_url) VALUES ($1,$2,$3)
		RETURNING id, name, description, image_url, active, created_at, updated_at
	`, name, description, imageURL)
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) ListActiveCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, image_url, active, created_at, updated_at
		FROM categories WHERE active ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeactivateCategory soft-deletes a category together with its items.
// Billing history keeps referencing the rows, so nothing is physically removed.
func (r *Repo) DeactivateCategory(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `UPDATE categories SET active=FALSE, updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if _, err := tx.Exec(ctx, `UPDATE items SET active=FALSE WHERE category_id=$1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

/* Items */

func (r *Repo) CreateItem(ctx context.Context, it Item) (*Item, error) {
	opts, _ := json.Marshal(it.Options)
	row := r.pool.QueryRow(ctx, `
		INSERT INTO items (category_id, name, description, price, prep_minutes, options)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, category_id, name, description, price, prep_minutes, options, active, created_at
	`, it.CategoryID, it.Name, it.Description, it.Price, it.PrepMinutes, opts)
	return scanItem(row)
}

func (r *Repo) GetItem(ctx context.Context, id int64) (*Item, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, category_id, name, description, price, prep_minutes, options, active, created_at
		FROM items WHERE id=$1
	`, id)
	it, err := scanItem(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return it, err
}

func (r *Repo) GetItemsByIDs(ctx context.Context, ids []int64) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, category_id, name, description, price, prep_minutes, options, active, created_at
		FROM items WHERE id = ANY($1) ORDER BY id
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

func (r *Repo) ListActiveItems(ctx context.Context) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, category_id, name, description, price, prep_minutes, options, active, created_at
		FROM items WHERE active ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

func (r *Repo) SetItemActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE items SET active=$2 WHERE id=$1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	var opts []byte
	if err := row.Scan(&it.ID, &it.CategoryID, &it.Name, &it.Description, &it.Price,
		&it.PrepMinutes, &opts, &it.Active, &it.CreatedAt); err != nil {
		return nil, err
	}
	if len(opts) > 0 {
		_ = json.Unmarshal(opts, &it.Options)
	}
	return &it, nil
}

func collectItems(rows pgx.Rows) ([]Item, error) {
	var out []Item
	for rows.Next() {
		var it Item
		var opts []byte
		if err := rows.Scan(&it.ID, &it.CategoryID, &it.Name, &it.Description, &it.Price,
			&it.PrepMinutes, &opts, &it.Active, &it.CreatedAt); err != nil {
			return nil, err
		}
		if len(opts) > 0 {
			_ = json.Unmarshal(opts, &it.Options)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

/* Menus */

const menuSelect = `
	SELECT m.id, m.name, m.description, m.package_price, m.active, m.created_at,
	       COALESCE(array_agg(mi.item_id) FILTER (WHERE mi.item_id IS NOT NULL), '{}')
	FROM menus m
	LEFT JOIN menu_items mi ON mi.menu_id = m.id
`

func (r *Repo) CreateMenu(ctx context.Context, m MenuList) (*MenuList, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var price decimal.NullDecimal
	if m.PackagePrice != nil {
		price = decimal.NullDecimal{Decimal: *m.PackagePrice, Valid: true}
	}
	var id int64
	if err := tx.QueryRow(ctx, `
		INSERT INTO menus (name, description, package_price) VALUES ($1,$2,$3)
		RETURNING id
	`, m.Name, m.Description, price).Scan(&id); err != nil {
		return nil, err
	}
	for _, itemID := range m.ItemIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO menu_items (menu_id, item_id) VALUES ($1,$2)`, id, itemID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetMenu(ctx, id)
}

func (r *Repo) GetMenu(ctx context.Context, id int64) (*MenuList, error) {
	row := r.pool.QueryRow(ctx, menuSelect+` WHERE m.id=$1 GROUP BY m.id`, id)
	m, err := scanMenu(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return m, err
}

func (r *Repo) ListActiveMenus(ctx context.Context) ([]MenuList, error) {
	rows, err := r.pool.Query(ctx, menuSelect+` WHERE m.active GROUP BY m.id ORDER BY m.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MenuList
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// ListActiveMenusUsingItem returns the active menus referencing an item,
// the snapshot CheckItemDeactivation wants.
func (r *Repo) ListActiveMenusUsingItem(ctx context.Context, itemID int64) ([]MenuList, error) {
	rows, err := r.pool.Query(ctx, menuSelect+`
		WHERE m.active AND m.id IN (SELECT menu_id FROM menu_items WHERE item_id=$1)
		GROUP BY m.id ORDER BY m.id
	`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MenuList
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *Repo) SetMenuItems(ctx context.Context, menuID int64, itemIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM menu_items WHERE menu_id=$1`, menuID); err != nil {
		return err
	}
	for _, itemID := range itemIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO menu_items (menu_id, item_id) VALUES ($1,$2)`, menuID, itemID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *Repo) SetMenuActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE menus SET active=$2 WHERE id=$1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanMenu(row pgx.Row) (*MenuList, error) {
	var m MenuList
	var price decimal.NullDecimal
	if err := row.Scan(&m.ID, &m.Name, &m.Description, &price, &m.Active, &m.CreatedAt, &m.ItemIDs); err != nil {
		return nil, err
	}
	if price.Valid {
		p := price.Decimal
		m.PackagePrice = &p
	}
	return &m, nil
}

/* Time slots */

func (r *Repo) CreateTimeSlot(ctx context.Context, start, end string) (*TimeSlot, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO time_slots (start_time, end_time) VALUES ($1,$2)
		RETURNING id, start_time, end_time, active, created_at
	`, start, end)
	var t TimeSlot
	if err := row.Scan(&t.ID, &t.StartTime, &t.EndTime, &t.Active, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repo) GetTimeSlot(ctx context.Context, id int64) (*TimeSlot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, start_time, end_time, active, created_at
		FROM time_slots WHERE id=$1
	`, id)
	var t TimeSlot
	if err := row.Scan(&t.ID, &t.StartTime, &t.EndTime, &t.Active, &t.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repo) ListActiveTimeSlots(ctx context.Context) ([]TimeSlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, start_time, end_time, active, created_at
		FROM time_slots WHERE active ORDER BY start_time
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TimeSlot
	for rows.Next() {
		var t TimeSlot
		if err := rows.Scan(&t.ID, &t.StartTime, &t.EndTime, &t.Active, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) SetTimeSlotActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE time_slots SET active=$2 WHERE id=$1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/feastly/restaurant-backend/internal/model"
)

// MenuRepo provides access to menu_items and their ingredient links.
// Deletion is soft: rows keep their identity so reviews and historic
// carts stay valid, and deleted items simply drop out of every query
// through the `deleted_at IS NULL` filter.
type MenuRepo struct {
	db *sql.DB
}

func NewMenuRepo(db *sql.DB) *MenuRepo { return &MenuRepo{db: db} }

const menuColumns = `id, name, description, category, price_cents, is_available, deleted_at, created_at, updated_at`

func scanMenuItem(row interface{ Scan(...any) error }) (*model.MenuItem, error) {
	var (
		m       model.MenuItem
		deleted sql.NullTime
	)
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Category, &m.PriceCents,
		&m.IsAvailable, &deleted, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if deleted.Valid {
		v := deleted.Time
		m.DeletedAt = &v
	}
	return &m, nil
}

// Create inserts a menu item and its ingredient links in one transaction.
func (r *MenuRepo) Create(ctx context.Context, m *model.MenuItem, links []model.MenuItemIngredient) error {
	return withTx(ctx, r.db, func(ctx context.Context) error {
		c := conn(ctx, r.db)
		res, err := c.ExecContext(ctx,
			`INSERT INTO menu_items (name, description, category, price_cents, is_available) VALUES (?, ?, ?, ?, ?)`,
			strings.TrimSpace(m.Name), m.Description, m.Category, m.PriceCents, m.IsAvailable)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		m.ID = uint64(id)
		return r.replaceLinks(ctx, m.ID, links)
	})
}

// GetByID fetches one non-deleted menu item.
func (r *MenuRepo) GetByID(ctx context.Context, id uint64) (*model.MenuItem, error) {
	m, err := scanMenuItem(r.db.QueryRowContext(ctx,
		`SELECT `+menuColumns+` FROM menu_items WHERE id = ? AND deleted_at IS NULL`, id))
	if err == sql.ErrNoRows {
		return nil, ErrMenuItemNotFound
	}
	return m, err
}

// List returns all non-deleted menu items, optionally only available ones.
func (r *MenuRepo) List(ctx context.Context, onlyAvailable bool) ([]model.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu_items WHERE deleted_at IS NULL`
	if onlyAvailable {
		query += ` AND is_available = 1`
	}
	query += ` ORDER BY category, name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// Update rewrites a menu item and replaces its ingredient links.
func (r *MenuRepo) Update(ctx context.Context, m *model.MenuItem, links []model.MenuItemIngredient) error {
	return withTx(ctx, r.db, func(ctx context.Context) error {
		c := conn(ctx, r.db)
		res, err := c.ExecContext(ctx,
			`UPDATE menu_items SET name = ?, description = ?, category = ?, price_cents = ?, is_available = ? WHERE id = ? AND deleted_at IS NULL`,
			strings.TrimSpace(m.Name), m.Description, m.Category, m.PriceCents, m.IsAvailable, m.ID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrMenuItemNotFound
		}
		return r.replaceLinks(ctx, m.ID, links)
	})
}

// SoftDelete stamps deleted_at; the row and its links stay in place.
func (r *MenuRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE menu_items SET deleted_at = NOW() WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

// Ingredients returns the ingredient links of a menu item.
func (r *MenuRepo) Ingredients(ctx context.Context, menuItemID uint64) ([]model.MenuItemIngredient, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT menu_item_id, ingredient_id, quantity FROM menu_item_ingredients WHERE menu_item_id = ?`,
		menuItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.MenuItemIngredient
	for rows.Next() {
		var l model.MenuItemIngredient
		if err := rows.Scan(&l.MenuItemID, &l.IngredientID, &l.Quantity); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *MenuRepo) replaceLinks(ctx context.Context, menuItemID uint64, links []model.MenuItemIngredient) error {
	c := conn(ctx, r.db)
	if _, err := c.ExecContext(ctx, `DELETE FROM menu_item_ingredients WHERE menu_item_id = ?`, menuItemID); err != nil {
		return err
	}
	if len(links) == 0 {
		return nil
	}
	query := `INSERT INTO menu_item_ingredients (menu_item_id, ingredient_id, quantity) VALUES `
	args := make([]any, 0, len(links)*3)
	for i, l := range links {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, menuItemID, l.IngredientID, l.Quantity)
	}
	_, err := c.ExecContext(ctx, query, args...)
	return err
}

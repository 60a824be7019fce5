package repository

import (
	"context"
	"database/sql"

	"github.com/feastly/restaurant-backend/internal/model"
)

// CartRepo provides access to carts and cart_items.  A user's cart is
// created lazily on first use.
type CartRepo struct {
	db *sql.DB
}

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{db: db} }

// GetOrCreate returns the user's cart, creating an empty one when none
// exists yet.
func (r *CartRepo) GetOrCreate(ctx context.Context, userID uint64) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = ?`, userID).
		Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err == nil {
		return &cart, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO carts (user_id) VALUES (?)`, userID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	cart.ID = uint64(id)
	cart.UserID = userID
	return &cart, nil
}

// Items returns the lines of a cart.
func (r *CartRepo) Items(ctx context.Context, cartID uint64) ([]model.CartItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, cart_id, menu_item_id, quantity, created_at FROM cart_items WHERE cart_id = ? ORDER BY id`,
		cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.CartItem
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ID, &it.CartID, &it.MenuItemID, &it.Quantity, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// UpsertItem adds a menu item to the cart or replaces its quantity.
func (r *CartRepo) UpsertItem(ctx context.Context, cartID, menuItemID uint64, quantity uint32) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cart_items (cart_id, menu_item_id, quantity) VALUES (?, ?, ?)
         ON DUPLICATE KEY UPDATE quantity = VALUES(quantity)`,
		cartID, menuItemID, quantity)
	return err
}

// RemoveItem deletes one line from the cart.
func (r *CartRepo) RemoveItem(ctx context.Context, cartID, menuItemID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = ? AND menu_item_id = ?`, cartID, menuItemID)
	return err
}

// Clear removes every line from the cart.
func (r *CartRepo) Clear(ctx context.Context, cartID uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}

package repository

import (
	"context"
	"database/sql"

	"github.com/feastly/restaurant-backend/internal/model"
)

// ReviewRepo provides access to the reviews table.
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts a review and fills in its generated ID.
func (r *ReviewRepo) Create(ctx context.Context, rev *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (user_id, menu_item_id, rating, comment) VALUES (?, ?, ?, ?)`,
		rev.UserID, rev.MenuItemID, rev.Rating, rev.Comment)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rev.ID = uint64(id)
	return nil
}

// ListByMenuItem returns reviews for a menu item, newest first.
func (r *ReviewRepo) ListByMenuItem(ctx context.Context, menuItemID uint64) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, menu_item_id, rating, comment, created_at FROM reviews WHERE menu_item_id = ? ORDER BY created_at DESC`,
		menuItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Review
	for rows.Next() {
		var rev model.Review
		if err := rows.Scan(&rev.ID, &rev.UserID, &rev.MenuItemID, &rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

// DeleteOwn removes a review only when it belongs to the user.
func (r *ReviewRepo) DeleteOwn(ctx context.Context, id, userID uint64) error {
	var owner uint64
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM reviews WHERE id = ?`, id).Scan(&owner)
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	return err
}

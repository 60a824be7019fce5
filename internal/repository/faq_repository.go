package repository

import (
	"context"
	"database/sql"

	"github.com/feastly/restaurant-backend/internal/model"
)

// FAQRepo provides access to the faqs table.
type FAQRepo struct {
	db *sql.DB
}

func NewFAQRepo(db *sql.DB) *FAQRepo { return &FAQRepo{db: db} }

// List returns all FAQs ordered by position.
func (r *FAQRepo) List(ctx context.Context) ([]model.FAQ, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, question, answer, position, created_at, updated_at FROM faqs ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.FAQ
	for rows.Next() {
		var f model.FAQ
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &f.Position, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Create inserts a FAQ and fills in its generated ID.
func (r *FAQRepo) Create(ctx context.Context, f *model.FAQ) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO faqs (question, answer, position) VALUES (?, ?, ?)`,
		f.Question, f.Answer, f.Position)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// Update rewrites a FAQ.
func (r *FAQRepo) Update(ctx context.Context, f *model.FAQ) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE faqs SET question = ?, answer = ?, position = ? WHERE id = ?`,
		f.Question, f.Answer, f.Position, f.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a FAQ.
func (r *FAQRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM faqs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

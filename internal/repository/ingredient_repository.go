package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/feastly/restaurant-backend/internal/model"
)

// IngredientRepo provides CRUD access to the ingredients table.
type IngredientRepo struct {
	db *sql.DB
}

func NewIngredientRepo(db *sql.DB) *IngredientRepo { return &IngredientRepo{db: db} }

func scanIngredient(row interface{ Scan(...any) error }) (*model.Ingredient, error) {
	var (
		ing       model.Ingredient
		threshold sql.NullFloat64
	)
	if err := row.Scan(&ing.ID, &ing.Name, &ing.Unit, &threshold, &ing.CreatedAt, &ing.UpdatedAt); err != nil {
		return nil, err
	}
	if threshold.Valid {
		v := threshold.Float64
		ing.LowStockThreshold = &v
	}
	return &ing, nil
}

// Create inserts an ingredient and returns its generated ID.
func (r *IngredientRepo) Create(ctx context.Context, ing *model.Ingredient) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO ingredients (name, unit, low_stock_threshold) VALUES (?, ?, ?)`,
		strings.TrimSpace(ing.Name), ing.Unit, ing.LowStockThreshold)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ing.ID = uint64(id)
	return nil
}

// GetByID fetches one ingredient.
func (r *IngredientRepo) GetByID(ctx context.Context, id uint64) (*model.Ingredient, error) {
	ing, err := scanIngredient(r.db.QueryRowContext(ctx,
		`SELECT id, name, unit, low_stock_threshold, created_at, updated_at FROM ingredients WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrIngredientNotFound
	}
	return ing, err
}

// List returns all ingredients ordered by name.
func (r *IngredientRepo) List(ctx context.Context) ([]model.Ingredient, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, unit, low_stock_threshold, created_at, updated_at FROM ingredients ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ing)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of an ingredient.
func (r *IngredientRepo) Update(ctx context.Context, ing *model.Ingredient) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ingredients SET name = ?, unit = ?, low_stock_threshold = ? WHERE id = ?`,
		strings.TrimSpace(ing.Name), ing.Unit, ing.LowStockThreshold, ing.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrIngredientNotFound
	}
	return nil
}

// Delete removes an ingredient.  Its transaction history stays in
// place; transactions reference ingredients weakly and must survive
// the master record.
func (r *IngredientRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ingredients WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrIngredientNotFound
	}
	return nil
}

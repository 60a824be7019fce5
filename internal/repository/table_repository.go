package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/feastly/restaurant-backend/internal/model"
)

// TableRepo provides CRUD access to the tables table.
type TableRepo struct {
	db *sql.DB
}

func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

func scanTable(row interface{ Scan(...any) error }) (*model.DiningTable, error) {
	var t model.DiningTable
	err := row.Scan(&t.ID, &t.Code, &t.Name, &t.Capacity, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a table; the code must be unique.
func (r *TableRepo) Create(ctx context.Context, t *model.DiningTable) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tables (code, name, capacity, is_active) VALUES (?, ?, ?, ?)`,
		strings.TrimSpace(t.Code), t.Name, t.Capacity, t.IsActive)
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
	t.ID = uint64(id)
	return nil
}

// GetByCode fetches an active table by its code.
func (r *TableRepo) GetByCode(ctx context.Context, code string) (*model.DiningTable, error) {
	t, err := scanTable(r.db.QueryRowContext(ctx,
		`SELECT id, code, name, capacity, is_active, created_at, updated_at FROM tables WHERE code = ? AND is_active = 1`,
		code))
	if err == sql.ErrNoRows {
		return nil, ErrTableNotFound
	}
	return t, err
}

// List returns tables, optionally including inactive ones.
func (r *TableRepo) List(ctx context.Context, includeInactive bool) ([]model.DiningTable, error) {
	query := `SELECT id, code, name, capacity, is_active, created_at, updated_at FROM tables`
	if !includeInactive {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY code`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.DiningTable
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a table.
func (r *TableRepo) Update(ctx context.Context, t *model.DiningTable) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tables SET name = ?, capacity = ?, is_active = ? WHERE id = ?`,
		t.Name, t.Capacity, t.IsActive, t.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTableNotFound
	}
	return nil
}

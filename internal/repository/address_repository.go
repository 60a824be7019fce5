package repository

import (
	"context"
	"database/sql"

	"github.com/feastly/restaurant-backend/internal/model"
)

// AddressRepo provides access to the addresses table.  Ownership is
// enforced here so handlers cannot accidentally leak another user's
// addresses.
type AddressRepo struct {
	db *sql.DB
}

func NewAddressRepo(db *sql.DB) *AddressRepo { return &AddressRepo{db: db} }

const addressColumns = `id, user_id, label, street, city, postal_code, latitude, longitude, created_at, updated_at`

func scanAddress(row interface{ Scan(...any) error }) (*model.Address, error) {
	var (
		a        model.Address
		lat, lng sql.NullFloat64
	)
	err := row.Scan(&a.ID, &a.UserID, &a.Label, &a.Street, &a.City, &a.PostalCode,
		&lat, &lng, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lat.Valid {
		v := lat.Float64
		a.Latitude = &v
	}
	if lng.Valid {
		v := lng.Float64
		a.Longitude = &v
	}
	return &a, nil
}

// Create inserts an address and fills in its generated ID.
func (r *AddressRepo) Create(ctx context.Context, a *model.Address) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO addresses (user_id, label, street, city, postal_code, latitude, longitude) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.Label, a.Street, a.City, a.PostalCode, a.Latitude, a.Longitude)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// ListByUser returns the user's addresses.
func (r *AddressRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Address, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// GetForUser fetches one address and enforces ownership.
func (r *AddressRepo) GetForUser(ctx context.Context, id, userID uint64) (*model.Address, error) {
	a, err := scanAddress(r.db.QueryRowContext(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, ErrForbidden
	}
	return a, nil
}

// Update rewrites an address owned by the user.
func (r *AddressRepo) Update(ctx context.Context, a *model.Address) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE addresses SET label = ?, street = ?, city = ?, postal_code = ?, latitude = ?, longitude = ? WHERE id = ? AND user_id = ?`,
		a.Label, a.Street, a.City, a.PostalCode, a.Latitude, a.Longitude, a.ID, a.UserID)
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

// Delete removes an address owned by the user.
func (r *AddressRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM addresses WHERE id = ? AND user_id = ?`, id, userID)
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

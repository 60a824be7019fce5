package repository

import (
	"context"
	"database/sql"

	"github.com/feastly/restaurant-backend/internal/model"
)

// ReservationRepo provides access to the reservations table.
type ReservationRepo struct {
	db *sql.DB
}

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// WithTx runs fn inside a transaction carried on the context, so the
// reservation insert and the hold transition commit or roll back
// together.
func (r *ReservationRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, fn)
}

// Create inserts a reservation and fills in its generated ID.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	out, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO reservations (user_id, table_code, res_date, res_time, guests, status, notes) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.UserID, res.TableCode, res.Date, res.Time, res.Guests, res.Status, res.Notes)
	if err != nil {
		return err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(&res.ID, &res.UserID, &res.TableCode, &res.Date, &res.Time,
		&res.Guests, &res.Status, &res.Notes, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

const reservationColumns = `id, user_id, table_code, res_date, res_time, guests, status, notes, created_at, updated_at`

// GetForUser fetches one reservation and enforces ownership:
// sql.ErrNoRows when absent, ErrForbidden when owned by someone else.
func (r *ReservationRepo) GetForUser(ctx context.Context, id, userID uint64) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if res.UserID != userID {
		return nil, ErrForbidden
	}
	return res, nil
}

// ListByUser returns the user's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE user_id = ? ORDER BY res_date DESC, res_time DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// Cancel marks a confirmed reservation cancelled.
func (r *ReservationRepo) Cancel(ctx context.Context, id uint64) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE reservations SET status = ? WHERE id = ? AND status = ?`,
		model.ReservationCancelled, id, model.ReservationConfirmed)
	return err
}

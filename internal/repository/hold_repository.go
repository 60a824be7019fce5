package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/feastly/restaurant-backend/internal/model"
)

// HoldRepo provides data access to the table_holds table and satisfies
// the reservation ledger's HoldStore interface.  Every query filters
// `expire_at > now` so that rows the background purge has not reached
// yet are still treated as gone.  All timestamps are UTC.
type HoldRepo struct {
	db *sql.DB
}

// NewHoldRepo returns a new HoldRepo bound to the provided database.
func NewHoldRepo(db *sql.DB) *HoldRepo { return &HoldRepo{db: db} }

const holdColumns = `id, table_code, hold_date, hold_time, status, held_by, reservation_id, expire_at, created_at`

func scanHold(row interface{ Scan(...any) error }) (*model.TableHold, error) {
	var (
		h     model.TableHold
		resID sql.NullInt64
	)
	err := row.Scan(&h.ID, &h.TableCode, &h.Date, &h.Time, &h.Status, &h.HeldBy, &resID, &h.ExpireAt, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	if resID.Valid {
		v := uint64(resID.Int64)
		h.ReservationID = &v
	}
	return &h, nil
}

// ActiveByTableAndDate returns all non-expired holds and bookings for
// one table on one calendar date.
func (r *HoldRepo) ActiveByTableAndDate(ctx context.Context, tableCode, date string, now time.Time) ([]model.TableHold, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT `+holdColumns+` FROM table_holds WHERE table_code = ? AND hold_date = ? AND expire_at > ?`,
		tableCode, date, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var holds []model.TableHold
	for rows.Next() {
		h, err := scanHold(rows)
		if err != nil {
			return nil, err
		}
		holds = append(holds, *h)
	}
	return holds, rows.Err()
}

// Insert persists a new hold and fills in its generated ID.
func (r *HoldRepo) Insert(ctx context.Context, h *model.TableHold) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO table_holds (table_code, hold_date, hold_time, status, held_by, expire_at) VALUES (?, ?, ?, ?, ?, ?)`,
		h.TableCode, h.Date, h.Time, h.Status, h.HeldBy, h.ExpireAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// DeleteHolding removes the claimant's non-expired holding record on
// the table and returns it.  Returns (nil, nil) when no such record
// exists; expired rows, booked records and other claimants' holds are
// never touched.
func (r *HoldRepo) DeleteHolding(ctx context.Context, tableCode, claimant string, now time.Time) (*model.TableHold, error) {
	c := conn(ctx, r.db)
	h, err := scanHold(c.QueryRowContext(ctx,
		`SELECT `+holdColumns+` FROM table_holds
         WHERE table_code = ? AND held_by = ? AND status = ? AND expire_at > ?
         LIMIT 1`,
		tableCode, claimant, model.HoldStatusHolding, now))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if _, err := c.ExecContext(ctx, `DELETE FROM table_holds WHERE id = ?`, h.ID); err != nil {
		return nil, err
	}
	return h, nil
}

// FindHolding returns the claimant's non-expired holding record for the
// exact slot, or nil.
func (r *HoldRepo) FindHolding(ctx context.Context, tableCode, claimant, date, timeOfDay string, now time.Time) (*model.TableHold, error) {
	h, err := scanHold(conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+holdColumns+` FROM table_holds
         WHERE table_code = ? AND held_by = ? AND hold_date = ? AND hold_time = ? AND status = ? AND expire_at > ?
         LIMIT 1`,
		tableCode, claimant, date, timeOfDay, model.HoldStatusHolding, now))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return h, err
}

// MarkBooked transitions a hold in place to booked.
func (r *HoldRepo) MarkBooked(ctx context.Context, holdID, reservationID uint64, expireAt time.Time) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE table_holds SET status = ?, reservation_id = ?, expire_at = ? WHERE id = ?`,
		model.HoldStatusBooked, reservationID, expireAt.UTC(), holdID)
	return err
}

// FindActiveSlot returns the single non-expired record for the exact
// slot regardless of claimant, or nil.
func (r *HoldRepo) FindActiveSlot(ctx context.Context, tableCode, date, timeOfDay string, now time.Time) (*model.TableHold, error) {
	h, err := scanHold(conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+holdColumns+` FROM table_holds
         WHERE table_code = ? AND hold_date = ? AND hold_time = ? AND expire_at > ?
         LIMIT 1`,
		tableCode, date, timeOfDay, now))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return h, err
}

// ListActive returns every non-expired record across all tables.
func (r *HoldRepo) ListActive(ctx context.Context, now time.Time) ([]model.TableHold, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT `+holdColumns+` FROM table_holds WHERE expire_at > ? ORDER BY hold_date, hold_time`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var holds []model.TableHold
	for rows.Next() {
		h, err := scanHold(rows)
		if err != nil {
			return nil, err
		}
		holds = append(holds, *h)
	}
	return holds, rows.Err()
}

// PurgeExpired deletes rows whose expire_at has passed.  A periodic
// sweep calls this; correctness never depends on it because every read
// filters on expire_at anyway.
func (r *HoldRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM table_holds WHERE expire_at <= ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

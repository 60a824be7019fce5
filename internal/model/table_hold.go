package model

import "time"

// Hold statuses.  A hold starts out as "holding" when a guest claims a
// slot during checkout and becomes "booked" once a reservation is
// confirmed for it.  There is no transition back from booked to holding.
const (
	HoldStatusHolding = "holding"
	HoldStatusBooked  = "booked"
)

// TableHold represents a time-limited claim on a table for a 3-hour
// dining window, stored in the `table_holds` table.  Holds prevent
// concurrent reservations from grabbing the same table while a guest
// completes the reservation flow.  A hold expires automatically at its
// ExpireAt timestamp; expired rows are treated as nonexistent by every
// read even when a background purge has not yet removed them.
//
// Fields:
//  ID            – primary key identifier.
//  TableCode     – code of the table being claimed.
//  Date          – calendar date of the dining window ("2006-01-02", no timezone).
//  Time          – start time of day of the window ("15:04").
//  Status        – holding or booked.
//  HeldBy        – claimant identity (user id string or guest token); ownership key for release.
//  ReservationID – reference to the confirmed reservation, set only when booked.
//                  Weak reference: deleting the reservation never cascades here.
//  ExpireAt      – instant after which the record is void.
//  CreatedAt     – creation timestamp.
type TableHold struct {
	ID            uint64    // table_holds.id
	TableCode     string    // table_holds.table_code
	Date          string    // table_holds.hold_date
	Time          string    // table_holds.hold_time
	Status        string    // table_holds.status
	HeldBy        string    // table_holds.held_by
	ReservationID *uint64   // table_holds.reservation_id (nullable)
	ExpireAt      time.Time // table_holds.expire_at
	CreatedAt     time.Time // table_holds.created_at
}

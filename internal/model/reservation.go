package model

import "time"

// Reservation statuses.
const (
	ReservationConfirmed = "CONFIRMED"
	ReservationCancelled = "CANCELLED"
)

// Reservation records a confirmed claim on a table, created when a
// guest books a slot they previously held.  The reservation is the
// durable, user-facing record; the hold only serializes access to the
// slot while checkout is in flight.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – user who made the reservation.
//  TableCode  – code of the reserved table.
//  Date       – calendar date of the dining window ("2006-01-02").
//  Time       – start time of day ("15:04").
//  Guests     – party size.
//  Status     – CONFIRMED or CANCELLED.
//  Notes      – optional free-form note from the guest.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Reservation struct {
	ID        uint64    // reservations.id
	UserID    uint64    // reservations.user_id
	TableCode string    // reservations.table_code
	Date      string    // reservations.res_date
	Time      string    // reservations.res_time
	Guests    uint32    // reservations.guests
	Status    string    // reservations.status
	Notes     string    // reservations.notes
	CreatedAt time.Time // reservations.created_at
	UpdatedAt time.Time // reservations.updated_at
}

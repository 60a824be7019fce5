package model

import "time"

// DiningTable represents a physical table in the restaurant as stored
// in the `tables` table.  Tables are identified externally by their
// Code (e.g. "T12"), which is what reservation holds reference.
//
// Fields:
//  ID        – primary key identifier.
//  Code      – unique short code printed on the table.
//  Name      – optional human friendly name (e.g. "Window booth").
//  Capacity  – number of seats at the table.
//  IsActive  – inactive tables are hidden from listings and cannot be held.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type DiningTable struct {
	ID        uint64    // tables.id
	Code      string    // tables.code
	Name      string    // tables.name
	Capacity  uint32    // tables.capacity
	IsActive  bool      // tables.is_active
	CreatedAt time.Time // tables.created_at
	UpdatedAt time.Time // tables.updated_at
}

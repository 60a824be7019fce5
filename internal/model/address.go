package model

import "time"

// Address is a delivery address owned by a user.  Latitude and
// longitude are filled in by the geocoder when the address is created
// or updated; both stay nil when geocoding fails so that saving an
// address never depends on the external service being reachable.
type Address struct {
	ID         uint64    // addresses.id
	UserID     uint64    // addresses.user_id
	Label      string    // addresses.label (e.g. "home", "office")
	Street     string    // addresses.street
	City       string    // addresses.city
	PostalCode string    // addresses.postal_code
	Latitude   *float64  // addresses.latitude (nullable)
	Longitude  *float64  // addresses.longitude (nullable)
	CreatedAt  time.Time // addresses.created_at
	UpdatedAt  time.Time // addresses.updated_at
}

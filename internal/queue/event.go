// Package queue defines message payloads exchanged over the broker.
package queue

// ReservationBookedEvent is published when a table hold is converted
// into a confirmed reservation.  It carries enough detail for
// notification and analytics consumers without a database round trip.
type ReservationBookedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	TableCode     string `json:"table_code"`
	Date          string `json:"date"`       // YYYY-MM-DD
	Time          string `json:"time"`       // HH:MM, dining window start
	WindowEnd     string `json:"window_end"` // HH:MM
	Guests        int    `json:"guests"`
	BookedAt      string `json:"booked_at"` // RFC 3339 UTC
}

// StockLowEvent is published when a recorded batch leaves an
// ingredient at or below its low-stock threshold.
type StockLowEvent struct {
	IngredientID uint64  `json:"ingredient_id"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity"`
	Threshold    float64 `json:"threshold"`
	Status       string  `json:"status"` // stock low | stock out
	ObservedAt   string  `json:"observed_at"`
}

package model

import "time"

// FAQ is a frequently asked question entry shown on the public site.
// Position controls display order; lower positions come first.
type FAQ struct {
	ID        uint64    // faqs.id
	Question  string    // faqs.question
	Answer    string    // faqs.answer
	Position  uint32    // faqs.position
	CreatedAt time.Time // faqs.created_at
	UpdatedAt time.Time // faqs.updated_at
}

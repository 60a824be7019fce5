package model

import "time"

// Review is a customer rating of a menu item, 1 to 5 stars.
type Review struct {
	ID         uint64    // reviews.id
	UserID     uint64    // reviews.user_id
	MenuItemID uint64    // reviews.menu_item_id
	Rating     uint8     // reviews.rating (1..5)
	Comment    string    // reviews.comment
	CreatedAt  time.Time // reviews.created_at
}

package model

import "time"

// Cart is a user's open shopping cart.  Each user has at most one
// cart; it is created lazily on the first add.
type Cart struct {
	ID        uint64    // carts.id
	UserID    uint64    // carts.user_id
	CreatedAt time.Time // carts.created_at
	UpdatedAt time.Time // carts.updated_at
}

// CartItem is one menu item line in a cart.
type CartItem struct {
	ID         uint64    `json:"id"`           // cart_items.id
	CartID     uint64    `json:"-"`            // cart_items.cart_id
	MenuItemID uint64    `json:"menu_item_id"` // cart_items.menu_item_id
	Quantity   uint32    `json:"quantity"`     // cart_items.quantity
	CreatedAt  time.Time `json:"created_at"`   // cart_items.created_at
}

package model

import "time"

// MenuItem is a dish on the menu as stored in the `menu_items` table.
// Deletion is soft: DeletedAt is set instead of removing the row so
// that existing orders and reviews keep a valid reference.  Public
// listings filter rows where DeletedAt is non-null.
type MenuItem struct {
	ID          uint64     // menu_items.id
	Name        string     // menu_items.name
	Description string     // menu_items.description
	Category    string     // menu_items.category
	PriceCents  uint32     // menu_items.price_cents
	IsAvailable bool       // menu_items.is_available
	DeletedAt   *time.Time // menu_items.deleted_at (nullable, soft delete)
	CreatedAt   time.Time  // menu_items.created_at
	UpdatedAt   time.Time  // menu_items.updated_at
}

// MenuItemIngredient links a menu item to an ingredient with the
// quantity consumed per serving.  Both sides are weak references.
type MenuItemIngredient struct {
	MenuItemID   uint64  `json:"menu_item_id"`
	IngredientID uint64  `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
}

package model

import "time"

// Ingredient is a master record for a stock-tracked ingredient as
// stored in the `ingredients` table.  Current stock is never stored on
// this row; it is always derived by aggregating the immutable
// inventory transaction log (see ledger.StockLedger).
//
// Fields:
//  ID                – primary key identifier.
//  Name              – unique ingredient name.
//  Unit              – measurement unit (kg, gram, litre, ml, pcs, ...).
//  LowStockThreshold – optional per-ingredient low-stock cutoff; when nil
//                      a per-unit default applies.
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Ingredient struct {
	ID                uint64    // ingredients.id
	Name              string    // ingredients.name
	Unit              string    // ingredients.unit
	LowStockThreshold *float64  // ingredients.low_stock_threshold (nullable)
	CreatedAt         time.Time // ingredients.created_at
	UpdatedAt         time.Time // ingredients.updated_at
}

// Stock status classifications derived from current stock and a threshold.
const (
	StockOut = "out_of_stock"
	StockLow = "low_stock"
	StockIn  = "in_stock"
)

// IngredientStock pairs an ingredient with its derived stock figures
// for listing endpoints.  It is a read-side projection, never persisted.
type IngredientStock struct {
	Ingredient   Ingredient `json:"ingredient"`
	CurrentStock float64    `json:"current_stock"`
	Status       string     `json:"status"`
}

package model

import "time"

// Batch and transaction types.  A daily batch groups the movements an
// operator records in one action; transactions are the append-only
// per-ingredient rows that stock is derived from.  Export subtracts
// during aggregation, import and adjustment add (an adjustment's signed
// delta is resolved before its transaction row is written, so the row
// itself carries a magnitude).
const (
	BatchImport     = "import"
	BatchExport     = "export"
	BatchAudit      = "audit"
	BatchAdjustment = "adjustment"

	TxnImport     = "import"
	TxnExport     = "export"
	TxnAdjustment = "adjustment"
)

// InventoryTransaction is one immutable stock movement in the
// `inventory_transactions` table.  Quantity is always a non-negative
// magnitude; the sign is implied by Type when aggregating.  There is no
// update or delete path for these rows.
//
// Fields:
//  ID                – primary key identifier.
//  Type              – import, export or adjustment.
//  IngredientID      – ingredient the movement applies to.
//  Quantity          – non-negative magnitude.
//  Date              – effective calendar date ("2006-01-02").
//  UserID            – operator who recorded the movement.
//  Notes             – optional free-form note.
//  AdjustmentBatchID – weak reference to the adjustment batch that produced
//                      this row; nil for import/export movements.
//  CreatedAt         – creation timestamp.
type InventoryTransaction struct {
	ID                uint64    // inventory_transactions.id
	Type              string    // inventory_transactions.txn_type
	IngredientID      uint64    // inventory_transactions.ingredient_id
	Quantity          float64   // inventory_transactions.quantity
	Date              string    // inventory_transactions.txn_date
	UserID            uint64    // inventory_transactions.user_id
	Notes             string    // inventory_transactions.notes
	AdjustmentBatchID *string   // inventory_transactions.adjustment_batch_id (nullable)
	CreatedAt         time.Time // inventory_transactions.created_at
}

// DailyBatch groups the items recorded by one operator action on one
// calendar day.  At most one batch of a given type may exist per day;
// the store enforces this with a unique key on (batch_type, batch_date)
// and the ledger rejects duplicates before writing.
type DailyBatch struct {
	ID        string           // daily_batches.id (uuid)
	Type      string           // daily_batches.batch_type
	Date      string           // daily_batches.batch_date, truncated to day
	CreatedBy uint64           // daily_batches.created_by
	Items     []DailyBatchItem // daily_batch_items rows
	CreatedAt time.Time        // daily_batches.created_at
}

// DailyBatchItem is one line of a daily batch.  InitialQuantity is only
// populated for audit batches, where it snapshots the system's computed
// stock expectation at audit time so the batch stores both the expected
// and the actual count.
type DailyBatchItem struct {
	IngredientID    uint64   `json:"ingredient_id"`
	InitialQuantity *float64 `json:"initial_quantity,omitempty"`
	Quantity        float64  `json:"quantity"`
	Notes           string   `json:"notes,omitempty"`
}

// AdjustmentBatch is produced only by an audit whose actual counts
// deviate from the computed expectation.  It references the audit's
// daily batch weakly; deleting either side never cascades.
type AdjustmentBatch struct {
	ID           string           // adjustment_batches.id (uuid)
	DailyBatchID string           // adjustment_batches.daily_batch_id
	Items        []AdjustmentItem // adjustment_items rows
	CreatedAt    time.Time        // adjustment_batches.created_at
}

// AdjustmentItem records one discrepancy found by an audit.
// Difference = ActualQuantity - EstimatedQuantity and may be negative.
type AdjustmentItem struct {
	IngredientID      uint64  `json:"ingredient_id"`
	EstimatedQuantity float64 `json:"estimated_quantity"`
	ActualQuantity    float64 `json:"actual_quantity"`
	Difference        float64 `json:"difference"`
	Reason            string  `json:"reason"`
	Notes             string  `json:"notes,omitempty"`
}

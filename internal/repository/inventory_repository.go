package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/feastly/restaurant-backend/internal/model"
)

// InventoryRepo persists inventory transactions, daily batches and
// adjustment batches, and runs the signed aggregation the stock ledger
// derives current stock from.  It satisfies the ledger's StockStore
// interface.  Batch items are stored as JSON columns on their batch row
// because they are only ever read back whole, never queried by item.
type InventoryRepo struct {
	db *sql.DB
}

// NewInventoryRepo returns a new InventoryRepo bound to the provided database.
func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// WithTx runs fn inside one database transaction.
func (r *InventoryRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, fn)
}

// SignedSum aggregates all transactions for the ingredient with
// txn_date <= asOf: import and adjustment count positive, export
// negative.  COALESCE keeps the result 0 for ingredients with no rows.
func (r *InventoryRepo) SignedSum(ctx context.Context, ingredientID uint64, asOf string) (float64, error) {
	var total float64
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN txn_type = 'export' THEN -quantity ELSE quantity END), 0)
         FROM inventory_transactions
         WHERE ingredient_id = ? AND txn_date <= ?`,
		ingredientID, asOf).Scan(&total)
	return total, err
}

// BatchExists reports whether a daily batch of the given type was
// already recorded for the calendar day.
func (r *InventoryRepo) BatchExists(ctx context.Context, batchType, date string) (bool, error) {
	var n int
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM daily_batches WHERE batch_type = ? AND batch_date = ?`,
		batchType, date).Scan(&n)
	return n > 0, err
}

// InsertDailyBatch persists a batch row with its items serialized as JSON.
func (r *InventoryRepo) InsertDailyBatch(ctx context.Context, b *model.DailyBatch) error {
	items, err := json.Marshal(b.Items)
	if err != nil {
		return err
	}
	_, err = conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO daily_batches (id, batch_type, batch_date, created_by, items, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.Type, b.Date, b.CreatedBy, items, b.CreatedAt.UTC())
	return err
}

// InsertAdjustmentBatch persists an adjustment batch with its items as JSON.
func (r *InventoryRepo) InsertAdjustmentBatch(ctx context.Context, b *model.AdjustmentBatch) error {
	items, err := json.Marshal(b.Items)
	if err != nil {
		return err
	}
	_, err = conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO adjustment_batches (id, daily_batch_id, items, created_at) VALUES (?, ?, ?, ?)`,
		b.ID, b.DailyBatchID, items, b.CreatedAt.UTC())
	return err
}

// InsertTransactions appends transaction rows.  Transactions are
// immutable once written; no update or delete statement exists for
// them anywhere in this package.
func (r *InventoryRepo) InsertTransactions(ctx context.Context, txns []model.InventoryTransaction) error {
	if len(txns) == 0 {
		return nil
	}
	query := `INSERT INTO inventory_transactions (txn_type, ingredient_id, quantity, txn_date, user_id, notes, adjustment_batch_id, created_at) VALUES `
	args := make([]any, 0, len(txns)*8)
	for i, tx := range txns {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args, tx.Type, tx.IngredientID, tx.Quantity, tx.Date, tx.UserID, tx.Notes, tx.AdjustmentBatchID, tx.CreatedAt.UTC())
	}
	_, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	return err
}

// ListBatchesByDate returns all daily batches for one calendar day.
func (r *InventoryRepo) ListBatchesByDate(ctx context.Context, date string) ([]model.DailyBatch, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, batch_type, batch_date, created_by, items, created_at FROM daily_batches WHERE batch_date = ? ORDER BY created_at`,
		date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var batches []model.DailyBatch
	for rows.Next() {
		var (
			b     model.DailyBatch
			items []byte
		)
		if err := rows.Scan(&b.ID, &b.Type, &b.Date, &b.CreatedBy, &items, &b.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &b.Items); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// ListAdjustmentBatches returns adjustment batches, newest first.
func (r *InventoryRepo) ListAdjustmentBatches(ctx context.Context, limit int) ([]model.AdjustmentBatch, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, daily_batch_id, items, created_at FROM adjustment_batches ORDER BY created_at DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var batches []model.AdjustmentBatch
	for rows.Next() {
		var (
			b     model.AdjustmentBatch
			items []byte
		)
		if err := rows.Scan(&b.ID, &b.DailyBatchID, &items, &b.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &b.Items); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// ListTransactionsByIngredient returns the movement history for one
// ingredient up to a date, oldest first.
func (r *InventoryRepo) ListTransactionsByIngredient(ctx context.Context, ingredientID uint64, asOf string) ([]model.InventoryTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, txn_type, ingredient_id, quantity, txn_date, user_id, notes, adjustment_batch_id, created_at
         FROM inventory_transactions
         WHERE ingredient_id = ? AND txn_date <= ?
         ORDER BY txn_date, id`,
		ingredientID, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var txns []model.InventoryTransaction
	for rows.Next() {
		var (
			tx    model.InventoryTransaction
			notes sql.NullString
			adjID sql.NullString
		)
		if err := rows.Scan(&tx.ID, &tx.Type, &tx.IngredientID, &tx.Quantity, &tx.Date, &tx.UserID, &notes, &adjID, &tx.CreatedAt); err != nil {
			return nil, err
		}
		tx.Notes = notes.String
		if adjID.Valid {
			v := adjID.String
			tx.AdjustmentBatchID = &v
		}
		txns = append(txns, tx)
	}
	return txns, rows.Err()
}

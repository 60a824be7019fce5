package ledger

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/feastly/restaurant-backend/internal/clock"
	"github.com/feastly/restaurant-backend/internal/model"
)

// StockStore is the persistence surface the stock ledger needs.  WithTx
// runs fn inside one store transaction; the write steps of RecordBatch
// depend on it for all-or-nothing behavior.
type StockStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// SignedSum aggregates all transactions for the ingredient with
	// date <= asOf, counting import and adjustment as positive and
	// export as negative.  Returns 0 for an ingredient with no rows.
	SignedSum(ctx context.Context, ingredientID uint64, asOf string) (float64, error)

	// BatchExists reports whether a daily batch of the given type was
	// already recorded for the calendar day.
	BatchExists(ctx context.Context, batchType, date string) (bool, error)

	InsertDailyBatch(ctx context.Context, b *model.DailyBatch) error
	InsertAdjustmentBatch(ctx context.Context, b *model.AdjustmentBatch) error
	InsertTransactions(ctx context.Context, txns []model.InventoryTransaction) error
}

// Per-unit default low-stock thresholds, applied when an ingredient has
// no explicit threshold of its own.
var defaultThresholds = map[string]float64{
	"kg":     5,
	"gram":   1000,
	"litre":  3,
	"ml":     1000,
	"pcs":    10,
	"unit":   10,
	"bottle": 5,
	"can":    5,
	"pack":   3,
	"box":    2,
}

const fallbackThreshold = 10 // unknown units

// StockStatus classifies a derived stock value.  out_of_stock at or
// below zero, low_stock at or below the threshold, in_stock otherwise.
// The threshold is the ingredient's own when set, else the per-unit
// default.
func StockStatus(currentStock float64, unit string, lowStockThreshold *float64) string {
	if currentStock <= 0 {
		return model.StockOut
	}
	threshold := float64(fallbackThreshold)
	if t, ok := defaultThresholds[unit]; ok {
		threshold = t
	}
	if lowStockThreshold != nil {
		threshold = *lowStockThreshold
	}
	if currentStock <= threshold {
		return model.StockLow
	}
	return model.StockIn
}

// StockLedger derives current stock from the append-only transaction
// log and reconciles audits.  "Current stock" is never stored anywhere;
// it is recomputed on every read so that no mutable counter can drift.
type StockLedger struct {
	store StockStore
	clock clock.Clock
}

// NewStockLedger builds a ledger over the given store and clock.
func NewStockLedger(store StockStore, clk clock.Clock) *StockLedger {
	return &StockLedger{store: store, clock: clk}
}

// CurrentStock returns the signed sum of all movements for the
// ingredient up to and including asOf: import and adjustment add,
// export subtracts.  Zero when no transactions exist.  An empty asOf
// means today.
func (l *StockLedger) CurrentStock(ctx context.Context, ingredientID uint64, asOf string) (float64, error) {
	if ingredientID == 0 {
		return 0, ErrInvalidInput
	}
	if asOf == "" {
		asOf = l.clock.Now().Format(DateLayout)
	} else if _, err := time.Parse(DateLayout, asOf); err != nil {
		return 0, ErrInvalidInput
	}
	return l.store.SignedSum(ctx, ingredientID, asOf)
}

// RecordBatch validates and persists one operator action: an import,
// export or audit of multiple ingredients on one day.  The steps run
// strictly in order because later ones depend on earlier reads (an
// audit must snapshot expected stock before its batch is written).
// All writes happen inside one store transaction.
//
// For audits the returned batch is the audit batch itself; any
// adjustment artifacts it spawned are persisted alongside but not
// returned.
func (l *StockLedger) RecordBatch(ctx context.Context, batchType string, items []model.DailyBatchItem, userID uint64, date string) (*model.DailyBatch, error) {
	switch batchType {
	case model.BatchImport, model.BatchExport, model.BatchAudit:
	default:
		return nil, ErrInvalidInput
	}
	if len(items) == 0 || userID == 0 || date == "" {
		return nil, ErrInvalidInput
	}
	for _, it := range items {
		if it.IngredientID == 0 || it.Quantity < 0 {
			return nil, ErrInvalidInput
		}
	}

	now := l.clock.Now()
	batch := &model.DailyBatch{
		ID:        uuid.NewString(),
		Type:      batchType,
		Date:      date,
		CreatedBy: userID,
		Items:     items,
		CreatedAt: now,
	}

	err := l.store.WithTx(ctx, func(ctx context.Context) error {
		exists, err := l.store.BatchExists(ctx, batchType, date)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateBatch
		}

		switch batchType {
		case model.BatchExport:
			// Overdraw warns but never blocks; policy carried over from
			// the original operator workflow.
			for _, it := range batch.Items {
				current, err := l.store.SignedSum(ctx, it.IngredientID, date)
				if err != nil {
					return err
				}
				if current-it.Quantity < 0 {
					log.Printf("stock: export overdraws ingredient %d on %s (have %.3f, exporting %.3f)",
						it.IngredientID, date, current, it.Quantity)
				}
			}
		case model.BatchAudit:
			// Snapshot the computed expectation so the batch stores both
			// expected and actual counts.
			for i := range batch.Items {
				current, err := l.store.SignedSum(ctx, batch.Items[i].IngredientID, date)
				if err != nil {
					return err
				}
				initial := current
				batch.Items[i].InitialQuantity = &initial
			}
		}

		if err := l.store.InsertDailyBatch(ctx, batch); err != nil {
			return err
		}

		if batchType != model.BatchAudit {
			txns := make([]model.InventoryTransaction, 0, len(batch.Items))
			for _, it := range batch.Items {
				txns = append(txns, model.InventoryTransaction{
					Type:         batchType,
					IngredientID: it.IngredientID,
					Quantity:     it.Quantity,
					Date:         date,
					UserID:       userID,
					Notes:        it.Notes,
					CreatedAt:    now,
				})
			}
			return l.store.InsertTransactions(ctx, txns)
		}

		return l.reconcileAudit(ctx, batch, userID, date, now)
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// reconcileAudit compares each audited item's actual count against the
// snapshotted expectation and, when any differ, persists an adjustment
// batch, a companion daily batch of type adjustment carrying the signed
// deltas, and adjustment transactions carrying the magnitudes.  Items
// with no difference produce no artifacts at all.
func (l *StockLedger) reconcileAudit(ctx context.Context, audit *model.DailyBatch, userID uint64, date string, now time.Time) error {
	var findings []model.AdjustmentItem
	for _, it := range audit.Items {
		if it.InitialQuantity == nil {
			continue
		}
		estimated := *it.InitialQuantity
		actual := it.Quantity
		if actual == estimated {
			continue
		}
		findings = append(findings, model.AdjustmentItem{
			IngredientID:      it.IngredientID,
			EstimatedQuantity: estimated,
			ActualQuantity:    actual,
			Difference:        actual - estimated,
			Reason:            "audit discrepancy",
			Notes:             it.Notes,
		})
	}
	if len(findings) == 0 {
		return nil
	}

	adjBatch := &model.AdjustmentBatch{
		ID:           uuid.NewString(),
		DailyBatchID: audit.ID,
		Items:        findings,
		CreatedAt:    now,
	}
	if err := l.store.InsertAdjustmentBatch(ctx, adjBatch); err != nil {
		return err
	}

	// Companion daily batch keeps the signed deltas visible in the
	// day's batch history next to the audit itself.
	companionItems := make([]model.DailyBatchItem, 0, len(findings))
	txns := make([]model.InventoryTransaction, 0, len(findings))
	for _, f := range findings {
		companionItems = append(companionItems, model.DailyBatchItem{
			IngredientID: f.IngredientID,
			Quantity:     f.Difference,
			Notes:        f.Reason,
		})
		batchID := adjBatch.ID
		txns = append(txns, model.InventoryTransaction{
			Type:              model.TxnAdjustment,
			IngredientID:      f.IngredientID,
			Quantity:          math.Abs(f.Difference),
			Date:              date,
			UserID:            userID,
			Notes:             f.Reason,
			AdjustmentBatchID: &batchID,
			CreatedAt:         now,
		})
	}
	companion := &model.DailyBatch{
		ID:        uuid.NewString(),
		Type:      model.BatchAdjustment,
		Date:      date,
		CreatedBy: userID,
		Items:     companionItems,
		CreatedAt: now,
	}
	if err := l.store.InsertDailyBatch(ctx, companion); err != nil {
		return err
	}
	return l.store.InsertTransactions(ctx, txns)
}

package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feastly/restaurant-backend/internal/clock"
	"github.com/feastly/restaurant-backend/internal/model"
)

// fakeStockStore keeps batches and transactions in memory and performs
// the same signed aggregation the SQL store does.
type fakeStockStore struct {
	batches    []model.DailyBatch
	adjBatches []model.AdjustmentBatch
	txns       []model.InventoryTransaction
}

func (s *fakeStockStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *fakeStockStore) SignedSum(_ context.Context, ingredientID uint64, asOf string) (float64, error) {
	total := 0.0
	for _, tx := range s.txns {
		if tx.IngredientID != ingredientID || tx.Date > asOf {
			continue
		}
		if tx.Type == model.TxnExport {
			total -= tx.Quantity
		} else {
			total += tx.Quantity
		}
	}
	return total, nil
}

func (s *fakeStockStore) BatchExists(_ context.Context, batchType, date string) (bool, error) {
	for _, b := range s.batches {
		if b.Type == batchType && b.Date == date {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStockStore) InsertDailyBatch(_ context.Context, b *model.DailyBatch) error {
	s.batches = append(s.batches, *b)
	return nil
}

func (s *fakeStockStore) InsertAdjustmentBatch(_ context.Context, b *model.AdjustmentBatch) error {
	s.adjBatches = append(s.adjBatches, *b)
	return nil
}

func (s *fakeStockStore) InsertTransactions(_ context.Context, txns []model.InventoryTransaction) error {
	s.txns = append(s.txns, txns...)
	return nil
}

var testNow = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func newStockLedger(store *fakeStockStore) *StockLedger {
	return NewStockLedger(store, clock.NewFixed(testNow))
}

func TestStockLedger_CurrentStock(t *testing.T) {
	t.Run("import minus export", func(t *testing.T) {
		store := &fakeStockStore{}
		led := newStockLedger(store)
		ctx := context.Background()

		_, err := led.RecordBatch(ctx, model.BatchImport,
			[]model.DailyBatchItem{{IngredientID: 1, Quantity: 10}}, 3, "2025-06-01")
		require.NoError(t, err)
		_, err = led.RecordBatch(ctx, model.BatchExport,
			[]model.DailyBatchItem{{IngredientID: 1, Quantity: 3}}, 3, "2025-06-02")
		require.NoError(t, err)

		got, err := led.CurrentStock(ctx, 1, "2025-06-02")
		require.NoError(t, err)
		assert.InDelta(t, 7, got, 1e-9)
	})

	t.Run("respects the as-of cutoff", func(t *testing.T) {
		store := &fakeStockStore{}
		led := newStockLedger(store)
		ctx := context.Background()

		_, err := led.RecordBatch(ctx, model.BatchImport,
			[]model.DailyBatchItem{{IngredientID: 1, Quantity: 10}}, 3, "2025-06-01")
		require.NoError(t, err)
		_, err = led.RecordBatch(ctx, model.BatchExport,
			[]model.DailyBatchItem{{IngredientID: 1, Quantity: 4}}, 3, "2025-06-05")
		require.NoError(t, err)

		got, err := led.CurrentStock(ctx, 1, "2025-06-03")
		require.NoError(t, err)
		assert.InDelta(t, 10, got, 1e-9)
	})

	t.Run("zero without transactions", func(t *testing.T) {
		led := newStockLedger(&fakeStockStore{})

		got, err := led.CurrentStock(context.Background(), 9, "2025-06-01")
		require.NoError(t, err)
		assert.Zero(t, got)
	})
}

func TestStockStatus(t *testing.T) {
	threshold := func(v float64) *float64 { return &v }

	cases := []struct {
		name      string
		current   float64
		unit      string
		threshold *float64
		want      string
	}{
		{"zero is out", 0, "kg", nil, model.StockOut},
		{"negative is out", -2, "kg", nil, model.StockOut},
		{"below kg default", 4, "kg", nil, model.StockLow},
		{"at kg default", 5, "kg", nil, model.StockLow},
		{"above kg default", 6, "kg", nil, model.StockIn},
		{"explicit threshold wins", 6, "kg", threshold(8), model.StockLow},
		{"gram default", 900, "gram", nil, model.StockLow},
		{"unknown unit fallback", 11, "barrel", nil, model.StockIn},
		{"unknown unit fallback low", 10, "barrel", nil, model.StockLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StockStatus(tc.current, tc.unit, tc.threshold))
		})
	}
}

func TestStockLedger_RecordBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects malformed input before writing", func(t *testing.T) {
		store := &fakeStockStore{}
		led := newStockLedger(store)

		_, err := led.RecordBatch(ctx, model.BatchImport, nil, 3, "2025-06-01")
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = led.RecordBatch(ctx, model.BatchImport,
			[]model.DailyBatchItem{{IngredientID: 0, Quantity: 5}}, 3, "2025-06-01")
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = led.RecordBatch(ctx, model.BatchImport,
			[]model.DailyBatchItem{{IngredientID: 1, Quantity: -5}}, 3, "2025-06-01")
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = led.RecordBatch(ctx, "restock",
			[]model.DailyBatchItem{{IngredientID: 1, Quantity: 5}}, 3, "2025-06-01")
		assert.ErrorIs(t, err, ErrInvalidInput)

		assert.Empty(t, store.batches)
		assert.Empty(t, store.txns)
	})

	t.Run("one batch per type per day", func(t *testing.T) {
		store := &fakeStockStore{}
		led := newStockLedger(store)

		_, err := led.RecordBatch(ctx, model.BatchImport,
			[]model.DailyBatchItem{{IngredientID: 1, Quantity: 5}}, 3, "2025-06-01")
		require.NoError(t, err)

		_, err = led.RecordBatch(ctx, model.BatchImport,
			[]model.DailyBatchItem{{IngredientID: 2, Quantity: 1}}, 3, "2025-06-01")
		assert.ErrorIs(t, err, ErrDuplicateBatch)

		// A different type on the same day is fine.
		_, err = led.RecordBatch(ctx, model.BatchExport,
			[]model.DailyBatchItem{{IngredientID: 1, Quantity: 1}}, 3, "2025-06-01")
		assert.NoError(t, err)

		// Same type on another day is fine.
		_, err = led.RecordBatch(ctx, model.BatchImport,
			[]model.DailyBatchItem{{IngredientID: 2, Quantity: 1}}, 3, "2025-06-02")
		assert.NoError(t, err)
	})

	t.Run("import appends one transaction per item", func(t *testing.T) {
		store := &fakeStockStore{}
		led := newStockLedger(store)

		batch, err := led.RecordBatch(ctx, model.BatchImport, []model.DailyBatchItem{
			{IngredientID: 1, Quantity: 5, Notes: "monday delivery"},
			{IngredientID: 2, Quantity: 2.5},
		}, 3, "2025-06-01")
		require.NoError(t, err)
		assert.NotEmpty(t, batch.ID)

		require.Len(t, store.txns, 2)
		assert.Equal(t, model.TxnImport, store.txns[0].Type)
		assert.Equal(t, "monday delivery", store.txns[0].Notes)
		assert.EqualValues(t, 3, store.txns[0].UserID)
	})

	t.Run("export overdraw warns but is not blocked", func(t *testing.T) {
		store := &fakeStockStore{}
		led := newStockLedger(store)

		_, err := led.RecordBatch(ctx, model.BatchImport,
			[]model.DailyBatchItem{{IngredientID: 1, Quantity: 2}}, 3, "2025-06-01")
		require.NoError(t, err)

		_, err = led.RecordBatch(ctx, model.BatchExport,
			[]model.DailyBatchItem{{IngredientID: 1, Quantity: 10}}, 3, "2025-06-02")
		require.NoError(t, err)

		got, err := led.CurrentStock(ctx, 1, "2025-06-02")
		require.NoError(t, err)
		assert.InDelta(t, -8, got, 1e-9)
	})

	t.Run("audit snapshots expected stock per item", func(t *testing.T) {
		store := &fakeStockStore{}
		led := newStockLedger(store)

		_, err := led.RecordBatch(ctx, model.BatchImport,
			[]model.DailyBatchItem{{IngredientID: 1, Quantity: 10}}, 3, "2025-06-01")
		require.NoError(t, err)

		audit, err := led.RecordBatch(ctx, model.BatchAudit,
			[]model.DailyBatchItem{{IngredientID: 1, Quantity: 10}}, 3, "2025-06-02")
		require.NoError(t, err)

		require.NotNil(t, audit.Items[0].InitialQuantity)
		assert.InDelta(t, 10, *audit.Items[0].InitialQuantity, 1e-9)
	})

	t.Run("audit with no discrepancy produces no artifacts", func(t *testing.T) {
		store := &fakeStockStore{}
		led := newStockLedger(store)

		_, err := led.RecordBatch(ctx, model.BatchImport,
			[]model.DailyBatchItem{{IngredientID: 1, Quantity: 10}}, 3, "2025-06-01")
		require.NoError(t, err)
		importTxns := len(store.txns)

		_, err = led.RecordBatch(ctx, model.BatchAudit,
			[]model.DailyBatchItem{{IngredientID: 1, Quantity: 10}}, 3, "2025-06-02")
		require.NoError(t, err)

		assert.Empty(t, store.adjBatches)
		assert.Len(t, store.txns, importTxns) // audit itself writes no transactions
		assert.Len(t, store.batches, 2)       // import + audit, no companion
	})

	t.Run("audit discrepancy creates adjustment artifacts", func(t *testing.T) {
		store := &fakeStockStore{}
		led := newStockLedger(store)

		_, err := led.RecordBatch(ctx, model.BatchImport, []model.DailyBatchItem{
			{IngredientID: 1, Quantity: 10},
			{IngredientID: 2, Quantity: 4},
		}, 3, "2025-06-01")
		require.NoError(t, err)

		// Ingredient 1 counted short, ingredient 2 matches.
		audit, err := led.RecordBatch(ctx, model.BatchAudit, []model.DailyBatchItem{
			{IngredientID: 1, Quantity: 7},
			{IngredientID: 2, Quantity: 4},
		}, 3, "2025-06-02")
		require.NoError(t, err)
		assert.Equal(t, model.BatchAudit, audit.Type)

		require.Len(t, store.adjBatches, 1)
		adj := store.adjBatches[0]
		assert.Equal(t, audit.ID, adj.DailyBatchID)
		require.Len(t, adj.Items, 1)
		assert.EqualValues(t, 1, adj.Items[0].IngredientID)
		assert.InDelta(t, 10, adj.Items[0].EstimatedQuantity, 1e-9)
		assert.InDelta(t, 7, adj.Items[0].ActualQuantity, 1e-9)
		assert.InDelta(t, -3, adj.Items[0].Difference, 1e-9)

		// Companion daily batch of type adjustment carries the signed delta.
		var companion *model.DailyBatch
		for i := range store.batches {
			if store.batches[i].Type == model.BatchAdjustment {
				companion = &store.batches[i]
			}
		}
		require.NotNil(t, companion)
		require.Len(t, companion.Items, 1)
		assert.InDelta(t, -3, companion.Items[0].Quantity, 1e-9)

		// The adjustment transaction stores the magnitude and points back
		// at the adjustment batch.
		var adjTxns []model.InventoryTransaction
		for _, tx := range store.txns {
			if tx.Type == model.TxnAdjustment {
				adjTxns = append(adjTxns, tx)
			}
		}
		require.Len(t, adjTxns, 1)
		assert.InDelta(t, 3, adjTxns[0].Quantity, 1e-9)
		require.NotNil(t, adjTxns[0].AdjustmentBatchID)
		assert.Equal(t, adj.ID, *adjTxns[0].AdjustmentBatchID)
	})

	t.Run("duplicate check aborts before any write", func(t *testing.T) {
		store := &fakeStockStore{}
		led := newStockLedger(store)

		_, err := led.RecordBatch(ctx, model.BatchAudit,
			[]model.DailyBatchItem{{IngredientID: 1, Quantity: 3}}, 3, "2025-06-01")
		require.NoError(t, err)
		batches, txns := len(store.batches), len(store.txns)

		_, err = led.RecordBatch(ctx, model.BatchAudit,
			[]model.DailyBatchItem{{IngredientID: 2, Quantity: 1}}, 3, "2025-06-01")
		assert.ErrorIs(t, err, ErrDuplicateBatch)
		assert.Len(t, store.batches, batches)
		assert.Len(t, store.txns, txns)
	})
}

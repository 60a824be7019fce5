package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/feastly/restaurant-backend/internal/ledger"
	"github.com/feastly/restaurant-backend/internal/model"
	"github.com/feastly/restaurant-backend/internal/queue"
	"github.com/feastly/restaurant-backend/internal/repository"
	queue_publisher "github.com/feastly/restaurant-backend/internal/service"
)

// InventoryHandler exposes the daily batch entry points and the
// read-side views over the transaction log.  All routes are admin
// only.
type InventoryHandler struct {
	Stock       *ledger.StockLedger
	Inventory   *repository.InventoryRepo
	Ingredients *repository.IngredientRepo
}

func NewInventoryHandler(s *ledger.StockLedger, inv *repository.InventoryRepo, ing *repository.IngredientRepo) *InventoryHandler {
	return &InventoryHandler{Stock: s, Inventory: inv, Ingredients: ing}
}

type batchItemReq struct {
	IngredientID uint64  `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
	Notes        string  `json:"notes"`
}

type batchReq struct {
	Type  string         `json:"type"` // import | export | audit
	Date  string         `json:"date"` // YYYY-MM-DD, defaults to today
	Items []batchItemReq `json:"items"`
}

// RecordBatch records one day's import, export or audit batch.  Audits
// additionally reconcile counted stock against the computed figure and
// write an adjustment batch for any discrepancies.
func (h *InventoryHandler) RecordBatch(c echo.Context) error {
	var req batchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if req.Date == "" {
		req.Date = time.Now().UTC().Format(ledger.DateLayout)
	}
	uid := authedUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	items := make([]model.DailyBatchItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.DailyBatchItem{
			IngredientID: it.IngredientID,
			Quantity:     it.Quantity,
			Notes:        strings.TrimSpace(it.Notes),
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	batch, err := h.Stock.RecordBatch(ctx, req.Type, items, uid, req.Date)
	switch {
	case errors.Is(err, ledger.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type, date and non-empty items required"})
	case errors.Is(err, ledger.ErrDuplicateBatch):
		return c.JSON(http.StatusConflict, echo.Map{"error": "a " + req.Type + " batch already exists for " + req.Date})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record batch failed"})
	}

	h.notifyLowStock(items)

	return c.JSON(http.StatusCreated, batch)
}

// notifyLowStock re-derives stock for the ingredients a batch touched
// and publishes a StockLowEvent for any that ended at or below their
// threshold.  Best-effort: failures are logged only.
func (h *InventoryHandler) notifyLowStock(items []model.DailyBatchItem) {
	seen := make(map[uint64]bool, len(items))
	var ids []uint64
	for _, it := range items {
		if !seen[it.IngredientID] {
			seen[it.IngredientID] = true
			ids = append(ids, it.IngredientID)
		}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		for _, id := range ids {
			ing, err := h.Ingredients.GetByID(ctx, id)
			if err != nil {
				continue
			}
			stock, err := h.Stock.CurrentStock(ctx, id, "")
			if err != nil {
				continue
			}
			status := ledger.StockStatus(stock, ing.Unit, ing.LowStockThreshold)
			if status == model.StockIn {
				continue
			}
			threshold := 0.0
			if ing.LowStockThreshold != nil {
				threshold = *ing.LowStockThreshold
			}
			ev := queue.StockLowEvent{
				IngredientID: id,
				Name:         ing.Name,
				Unit:         ing.Unit,
				Quantity:     stock,
				Threshold:    threshold,
				Status:       status,
				ObservedAt:   time.Now().UTC().Format(time.RFC3339),
			}
			if err := queue_publisher.PublishStockLow(ctx, ev); err != nil {
				log.Printf("ingredient %d: publish stock-low event failed: %v", id, err)
			}
		}
	}()
}

// ListBatches returns the daily batches recorded on a date.
func (h *InventoryHandler) ListBatches(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().UTC().Format(ledger.DateLayout)
	}
	if _, err := time.Parse(ledger.DateLayout, date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	batches, err := h.Inventory.ListBatchesByDate(ctx, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list batches failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"date": date, "batches": batches})
}

// ListAdjustments returns recent adjustment batches, newest first.
func (h *InventoryHandler) ListAdjustments(c echo.Context) error {
	limit := 20
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 200 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be 1..200"})
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	batches, err := h.Inventory.ListAdjustmentBatches(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list adjustments failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"adjustments": batches})
}

// ListTransactions returns an ingredient's movement history.
func (h *InventoryHandler) ListTransactions(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Ingredients.GetByID(ctx, id); err != nil {
		if err == repository.ErrIngredientNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ingredient not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load ingredient failed"})
	}

	asOf := c.QueryParam("as_of")
	if asOf == "" {
		asOf = time.Now().UTC().Format(ledger.DateLayout)
	} else if _, err := time.Parse(ledger.DateLayout, asOf); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid as_of"})
	}
	txns, err := h.Inventory.ListTransactionsByIngredient(ctx, id, asOf)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list transactions failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"transactions": txns})
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/feastly/restaurant-backend/internal/ledger"
	"github.com/feastly/restaurant-backend/internal/model"
	"github.com/feastly/restaurant-backend/internal/repository"
)

// IngredientHandler manages ingredient master records and the derived
// stock views.  Stock is never stored on the ingredient row; every
// figure returned here is aggregated from the transaction log at read
// time.
type IngredientHandler struct {
	Ingredients *repository.IngredientRepo
	Stock       *ledger.StockLedger
}

func NewIngredientHandler(i *repository.IngredientRepo, s *ledger.StockLedger) *IngredientHandler {
	return &IngredientHandler{Ingredients: i, Stock: s}
}

type ingredientReq struct {
	Name              string   `json:"name"`
	Unit              string   `json:"unit"`
	LowStockThreshold *float64 `json:"low_stock_threshold"`
}

// Create adds an ingredient (admin only).
func (h *IngredientHandler) Create(c echo.Context) error {
	var req ingredientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Unit = strings.ToLower(strings.TrimSpace(req.Unit))
	if req.Name == "" || req.Unit == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and unit required"})
	}
	if req.LowStockThreshold != nil && *req.LowStockThreshold < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "low_stock_threshold must be non-negative"})
	}

	ing := &model.Ingredient{
		Name:              req.Name,
		Unit:              req.Unit,
		LowStockThreshold: req.LowStockThreshold,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Ingredients.Create(ctx, ing); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "ingredient name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create ingredient failed"})
	}
	return c.JSON(http.StatusCreated, ing)
}

// List returns every ingredient with its current stock and status.
// Pass ?as_of=YYYY-MM-DD to view stock as of the end of that date.
func (h *IngredientHandler) List(c echo.Context) error {
	asOf := c.QueryParam("as_of")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ings, err := h.Ingredients.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list ingredients failed"})
	}

	out := make([]model.IngredientStock, 0, len(ings))
	for _, ing := range ings {
		stock, err := h.Stock.CurrentStock(ctx, ing.ID, asOf)
		if errors.Is(err, ledger.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid as_of"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "compute stock failed"})
		}
		out = append(out, model.IngredientStock{
			Ingredient:   ing,
			CurrentStock: stock,
			Status:       ledger.StockStatus(stock, ing.Unit, ing.LowStockThreshold),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"ingredients": out})
}

// Get returns one ingredient with its derived stock.
func (h *IngredientHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ing, err := h.Ingredients.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrIngredientNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ingredient not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load ingredient failed"})
	}

	stock, err := h.Stock.CurrentStock(ctx, ing.ID, c.QueryParam("as_of"))
	if errors.Is(err, ledger.ErrInvalidInput) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid as_of"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "compute stock failed"})
	}
	return c.JSON(http.StatusOK, model.IngredientStock{
		Ingredient:   *ing,
		CurrentStock: stock,
		Status:       ledger.StockStatus(stock, ing.Unit, ing.LowStockThreshold),
	})
}

// Update modifies an ingredient's name, unit or threshold (admin only).
func (h *IngredientHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req ingredientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ing, err := h.Ingredients.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrIngredientNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ingredient not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load ingredient failed"})
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		ing.Name = name
	}
	if unit := strings.ToLower(strings.TrimSpace(req.Unit)); unit != "" {
		ing.Unit = unit
	}
	if req.LowStockThreshold != nil {
		if *req.LowStockThreshold < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "low_stock_threshold must be non-negative"})
		}
		ing.LowStockThreshold = req.LowStockThreshold
	}

	if err := h.Ingredients.Update(ctx, ing); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "ingredient name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update ingredient failed"})
	}
	return c.JSON(http.StatusOK, ing)
}

// Delete removes an ingredient (admin only).  Its transaction history
// stays behind; stock queries for a deleted ingredient simply stop
// being reachable from listings.
func (h *IngredientHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Ingredients.Delete(ctx, id); err != nil {
		if err == repository.ErrIngredientNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ingredient not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete ingredient failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

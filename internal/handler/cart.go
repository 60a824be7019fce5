package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feastly/restaurant-backend/internal/repository"
)

// CartHandler manages each user's single open cart.
type CartHandler struct {
	Carts *repository.CartRepo
	Menu  *repository.MenuRepo
}

func NewCartHandler(carts *repository.CartRepo, menu *repository.MenuRepo) *CartHandler {
	return &CartHandler{Carts: carts, Menu: menu}
}

type cartItemReq struct {
	MenuItemID uint64 `json:"menu_item_id"`
	Quantity   uint32 `json:"quantity"`
}

// Get returns the caller's cart with its items, creating an empty
// cart on first access.
func (h *CartHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cart, err := h.Carts.GetOrCreate(ctx, authedUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cart failed"})
	}
	items, err := h.Carts.Items(ctx, cart.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cart items failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"cart": cart, "items": items})
}

// PutItem sets the quantity of a menu item in the cart.  Quantity 0
// removes the line.
func (h *CartHandler) PutItem(c echo.Context) error {
	var req cartItemReq
	if err := c.Bind(&req); err != nil || req.MenuItemID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "menu_item_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cart, err := h.Carts.GetOrCreate(ctx, authedUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cart failed"})
	}

	if req.Quantity == 0 {
		if err := h.Carts.RemoveItem(ctx, cart.ID, req.MenuItemID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove item failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}

	// Only live, available dishes can be added.
	m, err := h.Menu.GetByID(ctx, req.MenuItemID)
	if err != nil {
		if err == repository.ErrMenuItemNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load menu item failed"})
	}
	if !m.IsAvailable {
		return c.JSON(http.StatusConflict, echo.Map{"error": "menu item is not available"})
	}

	if err := h.Carts.UpsertItem(ctx, cart.ID, req.MenuItemID, req.Quantity); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update cart failed"})
	}

	items, err := h.Carts.Items(ctx, cart.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cart items failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"cart": cart, "items": items})
}

// Clear empties the caller's cart.
func (h *CartHandler) Clear(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cart, err := h.Carts.GetOrCreate(ctx, authedUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cart failed"})
	}
	if err := h.Carts.Clear(ctx, cart.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear cart failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/feastly/restaurant-backend/internal/model"
	"github.com/feastly/restaurant-backend/internal/repository"
)

// MenuHandler manages menu items and their ingredient links.  Deletes
// are soft so reviews and past orders keep valid references.
type MenuHandler struct {
	Menu *repository.MenuRepo
}

func NewMenuHandler(m *repository.MenuRepo) *MenuHandler {
	return &MenuHandler{Menu: m}
}

type menuLinkReq struct {
	IngredientID uint64  `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
}

type menuItemReq struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	PriceCents  uint32        `json:"price_cents"`
	IsAvailable *bool         `json:"is_available"`
	Ingredients []menuLinkReq `json:"ingredients"`
}

func menuLinks(id uint64, reqs []menuLinkReq) []model.MenuItemIngredient {
	links := make([]model.MenuItemIngredient, 0, len(reqs))
	for _, l := range reqs {
		links = append(links, model.MenuItemIngredient{
			MenuItemID:   id,
			IngredientID: l.IngredientID,
			Quantity:     l.Quantity,
		})
	}
	return links
}

// Create adds a menu item with its ingredient links (admin only).
func (h *MenuHandler) Create(c echo.Context) error {
	var req menuItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.PriceCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and price_cents required"})
	}
	for _, l := range req.Ingredients {
		if l.IngredientID == 0 || l.Quantity <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ingredient links need ingredient_id and positive quantity"})
		}
	}

	m := &model.MenuItem{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		PriceCents:  req.PriceCents,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		m.IsAvailable = *req.IsAvailable
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Menu.Create(ctx, m, menuLinks(0, req.Ingredients)); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "menu item already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create menu item failed"})
	}
	return c.JSON(http.StatusCreated, m)
}

// List returns menu items.  The public view hides unavailable dishes;
// ?all=true (admin) includes them.
func (h *MenuHandler) List(c echo.Context) error {
	onlyAvailable := true
	if c.QueryParam("all") == "true" {
		if role, _ := c.Get("role").(string); role == "ADMIN" {
			onlyAvailable = false
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Menu.List(ctx, onlyAvailable)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list menu failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get returns one menu item with its ingredient links.
func (h *MenuHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	m, err := h.Menu.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMenuItemNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load menu item failed"})
	}
	links, err := h.Menu.Ingredients(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load ingredients failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": m, "ingredients": links})
}

// Update modifies a menu item; when the body carries an ingredients
// array the links are replaced wholesale (admin only).
func (h *MenuHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req menuItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	m, err := h.Menu.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMenuItemNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load menu item failed"})
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		m.Name = name
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		m.Description = desc
	}
	if cat := strings.TrimSpace(req.Category); cat != "" {
		m.Category = cat
	}
	if req.PriceCents > 0 {
		m.PriceCents = req.PriceCents
	}
	if req.IsAvailable != nil {
		m.IsAvailable = *req.IsAvailable
	}

	// Update replaces the link set wholesale, so when the body omits
	// ingredients the current links are carried over unchanged.
	var links []model.MenuItemIngredient
	if req.Ingredients != nil {
		for _, l := range req.Ingredients {
			if l.IngredientID == 0 || l.Quantity <= 0 {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "ingredient links need ingredient_id and positive quantity"})
			}
		}
		links = menuLinks(id, req.Ingredients)
	} else if links, err = h.Menu.Ingredients(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load ingredients failed"})
	}

	if err := h.Menu.Update(ctx, m, links); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update menu item failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// Delete soft-deletes a menu item (admin only).
func (h *MenuHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Menu.SoftDelete(ctx, id); err != nil {
		if err == repository.ErrMenuItemNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete menu item failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

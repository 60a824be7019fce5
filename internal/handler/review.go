package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/feastly/restaurant-backend/internal/model"
	"github.com/feastly/restaurant-backend/internal/repository"
)

// ReviewHandler lets customers rate menu items.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
	Menu    *repository.MenuRepo
}

func NewReviewHandler(r *repository.ReviewRepo, m *repository.MenuRepo) *ReviewHandler {
	return &ReviewHandler{Reviews: r, Menu: m}
}

type reviewReq struct {
	Rating  uint8  `json:"rating"`
	Comment string `json:"comment"`
}

// Create posts a review on a menu item.
func (h *ReviewHandler) Create(c echo.Context) error {
	menuItemID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be 1..5"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Menu.GetByID(ctx, menuItemID); err != nil {
		if err == repository.ErrMenuItemNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load menu item failed"})
	}

	rev := &model.Review{
		UserID:     authedUserID(c),
		MenuItemID: menuItemID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
	}
	if err := h.Reviews.Create(ctx, rev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}
	return c.JSON(http.StatusCreated, rev)
}

// List returns a menu item's reviews, newest first.
func (h *ReviewHandler) List(c echo.Context) error {
	menuItemID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	reviews, err := h.Reviews.ListByMenuItem(ctx, menuItemID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reviews failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": reviews})
}

// Delete removes one of the caller's own reviews.
func (h *ReviewHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "review_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	switch err := h.Reviews.DeleteOwn(ctx, id, authedUserID(c)); err {
	case nil:
	case sql.ErrNoRows:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete review failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

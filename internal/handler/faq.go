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

// FAQHandler serves the public FAQ list and its admin management.
type FAQHandler struct {
	FAQs *repository.FAQRepo
}

func NewFAQHandler(f *repository.FAQRepo) *FAQHandler {
	return &FAQHandler{FAQs: f}
}

type faqReq struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Position *uint32 `json:"position"`
}

// List returns all FAQ entries ordered by position.
func (h *FAQHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	faqs, err := h.FAQs.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list faqs failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"faqs": faqs})
}

// Create adds an FAQ entry (admin only).
func (h *FAQHandler) Create(c echo.Context) error {
	var req faqReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Question = strings.TrimSpace(req.Question)
	req.Answer = strings.TrimSpace(req.Answer)
	if req.Question == "" || req.Answer == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "question and answer required"})
	}

	f := &model.FAQ{Question: req.Question, Answer: req.Answer}
	if req.Position != nil {
		f.Position = *req.Position
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.FAQs.Create(ctx, f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create faq failed"})
	}
	return c.JSON(http.StatusCreated, f)
}

// Update modifies an FAQ entry (admin only).
func (h *FAQHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req faqReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	f := &model.FAQ{
		ID:       id,
		Question: strings.TrimSpace(req.Question),
		Answer:   strings.TrimSpace(req.Answer),
	}
	if f.Question == "" || f.Answer == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "question and answer required"})
	}
	if req.Position != nil {
		f.Position = *req.Position
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.FAQs.Update(ctx, f); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "faq not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update faq failed"})
	}
	return c.JSON(http.StatusOK, f)
}

// Delete removes an FAQ entry (admin only).
func (h *FAQHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.FAQs.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "faq not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete faq failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

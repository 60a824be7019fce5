package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/feastly/restaurant-backend/internal/ledger"
	"github.com/feastly/restaurant-backend/internal/model"
	"github.com/feastly/restaurant-backend/internal/repository"
)

// TableStore is the persistence surface the table handler needs.
// *repository.TableRepo satisfies it.
type TableStore interface {
	Create(ctx context.Context, t *model.DiningTable) error
	GetByCode(ctx context.Context, code string) (*model.DiningTable, error)
	List(ctx context.Context, includeInactive bool) ([]model.DiningTable, error)
	Update(ctx context.Context, t *model.DiningTable) error
}

// TableHandler manages the physical tables that holds and
// reservations reference by code.  Listings are annotated with the
// active hold state so guests can see which slots are taken before
// attempting one themselves.
type TableHandler struct {
	Tables TableStore
	Ledger *ledger.ReservationLedger
}

func NewTableHandler(t TableStore, l *ledger.ReservationLedger) *TableHandler {
	return &TableHandler{Tables: t, Ledger: l}
}

// heldSlot is one active claim shown on a table listing.  Claimant
// identity is deliberately omitted from the public view.
type heldSlot struct {
	Date     string
	Time     string
	Status   string
	ExpireAt time.Time
}

// annotatedTable is a table plus its active holds and bookings.
type annotatedTable struct {
	model.DiningTable
	Holds []heldSlot
}

type tableReq struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Capacity uint32 `json:"capacity"`
	IsActive *bool  `json:"is_active"`
}

// Create registers a new dining table (admin only).
func (h *TableHandler) Create(c echo.Context) error {
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.Code == "" || req.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code and capacity required"})
	}

	t := &model.DiningTable{
		Code:     req.Code,
		Name:     strings.TrimSpace(req.Name),
		Capacity: req.Capacity,
		IsActive: true,
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Tables.Create(ctx, t); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create table failed"})
	}
	return c.JSON(http.StatusCreated, t)
}

// List returns tables annotated with their active holds and bookings.
// Pass ?date=2006-01-02 to narrow the annotations to one calendar
// date.  Admins may pass ?all=true to include deactivated tables; the
// public listing only shows active ones.
func (h *TableHandler) List(c echo.Context) error {
	includeInactive := c.QueryParam("all") == "true"
	if role, _ := c.Get("role").(string); role != "ADMIN" {
		includeInactive = false
	}

	date := strings.TrimSpace(c.QueryParam("date"))
	if date != "" {
		if _, err := time.Parse(ledger.DateLayout, date); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	tables, err := h.Tables.List(ctx, includeInactive)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list tables failed"})
	}

	holds, err := h.Ledger.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list tables failed"})
	}
	byTable := make(map[string][]heldSlot, len(tables))
	for _, hold := range holds {
		if date != "" && hold.Date != date {
			continue
		}
		byTable[hold.TableCode] = append(byTable[hold.TableCode], heldSlot{
			Date:     hold.Date,
			Time:     hold.Time,
			Status:   hold.Status,
			ExpireAt: hold.ExpireAt,
		})
	}

	out := make([]annotatedTable, 0, len(tables))
	for _, t := range tables {
		out = append(out, annotatedTable{DiningTable: t, Holds: byTable[t.Code]})
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": out})
}

// Get returns a single table by code.
func (h *TableHandler) Get(c echo.Context) error {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	t, err := h.Tables.GetByCode(ctx, code)
	if err != nil {
		if err == repository.ErrTableNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load table failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// Update modifies a table's name, capacity or active flag (admin only).
func (h *TableHandler) Update(c echo.Context) error {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))

	var req tableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	t, err := h.Tables.GetByCode(ctx, code)
	if err != nil {
		if err == repository.ErrTableNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load table failed"})
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		t.Name = name
	}
	if req.Capacity > 0 {
		t.Capacity = req.Capacity
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}

	if err := h.Tables.Update(ctx, t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update table failed"})
	}
	return c.JSON(http.StatusOK, t)
}

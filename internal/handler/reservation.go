package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/feastly/restaurant-backend/internal/ledger"
	"github.com/feastly/restaurant-backend/internal/model"
	"github.com/feastly/restaurant-backend/internal/queue"
	"github.com/feastly/restaurant-backend/internal/repository"
	queue_publisher "github.com/feastly/restaurant-backend/internal/service"
)

// ReservationHandler exposes the hold lifecycle and the reservation
// endpoints built on top of it.  A guest first holds a table slot,
// then confirms it into a reservation; the ledger serializes
// competing holds so only one claimant can win a slot.
type ReservationHandler struct {
	Ledger       *ledger.ReservationLedger
	Reservations *repository.ReservationRepo
	Tables       *repository.TableRepo
}

func NewReservationHandler(l *ledger.ReservationLedger, r *repository.ReservationRepo, t *repository.TableRepo) *ReservationHandler {
	return &ReservationHandler{Ledger: l, Reservations: r, Tables: t}
}

// ----- DTOs -----

type holdReq struct {
	TableCode string `json:"table_code"`
	Date      string `json:"date"` // YYYY-MM-DD
	Time      string `json:"time"` // HH:MM
}

type reservationReq struct {
	TableCode string `json:"table_code"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Guests    uint32 `json:"guests"`
	Notes     string `json:"notes"`
}

func claimant(c echo.Context) string {
	s, _ := c.Get("user_id").(string)
	return s
}

// lookupActiveTable resolves a table code to an active table or writes
// the error response and returns nil.
func (h *ReservationHandler) lookupActiveTable(ctx context.Context, c echo.Context, code string) *model.DiningTable {
	t, err := h.Tables.GetByCode(ctx, code)
	if err != nil {
		if err == repository.ErrTableNotFound {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "load table failed"})
		}
		return nil
	}
	if !t.IsActive {
		_ = c.JSON(http.StatusConflict, echo.Map{"error": "table is not active"})
		return nil
	}
	return t
}

// Hold claims a table slot for the caller.  The claim lasts one hour
// and blocks any overlapping dining window on the same table and date.
func (h *ReservationHandler) Hold(c echo.Context) error {
	var req holdReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.TableCode = strings.ToUpper(strings.TrimSpace(req.TableCode))

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if t := h.lookupActiveTable(ctx, c, req.TableCode); t == nil {
		return nil
	}

	hold, err := h.Ledger.Hold(ctx, req.TableCode, claimant(c), req.Date, req.Time)
	switch {
	case errors.Is(err, ledger.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_code, date and time required"})
	case errors.Is(err, ledger.ErrAlreadyHeld):
		return c.JSON(http.StatusConflict, echo.Map{"error": "table already held for an overlapping window"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hold failed"})
	}
	return c.JSON(http.StatusCreated, hold)
}

// Release drops the caller's active claim on a table.  Releasing a
// table the caller does not hold is a no-op.
func (h *ReservationHandler) Release(c echo.Context) error {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	hold, err := h.Ledger.Release(ctx, code, claimant(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "release failed"})
	}
	if hold == nil {
		return c.JSON(http.StatusOK, echo.Map{"released": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"released": true, "hold": hold})
}

// HoldStatus reports whether a slot is free, held or booked.
func (h *ReservationHandler) HoldStatus(c echo.Context) error {
	code := strings.ToUpper(strings.TrimSpace(c.QueryParam("table_code")))
	date := c.QueryParam("date")
	timeOfDay := c.QueryParam("time")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	hold, err := h.Ledger.Status(ctx, code, date, timeOfDay)
	if errors.Is(err, ledger.ErrInvalidInput) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_code, date and time required"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "status failed"})
	}
	if hold == nil {
		return c.JSON(http.StatusOK, echo.Map{"status": "free"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": hold.Status, "expire_at": hold.ExpireAt})
}

// ListHolds returns every active hold (admin only).
func (h *ReservationHandler) ListHolds(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	holds, err := h.Ledger.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list holds failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"holds": holds})
}

// Create confirms the caller's hold into a reservation.  The insert
// and the hold transition run in one transaction; without an active
// hold on the slot the request fails.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.TableCode = strings.ToUpper(strings.TrimSpace(req.TableCode))
	if req.Guests == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guests required"})
	}
	uid := authedUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	t := h.lookupActiveTable(ctx, c, req.TableCode)
	if t == nil {
		return nil
	}
	if req.Guests > t.Capacity {
		return c.JSON(http.StatusConflict, echo.Map{"error": "party exceeds table capacity"})
	}

	res := &model.Reservation{
		UserID:    uid,
		TableCode: req.TableCode,
		Date:      req.Date,
		Time:      req.Time,
		Guests:    req.Guests,
		Status:    model.ReservationConfirmed,
		Notes:     strings.TrimSpace(req.Notes),
	}

	var hold *model.TableHold
	err := h.Reservations.WithTx(ctx, func(txCtx context.Context) error {
		if err := h.Reservations.Create(txCtx, res); err != nil {
			return err
		}
		var err error
		hold, err = h.Ledger.Book(txCtx, req.TableCode, claimant(c), res.ID, req.Date, req.Time)
		return err
	})
	switch {
	case errors.Is(err, ledger.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_code, date and time required"})
	case errors.Is(err, ledger.ErrHoldNotFound):
		return c.JSON(http.StatusConflict, echo.Map{"error": "no active hold for this slot"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}

	// Best-effort event publish; a broker outage never fails the booking.
	windowEnd := req.Time
	if w, werr := ledger.DiningWindowAt(req.Date, req.Time); werr == nil {
		windowEnd = w.End.Format(ledger.TimeLayout)
	}
	ev := queue.ReservationBookedEvent{
		ReservationID: res.ID,
		UserID:        uid,
		TableCode:     req.TableCode,
		Date:          req.Date,
		Time:          req.Time,
		WindowEnd:     windowEnd,
		Guests:        int(req.Guests),
		BookedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		if err := queue_publisher.PublishReservationBooked(pubCtx, ev); err != nil {
			log.Printf("reservation %d: publish booked event failed: %v", res.ID, err)
		}
	}()

	return c.JSON(http.StatusCreated, echo.Map{"reservation": res, "hold": hold})
}

// Get returns one of the caller's reservations.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	res, err := h.Reservations.GetForUser(ctx, id, authedUserID(c))
	switch {
	case err == sql.ErrNoRows:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case err == repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservation failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// List returns the caller's reservations, newest first.
func (h *ReservationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	out, err := h.Reservations.ListByUser(ctx, authedUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// Cancel marks one of the caller's reservations cancelled.  The booked
// hold is left to lapse at its window end; the slot only frees up once
// it expires.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Reservations.GetForUser(ctx, id, authedUserID(c)); err != nil {
		switch {
		case err == sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case err == repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservation failed"})
		}
	}
	if err := h.Reservations.Cancel(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

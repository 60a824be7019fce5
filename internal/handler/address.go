package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/feastly/restaurant-backend/internal/geocode"
	"github.com/feastly/restaurant-backend/internal/model"
	"github.com/feastly/restaurant-backend/internal/repository"
)

// AddressHandler manages a user's delivery addresses.  New and updated
// addresses are geocoded when a geocoder is configured; a geocoding
// failure is logged and the address saved without coordinates.
type AddressHandler struct {
	Addresses *repository.AddressRepo
	Geocoder  geocode.Geocoder
}

func NewAddressHandler(a *repository.AddressRepo, g geocode.Geocoder) *AddressHandler {
	return &AddressHandler{Addresses: a, Geocoder: g}
}

type addressReq struct {
	Label      string `json:"label"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

func (h *AddressHandler) geocode(ctx context.Context, a *model.Address) {
	if h.Geocoder == nil {
		return
	}
	full := strings.Join([]string{a.Street, a.City, a.PostalCode}, ", ")
	lat, lon, err := h.Geocoder.Geocode(ctx, full)
	if err != nil {
		log.Printf("geocode %q failed: %v", full, err)
		a.Latitude, a.Longitude = nil, nil
		return
	}
	a.Latitude, a.Longitude = &lat, &lon
}

// Create saves a new address for the caller.
func (h *AddressHandler) Create(c echo.Context) error {
	var req addressReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Street = strings.TrimSpace(req.Street)
	req.City = strings.TrimSpace(req.City)
	if req.Street == "" || req.City == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "street and city required"})
	}

	a := &model.Address{
		UserID:     authedUserID(c),
		Label:      strings.TrimSpace(req.Label),
		Street:     req.Street,
		City:       req.City,
		PostalCode: strings.TrimSpace(req.PostalCode),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	h.geocode(ctx, a)

	if err := h.Addresses.Create(ctx, a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create address failed"})
	}
	return c.JSON(http.StatusCreated, a)
}

// List returns the caller's addresses.
func (h *AddressHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	out, err := h.Addresses.ListByUser(ctx, authedUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list addresses failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"addresses": out})
}

// Update rewrites one of the caller's addresses and re-geocodes it.
func (h *AddressHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req addressReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	a, err := h.Addresses.GetForUser(ctx, id, authedUserID(c))
	switch {
	case err == sql.ErrNoRows:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "address not found"})
	case err == repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load address failed"})
	}

	if label := strings.TrimSpace(req.Label); label != "" {
		a.Label = label
	}
	if street := strings.TrimSpace(req.Street); street != "" {
		a.Street = street
	}
	if city := strings.TrimSpace(req.City); city != "" {
		a.City = city
	}
	if pc := strings.TrimSpace(req.PostalCode); pc != "" {
		a.PostalCode = pc
	}
	h.geocode(ctx, a)

	if err := h.Addresses.Update(ctx, a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update address failed"})
	}
	return c.JSON(http.StatusOK, a)
}

// Delete removes one of the caller's addresses.
func (h *AddressHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	switch err := h.Addresses.Delete(ctx, id, authedUserID(c)); err {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case sql.ErrNoRows:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "address not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete address failed"})
	}
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-booking/internal/booking"
	"github.com/iliyamo/seat-booking/internal/cache"
	"github.com/iliyamo/seat-booking/internal/store"
)

// SeatHandler serves the read side of the API: seat availability and
// the reservation list for a date. Responses may come from the seat
// cache; the cache is nil-safe so no wiring is required in tests.
type SeatHandler struct {
	Store store.Store
	Cache *cache.SeatCache
}

// NewSeatHandler constructs a SeatHandler. The cache may be nil.
func NewSeatHandler(s store.Store, sc *cache.SeatCache) *SeatHandler {
	if s == nil {
		panic("nil store passed to NewSeatHandler")
	}
	return &SeatHandler{Store: s, Cache: sc}
}

// Available handles GET /api/seats/available?date=YYYY-MM-DD. A missing
// date yields an empty set, a malformed one 400; any well-formed date
// succeeds, including dates outside the booking window. Only mutations
// enforce the window.
func (h *SeatHandler) Available(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		return c.JSON(http.StatusOK, echo.Map{"available_seats": []string{}})
	}
	if _, err := booking.ParseDate(date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	if seats, ok := h.Cache.GetAvailable(ctx, date); ok {
		return c.JSON(http.StatusOK, echo.Map{"available_seats": seats})
	}
	seats, err := h.Store.ListAvailable(ctx, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.Cache.SetAvailable(ctx, date, seats)
	return c.JSON(http.StatusOK, echo.Map{"available_seats": seats})
}

// Reserved handles GET /api/seats/reserved?date=YYYY-MM-DD with the
// same date semantics as Available.
func (h *SeatHandler) Reserved(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		return c.JSON(http.StatusOK, echo.Map{"reserved_seats": []store.Reservation{}})
	}
	if _, err := booking.ParseDate(date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	if reservations, ok := h.Cache.GetReserved(ctx, date); ok {
		return c.JSON(http.StatusOK, echo.Map{"reserved_seats": reservations})
	}
	reservations, err := h.Store.ListReserved(ctx, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.Cache.SetReserved(ctx, date, reservations)
	return c.JSON(http.StatusOK, echo.Map{"reserved_seats": reservations})
}

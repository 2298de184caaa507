package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-booking/internal/booking"
	"github.com/iliyamo/seat-booking/internal/cache"
	"github.com/iliyamo/seat-booking/internal/queue"
	"github.com/iliyamo/seat-booking/internal/store"
)

// reservationRequest is the body of both POST and DELETE
// /api/reservations. Identity is the self-asserted email; there is no
// account system, ownership is tracked purely by this string.
type reservationRequest struct {
	UserEmail string `json:"user_email"`
	SeatName  string `json:"seat_name"`
	Date      string `json:"reservation_date"`
}

// ReservationHandler serves the mutation side of the API. Every
// successful mutation invalidates the seat cache for the touched date
// and emits a broker event; both are best-effort and never fail the
// request.
type ReservationHandler struct {
	Store  store.Store
	Cache  *cache.SeatCache
	Window booking.Window

	// Publish sends a reservation event to the broker. Swappable in
	// tests; nil disables publishing.
	Publish func(context.Context, queue.ReservationEvent) error
}

// NewReservationHandler constructs a ReservationHandler wired to the
// real broker publisher. The cache may be nil.
func NewReservationHandler(s store.Store, sc *cache.SeatCache, w booking.Window) *ReservationHandler {
	if s == nil {
		panic("nil store passed to NewReservationHandler")
	}
	return &ReservationHandler{
		Store:   s,
		Cache:   sc,
		Window:  w,
		Publish: queue.PublishReservationEvent,
	}
}

// Create handles POST /api/reservations. It validates the body and the
// booking window, then delegates the atomic check-and-set to the store.
// Conflicts (seat taken, user already booked) map to 409 with the
// store's reason verbatim so the client can surface it.
func (h *ReservationHandler) Create(c echo.Context) error {
	var body reservationRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.UserEmail == "" || body.SeatName == "" || body.Date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing required fields"})
	}
	date, err := booking.ParseDate(body.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Window.Validate(date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	if err := h.Store.Reserve(ctx, body.Date, body.SeatName, body.UserEmail); err != nil {
		switch {
		case errors.Is(err, store.ErrUnknownSeat):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		case errors.Is(err, store.ErrSeatTaken), errors.Is(err, store.ErrUserBooked):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}

	h.Cache.Invalidate(ctx, body.Date)
	h.publish(ctx, queue.ActionCreated, body)
	return c.JSON(http.StatusCreated, echo.Map{"message": "reservation created"})
}

// Cancel handles DELETE /api/reservations. The ownership check lives in
// the store under the same transaction as the delete; a non-owner gets
// 403 and a missing reservation 404. No window check here, stale
// reservations must stay cancellable.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	var body reservationRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.UserEmail == "" || body.SeatName == "" || body.Date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing required fields"})
	}
	if _, err := booking.ParseDate(body.Date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	if err := h.Store.Cancel(ctx, body.Date, body.SeatName, body.UserEmail); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		case errors.Is(err, store.ErrNotOwner):
			return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}

	h.Cache.Invalidate(ctx, body.Date)
	h.publish(ctx, queue.ActionCancelled, body)
	return c.JSON(http.StatusOK, echo.Map{"message": "reservation cancelled"})
}

// publish emits a reservation event, ignoring broker failures.
func (h *ReservationHandler) publish(ctx context.Context, action string, body reservationRequest) {
	if h.Publish == nil {
		return
	}
	_ = h.Publish(ctx, queue.ReservationEvent{
		Action:    action,
		Date:      body.Date,
		SeatName:  body.SeatName,
		UserEmail: body.UserEmail,
		At:        time.Now().UTC().Format(time.RFC3339),
	})
}

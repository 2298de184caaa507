package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-booking/internal/handler"
)

// RegisterRoutes wires the health check and the seat-booking API onto
// the provided Echo instance. The optional middleware (rate limiting)
// applies to the /api group only; the health check stays unthrottled
// for load balancers.
func RegisterRoutes(e *echo.Echo, seats *handler.SeatHandler, reservations *handler.ReservationHandler, mws ...echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api", mws...)
	// Read side: per-date seat views consumed by the client on every
	// date change and after every mutation.
	api.GET("/seats/available", seats.Available)
	api.GET("/seats/reserved", seats.Reserved)
	// Write side: claim and cancel. Both take the same JSON body.
	api.POST("/reservations", reservations.Create)
	api.DELETE("/reservations", reservations.Cancel)
}

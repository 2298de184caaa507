// Package store defines the seat/reservation state contract shared by the
// MySQL and in-memory implementations. Handlers depend on this interface
// and on the sentinel errors below; they never see implementation types.
package store

import (
	"context"
	"errors"
)

// Reservation binds one seat to one user for a single calendar day.
// Dates are ISO 8601 day strings (YYYY-MM-DD); each date owns an
// independent set of reservations.
type Reservation struct {
	SeatName  string `json:"seat_name"`
	UserEmail string `json:"user_email"`
}

// ErrUnknownSeat is returned when a reservation names a seat that does
// not exist in the catalog. Handlers translate this into HTTP 404.
var ErrUnknownSeat = errors.New("seat does not exist")

// ErrSeatTaken is returned when the requested seat already carries a
// reservation for the requested date. Handlers translate this into
// HTTP 409.
var ErrSeatTaken = errors.New("seat is already reserved")

// ErrUserBooked is returned when the requesting user already holds a
// reservation for the requested date. At most one seat per user per
// date. Handlers translate this into HTTP 409.
var ErrUserBooked = errors.New("user already has a reservation on this date")

// ErrNotFound is returned by Cancel when no reservation exists for the
// (date, seat) pair. Handlers translate this into HTTP 404.
var ErrNotFound = errors.New("no matching reservation found")

// ErrNotOwner is returned by Cancel when the reservation exists but
// belongs to a different email. Handlers translate this into HTTP 403.
var ErrNotOwner = errors.New("reservation belongs to another user")

// Store is the authoritative seat state for every date. Implementations
// must make Reserve and Cancel atomic with respect to concurrent calls:
// two simultaneous claims for the same (date, seat) must not both
// succeed, and a failed mutation must leave state untouched.
type Store interface {
	// ListAvailable returns the names of seats without a reservation
	// for the given date. A date with no reservations yields the full
	// catalog; the empty date yields an empty slice.
	ListAvailable(ctx context.Context, date string) ([]string, error)

	// ListReserved returns every reservation recorded for the date,
	// ordered by seat name. Unknown dates yield an empty slice.
	ListReserved(ctx context.Context, date string) ([]Reservation, error)

	// Reserve atomically checks that the seat is free and that the user
	// holds no reservation for the date, then records the reservation.
	// Returns ErrUnknownSeat, ErrSeatTaken or ErrUserBooked on failure.
	Reserve(ctx context.Context, date, seatName, userEmail string) error

	// Cancel removes the reservation for (date, seatName) when it is
	// owned by userEmail. Returns ErrNotFound when absent and
	// ErrNotOwner when owned by someone else.
	Cancel(ctx context.Context, date, seatName, userEmail string) error
}

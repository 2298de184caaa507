// Package booking holds date rules shared by the reservation handlers:
// the wire format for calendar days and the window inside which a
// reservation may be placed.
package booking

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire format for reservation dates (ISO 8601 day).
const DateLayout = "2006-01-02"

// ErrBadDate is returned for dates that do not parse as YYYY-MM-DD.
var ErrBadDate = errors.New("invalid date format (use YYYY-MM-DD)")

// ErrOutsideWindow is returned for well-formed dates the window rejects.
// The wrapped message carries the concrete reason for the client.
var ErrOutsideWindow = errors.New("date outside allowed range")

// ParseDate parses a YYYY-MM-DD string into a UTC day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return t, nil
}

// Window bounds how far ahead a reservation may be placed. Days counts
// calendar days from today; MaxBusinessDays additionally caps the
// number of weekdays between today and the target date. Now is
// swappable for tests and defaults to time.Now.
type Window struct {
	Days            int
	MaxBusinessDays int
	Now             func() time.Time
}

// Validate checks a reservation date against the window. Reads are not
// validated this way; only mutations go through here.
func (w Window) Validate(date time.Time) error {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	today := truncateToDay(now().UTC())
	date = truncateToDay(date)

	if date.Before(today) {
		return fmt.Errorf("%w: date is in the past", ErrOutsideWindow)
	}
	if int(date.Sub(today).Hours()/24) > w.Days {
		return fmt.Errorf("%w: date must be within the next %d days", ErrOutsideWindow, w.Days)
	}
	if BusinessDays(today, date) > w.MaxBusinessDays {
		return fmt.Errorf("%w: exceeds maximum of %d business days ahead", ErrOutsideWindow, w.MaxBusinessDays)
	}
	return nil
}

// BusinessDays counts weekdays in the inclusive range [start, end].
// Returns 0 when start is after end.
func BusinessDays(start, end time.Time) int {
	if start.After(end) {
		return 0
	}
	n := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			n++
		}
	}
	return n
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

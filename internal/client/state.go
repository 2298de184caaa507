package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/iliyamo/seat-booking/internal/store"
)

// Validation failures caught before any request is sent.
var (
	ErrSeatRequired  = errors.New("select a seat first")
	ErrEmailRequired = errors.New("email is required")
)

// Status tracks the lifecycle of the most recent action:
// Idle -> Loading -> (Success | Error) -> Idle. Entering Loading clears
// the previous outcome.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// Snapshot is the client's immutable view of the world. Controller
// methods replace the whole snapshot on every transition; callers get
// copies and can never observe a half-applied update.
type Snapshot struct {
	Date         string
	Available    []string
	Reserved     []store.Reservation
	SelectedSeat string
	Email        string
	Status       Status
	Err          string // user-visible failure message, empty when none
	Notice       string // user-visible success message, empty when none
}

// Controller owns the snapshot and reconciles it with the service.
// Reads after mutations are full refetches, never optimistic patches.
// Every fetch carries a sequence number; a response only applies while
// its sequence is still the newest, so rapid date changes resolve
// latest-wins and stale responses are discarded.
type Controller struct {
	api   *API
	prefs *Prefs

	mu       sync.Mutex
	snap     Snapshot
	fetchSeq uint64
}

// NewController builds a Controller over the given API. prefs may be
// nil; when present the last-used email is restored from it.
func NewController(api *API, prefs *Prefs) *Controller {
	c := &Controller{api: api, prefs: prefs}
	if prefs != nil {
		if email, err := prefs.Email(); err == nil {
			c.snap.Email = email
		}
	}
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.snap
	snap.Available = append([]string(nil), c.snap.Available...)
	snap.Reserved = append([]store.Reservation(nil), c.snap.Reserved...)
	return snap
}

// SelectDate switches the view to a new date and fetches both seat
// lists. Safe to call concurrently: each call claims a fresh sequence
// number and only the newest call's results are applied.
func (c *Controller) SelectDate(ctx context.Context, date string) {
	c.mu.Lock()
	c.fetchSeq++
	seq := c.fetchSeq
	c.snap.Date = date
	c.snap.SelectedSeat = ""
	c.snap.Status = StatusLoading
	c.snap.Err = ""
	c.snap.Notice = ""
	c.mu.Unlock()

	c.fetch(ctx, date, seq)
}

// SelectSeat marks a seat as the reservation candidate.
func (c *Controller) SelectSeat(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.SelectedSeat = name
}

// SetEmail records the asserted identity for subsequent mutations.
func (c *Controller) SetEmail(email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.Email = email
}

// Reserve claims the selected seat for the current date. Validation
// failures surface without touching the network. On success the
// selection is cleared and the view refetched so it matches the
// authoritative state; on rejection the prior view stays untouched.
func (c *Controller) Reserve(ctx context.Context) error {
	c.mu.Lock()
	date, seat, email := c.snap.Date, c.snap.SelectedSeat, c.snap.Email
	if seat == "" {
		c.failLocked(ErrSeatRequired.Error())
		c.mu.Unlock()
		return ErrSeatRequired
	}
	if email == "" {
		c.failLocked(ErrEmailRequired.Error())
		c.mu.Unlock()
		return ErrEmailRequired
	}
	c.snap.Status = StatusLoading
	c.snap.Err = ""
	c.snap.Notice = ""
	c.mu.Unlock()

	c.rememberEmail(email)
	if err := c.api.Reserve(ctx, date, seat, email); err != nil {
		c.mu.Lock()
		c.failLocked(err.Error())
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.snap.SelectedSeat = ""
	c.snap.Status = StatusSuccess
	c.snap.Notice = fmt.Sprintf("Reserved seat %s for %s", seat, date)
	c.fetchSeq++
	seq := c.fetchSeq
	c.mu.Unlock()

	c.fetch(ctx, date, seq)
	return nil
}

// Cancel revokes the user's reservation for the named seat on the
// current date. Ownership is enforced server-side; the email check here
// only stops anonymous attempts before they hit the network.
func (c *Controller) Cancel(ctx context.Context, seat string) error {
	c.mu.Lock()
	date, email := c.snap.Date, c.snap.Email
	if email == "" {
		c.failLocked(ErrEmailRequired.Error())
		c.mu.Unlock()
		return ErrEmailRequired
	}
	c.snap.Status = StatusLoading
	c.snap.Err = ""
	c.snap.Notice = ""
	c.mu.Unlock()

	c.rememberEmail(email)
	if err := c.api.Cancel(ctx, date, seat, email); err != nil {
		c.mu.Lock()
		c.failLocked(err.Error())
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.snap.Status = StatusSuccess
	c.snap.Notice = fmt.Sprintf("Cancelled seat %s for %s", seat, date)
	c.fetchSeq++
	seq := c.fetchSeq
	c.mu.Unlock()

	c.fetch(ctx, date, seq)
	return nil
}

// fetch loads both seat lists for the date and applies them only while
// seq is still the newest sequence and date is still the selected one.
// The date check matters for mutation refetches: a reserve claims a
// fresh sequence after its POST returns, so a date change during the
// POST would otherwise lose to the older date's refetch. Either list
// failing clears both sets: the view is all-or-nothing, never
// partially stale.
func (c *Controller) fetch(ctx context.Context, date string, seq uint64) {
	available, errA := c.api.ListAvailable(ctx, date)
	var reserved []store.Reservation
	errR := errA
	if errA == nil {
		reserved, errR = c.api.ListReserved(ctx, date)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.fetchSeq || date != c.snap.Date {
		return // a newer request owns the view now
	}
	if errA != nil || errR != nil {
		err := errA
		if err == nil {
			err = errR
		}
		c.snap.Available = nil
		c.snap.Reserved = nil
		c.failLocked(err.Error())
		return
	}
	c.snap.Available = available
	c.snap.Reserved = reserved
	if c.snap.Status == StatusLoading {
		c.snap.Status = StatusIdle
	}
}

// failLocked records a failure outcome. Caller holds c.mu.
func (c *Controller) failLocked(msg string) {
	c.snap.Status = StatusError
	c.snap.Err = msg
	c.snap.Notice = ""
}

// rememberEmail persists the email on every mutation attempt so a
// returning user does not retype it. Best effort.
func (c *Controller) rememberEmail(email string) {
	if c.prefs == nil {
		return
	}
	if err := c.prefs.SaveEmail(email); err != nil {
		// Persistence trouble must not block the booking flow.
		return
	}
}

// Package client implements the reservation client: a thin HTTP API
// wrapper plus the state-sync controller that keeps a local seat view
// reconciled with the server after every date change and mutation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/iliyamo/seat-booking/internal/store"
)

// ErrNetwork wraps transport-level failures (connection refused, DNS,
// timeouts). Server-reported rejections use *APIError instead.
var ErrNetwork = errors.New("network failure")

// APIError is a non-2xx response from the reservation service. Reason
// carries the server's error message verbatim for display.
type APIError struct {
	Status int
	Reason string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// IsConflict reports whether err is a seat/user conflict rejection.
func IsConflict(err error) bool { return hasStatus(err, http.StatusConflict) }

// IsUnauthorized reports whether err is an ownership rejection.
func IsUnauthorized(err error) bool { return hasStatus(err, http.StatusForbidden) }

// IsNotFound reports whether err is a missing-reservation rejection.
func IsNotFound(err error) bool { return hasStatus(err, http.StatusNotFound) }

func hasStatus(err error, status int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == status
}

// API calls the reservation service over HTTP.
type API struct {
	baseURL string
	http    *http.Client
}

// NewAPI returns an API client for the service at baseURL
// (e.g. "http://localhost:5000").
func NewAPI(baseURL string) *API {
	return &API{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// reservationBody is the shared JSON body of reserve and cancel calls.
type reservationBody struct {
	UserEmail string `json:"user_email"`
	SeatName  string `json:"seat_name"`
	Date      string `json:"reservation_date"`
}

// ListAvailable fetches the free seats for a date.
func (a *API) ListAvailable(ctx context.Context, date string) ([]string, error) {
	var out struct {
		AvailableSeats []string `json:"available_seats"`
	}
	if err := a.get(ctx, "/api/seats/available", date, &out); err != nil {
		return nil, err
	}
	if out.AvailableSeats == nil {
		out.AvailableSeats = []string{}
	}
	return out.AvailableSeats, nil
}

// ListReserved fetches the reservations for a date.
func (a *API) ListReserved(ctx context.Context, date string) ([]store.Reservation, error) {
	var out struct {
		ReservedSeats []store.Reservation `json:"reserved_seats"`
	}
	if err := a.get(ctx, "/api/seats/reserved", date, &out); err != nil {
		return nil, err
	}
	if out.ReservedSeats == nil {
		out.ReservedSeats = []store.Reservation{}
	}
	return out.ReservedSeats, nil
}

// Reserve claims a seat for the user on the date.
func (a *API) Reserve(ctx context.Context, date, seatName, userEmail string) error {
	return a.mutate(ctx, http.MethodPost, reservationBody{
		UserEmail: userEmail, SeatName: seatName, Date: date,
	})
}

// Cancel removes the user's reservation for the seat on the date.
func (a *API) Cancel(ctx context.Context, date, seatName, userEmail string) error {
	return a.mutate(ctx, http.MethodDelete, reservationBody{
		UserEmail: userEmail, SeatName: seatName, Date: date,
	})
}

func (a *API) get(ctx context.Context, path, date string, out interface{}) error {
	u := a.baseURL + path + "?date=" + url.QueryEscape(date)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrNetwork, err)
	}
	return nil
}

func (a *API) mutate(ctx context.Context, method string, body reservationBody) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+"/api/reservations", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	return nil
}

// responseError lifts the server's {"error": "..."} body into an APIError.
func responseError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return &APIError{Status: resp.StatusCode, Reason: body.Error}
}

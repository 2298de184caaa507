package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-booking/internal/booking"
	"github.com/iliyamo/seat-booking/internal/handler"
	"github.com/iliyamo/seat-booking/internal/queue"
	"github.com/iliyamo/seat-booking/internal/router"
	"github.com/iliyamo/seat-booking/internal/store"
)

// testNow pins "today" so window checks are deterministic. 2024-01-01
// is a Monday.
var testNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type testAPI struct {
	e      *echo.Echo
	events []queue.ReservationEvent
}

func newTestAPI() *testAPI {
	api := &testAPI{e: echo.New()}
	st := store.NewMemoryStore([]string{"A1", "A2", "B1"})
	window := booking.Window{Days: 7, MaxBusinessDays: 10, Now: func() time.Time { return testNow }}
	seats := handler.NewSeatHandler(st, nil)
	reservations := handler.NewReservationHandler(st, nil, window)
	reservations.Publish = func(_ context.Context, ev queue.ReservationEvent) error {
		api.events = append(api.events, ev)
		return nil
	}
	router.RegisterRoutes(api.e, seats, reservations)
	return api
}

func (a *testAPI) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) available(t *testing.T, date string) []string {
	t.Helper()
	rec := a.do(t, http.MethodGet, "/api/seats/available?date="+date, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET available: status %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		AvailableSeats []string `json:"available_seats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode available: %v", err)
	}
	return out.AvailableSeats
}

func (a *testAPI) reserved(t *testing.T, date string) []store.Reservation {
	t.Helper()
	rec := a.do(t, http.MethodGet, "/api/seats/reserved?date="+date, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET reserved: status %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		ReservedSeats []store.Reservation `json:"reserved_seats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode reserved: %v", err)
	}
	return out.ReservedSeats
}

func reservationJSON(email, seat, date string) string {
	raw, _ := json.Marshal(map[string]string{
		"user_email":       email,
		"seat_name":        seat,
		"reservation_date": date,
	})
	return string(raw)
}

func contains(seats []string, name string) bool {
	for _, s := range seats {
		if s == name {
			return true
		}
	}
	return false
}

func TestReserveThenListAndCancelFlow(t *testing.T) {
	api := newTestAPI()
	date := "2024-01-02"

	// Reserve A1 as alice.
	rec := api.do(t, http.MethodPost, "/api/reservations", reservationJSON("alice@x.com", "A1", date))
	if rec.Code != http.StatusCreated {
		t.Fatalf("reserve: status %d: %s", rec.Code, rec.Body.String())
	}

	reserved := api.reserved(t, date)
	if len(reserved) != 1 || reserved[0].SeatName != "A1" || reserved[0].UserEmail != "alice@x.com" {
		t.Fatalf("reserved = %+v, want [{A1 alice@x.com}]", reserved)
	}
	if contains(api.available(t, date), "A1") {
		t.Fatalf("A1 still available after reservation")
	}

	// Bob cannot cancel alice's reservation.
	rec = api.do(t, http.MethodDelete, "/api/reservations", reservationJSON("bob@x.com", "A1", date))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cancel by non-owner: status %d, want 403", rec.Code)
	}
	if len(api.reserved(t, date)) != 1 {
		t.Fatalf("state changed by rejected cancel")
	}

	// Alice cancels; the seat comes back.
	rec = api.do(t, http.MethodDelete, "/api/reservations", reservationJSON("alice@x.com", "A1", date))
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel by owner: status %d: %s", rec.Code, rec.Body.String())
	}
	if !contains(api.available(t, date), "A1") {
		t.Fatalf("A1 not available again after cancel")
	}
	if len(api.reserved(t, date)) != 0 {
		t.Fatalf("reserved list not empty after cancel")
	}

	// Both mutations emitted broker events.
	if len(api.events) != 2 || api.events[0].Action != queue.ActionCreated || api.events[1].Action != queue.ActionCancelled {
		t.Fatalf("events = %+v, want created then cancelled", api.events)
	}
}

func TestReserveRejections(t *testing.T) {
	date := "2024-01-02"

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"seat already taken", reservationJSON("bob@x.com", "A1", date), http.StatusConflict},
		{"user already booked", reservationJSON("alice@x.com", "A2", date), http.StatusConflict},
		{"unknown seat", reservationJSON("bob@x.com", "Z9", date), http.StatusNotFound},
		{"missing email", reservationJSON("", "A2", date), http.StatusBadRequest},
		{"missing seat", reservationJSON("bob@x.com", "", date), http.StatusBadRequest},
		{"malformed date", reservationJSON("bob@x.com", "A2", "01/02/2024"), http.StatusBadRequest},
		{"date in the past", reservationJSON("bob@x.com", "A2", "2023-12-31"), http.StatusBadRequest},
		{"date past the window", reservationJSON("bob@x.com", "A2", "2024-01-09"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI()
			rec := api.do(t, http.MethodPost, "/api/reservations", reservationJSON("alice@x.com", "A1", date))
			if rec.Code != http.StatusCreated {
				t.Fatalf("seed reserve: status %d", rec.Code)
			}
			rec = api.do(t, http.MethodPost, "/api/reservations", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			// Rejected mutations never publish events.
			if len(api.events) != 1 {
				t.Fatalf("events = %+v, want only the seed event", api.events)
			}
		})
	}
}

func TestCancelMissingReservation(t *testing.T) {
	api := newTestAPI()
	rec := api.do(t, http.MethodDelete, "/api/reservations", reservationJSON("alice@x.com", "A1", "2024-01-02"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSeatListDateHandling(t *testing.T) {
	api := newTestAPI()

	// Missing date: empty sets, not an error.
	if seats := api.available(t, ""); len(seats) != 0 {
		t.Fatalf("available with no date = %v, want empty", seats)
	}
	if reserved := api.reserved(t, ""); len(reserved) != 0 {
		t.Fatalf("reserved with no date = %v, want empty", reserved)
	}

	// Malformed date: 400.
	rec := api.do(t, http.MethodGet, "/api/seats/available?date=tomorrow", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed date: status %d, want 400", rec.Code)
	}

	// Well-formed dates never error on reads, even outside the window.
	if seats := api.available(t, "2030-06-01"); len(seats) != 3 {
		t.Fatalf("available for far future = %v, want full catalog", seats)
	}

	// Dates partition state: a reservation on one date leaves others untouched.
	api.do(t, http.MethodPost, "/api/reservations", reservationJSON("alice@x.com", "A1", "2024-01-02"))
	if !contains(api.available(t, "2024-01-03"), "A1") {
		t.Fatalf("reservation leaked across dates")
	}
}

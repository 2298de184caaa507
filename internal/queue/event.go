// Package queue defines message payloads exchanged over the message broker.
package queue

// Actions carried by a ReservationEvent.
const (
	ActionCreated   = "created"
	ActionCancelled = "cancelled"
)

// ReservationEvent is published whenever a reservation is created or
// cancelled. It carries enough information for downstream consumers to
// log or notify without querying the seat store.
type ReservationEvent struct {
	Action    string `json:"action"` // "created" or "cancelled"
	Date      string `json:"reservation_date"`
	SeatName  string `json:"seat_name"`
	UserEmail string `json:"user_email"`
	At        string `json:"at"` // RFC3339 timestamp of the mutation
}

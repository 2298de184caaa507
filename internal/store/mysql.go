package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// SQLStore implements Store on top of MySQL. Every mutation runs in a
// transaction that locks the relevant reservation rows with
// SELECT ... FOR UPDATE before deciding the outcome, and the schema
// carries UNIQUE keys on (reservation_date, seat_name) and
// (reservation_date, user_email) as a backstop, so two concurrent
// claims for the same seat can never both commit.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore returns a SQLStore bound to the given database handle.
func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// DB exposes the underlying handle for schema setup and seeding.
func (s *SQLStore) DB() *sql.DB { return s.db }

// ListAvailable returns catalog seats with no reservation on the date.
func (s *SQLStore) ListAvailable(ctx context.Context, date string) ([]string, error) {
	if date == "" {
		return []string{}, nil
	}
	const q = `SELECT se.name
	           FROM seats se
	           LEFT JOIN reservations r
	             ON r.seat_name = se.name AND r.reservation_date = ?
	           WHERE r.id IS NULL
	           ORDER BY se.name`
	rows, err := s.db.QueryContext(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListReserved returns every reservation for the date ordered by seat name.
func (s *SQLStore) ListReserved(ctx context.Context, date string) ([]Reservation, error) {
	const q = `SELECT seat_name, user_email
	           FROM reservations
	           WHERE reservation_date = ?
	           ORDER BY seat_name`
	rows, err := s.db.QueryContext(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Reservation, 0)
	for rows.Next() {
		var r Reservation
		if err := rows.Scan(&r.SeatName, &r.UserEmail); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Reserve records a reservation for (date, seatName, userEmail). The
// seat-free and one-seat-per-user checks run inside the transaction
// with the conflicting rows locked; the UNIQUE keys catch any race the
// row locks cannot see (no existing row to lock yet).
func (s *SQLStore) Reserve(ctx context.Context, date, seatName, userEmail string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Catalog membership first so a typo'd seat reads as 404, not 409.
	var name string
	err = tx.QueryRowContext(ctx, `SELECT name FROM seats WHERE name = ?`, seatName).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUnknownSeat
	}
	if err != nil {
		return err
	}

	var owner string
	err = tx.QueryRowContext(ctx,
		`SELECT user_email FROM reservations WHERE reservation_date = ? AND seat_name = ? FOR UPDATE`,
		date, seatName).Scan(&owner)
	if err == nil {
		return ErrSeatTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var existing string
	err = tx.QueryRowContext(ctx,
		`SELECT seat_name FROM reservations WHERE reservation_date = ? AND user_email = ? FOR UPDATE`,
		date, userEmail).Scan(&existing)
	if err == nil {
		return ErrUserBooked
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO reservations (user_email, seat_name, reservation_date) VALUES (?, ?, ?)`,
		userEmail, seatName, date)
	if err != nil {
		return mapDuplicate(err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Cancel removes a reservation after verifying ownership. The lookup
// locks the row so the reservation cannot be reassigned between the
// ownership check and the delete.
func (s *SQLStore) Cancel(ctx context.Context, date, seatName, userEmail string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var owner string
	err = tx.QueryRowContext(ctx,
		`SELECT user_email FROM reservations WHERE reservation_date = ? AND seat_name = ? FOR UPDATE`,
		date, seatName).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if owner != userEmail {
		return ErrNotOwner
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM reservations WHERE reservation_date = ? AND seat_name = ?`,
		date, seatName)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// mapDuplicate translates MySQL duplicate-key errors (1062) into the
// matching sentinel by inspecting which unique key fired.
func mapDuplicate(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != 1062 {
		return err
	}
	if strings.Contains(me.Message, "uq_date_user") {
		return ErrUserBooked
	}
	return ErrSeatTaken
}

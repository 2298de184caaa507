package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATE/DATETIME -> time.Time | loc=UTC keeps dates consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the seats and reservations tables when absent.
// The unique keys are load-bearing: uq_date_seat and uq_date_user are
// what the store's duplicate-key mapping relies on, so their names
// must not change without updating internal/store.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS seats (
			name VARCHAR(32) NOT NULL,
			PRIMARY KEY (name)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS reservations (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			user_email VARCHAR(255) NOT NULL,
			seat_name VARCHAR(32) NOT NULL,
			reservation_date DATE NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_date_seat (reservation_date, seat_name),
			UNIQUE KEY uq_date_user (reservation_date, user_email),
			CONSTRAINT fk_reservations_seat FOREIGN KEY (seat_name) REFERENCES seats (name)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SeedSeats inserts the configured seat catalog, ignoring names that
// already exist. Seats are never deleted here; shrinking the catalog
// is an operator decision because reservations may reference them.
func SeedSeats(ctx context.Context, db *sql.DB, seats []string) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT IGNORE INTO seats (name) VALUES `
	args := make([]interface{}, 0, len(seats))
	placeholders := make([]string, 0, len(seats))
	for _, s := range seats {
		placeholders = append(placeholders, "(?)")
		args = append(args, s)
	}
	query += strings.Join(placeholders, ",")
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("seed seats: %w", err)
	}
	return nil
}

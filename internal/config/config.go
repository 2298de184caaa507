package config // package config loads application configuration from environment variables

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The database block is optional: when
// DB_HOST is unset the server falls back to the in-memory seat store,
// which is the intended dev-mode setup.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address; empty selects the memory store
	DBPort string // database port number
	DBName string // database name

	Seats []string // seat catalog, seeded at startup

	WindowDays      int // how many calendar days ahead a reservation may be placed
	MaxBusinessDays int // cap on business days between today and the reservation date
}

// defaultSeats is the seeded catalog when SEAT_NAMES is not set: four
// rows of four seats (A1..D4).
const defaultSeats = "A1,A2,A3,A4,B1,B2,B3,B4,C1,C2,C3,C4,D1,D2,D3,D4"

// Load reads configuration values from environment variables. Every
// value has a workable default so the server starts with no .env at all.
func Load() Config {
	return Config{
		Env:             getenv("APP_ENV", "dev"),
		Port:            getenv("APP_PORT", "5000"),
		DBUser:          getenv("DB_USER", "root"),
		DBPass:          os.Getenv("DB_PASS"),
		DBHost:          os.Getenv("DB_HOST"),
		DBPort:          getenv("DB_PORT", "3306"),
		DBName:          getenv("DB_NAME", "seat_booking"),
		Seats:           parseSeats(getenv("SEAT_NAMES", defaultSeats)),
		WindowDays:      envInt("BOOKING_WINDOW_DAYS", 7),
		MaxBusinessDays: envInt("BOOKING_MAX_BUSINESS_DAYS", 10),
	}
}

// UseDatabase reports whether a MySQL store should be opened.
func (c Config) UseDatabase() bool { return c.DBHost != "" }

// parseSeats splits a comma-separated seat list, trimming blanks.
func parseSeats(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Helper functions shared by the cache and rate-limit loaders.

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}

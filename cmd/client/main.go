package main // Command-line reservation client

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/iliyamo/seat-booking/internal/booking"
	"github.com/iliyamo/seat-booking/internal/client"
)

const usage = `usage: seatctl [flags] <command>

commands:
  seats     show available and reserved seats for --date
  reserve   reserve --seat on --date as --email
  cancel    cancel --seat on --date as --email

The email is remembered across runs; pass --email once.
`

func main() {
	if err := godotenv.Load(); err == nil {
		log.Printf("loaded .env")
	}

	server := pflag.String("server", envOr("SEAT_SERVER", "http://localhost:5000"), "base URL of the reservation service")
	date := pflag.String("date", time.Now().UTC().Format(booking.DateLayout), "reservation date (YYYY-MM-DD)")
	seat := pflag.String("seat", "", "seat name, e.g. A1")
	email := pflag.String("email", "", "your email (stored for next time)")
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		pflag.PrintDefaults()
	}
	pflag.Parse()

	prefs, err := client.DefaultPrefs()
	if err != nil {
		log.Printf("prefs unavailable, email will not be remembered: %v", err)
		prefs = nil
	}
	ctrl := client.NewController(client.NewAPI(*server), prefs)
	if *email != "" {
		ctrl.SetEmail(*email)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch pflag.Arg(0) {
	case "seats":
		ctrl.SelectDate(ctx, *date)
		printSeats(ctrl.Snapshot())
	case "reserve":
		ctrl.SelectDate(ctx, *date)
		ctrl.SelectSeat(*seat)
		if err := ctrl.Reserve(ctx); err != nil {
			fail(ctrl.Snapshot())
		}
		snap := ctrl.Snapshot()
		fmt.Println(snap.Notice)
		printSeats(snap)
	case "cancel":
		ctrl.SelectDate(ctx, *date)
		if err := ctrl.Cancel(ctx, *seat); err != nil {
			fail(ctrl.Snapshot())
		}
		snap := ctrl.Snapshot()
		fmt.Println(snap.Notice)
		printSeats(snap)
	default:
		pflag.Usage()
		os.Exit(2)
	}
}

func printSeats(snap client.Snapshot) {
	if snap.Err != "" {
		fail(snap)
	}
	fmt.Printf("seats for %s\n", snap.Date)
	fmt.Printf("  available: %v\n", snap.Available)
	for _, r := range snap.Reserved {
		fmt.Printf("  reserved:  %s by %s\n", r.SeatName, r.UserEmail)
	}
}

func fail(snap client.Snapshot) {
	fmt.Fprintf(os.Stderr, "error: %s\n", snap.Err)
	os.Exit(1)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

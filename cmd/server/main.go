package main // Entry point for the seat-booking API server

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/seat-booking/internal/booking"
	"github.com/iliyamo/seat-booking/internal/cache"
	"github.com/iliyamo/seat-booking/internal/config"
	"github.com/iliyamo/seat-booking/internal/database"
	"github.com/iliyamo/seat-booking/internal/handler"
	"github.com/iliyamo/seat-booking/internal/middleware"
	"github.com/iliyamo/seat-booking/internal/queue"
	"github.com/iliyamo/seat-booking/internal/router"
	"github.com/iliyamo/seat-booking/internal/store"
)

func main() {
	// Load .env when present; real deployments set env vars directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	// Seat store: MySQL when configured, in-memory otherwise (dev mode).
	var seatStore store.Store
	if cfg.UseDatabase() {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("database open: %v", err)
		}
		ctx := context.Background()
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("database schema: %v", err)
		}
		if err := database.SeedSeats(ctx, db, cfg.Seats); err != nil {
			log.Fatalf("database seed: %v", err)
		}
		seatStore = store.NewSQLStore(db)
		log.Printf("seat store: mysql (%s/%s)", cfg.DBHost, cfg.DBName)
	} else {
		seatStore = store.NewMemoryStore(cfg.Seats)
		log.Printf("seat store: in-memory (%d seats)", len(cfg.Seats))
	}

	// Redis is optional; cache and rate limiting degrade to no-ops.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: seat cache and rate limiting disabled")
	}
	seatCache := cache.New(rdb, config.LoadCacheConfig())

	window := booking.Window{Days: cfg.WindowDays, MaxBusinessDays: cfg.MaxBusinessDays}
	seats := handler.NewSeatHandler(seatStore, seatCache)
	reservations := handler.NewReservationHandler(seatStore, seatCache, window)

	// Background consumer mirrors reservation events into logs/.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.RegisterRoutes(e, seats, reservations, limiter)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/cafe-reservation-hub/internal/config"  // Internal config loader
	"github.com/iliyamo/cafe-reservation-hub/internal/handler" // Booking handlers
	"github.com/iliyamo/cafe-reservation-hub/internal/queue"   // Status-change audit consumer
	"github.com/iliyamo/cafe-reservation-hub/internal/router"  // Internal router setup
)

func main() {
	// Load a local .env when present; real deployments set the
	// environment directly and the file is simply absent.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	// Redis backs the listing cache and the rate limiter. A nil client
	// (Redis down or unconfigured) disables both without failing startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	// The audit consumer runs for the life of the process and reconnects
	// on its own; it never takes the API down with it.
	go func() {
		if err := queue.StartStatusConsumer(); err != nil {
			log.Printf("status consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)

	h := handler.NewBookingHandler(cfg.UpstreamBaseURL, cfg.UpstreamTimeoutSec, cfg.DefaultCafeID)
	router.RegisterBookings(e, h, cfg.JWTSecret, rdb, config.LoadCacheConfig(), config.LoadRateLimitConfig())

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}

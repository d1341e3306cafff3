package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cafe-reservation-hub/internal/config"     // config carries cache and rate-limit settings
	"github.com/iliyamo/cafe-reservation-hub/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/cafe-reservation-hub/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler. This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterBookings registers the aggregated booking endpoints and their
// middleware. All routes require a valid bearer token; the role claim is
// checked against the platform's known roles, and the finer role-aware
// transition rules are enforced by the lifecycle engine inside the
// handler rather than at the route level. The Redis client may be nil,
// in which case caching and rate limiting silently disable themselves.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, rdb *redis.Client, cacheCfg config.CacheConfig, rlCfg config.RateLimitConfig) {
	// Protected group under /v1. JWTAuth validates the token and stores
	// identity claims; RequireRole rejects unknown or missing roles; the
	// token bucket shields the upstream store from refresh storms.
	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))
	v1.Use(middleware.RequireRole("admin", "manager", "barista", "customer"))
	v1.Use(middleware.NewTokenBucket(rlCfg, rdb))

	// The listing and summary are read-only and benefit from the short
	// response cache; the cache key varies by user so one tenant's view
	// is never replayed to another.
	listingCache := middleware.NewRedisCache(cacheCfg, rdb)
	v1.GET("/bookings", h.List, listingCache)
	v1.GET("/bookings/summary", h.Summary, listingCache)

	// Transitions are never cached. Which targets are legal for which
	// role is the lifecycle engine's decision.
	v1.PUT("/bookings/:kind/:id/status", h.UpdateStatus)
}

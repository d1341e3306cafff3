package handler // declare the package name; contains HTTP handlers

import (
	"net/http" // net/http provides status codes and response helpers

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems to verify that the service is running. It reports
// only this process's liveness; upstream reachability surfaces through
// the listing endpoints' own error handling.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject, role and cafe claims into the request
// context. The provided secret must match the one used by the platform's
// token issuer (an external collaborator; this service never issues
// tokens). Handlers access the authenticated identity via
// c.Get("user_id"), c.Get("role") and c.Get("cafe_id"), and read the raw
// token via c.Get("bearer_token") to forward it to the upstream store.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Read the Authorization header. A valid header starts with
			// "Bearer " followed by the JWT; anything else is rejected
			// before the handler runs.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse the token using the HS256 signing method and our
			// secret. The callback supplies the signing key and ensures
			// the algorithm matches what we expect; a different signing
			// method means the token was not issued for us.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			// Store the subject (user ID), role and cafe claims in the
			// context. The cafe claim is the operator's assigned tenant
			// and acts as the fallback when a record carries no cafe of
			// its own. The raw token travels along so upstream calls are
			// made with the caller's own credential, never an ambient one.
			c.Set("user_id", claims["sub"])
			c.Set("role", claims["role"])
			c.Set("cafe_id", claims["cafe_id"])
			c.Set("bearer_token", raw)
			return next(c)
		}
	}
}

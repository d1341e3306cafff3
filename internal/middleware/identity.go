package middleware

// identity.go defines helper functions shared across middleware files and
// handlers. They read the claim values JWTAuth stored in the Echo context
// and normalize them to strings, since JWT number claims decode as
// float64 and the rest of the code only ever needs string identities.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// ClaimString reads a context value set by JWTAuth and renders it as a
// string. Missing values return "".
func ClaimString(c echo.Context, key string) string {
	switch v := c.Get(key).(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

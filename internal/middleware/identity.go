package middleware

import (
	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user's ID from the context,
// or "anon" for unauthenticated requests.  JWTAuth stores the value as
// a string; rate-limit keys and debug headers use it.
func currentUserID(c echo.Context) string {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s
	}
	return "anon"
}

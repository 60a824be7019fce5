package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// dbTimeout bounds every repository call made from a handler.
const dbTimeout = 5 * time.Second

// authedUserID reads the numeric user ID that JWTAuth stored in the
// context.  Returns 0 when the value is missing or malformed, which
// callers treat as unauthorized.
func authedUserID(c echo.Context) uint64 {
	s, ok := c.Get("user_id").(string)
	if !ok {
		return 0
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

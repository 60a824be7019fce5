package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWTAuth validates the Bearer access token on protected routes and
// stores the subject and role claims on the request context, where
// handlers read them back via c.Get("user_id") and c.Get("role").
// The secret must be the one the token was issued with.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A usable header is "Bearer <token>"; anything else is
			// rejected before touching the parser.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Only HS256-family tokens are accepted.  The keyfunc
			// rejects any other signing method so a token signed with
			// "none" or an RSA key never validates against our secret.
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

			// Subject is normalised to a decimal string so downstream
			// code (rate-limit keys, ownership checks) can rely on it.
			sub := subjectString(claims["sub"])
			if sub == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			c.Set("user_id", sub)
			c.Set("role", claims["role"])
			return next(c)
		}
	}
}

// subjectString renders the sub claim as a decimal string.  JSON
// numbers decode to float64, which must be converted through an
// integer: formatting the float directly prints large user IDs in
// scientific notation.
func subjectString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t < 0 {
			return ""
		}
		return strconv.FormatUint(uint64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	}
	return ""
}

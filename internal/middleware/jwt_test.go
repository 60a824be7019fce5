package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// runJWTAuth sends one request through the middleware and returns the
// recorder plus the context values the chain stored.
func runJWTAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, string, interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var userID string
	var role interface{}
	next := func(c echo.Context) error {
		userID, _ = c.Get("user_id").(string)
		role = c.Get("role")
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, JWTAuth(testSecret)(next)(c))
	return rec, userID, role
}

func TestJWTAuth(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()

	t.Run("stores numeric subject as decimal string", func(t *testing.T) {
		// A numeric sub decodes from JSON as float64; IDs at or above
		// one million must not come out in scientific notation.
		tok := signToken(t, jwt.MapClaims{"sub": 1000000, "role": "CUSTOMER", "exp": exp})

		rec, userID, role := runJWTAuth(t, "Bearer "+tok)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "1000000", userID)
		assert.Equal(t, "CUSTOMER", role)
	})

	t.Run("accepts string subject unchanged", func(t *testing.T) {
		tok := signToken(t, jwt.MapClaims{"sub": "42", "role": "ADMIN", "exp": exp})

		rec, userID, _ := runJWTAuth(t, "Bearer "+tok)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "42", userID)
	})

	t.Run("rejects a missing bearer token", func(t *testing.T) {
		rec, _, _ := runJWTAuth(t, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256,
			jwt.MapClaims{"sub": "1", "exp": exp}).SignedString([]byte("other-secret"))
		require.NoError(t, err)

		rec, _, _ := runJWTAuth(t, "Bearer "+signed)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		tok := signToken(t, jwt.MapClaims{"sub": "1", "exp": time.Now().Add(-time.Minute).Unix()})

		rec, _, _ := runJWTAuth(t, "Bearer "+tok)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSubjectString(t *testing.T) {
	assert.Equal(t, "1000000", subjectString(float64(1000000)))
	assert.Equal(t, "18446744", subjectString(uint64(18446744)))
	assert.Equal(t, "7", subjectString(int64(7)))
	assert.Equal(t, "abc", subjectString("abc"))
	assert.Equal(t, "", subjectString(nil))
	assert.Equal(t, "", subjectString(float64(-1)))
}

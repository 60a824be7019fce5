package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPGeocoder(t *testing.T) {
	t.Run("returns first hit", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search", r.URL.Path)
			assert.Equal(t, "12 Main St, Springfield, 12345", r.URL.Query().Get("q"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"lat":"51.5074","lon":"-0.1278"},{"lat":"0","lon":"0"}]`))
		}))
		defer srv.Close()

		g := NewHTTPGeocoder(srv.URL)
		lat, lon, err := g.Geocode(context.Background(), "12 Main St, Springfield, 12345")
		require.NoError(t, err)
		assert.InDelta(t, 51.5074, lat, 1e-9)
		assert.InDelta(t, -0.1278, lon, 1e-9)
	})

	t.Run("no results is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		g := NewHTTPGeocoder(srv.URL)
		_, _, err := g.Geocode(context.Background(), "nowhere")
		assert.Error(t, err)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		g := NewHTTPGeocoder(srv.URL)
		_, _, err := g.Geocode(context.Background(), "anywhere")
		assert.Error(t, err)
	})

	t.Run("empty base url disables geocoding", func(t *testing.T) {
		assert.Nil(t, NewHTTPGeocoder(""))
	})
}

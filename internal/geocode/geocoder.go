// Package geocode resolves street addresses to coordinates through an
// external HTTP geocoding service.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Geocoder turns a free-form address into coordinates.  Implementations
// must treat failures as non-fatal: callers save addresses without
// coordinates when geocoding is unavailable.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lon float64, err error)
}

// HTTPGeocoder queries a Nominatim-compatible search endpoint
// (format=json, q=<address>) and returns the first hit.
type HTTPGeocoder struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPGeocoder builds a geocoder for the given base URL.  An empty
// URL returns nil, which callers treat as geocoding disabled.
func NewHTTPGeocoder(baseURL string) *HTTPGeocoder {
	if baseURL == "" {
		return nil
	}
	return &HTTPGeocoder{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type nominatimHit struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *HTTPGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	u := fmt.Sprintf("%s/search?format=json&limit=1&q=%s", g.BaseURL, url.QueryEscape(address))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, 0, err
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocoder status %d", resp.StatusCode)
	}

	var hits []nominatimHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return 0, 0, err
	}
	if len(hits) == 0 {
		return 0, 0, fmt.Errorf("no results for %q", address)
	}
	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return 0, 0, err
	}
	lon, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

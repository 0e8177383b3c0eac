package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"eventscout/internal/domain"
)

type httpGeocoder struct {
	client  *http.Client
	baseURL string
}

// NewHTTPGeocoder returns a Geocoder backed by a Nominatim-compatible search
// endpoint. The provider keeps coordinates as the strings it returned; we
// never reformat them.
func NewHTTPGeocoder(client *http.Client, baseURL string) domain.Geocoder {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpGeocoder{client: client, baseURL: baseURL}
}

type geocodeResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *httpGeocoder) Geocode(ctx context.Context, address string) (string, string, error) {
	u := fmt.Sprintf("%s?format=json&limit=1&q=%s", g.baseURL, url.QueryEscape(address))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "eventscout/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch from geocoder: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("geocoder returned status: %d", resp.StatusCode)
	}

	var results []geocodeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", "", fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	if len(results) == 0 {
		return "", "", fmt.Errorf("no results for address")
	}
	return results[0].Lat, results[0].Lon, nil
}

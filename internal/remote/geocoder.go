package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mwalcott/holidaytrack/internal/domain"
)

// geocodeResponse mirrors the reverse-geocoding API's response. Only the
// country fields are used; everything else the API returns is ignored.
type geocodeResponse struct {
	CountryCode string `json:"countryCode"`
	CountryName string `json:"countryName"`
}

// Geocoder is a client for a BigDataCloud-compatible reverse-geocoding API.
// It is safe for concurrent use.
type Geocoder struct {
	baseURL string
	client  *http.Client
}

// NewGeocoder constructs a Geocoder. baseURL is the API root without the
// endpoint path (e.g. "https://api.bigdatacloud.net/data").
func NewGeocoder(baseURL string, timeout time.Duration) *Geocoder {
	return &Geocoder{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// ReverseGeocode resolves coordinates to a country. Transport failures,
// non-2xx statuses, undecodable bodies, and responses without a country
// code all wrap domain.ErrNoLocation — the caller only needs to know that
// no country could be determined.
func (g *Geocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.Location, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("localityLanguage", "en")

	u := g.baseURL + "/reverse-geocode-client?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Location{}, fmt.Errorf("remote.Geocoder.ReverseGeocode: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return domain.Location{}, fmt.Errorf("remote.Geocoder.ReverseGeocode: %v: %w", err, domain.ErrNoLocation)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return domain.Location{}, fmt.Errorf("remote.Geocoder.ReverseGeocode: status %d: %w", res.StatusCode, domain.ErrNoLocation)
	}

	var body geocodeResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return domain.Location{}, fmt.Errorf("remote.Geocoder.ReverseGeocode: decode: %v: %w", err, domain.ErrNoLocation)
	}
	if body.CountryCode == "" {
		return domain.Location{}, fmt.Errorf("remote.Geocoder.ReverseGeocode: no country in response: %w", domain.ErrNoLocation)
	}

	return domain.Location{
		Latitude:    lat,
		Longitude:   lon,
		CountryCode: body.CountryCode,
		CountryName: body.CountryName,
	}, nil
}

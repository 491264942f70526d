package remote_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwalcott/holidaytrack/internal/domain"
	"github.com/mwalcott/holidaytrack/internal/remote"
)

func TestGeocoder_ReverseGeocode_ResolvesCountry(t *testing.T) {
	var capturedLat, capturedLon string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedLat = r.URL.Query().Get("latitude")
		capturedLon = r.URL.Query().Get("longitude")
		_, _ = w.Write([]byte(`{"countryCode":"GB","countryName":"United Kingdom","city":"Middlesbrough"}`))
	}))
	defer srv.Close()

	g := remote.NewGeocoder(srv.URL, time.Second)

	got, err := g.ReverseGeocode(context.Background(), 54.57, -1.23)

	require.NoError(t, err)
	assert.Equal(t, "GB", got.CountryCode)
	assert.Equal(t, "United Kingdom", got.CountryName)
	assert.Equal(t, 54.57, got.Latitude)
	assert.Equal(t, -1.23, got.Longitude)
	assert.Equal(t, "54.57", capturedLat)
	assert.Equal(t, "-1.23", capturedLon)
}

func TestGeocoder_ReverseGeocode_NoCountryInResponse(t *testing.T) {
	// Open ocean: the geocoder answers 200 but without a country.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"countryCode":"","countryName":""}`))
	}))
	defer srv.Close()

	g := remote.NewGeocoder(srv.URL, time.Second)

	_, err := g.ReverseGeocode(context.Background(), 0, -140)

	assert.ErrorIs(t, err, domain.ErrNoLocation)
}

func TestGeocoder_ReverseGeocode_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := remote.NewGeocoder(srv.URL, time.Second)

	_, err := g.ReverseGeocode(context.Background(), 54.57, -1.23)

	assert.ErrorIs(t, err, domain.ErrNoLocation)
}

func TestGeocoder_ReverseGeocode_ServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	g := remote.NewGeocoder(srv.URL, time.Second)

	_, err := g.ReverseGeocode(context.Background(), 54.57, -1.23)

	assert.ErrorIs(t, err, domain.ErrNoLocation)
}

package service

import (
	"context"
	"fmt"

	"github.com/mwalcott/holidaytrack/internal/domain"
)

// GeocoderClient resolves coordinates to a country.
// Implemented by remote.Geocoder; mocked in tests.
type GeocoderClient interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (domain.Location, error)
}

// LocationService resolves device coordinates to the country code that
// drives the holiday cache refresh.
type LocationService struct {
	geo GeocoderClient
}

// NewLocationService constructs a LocationService backed by the provided geocoder.
func NewLocationService(geo GeocoderClient) *LocationService {
	return &LocationService{geo: geo}
}

// Resolve validates the coordinates and reverse-geocodes them to a country.
// Out-of-range coordinates fail with domain.ErrValidation; an unresolvable
// location propagates domain.ErrNoLocation from the geocoder.
func (s *LocationService) Resolve(ctx context.Context, lat, lon float64) (domain.Location, error) {
	if lat < -90 || lat > 90 {
		return domain.Location{}, fmt.Errorf("service.LocationService.Resolve: %w: latitude must be between -90 and 90", domain.ErrValidation)
	}
	if lon < -180 || lon > 180 {
		return domain.Location{}, fmt.Errorf("service.LocationService.Resolve: %w: longitude must be between -180 and 180", domain.ErrValidation)
	}

	loc, err := s.geo.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return domain.Location{}, fmt.Errorf("service.LocationService.Resolve: %w", err)
	}
	return loc, nil
}

package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwalcott/holidaytrack/internal/domain"
	"github.com/mwalcott/holidaytrack/internal/service"
)

// mockGeocoder is a hand-written test double for service.GeocoderClient.
type mockGeocoder struct {
	reverse func(ctx context.Context, lat, lon float64) (domain.Location, error)
}

func (m *mockGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.Location, error) {
	return m.reverse(ctx, lat, lon)
}

var _ service.GeocoderClient = (*mockGeocoder)(nil)

func TestLocationService_Resolve_Success(t *testing.T) {
	want := domain.Location{Latitude: 54.57, Longitude: -1.23, CountryCode: "GB", CountryName: "United Kingdom"}
	geo := &mockGeocoder{
		reverse: func(_ context.Context, lat, lon float64) (domain.Location, error) {
			assert.Equal(t, 54.57, lat)
			assert.Equal(t, -1.23, lon)
			return want, nil
		},
	}
	svc := service.NewLocationService(geo)

	got, err := svc.Resolve(context.Background(), 54.57, -1.23)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLocationService_Resolve_OutOfRangeCoordinates(t *testing.T) {
	geo := &mockGeocoder{
		reverse: func(_ context.Context, _, _ float64) (domain.Location, error) {
			t.Fatal("geocoder must not be called for invalid coordinates")
			return domain.Location{}, nil
		},
	}
	svc := service.NewLocationService(geo)

	for _, tc := range []struct{ lat, lon float64 }{
		{91, 0}, {-91, 0}, {0, 181}, {0, -181},
	} {
		_, err := svc.Resolve(context.Background(), tc.lat, tc.lon)
		assert.ErrorIs(t, err, domain.ErrValidation, "lat=%v lon=%v", tc.lat, tc.lon)
	}
}

func TestLocationService_Resolve_BoundaryCoordinatesAreValid(t *testing.T) {
	geo := &mockGeocoder{
		reverse: func(_ context.Context, lat, lon float64) (domain.Location, error) {
			return domain.Location{Latitude: lat, Longitude: lon, CountryCode: "AQ"}, nil
		},
	}
	svc := service.NewLocationService(geo)

	_, err := svc.Resolve(context.Background(), -90, 180)

	assert.NoError(t, err)
}

func TestLocationService_Resolve_NoLocationPropagates(t *testing.T) {
	geo := &mockGeocoder{
		reverse: func(_ context.Context, _, _ float64) (domain.Location, error) {
			return domain.Location{}, domain.ErrNoLocation
		},
	}
	svc := service.NewLocationService(geo)

	_, err := svc.Resolve(context.Background(), 0, -140)

	assert.ErrorIs(t, err, domain.ErrNoLocation)
}

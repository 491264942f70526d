package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwalcott/holidaytrack/internal/domain"
)

func TestHolidayID_Deterministic(t *testing.T) {
	date := time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)

	a := domain.HolidayID("Independence Day", date, "US")
	b := domain.HolidayID("Independence Day", date, "US")

	// Same content must always hash to the same ID.
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a)
}

func TestHolidayID_DistinguishesContent(t *testing.T) {
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	base := domain.HolidayID("New Year", date, "US")

	assert.NotEqual(t, base, domain.HolidayID("New Year's Eve", date, "US"))
	assert.NotEqual(t, base, domain.HolidayID("New Year", date.AddDate(1, 0, 0), "US"))
	assert.NotEqual(t, base, domain.HolidayID("New Year", date, "GB"))
}

func TestHolidayID_IgnoresTimeOfDay(t *testing.T) {
	midnight := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)
	noon := time.Date(2025, 12, 25, 12, 30, 0, 0, time.UTC)

	// Only the calendar day participates in identity.
	assert.Equal(t,
		domain.HolidayID("Christmas Day", midnight, "GB"),
		domain.HolidayID("Christmas Day", noon, "GB"))
}

func TestNormalizeCountryCode_Valid(t *testing.T) {
	for in, want := range map[string]string{"us": "US", "US": "US", "Us": "US", "gb": "GB", "fr": "FR"} {
		got, err := domain.NormalizeCountryCode(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got)
	}
}

func TestNormalizeCountryCode_Invalid(t *testing.T) {
	for _, in := range []string{"", "U", "USA", "U1", "1S", "u-", "  "} {
		_, err := domain.NormalizeCountryCode(in)
		assert.ErrorIs(t, err, domain.ErrValidation, "input %q", in)
	}
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2025, 3, 1, 18, 45, 12, 999, time.FixedZone("CET", 3600))

	got := domain.DateOnly(in)

	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

package handler_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwalcott/holidaytrack/internal/domain"
	"github.com/mwalcott/holidaytrack/internal/handler"
)

// ---- mock HolidayServicer ---------------------------------------------------

// mockHolidayServicer is a hand-written test double for handler.HolidayServicer.
// Each method is a function field — set only the ones your test needs.
type mockHolidayServicer struct {
	refresh  func(ctx context.Context, countryCode string) error
	upcoming func(ctx context.Context, countryCode string) ([]domain.Holiday, error)
	watch    func(ctx context.Context, countryCode string) (<-chan []domain.Holiday, error)
}

func (m *mockHolidayServicer) Refresh(ctx context.Context, countryCode string) error {
	return m.refresh(ctx, countryCode)
}
func (m *mockHolidayServicer) Upcoming(ctx context.Context, countryCode string) ([]domain.Holiday, error) {
	return m.upcoming(ctx, countryCode)
}
func (m *mockHolidayServicer) Watch(ctx context.Context, countryCode string) (<-chan []domain.Holiday, error) {
	return m.watch(ctx, countryCode)
}

// compile-time check: mockHolidayServicer must satisfy handler.HolidayServicer.
var _ handler.HolidayServicer = (*mockHolidayServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// passthroughAuth stands in for the JWT middleware on routes a test does not
// exercise.
func passthroughAuth(next http.Handler) http.Handler { return next }

// newHolidayHTTPHandler wires a Server with only the holiday service mocked.
func newHolidayHTTPHandler(svc handler.HolidayServicer) http.Handler {
	return handler.NewServer(svc, nil, nil).Routes(passthroughAuth)
}

func holidayFixture(name string, date time.Time) domain.Holiday {
	return domain.Holiday{
		ID:      domain.HolidayID(name, date, "US"),
		Name:    name,
		Date:    date,
		Country: "US",
		Type:    domain.DefaultHolidayType,
	}
}

// ---- GET /v1/countries/{code}/holidays --------------------------------------

func TestGetCountryHolidays_200(t *testing.T) {
	holidays := []domain.Holiday{
		holidayFixture("Independence Day", time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)),
	}
	svc := &mockHolidayServicer{
		refresh: func(_ context.Context, code string) error {
			assert.Equal(t, "US", code)
			return nil
		},
		upcoming: func(_ context.Context, code string) ([]domain.Holiday, error) {
			return holidays, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/countries/US/holidays", nil)
	rec := httptest.NewRecorder()
	newHolidayHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body handler.HolidayListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Independence Day", body.Data[0].Name)
	assert.False(t, body.Stale)
	// The date serializes as a calendar date, not a timestamp.
	assert.Contains(t, rec.Body.String(), `"2025-07-04"`)
}

func TestGetCountryHolidays_200_StaleOnRefreshFailure(t *testing.T) {
	// The remote source is down but the cache has rows: serve them, marked stale.
	holidays := []domain.Holiday{
		holidayFixture("Thanksgiving", time.Date(2025, 11, 27, 0, 0, 0, 0, time.UTC)),
	}
	svc := &mockHolidayServicer{
		refresh: func(_ context.Context, _ string) error {
			return domain.ErrRemoteUnavailable
		},
		upcoming: func(_ context.Context, _ string) ([]domain.Holiday, error) {
			return holidays, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/countries/US/holidays", nil)
	rec := httptest.NewRecorder()
	newHolidayHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body handler.HolidayListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
	assert.True(t, body.Stale)
}

func TestGetCountryHolidays_502_RefreshFailedAndCacheEmpty(t *testing.T) {
	svc := &mockHolidayServicer{
		refresh: func(_ context.Context, _ string) error {
			return domain.ErrRemoteUnavailable
		},
		upcoming: func(_ context.Context, _ string) ([]domain.Holiday, error) {
			return []domain.Holiday{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/countries/US/holidays", nil)
	rec := httptest.NewRecorder()
	newHolidayHTTPHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "remote_unavailable")
}

func TestGetCountryHolidays_200_EmptyCache(t *testing.T) {
	// Successful refresh, nothing upcoming: "no holidays found" is a client
	// state, not a server error.
	svc := &mockHolidayServicer{
		refresh:  func(_ context.Context, _ string) error { return nil },
		upcoming: func(_ context.Context, _ string) ([]domain.Holiday, error) { return []domain.Holiday{}, nil },
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/countries/US/holidays", nil)
	rec := httptest.NewRecorder()
	newHolidayHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestGetCountryHolidays_422_InvalidCountryCode(t *testing.T) {
	svc := &mockHolidayServicer{
		refresh: func(_ context.Context, code string) error {
			_, err := domain.NormalizeCountryCode(code)
			return err
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/countries/USA/holidays", nil)
	rec := httptest.NewRecorder()
	newHolidayHTTPHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

// ---- GET /v1/countries/{code}/holidays/stream --------------------------------

func TestStreamCountryHolidays_EmitsSSEEvents(t *testing.T) {
	snapshots := make(chan []domain.Holiday, 2)
	snapshots <- []domain.Holiday{
		holidayFixture("Independence Day", time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)),
	}
	close(snapshots)

	svc := &mockHolidayServicer{
		watch: func(_ context.Context, code string) (<-chan []domain.Holiday, error) {
			assert.Equal(t, "US", code)
			return snapshots, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/countries/US/holidays/stream", nil)
	rec := httptest.NewRecorder()
	newHolidayHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	// Exactly one data event, carrying the snapshot.
	scanner := bufio.NewScanner(rec.Body)
	var events []string
	for scanner.Scan() {
		if line := scanner.Text(); strings.HasPrefix(line, "data: ") {
			events = append(events, strings.TrimPrefix(line, "data: "))
		}
	}
	require.Len(t, events, 1)

	var body handler.HolidayListResponse
	require.NoError(t, json.Unmarshal([]byte(events[0]), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Independence Day", body.Data[0].Name)
}

func TestStreamCountryHolidays_422_InvalidCountryCode(t *testing.T) {
	svc := &mockHolidayServicer{
		watch: func(_ context.Context, code string) (<-chan []domain.Holiday, error) {
			_, err := domain.NormalizeCountryCode(code)
			return nil, err
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/countries/USA/holidays/stream", nil)
	rec := httptest.NewRecorder()
	newHolidayHTTPHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

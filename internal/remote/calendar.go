// Package remote contains clients for the third-party REST services the
// holiday pipeline depends on: the holiday calendar API and the reverse
// geocoder. Clients here are stateless and perform a single attempt per
// call — no caching, no retries. Staleness and fallback decisions belong
// to the service layer.
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
	"github.com/mwalcott/holidaytrack/internal/metrics"
)

// RawHoliday is one holiday record as returned by the calendar API,
// before normalization into a domain.Holiday.
type RawHoliday struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Date        RawDate  `json:"date"`
	Type        []string `json:"type"`
	Locations   string   `json:"locations"`
}

// RawDate carries the API's redundant date encodings. Normalization uses
// the broken-out Datetime components, not the ISO string.
type RawDate struct {
	ISO      string       `json:"iso"`
	Datetime RawDateParts `json:"datetime"`
}

// RawDateParts is a calendar date broken into components.
type RawDateParts struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// holidaysEnvelope mirrors the API's response wrapper.
type holidaysEnvelope struct {
	Response struct {
		Holidays []RawHoliday `json:"holidays"`
	} `json:"response"`
}

// CalendarClient is a client for the Calendarific-compatible holiday API.
// It is safe for concurrent use.
type CalendarClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewCalendarClient constructs a CalendarClient.
// baseURL is the API root without the /holidays path (e.g.
// "https://calendarific.com/api/v2"). timeout bounds each call; expiry
// surfaces as ErrRemoteUnavailable like any other transport failure.
func NewCalendarClient(baseURL, apiKey string, timeout time.Duration) *CalendarClient {
	return &CalendarClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Holidays fetches the national and religious holidays for one country and
// one year. It performs exactly one HTTP call: any transport error, non-2xx
// status, or undecodable body wraps domain.ErrRemoteUnavailable.
func (c *CalendarClient) Holidays(ctx context.Context, countryCode string, year int) ([]RawHoliday, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("country", countryCode)
	q.Set("year", strconv.Itoa(year))
	q.Set("type", "national,religious")

	u := c.baseURL + "/holidays?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("remote.CalendarClient.Holidays: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.client.Do(req)
	metrics.RemoteFetchDuration.WithLabelValues("holidays").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("remote.CalendarClient.Holidays: %v: %w", err, domain.ErrRemoteUnavailable)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("remote.CalendarClient.Holidays: status %d: %w", res.StatusCode, domain.ErrRemoteUnavailable)
	}

	var envelope holidaysEnvelope
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("remote.CalendarClient.Holidays: decode: %v: %w", err, domain.ErrRemoteUnavailable)
	}

	return envelope.Response.Holidays, nil
}

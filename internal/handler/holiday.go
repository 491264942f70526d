package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/mwalcott/holidaytrack/internal/domain"
)

// HolidayResponse is the wire form of one holiday. Date is a calendar date
// ("2025-07-04"), not a timestamp.
type HolidayResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Date        openapi_types.Date `json:"date"`
	Country     string             `json:"country"`
	Description string             `json:"description,omitempty"`
	Type        string             `json:"type"`
}

// HolidayListResponse wraps the holiday list. Stale is true when the refresh
// attempt behind this read failed and the rows are served from an older
// cache write.
type HolidayListResponse struct {
	Data  []HolidayResponse `json:"data"`
	Stale bool              `json:"stale"`
}

// GetCountryHolidays handles GET /v1/countries/{code}/holidays.
//
// It refreshes the country's cache if stale, then serves the cached upcoming
// holidays. A failed refresh is not fatal while cached rows exist — stale
// data beats a hard error — so the request only fails with 502 when the
// remote source is down AND the cache is empty. An empty-but-successful
// result is a 200 with an empty data array; "no holidays found" is the
// client's state to render, not a server error.
func (s *Server) GetCountryHolidays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := chi.URLParam(r, "code")

	refreshErr := s.holidays.Refresh(ctx, code)
	if refreshErr != nil && errors.Is(refreshErr, domain.ErrValidation) {
		respondValidationError(w, refreshErr)
		return
	}

	holidays, err := s.holidays.Upcoming(ctx, code)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to read holiday cache")
		return
	}

	if refreshErr != nil && len(holidays) == 0 {
		respondError(w, http.StatusBadGateway, "remote_unavailable", "holiday source unavailable and no cached data")
		return
	}

	respondJSON(w, http.StatusOK, HolidayListResponse{
		Data:  toHolidayResponses(holidays),
		Stale: refreshErr != nil,
	})
}

// StreamCountryHolidays handles GET /v1/countries/{code}/holidays/stream.
//
// It serves the live query as Server-Sent Events: one event with the current
// snapshot immediately, then one per cache write for the country, until the
// client disconnects.
func (s *Server) StreamCountryHolidays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := chi.URLParam(r, "code")

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "internal_error", "streaming unsupported")
		return
	}

	snapshots, err := s.holidays.Watch(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			respondValidationError(w, err)
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to open holiday stream")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for snapshot := range snapshots {
		payload, err := json.Marshal(HolidayListResponse{Data: toHolidayResponses(snapshot)})
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}
}

// toHolidayResponses maps domain holidays to their wire form.
// The result is never nil, so the JSON data field is always an array.
func toHolidayResponses(holidays []domain.Holiday) []HolidayResponse {
	out := make([]HolidayResponse, len(holidays))
	for i, h := range holidays {
		out[i] = HolidayResponse{
			ID:          h.ID,
			Name:        h.Name,
			Date:        openapi_types.Date{Time: h.Date},
			Country:     h.Country,
			Description: h.Description,
			Type:        h.Type,
		}
	}
	return out
}

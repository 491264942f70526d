package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mwalcott/holidaytrack/internal/domain"
)

// ResolveLocationRequest carries the device coordinates to reverse-geocode.
// Pointers distinguish "missing field" from a legitimate zero coordinate.
type ResolveLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// ResolveLocation handles POST /v1/location/resolve.
func (s *Server) ResolveLocation(w http.ResponseWriter, r *http.Request) {
	var body ResolveLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "request body is not valid JSON")
		return
	}
	if body.Latitude == nil || body.Longitude == nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "latitude and longitude are required")
		return
	}

	loc, err := s.location.Resolve(r.Context(), *body.Latitude, *body.Longitude)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			respondValidationError(w, err)
		case errors.Is(err, domain.ErrNoLocation):
			respondError(w, http.StatusBadGateway, "no_location", "location could not be resolved")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to resolve location")
		}
		return
	}

	respondJSON(w, http.StatusOK, loc)
}

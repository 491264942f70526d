package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mwalcott/holidaytrack/internal/domain"
	"github.com/mwalcott/holidaytrack/internal/middleware"
)

// UpdateProfileRequest is the body of PUT /v1/profile.
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProfileImageBody is both the request body of PUT /v1/profile/image and
// the response body of GET /v1/profile/image.
type ProfileImageBody struct {
	ImageRef string `json:"image_ref"`
}

// GetProfile handles GET /v1/profile.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	profile, err := s.profile.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "profile not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /v1/profile.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	var body UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "request body is not valid JSON")
		return
	}

	updated, err := s.profile.Update(r.Context(), domain.Profile{
		UserID: userID,
		Name:   body.Name,
		Email:  body.Email,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			respondValidationError(w, err)
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// GetProfileImage handles GET /v1/profile/image.
func (s *Server) GetProfileImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	ref, err := s.profile.ProfileImage(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "no profile image set")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load profile image")
		return
	}

	respondJSON(w, http.StatusOK, ProfileImageBody{ImageRef: ref})
}

// UpdateProfileImage handles PUT /v1/profile/image.
func (s *Server) UpdateProfileImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	var body ProfileImageBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "request body is not valid JSON")
		return
	}

	if err := s.profile.SetProfileImage(r.Context(), userID, body.ImageRef); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			respondValidationError(w, err)
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to store profile image")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Logout handles POST /v1/logout.
// It clears the user's server-held preference slots; token invalidation is
// out of scope.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	if err := s.profile.Logout(r.Context(), userID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to log out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

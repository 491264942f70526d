// Package handler implements the HTTP handlers for the holiday tracking API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (holiday.go, location.go, profile.go) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mwalcott/holidaytrack/internal/domain"
)

// HolidayServicer defines the business operations the holiday handlers
// depend on. Defining the interface here (in the consumer package) follows
// the Go convention: "accept interfaces, return concrete types". It lets
// handler tests inject a mock without touching the database or service layer.
type HolidayServicer interface {
	Refresh(ctx context.Context, countryCode string) error
	Upcoming(ctx context.Context, countryCode string) ([]domain.Holiday, error)
	Watch(ctx context.Context, countryCode string) (<-chan []domain.Holiday, error)
}

// LocationServicer defines the operations the location handler depends on.
type LocationServicer interface {
	Resolve(ctx context.Context, lat, lon float64) (domain.Location, error)
}

// ProfileServicer defines the operations the profile handlers depend on.
type ProfileServicer interface {
	Get(ctx context.Context, userID uuid.UUID) (domain.Profile, error)
	Update(ctx context.Context, profile domain.Profile) (domain.Profile, error)
	SetProfileImage(ctx context.Context, userID uuid.UUID, ref string) error
	ProfileImage(ctx context.Context, userID uuid.UUID) (string, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	holidays HolidayServicer
	location LocationServicer
	profile  ProfileServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(holidays HolidayServicer, location LocationServicer, profile ProfileServicer) *Server {
	return &Server{holidays: holidays, location: location, profile: profile}
}

// Routes mounts all API endpoints on a fresh router. auth guards the
// profile endpoints; pass middleware.NewAuthenticator in production and a
// context-injecting stub in tests.
func (s *Server) Routes(auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/countries/{code}/holidays", s.GetCountryHolidays)
		r.Get("/countries/{code}/holidays/stream", s.StreamCountryHolidays)
		r.Post("/location/resolve", s.ResolveLocation)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/profile", s.GetProfile)
			r.Put("/profile", s.UpdateProfile)
			r.Get("/profile/image", s.GetProfileImage)
			r.Put("/profile/image", s.UpdateProfileImage)
			r.Post("/logout", s.Logout)
		})
	})

	return r
}

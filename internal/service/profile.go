package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mwalcott/holidaytrack/internal/domain"
	"github.com/mwalcott/holidaytrack/internal/repo"
)

// ProfileService implements business logic for the user profile document
// and the profile-image preference slot.
type ProfileService struct {
	profiles repo.ProfileRepo
}

// NewProfileService constructs a ProfileService backed by the provided ProfileRepo.
func NewProfileService(profiles repo.ProfileRepo) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Get returns the profile document for userID.
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (domain.Profile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("service.ProfileService.Get: %w", err)
	}
	return profile, nil
}

// Update validates and writes the full profile document.
func (s *ProfileService) Update(ctx context.Context, profile domain.Profile) (domain.Profile, error) {
	profile.Name = strings.TrimSpace(profile.Name)
	profile.Email = strings.TrimSpace(profile.Email)

	if profile.Name == "" {
		return domain.Profile{}, fmt.Errorf("service.ProfileService.Update: %w: name is required", domain.ErrValidation)
	}
	if !plausibleEmail(profile.Email) {
		return domain.Profile{}, fmt.Errorf("service.ProfileService.Update: %w: email is invalid", domain.ErrValidation)
	}

	updated, err := s.profiles.Upsert(ctx, profile)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("service.ProfileService.Update: %w", err)
	}
	return updated, nil
}

// SetProfileImage stores the profile-image reference in the user's
// preference slot. The reference is opaque to the server.
func (s *ProfileService) SetProfileImage(ctx context.Context, userID uuid.UUID, ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return fmt.Errorf("service.ProfileService.SetProfileImage: %w: image reference is required", domain.ErrValidation)
	}
	if err := s.profiles.SetPreference(ctx, userID, domain.PrefProfileImage, ref); err != nil {
		return fmt.Errorf("service.ProfileService.SetProfileImage: %w", err)
	}
	return nil
}

// ProfileImage returns the stored profile-image reference, or
// domain.ErrNotFound when none has been set.
func (s *ProfileService) ProfileImage(ctx context.Context, userID uuid.UUID) (string, error) {
	ref, err := s.profiles.Preference(ctx, userID, domain.PrefProfileImage)
	if err != nil {
		return "", fmt.Errorf("service.ProfileService.ProfileImage: %w", err)
	}
	return ref, nil
}

// Logout clears the user's local preference slots. The profile document
// itself is kept — it belongs to the account, not the session.
func (s *ProfileService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.profiles.ClearPreferences(ctx, userID); err != nil {
		return fmt.Errorf("service.ProfileService.Logout: %w", err)
	}
	return nil
}

// plausibleEmail checks for a minimal local@domain shape. Full RFC 5322
// validation is deliberately out of scope — the address is display data,
// not a delivery target.
func plausibleEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domainPart := email[at+1:]
	return !strings.ContainsAny(email, " \t") && strings.Contains(domainPart, ".")
}

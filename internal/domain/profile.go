package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the user document: a small record keyed by user identity.
// The profile image is not part of the document — it lives in the
// per-user preference slot under PrefProfileImage.
type Profile struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PrefProfileImage is the preference key holding the user's
// profile-image reference (an opaque URI chosen by the client).
const PrefProfileImage = "profile_image"

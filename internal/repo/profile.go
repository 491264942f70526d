package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mwalcott/holidaytrack/internal/domain"
)

// ProfileRepo defines the persistence operations for user profiles and the
// per-user preference slots.
type ProfileRepo interface {
	// Get retrieves the profile document for userID.
	// Returns domain.ErrNotFound if the user has no profile yet.
	Get(ctx context.Context, userID uuid.UUID) (domain.Profile, error)

	// Upsert writes the full profile document, creating it when absent,
	// and returns the persisted record with updated_at populated.
	Upsert(ctx context.Context, profile domain.Profile) (domain.Profile, error)

	// SetPreference writes one preference slot for the user.
	SetPreference(ctx context.Context, userID uuid.UUID, key, value string) error

	// Preference reads one preference slot for the user.
	// Returns domain.ErrNotFound when the slot is unset.
	Preference(ctx context.Context, userID uuid.UUID, key string) (string, error)

	// ClearPreferences removes all preference slots for the user.
	ClearPreferences(ctx context.Context, userID uuid.UUID) error
}

// pgProfileRepo is the Postgres implementation of ProfileRepo.
type pgProfileRepo struct {
	db db
}

// NewProfileRepo constructs a ProfileRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewProfileRepo(db db) ProfileRepo {
	return &pgProfileRepo{db: db}
}

func (r *pgProfileRepo) Get(ctx context.Context, userID uuid.UUID) (domain.Profile, error) {
	const q = `
		SELECT user_id, name, email, updated_at
		FROM profiles
		WHERE user_id = @user_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID})
	profile, err := scanProfile(row)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("repo.ProfileRepo.Get: %w", err)
	}
	return profile, nil
}

func (r *pgProfileRepo) Upsert(ctx context.Context, profile domain.Profile) (domain.Profile, error) {
	const q = `
		INSERT INTO profiles (user_id, name, email, updated_at)
		VALUES (@user_id, @name, @email, now())
		ON CONFLICT (user_id) DO UPDATE
		SET name = EXCLUDED.name, email = EXCLUDED.email, updated_at = now()
		RETURNING user_id, name, email, updated_at`

	args := pgx.NamedArgs{
		"user_id": profile.UserID,
		"name":    profile.Name,
		"email":   profile.Email,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanProfile(row)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("repo.ProfileRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgProfileRepo) SetPreference(ctx context.Context, userID uuid.UUID, key, value string) error {
	const q = `
		INSERT INTO preferences (user_id, key, value)
		VALUES (@user_id, @key, @value)
		ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"user_id": userID, "key": key, "value": value})
	if err != nil {
		return fmt.Errorf("repo.ProfileRepo.SetPreference: %w", err)
	}
	return nil
}

func (r *pgProfileRepo) Preference(ctx context.Context, userID uuid.UUID, key string) (string, error) {
	const q = `SELECT value FROM preferences WHERE user_id = @user_id AND key = @key`

	var value string
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID, "key": key}).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("repo.ProfileRepo.Preference: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("repo.ProfileRepo.Preference: %w", err)
	}
	return value, nil
}

func (r *pgProfileRepo) ClearPreferences(ctx context.Context, userID uuid.UUID) error {
	const q = `DELETE FROM preferences WHERE user_id = @user_id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"user_id": userID}); err != nil {
		return fmt.Errorf("repo.ProfileRepo.ClearPreferences: %w", err)
	}
	return nil
}

// scanProfile maps a single database row into a domain.Profile.
func scanProfile(s scanner) (domain.Profile, error) {
	var (
		p  domain.Profile
		id pgtype.UUID
	)

	err := s.Scan(&id, &p.Name, &p.Email, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, domain.ErrNotFound
		}
		return domain.Profile{}, err
	}

	p.UserID = uuid.UUID(id.Bytes)
	return p, nil
}

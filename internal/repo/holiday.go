// Package repo contains all database access logic for the holiday tracking
// API. Each resource has its own file with an interface and a Postgres
// implementation. No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mwalcott/holidaytrack/internal/domain"
)

// notifyChannel is the Postgres NOTIFY channel carrying the country code of
// every holiday cache write. The Listener subscribes to it; ReplaceForCountry
// publishes on it inside the replace transaction, so a notification implies
// the new rows are committed and visible.
const notifyChannel = "holiday_changes"

// db is the minimal interface satisfied by *pgxpool.Pool and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows
// integration tests to pass a transaction that is rolled back after each
// test, giving free per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// HolidayRepo defines the persistence operations for the holiday cache.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type HolidayRepo interface {
	// UpcomingHolidays returns the cached holidays for countryCode with
	// date strictly after since, ordered ascending by date.
	UpcomingHolidays(ctx context.Context, countryCode string, since time.Time) ([]domain.Holiday, error)

	// ReplaceForCountry atomically deletes all cached rows for countryCode
	// and inserts the given holidays, all stamped with updatedAt. The swap
	// happens in one transaction, so concurrent readers never observe the
	// window between delete and insert. A change notification for the
	// country is published as part of the same transaction.
	ReplaceForCountry(ctx context.Context, countryCode string, holidays []domain.Holiday, updatedAt time.Time) error

	// LastUpdated returns the most recent cache write timestamp for
	// countryCode. ok is false when no rows exist for that country.
	LastUpdated(ctx context.Context, countryCode string) (ts time.Time, ok bool, err error)
}

// pgHolidayRepo is the Postgres implementation of HolidayRepo.
type pgHolidayRepo struct {
	db db
}

// NewHolidayRepo constructs a HolidayRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewHolidayRepo(db db) HolidayRepo {
	return &pgHolidayRepo{db: db}
}

// UpcomingHolidays returns cached holidays after since, soonest first.
func (r *pgHolidayRepo) UpcomingHolidays(ctx context.Context, countryCode string, since time.Time) ([]domain.Holiday, error) {
	const q = `
		SELECT id, name, date, country, description, type
		FROM holidays
		WHERE country = @country AND date > @since
		ORDER BY date ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"country": countryCode, "since": since})
	if err != nil {
		return nil, fmt.Errorf("repo.HolidayRepo.UpcomingHolidays: %w", err)
	}
	defer rows.Close()

	var holidays []domain.Holiday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.HolidayRepo.UpcomingHolidays: scan: %w", err)
		}
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.HolidayRepo.UpcomingHolidays: rows: %w", err)
	}

	return holidays, nil
}

// ReplaceForCountry swaps the country's cache rows in one transaction.
func (r *pgHolidayRepo) ReplaceForCountry(ctx context.Context, countryCode string, holidays []domain.Holiday, updatedAt time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.HolidayRepo.ReplaceForCountry: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM holidays WHERE country = @country`,
		pgx.NamedArgs{"country": countryCode},
	); err != nil {
		return fmt.Errorf("repo.HolidayRepo.ReplaceForCountry: delete: %w", err)
	}

	const insert = `
		INSERT INTO holidays (id, name, date, country, description, type, last_updated)
		VALUES (@id, @name, @date, @country, @description, @type, @last_updated)`

	batch := &pgx.Batch{}
	for _, h := range holidays {
		batch.Queue(insert, pgx.NamedArgs{
			"id":           h.ID,
			"name":         h.Name,
			"date":         h.Date,
			"country":      h.Country,
			"description":  h.Description,
			"type":         h.Type,
			"last_updated": updatedAt,
		})
	}
	// The notification is queued last so it only fires if every insert
	// above succeeded and the transaction commits.
	batch.Queue(`SELECT pg_notify(@channel, @country)`, pgx.NamedArgs{
		"channel": notifyChannel,
		"country": countryCode,
	})

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("repo.HolidayRepo.ReplaceForCountry: insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.HolidayRepo.ReplaceForCountry: commit: %w", err)
	}
	return nil
}

// LastUpdated returns MAX(last_updated) for the country.
func (r *pgHolidayRepo) LastUpdated(ctx context.Context, countryCode string) (time.Time, bool, error) {
	const q = `SELECT MAX(last_updated) FROM holidays WHERE country = @country`

	var ts pgtype.Timestamptz
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"country": countryCode}).Scan(&ts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("repo.HolidayRepo.LastUpdated: %w", err)
	}
	if !ts.Valid {
		// MAX over zero rows yields NULL: the country has never been cached.
		return time.Time{}, false, nil
	}
	return ts.Time, true, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanHoliday to
// be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanHoliday maps a single database row into a domain.Holiday.
func scanHoliday(s scanner) (domain.Holiday, error) {
	var (
		h    domain.Holiday
		date pgtype.Date
	)

	err := s.Scan(&h.ID, &h.Name, &date, &h.Country, &h.Description, &h.Type)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Holiday{}, domain.ErrNotFound
		}
		return domain.Holiday{}, err
	}

	h.Date = date.Time
	return h, nil
}

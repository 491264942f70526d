// Package domain contains the core data types for the holiday tracking API.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (remote, repo, service, handler).
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// DefaultHolidayType is assigned when the upstream record carries no
// category tags.
const DefaultHolidayType = "National"

// Holiday represents a single public holiday for one country.
// Date carries only the calendar day; the time portion is always midnight UTC.
type Holiday struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Country     string    `json:"country"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type"`
}

// HolidayID derives the stable identifier for a holiday from its content.
// The upstream API exposes no record IDs, so identity is a deterministic
// function of (country, date, name): the same logical holiday always hashes
// to the same ID across fetches and across process restarts.
func HolidayID(name string, date time.Time, country string) string {
	sum := sha256.Sum256([]byte(country + "|" + date.Format("2006-01-02") + "|" + name))
	return hex.EncodeToString(sum[:16])
}

// NormalizeCountryCode validates and canonicalizes a two-letter ISO 3166-1
// country code. Input is case-insensitive; the returned code is uppercase.
// Returns ErrValidation when the input is not exactly two ASCII letters.
func NormalizeCountryCode(code string) (string, error) {
	if len(code) != 2 {
		return "", fmt.Errorf("%w: country code must be a two-letter ISO code", ErrValidation)
	}
	out := make([]byte, 2)
	for i := 0; i < 2; i++ {
		c := code[i]
		switch {
		case c >= 'A' && c <= 'Z':
			out[i] = c
		case c >= 'a' && c <= 'z':
			out[i] = c - ('a' - 'A')
		default:
			return "", fmt.Errorf("%w: country code must be a two-letter ISO code", ErrValidation)
		}
	}
	return string(out), nil
}

// DateOnly truncates t to midnight UTC of the same calendar day.
// All holiday dates and staleness comparisons work on calendar days.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

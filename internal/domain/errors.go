package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. malformed country code, missing profile name).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrRemoteUnavailable is returned when the upstream holiday API cannot be
// reached, answers with a non-2xx status, or returns a payload that does not
// decode. Handlers map this to HTTP 502 — unless cached rows exist, in which
// case stale data is served instead.
var ErrRemoteUnavailable = errors.New("remote holiday source unavailable")

// ErrNoLocation is returned when the reverse geocoder cannot resolve
// coordinates to a country. Handlers should map this to HTTP 502.
var ErrNoLocation = errors.New("location could not be resolved")

package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// record does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing name, participant from another trip).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when an operation cannot run because another one
// holds the resource it needs, such as a highlights render already in flight.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrNoData is returned when a summary is requested over zero qualifying
// drink events. Handlers should map this to HTTP 422 with code "no_data".
var ErrNoData = errors.New("no data")

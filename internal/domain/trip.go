// Package domain contains the core data types for the Booze Cruise application.
// This package depends only on uuid and is imported by every other internal
// package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is a named journey ("cruise") that groups participants, drink types
// and drink events. At most one trip is the default at any time.
type Trip struct {
	ID         uuid.UUID  `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	StartDate  time.Time  `json:"start_date" yaml:"start_date"`
	EndDate    *time.Time `json:"end_date,omitempty" yaml:"end_date,omitempty"` // nil when open-ended
	CoverPhoto string     `json:"cover_photo,omitempty" yaml:"cover_photo,omitempty"`
	IsDefault  bool       `json:"is_default" yaml:"is_default"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" yaml:"updated_at"`
}

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Participant is a person tracked within a trip.
// Photo holds the thumbnail (or a glyph); FullPhoto the full-size image.
type Participant struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	TripID    uuid.UUID `json:"trip_id" yaml:"trip_id"`
	Name      string    `json:"name" yaml:"name"`
	Photo     string    `json:"photo,omitempty" yaml:"photo,omitempty"`
	FullPhoto string    `json:"full_photo,omitempty" yaml:"full_photo,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

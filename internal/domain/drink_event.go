package domain

import (
	"time"

	"github.com/google/uuid"
)

// DrinkEvent records one participant having one drink at a point in time.
// Events are immutable apart from attaching or detaching a photo.
//
// Date is the UTC calendar date of Timestamp in DateLayout form. It is kept
// as a string so date filters compare lexically.
type DrinkEvent struct {
	ID            uuid.UUID `json:"id" yaml:"id"`
	TripID        uuid.UUID `json:"trip_id" yaml:"trip_id"`
	ParticipantID uuid.UUID `json:"participant_id" yaml:"participant_id"`
	DrinkTypeID   uuid.UUID `json:"drink_type_id" yaml:"drink_type_id"`
	Timestamp     time.Time `json:"timestamp" yaml:"timestamp"`
	Date          string    `json:"date" yaml:"date"`
	Photo         string    `json:"photo,omitempty" yaml:"photo,omitempty"`
	FullPhoto     string    `json:"full_photo,omitempty" yaml:"full_photo,omitempty"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
}

// EventDate derives the Date field for a timestamp.
func EventDate(ts time.Time) string {
	return ts.UTC().Format(DateLayout)
}

// Photo is a processed image pair ready to be stored on any entity.
// Either field may be empty; a glyph is stored in Thumb with Full empty.
type Photo struct {
	Thumb string
	Full  string
}

// EventFilter narrows a set of drink events. Nil fields do not filter.
// Start and End are inclusive dates in DateLayout form.
type EventFilter struct {
	Start         *string
	End           *string
	ParticipantID *uuid.UUID
}

// IsZero reports whether the filter retains every event.
func (f EventFilter) IsZero() bool {
	return f.Start == nil && f.End == nil && f.ParticipantID == nil
}

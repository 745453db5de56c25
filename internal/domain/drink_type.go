package domain

import (
	"time"

	"github.com/google/uuid"
)

// DrinkType is a beverage catalog entry owned by a trip.
type DrinkType struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	TripID    uuid.UUID `json:"trip_id" yaml:"trip_id"`
	Name      string    `json:"name" yaml:"name"`
	Photo     string    `json:"photo,omitempty" yaml:"photo,omitempty"`
	FullPhoto string    `json:"full_photo,omitempty" yaml:"full_photo,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/booze-cruise/backend/internal/domain"
)

// cruise is a seeded trip with two participants and two drink types.
type cruise struct {
	store *memStore
	trip  domain.Trip
	alice domain.Participant
	bob   domain.Participant
	beer  domain.DrinkType
	wine  domain.DrinkType
}

func seedCruise(t *testing.T) cruise {
	t.Helper()
	ctx := context.Background()
	s := newMemStore()
	r := s.repos()

	trip := validTrip()
	trip.IsDefault = true
	trip, err := r.Trips.Create(ctx, trip)
	require.NoError(t, err)

	c := cruise{store: s, trip: trip}
	c.alice, err = r.Participants.Create(ctx, domain.Participant{TripID: trip.ID, Name: "Alice"})
	require.NoError(t, err)
	c.bob, err = r.Participants.Create(ctx, domain.Participant{TripID: trip.ID, Name: "Bob"})
	require.NoError(t, err)
	c.beer, err = r.DrinkTypes.Create(ctx, domain.DrinkType{TripID: trip.ID, Name: "Beer", Photo: "🍺"})
	require.NoError(t, err)
	c.wine, err = r.DrinkTypes.Create(ctx, domain.DrinkType{TripID: trip.ID, Name: "Wine"})
	require.NoError(t, err)
	return c
}

// drink records an event directly in the store.
func (c cruise) drink(t *testing.T, p domain.Participant, d domain.DrinkType, ts time.Time) domain.DrinkEvent {
	t.Helper()
	e, err := c.store.repos().Events.Create(context.Background(), domain.DrinkEvent{
		TripID: c.trip.ID, ParticipantID: p.ID, DrinkTypeID: d.ID, Timestamp: ts,
	})
	require.NoError(t, err)
	return e
}

func ptr[T any](v T) *T { return &v }

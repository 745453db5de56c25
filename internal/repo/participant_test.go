package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/booze-cruise/backend/internal/domain"
)

func TestParticipantRepo_CRUD(t *testing.T) {
	r, _ := newTestRepos(t)
	ctx := context.Background()

	trip, alice, _ := seedTrip(t, r)
	bob, err := r.Participants.Create(ctx, domain.Participant{TripID: trip.ID, Name: "Bob"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, bob.ID)
	assert.Equal(t, trip.ID, bob.TripID)

	list, err := r.Participants.ListByTrip(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, alice.ID, list[0].ID, "creation order")

	bob.Name = "Robert"
	renamed, err := r.Participants.Update(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, "Robert", renamed.Name)

	withPhoto, err := r.Participants.SetPhoto(ctx, bob.ID, domain.Photo{Thumb: "thumb", Full: "full"})
	require.NoError(t, err)
	assert.Equal(t, "thumb", withPhoto.Photo)
	assert.Equal(t, "full", withPhoto.FullPhoto)

	require.NoError(t, r.Participants.Delete(ctx, bob.ID))
	_, err = r.Participants.GetByID(ctx, bob.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParticipantRepo_Delete_CascadesEvents(t *testing.T) {
	r, _ := newTestRepos(t)
	ctx := context.Background()

	trip, p, dt := seedTrip(t, r)
	ev, err := r.Events.Create(ctx, domain.DrinkEvent{
		TripID: trip.ID, ParticipantID: p.ID, DrinkTypeID: dt.ID, Timestamp: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, r.Participants.Delete(ctx, p.ID))

	_, err = r.Events.GetByID(ctx, ev.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParticipantRepo_NotFound(t *testing.T) {
	r, _ := newTestRepos(t)
	ctx := context.Background()

	_, err := r.Participants.Update(ctx, domain.Participant{ID: uuid.New(), Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.Participants.SetPhoto(ctx, uuid.New(), domain.Photo{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, r.Participants.Delete(ctx, uuid.New()), domain.ErrNotFound)
}

func TestDrinkTypeRepo_CRUD(t *testing.T) {
	r, _ := newTestRepos(t)
	ctx := context.Background()

	trip, _, beer := seedTrip(t, r)
	assert.Equal(t, "🍺", beer.Photo)

	wine, err := r.DrinkTypes.Create(ctx, domain.DrinkType{TripID: trip.ID, Name: "Wine"})
	require.NoError(t, err)

	list, err := r.DrinkTypes.ListByTrip(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, beer.ID, list[0].ID)

	all, err := r.DrinkTypes.List(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(all), 2)

	cleared, err := r.DrinkTypes.SetPhoto(ctx, beer.ID, domain.Photo{})
	require.NoError(t, err)
	assert.Empty(t, cleared.Photo)

	require.NoError(t, r.DrinkTypes.Delete(ctx, wine.ID))
	assert.ErrorIs(t, r.DrinkTypes.Delete(ctx, wine.ID), domain.ErrNotFound)
}

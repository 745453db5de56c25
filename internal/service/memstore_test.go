package service_test

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/booze-cruise/backend/internal/analytics"
	"github.com/pkordes/booze-cruise/backend/internal/domain"
	"github.com/pkordes/booze-cruise/backend/internal/repo"
)

// memStore is an in-memory stand-in for the Postgres repositories. It keeps
// the same ordering, cascade and single-default rules as the schema, and
// InTx restores a snapshot when the unit of work fails.
type memStore struct {
	trips        []domain.Trip
	participants []domain.Participant
	drinkTypes   []domain.DrinkType
	events       []domain.DrinkEvent
	clock        time.Time
}

func newMemStore() *memStore {
	return &memStore{clock: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) repos() repo.Repos {
	return repo.Repos{
		Trips:        memTrips{s},
		Participants: memParticipants{s},
		DrinkTypes:   memDrinkTypes{s},
		Events:       memEvents{s},
	}
}

func (s *memStore) InTx(_ context.Context, fn func(repo.Repos) error) error {
	snap := memStore{
		trips:        slices.Clone(s.trips),
		participants: slices.Clone(s.participants),
		drinkTypes:   slices.Clone(s.drinkTypes),
		events:       slices.Clone(s.events),
		clock:        s.clock,
	}
	if err := fn(s.repos()); err != nil {
		*s = snap
		return err
	}
	return nil
}

func (s *memStore) ReadSnapshot(_ context.Context, fn func(repo.Repos) error) error {
	return fn(s.repos())
}

var _ repo.TxRunner = (*memStore)(nil)

var errUniqueDefault = errors.New("duplicate key value violates unique constraint \"trips_single_default\"")

func find[T any](xs []T, id uuid.UUID, key func(T) uuid.UUID) int {
	return slices.IndexFunc(xs, func(x T) bool { return key(x) == id })
}

func tripID(t domain.Trip) uuid.UUID               { return t.ID }
func participantID(p domain.Participant) uuid.UUID { return p.ID }
func drinkTypeID(d domain.DrinkType) uuid.UUID     { return d.ID }
func eventID(e domain.DrinkEvent) uuid.UUID        { return e.ID }

// ---- trips -----------------------------------------------------------------

type memTrips struct{ s *memStore }

var _ repo.TripRepo = memTrips{}

func (m memTrips) hasOtherDefault(id uuid.UUID) bool {
	return slices.ContainsFunc(m.s.trips, func(t domain.Trip) bool { return t.IsDefault && t.ID != id })
}

func (m memTrips) Create(_ context.Context, t domain.Trip) (domain.Trip, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.IsDefault && m.hasOtherDefault(t.ID) {
		return domain.Trip{}, errUniqueDefault
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = m.s.tick()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	m.s.trips = append(m.s.trips, t)
	return t, nil
}

func (m memTrips) GetByID(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	i := find(m.s.trips, id, tripID)
	if i < 0 {
		return domain.Trip{}, domain.ErrNotFound
	}
	return m.s.trips[i], nil
}

func (m memTrips) GetDefault(_ context.Context) (domain.Trip, error) {
	i := slices.IndexFunc(m.s.trips, func(t domain.Trip) bool { return t.IsDefault })
	if i < 0 {
		return domain.Trip{}, domain.ErrNotFound
	}
	return m.s.trips[i], nil
}

func (m memTrips) List(_ context.Context) ([]domain.Trip, error) {
	out := slices.Clone(m.s.trips)
	slices.SortStableFunc(out, func(a, b domain.Trip) int {
		if c := b.StartDate.Compare(a.StartDate); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if out == nil {
		out = []domain.Trip{}
	}
	return out, nil
}

func (m memTrips) Update(_ context.Context, t domain.Trip) (domain.Trip, error) {
	i := find(m.s.trips, t.ID, tripID)
	if i < 0 {
		return domain.Trip{}, domain.ErrNotFound
	}
	if t.IsDefault && m.hasOtherDefault(t.ID) {
		return domain.Trip{}, errUniqueDefault
	}
	cur := &m.s.trips[i]
	cur.Name, cur.StartDate, cur.EndDate, cur.IsDefault = t.Name, t.StartDate, t.EndDate, t.IsDefault
	cur.UpdatedAt = m.s.tick()
	return *cur, nil
}

func (m memTrips) SetCoverPhoto(_ context.Context, id uuid.UUID, photo string) (domain.Trip, error) {
	i := find(m.s.trips, id, tripID)
	if i < 0 {
		return domain.Trip{}, domain.ErrNotFound
	}
	m.s.trips[i].CoverPhoto = photo
	return m.s.trips[i], nil
}

func (m memTrips) ClearDefault(_ context.Context, except uuid.UUID) error {
	for i := range m.s.trips {
		if m.s.trips[i].ID != except {
			m.s.trips[i].IsDefault = false
		}
	}
	return nil
}

func (m memTrips) Delete(_ context.Context, id uuid.UUID) error {
	i := find(m.s.trips, id, tripID)
	if i < 0 {
		return domain.ErrNotFound
	}
	m.s.trips = slices.Delete(m.s.trips, i, i+1)
	m.s.participants = slices.DeleteFunc(m.s.participants, func(p domain.Participant) bool { return p.TripID == id })
	m.s.drinkTypes = slices.DeleteFunc(m.s.drinkTypes, func(d domain.DrinkType) bool { return d.TripID == id })
	m.s.events = slices.DeleteFunc(m.s.events, func(e domain.DrinkEvent) bool { return e.TripID == id })
	return nil
}

func (m memTrips) DeleteAll(_ context.Context) error {
	m.s.trips, m.s.participants, m.s.drinkTypes, m.s.events = nil, nil, nil, nil
	return nil
}

// ---- participants ----------------------------------------------------------

type memParticipants struct{ s *memStore }

var _ repo.ParticipantRepo = memParticipants{}

func (m memParticipants) Create(_ context.Context, p domain.Participant) (domain.Participant, error) {
	if find(m.s.trips, p.TripID, tripID) < 0 {
		return domain.Participant{}, fmt.Errorf("foreign key: trip %s", p.TripID)
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = m.s.tick()
	}
	m.s.participants = append(m.s.participants, p)
	return p, nil
}

func (m memParticipants) GetByID(_ context.Context, id uuid.UUID) (domain.Participant, error) {
	i := find(m.s.participants, id, participantID)
	if i < 0 {
		return domain.Participant{}, domain.ErrNotFound
	}
	return m.s.participants[i], nil
}

func (m memParticipants) ListByTrip(_ context.Context, id uuid.UUID) ([]domain.Participant, error) {
	out := []domain.Participant{}
	for _, p := range m.s.participants {
		if p.TripID == id {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m memParticipants) List(_ context.Context) ([]domain.Participant, error) {
	return append([]domain.Participant{}, m.s.participants...), nil
}

func (m memParticipants) Update(_ context.Context, p domain.Participant) (domain.Participant, error) {
	i := find(m.s.participants, p.ID, participantID)
	if i < 0 {
		return domain.Participant{}, domain.ErrNotFound
	}
	m.s.participants[i].Name = p.Name
	return m.s.participants[i], nil
}

func (m memParticipants) SetPhoto(_ context.Context, id uuid.UUID, ph domain.Photo) (domain.Participant, error) {
	i := find(m.s.participants, id, participantID)
	if i < 0 {
		return domain.Participant{}, domain.ErrNotFound
	}
	m.s.participants[i].Photo, m.s.participants[i].FullPhoto = ph.Thumb, ph.Full
	return m.s.participants[i], nil
}

func (m memParticipants) Delete(_ context.Context, id uuid.UUID) error {
	i := find(m.s.participants, id, participantID)
	if i < 0 {
		return domain.ErrNotFound
	}
	m.s.participants = slices.Delete(m.s.participants, i, i+1)
	m.s.events = slices.DeleteFunc(m.s.events, func(e domain.DrinkEvent) bool { return e.ParticipantID == id })
	return nil
}

// ---- drink types -----------------------------------------------------------

type memDrinkTypes struct{ s *memStore }

var _ repo.DrinkTypeRepo = memDrinkTypes{}

func (m memDrinkTypes) Create(_ context.Context, d domain.DrinkType) (domain.DrinkType, error) {
	if find(m.s.trips, d.TripID, tripID) < 0 {
		return domain.DrinkType{}, fmt.Errorf("foreign key: trip %s", d.TripID)
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = m.s.tick()
	}
	m.s.drinkTypes = append(m.s.drinkTypes, d)
	return d, nil
}

func (m memDrinkTypes) GetByID(_ context.Context, id uuid.UUID) (domain.DrinkType, error) {
	i := find(m.s.drinkTypes, id, drinkTypeID)
	if i < 0 {
		return domain.DrinkType{}, domain.ErrNotFound
	}
	return m.s.drinkTypes[i], nil
}

func (m memDrinkTypes) ListByTrip(_ context.Context, id uuid.UUID) ([]domain.DrinkType, error) {
	out := []domain.DrinkType{}
	for _, d := range m.s.drinkTypes {
		if d.TripID == id {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m memDrinkTypes) List(_ context.Context) ([]domain.DrinkType, error) {
	return append([]domain.DrinkType{}, m.s.drinkTypes...), nil
}

func (m memDrinkTypes) Update(_ context.Context, d domain.DrinkType) (domain.DrinkType, error) {
	i := find(m.s.drinkTypes, d.ID, drinkTypeID)
	if i < 0 {
		return domain.DrinkType{}, domain.ErrNotFound
	}
	m.s.drinkTypes[i].Name = d.Name
	return m.s.drinkTypes[i], nil
}

func (m memDrinkTypes) SetPhoto(_ context.Context, id uuid.UUID, ph domain.Photo) (domain.DrinkType, error) {
	i := find(m.s.drinkTypes, id, drinkTypeID)
	if i < 0 {
		return domain.DrinkType{}, domain.ErrNotFound
	}
	m.s.drinkTypes[i].Photo, m.s.drinkTypes[i].FullPhoto = ph.Thumb, ph.Full
	return m.s.drinkTypes[i], nil
}

func (m memDrinkTypes) Delete(_ context.Context, id uuid.UUID) error {
	i := find(m.s.drinkTypes, id, drinkTypeID)
	if i < 0 {
		return domain.ErrNotFound
	}
	m.s.drinkTypes = slices.Delete(m.s.drinkTypes, i, i+1)
	m.s.events = slices.DeleteFunc(m.s.events, func(e domain.DrinkEvent) bool { return e.DrinkTypeID == id })
	return nil
}

// ---- events ----------------------------------------------------------------

type memEvents struct{ s *memStore }

var _ repo.DrinkEventRepo = memEvents{}

func byTimestamp(a, b domain.DrinkEvent) int {
	return cmp.Or(a.Timestamp.Compare(b.Timestamp), cmp.Compare(a.ID.String(), b.ID.String()))
}

func (m memEvents) Create(_ context.Context, e domain.DrinkEvent) (domain.DrinkEvent, error) {
	if find(m.s.participants, e.ParticipantID, participantID) < 0 ||
		find(m.s.drinkTypes, e.DrinkTypeID, drinkTypeID) < 0 {
		return domain.DrinkEvent{}, fmt.Errorf("foreign key: event %s", e.ID)
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = m.s.tick()
	}
	e.Timestamp = e.Timestamp.UTC()
	e.Date = domain.EventDate(e.Timestamp)
	m.s.events = append(m.s.events, e)
	return e, nil
}

func (m memEvents) GetByID(_ context.Context, id uuid.UUID) (domain.DrinkEvent, error) {
	i := find(m.s.events, id, eventID)
	if i < 0 {
		return domain.DrinkEvent{}, domain.ErrNotFound
	}
	return m.s.events[i], nil
}

func (m memEvents) ListByTrip(_ context.Context, id uuid.UUID) ([]domain.DrinkEvent, error) {
	out := []domain.DrinkEvent{}
	for _, e := range m.s.events {
		if e.TripID == id {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, byTimestamp)
	return out, nil
}

func (m memEvents) ListPaged(ctx context.Context, id uuid.UUID, f domain.EventFilter, p domain.PaginationParams) ([]domain.DrinkEvent, int64, error) {
	all, _ := m.ListByTrip(ctx, id)
	matched := analytics.FilterEvents(all, f)
	slices.Reverse(matched)
	total := int64(len(matched))
	lo := min(p.Offset(), len(matched))
	hi := min(lo+p.Limit, len(matched))
	return append([]domain.DrinkEvent{}, matched[lo:hi]...), total, nil
}

func (m memEvents) List(_ context.Context) ([]domain.DrinkEvent, error) {
	out := append([]domain.DrinkEvent{}, m.s.events...)
	slices.SortStableFunc(out, byTimestamp)
	return out, nil
}

func (m memEvents) SetPhoto(_ context.Context, id uuid.UUID, ph domain.Photo) (domain.DrinkEvent, error) {
	i := find(m.s.events, id, eventID)
	if i < 0 {
		return domain.DrinkEvent{}, domain.ErrNotFound
	}
	m.s.events[i].Photo, m.s.events[i].FullPhoto = ph.Thumb, ph.Full
	return m.s.events[i], nil
}

func (m memEvents) Delete(_ context.Context, id uuid.UUID) error {
	i := find(m.s.events, id, eventID)
	if i < 0 {
		return domain.ErrNotFound
	}
	m.s.events = slices.Delete(m.s.events, i, i+1)
	return nil
}

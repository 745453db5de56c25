package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/booze-cruise/backend/internal/analytics"
	"github.com/pkordes/booze-cruise/backend/internal/domain"
	"github.com/pkordes/booze-cruise/backend/internal/photo"
	"github.com/pkordes/booze-cruise/backend/internal/repo"
)

// EventService implements business logic for DrinkEvent operations.
// An event's participant and drink type must belong to the event's trip.
type EventService struct {
	trips        repo.TripRepo
	participants repo.ParticipantRepo
	drinkTypes   repo.DrinkTypeRepo
	events       repo.DrinkEventRepo
	now          func() time.Time
}

// NewEventService constructs an EventService.
func NewEventService(r repo.Repos) *EventService {
	return &EventService{
		trips:        r.Trips,
		participants: r.Participants,
		drinkTypes:   r.DrinkTypes,
		events:       r.Events,
		now:          time.Now,
	}
}

// Create logs a drink. A zero Timestamp means now; Date is always derived
// from the timestamp.
func (s *EventService) Create(ctx context.Context, e domain.DrinkEvent) (domain.DrinkEvent, error) {
	if _, err := s.trips.GetByID(ctx, e.TripID); err != nil {
		return domain.DrinkEvent{}, fmt.Errorf("service.EventService.Create: trip: %w", err)
	}
	if err := s.checkMembership(ctx, e); err != nil {
		return domain.DrinkEvent{}, fmt.Errorf("service.EventService.Create: %w", err)
	}
	if err := photo.Validate(e.Photo); err != nil {
		return domain.DrinkEvent{}, fmt.Errorf("service.EventService.Create: %w", err)
	}

	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}
	e.ID = uuid.Nil
	e.Timestamp = e.Timestamp.UTC()
	e.Date = domain.EventDate(e.Timestamp)

	created, err := s.events.Create(ctx, e)
	if err != nil {
		return domain.DrinkEvent{}, fmt.Errorf("service.EventService.Create: %w", err)
	}
	return created, nil
}

// checkMembership rejects a participant or drink type that is unknown or
// belongs to another trip.
func (s *EventService) checkMembership(ctx context.Context, e domain.DrinkEvent) error {
	p, err := s.participants.GetByID(ctx, e.ParticipantID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && p.TripID != e.TripID) {
		return fmt.Errorf("%w: participant %s is not part of this trip", domain.ErrValidation, e.ParticipantID)
	}
	if err != nil {
		return err
	}

	dt, err := s.drinkTypes.GetByID(ctx, e.DrinkTypeID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && dt.TripID != e.TripID) {
		return fmt.Errorf("%w: drink type %s is not part of this trip", domain.ErrValidation, e.DrinkTypeID)
	}
	return err
}

// GetByID returns an event of the given trip.
func (s *EventService) GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.DrinkEvent, error) {
	e, err := s.get(ctx, tripID, id)
	if err != nil {
		return domain.DrinkEvent{}, fmt.Errorf("service.EventService.GetByID: %w", err)
	}
	return e, nil
}

// List returns a trip's events oldest first, narrowed by f.
func (s *EventService) List(ctx context.Context, tripID uuid.UUID, f analytics.Filter) ([]domain.DrinkEvent, error) {
	if err := ValidateFilter(f); err != nil {
		return nil, fmt.Errorf("service.EventService.List: %w", err)
	}
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.EventService.List: %w", err)
	}
	events, err := s.events.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.EventService.List: %w", err)
	}
	return analytics.FilterEvents(events, f), nil
}

// ListPaged returns one page of a trip's events, newest first.
func (s *EventService) ListPaged(ctx context.Context, tripID uuid.UUID, f analytics.Filter, p domain.PaginationParams) (domain.Page[domain.DrinkEvent], error) {
	if err := ValidateFilter(f); err != nil {
		return domain.Page[domain.DrinkEvent]{}, fmt.Errorf("service.EventService.ListPaged: %w", err)
	}
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return domain.Page[domain.DrinkEvent]{}, fmt.Errorf("service.EventService.ListPaged: %w", err)
	}
	items, total, err := s.events.ListPaged(ctx, tripID, f, p)
	if err != nil {
		return domain.Page[domain.DrinkEvent]{}, fmt.Errorf("service.EventService.ListPaged: %w", err)
	}
	return domain.Page[domain.DrinkEvent]{Items: items, Total: total}, nil
}

// AttachPhoto stores a processed photo on the event.
func (s *EventService) AttachPhoto(ctx context.Context, tripID, id uuid.UUID, ph domain.Photo) (domain.DrinkEvent, error) {
	if err := photo.Validate(ph.Thumb); err != nil {
		return domain.DrinkEvent{}, fmt.Errorf("service.EventService.AttachPhoto: %w", err)
	}
	if _, err := s.get(ctx, tripID, id); err != nil {
		return domain.DrinkEvent{}, fmt.Errorf("service.EventService.AttachPhoto: %w", err)
	}
	e, err := s.events.SetPhoto(ctx, id, ph)
	if err != nil {
		return domain.DrinkEvent{}, fmt.Errorf("service.EventService.AttachPhoto: %w", err)
	}
	return e, nil
}

// DetachPhoto clears the event's photo.
func (s *EventService) DetachPhoto(ctx context.Context, tripID, id uuid.UUID) (domain.DrinkEvent, error) {
	if _, err := s.get(ctx, tripID, id); err != nil {
		return domain.DrinkEvent{}, fmt.Errorf("service.EventService.DetachPhoto: %w", err)
	}
	e, err := s.events.SetPhoto(ctx, id, domain.Photo{})
	if err != nil {
		return domain.DrinkEvent{}, fmt.Errorf("service.EventService.DetachPhoto: %w", err)
	}
	return e, nil
}

// Delete removes an event of the given trip.
func (s *EventService) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	if _, err := s.get(ctx, tripID, id); err != nil {
		return fmt.Errorf("service.EventService.Delete: %w", err)
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.EventService.Delete: %w", err)
	}
	return nil
}

func (s *EventService) get(ctx context.Context, tripID, id uuid.UUID) (domain.DrinkEvent, error) {
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return domain.DrinkEvent{}, err
	}
	if e.TripID != tripID {
		return domain.DrinkEvent{}, domain.ErrNotFound
	}
	return e, nil
}

// ValidateFilter checks that the filter's dates parse and are ordered.
func ValidateFilter(f analytics.Filter) error {
	var start, end time.Time
	if f.Start != nil {
		t, err := time.Parse(domain.DateLayout, *f.Start)
		if err != nil {
			return fmt.Errorf("%w: start must be a YYYY-MM-DD date", domain.ErrValidation)
		}
		start = t
	}
	if f.End != nil {
		t, err := time.Parse(domain.DateLayout, *f.End)
		if err != nil {
			return fmt.Errorf("%w: end must be a YYYY-MM-DD date", domain.ErrValidation)
		}
		end = t
	}
	if f.Start != nil && f.End != nil && end.Before(start) {
		return fmt.Errorf("%w: end must not be before start", domain.ErrValidation)
	}
	return nil
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/booze-cruise/backend/internal/domain"
	"github.com/pkordes/booze-cruise/backend/internal/photo"
	"github.com/pkordes/booze-cruise/backend/internal/repo"
)

// ParticipantService implements business logic for Participant operations.
// Every lookup is scoped to a trip: a participant of another trip is reported
// as not found.
type ParticipantService struct {
	trips        repo.TripRepo
	participants repo.ParticipantRepo
}

// NewParticipantService constructs a ParticipantService.
func NewParticipantService(trips repo.TripRepo, participants repo.ParticipantRepo) *ParticipantService {
	return &ParticipantService{trips: trips, participants: participants}
}

// Create validates and persists a participant of an existing trip.
func (s *ParticipantService) Create(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	name, err := requireName(p.Name)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Create: %w", err)
	}
	if err := photo.Validate(p.Photo); err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Create: %w", err)
	}
	if _, err := s.trips.GetByID(ctx, p.TripID); err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Create: trip: %w", err)
	}

	p.ID = uuid.Nil
	p.Name = name
	created, err := s.participants.Create(ctx, p)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a participant of the given trip.
func (s *ParticipantService) GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.Participant, error) {
	p, err := s.get(ctx, tripID, id)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.GetByID: %w", err)
	}
	return p, nil
}

// ListByTrip returns a trip's participants in creation order.
func (s *ParticipantService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.ParticipantService.ListByTrip: %w", err)
	}
	ps, err := s.participants.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ParticipantService.ListByTrip: %w", err)
	}
	return ps, nil
}

// Update renames a participant.
func (s *ParticipantService) Update(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	name, err := requireName(p.Name)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Update: %w", err)
	}
	existing, err := s.get(ctx, p.TripID, p.ID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Update: %w", err)
	}

	existing.Name = name
	updated, err := s.participants.Update(ctx, existing)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Update: %w", err)
	}
	return updated, nil
}

// SetPhoto replaces the participant's photo; a zero Photo clears it.
func (s *ParticipantService) SetPhoto(ctx context.Context, tripID, id uuid.UUID, ph domain.Photo) (domain.Participant, error) {
	if _, err := s.get(ctx, tripID, id); err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.SetPhoto: %w", err)
	}
	p, err := s.participants.SetPhoto(ctx, id, ph)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.SetPhoto: %w", err)
	}
	return p, nil
}

// Delete removes a participant together with their drink events.
func (s *ParticipantService) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	if _, err := s.get(ctx, tripID, id); err != nil {
		return fmt.Errorf("service.ParticipantService.Delete: %w", err)
	}
	if err := s.participants.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.ParticipantService.Delete: %w", err)
	}
	return nil
}

func (s *ParticipantService) get(ctx context.Context, tripID, id uuid.UUID) (domain.Participant, error) {
	p, err := s.participants.GetByID(ctx, id)
	if err != nil {
		return domain.Participant{}, err
	}
	if p.TripID != tripID {
		return domain.Participant{}, domain.ErrNotFound
	}
	return p, nil
}

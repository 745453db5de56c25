package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/booze-cruise/backend/internal/domain"
	"github.com/pkordes/booze-cruise/backend/internal/photo"
	"github.com/pkordes/booze-cruise/backend/internal/repo"
)

// DrinkTypeService implements business logic for DrinkType operations.
// Every lookup is scoped to a trip: a drink type of another trip is reported
// as not found.
type DrinkTypeService struct {
	trips      repo.TripRepo
	drinkTypes repo.DrinkTypeRepo
}

// NewDrinkTypeService constructs a DrinkTypeService.
func NewDrinkTypeService(trips repo.TripRepo, drinkTypes repo.DrinkTypeRepo) *DrinkTypeService {
	return &DrinkTypeService{trips: trips, drinkTypes: drinkTypes}
}

// Create validates and persists a drink type of an existing trip.
func (s *DrinkTypeService) Create(ctx context.Context, dt domain.DrinkType) (domain.DrinkType, error) {
	name, err := requireName(dt.Name)
	if err != nil {
		return domain.DrinkType{}, fmt.Errorf("service.DrinkTypeService.Create: %w", err)
	}
	if err := photo.Validate(dt.Photo); err != nil {
		return domain.DrinkType{}, fmt.Errorf("service.DrinkTypeService.Create: %w", err)
	}
	if _, err := s.trips.GetByID(ctx, dt.TripID); err != nil {
		return domain.DrinkType{}, fmt.Errorf("service.DrinkTypeService.Create: trip: %w", err)
	}

	dt.ID = uuid.Nil
	dt.Name = name
	created, err := s.drinkTypes.Create(ctx, dt)
	if err != nil {
		return domain.DrinkType{}, fmt.Errorf("service.DrinkTypeService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a drink type of the given trip.
func (s *DrinkTypeService) GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.DrinkType, error) {
	dt, err := s.get(ctx, tripID, id)
	if err != nil {
		return domain.DrinkType{}, fmt.Errorf("service.DrinkTypeService.GetByID: %w", err)
	}
	return dt, nil
}

// ListByTrip returns a trip's drink types in creation order.
func (s *DrinkTypeService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DrinkType, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.DrinkTypeService.ListByTrip: %w", err)
	}
	dts, err := s.drinkTypes.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.DrinkTypeService.ListByTrip: %w", err)
	}
	return dts, nil
}

// Update renames a drink type.
func (s *DrinkTypeService) Update(ctx context.Context, dt domain.DrinkType) (domain.DrinkType, error) {
	name, err := requireName(dt.Name)
	if err != nil {
		return domain.DrinkType{}, fmt.Errorf("service.DrinkTypeService.Update: %w", err)
	}
	existing, err := s.get(ctx, dt.TripID, dt.ID)
	if err != nil {
		return domain.DrinkType{}, fmt.Errorf("service.DrinkTypeService.Update: %w", err)
	}

	existing.Name = name
	updated, err := s.drinkTypes.Update(ctx, existing)
	if err != nil {
		return domain.DrinkType{}, fmt.Errorf("service.DrinkTypeService.Update: %w", err)
	}
	return updated, nil
}

// SetPhoto replaces the drink type's photo; a zero Photo clears it.
func (s *DrinkTypeService) SetPhoto(ctx context.Context, tripID, id uuid.UUID, ph domain.Photo) (domain.DrinkType, error) {
	if _, err := s.get(ctx, tripID, id); err != nil {
		return domain.DrinkType{}, fmt.Errorf("service.DrinkTypeService.SetPhoto: %w", err)
	}
	dt, err := s.drinkTypes.SetPhoto(ctx, id, ph)
	if err != nil {
		return domain.DrinkType{}, fmt.Errorf("service.DrinkTypeService.SetPhoto: %w", err)
	}
	return dt, nil
}

// Delete removes a drink type together with its drink events.
func (s *DrinkTypeService) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	if _, err := s.get(ctx, tripID, id); err != nil {
		return fmt.Errorf("service.DrinkTypeService.Delete: %w", err)
	}
	if err := s.drinkTypes.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.DrinkTypeService.Delete: %w", err)
	}
	return nil
}

func (s *DrinkTypeService) get(ctx context.Context, tripID, id uuid.UUID) (domain.DrinkType, error) {
	dt, err := s.drinkTypes.GetByID(ctx, id)
	if err != nil {
		return domain.DrinkType{}, err
	}
	if dt.TripID != tripID {
		return domain.DrinkType{}, domain.ErrNotFound
	}
	return dt, nil
}

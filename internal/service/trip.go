// Package service contains the business logic for the Booze Cruise API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/booze-cruise/backend/internal/domain"
	"github.com/pkordes/booze-cruise/backend/internal/photo"
	"github.com/pkordes/booze-cruise/backend/internal/repo"
)

// FirstTripName names the trip created on first use.
const FirstTripName = "My First Cruise"

// firstTripDays is the length of the trip created on first use.
const firstTripDays = 7

// TripService implements business logic for Trip operations.
// Exactly one trip is the default once any trip exists; changing which one
// runs in a transaction.
type TripService struct {
	repo repo.TripRepo
	tx   repo.TxRunner
	now  func() time.Time
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo, tx repo.TxRunner) *TripService {
	return &TripService{repo: r, tx: tx, now: time.Now}
}

// Create validates and persists a new trip. The trip becomes the default
// when asked to or when no default exists yet.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip.Name = strings.TrimSpace(trip.Name)
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	var created domain.Trip
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if !trip.IsDefault {
			_, err := r.Trips.GetDefault(ctx)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				trip.IsDefault = true
			case err != nil:
				return err
			}
		}
		if trip.IsDefault {
			if err := r.Trips.ClearDefault(ctx, uuid.Nil); err != nil {
				return err
			}
		}
		var err error
		created, err = r.Trips.Create(ctx, trip)
		return err
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return t, nil
}

// List returns all trips, most recently started first.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	return trips, nil
}

// Update validates and updates name and dates. Setting IsDefault makes the
// trip the default; a default trip stays default until another takes over.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip.Name = strings.TrimSpace(trip.Name)
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	var updated domain.Trip
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		existing, err := r.Trips.GetByID(ctx, trip.ID)
		if err != nil {
			return err
		}
		if trip.IsDefault && !existing.IsDefault {
			if err := r.Trips.ClearDefault(ctx, trip.ID); err != nil {
				return err
			}
		}
		trip.IsDefault = trip.IsDefault || existing.IsDefault
		updated, err = r.Trips.Update(ctx, trip)
		return err
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a trip with everything it owns. When the default trip is
// deleted the most recently started remaining trip becomes the default.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		trip, err := r.Trips.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := r.Trips.Delete(ctx, id); err != nil {
			return err
		}
		if !trip.IsDefault {
			return nil
		}
		rest, err := r.Trips.List(ctx)
		if err != nil || len(rest) == 0 {
			return err
		}
		next := rest[0]
		next.IsDefault = true
		_, err = r.Trips.Update(ctx, next)
		return err
	})
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// Current returns the trip new activity belongs to: the default trip, else
// the most recently started one (promoted to default), else a freshly
// created FirstTripName trip.
func (s *TripService) Current(ctx context.Context) (domain.Trip, error) {
	trip, err := s.repo.GetDefault(ctx)
	if err == nil {
		return trip, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Trip{}, fmt.Errorf("service.TripService.Current: %w", err)
	}

	trips, err := s.repo.List(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Current: %w", err)
	}
	if len(trips) > 0 {
		return s.SetDefault(ctx, trips[0].ID)
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	end := today.AddDate(0, 0, firstTripDays)
	return s.Create(ctx, domain.Trip{
		Name:      FirstTripName,
		StartDate: today,
		EndDate:   &end,
		IsDefault: true,
	})
}

// SetDefault makes the given trip the only default.
func (s *TripService) SetDefault(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	var updated domain.Trip
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		trip, err := r.Trips.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := r.Trips.ClearDefault(ctx, id); err != nil {
			return err
		}
		if trip.IsDefault {
			updated = trip
			return nil
		}
		trip.IsDefault = true
		updated, err = r.Trips.Update(ctx, trip)
		return err
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.SetDefault: %w", err)
	}
	return updated, nil
}

// SetCoverPhoto stores a processed cover image, a glyph, or "" to clear it.
func (s *TripService) SetCoverPhoto(ctx context.Context, id uuid.UUID, cover string) (domain.Trip, error) {
	if err := photo.Validate(cover); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.SetCoverPhoto: %w", err)
	}
	t, err := s.repo.SetCoverPhoto(ctx, id, cover)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.SetCoverPhoto: %w", err)
	}
	return t, nil
}

func validateTrip(t domain.Trip) error {
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if t.StartDate.IsZero() {
		return fmt.Errorf("%w: start_date is required", domain.ErrValidation)
	}
	if t.EndDate != nil && t.EndDate.Before(t.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	return nil
}

// requireName trims name and rejects it when empty.
func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	return name, nil
}

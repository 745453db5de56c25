package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/booze-cruise/backend/internal/analytics"
	"github.com/pkordes/booze-cruise/backend/internal/domain"
	"github.com/pkordes/booze-cruise/backend/internal/repo"
)

// tripData is everything recorded for one trip.
type tripData struct {
	trip         domain.Trip
	participants []domain.Participant
	drinkTypes   []domain.DrinkType
	events       []domain.DrinkEvent
}

// loadTrip reads a trip with its catalogs and all of its events.
func loadTrip(ctx context.Context, r repo.Repos, tripID uuid.UUID) (tripData, error) {
	var (
		d   tripData
		err error
	)
	if d.trip, err = r.Trips.GetByID(ctx, tripID); err != nil {
		return tripData{}, err
	}
	if d.participants, err = r.Participants.ListByTrip(ctx, tripID); err != nil {
		return tripData{}, err
	}
	if d.drinkTypes, err = r.DrinkTypes.ListByTrip(ctx, tripID); err != nil {
		return tripData{}, err
	}
	if d.events, err = r.Events.ListByTrip(ctx, tripID); err != nil {
		return tripData{}, err
	}
	return d, nil
}

// AnalyticsService serves aggregate statistics over a trip's events.
type AnalyticsService struct {
	repos repo.Repos
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(r repo.Repos) *AnalyticsService {
	return &AnalyticsService{repos: r}
}

// Report summarizes the trip's events that match f.
func (s *AnalyticsService) Report(ctx context.Context, tripID uuid.UUID, f analytics.Filter) (analytics.Report, error) {
	if err := ValidateFilter(f); err != nil {
		return analytics.Report{}, fmt.Errorf("service.AnalyticsService.Report: %w", err)
	}
	d, err := loadTrip(ctx, s.repos, tripID)
	if err != nil {
		return analytics.Report{}, fmt.Errorf("service.AnalyticsService.Report: %w", err)
	}
	events := analytics.FilterEvents(d.events, f)
	return analytics.Summarize(events, d.participants, d.drinkTypes), nil
}

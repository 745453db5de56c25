// Package handler implements the HTTP handlers for the Booze Cruise API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, trip.go, event.go, etc.) but share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/booze-cruise/backend/internal/analytics"
	"github.com/pkordes/booze-cruise/backend/internal/domain"
	"github.com/pkordes/booze-cruise/backend/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Interfaces live here, in the consumer package, so handler tests can inject
// mocks without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Current(ctx context.Context) (domain.Trip, error)
	SetDefault(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	SetCoverPhoto(ctx context.Context, id uuid.UUID, cover string) (domain.Trip, error)
}

// ParticipantServicer defines the operations on a trip's participants.
type ParticipantServicer interface {
	Create(ctx context.Context, p domain.Participant) (domain.Participant, error)
	GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.Participant, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)
	Update(ctx context.Context, p domain.Participant) (domain.Participant, error)
	SetPhoto(ctx context.Context, tripID, id uuid.UUID, ph domain.Photo) (domain.Participant, error)
	Delete(ctx context.Context, tripID, id uuid.UUID) error
}

// DrinkTypeServicer defines the operations on a trip's drink types.
type DrinkTypeServicer interface {
	Create(ctx context.Context, dt domain.DrinkType) (domain.DrinkType, error)
	GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.DrinkType, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DrinkType, error)
	Update(ctx context.Context, dt domain.DrinkType) (domain.DrinkType, error)
	SetPhoto(ctx context.Context, tripID, id uuid.UUID, ph domain.Photo) (domain.DrinkType, error)
	Delete(ctx context.Context, tripID, id uuid.UUID) error
}

// EventServicer defines the operations on drink events.
type EventServicer interface {
	Create(ctx context.Context, e domain.DrinkEvent) (domain.DrinkEvent, error)
	GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.DrinkEvent, error)
	ListPaged(ctx context.Context, tripID uuid.UUID, f analytics.Filter, p domain.PaginationParams) (domain.Page[domain.DrinkEvent], error)
	AttachPhoto(ctx context.Context, tripID, id uuid.UUID, ph domain.Photo) (domain.DrinkEvent, error)
	DetachPhoto(ctx context.Context, tripID, id uuid.UUID) (domain.DrinkEvent, error)
	Delete(ctx context.Context, tripID, id uuid.UUID) error
}

// AnalyticsServicer produces trip statistics.
type AnalyticsServicer interface {
	Report(ctx context.Context, tripID uuid.UUID, f analytics.Filter) (analytics.Report, error)
}

// HighlightsServicer renders highlights images.
type HighlightsServicer interface {
	Generate(ctx context.Context, tripID uuid.UUID, f analytics.Filter, opts service.HighlightsOptions) (service.Highlights, error)
}

// DataServicer exports and imports the whole dataset.
type DataServicer interface {
	Export(ctx context.Context) (domain.Document, error)
	Rows(ctx context.Context) ([]domain.ExportRow, error)
	Import(ctx context.Context, doc domain.Document) (service.ImportResult, error)
}

// Services bundles the dependencies of a Server. Nil members are allowed in
// tests that do not reach the corresponding routes.
type Services struct {
	Trips        TripServicer
	Participants ParticipantServicer
	DrinkTypes   DrinkTypeServicer
	Events       EventServicer
	Analytics    AnalyticsServicer
	Highlights   HighlightsServicer
	Data         DataServicer
}

// Server serves every API endpoint.
type Server struct {
	trips        TripServicer
	participants ParticipantServicer
	drinkTypes   DrinkTypeServicer
	events       EventServicer
	analytics    AnalyticsServicer
	highlights   HighlightsServicer
	data         DataServicer
	logger       *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(svc Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		trips:        svc.Trips,
		participants: svc.Participants,
		drinkTypes:   svc.DrinkTypes,
		events:       svc.Events,
		analytics:    svc.Analytics,
		highlights:   svc.Highlights,
		data:         svc.Data,
		logger:       logger,
	}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(Services{}, nil)
}

// Routes builds the API router. Mount it under the middleware chain in main.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Get("/current", s.GetCurrentTrip)

		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)
			r.Put("/default", s.SetDefaultTrip)
			r.Put("/cover", s.PutTripCover)
			r.Delete("/cover", s.DeleteTripCover)

			r.Get("/participants", s.ListParticipants)
			r.Post("/participants", s.CreateParticipant)
			r.Get("/participants/{id}", s.GetParticipant)
			r.Put("/participants/{id}", s.UpdateParticipant)
			r.Delete("/participants/{id}", s.DeleteParticipant)
			r.Put("/participants/{id}/photo", s.PutParticipantPhoto)
			r.Delete("/participants/{id}/photo", s.DeleteParticipantPhoto)

			r.Get("/drink-types", s.ListDrinkTypes)
			r.Post("/drink-types", s.CreateDrinkType)
			r.Get("/drink-types/{id}", s.GetDrinkType)
			r.Put("/drink-types/{id}", s.UpdateDrinkType)
			r.Delete("/drink-types/{id}", s.DeleteDrinkType)
			r.Put("/drink-types/{id}/photo", s.PutDrinkTypePhoto)
			r.Delete("/drink-types/{id}/photo", s.DeleteDrinkTypePhoto)

			r.Get("/events", s.ListEvents)
			r.Post("/events", s.CreateEvent)
			r.Get("/events/{id}", s.GetEvent)
			r.Delete("/events/{id}", s.DeleteEvent)
			r.Put("/events/{id}/photo", s.PutEventPhoto)
			r.Delete("/events/{id}/photo", s.DeleteEventPhoto)

			r.Get("/analytics", s.GetAnalytics)
			r.Get("/highlights", s.GetHighlights)
		})
	})

	r.Get("/export", s.GetExport)
	r.Post("/import", s.PostImport)

	return r
}

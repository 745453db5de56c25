package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/booze-cruise/backend/internal/domain"
	"github.com/pkordes/booze-cruise/backend/internal/photo"
	"github.com/pkordes/booze-cruise/backend/internal/repo"
)

// ImportResult counts the records written by an import.
type ImportResult struct {
	Trips        int `json:"trips"`
	Participants int `json:"participants"`
	DrinkTypes   int `json:"drink_types"`
	DrinkEvents  int `json:"drink_events"`
}

// DataService moves the whole dataset in and out as a single document.
// Every read and write goes through a transaction.
type DataService struct {
	tx  repo.TxRunner
	now func() time.Time
}

// NewDataService constructs a DataService.
func NewDataService(tx repo.TxRunner) *DataService {
	return &DataService{tx: tx, now: time.Now}
}

// Export returns every record of every trip. All four tables are read from
// one snapshot, so every reference in the document resolves.
func (s *DataService) Export(ctx context.Context) (domain.Document, error) {
	doc := domain.Document{Version: domain.DocumentVersion, ExportDate: s.now().UTC()}

	err := s.tx.ReadSnapshot(ctx, func(r repo.Repos) error {
		var err error
		if doc.Trips, err = r.Trips.List(ctx); err != nil {
			return err
		}
		if doc.Participants, err = r.Participants.List(ctx); err != nil {
			return err
		}
		if doc.DrinkTypes, err = r.DrinkTypes.List(ctx); err != nil {
			return err
		}
		doc.DrinkEvents, err = r.Events.List(ctx)
		return err
	})
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.DataService.Export: %w", err)
	}
	return doc, nil
}

// Rows flattens the dataset to one row per drink event. A trip without
// events contributes one row with empty event fields.
func (s *DataService) Rows(ctx context.Context) ([]domain.ExportRow, error) {
	doc, err := s.Export(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.DataService.Rows: %w", err)
	}

	people := make(map[uuid.UUID]string, len(doc.Participants))
	for _, p := range doc.Participants {
		people[p.ID] = p.Name
	}
	drinks := make(map[uuid.UUID]string, len(doc.DrinkTypes))
	for _, dt := range doc.DrinkTypes {
		drinks[dt.ID] = dt.Name
	}
	byTrip := make(map[uuid.UUID][]domain.DrinkEvent)
	for _, e := range doc.DrinkEvents {
		byTrip[e.TripID] = append(byTrip[e.TripID], e)
	}

	rows := []domain.ExportRow{}
	for _, t := range doc.Trips {
		base := domain.ExportRow{
			TripID:        t.ID.String(),
			TripName:      t.Name,
			TripStartDate: t.StartDate.Format(domain.DateLayout),
		}
		if t.EndDate != nil {
			base.TripEndDate = t.EndDate.Format(domain.DateLayout)
		}

		events := byTrip[t.ID]
		if len(events) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, e := range events {
			row := base
			row.EventID = e.ID.String()
			row.ParticipantName = people[e.ParticipantID]
			row.DrinkTypeName = drinks[e.DrinkTypeID]
			row.Timestamp = e.Timestamp
			row.Date = e.Date
			row.HasPhoto = e.Photo != "" || e.FullPhoto != ""
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// Import replaces the whole dataset with doc, keeping every record's ID.
// The document is validated up front; the replacement is atomic.
func (s *DataService) Import(ctx context.Context, doc domain.Document) (ImportResult, error) {
	if err := validateDocument(doc); err != nil {
		return ImportResult{}, fmt.Errorf("service.DataService.Import: %w", err)
	}

	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if err := r.Trips.DeleteAll(ctx); err != nil {
			return err
		}
		for _, t := range doc.Trips {
			if _, err := r.Trips.Create(ctx, t); err != nil {
				return fmt.Errorf("trip %s: %w", t.ID, err)
			}
		}
		for _, p := range doc.Participants {
			if _, err := r.Participants.Create(ctx, p); err != nil {
				return fmt.Errorf("participant %s: %w", p.ID, err)
			}
		}
		for _, dt := range doc.DrinkTypes {
			if _, err := r.DrinkTypes.Create(ctx, dt); err != nil {
				return fmt.Errorf("drink type %s: %w", dt.ID, err)
			}
		}
		for _, e := range doc.DrinkEvents {
			if _, err := r.Events.Create(ctx, e); err != nil {
				return fmt.Errorf("drink event %s: %w", e.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("service.DataService.Import: %w", err)
	}

	return ImportResult{
		Trips:        len(doc.Trips),
		Participants: len(doc.Participants),
		DrinkTypes:   len(doc.DrinkTypes),
		DrinkEvents:  len(doc.DrinkEvents),
	}, nil
}

// validateDocument checks the version, record shapes and every reference.
func validateDocument(doc domain.Document) error {
	if doc.Version != domain.DocumentVersion {
		return fmt.Errorf("%w: unsupported document version %d", domain.ErrValidation, doc.Version)
	}

	ids := make(map[uuid.UUID]bool)
	claim := func(kind string, id uuid.UUID) error {
		if id == uuid.Nil {
			return fmt.Errorf("%w: %s without id", domain.ErrValidation, kind)
		}
		if ids[id] {
			return fmt.Errorf("%w: duplicate id %s", domain.ErrValidation, id)
		}
		ids[id] = true
		return nil
	}

	trips := make(map[uuid.UUID]bool, len(doc.Trips))
	defaults := 0
	for _, t := range doc.Trips {
		if err := claim("trip", t.ID); err != nil {
			return err
		}
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("%w: trip %s: name is required", domain.ErrValidation, t.ID)
		}
		if err := validateTrip(t); err != nil {
			return fmt.Errorf("trip %s: %w", t.ID, err)
		}
		if err := photo.Validate(t.CoverPhoto); err != nil {
			return fmt.Errorf("trip %s: %w", t.ID, err)
		}
		if t.IsDefault {
			defaults++
		}
		trips[t.ID] = true
	}
	if defaults > 1 {
		return fmt.Errorf("%w: more than one default trip", domain.ErrValidation)
	}

	participants := make(map[uuid.UUID]uuid.UUID, len(doc.Participants))
	for _, p := range doc.Participants {
		if err := claim("participant", p.ID); err != nil {
			return err
		}
		if !trips[p.TripID] {
			return fmt.Errorf("%w: participant %s references unknown trip %s", domain.ErrValidation, p.ID, p.TripID)
		}
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: participant %s: name is required", domain.ErrValidation, p.ID)
		}
		participants[p.ID] = p.TripID
	}

	drinkTypes := make(map[uuid.UUID]uuid.UUID, len(doc.DrinkTypes))
	for _, dt := range doc.DrinkTypes {
		if err := claim("drink type", dt.ID); err != nil {
			return err
		}
		if !trips[dt.TripID] {
			return fmt.Errorf("%w: drink type %s references unknown trip %s", domain.ErrValidation, dt.ID, dt.TripID)
		}
		if strings.TrimSpace(dt.Name) == "" {
			return fmt.Errorf("%w: drink type %s: name is required", domain.ErrValidation, dt.ID)
		}
		drinkTypes[dt.ID] = dt.TripID
	}

	for _, e := range doc.DrinkEvents {
		if err := claim("drink event", e.ID); err != nil {
			return err
		}
		if !trips[e.TripID] {
			return fmt.Errorf("%w: drink event %s references unknown trip %s", domain.ErrValidation, e.ID, e.TripID)
		}
		if trip, ok := participants[e.ParticipantID]; !ok || trip != e.TripID {
			return fmt.Errorf("%w: drink event %s references participant %s outside its trip", domain.ErrValidation, e.ID, e.ParticipantID)
		}
		if trip, ok := drinkTypes[e.DrinkTypeID]; !ok || trip != e.TripID {
			return fmt.Errorf("%w: drink event %s references drink type %s outside its trip", domain.ErrValidation, e.ID, e.DrinkTypeID)
		}
		if e.Timestamp.IsZero() {
			return fmt.Errorf("%w: drink event %s: timestamp is required", domain.ErrValidation, e.ID)
		}
	}
	return nil
}

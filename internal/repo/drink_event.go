package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/booze-cruise/backend/internal/domain"
)

// DrinkEventRepo defines the persistence operations for DrinkEvents.
// Events are never edited apart from their photo.
type DrinkEventRepo interface {
	// Create inserts an event. The stored date is derived from Timestamp.
	Create(ctx context.Context, e domain.DrinkEvent) (domain.DrinkEvent, error)

	// GetByID returns domain.ErrNotFound if the event does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.DrinkEvent, error)

	// ListByTrip returns a trip's events oldest first.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DrinkEvent, error)

	// ListPaged returns one page of a trip's events, newest first, matching
	// the filter, plus the total number of matches.
	ListPaged(ctx context.Context, tripID uuid.UUID, f domain.EventFilter, p domain.PaginationParams) ([]domain.DrinkEvent, int64, error)

	// List returns every event across all trips.
	List(ctx context.Context) ([]domain.DrinkEvent, error)

	// SetPhoto replaces both photo columns; an empty Photo clears them.
	SetPhoto(ctx context.Context, id uuid.UUID, photo domain.Photo) (domain.DrinkEvent, error)

	// Delete returns domain.ErrNotFound if the event does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgDrinkEventRepo struct {
	db db
}

// NewDrinkEventRepo constructs a DrinkEventRepo backed by the provided db connection.
func NewDrinkEventRepo(db db) DrinkEventRepo {
	return &pgDrinkEventRepo{db: db}
}

const eventColumns = `id, trip_id, participant_id, drink_type_id, occurred_at, event_date, photo, full_photo, created_at`

func (r *pgDrinkEventRepo) Create(ctx context.Context, e domain.DrinkEvent) (domain.DrinkEvent, error) {
	const q = `
		INSERT INTO drink_events (id, trip_id, participant_id, drink_type_id, occurred_at, event_date, photo, full_photo, created_at)
		VALUES (
			COALESCE(@id, gen_random_uuid()),
			@trip_id, @participant_id, @drink_type_id, @occurred_at, @event_date, @photo, @full_photo,
			COALESCE(@created_at, now())
		)
		RETURNING ` + eventColumns

	ts := e.Timestamp.UTC()
	args := pgx.NamedArgs{
		"id":             optionalID(e.ID),
		"trip_id":        e.TripID,
		"participant_id": e.ParticipantID,
		"drink_type_id":  e.DrinkTypeID,
		"occurred_at":    ts,
		"event_date":     time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
		"photo":          e.Photo,
		"full_photo":     e.FullPhoto,
		"created_at":     optionalTime(e.CreatedAt),
	}

	result, err := scanEvent(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.DrinkEvent{}, fmt.Errorf("repo.DrinkEventRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgDrinkEventRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.DrinkEvent, error) {
	const q = `SELECT ` + eventColumns + ` FROM drink_events WHERE id = @id`

	result, err := scanEvent(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.DrinkEvent{}, fmt.Errorf("repo.DrinkEventRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgDrinkEventRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DrinkEvent, error) {
	const q = `SELECT ` + eventColumns + ` FROM drink_events WHERE trip_id = @trip_id ORDER BY occurred_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DrinkEventRepo.ListByTrip: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.DrinkEventRepo.ListByTrip: %w", err)
	}
	return events, nil
}

func (r *pgDrinkEventRepo) ListPaged(ctx context.Context, tripID uuid.UUID, f domain.EventFilter, p domain.PaginationParams) ([]domain.DrinkEvent, int64, error) {
	const where = `
		WHERE trip_id = @trip_id
		  AND (@start::date IS NULL OR event_date >= @start::date)
		  AND (@end::date IS NULL OR event_date <= @end::date)
		  AND (@participant_id::uuid IS NULL OR participant_id = @participant_id::uuid)`
	const countQ = `SELECT COUNT(*) FROM drink_events` + where
	const pageQ = `SELECT ` + eventColumns + ` FROM drink_events` + where + `
		ORDER BY occurred_at DESC, id
		LIMIT @limit OFFSET @offset`

	start, err := parseDateArg(f.Start)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.DrinkEventRepo.ListPaged: start: %w", err)
	}
	end, err := parseDateArg(f.End)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.DrinkEventRepo.ListPaged: end: %w", err)
	}

	args := pgx.NamedArgs{
		"trip_id":        tripID,
		"start":          start,
		"end":            end,
		"participant_id": f.ParticipantID,
		"limit":          p.Limit,
		"offset":         p.Offset(),
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQ, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.DrinkEventRepo.ListPaged: count: %w", err)
	}

	rows, err := r.db.Query(ctx, pageQ, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.DrinkEventRepo.ListPaged: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.DrinkEventRepo.ListPaged: %w", err)
	}
	return events, total, nil
}

func (r *pgDrinkEventRepo) List(ctx context.Context) ([]domain.DrinkEvent, error) {
	const q = `SELECT ` + eventColumns + ` FROM drink_events ORDER BY occurred_at, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.DrinkEventRepo.List: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.DrinkEventRepo.List: %w", err)
	}
	return events, nil
}

func (r *pgDrinkEventRepo) SetPhoto(ctx context.Context, id uuid.UUID, photo domain.Photo) (domain.DrinkEvent, error) {
	const q = `
		UPDATE drink_events
		SET photo = @photo, full_photo = @full_photo
		WHERE id = @id
		RETURNING ` + eventColumns

	args := pgx.NamedArgs{"id": id, "photo": photo.Thumb, "full_photo": photo.Full}
	result, err := scanEvent(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.DrinkEvent{}, fmt.Errorf("repo.DrinkEventRepo.SetPhoto: %w", err)
	}
	return result, nil
}

func (r *pgDrinkEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM drink_events WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.DrinkEventRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DrinkEventRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func collectEvents(rows pgx.Rows) ([]domain.DrinkEvent, error) {
	defer rows.Close()

	events := []domain.DrinkEvent{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return events, nil
}

// scanEvent maps eventColumns into a domain.DrinkEvent.
func scanEvent(s scanner) (domain.DrinkEvent, error) {
	var (
		e             domain.DrinkEvent
		id            pgtype.UUID
		tripID        pgtype.UUID
		participantID pgtype.UUID
		drinkTypeID   pgtype.UUID
		date          pgtype.Date
	)

	err := s.Scan(&id, &tripID, &participantID, &drinkTypeID,
		&e.Timestamp, &date, &e.Photo, &e.FullPhoto, &e.CreatedAt)
	if err != nil {
		return domain.DrinkEvent{}, mapNoRows(err)
	}

	e.ID = uuid.UUID(id.Bytes)
	e.TripID = uuid.UUID(tripID.Bytes)
	e.ParticipantID = uuid.UUID(participantID.Bytes)
	e.DrinkTypeID = uuid.UUID(drinkTypeID.Bytes)
	e.Timestamp = e.Timestamp.UTC()
	e.Date = date.Time.Format(domain.DateLayout)
	return e, nil
}

// parseDateArg converts an optional DateLayout string into a query argument.
func parseDateArg(s *string) (any, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(domain.DateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", domain.ErrValidation, *s)
	}
	return t, nil
}

// Package repo contains all database access logic for the Booze Cruise API.
// Each resource has its own file with an interface and a Postgres implementation.
// Only SQL and type mapping live here.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/booze-cruise/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres implementation.
type TripRepo interface {
	// Create inserts a trip and returns the persisted record. A zero ID or
	// zero timestamps are generated by the database; non-zero ones are kept,
	// which is what import relies on.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// GetDefault returns the trip flagged as default.
	// Returns domain.ErrNotFound if no trip is the default.
	GetDefault(ctx context.Context) (domain.Trip, error)

	// List returns all trips, most recently started first.
	List(ctx context.Context) ([]domain.Trip, error)

	// Update overwrites name, dates and the default flag.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// SetCoverPhoto replaces the cover photo; "" clears it.
	SetCoverPhoto(ctx context.Context, id uuid.UUID, photo string) (domain.Trip, error)

	// ClearDefault unsets the default flag on every trip except the given one.
	ClearDefault(ctx context.Context, except uuid.UUID) error

	// Delete removes a trip and, through foreign keys, everything it owns.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAll removes every trip and everything they own.
	DeleteAll(ctx context.Context) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, name, start_date, end_date, cover_photo, is_default, created_at, updated_at`

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (id, name, start_date, end_date, cover_photo, is_default, created_at, updated_at)
		VALUES (
			COALESCE(@id, gen_random_uuid()),
			@name, @start_date, @end_date, @cover_photo, @is_default,
			COALESCE(@created_at, now()),
			COALESCE(@updated_at, now())
		)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":          optionalID(trip.ID),
		"name":        trip.Name,
		"start_date":  trip.StartDate,
		"end_date":    trip.EndDate, // nil becomes NULL
		"cover_photo": trip.CoverPhoto,
		"is_default":  trip.IsDefault,
		"created_at":  optionalTime(trip.CreatedAt),
		"updated_at":  optionalTime(trip.UpdatedAt),
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetDefault(ctx context.Context) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE is_default`

	result, err := scanTrip(r.db.QueryRow(ctx, q))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetDefault: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips ORDER BY start_date DESC, created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}
	return trips, nil
}

func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET name       = @name,
		    start_date = @start_date,
		    end_date   = @end_date,
		    is_default = @is_default,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":         trip.ID,
		"name":       trip.Name,
		"start_date": trip.StartDate,
		"end_date":   trip.EndDate,
		"is_default": trip.IsDefault,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) SetCoverPhoto(ctx context.Context, id uuid.UUID, photo string) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET cover_photo = @cover_photo,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "cover_photo": photo}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.SetCoverPhoto: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) ClearDefault(ctx context.Context, except uuid.UUID) error {
	const q = `UPDATE trips SET is_default = false, updated_at = now() WHERE is_default AND id <> @except`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"except": except}); err != nil {
		return fmt.Errorf("repo.TripRepo.ClearDefault: %w", err)
	}
	return nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTripRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM trips`); err != nil {
		return fmt.Errorf("repo.TripRepo.DeleteAll: %w", err)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		startDate pgtype.Date
		endDate   pgtype.Date
	)

	err := s.Scan(&id, &t.Name, &startDate, &endDate, &t.CoverPhoto, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Trip{}, mapNoRows(err)
	}

	t.ID = uuid.UUID(id.Bytes)
	t.StartDate = startDate.Time
	if endDate.Valid {
		ed := endDate.Time
		t.EndDate = &ed
	}
	return t, nil
}

// mapNoRows translates pgx.ErrNoRows into domain.ErrNotFound.
func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// optionalID turns the zero UUID into NULL so COALESCE picks the default.
func optionalID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}

func optionalTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

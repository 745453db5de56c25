package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/booze-cruise/backend/internal/domain"
)

// DrinkTypeRepo defines the persistence operations for DrinkTypes.
type DrinkTypeRepo interface {
	// Create inserts a drink type. A zero ID or CreatedAt is generated.
	Create(ctx context.Context, dt domain.DrinkType) (domain.DrinkType, error)

	// GetByID returns domain.ErrNotFound if the drink type does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.DrinkType, error)

	// ListByTrip returns a trip's drink types in creation order.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DrinkType, error)

	// List returns every drink type across all trips.
	List(ctx context.Context) ([]domain.DrinkType, error)

	// Update renames a drink type.
	Update(ctx context.Context, dt domain.DrinkType) (domain.DrinkType, error)

	// SetPhoto replaces both photo columns; an empty Photo clears them.
	SetPhoto(ctx context.Context, id uuid.UUID, photo domain.Photo) (domain.DrinkType, error)

	// Delete removes a drink type and its events.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgDrinkTypeRepo struct {
	db db
}

// NewDrinkTypeRepo constructs a DrinkTypeRepo backed by the provided db connection.
func NewDrinkTypeRepo(db db) DrinkTypeRepo {
	return &pgDrinkTypeRepo{db: db}
}

const drinkTypeColumns = `id, trip_id, name, photo, full_photo, created_at`

func (r *pgDrinkTypeRepo) Create(ctx context.Context, dt domain.DrinkType) (domain.DrinkType, error) {
	const q = `
		INSERT INTO drink_types (id, trip_id, name, photo, full_photo, created_at)
		VALUES (COALESCE(@id, gen_random_uuid()), @trip_id, @name, @photo, @full_photo, COALESCE(@created_at, now()))
		RETURNING ` + drinkTypeColumns

	args := pgx.NamedArgs{
		"id":         optionalID(dt.ID),
		"trip_id":    dt.TripID,
		"name":       dt.Name,
		"photo":      dt.Photo,
		"full_photo": dt.FullPhoto,
		"created_at": optionalTime(dt.CreatedAt),
	}

	result, err := scanDrinkType(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.DrinkType{}, fmt.Errorf("repo.DrinkTypeRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgDrinkTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.DrinkType, error) {
	const q = `SELECT ` + drinkTypeColumns + ` FROM drink_types WHERE id = @id`

	result, err := scanDrinkType(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.DrinkType{}, fmt.Errorf("repo.DrinkTypeRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgDrinkTypeRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DrinkType, error) {
	const q = `SELECT ` + drinkTypeColumns + ` FROM drink_types WHERE trip_id = @trip_id ORDER BY created_at, id`

	dts, err := r.list(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DrinkTypeRepo.ListByTrip: %w", err)
	}
	return dts, nil
}

func (r *pgDrinkTypeRepo) List(ctx context.Context) ([]domain.DrinkType, error) {
	const q = `SELECT ` + drinkTypeColumns + ` FROM drink_types ORDER BY created_at, id`

	dts, err := r.list(ctx, q, pgx.NamedArgs{})
	if err != nil {
		return nil, fmt.Errorf("repo.DrinkTypeRepo.List: %w", err)
	}
	return dts, nil
}

func (r *pgDrinkTypeRepo) list(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.DrinkType, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dts := []domain.DrinkType{}
	for rows.Next() {
		dt, err := scanDrinkType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		dts = append(dts, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return dts, nil
}

func (r *pgDrinkTypeRepo) Update(ctx context.Context, dt domain.DrinkType) (domain.DrinkType, error) {
	const q = `UPDATE drink_types SET name = @name WHERE id = @id RETURNING ` + drinkTypeColumns

	result, err := scanDrinkType(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": dt.ID, "name": dt.Name}))
	if err != nil {
		return domain.DrinkType{}, fmt.Errorf("repo.DrinkTypeRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgDrinkTypeRepo) SetPhoto(ctx context.Context, id uuid.UUID, photo domain.Photo) (domain.DrinkType, error) {
	const q = `
		UPDATE drink_types
		SET photo = @photo, full_photo = @full_photo
		WHERE id = @id
		RETURNING ` + drinkTypeColumns

	args := pgx.NamedArgs{"id": id, "photo": photo.Thumb, "full_photo": photo.Full}
	result, err := scanDrinkType(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.DrinkType{}, fmt.Errorf("repo.DrinkTypeRepo.SetPhoto: %w", err)
	}
	return result, nil
}

func (r *pgDrinkTypeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM drink_types WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.DrinkTypeRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DrinkTypeRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanDrinkType(s scanner) (domain.DrinkType, error) {
	var (
		dt     domain.DrinkType
		id     pgtype.UUID
		tripID pgtype.UUID
	)
	if err := s.Scan(&id, &tripID, &dt.Name, &dt.Photo, &dt.FullPhoto, &dt.CreatedAt); err != nil {
		return domain.DrinkType{}, mapNoRows(err)
	}
	dt.ID = uuid.UUID(id.Bytes)
	dt.TripID = uuid.UUID(tripID.Bytes)
	return dt, nil
}

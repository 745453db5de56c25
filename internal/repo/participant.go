package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/booze-cruise/backend/internal/domain"
)

// ParticipantRepo defines the persistence operations for Participants.
type ParticipantRepo interface {
	// Create inserts a participant. A zero ID or CreatedAt is generated.
	Create(ctx context.Context, p domain.Participant) (domain.Participant, error)

	// GetByID returns domain.ErrNotFound if the participant does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error)

	// ListByTrip returns a trip's participants in creation order.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)

	// List returns every participant across all trips.
	List(ctx context.Context) ([]domain.Participant, error)

	// Update renames a participant.
	Update(ctx context.Context, p domain.Participant) (domain.Participant, error)

	// SetPhoto replaces both photo columns; an empty Photo clears them.
	SetPhoto(ctx context.Context, id uuid.UUID, photo domain.Photo) (domain.Participant, error)

	// Delete removes a participant and its events.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgParticipantRepo struct {
	db db
}

// NewParticipantRepo constructs a ParticipantRepo backed by the provided db connection.
func NewParticipantRepo(db db) ParticipantRepo {
	return &pgParticipantRepo{db: db}
}

const participantColumns = `id, trip_id, name, photo, full_photo, created_at`

func (r *pgParticipantRepo) Create(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	const q = `
		INSERT INTO participants (id, trip_id, name, photo, full_photo, created_at)
		VALUES (COALESCE(@id, gen_random_uuid()), @trip_id, @name, @photo, @full_photo, COALESCE(@created_at, now()))
		RETURNING ` + participantColumns

	args := pgx.NamedArgs{
		"id":         optionalID(p.ID),
		"trip_id":    p.TripID,
		"name":       p.Name,
		"photo":      p.Photo,
		"full_photo": p.FullPhoto,
		"created_at": optionalTime(p.CreatedAt),
	}

	result, err := scanParticipant(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("repo.ParticipantRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgParticipantRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	const q = `SELECT ` + participantColumns + ` FROM participants WHERE id = @id`

	result, err := scanParticipant(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("repo.ParticipantRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgParticipantRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	const q = `SELECT ` + participantColumns + ` FROM participants WHERE trip_id = @trip_id ORDER BY created_at, id`

	ps, err := r.list(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ParticipantRepo.ListByTrip: %w", err)
	}
	return ps, nil
}

func (r *pgParticipantRepo) List(ctx context.Context) ([]domain.Participant, error) {
	const q = `SELECT ` + participantColumns + ` FROM participants ORDER BY created_at, id`

	ps, err := r.list(ctx, q, pgx.NamedArgs{})
	if err != nil {
		return nil, fmt.Errorf("repo.ParticipantRepo.List: %w", err)
	}
	return ps, nil
}

func (r *pgParticipantRepo) list(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Participant, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ps := []domain.Participant{}
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return ps, nil
}

func (r *pgParticipantRepo) Update(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	const q = `UPDATE participants SET name = @name WHERE id = @id RETURNING ` + participantColumns

	result, err := scanParticipant(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": p.ID, "name": p.Name}))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("repo.ParticipantRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgParticipantRepo) SetPhoto(ctx context.Context, id uuid.UUID, photo domain.Photo) (domain.Participant, error) {
	const q = `
		UPDATE participants
		SET photo = @photo, full_photo = @full_photo
		WHERE id = @id
		RETURNING ` + participantColumns

	args := pgx.NamedArgs{"id": id, "photo": photo.Thumb, "full_photo": photo.Full}
	result, err := scanParticipant(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("repo.ParticipantRepo.SetPhoto: %w", err)
	}
	return result, nil
}

func (r *pgParticipantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM participants WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ParticipantRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ParticipantRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanParticipant(s scanner) (domain.Participant, error) {
	var (
		p      domain.Participant
		id     pgtype.UUID
		tripID pgtype.UUID
	)
	if err := s.Scan(&id, &tripID, &p.Name, &p.Photo, &p.FullPhoto, &p.CreatedAt); err != nil {
		return domain.Participant{}, mapNoRows(err)
	}
	p.ID = uuid.UUID(id.Bytes)
	p.TripID = uuid.UUID(tripID.Bytes)
	return p, nil
}

package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Repos bundles one repository per table, all bound to the same connection
// or transaction.
type Repos struct {
	Trips        TripRepo
	Participants ParticipantRepo
	DrinkTypes   DrinkTypeRepo
	Events       DrinkEventRepo
}

// NewRepos binds every repository to db.
func NewRepos(db db) Repos {
	return Repos{
		Trips:        NewTripRepo(db),
		Participants: NewParticipantRepo(db),
		DrinkTypes:   NewDrinkTypeRepo(db),
		Events:       NewDrinkEventRepo(db),
	}
}

// TxRunner runs a unit of work atomically. fn receives repositories bound to
// the transaction; returning an error rolls everything back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(Repos) error) error

	// ReadSnapshot runs fn in a read-only transaction in which every query
	// sees the same snapshot of the database.
	ReadSnapshot(ctx context.Context, fn func(Repos) error) error
}

// beginner is satisfied by *pgxpool.Pool and pgx.Tx (which opens a savepoint).
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// txBeginner is satisfied by *pgxpool.Pool but not by pgx.Tx, whose nested
// work already shares the outer transaction's snapshot.
type txBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

var snapshotOptions = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

type pgTxRunner struct {
	db beginner
}

// NewTxRunner constructs a TxRunner. In tests pass a pgx.Tx so the work is
// nested in a savepoint and still rolled back with the test.
func NewTxRunner(db beginner) TxRunner {
	return &pgTxRunner{db: db}
}

func (r *pgTxRunner) InTx(ctx context.Context, fn func(Repos) error) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return fn(NewRepos(tx))
	})
	if err != nil {
		return fmt.Errorf("repo.InTx: %w", err)
	}
	return nil
}

func (r *pgTxRunner) ReadSnapshot(ctx context.Context, fn func(Repos) error) error {
	run := func(tx pgx.Tx) error { return fn(NewRepos(tx)) }

	var err error
	if b, ok := r.db.(txBeginner); ok {
		err = pgx.BeginTxFunc(ctx, b, snapshotOptions, run)
	} else {
		err = pgx.BeginFunc(ctx, r.db, run)
	}
	if err != nil {
		return fmt.Errorf("repo.ReadSnapshot: %w", err)
	}
	return nil
}

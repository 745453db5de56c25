package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/booze-cruise/backend/internal/domain"
	"github.com/pkordes/booze-cruise/backend/internal/repo"
	"github.com/pkordes/booze-cruise/backend/testutil"
)

// newTestTx opens a transaction against the test database that is rolled
// back when the test finishes, giving free per-test isolation.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	return testutil.NewTx(t)
}

// newTestRepos returns every repository bound to a rolled-back transaction.
func newTestRepos(t *testing.T) (repo.Repos, pgx.Tx) {
	t.Helper()
	tx := newTestTx(t)
	return repo.NewRepos(tx), tx
}

// tripFixture returns a domain.Trip with sensible defaults for use in tests.
// Callers can override individual fields after calling this function.
func tripFixture() domain.Trip {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	return domain.Trip{
		Name:      "Summer Cruise",
		StartDate: start,
		EndDate:   &end,
	}
}

// seedTrip creates a trip with one participant and one drink type.
func seedTrip(t *testing.T, r repo.Repos) (domain.Trip, domain.Participant, domain.DrinkType) {
	t.Helper()
	ctx := context.Background()

	trip, err := r.Trips.Create(ctx, tripFixture())
	require.NoError(t, err)
	p, err := r.Participants.Create(ctx, domain.Participant{TripID: trip.ID, Name: "Alice"})
	require.NoError(t, err)
	dt, err := r.DrinkTypes.Create(ctx, domain.DrinkType{TripID: trip.ID, Name: "Beer", Photo: "🍺"})
	require.NoError(t, err)
	return trip, p, dt
}

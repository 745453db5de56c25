package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/booze-cruise/backend/internal/analytics"
	"github.com/pkordes/booze-cruise/backend/internal/cache"
	"github.com/pkordes/booze-cruise/backend/internal/domain"
	"github.com/pkordes/booze-cruise/backend/internal/highlights"
	"github.com/pkordes/booze-cruise/backend/internal/repo"
)

// Renderer draws a highlights image. *highlights.Renderer satisfies it.
type Renderer interface {
	Render(ctx context.Context, in highlights.Input, rng *rand.Rand) (highlights.Output, error)
}

// HighlightsOptions tunes a single Generate call.
type HighlightsOptions struct {
	// Regenerate skips the cache and, unless Seed is set, picks a fresh layout.
	Regenerate bool
	// Seed fixes the collage layout.
	Seed *uint64
}

// Highlights is a rendered (or cached) image ready to download.
type Highlights struct {
	PNG          []byte
	Filename     string
	Cached       bool
	FailedPhotos int
}

// HighlightsService renders highlights images, one at a time process-wide,
// and caches the results keyed by a fingerprint of their inputs.
type HighlightsService struct {
	repos    repo.Repos
	renderer Renderer
	cache    cache.Cache
	ttl      time.Duration
	logger   *slog.Logger
	slot     chan struct{}
	now      func() time.Time
}

// NewHighlightsService constructs a HighlightsService. c may be cache.Noop{}.
func NewHighlightsService(r repo.Repos, renderer Renderer, c cache.Cache, ttl time.Duration, logger *slog.Logger) *HighlightsService {
	return &HighlightsService{
		repos:    r,
		renderer: renderer,
		cache:    c,
		ttl:      ttl,
		logger:   logger,
		slot:     make(chan struct{}, 1),
		now:      time.Now,
	}
}

// Generate returns the highlights image for the trip's events matching f.
// It returns domain.ErrNoData when no event matches and domain.ErrConflict
// while another render is in flight.
func (s *HighlightsService) Generate(ctx context.Context, tripID uuid.UUID, f analytics.Filter, opts HighlightsOptions) (Highlights, error) {
	if err := ValidateFilter(f); err != nil {
		return Highlights{}, fmt.Errorf("service.HighlightsService.Generate: %w", err)
	}
	d, err := loadTrip(ctx, s.repos, tripID)
	if err != nil {
		return Highlights{}, fmt.Errorf("service.HighlightsService.Generate: %w", err)
	}
	events := analytics.FilterEvents(d.events, f)
	if len(events) == 0 {
		return Highlights{}, fmt.Errorf("service.HighlightsService.Generate: %w", domain.ErrNoData)
	}

	fp := fingerprint(d, f, events, opts.Seed)
	key := fmt.Sprintf("highlights:%s:%016x", tripID, fp)
	filename := highlights.Filename(d.trip.Name)

	if !opts.Regenerate {
		png, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("highlights cache read failed", "key", key, "error", err)
		}
		if ok {
			return Highlights{PNG: png, Filename: filename, Cached: true}, nil
		}
	}

	select {
	case s.slot <- struct{}{}:
		defer func() { <-s.slot }()
	default:
		return Highlights{}, fmt.Errorf("service.HighlightsService.Generate: render in progress: %w", domain.ErrConflict)
	}

	seed := fp
	switch {
	case opts.Seed != nil:
		seed = *opts.Seed
	case opts.Regenerate:
		seed = uint64(s.now().UnixNano())
	}

	start := s.now()
	out, err := s.renderer.Render(ctx, highlights.Input{
		Trip:         d.trip,
		Participants: d.participants,
		DrinkTypes:   d.drinkTypes,
		Events:       events,
		FilterLabel:  analytics.DescribeFilter(f, d.participants),
	}, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
	if err != nil {
		return Highlights{}, fmt.Errorf("service.HighlightsService.Generate: %w", err)
	}
	s.logger.Info("highlights rendered",
		"trip_id", tripID,
		"events", len(events),
		"photos", out.PhotoCount,
		"failed_photos", out.FailedPhotos,
		"coverage", out.Collage.CoveragePercent,
		"height", out.Height,
		"duration_ms", s.now().Sub(start).Milliseconds(),
	)

	if err := s.cache.Set(ctx, key, out.PNG, s.ttl); err != nil {
		s.logger.Warn("highlights cache write failed", "key", key, "error", err)
	}
	return Highlights{PNG: out.PNG, Filename: out.Filename, FailedPhotos: out.FailedPhotos}, nil
}

// fingerprint hashes every input that affects the rendered image, so any
// change to the trip's data yields a different cache key.
func fingerprint(d tripData, f analytics.Filter, events []domain.DrinkEvent, seed *uint64) uint64 {
	h := fnv.New64a()
	t := d.trip
	fmt.Fprintf(h, "trip|%s|%s|%s|%s|", t.ID, t.Name, t.StartDate.Format(domain.DateLayout), t.CoverPhoto)
	if t.EndDate != nil {
		io.WriteString(h, t.EndDate.Format(domain.DateLayout))
	}
	io.WriteString(h, "\nfilter|")
	if f.Start != nil {
		io.WriteString(h, *f.Start)
	}
	io.WriteString(h, "|")
	if f.End != nil {
		io.WriteString(h, *f.End)
	}
	io.WriteString(h, "|")
	if f.ParticipantID != nil {
		io.WriteString(h, f.ParticipantID.String())
	}
	if seed != nil {
		fmt.Fprintf(h, "\nseed|%d", *seed)
	}
	for _, p := range d.participants {
		fmt.Fprintf(h, "\np|%s|%s|%s|%s", p.ID, p.Name, p.Photo, p.FullPhoto)
	}
	for _, dt := range d.drinkTypes {
		fmt.Fprintf(h, "\nd|%s|%s|%s|%s", dt.ID, dt.Name, dt.Photo, dt.FullPhoto)
	}
	for _, e := range events {
		fmt.Fprintf(h, "\ne|%s|%s|%s|%d|%s|%s", e.ID, e.ParticipantID, e.DrinkTypeID, e.Timestamp.UnixNano(), e.Photo, e.FullPhoto)
	}
	return h.Sum64()
}

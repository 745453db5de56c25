package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/booze-cruise/backend/internal/analytics"
	"github.com/pkordes/booze-cruise/backend/internal/domain"
	"github.com/pkordes/booze-cruise/backend/internal/handler"
	"github.com/pkordes/booze-cruise/backend/internal/service"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestGetAnalytics_200(t *testing.T) {
	tripID := uuid.New()
	svc := &mockAnalyticsServicer{
		report: func(_ context.Context, id uuid.UUID, f analytics.Filter) (analytics.Report, error) {
			assert.Equal(t, tripID, id)
			require.NotNil(t, f.Start)
			assert.Equal(t, "2025-06-02", *f.Start)
			return analytics.Report{
				Stats:    analytics.Stats{TotalEvents: 7, UniqueParticipants: 2, UniqueDrinkTypes: 3, UniqueDays: 2},
				DaysSpan: 2,
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trips/"+tripID.String()+"/analytics?start=2025-06-02", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(handler.Services{Analytics: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp analytics.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 7, resp.Stats.TotalEvents)
	assert.Equal(t, 2, resp.DaysSpan)
}

func TestGetAnalytics_404(t *testing.T) {
	svc := &mockAnalyticsServicer{
		report: func(_ context.Context, _ uuid.UUID, _ analytics.Filter) (analytics.Report, error) {
			return analytics.Report{}, domain.ErrNotFound
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trips/"+uuid.NewString()+"/analytics", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(handler.Services{Analytics: svc}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetHighlights_PNGAttachment(t *testing.T) {
	tripID := uuid.New()
	svc := &mockHighlightsServicer{
		generate: func(_ context.Context, id uuid.UUID, f analytics.Filter, opts service.HighlightsOptions) (service.Highlights, error) {
			assert.Equal(t, tripID, id)
			assert.True(t, f.IsZero())
			assert.False(t, opts.Regenerate)
			assert.Nil(t, opts.Seed)
			return service.Highlights{
				PNG:          append(append([]byte{}, pngMagic...), 1, 2, 3),
				Filename:     "caribbean-cruise-highlights.png",
				Cached:       true,
				FailedPhotos: 2,
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trips/"+tripID.String()+"/highlights", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(handler.Services{Highlights: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="caribbean-cruise-highlights.png"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "true", rec.Header().Get("X-Highlights-Cached"))
	assert.Equal(t, "2", rec.Header().Get("X-Highlights-Failed-Photos"))
	assert.Equal(t, pngMagic, rec.Body.Bytes()[:len(pngMagic)])
}

func TestGetHighlights_BindsRegenerateAndSeed(t *testing.T) {
	svc := &mockHighlightsServicer{
		generate: func(_ context.Context, _ uuid.UUID, _ analytics.Filter, opts service.HighlightsOptions) (service.Highlights, error) {
			assert.True(t, opts.Regenerate)
			require.NotNil(t, opts.Seed)
			assert.Equal(t, uint64(42), *opts.Seed)
			return service.Highlights{PNG: pngMagic, Filename: "x.png"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trips/"+uuid.NewString()+"/highlights?regenerate=true&seed=42", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(handler.Services{Highlights: svc}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Highlights-Failed-Photos"))
}

func TestGetHighlights_400_NegativeSeed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/trips/"+uuid.NewString()+"/highlights?seed=-1", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(handler.Services{Highlights: &mockHighlightsServicer{}}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetHighlights_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"no data", domain.ErrNoData, http.StatusUnprocessableEntity, "no_data"},
		{"busy", domain.ErrConflict, http.StatusConflict, "conflict"},
		{"unknown trip", domain.ErrNotFound, http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockHighlightsServicer{
				generate: func(_ context.Context, _ uuid.UUID, _ analytics.Filter, _ service.HighlightsOptions) (service.Highlights, error) {
					return service.Highlights{}, tt.err
				},
			}

			req := httptest.NewRequest(http.MethodGet, "/trips/"+uuid.NewString()+"/highlights", nil)
			rec := httptest.NewRecorder()

			newHTTPHandler(handler.Services{Highlights: svc}).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, decodeError(t, rec.Body).Code)
		})
	}
}

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/booze-cruise/backend/internal/service"
)

// GetHighlights handles GET /trips/{tripID}/highlights.
// It responds with the PNG as an attachment. ?regenerate=true bypasses the
// cache and ?seed= pins the collage layout; the event filters are those of
// ListEvents.
func (s *Server) GetHighlights(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		invalidParam(w, err)
		return
	}
	f, err := eventFilter(r)
	if err != nil {
		invalidParam(w, err)
		return
	}
	opts, err := highlightsOptions(r)
	if err != nil {
		invalidParam(w, err)
		return
	}

	out, err := s.highlights.Generate(r.Context(), tripID, f, opts)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "image/png")
	h.Set("Content-Length", strconv.Itoa(len(out.PNG)))
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	h.Set("X-Highlights-Cached", strconv.FormatBool(out.Cached))
	if out.FailedPhotos > 0 {
		h.Set("X-Highlights-Failed-Photos", strconv.Itoa(out.FailedPhotos))
	}
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(out.PNG)
}

func highlightsOptions(r *http.Request) (service.HighlightsOptions, error) {
	var (
		regenerate *bool
		seed       *int64
		opts       service.HighlightsOptions
	)
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "regenerate", q, &regenerate); err != nil {
		return opts, fmt.Errorf("invalid format for parameter regenerate: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "seed", q, &seed); err != nil {
		return opts, fmt.Errorf("invalid format for parameter seed: %w", err)
	}

	if regenerate != nil {
		opts.Regenerate = *regenerate
	}
	if seed != nil {
		if *seed < 0 {
			return opts, errors.New("invalid format for parameter seed: must not be negative")
		}
		v := uint64(*seed)
		opts.Seed = &v
	}
	return opts, nil
}

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/booze-cruise/backend/internal/analytics"
	"github.com/pkordes/booze-cruise/backend/internal/domain"
	"github.com/pkordes/booze-cruise/backend/internal/photo"
)

// errBodyTooLarge is returned by decodeJSON when MaxBodySize cut the body off.
var errBodyTooLarge = errors.New("request body too large")

// pathID binds a UUID path parameter the same way generated wrappers do.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return id, nil
}

// tripAndID binds {tripID} and {id} together.
func tripAndID(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := pathID(r, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return tripID, id, nil
}

// pagination reads ?page= and ?limit=.
func pagination(r *http.Request) (domain.PaginationParams, error) {
	var page, limit *int
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		return domain.PaginationParams{}, fmt.Errorf("invalid format for parameter page: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		return domain.PaginationParams{}, fmt.Errorf("invalid format for parameter limit: %w", err)
	}
	return domain.NewPaginationParams(page, limit), nil
}

// eventFilter reads ?start=, ?end= and ?participant_id=.
func eventFilter(r *http.Request) (analytics.Filter, error) {
	var (
		start, end    *openapi_types.Date
		participantID *openapi_types.UUID
		f             analytics.Filter
	)
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "start", q, &start); err != nil {
		return f, fmt.Errorf("invalid format for parameter start: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "end", q, &end); err != nil {
		return f, fmt.Errorf("invalid format for parameter end: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "participant_id", q, &participantID); err != nil {
		return f, fmt.Errorf("invalid format for parameter participant_id: %w", err)
	}

	if start != nil {
		s := start.Format(domain.DateLayout)
		f.Start = &s
	}
	if end != nil {
		e := end.Format(domain.DateLayout)
		f.End = &e
	}
	if participantID != nil {
		id := *participantID
		f.ParticipantID = &id
	}
	return f, nil
}

// decodeJSON reads a required JSON body into dst.
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &tooLarge):
		return errBodyTooLarge
	case errors.Is(err, io.EOF):
		return errors.New("request body is required")
	default:
		return fmt.Errorf("malformed JSON body: %w", err)
	}
}

// writeDecodeError reports a body that never reached the service layer.
func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", err.Error())
		return
	}
	badRequest(w, err.Error())
}

// glyphRequest sets a photo field to a short symbol instead of an image.
type glyphRequest struct {
	Glyph string `json:"glyph"`
}

// readPhoto accepts either a multipart upload in the "photo" field or a JSON
// {"glyph": "..."} body. The returned error is ready for writeServiceError.
func readPhoto(r *http.Request) (domain.Photo, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(photo.MaxUploadBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return domain.Photo{}, errBodyTooLarge
			}
			return domain.Photo{}, fmt.Errorf("%w: malformed multipart body", domain.ErrValidation)
		}
		file, hdr, err := r.FormFile("photo")
		if err != nil {
			return domain.Photo{}, fmt.Errorf("%w: multipart field \"photo\" is required", domain.ErrValidation)
		}
		defer file.Close()
		return photo.Process(file, hdr.Header.Get("Content-Type"), hdr.Size)
	}

	var body glyphRequest
	if err := decodeJSON(r, &body); err != nil {
		if errors.Is(err, errBodyTooLarge) {
			return domain.Photo{}, err
		}
		return domain.Photo{}, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	glyph := strings.TrimSpace(body.Glyph)
	if !photo.IsGlyph(glyph) {
		return domain.Photo{}, fmt.Errorf("%w: glyph must be a short symbol", domain.ErrValidation)
	}
	return domain.Photo{Thumb: glyph}, nil
}

// writePhotoError handles the two error shapes readPhoto produces.
func (s *Server) writePhotoError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errBodyTooLarge) {
		writeDecodeError(w, err)
		return
	}
	s.writeServiceError(w, r, err, "")
}

package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/booze-cruise/backend/internal/domain"
)

const eventNotFound = "drink event not found"

// EventRequest is the body of POST /trips/{tripID}/events.
// Timestamp defaults to the time the request is handled.
type EventRequest struct {
	ParticipantID openapi_types.UUID `json:"participant_id"`
	DrinkTypeID   openapi_types.UUID `json:"drink_type_id"`
	Timestamp     *time.Time         `json:"timestamp,omitempty"`
	Photo         string             `json:"photo,omitempty"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// EventPage is the body of GET /trips/{tripID}/events.
type EventPage struct {
	Data       []domain.DrinkEvent `json:"data"`
	Pagination Pagination          `json:"pagination"`
}

// ListEvents handles GET /trips/{tripID}/events.
// Supports ?page= and ?limit= (defaults: page=1, limit=20, max=100) plus the
// ?start=, ?end= and ?participant_id= filters. Newest events come first.
func (s *Server) ListEvents(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		invalidParam(w, err)
		return
	}
	params, err := pagination(r)
	if err != nil {
		invalidParam(w, err)
		return
	}
	f, err := eventFilter(r)
	if err != nil {
		invalidParam(w, err)
		return
	}

	page, err := s.events.ListPaged(r.Context(), tripID, f, params)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, EventPage{
		Data: page.Items,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: page.Total,
		},
	})
}

// CreateEvent handles POST /trips/{tripID}/events.
func (s *Server) CreateEvent(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		invalidParam(w, err)
		return
	}
	var body EventRequest
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}

	e := domain.DrinkEvent{
		TripID:        tripID,
		ParticipantID: body.ParticipantID,
		DrinkTypeID:   body.DrinkTypeID,
		Photo:         body.Photo,
	}
	if body.Timestamp != nil {
		e.Timestamp = *body.Timestamp
	}

	created, err := s.events.Create(r.Context(), e)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetEvent handles GET /trips/{tripID}/events/{id}.
func (s *Server) GetEvent(w http.ResponseWriter, r *http.Request) {
	tripID, id, err := tripAndID(r)
	if err != nil {
		invalidParam(w, err)
		return
	}

	e, err := s.events.GetByID(r.Context(), tripID, id)
	if err != nil {
		s.writeServiceError(w, r, err, eventNotFound)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DeleteEvent handles DELETE /trips/{tripID}/events/{id}.
func (s *Server) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	tripID, id, err := tripAndID(r)
	if err != nil {
		invalidParam(w, err)
		return
	}

	if err := s.events.Delete(r.Context(), tripID, id); err != nil {
		s.writeServiceError(w, r, err, eventNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PutEventPhoto handles PUT /trips/{tripID}/events/{id}/photo.
func (s *Server) PutEventPhoto(w http.ResponseWriter, r *http.Request) {
	tripID, id, err := tripAndID(r)
	if err != nil {
		invalidParam(w, err)
		return
	}
	ph, err := readPhoto(r)
	if err != nil {
		s.writePhotoError(w, r, err)
		return
	}

	e, err := s.events.AttachPhoto(r.Context(), tripID, id, ph)
	if err != nil {
		s.writeServiceError(w, r, err, eventNotFound)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DeleteEventPhoto handles DELETE /trips/{tripID}/events/{id}/photo.
func (s *Server) DeleteEventPhoto(w http.ResponseWriter, r *http.Request) {
	tripID, id, err := tripAndID(r)
	if err != nil {
		invalidParam(w, err)
		return
	}

	e, err := s.events.DetachPhoto(r.Context(), tripID, id)
	if err != nil {
		s.writeServiceError(w, r, err, eventNotFound)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

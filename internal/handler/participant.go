package handler

import (
	"net/http"

	"github.com/pkordes/booze-cruise/backend/internal/domain"
)

const participantNotFound = "participant not found"

// ParticipantRequest is the body of POST and PUT on participants.
// Photo accepts a glyph only; images go through the photo endpoint.
type ParticipantRequest struct {
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
}

// ListParticipants handles GET /trips/{tripID}/participants.
func (s *Server) ListParticipants(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		invalidParam(w, err)
		return
	}

	list, err := s.participants.ListByTrip(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateParticipant handles POST /trips/{tripID}/participants.
func (s *Server) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		invalidParam(w, err)
		return
	}
	var body ParticipantRequest
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}

	created, err := s.participants.Create(r.Context(), domain.Participant{
		TripID: tripID,
		Name:   body.Name,
		Photo:  body.Photo,
	})
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetParticipant handles GET /trips/{tripID}/participants/{id}.
func (s *Server) GetParticipant(w http.ResponseWriter, r *http.Request) {
	tripID, id, err := tripAndID(r)
	if err != nil {
		invalidParam(w, err)
		return
	}

	p, err := s.participants.GetByID(r.Context(), tripID, id)
	if err != nil {
		s.writeServiceError(w, r, err, participantNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateParticipant handles PUT /trips/{tripID}/participants/{id}.
// Only the name changes; photos have their own endpoint.
func (s *Server) UpdateParticipant(w http.ResponseWriter, r *http.Request) {
	tripID, id, err := tripAndID(r)
	if err != nil {
		invalidParam(w, err)
		return
	}
	var body ParticipantRequest
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}

	updated, err := s.participants.Update(r.Context(), domain.Participant{ID: id, TripID: tripID, Name: body.Name})
	if err != nil {
		s.writeServiceError(w, r, err, participantNotFound)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteParticipant handles DELETE /trips/{tripID}/participants/{id}.
// The participant's drink events are removed with it.
func (s *Server) DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	tripID, id, err := tripAndID(r)
	if err != nil {
		invalidParam(w, err)
		return
	}

	if err := s.participants.Delete(r.Context(), tripID, id); err != nil {
		s.writeServiceError(w, r, err, participantNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PutParticipantPhoto handles PUT /trips/{tripID}/participants/{id}/photo.
func (s *Server) PutParticipantPhoto(w http.ResponseWriter, r *http.Request) {
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

	p, err := s.participants.SetPhoto(r.Context(), tripID, id, ph)
	if err != nil {
		s.writeServiceError(w, r, err, participantNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteParticipantPhoto handles DELETE /trips/{tripID}/participants/{id}/photo.
func (s *Server) DeleteParticipantPhoto(w http.ResponseWriter, r *http.Request) {
	tripID, id, err := tripAndID(r)
	if err != nil {
		invalidParam(w, err)
		return
	}

	p, err := s.participants.SetPhoto(r.Context(), tripID, id, domain.Photo{})
	if err != nil {
		s.writeServiceError(w, r, err, participantNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

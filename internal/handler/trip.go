package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/booze-cruise/backend/internal/domain"
)

const tripNotFound = "trip not found"

// TripRequest is the body of POST /trips and PUT /trips/{tripID}.
type TripRequest struct {
	Name      string              `json:"name"`
	StartDate openapi_types.Date  `json:"start_date"`
	EndDate   *openapi_types.Date `json:"end_date,omitempty"`
	IsDefault *bool               `json:"is_default,omitempty"`
}

// Trip is the wire form of domain.Trip.
type Trip struct {
	ID         openapi_types.UUID  `json:"id"`
	Name       string              `json:"name"`
	StartDate  openapi_types.Date  `json:"start_date"`
	EndDate    *openapi_types.Date `json:"end_date,omitempty"`
	CoverPhoto string              `json:"cover_photo,omitempty"`
	IsDefault  bool                `json:"is_default"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}

	created, err := s.trips.Create(r.Context(), requestToTrip(uuid.Nil, body))
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, data)
}

// GetCurrentTrip handles GET /trips/current. It never returns 404: when no
// trip exists a starter trip is created.
func (s *Server) GetCurrentTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.Current(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "tripID")
	if err != nil {
		invalidParam(w, err)
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{tripID}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "tripID")
	if err != nil {
		invalidParam(w, err)
		return
	}
	var body TripRequest
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}

	updated, err := s.trips.Update(r.Context(), requestToTrip(id, body))
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{tripID}. Participants, drink types and
// events go with it.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "tripID")
	if err != nil {
		invalidParam(w, err)
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetDefaultTrip handles PUT /trips/{tripID}/default.
func (s *Server) SetDefaultTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "tripID")
	if err != nil {
		invalidParam(w, err)
		return
	}

	trip, err := s.trips.SetDefault(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// PutTripCover handles PUT /trips/{tripID}/cover. The full-size image is
// kept because the cover is shown large.
func (s *Server) PutTripCover(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "tripID")
	if err != nil {
		invalidParam(w, err)
		return
	}
	ph, err := readPhoto(r)
	if err != nil {
		s.writePhotoError(w, r, err)
		return
	}

	cover := ph.Full
	if cover == "" {
		cover = ph.Thumb
	}
	trip, err := s.trips.SetCoverPhoto(r.Context(), id, cover)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// DeleteTripCover handles DELETE /trips/{tripID}/cover.
func (s *Server) DeleteTripCover(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "tripID")
	if err != nil {
		invalidParam(w, err)
		return
	}

	trip, err := s.trips.SetCoverPhoto(r.Context(), id, "")
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// --- mapping helpers --------------------------------------------------------

// requestToTrip builds a domain.Trip from a request body. id is uuid.Nil on create.
func requestToTrip(id uuid.UUID, body TripRequest) domain.Trip {
	t := domain.Trip{
		ID:        id,
		Name:      body.Name,
		StartDate: body.StartDate.Time,
	}
	if body.EndDate != nil {
		ed := body.EndDate.Time
		t.EndDate = &ed
	}
	if body.IsDefault != nil {
		t.IsDefault = *body.IsDefault
	}
	return t
}

// tripToResponse converts a domain.Trip into its wire form.
func tripToResponse(t domain.Trip) Trip {
	resp := Trip{
		ID:         t.ID,
		Name:       t.Name,
		StartDate:  openapi_types.Date{Time: t.StartDate},
		CoverPhoto: t.CoverPhoto,
		IsDefault:  t.IsDefault,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
	if t.EndDate != nil {
		ed := openapi_types.Date{Time: *t.EndDate}
		resp.EndDate = &ed
	}
	return resp
}

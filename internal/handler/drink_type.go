package handler

import (
	"net/http"

	"github.com/pkordes/booze-cruise/backend/internal/domain"
)

const drinkTypeNotFound = "drink type not found"

// DrinkTypeRequest is the body of POST and PUT on drink types.
// Photo accepts a glyph only; images go through the photo endpoint.
type DrinkTypeRequest struct {
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
}

// ListDrinkTypes handles GET /trips/{tripID}/drink-types.
func (s *Server) ListDrinkTypes(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		invalidParam(w, err)
		return
	}

	list, err := s.drinkTypes.ListByTrip(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateDrinkType handles POST /trips/{tripID}/drink-types.
func (s *Server) CreateDrinkType(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		invalidParam(w, err)
		return
	}
	var body DrinkTypeRequest
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}

	created, err := s.drinkTypes.Create(r.Context(), domain.DrinkType{
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

// GetDrinkType handles GET /trips/{tripID}/drink-types/{id}.
func (s *Server) GetDrinkType(w http.ResponseWriter, r *http.Request) {
	tripID, id, err := tripAndID(r)
	if err != nil {
		invalidParam(w, err)
		return
	}

	dt, err := s.drinkTypes.GetByID(r.Context(), tripID, id)
	if err != nil {
		s.writeServiceError(w, r, err, drinkTypeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, dt)
}

// UpdateDrinkType handles PUT /trips/{tripID}/drink-types/{id}.
// Only the name changes; photos have their own endpoint.
func (s *Server) UpdateDrinkType(w http.ResponseWriter, r *http.Request) {
	tripID, id, err := tripAndID(r)
	if err != nil {
		invalidParam(w, err)
		return
	}
	var body DrinkTypeRequest
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}

	updated, err := s.drinkTypes.Update(r.Context(), domain.DrinkType{ID: id, TripID: tripID, Name: body.Name})
	if err != nil {
		s.writeServiceError(w, r, err, drinkTypeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteDrinkType handles DELETE /trips/{tripID}/drink-types/{id}.
// Events of this drink type are removed with it.
func (s *Server) DeleteDrinkType(w http.ResponseWriter, r *http.Request) {
	tripID, id, err := tripAndID(r)
	if err != nil {
		invalidParam(w, err)
		return
	}

	if err := s.drinkTypes.Delete(r.Context(), tripID, id); err != nil {
		s.writeServiceError(w, r, err, drinkTypeNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PutDrinkTypePhoto handles PUT /trips/{tripID}/drink-types/{id}/photo.
func (s *Server) PutDrinkTypePhoto(w http.ResponseWriter, r *http.Request) {
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

	dt, err := s.drinkTypes.SetPhoto(r.Context(), tripID, id, ph)
	if err != nil {
		s.writeServiceError(w, r, err, drinkTypeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, dt)
}

// DeleteDrinkTypePhoto handles DELETE /trips/{tripID}/drink-types/{id}/photo.
func (s *Server) DeleteDrinkTypePhoto(w http.ResponseWriter, r *http.Request) {
	tripID, id, err := tripAndID(r)
	if err != nil {
		invalidParam(w, err)
		return
	}

	dt, err := s.drinkTypes.SetPhoto(r.Context(), tripID, id, domain.Photo{})
	if err != nil {
		s.writeServiceError(w, r, err, drinkTypeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, dt)
}

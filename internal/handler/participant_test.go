package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/booze-cruise/backend/internal/domain"
	"github.com/pkordes/booze-cruise/backend/internal/handler"
)

func participantFixture(tripID uuid.UUID) domain.Participant {
	return domain.Participant{
		ID:        uuid.New(),
		TripID:    tripID,
		Name:      "Alice",
		Photo:     "🦜",
		CreatedAt: time.Now().UTC(),
	}
}

func participantsURL(tripID uuid.UUID, rest ...string) string {
	return "/trips/" + tripID.String() + "/participants" + strings.Join(rest, "")
}

func TestCreateParticipant_201(t *testing.T) {
	tripID := uuid.New()
	fixture := participantFixture(tripID)
	svc := &mockParticipantServicer{
		create: func(_ context.Context, p domain.Participant) (domain.Participant, error) {
			assert.Equal(t, tripID, p.TripID)
			assert.Equal(t, "Alice", p.Name)
			assert.Equal(t, "🦜", p.Photo)
			return fixture, nil
		},
	}

	body := jsonBody(t, map[string]string{"name": "Alice", "photo": "🦜"})
	req := httptest.NewRequest(http.MethodPost, participantsURL(tripID), body)
	rec := httptest.NewRecorder()

	newHTTPHandler(handler.Services{Participants: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp domain.Participant
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID, resp.ID)
}

func TestCreateParticipant_404_UnknownTrip(t *testing.T) {
	svc := &mockParticipantServicer{
		create: func(_ context.Context, _ domain.Participant) (domain.Participant, error) {
			return domain.Participant{}, domain.ErrNotFound
		},
	}

	body := jsonBody(t, map[string]string{"name": "Alice"})
	req := httptest.NewRequest(http.MethodPost, participantsURL(uuid.New()), body)
	rec := httptest.NewRecorder()

	newHTTPHandler(handler.Services{Participants: svc}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "trip not found", decodeError(t, rec.Body).Message)
}

func TestListParticipants_200(t *testing.T) {
	tripID := uuid.New()
	svc := &mockParticipantServicer{
		listByTrip: func(_ context.Context, id uuid.UUID) ([]domain.Participant, error) {
			assert.Equal(t, tripID, id)
			return []domain.Participant{participantFixture(tripID), participantFixture(tripID)}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, participantsURL(tripID), nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(handler.Services{Participants: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []domain.Participant
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 2)
}

func TestGetParticipant_404(t *testing.T) {
	svc := &mockParticipantServicer{
		getByID: func(_ context.Context, _, _ uuid.UUID) (domain.Participant, error) {
			return domain.Participant{}, domain.ErrNotFound
		},
	}

	req := httptest.NewRequest(http.MethodGet, participantsURL(uuid.New(), "/", uuid.NewString()), nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(handler.Services{Participants: svc}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "participant not found", decodeError(t, rec.Body).Message)
}

func TestUpdateParticipant_NameOnly(t *testing.T) {
	tripID := uuid.New()
	fixture := participantFixture(tripID)
	svc := &mockParticipantServicer{
		update: func(_ context.Context, p domain.Participant) (domain.Participant, error) {
			assert.Equal(t, fixture.ID, p.ID)
			assert.Equal(t, tripID, p.TripID)
			assert.Equal(t, "Alicia", p.Name)
			assert.Empty(t, p.Photo)
			fixture.Name = p.Name
			return fixture, nil
		},
	}

	body := jsonBody(t, map[string]string{"name": "Alicia", "photo": "🐙"})
	req := httptest.NewRequest(http.MethodPut, participantsURL(tripID, "/", fixture.ID.String()), body)
	rec := httptest.NewRecorder()

	newHTTPHandler(handler.Services{Participants: svc}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteParticipant_204(t *testing.T) {
	svc := &mockParticipantServicer{
		delete: func(_ context.Context, _, _ uuid.UUID) error { return nil },
	}

	req := httptest.NewRequest(http.MethodDelete, participantsURL(uuid.New(), "/", uuid.NewString()), nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(handler.Services{Participants: svc}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPutParticipantPhoto_Upload(t *testing.T) {
	tripID := uuid.New()
	fixture := participantFixture(tripID)
	var got domain.Photo
	svc := &mockParticipantServicer{
		setPhoto: func(_ context.Context, _, _ uuid.UUID, ph domain.Photo) (domain.Participant, error) {
			got = ph
			return fixture, nil
		},
	}

	req := multipartPhotoRequest(t, http.MethodPut, participantsURL(tripID, "/", fixture.ID.String(), "/photo"), 64, 48)
	rec := httptest.NewRecorder()

	newHTTPHandler(handler.Services{Participants: svc}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(got.Thumb, "data:image/jpeg;base64,"))
	assert.True(t, strings.HasPrefix(got.Full, "data:image/jpeg;base64,"))
}

func TestPutParticipantPhoto_422_MissingField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, participantsURL(uuid.New(), "/", uuid.NewString(), "/photo"),
		strings.NewReader("--x--\r\n"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec := httptest.NewRecorder()

	newHTTPHandler(handler.Services{Participants: &mockParticipantServicer{}}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPutParticipantPhoto_422_NotAGlyph(t *testing.T) {
	body := jsonBody(t, map[string]string{"glyph": strings.Repeat("long text ", 4)})
	req := httptest.NewRequest(http.MethodPut, participantsURL(uuid.New(), "/", uuid.NewString(), "/photo"), body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(handler.Services{Participants: &mockParticipantServicer{}}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "glyph must be a short symbol", decodeError(t, rec.Body).Message)
}

func TestDeleteParticipantPhoto_ClearsBoth(t *testing.T) {
	svc := &mockParticipantServicer{
		setPhoto: func(_ context.Context, _, _ uuid.UUID, ph domain.Photo) (domain.Participant, error) {
			assert.Equal(t, domain.Photo{}, ph)
			return domain.Participant{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, participantsURL(uuid.New(), "/", uuid.NewString(), "/photo"), nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(handler.Services{Participants: svc}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// ---- drink types share the participant shape -------------------------------

func TestDrinkTypes_RoutesReachService(t *testing.T) {
	tripID, id := uuid.New(), uuid.New()
	dt := domain.DrinkType{ID: id, TripID: tripID, Name: "Mojito", Photo: "🍹"}
	svc := &mockDrinkTypeServicer{
		create: func(_ context.Context, in domain.DrinkType) (domain.DrinkType, error) {
			assert.Equal(t, "Mojito", in.Name)
			return dt, nil
		},
		getByID:    func(_ context.Context, _, _ uuid.UUID) (domain.DrinkType, error) { return dt, nil },
		listByTrip: func(_ context.Context, _ uuid.UUID) ([]domain.DrinkType, error) { return []domain.DrinkType{dt}, nil },
		update:     func(_ context.Context, in domain.DrinkType) (domain.DrinkType, error) { return in, nil },
		setPhoto:   func(_ context.Context, _, _ uuid.UUID, _ domain.Photo) (domain.DrinkType, error) { return dt, nil },
		delete:     func(_ context.Context, _, _ uuid.UUID) error { return nil },
	}
	h := newHTTPHandler(handler.Services{DrinkTypes: svc})
	base := "/trips/" + tripID.String() + "/drink-types"

	tests := []struct {
		method string
		path   string
		body   any
		want   int
	}{
		{http.MethodPost, base, map[string]string{"name": "Mojito"}, http.StatusCreated},
		{http.MethodGet, base, nil, http.StatusOK},
		{http.MethodGet, base + "/" + id.String(), nil, http.StatusOK},
		{http.MethodPut, base + "/" + id.String(), map[string]string{"name": "Daiquiri"}, http.StatusOK},
		{http.MethodPut, base + "/" + id.String() + "/photo", map[string]string{"glyph": "🍸"}, http.StatusOK},
		{http.MethodDelete, base + "/" + id.String() + "/photo", nil, http.StatusOK},
		{http.MethodDelete, base + "/" + id.String(), nil, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+strings.TrimPrefix(tt.path, base), func(t *testing.T) {
			var req *http.Request
			if tt.body != nil {
				req = httptest.NewRequest(tt.method, tt.path, jsonBody(t, tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestGetDrinkType_404Message(t *testing.T) {
	svc := &mockDrinkTypeServicer{
		getByID: func(_ context.Context, _, _ uuid.UUID) (domain.DrinkType, error) {
			return domain.DrinkType{}, domain.ErrNotFound
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trips/"+uuid.NewString()+"/drink-types/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(handler.Services{DrinkTypes: svc}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "drink type not found", decodeError(t, rec.Body).Message)
}

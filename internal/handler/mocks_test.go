package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/booze-cruise/backend/internal/analytics"
	"github.com/pkordes/booze-cruise/backend/internal/domain"
	"github.com/pkordes/booze-cruise/backend/internal/handler"
	"github.com/pkordes/booze-cruise/backend/internal/service"
)

// Each mock is a test double for one servicer interface.
// Set only the method fields your test needs.

type mockTripServicer struct {
	create        func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID       func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list          func(ctx context.Context) ([]domain.Trip, error)
	update        func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete        func(ctx context.Context, id uuid.UUID) error
	current       func(ctx context.Context) (domain.Trip, error)
	setDefault    func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	setCoverPhoto func(ctx context.Context, id uuid.UUID, cover string) (domain.Trip, error)
}

func (m *mockTripServicer) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripServicer) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.update(ctx, t)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripServicer) Current(ctx context.Context) (domain.Trip, error) {
	return m.current(ctx)
}
func (m *mockTripServicer) SetDefault(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.setDefault(ctx, id)
}
func (m *mockTripServicer) SetCoverPhoto(ctx context.Context, id uuid.UUID, cover string) (domain.Trip, error) {
	return m.setCoverPhoto(ctx, id, cover)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockParticipantServicer struct {
	create     func(ctx context.Context, p domain.Participant) (domain.Participant, error)
	getByID    func(ctx context.Context, tripID, id uuid.UUID) (domain.Participant, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)
	update     func(ctx context.Context, p domain.Participant) (domain.Participant, error)
	setPhoto   func(ctx context.Context, tripID, id uuid.UUID, ph domain.Photo) (domain.Participant, error)
	delete     func(ctx context.Context, tripID, id uuid.UUID) error
}

func (m *mockParticipantServicer) Create(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	return m.create(ctx, p)
}
func (m *mockParticipantServicer) GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.Participant, error) {
	return m.getByID(ctx, tripID, id)
}
func (m *mockParticipantServicer) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockParticipantServicer) Update(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	return m.update(ctx, p)
}
func (m *mockParticipantServicer) SetPhoto(ctx context.Context, tripID, id uuid.UUID, ph domain.Photo) (domain.Participant, error) {
	return m.setPhoto(ctx, tripID, id, ph)
}
func (m *mockParticipantServicer) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	return m.delete(ctx, tripID, id)
}

var _ handler.ParticipantServicer = (*mockParticipantServicer)(nil)

type mockDrinkTypeServicer struct {
	create     func(ctx context.Context, dt domain.DrinkType) (domain.DrinkType, error)
	getByID    func(ctx context.Context, tripID, id uuid.UUID) (domain.DrinkType, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.DrinkType, error)
	update     func(ctx context.Context, dt domain.DrinkType) (domain.DrinkType, error)
	setPhoto   func(ctx context.Context, tripID, id uuid.UUID, ph domain.Photo) (domain.DrinkType, error)
	delete     func(ctx context.Context, tripID, id uuid.UUID) error
}

func (m *mockDrinkTypeServicer) Create(ctx context.Context, dt domain.DrinkType) (domain.DrinkType, error) {
	return m.create(ctx, dt)
}
func (m *mockDrinkTypeServicer) GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.DrinkType, error) {
	return m.getByID(ctx, tripID, id)
}
func (m *mockDrinkTypeServicer) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DrinkType, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockDrinkTypeServicer) Update(ctx context.Context, dt domain.DrinkType) (domain.DrinkType, error) {
	return m.update(ctx, dt)
}
func (m *mockDrinkTypeServicer) SetPhoto(ctx context.Context, tripID, id uuid.UUID, ph domain.Photo) (domain.DrinkType, error) {
	return m.setPhoto(ctx, tripID, id, ph)
}
func (m *mockDrinkTypeServicer) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	return m.delete(ctx, tripID, id)
}

var _ handler.DrinkTypeServicer = (*mockDrinkTypeServicer)(nil)

type mockEventServicer struct {
	create      func(ctx context.Context, e domain.DrinkEvent) (domain.DrinkEvent, error)
	getByID     func(ctx context.Context, tripID, id uuid.UUID) (domain.DrinkEvent, error)
	listPaged   func(ctx context.Context, tripID uuid.UUID, f analytics.Filter, p domain.PaginationParams) (domain.Page[domain.DrinkEvent], error)
	attachPhoto func(ctx context.Context, tripID, id uuid.UUID, ph domain.Photo) (domain.DrinkEvent, error)
	detachPhoto func(ctx context.Context, tripID, id uuid.UUID) (domain.DrinkEvent, error)
	delete      func(ctx context.Context, tripID, id uuid.UUID) error
}

func (m *mockEventServicer) Create(ctx context.Context, e domain.DrinkEvent) (domain.DrinkEvent, error) {
	return m.create(ctx, e)
}
func (m *mockEventServicer) GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.DrinkEvent, error) {
	return m.getByID(ctx, tripID, id)
}
func (m *mockEventServicer) ListPaged(ctx context.Context, tripID uuid.UUID, f analytics.Filter, p domain.PaginationParams) (domain.Page[domain.DrinkEvent], error) {
	return m.listPaged(ctx, tripID, f, p)
}
func (m *mockEventServicer) AttachPhoto(ctx context.Context, tripID, id uuid.UUID, ph domain.Photo) (domain.DrinkEvent, error) {
	return m.attachPhoto(ctx, tripID, id, ph)
}
func (m *mockEventServicer) DetachPhoto(ctx context.Context, tripID, id uuid.UUID) (domain.DrinkEvent, error) {
	return m.detachPhoto(ctx, tripID, id)
}
func (m *mockEventServicer) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	return m.delete(ctx, tripID, id)
}

var _ handler.EventServicer = (*mockEventServicer)(nil)

type mockAnalyticsServicer struct {
	report func(ctx context.Context, tripID uuid.UUID, f analytics.Filter) (analytics.Report, error)
}

func (m *mockAnalyticsServicer) Report(ctx context.Context, tripID uuid.UUID, f analytics.Filter) (analytics.Report, error) {
	return m.report(ctx, tripID, f)
}

var _ handler.AnalyticsServicer = (*mockAnalyticsServicer)(nil)

type mockHighlightsServicer struct {
	generate func(ctx context.Context, tripID uuid.UUID, f analytics.Filter, opts service.HighlightsOptions) (service.Highlights, error)
}

func (m *mockHighlightsServicer) Generate(ctx context.Context, tripID uuid.UUID, f analytics.Filter, opts service.HighlightsOptions) (service.Highlights, error) {
	return m.generate(ctx, tripID, f, opts)
}

var _ handler.HighlightsServicer = (*mockHighlightsServicer)(nil)

type mockDataServicer struct {
	export   func(ctx context.Context) (domain.Document, error)
	rows     func(ctx context.Context) ([]domain.ExportRow, error)
	doImport func(ctx context.Context, doc domain.Document) (service.ImportResult, error)
}

func (m *mockDataServicer) Export(ctx context.Context) (domain.Document, error) {
	return m.export(ctx)
}
func (m *mockDataServicer) Rows(ctx context.Context) ([]domain.ExportRow, error) {
	return m.rows(ctx)
}
func (m *mockDataServicer) Import(ctx context.Context, doc domain.Document) (service.ImportResult, error) {
	return m.doImport(ctx, doc)
}

var _ handler.DataServicer = (*mockDataServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into its chi router.
// This mirrors how main.go mounts it in production.
func newHTTPHandler(svc handler.Services) http.Handler {
	return handler.NewServer(svc, nil).Routes()
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func dateStr(t time.Time) string {
	return t.Format("2006-01-02")
}

// decodeError reads the {"error":{...}} body.
func decodeError(t *testing.T, body *bytes.Buffer) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp.Error
}

// multipartPhotoRequest builds an upload of a generated w×h PNG in the
// "photo" field.
func multipartPhotoRequest(t *testing.T, method, target string, w, h int) *http.Request {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="photo"; filename="snap.png"`},
		"Content-Type":        {"image/png"},
	})
	require.NoError(t, err)
	_, err = part.Write(pngBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// validationErr mimics a wrapped service validation error.
func validationErr(msg string) error {
	return fmt.Errorf("service.X.Y: %w: %s", domain.ErrValidation, msg)
}

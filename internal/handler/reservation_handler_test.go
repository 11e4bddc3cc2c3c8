package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gocql/gocql"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewChmutov/big-medicine/internal/model"
	"github.com/AndrewChmutov/big-medicine/internal/service"
	"github.com/AndrewChmutov/big-medicine/internal/validator"
)

// mockReservationService is a mock implementation of ReservationServiceInterface.
type mockReservationService struct {
	reserveFn func(ctx context.Context, accountName string, entries []model.MedicineEntry) (gocql.UUID, error)
	updateFn  func(ctx context.Context, id string, entries []model.MedicineEntry) (gocql.UUID, error)
}

func (m *mockReservationService) Reserve(ctx context.Context, accountName string, entries []model.MedicineEntry) (gocql.UUID, error) {
	if m.reserveFn != nil {
		return m.reserveFn(ctx, accountName, entries)
	}
	return gocql.UUID{}, nil
}

func (m *mockReservationService) Update(ctx context.Context, id string, entries []model.MedicineEntry) (gocql.UUID, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, entries)
	}
	return gocql.UUID{}, nil
}

func setupReservationApp(mockSvc *mockReservationService) *fiber.App {
	app := fiber.New()
	h := NewReservationHandler(mockSvc, validator.New(), nil)
	app.Post("/reserve", h.Reserve)
	app.Post("/update", h.Update)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) model.ResponseItem {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "envelopes always ride HTTP 200")

	var item model.ResponseItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&item))
	return item
}

func TestReserveHandler_Success(t *testing.T) {
	id, err := gocql.RandomUUID()
	require.NoError(t, err)

	var gotAccount string
	var gotEntries []model.MedicineEntry
	mockSvc := &mockReservationService{
		reserveFn: func(ctx context.Context, accountName string, entries []model.MedicineEntry) (gocql.UUID, error) {
			gotAccount = accountName
			gotEntries = entries
			return id, nil
		},
	}
	app := setupReservationApp(mockSvc)

	item := postJSON(t, app, "/reserve",
		`{"account_name": "alice", "entries": [{"name": "paracetamol", "count": 4}]}`)

	assert.Equal(t, model.ResponseInfo, item.Type)
	assert.Equal(t, "Reserved successfully: "+id.String(), item.Msg)
	assert.Equal(t, "alice", gotAccount)
	assert.Equal(t, []model.MedicineEntry{{Name: "paracetamol", Count: 4}}, gotEntries)
}

func TestReserveHandler_DuplicateMedicines(t *testing.T) {
	called := false
	mockSvc := &mockReservationService{
		reserveFn: func(ctx context.Context, accountName string, entries []model.MedicineEntry) (gocql.UUID, error) {
			called = true
			return gocql.UUID{}, nil
		},
	}
	app := setupReservationApp(mockSvc)

	item := postJSON(t, app, "/reserve",
		`{"account_name": "alice", "entries": [{"name": "a", "count": 1}, {"name": "a", "count": 2}]}`)

	assert.Equal(t, model.ResponseError, item.Type)
	assert.Contains(t, item.Msg, "duplicated medicines")
	assert.False(t, called, "duplicate requests must be rejected at decode")
}

func TestReserveHandler_NonPositiveCount(t *testing.T) {
	app := setupReservationApp(&mockReservationService{})

	item := postJSON(t, app, "/reserve",
		`{"account_name": "alice", "entries": [{"name": "a", "count": 0}]}`)

	assert.Equal(t, model.ResponseError, item.Type)
}

func TestReserveHandler_MissingAccount(t *testing.T) {
	app := setupReservationApp(&mockReservationService{})

	item := postJSON(t, app, "/reserve", `{"entries": [{"name": "a", "count": 1}]}`)

	assert.Equal(t, model.ResponseError, item.Type)
}

func TestReserveHandler_MalformedBody(t *testing.T) {
	app := setupReservationApp(&mockReservationService{})

	item := postJSON(t, app, "/reserve", `{"account_name": `)

	assert.Equal(t, model.ResponseError, item.Type)
	assert.Equal(t, "invalid request body", item.Msg)
}

func TestReserveHandler_BusinessRejection(t *testing.T) {
	mockSvc := &mockReservationService{
		reserveFn: func(ctx context.Context, accountName string, entries []model.MedicineEntry) (gocql.UUID, error) {
			return gocql.UUID{}, &service.UnknownMedicineError{Name: "ghost"}
		},
	}
	app := setupReservationApp(mockSvc)

	item := postJSON(t, app, "/reserve",
		`{"account_name": "alice", "entries": [{"name": "ghost", "count": 1}]}`)

	assert.Equal(t, model.ResponseError, item.Type)
	assert.Equal(t, "Medicine ghost does not exist", item.Msg)
}

func TestReserveHandler_Fault(t *testing.T) {
	mockSvc := &mockReservationService{
		reserveFn: func(ctx context.Context, accountName string, entries []model.MedicineEntry) (gocql.UUID, error) {
			return gocql.UUID{}, errors.New("store unreachable")
		},
	}
	app := setupReservationApp(mockSvc)

	item := postJSON(t, app, "/reserve",
		`{"account_name": "alice", "entries": [{"name": "a", "count": 1}]}`)

	assert.Equal(t, model.ResponseException, item.Type)
}

func TestUpdateHandler_Success(t *testing.T) {
	id, err := gocql.RandomUUID()
	require.NoError(t, err)

	var gotID string
	mockSvc := &mockReservationService{
		updateFn: func(ctx context.Context, reservationID string, entries []model.MedicineEntry) (gocql.UUID, error) {
			gotID = reservationID
			return id, nil
		},
	}
	app := setupReservationApp(mockSvc)

	item := postJSON(t, app, "/update",
		`{"id": "`+id.String()+`", "entries": [{"name": "paracetamol", "count": 7}]}`)

	assert.Equal(t, model.ResponseInfo, item.Type)
	assert.Equal(t, "Updated reservation successfully: "+id.String(), item.Msg)
	assert.Equal(t, id.String(), gotID)
}

func TestUpdateHandler_InvalidUUIDFromService(t *testing.T) {
	mockSvc := &mockReservationService{
		updateFn: func(ctx context.Context, id string, entries []model.MedicineEntry) (gocql.UUID, error) {
			return gocql.UUID{}, service.ErrInvalidUUID
		},
	}
	app := setupReservationApp(mockSvc)

	item := postJSON(t, app, "/update",
		`{"id": "not-a-uuid", "entries": [{"name": "a", "count": 1}]}`)

	assert.Equal(t, model.ResponseError, item.Type)
	assert.Equal(t, "Invalid UUID", item.Msg)
}

func TestUpdateHandler_DuplicateMedicines(t *testing.T) {
	app := setupReservationApp(&mockReservationService{})

	item := postJSON(t, app, "/update",
		`{"id": "x", "entries": [{"name": "a", "count": 1}, {"name": "a", "count": 1}]}`)

	assert.Equal(t, model.ResponseError, item.Type)
}

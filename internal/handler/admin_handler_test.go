package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/AndrewChmutov/big-medicine/internal/model"
)

// mockAdminService is a mock implementation of AdminServiceInterface.
type mockAdminService struct {
	cleanFn  func(ctx context.Context) error
	directFn func(ctx context.Context, query string) ([]map[string]interface{}, error)
}

func (m *mockAdminService) Clean(ctx context.Context) error {
	if m.cleanFn != nil {
		return m.cleanFn(ctx)
	}
	return nil
}

func (m *mockAdminService) Direct(ctx context.Context, query string) ([]map[string]interface{}, error) {
	if m.directFn != nil {
		return m.directFn(ctx, query)
	}
	return []map[string]interface{}{}, nil
}

func setupAdminApp(mockSvc *mockAdminService) *fiber.App {
	app := fiber.New()
	h := NewAdminHandler(mockSvc, nil)
	app.Get("/clean", h.Clean)
	app.Get("/direct", h.Direct)
	return app
}

func TestCleanHandler(t *testing.T) {
	app := setupAdminApp(&mockAdminService{})

	var item model.ResponseItem
	getJSON(t, app, "/clean", &item)

	assert.Equal(t, model.ResponseInfo, item.Type)
	assert.Equal(t, "Cleaned the database", item.Msg)
}

func TestCleanHandler_Fault(t *testing.T) {
	app := setupAdminApp(&mockAdminService{
		cleanFn: func(ctx context.Context) error {
			return errors.New("keyspace busy")
		},
	})

	var item model.ResponseItem
	getJSON(t, app, "/clean", &item)

	assert.Equal(t, model.ResponseException, item.Type)
}

func TestDirectHandler(t *testing.T) {
	var captured string
	app := setupAdminApp(&mockAdminService{
		directFn: func(ctx context.Context, query string) ([]map[string]interface{}, error) {
			captured = query
			return []map[string]interface{}{{"count": 6}}, nil
		},
	})

	var resp struct {
		Type    model.ResponseType       `json:"type"`
		Content []map[string]interface{} `json:"content"`
	}
	getJSON(t, app, "/direct?query=SELECT+*+FROM+medicines.medicine", &resp)

	assert.Equal(t, model.ResponseInfo, resp.Type)
	assert.Equal(t, "SELECT * FROM medicines.medicine", captured)
	assert.Len(t, resp.Content, 1)
}

func TestDirectHandler_MissingQuery(t *testing.T) {
	app := setupAdminApp(&mockAdminService{})

	var item model.ResponseItem
	getJSON(t, app, "/direct", &item)

	assert.Equal(t, model.ResponseError, item.Type)
}

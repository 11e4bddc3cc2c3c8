package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/AndrewChmutov/big-medicine/internal/metrics"
	"github.com/AndrewChmutov/big-medicine/internal/model"
)

// AdminServiceInterface defines the admin/debug workflows.
type AdminServiceInterface interface {
	Clean(ctx context.Context) error
	Direct(ctx context.Context, query string) ([]map[string]interface{}, error)
}

// AdminHandler handles GET /clean and GET /direct.
type AdminHandler struct {
	service AdminServiceInterface
	monitor *metrics.Monitor
}

// NewAdminHandler creates an AdminHandler with the given service and monitor.
func NewAdminHandler(svc AdminServiceInterface, monitor *metrics.Monitor) *AdminHandler {
	return &AdminHandler{service: svc, monitor: monitor}
}

// Clean handles GET /clean: drop and recreate the working keyspace.
func (h *AdminHandler) Clean(c *fiber.Ctx) error {
	if err := h.service.Clean(c.Context()); err != nil {
		item := failure(c, err)
		observe(h.monitor, "/clean", item)
		return c.JSON(item)
	}

	item := info("Cleaned the database")
	observe(h.monitor, "/clean", item)
	return c.JSON(item)
}

// Direct handles GET /direct?query=<cql>: execute a raw store query.
func (h *AdminHandler) Direct(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		item := businessError("invalid request: query is required")
		observe(h.monitor, "/direct", item)
		return c.JSON(item)
	}

	rows, err := h.service.Direct(c.Context(), query)
	if err != nil {
		item := failure(c, err)
		observe(h.monitor, "/direct", item)
		return c.JSON(item)
	}

	item := info("-")
	observe(h.monitor, "/direct", item)
	return c.JSON(model.DictResponse{
		ResponseItem: item,
		Content:      rows,
	})
}

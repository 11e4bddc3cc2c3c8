package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/AndrewChmutov/big-medicine/internal/metrics"
	"github.com/AndrewChmutov/big-medicine/internal/model"
)

// QueryServiceInterface defines the read workflows behind the query routes.
type QueryServiceInterface interface {
	QueryByID(ctx context.Context, id string) (model.ReservationEntryItem, error)
	QueryByAccount(ctx context.Context, name string) ([]model.ReservationEntryItem, error)
	QueryAll(ctx context.Context) ([]model.ReservationEntryItem, error)
	Medicine(ctx context.Context, name string) (map[string]interface{}, error)
}

// QueryHandler handles the GET query routes.
type QueryHandler struct {
	service QueryServiceInterface
	monitor *metrics.Monitor
}

// NewQueryHandler creates a QueryHandler with the given service and monitor.
func NewQueryHandler(svc QueryServiceInterface, monitor *metrics.Monitor) *QueryHandler {
	return &QueryHandler{service: svc, monitor: monitor}
}

// QueryByID handles GET /query?id=<uuid>.
func (h *QueryHandler) QueryByID(c *fiber.Ctx) error {
	id := c.Query("id")

	reservation, err := h.service.QueryByID(c.Context(), id)
	if err != nil {
		item := failure(c, err)
		observe(h.monitor, "/query", item)
		return c.JSON(item)
	}

	h.monitor.ObserveRequest("/query", "info")
	return c.JSON(model.ReservationResponse{
		ResponseItem:         model.ResponseItem{Type: model.ResponseInfo, Msg: "-"},
		ReservationEntryItem: reservation,
	})
}

// QueryByAccount handles GET /query-account?name=<account>.
func (h *QueryHandler) QueryByAccount(c *fiber.Ctx) error {
	name := c.Query("name")

	reservations, err := h.service.QueryByAccount(c.Context(), name)
	if err != nil {
		item := failure(c, err)
		observe(h.monitor, "/query-account", item)
		return c.JSON(item)
	}

	h.monitor.ObserveRequest("/query-account", "info")
	return c.JSON(model.ReservationsResponse{
		ResponseItem: model.ResponseItem{Type: model.ResponseInfo, Msg: "-"},
		Reservations: reservations,
	})
}

// QueryAll handles GET /query-all.
func (h *QueryHandler) QueryAll(c *fiber.Ctx) error {
	reservations, err := h.service.QueryAll(c.Context())
	if err != nil {
		item := failure(c, err)
		observe(h.monitor, "/query-all", item)
		return c.JSON(item)
	}

	h.monitor.ObserveRequest("/query-all", "info")
	return c.JSON(model.ReservationsResponse{
		ResponseItem: model.ResponseItem{Type: model.ResponseInfo, Msg: "-"},
		Reservations: reservations,
	})
}

// Medicine handles GET /medicine?name=<medicine>. A missing medicine yields
// an info envelope with a null medicine object.
func (h *QueryHandler) Medicine(c *fiber.Ctx) error {
	name := c.Query("name")

	row, err := h.service.Medicine(c.Context(), name)
	if err != nil {
		item := failure(c, err)
		observe(h.monitor, "/medicine", item)
		return c.JSON(item)
	}

	h.monitor.ObserveRequest("/medicine", "info")
	return c.JSON(model.MedicineResponse{
		ResponseItem: model.ResponseItem{Type: model.ResponseInfo, Msg: "-"},
		Medicine:     row,
	})
}

package handler

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gocql/gocql"
	"github.com/gofiber/fiber/v2"

	"github.com/AndrewChmutov/big-medicine/internal/metrics"
	"github.com/AndrewChmutov/big-medicine/internal/model"
)

// ReservationServiceInterface defines the coordinator workflows behind the
// write routes.
type ReservationServiceInterface interface {
	Reserve(ctx context.Context, accountName string, entries []model.MedicineEntry) (gocql.UUID, error)
	Update(ctx context.Context, id string, entries []model.MedicineEntry) (gocql.UUID, error)
}

// ReservationHandler handles POST /reserve and POST /update.
type ReservationHandler struct {
	service   ReservationServiceInterface
	validator *validator.Validate
	monitor   *metrics.Monitor
}

// NewReservationHandler creates a ReservationHandler with the given service,
// validator and monitor.
func NewReservationHandler(svc ReservationServiceInterface, v *validator.Validate, monitor *metrics.Monitor) *ReservationHandler {
	return &ReservationHandler{service: svc, validator: v, monitor: monitor}
}

// Reserve handles POST /reserve.
func (h *ReservationHandler) Reserve(c *fiber.Ctx) error {
	var req model.MedicineReservations

	if err := c.BodyParser(&req); err != nil {
		item := businessError("invalid request body")
		observe(h.monitor, "/reserve", item)
		return c.JSON(item)
	}
	if err := h.validator.Struct(req); err != nil {
		item := businessError(formatValidationError(err))
		observe(h.monitor, "/reserve", item)
		return c.JSON(item)
	}

	reservationID, err := h.service.Reserve(c.Context(), req.AccountName, req.Entries)
	if err != nil {
		item := failure(c, err)
		observe(h.monitor, "/reserve", item)
		return c.JSON(item)
	}

	item := info(fmt.Sprintf("Reserved successfully: %s", reservationID))
	observe(h.monitor, "/reserve", item)
	return c.JSON(item)
}

// Update handles POST /update.
func (h *ReservationHandler) Update(c *fiber.Ctx) error {
	var req model.UpdateReservation

	if err := c.BodyParser(&req); err != nil {
		item := businessError("invalid request body")
		observe(h.monitor, "/update", item)
		return c.JSON(item)
	}
	if err := h.validator.Struct(req); err != nil {
		item := businessError(formatValidationError(err))
		observe(h.monitor, "/update", item)
		return c.JSON(item)
	}

	reservationID, err := h.service.Update(c.Context(), req.ID, req.Entries)
	if err != nil {
		item := failure(c, err)
		observe(h.monitor, "/update", item)
		return c.JSON(item)
	}

	item := info(fmt.Sprintf("Updated reservation successfully: %s", reservationID))
	observe(h.monitor, "/update", item)
	return c.JSON(item)
}

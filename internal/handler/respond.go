package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/AndrewChmutov/big-medicine/internal/metrics"
	"github.com/AndrewChmutov/big-medicine/internal/model"
	"github.com/AndrewChmutov/big-medicine/internal/service"
)

// Every route answers HTTP 200 with a typed envelope; the type field
// distinguishes success from failure so clients parse one shape.

func info(msg string) model.ResponseItem {
	return model.ResponseItem{Type: model.ResponseInfo, Msg: msg}
}

func businessError(msg string) model.ResponseItem {
	return model.ResponseItem{Type: model.ResponseError, Msg: msg}
}

// failure converts a workflow error into its envelope: business rejections
// become "error", store and workflow faults become "exception" and are logged
// with the underlying error.
func failure(c *fiber.Ctx, err error) model.ResponseItem {
	if service.IsBusiness(err) {
		return model.ResponseItem{Type: model.ResponseError, Msg: err.Error()}
	}
	log.Error().
		Err(err).
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("workflow fault")
	return model.ResponseItem{Type: model.ResponseException, Msg: err.Error()}
}

func observe(monitor *metrics.Monitor, route string, item model.ResponseItem) {
	monitor.ObserveRequest(route, string(item.Type))
}

// formatValidationError converts validator errors into the error envelope
// message.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			switch fe.Tag() {
			case "uniquenames":
				return "invalid request: duplicated medicines in one reservation"
			case "required":
				return "invalid request: " + fe.Field() + " is required"
			case "notblank":
				return "invalid request: " + fe.Field() + " cannot be blank"
			case "gt":
				return "invalid request: " + fe.Field() + " must be positive"
			case "min":
				return "invalid request: " + fe.Field() + " must not be empty"
			default:
				return "invalid request: " + fe.Field() + " is invalid"
			}
		}
	}
	return "invalid request"
}

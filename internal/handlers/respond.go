package handlers

import (
	"errors"
	"strconv"

	"vitrina/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError renders the domain errors. input, when given, is echoed back so the
// client can refill the form. Anything else is left to the app error handler.
func respondError(c *fiber.Ctx, err error, input interface{}) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		body := fiber.Map{
			"message": "Validation failed",
			"errors":  verr.ByField(),
		}
		if input != nil {
			body["input"] = input
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrConstraintViolation):
		body := fiber.Map{
			"message": "Such a record already exists",
			"error":   err.Error(),
		}
		if input != nil {
			body["input"] = input
		}
		return c.Status(fiber.StatusConflict).JSON(body)
	case errors.Is(err, models.ErrUpstream):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Upstream service unavailable",
			"error":   err.Error(),
		})
	}
	return err
}

// NewErrorHandler renders every error that reaches fiber as JSON.
func NewErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			code = ferr.Code
			message = ferr.Message
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		return c.Status(code).JSON(fiber.Map{"message": message})
	}
}

// idParam reads a positive integer route parameter.
func idParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/medcare/services"
	"github.com/meinhoongagan/medcare/utils"
	"go.uber.org/zap"
)

func statusFor(err services.ServiceError) int {
	switch err {
	case services.ErrUserNotFound, services.ErrDoctorNotFound, services.ErrServiceNotFound, services.ErrAppointmentNotFound:
		return fiber.StatusNotFound
	case services.ErrSlotUnavailable, services.ErrInvalidTransition, services.ErrUsernameTaken:
		return fiber.StatusConflict
	case services.ErrInvalidCredentials, services.ErrInvalidToken:
		return fiber.StatusUnauthorized
	case services.ErrPhotoUploadDisabled:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusBadRequest
	}
}

// respondError maps service errors onto HTTP responses. Unknown errors are
// logged and reported as a 500 with the given message.
func respondError(c *fiber.Ctx, log *zap.Logger, err error, message string) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Validation failed",
			Fields:  verr.Fields,
		})
	}
	var serr services.ServiceError
	if errors.As(err, &serr) {
		return c.Status(statusFor(serr)).JSON(utils.ErrorResponse{Message: serr.Error()})
	}
	log.Error(message, zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
		Message: message,
		Error:   "Internal server error",
	})
}

func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
		Message: "Failed to parse request body",
		Error:   err.Error(),
	})
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// ErrorHandler renders errors that escape a handler, such as *fiber.Error,
// as ErrorResponse bodies.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(utils.ErrorResponse{Message: message})
	}
}

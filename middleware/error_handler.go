package middleware

import (
	"errors"

	"jibal-shipping/apperror"
	"jibal-shipping/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders handler errors in the standard response envelope.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var appErr *apperror.AppError
	var fiberErr *fiber.Error
	if !errors.As(err, &appErr) && errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(fiber.Map{
			"success": false,
			"message": fiberErr.Message,
			"error":   fiberErr.Message,
		})
	}

	appErr = apperror.AsAppError(err)
	status := apperror.GetHTTPStatus(appErr)
	if status >= fiber.StatusInternalServerError {
		logger.Errorw("request failed", "method", ctx.Method(), "path", ctx.Path(), "error", err)
	}

	body := fiber.Map{
		"success": false,
		"message": appErr.Message,
		"error":   appErr.Code,
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	return ctx.Status(status).JSON(body)
}

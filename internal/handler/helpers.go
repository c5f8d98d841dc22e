package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/evalforge/evalforge/internal/pkg/errors"
	"github.com/evalforge/evalforge/internal/validator"
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func errorResponse(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// respondError maps a service error onto an HTTP response. Validation
// failures from struct tags and the error taxonomy both land here.
func respondError(c *fiber.Ctx, log *zap.Logger, err error, fallback string) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return errorResponse(c, fiber.StatusBadRequest, validationErrs.Error())
	}

	if appErr := apperrors.GetAppError(err); appErr != nil {
		if appErr.StatusCode >= 500 {
			log.Error(fallback, zap.String("code", appErr.Code), zap.Error(err))
		}
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error:   http.StatusText(appErr.StatusCode),
			Message: appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		})
	}

	log.Error(fallback, zap.Error(err))
	return errorResponse(c, fiber.StatusInternalServerError, fallback)
}

func requireParam(c *fiber.Ctx, name string) (string, error) {
	value := c.Params(name)
	if value == "" {
		return "", errorResponse(c, fiber.StatusBadRequest, name+" is required")
	}
	return value, nil
}

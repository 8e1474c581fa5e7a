package handlers

import (
	"storefront/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every failed API request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return fiber.StatusBadRequest
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperrors.KindStorage, apperrors.KindService:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondError writes err as an ErrorResponse. Storage details never reach the client.
func RespondError(c *fiber.Ctx, err error) error {
	kind := apperrors.KindOf(err)
	return c.Status(StatusFor(kind)).JSON(ErrorResponse{
		Error:   kind.String(),
		Message: apperrors.MessageOf(err, "internal server error"),
	})
}

// ErrorHandler is the Fiber error handler for errors returned by routes and middleware.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		kind := apperrors.KindService
		switch {
		case e.Code == fiber.StatusNotFound:
			kind = apperrors.KindNotFound
		case e.Code == fiber.StatusUnauthorized:
			kind = apperrors.KindUnauthorized
		case e.Code >= 400 && e.Code < 500:
			kind = apperrors.KindValidation
		}
		return c.Status(e.Code).JSON(ErrorResponse{Error: kind.String(), Message: e.Message})
	}
	return RespondError(c, err)
}

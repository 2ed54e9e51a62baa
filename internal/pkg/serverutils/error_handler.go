package serverutils

import (
	"errors"

	"pm-assist-be/pkg/askai"
	"pm-assist-be/pkg/askai/coordinator"
	"pm-assist-be/pkg/askai/session"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns service-layer errors into the standard
// response envelope so controllers can just return them.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError

		var se *askai.ServiceError
		var ve validator.ValidationErrors
		switch {
		case errors.Is(err, coordinator.ErrEmptyQuestion):
			status = fiber.StatusBadRequest
		case errors.Is(err, session.ErrBusy):
			status = fiber.StatusConflict
		case errors.As(err, &ve):
			status = fiber.StatusBadRequest
		case errors.As(err, &se):
			status = statusForCode(se.Code)
		}

		return ctx.Status(status).JSON(ErrorResponse(err.Error()))
	}
}

func statusForCode(code string) int {
	switch code {
	case askai.CodeRateLimit:
		return fiber.StatusTooManyRequests
	case askai.CodeOverload:
		return fiber.StatusServiceUnavailable
	case askai.CodeTimeout:
		return fiber.StatusGatewayTimeout
	case askai.CodeAuthFailed:
		return fiber.StatusUnauthorized
	case askai.CodeInsufficientData, askai.CodeMalformed:
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

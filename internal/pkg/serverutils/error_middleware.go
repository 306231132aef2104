package serverutils

import (
	"errors"

	"medrag-be/internal/service"
	"medrag-be/pkg/rag/retrieval"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps service-layer sentinel errors onto HTTP
// statuses. Anything unmapped is a 500 with a generic message so internal
// detail never leaks to clients.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		switch {
		case errors.Is(err, service.ErrCaseNotFound),
			errors.Is(err, service.ErrSessionNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrInvalidCode):
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrCaseNotDiagnosed),
			errors.Is(err, service.ErrNoPatientEmail):
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, retrieval.ErrUnavailable),
			errors.Is(err, service.ErrUpstreamGeneration):
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(err.Error()))
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
		}
	}
}

package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafe-pos/internal/application/dto"
	"github.com/jhoicas/cafe-pos/internal/domain"
	"github.com/jhoicas/cafe-pos/pkg/logger"
)

// writeError traduce errores de dominio a respuestas HTTP. Lo que no es de dominio
// se registra y sale como 500.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var exceeded *domain.AvailabilityExceededError
	if errors.As(err, &exceeded) {
		return writeRejection(c, exceeded)
	}

	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrEmptyCart):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrLineNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrMissingStockEntry):
		status, code = fiber.StatusUnprocessableEntity, "DATA_INTEGRITY"
	case errors.Is(err, domain.ErrUnknownUnit), errors.Is(err, domain.ErrCategoryMismatch):
		status, code = fiber.StatusUnprocessableEntity, "UNIT_ERROR"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	}

	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "error interno"})
	}
	if code == "DATA_INTEGRITY" || code == "UNIT_ERROR" {
		log.Error().Err(err).Str("path", c.Path()).Msg("error de integridad de datos")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// writeRejection 409: la cantidad pedida supera la disponibilidad. No es una falla.
func writeRejection(c *fiber.Ctx, r *domain.AvailabilityExceededError) error {
	return c.Status(fiber.StatusConflict).JSON(dto.RejectionResponse{
		Code:       "AVAILABILITY_EXCEEDED",
		Message:    r.Error(),
		LineID:     r.LineID,
		Requested:  r.Requested,
		Allowed:    r.Allowed,
		Bottleneck: r.Bottleneck,
	})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

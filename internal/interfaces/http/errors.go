package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/msp-invoices/internal/application/dto"
	"github.com/jhoicas/msp-invoices/internal/domain"
	"github.com/jhoicas/msp-invoices/internal/domain/invoice"
	"github.com/jhoicas/msp-invoices/pkg/numwords"
)

// apiError clasificación de un error para la frontera HTTP.
type apiError struct {
	status  int
	code    string
	message string
}

// classify traduce errores de dominio a status HTTP. Los mensajes son los que ve el usuario.
func classify(err error) apiError {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, numwords.ErrInvalidArgument):
		return apiError{fiber.StatusBadRequest, "VALIDATION", "The request contains invalid data."}
	case errors.Is(err, domain.ErrMissingInput):
		return apiError{fiber.StatusBadRequest, "MISSING_INPUT", "Invoice data is missing."}
	case errors.Is(err, domain.ErrNotFound):
		return apiError{fiber.StatusNotFound, "NOT_FOUND", "Invoice not found."}
	case errors.Is(err, domain.ErrSuperseded):
		return apiError{fiber.StatusConflict, "SUPERSEDED", "A newer search replaced this one."}
	case errors.Is(err, domain.ErrUpstream):
		return apiError{fiber.StatusBadGateway, "UPSTREAM", "The invoice service failed. Please try again."}
	case errors.Is(err, context.DeadlineExceeded):
		return apiError{fiber.StatusGatewayTimeout, "TIMEOUT", "The invoice service did not answer in time. Please try again."}
	default:
		return apiError{fiber.StatusInternalServerError, "INTERNAL", "Something went wrong. Please try again."}
	}
}

// writeError responde el error como dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	e := classify(err)
	resp := dto.ErrorResponse{Code: e.code, Message: e.message}
	if ve, ok := invoice.AsValidationError(err); ok {
		resp.Problems = ve.Problems
	}
	if e.status >= fiber.StatusInternalServerError {
		requestLogger(c).Error().Err(err).Int("status", e.status).Msg("request fallido")
	}
	return c.Status(e.status).JSON(resp)
}

// ErrorHandler reemplaza el manejador por defecto de fiber para que los errores
// no capturados también salgan como dto.ErrorResponse.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP", Message: fe.Message})
	}
	return writeError(c, err)
}

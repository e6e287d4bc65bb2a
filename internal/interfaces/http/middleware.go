package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/msp-invoices/pkg/logger"
)

const localLogger = "request_logger"

var nopLogger = zerolog.Nop()

// RequestLogger registra cada request (método, ruta, status, latencia, request id)
// y deja en Locals un sublogger con el request id para los handlers.
// Debe montarse después de requestid.New().
func RequestLogger(log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		rid := c.GetRespHeader(fiber.HeaderXRequestID)
		sub := log.With().Str("request_id", rid).Logger()
		c.Locals(localLogger, &sub)

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := sub.Info()
		if status >= fiber.StatusInternalServerError {
			ev = sub.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = sub.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return nil
	}
}

func requestLogger(c *fiber.Ctx) *zerolog.Logger {
	if l, ok := c.Locals(localLogger).(*zerolog.Logger); ok {
		return l
	}
	return &nopLogger
}

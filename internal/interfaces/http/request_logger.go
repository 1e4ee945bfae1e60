package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/residencia-api/pkg/logger"
)

// RequestLogger registra cada petición con método, ruta, estado y duración.
// Los errores internos que dejó respondError se registran en nivel error.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		ev := log.Info()
		if internal, ok := c.Locals(LocalError).(error); ok {
			ev = log.Error().Err(internal)
		} else if err != nil {
			ev = log.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("http request")
		return err
	}
}

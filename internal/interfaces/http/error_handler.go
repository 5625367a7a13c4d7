package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Academia-api/internal/application/dto"
	"github.com/jhoicas/Academia-api/pkg/result"
)

// ErrorHandler respuesta para errores no esperados: los de Fiber conservan su status,
// el resto se registra y responde 500 sin detalles.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
		}
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error no controlado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "Internal server error."})
	}
}

// statusFor status HTTP de un fallo esperado.
func statusFor(code string) int {
	switch {
	case code == result.CodeNotFound:
		return fiber.StatusNotFound
	case strings.HasPrefix(code, result.CodeConflict):
		return fiber.StatusConflict
	case strings.HasPrefix(code, "Auth."):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusBadRequest
	}
}

// writeResult responde con el valor o con el fallo mapeado a su status.
func writeResult[T any](c *fiber.Ctx, okStatus int, res result.Result[T], err error) error {
	if err != nil {
		return err
	}
	if res.IsFailure() {
		e := res.Error()
		return c.Status(statusFor(e.Code)).JSON(dto.ErrorResponse{Code: e.Code, Message: e.Message})
	}
	return c.Status(okStatus).JSON(res.Value())
}

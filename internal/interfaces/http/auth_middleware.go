package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Academia-api/internal/application/auth"
	"github.com/jhoicas/Academia-api/internal/application/dto"
	"github.com/jhoicas/Academia-api/internal/domain/actor"
	"github.com/jhoicas/Academia-api/pkg/result"
)

// Locals keys para el actor en Fiber. El actor también viaja en c.UserContext().
const (
	LocalUserID = "user_id"
	LocalRoles  = "roles"
)

// TokenValidator valida un access token y devuelve el actor.
type TokenValidator interface {
	ValidateAndDecode(token string) result.Result[actor.Actor]
}

// AuthMiddleware valida el Bearer Token y deja el actor en c.Locals y en el contexto de la petición.
// Todo rechazo responde 401 con el mismo mensaje genérico.
func AuthMiddleware(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "MISSING_TOKEN")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "INVALID_TOKEN")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return unauthorized(c, "MISSING_TOKEN")
		}
		res := tokens.ValidateAndDecode(tokenString)
		if res.IsFailure() {
			code := "INVALID_TOKEN"
			if res.Error().Code == result.CodeExpired {
				code = "TOKEN_EXPIRED"
			}
			return unauthorized(c, code)
		}
		a := res.Value()
		c.Locals(LocalUserID, a.UserID)
		c.Locals(LocalRoles, a.Roles)
		c.SetUserContext(actor.WithActor(c.UserContext(), a))
		return c.Next()
	}
}

// RequireRole permite el paso si el actor tiene alguno de los roles. Debe ir después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, ok := GetActor(c)
		if !ok {
			return unauthorized(c, "MISSING_TOKEN")
		}
		if !a.HasRole(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "Forbidden."})
		}
		return c.Next()
	}
}

// GetActor devuelve el actor de la petición (después del middleware de auth).
func GetActor(c *fiber.Ctx) (actor.Actor, bool) {
	a, ok := actor.FromContext(c.UserContext())
	if !ok || !a.Authenticated {
		return actor.Actor{}, false
	}
	return a, true
}

// GetUserID devuelve el subject del actor (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRoles devuelve los roles del actor (después del middleware de auth).
func GetRoles(c *fiber.Ctx) []string {
	r, _ := c.Locals(LocalRoles).([]string)
	return r
}

func unauthorized(c *fiber.Ctx, code string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: auth.MsgUnauthorized})
}

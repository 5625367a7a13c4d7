package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Academia-api/internal/application/auth"
	"github.com/jhoicas/Academia-api/internal/application/usecase"
	"github.com/jhoicas/Academia-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC *auth.AuthUseCase
	UserUC *usecase.UserUseCase
	Tokens TokenValidator
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.Tokens)

	// Auth (público salvo /me)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Usuarios (solo admin)
	users := api.Group("/users", requireAuth, RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Delete("/:id", userHandler.Delete)
	users.Post("/:id/restore", userHandler.Restore)
	users.Put("/:id/roles", userHandler.AssignRoles)
}

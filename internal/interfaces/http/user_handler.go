package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/Academia-api/internal/application/dto"
	"github.com/jhoicas/Academia-api/internal/application/usecase"
	"github.com/jhoicas/Academia-api/internal/domain/repository"
)

// UserHandler administración de usuarios (solo admin).
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        limit            query  int   false  "máximo 100"
// @Param        offset           query  int   false  "desplazamiento"
// @Param        include_deleted  query  bool  false  "incluir borrados"
// @Success      200  {object}  dto.UserListResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "Invalid query parameters."})
	}
	res, err := h.uc.List(c.UserContext(), page)
	return writeResult(c, fiber.StatusOK, res, err)
}

// GetByID godoc
// @Summary      Obtener usuario
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id               path   string  true   "ID del usuario"
// @Param        include_deleted  query  bool    false  "incluir borrados"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	mode := repository.ModeFromFlag(c.QueryBool("include_deleted"))
	res, err := h.uc.GetByID(c.UserContext(), id, mode)
	return writeResult(c, fiber.StatusOK, res, err)
}

// Delete godoc
// @Summary      Borrar usuario (lógico)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	res, err := h.uc.Delete(c.UserContext(), id)
	return writeResult(c, fiber.StatusOK, res, err)
}

// Restore godoc
// @Summary      Restaurar usuario borrado
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.UserResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/restore [post]
func (h *UserHandler) Restore(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	res, err := h.uc.Restore(c.UserContext(), id)
	return writeResult(c, fiber.StatusOK, res, err)
}

// AssignRoles godoc
// @Summary      Reemplazar roles
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true  "ID del usuario"
// @Param        body  body  dto.AssignRolesRequest  true  "roles"
// @Success      200  {object}  dto.UserResponse
// @Router       /api/users/{id}/roles [put]
func (h *UserHandler) AssignRoles(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	var in dto.AssignRolesRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.uc.AssignRoles(c.UserContext(), id, in)
	return writeResult(c, fiber.StatusOK, res, err)
}

func pathID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "Invalid id."})
}

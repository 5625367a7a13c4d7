package dto

import (
	"time"

	"github.com/jhoicas/Academia-api/internal/domain/entity"
)

// UserResponse salida de un usuario (sin password) con sus campos de auditoría.
type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Roles       []string   `json:"roles"`
	CreatedAt   time.Time  `json:"created_at"`
	CreatedBy   string     `json:"created_by"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	UpdatedBy   *string    `json:"updated_by,omitempty"`
	IsDeleted   bool       `json:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	DeletedBy   *string    `json:"deleted_by,omitempty"`
}

// NewUserResponse mapea la entidad a su salida.
func NewUserResponse(u *entity.User) UserResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Roles:       roles,
		CreatedAt:   u.CreatedAt,
		CreatedBy:   u.CreatedBy,
		UpdatedAt:   u.UpdatedAt,
		UpdatedBy:   u.UpdatedBy,
		IsDeleted:   u.IsDeleted,
		DeletedAt:   u.DeletedAt,
		DeletedBy:   u.DeletedBy,
	}
}

// UserListResponse página de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// AssignRolesRequest reemplaza los roles de un usuario.
type AssignRolesRequest struct {
	Roles []string `json:"roles" validate:"required,dive,oneof=admin instructor staff student"`
}

package dto

import "time"

// RegisterRequest entrada del registro.
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// LoginRequest entrada del login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest entrada de refresh y logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResult sobre de respuesta de los flujos de autenticación.
// Con Success=false token es null y Errors trae los mensajes; Code es el código del primer error.
type AuthResult struct {
	Success      bool       `json:"success"`
	Token        *string    `json:"token"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Code         string     `json:"code,omitempty"`
	Errors       []string   `json:"errors"`
}

// AccessToken devuelve el token o "" si el flujo falló.
func (r AuthResult) AccessToken() string {
	if r.Token == nil {
		return ""
	}
	return *r.Token
}

// AuthFailure construye un AuthResult fallido.
func AuthFailure(code string, messages ...string) AuthResult {
	return AuthResult{Success: false, Code: code, Errors: messages}
}

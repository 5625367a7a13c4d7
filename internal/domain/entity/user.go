package entity

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleInstructor = "instructor"
	RoleStaff      = "staff"
	RoleStudent    = "student"
)

// ValidRoles roles aceptados al asignar permisos.
var ValidRoles = []string{RoleAdmin, RoleInstructor, RoleStaff, RoleStudent}

// User registro de credenciales de la academia. Auditable y con borrado lógico.
type User struct {
	AuditableEntity
	Email           string
	NormalizedEmail string
	PasswordHash    string // bcrypt, nunca la contraseña plana
	DisplayName     string
	Roles           []string
}

// NewUser construye un usuario nuevo sin roles.
func NewUser(email, passwordHash string) *User {
	return &User{
		AuditableEntity: NewAuditableEntity(),
		Email:           strings.TrimSpace(email),
		NormalizedEmail: NormalizeEmail(email),
		PasswordHash:    passwordHash,
		DisplayName:     strings.TrimSpace(email),
		Roles:           []string{},
	}
}

// TableName tabla de destino.
func (u *User) TableName() string { return "users" }

// SetRoles reemplaza los roles, sin duplicados y en orden estable.
func (u *User) SetRoles(roles []string) {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.ToLower(strings.TrimSpace(r))
		if r != "" && !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	slices.Sort(out)
	u.Roles = out
}

// IsValidRole indica si el rol existe.
func IsValidRole(role string) bool {
	return slices.Contains(ValidRoles, role)
}

// NormalizeEmail forma canónica del email para búsquedas y unicidad.
// cases.Caser no se comparte entre goroutines, por eso se crea en cada llamada.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

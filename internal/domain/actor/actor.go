// Package actor resuelve la identidad que origina una petición. La identidad viaja en el
// context.Context de la petición; no hay estado global.
package actor

import (
	"context"
	"slices"
)

// System identificador persistido en los campos de auditoría cuando no hay actor autenticado.
const System = "System"

// Actor identidad resuelta a partir de los claims de un token válido.
type Actor struct {
	UserID        string   // subject del token
	AccountID     string   // id del registro de credenciales (claim uid)
	UserName      string
	Roles         []string
	Authenticated bool
}

// HasRole indica si el actor tiene alguno de los roles dados.
func (a Actor) HasRole(roles ...string) bool {
	for _, r := range roles {
		if slices.Contains(a.Roles, r) {
			return true
		}
	}
	return false
}

type ctxKey struct{}

// WithActor devuelve un contexto hijo con el actor de la petición.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext devuelve el actor de la petición, si existe.
func FromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	a, ok := ctx.Value(ctxKey{}).(Actor)
	return a, ok
}

// Resolver puerto de lectura del actor actual. Todas las lecturas son puras.
type Resolver interface {
	CurrentUserID(ctx context.Context) (string, bool)
	CurrentUserName(ctx context.Context) (string, bool)
	IsAuthenticated(ctx context.Context) bool
}

// ContextResolver implementa Resolver leyendo el actor guardado con WithActor.
type ContextResolver struct{}

var _ Resolver = ContextResolver{}

// NewContextResolver construye el resolver basado en contexto.
func NewContextResolver() ContextResolver { return ContextResolver{} }

// CurrentUserID devuelve el subject del actor autenticado.
func (ContextResolver) CurrentUserID(ctx context.Context) (string, bool) {
	a, ok := FromContext(ctx)
	if !ok || !a.Authenticated || a.UserID == "" {
		return "", false
	}
	return a.UserID, true
}

// CurrentUserName devuelve el nombre del actor autenticado.
func (ContextResolver) CurrentUserName(ctx context.Context) (string, bool) {
	a, ok := FromContext(ctx)
	if !ok || !a.Authenticated || a.UserName == "" {
		return "", false
	}
	return a.UserName, true
}

// IsAuthenticated indica si la petición trae un actor autenticado.
func (ContextResolver) IsAuthenticated(ctx context.Context) bool {
	a, ok := FromContext(ctx)
	return ok && a.Authenticated
}

// IDOrSystem devuelve el id del actor actual o System.
func IDOrSystem(ctx context.Context, r Resolver) string {
	if r == nil {
		return System
	}
	if id, ok := r.CurrentUserID(ctx); ok {
		return id
	}
	return System
}

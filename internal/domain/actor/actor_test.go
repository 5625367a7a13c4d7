package actor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Academia-api/internal/domain/actor"
)

func TestContextResolver_SinActor(t *testing.T) {
	r := actor.NewContextResolver()
	ctx := context.Background()

	id, ok := r.CurrentUserID(ctx)
	assert.False(t, ok)
	assert.Empty(t, id)
	assert.False(t, r.IsAuthenticated(ctx))
	assert.Equal(t, actor.System, actor.IDOrSystem(ctx, r))
}

func TestContextResolver_ActorAutenticado(t *testing.T) {
	r := actor.NewContextResolver()
	ctx := actor.WithActor(context.Background(), actor.Actor{
		UserID:        "a@x.com",
		UserName:      "Ana",
		Roles:         []string{"admin"},
		Authenticated: true,
	})

	id, ok := r.CurrentUserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "a@x.com", id)
	name, ok := r.CurrentUserName(ctx)
	assert.True(t, ok)
	assert.Equal(t, "Ana", name)
	assert.True(t, r.IsAuthenticated(ctx))
	assert.Equal(t, "a@x.com", actor.IDOrSystem(ctx, r))
}

// Un actor no autenticado en el contexto no cuenta como identidad.
func TestContextResolver_ActorNoAutenticado(t *testing.T) {
	r := actor.NewContextResolver()
	ctx := actor.WithActor(context.Background(), actor.Actor{UserID: "a@x.com"})

	_, ok := r.CurrentUserID(ctx)
	assert.False(t, ok)
	assert.Equal(t, actor.System, actor.IDOrSystem(ctx, r))
}

func TestActor_HasRole(t *testing.T) {
	a := actor.Actor{Roles: []string{"staff", "instructor"}}
	assert.True(t, a.HasRole("admin", "instructor"))
	assert.False(t, a.HasRole("admin"))
	assert.False(t, actor.Actor{}.HasRole("admin"))
}

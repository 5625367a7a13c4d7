package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Academia-api/internal/domain/actor"
	"github.com/jhoicas/Academia-api/internal/domain/entity"
	"github.com/jhoicas/Academia-api/internal/domain/repository"
	"github.com/jhoicas/Academia-api/internal/infrastructure/memory"
	"github.com/jhoicas/Academia-api/pkg/password"
)

func TestSeedAdmin_CreaYPromueve(t *testing.T) {
	ctx := context.Background()
	uows := memory.NewUnitOfWorkFactory(memory.NewStore(), actor.NewContextResolver(), nil)
	hasher := password.NewHasher(bcrypt.MinCost)

	require.NoError(t, seedAdmin(ctx, uows, hasher, "root@academia.test", "Aa1!aaaa"))
	u, err := uows.New().Users().GetByEmail(ctx, "root@academia.test", repository.Active)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, []string{entity.RoleAdmin}, u.Roles)
	assert.Equal(t, actor.System, u.CreatedBy)
	assert.True(t, hasher.Verify("Aa1!aaaa", u.PasswordHash))

	// segunda ejecución: no duplica, conserva el rol
	require.NoError(t, seedAdmin(ctx, uows, hasher, "root@academia.test", "otra"))
	n, err := uows.New().Users().Count(ctx, repository.IncludeDeleted)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

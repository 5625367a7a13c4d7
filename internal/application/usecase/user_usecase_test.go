package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Academia-api/internal/application/dto"
	"github.com/jhoicas/Academia-api/internal/application/usecase"
	"github.com/jhoicas/Academia-api/internal/application/validation"
	"github.com/jhoicas/Academia-api/internal/domain/actor"
	"github.com/jhoicas/Academia-api/internal/domain/entity"
	"github.com/jhoicas/Academia-api/internal/domain/repository"
	"github.com/jhoicas/Academia-api/internal/infrastructure/memory"
	"github.com/jhoicas/Academia-api/pkg/result"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc      *usecase.UserUseCase
	uows    *memory.UnitOfWorkFactory
	refresh *memory.RefreshTokenStore
}

func newFixture() *fixture {
	uows := memory.NewUnitOfWorkFactory(memory.NewStore(), actor.NewContextResolver(), nil)
	refresh := memory.NewRefreshTokenStore(nil)
	return &fixture{
		uc:      usecase.NewUserUseCase(uows, refresh, validation.New(), zerolog.Nop()),
		uows:    uows,
		refresh: refresh,
	}
}

func (f *fixture) seed(t *testing.T, email string) *entity.User {
	t.Helper()
	u := entity.NewUser(email, "hash")
	uow := f.uows.New()
	uow.Users().Add(u)
	_, err := uow.SaveChanges(context.Background())
	require.NoError(t, err)
	return u
}

func asAdmin() context.Context {
	return actor.WithActor(context.Background(), actor.Actor{
		UserID: "admin@x.com", Roles: []string{entity.RoleAdmin}, Authenticated: true,
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Escenario completo: borrar, no verlo por defecto, verlo con include_deleted.
func TestDelete_OcultaPorDefecto_VisibleConIncludeDeleted(t *testing.T) {
	f := newFixture()
	u := f.seed(t, "a@x.com")
	require.NoError(t, f.refresh.Store(context.Background(), "h", u.ID, time.Hour))

	res, err := f.uc.Delete(asAdmin(), u.ID)
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.True(t, res.Value().IsDeleted)
	assert.Equal(t, "admin@x.com", *res.Value().DeletedBy)
	assert.Zero(t, f.refresh.Len(), "se revocan los refresh tokens")

	def, err := f.uc.GetByID(context.Background(), u.ID, repository.Active)
	require.NoError(t, err)
	assert.Equal(t, result.CodeNotFound, def.Error().Code)

	all, err := f.uc.GetByID(context.Background(), u.ID, repository.IncludeDeleted)
	require.NoError(t, err)
	require.True(t, all.IsSuccess())
	assert.True(t, all.Value().IsDeleted)
	assert.NotNil(t, all.Value().DeletedAt)
}

func TestDelete_Inexistente(t *testing.T) {
	f := newFixture()

	res, err := f.uc.Delete(asAdmin(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, result.CodeNotFound, res.Error().Code)
}

func TestRestore(t *testing.T) {
	f := newFixture()
	u := f.seed(t, "a@x.com")
	_, err := f.uc.Delete(asAdmin(), u.ID)
	require.NoError(t, err)

	res, err := f.uc.Restore(asAdmin(), u.ID)
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.False(t, res.Value().IsDeleted)
	assert.Nil(t, res.Value().DeletedAt)
	assert.Nil(t, res.Value().DeletedBy)
	assert.Equal(t, "admin@x.com", *res.Value().UpdatedBy)

	visible, err := f.uc.GetByID(context.Background(), u.ID, repository.Active)
	require.NoError(t, err)
	require.True(t, visible.IsSuccess(), "restaurado vuelve a las lecturas por defecto")
	assert.False(t, visible.Value().IsDeleted)

	again, err := f.uc.Restore(asAdmin(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, result.CodeConflict, again.Error().Code)
}

// Si mientras tanto se registró otra cuenta activa con el mismo email, no se restaura.
func TestRestore_EmailOcupado(t *testing.T) {
	f := newFixture()
	u := f.seed(t, "a@x.com")
	_, err := f.uc.Delete(asAdmin(), u.ID)
	require.NoError(t, err)
	f.seed(t, "a@x.com")

	res, err := f.uc.Restore(asAdmin(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, usecase.MsgEmailTakenActive, res.Error().Message)
}

func TestList_ModoYPaginacion(t *testing.T) {
	f := newFixture()
	a := f.seed(t, "a@x.com")
	f.seed(t, "b@x.com")
	f.seed(t, "c@x.com")
	_, err := f.uc.Delete(asAdmin(), a.ID)
	require.NoError(t, err)

	active, err := f.uc.List(context.Background(), dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, active.Value().Page.Total)
	assert.Equal(t, 20, active.Value().Page.Limit)

	all, err := f.uc.List(context.Background(), dto.PageRequest{IncludeDeleted: true, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Value().Page.Total)
	assert.Len(t, all.Value().Items, 2)
}

func TestAssignRoles(t *testing.T) {
	f := newFixture()
	u := f.seed(t, "a@x.com")

	res, err := f.uc.AssignRoles(asAdmin(), u.ID, dto.AssignRolesRequest{Roles: []string{"staff", "instructor"}})
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.Equal(t, []string{"instructor", "staff"}, res.Value().Roles)

	bad, err := f.uc.AssignRoles(asAdmin(), u.ID, dto.AssignRolesRequest{Roles: []string{"root"}})
	require.NoError(t, err)
	assert.True(t, bad.IsFailure())
}

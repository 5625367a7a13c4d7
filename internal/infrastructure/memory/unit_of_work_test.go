package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Academia-api/internal/domain"
	"github.com/jhoicas/Academia-api/internal/domain/actor"
	"github.com/jhoicas/Academia-api/internal/domain/entity"
	"github.com/jhoicas/Academia-api/internal/domain/repository"
	"github.com/jhoicas/Academia-api/internal/infrastructure/memory"
)

func newFactory() (*memory.Store, *memory.UnitOfWorkFactory) {
	store := memory.NewStore()
	return store, memory.NewUnitOfWorkFactory(store, actor.NewContextResolver(), nil)
}

// Borrar y leer: el modo por defecto no lo ve, IncludeDeleted sí y con isDeleted=true.
func TestBorradoLogico_VisibilidadPorModo(t *testing.T) {
	_, f := newFactory()
	ctx := context.Background()

	uow := f.New()
	u := entity.NewUser("a@x.com", "hash")
	uow.Users().Add(u)
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	uow = f.New()
	loaded, err := uow.Users().GetByID(ctx, u.ID, repository.Active)
	require.NoError(t, err)
	uow.Users().Remove(loaded)
	_, err = uow.SaveChanges(ctx)
	require.NoError(t, err)

	got, err := f.New().Users().GetByID(ctx, u.ID, repository.Active)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = f.New().Users().GetByID(ctx, u.ID, repository.IncludeDeleted)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsDeleted)
	assert.Equal(t, actor.System, *got.DeletedBy)
}

func TestEmailUnicoEntreActivos(t *testing.T) {
	_, f := newFactory()
	ctx := context.Background()

	uow := f.New()
	uow.Users().Add(entity.NewUser("a@x.com", "hash"))
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	uow = f.New()
	uow.Users().Add(entity.NewUser("A@X.com", "hash"))
	_, err = uow.SaveChanges(ctx)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestTransaccion_RollbackDescarta(t *testing.T) {
	_, f := newFactory()
	ctx := context.Background()
	u := entity.NewUser("a@x.com", "hash")

	uow := f.New()
	require.NoError(t, uow.Begin(ctx))
	uow.Add(u)
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	seen, err := uow.Users().GetByID(ctx, u.ID, repository.Active)
	require.NoError(t, err)
	assert.NotNil(t, seen, "la propia transacción ve sus cambios")

	require.NoError(t, uow.Rollback(ctx))
	got, err := f.New().Users().GetByID(ctx, u.ID, repository.Active)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRefreshTokenStore_Expira(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := memory.NewRefreshTokenStore(func() time.Time { return now })
	ctx := context.Background()
	id := entity.NewEntity().ID

	require.NoError(t, s.Store(ctx, "h1", id, time.Minute))
	got, err := s.Consume(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	require.NoError(t, s.Store(ctx, "h2", id, 0))
	_, err = s.Consume(ctx, "h2")
	assert.ErrorIs(t, err, domain.ErrRefreshTokenInvalid)
}

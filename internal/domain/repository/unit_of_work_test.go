package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Academia-api/internal/domain/actor"
	"github.com/jhoicas/Academia-api/internal/domain/entity"
	"github.com/jhoicas/Academia-api/internal/domain/repository"
	"github.com/jhoicas/Academia-api/internal/infrastructure/memory"
)

func TestRunInTx_CommitYRollback(t *testing.T) {
	ctx := context.Background()
	uows := memory.NewUnitOfWorkFactory(memory.NewStore(), actor.NewContextResolver(), nil)

	ok := entity.NewUser("a@x.com", "h")
	require.NoError(t, repository.RunInTx(ctx, uows, func(uow repository.UnitOfWork) error {
		uow.Users().Add(ok)
		return nil
	}))

	boom := errors.New("boom")
	err := repository.RunInTx(ctx, uows, func(uow repository.UnitOfWork) error {
		uow.Users().Add(entity.NewUser("b@x.com", "h"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := uows.New().Users().Count(ctx, repository.IncludeDeleted)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

package repository

import (
	"context"
	"fmt"

	"github.com/jhoicas/Academia-api/internal/domain/entity"
)

// UnitOfWork agrupa los cambios de una petición y los escribe juntos.
// Una instancia por petición; no se comparte entre goroutines.
type UnitOfWork interface {
	Users() UserRepository

	Add(e entity.Identifiable)
	Update(e entity.Identifiable)
	Remove(e entity.Identifiable)

	// SaveChanges sella y escribe los cambios pendientes. Es atómico por sí solo;
	// dentro de Begin/Commit escribe sobre la transacción abierta. Devuelve filas afectadas.
	SaveChanges(ctx context.Context) (int64, error)

	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UnitOfWorkFactory crea una unidad de trabajo nueva por petición.
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// RunInTx abre una unidad de trabajo con transacción explícita, ejecuta fn, guarda los
// cambios pendientes y hace Commit. Si fn o el guardado fallan, hace Rollback.
func RunInTx(ctx context.Context, uows UnitOfWorkFactory, fn func(uow UnitOfWork) error) error {
	uow := uows.New()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = uow.Rollback(ctx) }()

	if err := fn(uow); err != nil {
		return err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

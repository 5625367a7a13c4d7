package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Academia-api/internal/domain"
	"github.com/jhoicas/Academia-api/internal/domain/actor"
	"github.com/jhoicas/Academia-api/internal/domain/audit"
	"github.com/jhoicas/Academia-api/internal/domain/entity"
	"github.com/jhoicas/Academia-api/internal/domain/repository"
	"github.com/jhoicas/Academia-api/pkg/metrics"
)

var (
	_ repository.UnitOfWork        = (*UnitOfWork)(nil)
	_ repository.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
)

// mappers tablas que la unidad de trabajo sabe escribir.
var mappers = map[string]mapper{
	userTable.name(): userTable,
}

// UnitOfWorkFactory crea una UnitOfWork por petición sobre el pool compartido.
type UnitOfWorkFactory struct {
	db      DB
	stamper *audit.Stamper
	log     zerolog.Logger
}

// NewUnitOfWorkFactory construye la fábrica. now nil usa time.Now.
func NewUnitOfWorkFactory(db DB, resolver actor.Resolver, now func() time.Time, log zerolog.Logger) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db, stamper: audit.NewStamper(resolver, now), log: log}
}

// New crea una unidad de trabajo vacía.
func (f *UnitOfWorkFactory) New() repository.UnitOfWork {
	return newUnitOfWork(f.db, f.stamper, f.log)
}

// UnitOfWork registra cambios y los escribe con SaveChanges. No es segura para uso concurrente.
type UnitOfWork struct {
	db      DB
	stamper *audit.Stamper
	log     zerolog.Logger
	pending []audit.Change
	tx      pgx.Tx
	users   *UserRepo
}

func newUnitOfWork(db DB, stamper *audit.Stamper, log zerolog.Logger) *UnitOfWork {
	u := &UnitOfWork{db: db, stamper: stamper, log: log}
	u.users = newUserRepository(u)
	return u
}

// Users repositorio de usuarios ligado a esta unidad de trabajo.
func (u *UnitOfWork) Users() repository.UserRepository { return u.users }

// Add registra una inserción.
func (u *UnitOfWork) Add(e entity.Identifiable) { u.track(audit.Added, e) }

// Update registra una modificación.
func (u *UnitOfWork) Update(e entity.Identifiable) { u.track(audit.Modified, e) }

// Remove registra un borrado; para entidades auditables se escribe como borrado lógico.
func (u *UnitOfWork) Remove(e entity.Identifiable) { u.track(audit.Deleted, e) }

// track registra el cambio. Si la entidad ya está pendiente se combina el estado:
// Added+Modified sigue siendo Added y Added+Deleted descarta la inserción.
func (u *UnitOfWork) track(state audit.State, e entity.Identifiable) {
	for i, ch := range u.pending {
		if ch.Entity.GetID() != e.GetID() || ch.Entity.TableName() != e.TableName() {
			continue
		}
		switch {
		case ch.State == audit.Added && state == audit.Modified:
			u.pending[i].Entity = e
		case ch.State == audit.Added && state == audit.Deleted:
			u.pending = append(u.pending[:i], u.pending[i+1:]...)
		default:
			u.pending[i] = audit.Change{State: state, Entity: e}
		}
		return
	}
	u.pending = append(u.pending, audit.Change{State: state, Entity: e})
}

// Pending cantidad de cambios sin escribir.
func (u *UnitOfWork) Pending() int { return len(u.pending) }

func (u *UnitOfWork) querier() Querier {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// SaveChanges sella los cambios pendientes y los escribe. Sin transacción explícita abre una propia.
// Si falla, los cambios quedan pendientes y no se escribe nada.
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int64, error) {
	if len(u.pending) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	changes := u.stamper.Apply(ctx, u.pending)

	if u.tx != nil {
		n, err := u.write(ctx, u.tx, changes)
		if err != nil {
			metrics.UnitOfWorkCommitsTotal.WithLabelValues("error").Inc()
			return 0, err
		}
		u.pending = nil
		return n, nil
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	n, err := u.write(ctx, tx, changes)
	if err != nil {
		metrics.UnitOfWorkCommitsTotal.WithLabelValues("error").Inc()
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		metrics.UnitOfWorkCommitsTotal.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	metrics.UnitOfWorkCommitsTotal.WithLabelValues("ok").Inc()
	u.log.Debug().Int("changes", len(changes)).Int64("rows", n).Msg("cambios guardados")
	u.pending = nil
	return n, nil
}

func (u *UnitOfWork) write(ctx context.Context, q Querier, changes []audit.Change) (int64, error) {
	var total int64
	for _, ch := range changes {
		m, ok := mappers[ch.Entity.TableName()]
		if !ok {
			return 0, fmt.Errorf("tabla no registrada: %s", ch.Entity.TableName())
		}
		var (
			query string
			args  []any
			err   error
		)
		switch ch.State {
		case audit.Added:
			query, args, err = m.insertSQL(ch.Entity)
		case audit.Modified:
			query, args, err = m.updateSQL(ch.Entity)
		case audit.Deleted:
			query, args = m.deleteSQL(ch.Entity)
		default:
			err = fmt.Errorf("estado de cambio desconocido: %d", ch.State)
		}
		if err != nil {
			return 0, err
		}
		tag, err := q.Exec(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return 0, fmt.Errorf("%s %s %s: %w", ch.State, m.name(), ch.Entity.GetID(), uniqueViolationErr(err))
			}
			return 0, fmt.Errorf("%s %s: %w", ch.State, m.name(), err)
		}
		if ch.State == audit.Modified && tag.RowsAffected() == 0 {
			return 0, fmt.Errorf("update %s %s: %w", m.name(), ch.Entity.GetID(), domain.ErrNotFound)
		}
		total += tag.RowsAffected()
	}
	return total, nil
}

// Begin abre una transacción explícita; los SaveChanges siguientes escriben sobre ella.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return domain.ErrTransactionActive
	}
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	u.tx = tx
	return nil
}

// Commit confirma la transacción explícita.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return domain.ErrNoTransaction
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(context.WithoutCancel(ctx))
		metrics.UnitOfWorkCommitsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("commit transaction: %w", err)
	}
	metrics.UnitOfWorkCommitsTotal.WithLabelValues("ok").Inc()
	return nil
}

// Rollback descarta la transacción explícita y los cambios pendientes. Sin transacción no hace nada,
// así que puede diferirse tras Begin. Se ejecuta aunque ctx esté cancelado.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	u.pending = nil
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		u.log.Error().Err(err).Msg("rollback transaction")
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

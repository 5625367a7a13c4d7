// Package memory implementa los puertos de persistencia en memoria con la misma semántica que
// el adaptador PostgreSQL: sellado de auditoría, borrado lógico, filtro de borrados, transacciones
// y unicidad del email entre cuentas activas. Lo usan los tests de casos de uso y de HTTP.
package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Academia-api/internal/domain"
	"github.com/jhoicas/Academia-api/internal/domain/actor"
	"github.com/jhoicas/Academia-api/internal/domain/audit"
	"github.com/jhoicas/Academia-api/internal/domain/entity"
	"github.com/jhoicas/Academia-api/internal/domain/repository"
)

var (
	_ repository.UnitOfWork        = (*UnitOfWork)(nil)
	_ repository.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
	_ repository.UserRepository    = (*userRepo)(nil)
)

// Store datos compartidos entre unidades de trabajo.
type Store struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
	// FailSave si no es nil, el próximo SaveChanges falla con este error.
	FailSave error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{users: make(map[uuid.UUID]*entity.User)}
}

// Snapshot copia de la fila guardada, incluidas las borradas.
func (s *Store) Snapshot(id uuid.UUID) (*entity.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	return cloneUser(u), true
}

func (s *Store) copyUsers() map[uuid.UUID]*entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uuid.UUID]*entity.User, len(s.users))
	for id, u := range s.users {
		out[id] = cloneUser(u)
	}
	return out
}

// UnitOfWorkFactory crea unidades de trabajo sobre un Store.
type UnitOfWorkFactory struct {
	store   *Store
	stamper *audit.Stamper
}

// NewUnitOfWorkFactory construye la fábrica. now nil usa time.Now.
func NewUnitOfWorkFactory(store *Store, resolver actor.Resolver, now func() time.Time) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store, stamper: audit.NewStamper(resolver, now)}
}

// New crea una unidad de trabajo vacía.
func (f *UnitOfWorkFactory) New() repository.UnitOfWork {
	u := &UnitOfWork{store: f.store, stamper: f.stamper}
	u.users = &userRepo{uow: u}
	return u
}

// UnitOfWork unidad de trabajo en memoria.
type UnitOfWork struct {
	store   *Store
	stamper *audit.Stamper
	pending []audit.Change
	staged  map[uuid.UUID]*entity.User // no nil con transacción abierta
	users   *userRepo
}

func (u *UnitOfWork) Users() repository.UserRepository { return u.users }

func (u *UnitOfWork) Add(e entity.Identifiable)    { u.track(audit.Added, e) }
func (u *UnitOfWork) Update(e entity.Identifiable) { u.track(audit.Modified, e) }
func (u *UnitOfWork) Remove(e entity.Identifiable) { u.track(audit.Deleted, e) }

func (u *UnitOfWork) track(state audit.State, e entity.Identifiable) {
	for i, ch := range u.pending {
		if ch.Entity.GetID() != e.GetID() {
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

// SaveChanges sella y aplica los cambios; sin transacción los publica de inmediato.
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int64, error) {
	if len(u.pending) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := u.store.FailSave; err != nil {
		u.store.FailSave = nil
		return 0, err
	}
	changes := u.stamper.Apply(ctx, u.pending)

	target := u.staged
	if target == nil {
		target = u.store.copyUsers()
	}
	work := make(map[uuid.UUID]*entity.User, len(target))
	for id, usr := range target {
		work[id] = usr
	}
	var n int64
	for _, ch := range changes {
		usr, ok := ch.Entity.(*entity.User)
		if !ok {
			return 0, fmt.Errorf("tabla no registrada: %s", ch.Entity.TableName())
		}
		switch ch.State {
		case audit.Added:
			if _, exists := work[usr.ID]; exists {
				return 0, fmt.Errorf("insert users %s: %w", usr.ID, domain.ErrDuplicate)
			}
		case audit.Modified:
			if _, exists := work[usr.ID]; !exists {
				return 0, fmt.Errorf("update users %s: %w", usr.ID, domain.ErrNotFound)
			}
		case audit.Deleted:
			delete(work, usr.ID)
			n++
			continue
		}
		if !usr.IsDeleted && emailTaken(work, usr) {
			return 0, fmt.Errorf("%s users %s: %w", ch.State, usr.ID, domain.ErrEmailAlreadyExists)
		}
		work[usr.ID] = cloneUser(usr)
		n++
	}

	if u.staged != nil {
		u.staged = work
	} else {
		u.store.mu.Lock()
		u.store.users = work
		u.store.mu.Unlock()
	}
	u.pending = nil
	return n, nil
}

func emailTaken(users map[uuid.UUID]*entity.User, candidate *entity.User) bool {
	for id, other := range users {
		if id != candidate.ID && !other.IsDeleted && other.NormalizedEmail == candidate.NormalizedEmail {
			return true
		}
	}
	return false
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.staged != nil {
		return domain.ErrTransactionActive
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.staged = u.store.copyUsers()
	return nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.staged == nil {
		return domain.ErrNoTransaction
	}
	staged := u.staged
	u.staged = nil
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	u.store.mu.Lock()
	u.store.users = staged
	u.store.mu.Unlock()
	return nil
}

func (u *UnitOfWork) Rollback(context.Context) error {
	if u.staged == nil {
		return nil
	}
	u.staged = nil
	u.pending = nil
	return nil
}

// view filas visibles para esta unidad de trabajo.
func (u *UnitOfWork) view() map[uuid.UUID]*entity.User {
	if u.staged != nil {
		return u.staged
	}
	return u.store.copyUsers()
}

type userRepo struct {
	uow *UnitOfWork
}

func (r *userRepo) Add(user *entity.User)    { r.uow.Add(user) }
func (r *userRepo) Update(user *entity.User) { r.uow.Update(user) }
func (r *userRepo) Remove(user *entity.User) { r.uow.Remove(user) }

func visible(u *entity.User, mode repository.QueryMode) bool {
	return mode == repository.IncludeDeleted || !u.IsDeleted
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID, mode repository.QueryMode) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, ok := r.uow.view()[id]
	if !ok || !visible(u, mode) {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string, mode repository.QueryMode) (*entity.User, error) {
	list, err := r.List(ctx, mode, 0, 0)
	if err != nil {
		return nil, err
	}
	norm := entity.NormalizeEmail(email)
	// activa primero, igual que el adaptador SQL
	sort.SliceStable(list, func(i, j int) bool { return !list[i].IsDeleted && list[j].IsDeleted })
	for _, u := range list {
		if u.NormalizedEmail == norm {
			return u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) List(ctx context.Context, mode repository.QueryMode, limit, offset int) ([]*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]*entity.User, 0)
	for _, u := range r.uow.view() {
		if visible(u, mode) {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset > 0 {
		if offset >= len(out) {
			return []*entity.User{}, nil
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *userRepo) Count(ctx context.Context, mode repository.QueryMode) (int, error) {
	list, err := r.List(ctx, mode, 0, 0)
	return len(list), err
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.Roles = slices.Clone(u.Roles)
	if c.Roles == nil {
		c.Roles = []string{}
	}
	c.UpdatedAt = clonePtr(u.UpdatedAt)
	c.UpdatedBy = clonePtr(u.UpdatedBy)
	c.DeletedAt = clonePtr(u.DeletedAt)
	c.DeletedBy = clonePtr(u.DeletedBy)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// ErrStoreUnavailable error de infraestructura simulado para tests.
var ErrStoreUnavailable = errors.New("memory: almacén no disponible")

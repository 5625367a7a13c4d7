package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/Academia-api/internal/domain/entity"
	"github.com/jhoicas/Academia-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

var userTable = newTable("users",
	[]string{"email", "normalized_email", "password_hash", "display_name", "roles"},
	func(u *entity.User) []any {
		roles := u.Roles
		if roles == nil {
			roles = []string{}
		}
		return []any{u.Email, u.NormalizedEmail, u.PasswordHash, u.DisplayName, roles}
	},
	func() (*entity.User, []any) {
		u := &entity.User{}
		return u, []any{&u.ID, &u.Email, &u.NormalizedEmail, &u.PasswordHash, &u.DisplayName, &u.Roles}
	},
)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
// Las escrituras se registran en la unidad de trabajo; las lecturas usan su transacción si hay una abierta.
type UserRepo struct {
	uow *UnitOfWork
}

func newUserRepository(uow *UnitOfWork) *UserRepo {
	return &UserRepo{uow: uow}
}

// Add registra la inserción de un usuario.
func (r *UserRepo) Add(user *entity.User) { r.uow.Add(user) }

// Update registra la modificación de un usuario.
func (r *UserRepo) Update(user *entity.User) { r.uow.Update(user) }

// Remove registra el borrado (lógico) de un usuario.
func (r *UserRepo) Remove(user *entity.User) { r.uow.Remove(user) }

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID, mode repository.QueryMode) (*entity.User, error) {
	query, args := newSelect(userTable, userTable.selectColumns(), mode).WhereEq("id", id).SQL()
	u, err := userTable.scan(r.uow.querier().QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetByEmail obtiene un usuario por email normalizado. Con IncludeDeleted prioriza la cuenta activa
// y luego la más reciente.
func (r *UserRepo) GetByEmail(ctx context.Context, email string, mode repository.QueryMode) (*entity.User, error) {
	query, args := newSelect(userTable, userTable.selectColumns(), mode).
		WhereEq("normalized_email", entity.NormalizeEmail(email)).
		OrderBy("is_deleted ASC, created_at DESC").
		Page(1, 0).
		SQL()
	u, err := userTable.scan(r.uow.querier().QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// List lista usuarios con paginación, más recientes primero.
func (r *UserRepo) List(ctx context.Context, mode repository.QueryMode, limit, offset int) ([]*entity.User, error) {
	query, args := newSelect(userTable, userTable.selectColumns(), mode).
		OrderBy("created_at DESC").
		Page(limit, offset).
		SQL()
	rows, err := r.uow.querier().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.User, 0)
	for rows.Next() {
		u, err := userTable.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Count cuenta usuarios visibles en el modo pedido.
func (r *UserRepo) Count(ctx context.Context, mode repository.QueryMode) (int, error) {
	query, args := newSelect(userTable, nil, mode).CountSQL()
	var n int
	if err := r.uow.querier().QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

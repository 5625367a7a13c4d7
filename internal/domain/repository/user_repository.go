package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jhoicas/Academia-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Las escrituras solo registran el cambio; se aplican en UnitOfWork.SaveChanges.
// Las lecturas devuelven (nil, nil) si no hay fila visible en el modo pedido.
type UserRepository interface {
	Add(user *entity.User)
	Update(user *entity.User)
	Remove(user *entity.User)

	GetByID(ctx context.Context, id uuid.UUID, mode QueryMode) (*entity.User, error)
	GetByEmail(ctx context.Context, email string, mode QueryMode) (*entity.User, error)
	List(ctx context.Context, mode QueryMode, limit, offset int) ([]*entity.User, error)
	Count(ctx context.Context, mode QueryMode) (int, error)
}

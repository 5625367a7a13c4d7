package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenStore guarda refresh tokens del lado servidor, indexados por su hash.
// Consume devuelve domain.ErrRefreshTokenInvalid si el token no existe, expiró o ya se usó.
type RefreshTokenStore interface {
	Store(ctx context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error
	Consume(ctx context.Context, tokenHash string) (uuid.UUID, error)
	Revoke(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}

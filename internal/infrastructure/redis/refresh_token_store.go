package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Academia-api/internal/domain"
	"github.com/jhoicas/Academia-api/internal/domain/repository"
)

var _ repository.RefreshTokenStore = (*RefreshTokenStore)(nil)

// RefreshTokenStore refresh tokens en Redis.
// Claves: refresh:<sha256> -> user id (con TTL) y refresh:user:<user id> -> set de hashes vigentes.
type RefreshTokenStore struct {
	client redis.Cmdable
}

// NewRefreshTokenStore construye el store sobre un cliente Redis.
func NewRefreshTokenStore(client redis.Cmdable) *RefreshTokenStore {
	return &RefreshTokenStore{client: client}
}

// Store guarda el hash del token asociado al usuario.
func (s *RefreshTokenStore) Store(ctx context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, tokenKey(tokenHash), userID.String(), ttl)
		p.SAdd(ctx, userKey(userID), tokenHash)
		p.Expire(ctx, userKey(userID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// Consume obtiene y elimina el token en una sola operación (GETDEL): cada token sirve una vez.
func (s *RefreshTokenStore) Consume(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	raw, err := s.client.GetDel(ctx, tokenKey(tokenHash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, domain.ErrRefreshTokenInvalid
		}
		return uuid.Nil, fmt.Errorf("consume refresh token: %w", err)
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.ErrRefreshTokenInvalid
	}
	if err := s.client.SRem(ctx, userKey(userID), tokenHash).Err(); err != nil {
		return uuid.Nil, fmt.Errorf("consume refresh token: %w", err)
	}
	return userID, nil
}

// Revoke invalida un token. Revocar un token inexistente no es error.
func (s *RefreshTokenStore) Revoke(ctx context.Context, tokenHash string) error {
	_, err := s.Consume(ctx, tokenHash)
	if err != nil && !errors.Is(err, domain.ErrRefreshTokenInvalid) {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAllForUser invalida todos los refresh tokens del usuario.
func (s *RefreshTokenStore) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	hashes, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list refresh tokens: %w", err)
	}
	keys := make([]string, 0, len(hashes)+1)
	for _, h := range hashes {
		keys = append(keys, tokenKey(h))
	}
	keys = append(keys, userKey(userID))
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}

func tokenKey(hash string) string { return "refresh:" + hash }

func userKey(userID uuid.UUID) string { return "refresh:user:" + userID.String() }

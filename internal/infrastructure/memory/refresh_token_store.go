package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Academia-api/internal/domain"
	"github.com/jhoicas/Academia-api/internal/domain/repository"
)

var _ repository.RefreshTokenStore = (*RefreshTokenStore)(nil)

type refreshEntry struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// RefreshTokenStore refresh tokens en memoria con expiración.
type RefreshTokenStore struct {
	mu     sync.Mutex
	tokens map[string]refreshEntry
	now    func() time.Time
}

// NewRefreshTokenStore crea el store. now nil usa time.Now.
func NewRefreshTokenStore(now func() time.Time) *RefreshTokenStore {
	if now == nil {
		now = time.Now
	}
	return &RefreshTokenStore{tokens: make(map[string]refreshEntry), now: now}
}

func (s *RefreshTokenStore) Store(_ context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenHash] = refreshEntry{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *RefreshTokenStore) Consume(_ context.Context, tokenHash string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tokens[tokenHash]
	delete(s.tokens, tokenHash)
	if !ok || !s.now().Before(e.expiresAt) {
		return uuid.Nil, domain.ErrRefreshTokenInvalid
	}
	return e.userID, nil
}

func (s *RefreshTokenStore) Revoke(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, tokenHash)
	return nil
}

func (s *RefreshTokenStore) RevokeAllForUser(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for h, e := range s.tokens {
		if e.userID == userID {
			delete(s.tokens, h)
		}
	}
	return nil
}

// Len tokens vigentes o no consumidos.
func (s *RefreshTokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

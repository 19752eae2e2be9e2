package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bcnelson/flickrkit/internal/domain"
	"github.com/bcnelson/flickrkit/internal/storage"
)

// Ensure Store implements storage.TokenStore.
var _ storage.TokenStore = (*Store)(nil)

// Store is an in-memory implementation of the storage interface for testing.
type Store struct {
	mu sync.RWMutex

	tokens map[string]*domain.StoredToken // key: id
	byUser map[string]string              // key: apiKey:userID, value: id
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		tokens: make(map[string]*domain.StoredToken),
		byUser: make(map[string]string),
	}
}

func (s *Store) Close() error { return nil }

func userKey(apiKey, userID string) string {
	return apiKey + ":" + userID
}

func copyToken(t *domain.StoredToken) *domain.StoredToken {
	c := *t
	if t.CheckedAt != nil {
		checked := *t.CheckedAt
		c.CheckedAt = &checked
	}
	return &c
}

func (s *Store) SaveToken(ctx context.Context, token *domain.StoredToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := userKey(token.APIKey, token.UserID)
	if id, ok := s.byUser[key]; ok {
		token.ID = id
	} else if _, taken := s.tokens[token.ID]; taken {
		return domain.ErrAlreadyExists
	}
	s.tokens[token.ID] = copyToken(token)
	s.byUser[key] = token.ID
	return nil
}

func (s *Store) GetLatestToken(ctx context.Context, apiKey string) (*domain.StoredToken, error) {
	tokens, _ := s.ListTokens(ctx, apiKey)
	if len(tokens) == 0 {
		return nil, domain.ErrNotFound
	}
	return tokens[0], nil
}

func (s *Store) ListTokens(ctx context.Context, apiKey string) ([]*domain.StoredToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.StoredToken
	for _, t := range s.tokens {
		if t.APIKey == apiKey {
			result = append(result, copyToken(t))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) TouchToken(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now().UTC()
	t.CheckedAt = &now
	return nil
}

func (s *Store) DeleteToken(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.byUser, userKey(t.APIKey, t.UserID))
	delete(s.tokens, id)
	return nil
}

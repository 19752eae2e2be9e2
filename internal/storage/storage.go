// Package storage persists auth tokens between runs.
package storage

import (
	"context"

	"github.com/bcnelson/flickrkit/internal/domain"
)

// TokenStore defines the interface for token persistence.
// Implementations must be safe for concurrent use.
type TokenStore interface {
	// Close closes the storage connection.
	Close() error

	// SaveToken inserts token, or replaces the row stored for the same API
	// key and user. token.ID is set to the ID of the stored row.
	SaveToken(ctx context.Context, token *domain.StoredToken) error
	// GetLatestToken returns the most recently saved token for apiKey.
	GetLatestToken(ctx context.Context, apiKey string) (*domain.StoredToken, error)
	// ListTokens returns all tokens for apiKey, newest first.
	ListTokens(ctx context.Context, apiKey string) ([]*domain.StoredToken, error)
	// TouchToken records that the token was just validated remotely.
	TouchToken(ctx context.Context, id string) error
	DeleteToken(ctx context.Context, id string) error
}

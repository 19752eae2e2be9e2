package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bcnelson/flickrkit/internal/domain"
	"github.com/bcnelson/flickrkit/internal/storage"
	"github.com/bcnelson/flickrkit/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthClient is the part of the API client the token service drives.
type AuthClient interface {
	Credentials() domain.Credentials
	SetToken(token string)
	AuthGetFrob(ctx context.Context) (string, error)
	AuthCalcURL(frob string, perm domain.Permission) (string, error)
	AuthCalcWebURL(perm domain.Permission) (string, error)
	AuthGetToken(ctx context.Context, frob string) (*domain.Auth, error)
	AuthCheckToken(ctx context.Context, token string) (*domain.Auth, error)
	AuthGetFullToken(ctx context.Context, miniToken string) (*domain.Auth, error)
}

// TokenService runs the auth handshakes and keeps the resulting tokens in a
// store so later runs can resume the session.
type TokenService struct {
	store  storage.TokenStore
	client AuthClient
	logger *zap.Logger

	// mu serializes calls that replace the client's session token.
	mu sync.Mutex
}

// NewTokenService creates a new TokenService.
func NewTokenService(store storage.TokenStore, client AuthClient, logger *zap.Logger) *TokenService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenService{
		store:  store,
		client: client,
		logger: logger,
	}
}

// Restore loads the newest stored token, validates it remotely and makes it
// the session token. A token the remote service rejects is deleted.
func (s *TokenService) Restore(ctx context.Context) (*domain.Auth, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apiKey := s.client.Credentials().APIKey()
	stored, err := s.store.GetLatestToken(ctx, apiKey)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("no stored token: %w", domain.ErrNotAuthenticated)
	}
	if err != nil {
		return nil, fmt.Errorf("loading stored token: %w", err)
	}

	auth, err := s.client.AuthCheckToken(ctx, stored.Token)
	if domain.IsAPIErrorCode(err, domain.ErrCodeInvalidToken) {
		s.logger.Warn("stored token rejected, deleting",
			zap.String("token_id", stored.ID),
			zap.String("user_id", stored.UserID),
			zap.Error(err))
		if delErr := s.store.DeleteToken(ctx, stored.ID); delErr != nil {
			s.logger.Error("failed to delete rejected token", zap.Error(delErr))
		}
		return nil, fmt.Errorf("stored token rejected: %w: %w", domain.ErrNotAuthenticated, err)
	}
	if err != nil {
		return nil, err
	}

	s.client.SetToken(auth.Token)
	if err := s.store.TouchToken(ctx, stored.ID); err != nil {
		s.logger.Warn("failed to record token check", zap.String("token_id", stored.ID), zap.Error(err))
	}

	s.logger.Info("session restored",
		zap.String("user_id", auth.User.ID),
		zap.Stringer("perms", auth.Permissions))
	return auth, nil
}

// BeginDesktop starts the desktop handshake and returns the frob together
// with the URL the user must visit to approve it.
func (s *TokenService) BeginDesktop(ctx context.Context, perm domain.Permission) (frob, loginURL string, err error) {
	frob, err = s.client.AuthGetFrob(ctx)
	if err != nil {
		return "", "", err
	}
	loginURL, err = s.client.AuthCalcURL(frob, perm)
	if err != nil {
		return "", "", err
	}
	return frob, loginURL, nil
}

// CompleteFrob exchanges an approved frob for a token and stores it.
func (s *TokenService) CompleteFrob(ctx context.Context, frob string) (*domain.Auth, error) {
	if err := validation.ValidateFrob(frob); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	auth, err := s.client.AuthGetToken(ctx, frob)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, auth); err != nil {
		return nil, err
	}
	return auth, nil
}

// CompleteMiniToken exchanges a mini token for a full token and stores it.
func (s *TokenService) CompleteMiniToken(ctx context.Context, miniToken string) (*domain.Auth, error) {
	if err := validation.ValidateMiniToken(miniToken); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	auth, err := s.client.AuthGetFullToken(ctx, miniToken)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, auth); err != nil {
		return nil, err
	}
	return auth, nil
}

// WebLoginURL returns the web login URL for perm.
func (s *TokenService) WebLoginURL(perm domain.Permission) (string, error) {
	return s.client.AuthCalcWebURL(perm)
}

// Tokens lists the stored tokens for the client's API key, newest first.
func (s *TokenService) Tokens(ctx context.Context) ([]*domain.StoredToken, error) {
	return s.store.ListTokens(ctx, s.client.Credentials().APIKey())
}

// persist stores auth under the client's API key.
func (s *TokenService) persist(ctx context.Context, auth *domain.Auth) error {
	stored := &domain.StoredToken{
		ID:          uuid.New().String(),
		APIKey:      s.client.Credentials().APIKey(),
		Token:       auth.Token,
		Permissions: auth.Permissions.String(),
		UserID:      auth.User.ID,
		Username:    auth.User.Username,
		FullName:    auth.User.FullName,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.SaveToken(ctx, stored); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	s.logger.Info("token stored",
		zap.String("token_id", stored.ID),
		zap.String("user_id", stored.UserID),
		zap.String("perms", stored.Permissions))
	return nil
}

package sql

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bcnelson/flickrkit/internal/domain"
	"github.com/bcnelson/flickrkit/internal/storage"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Ensure Store implements storage.TokenStore.
var _ storage.TokenStore = (*Store)(nil)

// isUniqueViolation checks if an error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// SQLite
	if strings.Contains(errStr, "UNIQUE constraint failed") {
		return true
	}
	// PostgreSQL
	if strings.Contains(errStr, "duplicate key value violates unique constraint") {
		return true
	}
	return false
}

// wrapUniqueError converts UNIQUE violations to domain.ErrAlreadyExists.
func wrapUniqueError(err error) error {
	if isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

// Store implements storage.TokenStore using SQL.
type Store struct {
	db     *sqlx.DB
	driver string
}

// New creates a new SQL store and applies pending migrations.
func New(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	store, err := NewWithDB(db, driver)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewWithDB wraps an open connection and applies pending migrations.
func NewWithDB(db *sqlx.DB, driver string) (*Store, error) {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(driver); err != nil {
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// helper to get the correct database interface
type dbInterface interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const tokenColumns = `id, api_key, token, permissions, user_id, username, full_name, created_at, checked_at`

func saveToken(ctx context.Context, db dbInterface, token *domain.StoredToken) error {
	var id string
	err := db.GetContext(ctx, &id,
		`INSERT INTO auth_tokens (`+tokenColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (api_key, user_id) DO UPDATE SET
		   token = excluded.token,
		   permissions = excluded.permissions,
		   username = excluded.username,
		   full_name = excluded.full_name,
		   created_at = excluded.created_at,
		   checked_at = excluded.checked_at
		 RETURNING id`,
		token.ID, token.APIKey, token.Token, token.Permissions, token.UserID,
		token.Username, token.FullName, token.CreatedAt, token.CheckedAt)
	if err != nil {
		return wrapUniqueError(err)
	}
	token.ID = id
	return nil
}

func (s *Store) SaveToken(ctx context.Context, token *domain.StoredToken) error {
	return saveToken(ctx, s.db, token)
}

func getLatestToken(ctx context.Context, db dbInterface, apiKey string) (*domain.StoredToken, error) {
	var token domain.StoredToken
	err := db.GetContext(ctx, &token,
		`SELECT `+tokenColumns+` FROM auth_tokens WHERE api_key = $1
		 ORDER BY created_at DESC LIMIT 1`, apiKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (s *Store) GetLatestToken(ctx context.Context, apiKey string) (*domain.StoredToken, error) {
	return getLatestToken(ctx, s.db, apiKey)
}

func listTokens(ctx context.Context, db dbInterface, apiKey string) ([]*domain.StoredToken, error) {
	var tokens []*domain.StoredToken
	err := db.SelectContext(ctx, &tokens,
		`SELECT `+tokenColumns+` FROM auth_tokens WHERE api_key = $1 ORDER BY created_at DESC`, apiKey)
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (s *Store) ListTokens(ctx context.Context, apiKey string) ([]*domain.StoredToken, error) {
	return listTokens(ctx, s.db, apiKey)
}

func touchToken(ctx context.Context, db dbInterface, id string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE auth_tokens SET checked_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) TouchToken(ctx context.Context, id string) error {
	return touchToken(ctx, s.db, id)
}

func deleteToken(ctx context.Context, db dbInterface, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteToken(ctx context.Context, id string) error {
	return deleteToken(ctx, s.db, id)
}

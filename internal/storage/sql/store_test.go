package sql

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bcnelson/flickrkit/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	store, err := New("sqlite3", filepath.Join(t.TempDir(), "tokens.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func storedToken(id, apiKey, userID, token string, created time.Time) *domain.StoredToken {
	return &domain.StoredToken{
		ID:          id,
		APIKey:      apiKey,
		Token:       token,
		Permissions: "write",
		UserID:      userID,
		Username:    "bees",
		FullName:    "Cal H",
		CreatedAt:   created,
	}
}

func TestStore_SaveAndGetLatest(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveToken(ctx, storedToken("t1", "K", "u1", "tok-1", base)))
	require.NoError(t, store.SaveToken(ctx, storedToken("t2", "K", "u2", "tok-2", base.Add(time.Hour))))
	require.NoError(t, store.SaveToken(ctx, storedToken("t3", "OTHER", "u1", "tok-3", base.Add(2*time.Hour))))

	latest, err := store.GetLatestToken(ctx, "K")
	require.NoError(t, err)
	assert.Equal(t, "t2", latest.ID)
	assert.Equal(t, "tok-2", latest.Token)
	assert.True(t, latest.CreatedAt.Equal(base.Add(time.Hour)))
	assert.Nil(t, latest.CheckedAt)

	tokens, err := store.ListTokens(ctx, "K")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "t2", tokens[0].ID)
	assert.Equal(t, "t1", tokens[1].ID)
}

func TestStore_SaveUpsertsSameUser(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveToken(ctx, storedToken("t1", "K", "u1", "old", base)))

	replacement := storedToken("t9", "K", "u1", "new", base.Add(time.Minute))
	require.NoError(t, store.SaveToken(ctx, replacement))
	assert.Equal(t, "t1", replacement.ID)

	tokens, err := store.ListTokens(ctx, "K")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "new", tokens[0].Token)
}

func TestStore_TouchAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	require.NoError(t, store.SaveToken(ctx, storedToken("t1", "K", "u1", "tok", time.Now().UTC())))

	require.NoError(t, store.TouchToken(ctx, "t1"))
	got, err := store.GetLatestToken(ctx, "K")
	require.NoError(t, err)
	require.NotNil(t, got.CheckedAt)

	require.NoError(t, store.DeleteToken(ctx, "t1"))
	_, err = store.GetLatestToken(ctx, "K")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	assert.True(t, errors.Is(store.DeleteToken(ctx, "t1"), domain.ErrNotFound))
	assert.True(t, errors.Is(store.TouchToken(ctx, "missing"), domain.ErrNotFound))
}

func TestStore_ListEmpty(t *testing.T) {
	tokens, err := newSQLiteStore(t).ListTokens(context.Background(), "K")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestNew_BadDriver(t *testing.T) {
	_, err := New("oracle", "whatever")
	assert.Error(t, err)
}

func setupMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Store{db: sqlx.NewDb(db, "sqlmock"), driver: "postgres"}, mock
}

func TestStore_MockedErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unique violation maps to already exists", func(t *testing.T) {
		store, mock := setupMock(t)
		mock.ExpectQuery("INSERT INTO auth_tokens").
			WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "auth_tokens_pkey"`))

		err := store.SaveToken(ctx, storedToken("t1", "K", "u1", "tok", time.Now()))
		assert.True(t, errors.Is(err, domain.ErrAlreadyExists))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("save returns stored id", func(t *testing.T) {
		store, mock := setupMock(t)
		mock.ExpectQuery("INSERT INTO auth_tokens").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("existing"))

		token := storedToken("fresh", "K", "u1", "tok", time.Now())
		require.NoError(t, store.SaveToken(ctx, token))
		assert.Equal(t, "existing", token.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure propagates", func(t *testing.T) {
		store, mock := setupMock(t)
		boom := errors.New("connection reset")
		mock.ExpectQuery("SELECT .* FROM auth_tokens WHERE api_key").
			WithArgs("K").
			WillReturnError(boom)

		_, err := store.GetLatestToken(ctx, "K")
		assert.ErrorIs(t, err, boom)
		assert.False(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		store, mock := setupMock(t)
		mock.ExpectQuery("SELECT .* FROM auth_tokens WHERE api_key").
			WithArgs("K").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := store.GetLatestToken(ctx, "K")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("delete failure propagates", func(t *testing.T) {
		store, mock := setupMock(t)
		mock.ExpectExec("DELETE FROM auth_tokens").
			WithArgs("t1").
			WillReturnError(errors.New("disk full"))

		assert.EqualError(t, store.DeleteToken(ctx, "t1"), "disk full")
	})

	t.Run("touch missing row", func(t *testing.T) {
		store, mock := setupMock(t)
		mock.ExpectExec("UPDATE auth_tokens SET checked_at").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.True(t, errors.Is(store.TouchToken(ctx, "nope"), domain.ErrNotFound))
	})
}

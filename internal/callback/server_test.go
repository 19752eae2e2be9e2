package callback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bcnelson/flickrkit/internal/domain"
	"github.com/bcnelson/flickrkit/internal/transport"
	"github.com/bcnelson/flickrkit/internal/xmlparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeAuth struct {
	loginURL string
	auth     *domain.Auth
	err      error

	gotPerm domain.Permission
	gotFrob string
}

func (f *fakeAuth) WebLoginURL(perm domain.Permission) (string, error) {
	f.gotPerm = perm
	return f.loginURL, f.err
}

func (f *fakeAuth) CompleteFrob(ctx context.Context, frob string) (*domain.Auth, error) {
	f.gotFrob = frob
	return f.auth, f.err
}

func serve(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(t, NewRouter(&fakeAuth{}, nil), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLogin_Redirects(t *testing.T) {
	auth := &fakeAuth{loginURL: "https://www.flickr.com/services/auth/?api_key=K&perms=write&api_sig=x"}
	rec := serve(t, NewRouter(auth, nil), "/auth/login?perms=write")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, auth.loginURL, rec.Header().Get("Location"))
	assert.Equal(t, domain.PermissionWrite, auth.gotPerm)
}

func TestLogin_DefaultsToRead(t *testing.T) {
	auth := &fakeAuth{loginURL: "https://example.test/"}
	serve(t, NewRouter(auth, nil), "/auth/login")
	assert.Equal(t, domain.PermissionRead, auth.gotPerm)
}

func TestLogin_Errors(t *testing.T) {
	rec := serve(t, NewRouter(&fakeAuth{}, nil), "/auth/login?perms=admin")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, NewRouter(&fakeAuth{err: domain.ErrSignatureUnavailable}, nil), "/auth/login")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCallback_Success(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	auth := &fakeAuth{auth: &domain.Auth{
		Token:       "tok",
		Permissions: domain.PermissionRead,
		User:        domain.User{ID: "12037949754@N01", Username: "Bees"},
	}}

	rec := serve(t, NewRouter(auth, zap.New(core)), "/auth/callback?frob=abc123")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc123", auth.gotFrob)

	var body loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "12037949754@N01", body.UserID)
	assert.Equal(t, "read", body.Permissions)
	assert.NotContains(t, rec.Body.String(), "tok")

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/auth/callback", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestCallback_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{"missing frob", "/auth/callback", nil, http.StatusBadRequest},
		{"remote rejection", "/auth/callback?frob=x", &domain.APIError{Code: 108, Message: "Invalid frob"}, http.StatusBadGateway},
		{"transport failure", "/auth/callback?frob=x", fmt.Errorf("flickr.auth.getToken: %w", transport.ErrTransport), http.StatusBadGateway},
		{"invalid input", "/auth/callback?frob=x", domain.ErrInvalidInput, http.StatusBadRequest},
		{"bad perms in response", "/auth/callback?frob=x", fmt.Errorf("flickr.auth.getToken: %w", xmlparse.FormatError("admin", "permission", domain.ErrInvalidInput)), http.StatusBadGateway},
		{"api key rejected", "/auth/callback?frob=x", &domain.APIError{Code: domain.ErrCodeInvalidAPIKey, Message: "Invalid API Key"}, http.StatusServiceUnavailable},
		{"signature rejected", "/auth/callback?frob=x", &domain.APIError{Code: domain.ErrCodeInvalidSignature, Message: "Invalid signature"}, http.StatusServiceUnavailable},
		{"signature missing", "/auth/callback?frob=x", &domain.APIError{Code: domain.ErrCodeMissingSignature, Message: "Missing signature"}, http.StatusServiceUnavailable},
		{"store failure", "/auth/callback?frob=x", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, NewRouter(&fakeAuth{err: tt.err}, nil), tt.target)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRecoverer(t *testing.T) {
	rec := serve(t, NewRouter(panicAuth{}, nil), "/auth/callback?frob=x")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type panicAuth struct{}

func (panicAuth) WebLoginURL(domain.Permission) (string, error) { return "", nil }
func (panicAuth) CompleteFrob(context.Context, string) (*domain.Auth, error) {
	panic("boom")
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, addr, NewRouter(&fakeAuth{}, nil), zap.NewNop())
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

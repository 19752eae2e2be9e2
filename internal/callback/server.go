// Package callback serves the redirect target of the web login flow. The
// remote service sends the user's browser to /auth/callback?frob=... once
// access is granted; the handler exchanges the frob for a stored token.
package callback

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bcnelson/flickrkit/internal/domain"
	"github.com/bcnelson/flickrkit/internal/validation"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Authenticator completes web logins.
type Authenticator interface {
	WebLoginURL(perm domain.Permission) (string, error)
	CompleteFrob(ctx context.Context, frob string) (*domain.Auth, error)
}

// loginResponse is returned once a callback completes.
type loginResponse struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	FullName    string `json:"full_name,omitempty"`
	Permissions string `json:"permissions"`
}

// NewRouter creates the callback router.
func NewRouter(auth Authenticator, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogging(logger))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", loginHandler(auth))
		r.Get("/callback", callbackHandler(auth, logger))
	})

	return r
}

// loginHandler redirects to the remote login page. perms defaults to read.
func loginHandler(auth Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		perms := r.URL.Query().Get("perms")
		if perms == "" {
			perms = domain.PermissionRead.String()
		}
		perm, err := validation.ValidatePermission(perms)
		if err != nil {
			handleError(w, err)
			return
		}

		loginURL, err := auth.WebLoginURL(perm)
		if err != nil {
			handleError(w, err)
			return
		}
		http.Redirect(w, r, loginURL, http.StatusFound)
	}
}

func callbackHandler(auth Authenticator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		frob := r.URL.Query().Get("frob")
		if frob == "" {
			respondJSON(w, http.StatusBadRequest, validation.NewValidationError("frob", "", "query parameter is required"))
			return
		}

		result, err := auth.CompleteFrob(r.Context(), frob)
		if err != nil {
			logger.Warn("callback failed",
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.Error(err))
			handleError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, loginResponse{
			UserID:      result.User.ID,
			Username:    result.User.Username,
			FullName:    result.User.FullName,
			Permissions: result.Permissions.String(),
		})
	}
}

// Serve runs handler on addr until ctx is canceled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("callback server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("callback server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Package flickr is the client context for the photo-hosting REST API. It
// builds ordered, signed parameter lists, hands them to a transport and
// parses the XML responses into domain entities.
package flickr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bcnelson/flickrkit/internal/domain"
	"github.com/bcnelson/flickrkit/internal/signature"
	"github.com/bcnelson/flickrkit/internal/transport"
	"github.com/bcnelson/flickrkit/internal/xmlparse"
	"go.uber.org/zap"
)

// DefaultAuthURL is the desktop and web login endpoint.
const DefaultAuthURL = "https://www.flickr.com/services/auth/"

// authNamespace prefixes the auth methods, which carry their own token
// arguments instead of the session token.
const authNamespace = "flickr.auth."

// payload constrains P to a pointer to T that implements xmlparse.Parsable.
type payload[T any] interface {
	*T
	xmlparse.Parsable
}

// Client is one logical session against the remote API. Credentials are
// fixed at construction; the auth token changes only through SetToken and
// the token exchange methods.
type Client struct {
	creds     domain.Credentials
	transport transport.Transport
	logger    *zap.Logger
	authURL   string
	lenient   bool

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithAuthURL overrides the login endpoint used by the CalcURL methods.
func WithAuthURL(authURL string) Option {
	return func(c *Client) {
		if authURL != "" {
			c.authURL = authURL
		}
	}
}

// WithLenientParsing logs unknown response attributes instead of failing.
func WithLenientParsing(lenient bool) Option {
	return func(c *Client) {
		c.lenient = lenient
	}
}

// WithToken starts the session with an existing auth token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New creates a client.
func New(creds domain.Credentials, tr transport.Transport, opts ...Option) *Client {
	c := &Client{
		creds:     creds,
		transport: tr,
		logger:    zap.NewNop(),
		authURL:   DefaultAuthURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Credentials returns the credentials the client was built with.
func (c *Client) Credentials() domain.Credentials {
	return c.creds
}

// Token returns the current auth token, or "" when unauthenticated.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the auth token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// buildParams returns the wire parameters for method: api_key first, then
// method, args in the given order, the session token and finally api_sig.
// Each call site declares its own argument order. The signature covers that
// order exactly and nothing here sorts it.
func (c *Client) buildParams(method string, args signature.Params, signed bool) (signature.Params, error) {
	if c.creds.APIKey() == "" {
		return nil, domain.ErrAPIKeyMissing
	}
	if signed && !c.creds.CanSign() {
		return nil, domain.ErrSignatureUnavailable
	}

	params := make(signature.Params, 0, len(args)+3)
	params = params.Add("method", method)
	params = append(params, args...)

	if !signed {
		return append(signature.Params{{Key: "api_key", Value: c.creds.APIKey()}}, params...), nil
	}

	if token := c.Token(); token != "" && !strings.HasPrefix(method, authNamespace) {
		params = params.Add("auth_token", token)
	}
	sig, err := signature.Sign(c.creds.SharedSecret(), c.creds.APIKey(), params)
	if err != nil {
		return nil, err
	}
	params = params.Add("api_sig", sig)

	return append(signature.Params{{Key: "api_key", Value: c.creds.APIKey()}}, params...), nil
}

// call sends method and loads the response payload into v.
func (c *Client) call(ctx context.Context, method string, args signature.Params, signed bool, v xmlparse.Parsable) error {
	params, err := c.buildParams(method, args, signed)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	start := time.Now()
	body, err := c.transport.Send(ctx, method, params, signed)
	if err != nil {
		c.logger.Error("call failed",
			zap.String("method", method),
			zap.Error(err))
		return fmt.Errorf("%s: %w", method, err)
	}

	var opts []xmlparse.Option
	if c.lenient {
		opts = append(opts, xmlparse.WithLenientAttributes(c.logger))
	}
	err = ParseResponse(bytes.NewReader(body), v, opts...)

	var apiErr *domain.APIError
	switch {
	case errors.As(err, &apiErr):
		c.logger.Warn("remote api error",
			zap.String("method", method),
			zap.Int("code", apiErr.Code),
			zap.String("message", apiErr.Message))
		return fmt.Errorf("%s: %w", method, err)
	case err != nil:
		c.logger.Error("response parse failed",
			zap.String("method", method),
			zap.Error(err))
		return fmt.Errorf("%s: %w", method, err)
	}

	c.logger.Debug("call complete",
		zap.String("method", method),
		zap.Bool("signed", signed),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// invoke calls method and returns its payload as a fresh T. A failed call
// returns nil, never a partially loaded value.
func invoke[T any, P payload[T]](ctx context.Context, c *Client, method string, args signature.Params, signed bool) (*T, error) {
	var v T
	if err := c.call(ctx, method, args, signed, P(&v)); err != nil {
		return nil, err
	}
	return &v, nil
}

// Package transport moves signed requests to the remote REST endpoint and
// returns the raw XML response. It never parses responses.
package transport

import (
	"context"
	"errors"

	"github.com/bcnelson/flickrkit/internal/signature"
)

// ErrTransport wraps I/O and HTTP-level failures.
var ErrTransport = errors.New("transport failed")

// Transport sends one API call. params is the complete, already signed
// parameter list in wire order.
type Transport interface {
	Send(ctx context.Context, method string, params signature.Params, signed bool) ([]byte, error)
}

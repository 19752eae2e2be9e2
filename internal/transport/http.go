package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bcnelson/flickrkit/internal/signature"
)

// DefaultRESTURL is the production REST endpoint.
const DefaultRESTURL = "https://api.flickr.com/services/rest/"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 16 << 20

// HTTP sends calls as GET requests against a REST endpoint.
type HTTP struct {
	client  *http.Client
	baseURL string
}

// Ensure HTTP implements Transport.
var _ Transport = (*HTTP)(nil)

// NewHTTP creates an HTTP transport. A zero timeout leaves the client without one.
func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	if baseURL == "" {
		baseURL = DefaultRESTURL
	}
	return &HTTP{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Send performs the request and returns the response body.
func (h *HTTP) Send(ctx context.Context, method string, params signature.Params, signed bool) ([]byte, error) {
	sep := "?"
	if strings.Contains(h.baseURL, "?") {
		sep = "&"
	}
	reqURL := h.baseURL + sep + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request for %s: %v", ErrTransport, method, err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: calling %s: %v", ErrTransport, method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s response: %v", ErrTransport, method, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrTransport, method, resp.StatusCode)
	}

	return body, nil
}

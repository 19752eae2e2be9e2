package transport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bcnelson/flickrkit/internal/signature"
	"go.uber.org/zap"
)

// Request is a call recorded by FileShim.
type Request struct {
	Method string
	Params signature.Params
	Signed bool
}

// FileShim is an offline transport that serves canned responses from
// <dir>/<method>.xml and records every request it receives.
type FileShim struct {
	dir    string
	logger *zap.Logger

	mu       sync.RWMutex
	requests []Request
}

// Ensure FileShim implements Transport.
var _ Transport = (*FileShim)(nil)

// NewFileShim creates a file-backed shim rooted at dir.
func NewFileShim(dir string, logger *zap.Logger) *FileShim {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileShim{dir: dir, logger: logger}
}

// Send returns the canned response for method.
func (f *FileShim) Send(ctx context.Context, method string, params signature.Params, signed bool) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	f.mu.Lock()
	f.requests = append(f.requests, Request{
		Method: method,
		Params: append(signature.Params(nil), params...),
		Signed: signed,
	})
	f.mu.Unlock()

	path := filepath.Join(f.dir, method+".xml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading fixture %s: %v", ErrTransport, path, err)
	}

	f.logger.Debug("served fixture", zap.String("method", method), zap.String("path", path))
	return data, nil
}

// Requests returns a copy of the recorded requests in arrival order.
func (f *FileShim) Requests() []Request {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]Request(nil), f.requests...)
}

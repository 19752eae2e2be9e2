// Package signature computes the request signature used by the remote API.
//
// The digest is MD5 over the shared secret followed by each key and value in
// caller order. The algorithm is fixed by the remote service and cannot be
// changed without breaking interoperability; it is not a security property of
// this package.
package signature

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"

	"github.com/bcnelson/flickrkit/internal/domain"
)

// Param is a single request parameter.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered parameter list. Order is significant for signing and
// is never sorted.
type Params []Param

// Add appends a parameter and returns the extended list.
func (p Params) Add(key, value string) Params {
	return append(p, Param{Key: key, Value: value})
}

// Get returns the first value stored under key.
func (p Params) Get(key string) (string, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return "", false
}

// Encode renders the parameters as a query string in list order.
func (p Params) Encode() string {
	var b strings.Builder
	for i, param := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(param.Value))
	}
	return b.String()
}

// Sign returns the lowercase hex digest of
// secret + "api_key" + apiKey + key1 + value1 + key2 + value2 ...
// It fails with domain.ErrSignatureUnavailable when no secret is configured.
func Sign(secret, apiKey string, extra Params) (string, error) {
	if secret == "" {
		return "", domain.ErrSignatureUnavailable
	}

	var b strings.Builder
	b.WriteString(secret)
	b.WriteString("api_key")
	b.WriteString(apiKey)
	for _, param := range extra {
		b.WriteString(param.Key)
		b.WriteString(param.Value)
	}

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:]), nil
}

package domain

// Credentials identify the calling application. SharedSecret is optional;
// without it signed operations are unavailable.
type Credentials struct {
	apiKey       string
	sharedSecret string
}

// NewCredentials creates an immutable credential pair.
func NewCredentials(apiKey, sharedSecret string) Credentials {
	return Credentials{apiKey: apiKey, sharedSecret: sharedSecret}
}

// APIKey returns the public API key.
func (c Credentials) APIKey() string { return c.apiKey }

// SharedSecret returns the private shared secret.
func (c Credentials) SharedSecret() string { return c.sharedSecret }

// CanSign reports whether a shared secret is configured.
func (c Credentials) CanSign() bool { return c.sharedSecret != "" }

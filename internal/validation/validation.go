// Package validation checks caller-supplied auth inputs before they are sent
// to the remote service.
package validation

import (
	"strings"

	"github.com/bcnelson/flickrkit/internal/domain"
)

// miniTokenDigits is the length of a mini token once hyphens are removed.
const miniTokenDigits = 9

// isNum returns true if the byte is an ASCII digit.
func isNum(b byte) bool {
	return b >= '0' && b <= '9'
}

// isHex returns true if the byte is a hexadecimal digit.
func isHex(b byte) bool {
	return isNum(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// NormalizeMiniToken strips the hyphens users type between digit groups,
// e.g. "123-456-789" becomes "123456789".
func NormalizeMiniToken(mini string) string {
	return strings.ReplaceAll(strings.TrimSpace(mini), "-", "")
}

// ValidateMiniToken validates a human-readable mini token. Hyphens are
// ignored; what remains must be exactly nine digits.
func ValidateMiniToken(mini string) error {
	digits := NormalizeMiniToken(mini)
	if digits == "" {
		return NewValidationError("mini_token", mini, "must not be empty")
	}
	if len(digits) != miniTokenDigits {
		return NewValidationError("mini_token", mini, "must contain exactly 9 digits")
	}
	for _, b := range []byte(digits) {
		if !isNum(b) {
			return NewValidationError("mini_token", mini, "must contain only digits and hyphens")
		}
	}
	return nil
}

// ValidateFrob validates a frob returned to a callback.
func ValidateFrob(frob string) error {
	if frob == "" {
		return NewValidationError("frob", frob, "must not be empty")
	}
	if strings.ContainsFunc(frob, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	}) {
		return NewValidationError("frob", frob, "must not contain whitespace")
	}
	return nil
}

// ValidatePermission validates a requested permission level. Only levels that
// can be granted are accepted; "none" is rejected.
func ValidatePermission(perms string) (domain.Permission, error) {
	perm, err := domain.ParsePermission(perms)
	if err != nil || perm == domain.PermissionNone {
		return domain.PermissionNone, NewValidationError("perms", perms, "must be one of read, write, delete")
	}
	return perm, nil
}

// ValidateAPIKey validates an application API key.
func ValidateAPIKey(key string) error {
	if key == "" {
		return NewValidationError("api_key", key, "must not be empty")
	}
	for _, b := range []byte(key) {
		if !isHex(b) {
			return NewValidationError("api_key", key, "must be hexadecimal")
		}
	}
	return nil
}

// ValidateCredentials validates the API key and, when present, the shared secret.
func ValidateCredentials(creds domain.Credentials) error {
	var errs ValidationErrors
	if err := ValidateAPIKey(creds.APIKey()); err != nil {
		errs = append(errs, err.(*ValidationError))
	}
	if secret := creds.SharedSecret(); secret != "" {
		for _, b := range []byte(secret) {
			if !isHex(b) {
				errs.Add("shared_secret", "", "must be hexadecimal")
				break
			}
		}
	}
	return errs.Err()
}

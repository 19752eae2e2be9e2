package domain

import "fmt"

// Permission is the access tier requested during authentication.
type Permission int

const (
	PermissionNone Permission = iota
	PermissionRead
	PermissionWrite
	PermissionDelete
)

// String returns the wire value of the permission.
func (p Permission) String() string {
	switch p {
	case PermissionRead:
		return "read"
	case PermissionWrite:
		return "write"
	case PermissionDelete:
		return "delete"
	default:
		return "none"
	}
}

// ParsePermission converts a wire value into a Permission.
func ParsePermission(s string) (Permission, error) {
	switch s {
	case "none":
		return PermissionNone, nil
	case "read":
		return PermissionRead, nil
	case "write":
		return PermissionWrite, nil
	case "delete":
		return PermissionDelete, nil
	default:
		return PermissionNone, fmt.Errorf("%w: unknown permission %q", ErrInvalidInput, s)
	}
}

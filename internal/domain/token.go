package domain

import "time"

// StoredToken is a persisted auth result, keyed by API key and user.
type StoredToken struct {
	ID          string     `json:"id" db:"id"`
	APIKey      string     `json:"api_key" db:"api_key"`
	Token       string     `json:"-" db:"token"` // Never expose token
	Permissions string     `json:"permissions" db:"permissions"`
	UserID      string     `json:"user_id" db:"user_id"`
	Username    string     `json:"username" db:"username"`
	FullName    string     `json:"full_name" db:"full_name"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	CheckedAt   *time.Time `json:"checked_at,omitempty" db:"checked_at"`
}

package auth

import "time"

// User represents a registered account. Identity fields are immutable after
// registration; PasswordHash never leaves this package.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

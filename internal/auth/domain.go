package auth

import "time"

// User represents a registered account.
//
// VerificationToken is set at registration and cleared exactly once by a
// successful verification. PasswordHash never leaves this package except
// through the repository.
type User struct {
	ID                int64
	Email             string
	PasswordHash      string
	IsVerified        bool
	VerificationToken *string
	AvatarURL         *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

package domain

import "time"

// User is the domain entity for a wallet-backed account. SuiAddress is the
// identity anchor: unique, set on first sign-in, never reassigned.
type User struct {
	ID         int64
	SuiAddress string
	Username   *string
	Email      *string

	AvatarURL *string
	Bio       *string

	IsVerified bool
	IsActive   bool

	CreatedAt time.Time
	UpdatedAt time.Time
	LastLogin *time.Time
}

package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrEmailNotAllowed = errors.New("only campus emails are allowed")
	ErrNotVerified     = errors.New("email not verified")
	ErrInvalidLogin    = errors.New("invalid email or password")

	// ErrTokenInvalid covers both malformed/expired credentials and
	// unknown one-time tokens.
	ErrTokenInvalid = errors.New("token is invalid or expired")
	ErrTokenRevoked = errors.New("token has been revoked")
	ErrTokenExpired = errors.New("token has expired")

	ErrForbidden = errors.New("forbidden")
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	Email        string // primary key
	Name         string
	PasswordHash string
	Role         Role
	Verified     bool

	// One-time email verification token. Only the hash is stored;
	// the raw value is mailed to the user. Cleared on verification.
	VerifyTokenHash   *string
	VerifyTokenExpiry *time.Time

	CreatedAt time.Time
}

// PasswordReset is a transient reset token, stored in its own table.
// Only the token hash is persisted.
type PasswordReset struct {
	Email     string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

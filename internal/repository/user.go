package repository

import (
	"context"
	"time"

	"github.com/jeswinthayil/Lostandfound/internal/domain"
)

// Usecases depend on interfaces, not concrete implementations: the
// backing store can be swapped and tests can pass fakes.
type UserRepository interface {
	// Create inserts a new user. domain.ErrEmailTaken if the email exists.
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByVerifyToken looks a user up by verification token hash.
	FindByVerifyToken(ctx context.Context, tokenHash string) (*domain.User, error)
	// MarkVerified sets the verified flag and clears the one-time token.
	MarkVerified(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	Count(ctx context.Context) (int64, error)
}

type PasswordResetRepository interface {
	Create(ctx context.Context, reset *domain.PasswordReset) error
	// FindByToken returns domain.ErrTokenInvalid if the hash is unknown.
	FindByToken(ctx context.Context, tokenHash string) (*domain.PasswordReset, error)
	// Delete consumes a reset token. Deleting an absent token is a no-op.
	Delete(ctx context.Context, tokenHash string) error
}

// RevocationRepository is the logout denylist: a time-expiring set of
// credential identifiers. Entries past their expiry are invisible to
// IsRevoked and reaped by the retention sweep.
type RevocationRepository interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

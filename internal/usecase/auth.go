package usecase

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jeswinthayil/Lostandfound/internal/domain"
	"github.com/jeswinthayil/Lostandfound/internal/email"
	"github.com/jeswinthayil/Lostandfound/internal/repository"
	"github.com/jeswinthayil/Lostandfound/internal/token"
	"golang.org/x/crypto/bcrypt"
)

const (
	verifyTokenTTL = 10 * time.Minute
	resetTokenTTL  = 10 * time.Minute
)

// AuthOptions carries the registration policy and link bases.
type AuthOptions struct {
	// AllowedEmailDomain restricts registration to campus addresses.
	AllowedEmailDomain string
	// AdminEmail bypasses the domain restriction.
	AdminEmail string
	// PublicBaseURL prefixes verification links.
	PublicBaseURL string
	// ResetBaseURL prefixes password reset links (frontend route).
	ResetBaseURL string
}

type AuthUsecase struct {
	users       repository.UserRepository
	resets      repository.PasswordResetRepository
	revocations repository.RevocationRepository
	tokens      *token.Service
	email       email.Sender
	logger      *slog.Logger
	opts        AuthOptions
	now         func() time.Time
}

func NewAuthUsecase(
	users repository.UserRepository,
	resets repository.PasswordResetRepository,
	revocations repository.RevocationRepository,
	tokens *token.Service,
	emailSender email.Sender,
	logger *slog.Logger,
	opts AuthOptions,
	now func() time.Time,
) *AuthUsecase {
	return &AuthUsecase{
		users:       users,
		resets:      resets,
		revocations: revocations,
		tokens:      tokens,
		email:       emailSender,
		logger:      logger.With("component", "auth_usecase"),
		opts:        opts,
		now:         now,
	}
}

// Register creates an unverified account and mails a one-time
// verification link. Only the token hash is stored. Mail delivery is
// fire-and-forget: a failure is logged, not surfaced.
func (u *AuthUsecase) Register(ctx context.Context, name, emailAddr, password string) error {
	if !u.emailAllowed(emailAddr) {
		return domain.ErrEmailNotAllowed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	rawToken := uuid.NewString()
	tokenHash := hashToken(rawToken)
	expiry := u.now().Add(verifyTokenTTL)

	user := &domain.User{
		Email:             emailAddr,
		Name:              name,
		PasswordHash:      string(hash),
		Role:              domain.RoleUser,
		Verified:          false,
		VerifyTokenHash:   &tokenHash,
		VerifyTokenExpiry: &expiry,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return err
	}

	link := u.opts.PublicBaseURL + "/api/auth/verify/" + rawToken
	subject, body := email.VerificationBody(link)
	if err := u.email.Send(ctx, emailAddr, subject, body); err != nil {
		u.logger.ErrorContext(ctx, "send verification email", "error", err)
	}
	return nil
}

// VerifyEmail consumes a verification token and marks the account verified.
func (u *AuthUsecase) VerifyEmail(ctx context.Context, rawToken string) error {
	user, err := u.users.FindByVerifyToken(ctx, hashToken(rawToken))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrTokenInvalid
		}
		return fmt.Errorf("find by verify token: %w", err)
	}

	if user.VerifyTokenExpiry == nil || u.now().After(*user.VerifyTokenExpiry) {
		return domain.ErrTokenExpired
	}

	if err := u.users.MarkVerified(ctx, user.Email); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

// Login checks credentials and returns a signed bearer token.
// Unverified accounts cannot log in.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (string, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidLogin
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if !user.Verified {
		return "", domain.ErrNotVerified
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidLogin
	}

	signed, err := u.tokens.Issue(user.Email, user.Role)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// Logout denylists the credential for its remaining lifetime. An
// already-expired credential needs no entry; that is still a success.
func (u *AuthUsecase) Logout(ctx context.Context, rawToken string) error {
	expiry, err := u.tokens.Expiry(rawToken)
	if err != nil {
		return err
	}

	if !expiry.After(u.now()) {
		return nil
	}
	if err := u.revocations.Revoke(ctx, token.ID(rawToken), expiry); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// ForgotPassword stores a short-lived reset token and mails the raw
// value. domain.ErrUserNotFound for unknown addresses.
func (u *AuthUsecase) ForgotPassword(ctx context.Context, emailAddr string) error {
	if _, err := u.users.FindByEmail(ctx, emailAddr); err != nil {
		return err
	}

	rawToken := uuid.NewString()
	reset := &domain.PasswordReset{
		Email:     emailAddr,
		TokenHash: hashToken(rawToken),
		ExpiresAt: u.now().Add(resetTokenTTL),
	}
	if err := u.resets.Create(ctx, reset); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := u.opts.ResetBaseURL + "?token=" + rawToken
	subject, body := email.PasswordResetBody(link)
	if err := u.email.Send(ctx, emailAddr, subject, body); err != nil {
		u.logger.ErrorContext(ctx, "send reset email", "error", err)
	}
	return nil
}

// ResetPassword consumes a reset token and replaces the password.
func (u *AuthUsecase) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	reset, err := u.resets.FindByToken(ctx, hashToken(rawToken))
	if err != nil {
		return err
	}

	if u.now().After(reset.ExpiresAt) {
		return domain.ErrTokenExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := u.users.UpdatePassword(ctx, reset.Email, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := u.resets.Delete(ctx, reset.TokenHash); err != nil {
		u.logger.ErrorContext(ctx, "delete reset token", "error", err)
	}
	return nil
}

// EnsureAdmin inserts the configured administrator account at startup
// if it does not exist. The account is created verified.
func (u *AuthUsecase) EnsureAdmin(ctx context.Context, name, emailAddr, password string) error {
	_, err := u.users.FindByEmail(ctx, emailAddr)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("find admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	admin := &domain.User{
		Email:        emailAddr,
		Name:         name,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Verified:     true,
	}
	if err := u.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

func (u *AuthUsecase) emailAllowed(emailAddr string) bool {
	if emailAddr == u.opts.AdminEmail {
		return true
	}
	return strings.HasSuffix(emailAddr, "@"+u.opts.AllowedEmailDomain)
}

func hashToken(raw string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(raw)))
}

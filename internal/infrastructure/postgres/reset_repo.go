package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jeswinthayil/Lostandfound/internal/domain"
)

type PasswordResetRepository struct {
	pool *pgxpool.Pool
}

func NewPasswordResetRepository(pool *pgxpool.Pool) *PasswordResetRepository {
	return &PasswordResetRepository{pool: pool}
}

func (r *PasswordResetRepository) Create(ctx context.Context, reset *domain.PasswordReset) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO password_resets (email, token_hash, expires_at)
		VALUES ($1, $2, $3)`,
		reset.Email, reset.TokenHash, reset.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create password reset: %w", err)
	}
	return nil
}

func (r *PasswordResetRepository) FindByToken(ctx context.Context, tokenHash string) (*domain.PasswordReset, error) {
	var p domain.PasswordReset
	err := r.pool.QueryRow(ctx, `
		SELECT email, token_hash, expires_at, created_at
		FROM password_resets WHERE token_hash = $1`, tokenHash).
		Scan(&p.Email, &p.TokenHash, &p.ExpiresAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("find password reset: %w", err)
	}
	return &p, nil
}

func (r *PasswordResetRepository) Delete(ctx context.Context, tokenHash string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM password_resets WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return fmt.Errorf("delete password reset: %w", err)
	}
	return nil
}

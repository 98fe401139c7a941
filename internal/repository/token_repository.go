package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/hr-training-api/internal/database"
	"github.com/iliyamo/hr-training-api/internal/model"
)

// RefreshTokens is the refresh token store as seen by the auth service.
// Tokens are identified by the SHA-256 hex digest of their raw value.
type RefreshTokens interface {
	// Store persists a new unrevoked token.
	Store(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	// Consume revokes a usable token and returns its owner. Unknown, expired
	// and revoked tokens all yield ErrTokenNotUsable. At most one caller can
	// consume a given token.
	Consume(ctx context.Context, tokenHash string, now time.Time) (int64, error)
	// Revoke marks an unrevoked token revoked; ErrTokenNotUsable otherwise.
	Revoke(ctx context.Context, tokenHash string, now time.Time) error
	// RevokeAllForUser revokes every active token of the user.
	RevokeAllForUser(ctx context.Context, userID int64, now time.Time) (int64, error)
	// Find returns the stored row regardless of its state, or
	// ErrTokenNotUsable when the hash is unknown.
	Find(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
}

// TokenRepo persists refresh tokens (single 'token_hash' column). Rows are
// revoked, never deleted.
type TokenRepo struct {
	db *sql.DB
	q  database.DBTX
}

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db, q: db} }

// Atomically runs fn against a store bound to a single transaction. The
// transaction commits only if fn returns nil.
func (r *TokenRepo) Atomically(ctx context.Context, fn func(ctx context.Context, tokens RefreshTokens) error) error {
	return database.WithTx(ctx, r.db, nil, func(ctx context.Context, tx database.DBTX) error {
		return fn(ctx, &TokenRepo{db: r.db, q: tx})
	})
}

// Store inserts a refresh token hash row.
func (r *TokenRepo) Store(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	_, err := r.q.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, expiresAt.UTC())
	return translate(err)
}

// Consume revokes the token with a single conditional UPDATE so concurrent
// callers race on the row and only one sees an affected row.
func (r *TokenRepo) Consume(ctx context.Context, tokenHash string, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > ?",
		now.UTC(), tokenHash, now.UTC())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrTokenNotUsable
	}
	return r.ownerOf(ctx, tokenHash)
}

// Revoke marks a token as revoked.
func (r *TokenRepo) Revoke(ctx context.Context, tokenHash string, now time.Time) error {
	res, err := r.q.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL",
		now.UTC(), tokenHash)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTokenNotUsable
	}
	return nil
}

// RevokeAllForUser revokes all user's active tokens.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID int64, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL",
		now.UTC(), userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ownerOf returns the user a token was issued to.
func (r *TokenRepo) ownerOf(ctx context.Context, tokenHash string) (int64, error) {
	var userID int64
	err := r.q.QueryRowContext(ctx,
		"SELECT user_id FROM refresh_tokens WHERE token_hash = ? LIMIT 1", tokenHash).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrTokenNotUsable
	}
	return userID, err
}

// Find loads the full token row.
func (r *TokenRepo) Find(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	var (
		t         model.RefreshToken
		revokedAt sql.NullTime
	)
	err := r.q.QueryRowContext(ctx,
		"SELECT id, user_id, token_hash, created_at, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = ? LIMIT 1",
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.CreatedAt, &t.ExpiresAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenNotUsable
	}
	if err != nil {
		return nil, err
	}
	if revokedAt.Valid {
		at := revokedAt.Time
		t.RevokedAt = &at
	}
	return &t, nil
}

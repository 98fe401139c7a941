package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var tokenNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestTokenRepo_Store(t *testing.T) {
	db, mock := newMock(t)
	exp := tokenNow.Add(7 * 24 * time.Hour)
	mock.ExpectExec(q("INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)")).
		WithArgs(int64(7), "hash", exp).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, NewTokenRepo(db).Store(context.Background(), 7, "hash", exp))
}

func TestTokenRepo_Consume_Success(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(q("UPDATE refresh_tokens SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > ?")).
		WithArgs(tokenNow, "hash", tokenNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(q("SELECT user_id FROM refresh_tokens WHERE token_hash = ?")).
		WithArgs("hash").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(7)))

	uid, err := NewTokenRepo(db).Consume(context.Background(), "hash", tokenNow)
	require.NoError(t, err)
	require.Equal(t, int64(7), uid)
}

func TestTokenRepo_Consume_NotUsable(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(q("UPDATE refresh_tokens SET revoked_at = ?")).
		WithArgs(tokenNow, "hash", tokenNow).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := NewTokenRepo(db).Consume(context.Background(), "hash", tokenNow)
	require.ErrorIs(t, err, ErrTokenNotUsable)
}

func TestTokenRepo_Revoke(t *testing.T) {
	db, mock := newMock(t)
	stmt := q("UPDATE refresh_tokens SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL")
	mock.ExpectExec(stmt).WithArgs(tokenNow, "hash").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(stmt).WithArgs(tokenNow, "hash").WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewTokenRepo(db)
	require.NoError(t, repo.Revoke(context.Background(), "hash", tokenNow))
	require.ErrorIs(t, repo.Revoke(context.Background(), "hash", tokenNow), ErrTokenNotUsable)
}

func TestTokenRepo_RevokeAllForUser(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(q("UPDATE refresh_tokens SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL")).
		WithArgs(tokenNow, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewTokenRepo(db).RevokeAllForUser(context.Background(), 7, tokenNow)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}

func TestTokenRepo_Find(t *testing.T) {
	db, mock := newMock(t)
	cols := []string{"id", "user_id", "token_hash", "created_at", "expires_at", "revoked_at"}
	stmt := q("SELECT id, user_id, token_hash, created_at, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = ?")
	mock.ExpectQuery(stmt).
		WithArgs("hash").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(1), int64(7), "hash", tokenNow, tokenNow.Add(time.Hour), tokenNow))
	mock.ExpectQuery(stmt).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(cols))

	repo := NewTokenRepo(db)
	tok, err := repo.Find(context.Background(), "hash")
	require.NoError(t, err)
	require.Equal(t, int64(7), tok.UserID)
	require.NotNil(t, tok.RevokedAt)
	require.False(t, tok.Usable(tokenNow))

	_, err = repo.Find(context.Background(), "nope")
	require.ErrorIs(t, err, ErrTokenNotUsable)
}

func TestTokenRepo_Atomically_CommitsRotation(t *testing.T) {
	db, mock := newMock(t)
	newExp := tokenNow.Add(time.Hour)
	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE refresh_tokens SET revoked_at = ?")).
		WithArgs(tokenNow, "old", tokenNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(q("SELECT user_id FROM refresh_tokens")).
		WithArgs("old").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(7)))
	mock.ExpectExec(q("INSERT INTO refresh_tokens")).
		WithArgs(int64(7), "new", newExp).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := NewTokenRepo(db).Atomically(context.Background(), func(ctx context.Context, tokens RefreshTokens) error {
		uid, err := tokens.Consume(ctx, "old", tokenNow)
		if err != nil {
			return err
		}
		return tokens.Store(ctx, uid, "new", newExp)
	})
	require.NoError(t, err)
}

func TestTokenRepo_Atomically_RollsBackWhenInsertFails(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE refresh_tokens SET revoked_at = ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(q("SELECT user_id FROM refresh_tokens")).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(7)))
	mock.ExpectExec(q("INSERT INTO refresh_tokens")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := NewTokenRepo(db).Atomically(context.Background(), func(ctx context.Context, tokens RefreshTokens) error {
		uid, err := tokens.Consume(ctx, "old", tokenNow)
		if err != nil {
			return err
		}
		return tokens.Store(ctx, uid, "new", tokenNow.Add(time.Hour))
	})
	require.EqualError(t, err, "disk full")
}

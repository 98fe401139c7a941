package memory

import (
	"context"
	"time"

	"github.com/iliyamo/hr-training-api/internal/model"
	"github.com/iliyamo/hr-training-api/internal/repository"
)

// Tokens is the in-memory refresh token store. A view created by
// Atomically runs under the store lock held for the whole unit of work.
type Tokens struct {
	s      *Store
	inUnit bool
}

var _ repository.RefreshTokens = (*Tokens)(nil)

func (t *Tokens) lock() func() {
	if t.inUnit {
		return func() {}
	}
	t.s.tokMu.Lock()
	return t.s.tokMu.Unlock
}

// Atomically runs fn with exclusive access and restores the token table if
// fn fails.
func (t *Tokens) Atomically(ctx context.Context, fn func(ctx context.Context, tokens repository.RefreshTokens) error) error {
	t.s.tokMu.Lock()
	defer t.s.tokMu.Unlock()

	snapshot := make(map[string]model.RefreshToken, len(t.s.tokens))
	for k, v := range t.s.tokens {
		snapshot[k] = v
	}
	if err := fn(ctx, &Tokens{s: t.s, inUnit: true}); err != nil {
		t.s.tokens = snapshot
		return err
	}
	return nil
}

func (t *Tokens) Store(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	defer t.lock()()
	if _, ok := t.s.tokens[tokenHash]; ok {
		return repository.ErrDuplicate
	}
	t.s.tokSeq++
	t.s.tokens[tokenHash] = model.RefreshToken{
		ID:        t.s.tokSeq,
		UserID:    userID,
		TokenHash: tokenHash,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt.UTC(),
	}
	return nil
}

func (t *Tokens) Consume(ctx context.Context, tokenHash string, now time.Time) (int64, error) {
	defer t.lock()()
	tok, ok := t.s.tokens[tokenHash]
	if !ok || !tok.Usable(now) {
		return 0, repository.ErrTokenNotUsable
	}
	revoked := now.UTC()
	tok.RevokedAt = &revoked
	t.s.tokens[tokenHash] = tok
	return tok.UserID, nil
}

func (t *Tokens) Revoke(ctx context.Context, tokenHash string, now time.Time) error {
	defer t.lock()()
	tok, ok := t.s.tokens[tokenHash]
	if !ok || tok.RevokedAt != nil {
		return repository.ErrTokenNotUsable
	}
	revoked := now.UTC()
	tok.RevokedAt = &revoked
	t.s.tokens[tokenHash] = tok
	return nil
}

func (t *Tokens) RevokeAllForUser(ctx context.Context, userID int64, now time.Time) (int64, error) {
	defer t.lock()()
	var n int64
	for k, tok := range t.s.tokens {
		if tok.UserID == userID && tok.RevokedAt == nil {
			revoked := now.UTC()
			tok.RevokedAt = &revoked
			t.s.tokens[k] = tok
			n++
		}
	}
	return n, nil
}

func (t *Tokens) Find(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	defer t.lock()()
	tok, ok := t.s.tokens[tokenHash]
	if !ok {
		return nil, repository.ErrTokenNotUsable
	}
	return &tok, nil
}

// ActiveFor counts the user's usable tokens at now.
func (t *Tokens) ActiveFor(userID int64, now time.Time) int {
	defer t.lock()()
	n := 0
	for _, tok := range t.s.tokens {
		if tok.UserID == userID && tok.Usable(now) {
			n++
		}
	}
	return n
}

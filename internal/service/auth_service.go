package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/hr-training-api/internal/model"
	"github.com/iliyamo/hr-training-api/internal/repository"
	"github.com/iliyamo/hr-training-api/internal/utils"
)

// AuthConfig holds the auth policy read once at startup.
type AuthConfig struct {
	RefreshTTL     time.Duration
	BcryptCost     int
	Password       utils.PasswordPolicy
	ReuseDetection bool // revoke every token of a user presenting a revoked one
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	TenantID  int64
	Role      string
}

// AuthService implements login, registration, refresh rotation and revoke.
type AuthService struct {
	users  UserStore
	tokens TokenStore
	issuer *utils.Issuer
	cfg    AuthConfig
	log    *zap.Logger
	now    func() time.Time

	// compared against when the email is unknown so both failure paths cost
	// one bcrypt comparison
	dummyHash string
}

// NewAuthService wires the auth core.
func NewAuthService(users UserStore, tokens TokenStore, issuer *utils.Issuer, cfg AuthConfig, log *zap.Logger) (*AuthService, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dummy, err := utils.HashPassword("not-a-real-password-0", cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		issuer:    issuer,
		cfg:       cfg,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
		dummyHash: dummy,
	}, nil
}

// Login verifies credentials and issues an access and a refresh token.
// Unknown email and wrong password are the same failure.
func (s *AuthService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		utils.VerifyPassword(s.dummyHash, password)
		s.log.Warn("login failed", zap.String("reason", "credentials"))
		return TokenPair{}, newError(ErrAuthenticationFailed, "invalid credentials")
	}
	if err != nil {
		return TokenPair{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		s.log.Warn("login failed", zap.String("reason", "credentials"), zap.Int64("tenant_id", u.TenantID))
		return TokenPair{}, newError(ErrAuthenticationFailed, "invalid credentials")
	}

	var pair TokenPair
	if err := s.issueInto(ctx, s.tokens, u, &pair); err != nil {
		return TokenPair{}, err
	}
	s.log.Info("login succeeded", zap.Int64("user_id", u.ID), zap.Int64("tenant_id", u.TenantID))
	return pair, nil
}

// issueInto persists a fresh refresh token through tokens and signs an
// access token for u.
func (s *AuthService) issueInto(ctx context.Context, tokens repository.RefreshTokens, u *model.User, pair *TokenPair) error {
	refresh, err := utils.NewRefreshToken(s.now(), s.cfg.RefreshTTL)
	if err != nil {
		return err
	}
	if err := tokens.Store(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return err
	}
	access, err := s.issuer.IssueAccessToken(u.ID, u.Email, u.TenantID, u.Roles)
	if err != nil {
		return err
	}
	*pair = TokenPair{
		AccessToken:      access.Token,
		AccessExpiresAt:  access.Exp,
		RefreshToken:     refresh.Raw,
		RefreshExpiresAt: refresh.Exp,
	}
	return nil
}

// Register creates a user in the given tenant. The user row and the role
// grant are written atomically: a failed grant leaves no user behind.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := repository.NormalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, invalid("a valid email is required")
	}
	if in.TenantID <= 0 {
		return nil, invalid("tenant id must be positive")
	}
	if in.Role != "" && in.Role != model.RoleAdmin && in.Role != model.RoleHRUser {
		return nil, invalid("role assignment failed: unknown role " + in.Role)
	}
	if err := s.cfg.Password.Check(in.Password); err != nil {
		return nil, invalid(err.Error())
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflict("email is already registered")
	}

	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, invalid(err.Error())
	}
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		TenantID:     in.TenantID,
	}
	switch err := s.users.CreateWithRole(ctx, u, in.Role); {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, conflict("email is already registered")
	case errors.Is(err, repository.ErrRoleNotFound):
		return nil, invalid("role assignment failed: unknown role " + in.Role)
	case err != nil:
		return nil, err
	}
	s.log.Info("user registered", zap.Int64("user_id", u.ID), zap.Int64("tenant_id", u.TenantID), zap.String("role", in.Role))
	return u, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// one stored in the same transaction, then a new access token is signed.
// Any failure leaves the presented token as it was.
func (s *AuthService) Refresh(ctx context.Context, raw string) (TokenPair, error) {
	if raw == "" {
		return TokenPair{}, newError(ErrTokenInvalidOrExpired, "invalid or expired refresh token")
	}
	hash := utils.HashRefreshRaw(raw)
	now := s.now()

	var pair TokenPair
	err := s.tokens.Atomically(ctx, func(ctx context.Context, tokens repository.RefreshTokens) error {
		userID, err := tokens.Consume(ctx, hash, now)
		if err != nil {
			return err
		}
		u, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		return s.issueInto(ctx, tokens, u, &pair)
	})
	if errors.Is(err, repository.ErrTokenNotUsable) || errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("refresh rejected")
		if s.cfg.ReuseDetection {
			s.detectReuse(ctx, hash, now)
		}
		return TokenPair{}, newError(ErrTokenInvalidOrExpired, "invalid or expired refresh token")
	}
	if err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// detectReuse revokes every active token of the owner when a token that
// was already revoked is presented again.
func (s *AuthService) detectReuse(ctx context.Context, hash string, now time.Time) {
	tok, err := s.tokens.Find(ctx, hash)
	if err != nil || tok.RevokedAt == nil {
		return
	}
	n, err := s.tokens.RevokeAllForUser(ctx, tok.UserID, now)
	if err != nil {
		s.log.Error("reuse detection: revoke all failed", zap.Int64("user_id", tok.UserID), zap.Error(err))
		return
	}
	s.log.Warn("refresh token reuse detected", zap.Int64("user_id", tok.UserID), zap.Int64("revoked", n))
}

// Revoke marks the refresh token revoked. Revoking an unknown or already
// revoked token reports ErrTokenAlreadyRevoked and changes nothing.
func (s *AuthService) Revoke(ctx context.Context, raw string) error {
	if raw == "" {
		return newError(ErrTokenAlreadyRevoked, "token already revoked or unknown")
	}
	err := s.tokens.Revoke(ctx, utils.HashRefreshRaw(raw), s.now())
	if errors.Is(err, repository.ErrTokenNotUsable) {
		return newError(ErrTokenAlreadyRevoked, "token already revoked or unknown")
	}
	return err
}

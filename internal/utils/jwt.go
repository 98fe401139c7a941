package utils // package utils provides helpers for token creation, hashing and password checks

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// refreshTokenBytes is the amount of random data behind each refresh token.
const refreshTokenBytes = 64

var (
	// ErrMissingSecret is returned by NewIssuer when no signing secret is configured.
	ErrMissingSecret = errors.New("jwt signing secret is not configured")
	// ErrInvalidAccessToken covers every access token rejection: bad signature,
	// wrong issuer or audience, expiry, malformed claims.
	ErrInvalidAccessToken = errors.New("invalid access token")
)

// AccessToken represents a signed JWT access token along with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// RefreshToken is a long-lived opaque credential. Raw is returned to the
// client once; only HashRefreshRaw(Raw) is persisted.
type RefreshToken struct {
	Raw string    // raw token string returned to the client
	Exp time.Time // UTC expiration time
}

// Claims are the custom and registered claims carried by an access token.
// Subject holds the user id and ID the unique token id (jti).
type Claims struct {
	Email    string   `json:"email"`
	TenantID int64    `json:"tenant_id"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Issuer builds and validates HS256 access tokens for one issuer/audience
// pair. It is safe for concurrent use.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewIssuer returns an Issuer signing with secret. An empty secret is an
// error so that a misconfigured process refuses to start.
func NewIssuer(secret, issuer, audience string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Issuer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// TTL returns the access token lifetime.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// IssueAccessToken signs a token for the user carrying a fresh jti, the
// user's tenant and its roles.
func (i *Issuer) IssueAccessToken(userID int64, email string, tenantID int64, roles []string) (AccessToken, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	if roles == nil {
		roles = []string{}
	}
	claims := Claims{
		Email:    email,
		TenantID: tenantID,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ValidateAccessToken verifies signature, algorithm, issuer, audience and
// expiry. Any failure is reported as ErrInvalidAccessToken.
func (i *Issuer) ValidateAccessToken(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidAccessToken
	}
	if _, err := claims.UserID(); err != nil || claims.TenantID <= 0 {
		return nil, ErrInvalidAccessToken
	}
	return claims, nil
}

// NewRefreshToken returns a cryptographically random token valid for ttl
// from now.
func NewRefreshToken(now time.Time, ttl time.Duration) (RefreshToken, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw: base64.StdEncoding.EncodeToString(buf),
		Exp: now.UTC().Add(ttl),
	}, nil
}

// HashRefreshRaw returns the SHA-256 hex digest of a raw refresh token, the
// only form that is persisted.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

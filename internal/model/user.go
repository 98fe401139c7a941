package model

import "time"

// Role names recognised by the authorization middleware.
const (
	RoleAdmin  = "Admin"
	RoleHRUser = "HRUser"
)

// User represents an account row in the `users` table. A user belongs to
// exactly one tenant; TenantID is written once at registration and never
// updated afterwards.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address used to log in.
//  PasswordHash – bcrypt hash of the password.
//  FirstName    – given name.
//  LastName     – family name.
//  TenantID     – tenant (district) the user belongs to.
//  Roles        – role names loaded from user_roles; not a column.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           int64     // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	TenantID     int64     // users.tenant_id
	Roles        []string  // joined from user_roles/roles
	CreatedAt    time.Time // users.created_at
}

// Role represents a row in the `roles` table.
type Role struct {
	ID   int64  // roles.id
	Name string // roles.name
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hex digest of the raw value is stored. Rows are revoked, never
// deleted.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the raw token value.
//  CreatedAt – issue timestamp.
//  ExpiresAt – expiration timestamp.
//  RevokedAt – when the token was revoked (nil while still active).
type RefreshToken struct {
	ID        int64      // refresh_tokens.id
	UserID    int64      // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	CreatedAt time.Time  // refresh_tokens.created_at
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
}

// Usable reports whether the token may still be exchanged at time now.
func (t RefreshToken) Usable(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

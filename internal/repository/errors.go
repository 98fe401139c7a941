// Package repository implements MySQL persistence. Every query against a
// tenant-scoped table is filtered by the tenant resolved from the request
// context, and every insert is stamped with it.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrNotFound is returned when a row does not exist or belongs to another
	// tenant. The two cases are indistinguishable to callers.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique key would be violated.
	ErrDuplicate = errors.New("duplicate")

	// ErrConflict is returned when a delete or update cannot be performed
	// because dependent rows still reference the target.
	ErrConflict = errors.New("conflict")

	// ErrNoTenant is returned by inserts when no tenant could be resolved.
	ErrNoTenant = errors.New("no tenant resolved for write")

	// ErrTokenNotUsable is returned when a refresh token is unknown, expired
	// or already revoked. The cases are deliberately not distinguished.
	ErrTokenNotUsable = errors.New("refresh token not usable")

	// ErrRoleNotFound is returned when assigning a role that is not seeded.
	ErrRoleNotFound = errors.New("role not found")
)

// MySQL server error numbers translated by translate.
const (
	errDupEntry         = 1062
	errRowIsReferenced  = 1217
	errRowIsReferenced2 = 1451
	errNoReferencedRow2 = 1452
)

// translate maps driver errors onto repository sentinels.
func translate(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case errDupEntry:
		return ErrDuplicate
	case errRowIsReferenced, errRowIsReferenced2:
		return ErrConflict
	case errNoReferencedRow2:
		return ErrNotFound
	}
	return err
}

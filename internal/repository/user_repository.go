package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hr-training-api/internal/database"
	"github.com/iliyamo/hr-training-api/internal/model"
)

const userColumns = "id, email, password_hash, first_name, last_name, tenant_id, created_at"

// UserRepo is the credential store: users, their password hashes and role
// memberships. Users are not filtered by the request tenant because login
// and registration run before any tenant is known.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ExistsByEmail reports whether an account uses the email.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)",
		NormalizeEmail(email)).Scan(&exists)
	return exists, err
}

// GetByEmail fetches a user and its roles by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1",
		NormalizeEmail(email))
	return r.scanWithRoles(ctx, row)
}

// GetByID fetches a user and its roles by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id)
	return r.scanWithRoles(ctx, row)
}

func (r *UserRepo) scanWithRoles(ctx context.Context, row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.TenantID, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	roles, err := rolesOf(ctx, r.DB, u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return &u, nil
}

func rolesOf(ctx context.Context, q database.DBTX, userID int64) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT r.name FROM roles r JOIN user_roles ur ON ur.role_id = r.id WHERE ur.user_id = ? ORDER BY r.name",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		roles = append(roles, name)
	}
	return roles, rows.Err()
}

// CreateWithRole inserts the user and, when role is not empty, grants it in
// the same transaction. Either both happen or neither does. u.ID is set on
// success.
func (r *UserRepo) CreateWithRole(ctx context.Context, u *model.User, role string) error {
	return database.WithTx(ctx, r.DB, nil, func(ctx context.Context, tx database.DBTX) error {
		var roleID int64
		if role != "" {
			err := tx.QueryRowContext(ctx, "SELECT id FROM roles WHERE name = ?", role).Scan(&roleID)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRoleNotFound
			}
			if err != nil {
				return err
			}
		}

		res, err := tx.ExecContext(ctx,
			"INSERT INTO users (email, password_hash, first_name, last_name, tenant_id) VALUES (?,?,?,?,?)",
			NormalizeEmail(u.Email), u.PasswordHash, u.FirstName, u.LastName, u.TenantID)
		if err != nil {
			return translate(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}

		if role != "" {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO user_roles (user_id, role_id) VALUES (?,?)", id, roleID); err != nil {
				return translate(err)
			}
			u.Roles = []string{role}
		} else {
			u.Roles = []string{}
		}
		u.ID = id
		u.Email = NormalizeEmail(u.Email)
		return nil
	})
}

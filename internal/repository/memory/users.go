package memory

import (
	"context"
	"time"

	"github.com/iliyamo/hr-training-api/internal/model"
	"github.com/iliyamo/hr-training-api/internal/repository"
)

// Users is the in-memory credential store.
type Users struct{ s *Store }

func (u *Users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	_, ok := u.byEmail(repository.NormalizeEmail(email))
	return ok, nil
}

func (u *Users) byEmail(email string) (model.User, bool) {
	for _, usr := range u.s.users {
		if usr.Email == email {
			return usr, true
		}
	}
	return model.User{}, false
}

func (u *Users) withRoles(usr model.User) *model.User {
	usr.Roles = append([]string{}, u.s.userRoles[usr.ID]...)
	return &usr
}

func (u *Users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	usr, ok := u.byEmail(repository.NormalizeEmail(email))
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u.withRoles(usr), nil
}

func (u *Users) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	usr, ok := u.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u.withRoles(usr), nil
}

// CreateWithRole inserts the user and grants role, or does neither.
func (u *Users) CreateWithRole(ctx context.Context, usr *model.User, role string) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if role != "" && !u.s.roles[role] {
		return repository.ErrRoleNotFound
	}
	email := repository.NormalizeEmail(usr.Email)
	if _, ok := u.byEmail(email); ok {
		return repository.ErrDuplicate
	}

	row := *usr
	row.ID = u.s.nextID()
	row.Email = email
	row.Roles = nil
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	u.s.users[row.ID] = row
	roles := []string{}
	if role != "" {
		roles = append(roles, role)
	}
	u.s.userRoles[row.ID] = roles

	usr.ID = row.ID
	usr.Email = email
	usr.CreatedAt = row.CreatedAt
	usr.Roles = append([]string{}, roles...)
	return nil
}

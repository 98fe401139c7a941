// Package memory holds in-process implementations of the repositories with
// the same tenant filtering, stamping and constraint behaviour as the MySQL
// ones. It backs STORE_DRIVER=memory and the service and router tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/iliyamo/hr-training-api/internal/model"
	"github.com/iliyamo/hr-training-api/internal/repository"
)

// Store owns every table. Refresh tokens have their own lock so a token
// unit of work can read users; every other table shares mu.
type Store struct {
	mu  sync.Mutex
	seq int64

	tokMu  sync.Mutex
	tokSeq int64

	users     map[int64]model.User
	roles     map[string]bool
	userRoles map[int64][]string
	tokens    map[string]model.RefreshToken

	courseTypes map[int64]model.CourseType
	courses     map[int64]model.Course
	employees   map[int64]model.Employee
	enrollments map[int64]model.EmployeeCourse
}

// New returns an empty store with the Admin and HRUser roles seeded.
func New() *Store {
	return &Store{
		users:       map[int64]model.User{},
		roles:       map[string]bool{model.RoleAdmin: true, model.RoleHRUser: true},
		userRoles:   map[int64][]string{},
		tokens:      map[string]model.RefreshToken{},
		courseTypes: map[int64]model.CourseType{},
		courses:     map[int64]model.Course{},
		employees:   map[int64]model.Employee{},
		enrollments: map[int64]model.EmployeeCourse{},
	}
}

func (s *Store) Users() *Users             { return &Users{s: s} }
func (s *Store) Tokens() *Tokens           { return &Tokens{s: s} }
func (s *Store) CourseTypes() *CourseTypes { return &CourseTypes{s: s} }
func (s *Store) Courses() *Courses         { return &Courses{s: s} }
func (s *Store) Employees() *Employees     { return &Employees{s: s} }
func (s *Store) Enrollments() *Enrollments { return &Enrollments{s: s} }

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

type tenantOwned interface{ TenantID() int64 }

// visible reports whether v belongs to the tenant resolved from ctx.
func visible[T tenantOwned](ctx context.Context, v T) bool {
	return v.TenantID() == repository.Scope(ctx)
}

// scoped returns the rows of m visible in ctx, ordered by less.
func scoped[T tenantOwned](ctx context.Context, m map[int64]T, keep func(T) bool, less func(a, b T) bool) []T {
	out := []T{}
	for _, v := range m {
		if visible(ctx, v) && (keep == nil || keep(v)) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

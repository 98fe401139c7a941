package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hr-training-api/internal/model"
	"github.com/iliyamo/hr-training-api/internal/repository"
	"github.com/iliyamo/hr-training-api/internal/tenant"
)

func TestCourseTypes_TenantIsolation(t *testing.T) {
	s := New()
	a := tenant.WithTenant(context.Background(), 1)
	b := tenant.WithTenant(context.Background(), 2)
	repo := s.CourseTypes()

	require.NoError(t, repo.Create(a, &model.CourseType{Description: "Safety"}))
	require.NoError(t, repo.Create(b, &model.CourseType{Description: "Safety"}))
	require.ErrorIs(t, repo.Create(a, &model.CourseType{Description: "Safety"}), repository.ErrDuplicate)
	require.ErrorIs(t, repo.Create(a, &model.CourseType{Description: "SAFETY"}), repository.ErrDuplicate)
	taken, err := repo.ExistsByDescription(a, "safety", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	listA, err := repo.List(a)
	require.NoError(t, err)
	require.Len(t, listA, 1)
	_, err = repo.GetByID(b, listA[0].ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, repo.Delete(b, listA[0].ID), repository.ErrNotFound)

	none, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, none)
	require.ErrorIs(t, repo.Create(context.Background(), &model.CourseType{Description: "x"}), repository.ErrNoTenant)
}

func TestCourses_RestrictDeletes(t *testing.T) {
	s := New()
	ctx := tenant.WithTenant(context.Background(), 1)
	ct := &model.CourseType{Description: "Workshop"}
	require.NoError(t, s.CourseTypes().Create(ctx, ct))
	c := &model.Course{CourseTypeID: ct.ID, Description: "CPR", StartDate: time.Now().UTC()}
	require.NoError(t, s.Courses().Create(ctx, c))
	e := &model.Employee{FirstName: "Ada", LastName: "L"}
	require.NoError(t, s.Employees().Create(ctx, e))
	ec := &model.EmployeeCourse{EmployeeID: e.ID, CourseID: c.ID}
	require.NoError(t, s.Enrollments().Create(ctx, ec))

	require.ErrorIs(t, s.CourseTypes().Delete(ctx, ct.ID), repository.ErrConflict)
	require.ErrorIs(t, s.Courses().Delete(ctx, c.ID), repository.ErrConflict)
	require.ErrorIs(t, s.Employees().Delete(ctx, e.ID), repository.ErrConflict)

	got, err := s.Enrollments().GetByID(ctx, ec.ID)
	require.NoError(t, err)
	assert.Equal(t, "CPR", got.CourseDescription)
	gotCourse, err := s.Courses().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Workshop", gotCourse.CourseTypeName)
}

func TestTokens_AtomicallyRestoresOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now().UTC()
	tokens := s.Tokens()
	require.NoError(t, tokens.Store(ctx, 1, "old", now.Add(time.Hour)))

	boom := errors.New("boom")
	err := tokens.Atomically(ctx, func(ctx context.Context, tx repository.RefreshTokens) error {
		if _, err := tx.Consume(ctx, "old", now); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	tok, err := tokens.Find(ctx, "old")
	require.NoError(t, err)
	assert.True(t, tok.Usable(now))
	assert.Equal(t, 1, tokens.ActiveFor(1, now))
}

func TestTokens_ConsumeOnce(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now().UTC()
	tokens := s.Tokens()
	require.NoError(t, tokens.Store(ctx, 1, "h", now.Add(time.Hour)))

	uid, err := tokens.Consume(ctx, "h", now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), uid)
	_, err = tokens.Consume(ctx, "h", now)
	require.ErrorIs(t, err, repository.ErrTokenNotUsable)

	require.NoError(t, tokens.Store(ctx, 1, "expired", now.Add(-time.Minute)))
	_, err = tokens.Consume(ctx, "expired", now)
	require.ErrorIs(t, err, repository.ErrTokenNotUsable)
}

func TestUsers_CreateWithRole(t *testing.T) {
	s := New()
	ctx := context.Background()
	users := s.Users()

	u := &model.User{Email: "Ada@Example.com", TenantID: 1}
	require.NoError(t, users.CreateWithRole(ctx, u, model.RoleHRUser))
	assert.Equal(t, "ada@example.com", u.Email)

	require.ErrorIs(t, users.CreateWithRole(ctx, &model.User{Email: "ada@example.com", TenantID: 2}, ""), repository.ErrDuplicate)
	require.ErrorIs(t, users.CreateWithRole(ctx, &model.User{Email: "b@example.com", TenantID: 1}, "Owner"), repository.ErrRoleNotFound)
	exists, err := users.ExistsByEmail(ctx, "b@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	got, err := users.GetByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleHRUser}, got.Roles)
}

package service

import (
	"context"
	"time"

	"github.com/iliyamo/hr-training-api/internal/model"
	"github.com/iliyamo/hr-training-api/internal/repository"
)

// UserStore is the credential store.
type UserStore interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	CreateWithRole(ctx context.Context, u *model.User, role string) error
}

// TokenStore is the refresh token store plus its unit of work.
type TokenStore interface {
	repository.RefreshTokens
	Atomically(ctx context.Context, fn func(ctx context.Context, tokens repository.RefreshTokens) error) error
}

// CourseTypeStore is tenant-scoped course type persistence.
type CourseTypeStore interface {
	List(ctx context.Context) ([]model.CourseType, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int64) (*model.CourseType, error)
	ExistsByDescription(ctx context.Context, description string, excludeID int64) (bool, error)
	HasCourses(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, ct *model.CourseType) error
	Update(ctx context.Context, ct *model.CourseType) error
	Delete(ctx context.Context, id int64) error
}

// CourseStore is tenant-scoped course persistence.
type CourseStore interface {
	List(ctx context.Context, f model.CourseFilter) ([]model.Course, error)
	GetByID(ctx context.Context, id int64) (*model.Course, error)
	Exists(ctx context.Context, description string, startDate time.Time, excludeID int64) (bool, error)
	HasEnrollments(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, c *model.Course) error
	Update(ctx context.Context, c *model.Course) error
	Delete(ctx context.Context, id int64) error
}

// EmployeeStore is tenant-scoped employee persistence.
type EmployeeStore interface {
	List(ctx context.Context) ([]model.Employee, error)
	GetByID(ctx context.Context, id int64) (*model.Employee, error)
	HasEnrollments(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, e *model.Employee) error
	Update(ctx context.Context, e *model.Employee) error
	Delete(ctx context.Context, id int64) error
}

// EnrollmentStore is tenant-scoped enrollment persistence.
type EnrollmentStore interface {
	List(ctx context.Context, f model.EnrollmentFilter) ([]model.EmployeeCourse, error)
	GetByID(ctx context.Context, id int64) (*model.EmployeeCourse, error)
	Create(ctx context.Context, ec *model.EmployeeCourse) error
	Update(ctx context.Context, ec *model.EmployeeCourse) error
	Delete(ctx context.Context, id int64) error
}

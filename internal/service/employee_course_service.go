package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/iliyamo/hr-training-api/internal/model"
	"github.com/iliyamo/hr-training-api/internal/queue"
	"github.com/iliyamo/hr-training-api/internal/repository"
)

// EmployeeCourseService manages enrollments. The employee and the course
// must both exist in the caller's tenant.
type EmployeeCourseService struct {
	store     EnrollmentStore
	employees EmployeeStore
	courses   CourseStore
	notifier
}

func NewEmployeeCourseService(store EnrollmentStore, employees EmployeeStore, courses CourseStore, pub queue.Publisher, log *zap.Logger) *EmployeeCourseService {
	return &EmployeeCourseService{store: store, employees: employees, courses: courses, notifier: newNotifier(pub, log)}
}

func (s *EmployeeCourseService) Get(ctx context.Context, id int64) (*model.EmployeeCourse, error) {
	ec, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("enrollment not found")
	}
	return ec, err
}

func (s *EmployeeCourseService) List(ctx context.Context, f model.EnrollmentFilter) ([]model.EmployeeCourse, error) {
	return s.store.List(ctx, f)
}

// Transcript lists every enrollment of one employee.
func (s *EmployeeCourseService) Transcript(ctx context.Context, employeeID int64) ([]model.EmployeeCourse, error) {
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("employee not found")
		}
		return nil, err
	}
	return s.store.List(ctx, model.EnrollmentFilter{EmployeeID: &employeeID})
}

func validateEnrollment(ec *model.EmployeeCourse) error {
	if !ec.EndDate.IsZero() && ec.EndDate.Before(ec.StartDate) {
		return invalid("end date must not be before start date")
	}
	if ec.Hours < 0 || ec.Credits < 0 || ec.DistrictCost < 0 || ec.EmployeeCost < 0 {
		return invalid("hours, credits and costs must not be negative")
	}
	return nil
}

// Enroll records an employee's enrollment in a course.
func (s *EmployeeCourseService) Enroll(ctx context.Context, ec *model.EmployeeCourse) (*model.EmployeeCourse, error) {
	if err := validateEnrollment(ec); err != nil {
		return nil, err
	}
	if _, err := s.employees.GetByID(ctx, ec.EmployeeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("employee not found")
		}
		return nil, err
	}
	c, err := s.courses.GetByID(ctx, ec.CourseID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("course not found")
	}
	if err != nil {
		return nil, err
	}
	if ec.StartDate.IsZero() {
		ec.StartDate = c.StartDate
	}
	if ec.EndDate.IsZero() {
		ec.EndDate = c.EndDate
	}

	if err := s.store.Create(ctx, ec); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("employee or course not found")
		}
		return nil, err
	}
	ec.CourseDescription = c.Description
	s.emit(ctx, queue.EnrollmentCreated, ec.ID, ec)
	return ec, nil
}

// Update changes the enrollment details; the employee and course stay.
func (s *EmployeeCourseService) Update(ctx context.Context, ec *model.EmployeeCourse) (*model.EmployeeCourse, error) {
	if err := validateEnrollment(ec); err != nil {
		return nil, err
	}
	cur, err := s.Get(ctx, ec.ID)
	if err != nil {
		return nil, err
	}
	if ec.StartDate.IsZero() {
		ec.StartDate = cur.StartDate
	}
	if ec.EndDate.IsZero() {
		ec.EndDate = cur.EndDate
	}
	if err := s.store.Update(ctx, ec); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("enrollment not found")
		}
		return nil, err
	}
	ec.EmployeeID = cur.EmployeeID
	ec.CourseID = cur.CourseID
	ec.CourseDescription = cur.CourseDescription
	return ec, nil
}

func (s *EmployeeCourseService) Delete(ctx context.Context, id int64) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("enrollment not found")
	}
	if err != nil {
		return err
	}
	s.emit(ctx, queue.EnrollmentDeleted, id, nil)
	return nil
}

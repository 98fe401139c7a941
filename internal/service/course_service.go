package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/hr-training-api/internal/model"
	"github.com/iliyamo/hr-training-api/internal/queue"
	"github.com/iliyamo/hr-training-api/internal/repository"
)

const duplicateCourse = "a course with this description and start date already exists"

// CourseService enforces course rules: (description, start date) is unique
// within the tenant, the course type must exist, and a course with
// enrollments cannot be deleted.
type CourseService struct {
	store CourseStore
	types CourseTypeStore
	notifier
}

func NewCourseService(store CourseStore, types CourseTypeStore, pub queue.Publisher, log *zap.Logger) *CourseService {
	return &CourseService{store: store, types: types, notifier: newNotifier(pub, log)}
}

func (s *CourseService) List(ctx context.Context, f model.CourseFilter) ([]model.Course, error) {
	return s.store.List(ctx, f)
}

func (s *CourseService) Get(ctx context.Context, id int64) (*model.Course, error) {
	c, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("course not found")
	}
	return c, err
}

// validate checks the fields and resolves the course type name.
func (s *CourseService) validate(ctx context.Context, c *model.Course) error {
	c.Description = strings.TrimSpace(c.Description)
	if c.Description == "" {
		return invalid("description is required")
	}
	if c.StartDate.IsZero() {
		return invalid("start date is required")
	}
	if !c.EndDate.IsZero() && c.EndDate.Before(c.StartDate) {
		return invalid("end date must not be before start date")
	}
	if c.Hours < 0 || c.Credits < 0 || c.DistrictCost < 0 || c.EmployeeCost < 0 {
		return invalid("hours, credits and costs must not be negative")
	}
	ct, err := s.types.GetByID(ctx, c.CourseTypeID)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("course type not found")
	}
	if err != nil {
		return err
	}
	c.CourseTypeName = ct.Description
	return nil
}

func (s *CourseService) Create(ctx context.Context, c *model.Course) (*model.Course, error) {
	if err := s.validate(ctx, c); err != nil {
		return nil, err
	}
	if c.EndDate.IsZero() {
		c.EndDate = c.StartDate
	}
	exists, err := s.store.Exists(ctx, c.Description, c.StartDate, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflict(duplicateCourse)
	}

	switch err := s.store.Create(ctx, c); {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, conflict(duplicateCourse)
	case errors.Is(err, repository.ErrNotFound):
		return nil, notFound("course type not found")
	case err != nil:
		return nil, err
	}
	s.emit(ctx, queue.CourseCreated, c.ID, c)
	return c, nil
}

func (s *CourseService) Update(ctx context.Context, c *model.Course) (*model.Course, error) {
	if _, err := s.Get(ctx, c.ID); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, c); err != nil {
		return nil, err
	}
	if c.EndDate.IsZero() {
		c.EndDate = c.StartDate
	}
	exists, err := s.store.Exists(ctx, c.Description, c.StartDate, c.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflict(duplicateCourse)
	}

	switch err := s.store.Update(ctx, c); {
	case errors.Is(err, repository.ErrNotFound):
		return nil, notFound("course not found")
	case errors.Is(err, repository.ErrDuplicate):
		return nil, conflict(duplicateCourse)
	case err != nil:
		return nil, err
	}
	return c, nil
}

func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	enrolled, err := s.store.HasEnrollments(ctx, id)
	if err != nil {
		return err
	}
	if enrolled {
		return conflict("cannot delete course: employees are enrolled in it")
	}
	switch err := s.store.Delete(ctx, id); {
	case errors.Is(err, repository.ErrNotFound):
		return notFound("course not found")
	case errors.Is(err, repository.ErrConflict):
		return conflict("cannot delete course: employees are enrolled in it")
	case err != nil:
		return err
	}
	s.emit(ctx, queue.CourseDeleted, id, nil)
	return nil
}

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

// CourseTypeService enforces course type rules: the description is unique
// within the tenant and a type referenced by a course cannot be deleted.
type CourseTypeService struct {
	store CourseTypeStore
	notifier
}

func NewCourseTypeService(store CourseTypeStore, pub queue.Publisher, log *zap.Logger) *CourseTypeService {
	return &CourseTypeService{store: store, notifier: newNotifier(pub, log)}
}

func (s *CourseTypeService) List(ctx context.Context) ([]model.CourseType, error) {
	return s.store.List(ctx)
}

func (s *CourseTypeService) Get(ctx context.Context, id int64) (*model.CourseType, error) {
	ct, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("course type not found")
	}
	return ct, err
}

func (s *CourseTypeService) Create(ctx context.Context, description string) (*model.CourseType, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, invalid("description is required")
	}
	exists, err := s.store.ExistsByDescription(ctx, description, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflict("a course type with this description already exists")
	}

	ct := &model.CourseType{Description: description}
	if err := s.store.Create(ctx, ct); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("a course type with this description already exists")
		}
		return nil, err
	}
	s.emit(ctx, queue.CourseTypeCreated, ct.ID, ct)
	return ct, nil
}

func (s *CourseTypeService) Update(ctx context.Context, id int64, description string) (*model.CourseType, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, invalid("description is required")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	exists, err := s.store.ExistsByDescription(ctx, description, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflict("a course type with this description already exists")
	}

	ct := &model.CourseType{ID: id, Description: description}
	switch err := s.store.Update(ctx, ct); {
	case errors.Is(err, repository.ErrNotFound):
		return nil, notFound("course type not found")
	case errors.Is(err, repository.ErrDuplicate):
		return nil, conflict("a course type with this description already exists")
	case err != nil:
		return nil, err
	}
	return ct, nil
}

func (s *CourseTypeService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	used, err := s.store.HasCourses(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return conflict("cannot delete course type: courses still reference it")
	}
	switch err := s.store.Delete(ctx, id); {
	case errors.Is(err, repository.ErrNotFound):
		return notFound("course type not found")
	case errors.Is(err, repository.ErrConflict):
		return conflict("cannot delete course type: courses still reference it")
	case err != nil:
		return err
	}
	s.emit(ctx, queue.CourseTypeDeleted, id, nil)
	return nil
}

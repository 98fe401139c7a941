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

// EmployeeService manages employees. An employee with enrollments cannot be
// deleted.
type EmployeeService struct {
	store EmployeeStore
	notifier
}

func NewEmployeeService(store EmployeeStore, pub queue.Publisher, log *zap.Logger) *EmployeeService {
	return &EmployeeService{store: store, notifier: newNotifier(pub, log)}
}

func (s *EmployeeService) List(ctx context.Context) ([]model.Employee, error) {
	return s.store.List(ctx)
}

func (s *EmployeeService) Get(ctx context.Context, id int64) (*model.Employee, error) {
	e, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("employee not found")
	}
	return e, err
}

func normalizeEmployee(e *model.Employee) error {
	e.FirstName = strings.TrimSpace(e.FirstName)
	e.LastName = strings.TrimSpace(e.LastName)
	e.Email = strings.TrimSpace(e.Email)
	if e.FirstName == "" || e.LastName == "" {
		return invalid("first and last name are required")
	}
	return nil
}

func (s *EmployeeService) Create(ctx context.Context, e *model.Employee) (*model.Employee, error) {
	if err := normalizeEmployee(e); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, e); err != nil {
		return nil, err
	}
	s.emit(ctx, queue.EmployeeCreated, e.ID, e)
	return e, nil
}

func (s *EmployeeService) Update(ctx context.Context, e *model.Employee) (*model.Employee, error) {
	if err := normalizeEmployee(e); err != nil {
		return nil, err
	}
	err := s.store.Update(ctx, e)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("employee not found")
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	enrolled, err := s.store.HasEnrollments(ctx, id)
	if err != nil {
		return err
	}
	if enrolled {
		return conflict("cannot delete employee: enrollments still reference them")
	}
	switch err := s.store.Delete(ctx, id); {
	case errors.Is(err, repository.ErrNotFound):
		return notFound("employee not found")
	case errors.Is(err, repository.ErrConflict):
		return conflict("cannot delete employee: enrollments still reference them")
	case err != nil:
		return err
	}
	return nil
}

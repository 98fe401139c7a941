// Package seed loads demo training data for a fresh deployment.
package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/hr-training-api/internal/model"
	"github.com/iliyamo/hr-training-api/internal/service"
	"github.com/iliyamo/hr-training-api/internal/tenant"
)

// TenantID is the tenant that receives the demo data.
const TenantID int64 = 1

// Stores are the repositories the seeder writes through. Writes go through
// the normal tenant-scoped paths with a bootstrap tenant on the context.
type Stores struct {
	CourseTypes service.CourseTypeStore
	Courses     service.CourseStore
	Employees   service.EmployeeStore
	Enrollments service.EnrollmentStore
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func str(s string) *string { return &s }

// Demo inserts three course types, courses, employees and enrollments for
// TenantID. It does nothing when the tenant already has a course type.
func Demo(ctx context.Context, s Stores, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	ctx = tenant.WithTenant(ctx, TenantID)

	n, err := s.CourseTypes.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: count course types: %w", err)
	}
	if n > 0 {
		log.Info("seed skipped, tenant already has data", zap.Int64("tenant_id", TenantID))
		return nil
	}

	types := []*model.CourseType{
		{Description: "Safety Training"},
		{Description: "Compliance"},
		{Description: "Professional Development"},
	}
	for _, ct := range types {
		if err := s.CourseTypes.Create(ctx, ct); err != nil {
			return fmt.Errorf("seed: course type %q: %w", ct.Description, err)
		}
	}

	courses := []*model.Course{
		{
			CourseTypeID: types[0].ID, Description: "Fire Safety Basics",
			StartDate: date(2025, 3, 1), EndDate: date(2025, 3, 1),
			Hours: 4, DistrictCost: 50, Approved: true,
			Provider: str("Internal"), Location: str("Main Office"),
		},
		{
			CourseTypeID: types[1].ID, Description: "Workplace Compliance 2025",
			StartDate: date(2025, 4, 10), EndDate: date(2025, 4, 10),
			Hours: 2, Approved: true,
			Provider: str("HR Department"),
		},
		{
			CourseTypeID: types[2].ID, Description: "Leadership Workshop",
			StartDate: date(2025, 5, 15), EndDate: date(2025, 5, 16),
			Hours: 16, Credits: 1, DistrictCost: 200, Approved: true,
			Institution: str("Training Center"),
		},
	}
	for _, c := range courses {
		if err := s.Courses.Create(ctx, c); err != nil {
			return fmt.Errorf("seed: course %q: %w", c.Description, err)
		}
	}

	employees := []*model.Employee{
		{FirstName: "Jane", LastName: "Doe", Email: "jane.doe@district1.org"},
		{FirstName: "John", LastName: "Smith", Email: "john.smith@district1.org"},
		{FirstName: "Maria", LastName: "Garcia", Email: "maria.garcia@district1.org"},
	}
	for _, e := range employees {
		if err := s.Employees.Create(ctx, e); err != nil {
			return fmt.Errorf("seed: employee %s %s: %w", e.FirstName, e.LastName, err)
		}
	}

	enrollments := []*model.EmployeeCourse{
		{
			EmployeeID: employees[0].ID, CourseID: courses[0].ID,
			StartDate: date(2025, 3, 1), EndDate: date(2025, 3, 1),
			Hours: 4, DistrictCost: 50, Grade: str("Pass"),
		},
		{
			EmployeeID: employees[0].ID, CourseID: courses[1].ID,
			StartDate: date(2025, 4, 10), EndDate: date(2025, 4, 10),
			Hours: 2,
		},
		{
			EmployeeID: employees[1].ID, CourseID: courses[0].ID,
			StartDate: date(2025, 3, 1), EndDate: date(2025, 3, 1),
			Hours: 4, DistrictCost: 50,
		},
	}
	for _, ec := range enrollments {
		if err := s.Enrollments.Create(ctx, ec); err != nil {
			return fmt.Errorf("seed: enrollment: %w", err)
		}
	}

	log.Info("demo data seeded",
		zap.Int64("tenant_id", TenantID),
		zap.Int("course_types", len(types)),
		zap.Int("courses", len(courses)),
		zap.Int("employees", len(employees)),
		zap.Int("enrollments", len(enrollments)))
	return nil
}

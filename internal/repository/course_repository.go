package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/hr-training-api/internal/database"
	"github.com/iliyamo/hr-training-api/internal/model"
)

const courseSelect = `SELECT c.id, c.tenant_id, c.course_type_id, ct.description, c.description,
 c.start_date, c.end_date, c.hours, c.credits, c.district_cost, c.employee_cost,
 c.tuition_eligible, c.approved, c.maintenance_of_license,
 c.provider, c.presenter, c.institution, c.degree, c.cert_no, c.location, c.notes
 FROM courses c
 JOIN course_types ct ON ct.id = c.course_type_id AND ct.tenant_id = c.tenant_id`

// CourseRepo provides tenant-scoped access to courses.
type CourseRepo struct{ DB database.DBTX }

func NewCourseRepo(db database.DBTX) *CourseRepo { return &CourseRepo{DB: db} }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(s rowScanner) (model.Course, error) {
	var c model.Course
	err := s.Scan(&c.ID, &c.Tenant, &c.CourseTypeID, &c.CourseTypeName, &c.Description,
		&c.StartDate, &c.EndDate, &c.Hours, &c.Credits, &c.DistrictCost, &c.EmployeeCost,
		&c.TuitionEligible, &c.Approved, &c.MaintenanceOfLicense,
		&c.Provider, &c.Presenter, &c.Institution, &c.Degree, &c.CertNo, &c.Location, &c.Notes)
	return c, err
}

// List returns the tenant's courses matching f, newest start date first.
func (r *CourseRepo) List(ctx context.Context, f model.CourseFilter) ([]model.Course, error) {
	where := []string{"c.tenant_id = ?"}
	args := []any{Scope(ctx)}
	if f.TypeID != nil {
		where = append(where, "c.course_type_id = ?")
		args = append(args, *f.TypeID)
	}
	if f.Date != nil {
		day := time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(), 0, 0, 0, 0, time.UTC)
		where = append(where, "c.start_date >= ? AND c.start_date < ?")
		args = append(args, day, day.AddDate(0, 0, 1))
	}
	if f.Approved != nil {
		where = append(where, "c.approved = ?")
		args = append(args, *f.Approved)
	}

	rows, err := r.DB.QueryContext(ctx,
		courseSelect+" WHERE "+strings.Join(where, " AND ")+" ORDER BY c.start_date DESC, c.id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID fetches one course of the tenant with its type name.
func (r *CourseRepo) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	c, err := scanCourse(r.DB.QueryRowContext(ctx,
		courseSelect+" WHERE c.id = ? AND c.tenant_id = ?", id, Scope(ctx)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Exists reports whether another course of the tenant has the same
// description and start date. excludeID skips the row being updated.
func (r *CourseRepo) Exists(ctx context.Context, description string, startDate time.Time, excludeID int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM courses WHERE tenant_id = ? AND description = ? AND start_date = ? AND id <> ?)",
		Scope(ctx), description, startDate.UTC(), excludeID).Scan(&exists)
	return exists, err
}

// HasEnrollments reports whether any enrollment of the tenant references
// the course.
func (r *CourseRepo) HasEnrollments(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM employee_courses WHERE tenant_id = ? AND course_id = ?)",
		Scope(ctx), id).Scan(&exists)
	return exists, err
}

// Create stamps the tenant and inserts the course.
func (r *CourseRepo) Create(ctx context.Context, c *model.Course) error {
	if err := Stamp(ctx, c); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `INSERT INTO courses
 (tenant_id, course_type_id, description, start_date, end_date, hours, credits, district_cost, employee_cost,
 tuition_eligible, approved, maintenance_of_license, provider, presenter, institution, degree, cert_no, location, notes)
 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		c.TenantID(), c.CourseTypeID, c.Description, c.StartDate.UTC(), c.EndDate.UTC(), c.Hours, c.Credits,
		c.DistrictCost, c.EmployeeCost, c.TuitionEligible, c.Approved, c.MaintenanceOfLicense,
		c.Provider, c.Presenter, c.Institution, c.Degree, c.CertNo, c.Location, c.Notes)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

// Update overwrites the mutable columns. tenant_id is never written.
func (r *CourseRepo) Update(ctx context.Context, c *model.Course) error {
	tenantID := Scope(ctx)
	res, err := r.DB.ExecContext(ctx, `UPDATE courses SET
 course_type_id = ?, description = ?, start_date = ?, end_date = ?, hours = ?, credits = ?,
 district_cost = ?, employee_cost = ?, tuition_eligible = ?, approved = ?, maintenance_of_license = ?,
 provider = ?, presenter = ?, institution = ?, degree = ?, cert_no = ?, location = ?, notes = ?
 WHERE id = ? AND tenant_id = ?`,
		c.CourseTypeID, c.Description, c.StartDate.UTC(), c.EndDate.UTC(), c.Hours, c.Credits,
		c.DistrictCost, c.EmployeeCost, c.TuitionEligible, c.Approved, c.MaintenanceOfLicense,
		c.Provider, c.Presenter, c.Institution, c.Degree, c.CertNo, c.Location, c.Notes,
		c.ID, tenantID)
	if err != nil {
		return translate(err)
	}
	if err := affectedOne(res); err != nil {
		return err
	}
	c.SetTenantID(tenantID)
	return nil
}

// Delete removes the course.
func (r *CourseRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM courses WHERE id = ? AND tenant_id = ?", id, Scope(ctx))
	if err != nil {
		return translate(err)
	}
	return affectedOne(res)
}

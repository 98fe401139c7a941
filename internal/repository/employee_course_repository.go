package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hr-training-api/internal/database"
	"github.com/iliyamo/hr-training-api/internal/model"
)

const enrollmentSelect = `SELECT ec.id, ec.tenant_id, ec.employee_id, ec.course_id, c.description,
 ec.start_date, ec.end_date, ec.hours, ec.credits, ec.district_cost, ec.employee_cost,
 ec.grade, ec.major, ec.notes
 FROM employee_courses ec
 JOIN courses c ON c.id = ec.course_id AND c.tenant_id = ec.tenant_id`

// EmployeeCourseRepo provides tenant-scoped access to enrollments.
type EmployeeCourseRepo struct{ DB database.DBTX }

func NewEmployeeCourseRepo(db database.DBTX) *EmployeeCourseRepo {
	return &EmployeeCourseRepo{DB: db}
}

func scanEnrollment(s rowScanner) (model.EmployeeCourse, error) {
	var ec model.EmployeeCourse
	err := s.Scan(&ec.ID, &ec.Tenant, &ec.EmployeeID, &ec.CourseID, &ec.CourseDescription,
		&ec.StartDate, &ec.EndDate, &ec.Hours, &ec.Credits, &ec.DistrictCost, &ec.EmployeeCost,
		&ec.Grade, &ec.Major, &ec.Notes)
	return ec, err
}

// List returns the tenant's enrollments matching f.
func (r *EmployeeCourseRepo) List(ctx context.Context, f model.EnrollmentFilter) ([]model.EmployeeCourse, error) {
	where := []string{"ec.tenant_id = ?"}
	args := []any{Scope(ctx)}
	if f.EmployeeID != nil {
		where = append(where, "ec.employee_id = ?")
		args = append(args, *f.EmployeeID)
	}
	if f.CourseID != nil {
		where = append(where, "ec.course_id = ?")
		args = append(args, *f.CourseID)
	}

	rows, err := r.DB.QueryContext(ctx,
		enrollmentSelect+" WHERE "+strings.Join(where, " AND ")+" ORDER BY ec.start_date DESC, ec.id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.EmployeeCourse{}
	for rows.Next() {
		ec, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ec)
	}
	return out, rows.Err()
}

// GetByID fetches one enrollment of the tenant.
func (r *EmployeeCourseRepo) GetByID(ctx context.Context, id int64) (*model.EmployeeCourse, error) {
	ec, err := scanEnrollment(r.DB.QueryRowContext(ctx,
		enrollmentSelect+" WHERE ec.id = ? AND ec.tenant_id = ?", id, Scope(ctx)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ec, nil
}

// Create stamps the tenant and inserts the enrollment.
func (r *EmployeeCourseRepo) Create(ctx context.Context, ec *model.EmployeeCourse) error {
	if err := Stamp(ctx, ec); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `INSERT INTO employee_courses
 (tenant_id, employee_id, course_id, start_date, end_date, hours, credits, district_cost, employee_cost, grade, major, notes)
 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		ec.TenantID(), ec.EmployeeID, ec.CourseID, ec.StartDate.UTC(), ec.EndDate.UTC(), ec.Hours, ec.Credits,
		ec.DistrictCost, ec.EmployeeCost, ec.Grade, ec.Major, ec.Notes)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ec.ID = id
	return nil
}

// Update overwrites the enrollment details. The employee, the course and
// the tenant are not changed.
func (r *EmployeeCourseRepo) Update(ctx context.Context, ec *model.EmployeeCourse) error {
	tenantID := Scope(ctx)
	res, err := r.DB.ExecContext(ctx, `UPDATE employee_courses SET
 start_date = ?, end_date = ?, hours = ?, credits = ?, district_cost = ?, employee_cost = ?,
 grade = ?, major = ?, notes = ?
 WHERE id = ? AND tenant_id = ?`,
		ec.StartDate.UTC(), ec.EndDate.UTC(), ec.Hours, ec.Credits, ec.DistrictCost, ec.EmployeeCost,
		ec.Grade, ec.Major, ec.Notes, ec.ID, tenantID)
	if err != nil {
		return translate(err)
	}
	if err := affectedOne(res); err != nil {
		return err
	}
	ec.SetTenantID(tenantID)
	return nil
}

// Delete removes the enrollment.
func (r *EmployeeCourseRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM employee_courses WHERE id = ? AND tenant_id = ?", id, Scope(ctx))
	if err != nil {
		return translate(err)
	}
	return affectedOne(res)
}

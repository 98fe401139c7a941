package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hr-training-api/internal/database"
	"github.com/iliyamo/hr-training-api/internal/model"
)

// CourseTypeRepo provides tenant-scoped access to course_types.
type CourseTypeRepo struct{ DB database.DBTX }

func NewCourseTypeRepo(db database.DBTX) *CourseTypeRepo { return &CourseTypeRepo{DB: db} }

// List returns the tenant's course types ordered by description.
func (r *CourseTypeRepo) List(ctx context.Context) ([]model.CourseType, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, tenant_id, description FROM course_types WHERE tenant_id = ? ORDER BY description, id",
		Scope(ctx))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.CourseType{}
	for rows.Next() {
		var ct model.CourseType
		if err := rows.Scan(&ct.ID, &ct.Tenant, &ct.Description); err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

// Count returns how many course types the tenant has.
func (r *CourseTypeRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM course_types WHERE tenant_id = ?", Scope(ctx)).Scan(&n)
	return n, err
}

// GetByID fetches one course type of the tenant.
func (r *CourseTypeRepo) GetByID(ctx context.Context, id int64) (*model.CourseType, error) {
	var ct model.CourseType
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, tenant_id, description FROM course_types WHERE id = ? AND tenant_id = ?",
		id, Scope(ctx)).Scan(&ct.ID, &ct.Tenant, &ct.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

// ExistsByDescription reports whether another course type of the tenant
// already uses description. excludeID skips the row being updated; pass 0
// on create.
func (r *CourseTypeRepo) ExistsByDescription(ctx context.Context, description string, excludeID int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM course_types WHERE tenant_id = ? AND description = ? AND id <> ?)",
		Scope(ctx), description, excludeID).Scan(&exists)
	return exists, err
}

// HasCourses reports whether any course of the tenant references the type.
func (r *CourseTypeRepo) HasCourses(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM courses WHERE tenant_id = ? AND course_type_id = ?)",
		Scope(ctx), id).Scan(&exists)
	return exists, err
}

// Create stamps the tenant and inserts the course type.
func (r *CourseTypeRepo) Create(ctx context.Context, ct *model.CourseType) error {
	if err := Stamp(ctx, ct); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO course_types (tenant_id, description) VALUES (?,?)",
		ct.TenantID(), ct.Description)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ct.ID = id
	return nil
}

// Update changes the description. tenant_id is never written.
func (r *CourseTypeRepo) Update(ctx context.Context, ct *model.CourseType) error {
	tenantID := Scope(ctx)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE course_types SET description = ? WHERE id = ? AND tenant_id = ?",
		ct.Description, ct.ID, tenantID)
	if err != nil {
		return translate(err)
	}
	if err := affectedOne(res); err != nil {
		return err
	}
	ct.SetTenantID(tenantID)
	return nil
}

// Delete removes the course type.
func (r *CourseTypeRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM course_types WHERE id = ? AND tenant_id = ?", id, Scope(ctx))
	if err != nil {
		return translate(err)
	}
	return affectedOne(res)
}

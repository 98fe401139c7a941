package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hr-training-api/internal/database"
	"github.com/iliyamo/hr-training-api/internal/model"
)

// EmployeeRepo provides tenant-scoped access to employees.
type EmployeeRepo struct{ DB database.DBTX }

func NewEmployeeRepo(db database.DBTX) *EmployeeRepo { return &EmployeeRepo{DB: db} }

// List returns the tenant's employees ordered by name.
func (r *EmployeeRepo) List(ctx context.Context) ([]model.Employee, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, tenant_id, first_name, last_name, email FROM employees WHERE tenant_id = ? ORDER BY last_name, first_name, id",
		Scope(ctx))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Employee{}
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.ID, &e.Tenant, &e.FirstName, &e.LastName, &e.Email); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetByID fetches one employee of the tenant.
func (r *EmployeeRepo) GetByID(ctx context.Context, id int64) (*model.Employee, error) {
	var e model.Employee
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, tenant_id, first_name, last_name, email FROM employees WHERE id = ? AND tenant_id = ?",
		id, Scope(ctx)).Scan(&e.ID, &e.Tenant, &e.FirstName, &e.LastName, &e.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// HasEnrollments reports whether the employee has any enrollment.
func (r *EmployeeRepo) HasEnrollments(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM employee_courses WHERE tenant_id = ? AND employee_id = ?)",
		Scope(ctx), id).Scan(&exists)
	return exists, err
}

// Create stamps the tenant and inserts the employee.
func (r *EmployeeRepo) Create(ctx context.Context, e *model.Employee) error {
	if err := Stamp(ctx, e); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO employees (tenant_id, first_name, last_name, email) VALUES (?,?,?,?)",
		e.TenantID(), e.FirstName, e.LastName, e.Email)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// Update overwrites the employee's name and email.
func (r *EmployeeRepo) Update(ctx context.Context, e *model.Employee) error {
	tenantID := Scope(ctx)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE employees SET first_name = ?, last_name = ?, email = ? WHERE id = ? AND tenant_id = ?",
		e.FirstName, e.LastName, e.Email, e.ID, tenantID)
	if err != nil {
		return translate(err)
	}
	if err := affectedOne(res); err != nil {
		return err
	}
	e.SetTenantID(tenantID)
	return nil
}

// Delete removes the employee.
func (r *EmployeeRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM employees WHERE id = ? AND tenant_id = ?", id, Scope(ctx))
	if err != nil {
		return translate(err)
	}
	return affectedOne(res)
}

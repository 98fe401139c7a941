package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hr-training-api/internal/model"
)

func TestEmployeeRepo_CRUD(t *testing.T) {
	db, mock := newMock(t)
	ctx := asTenant(2)
	repo := NewEmployeeRepo(db)

	mock.ExpectExec(q("INSERT INTO employees (tenant_id, first_name, last_name, email) VALUES (?,?,?,?)")).
		WithArgs(int64(2), "Grace", "Hopper", "grace@example.com").
		WillReturnResult(sqlmock.NewResult(4, 1))
	e := &model.Employee{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"}
	require.NoError(t, repo.Create(ctx, e))
	require.Equal(t, int64(4), e.ID)

	mock.ExpectQuery(q("FROM employees WHERE id = ? AND tenant_id = ?")).
		WithArgs(int64(4), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "first_name", "last_name", "email"}).
			AddRow(int64(4), int64(2), "Grace", "Hopper", "grace@example.com"))
	got, err := repo.GetByID(ctx, 4)
	require.NoError(t, err)
	require.Equal(t, "Hopper", got.LastName)

	mock.ExpectExec(q("UPDATE employees SET first_name = ?, last_name = ?, email = ? WHERE id = ? AND tenant_id = ?")).
		WithArgs("Grace", "Murray", "grace@example.com", int64(4), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	e.LastName = "Murray"
	require.NoError(t, repo.Update(ctx, e))

	mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM employee_courses WHERE tenant_id = ? AND employee_id = ?)")).
		WithArgs(int64(2), int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))
	has, err := repo.HasEnrollments(ctx, 4)
	require.NoError(t, err)
	require.False(t, has)

	mock.ExpectExec(q("DELETE FROM employees WHERE id = ? AND tenant_id = ?")).
		WithArgs(int64(4), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(ctx, 4))
}

func TestEmployeeRepo_List_NoTenant(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(q("FROM employees WHERE tenant_id = ?")).
		WithArgs(NoTenant).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "first_name", "last_name", "email"}))

	list, err := NewEmployeeRepo(db).List(context.Background())
	require.NoError(t, err)
	require.Empty(t, list)
}

var enrollmentCols = []string{"id", "tenant_id", "employee_id", "course_id", "course_desc",
	"start_date", "end_date", "hours", "credits", "district_cost", "employee_cost", "grade", "major", "notes"}

func TestEmployeeCourseRepo_List_ByEmployee(t *testing.T) {
	db, mock := newMock(t)
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	empID := int64(4)
	mock.ExpectQuery(q("WHERE ec.tenant_id = ? AND ec.employee_id = ? ORDER BY")).
		WithArgs(int64(2), int64(4)).
		WillReturnRows(sqlmock.NewRows(enrollmentCols).
			AddRow(int64(1), int64(2), int64(4), int64(8), "CPR Basics", start, start, 4, 1, 0.0, 25.0, "A", nil, nil))

	list, err := NewEmployeeCourseRepo(db).List(asTenant(2), model.EnrollmentFilter{EmployeeID: &empID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "CPR Basics", list[0].CourseDescription)
	require.Equal(t, "A", *list[0].Grade)
	require.Nil(t, list[0].Major)
}

func TestEmployeeCourseRepo_CreateUpdateDelete(t *testing.T) {
	db, mock := newMock(t)
	ctx := asTenant(2)
	repo := NewEmployeeCourseRepo(db)
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(q("INSERT INTO employee_courses")).
		WithArgs(int64(2), int64(4), int64(8), start, start, 4, 1, 0.0, 0.0, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(12, 1))
	ec := &model.EmployeeCourse{EmployeeID: 4, CourseID: 8, StartDate: start, EndDate: start, Hours: 4, Credits: 1}
	require.NoError(t, repo.Create(ctx, ec))
	require.Equal(t, int64(12), ec.ID)

	mock.ExpectExec(q("UPDATE employee_courses SET")).
		WithArgs(start, start, 6, 1, 0.0, 0.0, nil, nil, nil, int64(12), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	ec.Hours = 6
	require.NoError(t, repo.Update(ctx, ec))

	mock.ExpectExec(q("DELETE FROM employee_courses WHERE id = ? AND tenant_id = ?")).
		WithArgs(int64(12), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Delete(ctx, 12), ErrNotFound)
}

package memory

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/hr-training-api/internal/model"
	"github.com/iliyamo/hr-training-api/internal/repository"
)

// CourseTypes is the in-memory counterpart of repository.CourseTypeRepo.
type CourseTypes struct{ s *Store }

func (r *CourseTypes) List(ctx context.Context) ([]model.CourseType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return scoped(ctx, r.s.courseTypes, nil, func(a, b model.CourseType) bool {
		if a.Description != b.Description {
			return a.Description < b.Description
		}
		return a.ID < b.ID
	}), nil
}

func (r *CourseTypes) Count(ctx context.Context) (int, error) {
	list, _ := r.List(ctx)
	return len(list), nil
}

func (r *CourseTypes) GetByID(ctx context.Context, id int64) (*model.CourseType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ct, ok := r.s.courseTypes[id]
	if !ok || !visible(ctx, ct) {
		return nil, repository.ErrNotFound
	}
	return &ct, nil
}

func (r *CourseTypes) ExistsByDescription(ctx context.Context, description string, excludeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.exists(ctx, description, excludeID), nil
}

func (r *CourseTypes) exists(ctx context.Context, description string, excludeID int64) bool {
	for _, ct := range r.s.courseTypes {
		if visible(ctx, ct) && sameText(ct.Description, description) && ct.ID != excludeID {
			return true
		}
	}
	return false
}

func (r *CourseTypes) HasCourses(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.courses {
		if visible(ctx, c) && c.CourseTypeID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *CourseTypes) Create(ctx context.Context, ct *model.CourseType) error {
	if err := repository.Stamp(ctx, ct); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.exists(ctx, ct.Description, 0) {
		return repository.ErrDuplicate
	}
	ct.ID = r.s.nextID()
	r.s.courseTypes[ct.ID] = *ct
	return nil
}

func (r *CourseTypes) Update(ctx context.Context, ct *model.CourseType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.courseTypes[ct.ID]
	if !ok || !visible(ctx, cur) {
		return repository.ErrNotFound
	}
	if r.exists(ctx, ct.Description, ct.ID) {
		return repository.ErrDuplicate
	}
	cur.Description = ct.Description
	r.s.courseTypes[ct.ID] = cur
	ct.SetTenantID(cur.TenantID())
	return nil
}

func (r *CourseTypes) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.courseTypes[id]
	if !ok || !visible(ctx, cur) {
		return repository.ErrNotFound
	}
	for _, c := range r.s.courses {
		if c.CourseTypeID == id {
			return repository.ErrConflict
		}
	}
	delete(r.s.courseTypes, id)
	return nil
}

// Courses is the in-memory counterpart of repository.CourseRepo.
type Courses struct{ s *Store }

func (r *Courses) withTypeName(c model.Course) model.Course {
	if ct, ok := r.s.courseTypes[c.CourseTypeID]; ok && ct.TenantID() == c.TenantID() {
		c.CourseTypeName = ct.Description
	}
	return c
}

func sameDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func (r *Courses) List(ctx context.Context, f model.CourseFilter) ([]model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	keep := func(c model.Course) bool {
		if f.TypeID != nil && c.CourseTypeID != *f.TypeID {
			return false
		}
		if f.Date != nil && !sameDay(c.StartDate, *f.Date) {
			return false
		}
		if f.Approved != nil && c.Approved != *f.Approved {
			return false
		}
		return true
	}
	list := scoped(ctx, r.s.courses, keep, func(a, b model.Course) bool {
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.After(b.StartDate)
		}
		return a.ID < b.ID
	})
	for i := range list {
		list[i] = r.withTypeName(list[i])
	}
	return list, nil
}

func (r *Courses) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok || !visible(ctx, c) {
		return nil, repository.ErrNotFound
	}
	c = r.withTypeName(c)
	return &c, nil
}

func (r *Courses) Exists(ctx context.Context, description string, startDate time.Time, excludeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.exists(ctx, description, startDate, excludeID), nil
}

func (r *Courses) exists(ctx context.Context, description string, startDate time.Time, excludeID int64) bool {
	for _, c := range r.s.courses {
		if visible(ctx, c) && sameText(c.Description, description) && c.StartDate.Equal(startDate) && c.ID != excludeID {
			return true
		}
	}
	return false
}

func (r *Courses) HasEnrollments(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ec := range r.s.enrollments {
		if visible(ctx, ec) && ec.CourseID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *Courses) typeVisible(ctx context.Context, typeID int64) bool {
	ct, ok := r.s.courseTypes[typeID]
	return ok && visible(ctx, ct)
}

func (r *Courses) Create(ctx context.Context, c *model.Course) error {
	if err := repository.Stamp(ctx, c); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.typeVisible(ctx, c.CourseTypeID) {
		return repository.ErrNotFound
	}
	if r.exists(ctx, c.Description, c.StartDate, 0) {
		return repository.ErrDuplicate
	}
	c.ID = r.s.nextID()
	row := *c
	row.CourseTypeName = ""
	r.s.courses[c.ID] = row
	return nil
}

func (r *Courses) Update(ctx context.Context, c *model.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.courses[c.ID]
	if !ok || !visible(ctx, cur) {
		return repository.ErrNotFound
	}
	if !r.typeVisible(ctx, c.CourseTypeID) {
		return repository.ErrNotFound
	}
	if r.exists(ctx, c.Description, c.StartDate, c.ID) {
		return repository.ErrDuplicate
	}
	row := *c
	row.SetTenantID(cur.TenantID())
	row.CourseTypeName = ""
	r.s.courses[c.ID] = row
	c.SetTenantID(cur.TenantID())
	return nil
}

func (r *Courses) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.courses[id]
	if !ok || !visible(ctx, cur) {
		return repository.ErrNotFound
	}
	for _, ec := range r.s.enrollments {
		if ec.CourseID == id {
			return repository.ErrConflict
		}
	}
	delete(r.s.courses, id)
	return nil
}

// Employees is the in-memory counterpart of repository.EmployeeRepo.
type Employees struct{ s *Store }

func (r *Employees) List(ctx context.Context) ([]model.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return scoped(ctx, r.s.employees, nil, func(a, b model.Employee) bool {
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.ID < b.ID
	}), nil
}

func (r *Employees) GetByID(ctx context.Context, id int64) (*model.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[id]
	if !ok || !visible(ctx, e) {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *Employees) HasEnrollments(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ec := range r.s.enrollments {
		if visible(ctx, ec) && ec.EmployeeID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *Employees) Create(ctx context.Context, e *model.Employee) error {
	if err := repository.Stamp(ctx, e); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.nextID()
	r.s.employees[e.ID] = *e
	return nil
}

func (r *Employees) Update(ctx context.Context, e *model.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.employees[e.ID]
	if !ok || !visible(ctx, cur) {
		return repository.ErrNotFound
	}
	row := *e
	row.SetTenantID(cur.TenantID())
	r.s.employees[e.ID] = row
	e.SetTenantID(cur.TenantID())
	return nil
}

func (r *Employees) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.employees[id]
	if !ok || !visible(ctx, cur) {
		return repository.ErrNotFound
	}
	for _, ec := range r.s.enrollments {
		if ec.EmployeeID == id {
			return repository.ErrConflict
		}
	}
	delete(r.s.employees, id)
	return nil
}

// Enrollments is the in-memory counterpart of repository.EmployeeCourseRepo.
type Enrollments struct{ s *Store }

func (r *Enrollments) withDescription(ec model.EmployeeCourse) model.EmployeeCourse {
	if c, ok := r.s.courses[ec.CourseID]; ok && c.TenantID() == ec.TenantID() {
		ec.CourseDescription = c.Description
	}
	return ec
}

func (r *Enrollments) List(ctx context.Context, f model.EnrollmentFilter) ([]model.EmployeeCourse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	keep := func(ec model.EmployeeCourse) bool {
		if f.EmployeeID != nil && ec.EmployeeID != *f.EmployeeID {
			return false
		}
		if f.CourseID != nil && ec.CourseID != *f.CourseID {
			return false
		}
		return true
	}
	list := scoped(ctx, r.s.enrollments, keep, func(a, b model.EmployeeCourse) bool {
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.After(b.StartDate)
		}
		return a.ID < b.ID
	})
	for i := range list {
		list[i] = r.withDescription(list[i])
	}
	return list, nil
}

func (r *Enrollments) GetByID(ctx context.Context, id int64) (*model.EmployeeCourse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ec, ok := r.s.enrollments[id]
	if !ok || !visible(ctx, ec) {
		return nil, repository.ErrNotFound
	}
	ec = r.withDescription(ec)
	return &ec, nil
}

func (r *Enrollments) Create(ctx context.Context, ec *model.EmployeeCourse) error {
	if err := repository.Stamp(ctx, ec); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	emp, ok := r.s.employees[ec.EmployeeID]
	if !ok || !visible(ctx, emp) {
		return repository.ErrNotFound
	}
	c, ok := r.s.courses[ec.CourseID]
	if !ok || !visible(ctx, c) {
		return repository.ErrNotFound
	}
	ec.ID = r.s.nextID()
	row := *ec
	row.CourseDescription = ""
	r.s.enrollments[ec.ID] = row
	return nil
}

func (r *Enrollments) Update(ctx context.Context, ec *model.EmployeeCourse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.enrollments[ec.ID]
	if !ok || !visible(ctx, cur) {
		return repository.ErrNotFound
	}
	cur.StartDate = ec.StartDate
	cur.EndDate = ec.EndDate
	cur.Hours = ec.Hours
	cur.Credits = ec.Credits
	cur.DistrictCost = ec.DistrictCost
	cur.EmployeeCost = ec.EmployeeCost
	cur.Grade = ec.Grade
	cur.Major = ec.Major
	cur.Notes = ec.Notes
	r.s.enrollments[ec.ID] = cur
	ec.SetTenantID(cur.TenantID())
	return nil
}

func (r *Enrollments) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.enrollments[id]
	if !ok || !visible(ctx, cur) {
		return repository.ErrNotFound
	}
	delete(r.s.enrollments, id)
	return nil
}

// sameText compares descriptions case-insensitively, as the MySQL unique
// keys do under the utf8mb4 default collation.
func sameText(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

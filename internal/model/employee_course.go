package model

import "time"

// EmployeeCourse records an employee's enrollment in a course. Both the
// employee and the course must belong to the enrollment's tenant.
type EmployeeCourse struct {
	Tenancy
	ID                int64     `json:"employeeCourseId"`
	EmployeeID        int64     `json:"employeeId"`
	CourseID          int64     `json:"courseId"`
	CourseDescription string    `json:"courseDescription"` // joined from courses
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	Hours             int       `json:"hours"`
	Credits           int       `json:"credits"`
	DistrictCost      float64   `json:"districtCost"`
	EmployeeCost      float64   `json:"employeeCost"`
	Grade             *string   `json:"grade,omitempty"`
	Major             *string   `json:"major,omitempty"`
	Notes             *string   `json:"notes,omitempty"`
}

// EnrollmentFilter narrows enrollment listings. Nil fields do not filter.
type EnrollmentFilter struct {
	EmployeeID *int64
	CourseID   *int64
}

package model

import "time"

// Course represents a training offering in the `courses` table. The pair
// (Description, StartDate) is unique within a tenant and CourseTypeID must
// reference a course type of the same tenant.
type Course struct {
	Tenancy
	ID                   int64     `json:"courseId"`
	CourseTypeID         int64     `json:"courseTypeId"`
	CourseTypeName       string    `json:"courseTypeName"` // joined from course_types
	Description          string    `json:"description"`
	StartDate            time.Time `json:"startDate"`
	EndDate              time.Time `json:"endDate"`
	Hours                int       `json:"hours"`
	Credits              int       `json:"credits"`
	DistrictCost         float64   `json:"districtCost"`
	EmployeeCost         float64   `json:"employeeCost"`
	TuitionEligible      bool      `json:"tuitionEligible"`
	Approved             bool      `json:"approved"`
	MaintenanceOfLicense bool      `json:"maintenanceOfLicense"`
	Provider             *string   `json:"provider,omitempty"`
	Presenter            *string   `json:"presenter,omitempty"`
	Institution          *string   `json:"institution,omitempty"`
	Degree               *string   `json:"degree,omitempty"`
	CertNo               *string   `json:"certNo,omitempty"`
	Location             *string   `json:"location,omitempty"`
	Notes                *string   `json:"notes,omitempty"`
}

// CourseFilter narrows course listings. Nil fields do not filter.
type CourseFilter struct {
	TypeID   *int64
	Date     *time.Time // matches courses starting on the same calendar day
	Approved *bool
}

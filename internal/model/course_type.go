package model

// CourseType groups courses (e.g. "Workshop", "College Credit"). The
// description is unique within a tenant.
type CourseType struct {
	Tenancy
	ID          int64  `json:"courseTypeId"` // course_types.id
	Description string `json:"description"`  // course_types.description
}

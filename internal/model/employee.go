package model

// Employee is a staff member whose training is tracked.
type Employee struct {
	Tenancy
	ID        int64  `json:"employeeId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

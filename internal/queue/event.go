// Package queue defines domain events and publishes them to the message broker.
package queue

import "time"

// Event types double as routing keys on the events exchange.
const (
	CourseTypeCreated = "course_type.created"
	CourseTypeDeleted = "course_type.deleted"
	CourseCreated     = "course.created"
	CourseDeleted     = "course.deleted"
	EmployeeCreated   = "employee.created"
	EnrollmentCreated = "enrollment.created"
	EnrollmentDeleted = "enrollment.deleted"
)

// Event is published after a write commits. It carries enough for
// downstream consumers to react without querying the primary database.
type Event struct {
	Type       string    `json:"type"`
	TenantID   int64     `json:"tenant_id"`
	EntityID   int64     `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

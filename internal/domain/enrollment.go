package domain

import (
	"time"

	"github.com/google/uuid"
)

// Course is a purchasable course a customer can be enrolled in.
type Course struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Price       int64     `json:"price" db:"price"`
}

// Enrollment represents a customer's registration in a course.
// Enrollments are created by an external process and are read-only here.
type Enrollment struct {
	ID         uuid.UUID `json:"id" db:"id"`
	CourseID   uuid.UUID `json:"courseId" db:"course_id"`
	UserID     uuid.UUID `json:"-" db:"user_id"`
	EnrolledAt time.Time `json:"enrolledAt" db:"enrolled_at"`
	Status     string    `json:"status" db:"status"`
	Course     Course    `json:"course" db:"-"`
}

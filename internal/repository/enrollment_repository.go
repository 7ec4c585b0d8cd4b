package repository

import (
	"context"
	"database/sql"
	"fmt"

	"mypage-shop/internal/domain"

	"github.com/google/uuid"
)

// EnrollmentRepository defines the read-only interface for course
// enrollments. Enrollments are created by an external process.
type EnrollmentRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Enrollment, error)
}

type enrollmentRepository struct {
	db *sql.DB
}

// NewEnrollmentRepository creates a new instance of EnrollmentRepository
func NewEnrollmentRepository(db *sql.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// ListByUser retrieves the customer's active enrollments with course
// details attached, newest first.
func (r *enrollmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Enrollment, error) {
	query := `
		SELECT e.id, e.course_id, e.enrolled_at, e.status,
		       c.id, c.name, c.description, c.price
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = $1 AND e.status = 'active'
		ORDER BY e.enrolled_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []*domain.Enrollment{}
	for rows.Next() {
		enrollment := &domain.Enrollment{UserID: userID}
		err := rows.Scan(
			&enrollment.ID,
			&enrollment.CourseID,
			&enrollment.EnrolledAt,
			&enrollment.Status,
			&enrollment.Course.ID,
			&enrollment.Course.Name,
			&enrollment.Course.Description,
			&enrollment.Course.Price,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollments: %w", err)
	}

	return enrollments, nil
}

package service

import (
	"context"
	"fmt"

	"mypage-shop/internal/domain"
	"mypage-shop/internal/repository"

	"github.com/google/uuid"
)

// EnrollmentService defines the read-only business interface for a
// customer's course enrollments.
type EnrollmentService interface {
	ListEnrollments(ctx context.Context, userID uuid.UUID) ([]*domain.Enrollment, error)
}

type enrollmentService struct {
	enrollmentRepo repository.EnrollmentRepository
}

// NewEnrollmentService creates a new instance of EnrollmentService
func NewEnrollmentService(enrollmentRepo repository.EnrollmentRepository) EnrollmentService {
	return &enrollmentService{enrollmentRepo: enrollmentRepo}
}

// ListEnrollments returns the customer's active enrollments. Zero
// enrollments is an empty list, never an error.
func (s *enrollmentService) ListEnrollments(ctx context.Context, userID uuid.UUID) ([]*domain.Enrollment, error) {
	enrollments, err := s.enrollmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

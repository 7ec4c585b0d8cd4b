package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func seedEnrollment(t *testing.T, userID uuid.UUID, courseName, status string, enrolledAt time.Time) {
	t.Helper()

	courseID := uuid.New()
	if _, err := testDB.Exec(
		`INSERT INTO courses (id, name, description, price) VALUES ($1, $2, $3, $4)`,
		courseID, courseName, "course description", 50000,
	); err != nil {
		t.Fatalf("failed to insert course: %v", err)
	}

	enrollmentID := uuid.New()
	if _, err := testDB.Exec(
		`INSERT INTO enrollments (id, user_id, course_id, status, enrolled_at) VALUES ($1, $2, $3, $4, $5)`,
		enrollmentID, userID, courseID, status, enrolledAt,
	); err != nil {
		t.Fatalf("failed to insert enrollment: %v", err)
	}

	t.Cleanup(func() {
		_, _ = testDB.Exec(`DELETE FROM enrollments WHERE id = $1`, enrollmentID)
		_, _ = testDB.Exec(`DELETE FROM courses WHERE id = $1`, courseID)
	})
}

func TestListByUser_ActiveOnlyNewestFirst(t *testing.T) {
	repo := NewEnrollmentRepository(testDB)
	userID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	seedEnrollment(t, userID, "older course", "active", now.Add(-48*time.Hour))
	seedEnrollment(t, userID, "newer course", "active", now)
	seedEnrollment(t, userID, "cancelled course", "cancelled", now.Add(-time.Hour))
	seedEnrollment(t, uuid.New(), "someone else's course", "active", now)

	enrollments, err := repo.ListByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(enrollments) != 2 {
		t.Fatalf("expected two active enrollments, got %d", len(enrollments))
	}
	if enrollments[0].Course.Name != "newer course" {
		t.Errorf("expected newest first, got %q", enrollments[0].Course.Name)
	}
	if enrollments[1].Course.Name != "older course" {
		t.Errorf("expected older course second, got %q", enrollments[1].Course.Name)
	}

	for _, e := range enrollments {
		if e.Status != "active" {
			t.Errorf("non-active enrollment %q leaked into the listing", e.Course.Name)
		}
		if e.Course.Price != 50000 {
			t.Errorf("expected course details attached, got price %d", e.Course.Price)
		}
	}
}

func TestListByUser_NoEnrollments(t *testing.T) {
	repo := NewEnrollmentRepository(testDB)

	enrollments, err := repo.ListByUser(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if enrollments == nil {
		t.Fatal("expected an empty slice, not nil")
	}
	if len(enrollments) != 0 {
		t.Errorf("expected no enrollments, got %d", len(enrollments))
	}
}

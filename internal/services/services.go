// package services defines interface Service for interacting with LMS HTTP APIs
//
// Canvas is the only production implementation; tests substitute mocks.
package services

import (
	"context"

	"github.com/desertthunder/rollcall/internal/models"
)

// Service defines the interface for LMS providers that expose course rosters
// and accept enrollment requests.
type Service interface {
	// Authenticate configures the service's credentials.
	// Returns an error if required credentials are missing.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// GetCourse retrieves a course's metadata by ID.
	GetCourse(ctx context.Context, courseID string) (*models.Course, error)

	// GetEnrollments retrieves the complete roster for a course, following
	// pagination until exhausted. The returned slice preserves API order.
	GetEnrollments(ctx context.Context, courseID string) ([]models.Enrollment, error)

	// CreateEnrollment submits a single enrollment request to a course.
	CreateEnrollment(ctx context.Context, courseID string, req models.EnrollmentRequest) (*models.Enrollment, error)

	// Name returns the name of the service (e.g., "Canvas")
	Name() string
}

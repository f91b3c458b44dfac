// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/desertthunder/rollcall/internal/models"
)

// MockService is a test double for [services.Service].
//
// Behavior is scripted via function fields; nil fields return empty values.
// CreateCalls records every mutation request for dry-run assertions.
type MockService struct {
	AuthenticateFunc     func(ctx context.Context, credentials map[string]string) error
	GetCourseFunc        func(ctx context.Context, courseID string) (*models.Course, error)
	GetEnrollmentsFunc   func(ctx context.Context, courseID string) ([]models.Enrollment, error)
	CreateEnrollmentFunc func(ctx context.Context, courseID string, req models.EnrollmentRequest) (*models.Enrollment, error)

	CreateCalls []CreateCall
}

// CreateCall records one CreateEnrollment invocation.
type CreateCall struct {
	CourseID string
	Request  models.EnrollmentRequest
}

func (m *MockService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, credentials)
	}
	return nil
}

func (m *MockService) GetCourse(ctx context.Context, courseID string) (*models.Course, error) {
	if m.GetCourseFunc != nil {
		return m.GetCourseFunc(ctx, courseID)
	}
	return &models.Course{}, nil
}

func (m *MockService) GetEnrollments(ctx context.Context, courseID string) ([]models.Enrollment, error) {
	if m.GetEnrollmentsFunc != nil {
		return m.GetEnrollmentsFunc(ctx, courseID)
	}
	return []models.Enrollment{}, nil
}

func (m *MockService) CreateEnrollment(ctx context.Context, courseID string, req models.EnrollmentRequest) (*models.Enrollment, error) {
	m.CreateCalls = append(m.CreateCalls, CreateCall{CourseID: courseID, Request: req})
	if m.CreateEnrollmentFunc != nil {
		return m.CreateEnrollmentFunc(ctx, courseID, req)
	}
	return &models.Enrollment{UserID: req.UserID, Type: req.Type, State: req.State}, nil
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading a response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error { return nil }

var _ io.ReadCloser = &FCloser{}

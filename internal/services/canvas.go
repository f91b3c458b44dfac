// Canvas API implementation of [Service]
//
// Canvas API response types based on https://canvas.instructure.com/doc/api/enrollments.html
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/desertthunder/rollcall/internal/models"
	"github.com/desertthunder/rollcall/internal/shared"
	"golang.org/x/oauth2"
)

// canvasPageSize is the per_page value used when walking a roster.
const canvasPageSize = 100

// nextLinkPattern matches one `<url>; rel="next"` entry of an RFC 5988 Link header.
var nextLinkPattern = regexp.MustCompile(`^\s*<([^>]+)>;\s*rel="next"`)

// APIError represents a non-2xx response from the Canvas API, preserving the
// status code and response body for error reporting.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("canvas API error: status %d: %s", e.StatusCode, e.Body)
}

// CanvasService implements the Service interface for Canvas API interactions.
// Uses [oauth2] bearer-token authentication and paginates rosters via the
// response Link header.
type CanvasService struct {
	baseURL     string
	base        *http.Client
	httpClient  *http.Client
	accessToken string
	pageSize    int
}

// NewCanvasService creates a new Canvas service with the given credentials.
// Requires "base_url" and "access_token" keys.
func NewCanvasService(credentials map[string]string) (*CanvasService, error) {
	baseURL, ok := credentials["base_url"]
	if !ok || baseURL == "" {
		return nil, fmt.Errorf("%w: missing base_url in credentials", shared.ErrMissingCredentials)
	}

	accessToken, ok := credentials["access_token"]
	if !ok || accessToken == "" {
		return nil, fmt.Errorf("%w: missing access_token in credentials", shared.ErrMissingCredentials)
	}

	s := &CanvasService{
		baseURL:  strings.TrimRight(baseURL, "/"),
		pageSize: canvasPageSize,
	}
	s.setToken(accessToken)

	return s, nil
}

// setToken builds an authenticated HTTP client from a static bearer token.
// When a base client is set it becomes the transport the bearer-token
// client wraps.
func (s *CanvasService) setToken(accessToken string) {
	s.accessToken = accessToken
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})

	ctx := context.Background()
	if s.base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.base)
	}
	s.httpClient = oauth2.NewClient(ctx, src)
}

// SetBaseClient sets the HTTP client the authenticated client wraps, then
// rebuilds the authenticated client around it.
func (s *CanvasService) SetBaseClient(base *http.Client) {
	if base != nil {
		s.base = base
		s.setToken(s.accessToken)
	}
}

// Authenticate replaces the service's credentials. Expects an "access_token" key.
func (s *CanvasService) Authenticate(ctx context.Context, credentials map[string]string) error {
	accessToken, ok := credentials["access_token"]
	if !ok || accessToken == "" {
		return fmt.Errorf("%w: missing access_token in credentials", shared.ErrMissingCredentials)
	}

	s.setToken(accessToken)
	return nil
}

func (s *CanvasService) Name() string {
	return "Canvas"
}

// SetPageSize overrides the per_page value for roster pagination.
func (s *CanvasService) SetPageSize(size int) {
	if size > 0 {
		s.pageSize = size
	}
}

// SetHTTPClient replaces the underlying HTTP client. Primarily for tests.
func (s *CanvasService) SetHTTPClient(client *http.Client) {
	if client != nil {
		s.httpClient = client
	}
}

// ParseNextLink extracts the rel="next" URL from an RFC 5988 Link header.
// Returns an empty string when no next page exists.
func ParseNextLink(header string) string {
	if header == "" {
		return ""
	}
	for _, part := range strings.Split(header, ",") {
		if m := nextLinkPattern.FindStringSubmatch(part); m != nil {
			return m[1]
		}
	}
	return ""
}

// doRequest performs an authenticated HTTP request against the Canvas API and
// decodes the JSON response into result. Non-2xx responses become an [*APIError].
func (s *CanvasService) doRequest(ctx context.Context, method, requestURL string, body, result any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return resp, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp, nil
}

// GetCourse retrieves a course's metadata by ID.
func (s *CanvasService) GetCourse(ctx context.Context, courseID string) (*models.Course, error) {
	requestURL := fmt.Sprintf("%s/courses/%s", s.baseURL, url.PathEscape(courseID))

	var course models.Course
	resp, err := s.doRequest(ctx, http.MethodGet, requestURL, nil, &course)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", shared.ErrCourseNotFound, courseID)
		}
		return nil, err
	}

	return &course, nil
}

// GetEnrollments retrieves the complete roster for a course, requesting
// pages of up to pageSize enrollments and following the Link header's
// rel="next" URL until no next page remains. The first HTTP error aborts
// the fetch; there is no retry at this layer.
func (s *CanvasService) GetEnrollments(ctx context.Context, courseID string) ([]models.Enrollment, error) {
	requestURL := fmt.Sprintf("%s/courses/%s/enrollments?per_page=%d", s.baseURL, url.PathEscape(courseID), s.pageSize)

	var roster []models.Enrollment
	for requestURL != "" {
		page, next, err := s.getEnrollmentPage(ctx, requestURL)
		if err != nil {
			return nil, err
		}
		roster = append(roster, page...)
		requestURL = next
	}

	return roster, nil
}

// getEnrollmentPage fetches one page of enrollments and returns the next page URL.
func (s *CanvasService) getEnrollmentPage(ctx context.Context, requestURL string) ([]models.Enrollment, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return nil, "", &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	var page []models.Enrollment
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, "", fmt.Errorf("failed to decode enrollments page: %w", err)
	}

	return page, ParseNextLink(resp.Header.Get("Link")), nil
}

type enrollmentPayload struct {
	Enrollment enrollmentBody `json:"enrollment"`
}

type enrollmentBody struct {
	UserID          int    `json:"user_id"`
	Type            string `json:"type"`
	EnrollmentState string `json:"enrollment_state"`
	Notify          bool   `json:"notify"`
}

// CreateEnrollment submits a single enrollment request to a course. Non-2xx
// responses are returned as an [*APIError] so callers can record the status
// and body.
func (s *CanvasService) CreateEnrollment(ctx context.Context, courseID string, req models.EnrollmentRequest) (*models.Enrollment, error) {
	if req.State == "" {
		req.State = "active"
	}

	requestURL := fmt.Sprintf("%s/courses/%s/enrollments", s.baseURL, url.PathEscape(courseID))
	payload := enrollmentPayload{
		Enrollment: enrollmentBody{
			UserID:          req.UserID,
			Type:            req.Type,
			EnrollmentState: req.State,
			Notify:          req.Notify,
		},
	}

	var created models.Enrollment
	if _, err := s.doRequest(ctx, http.MethodPost, requestURL, payload, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/rollcall/internal/models"
	"github.com/desertthunder/rollcall/internal/shared"
	tu "github.com/desertthunder/rollcall/internal/testing"
)

func TestParseNextLink(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{
			name:   "empty header",
			header: "",
			want:   "",
		},
		{
			name:   "next link present",
			header: `<https://canvas.example.edu/api/v1/courses/1/enrollments?page=2&per_page=100>; rel="next"`,
			want:   "https://canvas.example.edu/api/v1/courses/1/enrollments?page=2&per_page=100",
		},
		{
			name:   "next among other rels",
			header: `<https://c.edu/page1>; rel="current",<https://c.edu/page2>; rel="next",<https://c.edu/page1>; rel="first"`,
			want:   "https://c.edu/page2",
		},
		{
			name:   "no next rel",
			header: `<https://c.edu/page2>; rel="current",<https://c.edu/page1>; rel="first",<https://c.edu/page2>; rel="last"`,
			want:   "",
		},
		{
			name:   "whitespace around entries",
			header: ` <https://c.edu/page3>; rel="next" `,
			want:   "https://c.edu/page3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseNextLink(tt.header); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewCanvasService(t *testing.T) {
	t.Run("with valid credentials", func(t *testing.T) {
		svc, err := NewCanvasService(map[string]string{
			"base_url":     "https://canvas.example.edu/api/v1",
			"access_token": "token123",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if svc.Name() != "Canvas" {
			t.Errorf("expected service name Canvas, got %s", svc.Name())
		}
	})

	t.Run("missing base_url", func(t *testing.T) {
		_, err := NewCanvasService(map[string]string{"access_token": "token123"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("missing access_token", func(t *testing.T) {
		_, err := NewCanvasService(map[string]string{"base_url": "https://canvas.example.edu/api/v1"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("trailing slash trimmed", func(t *testing.T) {
		svc, err := NewCanvasService(map[string]string{
			"base_url":     "https://canvas.example.edu/api/v1/",
			"access_token": "token123",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if svc.baseURL != "https://canvas.example.edu/api/v1" {
			t.Errorf("expected trimmed base URL, got %s", svc.baseURL)
		}
	})
}

// newTestService creates a CanvasService pointed at the given test server.
func newTestService(t *testing.T, server *httptest.Server) *CanvasService {
	t.Helper()

	svc, err := NewCanvasService(map[string]string{
		"base_url":     server.URL,
		"access_token": "test-token",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

func TestGetEnrollments(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("per_page"); got != "100" {
				t.Errorf("expected per_page=100, got %s", got)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("expected bearer token header, got %q", got)
			}
			fmt.Fprint(w, `[{"id":10,"user_id":1,"type":"StudentEnrollment","enrollment_state":"active","user":{"id":1,"name":"User A","login_id":"a@example.edu"}}]`)
		}))
		defer server.Close()

		svc := newTestService(t, server)
		roster, err := svc.GetEnrollments(context.Background(), "101")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(roster) != 1 {
			t.Fatalf("expected 1 enrollment, got %d", len(roster))
		}
		if roster[0].UserID != 1 {
			t.Errorf("expected user_id 1, got %d", roster[0].UserID)
		}
		if roster[0].User.Name != "User A" {
			t.Errorf("expected user name User A, got %s", roster[0].User.Name)
		}
	})

	t.Run("follows pagination until exhausted", func(t *testing.T) {
		pages := [][]int{{1, 2}, {3, 4}, {5}}
		var requests int

		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			page := requests
			requests++

			if page < len(pages)-1 {
				w.Header().Set("Link", fmt.Sprintf(`<%s/page%d>; rel="next",<%s/last>; rel="last"`, server.URL, page+1, server.URL))
			}

			enrollments := make([]map[string]any, 0, len(pages[page]))
			for _, id := range pages[page] {
				enrollments = append(enrollments, map[string]any{"id": id * 100, "user_id": id, "type": "StudentEnrollment"})
			}
			json.NewEncoder(w).Encode(enrollments)
		}))
		defer server.Close()

		svc := newTestService(t, server)
		roster, err := svc.GetEnrollments(context.Background(), "101")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if requests != 3 {
			t.Errorf("expected 3 page requests, got %d", requests)
		}
		if len(roster) != 5 {
			t.Fatalf("expected 5 enrollments, got %d", len(roster))
		}
		for i, want := range []int{1, 2, 3, 4, 5} {
			if roster[i].UserID != want {
				t.Errorf("expected user_id %d at index %d, got %d", want, i, roster[i].UserID)
			}
		}
	})

	t.Run("propagates first HTTP error", func(t *testing.T) {
		var requests int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"errors":[{"message":"boom"}]}`)
		}))
		defer server.Close()

		svc := newTestService(t, server)
		_, err := svc.GetEnrollments(context.Background(), "101")
		if err == nil {
			t.Fatal("expected error")
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.StatusCode != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", apiErr.StatusCode)
		}
		if requests != 1 {
			t.Errorf("expected no retry at the fetch layer, got %d requests", requests)
		}
	})
}

func TestCreateEnrollment(t *testing.T) {
	t.Run("sends enrollment payload", func(t *testing.T) {
		var payload struct {
			Enrollment struct {
				UserID          int    `json:"user_id"`
				Type            string `json:"type"`
				EnrollmentState string `json:"enrollment_state"`
				Notify          bool   `json:"notify"`
			} `json:"enrollment"`
		}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if got := r.Header.Get("Content-Type"); got != "application/json" {
				t.Errorf("expected JSON content type, got %s", got)
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("failed to decode payload: %v", err)
			}
			fmt.Fprint(w, `{"id":99,"user_id":42,"type":"TaEnrollment","enrollment_state":"active"}`)
		}))
		defer server.Close()

		svc := newTestService(t, server)
		created, err := svc.CreateEnrollment(context.Background(), "202", models.EnrollmentRequest{
			UserID: 42,
			Type:   "TaEnrollment",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if payload.Enrollment.UserID != 42 {
			t.Errorf("expected user_id 42, got %d", payload.Enrollment.UserID)
		}
		if payload.Enrollment.Type != "TaEnrollment" {
			t.Errorf("expected type TaEnrollment, got %s", payload.Enrollment.Type)
		}
		if payload.Enrollment.EnrollmentState != "active" {
			t.Errorf("expected default state active, got %s", payload.Enrollment.EnrollmentState)
		}
		if payload.Enrollment.Notify {
			t.Error("expected notify to default to false")
		}
		if created.ID != 99 {
			t.Errorf("expected created enrollment ID 99, got %d", created.ID)
		}
	})

	t.Run("non-2xx becomes APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			fmt.Fprint(w, `{"errors":[{"message":"already enrolled"}]}`)
		}))
		defer server.Close()

		svc := newTestService(t, server)
		_, err := svc.CreateEnrollment(context.Background(), "202", models.EnrollmentRequest{UserID: 1, Type: "StudentEnrollment"})

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.StatusCode != http.StatusConflict {
			t.Errorf("expected status 409, got %d", apiErr.StatusCode)
		}
		if apiErr.Body == "" {
			t.Error("expected response body to be preserved")
		}
	})
}

func TestGetCourse(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"id":101,"name":"Intro to Go","course_code":"GO101"}`)
		}))
		defer server.Close()

		svc := newTestService(t, server)
		course, err := svc.GetCourse(context.Background(), "101")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if course.Name != "Intro to Go" {
			t.Errorf("expected course name, got %s", course.Name)
		}
	})

	t.Run("not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		svc := newTestService(t, server)
		_, err := svc.GetCourse(context.Background(), "999")
		if !errors.Is(err, shared.ErrCourseNotFound) {
			t.Errorf("expected ErrCourseNotFound, got %v", err)
		}
	})
}

// mockedService creates a CanvasService whose HTTP client always returns resp.
func mockedService(t *testing.T, resp *http.Response) *CanvasService {
	t.Helper()

	svc, err := NewCanvasService(map[string]string{
		"base_url":     "https://canvas.test/api/v1",
		"access_token": "test-token",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	svc.SetHTTPClient(&http.Client{Transport: tu.NewMockRoundTripper(resp, nil)})
	return svc
}

func TestDecodeFailures(t *testing.T) {
	t.Run("unreadable course body", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
		svc := mockedService(t, resp)

		_, err := svc.GetCourse(context.Background(), "101")
		if err == nil || !strings.Contains(err.Error(), "failed to decode response") {
			t.Errorf("expected decode error, got %v", err)
		}
	})

	t.Run("unreadable enrollments page", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
		svc := mockedService(t, resp)

		_, err := svc.GetEnrollments(context.Background(), "101")
		if err == nil || !strings.Contains(err.Error(), "failed to decode enrollments page") {
			t.Errorf("expected decode error, got %v", err)
		}
	})

	t.Run("unreadable enrollment response", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
		svc := mockedService(t, resp)

		_, err := svc.CreateEnrollment(context.Background(), "202", models.EnrollmentRequest{UserID: 1, Type: "StudentEnrollment"})
		if err == nil || !strings.Contains(err.Error(), "failed to decode response") {
			t.Errorf("expected decode error, got %v", err)
		}
	})
}

func TestSetBaseClient(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"id":101,"name":"Intro to Go","course_code":"GO101"}`)),
		Header:     http.Header{},
	}
	base := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}

	svc, err := NewCanvasService(map[string]string{
		"base_url":     "https://canvas.test/api/v1",
		"access_token": "test-token",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	svc.SetBaseClient(base)

	course, err := svc.GetCourse(context.Background(), "101")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if course.Name != "Intro to Go" {
		t.Errorf("expected course from base transport, got %s", course.Name)
	}
}

package formatter

import (
	"encoding/csv"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/rollcall/internal/models"
)

func sampleRecords() []models.ErrorRecord {
	return []models.ErrorRecord{
		{UserID: 1, Name: "Alice", Email: "alice@example.edu", Type: "StudentEnrollment", Status: http.StatusBadRequest, Message: "user not found", Attempt: "first"},
		{UserID: 1, Name: "Alice", Email: "alice@example.edu", Type: "StudentEnrollment", Status: http.StatusBadRequest, Message: "user not found", Attempt: "retry"},
	}
}

func TestErrorsToCSV(t *testing.T) {
	t.Run("header and rows in order", func(t *testing.T) {
		data, err := ErrorsToCSV(sampleRecords())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}

		if len(rows) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d", len(rows))
		}

		wantHeader := []string{"user_id", "name", "email", "enrollment_type", "status", "error_message", "attempt"}
		for i, col := range wantHeader {
			if rows[0][i] != col {
				t.Errorf("expected header column %s, got %s", col, rows[0][i])
			}
		}

		if rows[1][6] != "first" || rows[2][6] != "retry" {
			t.Errorf("expected attempts in insertion order, got %s, %s", rows[1][6], rows[2][6])
		}
		if rows[1][0] != "1" || rows[1][4] != "400" {
			t.Errorf("expected numeric fields rendered, got %v", rows[1])
		}
	})

	t.Run("empty records produce header only", func(t *testing.T) {
		data, err := ErrorsToCSV(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if len(rows) != 1 {
			t.Errorf("expected only the header row, got %d rows", len(rows))
		}
	})

	t.Run("fields with commas survive round trip", func(t *testing.T) {
		records := []models.ErrorRecord{{UserID: 2, Name: "Doe, Jane", Email: "jane@example.edu", Type: "TaEnrollment", Status: 409, Message: `{"errors":[{"message":"already enrolled"}]}`, Attempt: "first"}}
		data, err := ErrorsToCSV(records)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if rows[1][1] != "Doe, Jane" {
			t.Errorf("expected quoted name preserved, got %s", rows[1][1])
		}
	})
}

func TestWriteErrorReport(t *testing.T) {
	t.Run("writes file when records exist", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "errors.csv")
		written, err := WriteErrorReport(sampleRecords(), path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if written != path {
			t.Errorf("expected returned path %s, got %s", path, written)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.HasPrefix(string(data), "user_id,") {
			t.Errorf("expected CSV header, got %q", string(data)[:20])
		}
	})

	t.Run("no file when records are empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "errors.csv")
		written, err := WriteErrorReport(nil, path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if written != "" {
			t.Errorf("expected empty path, got %s", written)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("expected no report file to be created")
		}
	})

	t.Run("overwrites prior report", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "errors.csv")
		if err := os.WriteFile(path, []byte("stale content\n"), 0644); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}

		if _, err := WriteErrorReport(sampleRecords()[:1], path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if strings.Contains(string(data), "stale") {
			t.Error("expected prior content replaced")
		}
	})
}

func TestRosterToText(t *testing.T) {
	roster := []models.Enrollment{
		{UserID: 1, Type: "StudentEnrollment", State: "active", User: models.User{Name: "Alice", LoginID: "alice@example.edu"}},
		{UserID: 2, Type: "TaEnrollment"},
	}

	text := string(RosterToText("101", roster))

	if !strings.Contains(text, "Course: 101") {
		t.Error("expected course heading")
	}
	if !strings.Contains(text, "Enrollments: 2") {
		t.Error("expected enrollment count")
	}
	if !strings.Contains(text, "Alice (alice@example.edu)") {
		t.Error("expected user line with login ID")
	}
	if !strings.Contains(text, "Unknown Name (No Email)") {
		t.Error("expected placeholder line for sparse profile")
	}
}

func TestSummaryToText(t *testing.T) {
	text := string(SummaryToText(models.CloneSummary{Enrolled: 3, Skipped: 2, Failed: 1}))

	for _, want := range []string{
		"Successful enrollments:   3",
		"Skipped (already exists): 2",
		"Failed (after retry):     1",
		"Dry run:                  false",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected summary to contain %q, got:\n%s", want, text)
		}
	}
}

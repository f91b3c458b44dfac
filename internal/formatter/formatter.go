// package formatter renders clone results and rosters to output formats (CSV, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/rollcall/internal/models"
)

// ErrorReportFilename is the fixed name of the failed-enrollment report,
// written to the working directory and overwritten on each run.
const ErrorReportFilename = "enrollment_errors.csv"

// ErrorsToCSV converts error records to CSV with columns: user_id, name,
// email, enrollment_type, status, error_message, attempt.
func ErrorsToCSV(records []models.ErrorRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"user_id", "name", "email", "enrollment_type", "status", "error_message", "attempt"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.UserID),
			record.Name,
			record.Email,
			record.Type,
			strconv.Itoa(record.Status),
			record.Message,
			record.Attempt,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteErrorReport writes the error records to a CSV file, overwriting any
// prior report. When records is empty no file is written and the returned
// path is empty.
//
// Defaults to [ErrorReportFilename] when path is empty.
func WriteErrorReport(records []models.ErrorRecord, path string) (string, error) {
	if len(records) == 0 {
		return "", nil
	}

	if path == "" {
		path = ErrorReportFilename
	}

	data, err := ErrorsToCSV(records)
	if err != nil {
		return "", fmt.Errorf("failed to generate error CSV: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write error report: %w", err)
	}

	return path, nil
}

// RosterToText converts a roster to plain text format
func RosterToText(courseID string, roster []models.Enrollment) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Course: %s\n", courseID))
	buf.WriteString(fmt.Sprintf("Enrollments: %d\n\n", len(roster)))

	for i, e := range roster {
		buf.WriteString(fmt.Sprintf("%d. %s (%s) [%d] %s", i+1, e.DisplayName(), e.ContactEmail(), e.UserID, e.Type))
		if e.State != "" {
			buf.WriteString(fmt.Sprintf(" - %s", e.State))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// SummaryToText renders the final counters of a clone run.
func SummaryToText(summary models.CloneSummary) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Successful enrollments:   %d\n", summary.Enrolled))
	buf.WriteString(fmt.Sprintf("Skipped (already exists): %d\n", summary.Skipped))
	buf.WriteString(fmt.Sprintf("Failed (after retry):     %d\n", summary.Failed))
	buf.WriteString(fmt.Sprintf("Dry run:                  %v\n", summary.DryRun))

	return buf.Bytes()
}

package tasks

import (
	"errors"
	"strings"

	"github.com/desertthunder/rollcall/internal/models"
	"github.com/desertthunder/rollcall/internal/services"
)

// ErrorCollector accumulates failed enrollment attempts during a clone run.
//
// The driver owns the collector and flushes it to the report file at run end;
// the engine only appends to it.
type ErrorCollector struct {
	records []models.ErrorRecord
}

// NewErrorCollector creates an empty collector.
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{}
}

// Append adds a record to the collector.
func (c *ErrorCollector) Append(record models.ErrorRecord) {
	c.records = append(c.records, record)
}

// Records returns the accumulated records in insertion order.
func (c *ErrorCollector) Records() []models.ErrorRecord {
	return c.records
}

// Len returns the number of accumulated records.
func (c *ErrorCollector) Len() int {
	return len(c.records)
}

// newErrorRecord builds an ErrorRecord from a failed enrollment attempt.
// API errors contribute their status code and body; transport errors are
// recorded with status 0.
func newErrorRecord(e models.Enrollment, enrollmentType string, err error, attempt string) models.ErrorRecord {
	record := models.ErrorRecord{
		UserID:  e.UserID,
		Name:    e.DisplayName(),
		Email:   e.ContactEmail(),
		Type:    enrollmentType,
		Attempt: attempt,
	}

	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		record.Status = apiErr.StatusCode
		record.Message = flatten(apiErr.Body)
	} else if err != nil {
		record.Message = flatten(err.Error())
	}

	return record
}

// flatten collapses newlines so a message fits one CSV field.
func flatten(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/rollcall/internal/models"
	"github.com/desertthunder/rollcall/internal/services"
	"github.com/desertthunder/rollcall/internal/shared"
	"golang.org/x/time/rate"
)

// EnrollStatus classifies the outcome for one source enrollment.
type EnrollStatus int

const (
	StatusEnrolled EnrollStatus = iota
	StatusSkipped
	StatusFailed
)

func (s EnrollStatus) String() string {
	switch s {
	case StatusEnrolled:
		return "enrolled"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return ""
	}
}

// EnrollResult records the outcome for one source enrollment.
type EnrollResult struct {
	Enrollment models.Enrollment // Source enrollment processed
	Type       string            // Enrollment type used for the request
	Status     EnrollStatus      // Final outcome
	Err        error             // Last error when Status is StatusFailed
}

// CloneResult contains all data from a clone run.
type CloneResult struct {
	SourceCourse string              // Source course ID
	TargetCourse string              // Target course ID
	SourceCount  int                 // Enrollments found in the source course
	TargetCount  int                 // Enrollments already in the target course
	Results      []EnrollResult      // Per-enrollment outcomes in source order
	Summary      models.CloneSummary // Final counters
}

// CloneOpts configures a clone run.
type CloneOpts struct {
	DryRun    bool        // Suppress mutation calls, reporting every candidate as enrolled
	Retry     RetryPolicy // Bounded retry for enrollment requests
	RateLimit float64     // Enrollment requests per second; 0 disables throttling
	Notify    bool        // Whether the LMS should notify enrolled users
}

// SyncEngine defines operations for syncing rosters between courses.
type SyncEngine interface {
	// Clone copies the source course's roster into the target course, skipping
	// users already enrolled there. Failed attempts are appended to collector.
	Clone(ctx context.Context, progress chan<- ProgressUpdate, collector *ErrorCollector, sourceID, targetID string, opts CloneOpts) (*CloneResult, error)
}

// RosterEngine implements SyncEngine against an LMS service.
type RosterEngine struct {
	lms services.Service
}

// NewRosterEngine creates a new RosterEngine with the provided service.
func NewRosterEngine(lms services.Service) *RosterEngine {
	return &RosterEngine{lms: lms}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *RosterEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// AlreadyEnrolled reports whether the user appears in the roster. Linear scan;
// course rosters are small enough that no index is built.
func AlreadyEnrolled(roster []models.Enrollment, userID int) bool {
	for _, e := range roster {
		if e.UserID == userID {
			return true
		}
	}
	return false
}

// Clone copies the source course's roster into the target course.
//
// Roster fetch errors abort the run. Per-user enrollment failures are
// tolerated: each failed attempt is appended to collector and the run
// continues with the next user.
func (e *RosterEngine) Clone(ctx context.Context, progress chan<- ProgressUpdate, collector *ErrorCollector, sourceID, targetID string, opts CloneOpts) (*CloneResult, error) {
	if e.lms == nil {
		return nil, fmt.Errorf("%w: LMS service not initialized", shared.ErrServiceUnavailable)
	}
	if collector == nil {
		collector = NewErrorCollector()
	}
	opts.Retry = opts.Retry.normalized()

	e.sendProgress(progress, fetchingRosterUpdate(FetchSource, sourceID))
	source, err := e.lms.GetEnrollments(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch source roster: %v", shared.ErrAPIRequest, err)
	}
	e.sendProgress(progress, rosterFetchedUpdate(FetchSource, len(source)))

	e.sendProgress(progress, fetchingRosterUpdate(FetchTarget, targetID))
	target, err := e.lms.GetEnrollments(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch target roster: %v", shared.ErrAPIRequest, err)
	}
	e.sendProgress(progress, rosterFetchedUpdate(FetchTarget, len(target)))

	result := &CloneResult{
		SourceCourse: sourceID,
		TargetCourse: targetID,
		SourceCount:  len(source),
		TargetCount:  len(target),
		Results:      make([]EnrollResult, 0, len(source)),
	}
	result.Summary.DryRun = opts.DryRun

	var limiter *rate.Limiter
	if opts.RateLimit > 0 && !opts.DryRun {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	total := len(source)
	for i, enrollment := range source {
		enrollmentType := enrollment.Type
		if enrollmentType == "" {
			enrollmentType = "StudentEnrollment"
		}

		if AlreadyEnrolled(target, enrollment.UserID) {
			e.sendProgress(progress, skippingUpdate(i+1, total, enrollment))
			result.Results = append(result.Results, EnrollResult{
				Enrollment: enrollment,
				Type:       enrollmentType,
				Status:     StatusSkipped,
			})
			result.Summary.Skipped++
			continue
		}

		e.sendProgress(progress, enrollingUpdate(i+1, total, enrollment, enrollmentType, opts.DryRun))

		err := e.enroll(ctx, progress, collector, limiter, targetID, enrollment, enrollmentType, i+1, total, opts)
		if err == nil {
			result.Results = append(result.Results, EnrollResult{
				Enrollment: enrollment,
				Type:       enrollmentType,
				Status:     StatusEnrolled,
			})
			result.Summary.Enrolled++
		} else {
			result.Results = append(result.Results, EnrollResult{
				Enrollment: enrollment,
				Type:       enrollmentType,
				Status:     StatusFailed,
				Err:        err,
			})
			result.Summary.Failed++
		}
	}

	return result, nil
}

// enroll attempts one enrollment under the retry policy. Every attempt that
// fails is appended to the collector with its attempt label. Returns the last
// error when all attempts fail.
func (e *RosterEngine) enroll(ctx context.Context, progress chan<- ProgressUpdate, collector *ErrorCollector, limiter *rate.Limiter, targetID string, enrollment models.Enrollment, enrollmentType string, step, total int, opts CloneOpts) error {
	if opts.DryRun {
		return nil
	}

	req := models.EnrollmentRequest{
		UserID: enrollment.UserID,
		Type:   enrollmentType,
		State:  "active",
		Notify: opts.Notify,
	}

	var lastErr error
	for attempt := 1; attempt <= opts.Retry.Attempts; attempt++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return fmt.Errorf("%w: %v", shared.ErrEnrollmentFailed, err)
			}
		}

		_, err := e.lms.CreateEnrollment(ctx, targetID, req)
		if err == nil {
			return nil
		}

		lastErr = err
		record := newErrorRecord(enrollment, enrollmentType, err, AttemptLabel(attempt))
		collector.Append(record)

		if attempt < opts.Retry.Attempts {
			e.sendProgress(progress, retryingUpdate(step, total, enrollment, record.Status))
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", shared.ErrEnrollmentFailed, ctx.Err())
			case <-time.After(opts.Retry.Wait):
			}
		}
	}

	if errors.Is(lastErr, context.Canceled) {
		return lastErr
	}
	return fmt.Errorf("%w: %v", shared.ErrEnrollmentFailed, lastErr)
}

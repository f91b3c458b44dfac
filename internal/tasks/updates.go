package tasks

import (
	"fmt"

	"github.com/desertthunder/rollcall/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSource Phase = iota
	FetchTarget
	Enroll
	Skip
	Retry
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case FetchTarget:
		return "fetch_target"
	case Enroll:
		return "enroll"
	case Skip:
		return "skip"
	case Retry:
		return "retry"
	default:
		return ""
	}
}

func fetchingRosterUpdate(phase Phase, courseID string) ProgressUpdate {
	label := "source"
	if phase == FetchTarget {
		label = "target"
	}
	return ProgressUpdate{
		Phase:   phase,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Fetching enrollments from %s course %s...", label, courseID),
	}
}

func rosterFetchedUpdate(phase Phase, count int) ProgressUpdate {
	label := "source"
	if phase == FetchTarget {
		label = "target"
	}
	return ProgressUpdate{
		Phase:   phase,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d enrollments in %s course", count, label),
		Data:    count,
	}
}

func enrollingUpdate(step, total int, e models.Enrollment, enrollmentType string, dryRun bool) ProgressUpdate {
	msg := fmt.Sprintf("Enrolling %s (%s) [%d] as %s...", e.DisplayName(), e.ContactEmail(), e.UserID, enrollmentType)
	if dryRun {
		msg += " [DRY RUN]"
	}
	return ProgressUpdate{
		Phase:   Enroll,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    e,
	}
}

func skippingUpdate(step, total int, e models.Enrollment) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Skip,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Skipping %s (%s) - already enrolled", e.DisplayName(), e.ContactEmail()),
		Data:    e,
	}
}

func retryingUpdate(step, total int, e models.Enrollment, status int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Retry,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Enrollment of %s failed (status %d), retrying...", e.DisplayName(), status),
		Data:    e,
	}
}

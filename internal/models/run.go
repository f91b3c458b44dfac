package models

import (
	"fmt"
	"time"
)

var _ Model = (*Run)(nil)

// Run represents a recorded clone run: the course pair, final counters, and timestamps.
type Run struct {
	id           string
	sequence     int
	sourceCourse string
	targetCourse string
	enrolled     int
	skipped      int
	failed       int
	dryRun       bool
	startedAt    time.Time
	completedAt  time.Time
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewRun creates a run record for the given course pair. Counters are set
// via SetCounts once the run completes.
func NewRun(sequence int, sourceCourse, targetCourse string, dryRun bool) *Run {
	now := time.Now()
	return &Run{
		sequence:     sequence,
		sourceCourse: sourceCourse,
		targetCourse: targetCourse,
		dryRun:       dryRun,
		startedAt:    now,
		createdAt:    now,
		updatedAt:    now,
	}
}

func (r *Run) ID() string             { return r.id }
func (r *Run) Sequence() int          { return r.sequence }
func (r *Run) SourceCourse() string   { return r.sourceCourse }
func (r *Run) TargetCourse() string   { return r.targetCourse }
func (r *Run) Enrolled() int          { return r.enrolled }
func (r *Run) Skipped() int           { return r.skipped }
func (r *Run) Failed() int            { return r.failed }
func (r *Run) DryRun() bool           { return r.dryRun }
func (r *Run) StartedAt() time.Time   { return r.startedAt }
func (r *Run) CompletedAt() time.Time { return r.completedAt }
func (r *Run) CreatedAt() time.Time   { return r.createdAt }
func (r *Run) UpdatedAt() time.Time   { return r.updatedAt }
func (r *Run) DeletedAt() *time.Time  { return r.deletedAt }

func (r *Run) SetID(id string)            { r.id = id }
func (r *Run) SetSequence(sequence int)   { r.sequence = sequence }
func (r *Run) SetStartedAt(t time.Time)   { r.startedAt = t }
func (r *Run) SetCompletedAt(t time.Time) { r.completedAt = t }
func (r *Run) SetCreatedAt(t time.Time)   { r.createdAt = t }
func (r *Run) SetUpdatedAt(t time.Time)   { r.updatedAt = t }
func (r *Run) SetDeletedAt(t *time.Time)  { r.deletedAt = t }

// SetCounts records the final counters from a completed clone run.
func (r *Run) SetCounts(summary CloneSummary) {
	r.enrolled = summary.Enrolled
	r.skipped = summary.Skipped
	r.failed = summary.Failed
	r.dryRun = summary.DryRun
}

// Summary returns the run's counters as a CloneSummary.
func (r *Run) Summary() CloneSummary {
	return CloneSummary{
		Enrolled: r.enrolled,
		Skipped:  r.skipped,
		Failed:   r.failed,
		DryRun:   r.dryRun,
	}
}

// Validate checks that the run references both courses.
func (r *Run) Validate() error {
	if r.sourceCourse == "" {
		return fmt.Errorf("run source course is required")
	}
	if r.targetCourse == "" {
		return fmt.Errorf("run target course is required")
	}
	if r.enrolled < 0 || r.skipped < 0 || r.failed < 0 {
		return fmt.Errorf("run counters must not be negative")
	}
	return nil
}

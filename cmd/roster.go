package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/rollcall/internal/formatter"
	"github.com/desertthunder/rollcall/internal/models"
	"github.com/desertthunder/rollcall/internal/shared"
	"github.com/urfave/cli/v3"
)

// RosterList fetches and prints the full roster of a course.
func (r *Runner) RosterList(ctx context.Context, cmd *cli.Command) error {
	courseID := cmd.Args().Get(0)
	if courseID == "" {
		return fmt.Errorf("%w: course ID is required", shared.ErrMissingArgument)
	}

	if err := r.requireService(); err != nil {
		return err
	}

	state := cmd.String("state")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	r.logger.Info("fetching roster", "course", courseID, "state", state)

	roster, err := r.lms.GetEnrollments(ctx, courseID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if state != "" {
		filtered := make([]models.Enrollment, 0, len(roster))
		for _, e := range roster {
			if e.State == state {
				filtered = append(filtered, e)
			}
		}
		roster = filtered
	}

	if useJSON {
		return r.writeJSON(roster, pretty)
	}

	label := courseID
	if course, err := r.lms.GetCourse(ctx, courseID); err == nil && course.Name != "" {
		label = fmt.Sprintf("%s (%s)", course.Name, courseID)
	}

	return r.writePlain("%s", formatter.RosterToText(label, roster))
}

package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/rollcall/internal/repositories"
	"github.com/urfave/cli/v3"
)

// historyEntry is the JSON shape of one recorded run.
type historyEntry struct {
	ID           string `json:"id"`
	SourceCourse string `json:"source_course"`
	TargetCourse string `json:"target_course"`
	Enrolled     int    `json:"enrolled"`
	Skipped      int    `json:"skipped"`
	Failed       int    `json:"failed"`
	DryRun       bool   `json:"dry_run"`
	StartedAt    string `json:"started_at"`
}

// HistoryList prints recorded clone runs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")

	db, err := r.openDatabase(r.config)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	runs, err := repositories.NewRunRepository(db).List(map[string]any{"limit": limit})
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if useJSON {
		entries := make([]historyEntry, 0, len(runs))
		for _, run := range runs {
			entries = append(entries, historyEntry{
				ID:           run.ID(),
				SourceCourse: run.SourceCourse(),
				TargetCourse: run.TargetCourse(),
				Enrolled:     run.Enrolled(),
				Skipped:      run.Skipped(),
				Failed:       run.Failed(),
				DryRun:       run.DryRun(),
				StartedAt:    run.StartedAt().Format("2006-01-02 15:04:05"),
			})
		}
		return r.writeJSON(entries, true)
	}

	if len(runs) == 0 {
		return r.writePlain("No recorded runs.\n")
	}

	r.writePlainHeader("Clone History")
	for _, run := range runs {
		r.writePlain("%s  %s → %s  ok=%d skip=%d failed=%d",
			run.StartedAt().Format("2006-01-02 15:04"),
			run.SourceCourse(),
			run.TargetCourse(),
			run.Enrolled(),
			run.Skipped(),
			run.Failed(),
		)
		if run.DryRun() {
			r.writePlain("  [dry run]")
		}
		r.writePlain("\n")
	}

	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/rollcall/internal/formatter"
	"github.com/desertthunder/rollcall/internal/models"
	"github.com/desertthunder/rollcall/internal/repositories"
	"github.com/desertthunder/rollcall/internal/shared"
	"github.com/desertthunder/rollcall/internal/tasks"
	"github.com/urfave/cli/v3"
)

// cloneOpts builds engine options from the sync section of the config.
func (r *Runner) cloneOpts(config *shared.Config, dryRun bool) tasks.CloneOpts {
	return tasks.CloneOpts{
		DryRun: dryRun,
		Retry: tasks.RetryPolicy{
			Attempts: config.Sync.Attempts,
			Wait:     config.Sync.RetryWait(),
		},
		RateLimit: config.Sync.RateLimit,
		Notify:    config.Sync.Notify,
	}
}

// resolveConfig loads the config file named by the command's --config flag,
// falling back to the runner's config when the file is absent or unreadable.
func (r *Runner) resolveConfig(cmd *cli.Command) *shared.Config {
	configPath := cmd.String("config")
	if configPath == "" {
		return r.config
	}

	if _, err := os.Stat(configPath); err != nil {
		return r.config
	}

	loaded, err := shared.LoadConfig(configPath)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		return r.config
	}

	loaded.ApplyEnv()
	return loaded
}

// engineFor returns the runner's engine, or a fresh one when a flagged config
// carries its own Canvas credentials. The new client reuses the runner's
// HTTP client so timeouts and transport settings are shared.
func (r *Runner) engineFor(config *shared.Config) *tasks.RosterEngine {
	if config == r.config {
		return r.engine
	}

	svc := canvasService(config, r.httpClient)
	if svc == nil {
		return r.engine
	}

	return tasks.NewRosterEngine(svc)
}

// CloneRun copies the source course's roster into the target course.
func (r *Runner) CloneRun(ctx context.Context, cmd *cli.Command) error {
	sourceID := cmd.Args().Get(0)
	targetID := cmd.Args().Get(1)
	if sourceID == "" || targetID == "" {
		return fmt.Errorf("%w: source and target course IDs are required", shared.ErrMissingArgument)
	}

	config := r.resolveConfig(cmd)
	engine := r.engineFor(config)
	if engine == r.engine {
		if err := r.requireService(); err != nil {
			return err
		}
	}

	dryRun := cmd.Bool("dry-run")
	useJSON := cmd.Bool("json")

	r.logger.Info("starting roster clone", "source", sourceID, "target", targetID, "dry_run", dryRun)
	r.writePlain("Cloning enrollments...\n")
	r.writePlain("Source course: %s\n", sourceID)
	r.writePlain("Target course: %s\n\n", targetID)

	collector := tasks.NewErrorCollector()
	startedAt := time.Now()

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchSource, tasks.FetchTarget:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.Enroll, tasks.Skip:
				r.writePlain("→ %s\n", update.Message)
			case tasks.Retry:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Clone(ctx, progressCh, collector, sourceID, targetID, r.cloneOpts(config, dryRun))
	close(progressCh)
	<-drained

	if err != nil {
		return err
	}

	if reportPath, reportErr := formatter.WriteErrorReport(collector.Records(), ""); reportErr != nil {
		r.logger.Error("failed to write error report", "error", reportErr)
	} else if reportPath == "" {
		r.writePlainln("No errors to write to CSV.")
	} else {
		r.logger.Info("error report written", "path", reportPath, "errors", collector.Len())
		r.writePlainln("Wrote %d errors to %s", collector.Len(), reportPath)
	}

	r.recordRun(config, result, startedAt)

	if useJSON {
		return r.writeJSON(result.Summary, true)
	}

	r.writePlain("\n")
	r.writePlainHeader("Summary")
	r.writePlain("%s", formatter.SummaryToText(result.Summary))

	return nil
}

// recordRun persists a completed clone run to the history database.
// Failure to record is logged, never fatal: the clone itself succeeded.
func (r *Runner) recordRun(config *shared.Config, result *tasks.CloneResult, startedAt time.Time) {
	db, err := r.openDatabase(config)
	if err != nil {
		r.logger.Warn("failed to open history database", "error", err)
		return
	}
	defer db.Close()

	run := models.NewRun(0, result.SourceCourse, result.TargetCourse, result.Summary.DryRun)
	run.SetStartedAt(startedAt)
	run.SetCounts(result.Summary)
	run.SetCompletedAt(time.Now())

	if err := repositories.NewRunRepository(db).Create(run); err != nil {
		r.logger.Warn("failed to record run history", "error", err)
		return
	}

	r.logger.Info("run recorded", "id", run.ID())
}

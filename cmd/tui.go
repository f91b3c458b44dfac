package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/rollcall/internal/formatter"
	"github.com/desertthunder/rollcall/internal/shared"
	"github.com/desertthunder/rollcall/internal/tasks"
	"github.com/desertthunder/rollcall/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for roster cloning.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireService(); err != nil {
		return err
	}
	if r.engine == nil {
		return fmt.Errorf("%w: clone engine not initialized", shared.ErrServiceUnavailable)
	}

	sourceID := cmd.String("source")
	targetID := cmd.String("target")
	dryRun := cmd.Bool("dry-run")

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/rollcall-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	collector := tasks.NewErrorCollector()
	model := ui.NewModel(ctx, r.lms, r.engine, collector, sourceID, targetID, r.cloneOpts(r.config, dryRun))
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if reportPath, reportErr := formatter.WriteErrorReport(collector.Records(), ""); reportErr != nil {
		r.logger.Error("failed to write error report", "error", reportErr)
	} else if reportPath != "" {
		r.writePlain("Wrote %d errors to %s\n", collector.Len(), reportPath)
	}

	if result := model.Result(); result != nil {
		r.writePlainHeader("Summary")
		r.writePlain("%s", formatter.SummaryToText(result.Summary))
	}

	return nil
}

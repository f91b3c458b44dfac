// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// cloneCommand handles roster clone operations
func cloneCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "clone",
		Usage:     "Clone the enrollment roster of one course into another",
		ArgsUsage: "<source-course-id> <target-course-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Report what would happen without creating enrollments",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the clone summary as JSON",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.CloneRun,
	}
}

// rosterCommand lists course rosters
func rosterCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "roster",
		Usage:     "List the enrollment roster of a course",
		ArgsUsage: "<course-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "state",
				Usage: "Only show enrollments in this state (e.g. active)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.RosterList,
	}
}

// historyCommand lists recorded clone runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded clone runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of runs to show",
				Value:   10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
		},
		Action: r.HistoryList,
	}
}

// tuiCommand launches the interactive roster browser
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Interactively browse a roster and run a clone",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "source",
				Usage:    "Source course ID",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "target",
				Usage:    "Target course ID",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Report what would happen without creating enrollments",
			},
		},
		Action: r.TUI,
	}
}

// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for roster cloning:
//  1. [RosterListView] : Browse the source course roster
//  2. [ConfirmView] : Confirm the clone operation
//  3. [CloneView] : Monitor real-time progress updates
//  4. [ResultView] : Display final counters and failed enrollments
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the RosterEngine, providing non-blocking status reporting during clones.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui

package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/rollcall/internal/models"
	"github.com/desertthunder/rollcall/internal/services"
	"github.com/desertthunder/rollcall/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	RosterListView ViewState = iota
	ConfirmView
	CloneView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	lms          services.Service
	engine       *tasks.RosterEngine
	collector    *tasks.ErrorCollector
	sourceID     string
	targetID     string
	opts         tasks.CloneOpts
	width        int
	height       int
	rosterList   list.Model
	roster       []models.Enrollment
	progressChan chan tasks.ProgressUpdate
	cloneDone    chan cloneCompleteMsg
	progress     tasks.ProgressUpdate
	result       *tasks.CloneResult
	err          error
	help         help.Model
	keys         keyMap
}

type rosterFetchedMsg struct {
	roster []models.Enrollment
	err    error
}

type progressUpdateMsg tasks.ProgressUpdate

type cloneCompleteMsg struct {
	result *tasks.CloneResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
//
// The collector is owned by the caller, which flushes the error report after
// the program exits.
func NewModel(ctx context.Context, lms services.Service, engine *tasks.RosterEngine, collector *tasks.ErrorCollector, sourceID, targetID string, opts tasks.CloneOpts) *Model {
	return &Model{
		ctx:       ctx,
		view:      RosterListView,
		lms:       lms,
		engine:    engine,
		collector: collector,
		sourceID:  sourceID,
		targetID:  targetID,
		opts:      opts,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Result returns the clone result, if a clone ran to completion.
func (m *Model) Result() *tasks.CloneResult {
	return m.result
}

// Init initializes the TUI by fetching the source course roster.
func (m *Model) Init() tea.Cmd {
	return m.fetchRoster()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.rosterList.Width() == 0 {
			m.rosterList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case RosterListView:
			return m.handleRosterListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case rosterFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.roster = msg.roster
		items := make([]list.Item, len(msg.roster))
		for i, e := range msg.roster {
			items[i] = enrollmentItem{enrollment: e}
		}
		m.rosterList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.rosterList.Title = fmt.Sprintf("Roster of course %s", m.sourceID)
		m.rosterList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case cloneCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case RosterListView:
		return m.renderRosterList()
	case ConfirmView:
		return m.renderConfirm()
	case CloneView:
		return m.renderClone()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleRosterListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.clone):
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.rosterList, cmd = m.rosterList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.view = RosterListView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.view = CloneView
		return m, m.startClone()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.view = RosterListView
		m.result = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == RosterListView {
		m.rosterList, cmd = m.rosterList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchRoster() tea.Cmd {
	return func() tea.Msg {
		roster, err := m.lms.GetEnrollments(m.ctx, m.sourceID)
		return rosterFetchedMsg{roster: roster, err: err}
	}
}

func (m *Model) startClone() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	done := make(chan cloneCompleteMsg, 1)
	go func() {
		result, err := m.engine.Clone(m.ctx, m.progressChan, m.collector, m.sourceID, m.targetID, m.opts)
		done <- cloneCompleteMsg{result: result, err: err}
		close(m.progressChan)
	}()
	m.cloneDone = done

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.progressChan
		if !ok {
			return <-m.cloneDone
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderRosterList() string {
	helpKeys := []key.Binding{m.keys.clone, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.rosterList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Clone roster of course %s into course %s?", m.sourceID, m.targetID))
	info := fmt.Sprintf("\nEnrollments: %d\nDry run: %v\n", len(m.roster), m.opts.DryRun)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderClone() string {
	title := styles.title.Render("Cloning Roster")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchSource:
		phase = "Fetching source roster..."
	case tasks.FetchTarget:
		phase = "Fetching target roster..."
	case tasks.Enroll:
		phase = fmt.Sprintf("Enrolling (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Skip:
		phase = fmt.Sprintf("Skipping (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Retry:
		phase = fmt.Sprintf("Retrying (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, styles.detail.Render(m.progress.Message))
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Clone failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("✓ Clone Complete!")
	info := fmt.Sprintf(
		"\nSource: %s (%d enrollments)\nTarget: %s (%d already enrolled)\nEnrolled: %d  Skipped: %d  Failed: %d\nDry run: %v",
		m.result.SourceCourse,
		m.result.SourceCount,
		m.result.TargetCourse,
		m.result.TargetCount,
		m.result.Summary.Enrolled,
		m.result.Summary.Skipped,
		m.result.Summary.Failed,
		m.result.Summary.DryRun,
	)

	var failed string
	if m.result.Summary.Failed > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Failed to enroll %d users:", m.result.Summary.Failed)))
		for _, res := range m.result.Results {
			if res.Status == tasks.StatusFailed {
				failed += fmt.Sprintf("\n  • %s (%s)", res.Enrollment.DisplayName(), res.Enrollment.ContactEmail())
			}
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opencivics/engage/internal/core/ports/driving"
	"github.com/opencivics/engage/internal/pipelines"
)

// pollInterval is how often the monitor refreshes store counts while a
// batch is running.
const pollInterval = 500 * time.Millisecond

// phase tracks monitor progress through the batch run.
type phase int

const (
	phaseMeetings phase = iota
	phaseLegislation
	phaseDone
)

// batchDone reports one finished batch.
type batchDone struct {
	phase phase
	stats *driving.BatchStats
	err   error
}

// statusLoaded carries a fresh store snapshot.
type statusLoaded struct {
	status *driving.Status
}

// pollTick schedules the next status poll.
type pollTick time.Time

// keyMap defines the monitor's key bindings.
type keyMap struct {
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// appStyles holds the monitor's lipgloss styles.
type appStyles struct {
	title   lipgloss.Style
	counts  lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	errText lipgloss.Style
	help    lipgloss.Style
}

func defaultStyles() appStyles {
	return appStyles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		counts:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		errText: lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
		help:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
	}
}

// App is the batch monitor following the Elm architecture. It runs the
// meeting batch, then the legislation batch, polling store counts for
// the live display, and exits when both finish.
type App struct {
	ports      *Ports
	configName string
	ctx        context.Context

	spinner spinner.Model
	keys    keyMap
	styles  appStyles

	phase       phase
	meetings    *driving.BatchStats
	legislation *driving.BatchStats
	status      *driving.Status
	started     time.Time
	err         error
	quitting    bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a monitor with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	configName := ports.ConfigName
	if configName == "" {
		configName = pipelines.Concise
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))

	return &App{
		ports:      ports,
		configName: configName,
		ctx:        context.Background(),
		spinner:    sp,
		keys:       defaultKeyMap(),
		styles:     defaultStyles(),
		started:    time.Now(),
	}, nil
}

// WithContext sets the context for batch and status calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		a.runBatch(phaseMeetings),
		a.fetchStatus(),
		schedulePoll(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			a.quitting = true
			return a, tea.Quit
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case pollTick:
		if a.phase == phaseDone {
			return a, nil
		}
		return a, tea.Batch(a.fetchStatus(), schedulePoll())

	case statusLoaded:
		a.status = msg.status
		return a, nil

	case batchDone:
		return a.handleBatchDone(msg)
	}

	return a, nil
}

// handleBatchDone records one batch result and starts the next batch
// or winds the monitor down.
func (a *App) handleBatchDone(msg batchDone) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.err = msg.err
		a.phase = phaseDone
		return a, tea.Quit
	}

	switch msg.phase {
	case phaseMeetings:
		a.meetings = msg.stats
		a.phase = phaseLegislation
		return a, a.runBatch(phaseLegislation)
	case phaseLegislation:
		a.legislation = msg.stats
		a.phase = phaseDone
		// One last snapshot so the final frame shows the counts the
		// run produced.
		return a, tea.Sequence(a.fetchStatus(), tea.Quit)
	case phaseDone:
	}
	return a, nil
}

// runBatch summarizes every subject of the phase's class.
func (a *App) runBatch(p phase) tea.Cmd {
	return func() tea.Msg {
		var stats *driving.BatchStats
		var err error
		switch p {
		case phaseMeetings:
			stats, err = a.ports.Pipeline.SummarizeAllMeetings(a.ctx, a.configName)
		case phaseLegislation:
			stats, err = a.ports.Pipeline.SummarizeAllLegislation(a.ctx, a.configName)
		case phaseDone:
		}
		return batchDone{phase: p, stats: stats, err: err}
	}
}

// fetchStatus loads store counts. Transient failures are dropped; the
// display just keeps the previous snapshot.
func (a *App) fetchStatus() tea.Cmd {
	return func() tea.Msg {
		status, err := a.ports.Status.Status(a.ctx)
		if err != nil {
			return statusLoaded{}
		}
		return statusLoaded{status: status}
	}
}

func schedulePoll() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return pollTick(t)
	})
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.title.Render("engage monitor"))
	b.WriteString("\n\n")

	if a.status != nil {
		b.WriteString(a.styles.counts.Render(fmt.Sprintf(
			"Meetings %d (%d active)   Legislation %d   Documents %d",
			a.status.Meetings, a.status.ActiveMeetings, a.status.Legislations, a.status.Documents,
		)))
		b.WriteString("\n")
		b.WriteString(a.styles.counts.Render(fmt.Sprintf(
			"Extractions %d   Summaries %d",
			a.status.Extractions, a.status.Summaries,
		)))
		b.WriteString("\n\n")
	}

	if a.meetings != nil {
		b.WriteString(a.batchLine("Meetings", a.meetings))
		b.WriteString("\n")
	}
	if a.legislation != nil {
		b.WriteString(a.batchLine("Legislation", a.legislation))
		b.WriteString("\n")
	}

	switch a.phase {
	case phaseMeetings:
		b.WriteString(fmt.Sprintf("%s Summarizing meetings...\n", a.spinner.View()))
	case phaseLegislation:
		b.WriteString(fmt.Sprintf("%s Summarizing legislation...\n", a.spinner.View()))
	case phaseDone:
		if a.err == nil {
			b.WriteString(fmt.Sprintf("Done in %s.\n", time.Since(a.started).Round(time.Second)))
		}
	}

	if a.err != nil {
		b.WriteString(a.styles.errText.Render(fmt.Sprintf("Error: %v", a.err)))
		b.WriteString("\n")
	}

	if a.phase != phaseDone && !a.quitting {
		b.WriteString("\n")
		b.WriteString(a.styles.help.Render("q quit"))
		b.WriteString("\n")
	}

	return b.String()
}

// batchLine renders one finished batch's stats.
func (a *App) batchLine(label string, stats *driving.BatchStats) string {
	line := fmt.Sprintf("✓ %s: %d summarized, %d failed", label, stats.Succeeded, stats.Failed)
	if stats.Failed > 0 {
		return a.styles.warning.Render(line)
	}
	return a.styles.success.Render(line)
}

// Err returns the batch error, if any.
func (a *App) Err() error {
	return a.err
}

// Run starts the monitor and blocks until both batches finish or the
// user quits.
func (a *App) Run() error {
	p := tea.NewProgram(a)
	if _, err := p.Run(); err != nil {
		return err
	}
	return a.err
}

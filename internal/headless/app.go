// Package headless provides the terminal advisory mode used when no
// desktop overlay can be raised (SSH sessions, --headless). The poll
// loop is unchanged; failed verdicts ring the terminal instead of
// locking the screen.
package headless

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxRows is the number of recent checks kept on screen.
const maxRows = 12

// CheckMsg reports one completed poll-loop tick.
type CheckMsg struct {
	At      time.Time
	Verdict bool
	Err     error
}

// AlertMsg reports a failed verdict that would have locked the screen.
type AlertMsg struct {
	At time.Time
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Model is the bubbletea model for advisory mode.
type Model struct {
	task     string
	interval time.Duration
	spin     spinner.Model
	checks   []CheckMsg
	alerts   int
	quitting bool
}

// NewModel creates the advisory view for a task.
func NewModel(task string, interval time.Duration) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	return Model{
		task:     task,
		interval: interval,
		spin:     sp,
	}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

// Update handles tick results, alerts, and quit keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case CheckMsg:
		m.checks = append([]CheckMsg{msg}, m.checks...)
		if len(m.checks) > maxRows {
			m.checks = m.checks[:maxRows]
		}
		return m, nil

	case AlertMsg:
		m.alerts++
		// The bell is the whole enforcement mechanism in this mode.
		return m, tea.Printf("\a%s off task at %s",
			failStyle.Render("ALERT:"), msg.At.Format("15:04:05"))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the advisory screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := titleStyle.Render("handcuffs: advisory mode") + "\n"
	s += fmt.Sprintf("%s watching %q every %s\n", m.spin.View(), m.task, m.interval)
	if m.alerts > 0 {
		s += failStyle.Render(fmt.Sprintf("%d off-task alert(s)", m.alerts)) + "\n"
	}
	s += "\n"

	for _, c := range m.checks {
		ts := dimStyle.Render(c.At.Format("15:04:05"))
		switch {
		case c.Err != nil:
			s += fmt.Sprintf("  %s %s %v\n", ts, errStyle.Render("skip"), c.Err)
		case c.Verdict:
			s += fmt.Sprintf("  %s %s\n", ts, passStyle.Render("on task"))
		default:
			s += fmt.Sprintf("  %s %s\n", ts, failStyle.Render("OFF TASK"))
		}
	}

	s += "\n" + dimStyle.Render("press q to quit")
	return s
}

// App runs the advisory program and feeds it from the poll loop.
type App struct {
	prog *tea.Program
}

// New creates the advisory mode app.
func New(task string, interval time.Duration) *App {
	return &App{prog: tea.NewProgram(NewModel(task, interval))}
}

// Run blocks until the user quits or the program is stopped.
func (a *App) Run() error {
	if _, err := a.prog.Run(); err != nil {
		return fmt.Errorf("advisory mode: %w", err)
	}
	return nil
}

// RecordCheck satisfies the poll loop's Recorder; it forwards each
// tick outcome to the UI.
func (a *App) RecordCheck(verdict bool, checkErr error) {
	a.prog.Send(CheckMsg{At: time.Now(), Verdict: verdict, Err: checkErr})
}

// Watch forwards lock requests as alerts until ctx is cancelled, then
// stops the program.
func (a *App) Watch(ctx context.Context, signals <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			a.prog.Quit()
			return
		case <-signals:
			a.prog.Send(AlertMsg{At: time.Now()})
		}
	}
}

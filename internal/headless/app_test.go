package headless

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestUpdateKeepsNewestChecks(t *testing.T) {
	m := NewModel("write report", time.Minute)

	var model tea.Model = m
	for i := 0; i < maxRows+5; i++ {
		model, _ = model.(Model).Update(CheckMsg{At: time.Now(), Verdict: true})
	}

	got := model.(Model)
	if len(got.checks) != maxRows {
		t.Errorf("expected checks capped at %d, got %d", maxRows, len(got.checks))
	}
}

func TestUpdateCountsAlerts(t *testing.T) {
	m := NewModel("write report", time.Minute)

	model, cmd := m.Update(AlertMsg{At: time.Now()})
	if cmd == nil {
		t.Error("expected alert to emit a print command")
	}
	model, _ = model.(Model).Update(AlertMsg{At: time.Now()})

	if got := model.(Model).alerts; got != 2 {
		t.Errorf("expected 2 alerts, got %d", got)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c"} {
		m := NewModel("write report", time.Minute)
		var msg tea.KeyMsg
		if key == "ctrl+c" {
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}

		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Errorf("expected %q to quit", key)
			continue
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("expected %q to produce a quit message", key)
		}
	}
}

func TestViewShowsVerdicts(t *testing.T) {
	m := NewModel("write report", time.Minute)

	model, _ := m.Update(CheckMsg{At: time.Now(), Verdict: false})
	model, _ = model.(Model).Update(CheckMsg{At: time.Now(), Verdict: true})
	model, _ = model.(Model).Update(CheckMsg{At: time.Now(), Err: fmt.Errorf("no display")})

	view := model.(Model).View()
	for _, want := range []string{"handcuffs: advisory mode", "write report", "OFF TASK", "on task", "no display"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q:\n%s", want, view)
		}
	}
}

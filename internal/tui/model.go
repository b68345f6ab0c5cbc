// Package tui provides the Bubble Tea game interface.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/catchme/internal/game"
	"github.com/verte-zerg/catchme/internal/model"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Model implements the Bubble Tea game UI. It renders controller snapshots
// and forwards input to the controller.
type Model struct {
	ctrl  *game.Controller
	sched *Scheduler

	keys  keyMap
	help  help.Model
	light styles
	dark  styles

	width  int
	height int
}

// NewModel constructs a game TUI model. ctrl must have been built with sched.
func NewModel(ctrl *game.Controller, sched *Scheduler, renderer *lipgloss.Renderer) *Model {
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}
	m := &Model{
		ctrl:   ctrl,
		sched:  sched,
		keys:   newKeyMap(),
		help:   help.New(),
		light:  newStyles(renderer, lightPalette),
		dark:   newStyles(renderer, darkPalette),
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.syncKeys()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.sched.Flush()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.syncKeys()
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case firedMsg:
		m.sched.Fire(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.ctrl.Stop()
			return m, tea.Quit
		}
		m.handleKey(msg)
	}
	m.syncKeys()
	return m, m.sched.Flush()
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Menu):
		m.ctrl.ToggleMenu()
	case key.Matches(msg, m.keys.Restart):
		m.ctrl.StartRound()
	case key.Matches(msg, m.keys.Dur15):
		m.setDuration(15)
	case key.Matches(msg, m.keys.Dur30):
		m.setDuration(30)
	case key.Matches(msg, m.keys.Dur60):
		m.setDuration(60)
	case key.Matches(msg, m.keys.Dark):
		m.ctrl.ToggleDarkMode()
	case key.Matches(msg, m.keys.Close):
		m.ctrl.CloseMenu()
	case key.Matches(msg, m.keys.Start):
		m.ctrl.StartRound()
	case key.Matches(msg, m.keys.Hit):
		m.ctrl.HitTarget()
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	snap := m.ctrl.Snapshot()
	if snap.MenuOpen {
		return
	}
	arena := arenaRect(m.width, m.height)
	switch snap.Phase {
	case model.PhaseRunning:
		if targetRect(arena, snap.Target).contains(msg.X, msg.Y) {
			m.ctrl.HitTarget()
		}
	case model.PhaseIdle:
		if arena.contains(msg.X, msg.Y) {
			m.ctrl.StartRound()
		}
	}
}

func (m *Model) setDuration(seconds int) {
	if err := m.ctrl.SetRoundDuration(seconds); err != nil {
		logErrf("failed to set round duration: %v\n", err)
	}
}

func (m *Model) syncKeys() {
	snap := m.ctrl.Snapshot()
	m.keys.sync(snap.Phase == model.PhaseRunning, snap.MenuOpen)
}

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.ctrl.Snapshot()
	st := m.light
	if snap.Preferences.DarkMode {
		st = m.dark
	}
	arena := arenaRect(m.width, m.height)

	header := []string{
		st.menu.Render(".catchme") + "  " + st.title.Render("Catch the runaway target!"),
		m.renderStatus(st, snap),
		m.renderBanner(st, snap),
	}

	var body string
	switch {
	case snap.MenuOpen:
		body = lipgloss.Place(arena.w, arena.h, lipgloss.Left, lipgloss.Top, m.renderMenu(st, snap))
	case snap.Phase == model.PhaseRunning:
		target := targetRect(arena, snap.Target)
		body = renderField(arena, target, st.target.Render(targetLabel))
	case snap.Phase == model.PhaseEnded:
		body = lipgloss.Place(arena.w, arena.h, lipgloss.Center, lipgloss.Center, m.renderGameOver(st, snap))
	default:
		start := st.button.Render("Start game") + "\n\n" + st.muted.Render("press enter or click")
		body = lipgloss.Place(arena.w, arena.h, lipgloss.Center, lipgloss.Center, start)
	}
	frame := st.arena
	if snap.Pulse {
		frame = st.pulse
	}

	return strings.Join([]string{
		strings.Join(header, "\n"),
		frame.Render(body),
		m.help.View(m.keys),
	}, "\n")
}

func (m *Model) renderStatus(st styles, snap model.Snapshot) string {
	if snap.Phase == model.PhaseIdle {
		return ""
	}
	status := fmt.Sprintf("⏰ Time: %d   🎯 Score: %d   🏆 Record: %d",
		snap.TimeRemaining, snap.Score, snap.Record.BestScore)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, st.status.Render(status))
}

func (m *Model) renderBanner(st styles, snap model.Snapshot) string {
	if !snap.NewRecord {
		return ""
	}
	banner := fmt.Sprintf("🎉 New record! %d points", snap.Score)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, st.banner.Render(banner))
}

func (m *Model) renderGameOver(st styles, snap model.Snapshot) string {
	lines := []string{
		st.heading.Render("⏱️ Time's up!"),
		fmt.Sprintf("Your final score: %d", snap.Score),
		"",
		st.button.Render("Play again (enter)"),
		"",
		st.muted.Render("History (last 5)"),
	}
	if len(snap.Record.History) == 0 {
		lines = append(lines, st.muted.Render("No data yet"))
	}
	for i, score := range snap.Record.History {
		lines = append(lines, st.muted.Render(fmt.Sprintf("Round %d: %d", i+1, score)))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderMenu(st styles, snap model.Snapshot) string {
	mark := func(seconds int) string {
		if snap.RoundDuration == seconds {
			return "•"
		}
		return " "
	}
	darkLabel := "🌙 Dark mode"
	if snap.Preferences.DarkMode {
		darkLabel = "☀️ Light mode"
	}
	items := []string{
		"r  🔄 Restart game",
		fmt.Sprintf("1 %s⏱️ 15 seconds", mark(15)),
		fmt.Sprintf("2 %s⏱️ 30 seconds", mark(30)),
		fmt.Sprintf("3 %s⏱️ 60 seconds", mark(60)),
		"d  " + darkLabel,
		st.muted.Render("esc close"),
	}
	return st.menuBox.Render(strings.Join(items, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

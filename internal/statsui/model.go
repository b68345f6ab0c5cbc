// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/catchme/internal/model"
	"github.com/verte-zerg/catchme/internal/stats"
	"github.com/verte-zerg/catchme/internal/store"
)

const (
	tabOverview = iota
	tabRounds
)

const (
	headerHeight = 4
	footerHeight = 1
)

var durationFilters = []int{0, 15, 30, 60}

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report stats.Report
	errMsg string

	tabs       []string
	activeTab  int
	overview   viewport.Model
	roundTable table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store:      st,
		cfg:        cfg,
		tabs:       []string{"Overview", "Rounds"},
		overview:   viewport.New(0, 0),
		roundTable: newRoundTable(),
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h", "right", "l", "tab":
			m.activeTab = (m.activeTab + 1) % len(m.tabs)
			if m.activeTab == tabRounds {
				m.roundTable.Focus()
			} else {
				m.roundTable.Blur()
			}
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow++
			m.refreshReport()
			return m, nil
		case "-":
			if m.cfg.CurveWindow > 1 {
				m.cfg.CurveWindow--
			}
			m.refreshReport()
			return m, nil
		case "d":
			m.cfg.Duration = nextDurationFilter(m.cfg.Duration)
			m.refreshReport()
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabRounds {
			m.roundTable, cmd = m.roundTable.Update(msg)
		} else {
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderTabs() + "\n" + headerStyle.Render(m.renderFilterSummary())
	var body string
	switch {
	case m.errMsg != "":
		body = errorStyle.Render(m.errMsg)
	case m.activeTab == tabRounds:
		if len(m.report.Rounds) == 0 {
			body = "No rounds found."
		} else {
			body = m.roundTable.View()
		}
	default:
		body = m.overview.View()
	}
	body = lipgloss.NewStyle().Height(m.bodyHeight()).MaxHeight(m.bodyHeight()).Render(body)
	footer := headerStyle.Render("Nav: left/right  Scroll: up/down  Window: -/=  Duration: d  Quit: q")
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) bodyHeight() int {
	return max(1, m.height-headerHeight-footerHeight)
}

func (m *Model) updateLayout() {
	m.overview.Width = m.width
	m.overview.Height = m.bodyHeight()
	m.roundTable.SetWidth(m.width)
	m.roundTable.SetHeight(max(1, m.bodyHeight()-1))
	m.renderOverview()
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = fmt.Sprintf("Failed to load stats: %v", err)
		return
	}
	m.errMsg = ""
	m.report = report
	rows := make([]table.Row, 0, len(report.Rounds))
	for _, cells := range stats.RoundRows(report.Rounds) {
		rows = append(rows, table.Row(cells))
	}
	m.roundTable.SetRows(rows)
	m.renderOverview()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderFilterSummary() string {
	duration := "any"
	if m.cfg.Duration > 0 {
		duration = fmt.Sprintf("%ds", m.cfg.Duration)
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = fmt.Sprintf("%d", m.cfg.Last)
	}
	return fmt.Sprintf("Settings: profile=%s  duration=%s  last=%s  window=%d",
		m.cfg.Profile, duration, last, m.cfg.CurveWindow)
}

func (m *Model) renderOverview() {
	if len(m.report.Rounds) == 0 {
		m.overview.SetContent("No rounds found.")
		return
	}
	s := m.report.Summary
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Rounds", fmt.Sprintf("%d", s.Rounds)),
		metricCard("Record", fmt.Sprintf("%d", m.report.Record)),
		metricCard("Avg score", fmt.Sprintf("%.1f", s.AvgScore)),
		metricCard("Avg hits/s", fmt.Sprintf("%.2f", s.AvgHitsPerSec)),
		metricCard("Records set", fmt.Sprintf("%d", s.Records)),
	)
	var buf bytes.Buffer
	width := m.width
	if width <= 0 {
		width = 80
	}
	if err := stats.RenderCurve(&buf, m.report.Rounds, m.cfg.CurveWindow, width); err != nil {
		m.overview.SetContent(fmt.Sprintf("Failed to render curve: %v", err))
		return
	}
	m.overview.SetContent(cards + "\n\n" + strings.TrimRight(buf.String(), "\n"))
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func newRoundTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Ended", Width: 16},
		{Title: "Duration", Width: 8},
		{Title: "Score", Width: 6},
		{Title: "Hits/s", Width: 6},
		{Title: "Record", Width: 6},
	}
	t := table.New(table.WithColumns(columns), table.WithHeight(1))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	t.SetStyles(styles)
	return t
}

func nextDurationFilter(current int) int {
	for i, d := range durationFilters {
		if d == current {
			return durationFilters[(i+1)%len(durationFilters)]
		}
	}
	return 0
}

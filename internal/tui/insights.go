package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/biopsyh6/task-tracker/internal/engine"
	"github.com/biopsyh6/task-tracker/internal/store"
)

// insightsModel charts today's eligible tasks by priority and shows the
// score breakdown for the selected one.
type insightsModel struct {
	store  *store.Store
	eng    *engine.Engine
	width  int
	height int

	ranked []engine.ScoredTask
	cursor int

	chart barchart.Model
}

func newInsightsModel(s *store.Store, eng *engine.Engine) insightsModel {
	return insightsModel{
		store: s,
		eng:   eng,
		chart: barchart.New(60, 12),
	}
}

func (m *insightsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m insightsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		ranked, _ := m.eng.Rankings(time.Now())
		return insightsDataMsg{ranked: ranked}
	}
}

func (m insightsModel) update(msg tea.Msg) (insightsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case insightsDataMsg:
		m.ranked = msg.ranked
		if m.cursor >= len(m.ranked) {
			m.cursor = max(0, len(m.ranked)-1)
		}
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.ranked)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m *insightsModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if m.height > 30 {
		chartHeight = 14
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for i, st := range m.ranked {
		style := lipgloss.NewStyle().Foreground(colorSubtle)
		if i == 0 {
			style = lipgloss.NewStyle().Foreground(colorSuccess)
		}
		bars = append(bars, barchart.BarData{
			Label: truncate(st.Task.Title, 8),
			Values: []barchart.BarValue{
				{Name: st.Task.Title, Value: st.Score, Style: style},
			},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m insightsModel) view() string {
	w := m.width - 4
	title := titleStyle.Render("Insights — today's priorities")

	if len(m.ranked) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No eligible tasks to rank today."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, m.chart.View())
	rows = append(rows, "")
	rows = append(rows, m.renderRanking())
	rows = append(rows, "")
	rows = append(rows, m.renderBreakdown())
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ↑/↓: select task"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m insightsModel) renderRanking() string {
	var rows []string
	header := mutedStyle.Render(fmt.Sprintf("  %-4s %-32s %-8s %s", "#", "Task", "Score", "Why"))
	rows = append(rows, header)

	for i, st := range m.ranked {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-4d %-32s %-8.3f %s",
			cursor, i+1, truncate(st.Task.Title, 30), st.Score,
			truncate(engine.Reason(st.Breakdown), 40))))
	}
	return strings.Join(rows, "\n")
}

func (m insightsModel) renderBreakdown() string {
	b := m.ranked[m.cursor].Breakdown
	cells := []struct {
		name  string
		value float64
	}{
		{"urgency", b.Urgency},
		{"importance", b.Importance},
		{"goal", b.GoalAlignment},
		{"unblocks", b.DependencyBonus},
		{"context", b.ContextMatch},
		{"size", b.TimeCost},
	}

	var parts []string
	for _, c := range cells {
		parts = append(parts, fmt.Sprintf("%s %s",
			mutedStyle.Render(c.name+":"), highlightStyle.Render(fmt.Sprintf("%.3f", c.value))))
	}
	return "  " + strings.Join(parts, "  ")
}

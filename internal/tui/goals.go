package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/biopsyh6/task-tracker/internal/store"
)

type goalsModel struct {
	store  *store.Store
	width  int
	height int

	goals    []store.Goal
	progress map[int64]store.GoalProgress
	cursor   int

	formActive bool
	form       *huh.Form

	formTitle    *string
	formWeight   *string
	formDeadline *string
}

func newGoalsModel(s *store.Store) goalsModel {
	title, weight, deadline := "", "1.0", ""
	return goalsModel{
		store:        s,
		formTitle:    &title,
		formWeight:   &weight,
		formDeadline: &deadline,
	}
}

func (m *goalsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m goalsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		goals, _ := m.store.ListGoals()
		progress, _ := m.store.ListGoalProgress()
		return goalsDataMsg{goals: goals, progress: progress}
	}
}

func (m goalsModel) update(msg tea.Msg) (goalsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case goalsDataMsg:
		m.goals = msg.goals
		m.progress = msg.progress
		if m.cursor >= len(m.goals) {
			m.cursor = max(0, len(m.goals)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.goals)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showNewGoalForm()
		case key.Matches(msg, keys.Delete):
			if len(m.goals) > 0 {
				m.store.DeleteGoal(m.goals[m.cursor].ID)
				return m, m.refresh()
			}
		}
	}
	return m, nil
}

func (m goalsModel) showNewGoalForm() (goalsModel, tea.Cmd) {
	*m.formTitle = ""
	*m.formWeight = "1.0"
	*m.formDeadline = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Goal title").Value(m.formTitle),
			huh.NewInput().Title("Weight (0.1-1.0)").Value(m.formWeight),
			huh.NewInput().Title("Deadline (YYYY-MM-DD, optional)").Value(m.formDeadline),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m goalsModel) updateForm(msg tea.Msg) (goalsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		return m, m.saveGoal()
	}

	return m, cmd
}

func (m goalsModel) saveGoal() tea.Cmd {
	return func() tea.Msg {
		title := strings.TrimSpace(*m.formTitle)
		if title == "" {
			return statusMsg{text: "Goal title is required", isError: true}
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(*m.formWeight), 64)
		if err != nil {
			weight = 1.0
		}

		if _, err := m.store.CreateGoal(title, weight, parseDeadline(*m.formDeadline)); err != nil {
			return statusMsg{text: fmt.Sprintf("Create goal: %v", err), isError: true}
		}
		return statusMsg{text: fmt.Sprintf("Goal %q added", title)}
	}
}

func (m goalsModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Goal")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	w := m.width - 4
	title := titleStyle.Render("Goals")

	if len(m.goals) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No goals yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-28s %-8s %-12s %s",
		"Goal", "Weight", "Deadline", "Progress"))
	rows = append(rows, header)

	for i, g := range m.goals {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		deadline := "-"
		if g.Deadline != nil {
			deadline = g.Deadline.Local().Format("2006-01-02")
		}

		row := style.Render(fmt.Sprintf("%s%-28s %-8.1f %-12s %s",
			cursor, truncate(g.Title, 26), g.Weight, deadline,
			m.renderProgress(g.ID)))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  x: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m goalsModel) renderProgress(goalID int64) string {
	p, ok := m.progress[goalID]
	if !ok || p.TaskCount == 0 {
		return mutedStyle.Render("no tasks")
	}

	const cells = 10
	filled := int(p.DoneShare * cells)
	bar := successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", cells-filled))
	return fmt.Sprintf("%s %d/%d done", bar, p.DoneCount, p.TaskCount)
}

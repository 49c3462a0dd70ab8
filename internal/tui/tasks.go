package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/biopsyh6/task-tracker/internal/store"
)

var taskCategories = []string{"creative", "analytical", "routine", "communication"}
var energyLevels = []string{"low", "medium", "high"}

type tasksModel struct {
	store  *store.Store
	width  int
	height int

	tasks  []store.Task
	goals  []store.Goal
	cursor int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formTitle        *string
	formDuration     *string
	formImportance   *string
	formScheduled    *string
	formDeadline     *string
	formEnergy       *string
	formCategory     *string
	formGoal         *string // goal id as string, "" = unbound
	formContribution *string
	formPrereqs      *string
}

func newTasksModel(s *store.Store) tasksModel {
	title, duration, importance, scheduled := "", "", "", ""
	deadline, energy, category, goal := "", "medium", "routine", ""
	contribution, prereqs := "", ""
	return tasksModel{
		store:            s,
		formTitle:        &title,
		formDuration:     &duration,
		formImportance:   &importance,
		formScheduled:    &scheduled,
		formDeadline:     &deadline,
		formEnergy:       &energy,
		formCategory:     &category,
		formGoal:         &goal,
		formContribution: &contribution,
		formPrereqs:      &prereqs,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m tasksModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, _ := m.store.ListAllTasks()
		goals, _ := m.store.ListGoals()
		return tasksDataMsg{tasks: tasks, goals: goals}
	}
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		m.tasks = msg.tasks
		m.goals = msg.goals
		if m.cursor >= len(m.tasks) {
			m.cursor = max(0, len(m.tasks)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showNewTaskForm()
		case key.Matches(msg, keys.Delete):
			if len(m.tasks) > 0 {
				m.store.DeleteTask(m.tasks[m.cursor].ID)
				return m, m.refresh()
			}
		case key.Matches(msg, keys.Done):
			if len(m.tasks) > 0 {
				m.store.SetTaskStatus(m.tasks[m.cursor].ID, store.StatusDone)
				return m, m.refresh()
			}
		}
	}
	return m, nil
}

func (m tasksModel) showNewTaskForm() (tasksModel, tea.Cmd) {
	*m.formTitle = ""
	*m.formDuration = "30"
	*m.formImportance = "5"
	*m.formScheduled = time.Now().Format("2006-01-02")
	*m.formDeadline = ""
	*m.formEnergy = "medium"
	*m.formCategory = "routine"
	*m.formGoal = ""
	*m.formContribution = "0.8"
	*m.formPrereqs = ""

	energyOptions := make([]huh.Option[string], len(energyLevels))
	for i, lv := range energyLevels {
		energyOptions[i] = huh.NewOption(lv, lv)
	}
	catOptions := make([]huh.Option[string], len(taskCategories))
	for i, c := range taskCategories {
		catOptions[i] = huh.NewOption(c, c)
	}
	goalOptions := []huh.Option[string]{huh.NewOption("(no goal)", "")}
	for _, g := range m.goals {
		goalOptions = append(goalOptions,
			huh.NewOption(fmt.Sprintf("%d. %s", g.ID, g.Title), fmt.Sprintf("%d", g.ID)))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("What needs doing?").Value(m.formTitle),
			huh.NewInput().Title("Minutes it will take").Value(m.formDuration),
			huh.NewInput().Title("Importance (1-10)").Value(m.formImportance),
			huh.NewInput().Title("Scheduled date (YYYY-MM-DD)").Value(m.formScheduled),
			huh.NewInput().Title("Deadline (YYYY-MM-DD HH:MM, optional)").Value(m.formDeadline),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Required energy").Options(energyOptions...).Value(m.formEnergy),
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(m.formCategory),
			huh.NewSelect[string]().Title("Goal").Options(goalOptions...).Value(m.formGoal),
			huh.NewInput().Title("Goal contribution (0.0-1.0)").Value(m.formContribution),
			huh.NewInput().Title("Prerequisite task IDs (comma-separated)").Value(m.formPrereqs),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
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
		return m, m.saveTask()
	}

	return m, cmd
}

func (m tasksModel) saveTask() tea.Cmd {
	return func() tea.Msg {
		title := strings.TrimSpace(*m.formTitle)
		if title == "" {
			return statusMsg{text: "Title is required", isError: true}
		}
		duration, err := strconv.Atoi(strings.TrimSpace(*m.formDuration))
		if err != nil || duration <= 0 {
			return statusMsg{text: "Duration must be a positive number of minutes", isError: true}
		}
		importance, err := strconv.Atoi(strings.TrimSpace(*m.formImportance))
		if err != nil || importance < 1 || importance > 10 {
			return statusMsg{text: "Importance must be between 1 and 10", isError: true}
		}

		t := store.Task{
			Title:         title,
			Duration:      duration,
			Importance:    importance,
			ScheduledDate: strings.TrimSpace(*m.formScheduled),
			Energy:        *m.formEnergy,
			Category:      *m.formCategory,
			Deadline:      parseDeadline(*m.formDeadline),
			PrereqIDs:     parseIDList(*m.formPrereqs),
			Contribution:  parseContribution(*m.formContribution),
		}
		if *m.formGoal != "" {
			if id, err := strconv.ParseInt(*m.formGoal, 10, 64); err == nil {
				t.GoalID = &id
			}
		}

		if _, err := m.store.CreateTask(t); err != nil {
			return statusMsg{text: fmt.Sprintf("Create task: %v", err), isError: true}
		}
		return statusMsg{text: fmt.Sprintf("Task %q added", title)}
	}
}

func parseDeadline(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return &t
		}
	}
	return nil
}

func parseIDList(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func parseContribution(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0.8
	}
	return v
}

func (m tasksModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Task")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	w := m.width - 4
	title := titleStyle.Render("All Tasks")

	if len(m.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-4s %-30s %-12s %-12s %-8s %s",
		"ID", "Task", "Status", "Scheduled", "Time", "Goal"))
	rows = append(rows, header)

	for i, t := range m.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		goal := t.GoalTitle
		if goal == "" {
			goal = "-"
		}
		statusText := t.Status
		row := style.Render(fmt.Sprintf("%s%-4d %-30s %-12s %-12s %-8s %s",
			cursor, t.ID, truncate(t.Title, 28), statusText, t.ScheduledDate,
			formatMinutes(t.Duration), truncate(goal, 16)))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  d: done  x: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

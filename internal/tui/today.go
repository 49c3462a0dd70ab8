package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/biopsyh6/task-tracker/internal/engine"
	"github.com/biopsyh6/task-tracker/internal/store"
)

// todayModel shows today's tasks and hosts the "what should I do now" flow.
type todayModel struct {
	store  *store.Store
	eng    *engine.Engine
	width  int
	height int

	tasks   []store.Task
	blocked map[int64][]string // task id -> unfinished prerequisite titles
	cursor  int

	rec      *engine.Recommendation
	recEmpty bool // asked, but outside working hours or nothing eligible
}

func newTodayModel(s *store.Store, eng *engine.Engine) todayModel {
	return todayModel{store: s, eng: eng}
}

func (d todayModel) Init() tea.Cmd {
	return d.refresh()
}

func (d *todayModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d todayModel) refresh() tea.Cmd {
	return func() tea.Msg {
		today := time.Now().Format("2006-01-02")
		tasks, _ := d.store.ListTasksFor(today, store.StatusTodo, store.StatusInProgress)

		blocked := make(map[int64][]string)
		for _, t := range tasks {
			if t.Status != store.StatusTodo || len(t.PrereqIDs) == 0 {
				continue
			}
			titles, _ := d.store.UnfinishedPrereqTitles(t.ID)
			if len(titles) > 0 {
				blocked[t.ID] = titles
			}
		}
		return todayDataMsg{tasks: tasks, blocked: blocked}
	}
}

// recommend asks the engine for the best task right now. The engine never
// mutates; on a hit this caller revalidates the task is still todo and then
// marks it in progress.
func (d todayModel) recommend() tea.Cmd {
	return func() tea.Msg {
		rec, err := d.eng.Recommend(time.Now())
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Recommendation error: %v", err), isError: true}
		}
		if rec == nil {
			return recommendResultMsg{rec: nil}
		}

		current, err := d.store.GetTask(rec.Task.ID)
		if err == nil && current.Status == store.StatusTodo {
			d.store.SetTaskStatus(rec.Task.ID, store.StatusInProgress)
		}
		return recommendResultMsg{rec: rec}
	}
}

func (d todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case todayDataMsg:
		d.tasks = msg.tasks
		d.blocked = msg.blocked
		if d.cursor >= len(d.tasks) {
			d.cursor = max(0, len(d.tasks)-1)
		}
		return d, nil

	case recommendResultMsg:
		d.rec = msg.rec
		d.recEmpty = msg.rec == nil
		return d, d.refresh()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(d.tasks)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.Recommend):
			return d, d.recommend()
		case key.Matches(msg, keys.Done):
			if len(d.tasks) > 0 {
				d.store.SetTaskStatus(d.tasks[d.cursor].ID, store.StatusDone)
				return d, d.refresh()
			}
		case key.Matches(msg, keys.Postpone):
			if len(d.tasks) > 0 {
				d.store.Postpone(d.tasks[d.cursor].ID)
				return d, d.refresh()
			}
		case key.Matches(msg, keys.Return):
			if len(d.tasks) > 0 && d.tasks[d.cursor].Status == store.StatusInProgress {
				d.store.SetTaskStatus(d.tasks[d.cursor].ID, store.StatusTodo)
				return d, d.refresh()
			}
		}
	}
	return d, nil
}

func (d todayModel) view() string {
	w := d.width - 4
	title := titleStyle.Render("Today — " + time.Now().Format("Mon Jan 02"))

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	if len(d.tasks) == 0 {
		rows = append(rows, mutedStyle.Render("Nothing scheduled for today."))
	} else {
		header := mutedStyle.Render(fmt.Sprintf("  %-32s %-8s %-6s %-14s %s",
			"Task", "Time", "Imp", "Deadline", "Goal"))
		rows = append(rows, header)

		for i, t := range d.tasks {
			cursor := "  "
			style := normalItemStyle
			if i == d.cursor {
				cursor = "> "
				style = selectedItemStyle
			}

			name := truncate(t.Title, 30)
			if t.Status == store.StatusInProgress {
				name = name + " ▸"
			}
			goal := t.GoalTitle
			if goal == "" {
				goal = "-"
			}

			row := style.Render(fmt.Sprintf("%s%-32s %-8s %-6s %-14s %s",
				cursor, name, formatMinutes(t.Duration),
				fmt.Sprintf("%d/10", t.Importance),
				formatDeadline(t.Deadline), truncate(goal, 18)))
			rows = append(rows, row)

			if titles, ok := d.blocked[t.ID]; ok {
				rows = append(rows, warningStyle.Render(
					"      blocked by: "+strings.Join(titles, ", ")))
			}
		}
	}

	rows = append(rows, "")
	rows = append(rows, d.renderRecommendation(w))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  r: what now?  d: done  m: tomorrow  t: back to todo"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d todayModel) renderRecommendation(w int) string {
	if d.rec == nil && !d.recEmpty {
		return mutedStyle.Render("  Press r to ask what to do now.")
	}
	if d.recEmpty {
		return activePanelStyle.Width(w - 4).Render(
			mutedStyle.Render("Outside working hours or no eligible tasks. Take a rest!"))
	}

	r := d.rec
	lines := []string{
		successStyle.Bold(true).Render("Now: " + r.Task.Title),
		fmt.Sprintf("%s %s   %s %d/10   %s %.3f",
			mutedStyle.Render("time:"), formatMinutes(r.Task.Duration),
			mutedStyle.Render("importance:"), r.Task.Importance,
			mutedStyle.Render("priority:"), r.Score),
		highlightStyle.Render("why: ") + r.Reason,
		mutedStyle.Render("marked in progress"),
	}
	return activePanelStyle.Width(w - 4).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

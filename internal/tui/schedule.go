package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/biopsyh6/task-tracker/internal/store"
)

// scheduleModel edits the weekly working hours and the current energy level.
type scheduleModel struct {
	store  *store.Store
	width  int
	height int

	entries map[string]store.ScheduleEntry // keyed by weekday
	energy  *store.EnergyEntry
	cursor  int // index into store.Weekdays

	formActive bool
	form       *huh.Form
	formType   string // "hours", "energy"

	formStart *string
	formEnd   *string
	formLevel *string
}

func newScheduleModel(s *store.Store) scheduleModel {
	start, end, level := "", "", "medium"
	return scheduleModel{
		store:     s,
		formStart: &start,
		formEnd:   &end,
		formLevel: &level,
	}
}

func (m *scheduleModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m scheduleModel) refresh() tea.Cmd {
	return func() tea.Msg {
		entries, _ := m.store.ListSchedule()
		energy, _ := m.store.LatestEnergy()
		return scheduleDataMsg{entries: entries, energy: energy}
	}
}

func (m scheduleModel) update(msg tea.Msg) (scheduleModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case scheduleDataMsg:
		m.entries = make(map[string]store.ScheduleEntry, len(msg.entries))
		for _, e := range msg.entries {
			m.entries[e.Day] = e
		}
		m.energy = msg.energy
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(store.Weekdays)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter):
			return m.showHoursForm()
		case key.Matches(msg, keys.Delete):
			m.store.ClearSchedule(store.Weekdays[m.cursor])
			return m, m.refresh()
		case key.Matches(msg, keys.Energy):
			return m.showEnergyForm()
		}
	}
	return m, nil
}

func (m scheduleModel) showHoursForm() (scheduleModel, tea.Cmd) {
	day := store.Weekdays[m.cursor]
	*m.formStart = "09:00"
	*m.formEnd = "18:00"
	if e, ok := m.entries[day]; ok {
		*m.formStart = e.Start
		*m.formEnd = e.End
	}
	m.formType = "hours"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Start (HH:MM)").Value(m.formStart),
			huh.NewInput().Title("End (HH:MM)").Value(m.formEnd),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m scheduleModel) showEnergyForm() (scheduleModel, tea.Cmd) {
	*m.formLevel = "medium"
	if m.energy != nil {
		*m.formLevel = m.energy.Level
	}
	m.formType = "energy"

	options := make([]huh.Option[string], len(energyLevels))
	for i, lv := range energyLevels {
		options[i] = huh.NewOption(lv, lv)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Current energy").Options(options...).Value(m.formLevel),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m scheduleModel) updateForm(msg tea.Msg) (scheduleModel, tea.Cmd) {
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
		switch m.formType {
		case "hours":
			day := store.Weekdays[m.cursor]
			start := strings.TrimSpace(*m.formStart)
			end := strings.TrimSpace(*m.formEnd)
			if start != "" && end != "" {
				m.store.SetSchedule(day, start, end)
			}
			return m, m.refresh()
		case "energy":
			m.store.LogEnergy(*m.formLevel)
			return m, m.refresh()
		}
	}

	return m, cmd
}

func (m scheduleModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("Working hours — " + store.Weekdays[m.cursor])
		if m.formType == "energy" {
			title = titleStyle.Render("Declare Energy")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	w := m.width - 4
	title := titleStyle.Render("Weekly Schedule")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, day := range store.Weekdays {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		hours := mutedStyle.Render("not working")
		if e, ok := m.entries[day]; ok {
			hours = fmt.Sprintf("%s – %s", e.Start, e.End)
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-12s", cursor, day))+hours)
	}

	rows = append(rows, "")
	rows = append(rows, m.renderEnergy())
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: set hours  x: clear day  y: set energy"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m scheduleModel) renderEnergy() string {
	if m.energy == nil {
		return mutedStyle.Render("  Energy: not declared (engine assumes medium)")
	}

	style := warningStyle
	switch m.energy.Level {
	case "high":
		style = successStyle
	case "low":
		style = errorStyle
	}
	return "  Energy: " + style.Render(m.energy.Level) +
		mutedStyle.Render("  since "+m.energy.LoggedAt.Local().Format("Jan 02 15:04"))
}

package tui

import (
	"fmt"
	"time"

	"github.com/biopsyh6/task-tracker/internal/engine"
	"github.com/biopsyh6/task-tracker/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewTasks
	viewGoals
	viewSchedule
	viewInsights
)

var viewNames = []string{"Today", "Tasks", "Goals", "Schedule", "Insights"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

// recommendResultMsg carries the engine's answer to "what should I do now".
// rec is nil outside working hours or when nothing is eligible.
type recommendResultMsg struct {
	rec *engine.Recommendation
}

type todayDataMsg struct {
	tasks   []store.Task
	blocked map[int64][]string
}

type tasksDataMsg struct {
	tasks []store.Task
	goals []store.Goal
}

type goalsDataMsg struct {
	goals    []store.Goal
	progress map[int64]store.GoalProgress
}

type scheduleDataMsg struct {
	entries []store.ScheduleEntry
	energy  *store.EnergyEntry
}

type insightsDataMsg struct {
	ranked []engine.ScoredTask
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatMinutes(m int) string {
	if m >= 60 {
		return fmt.Sprintf("%dh%02dm", m/60, m%60)
	}
	return fmt.Sprintf("%dm", m)
}

func formatDeadline(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("Jan 02 15:04")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}

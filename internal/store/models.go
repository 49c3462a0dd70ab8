package store

import "time"

// Task status values.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Weekdays in schedule display order, lowercase as stored.
var Weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

type Goal struct {
	ID        int64
	Title     string
	Weight    float64 // base weight, [0.1, 1.0]
	Deadline  *time.Time
	CreatedAt time.Time
}

type Task struct {
	ID            int64
	Title         string
	Duration      int // minutes
	Importance    int // 1-10
	Status        string
	CreatedDate   string // YYYY-MM-DD
	ScheduledDate string // YYYY-MM-DD
	Deadline      *time.Time
	GoalID        *int64
	GoalTitle     string // joined for display, empty when unbound
	Energy        string
	Category      string
	PrereqIDs     []int64 // ids that must be done before this task
	Contribution  float64
}

type ScheduleEntry struct {
	Day   string
	Start string // "HH:MM"
	End   string // "HH:MM"
}

type EnergyEntry struct {
	Level    string
	LoggedAt time.Time
}

// GoalProgress aggregates done-task contributions toward a goal.
type GoalProgress struct {
	GoalID    int64
	DoneShare float64 // summed contribution of done tasks, capped at 1
	TaskCount int
	DoneCount int
}

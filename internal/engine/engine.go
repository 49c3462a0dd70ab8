// Package engine decides which pending task is the best one to work on
// right now, given the wall clock, the weekly schedule, the user's declared
// energy level and each task's urgency, importance, goal relevance and
// dependency position. It only reads from storage; acting on a
// recommendation (marking the task in progress) is the caller's job.
package engine

import (
	"sort"
	"time"
)

// Task is the engine's read-only view of a pending task.
type Task struct {
	ID           int64
	Title        string
	Duration     int // minutes
	Importance   int // caller-facing 1-10 scale
	Deadline     *time.Time
	GoalID       *int64
	GoalWeight   float64
	Contribution float64 // fraction of goal progress, [0,1]
	Energy       string  // low, medium, high
	Category     string  // creative, analytical, routine, communication
	PrereqIDs    []int64 // tasks that must be done before this one
	Dependents   int     // todo tasks this one unblocks
}

// Repository is the storage surface the engine reads from. Implementations
// must decode malformed prerequisite data as an empty PrereqIDs slice rather
// than failing, so a persistence glitch can never permanently hide a task.
type Repository interface {
	// ListTodoTasks returns todo tasks scheduled for the given YYYY-MM-DD
	// date, in the store's natural order.
	ListTodoTasks(date string) ([]Task, error)
	// CountUnfinished reports how many of the given ids are not done.
	CountUnfinished(ids []int64) (int, error)
	// CountTodoDependents reports how many todo tasks list taskID as a
	// prerequisite.
	CountTodoDependents(taskID int64) (int, error)
	// LatestEnergyLevel returns the most recent declared level, or "" when
	// none has been declared.
	LatestEnergyLevel() (string, error)
	// ScheduleFor returns the working hours for a lowercase weekday name.
	// ok is false when the day has no schedule row.
	ScheduleFor(day string) (start, end string, ok bool, err error)
}

// ScoredTask pairs a task with its computed priority.
type ScoredTask struct {
	Task      Task
	Score     float64
	Breakdown Breakdown
}

// Recommendation is the single best task for right now and why.
type Recommendation struct {
	Task      Task
	Score     float64
	Breakdown Breakdown
	Reason    string
}

type Engine struct {
	repo Repository
}

func New(repo Repository) *Engine {
	return &Engine{repo: repo}
}

// EligibleTasks returns today's unblocked todo tasks with their dependents
// counted. A task with any unfinished prerequisite is excluded entirely.
func (e *Engine) EligibleTasks(now time.Time) ([]Task, error) {
	tasks, err := e.repo.ListTodoTasks(now.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	var eligible []Task
	for _, t := range tasks {
		if len(t.PrereqIDs) > 0 {
			unfinished, err := e.repo.CountUnfinished(t.PrereqIDs)
			if err != nil {
				return nil, err
			}
			if unfinished > 0 {
				continue
			}
		}
		deps, err := e.repo.CountTodoDependents(t.ID)
		if err != nil {
			return nil, err
		}
		t.Dependents = deps
		eligible = append(eligible, t)
	}
	return eligible, nil
}

// Rankings scores every eligible task and returns them best first. The sort
// is stable, so tied scores keep the repository's natural order.
func (e *Engine) Rankings(now time.Time) ([]ScoredTask, error) {
	ctx, err := e.ResolveContext(now)
	if err != nil {
		return nil, err
	}
	return e.rank(ctx, now)
}

func (e *Engine) rank(ctx Context, now time.Time) ([]ScoredTask, error) {
	tasks, err := e.EligibleTasks(now)
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredTask, 0, len(tasks))
	for _, t := range tasks {
		total, b := Score(t, ctx, now)
		scored = append(scored, ScoredTask{Task: t, Score: total, Breakdown: b})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored, nil
}

// Recommend returns the top-scoring eligible task, or nil outside working
// hours or when nothing is eligible. Both nil outcomes are normal, not
// errors.
func (e *Engine) Recommend(now time.Time) (*Recommendation, error) {
	ctx, err := e.ResolveContext(now)
	if err != nil {
		return nil, err
	}

	working, err := e.IsWorkingTime(ctx, now)
	if err != nil {
		return nil, err
	}
	if !working {
		return nil, nil
	}

	scored, err := e.rank(ctx, now)
	if err != nil {
		return nil, err
	}
	if len(scored) == 0 {
		return nil, nil
	}

	best := scored[0]
	return &Recommendation{
		Task:      best.Task,
		Score:     best.Score,
		Breakdown: best.Breakdown,
		Reason:    Reason(best.Breakdown),
	}, nil
}

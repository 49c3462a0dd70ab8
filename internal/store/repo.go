package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/biopsyh6/task-tracker/internal/engine"
)

// The Store is the engine's repository. These methods are the read surface
// the recommendation engine runs against.
var _ engine.Repository = (*Store)(nil)

// ListTodoTasks returns todo tasks scheduled for the given date as engine
// views, goal weight joined in (1.0 when the task has no goal).
func (s *Store) ListTodoTasks(date string) ([]engine.Task, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.title, t.duration_minutes, t.importance, t.deadline,
			t.goal_id, g.weight, t.energy, t.category, t.prereq_ids, t.contribution
		FROM tasks t
		LEFT JOIN goals g ON t.goal_id = g.id
		WHERE t.scheduled_date = ? AND t.status = ?
		ORDER BY t.id`, date, StatusTodo)
	if err != nil {
		return nil, fmt.Errorf("list todo tasks: %w", err)
	}
	defer rows.Close()

	var tasks []engine.Task
	for rows.Next() {
		var t engine.Task
		var deadline sql.NullString
		var goalID sql.NullInt64
		var weight sql.NullFloat64
		var prereqs string
		err := rows.Scan(
			&t.ID, &t.Title, &t.Duration, &t.Importance, &deadline,
			&goalID, &weight, &t.Energy, &t.Category, &prereqs, &t.Contribution,
		)
		if err != nil {
			return nil, err
		}
		t.Deadline = decodeTime(deadline)
		if goalID.Valid {
			id := goalID.Int64
			t.GoalID = &id
		}
		t.GoalWeight = 1.0
		if weight.Valid {
			t.GoalWeight = weight.Float64
		}
		t.PrereqIDs = decodePrereqs(prereqs)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// CountUnfinished reports how many of the given task ids are not done.
func (s *Store) CountUnfinished(ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `SELECT COUNT(*) FROM tasks WHERE id IN (?` +
		strings.Repeat(",?", len(ids)-1) + `) AND status != ?`
	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, StatusDone)

	var n int
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unfinished: %w", err)
	}
	return n, nil
}

// CountTodoDependents reports how many todo tasks list taskID as a
// prerequisite. Prereq sets are decoded in Go rather than substring-matched
// in SQL, so id 1 never matches inside id 12.
func (s *Store) CountTodoDependents(taskID int64) (int, error) {
	rows, err := s.db.Query(`SELECT prereq_ids FROM tasks WHERE status = ?`, StatusTodo)
	if err != nil {
		return 0, fmt.Errorf("count dependents: %w", err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return 0, err
		}
		for _, id := range decodePrereqs(raw) {
			if id == taskID {
				n++
				break
			}
		}
	}
	return n, rows.Err()
}

// LatestEnergyLevel returns the most recent declared level, "" when none.
func (s *Store) LatestEnergyLevel() (string, error) {
	e, err := s.LatestEnergy()
	if err != nil {
		return "", err
	}
	if e == nil {
		return "", nil
	}
	return e.Level, nil
}

// ScheduleFor returns the working hours for a weekday; ok is false when the
// day has no schedule row.
func (s *Store) ScheduleFor(day string) (start, end string, ok bool, err error) {
	err = s.db.QueryRow(
		`SELECT start_time, end_time FROM schedule WHERE day_of_week = ?`, day,
	).Scan(&start, &end)
	if err == sql.ErrNoRows {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, fmt.Errorf("schedule for %s: %w", day, err)
	}
	return start, end, true, nil
}

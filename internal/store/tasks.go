package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const taskColumns = `t.id, t.title, t.duration_minutes, t.importance, t.status,
	t.created_date, t.scheduled_date, t.deadline, t.goal_id, g.title,
	t.energy, t.category, t.prereq_ids, t.contribution`

// CreateTask inserts a new todo task and returns it. Zero-value dates
// default to today, contribution is clamped to [0,1].
func (s *Store) CreateTask(t Task) (*Task, error) {
	today := time.Now().Format("2006-01-02")
	if t.CreatedDate == "" {
		t.CreatedDate = today
	}
	if t.ScheduledDate == "" {
		t.ScheduledDate = today
	}
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if t.Contribution < 0 {
		t.Contribution = 0
	} else if t.Contribution > 1 {
		t.Contribution = 1
	}

	res, err := s.db.Exec(
		`INSERT INTO tasks (title, duration_minutes, importance, status, created_date,
			scheduled_date, deadline, goal_id, energy, category, prereq_ids, contribution)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Title, t.Duration, t.Importance, t.Status, t.CreatedDate,
		t.ScheduledDate, encodeTime(t.Deadline), t.GoalID, t.Energy, t.Category,
		encodePrereqs(t.PrereqIDs), t.Contribution,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetTask(id)
}

func (s *Store) GetTask(id int64) (*Task, error) {
	row := s.db.QueryRow(
		`SELECT `+taskColumns+` FROM tasks t LEFT JOIN goals g ON t.goal_id = g.id WHERE t.id = ?`, id,
	)
	t, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// ListTasksFor returns tasks scheduled for a YYYY-MM-DD date, optionally
// restricted to the given statuses, ordered by importance descending.
func (s *Store) ListTasksFor(date string, statuses ...string) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t LEFT JOIN goals g ON t.goal_id = g.id
		WHERE t.scheduled_date = ?`
	args := []any{date}
	if len(statuses) > 0 {
		query += ` AND t.status IN (?` + strings.Repeat(",?", len(statuses)-1) + `)`
		for _, st := range statuses {
			args = append(args, st)
		}
	}
	query += ` ORDER BY t.importance DESC, t.id`

	return s.queryTasks(query, args...)
}

// ListAllTasks returns every task, newest first.
func (s *Store) ListAllTasks() ([]Task, error) {
	return s.queryTasks(
		`SELECT ` + taskColumns + ` FROM tasks t LEFT JOIN goals g ON t.goal_id = g.id
		 ORDER BY t.id DESC`,
	)
}

func (s *Store) queryTasks(query string, args ...any) ([]Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// SetTaskStatus transitions a task to todo, in_progress or done.
func (s *Store) SetTaskStatus(id int64, status string) error {
	_, err := s.db.Exec(`UPDATE tasks SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("set task %d status: %w", id, err)
	}
	return nil
}

// Postpone moves a not-done task to tomorrow and resets it to todo.
func (s *Store) Postpone(id int64) error {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	_, err := s.db.Exec(
		`UPDATE tasks SET scheduled_date = ?, status = ? WHERE id = ? AND status != ?`,
		tomorrow, StatusTodo, id, StatusDone,
	)
	if err != nil {
		return fmt.Errorf("postpone task %d: %w", id, err)
	}
	return nil
}

func (s *Store) DeleteTask(id int64) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	return err
}

// UnfinishedPrereqTitles returns the titles of a task's not-yet-done
// prerequisites, for flagging it as blocked in lists.
func (s *Store) UnfinishedPrereqTitles(id int64) ([]string, error) {
	t, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}
	if len(t.PrereqIDs) == 0 {
		return nil, nil
	}

	query := `SELECT title FROM tasks WHERE id IN (?` +
		strings.Repeat(",?", len(t.PrereqIDs)-1) + `) AND status != ? ORDER BY id`
	args := make([]any, 0, len(t.PrereqIDs)+1)
	for _, pid := range t.PrereqIDs {
		args = append(args, pid)
	}
	args = append(args, StatusDone)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("prereq titles for task %d: %w", id, err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	t := &Task{}
	var deadline, goalTitle sql.NullString
	var goalID sql.NullInt64
	var prereqs string
	err := row.Scan(
		&t.ID, &t.Title, &t.Duration, &t.Importance, &t.Status,
		&t.CreatedDate, &t.ScheduledDate, &deadline, &goalID, &goalTitle,
		&t.Energy, &t.Category, &prereqs, &t.Contribution,
	)
	if err != nil {
		return nil, err
	}
	t.Deadline = decodeTime(deadline)
	if goalID.Valid {
		id := goalID.Int64
		t.GoalID = &id
	}
	t.GoalTitle = goalTitle.String
	t.PrereqIDs = decodePrereqs(prereqs)
	return t, nil
}

func encodePrereqs(ids []int64) string {
	if len(ids) == 0 {
		return "[]"
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// decodePrereqs fails open: malformed JSON reads as "no prerequisites" so a
// bad row can never permanently hide a task.
func decodePrereqs(raw string) []int64 {
	if raw == "" {
		return nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil
	}
	return ids
}

func encodeTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func decodeTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

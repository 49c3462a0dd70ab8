package store

import (
	"database/sql"
	"fmt"
	"time"
)

// CreateGoal inserts a goal. Weight is clamped to [0.1, 1.0].
func (s *Store) CreateGoal(title string, weight float64, deadline *time.Time) (*Goal, error) {
	if weight < 0.1 {
		weight = 0.1
	} else if weight > 1.0 {
		weight = 1.0
	}

	res, err := s.db.Exec(
		`INSERT INTO goals (title, weight, deadline) VALUES (?, ?, ?)`,
		title, weight, encodeTime(deadline),
	)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetGoal(id)
}

func (s *Store) GetGoal(id int64) (*Goal, error) {
	g := &Goal{}
	var deadline sql.NullString
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, title, weight, deadline, created_at FROM goals WHERE id = ?`, id,
	).Scan(&g.ID, &g.Title, &g.Weight, &deadline, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get goal %d: %w", id, err)
	}
	g.Deadline = decodeTime(deadline)
	g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return g, nil
}

func (s *Store) ListGoals() ([]Goal, error) {
	rows, err := s.db.Query(`SELECT id, title, weight, deadline, created_at FROM goals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		var g Goal
		var deadline sql.NullString
		var createdAt string
		if err := rows.Scan(&g.ID, &g.Title, &g.Weight, &deadline, &createdAt); err != nil {
			return nil, err
		}
		g.Deadline = decodeTime(deadline)
		g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// DeleteGoal removes a goal and unbinds its tasks.
func (s *Store) DeleteGoal(id int64) error {
	if _, err := s.db.Exec(`UPDATE tasks SET goal_id = NULL WHERE goal_id = ?`, id); err != nil {
		return fmt.Errorf("unbind goal %d tasks: %w", id, err)
	}
	_, err := s.db.Exec(`DELETE FROM goals WHERE id = ?`, id)
	return err
}

// ListGoalProgress aggregates task counts and done contribution per goal.
func (s *Store) ListGoalProgress() (map[int64]GoalProgress, error) {
	rows, err := s.db.Query(`
		SELECT goal_id,
			COUNT(*),
			SUM(CASE WHEN status = 'done' THEN 1 ELSE 0 END),
			SUM(CASE WHEN status = 'done' THEN contribution ELSE 0 END)
		FROM tasks
		WHERE goal_id IS NOT NULL
		GROUP BY goal_id`)
	if err != nil {
		return nil, fmt.Errorf("goal progress: %w", err)
	}
	defer rows.Close()

	progress := make(map[int64]GoalProgress)
	for rows.Next() {
		var p GoalProgress
		if err := rows.Scan(&p.GoalID, &p.TaskCount, &p.DoneCount, &p.DoneShare); err != nil {
			return nil, err
		}
		if p.DoneShare > 1 {
			p.DoneShare = 1
		}
		progress[p.GoalID] = p
	}
	return progress, rows.Err()
}

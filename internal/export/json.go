package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/biopsyh6/task-tracker/internal/store"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	Count      int        `json:"count"`
	Tasks      []jsonTask `json:"tasks"`
}

type jsonTask struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Status       string  `json:"status"`
	Scheduled    string  `json:"scheduled_date"`
	Duration     int     `json:"duration_minutes"`
	Importance   int     `json:"importance"`
	Deadline     string  `json:"deadline,omitempty"`
	Goal         string  `json:"goal,omitempty"`
	Energy       string  `json:"energy"`
	Category     string  `json:"category"`
	PrereqIDs    []int64 `json:"prerequisite_ids,omitempty"`
	Contribution float64 `json:"contribution"`
}

func ToJSON(tasks []store.Task, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(tasks),
	}

	for _, t := range tasks {
		deadline := ""
		if t.Deadline != nil {
			deadline = t.Deadline.Local().Format(time.RFC3339)
		}

		export.Tasks = append(export.Tasks, jsonTask{
			ID:           t.ID,
			Title:        t.Title,
			Status:       t.Status,
			Scheduled:    t.ScheduledDate,
			Duration:     t.Duration,
			Importance:   t.Importance,
			Deadline:     deadline,
			Goal:         t.GoalTitle,
			Energy:       t.Energy,
			Category:     t.Category,
			PrereqIDs:    t.PrereqIDs,
			Contribution: t.Contribution,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

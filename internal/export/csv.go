package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/biopsyh6/task-tracker/internal/store"
)

func ToCSV(tasks []store.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	header := []string{
		"ID", "Title", "Status", "Scheduled", "Duration (min)", "Importance",
		"Deadline", "Goal", "Energy", "Category", "Prerequisites", "Contribution",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, t := range tasks {
		deadline := ""
		if t.Deadline != nil {
			deadline = t.Deadline.Local().Format(time.RFC3339)
		}

		row := []string{
			fmt.Sprintf("%d", t.ID),
			t.Title,
			t.Status,
			t.ScheduledDate,
			fmt.Sprintf("%d", t.Duration),
			fmt.Sprintf("%d", t.Importance),
			deadline,
			t.GoalTitle,
			t.Energy,
			t.Category,
			formatIDs(t.PrereqIDs),
			fmt.Sprintf("%.2f", t.Contribution),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatIDs(ids []int64) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}

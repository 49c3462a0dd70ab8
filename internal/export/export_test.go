package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/biopsyh6/task-tracker/internal/store"
)

func sampleTasks() []store.Task {
	deadline := time.Date(2026, 3, 6, 17, 0, 0, 0, time.UTC)
	gid := int64(1)

	return []store.Task{
		{
			ID:            1,
			Title:         "Write report",
			Duration:      45,
			Importance:    8,
			Status:        store.StatusTodo,
			CreatedDate:   "2026-03-02",
			ScheduledDate: "2026-03-02",
			Deadline:      &deadline,
			GoalID:        &gid,
			GoalTitle:     "Ship v1",
			Energy:        "high",
			Category:      "creative",
			PrereqIDs:     []int64{4, 7},
			Contribution:  0.5,
		},
		{
			ID:            2,
			Title:         "Reply to emails",
			Duration:      20,
			Importance:    3,
			Status:        store.StatusDone,
			CreatedDate:   "2026-03-02",
			ScheduledDate: "2026-03-02",
			Energy:        "low",
			Category:      "communication",
			Contribution:  0.8,
		},
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.csv")

	if err := ToCSV(sampleTasks(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 2 data rows
	if len(records) != 3 {
		t.Fatalf("expected 3 rows (1 header + 2 data), got %d", len(records))
	}

	header := records[0]
	expectedHeader := []string{
		"ID", "Title", "Status", "Scheduled", "Duration (min)", "Importance",
		"Deadline", "Goal", "Energy", "Category", "Prerequisites", "Contribution",
	}
	for i, h := range expectedHeader {
		if header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], h)
		}
	}

	row := records[1]
	if row[0] != "1" {
		t.Fatalf("ID = %q, want 1", row[0])
	}
	if row[1] != "Write report" {
		t.Fatalf("Title = %q", row[1])
	}
	if row[6] == "" {
		t.Fatal("deadline column should not be empty")
	}
	if row[7] != "Ship v1" {
		t.Fatalf("Goal = %q, want Ship v1", row[7])
	}
	if row[10] != "4,7" {
		t.Fatalf("Prerequisites = %q, want 4,7", row[10])
	}
	if row[11] != "0.50" {
		t.Fatalf("Contribution = %q, want 0.50", row[11])
	}

	// Task without deadline or goal leaves those columns empty.
	row = records[2]
	if row[6] != "" || row[7] != "" || row[10] != "" {
		t.Fatalf("optional columns should be empty: %v", row)
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, _ := r.ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	tasks := []store.Task{
		{
			ID: 1, Title: `title with "quotes" and, commas`,
			Status: store.StatusTodo, Energy: "low", Category: "routine",
		},
	}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(tasks, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("CSV should be valid even with special chars: %v", err)
	}
	if records[1][1] != `title with "quotes" and, commas` {
		t.Fatalf("title mangled: %q", records[1][1])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")

	if err := ToJSON(sampleTasks(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 2 {
		t.Fatalf("count = %d, want 2", result.Count)
	}
	if len(result.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(result.Tasks))
	}
	if result.ExportedAt == "" {
		t.Fatal("exported_at should not be empty")
	}

	task := result.Tasks[0]
	if task.ID != 1 || task.Title != "Write report" {
		t.Fatalf("unexpected first task: %+v", task)
	}
	if task.Goal != "Ship v1" {
		t.Fatalf("Goal = %q, want Ship v1", task.Goal)
	}
	if len(task.PrereqIDs) != 2 {
		t.Fatalf("PrereqIDs = %v, want [4 7]", task.PrereqIDs)
	}
	if task.Deadline == "" {
		t.Fatal("deadline should be set on the first task")
	}

	// Optional fields omitted on the second task.
	task = result.Tasks[1]
	if task.Deadline != "" || task.Goal != "" || task.PrereqIDs != nil {
		t.Fatalf("optional fields should be empty: %+v", task)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Tasks != nil {
		t.Fatal("tasks should be nil/null for empty export")
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n") {
		t.Fatal("JSON should be pretty-printed with newlines")
	}
	if !strings.Contains(string(data), "  ") {
		t.Fatal("JSON should be indented with spaces")
	}
}

func TestToJSONValidTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ts.json")
	ToJSON(sampleTasks(), path)

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}
	if _, err := time.Parse(time.RFC3339, result.Tasks[0].Deadline); err != nil {
		t.Fatalf("deadline is not valid RFC3339: %q", result.Tasks[0].Deadline)
	}
}

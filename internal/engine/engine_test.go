package engine

import (
	"testing"
	"time"
)

// fakeRepo is an in-memory Repository for exercising the engine without a
// database.
type fakeRepo struct {
	tasks    []Task
	done     map[int64]bool
	energy   string
	schedule map[string][2]string // day -> {start, end}
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		done:     make(map[int64]bool),
		schedule: make(map[string][2]string),
	}
}

func (r *fakeRepo) ListTodoTasks(date string) ([]Task, error) {
	out := make([]Task, len(r.tasks))
	copy(out, r.tasks)
	return out, nil
}

func (r *fakeRepo) CountUnfinished(ids []int64) (int, error) {
	n := 0
	for _, id := range ids {
		if !r.done[id] {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) CountTodoDependents(taskID int64) (int, error) {
	n := 0
	for _, t := range r.tasks {
		for _, pid := range t.PrereqIDs {
			if pid == taskID {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *fakeRepo) LatestEnergyLevel() (string, error) { return r.energy, nil }

func (r *fakeRepo) ScheduleFor(day string) (string, string, bool, error) {
	hours, ok := r.schedule[day]
	return hours[0], hours[1], ok, nil
}

// alwaysWorking schedules every day around the clock.
func (r *fakeRepo) alwaysWorking() {
	for _, day := range []string{
		"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	} {
		r.schedule[day] = [2]string{"00:00", "23:59"}
	}
}

// midMorning is a fixed Monday 10:00 clock for recommend tests.
var midMorning = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

// ============================================================
// Eligibility
// ============================================================

func TestEligibleExcludesBlocked(t *testing.T) {
	repo := newFakeRepo()
	repo.tasks = []Task{
		{ID: 1, Title: "Free"},
		{ID: 2, Title: "Blocked", PrereqIDs: []int64{10}},
	}

	eng := New(repo)
	eligible, err := eng.EligibleTasks(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(eligible) != 1 || eligible[0].ID != 1 {
		t.Fatalf("expected only the free task, got %+v", eligible)
	}
}

func TestEligibleIncludesFinishedPrereqs(t *testing.T) {
	repo := newFakeRepo()
	repo.tasks = []Task{
		{ID: 2, Title: "Now unblocked", PrereqIDs: []int64{10, 11}},
	}
	repo.done[10] = true
	repo.done[11] = true

	eng := New(repo)
	eligible, err := eng.EligibleTasks(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(eligible) != 1 {
		t.Fatalf("task with all prereqs done should be eligible, got %d", len(eligible))
	}
}

func TestEligibleCountsDependents(t *testing.T) {
	repo := newFakeRepo()
	repo.tasks = []Task{
		{ID: 1, Title: "Foundation"},
		{ID: 2, PrereqIDs: []int64{1}},
		{ID: 3, PrereqIDs: []int64{1}},
	}

	eng := New(repo)
	eligible, err := eng.EligibleTasks(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(eligible) != 1 {
		t.Fatalf("expected 1 eligible task, got %d", len(eligible))
	}
	if eligible[0].Dependents != 2 {
		t.Fatalf("Dependents = %d, want 2", eligible[0].Dependents)
	}
}

// ============================================================
// Context resolution
// ============================================================

func TestResolveContextDefaultsToMedium(t *testing.T) {
	eng := New(newFakeRepo())
	ctx, err := eng.ResolveContext(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Energy != EnergyMedium {
		t.Fatalf("Energy = %q, want medium default", ctx.Energy)
	}
}

func TestResolveContextUsesDeclaredEnergy(t *testing.T) {
	repo := newFakeRepo()
	repo.energy = EnergyLow
	eng := New(repo)

	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC) // a Monday morning
	ctx, err := eng.ResolveContext(now)
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Energy != EnergyLow {
		t.Fatalf("Energy = %q, want low", ctx.Energy)
	}
	if ctx.TimeOfDay != Morning {
		t.Fatalf("TimeOfDay = %q, want morning", ctx.TimeOfDay)
	}
	if ctx.Day != "monday" {
		t.Fatalf("Day = %q, want monday", ctx.Day)
	}
}

func TestTimeOfDayBands(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, Night}, {4, Night},
		{5, Morning}, {11, Morning},
		{12, Afternoon}, {16, Afternoon},
		{17, Evening}, {21, Evening},
		{22, Night}, {23, Night},
	}
	for _, tt := range tests {
		if got := TimeOfDay(tt.hour); got != tt.want {
			t.Errorf("TimeOfDay(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

// ============================================================
// Working-time gate
// ============================================================

func TestIsWorkingTimeInclusiveBounds(t *testing.T) {
	repo := newFakeRepo()
	repo.schedule["monday"] = [2]string{"09:00", "17:00"}
	eng := New(repo)
	ctx := Context{Day: "monday"}

	tests := []struct {
		clock string // HH:MM:SS on the Monday
		want  bool
	}{
		{"08:59:59", false},
		{"09:00:00", true},
		{"12:30:00", true},
		{"17:00:00", true},
		{"17:00:01", false},
	}
	for _, tt := range tests {
		now, _ := time.Parse("2006-01-02 15:04:05", "2026-03-02 "+tt.clock)
		got, err := eng.IsWorkingTime(ctx, now)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("IsWorkingTime at %s = %v, want %v", tt.clock, got, tt.want)
		}
	}
}

func TestIsWorkingTimeNoScheduleRow(t *testing.T) {
	eng := New(newFakeRepo())
	got, err := eng.IsWorkingTime(Context{Day: "sunday"}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Fatal("day without schedule should not be working time")
	}
}

func TestIsWorkingTimeBadTimesFailClosed(t *testing.T) {
	repo := newFakeRepo()
	repo.schedule["monday"] = [2]string{"9am", "5pm"}
	eng := New(repo)

	got, err := eng.IsWorkingTime(Context{Day: "monday"}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Fatal("unparsable schedule should not be working time")
	}
}

// ============================================================
// Rankings
// ============================================================

func TestRankingsOrderedByScore(t *testing.T) {
	repo := newFakeRepo()
	soon := time.Now().Add(2 * time.Hour)
	repo.tasks = []Task{
		{ID: 1, Title: "Trivial", Duration: 10, Importance: 1},
		{ID: 2, Title: "Critical", Duration: 60, Importance: 10, Deadline: &soon},
	}

	eng := New(repo)
	ranked, err := eng.Rankings(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked tasks, got %d", len(ranked))
	}
	if ranked[0].Task.ID != 2 {
		t.Fatalf("expected critical task first, got %q", ranked[0].Task.Title)
	}
	if ranked[0].Score < ranked[1].Score {
		t.Fatal("rankings not descending")
	}
}

func TestRankingsStableOnTies(t *testing.T) {
	repo := newFakeRepo()
	repo.tasks = []Task{
		{ID: 1, Title: "First", Duration: 30, Importance: 5, Energy: EnergyMedium, Category: "routine"},
		{ID: 2, Title: "Second", Duration: 30, Importance: 5, Energy: EnergyMedium, Category: "routine"},
	}

	eng := New(repo)
	ranked, err := eng.Rankings(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if ranked[0].Task.ID != 1 || ranked[1].Task.ID != 2 {
		t.Fatal("tied tasks should keep repository order")
	}
}

// ============================================================
// Recommend
// ============================================================

func TestRecommendOutsideWorkingHours(t *testing.T) {
	repo := newFakeRepo()
	repo.tasks = []Task{{ID: 1, Title: "Work", Importance: 5}}
	eng := New(repo)

	rec, err := eng.Recommend(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if rec != nil {
		t.Fatalf("expected nil recommendation with empty schedule, got %+v", rec)
	}
}

func TestRecommendNothingEligible(t *testing.T) {
	repo := newFakeRepo()
	repo.alwaysWorking()
	eng := New(repo)

	rec, err := eng.Recommend(midMorning)
	if err != nil {
		t.Fatal(err)
	}
	if rec != nil {
		t.Fatal("expected nil recommendation with no tasks")
	}
}

func TestRecommendReturnsTopTask(t *testing.T) {
	repo := newFakeRepo()
	repo.alwaysWorking()
	soon := midMorning.Add(3 * time.Hour)
	repo.tasks = []Task{
		{ID: 1, Title: "Minor", Duration: 15, Importance: 2},
		{ID: 2, Title: "Ship release", Duration: 90, Importance: 9, Deadline: &soon},
	}

	eng := New(repo)
	rec, err := eng.Recommend(midMorning)
	if err != nil {
		t.Fatal(err)
	}
	if rec == nil {
		t.Fatal("expected a recommendation")
	}
	if rec.Task.ID != 2 {
		t.Fatalf("recommended %q, want the deadline task", rec.Task.Title)
	}
	if rec.Reason == "" {
		t.Fatal("recommendation should carry a reason")
	}
	if rec.Score <= 0 || rec.Score > 1 {
		t.Fatalf("score %v out of range", rec.Score)
	}
}

// Recommend only reads; asking twice must give the same answer.
func TestRecommendIdempotent(t *testing.T) {
	repo := newFakeRepo()
	repo.alwaysWorking()
	repo.tasks = []Task{
		{ID: 1, Title: "A", Duration: 30, Importance: 6},
		{ID: 2, Title: "B", Duration: 30, Importance: 4},
	}

	eng := New(repo)
	now := midMorning
	first, err := eng.Recommend(now)
	if err != nil {
		t.Fatal(err)
	}
	second, err := eng.Recommend(now)
	if err != nil {
		t.Fatal(err)
	}
	if first.Task.ID != second.Task.ID || first.Score != second.Score {
		t.Fatalf("recommendation changed between calls: %+v vs %+v", first, second)
	}
}

package engine

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

func genTask(rt *rapid.T) Task {
	task := Task{
		Duration:   rapid.IntRange(0, 720).Draw(rt, "duration"),
		Importance: rapid.IntRange(1, 10).Draw(rt, "importance"),
		Energy:     rapid.SampledFrom([]string{EnergyLow, EnergyMedium, EnergyHigh, "unknown"}).Draw(rt, "energy"),
		Category: rapid.SampledFrom([]string{
			"creative", "analytical", "routine", "communication", "gardening",
		}).Draw(rt, "category"),
		Dependents: rapid.IntRange(0, 30).Draw(rt, "dependents"),
	}
	if rapid.Bool().Draw(rt, "has_deadline") {
		hours := rapid.IntRange(-48, 500).Draw(rt, "deadline_hours")
		d := time.Now().Add(time.Duration(hours) * time.Hour)
		task.Deadline = &d
	}
	if rapid.Bool().Draw(rt, "has_goal") {
		gid := int64(rapid.IntRange(1, 100).Draw(rt, "goal_id"))
		task.GoalID = &gid
		task.GoalWeight = rapid.Float64Range(0.1, 1.0).Draw(rt, "goal_weight")
		task.Contribution = rapid.Float64Range(0, 1).Draw(rt, "contribution")
	}
	return task
}

func genContext(rt *rapid.T) Context {
	return Context{
		TimeOfDay: rapid.SampledFrom([]string{Morning, Afternoon, Evening, Night}).Draw(rt, "time_of_day"),
		Energy:    rapid.SampledFrom([]string{EnergyLow, EnergyMedium, EnergyHigh}).Draw(rt, "ctx_energy"),
	}
}

// Every score and every breakdown component stays inside its documented
// range, whatever the task looks like.
func TestScoreAlwaysBounded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		task := genTask(rt)
		ctx := genContext(rt)

		total, b := Score(task, ctx, time.Now())
		if total < 0 || total > 1 {
			rt.Fatalf("total %v out of [0,1]", total)
		}
		for name, v := range map[string]float64{
			"Urgency":       b.Urgency,
			"Importance":    b.Importance,
			"GoalAlignment": b.GoalAlignment,
			"ContextMatch":  b.ContextMatch,
			"TimeCost":      b.TimeCost,
		} {
			if v < 0 || v > 1 {
				rt.Fatalf("%s = %v out of [0,1]", name, v)
			}
		}
		if b.DependencyBonus < 0 || b.DependencyBonus > 0.5 {
			rt.Fatalf("DependencyBonus = %v out of [0,0.5]", b.DependencyBonus)
		}
	})
}

// Rescaling never escapes the 1-5 band and matches the arithmetic mapping on
// the valid 1-10 range.
func TestRescaleImportanceAlwaysInBand(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		level := rapid.IntRange(-100, 100).Draw(rt, "level")
		got := RescaleImportance(level)
		if got < 1 || got > 5 {
			rt.Fatalf("RescaleImportance(%d) = %d out of [1,5]", level, got)
		}
		if level >= 1 && level <= 10 && got != (level+1)/2 {
			rt.Fatalf("RescaleImportance(%d) = %d, want %d", level, got, (level+1)/2)
		}
	})
}

// Raising only the importance of an otherwise identical task never lowers
// its score.
func TestScoreMonotonicInImportance(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		task := genTask(rt)
		ctx := genContext(rt)
		now := time.Now()

		lo := rapid.IntRange(1, 9).Draw(rt, "lo_importance")
		hi := rapid.IntRange(lo+1, 10).Draw(rt, "hi_importance")

		task.Importance = lo
		loScore, _ := Score(task, ctx, now)
		task.Importance = hi
		hiScore, _ := Score(task, ctx, now)

		if hiScore < loScore {
			rt.Fatalf("importance %d scores %v, importance %d scores %v", lo, loScore, hi, hiScore)
		}
	})
}

// A reason is never empty.
func TestReasonNeverEmpty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		task := genTask(rt)
		ctx := genContext(rt)
		_, b := Score(task, ctx, time.Now())
		if Reason(b) == "" {
			rt.Fatalf("empty reason for breakdown %+v", b)
		}
	})
}

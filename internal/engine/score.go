package engine

import (
	"math"
	"time"
)

// Component weights. They must sum to exactly 1.0.
const (
	weightUrgency    = 0.35
	weightImportance = 0.25
	weightGoal       = 0.15
	weightDependency = 0.08
	weightContext    = 0.08
	weightTimeCost   = 0.09
)

// energyTable is keyed by the current declared level, then the task's
// required level.
var energyTable = map[string]map[string]float64{
	EnergyHigh:   {EnergyHigh: 1.0, EnergyMedium: 0.4, EnergyLow: 0.3},
	EnergyMedium: {EnergyHigh: 0.8, EnergyMedium: 0.8, EnergyLow: 0.5},
	EnergyLow:    {EnergyHigh: 0.3, EnergyMedium: 0.5, EnergyLow: 1.0},
}

// timeTable is keyed by time of day, then task category.
var timeTable = map[string]map[string]float64{
	Morning:   {"creative": 1.0, "analytical": 0.9, "routine": 0.7, "communication": 0.6},
	Afternoon: {"creative": 0.6, "analytical": 0.8, "routine": 1.0, "communication": 1.0},
	Evening:   {"creative": 0.3, "analytical": 0.5, "routine": 0.9, "communication": 0.8},
	Night:     {"creative": 0.1, "analytical": 0.2, "routine": 0.6, "communication": 0.4},
}

// Breakdown holds the six score components, each rounded to 3 decimals.
type Breakdown struct {
	Urgency         float64
	Importance      float64
	GoalAlignment   float64
	DependencyBonus float64
	ContextMatch    float64
	TimeCost        float64
}

// RescaleImportance maps the caller-facing 1-10 scale onto the 1-5 band the
// scorer works in: 1-2 -> 1, 3-4 -> 2, 5-6 -> 3, 7-8 -> 4, 9-10 -> 5.
func RescaleImportance(level int) int {
	r := (level + 1) / 2
	if r < 1 {
		return 1
	}
	if r > 5 {
		return 5
	}
	return r
}

// urgency ramps superlinearly as a deadline nears. The 0.1-hour floor keeps
// past-due deadlines from dividing by zero. No deadline is a flat 0.3.
func urgency(t Task, now time.Time) float64 {
	if t.Deadline == nil {
		return 0.3
	}
	hoursLeft := math.Max(0.1, t.Deadline.Sub(now).Hours())
	return math.Min(1.0, 1/math.Pow(hoursLeft, 0.7))
}

func importance(t Task) float64 {
	return float64(RescaleImportance(t.Importance)) / 5.0
}

// goalAlignment is zero for unbound tasks; otherwise the goal's base weight
// times the task's contribution, capped at 1.
func goalAlignment(t Task) float64 {
	if t.GoalID == nil {
		return 0
	}
	return math.Min(1.0, t.GoalWeight*t.Contribution)
}

func dependencyBonus(dependents int) float64 {
	return math.Min(0.5, math.Log(1+float64(dependents))*0.3)
}

// contextMatch blends the energy-fit and time-of-day-fit signals with a
// neutral 1.0 baseline. Unmapped keys fall back to 0.5 instead of failing.
func contextMatch(t Task, ctx Context) float64 {
	em := lookupOr(energyTable[ctx.Energy], t.Energy, 0.5)
	tm := lookupOr(timeTable[ctx.TimeOfDay], t.Category, 0.5)
	return (em + tm + 1.0) / 3.0
}

func lookupOr(row map[string]float64, key string, fallback float64) float64 {
	if v, ok := row[key]; ok {
		return v
	}
	return fallback
}

// timeCost rewards longer tasks: big wins score higher on this axis.
func timeCost(t Task) float64 {
	return math.Min(1.0, float64(t.Duration)/240.0)
}

// Score computes the weighted priority of a task in the given context. The
// total and every breakdown component are rounded to 3 decimal places.
func Score(t Task, ctx Context, now time.Time) (float64, Breakdown) {
	u := urgency(t, now)
	imp := importance(t)
	g := goalAlignment(t)
	d := dependencyBonus(t.Dependents)
	c := contextMatch(t, ctx)
	tc := timeCost(t)

	total := weightUrgency*u + weightImportance*imp + weightGoal*g +
		weightDependency*d + weightContext*c + weightTimeCost*tc

	return round3(total), Breakdown{
		Urgency:         round3(u),
		Importance:      round3(imp),
		GoalAlignment:   round3(g),
		DependencyBonus: round3(d),
		ContextMatch:    round3(c),
		TimeCost:        round3(tc),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

package engine

import (
	"strings"
	"time"
)

// Time-of-day bands.
const (
	Morning   = "morning"
	Afternoon = "afternoon"
	Evening   = "evening"
	Night     = "night"
)

// Energy levels, both for declarations and task requirements.
const (
	EnergyLow    = "low"
	EnergyMedium = "medium"
	EnergyHigh   = "high"
)

// Context is the temporal/energy snapshot scoring runs against.
type Context struct {
	TimeOfDay string
	Energy    string
	Day       string // lowercase weekday name, the schedule lookup key
}

// TimeOfDay buckets an hour of day: [5,12) morning, [12,17) afternoon,
// [17,22) evening, everything else night.
func TimeOfDay(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 22:
		return Evening
	default:
		return Night
	}
}

// ResolveContext derives the current context. A missing energy declaration
// defaults to medium.
func (e *Engine) ResolveContext(now time.Time) (Context, error) {
	level, err := e.repo.LatestEnergyLevel()
	if err != nil {
		return Context{}, err
	}
	if level == "" {
		level = EnergyMedium
	}
	return Context{
		TimeOfDay: TimeOfDay(now.Hour()),
		Energy:    level,
		Day:       strings.ToLower(now.Weekday().String()),
	}, nil
}

// IsWorkingTime reports whether now falls inside the scheduled working hours
// for ctx.Day, inclusive on both ends. A missing schedule row or unparsable
// times mean "not working": the gate fails closed.
func (e *Engine) IsWorkingTime(ctx Context, now time.Time) (bool, error) {
	startStr, endStr, ok, err := e.repo.ScheduleFor(ctx.Day)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	start, err := time.Parse("15:04", startStr)
	if err != nil {
		return false, nil
	}
	end, err := time.Parse("15:04", endStr)
	if err != nil {
		return false, nil
	}

	cur := now.Hour()*3600 + now.Minute()*60 + now.Second()
	lo := start.Hour()*3600 + start.Minute()*60
	hi := end.Hour()*3600 + end.Minute()*60
	return lo <= cur && cur <= hi, nil
}

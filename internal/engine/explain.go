package engine

import (
	"fmt"
	"math"
	"strings"
)

// Reason renders a short justification from a score breakdown. Satisfied
// clauses are appended in fixed order; when none fires the score is simply
// balanced. The dependents count is recovered by inverting the log bonus.
func Reason(b Breakdown) string {
	var parts []string
	if b.Urgency > 0.6 {
		parts = append(parts, "deadline pressure")
	}
	if b.Importance > 0.8 {
		parts = append(parts, "high importance")
	}
	if b.GoalAlignment > 0.6 {
		parts = append(parts, "progresses a goal")
	}
	if b.DependencyBonus > 0.2 {
		n := int(math.Round(math.Exp(b.DependencyBonus/0.3) - 1))
		parts = append(parts, fmt.Sprintf("unblocks %d other tasks", n))
	}
	if b.ContextMatch > 0.7 {
		parts = append(parts, "fits current time/energy")
	}
	if b.TimeCost < 0.2 {
		parts = append(parts, "quick win")
	}
	if len(parts) == 0 {
		return "balanced across factors"
	}
	return strings.Join(parts, ", ")
}

package evaluator

import (
	"math"

	"github.com/interviewlab/backend/internal/domain/interview"
)

// Clamp forces a criterion value into [0,100]. The model occasionally
// returns values outside the requested range.
func Clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// Overall computes the weighted overall score for a set of criterion
// scores, rounded half up to an integer. Values are clamped before
// weighting; weights are trusted because the tables are validated at
// startup. Pure: identical input always yields identical output.
func Overall(criteria []interview.CriterionScore) int {
	sum := 0.0
	for _, c := range criteria {
		sum += Clamp(c.Value) * c.Weight
	}
	return int(math.Floor(sum + 0.5))
}

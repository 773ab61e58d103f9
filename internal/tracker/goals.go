package tracker

import (
	"errors"
	"math"
	"strings"
)

// ErrMissingWeights is returned when current or target weight is unset.
var ErrMissingWeights = errors.New("current and target weight are required")

// minCarbGoal is the floor applied to the derived carbohydrate goal.
const minCarbGoal = 30

// ActivityLevels maps named activity levels to their multiplier. Settings
// store the raw factor; the names are accepted as input shorthand.
var ActivityLevels = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// Profile is the body data the goals are derived from.
type Profile struct {
	CurrentWeight float64 `json:"current_weight"`
	TargetWeight  float64 `json:"target_weight"`
	Height        float64 `json:"height"`
	Age           float64 `json:"age"`
	Gender        string  `json:"gender"`
	Activity      float64 `json:"activity"`
	ProteinPerKg  float64 `json:"protein_per_kg"`
}

// CalculateGoals derives daily targets from p. The base rate is
// Mifflin-St Jeor evaluated at the target weight, not the current one.
// Protein and fat scale with current weight; carbs fill the remaining
// calories and never drop below minCarbGoal.
func CalculateGoals(p Profile) (Goals, error) {
	if p.TargetWeight <= 0 || p.CurrentWeight <= 0 {
		return Goals{}, ErrMissingWeights
	}

	base := 10*p.TargetWeight + 6.25*p.Height - 5*p.Age
	if strings.EqualFold(strings.TrimSpace(p.Gender), "male") {
		base += 5
	} else {
		base -= 161
	}

	kcal := int(math.Round(base * p.Activity))
	protein := int(math.Round(p.CurrentWeight * p.ProteinPerKg))
	fat := int(math.Round(p.CurrentWeight * 1.0))
	carbs := int(math.Round(float64(kcal-protein*4-fat*9) / 4))
	if carbs < minCarbGoal {
		carbs = minCarbGoal
	}

	return Goals{Kcal: kcal, Protein: protein, Fat: fat, Carbs: carbs}, nil
}

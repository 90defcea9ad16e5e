package scoring

import (
	"time"

	"github.com/sprintflow/scoring/internal/athlete"
)

const defaultAge = 25

// AgeOf returns the athlete's age at now, or the default when the birth
// date is unknown.
func AgeOf(profile *athlete.Profile, now time.Time) int {
	if age, ok := profile.Age(now); ok {
		return age
	}
	return defaultAge
}

// PerformanceAgeModifier favours juniors under 20 and discounts over 30.
func PerformanceAgeModifier(age int) float64 {
	switch {
	case age < 20:
		return 1.05
	case age > 30:
		return 0.95
	default:
		return 1.0
	}
}

// RecoveryAgeModifier uses the form index breakpoints, 25 and 30.
func RecoveryAgeModifier(age int) float64 {
	switch {
	case age < 25:
		return 1.05
	case age > 30:
		return 0.95
	default:
		return 1.0
	}
}

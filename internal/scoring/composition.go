package scoring

import (
	"math"

	"github.com/sprintflow/scoring/internal/athlete"
)

// CompositionMethod tags how the body-composition score was obtained.
type CompositionMethod string

const (
	MethodMeasured      CompositionMethod = "mesure"
	MethodCircumference CompositionMethod = "circonference"
	MethodBMI           CompositionMethod = "imc"
	MethodDefault       CompositionMethod = "defaut"
)

const neutralScore = 50

type CompositionScore struct {
	Score      int               `json:"score"`
	Method     CompositionMethod `json:"methode"`
	BodyFatPct *float64          `json:"masse_grasse_pct,omitempty"`
	BMI        *float64          `json:"imc,omitempty"`
}

// Measured reports whether a direct body-fat reading drove the score.
func (c CompositionScore) Measured() bool {
	return c.Method == MethodMeasured
}

// BodyFatScore maps a body-fat percentage to 0-100. Below 6% is treated
// as a flag of its own and scores neutral.
func BodyFatScore(pct float64) int {
	switch {
	case pct < 6:
		return 50
	case pct <= 10:
		return 100
	case pct <= 12:
		return 95
	case pct <= 14:
		return 85
	case pct <= 16:
		return 70
	case pct <= 18:
		return 55
	case pct <= 20:
		return 40
	default:
		return 25
	}
}

// BMIScore is the lower-confidence table used when only height and weight
// are known; it peaks on 20-23.
func BMIScore(bmi float64) int {
	switch {
	case bmi < 18.5:
		return 45
	case bmi < 19:
		return 65
	case bmi < 20:
		return 75
	case bmi <= 23:
		return 85
	case bmi <= 24:
		return 75
	case bmi <= 25:
		return 65
	case bmi <= 27:
		return 50
	default:
		return 35
	}
}

func BMI(weightKg, heightCm float64) (float64, bool) {
	if !isPositive(weightKg) || !isPositive(heightCm) {
		return 0, false
	}
	m := heightCm / 100
	return weightKg / (m * m), true
}

// NavyBodyFat estimates body fat from circumferences in cm. Women need the
// hip measurement as well.
func NavyBodyFat(sex athlete.Sex, heightCm, waistCm, neckCm float64, hipCm *float64) (float64, bool) {
	if !isPositive(heightCm) || !isPositive(waistCm) || !isPositive(neckCm) {
		return 0, false
	}

	var bf float64
	switch sex {
	case athlete.SexFemale:
		if hipCm == nil || !isPositive(*hipCm) {
			return 0, false
		}
		girth := waistCm + *hipCm - neckCm
		if girth <= 0 {
			return 0, false
		}
		bf = 495/(1.29579-0.35004*math.Log10(girth)+0.22100*math.Log10(heightCm)) - 450
	default:
		girth := waistCm - neckCm
		if girth <= 0 {
			return 0, false
		}
		bf = 495/(1.0324-0.19077*math.Log10(girth)+0.15456*math.Log10(heightCm)) - 450
	}

	if !isPositive(bf) {
		return 0, false
	}
	return round1(bf), true
}

// BMIBodyFat is the Deurenberg estimate from BMI, age and sex.
func BMIBodyFat(bmi float64, age int, sex athlete.Sex) float64 {
	male := 0.0
	if sex != athlete.SexFemale {
		male = 1
	}
	return round1(1.20*bmi + 0.23*float64(age) - 10.8*male - 5.4)
}

// ScoreComposition follows the performance index chain: direct body fat,
// then the BMI table, then neutral.
func ScoreComposition(latest *athlete.BodyComposition, heightCm *float64) CompositionScore {
	if latest != nil {
		if bf, ok := positive(latest.BodyFatPct); ok {
			return CompositionScore{Score: BodyFatScore(bf), Method: MethodMeasured, BodyFatPct: &bf}
		}
		if w, ok := positive(latest.WeightKg); ok {
			if h, ok := positive(heightCm); ok {
				bmi, _ := BMI(w, h)
				bmi = round1(bmi)
				return CompositionScore{Score: BMIScore(bmi), Method: MethodBMI, BMI: &bmi}
			}
		}
	}
	return CompositionScore{Score: neutralScore, Method: MethodDefault}
}

// ScoreCompositionEstimated follows the weight/power chain: direct body
// fat, then Navy circumferences, then a BMI-based estimate, all scored with
// the body-fat table.
func ScoreCompositionEstimated(latest *athlete.BodyComposition, profile *athlete.Profile, age int) CompositionScore {
	if latest == nil {
		return CompositionScore{Score: neutralScore, Method: MethodDefault}
	}
	if bf, ok := positive(latest.BodyFatPct); ok {
		return CompositionScore{Score: BodyFatScore(bf), Method: MethodMeasured, BodyFatPct: &bf}
	}
	if profile == nil {
		return CompositionScore{Score: neutralScore, Method: MethodDefault}
	}

	height, hasHeight := positive(profile.HeightCm)
	if hasHeight {
		waist, okWaist := positive(profile.WaistCm)
		neck, okNeck := positive(profile.NeckCm)
		if okWaist && okNeck {
			if bf, ok := NavyBodyFat(profile.Sex, height, waist, neck, profile.HipCm); ok {
				return CompositionScore{Score: BodyFatScore(bf), Method: MethodCircumference, BodyFatPct: &bf}
			}
		}
	}

	if w, ok := positive(latest.WeightKg); ok && hasHeight {
		bmi, _ := BMI(w, height)
		bf := BMIBodyFat(bmi, age, profile.Sex)
		if isPositive(bf) {
			bmi = round1(bmi)
			return CompositionScore{Score: BodyFatScore(bf), Method: MethodBMI, BodyFatPct: &bf, BMI: &bmi}
		}
	}

	return CompositionScore{Score: neutralScore, Method: MethodDefault}
}

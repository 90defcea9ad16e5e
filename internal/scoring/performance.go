package scoring

import (
	"errors"
	"time"

	"github.com/sprintflow/scoring/internal/athlete"
)

// ErrMissingData is returned when no usable bodyweight exists; handlers
// answer it with the DONNEES_MANQUANTES sentinel instead of an error.
var ErrMissingData = errors.New("missing body composition data")

const MissingDataMessage = "DONNEES_MANQUANTES"

type Cause string

const (
	CauseBodyComposition Cause = "COMP_CORP"
	CauseForce           Cause = "FORCE"
	CauseSleep           Cause = "SOMMEIL"
	CauseHardSession     Cause = "SEANCE_DURE"
	CauseLoad            Cause = "CHARGE"
	CauseStress          Cause = "STRESS"
	CauseMuscleFatigue   Cause = "FATIGUE_MUSCULAIRE"
	CauseGeneral         Cause = "GENERAL"
)

type Rating string

const (
	RatingLow    Rating = "faible"
	RatingMedium Rating = "moyen"
	RatingHigh   Rating = "eleve"
)

type Mode string

const (
	ModeExpert      Mode = "expert"
	ModeStandard    Mode = "standard"
	ModeScore       Mode = "score"
	ModeCalibration Mode = "calibration"
)

// bodyFatCauseThreshold is the measured body fat above which a low index
// is attributed to body composition.
const bodyFatCauseThreshold = 16

type PerformanceInput struct {
	Profile *athlete.Profile
	// Compositions are ordered most recent first.
	Compositions []athlete.BodyComposition
	Records      []athlete.ExerciseRecord
	Catalog      *Catalog
	Now          time.Time
}

type PerformanceResult struct {
	Score             int               `json:"score"`
	Mode              Mode              `json:"mode"`
	Age               int               `json:"age"`
	AgeModifier       float64           `json:"modificateur_age"`
	CompositionScore  int               `json:"score_composition"`
	ForceScore        int               `json:"score_force"`
	CompositionMethod CompositionMethod `json:"methode_composition"`
	Rating            Rating            `json:"niveau"`
	Message           string            `json:"message"`
	Cause             Cause             `json:"cause,omitempty"`
	WeightKg          float64           `json:"poids_kg"`
	BodyFatPct        *float64          `json:"masse_grasse_pct,omitempty"`
	Details           []ExerciseScore   `json:"details"`
	BestRatio         *BestRatio        `json:"meilleur_ratio,omitempty"`
}

// LatestWeight returns the most recent sample and its weight. A latest
// sample without a usable weight counts as missing data.
func LatestWeight(compositions []athlete.BodyComposition) (*athlete.BodyComposition, float64, bool) {
	if len(compositions) == 0 {
		return nil, 0, false
	}
	w, ok := positive(compositions[0].WeightKg)
	if !ok {
		return nil, 0, false
	}
	return &compositions[0], w, true
}

// ComposePerformance is the weighted blend of both sub-scores, scaled by
// the age modifier and clamped to 0-100.
func ComposePerformance(composition, force int, ageModifier float64) int {
	return roundScore((float64(composition)*0.35 + float64(force)*0.65) * ageModifier)
}

func ComputePerformance(in PerformanceInput) (*PerformanceResult, error) {
	latest, weight, ok := LatestWeight(in.Compositions)
	if !ok {
		return nil, ErrMissingData
	}
	catalog := in.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	var height *float64
	if in.Profile != nil {
		height = in.Profile.HeightCm
	}
	compo := ScoreComposition(latest, height)

	details := ScoreExercises(in.Records, catalog, weight)
	force := MeanStrength(details)

	age := AgeOf(in.Profile, in.Now)
	modifier := PerformanceAgeModifier(age)
	score := ComposePerformance(compo.Score, force, modifier)

	var cause Cause
	switch {
	case compo.Measured() && compo.BodyFatPct != nil && *compo.BodyFatPct > bodyFatCauseThreshold:
		cause = CauseBodyComposition
	case force < 50:
		cause = CauseForce
	}

	mode := ModeStandard
	if compo.Measured() {
		mode = ModeExpert
	}

	rating, message := classify(score, 55, 85, cause)
	return &PerformanceResult{
		Score:             score,
		Mode:              mode,
		Age:               age,
		AgeModifier:       modifier,
		CompositionScore:  compo.Score,
		ForceScore:        force,
		CompositionMethod: compo.Method,
		Rating:            rating,
		Message:           message,
		Cause:             cause,
		WeightKg:          weight,
		BodyFatPct:        compo.BodyFatPct,
		Details:           details,
		BestRatio:         bestRatio(details),
	}, nil
}

// classify rates score against the low/high bounds. A low rating carries
// its cause as a message suffix.
func classify(score, low, high int, cause Cause) (Rating, string) {
	switch {
	case score < low:
		if cause != "" {
			return RatingLow, string(RatingLow) + "_" + string(cause)
		}
		return RatingLow, string(RatingLow)
	case score >= high:
		return RatingHigh, string(RatingHigh)
	default:
		return RatingMedium, string(RatingMedium)
	}
}

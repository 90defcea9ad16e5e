package scoring

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrInvalidReadiness = errors.New("invalid readiness input")

const clockLayout = "15:04"

// ReadinessInput is the raw daily check-in. Sleep feeling is rated 0-100,
// stress and muscle fatigue 0-10.
type ReadinessInput struct {
	Bedtime       string   `json:"heure_coucher"`
	WakeTime      string   `json:"heure_lever"`
	SleepFeeling  *float64 `json:"ressenti_sommeil"`
	Stress        *float64 `json:"stress_level"`
	MuscleFatigue *float64 `json:"muscle_fatigue"`
}

type ReadinessResult struct {
	Mode               Mode    `json:"mode"`
	Score              int     `json:"score"`
	SleepHours         float64 `json:"duree_sommeil_h"`
	SleepDurationScore int     `json:"score_duree_sommeil"`
	SleepFeeling       float64 `json:"ressenti_sommeil"`
	Stress             float64 `json:"stress_level"`
	MuscleFatigue      float64 `json:"muscle_fatigue"`
	Rating             Rating  `json:"niveau"`
	Message            string  `json:"message"`
	Cause              Cause   `json:"cause,omitempty"`
}

// SleepHours measures bedtime to wake time; a wake time not after the
// bedtime is taken to be on the next day.
func SleepHours(bedtime, wake string) (float64, error) {
	bed, err := time.Parse(clockLayout, bedtime)
	if err != nil {
		return 0, fmt.Errorf("%w: heure_coucher %q", ErrInvalidReadiness, bedtime)
	}
	up, err := time.Parse(clockLayout, wake)
	if err != nil {
		return 0, fmt.Errorf("%w: heure_lever %q", ErrInvalidReadiness, wake)
	}
	if !up.After(bed) {
		up = up.Add(24 * time.Hour)
	}
	return up.Sub(bed).Hours(), nil
}

func requireRange(name string, v *float64, lo, hi float64) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidReadiness, name)
	}
	if math.IsNaN(*v) || *v < lo || *v > hi {
		return 0, fmt.Errorf("%w: %s must be within [%g, %g]", ErrInvalidReadiness, name, lo, hi)
	}
	return *v, nil
}

func ComputeReadiness(in ReadinessInput) (*ReadinessResult, error) {
	hours, err := SleepHours(in.Bedtime, in.WakeTime)
	if err != nil {
		return nil, err
	}
	feeling, err := requireRange("ressenti_sommeil", in.SleepFeeling, 0, 100)
	if err != nil {
		return nil, err
	}
	stress, err := requireRange("stress_level", in.Stress, 0, 10)
	if err != nil {
		return nil, err
	}
	fatigue, err := requireRange("muscle_fatigue", in.MuscleFatigue, 0, 10)
	if err != nil {
		return nil, err
	}

	durationScore := SleepDurationScore(hours)
	score := roundScore(
		float64(durationScore)*0.35 +
			feeling*0.25 +
			(10-stress)*10*0.2 +
			(10-fatigue)*10*0.2,
	)

	var cause Cause
	if score < 50 {
		switch {
		case durationScore < 50 || feeling < 50:
			cause = CauseSleep
		case stress >= 7:
			cause = CauseStress
		case fatigue >= 7:
			cause = CauseMuscleFatigue
		default:
			cause = CauseGeneral
		}
	}
	rating, message := classify(score, 50, 80, cause)

	return &ReadinessResult{
		Mode:               ModeScore,
		Score:              score,
		SleepHours:         round2(hours),
		SleepDurationScore: durationScore,
		SleepFeeling:       feeling,
		Stress:             stress,
		MuscleFatigue:      fatigue,
		Rating:             rating,
		Message:            message,
		Cause:              cause,
	}, nil
}

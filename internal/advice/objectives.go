package advice

import (
	"math"

	"github.com/sprintflow/scoring/internal/athlete"
	"github.com/sprintflow/scoring/internal/scoring"
)

// Objective is the next proficiency threshold of an exercise, expressed
// as an absolute value for the athlete's current bodyweight.
type Objective struct {
	Exercise     string        `json:"exercice"`
	ReferenceID  string        `json:"reference_id"`
	CurrentLevel scoring.Level `json:"niveau_actuel"`
	TargetLevel  scoring.Level `json:"niveau_cible"`
	CurrentRatio float64       `json:"ratio_actuel"`
	TargetRatio  float64       `json:"ratio_cible"`
	CurrentValue float64       `json:"valeur_actuelle"`
	TargetValue  float64       `json:"objectif"`
	TargetKg     *float64      `json:"objectif_kg,omitempty"`
	Gap          float64       `json:"ecart"`
	Unit         athlete.Unit  `json:"unite"`
}

// roundHalf rounds to the nearest 0.5, the smallest plate increment.
func roundHalf(v float64) float64 {
	return math.Round(v*2) / 2
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ObjectiveFor picks the next threshold above the current ratio: advanced
// below it, elite below that. The ratio is recomputed from the raw value
// since the detail ratio and score are rounded. Elite lifts have no
// objective left.
func ObjectiveFor(detail scoring.ExerciseScore, ref athlete.ReferenceExercise, bodyweightKg float64) (Objective, bool) {
	if detail.Score >= 100 {
		return Objective{}, false
	}
	if detail.Relative && bodyweightKg <= 0 {
		return Objective{}, false
	}

	ratio := detail.Value
	if detail.Relative {
		ratio = detail.Value / bodyweightKg
	}

	var (
		targetLevel scoring.Level
		targetRatio float64
	)
	switch {
	case ratio < ref.Advanced:
		targetLevel, targetRatio = scoring.LevelAdvanced, ref.Advanced
	case ratio < ref.Elite:
		targetLevel, targetRatio = scoring.LevelElite, ref.Elite
	default:
		return Objective{}, false
	}
	if targetRatio <= 0 {
		return Objective{}, false
	}

	o := Objective{
		Exercise:     detail.Exercise,
		ReferenceID:  detail.ReferenceID,
		CurrentLevel: detail.Level,
		TargetLevel:  targetLevel,
		CurrentRatio: detail.Ratio,
		TargetRatio:  targetRatio,
		CurrentValue: detail.Value,
		Unit:         detail.Unit,
	}

	if detail.Relative {
		target := roundHalf(targetRatio * bodyweightKg)
		o.TargetValue = target
		o.TargetKg = &target
	} else {
		o.TargetValue = targetRatio
	}
	o.Gap = round1(math.Max(0, o.TargetValue-detail.Value))
	return o, true
}

// Objectives lists the objectives of every scored exercise, in the order
// of the details.
func Objectives(details []scoring.ExerciseScore, catalog *scoring.Catalog, bodyweightKg float64) []Objective {
	if catalog == nil {
		catalog = scoring.DefaultCatalog()
	}
	var objectives []Objective
	for _, d := range details {
		ref, ok := catalog.ByID(d.ReferenceID)
		if !ok {
			if ref, ok = catalog.MatchName(d.Exercise); !ok {
				continue
			}
		}
		if o, ok := ObjectiveFor(d, ref, bodyweightKg); ok {
			objectives = append(objectives, o)
		}
	}
	return objectives
}

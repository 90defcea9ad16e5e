package scoring

import (
	"time"

	"github.com/sprintflow/scoring/internal/athlete"
)

// DisciplineWeights gives every strength category its weight in the force
// sub-score of the weight/power index.
var DisciplineWeights = map[athlete.Discipline]map[athlete.Category]float64{
	athlete.DisciplineSprint: {
		athlete.CategoryWeightlifting: 0.35,
		athlete.CategoryLowerBody:     0.35,
		athlete.CategoryUpperBody:     0.05,
		athlete.CategoryUnilateral:    0.10,
		athlete.CategoryPlyometric:    0.15,
	},
	athlete.DisciplineJumps: {
		athlete.CategoryWeightlifting: 0.25,
		athlete.CategoryLowerBody:     0.20,
		athlete.CategoryUpperBody:     0.05,
		athlete.CategoryUnilateral:    0.10,
		athlete.CategoryPlyometric:    0.40,
	},
	athlete.DisciplineThrows: {
		athlete.CategoryWeightlifting: 0.30,
		athlete.CategoryLowerBody:     0.25,
		athlete.CategoryUpperBody:     0.35,
		athlete.CategoryUnilateral:    0.05,
		athlete.CategoryPlyometric:    0.05,
	},
	athlete.DisciplineMiddleDistance: {
		athlete.CategoryWeightlifting: 0.10,
		athlete.CategoryLowerBody:     0.25,
		athlete.CategoryUpperBody:     0.10,
		athlete.CategoryUnilateral:    0.35,
		athlete.CategoryPlyometric:    0.20,
	},
	athlete.DisciplineNone: {
		athlete.CategoryWeightlifting: 0.2,
		athlete.CategoryLowerBody:     0.2,
		athlete.CategoryUpperBody:     0.2,
		athlete.CategoryUnilateral:    0.2,
		athlete.CategoryPlyometric:    0.2,
	},
}

func weightsFor(d athlete.Discipline) map[athlete.Category]float64 {
	if w, ok := DisciplineWeights[d]; ok {
		return w
	}
	return DisciplineWeights[athlete.DisciplineNone]
}

// WeightedForce combines category scores with the discipline weights,
// normalized by the weights of the categories actually scored.
func WeightedForce(categoryScores map[athlete.Category]int, discipline athlete.Discipline) int {
	weights := weightsFor(discipline)
	var sum, total float64
	for _, category := range athlete.AllCategories {
		score, scored := categoryScores[category]
		w := weights[category]
		if !scored || w <= 0 {
			continue
		}
		sum += float64(score) * w
		total += w
	}
	if total == 0 {
		return neutralScore
	}
	return roundScore(sum / total)
}

// ComposePower deliberately splits 0.4/0.6, unlike the performance index.
func ComposePower(composition, force int) int {
	return roundScore(float64(composition)*0.4 + float64(force)*0.6)
}

type PowerInput struct {
	Profile *athlete.Profile
	// Compositions are ordered most recent first.
	Compositions []athlete.BodyComposition
	Records      []athlete.ExerciseRecord
	Catalog      *Catalog
	Now          time.Time
}

type PowerContext struct {
	WeightKg   float64            `json:"poids_kg"`
	BodyFatPct *float64           `json:"masse_grasse_pct,omitempty"`
	Method     CompositionMethod  `json:"methode"`
	Discipline athlete.Discipline `json:"discipline"`
	Age        int                `json:"age"`
}

type PowerResult struct {
	Index            int                      `json:"indice"`
	CompositionScore int                      `json:"scoreCompo"`
	ForceScore       int                      `json:"scoreForce"`
	CategoryScores   map[athlete.Category]int `json:"categorieScores"`
	Context          PowerContext             `json:"contexte"`
	Details          []ExerciseScore          `json:"details"`
}

func ComputePower(in PowerInput) (*PowerResult, error) {
	latest, weight, ok := LatestWeight(in.Compositions)
	if !ok {
		return nil, ErrMissingData
	}
	catalog := in.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	age := AgeOf(in.Profile, in.Now)
	compo := ScoreCompositionEstimated(latest, in.Profile, age)

	discipline := athlete.DisciplineNone
	if in.Profile != nil {
		discipline = in.Profile.Discipline
	}

	details := ScoreExercises(in.Records, catalog, weight)
	categories := CategoryStrengths(details)
	force := WeightedForce(categories, discipline)

	return &PowerResult{
		Index:            ComposePower(compo.Score, force),
		CompositionScore: compo.Score,
		ForceScore:       force,
		CategoryScores:   categories,
		Context: PowerContext{
			WeightKg:   weight,
			BodyFatPct: compo.BodyFatPct,
			Method:     compo.Method,
			Discipline: discipline,
			Age:        age,
		},
		Details: details,
	}, nil
}

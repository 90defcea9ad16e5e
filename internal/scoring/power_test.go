package scoring

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/sprintflow/scoring/internal/athlete"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisciplineWeights_SumToOne(t *testing.T) {
	for discipline, weights := range DisciplineWeights {
		var sum float64
		for _, c := range athlete.AllCategories {
			sum += weights[c]
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "discipline %q", discipline)
	}
}

func TestWeightedForce(t *testing.T) {
	scores := map[athlete.Category]int{
		athlete.CategoryWeightlifting: 80,
		athlete.CategoryLowerBody:     60,
	}
	assert.Equal(t, 70, WeightedForce(scores, athlete.DisciplineSprint))

	// jumps weigh weightlifting 0.25 against lower body 0.20
	assert.Equal(t, 71, WeightedForce(scores, athlete.DisciplineJumps))

	assert.Equal(t, 50, WeightedForce(nil, athlete.DisciplineSprint))
	assert.Equal(t, 70, WeightedForce(scores, athlete.Discipline("unknown")))
}

func TestWeightedForce_ExcludesMissingCategories(t *testing.T) {
	faker := gofakeit.New(3)
	disciplines := []athlete.Discipline{
		athlete.DisciplineSprint, athlete.DisciplineJumps, athlete.DisciplineThrows,
		athlete.DisciplineMiddleDistance, athlete.DisciplineNone,
	}
	for i := 0; i < 500; i++ {
		score := faker.Number(0, 100)
		category := athlete.AllCategories[faker.Number(0, len(athlete.AllCategories)-1)]
		discipline := disciplines[faker.Number(0, len(disciplines)-1)]

		// a single scored category is the whole force score
		got := WeightedForce(map[athlete.Category]int{category: score}, discipline)
		require.Equal(t, score, got)
	}
}

func TestComposePower(t *testing.T) {
	assert.Equal(t, 75, ComposePower(85, 68))
	assert.Equal(t, 68, ComposePower(80, 60))
	assert.NotEqual(t, ComposePerformance(80, 60, 1), ComposePower(80, 60))
}

func TestComputePower(t *testing.T) {
	in := PowerInput{
		Profile: &athlete.Profile{
			Sex:        athlete.SexMale,
			Discipline: athlete.DisciplineSprint,
			HeightCm:   f64(180),
			WaistCm:    f64(80),
			NeckCm:     f64(38),
		},
		Compositions: []athlete.BodyComposition{{WeightKg: f64(80)}},
		Records: []athlete.ExerciseRecord{
			record("Power clean", 80, athlete.UnitKg),
			record("Squat", 160, athlete.UnitKg),
		},
		Now: time.Now(),
	}

	res, err := ComputePower(in)
	require.NoError(t, err)
	assert.Equal(t, MethodCircumference, res.Context.Method)
	assert.Equal(t, athlete.DisciplineSprint, res.Context.Discipline)
	assert.Equal(t, 85, res.CompositionScore)
	assert.Equal(t, map[athlete.Category]int{
		athlete.CategoryWeightlifting: 60,
		athlete.CategoryLowerBody:     75,
	}, res.CategoryScores)
	assert.Equal(t, 68, res.ForceScore)
	assert.Equal(t, 75, res.Index)
	assert.Equal(t, 80.0, res.Context.WeightKg)
	assert.Len(t, res.Details, 2)
}

func TestComputePower_MissingWeight(t *testing.T) {
	_, err := ComputePower(PowerInput{
		Compositions: []athlete.BodyComposition{{WeightKg: f64(0)}},
	})
	assert.ErrorIs(t, err, ErrMissingData)
}

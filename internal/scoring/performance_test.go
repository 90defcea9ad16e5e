package scoring

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/sprintflow/scoring/internal/athlete"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposePerformance(t *testing.T) {
	// junior, composition 80, force 60: round(67 * 1.05)
	assert.Equal(t, 70, ComposePerformance(80, 60, PerformanceAgeModifier(19)))
	assert.Equal(t, 67, ComposePerformance(80, 60, PerformanceAgeModifier(25)))
	assert.Equal(t, 64, ComposePerformance(80, 60, PerformanceAgeModifier(31)))
	assert.Equal(t, 100, ComposePerformance(100, 100, 1.05))
	assert.Equal(t, 0, ComposePerformance(0, 0, 1))
}

func TestComposePerformance_Monotonic(t *testing.T) {
	faker := gofakeit.New(11)
	modifiers := []float64{0.95, 1.0, 1.05}
	for i := 0; i < 1000; i++ {
		compo := faker.Number(0, 99)
		force := faker.Number(0, 99)
		m := modifiers[i%len(modifiers)]

		base := ComposePerformance(compo, force, m)
		require.LessOrEqual(t, base, ComposePerformance(compo+1, force, m))
		require.LessOrEqual(t, base, ComposePerformance(compo, force+1, m))
	}
}

func TestAgeModifiers(t *testing.T) {
	assert.Equal(t, 1.05, PerformanceAgeModifier(19))
	assert.Equal(t, 1.0, PerformanceAgeModifier(20))
	assert.Equal(t, 1.0, PerformanceAgeModifier(30))
	assert.Equal(t, 0.95, PerformanceAgeModifier(31))

	assert.Equal(t, 1.05, RecoveryAgeModifier(24))
	assert.Equal(t, 1.0, RecoveryAgeModifier(25))
	assert.Equal(t, 0.95, RecoveryAgeModifier(31))

	now := date(2024, time.July, 1)
	assert.Equal(t, 25, AgeOf(nil, now))
	birth := date(2005, time.June, 15)
	assert.Equal(t, 19, AgeOf(&athlete.Profile{BirthDate: &birth}, now))
}

func TestComputePerformance_ExpertJunior(t *testing.T) {
	birth := date(2005, time.June, 15)
	in := PerformanceInput{
		Profile: &athlete.Profile{BirthDate: &birth, HeightCm: f64(180)},
		Compositions: []athlete.BodyComposition{
			{Date: date(2024, time.June, 30), WeightKg: f64(80), BodyFatPct: f64(9)},
			{Date: date(2024, time.June, 1), WeightKg: f64(82), BodyFatPct: f64(14)},
		},
		Records: []athlete.ExerciseRecord{
			record("Bench press", 104, athlete.UnitKg),
		},
		Now: date(2024, time.July, 1),
	}

	res, err := ComputePerformance(in)
	require.NoError(t, err)
	assert.Equal(t, 100, res.CompositionScore)
	assert.Equal(t, 75, res.ForceScore)
	assert.Equal(t, 19, res.Age)
	assert.Equal(t, 1.05, res.AgeModifier)
	assert.Equal(t, 88, res.Score)
	assert.Equal(t, ModeExpert, res.Mode)
	assert.Equal(t, RatingHigh, res.Rating)
	assert.Equal(t, "eleve", res.Message)
	assert.Empty(t, res.Cause)
	assert.Equal(t, 80.0, res.WeightKg)
	require.Len(t, res.Details, 1)
	require.NotNil(t, res.BestRatio)
	assert.Equal(t, 1.3, res.BestRatio.Ratio)
}

func TestComputePerformance_LowCauses(t *testing.T) {
	t.Run("body composition", func(t *testing.T) {
		res, err := ComputePerformance(PerformanceInput{
			Compositions: []athlete.BodyComposition{{WeightKg: f64(90), BodyFatPct: f64(22)}},
			Now:          time.Now(),
		})
		require.NoError(t, err)
		assert.Equal(t, 25, res.CompositionScore)
		assert.Equal(t, 50, res.ForceScore)
		assert.Equal(t, 41, res.Score)
		assert.Equal(t, CauseBodyComposition, res.Cause)
		assert.Equal(t, "faible_COMP_CORP", res.Message)
		assert.Empty(t, res.Details)
		assert.Nil(t, res.BestRatio)
	})

	t.Run("force", func(t *testing.T) {
		res, err := ComputePerformance(PerformanceInput{
			Profile:      &athlete.Profile{HeightCm: f64(180)},
			Compositions: []athlete.BodyComposition{{WeightKg: f64(80)}},
			Records:      []athlete.ExerciseRecord{record("Développé couché", 40, athlete.UnitKg)},
			Now:          time.Now(),
		})
		require.NoError(t, err)
		assert.Equal(t, MethodBMI, res.CompositionMethod)
		assert.Equal(t, ModeStandard, res.Mode)
		assert.Equal(t, 65, res.CompositionScore)
		assert.Equal(t, 25, res.ForceScore)
		assert.Equal(t, 39, res.Score)
		assert.Equal(t, CauseForce, res.Cause)
		assert.Equal(t, RatingLow, res.Rating)
		assert.Equal(t, "faible_FORCE", res.Message)
	})
}

func TestComputePerformance_MissingWeight(t *testing.T) {
	_, err := ComputePerformance(PerformanceInput{Now: time.Now()})
	assert.ErrorIs(t, err, ErrMissingData)

	_, err = ComputePerformance(PerformanceInput{
		Compositions: []athlete.BodyComposition{
			{BodyFatPct: f64(10)},
			{WeightKg: f64(80)},
		},
		Now: time.Now(),
	})
	assert.ErrorIs(t, err, ErrMissingData)
}

func TestClassify(t *testing.T) {
	rating, msg := classify(54, 55, 85, "")
	assert.Equal(t, RatingLow, rating)
	assert.Equal(t, "faible", msg)

	rating, msg = classify(55, 55, 85, CauseForce)
	assert.Equal(t, RatingMedium, rating)
	assert.Equal(t, "moyen", msg)

	rating, _ = classify(85, 55, 85, "")
	assert.Equal(t, RatingHigh, rating)
}

package scoring

import (
	"testing"

	"github.com/sprintflow/scoring/internal/athlete"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_MatchName(t *testing.T) {
	catalog := DefaultCatalog()

	cases := map[string]string{
		"Squat":              "squat",
		"back squat":         "squat",
		"Squat bulgare":      "squat_bulgare",
		"Front Squat 3RM":    "front_squat",
		"Épaulé-jeté":        "epaule_jete",
		"Clean and jerk 3RM": "epaule_jete",
		"Power clean":        "epaule",
		"Développé":          "developpe_couche",
		"  BENCH   press ":   "developpe_couche",
		"Détente verticale":  "detente_verticale",
		"Fentes marchées":    "fentes",
	}
	for name, wantID := range cases {
		ref, ok := catalog.MatchName(name)
		require.True(t, ok, name)
		assert.Equal(t, wantID, ref.ID, name)
	}

	for _, name := range []string{"100m", "", "   ", "xy"} {
		_, ok := catalog.MatchName(name)
		assert.False(t, ok, name)
	}
}

func TestCatalog_MatchPrefersReferenceID(t *testing.T) {
	catalog := DefaultCatalog()

	rec := athlete.ExerciseRecord{Exercise: "Squat", ReferenceID: str("fentes")}
	ref, ok := catalog.Match(rec)
	require.True(t, ok)
	assert.Equal(t, "fentes", ref.ID)

	// unknown ids fall back to name matching
	rec.ReferenceID = str("unknown")
	ref, ok = catalog.Match(rec)
	require.True(t, ok)
	assert.Equal(t, "squat", ref.ID)
}

func TestNewCatalog_SkipsInvalidAndDuplicateEntries(t *testing.T) {
	catalog := NewCatalog([]athlete.ReferenceExercise{
		{ID: "a", Name: "Alpha", Intermediate: 1, Advanced: 2, Elite: 3},
		{ID: "a", Name: "Alpha bis"},
		{ID: "", Name: "No id"},
		{ID: "b", Name: ""},
		{ID: "c", Name: "Gamma", Aliases: []string{"", "  g  "}},
	})

	assert.Equal(t, 2, catalog.Len())
	ref, ok := catalog.ByID("a")
	require.True(t, ok)
	assert.Equal(t, "Alpha", ref.Name)

	_, ok = catalog.MatchName("Alpha bis 5RM")
	assert.True(t, ok)

	exercises := catalog.Exercises()
	exercises[0].Name = "mutated"
	ref, _ = catalog.ByID("a")
	assert.Equal(t, "Alpha", ref.Name)
}

func TestDefaultCatalog_ThresholdsAreOrdered(t *testing.T) {
	for _, e := range DefaultCatalog().Exercises() {
		assert.Less(t, e.Intermediate, e.Advanced, e.ID)
		assert.Less(t, e.Advanced, e.Elite, e.ID)
		if e.Beginner > 0 {
			assert.Less(t, e.Beginner, e.Intermediate, e.ID)
		}
		assert.Contains(t, athlete.AllCategories, e.Category, e.ID)
	}
}

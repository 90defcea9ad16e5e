package scoring

import (
	"strings"

	"github.com/sprintflow/scoring/internal/athlete"
)

// Catalog resolves free-text exercise names to reference exercises.
// Entry order matters: the first matching entry wins, so specific names
// ("Épaulé-jeté", "Squat bulgare") are listed before generic ones.
type Catalog struct {
	exercises []athlete.ReferenceExercise
	byID      map[string]int
	names     [][]string
}

func NewCatalog(exercises []athlete.ReferenceExercise) *Catalog {
	c := &Catalog{
		exercises: make([]athlete.ReferenceExercise, 0, len(exercises)),
		byID:      make(map[string]int, len(exercises)),
		names:     make([][]string, 0, len(exercises)),
	}
	for _, e := range exercises {
		if e.ID == "" || e.Name == "" {
			continue
		}
		if _, dup := c.byID[e.ID]; dup {
			continue
		}
		c.byID[e.ID] = len(c.exercises)
		c.exercises = append(c.exercises, e)

		names := []string{normalizeName(e.Name)}
		for _, alias := range e.Aliases {
			if n := normalizeName(alias); n != "" {
				names = append(names, n)
			}
		}
		c.names = append(c.names, names)
	}
	return c
}

func (c *Catalog) Len() int {
	return len(c.exercises)
}

func (c *Catalog) Exercises() []athlete.ReferenceExercise {
	return append([]athlete.ReferenceExercise(nil), c.exercises...)
}

func (c *Catalog) ByID(id string) (athlete.ReferenceExercise, bool) {
	i, ok := c.byID[id]
	if !ok {
		return athlete.ReferenceExercise{}, false
	}
	return c.exercises[i], true
}

// Match looks a record up by its explicit reference id first, then by
// case-insensitive containment of the names in either direction.
func (c *Catalog) Match(record athlete.ExerciseRecord) (athlete.ReferenceExercise, bool) {
	if record.ReferenceID != nil {
		if e, ok := c.ByID(*record.ReferenceID); ok {
			return e, true
		}
	}
	return c.MatchName(record.Exercise)
}

// MatchName tries an exact name or alias match first, then a catalog name
// contained in the record name, then the record name contained in a
// catalog name. Within each pass the first entry wins.
func (c *Catalog) MatchName(name string) (athlete.ReferenceExercise, bool) {
	n := normalizeName(name)
	if n == "" {
		return athlete.ReferenceExercise{}, false
	}

	passes := []func(candidate string) bool{
		func(candidate string) bool { return candidate == n },
		func(candidate string) bool { return strings.Contains(n, candidate) },
		func(candidate string) bool { return len(n) >= minPartialNameLen && strings.Contains(candidate, n) },
	}
	for _, matches := range passes {
		for i, candidates := range c.names {
			for _, candidate := range candidates {
				if matches(candidate) {
					return c.exercises[i], true
				}
			}
		}
	}
	return athlete.ReferenceExercise{}, false
}

const minPartialNameLen = 3

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

var defaultCatalog = NewCatalog([]athlete.ReferenceExercise{
	// weightlifting
	{
		ID: "epaule_jete", Name: "Épaulé-jeté", Aliases: []string{"epaule-jete", "epaule jete", "clean and jerk", "clean & jerk"},
		Category: athlete.CategoryWeightlifting, Beginner: 0.7, Intermediate: 1.0, Advanced: 1.25, Elite: 1.5,
		Unit: athlete.UnitKg, RelativeToBodyweight: true, UsableForIndex: true,
	},
	{
		ID: "epaule", Name: "Épaulé", Aliases: []string{"epaule", "power clean", "clean"},
		Category: athlete.CategoryWeightlifting, Beginner: 0.6, Intermediate: 0.9, Advanced: 1.15, Elite: 1.4,
		Unit: athlete.UnitKg, RelativeToBodyweight: true, UsableForIndex: true,
	},
	{
		ID: "arrache", Name: "Arraché", Aliases: []string{"arrache", "snatch", "power snatch"},
		Category: athlete.CategoryWeightlifting, Beginner: 0.5, Intermediate: 0.7, Advanced: 0.9, Elite: 1.1,
		Unit: athlete.UnitKg, RelativeToBodyweight: true, UsableForIndex: true,
	},
	// lower body
	{
		ID: "front_squat", Name: "Front squat", Aliases: []string{"squat avant"},
		Category: athlete.CategoryLowerBody, Beginner: 0.9, Intermediate: 1.25, Advanced: 1.6, Elite: 2.0,
		Unit: athlete.UnitKg, RelativeToBodyweight: true, UsableForIndex: true,
	},
	{
		ID: "squat_bulgare", Name: "Squat bulgare", Aliases: []string{"bulgarian split squat", "split squat"},
		Category: athlete.CategoryUnilateral, Beginner: 0.5, Intermediate: 0.7, Advanced: 1.0, Elite: 1.3,
		Unit: athlete.UnitKg, RelativeToBodyweight: true, UsableForIndex: true,
	},
	{
		ID: "squat", Name: "Squat", Aliases: []string{"back squat", "squat arrière"},
		Category: athlete.CategoryLowerBody, Beginner: 1.0, Intermediate: 1.5, Advanced: 2.0, Elite: 2.5,
		Unit: athlete.UnitKg, RelativeToBodyweight: true, UsableForIndex: true,
	},
	{
		ID: "souleve_de_terre", Name: "Soulevé de terre", Aliases: []string{"souleve de terre", "deadlift"},
		Category: athlete.CategoryLowerBody, Beginner: 1.25, Intermediate: 1.75, Advanced: 2.25, Elite: 2.75,
		Unit: athlete.UnitKg, RelativeToBodyweight: true, UsableForIndex: true,
	},
	{
		ID: "hip_thrust", Name: "Hip thrust", Aliases: []string{"relevé de bassin"},
		Category: athlete.CategoryLowerBody, Beginner: 1.25, Intermediate: 1.75, Advanced: 2.5, Elite: 3.0,
		Unit: athlete.UnitKg, RelativeToBodyweight: true, UsableForIndex: false,
	},
	// upper body
	{
		ID: "developpe_couche", Name: "Développé couché", Aliases: []string{"developpe couche", "bench press", "bench"},
		Category: athlete.CategoryUpperBody, Beginner: 0.75, Intermediate: 1.0, Advanced: 1.3, Elite: 1.65,
		Unit: athlete.UnitKg, RelativeToBodyweight: true, UsableForIndex: true,
	},
	{
		ID: "developpe_militaire", Name: "Développé militaire", Aliases: []string{"developpe militaire", "overhead press", "military press"},
		Category: athlete.CategoryUpperBody, Beginner: 0.45, Intermediate: 0.6, Advanced: 0.8, Elite: 1.0,
		Unit: athlete.UnitKg, RelativeToBodyweight: true, UsableForIndex: true,
	},
	{
		ID: "rowing_barre", Name: "Rowing barre", Aliases: []string{"barbell row", "rowing"},
		Category: athlete.CategoryUpperBody, Beginner: 0.65, Intermediate: 0.9, Advanced: 1.15, Elite: 1.4,
		Unit: athlete.UnitKg, RelativeToBodyweight: true, UsableForIndex: false,
	},
	// unilateral
	{
		ID: "fentes", Name: "Fentes", Aliases: []string{"fente", "lunges", "lunge"},
		Category: athlete.CategoryUnilateral, Beginner: 0.6, Intermediate: 0.8, Advanced: 1.1, Elite: 1.4,
		Unit: athlete.UnitKg, RelativeToBodyweight: true, UsableForIndex: true,
	},
	{
		ID: "step_up", Name: "Step-up", Aliases: []string{"step up", "montée sur banc"},
		Category: athlete.CategoryUnilateral, Beginner: 0.4, Intermediate: 0.6, Advanced: 0.85, Elite: 1.1,
		Unit: athlete.UnitKg, RelativeToBodyweight: true, UsableForIndex: true,
	},
	// plyometrics, thresholds in the record's own unit
	{
		ID: "triple_saut_sans_elan", Name: "Triple saut sans élan", Aliases: []string{"triple saut sans elan", "standing triple jump"},
		Category: athlete.CategoryPlyometric, Beginner: 6.5, Intermediate: 7.5, Advanced: 8.5, Elite: 9.5,
		Unit: athlete.UnitMeters, RelativeToBodyweight: false, UsableForIndex: true,
	},
	{
		ID: "saut_longueur_sans_elan", Name: "Saut en longueur sans élan", Aliases: []string{"saut en longueur sans elan", "standing long jump", "broad jump"},
		Category: athlete.CategoryPlyometric, Beginner: 2.2, Intermediate: 2.5, Advanced: 2.8, Elite: 3.1,
		Unit: athlete.UnitMeters, RelativeToBodyweight: false, UsableForIndex: true,
	},
	{
		ID: "detente_verticale", Name: "Détente verticale", Aliases: []string{"detente verticale", "vertical jump", "cmj", "sargent"},
		Category: athlete.CategoryPlyometric, Beginner: 35, Intermediate: 45, Advanced: 55, Elite: 65,
		Unit: athlete.UnitCentimeter, RelativeToBodyweight: false, UsableForIndex: true,
	},
})

// DefaultCatalog is the built-in reference table, used when the database
// carries no override.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

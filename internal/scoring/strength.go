package scoring

import (
	"sort"

	"github.com/sprintflow/scoring/internal/athlete"
)

// Level is the proficiency tier a ratio reaches.
type Level string

const (
	LevelNovice       Level = "novice"
	LevelBeginner     Level = "debutant"
	LevelIntermediate Level = "intermediaire"
	LevelAdvanced     Level = "avance"
	LevelElite        Level = "elite"
)

type ExerciseScore struct {
	Exercise       string           `json:"exercice"`
	ReferenceID    string           `json:"reference_id"`
	ReferenceName  string           `json:"reference"`
	Category       athlete.Category `json:"categorie"`
	Value          float64          `json:"valeur"`
	Unit           athlete.Unit     `json:"unite"`
	Ratio          float64          `json:"ratio"`
	Relative       bool             `json:"relatif_poids"`
	Score          int              `json:"score"`
	Level          Level            `json:"niveau"`
	UsableForIndex bool             `json:"utilise_indice"`
}

// StrengthScore interpolates a ratio linearly across the three thresholds:
// 0-50 up to intermediate, 50-75 up to advanced, 75-100 up to elite.
func StrengthScore(ratio float64, ref athlete.ReferenceExercise) int {
	if !isPositive(ratio) || !isPositive(ref.Intermediate) {
		return 0
	}

	var score float64
	switch {
	case ratio >= ref.Elite:
		score = 100
	case ratio <= ref.Intermediate:
		score = ratio / ref.Intermediate * 50
	case ratio < ref.Advanced:
		score = 50 + 25*(ratio-ref.Intermediate)/(ref.Advanced-ref.Intermediate)
	default:
		score = 75 + 25*(ratio-ref.Advanced)/(ref.Elite-ref.Advanced)
	}
	return roundScore(score)
}

func LevelFor(ratio float64, ref athlete.ReferenceExercise) Level {
	switch {
	case ratio >= ref.Elite:
		return LevelElite
	case ratio >= ref.Advanced:
		return LevelAdvanced
	case ratio >= ref.Intermediate:
		return LevelIntermediate
	case ref.Beginner > 0 && ratio >= ref.Beginner:
		return LevelBeginner
	default:
		return LevelNovice
	}
}

// ScoreExercises keeps the best record of every matched catalog exercise
// and scores it. Timed records (sprints) are not strength records and are
// ignored. Results follow catalog order.
func ScoreExercises(records []athlete.ExerciseRecord, catalog *Catalog, bodyweightKg float64) []ExerciseScore {
	type best struct {
		ref    athlete.ReferenceExercise
		record athlete.ExerciseRecord
	}

	bests := make(map[string]best)
	for _, rec := range records {
		if rec.IsTimed() || !isPositive(rec.Value) {
			continue
		}
		ref, ok := catalog.Match(rec)
		if !ok {
			continue
		}
		if ref.RelativeToBodyweight && !isPositive(bodyweightKg) {
			continue
		}
		if cur, seen := bests[ref.ID]; !seen || rec.Value > cur.record.Value {
			bests[ref.ID] = best{ref: ref, record: rec}
		}
	}

	scores := make([]ExerciseScore, 0, len(bests))
	for _, b := range bests {
		ratio := b.record.Value
		if b.ref.RelativeToBodyweight {
			ratio = b.record.Value / bodyweightKg
		}
		unit := b.record.Unit
		if unit == "" {
			unit = b.ref.Unit
		}
		scores = append(scores, ExerciseScore{
			Exercise:       b.record.Exercise,
			ReferenceID:    b.ref.ID,
			ReferenceName:  b.ref.Name,
			Category:       b.ref.Category,
			Value:          b.record.Value,
			Unit:           unit,
			Ratio:          round2(ratio),
			Relative:       b.ref.RelativeToBodyweight,
			Score:          StrengthScore(ratio, b.ref),
			Level:          LevelFor(ratio, b.ref),
			UsableForIndex: b.ref.UsableForIndex,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return catalog.byID[scores[i].ReferenceID] < catalog.byID[scores[j].ReferenceID]
	})
	return scores
}

// MeanStrength averages the index-usable scores; no data scores neutral.
func MeanStrength(scores []ExerciseScore) int {
	sum, n := 0, 0
	for _, s := range scores {
		if !s.UsableForIndex {
			continue
		}
		sum += s.Score
		n++
	}
	if n == 0 {
		return neutralScore
	}
	return roundScore(float64(sum) / float64(n))
}

// CategoryStrengths weights the two best scores of each category 0.7/0.3.
// A lone score keeps its own value.
func CategoryStrengths(scores []ExerciseScore) map[athlete.Category]int {
	byCategory := make(map[athlete.Category][]int)
	for _, s := range scores {
		if !s.UsableForIndex {
			continue
		}
		byCategory[s.Category] = append(byCategory[s.Category], s.Score)
	}

	result := make(map[athlete.Category]int, len(byCategory))
	for category, list := range byCategory {
		sort.Sort(sort.Reverse(sort.IntSlice(list)))
		if len(list) == 1 {
			result[category] = list[0]
			continue
		}
		result[category] = roundScore(float64(list[0])*0.7 + float64(list[1])*0.3)
	}
	return result
}

// BestRatio is the strongest bodyweight-relative lift.
type BestRatio struct {
	Exercise string  `json:"exercice"`
	Ratio    float64 `json:"ratio"`
	Level    Level   `json:"niveau"`
}

func bestRatio(scores []ExerciseScore) *BestRatio {
	var best *BestRatio
	for _, s := range scores {
		if !s.Relative {
			continue
		}
		if best == nil || s.Ratio > best.Ratio {
			best = &BestRatio{Exercise: s.ReferenceName, Ratio: s.Ratio, Level: s.Level}
		}
	}
	return best
}

package advice

import (
	"fmt"

	"github.com/sprintflow/scoring/internal/athlete"
	"github.com/sprintflow/scoring/internal/scoring"
)

const (
	GeneratorPerformance = "conseils_performance"
	GeneratorPower       = "conseils_poids_puissance"
	GeneratorForm        = "conseils_forme"
)

var categoryLabels = map[athlete.Category]string{
	athlete.CategoryWeightlifting: "haltérophilie",
	athlete.CategoryLowerBody:     "bas du corps",
	athlete.CategoryUpperBody:     "haut du corps",
	athlete.CategoryUnilateral:    "unilatéral",
	athlete.CategoryPlyometric:    "pliométrie",
}

var categoryActions = map[athlete.Category][]string{
	athlete.CategoryWeightlifting: {
		"Travailler l'épaulé et l'arraché en séries courtes et explosives",
		"Soigner la technique avant d'augmenter les charges",
	},
	athlete.CategoryLowerBody: {
		"Inclure 2 séances de squat ou soulevé de terre par semaine",
		"Progresser par paliers de 2,5 à 5 kg",
	},
	athlete.CategoryUpperBody: {
		"Ajouter du développé couché et du tirage en fin de séance",
		"Équilibrer poussée et tirage",
	},
	athlete.CategoryUnilateral: {
		"Intégrer fentes et squats bulgares pour corriger les asymétries",
		"Travailler la stabilité de hanche",
	},
	athlete.CategoryPlyometric: {
		"Ajouter des bonds et sauts horizontaux à faible volume",
		"Privilégier la qualité du contact au sol",
	},
}

// missingData matches the DONNEES_MANQUANTES sentinel answered by the index
// endpoints.
func missingData(message string) bool {
	return message == scoring.MissingDataMessage
}

func missingDataBlock() Block {
	return newBlock(KindError,
		"Données manquantes",
		"Aucun poids corporel enregistré, l'indice ne peut pas être calculé.",
		"Saisir votre poids dans la composition corporelle",
		"Ajouter votre taille dans le profil",
	)
}

func forceBlock(force int, objectives []Objective) Block {
	var b Block
	switch {
	case force < 50:
		b = newBlock(KindWarning,
			"Force à développer",
			fmt.Sprintf("Votre score de force (%d) est sous la moyenne.", force),
			"Prioriser les exercices de base en musculation",
			"Enregistrer vos records pour suivre la progression",
		)
	case force >= 75:
		b = newBlock(KindSuccess,
			"Force solide",
			fmt.Sprintf("Score de force de %d, niveau avancé atteint.", force),
			"Maintenir le volume et viser le niveau élite",
		)
	default:
		b = newBlock(KindInfo,
			"Objectifs de force",
			fmt.Sprintf("Score de force de %d, continuez la progression vers le niveau avancé.", force),
		)
	}
	b.Objectives = objectives
	return b
}

// Performance maps a performance index result to advice. Catalog is used
// for the objective thresholds and may be nil.
func Performance(res *scoring.PerformanceResult, catalog *scoring.Catalog) []Block {
	if res == nil || missingData(res.Message) {
		return []Block{missingDataBlock()}
	}

	var blocks []Block
	if res.Rating == scoring.RatingLow {
		msg := fmt.Sprintf("Indice de performance de %d.", res.Score)
		switch res.Cause {
		case scoring.CauseBodyComposition:
			msg += " La composition corporelle limite le score."
		case scoring.CauseForce:
			msg += " Le niveau de force limite le score."
		}
		blocks = append(blocks, newBlock(KindError, "Indice de performance faible", msg,
			"Revoir la planification avec votre entraîneur",
		))
	}

	switch {
	case res.CompositionMethod == scoring.MethodDefault:
		blocks = append(blocks, newBlock(KindInfo,
			"Composition non évaluée",
			"Sans masse grasse ni taille, la composition est notée de façon neutre.",
			"Renseigner votre taille",
			"Mesurer votre masse grasse",
		))
	case res.CompositionScore < 55:
		msg := fmt.Sprintf("Score de composition de %d.", res.CompositionScore)
		if res.BodyFatPct != nil {
			msg = fmt.Sprintf("Masse grasse de %.1f%%, score de composition de %d.", *res.BodyFatPct, res.CompositionScore)
		}
		blocks = append(blocks, newBlock(KindWarning, "Composition corporelle à optimiser", msg,
			"Ajuster l'apport calorique avec un suivi régulier",
			"Maintenir un apport protéique suffisant",
		))
	case res.CompositionScore >= 85:
		blocks = append(blocks, newBlock(KindSuccess,
			"Composition optimale",
			fmt.Sprintf("Score de composition de %d.", res.CompositionScore),
		))
	}

	blocks = append(blocks, forceBlock(res.ForceScore, Objectives(res.Details, catalog, res.WeightKg)))

	if res.Mode == scoring.ModeStandard {
		blocks = append(blocks, newBlock(KindInfo,
			"Passer en mode expert",
			"Une mesure directe de la masse grasse rend l'indice plus précis que l'IMC.",
			"Mesurer votre masse grasse (impédancemétrie ou plis cutanés)",
		))
	}
	if res.AgeModifier > 1 {
		blocks = append(blocks, newBlock(KindInfo,
			"Bonus jeune athlète",
			fmt.Sprintf("Un coefficient de %.2f est appliqué à votre âge (%d ans).", res.AgeModifier, res.Age),
		))
	}
	if res.Rating == scoring.RatingHigh {
		blocks = append(blocks, newBlock(KindSuccess,
			"Excellent niveau",
			fmt.Sprintf("Indice de performance de %d.", res.Score),
		))
	}

	return sortBlocks(blocks)
}

// Power maps a weight/power index result to advice. A nil result stands
// for the missing data sentinel.
func Power(res *scoring.PowerResult, catalog *scoring.Catalog) []Block {
	if res == nil {
		return []Block{missingDataBlock()}
	}

	var blocks []Block
	switch {
	case res.Index < 50:
		blocks = append(blocks, newBlock(KindError,
			"Rapport poids/puissance faible",
			fmt.Sprintf("Indice poids/puissance de %d.", res.Index),
			"Cibler les catégories les plus utiles à votre discipline",
		))
	case res.Index >= 80:
		blocks = append(blocks, newBlock(KindSuccess,
			"Rapport poids/puissance excellent",
			fmt.Sprintf("Indice poids/puissance de %d.", res.Index),
		))
	default:
		blocks = append(blocks, newBlock(KindInfo,
			"Rapport poids/puissance correct",
			fmt.Sprintf("Indice poids/puissance de %d, marge de progression.", res.Index),
		))
	}

	if res.CompositionScore < 55 {
		msg := fmt.Sprintf("Score de composition de %d.", res.CompositionScore)
		if res.Context.BodyFatPct != nil {
			msg = fmt.Sprintf("Masse grasse estimée à %.1f%% (%s).", *res.Context.BodyFatPct, res.Context.Method)
		}
		blocks = append(blocks, newBlock(KindWarning, "Composition corporelle à optimiser", msg,
			"Réduire la masse grasse sans perdre de masse maigre",
		))
	}

	if weakest, score, ok := weakestCategory(res.CategoryScores); ok && score < 60 {
		blocks = append(blocks, newBlock(KindWarning,
			"Point faible: "+categoryLabels[weakest],
			fmt.Sprintf("La catégorie %s plafonne à %d.", categoryLabels[weakest], score),
			categoryActions[weakest]...,
		))
	}

	for _, c := range missingCategories(res.CategoryScores, res.Context.Discipline) {
		blocks = append(blocks, newBlock(KindInfo,
			"Catégorie non évaluée: "+categoryLabels[c],
			"Aucun record dans cette catégorie, importante pour votre discipline.",
			"Enregistrer un record "+categoryLabels[c],
		))
	}

	if objectives := Objectives(res.Details, catalog, res.Context.WeightKg); len(objectives) > 0 {
		b := newBlock(KindInfo, "Objectifs de force", "Charges cibles pour atteindre le niveau suivant.")
		b.Objectives = objectives
		blocks = append(blocks, b)
	}

	return sortBlocks(blocks)
}

// weakestCategory breaks ties in category order.
func weakestCategory(scores map[athlete.Category]int) (athlete.Category, int, bool) {
	var weakest athlete.Category
	lowest, found := 0, false
	for _, c := range athlete.AllCategories {
		s, ok := scores[c]
		if !ok {
			continue
		}
		if !found || s < lowest {
			weakest, lowest, found = c, s, true
		}
	}
	return weakest, lowest, found
}

// missingCategories lists the unscored categories weighing at least a
// fifth of the discipline's force score.
func missingCategories(scores map[athlete.Category]int, discipline athlete.Discipline) []athlete.Category {
	weights, ok := scoring.DisciplineWeights[discipline]
	if !ok {
		return nil
	}
	var missing []athlete.Category
	for _, c := range athlete.AllCategories {
		if _, scored := scores[c]; scored {
			continue
		}
		if weights[c] >= 0.2 {
			missing = append(missing, c)
		}
	}
	return missing
}

func formCauseBlock(score int, cause scoring.Cause) Block {
	switch cause {
	case scoring.CauseSleep:
		return newBlock(KindError, "Récupération insuffisante",
			fmt.Sprintf("Indice de forme de %d, le sommeil limite votre récupération.", score),
			"Viser 8 à 9 heures de sommeil",
			"Alléger la séance du jour",
		)
	case scoring.CauseHardSession:
		return newBlock(KindError, "Séance difficile récente",
			fmt.Sprintf("Indice de forme de %d, la dernière séance a laissé une fatigue marquée.", score),
			"Prévoir une séance de récupération active",
		)
	case scoring.CauseLoad:
		return newBlock(KindError, "Charge d'entraînement inadaptée",
			fmt.Sprintf("Indice de forme de %d, la fréquence des séances n'est pas équilibrée.", score),
			"Planifier 2 à 3 jours de repos par semaine",
		)
	case scoring.CauseStress:
		return newBlock(KindError, "Stress élevé",
			fmt.Sprintf("Indice de forme de %d, le stress pèse sur votre disponibilité.", score),
			"Réduire l'intensité",
			"Ajouter un temps de respiration ou de relaxation",
		)
	case scoring.CauseMuscleFatigue:
		return newBlock(KindError, "Fatigue musculaire élevée",
			fmt.Sprintf("Indice de forme de %d, vos muscles ont besoin de récupérer.", score),
			"Éviter les efforts maximaux aujourd'hui",
			"Privilégier mobilité et soins",
		)
	default:
		return newBlock(KindError, "Forme faible",
			fmt.Sprintf("Indice de forme de %d.", score),
			"Adapter la séance du jour",
		)
	}
}

func formRatingBlock(score int, rating scoring.Rating) Block {
	if rating == scoring.RatingHigh {
		return newBlock(KindSuccess, "Pleine forme",
			fmt.Sprintf("Indice de forme de %d, conditions idéales pour une séance intense.", score),
		)
	}
	return newBlock(KindInfo, "Forme correcte",
		fmt.Sprintf("Indice de forme de %d.", score),
		"Écouter les sensations à l'échauffement",
	)
}

// Form maps a form index result to advice.
func Form(res *scoring.FormResult) []Block {
	if res == nil || res.Mode == scoring.ModeCalibration {
		return []Block{calibrationBlock(nil)}
	}

	var blocks []Block
	if res.Score < 50 {
		blocks = append(blocks, formCauseBlock(res.Score, res.Cause))
	} else {
		blocks = append(blocks, formRatingBlock(res.Score, res.Rating))
	}

	if res.RestDays == 0 {
		blocks = append(blocks, newBlock(KindWarning, "Aucun jour de repos",
			"Vous vous êtes entraîné tous les jours de la semaine.",
			"Prévoir au moins un jour de repos complet",
		))
	}
	if res.MeanSleepHours > 0 && res.MeanSleepHours < 7 {
		blocks = append(blocks, newBlock(KindWarning, "Dormez davantage",
			fmt.Sprintf("Moyenne de %.1f h de sommeil sur les derniers jours.", res.MeanSleepHours),
			"Se coucher 30 minutes plus tôt",
			"Limiter les écrans avant le coucher",
		))
	}
	if res.DropOffPct != nil && *res.DropOffPct > 7 && res.Cause != scoring.CauseHardSession {
		blocks = append(blocks, newBlock(KindWarning, "Fatigue de la dernière séance",
			fmt.Sprintf("Drop-off de %.1f%% lors de la dernière séance analysée.", *res.DropOffPct),
		))
	}

	return sortBlocks(blocks)
}

func calibrationBlock(c *scoring.FormCalibration) Block {
	msg := "Saisissez votre sommeil et vos séances pendant 3 jours pour débloquer l'indice de forme."
	if c != nil {
		msg = fmt.Sprintf("Encore %d jour(s) de sommeil et %d séance(s) à saisir.", c.MissingSleepDays, c.MissingSessions)
	}
	return newBlock(KindInfo, "Calibration en cours", msg,
		"Saisir votre sommeil chaque matin",
		"Enregistrer vos séances",
	)
}

// FormCalibration advises an athlete whose form index is still calibrating.
func FormCalibration(c *scoring.FormCalibration) []Block {
	return []Block{calibrationBlock(c)}
}

// Readiness maps the raw daily readiness check to advice.
func Readiness(res *scoring.ReadinessResult) []Block {
	var blocks []Block
	if res.Score < 50 {
		blocks = append(blocks, formCauseBlock(res.Score, res.Cause))
	} else {
		blocks = append(blocks, formRatingBlock(res.Score, res.Rating))
	}

	if res.SleepHours < 7 {
		blocks = append(blocks, newBlock(KindWarning, "Nuit courte",
			fmt.Sprintf("%.1f h de sommeil cette nuit.", res.SleepHours),
			"Prévoir une sieste de 20 minutes",
		))
	}
	if res.Stress >= 7 && res.Cause != scoring.CauseStress {
		blocks = append(blocks, newBlock(KindWarning, "Stress élevé",
			fmt.Sprintf("Niveau de stress de %.0f/10.", res.Stress),
			"Ajouter un temps de respiration ou de relaxation",
		))
	}
	if res.MuscleFatigue >= 7 && res.Cause != scoring.CauseMuscleFatigue {
		blocks = append(blocks, newBlock(KindWarning, "Fatigue musculaire élevée",
			fmt.Sprintf("Fatigue musculaire de %.0f/10.", res.MuscleFatigue),
			"Privilégier mobilité et soins",
		))
	}

	return sortBlocks(blocks)
}

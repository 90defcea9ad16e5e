package fatigue

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/sprintflow/scoring/internal/athlete"
)

// ManualTimingOffsetSec converts a hand-timed sprint to its electronic
// equivalent for the electronic record comparison.
const ManualTimingOffsetSec = 0.24

type Status string

const (
	StatusWarning Status = "warning"
	StatusSuccess Status = "success"
	StatusInfo    Status = "info"
)

const (
	maxVelocityWarnAbove  = 5.0
	maxVelocityPraiseUpTo = 3.0
	lacticLowBelow        = 8.0
	lacticHighAbove       = 15.0
	techniqueWarnAbove    = 5.0
)

// SkipReason is set when a workout has nothing to analyse.
type SkipReason string

const (
	SkipNoEfforts      SkipReason = "aucun effort"
	SkipNoValidEfforts SkipReason = "aucun temps valide"
)

type Evaluation struct {
	Status  Status `json:"statut"`
	Message string `json:"message"`
}

// Analysis of one session. PerfVsRecordPct is the best time over the
// record; ElectronicPerfVsRecordPct does the same with the
// electronic-equivalent best time (manual +0.24 s).
type Analysis struct {
	BestTimeSec               float64    `json:"meilleur_temps"`
	DropOffPct                float64    `json:"fatigue_drop_off_pct"`
	RecordSec                 *float64   `json:"record,omitempty"`
	PerfVsRecordPct           *float64   `json:"perf_vs_record_pct,omitempty"`
	ElectronicPerfVsRecordPct *float64   `json:"perf_vs_record_electronique_pct,omitempty"`
	DistanceM                 *float64   `json:"distance,omitempty"`
	ValidEfforts              int        `json:"efforts_valides"`
	Evaluation                Evaluation `json:"evaluation"`
}

// Analyze computes the session drop-off and compares the best effort with
// the athlete's record over the same distance. It returns a skip reason
// instead of an analysis when there is nothing to measure.
func Analyze(workout athlete.Workout, records []athlete.ExerciseRecord) (*Analysis, SkipReason) {
	if len(workout.Efforts) == 0 {
		return nil, SkipNoEfforts
	}

	var valid []athlete.Effort
	for _, e := range workout.Efforts {
		if e.Valid() {
			valid = append(valid, e)
		}
	}
	if len(valid) == 0 {
		return nil, SkipNoValidEfforts
	}

	best := valid[0].TimeSec
	bestEquivalent := electronicEquivalent(valid[0])
	for _, e := range valid[1:] {
		best = math.Min(best, e.TimeSec)
		bestEquivalent = math.Min(bestEquivalent, electronicEquivalent(e))
	}

	a := &Analysis{
		BestTimeSec:  best,
		DropOffPct:   DropOff(valid),
		ValidEfforts: len(valid),
	}

	if distance, ok := sessionDistance(valid); ok {
		a.DistanceM = &distance
		if record, ok := RecordFor(distance, records); ok {
			pct := round1(best / record * 100)
			electronicPct := round1(bestEquivalent / record * 100)
			a.RecordSec = &record
			a.PerfVsRecordPct = &pct
			a.ElectronicPerfVsRecordPct = &electronicPct
		}
	}

	a.Evaluation = Evaluate(workout.SessionTag, a.DropOffPct)
	return a, ""
}

// DropOff is the first to last degradation in percent, 2 decimals.
func DropOff(efforts []athlete.Effort) float64 {
	if len(efforts) < 2 {
		return 0
	}
	first := efforts[0].TimeSec
	last := efforts[len(efforts)-1].TimeSec
	return math.Round((last-first)/first*100*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func electronicEquivalent(e athlete.Effort) float64 {
	if e.Timing == athlete.TimingManual {
		return e.TimeSec + ManualTimingOffsetSec
	}
	return e.TimeSec
}

func sessionDistance(efforts []athlete.Effort) (float64, bool) {
	for _, e := range efforts {
		if e.DistanceM != nil && *e.DistanceM > 0 {
			return *e.DistanceM, true
		}
	}
	return 0, false
}

// RecordFor finds the best timed record whose name mentions the distance,
// e.g. "60m" or "Sprint 100 m" for 60 and 100. "100m" does not count as a
// 10 m record.
func RecordFor(distanceM float64, records []athlete.ExerciseRecord) (float64, bool) {
	number := strconv.FormatFloat(distanceM, 'f', -1, 64)
	re := regexp.MustCompile(`(^|[^0-9.])` + regexp.QuoteMeta(number) + `($|[^0-9])`)

	var best float64
	found := false
	for _, r := range records {
		if !r.IsTimed() || r.Value <= 0 {
			continue
		}
		if !re.MatchString(r.Exercise) {
			continue
		}
		if !found || r.Value < best {
			best = r.Value
			found = true
		}
	}
	return best, found
}

// Evaluate applies the per session-type expectations. Lactic sessions
// train fatigue accumulation, so a low drop-off is the warning case there.
func Evaluate(tag athlete.SessionTag, dropOff float64) Evaluation {
	switch tag {
	case athlete.SessionMaxVelocity:
		switch {
		case dropOff > maxVelocityWarnAbove:
			return Evaluation{
				Status:  StatusWarning,
				Message: fmt.Sprintf("Attention: Drop-off élevé (%.2f%%). Fatigue ou échauffement insuffisant.", dropOff),
			}
		case dropOff <= maxVelocityPraiseUpTo:
			return Evaluation{
				Status:  StatusSuccess,
				Message: fmt.Sprintf("Excellente constance: drop-off de %.2f%% sur la séance de vitesse.", dropOff),
			}
		default:
			return Evaluation{
				Status:  StatusInfo,
				Message: fmt.Sprintf("Drop-off modéré (%.2f%%), constance correcte.", dropOff),
			}
		}
	case athlete.SessionLacticEndurance:
		switch {
		case dropOff < lacticLowBelow:
			return Evaluation{
				Status:  StatusWarning,
				Message: fmt.Sprintf("Intensité insuffisante: drop-off de %.2f%% trop faible pour une séance lactique.", dropOff),
			}
		case dropOff > lacticHighAbove:
			return Evaluation{
				Status:  StatusInfo,
				Message: fmt.Sprintf("Drop-off de %.2f%%, normal pour une séance lactique exigeante.", dropOff),
			}
		default:
			return Evaluation{
				Status:  StatusSuccess,
				Message: fmt.Sprintf("Fatigue accumulée conforme à l'objectif lactique (%.2f%%).", dropOff),
			}
		}
	case athlete.SessionTechniqueRecovery:
		if dropOff > techniqueWarnAbove {
			return Evaluation{
				Status:  StatusWarning,
				Message: fmt.Sprintf("Attention: fatigue trop marquée (%.2f%%) pour une séance technique ou de récupération.", dropOff),
			}
		}
		return Evaluation{
			Status:  StatusSuccess,
			Message: fmt.Sprintf("Séance technique maîtrisée, drop-off de %.2f%%.", dropOff),
		}
	default:
		return Evaluation{
			Status:  StatusInfo,
			Message: fmt.Sprintf("Drop-off de %.2f%% sur la séance.", dropOff),
		}
	}
}

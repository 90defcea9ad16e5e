package scoring

import (
	"time"

	"github.com/sprintflow/scoring/internal/athlete"
)

const (
	calibrationWindowDays = 3
	loadWindowDays        = 7
	maxSleepQuality       = 5.0
	// hardSessionDropOff is the drop-off above which the latest session is
	// blamed for a low form index.
	hardSessionDropOff = 7.0
)

// SleepDurationScore peaks on 8-9h, drops fast under 6h and slightly past
// 9.5h.
func SleepDurationScore(hours float64) int {
	switch {
	case hours >= 8 && hours <= 9:
		return 100
	case hours > 9 && hours <= 9.5:
		return 95
	case hours > 9.5:
		return 85
	case hours >= 7.5:
		return 90
	case hours >= 7:
		return 80
	case hours >= 6.5:
		return 65
	case hours >= 6:
		return 50
	case hours >= 5:
		return 30
	default:
		return 15
	}
}

// RestDaysScore is keyed on rest days out of the trailing week. No rest at
// all flags overtraining.
func RestDaysScore(restDays int) int {
	table := [...]int{10, 60, 100, 95, 80, 65, 50, 40}
	switch {
	case restDays <= 0:
		return table[0]
	case restDays >= len(table):
		return table[len(table)-1]
	default:
		return table[restDays]
	}
}

// DropOffScore turns the latest session drop-off into a fatigue score;
// nil means no analysed session.
func DropOffScore(dropOff *float64) int {
	if dropOff == nil {
		return 80
	}
	switch d := *dropOff; {
	case d <= 3:
		return 100
	case d <= 5:
		return 85
	case d <= 7:
		return 70
	case d <= 10:
		return 50
	case d <= 15:
		return 35
	default:
		return 20
	}
}

type FormInput struct {
	Profile        *athlete.Profile
	SleepLogs      []athlete.SleepLog
	Workouts       []athlete.Workout
	LatestAnalysis *athlete.WorkoutAnalysis
	Now            time.Time
}

type FormCalibration struct {
	Mode             Mode   `json:"mode"`
	MissingSleepDays int    `json:"jours_manquants_sommeil"`
	MissingSessions  int    `json:"seances_manquantes"`
	SleepDaysLogged  int    `json:"jours_sommeil_saisis"`
	SessionsLogged   int    `json:"seances_saisies"`
	Message          string `json:"message"`
}

type FormResult struct {
	Mode               Mode     `json:"mode"`
	Score              int      `json:"score"`
	RecoveryScore      int      `json:"score_recuperation"`
	ChargeScore        int      `json:"score_charge"`
	SleepDurationScore int      `json:"score_duree_sommeil"`
	SleepQualityScore  int      `json:"score_qualite_sommeil"`
	FrequencyScore     int      `json:"score_frequence"`
	FatigueScore       int      `json:"score_fatigue"`
	MeanSleepHours     float64  `json:"sommeil_moyen_h"`
	RestDays           int      `json:"jours_repos"`
	DropOffPct         *float64 `json:"drop_off_pct,omitempty"`
	Age                int      `json:"age"`
	AgeModifier        float64  `json:"modificateur_age"`
	Rating             Rating   `json:"niveau"`
	Message            string   `json:"message"`
	Cause              Cause    `json:"cause,omitempty"`
}

// FormReport holds exactly one of a calibration notice or a scored result.
type FormReport struct {
	Calibration *FormCalibration
	Result      *FormResult
}

func (r FormReport) Payload() any {
	if r.Calibration != nil {
		return r.Calibration
	}
	return r.Result
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// windowStart is the first day of an n-day window ending today.
func windowStart(now time.Time, days int) time.Time {
	return day(now).AddDate(0, 0, -(days - 1))
}

func inWindow(t, start, today time.Time) bool {
	d := day(t)
	return !d.Before(start) && !d.After(today)
}

// FormWindow is the date range the form index reads.
func FormWindow(now time.Time) (from, to time.Time) {
	return windowStart(now, loadWindowDays), day(now)
}

func ComputeForm(in FormInput) FormReport {
	today := day(in.Now)
	recentStart := windowStart(in.Now, calibrationWindowDays)
	weekStart := windowStart(in.Now, loadWindowDays)

	// the store keeps one log per date, raw inputs may not: first one wins
	recentSleep := make(map[time.Time]athlete.SleepLog)
	for _, l := range in.SleepLogs {
		if !inWindow(l.Date, recentStart, today) {
			continue
		}
		if _, seen := recentSleep[day(l.Date)]; !seen {
			recentSleep[day(l.Date)] = l
		}
	}

	recentSessions := 0
	trainingDays := make(map[time.Time]struct{})
	for _, w := range in.Workouts {
		if inWindow(w.Date.Time, recentStart, today) {
			recentSessions++
		}
		if inWindow(w.Date.Time, weekStart, today) {
			trainingDays[day(w.Date.Time)] = struct{}{}
		}
	}

	if len(recentSleep) < calibrationWindowDays || recentSessions == 0 {
		missingSessions := 0
		if recentSessions == 0 {
			missingSessions = 1
		}
		return FormReport{Calibration: &FormCalibration{
			Mode:             ModeCalibration,
			MissingSleepDays: calibrationWindowDays - len(recentSleep),
			MissingSessions:  missingSessions,
			SleepDaysLogged:  len(recentSleep),
			SessionsLogged:   recentSessions,
			Message:          "Continuez à saisir votre sommeil et vos séances pour débloquer l'indice de forme.",
		}}
	}

	var totalHours, totalQuality float64
	qualityCount := 0
	for _, l := range recentSleep {
		totalHours += l.DurationHours
		if l.Quality != nil {
			totalQuality += clamp(*l.Quality, 0, maxSleepQuality)
			qualityCount++
		}
	}
	meanHours := totalHours / float64(len(recentSleep))
	durationScore := SleepDurationScore(meanHours)
	qualityScore := durationScore
	if qualityCount > 0 {
		qualityScore = roundScore(totalQuality / float64(qualityCount) / maxSleepQuality * 100)
	}

	age := AgeOf(in.Profile, in.Now)
	modifier := RecoveryAgeModifier(age)
	recovery := roundScore(float64(durationScore+qualityScore) / 2 * modifier)

	restDays := loadWindowDays - len(trainingDays)
	frequencyScore := RestDaysScore(restDays)

	var dropOff *float64
	if in.LatestAnalysis != nil {
		d := in.LatestAnalysis.DropOffPct
		dropOff = &d
	}
	fatigueScore := DropOffScore(dropOff)
	charge := roundScore(float64(frequencyScore+fatigueScore) / 2)

	score := roundScore(float64(recovery)*0.5 + float64(charge)*0.5)

	var cause Cause
	if score < 50 {
		switch {
		case recovery < 50:
			cause = CauseSleep
		case dropOff != nil && *dropOff > hardSessionDropOff:
			cause = CauseHardSession
		case frequencyScore < 50:
			cause = CauseLoad
		default:
			cause = CauseGeneral
		}
	}
	rating, message := classify(score, 50, 80, cause)

	return FormReport{Result: &FormResult{
		Mode:               ModeScore,
		Score:              score,
		RecoveryScore:      recovery,
		ChargeScore:        charge,
		SleepDurationScore: durationScore,
		SleepQualityScore:  qualityScore,
		FrequencyScore:     frequencyScore,
		FatigueScore:       fatigueScore,
		MeanSleepHours:     round2(meanHours),
		RestDays:           restDays,
		DropOffPct:         dropOff,
		Age:                age,
		AgeModifier:        modifier,
		Rating:             rating,
		Message:            message,
		Cause:              cause,
	}}
}

package athlete

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type Sex string

const (
	SexMale   Sex = "homme"
	SexFemale Sex = "femme"
)

// Discipline is the athlete's event group, used to weight strength categories.
type Discipline string

const (
	DisciplineSprint         Discipline = "sprint"
	DisciplineJumps          Discipline = "sauts"
	DisciplineThrows         Discipline = "lancers"
	DisciplineMiddleDistance Discipline = "demi_fond"
	DisciplineNone           Discipline = ""
)

func ParseDiscipline(s string) Discipline {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sprint", "sprints", "haies":
		return DisciplineSprint
	case "sauts", "saut", "jumps":
		return DisciplineJumps
	case "lancers", "lancer", "throws":
		return DisciplineThrows
	case "demi_fond", "demi-fond", "middle_distance":
		return DisciplineMiddleDistance
	default:
		return DisciplineNone
	}
}

type Profile struct {
	ID         uuid.UUID  `json:"id"`
	BirthDate  *time.Time `json:"date_naissance,omitempty"`
	HeightCm   *float64   `json:"taille_cm,omitempty"`
	Sex        Sex        `json:"sexe"`
	Discipline Discipline `json:"discipline"`
	WaistCm    *float64   `json:"tour_taille_cm,omitempty"`
	NeckCm     *float64   `json:"tour_cou_cm,omitempty"`
	HipCm      *float64   `json:"tour_hanches_cm,omitempty"`
}

// Age in full years at the given moment; ok is false when the birth date
// is unknown or in the future.
func (p *Profile) Age(at time.Time) (age int, ok bool) {
	if p == nil || p.BirthDate == nil || p.BirthDate.After(at) {
		return 0, false
	}
	b := *p.BirthDate
	age = at.Year() - b.Year()
	if at.Month() < b.Month() || (at.Month() == b.Month() && at.Day() < b.Day()) {
		age--
	}
	return age, true
}

// BodyComposition is one sample per (athlete, date).
type BodyComposition struct {
	AthleteID    uuid.UUID `json:"user_id"`
	Date         time.Time `json:"date"`
	WeightKg     *float64  `json:"poids_kg,omitempty"`
	BodyFatPct   *float64  `json:"masse_grasse_pct,omitempty"`
	LeanMassKg   *float64  `json:"masse_maigre_kg,omitempty"`
	MuscleMassKg *float64  `json:"masse_musculaire_kg,omitempty"`
}

type Unit string

const (
	UnitKg         Unit = "kg"
	UnitSeconds    Unit = "s"
	UnitMeters     Unit = "m"
	UnitCentimeter Unit = "cm"
)

// ExerciseRecord is a best-performance entry for one exercise.
type ExerciseRecord struct {
	ID          int64     `json:"id"`
	AthleteID   uuid.UUID `json:"user_id"`
	Exercise    string    `json:"exercice"`
	ReferenceID *string   `json:"exercice_ref_id,omitempty"`
	Value       float64   `json:"valeur"`
	Unit        Unit      `json:"unite"`
	Date        time.Time `json:"date"`
}

// IsTimed reports whether lower values are better (sprint times).
func (r ExerciseRecord) IsTimed() bool {
	return r.Unit == UnitSeconds
}

type Category string

const (
	CategoryWeightlifting Category = "halterophilie"
	CategoryLowerBody     Category = "bas_du_corps"
	CategoryUpperBody     Category = "haut_du_corps"
	CategoryUnilateral    Category = "unilateral"
	CategoryPlyometric    Category = "pliometrie"
)

var AllCategories = []Category{
	CategoryWeightlifting,
	CategoryLowerBody,
	CategoryUpperBody,
	CategoryUnilateral,
	CategoryPlyometric,
}

// ReferenceExercise is a catalog entry with its proficiency thresholds.
// Thresholds are bodyweight multiples when RelativeToBodyweight is set,
// raw values in Unit otherwise.
type ReferenceExercise struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"nom"`
	Aliases              []string `json:"alias,omitempty"`
	Category             Category `json:"categorie"`
	Beginner             float64  `json:"debutant,omitempty"`
	Intermediate         float64  `json:"intermediaire"`
	Advanced             float64  `json:"avance"`
	Elite                float64  `json:"elite"`
	Unit                 Unit     `json:"unite"`
	RelativeToBodyweight bool     `json:"relatif_poids"`
	UsableForIndex       bool     `json:"utilisable_indice"`
}

type SessionTag string

const (
	SessionMaxVelocity       SessionTag = "vitesse_max"
	SessionLacticEndurance   SessionTag = "endurance_lactique"
	SessionTechniqueRecovery SessionTag = "technique_recuperation"
	SessionOther             SessionTag = "autre"
)

type TimingMethod string

const (
	TimingManual     TimingMethod = "manuel"
	TimingElectronic TimingMethod = "electronique"
)

type Effort struct {
	TimeSec   float64      `json:"temps"`
	DistanceM *float64     `json:"distance,omitempty"`
	Timing    TimingMethod `json:"chrono,omitempty"`
}

// Valid efforts carry a finite, positive time.
func (e Effort) Valid() bool {
	return e.TimeSec > 0 && !math.IsInf(e.TimeSec, 0) && !math.IsNaN(e.TimeSec)
}

type Workout struct {
	ID         uuid.UUID  `json:"id"`
	AthleteID  uuid.UUID  `json:"user_id"`
	Date       Date       `json:"date"`
	SessionTag SessionTag `json:"tag_seance"`
	Efforts    []Effort   `json:"efforts"`
}

// WorkoutAnalysis is derived from a workout; one row per workout id.
type WorkoutAnalysis struct {
	WorkoutID       uuid.UUID `json:"workout_id"`
	AthleteID       uuid.UUID `json:"user_id"`
	BestTimeSec     float64   `json:"meilleur_temps"`
	PerfVsRecordPct *float64  `json:"perf_vs_record_pct,omitempty"`
	DropOffPct      float64   `json:"fatigue_drop_off_pct"`
	Evaluation      string    `json:"evaluation"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SleepLog is one entry per (athlete, date). Quality is rated 0-5.
type SleepLog struct {
	AthleteID     uuid.UUID `json:"user_id"`
	Date          time.Time `json:"date"`
	DurationHours float64   `json:"duree_heures"`
	Quality       *float64  `json:"qualite,omitempty"`
}

// Date is a calendar day; it accepts both "2006-01-02" and RFC3339 in
// JSON, since database webhooks send plain dates.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		*d = NewDate(t)
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	*d = NewDate(t)
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

package athlete

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sprintflow/scoring/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrAnalysisNotFound = errors.New("workout analysis not found")
)

// Repo reads athlete history from postgres. Workout analyses are the only
// rows it writes.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) GetProfile(ctx context.Context, athleteID uuid.UUID) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athlete.profile")
	span.SetAttributes(attribute.String("athlete", athleteID.String()))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var p Profile
	var sex, discipline *string
	err = r.db.QueryRow(
		ctx,
		`
			SELECT
				id, date_naissance, taille_cm, sexe, discipline,
				tour_taille_cm, tour_cou_cm, tour_hanches_cm
			FROM profils
			WHERE id = $1;`,
		athleteID,
	).Scan(&p.ID, &p.BirthDate, &p.HeightCm, &sex, &discipline, &p.WaistCm, &p.NeckCm, &p.HipCm)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}

	if sex != nil {
		p.Sex = Sex(*sex)
	}
	if discipline != nil {
		p.Discipline = ParseDiscipline(*discipline)
	}

	return &p, nil
}

// ListBodyCompositions returns the most recent samples first.
func (r *Repo) ListBodyCompositions(ctx context.Context, athleteID uuid.UUID, limit int) (_ []BodyComposition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athlete.compositions")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				user_id, date, poids_kg, masse_grasse_pct, masse_maigre_kg, masse_musculaire_kg
			FROM composition_corporelle
			WHERE user_id = $1
			ORDER BY date DESC
			LIMIT $2;`,
		athleteID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	compositions := make([]BodyComposition, 0)
	for rows.Next() {
		var c BodyComposition
		if err := rows.Scan(&c.AthleteID, &c.Date, &c.WeightKg, &c.BodyFatPct, &c.LeanMassKg, &c.MuscleMassKg); err != nil {
			return nil, fmt.Errorf("scan composition: %w", err)
		}
		compositions = append(compositions, c)
	}

	return compositions, rows.Err()
}

func (r *Repo) ListExerciseRecords(ctx context.Context, athleteID uuid.UUID) (_ []ExerciseRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athlete.records")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, exercice, exercice_ref_id, valeur, unite, date
			FROM records
			WHERE user_id = $1
			ORDER BY date DESC;`,
		athleteID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]ExerciseRecord, 0)
	for rows.Next() {
		var rec ExerciseRecord
		var unit string
		if err := rows.Scan(&rec.ID, &rec.AthleteID, &rec.Exercise, &rec.ReferenceID, &rec.Value, &unit, &rec.Date); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Unit = Unit(unit)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// ListWorkouts returns workouts dated within [from, to], most recent first.
func (r *Repo) ListWorkouts(ctx context.Context, athleteID uuid.UUID, from, to time.Time) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athlete.workouts")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, date, tag_seance, efforts
			FROM workouts
			WHERE user_id = $1 AND date >= $2 AND date <= $3
			ORDER BY date DESC;`,
		athleteID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2workouts(rows)
}

// ListAllWorkouts walks every stored workout in date order; used by the
// re-analysis backfill.
func (r *Repo) ListAllWorkouts(ctx context.Context, since time.Time) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athlete.workouts.all")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, date, tag_seance, efforts
			FROM workouts
			WHERE date >= $1
			ORDER BY date ASC;`,
		since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2workouts(rows)
}

func rows2workouts(rows pgx.Rows) ([]Workout, error) {
	workouts := make([]Workout, 0)
	for rows.Next() {
		var w Workout
		var date time.Time
		var tag *string
		var effortsBytes []byte
		if err := rows.Scan(&w.ID, &w.AthleteID, &date, &tag, &effortsBytes); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		w.Date = NewDate(date)
		if tag != nil {
			w.SessionTag = SessionTag(*tag)
		}
		if len(effortsBytes) > 0 {
			if err := json.Unmarshal(effortsBytes, &w.Efforts); err != nil {
				return nil, fmt.Errorf("unmarshal efforts for workout %s: %w", w.ID, err)
			}
		}
		workouts = append(workouts, w)
	}

	return workouts, rows.Err()
}

func (r *Repo) ListSleepLogs(ctx context.Context, athleteID uuid.UUID, from, to time.Time) (_ []SleepLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athlete.sleep")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				user_id, date, duree_heures, qualite
			FROM sleep_logs
			WHERE user_id = $1 AND date >= $2 AND date <= $3
			ORDER BY date DESC;`,
		athleteID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]SleepLog, 0)
	for rows.Next() {
		var l SleepLog
		if err := rows.Scan(&l.AthleteID, &l.Date, &l.DurationHours, &l.Quality); err != nil {
			return nil, fmt.Errorf("scan sleep log: %w", err)
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}

// LatestAnalysis returns the analysis of the athlete's most recent workout.
func (r *Repo) LatestAnalysis(ctx context.Context, athleteID uuid.UUID) (_ *WorkoutAnalysis, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athlete.analysis.latest")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	return r.queryAnalysis(ctx,
		`
			SELECT
				a.workout_id, a.user_id, a.meilleur_temps, a.perf_vs_record_pct,
				a.fatigue_drop_off_pct, a.evaluation, a.updated_at
			FROM workout_analyses a
			JOIN workouts w ON w.id = a.workout_id
			WHERE a.user_id = $1
			ORDER BY w.date DESC, a.updated_at DESC
			LIMIT 1;`,
		athleteID,
	)
}

func (r *Repo) GetAnalysis(ctx context.Context, workoutID uuid.UUID) (_ *WorkoutAnalysis, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athlete.analysis.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	return r.queryAnalysis(ctx,
		`
			SELECT
				workout_id, user_id, meilleur_temps, perf_vs_record_pct,
				fatigue_drop_off_pct, evaluation, updated_at
			FROM workout_analyses
			WHERE workout_id = $1;`,
		workoutID,
	)
}

func (r *Repo) queryAnalysis(ctx context.Context, query string, arg any) (*WorkoutAnalysis, error) {
	var a WorkoutAnalysis
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&a.WorkoutID, &a.AthleteID, &a.BestTimeSec, &a.PerfVsRecordPct,
		&a.DropOffPct, &a.Evaluation, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAnalysisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query analysis: %w", err)
	}
	return &a, nil
}

// InsertAnalysis fails with a unique violation when the workout already
// has an analysis; callers fall back to UpdateAnalysis.
func (r *Repo) InsertAnalysis(ctx context.Context, a *WorkoutAnalysis) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athlete.analysis.insert")
	span.SetAttributes(attribute.String("workout", a.WorkoutID.String()))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO workout_analyses
				(workout_id, user_id, meilleur_temps, perf_vs_record_pct, fatigue_drop_off_pct, evaluation, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		a.WorkoutID, a.AthleteID, a.BestTimeSec, a.PerfVsRecordPct, a.DropOffPct, a.Evaluation, a.UpdatedAt,
	)
	return err
}

func (r *Repo) UpdateAnalysis(ctx context.Context, a *WorkoutAnalysis) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athlete.analysis.update")
	span.SetAttributes(attribute.String("workout", a.WorkoutID.String()))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout_analyses
			SET user_id = $2, meilleur_temps = $3, perf_vs_record_pct = $4,
				fatigue_drop_off_pct = $5, evaluation = $6, updated_at = $7
			WHERE workout_id = $1;`,
		a.WorkoutID, a.AthleteID, a.BestTimeSec, a.PerfVsRecordPct, a.DropOffPct, a.Evaluation, a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAnalysisNotFound
	}
	return nil
}

// ListReferenceExercises loads the catalog override table, ordered the way
// matching expects it (specific entries first).
func (r *Repo) ListReferenceExercises(ctx context.Context) (_ []ReferenceExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athlete.reference")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, nom, alias, categorie, debutant, intermediaire, avance, elite,
				unite, relatif_poids, utilisable_indice
			FROM exercices_reference
			ORDER BY ordre ASC, id ASC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]ReferenceExercise, 0)
	for rows.Next() {
		var e ReferenceExercise
		var category, unit string
		var beginner *float64
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Aliases, &category, &beginner, &e.Intermediate, &e.Advanced, &e.Elite,
			&unit, &e.RelativeToBodyweight, &e.UsableForIndex,
		); err != nil {
			return nil, fmt.Errorf("scan reference exercise: %w", err)
		}
		e.Category = Category(category)
		e.Unit = Unit(unit)
		if beginner != nil {
			e.Beginner = *beginner
		}
		exercises = append(exercises, e)
	}

	return exercises, rows.Err()
}

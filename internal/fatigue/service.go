package fatigue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sprintflow/scoring/internal/athlete"
	"github.com/sprintflow/scoring/internal/telemetry/metrics"
	"github.com/sprintflow/scoring/internal/telemetry/tracing"
	"github.com/sprintflow/scoring/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type analysisStore interface {
	ListExerciseRecords(ctx context.Context, athleteID uuid.UUID) ([]athlete.ExerciseRecord, error)
	GetAnalysis(ctx context.Context, workoutID uuid.UUID) (*athlete.WorkoutAnalysis, error)
	InsertAnalysis(ctx context.Context, a *athlete.WorkoutAnalysis) error
	UpdateAnalysis(ctx context.Context, a *athlete.WorkoutAnalysis) error
}

var ErrInvalidWorkout = errors.New("workout id and user id are required")

type Outcome string

const (
	OutcomeInserted  Outcome = "inserted"
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

type Result struct {
	Outcome    Outcome
	SkipReason SkipReason
	Analysis   *Analysis
	Row        *athlete.WorkoutAnalysis
}

type Service struct {
	store          analysisStore
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewService(store analysisStore, metricsManager *metrics.Manager, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:          store,
		metricsManager: metricsManager,
		now:            now,
	}
}

// Process analyses one workout and stores the result, one row per workout.
// Re-running it with the same workout leaves the stored row untouched.
func (s *Service) Process(ctx context.Context, workout athlete.Workout) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.fatigue.process")
	span.SetAttributes(attribute.String("workout", workout.ID.String()))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	result, err := s.process(ctx, workout)
	if err != nil {
		s.count(OutcomeFailed)
		return nil, err
	}
	s.count(result.Outcome)
	return result, nil
}

func (s *Service) process(ctx context.Context, workout athlete.Workout) (*Result, error) {
	if workout.ID == uuid.Nil || workout.AthleteID == uuid.Nil {
		return nil, ErrInvalidWorkout
	}

	records, err := s.store.ListExerciseRecords(ctx, workout.AthleteID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	analysis, skip := Analyze(workout, records)
	if skip != "" {
		log.Debugf("fatigue: workout %s skipped: %s", workout.ID, skip)
		return &Result{Outcome: OutcomeSkipped, SkipReason: skip}, nil
	}

	row := &athlete.WorkoutAnalysis{
		WorkoutID:       workout.ID,
		AthleteID:       workout.AthleteID,
		BestTimeSec:     analysis.BestTimeSec,
		PerfVsRecordPct: analysis.PerfVsRecordPct,
		DropOffPct:      analysis.DropOffPct,
		Evaluation:      analysis.Evaluation.Message,
		UpdatedAt:       s.now().UTC(),
	}

	existing, err := s.store.GetAnalysis(ctx, workout.ID)
	switch {
	case err == nil:
		if sameAnalysis(existing, row) {
			return &Result{Outcome: OutcomeUnchanged, Analysis: analysis, Row: existing}, nil
		}
		if err := s.store.UpdateAnalysis(ctx, row); err != nil {
			return nil, fmt.Errorf("update analysis: %w", err)
		}
		return &Result{Outcome: OutcomeUpdated, Analysis: analysis, Row: row}, nil
	case errors.Is(err, athlete.ErrAnalysisNotFound):
	default:
		return nil, fmt.Errorf("get analysis: %w", err)
	}

	err = s.store.InsertAnalysis(ctx, row)
	if err == nil {
		return &Result{Outcome: OutcomeInserted, Analysis: analysis, Row: row}, nil
	}
	if !pkg.IsUniqueViolationError(err) {
		return nil, fmt.Errorf("insert analysis: %w", err)
	}

	// a concurrent delivery of the same webhook inserted first
	log.Debugf("fatigue: analysis for workout %s inserted concurrently, updating", workout.ID)
	if err := s.store.UpdateAnalysis(ctx, row); err != nil {
		return nil, fmt.Errorf("update analysis after conflict: %w", err)
	}
	return &Result{Outcome: OutcomeUpdated, Analysis: analysis, Row: row}, nil
}

func (s *Service) count(outcome Outcome) {
	if s.metricsManager == nil {
		return
	}
	s.metricsManager.CounterAnalyses.WithLabelValues(string(outcome)).Inc()
}

func sameAnalysis(a, b *athlete.WorkoutAnalysis) bool {
	if a.AthleteID != b.AthleteID ||
		a.BestTimeSec != b.BestTimeSec ||
		a.DropOffPct != b.DropOffPct ||
		a.Evaluation != b.Evaluation {
		return false
	}
	if (a.PerfVsRecordPct == nil) != (b.PerfVsRecordPct == nil) {
		return false
	}
	return a.PerfVsRecordPct == nil || *a.PerfVsRecordPct == *b.PerfVsRecordPct
}

package indices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sprintflow/scoring/internal/athlete"
	"github.com/sprintflow/scoring/internal/scoring"
	"github.com/sprintflow/scoring/internal/telemetry/metrics"
	"github.com/sprintflow/scoring/internal/telemetry/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	IndexPerformance = "performance"
	IndexPower       = "poids_puissance"
	IndexForm        = "forme"

	// only the latest sample is scored, a few more help when debugging
	compositionsLimit = 5
)

type athleteReader interface {
	GetProfile(ctx context.Context, athleteID uuid.UUID) (*athlete.Profile, error)
	ListBodyCompositions(ctx context.Context, athleteID uuid.UUID, limit int) ([]athlete.BodyComposition, error)
	ListExerciseRecords(ctx context.Context, athleteID uuid.UUID) ([]athlete.ExerciseRecord, error)
	ListWorkouts(ctx context.Context, athleteID uuid.UUID, from, to time.Time) ([]athlete.Workout, error)
	ListSleepLogs(ctx context.Context, athleteID uuid.UUID, from, to time.Time) ([]athlete.SleepLog, error)
	LatestAnalysis(ctx context.Context, athleteID uuid.UUID) (*athlete.WorkoutAnalysis, error)
}

type catalogProvider interface {
	Catalog(ctx context.Context) *scoring.Catalog
}

// Service loads an athlete's history and runs the index composers on it.
type Service struct {
	reader         athleteReader
	catalogs       catalogProvider
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewService(
	reader athleteReader,
	catalogs catalogProvider,
	metricsManager *metrics.Manager,
	now func() time.Time,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		reader:         reader,
		catalogs:       catalogs,
		metricsManager: metricsManager,
		now:            now,
	}
}

type strengthData struct {
	profile      *athlete.Profile
	compositions []athlete.BodyComposition
	records      []athlete.ExerciseRecord
	catalog      *scoring.Catalog
}

func (s *Service) loadStrengthData(ctx context.Context, athleteID uuid.UUID) (*strengthData, error) {
	var data strengthData
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profile(gCtx, athleteID)
		data.profile = p
		return err
	})
	g.Go(func() error {
		c, err := s.reader.ListBodyCompositions(gCtx, athleteID, compositionsLimit)
		if err != nil {
			return fmt.Errorf("list compositions: %w", err)
		}
		data.compositions = c
		return nil
	})
	g.Go(func() error {
		r, err := s.reader.ListExerciseRecords(gCtx, athleteID)
		if err != nil {
			return fmt.Errorf("list records: %w", err)
		}
		data.records = r
		return nil
	})
	g.Go(func() error {
		data.catalog = s.catalog(gCtx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// profile treats an athlete without a profile row as one with every
// optional field absent.
func (s *Service) profile(ctx context.Context, athleteID uuid.UUID) (*athlete.Profile, error) {
	p, err := s.reader.GetProfile(ctx, athleteID)
	if errors.Is(err, athlete.ErrProfileNotFound) {
		return &athlete.Profile{ID: athleteID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *Service) catalog(ctx context.Context) *scoring.Catalog {
	if s.catalogs == nil {
		return scoring.DefaultCatalog()
	}
	return s.catalogs.Catalog(ctx)
}

// Performance returns scoring.ErrMissingData when no bodyweight is known.
func (s *Service) Performance(ctx context.Context, athleteID uuid.UUID) (_ *scoring.PerformanceResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.indices.performance")
	span.SetAttributes(attribute.String("athlete", athleteID.String()))
	defer func() { tracing.EndSpanWithErrCheck(span, ignoreMissing(err)) }()

	data, err := s.loadStrengthData(ctx, athleteID)
	if err != nil {
		return nil, err
	}

	res, err := scoring.ComputePerformance(scoring.PerformanceInput{
		Profile:      data.profile,
		Compositions: data.compositions,
		Records:      data.records,
		Catalog:      data.catalog,
		Now:          s.now(),
	})
	if err != nil {
		s.missing(IndexPerformance, err)
		return nil, err
	}
	s.metricsManager.ObserveIndex(IndexPerformance, res.Score)
	return res, nil
}

// Power returns scoring.ErrMissingData when no bodyweight is known.
func (s *Service) Power(ctx context.Context, athleteID uuid.UUID) (_ *scoring.PowerResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.indices.power")
	span.SetAttributes(attribute.String("athlete", athleteID.String()))
	defer func() { tracing.EndSpanWithErrCheck(span, ignoreMissing(err)) }()

	data, err := s.loadStrengthData(ctx, athleteID)
	if err != nil {
		return nil, err
	}

	res, err := scoring.ComputePower(scoring.PowerInput{
		Profile:      data.profile,
		Compositions: data.compositions,
		Records:      data.records,
		Catalog:      data.catalog,
		Now:          s.now(),
	})
	if err != nil {
		s.missing(IndexPower, err)
		return nil, err
	}
	s.metricsManager.ObserveIndex(IndexPower, res.Index)
	return res, nil
}

func (s *Service) Form(ctx context.Context, athleteID uuid.UUID) (_ *scoring.FormReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.indices.form")
	span.SetAttributes(attribute.String("athlete", athleteID.String()))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	now := s.now()
	from, to := scoring.FormWindow(now)

	in := scoring.FormInput{Now: now}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profile(gCtx, athleteID)
		in.Profile = p
		return err
	})
	g.Go(func() error {
		logs, err := s.reader.ListSleepLogs(gCtx, athleteID, from, to)
		if err != nil {
			return fmt.Errorf("list sleep logs: %w", err)
		}
		in.SleepLogs = logs
		return nil
	})
	g.Go(func() error {
		workouts, err := s.reader.ListWorkouts(gCtx, athleteID, from, to)
		if err != nil {
			return fmt.Errorf("list workouts: %w", err)
		}
		in.Workouts = workouts
		return nil
	})
	g.Go(func() error {
		a, err := s.reader.LatestAnalysis(gCtx, athleteID)
		if errors.Is(err, athlete.ErrAnalysisNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("latest analysis: %w", err)
		}
		in.LatestAnalysis = a
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := scoring.ComputeForm(in)
	if report.Calibration != nil {
		span.SetAttributes(attribute.Bool("calibration", true))
		if s.metricsManager != nil {
			s.metricsManager.CounterCalibration.Inc()
		}
	} else {
		s.metricsManager.ObserveIndex(IndexForm, report.Result.Score)
	}
	return &report, nil
}

func (s *Service) missing(index string, err error) {
	if s.metricsManager == nil || !errors.Is(err, scoring.ErrMissingData) {
		return
	}
	s.metricsManager.CounterMissingData.WithLabelValues(index).Inc()
}

// ignoreMissing keeps the missing data sentinel from marking spans as failed.
func ignoreMissing(err error) error {
	if errors.Is(err, scoring.ErrMissingData) {
		return nil
	}
	return err
}

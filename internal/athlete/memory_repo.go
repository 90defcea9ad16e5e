package athlete

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// MemoryRepo is an in-memory stand-in for Repo, used by tests and by the
// CLI when it runs against fixture files.
type MemoryRepo struct {
	mu           sync.Mutex
	Profiles     map[uuid.UUID]*Profile
	Compositions map[uuid.UUID][]BodyComposition
	Records      map[uuid.UUID][]ExerciseRecord
	Workouts     map[uuid.UUID][]Workout
	SleepLogs    map[uuid.UUID][]SleepLog
	Analyses     map[uuid.UUID]*WorkoutAnalysis
	Reference    []ReferenceExercise

	// Err, when set, is returned by every read.
	Err error
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		Profiles:     make(map[uuid.UUID]*Profile),
		Compositions: make(map[uuid.UUID][]BodyComposition),
		Records:      make(map[uuid.UUID][]ExerciseRecord),
		Workouts:     make(map[uuid.UUID][]Workout),
		SleepLogs:    make(map[uuid.UUID][]SleepLog),
		Analyses:     make(map[uuid.UUID]*WorkoutAnalysis),
	}
}

func (m *MemoryRepo) GetProfile(_ context.Context, athleteID uuid.UUID) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.Profiles[athleteID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryRepo) ListBodyCompositions(_ context.Context, athleteID uuid.UUID, limit int) ([]BodyComposition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	list := append([]BodyComposition(nil), m.Compositions[athleteID]...)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *MemoryRepo) ListExerciseRecords(_ context.Context, athleteID uuid.UUID) ([]ExerciseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]ExerciseRecord(nil), m.Records[athleteID]...), nil
}

func (m *MemoryRepo) ListWorkouts(_ context.Context, athleteID uuid.UUID, from, to time.Time) ([]Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var list []Workout
	for _, w := range m.Workouts[athleteID] {
		if w.Date.Before(from) || w.Date.After(to) {
			continue
		}
		list = append(list, w)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.After(list[j].Date.Time) })
	return list, nil
}

func (m *MemoryRepo) ListAllWorkouts(_ context.Context, since time.Time) ([]Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var list []Workout
	for _, workouts := range m.Workouts {
		for _, w := range workouts {
			if !w.Date.Before(since) {
				list = append(list, w)
			}
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date.Time) })
	return list, nil
}

func (m *MemoryRepo) ListSleepLogs(_ context.Context, athleteID uuid.UUID, from, to time.Time) ([]SleepLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var list []SleepLog
	for _, l := range m.SleepLogs[athleteID] {
		if l.Date.Before(from) || l.Date.After(to) {
			continue
		}
		list = append(list, l)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return list, nil
}

func (m *MemoryRepo) LatestAnalysis(_ context.Context, athleteID uuid.UUID) (*WorkoutAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	workoutDates := make(map[uuid.UUID]time.Time)
	for _, w := range m.Workouts[athleteID] {
		workoutDates[w.ID] = w.Date.Time
	}
	var latest *WorkoutAnalysis
	for _, a := range m.Analyses {
		if a.AthleteID != athleteID {
			continue
		}
		if latest == nil {
			latest = a
			continue
		}
		ad, ld := workoutDates[a.WorkoutID], workoutDates[latest.WorkoutID]
		if ad.After(ld) || (ad.Equal(ld) && a.UpdatedAt.After(latest.UpdatedAt)) {
			latest = a
		}
	}
	if latest == nil {
		return nil, ErrAnalysisNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *MemoryRepo) GetAnalysis(_ context.Context, workoutID uuid.UUID) (*WorkoutAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	a, ok := m.Analyses[workoutID]
	if !ok {
		return nil, ErrAnalysisNotFound
	}
	cp := *a
	return &cp, nil
}

// InsertAnalysis mimics the unique constraint on workout_id.
func (m *MemoryRepo) InsertAnalysis(_ context.Context, a *WorkoutAnalysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Analyses[a.WorkoutID]; exists {
		return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	}
	cp := *a
	m.Analyses[a.WorkoutID] = &cp
	return nil
}

func (m *MemoryRepo) UpdateAnalysis(_ context.Context, a *WorkoutAnalysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Analyses[a.WorkoutID]; !exists {
		return ErrAnalysisNotFound
	}
	cp := *a
	m.Analyses[a.WorkoutID] = &cp
	return nil
}

func (m *MemoryRepo) ListReferenceExercises(_ context.Context) ([]ReferenceExercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]ReferenceExercise(nil), m.Reference...), nil
}

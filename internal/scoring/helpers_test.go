package scoring

import (
	"time"

	"github.com/google/uuid"
	"github.com/sprintflow/scoring/internal/athlete"
)

func f64(v float64) *float64 {
	return &v
}

func str(s string) *string {
	return &s
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func record(name string, value float64, unit athlete.Unit) athlete.ExerciseRecord {
	return athlete.ExerciseRecord{Exercise: name, Value: value, Unit: unit}
}

func workoutOn(d time.Time) athlete.Workout {
	return athlete.Workout{ID: uuid.New(), Date: athlete.NewDate(d), SessionTag: athlete.SessionMaxVelocity}
}

func sleepOn(d time.Time, hours float64, quality *float64) athlete.SleepLog {
	return athlete.SleepLog{Date: d, DurationHours: hours, Quality: quality}
}

package fatigue

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sprintflow/scoring/internal/athlete"
	"github.com/sprintflow/scoring/internal/telemetry/tracing"
	"github.com/sprintflow/scoring/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=handler.go -destination=handler_mock_test.go -package=fatigue_test

type workoutProcessor interface {
	Process(ctx context.Context, workout athlete.Workout) (*Result, error)
}

// WebhookEvent is the database change notification for the workouts table.
type WebhookEvent struct {
	Type      string          `json:"type"`
	Table     string          `json:"table"`
	Record    json.RawMessage `json:"record"`
	OldRecord json.RawMessage `json:"old_record,omitempty"`
}

type AnalysisResponse struct {
	Success    bool                     `json:"success"`
	Skipped    bool                     `json:"skipped,omitempty"`
	Reason     SkipReason               `json:"reason,omitempty"`
	Outcome    Outcome                  `json:"outcome,omitempty"`
	Analysis   *Analysis                `json:"analyse,omitempty"`
	Evaluation *Evaluation              `json:"evaluation,omitempty"`
	Row        *athlete.WorkoutAnalysis `json:"workout_analysis,omitempty"`
}

type Handler struct {
	processor workoutProcessor
}

func NewHandler(processor workoutProcessor) *Handler {
	return &Handler{
		processor: processor,
	}
}

func (handler *Handler) HandleAnalyse(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.fatigue.analyse")
	defer span.End()

	var event WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		log.Errorf("analyse workout, unmarshal event: %s", err)
		pkg.WriteJSONError(w, "invalid webhook payload", http.StatusBadRequest)
		return
	}

	eventType := strings.ToUpper(event.Type)
	if eventType != "INSERT" && eventType != "UPDATE" {
		pkg.WriteJSONError(w, "unsupported event type: "+event.Type, http.StatusBadRequest)
		return
	}
	if len(event.Record) == 0 || string(event.Record) == "null" {
		pkg.WriteJSONError(w, "missing record", http.StatusBadRequest)
		return
	}

	var workout athlete.Workout
	if err := json.Unmarshal(event.Record, &workout); err != nil {
		log.Errorf("analyse workout, unmarshal record: %s", err)
		pkg.WriteJSONError(w, "invalid workout record", http.StatusBadRequest)
		return
	}

	result, err := handler.processor.Process(ctx, workout)
	if errors.Is(err, ErrInvalidWorkout) {
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Errorf("analyse workout %s: %s", workout.ID, err)
		pkg.WriteJSONError(w, "failed to analyse workout", http.StatusInternalServerError)
		return
	}

	if result.Outcome == OutcomeSkipped {
		pkg.WriteJSON(w, AnalysisResponse{
			Success: true,
			Skipped: true,
			Reason:  result.SkipReason,
			Outcome: result.Outcome,
		}, http.StatusOK)
		return
	}

	log.Debugf("workout %s analysed [%s]: drop-off %.2f%%", workout.ID, result.Outcome, result.Analysis.DropOffPct)
	pkg.WriteJSON(w, AnalysisResponse{
		Success:    true,
		Outcome:    result.Outcome,
		Analysis:   result.Analysis,
		Evaluation: &result.Analysis.Evaluation,
		Row:        result.Row,
	}, http.StatusOK)
}

package indices

import (
	"context"
	"errors"
	"net/http"

	"github.com/sprintflow/scoring/internal/auth"
	"github.com/sprintflow/scoring/internal/scoring"
	"github.com/sprintflow/scoring/internal/telemetry/tracing"
	"github.com/sprintflow/scoring/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=handler.go -destination=handler_mock_test.go -package=indices_test

type indicesService interface {
	Performance(ctx context.Context, athleteID uuid.UUID) (*scoring.PerformanceResult, error)
	Power(ctx context.Context, athleteID uuid.UUID) (*scoring.PowerResult, error)
	Form(ctx context.Context, athleteID uuid.UUID) (*scoring.FormReport, error)
}

// MissingPerformance is answered with a 200 when no bodyweight is known.
type MissingPerformance struct {
	Score   int    `json:"score"`
	Message string `json:"message"`
}

type MissingPower struct {
	Index   int    `json:"indice"`
	Message string `json:"message"`
}

const neutralIndex = 50

type Handler struct {
	service indicesService
}

func NewHandler(service indicesService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandlePerformance(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.indices.performance")
	defer span.End()

	athleteID, ok := auth.AthleteIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	res, err := handler.service.Performance(ctx, athleteID)
	if errors.Is(err, scoring.ErrMissingData) {
		pkg.WriteJSON(w, MissingPerformance{Score: neutralIndex, Message: scoring.MissingDataMessage}, http.StatusOK)
		return
	}
	if err != nil {
		log.Errorf("performance index [%s]: %s", athleteID, err)
		pkg.WriteJSONError(w, "failed to compute performance index", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, res, http.StatusOK)
}

func (handler *Handler) HandlePower(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.indices.power")
	defer span.End()

	athleteID, ok := auth.AthleteIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	res, err := handler.service.Power(ctx, athleteID)
	if errors.Is(err, scoring.ErrMissingData) {
		pkg.WriteJSON(w, MissingPower{Index: neutralIndex, Message: scoring.MissingDataMessage}, http.StatusOK)
		return
	}
	if err != nil {
		log.Errorf("weight/power index [%s]: %s", athleteID, err)
		pkg.WriteJSONError(w, "failed to compute weight/power index", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, res, http.StatusOK)
}

func (handler *Handler) HandleForm(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.indices.form")
	defer span.End()

	athleteID, ok := auth.AthleteIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	report, err := handler.service.Form(ctx, athleteID)
	if err != nil {
		log.Errorf("form index [%s]: %s", athleteID, err)
		pkg.WriteJSONError(w, "failed to compute form index", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, report.Payload(), http.StatusOK)
}

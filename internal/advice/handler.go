package advice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sprintflow/scoring/internal/scoring"
	"github.com/sprintflow/scoring/internal/telemetry/metrics"
	"github.com/sprintflow/scoring/internal/telemetry/tracing"
	"github.com/sprintflow/scoring/pkg"

	log "github.com/sirupsen/logrus"
)

type catalogProvider interface {
	Catalog(ctx context.Context) *scoring.Catalog
}

type Response struct {
	Generator string                   `json:"generateur"`
	Advice    []Block                  `json:"conseils"`
	Readiness *scoring.ReadinessResult `json:"forme,omitempty"`
}

type scoreDataRequest struct {
	ScoreData json.RawMessage `json:"scoreData"`
}

// formRequest is either {scoreData} or the raw readiness check-in.
type formRequest struct {
	ScoreData json.RawMessage `json:"scoreData"`
	scoring.ReadinessInput
}

// powerScoreData also accepts the {indice, message} missing data sentinel.
type powerScoreData struct {
	scoring.PowerResult
	Message string `json:"message"`
}

type Handler struct {
	catalogs       catalogProvider
	metricsManager *metrics.Manager
}

func NewHandler(catalogs catalogProvider, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		catalogs:       catalogs,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) catalog(ctx context.Context) *scoring.Catalog {
	if handler.catalogs == nil {
		return scoring.DefaultCatalog()
	}
	return handler.catalogs.Catalog(ctx)
}

func (handler *Handler) respond(w http.ResponseWriter, resp Response) {
	if handler.metricsManager != nil {
		handler.metricsManager.CounterAdvice.WithLabelValues(resp.Generator).Inc()
	}
	pkg.WriteJSON(w, resp, http.StatusOK)
}

func decodeScoreData(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	var req scoreDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("advice, unmarshal request: %s", err)
		pkg.WriteJSONError(w, "invalid json body", http.StatusBadRequest)
		return nil, false
	}
	if len(req.ScoreData) == 0 || string(req.ScoreData) == "null" {
		pkg.WriteJSONError(w, "scoreData is required", http.StatusBadRequest)
		return nil, false
	}
	return req.ScoreData, true
}

func (handler *Handler) HandlePerformance(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.advice.performance")
	defer span.End()

	raw, ok := decodeScoreData(w, r)
	if !ok {
		return
	}
	var res scoring.PerformanceResult
	if err := json.Unmarshal(raw, &res); err != nil {
		pkg.WriteJSONError(w, "invalid scoreData", http.StatusBadRequest)
		return
	}

	handler.respond(w, Response{
		Generator: GeneratorPerformance,
		Advice:    Performance(&res, handler.catalog(ctx)),
	})
}

func (handler *Handler) HandlePower(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.advice.power")
	defer span.End()

	raw, ok := decodeScoreData(w, r)
	if !ok {
		return
	}
	var data powerScoreData
	if err := json.Unmarshal(raw, &data); err != nil {
		pkg.WriteJSONError(w, "invalid scoreData", http.StatusBadRequest)
		return
	}

	var res *scoring.PowerResult
	if !missingData(data.Message) {
		res = &data.PowerResult
	}
	handler.respond(w, Response{
		Generator: GeneratorPower,
		Advice:    Power(res, handler.catalog(ctx)),
	})
}

func (handler *Handler) HandleForm(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.advice.form")
	defer span.End()

	var req formRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("form advice, unmarshal request: %s", err)
		pkg.WriteJSONError(w, "invalid json body", http.StatusBadRequest)
		return
	}

	if len(req.ScoreData) > 0 && string(req.ScoreData) != "null" {
		blocks, err := formScoreDataAdvice(req.ScoreData)
		if err != nil {
			pkg.WriteJSONError(w, "invalid scoreData", http.StatusBadRequest)
			return
		}
		handler.respond(w, Response{Generator: GeneratorForm, Advice: blocks})
		return
	}

	readiness, err := scoring.ComputeReadiness(req.ReadinessInput)
	if errors.Is(err, scoring.ErrInvalidReadiness) {
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Errorf("form advice, readiness: %s", err)
		pkg.WriteJSONError(w, "failed to compute readiness", http.StatusInternalServerError)
		return
	}
	handler.metricsManager.ObserveIndex("forme_express", readiness.Score)

	handler.respond(w, Response{
		Generator: GeneratorForm,
		Advice:    Readiness(readiness),
		Readiness: readiness,
	})
}

func formScoreDataAdvice(raw json.RawMessage) ([]Block, error) {
	var mode struct {
		Mode scoring.Mode `json:"mode"`
	}
	if err := json.Unmarshal(raw, &mode); err != nil {
		return nil, err
	}
	if mode.Mode == scoring.ModeCalibration {
		var c scoring.FormCalibration
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return FormCalibration(&c), nil
	}
	var res scoring.FormResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	return Form(&res), nil
}

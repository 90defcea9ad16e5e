package indices_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sprintflow/scoring/internal/auth"
	"github.com/sprintflow/scoring/internal/indices"
	"github.com/sprintflow/scoring/internal/scoring"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func authedRequest(athleteID uuid.UUID, path string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	return req.WithContext(auth.WithAthleteID(req.Context(), athleteID))
}

func TestHandler_HandlePerformance(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewMockindicesService(ctrl)
	h := indices.NewHandler(service)
	athleteID := uuid.New()

	service.EXPECT().Performance(gomock.Any(), athleteID).Return(&scoring.PerformanceResult{
		Score:  70,
		Mode:   scoring.ModeStandard,
		Rating: scoring.RatingMedium,
	}, nil)
	rr := httptest.NewRecorder()
	h.HandlePerformance(rr, authedRequest(athleteID, "/get_indice_performance"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"score":70`)
	assert.Contains(t, rr.Body.String(), `"niveau":"moyen"`)

	service.EXPECT().Performance(gomock.Any(), athleteID).Return(nil, scoring.ErrMissingData)
	rr = httptest.NewRecorder()
	h.HandlePerformance(rr, authedRequest(athleteID, "/get_indice_performance"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"score":50,"message":"DONNEES_MANQUANTES"}`, rr.Body.String())

	service.EXPECT().Performance(gomock.Any(), athleteID).Return(nil, errors.New("db gone"))
	rr = httptest.NewRecorder()
	h.HandlePerformance(rr, authedRequest(athleteID, "/get_indice_performance"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"failed to compute performance index"}`, rr.Body.String())
}

func TestHandler_HandlePower(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewMockindicesService(ctrl)
	h := indices.NewHandler(service)
	athleteID := uuid.New()

	service.EXPECT().Power(gomock.Any(), athleteID).Return(&scoring.PowerResult{Index: 75}, nil)
	rr := httptest.NewRecorder()
	h.HandlePower(rr, authedRequest(athleteID, "/get_indice_poids_puissance"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"indice":75`)

	service.EXPECT().Power(gomock.Any(), athleteID).Return(nil, scoring.ErrMissingData)
	rr = httptest.NewRecorder()
	h.HandlePower(rr, authedRequest(athleteID, "/get_indice_poids_puissance"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"indice":50,"message":"DONNEES_MANQUANTES"}`, rr.Body.String())
}

func TestHandler_HandleForm(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewMockindicesService(ctrl)
	h := indices.NewHandler(service)
	athleteID := uuid.New()

	service.EXPECT().Form(gomock.Any(), athleteID).Return(&scoring.FormReport{
		Calibration: &scoring.FormCalibration{
			Mode:             scoring.ModeCalibration,
			MissingSleepDays: 1,
			SleepDaysLogged:  2,
			SessionsLogged:   1,
			Message:          "saisie",
		},
	}, nil)
	rr := httptest.NewRecorder()
	h.HandleForm(rr, authedRequest(athleteID, "/get_indice_forme"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
		"mode": "calibration",
		"jours_manquants_sommeil": 1,
		"seances_manquantes": 0,
		"jours_sommeil_saisis": 2,
		"seances_saisies": 1,
		"message": "saisie"
	}`, rr.Body.String())

	service.EXPECT().Form(gomock.Any(), athleteID).Return(&scoring.FormReport{
		Result: &scoring.FormResult{Mode: scoring.ModeScore, Score: 83},
	}, nil)
	rr = httptest.NewRecorder()
	h.HandleForm(rr, authedRequest(athleteID, "/get_indice_forme"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"mode":"score"`)
	assert.Contains(t, rr.Body.String(), `"score":83`)
}

func TestHandler_RequiresAthlete(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := indices.NewHandler(NewMockindicesService(ctrl))

	for _, handle := range []http.HandlerFunc{h.HandlePerformance, h.HandlePower, h.HandleForm} {
		rr := httptest.NewRecorder()
		handle(rr, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	}
}

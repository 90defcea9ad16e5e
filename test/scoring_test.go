//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sprintflow/scoring/internal/fatigue"
	"github.com/sprintflow/scoring/internal/middleware"
	"github.com/sprintflow/scoring/internal/scoring"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) seedAthlete(ctx context.Context) {
	t := s.T()
	_, err := s.DB.ExecContext(ctx, `DELETE FROM profils WHERE id = $1`, s.athleteID)
	require.NoError(t, err)
	_, err = s.DB.ExecContext(ctx, `DELETE FROM composition_corporelle WHERE user_id = $1`, s.athleteID)
	require.NoError(t, err)
	_, err = s.DB.ExecContext(ctx, `DELETE FROM records WHERE user_id = $1`, s.athleteID)
	require.NoError(t, err)

	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO profils (id, date_naissance, taille_cm, sexe, discipline) VALUES ($1, $2, $3, $4, $5)`,
		s.athleteID, time.Now().AddDate(-25, 0, -10), 180.0, "homme", "sprint",
	)
	require.NoError(t, err)
	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO composition_corporelle (user_id, date, poids_kg, masse_grasse_pct) VALUES ($1, $2, $3, $4)`,
		s.athleteID, time.Now().AddDate(0, 0, -1), 80.0, 9.0,
	)
	require.NoError(t, err)
	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO records (user_id, exercice, exercice_ref_id, valeur, unite, date) VALUES
			($1, 'DC', 'developpe_couche', 104, 'kg', $2),
			($1, '100m', NULL, 11.0, 's', $2)`,
		s.athleteID, time.Now().AddDate(0, -1, 0),
	)
	require.NoError(t, err)
}

func (s *IntegrationTestSuite) TestHealth() {
	t := s.T()
	resp, err := http.Get(serverEndpoint + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func (s *IntegrationTestSuite) TestPerformanceIndex() {
	t := s.T()
	s.seedAthlete(context.Background())

	resp, err := s.post("/get_indice_performance", `{}`, nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = s.post("/get_indice_performance", `{}`, map[string]string{"Authorization": "Bearer " + testToken})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var perf scoring.PerformanceResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&perf))
	assert.Equal(t, scoring.ModeExpert, perf.Mode)
	assert.Equal(t, 25, perf.Age)
	assert.Equal(t, 100, perf.CompositionScore)
	assert.Equal(t, 75, perf.ForceScore)
	// round(100*0.35 + 75*0.65), no age modifier at 25
	assert.Equal(t, 84, perf.Score)
}

func (s *IntegrationTestSuite) TestFormCalibration() {
	t := s.T()
	s.seedAthlete(context.Background())

	resp, err := s.post("/get_indice_forme", `{}`, map[string]string{"Authorization": "Bearer " + testToken})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var calibration scoring.FormCalibration
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&calibration))
	assert.Equal(t, scoring.ModeCalibration, calibration.Mode)
}

func (s *IntegrationTestSuite) TestWorkoutAnalysisWebhook() {
	t := s.T()
	ctx := context.Background()
	s.seedAthlete(ctx)

	workoutID := uuid.New()
	day := time.Now().Format(time.DateOnly)
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO workouts (id, user_id, date, tag_seance, efforts) VALUES ($1, $2, $3, 'vitesse_max', $4)`,
		workoutID, s.athleteID, day, `[{"temps": 11.2, "distance": 100}, {"temps": 11.5, "distance": 100}, {"temps": 11.8, "distance": 100}]`,
	)
	require.NoError(t, err)

	event := fmt.Sprintf(`{"type":"INSERT","table":"workouts","record":{
		"id": %q,
		"user_id": %q,
		"date": %q,
		"tag_seance": "vitesse_max",
		"efforts": [{"temps": 11.2, "distance": 100}, {"temps": 11.5, "distance": 100}, {"temps": 11.8, "distance": 100}]
	}}`, workoutID, s.athleteID, day)
	webhookHeaders := map[string]string{middleware.WebhookSecretHeader: testWebhookSecret}

	resp, err := s.post("/analyser_seance", event, nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = s.post("/analyser_seance", event, webhookHeaders)
	require.NoError(t, err)
	var first fatigue.AnalysisResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&first))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, first.Success)
	assert.Equal(t, fatigue.OutcomeInserted, first.Outcome)
	require.NotNil(t, first.Analysis)
	assert.Equal(t, 5.36, first.Analysis.DropOffPct)
	require.NotNil(t, first.Analysis.PerfVsRecordPct)
	// 11.2 / 11.0
	assert.Equal(t, 101.8, *first.Analysis.PerfVsRecordPct)

	var storedAt time.Time
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT updated_at FROM workout_analyses WHERE workout_id = $1`, workoutID,
	).Scan(&storedAt))

	// replaying the same event leaves the row untouched
	resp, err = s.post("/analyser_seance", event, webhookHeaders)
	require.NoError(t, err)
	var second fatigue.AnalysisResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&second))
	resp.Body.Close()
	assert.Equal(t, fatigue.OutcomeUnchanged, second.Outcome)

	var count int
	var replayedAt time.Time
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT count(*), max(updated_at) FROM workout_analyses WHERE workout_id = $1`, workoutID,
	).Scan(&count, &replayedAt))
	assert.Equal(t, 1, count)
	assert.True(t, storedAt.Equal(replayedAt))
}

package server

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hvac_simulator/internal/dashboard"
	"hvac_simulator/internal/model"
	"hvac_simulator/internal/simulator"
	"hvac_simulator/internal/stats"
	"hvac_simulator/internal/store"
	"hvac_simulator/internal/trainer"
)

func newTestServer(t *testing.T) (*httptest.Server, *simulator.Engine) {
	t.Helper()
	engine := simulator.New(store.New(), rand.NewPCG(1, 2), nil, zerolog.Nop())
	srv := New(Config{
		Log:         zerolog.Nop(),
		Engine:      engine,
		CORSOrigins: []string{"*"},
		DevMode:     true,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, engine
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := doJSON(t, http.MethodGet, ts.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "healthy", body["status"])
}

func TestState(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/state", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	state := decode[simulator.State](t, resp)
	assert.Equal(t, model.DefaultParameters(), state.Parameters)
	assert.False(t, state.Trained)
}

func TestSummaryBeforeTraining(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[summaryResponse](t, resp)
	assert.False(t, body.Available)
	assert.Nil(t, body.Summary)
	assert.Empty(t, body.Metrics)
}

func TestLatestRunBeforeTraining(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/runs/latest", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/export/run", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSetParametersAndEnvironment(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, ts.URL+"/api/parameters", model.SimulationParameters{
		Temperature: model.Range{Low: 19, High: 27},
		Humidity:    model.Range{Low: 45, High: 55},
		MaxEnergy:   2.5,
		TimeSteps:   15,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p := decode[model.SimulationParameters](t, resp)
	assert.Equal(t, 15, p.TimeSteps)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/environment", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env := decode[environmentResponse](t, resp)
	require.Len(t, env.Rows, 15)
	for i, r := range env.Rows {
		assert.Equal(t, i+1, r.TimeStep)
		assert.True(t, p.Temperature.Contains(r.Temperature))
		assert.True(t, p.Humidity.Contains(r.Humidity))
		assert.True(t, p.EnergyRange().Contains(r.EnergyUsage))
	}

	// Unchanged parameters serve the same table.
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/environment", nil)
	again := decode[environmentResponse](t, resp)
	assert.Equal(t, env.Rows, again.Rows)
}

func TestSetParametersPartialBodyKeepsOtherFields(t *testing.T) {
	ts, engine := newTestServer(t)

	resp := doJSON(t, http.MethodPut, ts.URL+"/api/parameters", map[string]any{"time_steps": 30})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	p := engine.State().Parameters
	assert.Equal(t, 30, p.TimeSteps)
	assert.Equal(t, model.DefaultParameters().Temperature, p.Temperature)
}

func TestSetParametersInvalidBody(t *testing.T) {
	ts, _ := newTestServer(t)
	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/parameters", strings.NewReader("{"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Contains(t, body["error"], "invalid parameters")
}

func TestTrainAndSummary(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, ts.URL+"/api/hyperparameters", model.TrainingHyperparameters{
		LearningRate: 0.01, Gamma: 0.95, Epsilon: 0.1, Episodes: 10,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/train", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	run := decode[trainer.Run](t, resp)
	require.Len(t, run.Results, 10)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/summary", nil)
	body := decode[summaryResponse](t, resp)
	require.True(t, body.Available)
	assert.Equal(t, run.ID, body.RunID)
	require.NotNil(t, body.Summary)
	assert.GreaterOrEqual(t, body.Summary.MeanEnergy, 0.5)
	assert.LessOrEqual(t, body.Summary.MeanEnergy, 5.0)
	require.Len(t, body.Metrics, 4)
	assert.Equal(t, stats.MetricMaxEnergy, body.Metrics[3].Name)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/runs/latest", nil)
	latest := decode[trainer.Run](t, resp)
	assert.Equal(t, run.ID, latest.ID)
}

func TestDashboard(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/dashboard", nil)
	view := decode[dashboard.View](t, resp)
	assert.Nil(t, view.Training)

	doJSON(t, http.MethodPut, ts.URL+"/api/display", model.DisplayOptions{ShowComfortChart: true})
	doJSON(t, http.MethodPost, ts.URL+"/api/train", nil)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/dashboard", nil)
	view = decode[dashboard.View](t, resp)
	require.NotNil(t, view.Training)
	require.Len(t, view.Training.Charts, 2)
	assert.Equal(t, dashboard.ChartComfort, view.Training.Charts[0].ID)
	assert.Equal(t, dashboard.ChartCombined, view.Training.Charts[1].ID)
}

func TestExportEnvironmentCSV(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/export/environment?format=csv", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="environment.csv"`)

	records, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 61)
	assert.Equal(t, "Time Step", records[0][0])
}

func TestExportUnknownFormat(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/export/environment?format=xml", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportRunJSON(t *testing.T) {
	ts, _ := newTestServer(t)
	doJSON(t, http.MethodPost, ts.URL+"/api/train", nil)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/export/run?format=json", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	run := decode[trainer.Run](t, resp)
	assert.Len(t, run.Results, 100)
}

func TestFrontendServed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>hvac</h1>"), 0o644))

	engine := simulator.New(store.New(), rand.NewPCG(1, 2), nil, zerolog.Nop())
	srv := New(Config{Log: zerolog.Nop(), Engine: engine, FrontendDir: dir, CORSOrigins: []string{"*"}, DevMode: true})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTrainWithHugeEpisodeCount(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, ts.URL+"/api/hyperparameters", map[string]any{"episodes": 1 << 60})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hp := decode[model.TrainingHyperparameters](t, resp)
	assert.Equal(t, model.DefaultBounds.MaxEpisodes, hp.Episodes)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/train", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/state", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decode[simulator.State](t, resp)
	assert.True(t, state.Trained)
}

package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"hvac_simulator/internal/dashboard"
	"hvac_simulator/internal/export"
	"hvac_simulator/internal/model"
	"hvac_simulator/internal/stats"
)

type summaryResponse struct {
	Available bool           `json:"available"`
	RunID     string         `json:"run_id,omitempty"`
	Summary   *stats.Summary `json:"summary,omitempty"`
	Metrics   []stats.Metric `json:"metrics,omitempty"`
}

type environmentResponse struct {
	Parameters model.SimulationParameters `json:"parameters"`
	Columns    []string                   `json:"columns"`
	Rows       []model.EnvironmentRow     `json:"rows"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "hvac-simulator",
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.State())
}

func (s *Server) handleSetParameters(w http.ResponseWriter, r *http.Request) {
	p := s.engine.State().Parameters
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid parameters: %v", err))
		return
	}
	s.writeJSON(w, http.StatusOK, s.engine.SetParameters(p))
}

func (s *Server) handleSetHyperparameters(w http.ResponseWriter, r *http.Request) {
	hp := s.engine.State().Hyperparameters
	if err := json.NewDecoder(r.Body).Decode(&hp); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid hyperparameters: %v", err))
		return
	}
	s.writeJSON(w, http.StatusOK, s.engine.SetHyperparameters(hp))
}

func (s *Server) handleSetDisplay(w http.ResponseWriter, r *http.Request) {
	d := s.engine.State().Display
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid display options: %v", err))
		return
	}
	s.engine.SetDisplay(d)
	s.writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleEnvironment(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, environmentResponse{
		Parameters: s.engine.State().Parameters,
		Columns:    model.Labels(model.EnvironmentColumns),
		Rows:       s.engine.Environment(),
	})
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	run := s.engine.Train()
	s.writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.engine.LatestRun()
	if !ok {
		s.writeError(w, http.StatusNotFound, "no training run yet")
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

// handleSummary answers with available=false before the first training run.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	run, ok := s.engine.LatestRun()
	if !ok {
		s.writeJSON(w, http.StatusOK, summaryResponse{Available: false})
		return
	}
	summary, ok := stats.Compute(run.Results)
	if !ok {
		s.writeJSON(w, http.StatusOK, summaryResponse{Available: false})
		return
	}
	s.writeJSON(w, http.StatusOK, summaryResponse{
		Available: true,
		RunID:     run.ID,
		Summary:   &summary,
		Metrics:   summary.Metrics(),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, dashboard.FromEngine(s.engine))
}

func (s *Server) handleExportEnvironment(w http.ResponseWriter, r *http.Request) {
	f, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	setAttachment(w, f, "environment")
	if err := export.WriteEnvironment(w, f, s.engine.Environment()); err != nil {
		s.log.Error().Err(err).Msg("exporting environment")
	}
}

func (s *Server) handleExportRun(w http.ResponseWriter, r *http.Request) {
	f, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	run, ok := s.engine.LatestRun()
	if !ok {
		s.writeError(w, http.StatusNotFound, "no training run yet")
		return
	}
	setAttachment(w, f, "training_"+run.ID)
	if err := export.WriteRun(w, f, run); err != nil {
		s.log.Error().Err(err).Str("run_id", run.ID).Msg("exporting run")
	}
}

func setAttachment(w http.ResponseWriter, f export.Format, name string) {
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+"."+f.Extension()))
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

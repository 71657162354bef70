package ws

import (
	"encoding/json"
	"time"

	"hvac_simulator/internal/model"
	"hvac_simulator/internal/simulator"
	"hvac_simulator/internal/stats"
	"hvac_simulator/internal/trainer"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message type constants
const (
	// Client -> Server
	TypeParamsSet   = "params:set"
	TypeAgentConfig = "agent:config"
	TypeDisplaySet  = "display:set"
	TypeAgentTrain  = "agent:train"

	// Server -> Client
	TypeSimState       = "sim:state"
	TypeEnvData        = "env:data"
	TypeTrainStarted   = "train:started"
	TypeTrainCompleted = "train:completed"
	TypeSummaryUpdate  = "summary:update"
	TypeDashboardView  = "dashboard:view"
)

// Client -> Server messages

type ParamsPayload struct {
	TemperatureRange [2]float64 `json:"temperature_range"`
	HumidityRange    [2]float64 `json:"humidity_range"`
	MaxEnergy        float64    `json:"max_energy"`
	TimeSteps        int        `json:"time_steps"`
}

type AgentConfigPayload struct {
	LearningRate float64 `json:"learning_rate"`
	Gamma        float64 `json:"gamma"`
	Epsilon      float64 `json:"epsilon"`
	Episodes     int     `json:"episodes"`
}

type DisplayPayload struct {
	ShowComfortChart bool `json:"show_comfort_chart"`
	ShowEnergyChart  bool `json:"show_energy_chart"`
}

// Server -> Client messages

type SimStatePayload struct {
	Params       ParamsPayload      `json:"params"`
	Agent        AgentConfigPayload `json:"agent"`
	Display      DisplayPayload     `json:"display"`
	Trained      bool               `json:"trained"`
	LastRunID    string             `json:"last_run_id,omitempty"`
	CachedTables int                `json:"cached_tables"`
}

type EnvDataPayload struct {
	Params  ParamsPayload          `json:"params"`
	Columns []string               `json:"columns"`
	Rows    []model.EnvironmentRow `json:"rows"`
}

type TrainStartedPayload struct {
	Episodes int `json:"episodes"`
}

type TrainCompletedPayload struct {
	RunID          string    `json:"run_id"`
	Episodes       int       `json:"episodes"`
	ComfortScores  []float64 `json:"comfort_scores"`
	EnergyConsumed []float64 `json:"energy_consumed"`
	CompletedAt    string    `json:"completed_at"`
}

type SummaryPayload struct {
	Episodes int            `json:"episodes"`
	Metrics  []stats.Metric `json:"metrics"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

func ParamsFromModel(p model.SimulationParameters) ParamsPayload {
	return ParamsPayload{
		TemperatureRange: [2]float64{p.Temperature.Low, p.Temperature.High},
		HumidityRange:    [2]float64{p.Humidity.Low, p.Humidity.High},
		MaxEnergy:        p.MaxEnergy,
		TimeSteps:        p.TimeSteps,
	}
}

func (p ParamsPayload) ToModel() model.SimulationParameters {
	return model.SimulationParameters{
		Temperature: model.Range{Low: p.TemperatureRange[0], High: p.TemperatureRange[1]},
		Humidity:    model.Range{Low: p.HumidityRange[0], High: p.HumidityRange[1]},
		MaxEnergy:   p.MaxEnergy,
		TimeSteps:   p.TimeSteps,
	}
}

func AgentConfigFromModel(hp model.TrainingHyperparameters) AgentConfigPayload {
	return AgentConfigPayload{
		LearningRate: hp.LearningRate,
		Gamma:        hp.Gamma,
		Epsilon:      hp.Epsilon,
		Episodes:     hp.Episodes,
	}
}

func (p AgentConfigPayload) ToModel() model.TrainingHyperparameters {
	return model.TrainingHyperparameters{
		LearningRate: p.LearningRate,
		Gamma:        p.Gamma,
		Epsilon:      p.Epsilon,
		Episodes:     p.Episodes,
	}
}

func DisplayFromModel(d model.DisplayOptions) DisplayPayload {
	return DisplayPayload{
		ShowComfortChart: d.ShowComfortChart,
		ShowEnergyChart:  d.ShowEnergyChart,
	}
}

func (p DisplayPayload) ToModel() model.DisplayOptions {
	return model.DisplayOptions{
		ShowComfortChart: p.ShowComfortChart,
		ShowEnergyChart:  p.ShowEnergyChart,
	}
}

func SimStateFromEngine(s simulator.State) SimStatePayload {
	return SimStatePayload{
		Params:       ParamsFromModel(s.Parameters),
		Agent:        AgentConfigFromModel(s.Hyperparameters),
		Display:      DisplayFromModel(s.Display),
		Trained:      s.Trained,
		LastRunID:    s.LastRunID,
		CachedTables: s.CachedTables,
	}
}

func EnvDataFromRows(p model.SimulationParameters, rows []model.EnvironmentRow) EnvDataPayload {
	return EnvDataPayload{
		Params:  ParamsFromModel(p),
		Columns: model.Labels(model.EnvironmentColumns),
		Rows:    rows,
	}
}

func TrainCompletedFromRun(run trainer.Run) TrainCompletedPayload {
	return TrainCompletedPayload{
		RunID:          run.ID,
		Episodes:       run.Len(),
		ComfortScores:  run.ComfortScores(),
		EnergyConsumed: run.EnergyConsumed(),
		CompletedAt:    run.CompletedAt.Format(time.RFC3339),
	}
}

func SummaryFromStats(s stats.Summary) SummaryPayload {
	return SummaryPayload{
		Episodes: s.Episodes,
		Metrics:  s.Metrics(),
	}
}

package ws

import (
	"github.com/rs/zerolog"

	"hvac_simulator/internal/model"
	"hvac_simulator/internal/simulator"
	"hvac_simulator/internal/stats"
	"hvac_simulator/internal/trainer"
)

// Bridge implements simulator.Callback and broadcasts events to the WebSocket hub.
type Bridge struct {
	hub *Hub
	log zerolog.Logger
}

func NewBridge(hub *Hub) *Bridge {
	return &Bridge{hub: hub, log: hub.log.With().Str("component", "ws_bridge").Logger()}
}

func (b *Bridge) OnState(s simulator.State) {
	b.broadcast(TypeSimState, SimStateFromEngine(s))
}

func (b *Bridge) OnEnvironment(p model.SimulationParameters, rows []model.EnvironmentRow) {
	b.broadcast(TypeEnvData, EnvDataFromRows(p, rows))
}

func (b *Bridge) OnTrainingStarted(hp model.TrainingHyperparameters) {
	b.broadcast(TypeTrainStarted, TrainStartedPayload{Episodes: hp.Episodes})
}

func (b *Bridge) OnTrainingCompleted(run trainer.Run) {
	b.broadcast(TypeTrainCompleted, TrainCompletedFromRun(run))
}

func (b *Bridge) OnSummary(s stats.Summary) {
	b.broadcast(TypeSummaryUpdate, SummaryFromStats(s))
}

func (b *Bridge) broadcast(msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		b.log.Error().Err(err).Str("type", msgType).Msg("marshaling message")
		return
	}
	b.hub.Broadcast(msg)
}

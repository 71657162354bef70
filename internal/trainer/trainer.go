// Package trainer produces mock reinforcement-learning training runs.
//
// No agent is trained. Each episode draws a comfort score from
// [ComfortScoreMin, ComfortScoreMax] and an energy figure from
// [MinEnergyUsage, MaxEnergy], independent of every other episode. Learning
// rate, gamma and epsilon are recorded on the Run but do not influence output.
package trainer

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat/distuv"

	"hvac_simulator/internal/model"
)

// Run is the complete result of one training invocation. A new Run replaces
// the previous one; results are never accumulated across runs.
type Run struct {
	ID              string                        `json:"id"`
	Parameters      model.SimulationParameters    `json:"parameters"`
	Hyperparameters model.TrainingHyperparameters `json:"hyperparameters"`
	Results         []model.EpisodeResult         `json:"results"`
	StartedAt       time.Time                     `json:"started_at"`
	CompletedAt     time.Time                     `json:"completed_at"`
}

// Trainer runs mock training against a shared random source.
type Trainer struct {
	src rand.Source
	now func() time.Time
}

func New(src rand.Source) *Trainer {
	return &Trainer{src: src, now: time.Now}
}

// Train runs hp.Episodes mock episodes.
func (t *Trainer) Train(p model.SimulationParameters, hp model.TrainingHyperparameters) Run {
	started := t.now().UTC()
	results := Episodes(t.src, p.MaxEnergy, hp.Episodes)
	return Run{
		ID:              uuid.New().String(),
		Parameters:      p,
		Hyperparameters: hp,
		Results:         results,
		StartedAt:       started,
		CompletedAt:     t.now().UTC(),
	}
}

// Episodes draws n independent episode results, indexed from 0.
func Episodes(src rand.Source, maxEnergy float64, n int) []model.EpisodeResult {
	if n <= 0 {
		return []model.EpisodeResult{}
	}

	comfort := distuv.Uniform{Min: model.ComfortScoreMin, Max: model.ComfortScoreMax, Src: src}
	energy := distuv.Uniform{Min: model.MinEnergyUsage, Max: maxEnergy, Src: src}

	results := make([]model.EpisodeResult, n)
	for i := range results {
		results[i] = model.EpisodeResult{
			Episode:        i,
			ComfortScore:   comfort.Rand(),
			EnergyConsumed: energy.Rand(),
		}
	}
	return results
}

// Len returns the number of episodes in the run.
func (r *Run) Len() int {
	return len(r.Results)
}

// ComfortScores returns the comfort score of every episode in order.
func (r *Run) ComfortScores() []float64 {
	out := make([]float64, len(r.Results))
	for i, res := range r.Results {
		out[i] = res.ComfortScore
	}
	return out
}

// EnergyConsumed returns the energy figure of every episode in order.
func (r *Run) EnergyConsumed() []float64 {
	out := make([]float64, len(r.Results))
	for i, res := range r.Results {
		out[i] = res.EnergyConsumed
	}
	return out
}

// Duration is the wall time the run took.
func (r *Run) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

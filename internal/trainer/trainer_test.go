package trainer

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hvac_simulator/internal/model"
)

func newTestTrainer() *Trainer {
	tr := New(rand.NewPCG(7, 11))
	base := time.Date(2024, 11, 21, 12, 0, 0, 0, time.UTC)
	calls := 0
	tr.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Millisecond)
	}
	return tr
}

func TestTrain_Scenario(t *testing.T) {
	tr := newTestTrainer()
	p := model.DefaultParameters()
	hp := model.DefaultHyperparameters()
	hp.Episodes = 10

	run := tr.Train(p, hp)
	require.Len(t, run.Results, 10)

	var sum float64
	for i, r := range run.Results {
		assert.Equal(t, i, r.Episode)
		assert.GreaterOrEqual(t, r.ComfortScore, 0.7)
		assert.LessOrEqual(t, r.ComfortScore, 1.0)
		assert.GreaterOrEqual(t, r.EnergyConsumed, 0.5)
		assert.LessOrEqual(t, r.EnergyConsumed, 5.0)
		sum += r.EnergyConsumed
	}
	mean := sum / 10
	assert.GreaterOrEqual(t, mean, 0.5)
	assert.LessOrEqual(t, mean, 5.0)
}

func TestTrain_RecordsInputs(t *testing.T) {
	tr := newTestTrainer()
	p := model.DefaultParameters()
	hp := model.TrainingHyperparameters{LearningRate: 0.2, Gamma: 0.5, Epsilon: 0.3, Episodes: 12}

	run := tr.Train(p, hp)
	assert.Equal(t, p, run.Parameters)
	assert.Equal(t, hp, run.Hyperparameters)
	_, err := uuid.Parse(run.ID)
	assert.NoError(t, err)
	assert.Equal(t, time.Millisecond, run.Duration())
}

func TestTrain_ReplacesNotAccumulates(t *testing.T) {
	tr := newTestTrainer()
	p := model.DefaultParameters()

	first := tr.Train(p, model.TrainingHyperparameters{Episodes: 30})
	second := tr.Train(p, model.TrainingHyperparameters{Episodes: 12})

	assert.Equal(t, 30, first.Len())
	assert.Equal(t, 12, second.Len())
	assert.NotEqual(t, first.ID, second.ID)
}

func TestTrain_UnusedHyperparametersDoNotChangeOutput(t *testing.T) {
	p := model.DefaultParameters()
	a := Episodes(rand.NewPCG(3, 4), p.MaxEnergy, 20)

	// Same seed, same episode count: the result only depends on those.
	tr := New(rand.NewPCG(3, 4))
	run := tr.Train(p, model.TrainingHyperparameters{LearningRate: 0.9, Gamma: 0.1, Epsilon: 1, Episodes: 20})
	assert.Equal(t, a, run.Results)
}

func TestEpisodes_Bounds(t *testing.T) {
	src := rand.NewPCG(5, 6)
	for _, n := range []int{1, 10, 100, 1000} {
		results := Episodes(src, 8.5, n)
		require.Len(t, results, n)
		for _, r := range results {
			assert.True(t, model.Range{Low: 0.7, High: 1.0}.Contains(r.ComfortScore))
			assert.True(t, model.Range{Low: 0.5, High: 8.5}.Contains(r.EnergyConsumed))
		}
	}
}

func TestEpisodes_Empty(t *testing.T) {
	assert.Empty(t, Episodes(rand.NewPCG(1, 1), 5, 0))
}

func TestRun_Series(t *testing.T) {
	run := Run{Results: []model.EpisodeResult{
		{Episode: 0, ComfortScore: 0.8, EnergyConsumed: 1.5},
		{Episode: 1, ComfortScore: 0.9, EnergyConsumed: 2.5},
	}}
	assert.Equal(t, []float64{0.8, 0.9}, run.ComfortScores())
	assert.Equal(t, []float64{1.5, 2.5}, run.EnergyConsumed())
}

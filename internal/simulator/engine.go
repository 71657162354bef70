package simulator

import (
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog"

	"hvac_simulator/internal/environment"
	"hvac_simulator/internal/model"
	"hvac_simulator/internal/stats"
	"hvac_simulator/internal/store"
	"hvac_simulator/internal/trainer"
)

// State is a snapshot of the session inputs and what has been produced so far.
type State struct {
	Parameters      model.SimulationParameters    `json:"parameters"`
	Hyperparameters model.TrainingHyperparameters `json:"hyperparameters"`
	Display         model.DisplayOptions          `json:"display"`
	Trained         bool                          `json:"trained"`
	LastRunID       string                        `json:"last_run_id,omitempty"`
	CachedTables    int                           `json:"cached_tables"`
}

// Callback receives session events.
type Callback interface {
	OnState(state State)
	OnEnvironment(params model.SimulationParameters, rows []model.EnvironmentRow)
	OnTrainingStarted(hp model.TrainingHyperparameters)
	OnTrainingCompleted(run trainer.Run)
	OnSummary(summary stats.Summary)
}

// Engine owns the single interactive session: the current inputs, the
// memoized environment tables and the latest training run.
type Engine struct {
	mu       sync.Mutex
	store    *store.Store
	trainer  *trainer.Trainer
	src      rand.Source
	callback Callback
	bounds   model.Bounds
	log      zerolog.Logger

	params  model.SimulationParameters
	hyper   model.TrainingHyperparameters
	display model.DisplayOptions

	// Replaced in full by every Train call; nil until the first one.
	latest *trainer.Run
}

// New creates an engine with default inputs. src is shared by the
// environment simulator and the trainer and is only used with mu held.
func New(s *store.Store, src rand.Source, cb Callback, log zerolog.Logger) *Engine {
	if cb == nil {
		cb = nopCallback{}
	}
	return &Engine{
		store:    s,
		trainer:  trainer.New(src),
		src:      src,
		callback: cb,
		bounds:   model.DefaultBounds,
		log:      log.With().Str("component", "engine").Logger(),
		params:   model.DefaultParameters(),
		hyper:    model.DefaultHyperparameters(),
		display:  model.DefaultDisplayOptions(),
	}
}

// State returns the current session state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

func (e *Engine) stateLocked() State {
	s := State{
		Parameters:      e.params,
		Hyperparameters: e.hyper,
		Display:         e.display,
		CachedTables:    e.store.Len(),
	}
	if e.latest != nil {
		s.Trained = true
		s.LastRunID = e.latest.ID
	}
	return s
}

// SetParameters clamps p to the input bounds, makes it current and
// regenerates the environment table for it.
func (e *Engine) SetParameters(p model.SimulationParameters) model.SimulationParameters {
	p = e.bounds.ClampParameters(p)
	rows := e.applyParameters(p)

	e.log.Debug().
		Float64("temp_low", p.Temperature.Low).
		Float64("temp_high", p.Temperature.High).
		Float64("humidity_low", p.Humidity.Low).
		Float64("humidity_high", p.Humidity.High).
		Float64("max_energy", p.MaxEnergy).
		Int("time_steps", p.TimeSteps).
		Msg("parameters updated")

	e.callback.OnEnvironment(p, rows)
	e.broadcastState()
	return p
}

// applyParameters makes p current and returns its table under one lock.
func (e *Engine) applyParameters(p model.SimulationParameters) []model.EnvironmentRow {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params = p
	return e.environmentLocked(p)
}

// SetHyperparameters clamps hp to the input bounds and makes it current.
// Existing results are kept until the next Train.
func (e *Engine) SetHyperparameters(hp model.TrainingHyperparameters) model.TrainingHyperparameters {
	hp = e.bounds.ClampHyperparameters(hp)

	e.mu.Lock()
	e.hyper = hp
	e.mu.Unlock()

	e.broadcastState()
	return hp
}

// SetDisplay updates the chart toggles.
func (e *Engine) SetDisplay(d model.DisplayOptions) {
	e.mu.Lock()
	e.display = d
	e.mu.Unlock()

	e.broadcastState()
}

// Environment returns the table for the current parameters. Repeated calls
// with unchanged parameters return the memoized table.
func (e *Engine) Environment() []model.EnvironmentRow {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.environmentLocked(e.params)
}

func (e *Engine) environmentLocked(p model.SimulationParameters) []model.EnvironmentRow {
	rows, cached := e.store.TableOrCreate(p, func() []model.EnvironmentRow {
		return environment.Simulate(e.src, p)
	})
	if !cached {
		e.log.Debug().Int("rows", len(rows)).Msg("environment sampled")
	}
	return rows
}

// Snapshot is the session read under a single lock: the state, the table for
// the current parameters and the latest run (nil before any training).
type Snapshot struct {
	State       State
	Environment []model.EnvironmentRow
	Run         *trainer.Run
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{Environment: e.environmentLocked(e.params)}
	snap.State = e.stateLocked()
	if e.latest != nil {
		run := *e.latest
		snap.Run = &run
	}
	return snap
}

// Train runs the mock trainer with the current inputs and replaces the
// latest run.
func (e *Engine) Train() trainer.Run {
	e.mu.Lock()
	p, hp := e.params, e.hyper
	e.mu.Unlock()

	e.callback.OnTrainingStarted(hp)
	run := e.train(p, hp)

	e.log.Info().
		Str("run_id", run.ID).
		Int("episodes", run.Len()).
		Dur("duration", run.Duration()).
		Msg("training completed")

	e.callback.OnTrainingCompleted(run)
	e.broadcastSummary()
	e.broadcastState()
	return run
}

func (e *Engine) train(p model.SimulationParameters, hp model.TrainingHyperparameters) trainer.Run {
	e.mu.Lock()
	defer e.mu.Unlock()
	run := e.trainer.Train(p, hp)
	e.latest = &run
	return run
}

// LatestRun returns the most recent training run.
func (e *Engine) LatestRun() (trainer.Run, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.latest == nil {
		return trainer.Run{}, false
	}
	return *e.latest, true
}

// Summary aggregates the latest run. It returns false before any training.
func (e *Engine) Summary() (stats.Summary, bool) {
	run, ok := e.LatestRun()
	if !ok {
		return stats.Summary{}, false
	}
	return stats.Compute(run.Results)
}

func (e *Engine) broadcastState() {
	e.callback.OnState(e.State())
}

func (e *Engine) broadcastSummary() {
	if s, ok := e.Summary(); ok {
		e.callback.OnSummary(s)
	}
}

type nopCallback struct{}

func (nopCallback) OnState(State) {}
func (nopCallback) OnEnvironment(model.SimulationParameters, []model.EnvironmentRow) {}
func (nopCallback) OnTrainingStarted(model.TrainingHyperparameters) {}
func (nopCallback) OnTrainingCompleted(trainer.Run) {}
func (nopCallback) OnSummary(stats.Summary) {}

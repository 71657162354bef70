package dashboard

import "hvac_simulator/internal/simulator"

// FromEngine builds the view from one consistent snapshot of the engine.
func FromEngine(e *simulator.Engine) View {
	snap := e.Snapshot()
	return Build(Input{
		Environment: snap.Environment,
		Run:         snap.Run,
		Display:     snap.State.Display,
	})
}

package model

import "math"

// Bounds are the limits the input layer enforces before values reach the
// simulator or trainer.
type Bounds struct {
	Temperature  Range
	Humidity     Range
	MinMaxEnergy float64
	MinTimeSteps int
	MaxTimeSteps int

	MinLearningRate float64
	Gamma           Range
	Epsilon         Range
	MinEpisodes     int
	MaxEpisodes     int
}

// DefaultBounds mirrors the dashboard's sidebar widgets. The upper limits on
// time steps and episodes keep a single request from allocating without bound.
var DefaultBounds = Bounds{
	Temperature:  Range{Low: 18, High: 30},
	Humidity:     Range{Low: 30, High: 70},
	MinMaxEnergy: 0.1,
	MinTimeSteps: 10,
	MaxTimeSteps: 100_000,

	MinLearningRate: 0.001,
	Gamma:           Range{Low: 0.1, High: 1.0},
	Epsilon:         Range{Low: 0.01, High: 1.0},
	MinEpisodes:     10,
	MaxEpisodes:     100_000,
}

// ClampParameters forces p into the widget limits. Slider endpoints are
// whole numbers and an inverted range is swapped.
func (b Bounds) ClampParameters(p SimulationParameters) SimulationParameters {
	p.Temperature = clampSlider(p.Temperature, b.Temperature)
	p.Humidity = clampSlider(p.Humidity, b.Humidity)
	if math.IsNaN(p.MaxEnergy) || p.MaxEnergy < b.MinMaxEnergy {
		p.MaxEnergy = b.MinMaxEnergy
	}
	p.TimeSteps = clampInt(p.TimeSteps, b.MinTimeSteps, b.MaxTimeSteps)
	return p
}

// ClampHyperparameters forces hp into the widget limits.
func (b Bounds) ClampHyperparameters(hp TrainingHyperparameters) TrainingHyperparameters {
	if math.IsNaN(hp.LearningRate) || hp.LearningRate < b.MinLearningRate {
		hp.LearningRate = b.MinLearningRate
	}
	hp.Gamma = clamp(hp.Gamma, b.Gamma)
	hp.Epsilon = clamp(hp.Epsilon, b.Epsilon)
	hp.Episodes = clampInt(hp.Episodes, b.MinEpisodes, b.MaxEpisodes)
	return hp
}

func clampSlider(r, limits Range) Range {
	lo := clamp(math.Round(r.Low), limits)
	hi := clamp(math.Round(r.High), limits)
	if lo > hi {
		lo, hi = hi, lo
	}
	return Range{Low: lo, High: hi}
}

func clamp(v float64, limits Range) float64 {
	if math.IsNaN(v) || v < limits.Low {
		return limits.Low
	}
	if v > limits.High {
		return limits.High
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if hi > 0 && v > hi {
		return hi
	}
	return v
}

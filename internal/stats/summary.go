// Package stats derives summary metrics from mock training results.
package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"hvac_simulator/internal/model"
)

// Summary holds the aggregate metrics of one training run.
type Summary struct {
	Episodes    int     `json:"episodes"`
	MeanComfort float64 `json:"mean_comfort"`
	MeanEnergy  float64 `json:"mean_energy"`
	MinEnergy   float64 `json:"min_energy"`
	MaxEnergy   float64 `json:"max_energy"`
}

// Metric is one named row of the summary table.
type Metric struct {
	Name  string  `json:"metric"`
	Value float64 `json:"value"`
}

// Metric names, in table order.
const (
	MetricMeanComfort = "Average Comfort Score"
	MetricMeanEnergy  = "Average Energy Consumed (kW)"
	MetricMinEnergy   = "Minimum Energy Consumed (kW)"
	MetricMaxEnergy   = "Maximum Energy Consumed (kW)"
)

// Compute aggregates results. It returns false for an empty slice, which the
// caller treats as "nothing to show" rather than an error.
func Compute(results []model.EpisodeResult) (Summary, bool) {
	if len(results) == 0 {
		return Summary{}, false
	}

	comfort := make([]float64, len(results))
	energy := make([]float64, len(results))
	for i, r := range results {
		comfort[i] = r.ComfortScore
		energy[i] = r.EnergyConsumed
	}

	return Summary{
		Episodes:    len(results),
		MeanComfort: stat.Mean(comfort, nil),
		MeanEnergy:  stat.Mean(energy, nil),
		MinEnergy:   floats.Min(energy),
		MaxEnergy:   floats.Max(energy),
	}, true
}

// Metrics returns the four-row summary table.
func (s Summary) Metrics() []Metric {
	return []Metric{
		{Name: MetricMeanComfort, Value: s.MeanComfort},
		{Name: MetricMeanEnergy, Value: s.MeanEnergy},
		{Name: MetricMinEnergy, Value: s.MinEnergy},
		{Name: MetricMaxEnergy, Value: s.MaxEnergy},
	}
}

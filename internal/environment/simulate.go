// Package environment generates synthetic HVAC operating data.
package environment

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"hvac_simulator/internal/model"
)

// Simulate draws p.TimeSteps rows. Time steps run 1..TimeSteps; temperature,
// humidity and energy usage are independent uniform draws from their ranges.
// Inputs are not validated; callers clamp them first.
func Simulate(src rand.Source, p model.SimulationParameters) []model.EnvironmentRow {
	if p.TimeSteps <= 0 {
		return []model.EnvironmentRow{}
	}

	temp := uniform(src, p.Temperature)
	humidity := uniform(src, p.Humidity)
	energy := uniform(src, p.EnergyRange())

	rows := make([]model.EnvironmentRow, p.TimeSteps)
	for i := range rows {
		rows[i] = model.EnvironmentRow{
			TimeStep:    i + 1,
			Temperature: temp.Rand(),
			Humidity:    humidity.Rand(),
			EnergyUsage: energy.Rand(),
		}
	}
	return rows
}

func uniform(src rand.Source, r model.Range) distuv.Uniform {
	return distuv.Uniform{Min: r.Low, Max: r.High, Src: src}
}

// Package dashboard assembles what the rendering layer displays: the
// environment table, the training charts and the summary table.
package dashboard

import (
	"github.com/gomarkdown/markdown"

	"hvac_simulator/internal/model"
	"hvac_simulator/internal/stats"
	"hvac_simulator/internal/trainer"
)

const (
	ChartComfort  = "comfort"
	ChartEnergy   = "energy"
	ChartCombined = "combined"
)

// View is the full dashboard payload.
type View struct {
	Title       string            `json:"title"`
	Intro       string            `json:"intro_html"`
	Environment EnvironmentTable  `json:"environment"`
	Training    *TrainingAnalysis `json:"training,omitempty"`
}

type EnvironmentTable struct {
	Heading string                 `json:"heading"`
	Columns []string               `json:"columns"`
	Rows    []model.EnvironmentRow `json:"rows"`
}

// TrainingAnalysis is present only once a training run exists.
type TrainingAnalysis struct {
	Heading string         `json:"heading"`
	RunID   string         `json:"run_id"`
	Charts  []Chart        `json:"charts"`
	Summary []stats.Metric `json:"summary"`
}

type Chart struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Caption string   `json:"caption_html"`
	Series  []Series `json:"series"`
}

// Series is one line of a chart, indexed by episode.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Input is everything a view is built from.
type Input struct {
	Environment []model.EnvironmentRow
	Run         *trainer.Run
	Display     model.DisplayOptions
}

// Build assembles the view. Charts and the summary are omitted when there is
// no run or the run has no episodes.
func Build(in Input) View {
	v := View{
		Title: title,
		Intro: renderMarkdown(intro),
		Environment: EnvironmentTable{
			Heading: "Simulated Environment Data",
			Columns: model.Labels(model.EnvironmentColumns),
			Rows:    in.Environment,
		},
	}
	if in.Run == nil {
		return v
	}

	summary, ok := stats.Compute(in.Run.Results)
	if !ok {
		return v
	}

	comfort := Series{Name: model.ColumnCatalog[model.ColumnComfortScore].Label(), Values: in.Run.ComfortScores()}
	energy := Series{Name: model.ColumnCatalog[model.ColumnEnergyConsumed].Label(), Values: in.Run.EnergyConsumed()}

	var charts []Chart
	if in.Display.ShowComfortChart {
		charts = append(charts, newChart(ChartComfort, comfort))
	}
	if in.Display.ShowEnergyChart {
		charts = append(charts, newChart(ChartEnergy, energy))
	}
	charts = append(charts, newChart(ChartCombined, comfort, energy))

	v.Training = &TrainingAnalysis{
		Heading: "Energy Consumption and Comfort Score Analysis",
		RunID:   in.Run.ID,
		Charts:  charts,
		Summary: summary.Metrics(),
	}
	return v
}

func newChart(id string, series ...Series) Chart {
	c := chartCopy[id]
	return Chart{
		ID:      id,
		Title:   c.title,
		Caption: renderMarkdown(c.caption),
		Series:  series,
	}
}

func renderMarkdown(s string) string {
	return string(markdown.ToHTML([]byte(s), nil, nil))
}

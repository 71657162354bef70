package model

// Sampling intervals shared by the environment simulator and the mock trainer.
const (
	MinEnergyUsage  = 0.5 // kW, lower bound of every energy draw
	ComfortScoreMin = 0.7
	ComfortScoreMax = 1.0
)

// Range is a closed [Low, High] interval.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether v lies within the closed interval.
func (r Range) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// SimulationParameters are the operating ranges of one environment run.
// The struct is comparable and doubles as the memoization key.
type SimulationParameters struct {
	Temperature Range   `json:"temperature"` // °C
	Humidity    Range   `json:"humidity"`    // %
	MaxEnergy   float64 `json:"max_energy"`  // kW
	TimeSteps   int     `json:"time_steps"`  // minutes
}

// EnergyRange returns the interval energy draws are taken from.
func (p SimulationParameters) EnergyRange() Range {
	return Range{Low: MinEnergyUsage, High: p.MaxEnergy}
}

// TrainingHyperparameters configure a training run. Only Episodes affects the
// mock trainer; the rest are carried for a future agent.
type TrainingHyperparameters struct {
	LearningRate float64 `json:"learning_rate"`
	Gamma        float64 `json:"gamma"`
	Epsilon      float64 `json:"epsilon"`
	Episodes     int     `json:"episodes"`
}

// DisplayOptions toggle the per-metric charts.
type DisplayOptions struct {
	ShowComfortChart bool `json:"show_comfort_chart"`
	ShowEnergyChart  bool `json:"show_energy_chart"`
}

// EnvironmentRow is one synthetic time step.
type EnvironmentRow struct {
	TimeStep    int     `json:"time_step"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	EnergyUsage float64 `json:"energy_usage"`
}

// EpisodeResult holds the metrics of one mock training episode.
type EpisodeResult struct {
	Episode        int     `json:"episode"`
	ComfortScore   float64 `json:"comfort_score"`
	EnergyConsumed float64 `json:"energy_consumed"`
}

func DefaultParameters() SimulationParameters {
	return SimulationParameters{
		Temperature: Range{Low: 22, High: 25},
		Humidity:    Range{Low: 40, High: 60},
		MaxEnergy:   5.0,
		TimeSteps:   60,
	}
}

func DefaultHyperparameters() TrainingHyperparameters {
	return TrainingHyperparameters{
		LearningRate: 0.01,
		Gamma:        0.95,
		Epsilon:      0.1,
		Episodes:     100,
	}
}

func DefaultDisplayOptions() DisplayOptions {
	return DisplayOptions{ShowComfortChart: true, ShowEnergyChart: true}
}

// ColumnInfo holds display name and unit for a table column.
type ColumnInfo struct {
	Name string
	Unit string
}

// Label returns the column header, e.g. "Temperature (°C)".
func (c ColumnInfo) Label() string {
	if c.Unit == "" {
		return c.Name
	}
	return c.Name + " (" + c.Unit + ")"
}

type Column string

const (
	ColumnTimeStep       Column = "time_step"
	ColumnTemperature    Column = "temperature"
	ColumnHumidity       Column = "humidity"
	ColumnEnergyUsage    Column = "energy_usage"
	ColumnComfortScore   Column = "comfort_score"
	ColumnEnergyConsumed Column = "energy_consumed"
)

// ColumnCatalog maps every known column to its display name and unit.
var ColumnCatalog = map[Column]ColumnInfo{
	ColumnTimeStep:       {Name: "Time Step"},
	ColumnTemperature:    {Name: "Temperature", Unit: "°C"},
	ColumnHumidity:       {Name: "Humidity", Unit: "%"},
	ColumnEnergyUsage:    {Name: "Energy Usage", Unit: "kW"},
	ColumnComfortScore:   {Name: "Comfort Score"},
	ColumnEnergyConsumed: {Name: "Energy Consumed", Unit: "kW"},
}

// EnvironmentColumns is the column order of the environment table.
var EnvironmentColumns = []Column{ColumnTimeStep, ColumnTemperature, ColumnHumidity, ColumnEnergyUsage}

// EpisodeColumns is the column order of per-episode training output.
var EpisodeColumns = []Column{ColumnComfortScore, ColumnEnergyConsumed}

// Labels returns the header labels for the given columns.
func Labels(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = ColumnCatalog[c].Label()
	}
	return out
}

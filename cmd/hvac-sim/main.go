package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"hvac_simulator/internal/export"
	"hvac_simulator/internal/logger"
	"hvac_simulator/internal/model"
	"hvac_simulator/internal/simulator"
	"hvac_simulator/internal/stats"
	"hvac_simulator/internal/store"
	"hvac_simulator/internal/trainer"
)

// collector implements simulator.Callback, keeping only the latest summary.
type collector struct {
	summary stats.Summary
	trained bool
}

func (c *collector) OnState(simulator.State) {}
func (c *collector) OnEnvironment(model.SimulationParameters, []model.EnvironmentRow) {}
func (c *collector) OnTrainingStarted(model.TrainingHyperparameters) {}
func (c *collector) OnTrainingCompleted(trainer.Run) {}
func (c *collector) OnSummary(s stats.Summary) { c.summary, c.trained = s, true }

type options struct {
	params  model.SimulationParameters
	hyper   model.TrainingHyperparameters
	display model.DisplayOptions
	train   bool
	rows    int
	seed    uint64
	outDir  string
	format  string
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.New(logger.Config{Level: "warn", Pretty: true})
	if err := run(os.Stdout, opts, log); err != nil {
		log.Fatal().Err(err).Msg("hvac-sim failed")
	}
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("hvac-sim", flag.ContinueOnError)
	def := model.DefaultParameters()
	defHP := model.DefaultHyperparameters()

	tempFlag := fs.String("temp", formatRange(def.Temperature), "desired temperature range in °C, low,high")
	humFlag := fs.String("humidity", formatRange(def.Humidity), "desired humidity range in %, low,high")
	maxEnergy := fs.Float64("max-energy", def.MaxEnergy, "maximum energy consumption in kW")
	timeSteps := fs.Int("time-steps", def.TimeSteps, "number of time steps (minutes)")
	lr := fs.Float64("learning-rate", defHP.LearningRate, "learning rate")
	gamma := fs.Float64("gamma", defHP.Gamma, "discount factor")
	epsilon := fs.Float64("epsilon", defHP.Epsilon, "exploration rate")
	episodes := fs.Int("episodes", defHP.Episodes, "number of training episodes")
	train := fs.Bool("train", true, "run mock training after simulating")
	rows := fs.Int("rows", 10, "environment rows to print (0 prints all)")
	seed := fs.Uint64("seed", 0, "random seed (0 seeds from the runtime)")
	outDir := fs.String("out", "", "directory to write exports to")
	format := fs.String("format", "csv", "export format: csv, json, msgpack")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	temp, err := parseRange(*tempFlag)
	if err != nil {
		return options{}, fmt.Errorf("invalid -temp %q: %w", *tempFlag, err)
	}
	hum, err := parseRange(*humFlag)
	if err != nil {
		return options{}, fmt.Errorf("invalid -humidity %q: %w", *humFlag, err)
	}

	return options{
		params: model.SimulationParameters{
			Temperature: temp,
			Humidity:    hum,
			MaxEnergy:   *maxEnergy,
			TimeSteps:   *timeSteps,
		},
		hyper: model.TrainingHyperparameters{
			LearningRate: *lr,
			Gamma:        *gamma,
			Epsilon:      *epsilon,
			Episodes:     *episodes,
		},
		display: model.DefaultDisplayOptions(),
		train:   *train,
		rows:    *rows,
		seed:    *seed,
		outDir:  *outDir,
		format:  *format,
	}, nil
}

func run(w io.Writer, opts options, log zerolog.Logger) error {
	f, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	src := rand.NewPCG(opts.seed, opts.seed)
	if opts.seed == 0 {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	cb := &collector{}
	engine := simulator.New(store.New(), src, cb, log)
	params := engine.SetParameters(opts.params)
	engine.SetHyperparameters(opts.hyper)

	env := engine.Environment()
	fmt.Fprintln(w, "Simulated Environment Data")
	printEnvironment(w, env, opts.rows)
	fmt.Fprintln(w)

	if opts.outDir != "" {
		if err := writeFile(filepath.Join(opts.outDir, "environment."+f.Extension()), func(out io.Writer) error {
			return export.WriteEnvironment(out, f, env)
		}); err != nil {
			return err
		}
	}

	if !opts.train {
		return nil
	}

	fmt.Fprintln(w, "Training RL Agent...")
	runResult := engine.Train()
	fmt.Fprintf(w, "Training completed! run=%s episodes=%d max_energy=%.1f\n\n", runResult.ID, runResult.Len(), params.MaxEnergy)

	if cb.trained {
		fmt.Fprintln(w, "Summary Statistics")
		printSummary(w, cb.summary)
	}

	if opts.outDir != "" {
		return writeFile(filepath.Join(opts.outDir, "training."+f.Extension()), func(out io.Writer) error {
			return export.WriteRun(out, f, runResult)
		})
	}
	return nil
}

func printEnvironment(w io.Writer, rows []model.EnvironmentRow, limit int) {
	labels := model.Labels(model.EnvironmentColumns)
	fmt.Fprintf(w, "%10s %18s %14s %18s\n", labels[0], labels[1], labels[2], labels[3])
	fmt.Fprintln(w, strings.Repeat("-", 63))
	for i, r := range rows {
		if limit > 0 && i >= limit {
			fmt.Fprintf(w, "... %d more rows\n", len(rows)-limit)
			break
		}
		fmt.Fprintf(w, "%10d %18.2f %14.2f %18.3f\n", r.TimeStep, r.Temperature, r.Humidity, r.EnergyUsage)
	}
}

func printSummary(w io.Writer, s stats.Summary) {
	fmt.Fprintf(w, "%-30s %10s\n", "Metric", "Value")
	fmt.Fprintln(w, strings.Repeat("-", 41))
	for _, m := range s.Metrics() {
		fmt.Fprintf(w, "%-30s %10.4f\n", m.Name, m.Value)
	}
}

func writeFile(path string, encode func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func parseRange(s string) (model.Range, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return model.Range{}, fmt.Errorf("expected low,high")
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return model.Range{}, err
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return model.Range{}, err
	}
	return model.Range{Low: lo, High: hi}, nil
}

func formatRange(r model.Range) string {
	return strconv.FormatFloat(r.Low, 'f', -1, 64) + "," + strconv.FormatFloat(r.High, 'f', -1, 64)
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/alanderos91/BindrTest/internal/lattice"
)

func main() {
	var (
		modelFile = flag.String("model-file", "", "path to model config file, JSON or YAML (required)")
		finalTime = flag.Float64("final-time", 0, "override the config's final time")
		algorithm = flag.String("algorithm", "", "override the algorithm: direct or first-reaction")
		seed      = flag.Int64("seed", 0, "override the random seed (0 keeps the config's choice)")
		samples   = flag.Int("samples", 0, "override the number of uniform sample checkpoints")
		ensemble  = flag.Int("ensemble", 1, "number of independent replicate runs")
		outFile   = flag.String("out", "", "optional path to write the trajectory as JSON")
		verbose   = flag.Bool("verbose", false, "log compile warnings and run progress")
	)
	flag.Parse()

	if *modelFile == "" {
		fmt.Fprintf(os.Stderr, "error: --model-file is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := lattice.LoadModelConfig(*modelFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading model: %v\n", err)
		os.Exit(1)
	}
	applyOverrides(&cfg, *finalTime, *algorithm, *seed, *samples)

	var logger lattice.Logger = lattice.NewNoOpLogger()
	if *verbose {
		logger = stderrLogger{}
	}

	model, initial, err := lattice.BuildModelFromConfigWithLogger(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error building model: %v\n", err)
		os.Exit(1)
	}

	// Ctrl-C cancels cooperatively; the partial trajectory is still printed.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *ensemble > 1 {
		runEnsemble(ctx, cfg, model, initial, *ensemble)
		return
	}

	sim := lattice.NewSimulatorFromConfig(cfg, model)
	sim.SetLogger(logger)
	result, err := sim.Run(ctx, initial, cfg.FinalTime, cfg.ResolveSampleTimes())
	if err != nil {
		fmt.Fprintf(os.Stderr, "run ended early: %v\n", err)
	}
	printSummary(cfg.Name, result)

	if *outFile != "" && result != nil {
		if err := writeTrajectory(*outFile, result); err != nil {
			fmt.Fprintf(os.Stderr, "error writing trajectory: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("trajectory written to %s\n", *outFile)
	}
	if err != nil {
		os.Exit(1)
	}
}

func applyOverrides(cfg *lattice.ModelConfig, finalTime float64, algorithm string, seed int64, samples int) {
	if finalTime > 0 {
		cfg.FinalTime = finalTime
	}
	if algorithm != "" {
		cfg.Algorithm = algorithm
	}
	if seed != 0 {
		cfg.Seed = &seed
	}
	if samples > 0 {
		cfg.SampleTimes = nil
		cfg.SampleCount = samples
	}
}

func runEnsemble(ctx context.Context, cfg lattice.ModelConfig, model *lattice.EnumeratedModel, initial *lattice.State, n int) {
	alg, _ := lattice.ParseAlgorithm(cfg.Algorithm)
	spec := lattice.RunSpec{
		ModelName:   cfg.Name,
		Model:       model,
		Initial:     initial,
		Algorithm:   alg,
		FinalTime:   cfg.FinalTime,
		SampleTimes: cfg.ResolveSampleTimes(),
		Seed:        cfg.Seed,
		MaxEvents:   cfg.MaxEvents,
	}
	results, err := lattice.Ensemble(ctx, spec, n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ensemble ended early: %v\n", err)
	}
	for i, result := range results {
		fmt.Printf("--- replicate %d/%d ---\n", i+1, n)
		printSummary(cfg.Name, result)
	}
	if err != nil {
		os.Exit(1)
	}
}

func printSummary(name string, result *lattice.Result) {
	if result == nil {
		return
	}
	fmt.Printf("model:  %s\n", name)
	fmt.Printf("status: %s\n", result.Status)
	fmt.Printf("events: %d\n", result.Events)
	fmt.Printf("t_end:  %g\n", result.FinalTime)

	final, ok := result.Trajectory.Final()
	if !ok {
		return
	}
	counts := final.Snapshot.Counts()
	symbols := make([]string, 0, len(counts))
	for sym := range counts {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	fmt.Printf("final counts at t=%g:\n", final.Time)
	for _, sym := range symbols {
		fmt.Printf("  %-12s %d\n", sym, counts[sym])
	}
}

func writeTrajectory(path string, result *lattice.Result) error {
	data, err := json.MarshalIndent(result.Trajectory.Samples(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// stderrLogger is a minimal Logger for --verbose runs.
type stderrLogger struct{}

func (stderrLogger) Debugf(format string, v ...any) { fmt.Fprintf(os.Stderr, "[debug] "+format+"\n", v...) }
func (stderrLogger) Infof(format string, v ...any)  { fmt.Fprintf(os.Stderr, "[info] "+format+"\n", v...) }
func (stderrLogger) Warnf(format string, v ...any)  { fmt.Fprintf(os.Stderr, "[warn] "+format+"\n", v...) }
func (stderrLogger) Errorf(format string, v ...any) { fmt.Fprintf(os.Stderr, "[error] "+format+"\n", v...) }

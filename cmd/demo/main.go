// Demo: a spatial predator-prey system simulated to completion, with the
// population curve printed per checkpoint and a small ensemble summarizing
// run-to-run variability.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/alanderos91/BindrTest/internal/lattice"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := predatorPreyConfig()
	model, initial, err := lattice.BuildModelFromConfig(cfg)
	if err != nil {
		log.Fatalf("failed to build model: %v", err)
	}

	fmt.Printf("model %s: %d rules, %d channels, %d initial agents\n",
		cfg.Name, model.Table().NumRules(), len(model.Channels()), initial.Len())

	sim := lattice.NewSimulatorFromConfig(cfg, model)
	sim.SetSampleHook(func(s lattice.Sample) {
		counts := s.Snapshot.Counts()
		fmt.Printf("t=%7.2f  rabbits=%4d  wolves=%4d\n", s.Time, counts["Rabbit"], counts["Wolf"])
	})

	res, err := sim.Run(ctx, initial, cfg.FinalTime, cfg.ResolveSampleTimes())
	if res == nil {
		log.Fatalf("run failed: %v", err)
	}
	if err != nil {
		fmt.Printf("\nrun ended early: %v\n", err)
	}
	fmt.Printf("\nrun %s after %d events at t=%.2f\n", res.Status, res.Events, res.FinalTime)

	runEnsemble(ctx, cfg)
}

// runEnsemble repeats the model a few times with decorrelated seeds and
// reports the spread of the final wolf population.
func runEnsemble(ctx context.Context, cfg lattice.ModelConfig) {
	const replicates = 5

	model, initial, err := lattice.BuildModelFromConfig(cfg)
	if err != nil {
		log.Fatalf("failed to rebuild model: %v", err)
	}
	alg, _ := lattice.ParseAlgorithm(cfg.Algorithm)

	results, err := lattice.Ensemble(ctx, lattice.RunSpec{
		ModelName:   cfg.Name,
		Model:       model,
		Initial:     initial,
		Algorithm:   alg,
		FinalTime:   cfg.FinalTime,
		SampleTimes: cfg.ResolveSampleTimes(),
		Seed:        cfg.Seed,
		MaxEvents:   cfg.MaxEvents,
	}, replicates)
	if err != nil {
		fmt.Printf("ensemble ended early: %v\n", err)
	}

	fmt.Printf("\nensemble of %d replicates:\n", replicates)
	for i, res := range results {
		if res == nil {
			continue
		}
		final, ok := res.Trajectory.Final()
		if !ok {
			fmt.Printf("  replicate %d: %s, no samples\n", i, res.Status)
			continue
		}
		counts := final.Snapshot.Counts()
		fmt.Printf("  replicate %d: %s, %d events, final rabbits=%d wolves=%d\n",
			i, res.Status, res.Events, counts["Rabbit"], counts["Wolf"])
	}
}

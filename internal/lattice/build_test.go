package lattice

import (
	"context"
	"testing"
)

func TestBuildModelFromConfig(t *testing.T) {
	cfg := baseModelConfig()
	cfg.Bounds = &BoundsConfig{Min: CoordConfig{X: 0, Y: 0}, Max: CoordConfig{X: 9, Y: 9}}

	model, st, err := BuildModelFromConfig(cfg)
	if err != nil {
		t.Fatalf("BuildModelFromConfig failed: %v", err)
	}

	// One pair rule (4 offsets in 2D) plus one unary rule.
	if got := len(model.Channels()); got != 5 {
		t.Errorf("Expected 5 channels, got %d", got)
	}
	counts := st.Counts()
	if counts["Rabbit"] != 1 || counts["Wolf"] != 1 {
		t.Errorf("Unexpected initial counts: %v", counts)
	}
	if _, ok := st.Bounds(); !ok {
		t.Error("Expected bounds on the built state")
	}
}

func TestBuildModelFromConfig_Barriers(t *testing.T) {
	cfg := baseModelConfig()
	cfg.Rules = append(cfg.Rules, "Rock --> Rock, inert")
	cfg.RateNames = append(cfg.RateNames, "inert")
	cfg.Params = append(cfg.Params, 0.0)
	cfg.Barriers = []SiteConfig{{CoordConfig: CoordConfig{X: 5, Y: 5}, Symbol: "Rock"}}

	_, st, err := BuildModelFromConfig(cfg)
	if err != nil {
		t.Fatalf("BuildModelFromConfig failed: %v", err)
	}
	if !st.IsBarrier(Coord{X: 5, Y: 5}) {
		t.Error("Barrier site should be pinned")
	}
}

func TestBuildModelFromConfig_UnknownInitialSymbol(t *testing.T) {
	cfg := baseModelConfig()
	cfg.Initial = append(cfg.Initial, SiteConfig{CoordConfig: CoordConfig{X: 8, Y: 8}, Symbol: "Dragon"})

	_, _, err := BuildModelFromConfig(cfg)
	if err == nil {
		t.Fatal("Expected an error for a symbol appearing in no rule")
	}
	if _, ok := err.(*ConfigurationError); !ok {
		t.Errorf("Expected *ConfigurationError, got %T: %v", err, err)
	}
}

func TestNewSimulatorFromConfig_EndToEnd(t *testing.T) {
	seed := int64(17)
	cfg := ModelConfig{
		Name:      "decay",
		Rules:     []string{"A --> 0, k"},
		RateNames: []string{"k"},
		Params:    []float64{1.0},
		Topology:  TopologyConfig{Shape: "nearest-neighbor", Dim: 1},
		Bounds:    &BoundsConfig{Min: CoordConfig{X: 0}, Max: CoordConfig{X: 9}},
		Initial: []SiteConfig{
			{CoordConfig: CoordConfig{X: 0}, Symbol: "A"},
			{CoordConfig: CoordConfig{X: 5}, Symbol: "A"},
			{CoordConfig: CoordConfig{X: 9}, Symbol: "A"},
		},
		FinalTime:   100.0,
		SampleCount: 5,
		Seed:        &seed,
	}

	model, st, err := BuildModelFromConfig(cfg)
	if err != nil {
		t.Fatalf("BuildModelFromConfig failed: %v", err)
	}
	sim := NewSimulatorFromConfig(cfg, model)

	res, err := sim.Run(context.Background(), st, cfg.FinalTime, cfg.ResolveSampleTimes())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Status != StatusCompleted || res.Events != 3 {
		t.Errorf("Expected completion after 3 decays, got status=%s events=%d", res.Status, res.Events)
	}
	if res.Trajectory.Len() != 5 {
		t.Errorf("Expected 5 samples, got %d", res.Trajectory.Len())
	}
}

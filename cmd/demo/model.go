package main

import (
	"github.com/alanderos91/BindrTest/internal/lattice"
)

// predatorPreyConfig is a spatial Lotka-Volterra model on a 50x50 lattice:
// rabbits reproduce into vacant neighbor sites, wolves convert rabbits, both
// species diffuse, and wolves die spontaneously. A wall of rock barrier
// sites splits the domain, leaving a narrow gap.
func predatorPreyConfig() lattice.ModelConfig {
	seed := int64(1903)
	cfg := lattice.ModelConfig{
		Name: "predator-prey",
		Rules: []string{
			"Rabbit + 0 --> Rabbit + Rabbit, birth",
			"Wolf + Rabbit --> Wolf + Wolf, predation",
			"Wolf --> 0, death",
			"Rabbit + 0 --> 0 + Rabbit, hop",
			"Wolf + 0 --> 0 + Wolf, hop",
			"Rock --> Rock, inert",
		},
		RateNames: []string{"birth", "predation", "death", "hop", "inert"},
		Params:    []float64{0.25, 0.3, 0.1, 1.0, 0.0},
		Topology:  lattice.TopologyConfig{Shape: "nearest-neighbor", Dim: 2},
		Bounds: &lattice.BoundsConfig{
			Min: lattice.CoordConfig{X: 0, Y: 0},
			Max: lattice.CoordConfig{X: 49, Y: 49},
		},
		Algorithm:   "direct",
		FinalTime:   60.0,
		SampleCount: 30,
		Seed:        &seed,
		MaxEvents:   2_000_000,
	}

	// Rabbits scattered on a coarse grid, a small wolf pack in one corner.
	for x := 5; x < 45; x += 4 {
		for y := 5; y < 45; y += 4 {
			cfg.Initial = append(cfg.Initial, lattice.SiteConfig{
				CoordConfig: lattice.CoordConfig{X: x, Y: y},
				Symbol:      "Rabbit",
			})
		}
	}
	for x := 46; x <= 48; x++ {
		for y := 46; y <= 48; y++ {
			cfg.Initial = append(cfg.Initial, lattice.SiteConfig{
				CoordConfig: lattice.CoordConfig{X: x, Y: y},
				Symbol:      "Wolf",
			})
		}
	}

	// A rock wall splitting the left edge from the rest of the domain,
	// with a gap wolves and rabbits have to funnel through.
	for y := 0; y < 50; y++ {
		if y >= 23 && y <= 26 {
			continue
		}
		cfg.Barriers = append(cfg.Barriers, lattice.SiteConfig{
			CoordConfig: lattice.CoordConfig{X: 10, Y: y},
			Symbol:      "Rock",
		})
	}

	return cfg
}

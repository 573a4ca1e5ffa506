package lattice

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CoordConfig is a lattice coordinate in a model config file.
type CoordConfig struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y,omitempty" yaml:"y,omitempty"`
	Z int `json:"z,omitempty" yaml:"z,omitempty"`
}

func (c CoordConfig) coord() Coord {
	return Coord{X: c.X, Y: c.Y, Z: c.Z}
}

// SiteConfig assigns a symbol to one coordinate.
type SiteConfig struct {
	CoordConfig `yaml:",inline"`
	Symbol      string `json:"symbol" yaml:"symbol"`
}

// TopologyConfig selects the neighborhood shape and dimensionality.
type TopologyConfig struct {
	Shape string `json:"shape" yaml:"shape"`
	Dim   int    `json:"dim" yaml:"dim"`
}

// BoundsConfig declares an inclusive domain limit.
type BoundsConfig struct {
	Min CoordConfig `json:"min" yaml:"min"`
	Max CoordConfig `json:"max" yaml:"max"`
}

// ModelConfig is the declarative description of a complete simulation:
// rules, parameters, topology, initial condition and run settings. It is
// the payload of model files and of the server's model endpoint.
type ModelConfig struct {
	Name      string   `json:"name" yaml:"name"`
	Rules     []string `json:"rules" yaml:"rules"`
	RateNames []string `json:"rate_names" yaml:"rate_names"`
	// Params binds a value to every rate name, in rate_names order.
	Params []float64 `json:"params" yaml:"params"`

	Topology TopologyConfig `json:"topology" yaml:"topology"`
	Bounds   *BoundsConfig  `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Initial  []SiteConfig   `json:"initial" yaml:"initial"`
	Barriers []SiteConfig   `json:"barriers,omitempty" yaml:"barriers,omitempty"`

	Algorithm string  `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	FinalTime float64 `json:"final_time" yaml:"final_time"`
	// SampleTimes lists explicit checkpoints; when empty, SampleCount spaces
	// checkpoints uniformly over (0, final_time].
	SampleTimes []float64 `json:"sample_times,omitempty" yaml:"sample_times,omitempty"`
	SampleCount int       `json:"sample_count,omitempty" yaml:"sample_count,omitempty"`

	Seed      *int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
	MaxEvents int    `json:"max_events,omitempty" yaml:"max_events,omitempty"`
}

// ResolveSampleTimes returns the checkpoint grid the config asks for.
func (cfg ModelConfig) ResolveSampleTimes() []float64 {
	if len(cfg.SampleTimes) > 0 {
		return cfg.SampleTimes
	}
	return UniformSamples(cfg.SampleCount, cfg.FinalTime)
}

// LoadModelConfig reads a model config file, decoding YAML for .yaml/.yml
// files and JSON otherwise. The config is validated before it is returned.
func LoadModelConfig(path string) (ModelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ModelConfig{}, fmt.Errorf("failed to read model config: %w", err)
	}
	var cfg ModelConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return ModelConfig{}, fmt.Errorf("invalid model config yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return ModelConfig{}, fmt.Errorf("invalid model config json: %w", err)
		}
	}
	if err := ValidateModelConfig(cfg); err != nil {
		return ModelConfig{}, err
	}
	return cfg, nil
}

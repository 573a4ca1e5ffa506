package lattice

// ValidateModelConfig performs structural validation of a ModelConfig before
// any compilation or enumeration happens. It accumulates every issue it can
// find into a single ConfigurationError.
//
// Rule syntax and rate-name cross references are checked later by the
// compiler; this pass covers everything detectable without parsing rules.
func ValidateModelConfig(cfg ModelConfig) error {
	cfgErr := &ConfigurationError{}

	if cfg.Name == "" {
		cfgErr.Add("model name is required")
	}
	if len(cfg.Rules) == 0 {
		cfgErr.Add("at least one rule is required")
	}
	if len(cfg.RateNames) == 0 {
		cfgErr.Add("at least one rate name is required")
	}
	if len(cfg.Params) != len(cfg.RateNames) {
		cfgErr.Addf("params has %d values but %d rate names are declared", len(cfg.Params), len(cfg.RateNames))
	}

	if cfg.Topology.Dim < 1 || cfg.Topology.Dim > 3 {
		cfgErr.Addf("topology dim must be 1, 2 or 3, got %d", cfg.Topology.Dim)
	}
	shape, ok := ParseNeighborhood(cfg.Topology.Shape)
	if !ok {
		cfgErr.Addf("unknown neighborhood shape %q", cfg.Topology.Shape)
	} else if cfg.Topology.Dim >= 1 && cfg.Topology.Dim <= 3 {
		if _, err := shape.Offsets(cfg.Topology.Dim); err != nil {
			// Shape/dim mismatch stays a TopologyError so callers can tell
			// it apart from plain config mistakes.
			return err
		}
	}

	if _, ok := ParseAlgorithm(cfg.Algorithm); !ok {
		cfgErr.Addf("unknown algorithm %q", cfg.Algorithm)
	}

	if cfg.FinalTime <= 0 {
		cfgErr.Addf("final_time must be positive, got %g", cfg.FinalTime)
	}
	for _, t := range cfg.SampleTimes {
		if t < 0 {
			cfgErr.Addf("sample time %g is negative", t)
		}
	}
	if cfg.SampleCount < 0 {
		cfgErr.Addf("sample_count must not be negative, got %d", cfg.SampleCount)
	}
	if cfg.MaxEvents < 0 {
		cfgErr.Addf("max_events must not be negative, got %d", cfg.MaxEvents)
	}

	if len(cfg.Initial) == 0 {
		cfgErr.Add("initial condition is empty")
	}
	seen := make(map[Coord]struct{}, len(cfg.Initial)+len(cfg.Barriers))
	checkSites := func(kind string, sites []SiteConfig) {
		for _, site := range sites {
			if site.Symbol == "" {
				cfgErr.Addf("%s site %v has no symbol", kind, site.coord())
			}
			c := site.coord()
			if _, dup := seen[c]; dup {
				cfgErr.Addf("duplicate coordinate %v", c)
				continue
			}
			seen[c] = struct{}{}
		}
	}
	checkSites("initial", cfg.Initial)
	checkSites("barrier", cfg.Barriers)

	if cfgErr.HasIssues() {
		return cfgErr
	}
	return nil
}

package lattice

// BuildModelFromConfig compiles and enumerates a validated ModelConfig into
// an executable model and its initial lattice state.
func BuildModelFromConfig(cfg ModelConfig) (*EnumeratedModel, *State, error) {
	return buildModel(cfg, NewNoOpLogger())
}

// BuildModelFromConfigWithLogger is BuildModelFromConfig with compile
// warnings (e.g. unused rate names) routed to the given logger.
func BuildModelFromConfigWithLogger(cfg ModelConfig, logger Logger) (*EnumeratedModel, *State, error) {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	return buildModel(cfg, logger)
}

func buildModel(cfg ModelConfig, logger Logger) (*EnumeratedModel, *State, error) {
	if err := ValidateModelConfig(cfg); err != nil {
		return nil, nil, err
	}

	table, err := NewCompilerWithLogger(logger).Compile(cfg.Rules, cfg.RateNames)
	if err != nil {
		return nil, nil, err
	}

	shape, _ := ParseNeighborhood(cfg.Topology.Shape)
	model, err := Enumerate(table, shape, cfg.Topology.Dim, cfg.Params)
	if err != nil {
		return nil, nil, err
	}

	st, err := NewState(table.Alphabet(), cfg.Topology.Dim)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Bounds != nil {
		if err := st.SetBounds(Bounds{Min: cfg.Bounds.Min.coord(), Max: cfg.Bounds.Max.coord()}); err != nil {
			return nil, nil, err
		}
	}

	cfgErr := &ConfigurationError{}
	for _, site := range cfg.Initial {
		sym, ok := table.Alphabet().Symbol(site.Symbol)
		if !ok {
			cfgErr.Addf("initial site %v uses symbol %q which appears in no rule", site.coord(), site.Symbol)
			continue
		}
		if sym == Empty {
			continue
		}
		if st.Get(site.coord()) != Empty {
			cfgErr.Addf("duplicate coordinate %v", site.coord())
			continue
		}
		if err := st.Set(site.coord(), sym); err != nil {
			cfgErr.Add(err.Error())
		}
	}
	for _, site := range cfg.Barriers {
		sym, ok := table.Alphabet().Symbol(site.Symbol)
		if !ok {
			cfgErr.Addf("barrier site %v uses symbol %q which appears in no rule", site.coord(), site.Symbol)
			continue
		}
		if err := st.PinBarrier(sym, site.coord()); err != nil {
			cfgErr.Add(err.Error())
		}
	}
	if cfgErr.HasIssues() {
		return nil, nil, cfgErr
	}

	return model, st, nil
}

// NewSimulatorFromConfig builds a simulator honoring the config's algorithm,
// seed and event budget.
func NewSimulatorFromConfig(cfg ModelConfig, model *EnumeratedModel) *Simulator {
	alg, _ := ParseAlgorithm(cfg.Algorithm)
	sim := NewSimulator(model, alg)
	if cfg.Seed != nil {
		sim.Seed(*cfg.Seed)
	}
	if cfg.MaxEvents > 0 {
		sim.SetMaxEvents(cfg.MaxEvents)
	}
	return sim
}

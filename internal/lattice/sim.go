package lattice

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"
)

// Algorithm selects the exact stochastic simulation variant.
type Algorithm int

const (
	// Direct draws the next event time from the total propensity and then
	// picks the firing channel proportionally to its propensity.
	Direct Algorithm = iota
	// FirstReaction draws one candidate firing time per active event and
	// fires the minimum.
	FirstReaction
)

func (a Algorithm) String() string {
	switch a {
	case Direct:
		return "direct"
	case FirstReaction:
		return "first-reaction"
	default:
		return "unknown"
	}
}

// ParseAlgorithm resolves a config string to an algorithm.
func ParseAlgorithm(s string) (Algorithm, bool) {
	switch s {
	case "direct", "":
		return Direct, true
	case "first-reaction", "first_reaction":
		return FirstReaction, true
	default:
		return Direct, false
	}
}

// RunStatus is the explicit state of a simulation run.
type RunStatus int

const (
	StatusIdle RunStatus = iota
	StatusRunning
	// StatusCompleted: final time reached, or total propensity hit zero.
	StatusCompleted
	// StatusSampleExhausted: every requested checkpoint was recorded before
	// the final time.
	StatusSampleExhausted
	StatusCancelled
	StatusFailed
)

func (s RunStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusSampleExhausted:
		return "sample-exhausted"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is a terminal outcome.
func (s RunStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusSampleExhausted, StatusCancelled, StatusFailed:
		return true
	}
	return false
}

// Result is the outcome of one run. The trajectory is present even for
// cancelled or failed runs: partial samples are preserved for postmortem.
type Result struct {
	Status     RunStatus
	Trajectory *Trajectory
	Events     int
	FinalTime  float64
}

// Simulator advances a lattice state in continuous time using an exact
// stochastic simulation algorithm. A simulator is not safe for concurrent
// use; independent runs each get their own Simulator.
type Simulator struct {
	model     *EnumeratedModel
	algorithm Algorithm
	rng       *rand.Rand
	logger    Logger
	maxEvents int
	onSample  func(Sample)
}

// NewSimulator creates a simulator seeded from the wall clock. Use Seed for
// reproducible runs.
func NewSimulator(model *EnumeratedModel, algorithm Algorithm) *Simulator {
	return &Simulator{
		model:     model,
		algorithm: algorithm,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:    NewNoOpLogger(),
	}
}

// Seed reseeds the random stream. Identical seeds with identical inputs
// reproduce the trajectory exactly.
func (s *Simulator) Seed(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
}

// SetLogger installs a logger for run diagnostics.
func (s *Simulator) SetLogger(logger Logger) {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	s.logger = logger
}

// SetMaxEvents bounds the number of events per run. Exceeding the budget is
// a SimulationError with the partial trajectory preserved. Zero disables
// the bound.
func (s *Simulator) SetMaxEvents(n int) {
	s.maxEvents = n
}

// SetSampleHook installs a callback invoked synchronously from the run loop
// whenever a checkpoint is recorded. The run manager uses this for live
// notification streaming.
func (s *Simulator) SetSampleHook(fn func(Sample)) {
	s.onSample = fn
}

// event is one applicable (site, channel) pair with its propensity. Lattice
// occupancy is binary, so the propensity equals the channel rate.
type event struct {
	site      Coord
	target    Coord
	channel   int
	hasTarget bool
	rate      float64
}

// activeEvents enumerates all applicable events in deterministic order:
// occupied sites in sorted coordinate order, channels in enumeration order.
func (s *Simulator) activeEvents(st *State, now float64) ([]event, float64, error) {
	var events []event
	total := 0.0
	for _, c := range st.Occupied() {
		if st.IsBarrier(c) {
			continue
		}
		sym := st.Get(c)
		for _, chIdx := range s.model.channelsFor(sym) {
			ch := s.model.channels[chIdx]
			if ch.Rate < 0 {
				return nil, 0, &SimulationError{Reason: "negative channel rate", Time: now, Channel: chIdx}
			}
			if ch.Rate == 0 {
				continue
			}
			rule := s.model.Rule(ch)
			ev := event{site: c, channel: chIdx, rate: ch.Rate}
			if !rule.Unary {
				tgt := c.Add(ch.Offset)
				if !st.InDomain(tgt) || st.IsBarrier(tgt) {
					continue
				}
				if st.Get(tgt) != rule.Reactants.Right {
					continue
				}
				ev.target = tgt
				ev.hasTarget = true
			}
			events = append(events, ev)
			total += ch.Rate
		}
	}
	return events, total, nil
}

// apply fires one event: product slot 1 replaces the subject site, product
// slot 2 the neighbor site. Empty products clear.
func (s *Simulator) apply(st *State, ev event) {
	rule := s.model.Rule(s.model.channels[ev.channel])
	st.set(ev.site, rule.Products.Left)
	if ev.hasTarget {
		st.set(ev.target, rule.Products.Right)
	}
}

// Run advances the initial state to finalTime, recording a snapshot at each
// requested sample time. The state is mutated in place and must not be read
// or written by anyone else until Run returns.
//
// Checkpoint semantics: each sample time records the most recent state at
// or before it. The process is right-continuous, so a checkpoint equal to a
// firing time observes the post-event state. Checkpoints still pending when
// the run terminates, including ones requested beyond finalTime, are
// recorded at their requested times against the terminal state, so
// trajectory timestamps may exceed the simulation horizon.
//
// Cancellation is cooperative, checked once per event; a cancelled run
// returns its partial trajectory together with the context error.
func (s *Simulator) Run(ctx context.Context, st *State, finalTime float64, sampleTimes []float64) (*Result, error) {
	if st == nil {
		return nil, configErrorf("initial state is nil")
	}
	if st.Alphabet() != s.model.Alphabet() {
		return nil, configErrorf("initial state was built against a different alphabet")
	}
	if st.Dim() != s.model.Dim() {
		return nil, configErrorf("state dimensionality %d does not match enumerated model dimensionality %d", st.Dim(), s.model.Dim())
	}
	if finalTime < 0 {
		return nil, configErrorf("final time %g is negative", finalTime)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	pending := normalizeSampleTimes(sampleTimes)
	hadSamples := len(pending) > 0
	tr := &Trajectory{}
	res := &Result{Status: StatusRunning, Trajectory: tr}
	now := 0.0

	record := func(checkpoint float64) {
		snap := st.Snapshot(checkpoint)
		sample := Sample{Time: checkpoint, Snapshot: snap}
		tr.append(sample)
		if s.onSample != nil {
			s.onSample(sample)
		}
	}
	// recordDue records every pending checkpoint <= limit (or < limit when
	// exclusive) against the current state.
	recordDue := func(limit float64, exclusive bool) {
		for len(pending) > 0 {
			t := pending[0]
			if t > limit || (exclusive && t == limit) {
				return
			}
			record(t)
			pending = pending[1:]
		}
	}
	finish := func(status RunStatus) (*Result, error) {
		// Remaining checkpoints freeze the terminal state.
		recordDue(math.Inf(1), false)
		res.Status = status
		res.FinalTime = now
		return res, nil
	}

	for {
		select {
		case <-ctx.Done():
			res.Status = StatusCancelled
			res.FinalTime = now
			return res, ctx.Err()
		default:
		}

		events, total, err := s.activeEvents(st, now)
		if err != nil {
			res.Status = StatusFailed
			res.FinalTime = now
			return res, err
		}
		if total == 0 {
			s.logger.Debugf("total propensity zero at t=%g after %d events", now, res.Events)
			now = finalTime
			return finish(StatusCompleted)
		}

		var fireTime float64
		var chosen event
		switch s.algorithm {
		case FirstReaction:
			best := -1
			bestTime := 0.0
			for i, ev := range events {
				t := s.rng.ExpFloat64() / ev.rate
				if best < 0 || t < bestTime {
					best = i
					bestTime = t
				}
			}
			chosen = events[best]
			fireTime = now + bestTime
		default: // Direct
			fireTime = now + s.rng.ExpFloat64()/total
			u := s.rng.Float64() * total
			acc := 0.0
			chosen = events[len(events)-1]
			for _, ev := range events {
				acc += ev.rate
				if u < acc {
					chosen = ev
					break
				}
			}
		}

		if fireTime > finalTime {
			// No event inside the horizon; remaining checkpoints observe
			// the current state.
			now = finalTime
			return finish(StatusCompleted)
		}

		// Checkpoints strictly before the firing time see the pre-event
		// state.
		recordDue(fireTime, true)

		s.apply(st, chosen)
		now = fireTime
		res.Events++
		if s.maxEvents > 0 && res.Events > s.maxEvents {
			res.Status = StatusFailed
			res.FinalTime = now
			return res, &SimulationError{Reason: "event budget exceeded", Time: now, Channel: chosen.channel}
		}

		// A checkpoint at exactly the firing time sees the post-event state.
		recordDue(now, false)

		if len(pending) == 0 && hadSamples {
			res.FinalTime = now
			res.Status = StatusSampleExhausted
			return res, nil
		}
		if now >= finalTime {
			return finish(StatusCompleted)
		}
	}
}

// normalizeSampleTimes sorts, deduplicates and drops negative checkpoint
// times so recorded timestamps are strictly increasing.
func normalizeSampleTimes(in []float64) []float64 {
	out := make([]float64, 0, len(in))
	for _, t := range in {
		if t >= 0 {
			out = append(out, t)
		}
	}
	sort.Float64s(out)
	dedup := out[:0]
	for i, t := range out {
		if i == 0 || t != out[i-1] {
			dedup = append(dedup, t)
		}
	}
	return dedup
}

// UniformSamples returns n evenly spaced checkpoint times over (0, finalTime],
// the usual sampling grid for population curves.
func UniformSamples(n int, finalTime float64) []float64 {
	if n <= 0 || finalTime <= 0 {
		return nil
	}
	out := make([]float64, n)
	step := finalTime / float64(n)
	for i := 0; i < n; i++ {
		out[i] = step * float64(i+1)
	}
	return out
}

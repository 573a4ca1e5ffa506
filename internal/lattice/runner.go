package lattice

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunID identifies one managed simulation run.
type RunID string

// RunSpec describes everything a managed run needs. Ownership of Initial
// transfers to the run: the caller must not touch the state until the run
// reaches a terminal status.
type RunSpec struct {
	ModelName   string
	Model       *EnumeratedModel
	Initial     *State
	Algorithm   Algorithm
	FinalTime   float64
	SampleTimes []float64
	Seed        *int64
	MaxEvents   int
	// Notify lists notifier IDs that receive a NotificationEvent for every
	// recorded checkpoint and for the terminal status.
	Notify []string
}

// Run is one managed simulation run.
type Run struct {
	id   RunID
	spec RunSpec

	mu         sync.Mutex
	status     RunStatus
	result     *Result
	err        error
	cancel     context.CancelFunc
	startedAt  time.Time
	finishedAt time.Time
}

// ID returns the run identifier.
func (r *Run) ID() RunID { return r.id }

// ModelName returns the model name of the spec.
func (r *Run) ModelName() string { return r.spec.ModelName }

// Status returns the current run status.
func (r *Run) Status() RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Result returns the run outcome once the run is terminal. The boolean is
// false while the run is still in progress. For cancelled and failed runs
// the result still carries the partial trajectory.
func (r *Run) Result() (*Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.status.Terminal() {
		return nil, false
	}
	return r.result, true
}

// Err returns the terminal error of the run, nil while in progress or on
// clean completion.
func (r *Run) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Run) finish(result *Result, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result = result
	r.err = err
	r.finishedAt = time.Now()
	if result != nil {
		r.status = result.Status
	} else {
		r.status = StatusFailed
	}
}

// RunManager owns a set of concurrent simulation runs. Runs are fully
// independent: each has a private state, simulator and RNG stream, so they
// parallelize without shared mutable state.
type RunManager struct {
	mu       sync.RWMutex
	runs     map[RunID]*Run
	logger   Logger
	notifier *NotificationManager
	wg       sync.WaitGroup
	closed   bool
}

// NewRunManager creates a run manager with logging disabled.
func NewRunManager() *RunManager {
	return NewRunManagerWithLogger(NewNoOpLogger())
}

// NewRunManagerWithLogger creates a run manager using the given logger.
func NewRunManagerWithLogger(logger Logger) *RunManager {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	return &RunManager{
		runs:   make(map[RunID]*Run),
		logger: logger,
	}
}

// SetNotificationManager wires sample/terminal notifications for all runs
// started afterwards.
func (m *RunManager) SetNotificationManager(nm *NotificationManager) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifier = nm
}

// StartRun launches a run in its own goroutine and returns its ID.
func (m *RunManager) StartRun(spec RunSpec) (RunID, error) {
	if spec.Model == nil {
		return "", configErrorf("run spec has no enumerated model")
	}
	if spec.Initial == nil {
		return "", configErrorf("run spec has no initial state")
	}

	ctx, cancel := context.WithCancel(context.Background())
	run := &Run{
		id:        RunID(uuid.NewString()),
		spec:      spec,
		status:    StatusRunning,
		cancel:    cancel,
		startedAt: time.Now(),
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		cancel()
		return "", fmt.Errorf("run manager is closed")
	}
	m.runs[run.id] = run
	notifier := m.notifier
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		defer cancel()

		sim := NewSimulator(spec.Model, spec.Algorithm)
		sim.SetLogger(m.logger)
		if spec.Seed != nil {
			sim.Seed(*spec.Seed)
		}
		if spec.MaxEvents > 0 {
			sim.SetMaxEvents(spec.MaxEvents)
		}
		if notifier != nil && len(spec.Notify) > 0 {
			sim.SetSampleHook(func(sample Sample) {
				notifier.Enqueue(NotificationEvent{
					RunID:     string(run.id),
					Model:     spec.ModelName,
					Status:    StatusRunning.String(),
					Timestamp: time.Now().Unix(),
					SimTime:   sample.Time,
					Counts:    sample.Snapshot.Counts(),
					Sample:    &sample,
				}, spec.Notify)
			})
		}

		result, err := sim.Run(ctx, spec.Initial, spec.FinalTime, spec.SampleTimes)
		run.finish(result, err)

		status := run.Status()
		if err != nil {
			m.logger.Warnf("run %s finished with status %s: %v", run.id, status, err)
		} else {
			m.logger.Infof("run %s finished with status %s after %d events", run.id, status, result.Events)
		}
		if notifier != nil && len(spec.Notify) > 0 {
			ev := NotificationEvent{
				RunID:     string(run.id),
				Model:     spec.ModelName,
				Status:    status.String(),
				Timestamp: time.Now().Unix(),
			}
			if result != nil {
				ev.SimTime = result.FinalTime
			}
			notifier.Enqueue(ev, spec.Notify)
		}
	}()

	return run.id, nil
}

// GetRun retrieves a run by ID.
func (m *RunManager) GetRun(id RunID) (*Run, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, exists := m.runs[id]
	return run, exists
}

// ListRuns returns all run IDs in sorted order.
func (m *RunManager) ListRuns() []RunID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]RunID, 0, len(m.runs))
	for id := range m.runs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CancelRun requests cooperative cancellation of a run. The run keeps its
// partial trajectory.
func (m *RunManager) CancelRun(id RunID) error {
	run, exists := m.GetRun(id)
	if !exists {
		return fmt.Errorf("run %s does not exist", id)
	}
	run.cancel()
	return nil
}

// DeleteRun cancels a run (if still going) and removes it.
func (m *RunManager) DeleteRun(id RunID) error {
	m.mu.Lock()
	run, exists := m.runs[id]
	if exists {
		delete(m.runs, id)
	}
	m.mu.Unlock()

	if !exists {
		return fmt.Errorf("run %s does not exist", id)
	}
	run.cancel()
	return nil
}

// Close cancels all runs and waits for their goroutines to finish.
func (m *RunManager) Close() {
	m.mu.Lock()
	m.closed = true
	for _, run := range m.runs {
		run.cancel()
	}
	m.mu.Unlock()
	m.wg.Wait()
}

// Ensemble executes n independent replicates of one spec in parallel. Each
// replicate clones the initial state and, when a seed is given, offsets it
// by the replicate index so streams stay decorrelated but reproducible.
// Results are returned in replicate order; the first error encountered is
// returned alongside the full result set.
func Ensemble(ctx context.Context, spec RunSpec, n int) ([]*Result, error) {
	if n <= 0 {
		return nil, configErrorf("ensemble size must be positive, got %d", n)
	}
	if spec.Model == nil || spec.Initial == nil {
		return nil, configErrorf("ensemble spec needs a model and an initial state")
	}

	results := make([]*Result, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			sim := NewSimulator(spec.Model, spec.Algorithm)
			if spec.Seed != nil {
				sim.Seed(*spec.Seed + int64(i))
			}
			if spec.MaxEvents > 0 {
				sim.SetMaxEvents(spec.MaxEvents)
			}
			results[i], errs[i] = sim.Run(ctx, spec.Initial.Clone(), spec.FinalTime, spec.SampleTimes)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

package lattice

import (
	"sort"
)

// Sample is one recorded (time, snapshot) pair.
type Sample struct {
	Time     float64  `json:"time"`
	Snapshot Snapshot `json:"snapshot"`
}

// Trajectory is the time-ordered sequence of sampled lattice snapshots from
// one run. It is append-only while the Simulator owns it and immutable once
// handed to the caller; timestamps are strictly increasing.
type Trajectory struct {
	samples []Sample
}

// append records a sample. Package-private: only the simulation loop writes.
func (tr *Trajectory) append(s Sample) {
	tr.samples = append(tr.samples, s)
}

// Len returns the number of recorded samples.
func (tr *Trajectory) Len() int {
	return len(tr.samples)
}

// At returns the sample at index i.
func (tr *Trajectory) At(i int) (Sample, bool) {
	if i < 0 || i >= len(tr.samples) {
		return Sample{}, false
	}
	return tr.samples[i], true
}

// Nearest returns the recorded sample whose time is closest to t, preferring
// the earlier one on an exact tie.
func (tr *Trajectory) Nearest(t float64) (Sample, bool) {
	if len(tr.samples) == 0 {
		return Sample{}, false
	}
	i := sort.Search(len(tr.samples), func(i int) bool {
		return tr.samples[i].Time >= t
	})
	if i == 0 {
		return tr.samples[0], true
	}
	if i == len(tr.samples) {
		return tr.samples[len(tr.samples)-1], true
	}
	if tr.samples[i].Time-t < t-tr.samples[i-1].Time {
		return tr.samples[i], true
	}
	return tr.samples[i-1], true
}

// Samples returns all samples in increasing time order. The slice is a
// copy: re-iterating always yields the same finite sequence.
func (tr *Trajectory) Samples() []Sample {
	out := make([]Sample, len(tr.samples))
	copy(out, tr.samples)
	return out
}

// Final returns the last recorded sample.
func (tr *Trajectory) Final() (Sample, bool) {
	return tr.At(len(tr.samples) - 1)
}

package lattice

import (
	"testing"
)

func sampleAt(time float64, wolves int) Sample {
	snap := Snapshot{Time: time, Dim: 2}
	for i := 0; i < wolves; i++ {
		snap.Sites = append(snap.Sites, SiteRecord{X: i, Symbol: "Wolf"})
	}
	return Sample{Time: time, Snapshot: snap}
}

func TestTrajectory_Empty(t *testing.T) {
	tr := &Trajectory{}
	if tr.Len() != 0 {
		t.Errorf("Expected empty trajectory, got %d samples", tr.Len())
	}
	if _, ok := tr.Nearest(1.0); ok {
		t.Error("Nearest on an empty trajectory should report false")
	}
	if _, ok := tr.Final(); ok {
		t.Error("Final on an empty trajectory should report false")
	}
}

func TestTrajectory_AtBounds(t *testing.T) {
	tr := &Trajectory{}
	tr.append(sampleAt(1.0, 3))

	if _, ok := tr.At(0); !ok {
		t.Error("Expected sample at index 0")
	}
	if _, ok := tr.At(-1); ok {
		t.Error("Negative index should report false")
	}
	if _, ok := tr.At(1); ok {
		t.Error("Out-of-range index should report false")
	}
}

func TestTrajectory_Nearest(t *testing.T) {
	tr := &Trajectory{}
	tr.append(sampleAt(1.0, 5))
	tr.append(sampleAt(3.0, 4))
	tr.append(sampleAt(6.0, 2))

	tests := []struct {
		query float64
		want  float64
	}{
		{0.0, 1.0},  // before the first sample
		{1.0, 1.0},  // exact hit
		{2.0, 1.0},  // exact midpoint tie prefers the earlier sample
		{2.6, 3.0},  // closer to the later sample
		{10.0, 6.0}, // past the last sample
	}
	for _, tt := range tests {
		got, ok := tr.Nearest(tt.query)
		if !ok {
			t.Errorf("Nearest(%g): expected a sample", tt.query)
			continue
		}
		if got.Time != tt.want {
			t.Errorf("Nearest(%g): expected time %g, got %g", tt.query, tt.want, got.Time)
		}
	}
}

func TestTrajectory_SamplesIsACopy(t *testing.T) {
	tr := &Trajectory{}
	tr.append(sampleAt(1.0, 1))

	samples := tr.Samples()
	samples[0].Time = 999

	got, _ := tr.At(0)
	if got.Time != 1.0 {
		t.Error("Mutating the returned slice leaked into the trajectory")
	}
}

func TestTrajectory_Final(t *testing.T) {
	tr := &Trajectory{}
	tr.append(sampleAt(1.0, 2))
	tr.append(sampleAt(4.0, 1))

	final, ok := tr.Final()
	if !ok || final.Time != 4.0 {
		t.Errorf("Expected final sample at t=4, got (%+v, %v)", final, ok)
	}
}

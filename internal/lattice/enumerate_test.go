package lattice

import (
	"testing"
)

func TestEnumerate_PairRulePerOffset(t *testing.T) {
	table := mustCompile(t, []string{"Rabbit + 0 --> Rabbit + Rabbit, birth"}, []string{"birth"})

	model, err := Enumerate(table, NearestNeighbor(), 2, []float64{0.3})
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}

	channels := model.Channels()
	if len(channels) != 4 {
		t.Fatalf("Expected 4 channels (one per 2D offset), got %d", len(channels))
	}

	offsets, _ := NearestNeighbor().Offsets(2)
	for i, ch := range channels {
		if ch.RuleIndex != 0 {
			t.Errorf("Channel %d: expected rule index 0, got %d", i, ch.RuleIndex)
		}
		if ch.Offset != offsets[i] {
			t.Errorf("Channel %d: expected offset %v, got %v", i, offsets[i], ch.Offset)
		}
		// Rates are unscaled: the base parameter per neighbor direction.
		if ch.Rate != 0.3 {
			t.Errorf("Channel %d: expected rate 0.3, got %g", i, ch.Rate)
		}
	}
}

func TestEnumerate_UnaryRuleSingleChannel(t *testing.T) {
	table := mustCompile(t, []string{"Wolf --> 0, death"}, []string{"death"})

	model, err := Enumerate(table, NearestNeighbor(), 3, []float64{0.05})
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}

	channels := model.Channels()
	if len(channels) != 1 {
		t.Fatalf("Expected 1 channel for a unary rule, got %d", len(channels))
	}
	if channels[0].Offset != (Offset{}) {
		t.Errorf("Expected zero offset, got %v", channels[0].Offset)
	}
	if channels[0].Rate != 0.05 {
		t.Errorf("Expected rate 0.05, got %g", channels[0].Rate)
	}
}

func TestEnumerate_RuleThenOffsetOrder(t *testing.T) {
	table := mustCompile(t, []string{
		"A --> 0, decay",
		"B + 0 --> 0 + B, hop",
	}, []string{"decay", "hop"})

	model, err := Enumerate(table, NearestNeighbor(), 1, []float64{1.0, 2.0})
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}

	channels := model.Channels()
	if len(channels) != 3 {
		t.Fatalf("Expected 3 channels (1 unary + 2 offsets), got %d", len(channels))
	}
	if channels[0].RuleIndex != 0 {
		t.Errorf("Expected the unary rule first, got rule %d", channels[0].RuleIndex)
	}
	if channels[1].RuleIndex != 1 || channels[2].RuleIndex != 1 {
		t.Error("Expected the pair rule's channels after the unary rule")
	}
}

func TestEnumerate_ParamLengthMismatch(t *testing.T) {
	table := mustCompile(t, []string{"A --> 0, k"}, []string{"k"})

	_, err := Enumerate(table, NearestNeighbor(), 2, []float64{1.0, 2.0})
	if err == nil {
		t.Fatal("Expected an error for a mismatched parameter vector")
	}
	if _, ok := err.(*ConfigurationError); !ok {
		t.Errorf("Expected *ConfigurationError, got %T: %v", err, err)
	}
}

func TestEnumerate_NegativeRate(t *testing.T) {
	table := mustCompile(t, []string{"A --> 0, k"}, []string{"k"})

	_, err := Enumerate(table, NearestNeighbor(), 2, []float64{-0.1})
	if err == nil {
		t.Fatal("Expected an error for a negative rate")
	}
	if _, ok := err.(*ConfigurationError); !ok {
		t.Errorf("Expected *ConfigurationError, got %T: %v", err, err)
	}
}

func TestEnumerate_HexIn3D(t *testing.T) {
	table := mustCompile(t, []string{"A + 0 --> 0 + A, hop"}, []string{"hop"})

	_, err := Enumerate(table, Hexagonal(), 3, []float64{1.0})
	if err == nil {
		t.Fatal("Expected a TopologyError for hexagonal in 3D")
	}
	if _, ok := err.(*TopologyError); !ok {
		t.Errorf("Expected *TopologyError, got %T: %v", err, err)
	}
}

func TestEnumerate_ZeroRateChannelKept(t *testing.T) {
	table := mustCompile(t, []string{"Rock --> 0, erosion"}, []string{"erosion"})

	model, err := Enumerate(table, NearestNeighbor(), 2, []float64{0.0})
	if err != nil {
		t.Fatalf("A zero rate is valid: %v", err)
	}
	channels := model.Channels()
	if len(channels) != 1 || channels[0].Rate != 0 {
		t.Errorf("Expected the zero-rate channel to stay enumerated, got %v", channels)
	}
}

func TestEnumerate_Deterministic(t *testing.T) {
	rules := []string{
		"Wolf + Rabbit --> Wolf + Wolf, predation",
		"Rabbit + 0 --> Rabbit + Rabbit, birth",
		"Wolf --> 0, death",
	}
	rateNames := []string{"predation", "birth", "death"}
	params := []float64{0.1, 0.3, 0.05}

	a, err := Enumerate(mustCompile(t, rules, rateNames), NearestNeighbor(), 2, params)
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	b, err := Enumerate(mustCompile(t, rules, rateNames), NearestNeighbor(), 2, params)
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}

	ca, cb := a.Channels(), b.Channels()
	if len(ca) != len(cb) {
		t.Fatalf("Channel counts differ: %d vs %d", len(ca), len(cb))
	}
	for i := range ca {
		if ca[i] != cb[i] {
			t.Errorf("Channel %d differs between enumerations: %v vs %v", i, ca[i], cb[i])
		}
	}
}

func TestEnumeratedModel_Accessors(t *testing.T) {
	table := mustCompile(t, []string{"A + 0 --> 0 + A, hop"}, []string{"hop"})
	model, err := Enumerate(table, Hexagonal(), 2, []float64{1.5})
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}

	if model.Shape() != Hex {
		t.Errorf("Expected hex shape, got %v", model.Shape())
	}
	if model.Dim() != 2 {
		t.Errorf("Expected dim 2, got %d", model.Dim())
	}
	if params := model.Params(); len(params) != 1 || params[0] != 1.5 {
		t.Errorf("Unexpected params: %v", params)
	}
	if model.Table() != table {
		t.Error("Expected the source rule table back")
	}
	ch := model.Channels()[0]
	if model.Rule(ch).RateName != "hop" {
		t.Errorf("Expected rule with rate hop, got %s", model.Rule(ch).RateName)
	}
}

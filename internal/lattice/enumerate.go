package lattice

// Channel is one site-local, neighbor-specific instantiation of a rule with
// its rate bound to a concrete value. A unary rule yields a single channel
// with the zero offset.
type Channel struct {
	RuleIndex int
	Offset    Offset
	Rate      float64
}

// EnumeratedModel is the expanded set of lattice-local reaction channels for
// one rule table, neighborhood shape, dimensionality and parameter vector.
// It is immutable after Enumerate returns.
type EnumeratedModel struct {
	table    *RuleTable
	shape    Neighborhood
	dim      int
	params   []float64
	channels []Channel

	// bySubject[s] lists, in enumeration order, the indices of channels
	// whose slot-1 reactant is symbol s. Index 0 (Empty) is always nil:
	// only occupied sites seed events.
	bySubject [][]int
}

// Enumerate expands a rule table into the full channel set.
//
// The parameter vector must match the declared rate-name order of the table
// in length and position; any mismatch or a negative value is a
// ConfigurationError raised before anything is built.
//
// Adopted rate semantics: the bound channel rate equals the base parameter
// value, unscaled — a pair rule fires at its base rate per neighbor
// direction, independent of how many neighbor offsets the shape defines.
// A rate of exactly zero is kept in the channel list and encodes an inert
// (barrier) role for its reactant symbol.
//
// Enumeration is deterministic: channels appear in rule declaration order,
// then offset order, identically on every call with equal inputs.
func Enumerate(table *RuleTable, shape Neighborhood, dim int, params []float64) (*EnumeratedModel, error) {
	if table == nil {
		return nil, configErrorf("rule table is nil")
	}
	names := table.RateNames()
	if len(params) != len(names) {
		return nil, configErrorf("parameter vector has %d values but %d rate names are declared", len(params), len(names))
	}
	cfgErr := &ConfigurationError{}
	for i, v := range params {
		if v < 0 {
			cfgErr.Addf("rate %s = %g is negative", names[i], v)
		}
	}
	if cfgErr.HasIssues() {
		return nil, cfgErr
	}

	offsets, err := shape.Offsets(dim)
	if err != nil {
		return nil, err
	}

	m := &EnumeratedModel{
		table:     table,
		shape:     shape,
		dim:       dim,
		params:    append([]float64(nil), params...),
		bySubject: make([][]int, table.Alphabet().Len()+1),
	}

	for ri, rule := range table.rules {
		rate := params[rule.RateIndex]
		if rule.Unary {
			m.addChannel(Channel{RuleIndex: ri, Rate: rate}, rule.Reactants.Left)
			continue
		}
		for _, off := range offsets {
			m.addChannel(Channel{RuleIndex: ri, Offset: off, Rate: rate}, rule.Reactants.Left)
		}
	}
	return m, nil
}

func (m *EnumeratedModel) addChannel(ch Channel, subject Symbol) {
	idx := len(m.channels)
	m.channels = append(m.channels, ch)
	if subject != Empty {
		m.bySubject[subject] = append(m.bySubject[subject], idx)
	}
}

// Channels returns the full channel list in enumeration order.
func (m *EnumeratedModel) Channels() []Channel {
	out := make([]Channel, len(m.channels))
	copy(out, m.channels)
	return out
}

// Rule returns the rule a channel instantiates.
func (m *EnumeratedModel) Rule(ch Channel) Rule {
	return m.table.rules[ch.RuleIndex]
}

// Table returns the rule table the model was enumerated from.
func (m *EnumeratedModel) Table() *RuleTable {
	return m.table
}

// Alphabet returns the symbol alphabet of the underlying table.
func (m *EnumeratedModel) Alphabet() *Alphabet {
	return m.table.Alphabet()
}

// Shape returns the neighborhood shape of the enumeration.
func (m *EnumeratedModel) Shape() Neighborhood { return m.shape }

// Dim returns the dimensionality of the enumeration.
func (m *EnumeratedModel) Dim() int { return m.dim }

// Params returns the bound parameter vector, in declared rate-name order.
func (m *EnumeratedModel) Params() []float64 {
	out := make([]float64, len(m.params))
	copy(out, m.params)
	return out
}

// channelsFor returns the enumeration-ordered channel indices whose slot-1
// reactant is the given symbol. The returned slice is shared; callers must
// not mutate it.
func (m *EnumeratedModel) channelsFor(s Symbol) []int {
	if s == Empty || int(s) >= len(m.bySubject) {
		return nil
	}
	return m.bySubject[s]
}

package lattice

// Pair is a fixed two-slot record of symbols. Positional semantics: slot 1
// of the reactants maps onto slot 1 of the products when a rule fires, and
// likewise for slot 2.
type Pair struct {
	Left  Symbol
	Right Symbol
}

// Rule is one compiled interaction. A unary rule (`A --> B`) uses only the
// Left slot of both pairs. Rates are symbolic here: the rule carries the
// rate parameter's name and its index in the declared parameter order, and
// the numeric value is bound at enumeration time.
type Rule struct {
	Text      string // original source line, for error messages
	Unary     bool
	Reactants Pair
	Products  Pair
	RateName  string
	RateIndex int
}

// RuleTable is the immutable output of the rule compiler: the compiled rules
// in declaration order, the symbol alphabet they use, and the declared rate
// parameter order. It carries no parameter values.
type RuleTable struct {
	alphabet  *Alphabet
	rules     []Rule
	rateNames []string
}

// Alphabet returns the symbol alphabet fixed at compile time.
func (t *RuleTable) Alphabet() *Alphabet {
	return t.alphabet
}

// Rules returns the compiled rules in declaration order.
func (t *RuleTable) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// RateNames returns the declared rate parameter names in order. A parameter
// vector handed to Enumerate must match this length and ordering.
func (t *RuleTable) RateNames() []string {
	out := make([]string, len(t.rateNames))
	copy(out, t.rateNames)
	return out
}

// NumRules returns the number of compiled rules.
func (t *RuleTable) NumRules() int {
	return len(t.rules)
}

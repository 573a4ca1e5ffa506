package lattice

import (
	"strings"
)

// Arrow separates reactants from products in rule text.
const Arrow = "-->"

// Compiler parses textual interaction rules into a RuleTable.
//
// Rule syntax, one rule per line:
//
//	A + B --> C + D, rate_name
//	A --> B, rate_name
//
// "0" (or "∅") denotes the empty site and may appear in any slot except the
// first reactant slot, which must hold an agent. The rate name after the
// comma must appear in the declared parameter order handed to Compile.
type Compiler struct {
	logger Logger
}

// NewCompiler creates a rule compiler with logging disabled.
func NewCompiler() *Compiler {
	return &Compiler{logger: NewNoOpLogger()}
}

// NewCompilerWithLogger creates a rule compiler using the given logger.
func NewCompilerWithLogger(logger Logger) *Compiler {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	return &Compiler{logger: logger}
}

// parsedRule is the raw shape of one rule line before symbol resolution.
type parsedRule struct {
	text      string
	unary     bool
	reactants [2]string
	products  [2]string
	rateName  string
}

// Compile parses the rule lines against the declared rate parameter order
// and returns an immutable RuleTable. The symbol alphabet is fixed here, in
// first-appearance order across the rule list, so identical inputs always
// yield an identical table.
//
// A rule referencing an undeclared rate name is a ConfigurationError. A
// declared rate name that no rule references is only warned about: the
// parameter vector must still supply a value for it at enumeration time.
func (c *Compiler) Compile(lines []string, rateNames []string) (*RuleTable, error) {
	cfgErr := &ConfigurationError{}

	declared := make(map[string]int, len(rateNames))
	for i, name := range rateNames {
		if name == "" {
			cfgErr.Add("rate name cannot be empty")
			continue
		}
		if _, dup := declared[name]; dup {
			cfgErr.Addf("duplicate rate name in parameter order: %s", name)
			continue
		}
		declared[name] = i
	}

	var parsed []parsedRule
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pr, err := parseRuleLine(line)
		if err != nil {
			cfgErr.Addf("rule %q: %s", line, err.Error())
			continue
		}
		parsed = append(parsed, pr)
	}

	if len(parsed) == 0 && !cfgErr.HasIssues() {
		cfgErr.Add("no rules given")
	}

	// Fix the alphabet: first appearance wins, scanning rules in order and
	// each rule left to right, reactants before products.
	var order []string
	seen := make(map[string]struct{})
	collect := func(tok string) {
		if tok == EmptyToken || tok == EmptyTokenAlt {
			return
		}
		if _, ok := seen[tok]; ok {
			return
		}
		seen[tok] = struct{}{}
		order = append(order, tok)
	}
	for _, pr := range parsed {
		collect(pr.reactants[0])
		if !pr.unary {
			collect(pr.reactants[1])
		}
		collect(pr.products[0])
		if !pr.unary {
			collect(pr.products[1])
		}
	}

	alphabet, err := NewAlphabet(order...)
	if err != nil {
		if ce, ok := err.(*ConfigurationError); ok {
			cfgErr.Issues = append(cfgErr.Issues, ce.Issues...)
		} else {
			cfgErr.Add(err.Error())
		}
	}

	used := make(map[string]struct{}, len(parsed))
	rules := make([]Rule, 0, len(parsed))
	for _, pr := range parsed {
		idx, ok := declared[pr.rateName]
		if !ok {
			cfgErr.Addf("rule %q references undeclared rate %q", pr.text, pr.rateName)
			continue
		}
		used[pr.rateName] = struct{}{}
		if alphabet == nil {
			continue
		}
		r := Rule{
			Text:      pr.text,
			Unary:     pr.unary,
			RateName:  pr.rateName,
			RateIndex: idx,
		}
		r.Reactants.Left, _ = alphabet.Symbol(pr.reactants[0])
		r.Products.Left, _ = alphabet.Symbol(pr.products[0])
		if !pr.unary {
			r.Reactants.Right, _ = alphabet.Symbol(pr.reactants[1])
			r.Products.Right, _ = alphabet.Symbol(pr.products[1])
		}
		if r.Reactants.Left == Empty && r.Reactants.Right == Empty &&
			r.Products.Left == Empty && r.Products.Right == Empty {
			cfgErr.Addf("rule %q has only empty sites on both sides", pr.text)
			continue
		}
		// The subject slot drives propensity: events are seeded from occupied
		// sites, so a rule whose first reactant is the empty site could never
		// fire.
		if r.Reactants.Left == Empty {
			cfgErr.Addf("rule %q has the empty site as its first reactant; the subject slot must hold an agent", pr.text)
			continue
		}
		rules = append(rules, r)
	}

	if cfgErr.HasIssues() {
		return nil, cfgErr
	}

	for _, name := range rateNames {
		if _, ok := used[name]; !ok {
			c.logger.Warnf("declared rate %q is not referenced by any rule", name)
		}
	}

	return &RuleTable{alphabet: alphabet, rules: rules, rateNames: append([]string(nil), rateNames...)}, nil
}

// parseRuleLine splits one rule line into its raw parts. It reports syntax
// problems only; symbol resolution happens later.
func parseRuleLine(line string) (parsedRule, error) {
	pr := parsedRule{text: line}

	comma := strings.LastIndex(line, ",")
	if comma < 0 {
		return pr, configErrorf("missing rate name (expected \"..., rate_name\")")
	}
	pr.rateName = strings.TrimSpace(line[comma+1:])
	if pr.rateName == "" {
		return pr, configErrorf("missing rate name after comma")
	}

	body := strings.TrimSpace(line[:comma])
	sides := strings.Split(body, Arrow)
	if len(sides) != 2 {
		return pr, configErrorf("expected exactly one %q arrow", Arrow)
	}

	reactants, err := splitSlots(sides[0])
	if err != nil {
		return pr, err
	}
	products, err := splitSlots(sides[1])
	if err != nil {
		return pr, err
	}
	if len(reactants) != len(products) {
		return pr, configErrorf("reactant arity %d does not match product arity %d", len(reactants), len(products))
	}

	pr.unary = len(reactants) == 1
	pr.reactants[0] = reactants[0]
	pr.products[0] = products[0]
	if !pr.unary {
		pr.reactants[1] = reactants[1]
		pr.products[1] = products[1]
	}
	return pr, nil
}

// splitSlots splits one side of a rule on "+" into one or two symbol tokens.
func splitSlots(side string) ([]string, error) {
	parts := strings.Split(side, "+")
	if len(parts) > 2 {
		return nil, configErrorf("at most two slots per side, got %d", len(parts))
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, configErrorf("empty slot in %q", strings.TrimSpace(side))
		}
		out = append(out, p)
	}
	return out, nil
}

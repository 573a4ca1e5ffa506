package lattice

// Symbol indexes into an Alphabet. The zero value is reserved for the empty
// site so that every site-transition switch has an explicit empty case.
type Symbol int

// Empty is the reserved empty-site symbol.
const Empty Symbol = 0

// EmptyToken and EmptyTokenAlt are the textual spellings of the empty site
// accepted by the rule compiler.
const (
	EmptyToken    = "0"
	EmptyTokenAlt = "∅"
)

// Alphabet is the closed set of agent symbols a model may use. Agent symbols
// are numbered 1..n in the order they were declared; 0 is always Empty.
type Alphabet struct {
	names []string // names[i] is the name of Symbol(i+1)
	index map[string]Symbol
}

// NewAlphabet builds an alphabet from agent names in declaration order.
// The empty-site tokens and duplicate names are rejected.
func NewAlphabet(names ...string) (*Alphabet, error) {
	a := &Alphabet{index: make(map[string]Symbol, len(names))}
	cfgErr := &ConfigurationError{}
	for _, name := range names {
		if name == "" {
			cfgErr.Add("symbol name cannot be empty")
			continue
		}
		if name == EmptyToken || name == EmptyTokenAlt {
			cfgErr.Addf("symbol name %q is reserved for the empty site", name)
			continue
		}
		if _, dup := a.index[name]; dup {
			cfgErr.Addf("duplicate symbol name: %s", name)
			continue
		}
		a.names = append(a.names, name)
		a.index[name] = Symbol(len(a.names))
	}
	if cfgErr.HasIssues() {
		return nil, cfgErr
	}
	return a, nil
}

// Symbol resolves a name to its symbol. The empty-site tokens resolve to
// Empty. The boolean reports whether the name is known.
func (a *Alphabet) Symbol(name string) (Symbol, bool) {
	if name == EmptyToken || name == EmptyTokenAlt {
		return Empty, true
	}
	s, ok := a.index[name]
	return s, ok
}

// Name returns the display name of a symbol. Empty renders as "0".
func (a *Alphabet) Name(s Symbol) string {
	if s == Empty {
		return EmptyToken
	}
	i := int(s) - 1
	if i < 0 || i >= len(a.names) {
		return "?"
	}
	return a.names[i]
}

// Names returns the agent names in declaration order (Empty excluded).
func (a *Alphabet) Names() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// Len returns the number of agent symbols (Empty excluded).
func (a *Alphabet) Len() int {
	return len(a.names)
}

// Contains reports whether s is Empty or a declared agent symbol.
func (a *Alphabet) Contains(s Symbol) bool {
	return s >= Empty && int(s) <= len(a.names)
}

package lattice

import (
	"fmt"
	"strings"
)

// ConfigurationError reports malformed rules, mismatched parameter vectors,
// duplicate coordinates and similar input mistakes. It can collect multiple
// issues so a caller sees everything wrong with a model in one pass.
type ConfigurationError struct {
	Issues []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid configuration: unknown error"
	}
	if len(e.Issues) == 1 {
		return "invalid configuration: " + e.Issues[0]
	}
	return "invalid configuration: " + strings.Join(e.Issues, "; ")
}

func (e *ConfigurationError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

func (e *ConfigurationError) Addf(format string, v ...any) {
	e.Issues = append(e.Issues, fmt.Sprintf(format, v...))
}

func (e *ConfigurationError) HasIssues() bool {
	return len(e.Issues) > 0
}

// configErrorf builds a single-issue ConfigurationError.
func configErrorf(format string, v ...any) *ConfigurationError {
	return &ConfigurationError{Issues: []string{fmt.Sprintf(format, v...)}}
}

// TopologyError reports a neighborhood shape requested for a dimensionality
// it is not defined in (e.g. hexagonal in 3D).
type TopologyError struct {
	Shape string
	Dim   int
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("topology error: shape %s is not defined in %d dimension(s)", e.Shape, e.Dim)
}

// SimulationError reports a fatal inconsistency detected mid-run, such as a
// negative propensity from a corrupted model. It is never retried; the
// partial trajectory up to the failure point is preserved for postmortem.
type SimulationError struct {
	Reason  string
	Time    float64
	Channel int // offending channel index, -1 if not channel-specific
}

func (e *SimulationError) Error() string {
	if e.Channel >= 0 {
		return fmt.Sprintf("simulation error at t=%g (channel %d): %s", e.Time, e.Channel, e.Reason)
	}
	return fmt.Sprintf("simulation error at t=%g: %s", e.Time, e.Reason)
}

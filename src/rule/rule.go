package rule

import (
	"encoding/json"
	"fmt"
)

// Severity is the first element of every candidate configuration.
type Severity int

const (
	SeverityOff Severity = iota
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityOff:
		return "off"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// ParseSeverity parses the textual severity forms accepted in config files.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "off":
		return SeverityOff, nil
	case "warn", "warning":
		return SeverityWarn, nil
	case "error":
		return SeverityError, nil
	}
	return SeverityOff, fmt.Errorf("rule: unknown severity %q", s)
}

// MarshalJSON emits the wire form ("off", "warn", "error") used in
// linter override maps.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Specificity counts the elements of a candidate: the severity, each
// scalar option, and each field of an object option. It is a preference
// signal for selection, never a uniqueness key.
type Specificity int

// Option is one positional option value in a candidate: either a scalar
// (enum value or boolean) or an object of named fields. Exactly one of
// Value and Object is set.
type Option struct {
	Value  any
	Object map[string]any
}

// IsObject reports whether the option carries an object value.
func (o Option) IsObject() bool { return o.Object != nil }

func (o Option) wire() any {
	if o.Object != nil {
		return o.Object
	}
	return o.Value
}

// CandidateKind distinguishes the three candidate shapes.
type CandidateKind int

const (
	SeverityOnly CandidateKind = iota
	SeverityWithValues
	SeverityWithObject
)

// Candidate is one schema-valid configuration for a rule: a severity
// followed by zero or more option values. Candidates are identified by
// their position in the rule's candidate list, not by content.
type Candidate struct {
	Severity Severity
	Options  []Option
}

// Kind classifies the candidate shape. A candidate whose options are
// all objects reports SeverityWithObject; anything with at least one
// scalar option reports SeverityWithValues.
func (c Candidate) Kind() CandidateKind {
	if len(c.Options) == 0 {
		return SeverityOnly
	}
	for _, o := range c.Options {
		if !o.IsObject() {
			return SeverityWithValues
		}
	}
	return SeverityWithObject
}

// Specificity is the candidate's element count: 1 for the severity,
// +1 per scalar option, +N per object option with N fields.
func (c Candidate) Specificity() Specificity {
	s := Specificity(1)
	for _, o := range c.Options {
		if o.Object != nil {
			s += Specificity(len(o.Object))
		} else {
			s++
		}
	}
	return s
}

// MarshalJSON emits the positional array form the linter consumes:
// ["error"], ["error", "always"], ["error", {"before": true}].
func (c Candidate) MarshalJSON() ([]byte, error) {
	arr := make([]any, 0, 1+len(c.Options))
	arr = append(arr, c.Severity)
	for _, o := range c.Options {
		arr = append(arr, o.wire())
	}
	return json.Marshal(arr)
}

// MarshalYAML emits the same positional form for YAML dumps.
func (c Candidate) MarshalYAML() (any, error) {
	arr := make([]any, 0, 1+len(c.Options))
	arr = append(arr, c.Severity.String())
	for _, o := range c.Options {
		arr = append(arr, o.wire())
	}
	return arr, nil
}

func (c Candidate) String() string {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Sprintf("candidate(%s)", c.Severity)
	}
	return string(data)
}

// Diagnostic is a single message reported by the linter engine. Only
// Rule is required for attribution; the rest is carried for reporting.
type Diagnostic struct {
	Rule     string `json:"rule"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Severity string `json:"severity,omitempty"`
	Message  string `json:"message,omitempty"`
}

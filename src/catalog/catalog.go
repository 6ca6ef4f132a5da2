// Package catalog loads the rule catalog: every known rule id plus its
// option schema, lowered into the descriptor forms the expander
// understands.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/sofmeright/ruleforge/src/rule"
	"github.com/sofmeright/ruleforge/src/schema"
)

// Catalog is the set of rules available for inference.
type Catalog struct {
	ids   []string
	rules map[string]rule.Schema
}

// catalogDoc is the on-disk shape: rule id → declaration. A rule's
// schema may be an array of per-position schemas, a single schema
// object, or absent (no options).
type catalogDoc struct {
	Rules map[string]ruleDecl `json:"rules"`
}

type ruleDecl struct {
	Schema json.RawMessage `json:"schema,omitempty"`
}

// Load reads a JSON catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: parsing %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a JSON catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("no rules declared")
	}

	c := &Catalog{rules: make(map[string]rule.Schema, len(doc.Rules))}
	for id, decl := range doc.Rules {
		s, err := lowerSchema(decl.Schema)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", id, err)
		}
		c.ids = append(c.ids, id)
		c.rules[id] = s
	}
	sort.Strings(c.ids)
	return c, nil
}

// RuleIDs returns every known rule id in sorted order.
func (c *Catalog) RuleIDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// Schema returns the lowered option schema for a rule.
func (c *Catalog) Schema(id string) (rule.Schema, bool) {
	s, ok := c.rules[id]
	return s, ok
}

// Candidates expands every rule into its candidate list at the given
// severity. The deny set excludes rules a priori, before any
// expansion work happens.
func (c *Catalog) Candidates(severity rule.Severity, deny map[string]bool) map[string][]rule.Candidate {
	out := make(map[string][]rule.Candidate, len(c.ids))
	for _, id := range c.ids {
		if deny[id] {
			continue
		}
		out[id] = schema.Expand(c.rules[id], severity)
	}
	return out
}

// lowerSchema turns a rule's raw schema declaration into ordered
// descriptors. A JSON array declares one schema per option position;
// a single object declares one axis; null or absent means no options.
func lowerSchema(raw json.RawMessage) (rule.Schema, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var axes []json.RawMessage
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &axes); err != nil {
			return nil, err
		}
	} else {
		axes = []json.RawMessage{raw}
	}

	out := make(rule.Schema, 0, len(axes))
	for _, axis := range axes {
		var js jsonschema.Schema
		if err := json.Unmarshal(axis, &js); err != nil {
			return nil, err
		}
		out = append(out, lowerAxis(&js))
	}
	return out, nil
}

// lowerAxis classifies one option-position schema. Disjunctive and
// unrecognized forms lower to NotSupported so callers can surface
// them; they are never an error.
func lowerAxis(js *jsonschema.Schema) rule.Descriptor {
	switch {
	case len(js.OneOf) > 0:
		return rule.Descriptor{Kind: rule.DescNotSupported, Reason: "oneOf"}
	case len(js.AnyOf) > 0:
		return rule.Descriptor{Kind: rule.DescNotSupported, Reason: "anyOf"}
	case len(js.AllOf) > 0:
		return rule.Descriptor{Kind: rule.DescNotSupported, Reason: "allOf"}
	case js.Ref != "":
		return rule.Descriptor{Kind: rule.DescNotSupported, Reason: "$ref"}
	case len(js.Enum) > 0:
		return rule.Descriptor{Kind: rule.DescEnum, Values: js.Enum}
	case js.Type == "boolean":
		return rule.Descriptor{Kind: rule.DescBoolean}
	case js.Type == "object" && len(js.Properties) > 0:
		return rule.Descriptor{Kind: rule.DescObject, Properties: lowerProperties(js.Properties)}
	default:
		reason := js.Type
		if reason == "" {
			reason = "unrecognized schema form"
		}
		return rule.Descriptor{Kind: rule.DescNotSupported, Reason: reason}
	}
}

// lowerProperties keeps the enum and boolean sub-options of an object
// axis. Anything else contributes nothing. Names are sorted so the
// lowered form is stable across decodes.
func lowerProperties(props map[string]*jsonschema.Schema) []rule.Property {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]rule.Property, 0, len(names))
	for _, name := range names {
		sub := props[name]
		switch {
		case len(sub.Enum) > 0:
			out = append(out, rule.Property{Name: name, Values: sub.Enum})
		case sub.Type == "boolean":
			out = append(out, rule.Property{Name: name, Values: []any{true, false}})
		}
	}
	return out
}

// Package schema turns a rule's option schema into the ordered list of
// candidate configurations the evaluation pipeline scores.
package schema

import (
	"sort"

	"github.com/sofmeright/ruleforge/src/rule"
)

// Expand enumerates every schema-valid configuration for one rule.
//
// Axes are processed in declaration order. Each enum axis either seeds
// the accumulator or extends it (originals preserved plus the cross
// product with the axis values). Boolean axes are the enum
// {true, false}. Object axes first build every full-object combination
// of their properties, then merge into the accumulator under the same
// grow rule. NotSupported axes contribute nothing.
//
// The severity is prefixed to every accumulated combination, and a
// severity-only candidate leads the result, so the list is never empty
// and identical input always yields identical ordered output.
func Expand(s rule.Schema, severity rule.Severity) []rule.Candidate {
	var acc [][]any

	for _, d := range s {
		switch d.Kind {
		case rule.DescEnum:
			acc = grow(acc, d.Values)
		case rule.DescBoolean:
			acc = grow(acc, []any{true, false})
		case rule.DescObject:
			acc = grow(acc, objectCombinations(d.Properties))
		case rule.DescNotSupported:
			// Recovered by omission: the axis is simply not expanded.
		}
	}

	out := make([]rule.Candidate, 0, len(acc)+1)
	out = append(out, rule.Candidate{Severity: severity})
	for _, seq := range acc {
		out = append(out, rule.Candidate{Severity: severity, Options: toOptions(seq)})
	}
	return out
}

// grow applies one axis to the accumulator: empty accumulators are
// seeded with one-element sequences; otherwise the originals are kept
// and every (existing, value) extension is appended after them.
func grow(acc [][]any, values []any) [][]any {
	if len(values) == 0 {
		return acc
	}
	if len(acc) == 0 {
		seeded := make([][]any, 0, len(values))
		for _, v := range values {
			seeded = append(seeded, []any{v})
		}
		return seeded
	}
	out := make([][]any, 0, len(acc)+len(acc)*len(values))
	out = append(out, acc...)
	return append(out, CombineArrays(acc, values)...)
}

// CombineArrays extends every prefix sequence once per value, keeping
// prefix order outermost:
//
//	CombineArrays([["a"],["b","c"]], ["x","y"]) =
//	[["a","x"],["a","y"],["b","c","x"],["b","c","y"]]
func CombineArrays(prefixes [][]any, values []any) [][]any {
	out := make([][]any, 0, len(prefixes)*len(values))
	for _, p := range prefixes {
		for _, v := range values {
			seq := make([]any, len(p), len(p)+1)
			copy(seq, p)
			out = append(out, append(seq, v))
		}
	}
	return out
}

// objectCombinations builds every full object assembled from the
// property value sets: k values × m values → k·m objects. Properties
// combine in name order so output is stable regardless of how the
// schema document was decoded.
func objectCombinations(props []rule.Property) []any {
	ordered := make([]rule.Property, 0, len(props))
	for _, p := range props {
		if len(p.Values) > 0 {
			ordered = append(ordered, p)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })
	if len(ordered) == 0 {
		return nil
	}

	combos := []map[string]any{{}}
	for _, p := range ordered {
		next := make([]map[string]any, 0, len(combos)*len(p.Values))
		for _, base := range combos {
			for _, v := range p.Values {
				obj := make(map[string]any, len(base)+1)
				for k, bv := range base {
					obj[k] = bv
				}
				obj[p.Name] = v
				next = append(next, obj)
			}
		}
		combos = next
	}

	out := make([]any, len(combos))
	for i, obj := range combos {
		out[i] = obj
	}
	return out
}

func toOptions(seq []any) []rule.Option {
	opts := make([]rule.Option, 0, len(seq))
	for _, v := range seq {
		if obj, ok := v.(map[string]any); ok {
			opts = append(opts, rule.Option{Object: obj})
		} else {
			opts = append(opts, rule.Option{Value: v})
		}
	}
	return opts
}

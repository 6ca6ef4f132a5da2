// Package selection assembles the final rule → configuration mapping
// from a fully evaluated registry.
package selection

import (
	"github.com/sofmeright/ruleforge/src/batch"
	"github.com/sofmeright/ruleforge/src/registry"
	"github.com/sofmeright/ruleforge/src/rule"
)

// Assemble prunes over-cap rules, strips failing candidates, and
// merges the selection queries into one mapping. maxCandidates must be
// the same cap the batch planner used: a rule above it was never
// tested, so its clean error counts mean nothing and it must not be
// selected. A non-positive cap falls back to the planner's default.
// The remaining queries merge in ascending-confidence order —
// single-config rules first, then unique candidates per specificity
// level from 1 upward — so a more specific unique answer overwrites a
// coarser one when a rule resolves at several levels.
//
// Rules above the cap, rules with no error-free candidate, and rules
// tied at every specificity level, are simply absent from the result.
// Callers must not assume every catalog rule appears.
func Assemble(reg *registry.Registry, maxCandidates int) map[string]rule.Candidate {
	if maxCandidates <= 0 {
		maxCandidates = batch.DefaultMaxCandidates
	}
	reg.PruneOverCap(maxCandidates)
	reg.StripFailingConfigs()
	return Merge(reg)
}

// Merge runs the selection queries against an already stripped
// registry without mutating it.
func Merge(reg *registry.Registry) map[string]rule.Candidate {
	merged := make(map[string]rule.Candidate)

	for id, c := range reg.RulesWithOneConfig() {
		merged[id] = c
	}
	for n := rule.Specificity(1); n <= reg.MaxSpecificity(); n++ {
		for id, c := range reg.RulesWithSpecificity(n) {
			merged[id] = c
		}
	}

	return merged
}

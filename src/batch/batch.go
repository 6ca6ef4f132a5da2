// Package batch groups per-rule candidates into linter invocation
// batches so the corpus is linted a bounded number of times instead of
// once per candidate.
package batch

import (
	"github.com/sofmeright/ruleforge/src/registry"
	"github.com/sofmeright/ruleforge/src/rule"
)

// DefaultMaxCandidates caps how many candidates a rule may have and
// still take part in batching. Rules above the cap are never tested
// and therefore never selected.
const DefaultMaxCandidates = 16

// Batch is one complete ruleId → configuration override set tested in
// a single linter invocation.
type Batch map[string]rule.Candidate

// Plan builds index-aligned batches: batch i carries each eligible
// rule's i-th candidate. Batch 0 is maximally dense; later batches
// shrink as shorter candidate lists run out. The number of batches
// equals the longest eligible candidate list.
func Plan(reg *registry.Registry, maxCandidates int) []Batch {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}

	total := reg.MaxListLen(maxCandidates)
	batches := make([]Batch, 0, total)

	for idx := 0; idx < total; idx++ {
		b := Batch{}
		for _, id := range reg.RuleIDs() {
			entries := reg.Entries(id)
			if len(entries) > maxCandidates || idx >= len(entries) {
				continue
			}
			b[id] = entries[idx].Candidate
		}
		batches = append(batches, b)
	}

	return batches
}

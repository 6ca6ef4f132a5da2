// Package registry holds the per-rule candidate scoreboard that the
// evaluation run mutates and the selection queries read.
package registry

import (
	"sort"

	"github.com/sofmeright/ruleforge/src/rule"
)

// Entry is one candidate configuration plus its accumulated error
// count across the evaluated corpus.
type Entry struct {
	Candidate   rule.Candidate
	Specificity rule.Specificity
	ErrorCount  int
}

// Registry maps rule ids to their ordered candidate entries. Insertion
// order matches generation order, which keeps batch indices aligned
// with candidate positions. There is exactly one writer during an
// evaluation run; the registry itself carries no locking.
type Registry struct {
	ids     []string
	entries map[string][]Entry
}

// New builds a registry from expanded candidate lists, dropping any
// rule named in the deny set. Rules with empty candidate lists are
// dropped as well; the expander never produces one, but callers may
// hand-build lists.
func New(candidates map[string][]rule.Candidate, deny map[string]bool) *Registry {
	r := &Registry{entries: make(map[string][]Entry, len(candidates))}

	for id, list := range candidates {
		if deny[id] || len(list) == 0 {
			continue
		}
		entries := make([]Entry, 0, len(list))
		for _, c := range list {
			entries = append(entries, Entry{
				Candidate:   c,
				Specificity: c.Specificity(),
			})
		}
		r.ids = append(r.ids, id)
		r.entries[id] = entries
	}

	sort.Strings(r.ids)
	return r
}

// RuleIDs returns the rule ids in stable (sorted) order.
func (r *Registry) RuleIDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// Len returns the number of rules currently in the registry.
func (r *Registry) Len() int { return len(r.ids) }

// CandidateCount returns the total number of candidates across rules.
func (r *Registry) CandidateCount() int {
	n := 0
	for _, entries := range r.entries {
		n += len(entries)
	}
	return n
}

// Entries returns a copy of the rule's candidate entries, or nil if
// the rule is absent.
func (r *Registry) Entries(id string) []Entry {
	entries, ok := r.entries[id]
	if !ok {
		return nil
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Candidate returns the rule's candidate at position idx.
func (r *Registry) Candidate(id string, idx int) (rule.Candidate, bool) {
	entries, ok := r.entries[id]
	if !ok || idx < 0 || idx >= len(entries) {
		return rule.Candidate{}, false
	}
	return entries[idx].Candidate, true
}

// RecordError attributes one diagnostic to the rule's candidate at the
// given batch index. Diagnostics for rules outside the registry (or
// positions a short candidate list never filled) are ignored; the
// linter's base configuration keeps emitting them regardless of the
// overrides under test.
func (r *Registry) RecordError(id string, idx int) bool {
	entries, ok := r.entries[id]
	if !ok || idx < 0 || idx >= len(entries) {
		return false
	}
	entries[idx].ErrorCount++
	return true
}

// PruneOverCap removes every rule whose candidate list exceeds limit.
// Such rules never enter a batch, so their error counts are untouched
// and would otherwise read as uniformly clean. Call it before the
// selection queries with the same cap the planner used.
func (r *Registry) PruneOverCap(limit int) {
	kept := r.ids[:0]
	for _, id := range r.ids {
		if len(r.entries[id]) > limit {
			delete(r.entries, id)
			continue
		}
		kept = append(kept, id)
	}
	r.ids = kept
}

// StripFailingConfigs removes every candidate with a non-zero error
// count. A rule left with no candidates disappears from the registry
// entirely — there is no safe way to enable it, so it is simply not
// part of the answer.
func (r *Registry) StripFailingConfigs() {
	kept := r.ids[:0]
	for _, id := range r.ids {
		var surviving []Entry
		for _, e := range r.entries[id] {
			if e.ErrorCount == 0 {
				surviving = append(surviving, e)
			}
		}
		if len(surviving) == 0 {
			delete(r.entries, id)
			continue
		}
		r.entries[id] = surviving
		kept = append(kept, id)
	}
	r.ids = kept
}

// RulesWithOneConfig returns the configuration of every rule whose
// surviving candidate list has exactly one entry.
func (r *Registry) RulesWithOneConfig() map[string]rule.Candidate {
	out := make(map[string]rule.Candidate)
	for _, id := range r.ids {
		if entries := r.entries[id]; len(entries) == 1 {
			out[id] = entries[0].Candidate
		}
	}
	return out
}

// RulesWithSpecificity returns, per rule, the single candidate at the
// given specificity. Rules with zero or more than one candidate at
// that level are excluded — ties are deliberately not broken.
func (r *Registry) RulesWithSpecificity(n rule.Specificity) map[string]rule.Candidate {
	out := make(map[string]rule.Candidate)
	for _, id := range r.ids {
		var match *Entry
		count := 0
		for i := range r.entries[id] {
			e := &r.entries[id][i]
			if e.Specificity == n {
				match = e
				count++
			}
		}
		if count == 1 {
			out[id] = match.Candidate
		}
	}
	return out
}

// MaxSpecificity returns the highest specificity present across all
// surviving candidates, or 0 for an empty registry.
func (r *Registry) MaxSpecificity() rule.Specificity {
	var max rule.Specificity
	for _, entries := range r.entries {
		for _, e := range entries {
			if e.Specificity > max {
				max = e.Specificity
			}
		}
	}
	return max
}

// MaxListLen returns the length of the longest candidate list among
// rules whose list does not exceed limit. It bounds the batch count.
func (r *Registry) MaxListLen(limit int) int {
	max := 0
	for _, entries := range r.entries {
		if len(entries) > limit {
			continue
		}
		if len(entries) > max {
			max = len(entries)
		}
	}
	return max
}

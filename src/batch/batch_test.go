package batch

import (
	"testing"

	"github.com/sofmeright/ruleforge/src/registry"
	"github.com/sofmeright/ruleforge/src/rule"
)

func candidates(n int) []rule.Candidate {
	list := make([]rule.Candidate, n)
	for i := range list {
		list[i] = rule.Candidate{Severity: rule.SeverityError}
		if i > 0 {
			list[i].Options = []rule.Option{{Value: i}}
		}
	}
	return list
}

func TestPlanIndexAlignment(t *testing.T) {
	reg := registry.New(map[string][]rule.Candidate{
		"three": candidates(3),
		"one":   candidates(1),
		"two":   candidates(2),
	}, nil)

	batches := Plan(reg, 16)
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}

	if len(batches[0]) != 3 {
		t.Fatalf("batch 0 should carry all three rules, got %v", batches[0])
	}
	if len(batches[1]) != 2 {
		t.Fatalf("batch 1 should carry the length-3 and length-2 rules, got %v", batches[1])
	}
	if _, ok := batches[1]["one"]; ok {
		t.Fatalf("exhausted rule must not appear in later batches")
	}
	if len(batches[2]) != 1 {
		t.Fatalf("batch 2 should carry only the length-3 rule, got %v", batches[2])
	}
	if _, ok := batches[2]["three"]; !ok {
		t.Fatalf("batch 2 missing the length-3 rule: %v", batches[2])
	}

	// Index alignment: batch i carries each rule's i-th candidate.
	c, ok := reg.Candidate("three", 2)
	if !ok {
		t.Fatalf("registry lost a candidate")
	}
	if batches[2]["three"].String() != c.String() {
		t.Fatalf("batch 2 carries %s, want %s", batches[2]["three"], c)
	}
}

func TestPlanExcludesOversizedRules(t *testing.T) {
	reg := registry.New(map[string][]rule.Candidate{
		"huge":  candidates(17),
		"small": candidates(2),
	}, nil)

	batches := Plan(reg, 16)
	if len(batches) != 2 {
		t.Fatalf("expected 2 batches from the small rule, got %d", len(batches))
	}
	for i, b := range batches {
		if _, ok := b["huge"]; ok {
			t.Fatalf("oversized rule present in batch %d", i)
		}
	}
}

func TestPlanEmptyRegistry(t *testing.T) {
	reg := registry.New(nil, nil)
	if batches := Plan(reg, 16); len(batches) != 0 {
		t.Fatalf("expected no batches, got %d", len(batches))
	}
}

func TestPlanZeroCapUsesDefault(t *testing.T) {
	reg := registry.New(map[string][]rule.Candidate{
		"small": candidates(2),
	}, nil)

	if batches := Plan(reg, 0); len(batches) != 2 {
		t.Fatalf("expected default cap to admit the rule, got %d batches", len(batches))
	}
}

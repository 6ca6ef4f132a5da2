package eval

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/sofmeright/ruleforge/src/batch"
	"github.com/sofmeright/ruleforge/src/registry"
	"github.com/sofmeright/ruleforge/src/rule"
)

type memCorpus map[string]string

func (m memCorpus) Files() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	// Deterministic order for assertions.
	sort.Strings(names)
	return names
}

func (m memCorpus) Read(name string) ([]byte, error) {
	content, ok := m[name]
	if !ok {
		return nil, errors.New("no such file")
	}
	return []byte(content), nil
}

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	return registry.New(map[string][]rule.Candidate{
		"semi": {
			{Severity: rule.SeverityError},
			{Severity: rule.SeverityError, Options: []rule.Option{{Value: "always"}}},
		},
		"quote": {
			{Severity: rule.SeverityError},
		},
	}, nil)
}

func TestRunAttributesDiagnostics(t *testing.T) {
	reg := newTestRegistry(t)
	batches := batch.Plan(reg, 16)
	if len(batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(batches))
	}

	// Batch 1 carries semi's "always" candidate; report a semi
	// diagnostic only when that candidate is active.
	linter := LinterFunc(func(_ context.Context, _ string, _ []byte, overrides batch.Batch) ([]rule.Diagnostic, error) {
		if c, ok := overrides["semi"]; ok && len(c.Options) == 1 {
			return []rule.Diagnostic{{Rule: "semi", Line: 1, Message: "missing semicolon"}}, nil
		}
		return nil, nil
	})

	r := &Runner{Linter: linter}
	stats, err := r.Run(context.Background(), memCorpus{"a.js": "x", "b.js": "y"}, batches, reg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if stats.Invocations != 4 {
		t.Fatalf("expected 2 batches × 2 files = 4 invocations, got %d", stats.Invocations)
	}
	if stats.Attributed != 2 {
		t.Fatalf("expected 2 attributed diagnostics, got %d", stats.Attributed)
	}

	entries := reg.Entries("semi")
	if entries[0].ErrorCount != 0 {
		t.Fatalf("severity-only candidate should be clean, got %d", entries[0].ErrorCount)
	}
	if entries[1].ErrorCount != 2 {
		t.Fatalf("always candidate should have 2 errors (one per file), got %d", entries[1].ErrorCount)
	}
}

func TestRunFailOpenOnLinterError(t *testing.T) {
	reg := newTestRegistry(t)
	batches := batch.Plan(reg, 16)

	calls := 0
	linter := LinterFunc(func(_ context.Context, file string, _ []byte, _ batch.Batch) ([]rule.Diagnostic, error) {
		calls++
		if file == "bad.js" {
			return nil, errors.New("parser exploded")
		}
		return nil, nil
	})

	var log strings.Builder
	r := &Runner{Linter: linter, Verbose: true, Log: &log}
	stats, err := r.Run(context.Background(), memCorpus{"bad.js": "x", "good.js": "y"}, batches, reg)
	if err != nil {
		t.Fatalf("a failing pair must not abort the run: %v", err)
	}

	if stats.Failures != len(batches) {
		t.Fatalf("expected %d failures (bad.js per batch), got %d", len(batches), stats.Failures)
	}
	if calls != len(batches)*2 {
		t.Fatalf("evaluation must continue past failures: %d calls", calls)
	}
	if !strings.Contains(log.String(), "parser exploded") {
		t.Fatalf("failure should be logged, got %q", log.String())
	}

	// Crashing configurations are never penalized.
	for _, id := range reg.RuleIDs() {
		for _, e := range reg.Entries(id) {
			if e.ErrorCount != 0 {
				t.Fatalf("rule %s has error count %d after fail-open run", id, e.ErrorCount)
			}
		}
	}
}

func TestRunIgnoresForeignDiagnostics(t *testing.T) {
	reg := newTestRegistry(t)
	batches := batch.Plan(reg, 16)

	// A base-config rule outside the registry keeps reporting.
	linter := LinterFunc(func(_ context.Context, _ string, _ []byte, _ batch.Batch) ([]rule.Diagnostic, error) {
		return []rule.Diagnostic{{Rule: "no-undef", Message: "x is not defined"}}, nil
	})

	r := &Runner{Linter: linter}
	stats, err := r.Run(context.Background(), memCorpus{"a.js": "x"}, batches, reg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Attributed != 0 {
		t.Fatalf("foreign diagnostics must not be attributed, got %d", stats.Attributed)
	}
	if stats.Diagnostics != len(batches) {
		t.Fatalf("diagnostics should still be counted, got %d", stats.Diagnostics)
	}
}

func TestRunEmptyCorpus(t *testing.T) {
	reg := newTestRegistry(t)
	batches := batch.Plan(reg, 16)

	r := &Runner{Linter: LinterFunc(func(_ context.Context, _ string, _ []byte, _ batch.Batch) ([]rule.Diagnostic, error) {
		t.Fatalf("linter must not run on an empty corpus")
		return nil, nil
	})}

	stats, err := r.Run(context.Background(), memCorpus{}, batches, reg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Invocations != 0 {
		t.Fatalf("expected no invocations, got %d", stats.Invocations)
	}

	for _, id := range reg.RuleIDs() {
		for _, e := range reg.Entries(id) {
			if e.ErrorCount != 0 {
				t.Fatalf("empty corpus must leave counts at zero")
			}
		}
	}
}

func TestRunUsesCache(t *testing.T) {
	reg := newTestRegistry(t)
	batches := batch.Plan(reg, 16)

	calls := 0
	linter := LinterFunc(func(_ context.Context, _ string, _ []byte, _ batch.Batch) ([]rule.Diagnostic, error) {
		calls++
		return []rule.Diagnostic{{Rule: "quote", Message: "bad quotes"}}, nil
	})

	cache := &Cache{Dir: filepath.Join(t.TempDir(), "cache"), Salt: "linter-1.0", Enabled: true}
	corpus := memCorpus{"a.js": "x"}

	r := &Runner{Linter: linter, Cache: cache}
	if _, err := r.Run(context.Background(), corpus, batches, reg); err != nil {
		t.Fatalf("first run: %v", err)
	}
	firstCalls := calls

	reg2 := newTestRegistry(t)
	stats, err := r.Run(context.Background(), corpus, batches, reg2)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if calls != firstCalls {
		t.Fatalf("second run should be fully cached: %d extra calls", calls-firstCalls)
	}
	if stats.CacheHits != len(batches) {
		t.Fatalf("expected %d cache hits, got %d", len(batches), stats.CacheHits)
	}

	// Cached diagnostics still attribute (batch 0 only — quote has a
	// single candidate, so batch 1's diagnostic lands out of range).
	if reg2.Entries("quote")[0].ErrorCount != 1 {
		t.Fatalf("cached diagnostics must attribute: %d", reg2.Entries("quote")[0].ErrorCount)
	}
}

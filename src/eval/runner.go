// Package eval drives the external linter over the corpus, one
// invocation per (file, batch), and attributes diagnostics back to the
// registry entries under test.
package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sofmeright/ruleforge/src/batch"
	"github.com/sofmeright/ruleforge/src/registry"
	"github.com/sofmeright/ruleforge/src/rule"
)

// Linter is the external engine contract: verify one source against a
// rule override map and return its diagnostics. Rules absent from the
// overrides must be left on the engine's base configuration.
type Linter interface {
	Verify(ctx context.Context, file string, source []byte, overrides batch.Batch) ([]rule.Diagnostic, error)
}

// LinterFunc adapts a plain function to the Linter interface.
type LinterFunc func(ctx context.Context, file string, source []byte, overrides batch.Batch) ([]rule.Diagnostic, error)

func (f LinterFunc) Verify(ctx context.Context, file string, source []byte, overrides batch.Batch) ([]rule.Diagnostic, error) {
	return f(ctx, file, source, overrides)
}

// Corpus supplies the sample files whose diagnostics drive selection.
// Read is called per (file, batch) pair so content never has to stay
// resident beyond a single invocation.
type Corpus interface {
	Files() []string
	Read(name string) ([]byte, error)
}

// Stats summarizes a completed run.
type Stats struct {
	Batches     int
	Files       int
	Invocations int
	Diagnostics int
	Attributed  int
	Failures    int
	CacheHits   int
	CacheMisses int
}

// Runner evaluates batches strictly sequentially. The linter call is
// treated as blocking and not guaranteed reentrant, and single-writer
// registry mutation needs no locking only because nothing here runs
// concurrently.
type Runner struct {
	Linter  Linter
	Cache   *Cache
	Verbose bool
	Log     io.Writer
}

// Run lints every corpus file once per batch and increments the error
// count of the candidate each diagnostic names. Any single (file,
// batch) failure is logged and counted as zero diagnostics for that
// pair; a crashing configuration is never penalized and never aborts
// the run. The registry is meaningful only after Run returns.
func (r *Runner) Run(ctx context.Context, corpus Corpus, batches []batch.Batch, reg *registry.Registry) (Stats, error) {
	if r.Linter == nil {
		return Stats{}, fmt.Errorf("eval: no linter configured")
	}

	files := corpus.Files()
	stats := Stats{Batches: len(batches), Files: len(files)}

	for idx, b := range batches {
		batchJSON, err := json.Marshal(b)
		if err != nil {
			return stats, fmt.Errorf("eval: encoding batch %d: %w", idx, err)
		}

		for _, name := range files {
			if err := ctx.Err(); err != nil {
				return stats, err
			}

			source, err := corpus.Read(name)
			if err != nil {
				stats.Failures++
				r.logf("eval: %s: read failed: %v", name, err)
				continue
			}

			diags, cached := r.cachedDiagnostics(source, batchJSON)
			if cached {
				stats.CacheHits++
			} else {
				stats.CacheMisses++
				stats.Invocations++
				diags, err = r.Linter.Verify(ctx, name, source, b)
				if err != nil {
					// Fail open: log and treat as zero diagnostics.
					stats.Failures++
					r.logf("eval: %s (batch %d): %v", name, idx, err)
					continue
				}
				r.storeDiagnostics(source, batchJSON, diags, name)
			}

			for _, d := range diags {
				stats.Diagnostics++
				if reg.RecordError(d.Rule, idx) {
					stats.Attributed++
				}
			}
		}
	}

	return stats, nil
}

func (r *Runner) cachedDiagnostics(source, batchJSON []byte) ([]rule.Diagnostic, bool) {
	if r.Cache == nil || !r.Cache.Enabled {
		return nil, false
	}
	return r.Cache.Get(r.Cache.Key(source, batchJSON))
}

func (r *Runner) storeDiagnostics(source, batchJSON []byte, diags []rule.Diagnostic, name string) {
	if r.Cache == nil || !r.Cache.Enabled {
		return
	}
	// Cache empty results too — a clean pass is the common case.
	if err := r.Cache.Put(r.Cache.Key(source, batchJSON), diags); err != nil {
		r.logf("eval: cache write failed for %s: %v", name, err)
	}
}

func (r *Runner) logf(format string, args ...any) {
	if !r.Verbose {
		return
	}
	w := r.Log
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, format+"\n", args...)
}

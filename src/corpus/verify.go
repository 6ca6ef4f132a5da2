package corpus

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Problem describes one unreadable corpus file.
type Problem struct {
	File string
	Err  error
}

// Verify reads every scanned file once, bounded by a weighted
// semaphore, and reports the ones that cannot be read. A clean result
// means a later sequential evaluation will not lose pairs to I/O
// errors. Content is discarded immediately after the read.
func (d *Dir) Verify(ctx context.Context) ([]Problem, error) {
	var (
		mu       sync.Mutex
		problems []Problem
		wg       sync.WaitGroup
	)

	sem := semaphore.NewWeighted(int64(runtime.NumCPU() * 2))

	for _, name := range d.files {
		if err := sem.Acquire(ctx, 1); err != nil {
			return problems, fmt.Errorf("corpus: verify interrupted: %w", err)
		}
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			defer sem.Release(1)

			if _, err := d.Read(name); err != nil {
				mu.Lock()
				problems = append(problems, Problem{File: name, Err: err})
				mu.Unlock()
			}
		}(name)
	}

	wg.Wait()
	return problems, nil
}

// Package batch runs independent render items on a bounded set of goroutines.
package batch

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
)

// Error is one failed item.
type Error struct {
	Label   string
	Message string
}

// Result summarizes a run. Skipped is set by callers that filter inputs
// before handing them to Run.
type Result struct {
	Total     int
	Processed int
	Skipped   int
	Errors    []Error
	// Err is the context error when the run was cancelled.
	Err error
}

// ProgressFunc receives the number of finished items and the item count.
type ProgressFunc func(done, total int)

// Pool limits how many items run at once.
type Pool struct {
	// Workers <= 0 runs one item at a time.
	Workers  int
	Progress ProgressFunc
}

type itemErr struct {
	idx int
	err error
}

// Run calls fn for every label index. Items not yet started when ctx is
// cancelled are left out of Processed.
func (p Pool) Run(ctx context.Context, labels []string, fn func(ctx context.Context, i int) error) Result {
	res := Result{Total: len(labels)}
	workers := max(p.Workers, 1)

	errs := make(chan itemErr, len(labels))
	sem := make(chan struct{}, workers)
	var processed, done atomic.Int64
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i := range labels {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return
			}
			if err := fn(ctx, idx); err != nil {
				errs <- itemErr{idx: idx, err: err}
			} else {
				processed.Add(1)
			}
			n := done.Add(1)
			if p.Progress != nil {
				mu.Lock()
				p.Progress(int(n), len(labels))
				mu.Unlock()
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	var failed []itemErr
	for e := range errs {
		failed = append(failed, e)
	}
	slices.SortFunc(failed, func(a, b itemErr) int { return a.idx - b.idx })
	for _, e := range failed {
		res.Errors = append(res.Errors, Error{Label: labels[e.idx], Message: e.err.Error()})
	}
	res.Processed = int(processed.Load())
	res.Err = ctx.Err()
	return res
}

// Run is Pool{Workers: workers}.Run.
func Run(ctx context.Context, labels []string, workers int, fn func(ctx context.Context, i int) error) Result {
	return Pool{Workers: workers}.Run(ctx, labels, fn)
}

// Package workerpool provides the channel-based worker pool the
// frame orchestrator drives for both plane-level work inside one
// frame and frame-level work across an animation sequence: a job
// channel, runtime.GOMAXPROCS(0) workers by default, results
// collected back into submission order, and a sequential fast path
// below a small job count.
package workerpool

import (
	"runtime"
	"sync"

	"github.com/jxlgo/jxl/internal/jxllog"
)

// minParallelJobs is the sequential fast-path threshold: at or below
// this count the scheduling overhead of spinning up
// workers outweighs any parallelism gained.
const minParallelJobs = 4

// Job is a unit of work submitted to the pool; it returns a result
// value that SubmitAll threads back in submission order.
type Job func() any

// Pool is a fixed-size worker pool with a Submit/SubmitAll/Wait/
// Shutdown lifecycle. A zero-value Pool is not usable; construct one
// with New.
type Pool struct {
	numWorkers int
	jobs       chan func()
	wg         sync.WaitGroup
	mu         sync.Mutex
	cancelled  bool
}

// New creates a pool sized to numWorkers, or runtime.GOMAXPROCS(0)
// if numWorkers <= 0 (the "0 = auto" convention options.NumThreads
// uses).
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{numWorkers: numWorkers, jobs: make(chan func())}
	for i := 0; i < numWorkers; i++ {
		go p.worker()
	}
	jxllog.L().Debugw("worker pool started", "workers", numWorkers)
	return p
}

func (p *Pool) worker() {
	for job := range p.jobs {
		job()
	}
}

// Submit enqueues a single closure, to be run by whichever worker is
// free next.
func (p *Pool) Submit(fn func()) {
	p.wg.Add(1)
	p.jobs <- func() {
		defer p.wg.Done()
		fn()
	}
}

// SubmitAll runs jobs across the pool and returns their results in
// the same order as the input slice. At or below minParallelJobs, or when the
// pool has a single worker, jobs run sequentially on the calling
// goroutine instead of paying channel/goroutine overhead.
func (p *Pool) SubmitAll(jobs []Job) []any {
	results := make([]any, len(jobs))
	if len(jobs) <= minParallelJobs || p.numWorkers == 1 {
		for i, j := range jobs {
			results[i] = j()
		}
		return results
	}

	var wg sync.WaitGroup
	wg.Add(len(jobs))
	for i, j := range jobs {
		i, j := i, j
		p.jobs <- func() {
			defer wg.Done()
			results[i] = j()
		}
	}
	wg.Wait()
	return results
}

// WaitForAll blocks until every Submit call so far has completed.
func (p *Pool) WaitForAll() {
	p.wg.Wait()
}

// Cancelled reports whether Cancel has been called. The orchestrator
// does not read this flag, so Cancel does not stop an encode or
// decode that is in progress.
func (p *Pool) Cancelled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancelled
}

// Cancel sets the cooperative cancellation flag.
func (p *Pool) Cancel() {
	p.mu.Lock()
	p.cancelled = true
	p.mu.Unlock()
}

// Shutdown waits for every Submit call so far to complete, then closes
// the job channel so the worker goroutines exit; it does not wait for
// them to return.
func (p *Pool) Shutdown() {
	p.wg.Wait()
	close(p.jobs)
	jxllog.L().Debugw("worker pool shut down", "workers", p.numWorkers)
}

// Package worker runs per-game evaluation across a pool of
// goroutines. Games are independent once the shared matchers are
// built, so the pool needs no locking beyond its channels.
package worker

import (
	"context"
	"runtime"
	"sync"

	"github.com/pgnsieve/pgnsieve/internal/chess"
	"github.com/pgnsieve/pgnsieve/internal/processing"
)

// Job is one game queued for evaluation. Seq preserves input order for
// callers that want deterministic output.
type Job struct {
	Seq  int
	Game *chess.Game
}

// Outcome pairs a job with its replay result.
type Outcome struct {
	Seq    int
	Result *processing.Result
	Err    error
}

// EvalFunc evaluates one game.
type EvalFunc func(game *chess.Game) (*processing.Result, error)

// Pool fans jobs out to a fixed number of goroutines.
type Pool struct {
	workers int
	buffer  int
	eval    EvalFunc

	jobs     chan Job
	outcomes chan Outcome
	wg       sync.WaitGroup
}

// Option adjusts pool construction.
type Option func(*Pool)

// WithWorkers sets the goroutine count. Values below one select one
// worker per CPU.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n >= 1 {
			p.workers = n
		}
	}
}

// WithBuffer sets the job and outcome channel capacity.
func WithBuffer(n int) Option {
	return func(p *Pool) {
		if n >= 1 {
			p.buffer = n
		}
	}
}

// NewPool builds a pool around an evaluation function.
func NewPool(eval EvalFunc, opts ...Option) *Pool {
	p := &Pool{
		workers: runtime.NumCPU(),
		buffer:  64,
		eval:    eval,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.jobs = make(chan Job, p.buffer)
	p.outcomes = make(chan Outcome, p.buffer)
	return p
}

// Start launches the workers. They run until Close is called or the
// context is cancelled; cancellation drains remaining jobs unworked.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()
	for job := range p.jobs {
		if ctx.Err() != nil {
			continue
		}
		result, err := p.eval(job.Game)
		p.outcomes <- Outcome{Seq: job.Seq, Result: result, Err: err}
	}
}

// Submit queues one game, blocking while the queue is full.
func (p *Pool) Submit(job Job) {
	p.jobs <- job
}

// Close stops accepting jobs and, once the workers drain the queue,
// closes the outcome channel.
func (p *Pool) Close() {
	close(p.jobs)
	go func() {
		p.wg.Wait()
		close(p.outcomes)
	}()
}

// Outcomes returns the channel results arrive on. It is closed after
// Close once every queued job has been worked or drained.
func (p *Pool) Outcomes() <-chan Outcome {
	return p.outcomes
}

// Workers reports the goroutine count.
func (p *Pool) Workers() int {
	return p.workers
}

package analysis

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Executor runs n independent tasks, identified by index, and reports the
// first error. Implementations decide how the tasks are scheduled; callers
// must not depend on completion order.
type Executor interface {
	Run(ctx context.Context, n int, task func(i int) error) error
}

// ctxCheckInterval is how many tasks run between cancellation checks.
const ctxCheckInterval = 64

type sequential struct{}

// Sequential runs every task on the calling goroutine, in index order.
var Sequential Executor = sequential{}

func (sequential) Run(ctx context.Context, n int, task func(i int) error) error {
	for i := 0; i < n; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := task(i); err != nil {
			return err
		}
	}
	return nil
}

// Pool runs tasks on a bounded set of goroutines.
type Pool struct {
	workers int
}

// NewPool creates a pool with the given number of workers. Zero or a
// negative count picks one worker per CPU, capped at 8.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > 8 {
			workers = 8 // Cap at 8 for diminishing returns
		}
	}
	return &Pool{workers: workers}
}

// Workers returns the concurrency limit.
func (p *Pool) Workers() int {
	return p.workers
}

// Run splits [0, n) into contiguous chunks, a few per worker so uneven
// chunks balance out, and runs them with at most Workers goroutines.
func (p *Pool) Run(ctx context.Context, n int, task func(i int) error) error {
	if n <= 0 {
		return ctx.Err()
	}
	chunks := p.workers * 4
	if chunks > n {
		chunks = n
	}
	size := n / chunks
	remainder := n % chunks

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	start := 0
	for c := 0; c < chunks; c++ {
		end := start + size
		if c < remainder {
			end++ // Distribute remainder tasks
		}
		lo, hi := start, end
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if (i-lo)%ctxCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if err := task(i); err != nil {
					return err
				}
			}
			return nil
		})
		start = end
	}
	return g.Wait()
}

package workerpool

import (
	"context"
	"sync"
)

type Task func(ctx context.Context) error

type Result struct {
	Index int
	Err   error
}

// Pool runs submitted tasks on a fixed number of goroutines. Submit after
// Run, then Close once every task is submitted; the Run channel closes when
// all workers have drained.
type Pool struct {
	workers int
	tasks   chan indexedTask
	wg      sync.WaitGroup
	next    int
}

type indexedTask struct {
	index int
	run   Task
}

func New(workers, buffer int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool{
		workers: workers,
		tasks:   make(chan indexedTask, buffer),
	}
}

// Submit queues t and returns its index, or ctx's error if the queue stays
// full until ctx is done.
func (p *Pool) Submit(ctx context.Context, t Task) (int, error) {
	idx := p.next
	p.next++
	select {
	case <-ctx.Done():
		return idx, ctx.Err()
	case p.tasks <- indexedTask{index: idx, run: t}:
		return idx, nil
	}
}

func (p *Pool) Close() {
	close(p.tasks)
}

func (p *Pool) Run(ctx context.Context) <-chan Result {
	out := make(chan Result, p.workers)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for t := range p.tasks {
				if t.run == nil {
					continue
				}
				var err error
				if ctxErr := ctx.Err(); ctxErr != nil {
					err = ctxErr
				} else {
					err = t.run(ctx)
				}
				out <- Result{Index: t.index, Err: err}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		close(out)
	}()

	return out
}

// Map applies fn to every item on a pool of the given size and returns the
// outputs and errors in input order.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) (R, error)) ([]R, []error) {
	outs := make([]R, len(items))
	errs := make([]error, len(items))
	if len(items) == 0 {
		return outs, errs
	}
	if workers > len(items) {
		workers = len(items)
	}

	p := New(workers, len(items))
	results := p.Run(ctx)

	for i := range items {
		item := items[i]
		slot := i
		_, _ = p.Submit(context.Background(), func(ctx context.Context) error {
			r, err := fn(ctx, item)
			outs[slot] = r
			return err
		})
	}
	p.Close()

	for res := range results {
		errs[res.Index] = res.Err
	}
	return outs, errs
}

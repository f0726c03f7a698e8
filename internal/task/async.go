package task

import (
	"context"
)

// Contextual stores the graph context handed over by Attach. Embed it in
// actions that run blocking work.
type Contextual struct {
	ctx context.Context
}

func (c *Contextual) SetContext(ctx context.Context) { c.ctx = ctx }

// Context returns the stored context, or context.Background before Attach.
func (c *Contextual) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

type jobResult[T any] struct {
	value T
	err   error
}

// Job runs blocking work on its own goroutine so an action can report
// Running across ticks. The result is collected by Poll on the ticking
// goroutine, which is the only place blackboard writes may happen.
type Job[T any] struct {
	cancel context.CancelFunc
	done   chan jobResult[T]
}

// Active reports whether a run was launched and not yet collected.
func (j *Job[T]) Active() bool { return j.done != nil }

// Launch starts fn unless a run is already in flight.
func (j *Job[T]) Launch(parent context.Context, fn func(ctx context.Context) (T, error)) {
	if j.done != nil {
		return
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	done := make(chan jobResult[T], 1)
	j.cancel, j.done = cancel, done

	go func() {
		v, err := fn(ctx)
		done <- jobResult[T]{value: v, err: err}
	}()
}

// Poll returns the result of a finished run without blocking. finished is
// false while the run is in flight or when nothing was launched.
func (j *Job[T]) Poll() (value T, finished bool, err error) {
	if j.done == nil {
		return value, false, nil
	}
	select {
	case res := <-j.done:
		j.cancel()
		j.cancel, j.done = nil, nil
		return res.value, true, res.err
	default:
		return value, false, nil
	}
}

// Cancel aborts an in-flight run and forgets it. Its result is discarded.
func (j *Job[T]) Cancel() {
	if j.cancel != nil {
		j.cancel()
	}
	j.cancel, j.done = nil, nil
}

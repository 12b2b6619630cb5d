package task

import (
	"context"
	"sync"

	"github.com/samber/mo"
)

// Completion is the outcome of one enqueued task.
type Completion struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// Resolved returns a completion that has already succeeded.
func Resolved() *Completion {
	c := newCompletion()
	c.finish(nil)
	return c
}

func (c *Completion) finish(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

// Done is closed once the task has run.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Err returns the task's error. It is only meaningful once Done is closed.
func (c *Completion) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Wait blocks until the task has run or ctx is done.
// Giving up on the wait does not cancel the task.
func (c *Completion) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Future exposes the completion as a mo.Future.
func (c *Completion) Future() *mo.Future[struct{}] {
	return mo.NewFuture(func(resolve func(struct{}), reject func(error)) {
		<-c.done
		if c.err != nil {
			reject(c.err)
			return
		}
		resolve(struct{}{})
	})
}

// WaitAll waits for every completion and returns the first error encountered.
func WaitAll(ctx context.Context, completions ...*Completion) error {
	var first error
	for _, c := range completions {
		if err := c.Wait(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

package pool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anisan-cli/mediapool/log"
	"github.com/anisan-cli/mediapool/media"
	"github.com/anisan-cli/mediapool/task"
	"github.com/samber/mo"
)

// Register moves the declared sources of h into the pool.
// Registering an item twice, or registering one of the pool's own engines, does nothing.
func (p *Pool) Register(h Handle) *mo.Future[struct{}] {
	c, err := p.register(h, false)
	if err != nil {
		return rejected(err)
	}
	return c.Future()
}

// Reregister replaces the stored sources of h with its current declaration.
// When h is bound the engine is updated and reloaded in place.
func (p *Pool) Reregister(h Handle) *mo.Future[struct{}] {
	c, err := p.register(h, true)
	if err != nil {
		return rejected(err)
	}
	return c.Future()
}

func (p *Pool) register(h Handle, replace bool) (*task.Completion, error) {
	if h.Type() != media.Audio && h.Type() != media.Video {
		return nil, fmt.Errorf("%s: %w %q", h.ID(), ErrUnsupportedType, h.Type())
	}

	p.mu.Lock()
	defer p.unlock()

	if p.closed {
		return nil, ErrClosed
	}

	if _, ok := p.resourceFor(h); ok {
		return task.Resolved(), nil
	}

	id := h.ID()
	if observer, ok := h.(InteractionObserver); ok && !p.blessed {
		if _, seen := p.handles[id]; !seen {
			p.interactions = append(p.interactions, observer)
		}
	}

	if _, ok := p.descriptors[id]; ok && !replace {
		return task.Resolved(), nil
	}

	p.handles[id] = h
	p.descriptors[id] = media.Extract(h)

	r, ok := p.bindings[id]
	if !ok {
		return task.Resolved(), nil
	}

	log.Debugf("reloading %s in %s", id, r.id)
	return p.reload(r), nil
}

// Preload binds an engine to h and loads its sources without starting playback.
// The returned future resolves once loading finished or no engine could be allocated.
func (p *Pool) Preload(h Handle) *mo.Future[struct{}] {
	b, err := p.acquire(h)
	if err != nil {
		return rejected(err)
	}

	if b == nil {
		return resolved()
	}

	return async(func() error {
		b.wait()
		return nil
	})
}

// Play preloads h and starts playback.
// It resolves without playing when no engine could be allocated.
func (p *Pool) Play(h Handle) *mo.Future[struct{}] {
	b, err := p.acquire(h)
	if err != nil {
		return rejected(err)
	}

	if b == nil {
		return resolved()
	}

	return async(func() error {
		if !b.wait() {
			return nil
		}
		return p.run(b.res, b.gen, task.Play{})
	})
}

// Pause pauses h. With rewind, it seeks back to the start after the configured rewind delay.
func (p *Pool) Pause(h Handle, rewind bool) *mo.Future[struct{}] {
	r, gen, ok := p.bound(h)
	if !ok {
		return resolved()
	}

	paused, ok := p.enqueue(r, gen, task.Pause{})
	if !ok {
		return resolved()
	}

	if !rewind {
		return paused.Future()
	}

	return async(func() error {
		if err := paused.Wait(context.Background()); err != nil {
			return err
		}

		<-time.After(p.opts.RewindDelay)
		return p.run(r, gen, task.SetCurrentTime{})
	})
}

// Mute mutes the engine bound to h.
func (p *Pool) Mute(h Handle) *mo.Future[struct{}] {
	return p.delegate(h, task.Mute{})
}

// Unmute unmutes the engine bound to h.
// Video items that declare themselves silent stay muted.
func (p *Pool) Unmute(h Handle) *mo.Future[struct{}] {
	if audible, ok := h.(media.Audible); ok && h.Type() == media.Video && audible.Silent() {
		return resolved()
	}

	return p.delegate(h, task.Unmute{})
}

// SetCurrentTime seeks the engine bound to h.
func (p *Pool) SetCurrentTime(h Handle, seconds float64) *mo.Future[struct{}] {
	return p.delegate(h, task.SetCurrentTime{Seconds: seconds})
}

// RewindToBeginning seeks the engine bound to h to the start.
func (p *Pool) RewindToBeginning(h Handle) *mo.Future[struct{}] {
	return p.SetCurrentTime(h, 0)
}

// BlessAll blesses every engine that was not blessed yet, so it may later play unmuted.
// It has to be called in response to a user gesture; calls after a successful one do nothing.
func (p *Pool) BlessAll() *mo.Future[struct{}] {
	type blessing struct {
		res  *resource
		done *task.Completion
	}

	p.mu.Lock()
	if p.blessed || p.closed {
		p.mu.Unlock()
		return resolved()
	}
	p.blessed = true

	observers := p.interactions
	p.interactions = nil

	var pending []blessing
	for _, r := range p.resources {
		if r.blessed {
			continue
		}
		pending = append(pending, blessing{res: r, done: p.push(r, task.Bless{})})
	}
	p.unlock()

	for _, observer := range observers {
		observer.UserInteracted()
	}

	return async(func() error {
		var errs []error
		for _, b := range pending {
			if err := b.done.Wait(context.Background()); err != nil {
				errs = append(errs, fmt.Errorf("bless %s: %w", b.res.id, err))
				continue
			}
			p.markBlessed(b.res)
		}

		if err := errors.Join(errs...); err != nil {
			log.Warnf("blessing all media failed: %v", err)

			p.mu.Lock()
			p.blessed = false
			p.mu.Unlock()
		}

		return nil
	})
}

func (p *Pool) markBlessed(r *resource) {
	p.mu.Lock()
	defer p.mu.Unlock()

	r.blessed = true
}

// delegate queues t on the engine bound to h; unbound handles resolve at once.
func (p *Pool) delegate(h Handle, t task.Task) *mo.Future[struct{}] {
	r, gen, ok := p.bound(h)
	if !ok {
		return resolved()
	}

	c, ok := p.enqueue(r, gen, t)
	if !ok {
		return resolved()
	}
	return c.Future()
}

// run queues t on r and waits for it, unless r was rebound in the meantime.
func (p *Pool) run(r *resource, gen uint64, t task.Task) error {
	c, ok := p.enqueue(r, gen, t)
	if !ok {
		return nil
	}
	return c.Wait(context.Background())
}

func async(fn func() error) *mo.Future[struct{}] {
	return mo.NewFuture(func(resolve func(struct{}), reject func(error)) {
		if err := fn(); err != nil {
			reject(err)
			return
		}
		resolve(struct{}{})
	})
}

func resolved() *mo.Future[struct{}] {
	return task.Resolved().Future()
}

func rejected(err error) *mo.Future[struct{}] {
	return async(func() error { return err })
}

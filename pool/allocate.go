package pool

import (
	"cmp"
	"context"
	"fmt"

	"github.com/anisan-cli/mediapool/log"
	"github.com/anisan-cli/mediapool/media"
	"github.com/anisan-cli/mediapool/task"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// acquire returns the binding of h, allocating a resource when it has none.
// A nil binding without error means no resource could be allocated.
func (p *Pool) acquire(h Handle) (*binding, error) {
	p.mu.Lock()
	defer p.unlock()

	if p.closed {
		return nil, ErrClosed
	}

	if r, ok := p.resourceFor(h); ok {
		if r.handle == "" {
			return nil, nil
		}
		return r.bind, nil
	}

	id := h.ID()
	if r, ok := p.bindings[id]; ok {
		return r.bind, nil
	}

	if _, ok := p.descriptors[id]; !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrUnregistered)
	}

	if !p.opts.Host.Connected(h) {
		log.Debugf("%s is not connected to the host, skipping", id)
		return nil, nil
	}

	r := p.reserve(h)
	if r == nil {
		log.Debugf("no %s engine available for %s", h.Type(), id)
		return nil, nil
	}

	return p.bind(r, h), nil
}

// reserve takes a free resource of the handle's type or evicts one.
// Must be called with the lock held.
func (p *Pool) reserve(h Handle) *resource {
	t := h.Type()

	if free := p.unallocated[t]; len(free) > 0 {
		r := free[len(free)-1]
		p.unallocated[t] = free[:len(free)-1]
		return r
	}

	return p.evict(t, h)
}

// evict frees the allocated resource furthest away, provided it is strictly further than h.
// Resources are stable-sorted by distance, so among equal distances the last allocated one goes first.
// The freed resource passes straight from the allocated set to the caller.
// Must be called with the lock held.
func (p *Pool) evict(t media.Type, h Handle) *resource {
	allocated := p.allocated[t]
	if len(allocated) == 0 {
		return nil
	}

	distances := make(map[*resource]float64, len(allocated))
	for _, r := range allocated {
		distances[r] = p.opts.Distance(p.handles[r.handle])
	}

	sorted := slices.Clone(allocated)
	slices.SortStableFunc(sorted, func(a, b *resource) int {
		return cmp.Compare(distances[a], distances[b])
	})

	furthest := sorted[len(sorted)-1]
	if distances[furthest] <= p.opts.Distance(h) {
		return nil
	}

	log.Debugf("evicting %s from %s (distance %v) for %s", furthest.handle, furthest.id, distances[furthest], h.ID())

	p.allocated[t] = lo.Without(allocated, furthest)
	p.release(furthest)
	return furthest
}

// bind marks r as allocated to h and queues the whole bind sequence.
// Operations issued on h afterwards queue behind the load.
// Must be called with the lock held.
func (p *Pool) bind(r *resource, h Handle) *binding {
	r.gen++
	r.handle = h.ID()
	r.bind = newBinding(r)

	p.allocated[r.typ] = append(p.allocated[r.typ], r)
	p.bindings[r.handle] = r

	log.Debugf("binding %s to %s", r.id, r.handle)

	swap := p.push(r, task.SwapIn{Host: p.opts.Host, Slot: h, Policy: p.policy})
	load := p.reload(r)
	go p.finishBind(r.bind, h, swap, load)

	return r.bind
}

// finishBind waits for the bind sequence of b to complete.
// Any failure gives the resource back to the pool.
func (p *Pool) finishBind(b *binding, h Handle, swap, load *task.Completion) {
	ok := false
	defer func() { b.settle(ok) }()

	if err := swap.Wait(context.Background()); err != nil {
		log.Warnf("swapping %s in for %s failed: %v", b.res.id, h.ID(), err)
		p.forceDeallocate(b)
		return
	}

	if observer, is := h.(SwapObserver); is {
		observer.SwappedIn()
	}

	if err := load.Wait(context.Background()); err != nil {
		log.Warnf("loading %s into %s failed: %v", h.ID(), b.res.id, err)
		p.forceDeallocate(b)
		return
	}

	ok = p.current(b)
}

// reload queues the bound item's sources and a load.
// Must be called with the lock held.
func (p *Pool) reload(r *resource) *task.Completion {
	p.push(r, task.UpdateSources{Descriptor: p.descriptors[r.handle]})
	return p.push(r, task.Load{})
}

// forceDeallocate returns a resource to the pool after a failed bind sequence.
func (p *Pool) forceDeallocate(b *binding) {
	p.mu.Lock()
	defer p.unlock()

	r := b.res
	if r.gen != b.gen {
		return
	}

	log.Debugf("force deallocating %s", r.id)

	p.allocated[r.typ] = lo.Without(p.allocated[r.typ], r)
	p.release(r)
	p.unallocated[r.typ] = append(p.unallocated[r.typ], r)
}

// release unbinds r, puts the item's slot back and resets the engine to the default sources.
// The caller moves r between the allocated and unallocated sets.
// Must be called with the lock held.
func (p *Pool) release(r *resource) {
	h := p.handles[r.handle]
	delete(p.bindings, r.handle)

	r.gen++
	r.handle = ""
	r.bind = nil

	if h != nil {
		p.push(r, task.SwapOut{Host: p.opts.Host, Slot: h, Policy: p.policy})
	}
	p.push(r, task.UpdateSources{Descriptor: p.defaultDescriptor(r.typ)})
}

// current reports whether b is still the live binding of its resource.
func (p *Pool) current(b *binding) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return b.res.gen == b.gen
}

// bound returns the resource bound to h and its generation.
func (p *Pool) bound(h Handle) (*resource, uint64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if r, ok := p.resourceFor(h); ok {
		return r, r.gen, r.handle != ""
	}

	r, ok := p.bindings[h.ID()]
	if !ok {
		return nil, 0, false
	}
	return r, r.gen, true
}

// enqueue queues t on r unless r was rebound since gen was observed.
func (p *Pool) enqueue(r *resource, gen uint64, t task.Task) (*task.Completion, bool) {
	p.mu.Lock()
	defer p.unlock()

	if r.gen != gen {
		return nil, false
	}
	return p.push(r, t), true
}

// push appends t to the queue of r without running it.
// Must be called with the lock held; unlock starts the queue.
func (p *Pool) push(r *resource, t task.Task) *task.Completion {
	p.starts = append(p.starts, r.queue)
	return r.queue.Push(t)
}

// unlock releases the lock and then starts every queue pushed to while it was held.
// Synchronous tasks run inline here, never under the pool lock.
func (p *Pool) unlock() {
	queues := lo.Uniq(p.starts)
	p.starts = nil
	p.mu.Unlock()

	for _, q := range queues {
		q.Start()
	}
}

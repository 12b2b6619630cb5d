// Package pool shares a fixed number of playback engines between any number of media items.
//
// Items are registered once and then preloaded or played on demand. An item that needs an
// engine gets a free one or takes the one bound to the item furthest away, as measured by
// the pool's distance function. Engine work is serialized through one task queue per engine.
package pool

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/anisan-cli/mediapool/config"
	"github.com/anisan-cli/mediapool/constant"
	"github.com/anisan-cli/mediapool/log"
	"github.com/anisan-cli/mediapool/media"
	"github.com/anisan-cli/mediapool/presentation"
	"github.com/anisan-cli/mediapool/task"
	"github.com/samber/lo"
)

var (
	// ErrUnregistered is returned for items that were never registered with the pool.
	ErrUnregistered = errors.New("media item is not registered")

	// ErrUnsupportedType is returned for items whose type the pool cannot allocate.
	ErrUnsupportedType = errors.New("unsupported media type")

	// ErrClosed is returned by operations on a closed pool.
	ErrClosed = errors.New("pool is closed")
)

// Handle is a media item as the caller knows it.
// Its declared sources are moved into the pool on registration.
type Handle interface {
	ID() string
	Type() media.Type
	media.Sourced
	presentation.Slot
}

// DistanceFunc ranks handles; lower values are more important to keep bound.
// It is called with the pool locked and must not call back into the pool.
type DistanceFunc func(h Handle) float64

// EngineFactory creates the engine backing one pooled resource.
type EngineFactory func(t media.Type, id string) (media.Engine, error)

// InteractionObserver is implemented by handles that want to know when the user first
// interacted with the pool through BlessAll.
type InteractionObserver interface {
	UserInteracted()
}

// SwapObserver is implemented by handles that must reset their own state once an engine
// has taken their place.
type SwapObserver interface {
	SwappedIn()
}

// Options configure a pool.
type Options struct {
	// Capacity is the number of engines created per media type.
	Capacity map[media.Type]int

	Distance DistanceFunc
	Host     presentation.Host
	Engines  EngineFactory

	// DefaultSources are loaded into engines that are not bound to any item.
	DefaultSources map[media.Type]string

	// Policy defaults to presentation.DefaultPolicy.
	Policy *presentation.Policy

	// Tick delays deferred engine tasks.
	Tick time.Duration

	// RewindDelay separates a pause from the rewind that follows it.
	RewindDelay time.Duration
}

// Configured returns options filled from the configuration.
func Configured(distance DistanceFunc, host presentation.Host, engines EngineFactory) Options {
	return Options{
		Capacity:       config.Capacity(),
		Distance:       distance,
		Host:           host,
		Engines:        engines,
		DefaultSources: config.DefaultSources(),
		Tick:           config.QueueTick(),
		RewindDelay:    config.RewindDelay(),
	}
}

// Pool owns a fixed set of engines and decides which item each one represents.
type Pool struct {
	mu     sync.Mutex
	opts   Options
	policy presentation.Policy

	resources   []*resource
	allocated   map[media.Type][]*resource
	unallocated map[media.Type][]*resource

	handles     map[string]Handle
	descriptors map[string]media.Descriptor
	bindings    map[string]*resource

	interactions []InteractionObserver
	blessed      bool
	closed       bool

	// starts collects the queues pushed to while mu is held; unlock starts them.
	starts []*task.Queue
}

// New creates every engine up front and loads them with the default sources.
func New(opts Options) (*Pool, error) {
	switch {
	case opts.Distance == nil:
		return nil, errors.New("pool: distance function is required")
	case opts.Host == nil:
		return nil, errors.New("pool: host is required")
	case opts.Engines == nil:
		return nil, errors.New("pool: engine factory is required")
	}

	p := &Pool{
		opts:        opts,
		policy:      presentation.DefaultPolicy,
		allocated:   make(map[media.Type][]*resource),
		unallocated: make(map[media.Type][]*resource),
		handles:     make(map[string]Handle),
		descriptors: make(map[string]media.Descriptor),
		bindings:    make(map[string]*resource),
	}

	if opts.Policy != nil {
		p.policy = *opts.Policy
	}

	var counter int
	for _, t := range media.Types() {
		count := opts.Capacity[t]
		p.allocated[t] = make([]*resource, 0, count)
		p.unallocated[t] = make([]*resource, 0, count)

		for i := 0; i < count; i++ {
			id := fmt.Sprintf("%s%d", constant.ResourceIDPrefix, counter)
			counter++

			engine, err := opts.Engines(t, id)
			if err != nil {
				_ = p.Close()
				return nil, fmt.Errorf("create %s engine %s: %w", t, id, err)
			}

			r := newResource(id, t, engine, opts.Tick)
			p.resources = append(p.resources, r)
			r.queue.Enqueue(task.UpdateSources{Descriptor: p.defaultDescriptor(t)})
			p.unallocated[t] = append(p.unallocated[t], r)
		}
	}

	log.Debugf("pool created with %d engines", len(p.resources))
	return p, nil
}

// Close stops accepting work and closes engines that hold external resources.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	resources := p.resources
	p.mu.Unlock()

	var errs []error
	for _, r := range resources {
		closer, ok := r.engine.(io.Closer)
		if !ok {
			continue
		}

		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", r.id, err))
		}
	}

	return errors.Join(errs...)
}

func (p *Pool) defaultDescriptor(t media.Type) media.Descriptor {
	src, ok := p.opts.DefaultSources[t]
	if !ok || src == "" {
		return media.Descriptor{}
	}

	return media.NewDescriptor(src)
}

// resourceFor returns the pooled resource whose engine is h, if any.
// Must be called with the lock held.
func (p *Pool) resourceFor(h Handle) (*resource, bool) {
	return lo.Find(p.resources, func(r *resource) bool {
		return r.engine.ID() == h.ID() && any(r.engine) == any(h)
	})
}

package pool

import (
	"time"

	"github.com/anisan-cli/mediapool/constant"
	"github.com/anisan-cli/mediapool/media"
	"github.com/anisan-cli/mediapool/task"
)

// resource is the pool's side table entry for one engine.
type resource struct {
	id     string
	typ    media.Type
	engine media.Engine
	queue  *task.Queue

	// handle is the id of the bound item, empty while unallocated.
	handle  string
	blessed bool

	// gen changes on every bind and release; continuations compare it to detect stale work.
	gen  uint64
	bind *binding
}

func newResource(id string, t media.Type, engine media.Engine, tick time.Duration) *resource {
	engine.Props().SetAttribute("id", id)
	engine.Props().SetAttribute("muted", "")
	engine.Props().AddClass(classesFor(t)...)
	if t == media.Video {
		engine.Props().SetAttribute("playsinline", "")
	}

	return &resource{
		id:     id,
		typ:    t,
		engine: engine,
		queue:  task.NewQueue(engine, tick),
	}
}

func classesFor(t media.Type) []string {
	switch t {
	case media.Audio:
		return []string{constant.PoolMediaClass, constant.PoolAudioClass}
	case media.Video:
		return []string{constant.PoolMediaClass, constant.PoolVideoClass}
	default:
		return []string{constant.PoolMediaClass}
	}
}

// binding is the outcome of binding a resource to an item.
type binding struct {
	res  *resource
	gen  uint64
	done chan struct{}
	ok   bool
}

func newBinding(r *resource) *binding {
	return &binding{res: r, gen: r.gen, done: make(chan struct{})}
}

func (b *binding) settle(ok bool) {
	b.ok = ok
	close(b.done)
}

// wait blocks until the bind sequence has finished and reports whether it succeeded.
func (b *binding) wait() bool {
	<-b.done
	return b.ok
}

package pool

import (
	"github.com/anisan-cli/mediapool/media"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// ResourceState describes one pooled engine.
type ResourceState struct {
	ID        string     `json:"id"`
	Type      media.Type `json:"type"`
	Allocated bool       `json:"allocated"`
	Handle    string     `json:"handle,omitempty"`
	Blessed   bool       `json:"blessed"`
	Pending   int        `json:"pending"`
	Paused    bool       `json:"paused"`
	Muted     bool       `json:"muted"`
	Sources   []string   `json:"sources"`
}

// Snapshot is a consistent copy of the pool state.
type Snapshot struct {
	Capacity    map[media.Type]int      `json:"capacity"`
	Allocated   map[media.Type][]string `json:"allocated"`
	Unallocated map[media.Type][]string `json:"unallocated"`

	// Bindings maps item ids to the id of the engine standing in for them.
	Bindings map[string]string `json:"bindings"`

	Registered []string        `json:"registered"`
	Resources  []ResourceState `json:"resources"`
	Blessed    bool            `json:"blessed"`
}

// Snapshot captures the current pool state.
func (p *Pool) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	ids := func(rs []*resource) []string {
		return lo.Map(rs, func(r *resource, _ int) string { return r.id })
	}

	s := Snapshot{
		Capacity:    make(map[media.Type]int),
		Allocated:   make(map[media.Type][]string),
		Unallocated: make(map[media.Type][]string),
		Bindings:    make(map[string]string, len(p.bindings)),
		Registered:  lo.Keys(p.descriptors),
		Blessed:     p.blessed,
	}
	slices.Sort(s.Registered)

	for _, t := range media.Types() {
		s.Capacity[t] = p.opts.Capacity[t]
		s.Allocated[t] = ids(p.allocated[t])
		s.Unallocated[t] = ids(p.unallocated[t])
	}

	for id, r := range p.bindings {
		s.Bindings[id] = r.id
	}

	for _, r := range p.resources {
		s.Resources = append(s.Resources, ResourceState{
			ID:        r.id,
			Type:      r.typ,
			Allocated: r.handle != "",
			Handle:    r.handle,
			Blessed:   r.blessed,
			Pending:   r.queue.Len(),
			Paused:    r.engine.Paused(),
			Muted:     r.engine.Muted(),
			Sources:   urls(r.engine),
		})
	}

	return s
}

// Bound reports whether h currently has an engine.
func (p *Pool) Bound(h Handle) bool {
	_, _, ok := p.bound(h)
	return ok
}

// Resource returns the state of the engine with the given id.
func (s Snapshot) Resource(id string) (ResourceState, bool) {
	return lo.Find(s.Resources, func(r ResourceState) bool { return r.ID == id })
}

func urls(s media.Sourced) []string {
	if src := s.Src(); src != "" {
		return []string{src}
	}

	return lo.Map(s.Sources(), func(src media.Source, _ int) string { return src.URL })
}

package pool

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Owner is whatever a pool is created for, such as one story or one scenario run.
type Owner interface {
	// OwnerID is an opaque key; the same id always yields the same pool until released.
	OwnerID() string

	// PoolOptions is called once, when the owner's pool is created.
	PoolOptions() (Options, error)
}

// Registry keeps one pool per owner.
type Registry struct {
	mu    sync.Mutex
	pools map[string]*Pool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{pools: make(map[string]*Pool)}
}

// NewOwnerID returns a random owner id for callers without a natural key.
func NewOwnerID() string {
	return uuid.NewString()
}

// For returns the pool of the owner, creating it on first use.
func (r *Registry) For(o Owner) (*Pool, error) {
	id := o.OwnerID()
	if id == "" {
		return nil, errors.New("pool owner id is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.pools[id]; ok {
		return p, nil
	}

	opts, err := o.PoolOptions()
	if err != nil {
		return nil, fmt.Errorf("pool options for %s: %w", id, err)
	}

	p, err := New(opts)
	if err != nil {
		return nil, err
	}

	r.pools[id] = p
	return p, nil
}

// Release closes and forgets the owner's pool. Unknown ids are ignored.
func (r *Registry) Release(id string) error {
	r.mu.Lock()
	p, ok := r.pools[id]
	delete(r.pools, id)
	r.mu.Unlock()

	if !ok {
		return nil
	}
	return p.Close()
}

// Owners lists the ids of the owners that currently have a pool.
func (r *Registry) Owners() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := lo.Keys(r.pools)
	sort.Strings(ids)
	return ids
}

package presentation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"
)

// ErrNotMounted is returned when a host is asked to replace a slot it does not hold.
var ErrNotMounted = errors.New("slot is not mounted")

// Host owns the places slots occupy. The pool only sequences calls to it.
type Host interface {
	// Connected reports whether the slot currently occupies a place in the host.
	Connected(s Slot) bool

	// Replace puts next in the place occupied by current.
	Replace(current, next Slot) error
}

// Tree is an in-memory Host keeping slots in a flat, ordered list.
type Tree struct {
	mu    sync.RWMutex
	slots []Slot
}

// NewTree returns a host with the given slots mounted in order.
func NewTree(slots ...Slot) *Tree {
	return &Tree{slots: slots}
}

// Mount appends a slot.
func (t *Tree) Mount(s Slot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.slots = append(t.slots, s)
}

// Unmount removes a slot; it is a no-op when the slot is not mounted.
func (t *Tree) Unmount(s Slot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.slots = lo.Without(t.slots, s)
}

// Connected implements Host.
func (t *Tree) Connected(s Slot) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return lo.Contains(t.slots, s)
}

// Replace implements Host.
func (t *Tree) Replace(current, next Slot) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, idx, ok := lo.FindIndexOf(t.slots, func(s Slot) bool { return s == current })
	if !ok {
		return fmt.Errorf("replace: %w", ErrNotMounted)
	}

	t.slots[idx] = next
	return nil
}

// Slots returns the mounted slots in order.
func (t *Tree) Slots() []Slot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return append([]Slot(nil), t.slots...)
}

// Package distance implements the policies a pool uses to rank its items.
//
// Items are placed at integer positions, like pages of a story, and a cursor marks the one
// being viewed. Distances are small near the cursor and grow away from it.
package distance

import (
	"math"
	"sync"

	"github.com/anisan-cli/mediapool/pool"
)

// Cursor measures how far an item is from the current position.
type Cursor struct {
	mu    sync.RWMutex
	index map[string]int
	at    int
}

func NewCursor() *Cursor {
	return &Cursor{index: make(map[string]int)}
}

// Place puts the item with the given id at index.
func (c *Cursor) Place(id string, index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.index[id] = index
}

// Index returns where the item was placed.
func (c *Cursor) Index(id string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	return i, ok
}

// Move sets the cursor position.
func (c *Cursor) Move(to int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.at = to
}

// At returns the cursor position.
func (c *Cursor) At() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.at
}

// Distance is |index - cursor|. Items that were never placed are infinitely far.
func (c *Cursor) Distance(h pool.Handle) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[h.ID()]
	if !ok {
		return math.Inf(1)
	}

	return math.Abs(float64(i - c.at))
}

// Func returns Distance as a pool.DistanceFunc.
func (c *Cursor) Func() pool.DistanceFunc {
	return c.Distance
}

// Package presentation models the attributes and classes a media slot exposes to its host,
// and the rules for moving them between a logical item and the pooled engine that stands in for it.
package presentation

import (
	"sort"
	"sync"

	"github.com/samber/lo"
)

// Props is the mutable attribute and class bag of a slot. It is safe for concurrent use.
type Props struct {
	mu         sync.RWMutex
	attributes map[string]string
	classes    []string
}

// NewProps returns an empty bag.
func NewProps() *Props {
	return &Props{attributes: make(map[string]string)}
}

// Attribute returns the value of the named attribute and whether it is set.
func (p *Props) Attribute(name string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	v, ok := p.attributes[name]
	return v, ok
}

// SetAttribute sets the named attribute, replacing any previous value.
func (p *Props) SetAttribute(name, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.attributes[name] = value
}

// RemoveAttribute deletes the named attribute.
func (p *Props) RemoveAttribute(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.attributes, name)
}

// AttributeNames returns the set attribute names in lexical order.
func (p *Props) AttributeNames() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := lo.Keys(p.attributes)
	sort.Strings(names)
	return names
}

// Attributes returns a copy of all attributes.
func (p *Props) Attributes() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return lo.Assign(p.attributes)
}

// HasClass reports whether the class is present.
func (p *Props) HasClass(class string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return lo.Contains(p.classes, class)
}

// AddClass appends the class unless already present.
func (p *Props) AddClass(classes ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, c := range classes {
		if !lo.Contains(p.classes, c) {
			p.classes = append(p.classes, c)
		}
	}
}

// RemoveClass removes the class if present.
func (p *Props) RemoveClass(class string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.classes = lo.Without(p.classes, class)
}

// Classes returns the classes in insertion order.
func (p *Props) Classes() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return append([]string(nil), p.classes...)
}

// Slot is anything that can occupy a place in a presentation host.
type Slot interface {
	Props() *Props
}

package presentation

import (
	"github.com/anisan-cli/mediapool/constant"
	"github.com/samber/lo"
)

// Policy lists the attributes and classes that stay with their slot during a swap.
// Everything not listed is transferred.
type Policy struct {
	ProtectedAttributes []string
	ProtectedClasses    []string
}

// DefaultPolicy keeps identity, the source reference and the pool markers on their owner.
var DefaultPolicy = Policy{
	ProtectedAttributes: []string{"id", "src", "class", "autoplay"},
	ProtectedClasses: []string{
		constant.PoolMediaClass,
		constant.PoolAudioClass,
		constant.PoolVideoClass,
	},
}

// IsProtectedAttribute reports whether the attribute must not be removed or copied.
func (p Policy) IsProtectedAttribute(name string) bool {
	return lo.Contains(p.ProtectedAttributes, name)
}

// IsProtectedClass reports whether the class must not be removed or copied.
func (p Policy) IsProtectedClass(class string) bool {
	return lo.Contains(p.ProtectedClasses, class)
}

// Transfer makes to carry the unprotected attributes and classes of from.
// Unprotected state already on to is removed first; protected state on either side is untouched.
func (p Policy) Transfer(from, to *Props) {
	p.copyClasses(from, to)
	p.copyAttributes(from, to)
}

func (p Policy) copyClasses(from, to *Props) {
	for _, c := range to.Classes() {
		if !p.IsProtectedClass(c) {
			to.RemoveClass(c)
		}
	}

	for _, c := range from.Classes() {
		if !p.IsProtectedClass(c) {
			to.AddClass(c)
		}
	}
}

func (p Policy) copyAttributes(from, to *Props) {
	for _, name := range to.AttributeNames() {
		if !p.IsProtectedAttribute(name) {
			to.RemoveAttribute(name)
		}
	}

	for name, value := range from.Attributes() {
		if !p.IsProtectedAttribute(name) {
			to.SetAttribute(name, value)
		}
	}
}

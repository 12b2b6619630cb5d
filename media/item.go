package media

import (
	"sync"

	"github.com/anisan-cli/mediapool/presentation"
	"github.com/google/uuid"
	"github.com/samber/mo"
)

// Item is an in-memory media item as declared by a caller.
// It satisfies the pool's handle contract.
type Item struct {
	mu      sync.RWMutex
	id      string
	typ     Type
	name    string
	src     string
	sources []Source
	tracks  []TextTrack
	volume  mo.Option[float64]
	noAudio bool
	props   *presentation.Props
}

// NewItem creates an item. An empty id is replaced by a random one.
func NewItem(id string, t Type) *Item {
	if id == "" {
		id = uuid.NewString()
	}

	props := presentation.NewProps()
	props.SetAttribute("id", id)

	return &Item{
		id:    id,
		typ:   t,
		name:  id,
		props: props,
	}
}

func (i *Item) ID() string {
	return i.id
}

func (i *Item) Type() Type {
	return i.typ
}

// Name is a human readable label, defaulting to the id.
func (i *Item) Name() string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return i.name
}

func (i *Item) SetName(name string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.name = name
}

func (i *Item) Props() *presentation.Props {
	return i.props
}

func (i *Item) Src() string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return i.src
}

func (i *Item) SetSrc(src string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.src = src
}

func (i *Item) Sources() []Source {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return append([]Source(nil), i.sources...)
}

func (i *Item) SetSources(sources []Source) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.sources = append([]Source(nil), sources...)
}

func (i *Item) TextTracks() []TextTrack {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return append([]TextTrack(nil), i.tracks...)
}

func (i *Item) SetTextTracks(tracks []TextTrack) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.tracks = append([]TextTrack(nil), tracks...)
}

// SetVolume declares the intended output volume in the range [0, 1].
func (i *Item) SetVolume(volume float64) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.volume = mo.Some(volume)
}

// Volume returns the declared volume, if any.
func (i *Item) Volume() mo.Option[float64] {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return i.volume
}

// SetNoAudio declares that the item carries no audio worth unmuting.
func (i *Item) SetNoAudio(noAudio bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.noAudio = noAudio
}

// Silent implements Audible.
func (i *Item) Silent() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.noAudio {
		return true
	}

	return i.volume.OrElse(1) <= 0
}

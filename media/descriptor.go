package media

import "github.com/samber/lo"

// Descriptor is an immutable snapshot of an item's sources and text tracks.
// It moves between a declared item and whichever engine currently represents it.
type Descriptor struct {
	src     string
	sources []Source
	tracks  []TextTrack
}

// NewDescriptor builds a descriptor from a single source reference.
func NewDescriptor(src string) Descriptor {
	return Descriptor{src: src}
}

// NewSourcesDescriptor builds a descriptor from alternative sources and text tracks.
func NewSourcesDescriptor(sources []Source, tracks []TextTrack) Descriptor {
	return Descriptor{
		sources: append([]Source(nil), sources...),
		tracks:  append([]TextTrack(nil), tracks...),
	}
}

// Src returns the single source reference, if any.
func (d Descriptor) Src() string {
	return d.src
}

// Sources returns a copy of the alternative sources.
func (d Descriptor) Sources() []Source {
	return append([]Source(nil), d.sources...)
}

// TextTracks returns a copy of the text tracks.
func (d Descriptor) TextTracks() []TextTrack {
	return append([]TextTrack(nil), d.tracks...)
}

// IsEmpty reports whether the descriptor carries no media at all.
func (d Descriptor) IsEmpty() bool {
	return d.src == "" && len(d.sources) == 0 && len(d.tracks) == 0
}

// URLs lists every source URL in preference order.
func (d Descriptor) URLs() []string {
	if d.src != "" {
		return []string{d.src}
	}

	return lo.Map(d.sources, func(s Source, _ int) string { return s.URL })
}

// Extract detaches the source configuration from s and returns it.
// A single src reference is normalized into an equivalent sub-source so callers never special-case it.
func Extract(s Sourced) Descriptor {
	d := Descriptor{
		sources: s.Sources(),
		tracks:  s.TextTracks(),
	}

	if src := s.Src(); src != "" {
		d.sources = []Source{{URL: src}}
	}

	Clear(s)
	return d
}

// Clear removes every source and text track from s.
func Clear(s Sourced) {
	s.SetSrc("")
	s.SetSources(nil)
	s.SetTextTracks(nil)
}

// Apply replaces the engine's sources with the descriptor's.
// Text tracks are attached only once metadata is loaded; some engines ignore tracks enabled earlier.
func (d Descriptor) Apply(e Engine) {
	Clear(e)

	switch {
	case d.src != "":
		e.SetSrc(d.src)
	case len(d.sources) > 0:
		e.SetSources(d.Sources())
	}

	if len(d.tracks) == 0 {
		return
	}

	tracks := d.TextTracks()
	e.WhenMetadataLoaded(func() {
		e.SetTextTracks(tracks)
	})
}

// Package media defines the media types handled by the pool, the source configuration of an item,
// and the engine contract a pooled playback resource has to fulfil.
package media

import (
	"fmt"
	"strings"

	"github.com/anisan-cli/mediapool/presentation"
)

// Type is the kind of engine a media item requires.
type Type string

const (
	Unsupported Type = "unsupported"
	Audio       Type = "audio"
	Video       Type = "video"
)

// Types returns the media types the pool can allocate, in allocation order.
func Types() []Type {
	return []Type{Audio, Video}
}

// ParseType converts a case-insensitive name into a Type.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case Audio:
		return Audio, nil
	case Video:
		return Video, nil
	default:
		return Unsupported, fmt.Errorf("unsupported media type %q", s)
	}
}

// Source is one alternative encoding of an item.
type Source struct {
	URL  string `json:"url" mapstructure:"url" jsonschema:"required"`
	MIME string `json:"mime,omitempty" mapstructure:"mime"`
}

// TextTrack describes a subtitle, caption or chapter track.
type TextTrack struct {
	URL     string `json:"url" mapstructure:"url" jsonschema:"required"`
	Kind    string `json:"kind,omitempty" mapstructure:"kind" jsonschema:"enum=subtitles,enum=captions,enum=chapters,enum=descriptions,enum=metadata"`
	Lang    string `json:"lang,omitempty" mapstructure:"lang"`
	Label   string `json:"label,omitempty" mapstructure:"label"`
	Default bool   `json:"default,omitempty" mapstructure:"default"`
}

// Sourced is anything holding a source configuration: a declared item or an engine.
type Sourced interface {
	Src() string
	SetSrc(src string)

	Sources() []Source
	SetSources(sources []Source)

	TextTracks() []TextTrack
	SetTextTracks(tracks []TextTrack)
}

// Engine is a physical playback resource.
// Methods are called from a single task at a time but possibly from different goroutines.
type Engine interface {
	presentation.Slot
	Sourced

	// ID returns the stable identifier of the engine.
	ID() string

	// Type returns the kind of media the engine plays.
	Type() Type

	// Load resets buffered state and starts fetching the current sources.
	Load() error

	// Play starts playback and returns once it has begun.
	Play() error

	// Pause suspends playback.
	Pause() error

	// Paused reports whether playback is suspended.
	Paused() bool

	// Muted reports whether audio output is muted.
	Muted() bool

	// SetMuted mutes or unmutes audio output.
	SetMuted(muted bool) error

	// SetCurrentTime seeks to an absolute position in seconds.
	SetCurrentTime(seconds float64) error

	// WhenMetadataLoaded runs fn once metadata for the current sources is available.
	// Pending callbacks are dropped when the sources change before that happens.
	WhenMetadataLoaded(fn func())
}

// Audible is implemented by items that declare their audio intent separately from mute state.
type Audible interface {
	// Silent reports whether the item would produce no sound even when unmuted.
	Silent() bool
}

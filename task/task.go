// Package task implements the units of work applied to a pooled engine and the
// per-engine queue that runs them one at a time, in order.
package task

import (
	"errors"
	"fmt"

	"github.com/anisan-cli/mediapool/media"
	"github.com/anisan-cli/mediapool/presentation"
)

// ErrNotConnected is returned by SwapIn when the item's slot has left the host.
var ErrNotConnected = errors.New("slot is not connected to the host")

// Kind names a task variant.
type Kind string

const (
	KindLoad           Kind = "load"
	KindPlay           Kind = "play"
	KindPause          Kind = "pause"
	KindMute           Kind = "mute"
	KindUnmute         Kind = "unmute"
	KindSetCurrentTime Kind = "set-current-time"
	KindBless          Kind = "bless"
	KindUpdateSources  Kind = "update-sources"
	KindSwapIn         Kind = "swap-in"
	KindSwapOut        Kind = "swap-out"
)

// Task is a unit of work applied to an engine.
type Task interface {
	Kind() Kind

	// Synchronous reports whether the task must run inline instead of on the next tick.
	Synchronous() bool

	// Run applies the task to the engine.
	Run(e media.Engine) error
}

// Load resets the engine and fetches its current sources.
// It may start processes or wait on the network, so it never runs in the caller.
type Load struct{}

func (Load) Kind() Kind        { return KindLoad }
func (Load) Synchronous() bool { return false }

func (Load) Run(e media.Engine) error {
	return e.Load()
}

// Play starts playback unless the engine is already playing; restarting would interrupt it.
type Play struct{}

func (Play) Kind() Kind        { return KindPlay }
func (Play) Synchronous() bool { return false }

func (Play) Run(e media.Engine) error {
	if !e.Paused() {
		return nil
	}
	return e.Play()
}

type Pause struct{}

func (Pause) Kind() Kind        { return KindPause }
func (Pause) Synchronous() bool { return false }

func (Pause) Run(e media.Engine) error {
	return e.Pause()
}

// Mute runs synchronously so it takes effect within the triggering call.
type Mute struct{}

func (Mute) Kind() Kind        { return KindMute }
func (Mute) Synchronous() bool { return true }

func (Mute) Run(e media.Engine) error {
	if err := e.SetMuted(true); err != nil {
		return err
	}
	e.Props().SetAttribute("muted", "")
	return nil
}

// Unmute runs synchronously so it takes effect within the triggering call.
type Unmute struct{}

func (Unmute) Kind() Kind        { return KindUnmute }
func (Unmute) Synchronous() bool { return true }

func (Unmute) Run(e media.Engine) error {
	if err := e.SetMuted(false); err != nil {
		return err
	}
	e.Props().RemoveAttribute("muted")
	return nil
}

// SetCurrentTime seeks to an absolute position in seconds.
type SetCurrentTime struct {
	Seconds float64
}

func (SetCurrentTime) Kind() Kind        { return KindSetCurrentTime }
func (SetCurrentTime) Synchronous() bool { return false }

func (t SetCurrentTime) Run(e media.Engine) error {
	return e.SetCurrentTime(t.Seconds)
}

// Bless toggles mute off and back on so the engine is allowed to play unmuted later.
// It must run inline to stay within the user gesture that triggered it.
type Bless struct{}

func (Bless) Kind() Kind        { return KindBless }
func (Bless) Synchronous() bool { return true }

func (Bless) Run(e media.Engine) error {
	wasMuted := e.Muted()
	if err := e.SetMuted(false); err != nil {
		return err
	}

	if wasMuted {
		return e.SetMuted(true)
	}
	return nil
}

// UpdateSources replaces the engine's sources with a descriptor.
type UpdateSources struct {
	Descriptor media.Descriptor
}

func (UpdateSources) Kind() Kind        { return KindUpdateSources }
func (UpdateSources) Synchronous() bool { return true }

func (t UpdateSources) Run(e media.Engine) error {
	t.Descriptor.Apply(e)
	return nil
}

// SwapIn puts the engine in the place of an item's slot, carrying over the item's presentation.
type SwapIn struct {
	Host   presentation.Host
	Slot   presentation.Slot
	Policy presentation.Policy
}

func (SwapIn) Kind() Kind        { return KindSwapIn }
func (SwapIn) Synchronous() bool { return true }

func (t SwapIn) Run(e media.Engine) error {
	if !t.Host.Connected(t.Slot) {
		return fmt.Errorf("swap %s in: %w", e.ID(), ErrNotConnected)
	}

	t.Policy.Transfer(t.Slot.Props(), e.Props())
	return t.Host.Replace(t.Slot, e)
}

// SwapOut puts an item's slot back in the place of the engine, restoring its presentation.
// It does nothing when the engine is not in the host, so a failed swap-in never strips the item.
type SwapOut struct {
	Host   presentation.Host
	Slot   presentation.Slot
	Policy presentation.Policy
}

func (SwapOut) Kind() Kind        { return KindSwapOut }
func (SwapOut) Synchronous() bool { return true }

func (t SwapOut) Run(e media.Engine) error {
	if !t.Host.Connected(e) {
		return nil
	}

	t.Policy.Transfer(e.Props(), t.Slot.Props())
	return t.Host.Replace(e, t.Slot)
}

package media

import (
	"fmt"
	"sync"

	"github.com/anisan-cli/mediapool/presentation"
)

// Engine operations recorded by MemoryEngine and accepted by FailOn.
const (
	OpLoad   = "load"
	OpPlay   = "play"
	OpPause  = "pause"
	OpMute   = "mute"
	OpUnmute = "unmute"
	OpSeek   = "seek"
)

// MemoryEngine is an Engine that keeps all state in memory.
// It backs the "memory" player and the pool tests.
type MemoryEngine struct {
	mu       sync.Mutex
	id       string
	typ      Type
	props    *presentation.Props
	src      string
	sources  []Source
	tracks   []TextTrack
	paused   bool
	muted    bool
	position float64

	metadataLoaded bool
	manualMetadata bool
	pending        []func()

	failures map[string]error
	ops      []string
}

// NewMemoryEngine returns a paused, muted engine whose metadata becomes available as soon as it loads.
func NewMemoryEngine(t Type, id string) *MemoryEngine {
	return &MemoryEngine{
		id:       id,
		typ:      t,
		props:    presentation.NewProps(),
		paused:   true,
		muted:    true,
		failures: make(map[string]error),
	}
}

func (m *MemoryEngine) ID() string {
	return m.id
}

func (m *MemoryEngine) Type() Type {
	return m.typ
}

func (m *MemoryEngine) Props() *presentation.Props {
	return m.props
}

// FailOn makes every subsequent call of op return err. A nil err clears the failure.
func (m *MemoryEngine) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// ManualMetadata stops Load from signalling metadata; call LoadMetadata instead.
func (m *MemoryEngine) ManualMetadata() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.manualMetadata = true
}

// Ops returns the engine operations performed so far, in order.
func (m *MemoryEngine) Ops() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.ops...)
}

// Position returns the current playback position in seconds.
func (m *MemoryEngine) Position() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.position
}

// Descriptor returns the engine's current configuration without detaching it.
func (m *MemoryEngine) Descriptor() Descriptor {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.src != "" {
		return Descriptor{src: m.src, tracks: append([]TextTrack(nil), m.tracks...)}
	}
	return NewSourcesDescriptor(m.sources, m.tracks)
}

func (m *MemoryEngine) Src() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.src
}

func (m *MemoryEngine) SetSrc(src string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.src = src
	m.resetMetadata()
}

func (m *MemoryEngine) Sources() []Source {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Source(nil), m.sources...)
}

func (m *MemoryEngine) SetSources(sources []Source) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sources = append([]Source(nil), sources...)
	m.resetMetadata()
}

func (m *MemoryEngine) TextTracks() []TextTrack {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]TextTrack(nil), m.tracks...)
}

func (m *MemoryEngine) SetTextTracks(tracks []TextTrack) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tracks = append([]TextTrack(nil), tracks...)
}

func (m *MemoryEngine) Load() error {
	m.mu.Lock()
	if err := m.record(OpLoad); err != nil {
		m.mu.Unlock()
		return err
	}

	m.position = 0
	m.paused = true
	manual := m.manualMetadata
	m.mu.Unlock()

	if !manual {
		m.LoadMetadata()
	}
	return nil
}

// LoadMetadata signals that metadata for the current sources is available.
func (m *MemoryEngine) LoadMetadata() {
	m.mu.Lock()
	m.metadataLoaded = true
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

func (m *MemoryEngine) WhenMetadataLoaded(fn func()) {
	m.mu.Lock()
	if !m.metadataLoaded {
		m.pending = append(m.pending, fn)
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	fn()
}

func (m *MemoryEngine) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record(OpPlay); err != nil {
		return err
	}

	if m.src == "" && len(m.sources) == 0 {
		return fmt.Errorf("engine %s: no source to play", m.id)
	}
	m.paused = false
	return nil
}

func (m *MemoryEngine) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record(OpPause); err != nil {
		return err
	}
	m.paused = true
	return nil
}

func (m *MemoryEngine) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.paused
}

func (m *MemoryEngine) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.muted
}

func (m *MemoryEngine) SetMuted(muted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	op := OpUnmute
	if muted {
		op = OpMute
	}

	if err := m.record(op); err != nil {
		return err
	}
	m.muted = muted
	return nil
}

func (m *MemoryEngine) SetCurrentTime(seconds float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record(OpSeek); err != nil {
		return err
	}

	if seconds < 0 {
		return fmt.Errorf("engine %s: negative position %v", m.id, seconds)
	}
	m.position = seconds
	return nil
}

// record must be called with the lock held.
func (m *MemoryEngine) record(op string) error {
	m.ops = append(m.ops, op)
	return m.failures[op]
}

// resetMetadata must be called with the lock held.
func (m *MemoryEngine) resetMetadata() {
	m.metadataLoaded = false
	m.pending = nil
}

package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/anisan-cli/mediapool/constant"
	"github.com/anisan-cli/mediapool/log"
	"github.com/anisan-cli/mediapool/media"
	"github.com/anisan-cli/mediapool/presentation"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPV is a media.Engine backed by one mpv process controlled over JSON-IPC.
// The process is started idle on first use and is reused for every item the engine stands in for.
type MPV struct {
	id    string
	typ   media.Type
	path  string
	props *presentation.Props

	mu             sync.Mutex // Protects playback state
	src            string
	sources        []media.Source
	tracks         []media.TextTrack
	paused         bool
	muted          bool
	position       float64
	metadataLoaded bool
	pending        []func()

	proc       sync.Mutex // Protects the process lifecycle
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	events     *EventListener

	ipc sync.Mutex // Protects socket writes
}

// NewMPV creates an engine that runs the mpv executable at path. Nothing is started yet.
func NewMPV(id string, t media.Type, path string) *MPV {
	if path == "" {
		path = "mpv"
	}

	return &MPV{
		id:     id,
		typ:    t,
		path:   path,
		props:  presentation.NewProps(),
		paused: true,
		muted:  true,
	}
}

func (m *MPV) ID() string {
	return m.id
}

func (m *MPV) Type() media.Type {
	return m.typ
}

func (m *MPV) Props() *presentation.Props {
	return m.props
}

func (m *MPV) Src() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.src
}

func (m *MPV) SetSrc(src string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.src = src
	m.resetMetadata()
}

func (m *MPV) Sources() []media.Source {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]media.Source(nil), m.sources...)
}

func (m *MPV) SetSources(sources []media.Source) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sources = append([]media.Source(nil), sources...)
	m.resetMetadata()
}

func (m *MPV) TextTracks() []media.TextTrack {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]media.TextTrack(nil), m.tracks...)
}

// SetTextTracks records the tracks and, once a file is loaded, adds them to mpv.
func (m *MPV) SetTextTracks(tracks []media.TextTrack) {
	m.mu.Lock()
	m.tracks = append([]media.TextTrack(nil), tracks...)
	loaded := m.metadataLoaded
	m.mu.Unlock()

	if !loaded || !m.Running() {
		return
	}

	for _, track := range tracks {
		if err := m.addTrack(track); err != nil {
			log.Warnf("engine %s: add track %s: %v", m.id, track.URL, err)
		}
	}
}

func (m *MPV) addTrack(track media.TextTrack) error {
	safe, err := sanitizeMediaTarget(track.URL)
	if err != nil {
		return err
	}

	flag := "auto"
	if track.Default {
		flag = "select"
	}

	_, err = m.sendCommand([]interface{}{"sub-add", safe, flag, sanitizeTitle(track.Label), track.Lang})
	return err
}

// WhenMetadataLoaded runs fn once mpv reports the current file as loaded.
func (m *MPV) WhenMetadataLoaded(fn func()) {
	m.mu.Lock()
	if !m.metadataLoaded {
		m.pending = append(m.pending, fn)
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	fn()
}

// Load replaces whatever mpv is playing with the first configured source, paused.
// mpv has no notion of fallback sources, so the remaining ones are ignored.
func (m *MPV) Load() error {
	if err := m.ensureRunning(); err != nil {
		return err
	}

	m.mu.Lock()
	target := m.target()
	m.position = 0
	m.paused = true
	m.metadataLoaded = false
	m.mu.Unlock()

	if err := m.Set("pause", true); err != nil {
		return err
	}

	if target == "" {
		_, err := m.sendCommand([]interface{}{"stop"})
		return err
	}

	safe, err := sanitizeMediaTarget(target)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	_, err = m.sendCommand([]interface{}{"loadfile", safe, "replace"})
	return err
}

// target must be called with the lock held.
func (m *MPV) target() string {
	if m.src != "" {
		return m.src
	}

	if len(m.sources) > 0 {
		return m.sources[0].URL
	}

	return ""
}

func (m *MPV) Play() error {
	if err := m.ensureRunning(); err != nil {
		return err
	}

	if err := m.Set("pause", false); err != nil {
		return err
	}

	m.mu.Lock()
	m.paused = false
	m.mu.Unlock()
	return nil
}

func (m *MPV) Pause() error {
	if m.Running() {
		if err := m.Set("pause", true); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.paused = true
	m.mu.Unlock()
	return nil
}

// Paused reports the last pause state mpv announced.
func (m *MPV) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.paused
}

// Muted reports the last mute state mpv announced.
func (m *MPV) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.muted
}

func (m *MPV) SetMuted(muted bool) error {
	if m.Running() {
		if err := m.Set("mute", muted); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.muted = muted
	m.mu.Unlock()
	return nil
}

func (m *MPV) SetCurrentTime(seconds float64) error {
	if seconds < 0 {
		return fmt.Errorf("engine %s: negative position %v", m.id, seconds)
	}

	if m.Running() {
		if _, err := m.sendCommand([]interface{}{"seek", seconds, "absolute"}); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.position = seconds
	m.mu.Unlock()
	return nil
}

// Position returns the last playback position mpv announced, in seconds.
func (m *MPV) Position() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.position
}

// Set a property
func (m *MPV) Set(property string, value interface{}) error {
	_, err := m.sendCommand([]interface{}{"set_property", property, value})
	return err
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	m.proc.Lock()
	defer m.proc.Unlock()

	return m.socketPath
}

// Running reports whether the mpv process is alive.
func (m *MPV) Running() bool {
	m.proc.Lock()
	defer m.proc.Unlock()

	return m.running()
}

// running must be called with proc held.
func (m *MPV) running() bool {
	if m.cmd == nil {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
		return true
	}
}

func (m *MPV) ensureRunning() error {
	m.proc.Lock()
	defer m.proc.Unlock()

	if m.running() {
		return nil
	}
	return m.start()
}

// start must be called with proc held.
func (m *MPV) start() error {
	// Generate a random socket path using os.TempDir() for cross-platform support
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	m.ipc.Lock()
	m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("%s-%s-%x.sock", constant.Mediapool, m.id, randomBytes))
	m.ipc.Unlock()

	cmd := exec.Command(m.path, m.arguments()...)

	// Detach from parent process group to prevent cascading shell panics.
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	m.cmd = cmd
	exited := make(chan struct{})
	m.exited = exited

	// Reap the process to prevent zombies
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-exited:
		default:
			log.Warnf("killing mpv %s: socket never became ready", m.id)
			_ = killProcess(cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.events = NewEventListener(m.socketPath, m.handleEvent)
	if err := m.events.Start(); err != nil {
		log.Warnf("engine %s: %v", m.id, err)
	}

	log.Infof("engine %s: mpv started on socket %s", m.id, m.socketPath)
	return nil
}

// arguments builds the mpv command line. User configuration in mpv.conf is respected.
func (m *MPV) arguments() []string {
	m.mu.Lock()
	muted := m.muted
	m.mu.Unlock()

	title := sanitizeTitle(fmt.Sprintf("%s %s", constant.Mediapool, m.id))
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--title=%s", title),
		"--idle=yes",
		"--pause=yes",
		fmt.Sprintf("--mute=%s", yesNo(muted)),
	}

	if m.typ == media.Video {
		args = append(args, "--force-window=yes")
	} else {
		args = append(args, "--no-video")
	}

	return args
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// handleEvent mirrors mpv state changes into the cached playback state.
func (m *MPV) handleEvent(name string, data interface{}) {
	if name == "file-loaded" {
		m.loadMetadata()
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch name {
	case "pause":
		if paused, ok := data.(bool); ok {
			m.paused = paused
		}
	case "mute":
		if muted, ok := data.(bool); ok {
			m.muted = muted
		}
	case "time-pos":
		if pos, ok := data.(float64); ok {
			m.position = pos
		}
	case "eof-reached":
		if eof, ok := data.(bool); ok && eof {
			m.paused = true
		}
	}
}

func (m *MPV) loadMetadata() {
	m.mu.Lock()
	m.metadataLoaded = true
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// resetMetadata must be called with the lock held.
func (m *MPV) resetMetadata() {
	m.metadataLoaded = false
	m.pending = nil
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	m.proc.Lock()
	defer m.proc.Unlock()

	if m.events != nil {
		m.events.Stop()
		m.events = nil
	}

	if !m.running() {
		return nil
	}

	// Try graceful quit via IPC
	_, _ = m.sendCommand([]interface{}{"quit"})

	select {
	case <-m.exited:
	case <-time.After(3 * time.Second):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
// Prevents flag injection from scenario files and scripts.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	// Reject control characters
	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// Prevent flag injection: URLs must not start with -
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	// lavfi sources back the blank default media and are not valid URLs
	if strings.HasPrefix(l, "av://lavfi:") {
		return l, nil
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "file":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	// Treat as local file path
	return filepath.Clean(l), nil
}

// sanitizeTitle cleanups up the title for MPV
func sanitizeTitle(title string) string {
	t := strings.ReplaceAll(title, "\n", " ")
	t = strings.ReplaceAll(t, "\r", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	// Remove null bytes
	t = strings.ReplaceAll(t, "\x00", "")
	return strings.TrimSpace(t)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

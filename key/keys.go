// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Pool Sizing - these keys bound how many engines of each media type the pool creates.
const (
	PoolCapacityAudio = "pool.capacity.audio"
	PoolCapacityVideo = "pool.capacity.video"
)

// Pool Behaviour - these keys tune how engines are recycled between items.
const (
	PoolDefaultMedia  = "pool.default_media"
	PoolRewindDelayMs = "pool.rewind_delay_ms"
	QueueTickMs       = "queue.tick_ms"
)

// Distance Policy - these keys select how item priority is computed.
const (
	DistanceScript = "distance.script"
)

// Media Playback - these keys select and configure the engine backend.
const (
	Player        = "player.default"
	PlayerMpvPath = "player.mpv_path"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
	CliRecent       = "cli.recent"
)

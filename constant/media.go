package constant

// Default media assigned to pool engines while they are not bound to an item.
// Both are lavfi sources understood by mpv and resolve to a fraction of a second of silence or black.
const (
	BlankAudioSource = "av://lavfi:anullsrc=d=0.1"
	BlankVideoSource = "av://lavfi:color=c=black:s=16x16:d=0.1"
)

// Class names carried by every engine the pool creates; never transferred during a swap.
const (
	PoolMediaClass = "pool-media"
	PoolAudioClass = "pool-audio"
	PoolVideoClass = "pool-video"
)

// ResourceIDPrefix prefixes the identifiers of pool-created engines.
const ResourceIDPrefix = "pool-media-"

// Package player provides the playback engines a pool can be built from.
// The primary backend drives mpv through its JSON-IPC interface; the memory backend plays nothing
// and is meant for dry runs.
package player

import (
	"fmt"
	"strings"

	"github.com/anisan-cli/mediapool/key"
	"github.com/anisan-cli/mediapool/media"
	"github.com/anisan-cli/mediapool/pool"
	"github.com/spf13/viper"
)

// Backend names accepted by NewFactory.
const (
	BackendMPV    = "mpv"
	BackendMemory = "memory"
)

// Backends lists the available backend names.
func Backends() []string {
	return []string{BackendMPV, BackendMemory}
}

// NewFactory returns an engine factory for the named backend.
// mpvPath is only used by the mpv backend.
func NewFactory(backend, mpvPath string) (pool.EngineFactory, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendMPV:
		return func(t media.Type, id string) (media.Engine, error) {
			return NewMPV(id, t, mpvPath), nil
		}, nil
	case BackendMemory:
		return func(t media.Type, id string) (media.Engine, error) {
			return media.NewMemoryEngine(t, id), nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown player %q, available: %s", backend, strings.Join(Backends(), ", "))
	}
}

// Configured returns the factory selected by the configuration.
func Configured() (pool.EngineFactory, error) {
	return NewFactory(viper.GetString(key.Player), viper.GetString(key.PlayerMpvPath))
}

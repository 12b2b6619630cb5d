package config

import (
	"time"

	"github.com/anisan-cli/mediapool/constant"
	"github.com/anisan-cli/mediapool/key"
	"github.com/anisan-cli/mediapool/media"
	"github.com/spf13/viper"
)

// Capacity returns the configured number of engines per media type.
func Capacity() map[media.Type]int {
	return map[media.Type]int{
		media.Audio: viper.GetInt(key.PoolCapacityAudio),
		media.Video: viper.GetInt(key.PoolCapacityVideo),
	}
}

// RewindDelay is the pause before a rewind-to-start is issued after pausing.
func RewindDelay() time.Duration {
	return time.Duration(viper.GetInt(key.PoolRewindDelayMs)) * time.Millisecond
}

// QueueTick is the delay applied to deferred engine tasks.
func QueueTick() time.Duration {
	return time.Duration(viper.GetInt(key.QueueTickMs)) * time.Millisecond
}

// DefaultSources returns the blank media idle engines are loaded with, or nil when disabled.
func DefaultSources() map[media.Type]string {
	if !viper.GetBool(key.PoolDefaultMedia) {
		return nil
	}

	return map[media.Type]string{
		media.Audio: constant.BlankAudioSource,
		media.Video: constant.BlankVideoSource,
	}
}

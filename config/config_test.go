package config

import (
	"testing"
	"time"

	"github.com/anisan-cli/mediapool/filesystem"
	"github.com/anisan-cli/mediapool/key"
	"github.com/anisan-cli/mediapool/media"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("pool.capacity.video")
			So(result, ShouldEqual, "pool_capacity_video")
		})

		Convey("Env should be prefixed with the application name", func() {
			f := Default[key.PoolCapacityVideo]
			So(f.Env(), ShouldEqual, "MEDIAPOOL_POOL_CAPACITY_VIDEO")
		})
	})
}

func TestPoolSettings(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		So(Setup(), ShouldBeNil)

		Convey("Capacity should cover both media types", func() {
			capacity := Capacity()
			So(capacity[media.Audio], ShouldEqual, 2)
			So(capacity[media.Video], ShouldEqual, 4)
		})

		Convey("Durations should be derived from milliseconds", func() {
			viper.Set(key.PoolRewindDelayMs, 250)
			defer viper.Set(key.PoolRewindDelayMs, Default[key.PoolRewindDelayMs].Value)

			So(RewindDelay(), ShouldEqual, 250*time.Millisecond)
			So(QueueTick(), ShouldEqual, time.Duration(0))
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Parse", t, func() {
		Convey("Should follow the type of the default value", func() {
			v, err := Parse(key.PoolCapacityVideo, []string{"6"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 6)

			v, err = Parse(key.PoolDefaultMedia, []string{"false"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, false)

			v, err = Parse(key.PlayerMpvPath, []string{"/opt/mpv"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "/opt/mpv")
		})

		Convey("Should reject values outside the accepted set", func() {
			_, err := Parse(key.Player, []string{"vlc"})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "mpv, memory")

			_, err = Parse(key.LogsLevel, []string{"debug"})
			So(err, ShouldBeNil)
		})

		Convey("Should reject malformed and negative numbers", func() {
			_, err := Parse(key.QueueTickMs, []string{"soon"})
			So(err, ShouldNotBeNil)

			_, err = Parse(key.PoolCapacityAudio, []string{"-1"})
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject unknown keys and missing values", func() {
			_, err := Parse("pool.size", []string{"1"})
			So(err, ShouldNotBeNil)

			_, err = Parse(key.PoolCapacityAudio, nil)
			So(err, ShouldNotBeNil)
		})
	})
}

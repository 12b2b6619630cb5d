package player

import (
	"strings"
	"testing"

	"github.com/anisan-cli/mediapool/constant"
	"github.com/anisan-cli/mediapool/media"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMPV(t *testing.T) {
	Convey("MPV", t, func() {
		mpv := NewMPV("pool-media-3", media.Video, "mediapool-missing-mpv")

		Convey("Starts paused and muted without a process", func() {
			So(mpv.Paused(), ShouldBeTrue)
			So(mpv.Muted(), ShouldBeTrue)
			So(mpv.Running(), ShouldBeFalse)
			So(mpv.Close(), ShouldBeNil)
		})

		Convey("Load", func() {
			Convey("Should fail when the executable cannot be started", func() {
				err := mpv.Load()
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "start mpv")
				So(mpv.Running(), ShouldBeFalse)
			})
		})

		Convey("Arguments", func() {
			Convey("Should keep a video window and start idle, paused and muted", func() {
				args := mpv.arguments()
				So(args, ShouldContain, "--idle=yes")
				So(args, ShouldContain, "--pause=yes")
				So(args, ShouldContain, "--mute=yes")
				So(args, ShouldContain, "--force-window=yes")
			})

			Convey("Should disable video for audio engines", func() {
				audio := NewMPV("pool-media-0", media.Audio, "")
				So(audio.path, ShouldEqual, "mpv")
				So(audio.arguments(), ShouldContain, "--no-video")
			})
		})

		Convey("Events", func() {
			Convey("Should mirror observed properties", func() {
				mpv.handleEvent("pause", false)
				mpv.handleEvent("mute", false)
				mpv.handleEvent("time-pos", 12.5)
				So(mpv.Paused(), ShouldBeFalse)
				So(mpv.Muted(), ShouldBeFalse)
				So(mpv.Position(), ShouldEqual, 12.5)

				mpv.handleEvent("eof-reached", true)
				So(mpv.Paused(), ShouldBeTrue)
			})

			Convey("Should run metadata callbacks once the file is loaded", func() {
				var ran int
				mpv.WhenMetadataLoaded(func() { ran++ })
				So(ran, ShouldEqual, 0)

				mpv.handleEvent("file-loaded", nil)
				So(ran, ShouldEqual, 1)

				mpv.WhenMetadataLoaded(func() { ran++ })
				So(ran, ShouldEqual, 2)
			})

			Convey("Should drop metadata callbacks when sources change", func() {
				var ran bool
				mpv.WhenMetadataLoaded(func() { ran = true })
				mpv.SetSrc(constant.BlankVideoSource)
				mpv.handleEvent("file-loaded", nil)
				So(ran, ShouldBeFalse)
			})

			Convey("Should decode events from the listener", func() {
				var names []string
				listener := NewEventListener("", func(name string, _ interface{}) {
					names = append(names, name)
				})

				listener.processEvent(`{"event":"property-change","id":1,"name":"pause","data":true}`)
				listener.processEvent(`{"event":"file-loaded"}`)
				listener.processEvent(`{"request_id":3,"error":"success"}`)
				listener.processEvent(`not json`)
				So(names, ShouldResemble, []string{"pause", "file-loaded"})
			})
		})

		Convey("Seeking backwards past the start is rejected", func() {
			So(mpv.SetCurrentTime(-1), ShouldNotBeNil)
			So(mpv.SetCurrentTime(30), ShouldBeNil)
			So(mpv.Position(), ShouldEqual, 30)
		})
	})
}

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		Convey("Should accept http, file and lavfi sources", func() {
			for _, target := range []string{
				"https://cdn.example/clip.mp4",
				"file:///tmp/clip.mp4",
				constant.BlankAudioSource,
				constant.BlankVideoSource,
			} {
				safe, err := sanitizeMediaTarget(target)
				So(err, ShouldBeNil)
				So(safe, ShouldEqual, target)
			}
		})

		Convey("Should clean local paths", func() {
			safe, err := sanitizeMediaTarget(" ./media/../clip.ogg ")
			So(err, ShouldBeNil)
			So(safe, ShouldEqual, "clip.ogg")
		})

		Convey("Should reject flags, control characters and unknown schemes", func() {
			for _, target := range []string{"", "--script=evil.lua", "clip\n.mp4", "ftp://host/clip.mp4"} {
				_, err := sanitizeMediaTarget(target)
				So(err, ShouldNotBeNil)
			}
		})
	})
}

func TestNewFactory(t *testing.T) {
	Convey("NewFactory", t, func() {
		Convey("Should build memory engines", func() {
			factory, err := NewFactory("memory", "")
			So(err, ShouldBeNil)

			engine, err := factory(media.Audio, "pool-media-0")
			So(err, ShouldBeNil)
			So(engine.ID(), ShouldEqual, "pool-media-0")
			So(engine.Type(), ShouldEqual, media.Audio)
		})

		Convey("Should build mpv engines without starting them", func() {
			factory, err := NewFactory(" MPV ", "/usr/bin/mpv")
			So(err, ShouldBeNil)

			engine, err := factory(media.Video, "pool-media-1")
			So(err, ShouldBeNil)
			mpv, ok := engine.(*MPV)
			So(ok, ShouldBeTrue)
			So(mpv.Running(), ShouldBeFalse)
		})

		Convey("Should list the backends for unknown names", func() {
			_, err := NewFactory("iina", "")
			So(err, ShouldNotBeNil)
			So(strings.Contains(err.Error(), "mpv, memory"), ShouldBeTrue)
		})
	})
}

package media

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseType(t *testing.T) {
	Convey("ParseType", t, func() {
		Convey("Should accept known types regardless of case", func() {
			typ, err := ParseType(" Video ")
			So(err, ShouldBeNil)
			So(typ, ShouldEqual, Video)
		})

		Convey("Should reject unknown types", func() {
			typ, err := ParseType("image")
			So(err, ShouldNotBeNil)
			So(typ, ShouldEqual, Unsupported)
		})
	})
}

func TestExtract(t *testing.T) {
	Convey("Given an item declared with a single src", t, func() {
		item := NewItem("clip", Video)
		item.SetSrc("https://cdn.example/clip.mp4")
		item.SetTextTracks([]TextTrack{{URL: "clip.vtt", Kind: "captions", Lang: "en"}})

		Convey("When extracting its descriptor", func() {
			d := Extract(item)

			Convey("Then src is normalized into a sub-source", func() {
				So(d.Src(), ShouldBeEmpty)
				So(d.Sources(), ShouldResemble, []Source{{URL: "https://cdn.example/clip.mp4"}})
				So(d.URLs(), ShouldResemble, []string{"https://cdn.example/clip.mp4"})
			})

			Convey("And the item no longer holds any configuration", func() {
				So(item.Src(), ShouldBeEmpty)
				So(item.Sources(), ShouldBeEmpty)
				So(item.TextTracks(), ShouldBeEmpty)
			})

			Convey("And text tracks are carried over", func() {
				So(len(d.TextTracks()), ShouldEqual, 1)
			})
		})
	})

	Convey("Given an item declared with alternative sources", t, func() {
		item := NewItem("", Audio)
		item.SetSources([]Source{{URL: "a.ogg", MIME: "audio/ogg"}, {URL: "a.mp3", MIME: "audio/mpeg"}})

		Convey("Extract keeps their order", func() {
			d := Extract(item)
			So(d.URLs(), ShouldResemble, []string{"a.ogg", "a.mp3"})
			So(item.ID(), ShouldNotBeEmpty)
		})
	})

	Convey("An item without configuration yields an empty descriptor", t, func() {
		So(Extract(NewItem("empty", Audio)).IsEmpty(), ShouldBeTrue)
	})
}

func TestApply(t *testing.T) {
	Convey("Given an engine holding stale sources", t, func() {
		engine := NewMemoryEngine(Video, "pool-media-0")
		engine.SetSources([]Source{{URL: "old.mp4"}})
		engine.SetTextTracks([]TextTrack{{URL: "old.vtt"}})

		d := NewSourcesDescriptor(
			[]Source{{URL: "new.webm"}, {URL: "new.mp4"}},
			[]TextTrack{{URL: "new.vtt", Default: true}},
		)

		Convey("When applying a descriptor", func() {
			d.Apply(engine)

			Convey("Then the stale configuration is gone", func() {
				So(engine.Sources(), ShouldResemble, d.Sources())
				So(engine.TextTracks(), ShouldBeEmpty)
			})

			Convey("And text tracks appear once metadata is loaded", func() {
				So(engine.Load(), ShouldBeNil)
				So(engine.TextTracks(), ShouldResemble, d.TextTracks())
			})
		})

		Convey("When sources change before metadata loads", func() {
			engine.ManualMetadata()
			d.Apply(engine)
			NewDescriptor("blank").Apply(engine)
			engine.LoadMetadata()

			Convey("Then the earlier tracks are dropped", func() {
				So(engine.Src(), ShouldEqual, "blank")
				So(engine.TextTracks(), ShouldBeEmpty)
			})
		})

		Convey("Applying a single src clears the sub-sources", func() {
			NewDescriptor("blank").Apply(engine)
			So(engine.Src(), ShouldEqual, "blank")
			So(engine.Sources(), ShouldBeEmpty)
		})
	})
}

func TestItemSilent(t *testing.T) {
	Convey("Given an item", t, func() {
		item := NewItem("v", Video)

		Convey("It is audible by default", func() {
			So(item.Silent(), ShouldBeFalse)
			So(item.Volume().IsPresent(), ShouldBeFalse)
		})

		Convey("A zero volume makes it silent", func() {
			item.SetVolume(0)
			So(item.Silent(), ShouldBeTrue)
		})

		Convey("Declaring no audio makes it silent", func() {
			item.SetVolume(0.8)
			item.SetNoAudio(true)
			So(item.Silent(), ShouldBeTrue)
		})
	})
}

func TestMemoryEngine(t *testing.T) {
	Convey("Given a memory engine", t, func() {
		engine := NewMemoryEngine(Audio, "pool-media-1")

		Convey("It starts paused and muted", func() {
			So(engine.Paused(), ShouldBeTrue)
			So(engine.Muted(), ShouldBeTrue)
		})

		Convey("Playing without a source fails", func() {
			So(engine.Play(), ShouldNotBeNil)
		})

		Convey("Injected failures are returned and recorded", func() {
			boom := errors.New("boom")
			engine.FailOn(OpLoad, boom)
			So(engine.Load(), ShouldEqual, boom)

			engine.FailOn(OpLoad, nil)
			So(engine.Load(), ShouldBeNil)
			So(engine.Ops(), ShouldResemble, []string{OpLoad, OpLoad})
		})

		Convey("Seeking moves the position", func() {
			So(engine.SetCurrentTime(12.5), ShouldBeNil)
			So(engine.Position(), ShouldEqual, 12.5)
			So(engine.SetCurrentTime(-1), ShouldNotBeNil)
		})
	})
}

package cmd

import (
	"testing"

	"github.com/anisan-cli/mediapool/media"
	"github.com/anisan-cli/mediapool/pool"
	"github.com/anisan-cli/mediapool/scenario"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAdhocScenario(t *testing.T) {
	Convey("Given files passed to play", t, func() {
		s := adhocScenario([]string{"intro.mp4", "/music/Theme Song.MP3", "https://example.com/clip"}, -1, 1)

		Convey("Then the media type follows the extension", func() {
			So(guessType("a.ogg"), ShouldEqual, media.Audio)
			So(guessType("a.webm"), ShouldEqual, media.Video)
			So(s.Items[1].Type, ShouldEqual, string(media.Audio))
			So(s.Items[2].Type, ShouldEqual, string(media.Video))
		})

		Convey("Then item ids are unique and filename safe", func() {
			So(s.Items[0].ID, ShouldEqual, "1-intro")
			So(s.Items[1].ID, ShouldEqual, "2-Theme_Song")
			So(s.Items[1].Src, ShouldEqual, "/music/Theme Song.MP3")
		})

		Convey("Then only given capacities override the configuration", func() {
			So(s.Capacity.Audio, ShouldBeNil)
			So(*s.Capacity.Video, ShouldEqual, 1)
		})

		Convey("Then the scenario is valid", func() {
			So(s.Validate(), ShouldBeNil)
		})
	})
}

func TestResourceTable(t *testing.T) {
	Convey("Given a pool snapshot", t, func() {
		snapshot := pool.Snapshot{
			Capacity:  map[media.Type]int{media.Audio: 1, media.Video: 2},
			Allocated: map[media.Type][]string{media.Video: {"pool-media-1"}},
			Resources: []pool.ResourceState{
				{ID: "pool-media-0", Type: media.Audio},
				{ID: "pool-media-1", Type: media.Video, Allocated: true, Handle: "cover", Muted: true},
			},
		}

		table := resourceTable(snapshot)

		Convey("Then every engine is listed under its type", func() {
			So(table, ShouldContainSubstring, "Audio")
			So(table, ShouldContainSubstring, "0/1 allocated")
			So(table, ShouldContainSubstring, "1/2 allocated")
			So(table, ShouldContainSubstring, "pool-media-0")
			So(table, ShouldContainSubstring, "cover")
		})
	})

	Convey("Given a failed step", t, func() {
		line := resultLine(scenario.Result{
			Index: 3,
			Step:  scenario.Step{Action: scenario.ActionPlay, Item: "page"},
			Error: "no engine available",
		})

		So(line, ShouldContainSubstring, "03")
		So(line, ShouldContainSubstring, "play page")
	})
}

package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/anisan-cli/mediapool/filesystem"
	"github.com/anisan-cli/mediapool/media"
	"github.com/anisan-cli/mediapool/pool"
	"github.com/anisan-cli/mediapool/where"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
	lo.Must0(os.Setenv(where.EnvConfigPath, filepath.Join(os.TempDir(), "mediapool-scenario-test")))
}

const pages = `
name: pages
capacity:
  audio: 1
  video: 1
items:
  - id: cover
    type: video
    src: cover.mp4
  - id: page-two
    type: video
    src: two.mp4
    tracks:
      - url: two.vtt
        lang: en
  - id: narration
    type: audio
    src: narration.ogg
    detached: true
steps:
  - action: play
    item: cover
  - action: play
    item: page-two
  - action: cursor
    at: 1
  - action: play
    item: page-two
  - action: preload
    item: narration
  - action: pause
    item: page-two
    rewind: true
`

func write(path, contents string) {
	So(filesystem.API().WriteFile(path, []byte(contents), 0o644), ShouldBeNil)
}

func memoryEngines(t media.Type, id string) (media.Engine, error) {
	return media.NewMemoryEngine(t, id), nil
}

func TestLoad(t *testing.T) {
	Convey("Load", t, func() {
		Convey("Should decode YAML files", func() {
			path := filepath.Join("testdata", "pages.yaml")
			write(path, pages)

			s, err := Load(path)
			So(err, ShouldBeNil)
			So(s.Title(), ShouldEqual, "pages")
			So(s.Path(), ShouldEqual, path)
			So(*s.Capacity.Video, ShouldEqual, 1)
			So(s.Items, ShouldHaveLength, 3)
			So(s.Items[1].Tracks[0].Lang, ShouldEqual, "en")
			So(s.Items[2].Detached, ShouldBeTrue)
			So(s.Steps, ShouldHaveLength, 6)
			So(s.Steps[2].Action, ShouldEqual, ActionCursor)
			So(s.Steps[2].At, ShouldEqual, 1)
			So(s.Steps[5].Rewind, ShouldBeTrue)
		})

		Convey("Should decode TOML files by bare name from the scenarios directory", func() {
			write(filepath.Join(where.Scenarios(), "short.toml"), `
[[items]]
type = "audio"
sources = [{ url = "a.ogg", mime = "audio/ogg" }, { url = "a.mp3" }]

[[steps]]
action = "bless"
`)

			s, err := Load("short")
			So(err, ShouldBeNil)
			So(s.Title(), ShouldEqual, "short")
			So(s.Capacity.Audio, ShouldBeNil)
			So(s.Items[0].ID, ShouldNotBeEmpty)
			So(s.Items[0].Sources, ShouldHaveLength, 2)
			So(s.Items[0].Sources[0].MIME, ShouldEqual, "audio/ogg")
		})

		Convey("Should fail for missing files", func() {
			_, err := Load("nowhere")
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject invalid scenarios", func() {
			cases := map[string]string{
				"empty.json":     `{"items": []}`,
				"type.json":      `{"items": [{"id": "a", "type": "image"}]}`,
				"twice.json":     `{"items": [{"id": "a", "type": "audio"}, {"id": "a", "type": "video"}]}`,
				"action.json":    `{"items": [{"id": "a", "type": "audio"}], "steps": [{"action": "dance", "item": "a"}]}`,
				"target.json":    `{"items": [{"id": "a", "type": "audio"}], "steps": [{"action": "play"}]}`,
				"volume.json":    `{"items": [{"id": "a", "type": "audio", "volume": 2}]}`,
				"capacity.json":  `{"capacity": {"video": -1}, "items": [{"id": "a", "type": "video"}]}`,
			}

			for name, contents := range cases {
				path := filepath.Join("testdata", name)
				write(path, contents)

				_, err := Load(path)
				So(err, ShouldNotBeNil)
			}
		})

		Convey("Should suggest close item ids", func() {
			path := filepath.Join("testdata", "typo.json")
			write(path, `{"items": [{"id": "page-two", "type": "video"}, {"id": "cover", "type": "video"}], "steps": [{"action": "play", "item": "page"}]}`)

			_, err := Load(path)
			So(errors.Is(err, ErrUnknownItem), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, `did you mean "page-two"`)
		})
	})
}

func TestRunner(t *testing.T) {
	Convey("Runner", t, func() {
		path := filepath.Join("testdata", "pages.yaml")
		write(path, pages)
		s := lo.Must(Load(path))

		registry := pool.NewRegistry()
		runner, err := NewRunner(s, registry, memoryEngines)
		So(err, ShouldBeNil)

		Convey("Should register every item with its own pool", func() {
			So(registry.Owners(), ShouldResemble, []string{runner.OwnerID()})
			So(runner.Pool().Snapshot().Registered, ShouldResemble, []string{"cover", "narration", "page-two"})
			So(runner.Items(), ShouldHaveLength, 3)

			_, err := runner.Item("cove")
			So(errors.Is(err, ErrUnknownItem), ShouldBeTrue)
		})

		Convey("Should replay the steps against the pool", func() {
			var seen int
			results, err := runner.Run(context.Background(), func(Result) { seen++ })
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 6)
			So(seen, ShouldEqual, 6)

			for _, r := range results {
				So(r.Failed(), ShouldBeFalse)
			}

			// page-two is further from the cursor than cover, so it gets nothing
			So(results[1].Snapshot.Bindings, ShouldContainKey, "cover")
			So(results[1].Snapshot.Bindings, ShouldNotContainKey, "page-two")

			// once the cursor moves, cover is the furthest and gives up its engine
			So(results[3].Snapshot.Bindings, ShouldContainKey, "page-two")
			So(results[3].Snapshot.Bindings, ShouldNotContainKey, "cover")

			// detached items are never bound
			So(results[4].Snapshot.Bindings, ShouldNotContainKey, "narration")

			engine := results[5].Snapshot.Bindings["page-two"]
			state, ok := results[5].Snapshot.Resource(engine)
			So(ok, ShouldBeTrue)
			So(state.Paused, ShouldBeTrue)
		})

		Convey("Should bind detached items once mounted", func() {
			So(runner.Do(Step{Action: ActionMount, Item: "narration"}), ShouldBeNil)
			So(runner.Do(Step{Action: ActionPlay, Item: "narration"}), ShouldBeNil)
			So(runner.Pool().Snapshot().Bindings, ShouldContainKey, "narration")
		})

		Convey("Should reload a bound item with its new source", func() {
			So(runner.Do(Step{Action: ActionPlay, Item: "cover"}), ShouldBeNil)
			So(runner.Do(Step{Action: ActionReregister, Item: "cover", Src: "cover-hd.mp4"}), ShouldBeNil)

			snapshot := runner.Pool().Snapshot()
			state, _ := snapshot.Resource(snapshot.Bindings["cover"])
			So(state.Sources, ShouldResemble, []string{"cover-hd.mp4"})
		})

		Convey("Should stop when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			results, err := runner.Run(ctx, nil)
			So(err, ShouldEqual, context.Canceled)
			So(results, ShouldBeEmpty)
		})

		Convey("Should release the pool on close", func() {
			So(runner.Close(), ShouldBeNil)
			So(registry.Owners(), ShouldBeEmpty)
		})

		Reset(func() {
			_ = runner.Close()
		})
	})
}

func TestSchema(t *testing.T) {
	Convey("Schema", t, func() {
		data, err := json.Marshal(Schema())
		So(err, ShouldBeNil)
		So(string(data), ShouldContainSubstring, `"steps"`)
		So(string(data), ShouldContainSubstring, `"rewind"`)
	})
}

func TestStep(t *testing.T) {
	Convey("Step.String", t, func() {
		So(Step{Action: ActionSeek, Item: "cover", At: 2.5}.String(), ShouldEqual, "seek cover @2.5s")
		So(Step{Action: ActionPause, Item: "cover", Rewind: true}.String(), ShouldEqual, "pause cover (rewind)")
		So(Step{Action: ActionBless}.String(), ShouldEqual, "bless")
	})
}

package tui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/anisan-cli/mediapool/filesystem"
	"github.com/anisan-cli/mediapool/internal/ui"
	"github.com/anisan-cli/mediapool/media"
	"github.com/anisan-cli/mediapool/pool"
	"github.com/anisan-cli/mediapool/scenario"
	"github.com/anisan-cli/mediapool/where"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
	lo.Must0(os.Setenv(where.EnvConfigPath, filepath.Join(os.TempDir(), "mediapool-tui-test")))
}

const story = `{
  "name": "story",
  "capacity": {"audio": 0, "video": 1},
  "items": [
    {"id": "cover", "type": "video", "src": "cover.mp4"},
    {"id": "page", "type": "video", "src": "page.mp4"}
  ],
  "steps": [
    {"action": "play", "item": "cover"},
    {"action": "mute", "item": "cover"}
  ]
}`

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and, when it started a step, feeds the outcome back.
func press(b *statefulBubble, msg tea.KeyMsg) *actionDoneMsg {
	_, cmd := b.Update(msg)
	if cmd == nil {
		return nil
	}

	done, ok := cmd().(actionDoneMsg)
	if !ok {
		return nil
	}

	b.Update(done)
	return &done
}

func TestBubble(t *testing.T) {
	Convey("Watch view", t, func() {
		path := filepath.Join("testdata", "story.json")
		So(filesystem.API().WriteFile(path, []byte(story), 0o644), ShouldBeNil)

		s := lo.Must(scenario.Load(path))
		runner := lo.Must(scenario.NewRunner(s, pool.NewRegistry(), func(t media.Type, id string) (media.Engine, error) {
			return media.NewMemoryEngine(t, id), nil
		}))
		Reset(func() { _ = runner.Close() })

		b := newBubble(&Options{Runner: runner})
		b.resize(120, 40)

		Convey("Should list the items without engines", func() {
			So(b.itemsC.Items(), ShouldHaveLength, 2)
			first := b.itemsC.Items()[0].(*listItem)
			So(first.cursor, ShouldBeTrue)
			So(first.attached, ShouldBeTrue)
			So(first.engine.IsAbsent(), ShouldBeTrue)
			So(first.Description(), ShouldContainSubstring, "no engine")
		})

		Convey("Should play the selected item", func() {
			done := press(b, tea.KeyMsg{Type: tea.KeyEnter})
			So(done, ShouldNotBeNil)
			So(done.err, ShouldBeNil)
			So(b.busy, ShouldBeFalse)
			So(b.snapshot.Bindings, ShouldContainKey, "cover")

			first := b.itemsC.Items()[0].(*listItem)
			state, ok := first.engine.Get()
			So(ok, ShouldBeTrue)
			So(state.Paused, ShouldBeFalse)
			So(b.View(), ShouldContainSubstring, "pool-media-0")
		})

		Convey("Should ignore actions while a step is running", func() {
			_, cmd := b.Update(runes("p"))
			So(cmd, ShouldNotBeNil)
			So(b.busy, ShouldBeTrue)

			_, again := b.Update(runes("b"))
			if again != nil {
				_, isDone := again().(actionDoneMsg)
				So(isDone, ShouldBeFalse)
			}
		})

		Convey("Should replay scenario steps one at a time", func() {
			So(press(b, runes("n")).step.Action, ShouldEqual, scenario.ActionPlay)
			So(press(b, runes("n")).step.Action, ShouldEqual, scenario.ActionMute)
			So(b.step, ShouldEqual, 2)

			_, cmd := b.Update(runes("n"))
			So(cmd(), ShouldEqual, ui.NotificationMsg("no more steps"))
		})

		Convey("Should move the cursor", func() {
			press(b, runes("]"))
			So(runner.Cursor().At(), ShouldEqual, 1)

			second := b.itemsC.Items()[1].(*listItem)
			So(second.cursor, ShouldBeTrue)

			press(b, runes("["))
			So(runner.Cursor().At(), ShouldEqual, 0)
		})

		Convey("Should show and leave errors", func() {
			b.Update(errors.New("engine exploded"))
			So(b.state, ShouldEqual, errorState)
			So(b.View(), ShouldContainSubstring, "engine exploded")

			b.Update(tea.KeyMsg{Type: tea.KeyEsc})
			So(b.state, ShouldEqual, watchState)
		})

		Convey("Should show notifications until they expire", func() {
			b.Update(ui.NotificationMsg("hello"))
			So(b.notifier.Current(), ShouldEqual, "hello")
			So(b.View(), ShouldContainSubstring, "hello")
		})
	})
}

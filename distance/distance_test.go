package distance

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/anisan-cli/mediapool/filesystem"
	"github.com/anisan-cli/mediapool/media"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCursor(t *testing.T) {
	Convey("Cursor", t, func() {
		cursor := NewCursor()
		first := media.NewItem("first", media.Video)
		third := media.NewItem("third", media.Audio)
		cursor.Place("first", 0)
		cursor.Place("third", 2)

		Convey("Should measure from the cursor in both directions", func() {
			So(cursor.Distance(first), ShouldEqual, 0)
			So(cursor.Distance(third), ShouldEqual, 2)

			cursor.Move(3)
			So(cursor.At(), ShouldEqual, 3)
			So(cursor.Distance(first), ShouldEqual, 3)
			So(cursor.Distance(third), ShouldEqual, 1)
		})

		Convey("Should put unplaced items infinitely far", func() {
			So(math.IsInf(cursor.Distance(media.NewItem("stray", media.Video)), 1), ShouldBeTrue)
		})
	})
}

func TestScript(t *testing.T) {
	Convey("Script", t, func() {
		cursor := NewCursor()
		item := media.NewItem("intro", media.Audio)
		cursor.Place("intro", 4)
		cursor.Move(1)

		Convey("Should call the distance function with the item", func() {
			script, err := CompileScript("weighted", `
function distance(item)
  local d = math.abs(item.index - item.cursor)
  if item.type == "audio" then
    return d * 10
  end
  return d
end`, cursor)
			So(err, ShouldBeNil)
			defer script.Close()

			So(script.Name(), ShouldEqual, "weighted")
			So(script.Distance(item), ShouldEqual, 30)
			So(script.Distance(media.NewItem("outro", media.Video)), ShouldEqual, math.Inf(1))
		})

		Convey("Should require the distance function", func() {
			_, err := CompileScript("empty", `local x = 1`, cursor)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "distance")
		})

		Convey("Should reject scripts that do not compile", func() {
			_, err := CompileScript("broken", `function distance(`, cursor)
			So(err, ShouldNotBeNil)
		})

		Convey("Should not expose the os library", func() {
			script, err := CompileScript("sneaky", `function distance(item) return os.time() end`, cursor)
			So(err, ShouldBeNil)
			defer script.Close()

			So(script.Distance(item), ShouldEqual, 3)
		})

		Convey("Should fall back to the cursor distance on bad results", func() {
			script, err := CompileScript("wrong", `function distance(item) return "far" end`, cursor)
			So(err, ShouldBeNil)
			defer script.Close()

			So(script.Distance(item), ShouldEqual, 3)
		})
	})
}

func TestNew(t *testing.T) {
	Convey("New", t, func() {
		cursor := NewCursor()
		cursor.Place("intro", 2)
		item := media.NewItem("intro", media.Video)

		Convey("Should use the cursor without a script", func() {
			fn, closer, err := New("", cursor)
			So(err, ShouldBeNil)
			defer closer()

			So(fn(item), ShouldEqual, 2)
		})

		Convey("Should load scripts through the filesystem", func() {
			path := filepath.Join("scripts", "flat.lua")
			So(filesystem.API().WriteFile(path, []byte(`function distance(item) return 7 end`), 0o644), ShouldBeNil)

			fn, closer, err := New(path, cursor)
			So(err, ShouldBeNil)
			defer closer()

			So(fn(item), ShouldEqual, 7)
		})

		Convey("Should fail for missing scripts", func() {
			_, _, err := New(filepath.Join("scripts", "missing.lua"), cursor)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestScaffold(t *testing.T) {
	Convey("Scaffold", t, func() {
		source, err := Scaffold("pages", "someone")
		So(err, ShouldBeNil)
		So(source, ShouldContainSubstring, "-- @name    pages")

		script, err := CompileScript("pages", source, NewCursor())
		So(err, ShouldBeNil)
		script.Close()
	})
}

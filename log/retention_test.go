package log

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/anisan-cli/mediapool/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPrune(t *testing.T) {
	Convey("Given a log directory with old and recent files", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()
		dir := "/logs"

		old := filepath.Join(dir, "2020-01-01.log")
		recent := filepath.Join(dir, "today.log")
		other := filepath.Join(dir, "notes.txt")

		for _, path := range []string{old, recent, other} {
			So(fs.WriteFile(path, []byte("x"), 0644), ShouldBeNil)
		}

		stale := time.Now().Add(-2 * Retention)
		So(fs.Chtimes(old, stale, stale), ShouldBeNil)
		So(fs.Chtimes(other, stale, stale), ShouldBeNil)

		Convey("When pruning", func() {
			prune(dir, time.Now().Add(-Retention))

			Convey("Then only expired log files are removed", func() {
				So(lo.Must(fs.Exists(old)), ShouldBeFalse)
				So(lo.Must(fs.Exists(recent)), ShouldBeTrue)
				So(lo.Must(fs.Exists(other)), ShouldBeTrue)
			})
		})

		Convey("When the directory does not exist", func() {
			So(func() { prune("/missing", time.Now()) }, ShouldNotPanic)
		})
	})
}

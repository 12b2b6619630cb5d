package where

import (
	"testing"

	"github.com/anisan-cli/mediapool/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Use in-memory filesystem for tests to avoid creating real directories
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Cache()", func() {
			path := Cache()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs()", func() {
			path := Logs()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Scripts() and Scenarios() should live under Config()", func() {
			So(Scripts(), ShouldStartWith, Config())
			So(Scenarios(), ShouldStartWith, Config())
			So(lo.Must(filesystem.API().IsDir(Scripts())), ShouldBeTrue)
		})

		Convey("Version() should be a file inside Cache()", func() {
			So(Version(), ShouldStartWith, Cache())
			So(Version(), ShouldEndWith, "version.json")
			So(Recent(), ShouldStartWith, Cache())
		})
	})
}

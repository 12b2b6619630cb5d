package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		Convey("Should order by major, minor then patch", func() {
			So(must(Compare("1.0.0", "0.9.9")), ShouldEqual, 1)
			So(must(Compare("0.3.0", "0.3.1")), ShouldEqual, -1)
			So(must(Compare("v0.3.0", "0.3.0")), ShouldEqual, 0)
		})

		Convey("Should reject malformed versions", func() {
			_, err := Compare("latest", "0.3.0")
			So(err, ShouldNotBeNil)
		})
	})
}

func must(n int, err error) int {
	So(err, ShouldBeNil)
	return n
}

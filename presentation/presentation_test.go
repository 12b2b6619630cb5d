package presentation

import (
	"errors"
	"testing"

	"github.com/anisan-cli/mediapool/constant"
	. "github.com/smartystreets/goconvey/convey"
)

type testSlot struct {
	props *Props
}

func newTestSlot() *testSlot {
	return &testSlot{props: NewProps()}
}

func (s *testSlot) Props() *Props {
	return s.props
}

func TestPolicy(t *testing.T) {
	Convey("Given an item slot and a pool engine slot", t, func() {
		item := newTestSlot()
		item.props.SetAttribute("id", "item-1")
		item.props.SetAttribute("poster", "cover.jpg")
		item.props.SetAttribute("loop", "")
		item.props.AddClass("fullbleed", "story-media")

		engine := newTestSlot()
		engine.props.SetAttribute("id", "pool-media-0")
		engine.props.SetAttribute("muted", "")
		engine.props.AddClass(constant.PoolMediaClass, constant.PoolVideoClass, "stale")

		Convey("When transferring from the item to the engine", func() {
			DefaultPolicy.Transfer(item.props, engine.props)

			Convey("Then protected attributes stay with the engine", func() {
				id, _ := engine.props.Attribute("id")
				So(id, ShouldEqual, "pool-media-0")
			})

			Convey("And unprotected attributes are replaced by the item's", func() {
				_, muted := engine.props.Attribute("muted")
				So(muted, ShouldBeFalse)

				poster, ok := engine.props.Attribute("poster")
				So(ok, ShouldBeTrue)
				So(poster, ShouldEqual, "cover.jpg")
			})

			Convey("And pool classes survive while the rest is replaced", func() {
				So(engine.props.HasClass(constant.PoolMediaClass), ShouldBeTrue)
				So(engine.props.HasClass(constant.PoolVideoClass), ShouldBeTrue)
				So(engine.props.HasClass("stale"), ShouldBeFalse)
				So(engine.props.HasClass("fullbleed"), ShouldBeTrue)
			})

			Convey("And the item keeps its own state", func() {
				So(item.props.HasClass("fullbleed"), ShouldBeTrue)
				id, _ := item.props.Attribute("id")
				So(id, ShouldEqual, "item-1")
			})
		})

		Convey("When transferring back, pool markers never leak onto the item", func() {
			DefaultPolicy.Transfer(item.props, engine.props)
			engine.props.SetAttribute("data-progress", "0.5")
			DefaultPolicy.Transfer(engine.props, item.props)

			So(item.props.HasClass(constant.PoolMediaClass), ShouldBeFalse)
			progress, _ := item.props.Attribute("data-progress")
			So(progress, ShouldEqual, "0.5")
		})
	})
}

func TestTree(t *testing.T) {
	Convey("Given a tree with two mounted slots", t, func() {
		a, b, c := newTestSlot(), newTestSlot(), newTestSlot()
		tree := NewTree(a, b)

		Convey("Connected reflects membership", func() {
			So(tree.Connected(a), ShouldBeTrue)
			So(tree.Connected(c), ShouldBeFalse)
		})

		Convey("Replace swaps a slot in place", func() {
			So(tree.Replace(a, c), ShouldBeNil)
			So(tree.Connected(a), ShouldBeFalse)
			So(tree.Slots()[0] == Slot(c), ShouldBeTrue)
		})

		Convey("Replacing an unmounted slot fails", func() {
			err := tree.Replace(c, a)
			So(errors.Is(err, ErrNotMounted), ShouldBeTrue)
		})

		Convey("Unmount removes a slot", func() {
			tree.Unmount(b)
			So(tree.Connected(b), ShouldBeFalse)
			So(len(tree.Slots()), ShouldEqual, 1)
		})
	})
}

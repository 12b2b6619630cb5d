package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anisan-cli/mediapool/media"
	"github.com/anisan-cli/mediapool/presentation"
	. "github.com/smartystreets/goconvey/convey"
)

// recorder records the order in which tasks ran.
type recorder struct {
	mu     sync.Mutex
	name   string
	sync   bool
	err    error
	panics bool
	ran    *[]string
	gate   chan struct{}
}

func (r *recorder) Kind() Kind        { return Kind(r.name) }
func (r *recorder) Synchronous() bool { return r.sync }

func (r *recorder) Run(media.Engine) error {
	if r.gate != nil {
		<-r.gate
	}

	r.mu.Lock()
	*r.ran = append(*r.ran, r.name)
	r.mu.Unlock()

	if r.panics {
		panic("engine exploded")
	}
	return r.err
}

func wait(c *Completion) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return c.Wait(ctx)
}

func TestQueue(t *testing.T) {
	Convey("Given a queue over a memory engine", t, func() {
		engine := media.NewMemoryEngine(media.Video, "pool-media-0")
		queue := NewQueue(engine, 0)
		var ran []string

		Convey("Synchronous tasks run before Enqueue returns", func() {
			c := queue.Enqueue(&recorder{name: "a", sync: true, ran: &ran})
			So(ran, ShouldResemble, []string{"a"})
			So(c.Err(), ShouldBeNil)

			select {
			case <-c.Done():
			default:
				t.Fatal("completion should be settled")
			}
		})

		Convey("Deferred tasks do not run inline", func() {
			gate := make(chan struct{})
			c := queue.Enqueue(&recorder{name: "later", ran: &ran, gate: gate})
			So(ran, ShouldBeEmpty)

			close(gate)
			So(wait(c), ShouldBeNil)
			So(ran, ShouldResemble, []string{"later"})
		})

		Convey("Tasks run in enqueue order", func() {
			gate := make(chan struct{})
			first := queue.Enqueue(&recorder{name: "1", ran: &ran, gate: gate})
			second := queue.Enqueue(&recorder{name: "2", sync: true, ran: &ran})
			third := queue.Enqueue(&recorder{name: "3", ran: &ran})

			So(queue.Len(), ShouldEqual, 3)
			close(gate)

			So(WaitAll(context.Background(), first, second, third), ShouldBeNil)
			So(ran, ShouldResemble, []string{"1", "2", "3"})
			So(queue.Len(), ShouldEqual, 0)
		})

		Convey("A failing task rejects only its own completion", func() {
			boom := errors.New("boom")
			failed := queue.Enqueue(&recorder{name: "bad", sync: true, err: boom, ran: &ran})
			next := queue.Enqueue(&recorder{name: "good", ran: &ran})

			So(wait(failed), ShouldEqual, boom)
			So(wait(next), ShouldBeNil)
			So(ran, ShouldResemble, []string{"bad", "good"})
		})

		Convey("A panicking task is reported and the queue keeps going", func() {
			crashed := queue.Enqueue(&recorder{name: "crash", sync: true, panics: true, ran: &ran})
			next := queue.Enqueue(&recorder{name: "after", sync: true, ran: &ran})

			var panicErr *PanicError
			So(errors.As(wait(crashed), &panicErr), ShouldBeTrue)
			So(panicErr.Kind, ShouldEqual, Kind("crash"))
			So(wait(next), ShouldBeNil)
		})

		Convey("Waiting gives up with the context without cancelling the task", func() {
			gate := make(chan struct{})
			c := queue.Enqueue(&recorder{name: "slow", ran: &ran, gate: gate})

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			So(c.Wait(ctx), ShouldEqual, context.Canceled)

			close(gate)
			So(wait(c), ShouldBeNil)
		})

		Convey("Pushed tasks wait for Start", func() {
			gate := make(chan struct{})
			first := queue.Push(&recorder{name: "swap", sync: true, ran: &ran})
			second := queue.Push(&recorder{name: "load", ran: &ran, gate: gate})
			So(ran, ShouldBeEmpty)
			So(queue.Len(), ShouldEqual, 2)

			queue.Start()
			So(ran, ShouldResemble, []string{"swap"})
			close(gate)

			So(WaitAll(context.Background(), first, second), ShouldBeNil)
			So(ran, ShouldResemble, []string{"swap", "load"})

			Convey("And Start on an idle empty queue does nothing", func() {
				queue.Start()
				So(queue.Len(), ShouldEqual, 0)
			})
		})

		Convey("Load never runs inline", func() {
			So(Load{}.Synchronous(), ShouldBeFalse)
		})

		Convey("Future mirrors the completion", func() {
			boom := errors.New("boom")
			c := queue.Enqueue(&recorder{name: "bad", sync: true, err: boom, ran: &ran})
			_, err := c.Future().Collect()
			So(err, ShouldEqual, boom)

			_, err = Resolved().Future().Collect()
			So(err, ShouldBeNil)
		})
	})
}

func TestTasks(t *testing.T) {
	Convey("Given a memory engine", t, func() {
		engine := media.NewMemoryEngine(media.Audio, "pool-media-1")

		Convey("Play skips an engine that is already playing", func() {
			engine.SetSrc("a.ogg")
			So(Play{}.Run(engine), ShouldBeNil)
			So(Play{}.Run(engine), ShouldBeNil)
			So(engine.Ops(), ShouldResemble, []string{media.OpPlay})
		})

		Convey("Bless restores mute when the engine was muted", func() {
			So(Bless{}.Run(engine), ShouldBeNil)
			So(engine.Muted(), ShouldBeTrue)
			So(engine.Ops(), ShouldResemble, []string{media.OpUnmute, media.OpMute})
		})

		Convey("Bless leaves an unmuted engine unmuted", func() {
			So(engine.SetMuted(false), ShouldBeNil)
			So(Bless{}.Run(engine), ShouldBeNil)
			So(engine.Muted(), ShouldBeFalse)
		})

		Convey("Mute and Unmute mirror the muted attribute", func() {
			So(Unmute{}.Run(engine), ShouldBeNil)
			_, ok := engine.Props().Attribute("muted")
			So(ok, ShouldBeFalse)

			So(Mute{}.Run(engine), ShouldBeNil)
			_, ok = engine.Props().Attribute("muted")
			So(ok, ShouldBeTrue)
		})

		Convey("UpdateSources replaces the engine sources", func() {
			engine.SetSrc("old.ogg")
			d := media.NewSourcesDescriptor([]media.Source{{URL: "new.ogg"}}, nil)
			So(UpdateSources{Descriptor: d}.Run(engine), ShouldBeNil)
			So(engine.Src(), ShouldBeEmpty)
			So(engine.Sources(), ShouldResemble, d.Sources())
		})

		Convey("Given an item mounted in a host", func() {
			item := media.NewItem("voice", media.Audio)
			item.Props().AddClass("narration")
			item.Props().SetAttribute("data-volume", "0.5")
			host := presentation.NewTree(item)

			swapIn := SwapIn{Host: host, Slot: item, Policy: presentation.DefaultPolicy}
			swapOut := SwapOut{Host: host, Slot: item, Policy: presentation.DefaultPolicy}

			Convey("SwapIn puts the engine in its place with its presentation", func() {
				So(swapIn.Run(engine), ShouldBeNil)
				So(host.Connected(engine), ShouldBeTrue)
				So(host.Connected(item), ShouldBeFalse)
				So(engine.Props().HasClass("narration"), ShouldBeTrue)

				_, hasID := engine.Props().Attribute("id")
				So(hasID, ShouldBeFalse)

				Convey("And SwapOut restores the item", func() {
					So(swapOut.Run(engine), ShouldBeNil)
					So(host.Connected(item), ShouldBeTrue)
					So(host.Connected(engine), ShouldBeFalse)
					So(item.Props().HasClass("narration"), ShouldBeTrue)
				})
			})

			Convey("SwapIn fails once the item left the host", func() {
				host.Unmount(item)
				So(errors.Is(swapIn.Run(engine), ErrNotConnected), ShouldBeTrue)
			})

			Convey("SwapOut of an engine outside the host leaves the item alone", func() {
				So(swapOut.Run(engine), ShouldBeNil)
				So(host.Connected(item), ShouldBeTrue)
				So(item.Props().HasClass("narration"), ShouldBeTrue)
			})
		})
	})
}

package timer_test

import (
	"context"
	"errors"
	"testing"

	"focusboard/internal/domain/timer"

	. "github.com/smartystreets/goconvey/convey"
)

type flushRecorder struct {
	calls []int
	err   error
}

func (f *flushRecorder) flush(_ context.Context, elapsedSeconds int) error {
	f.calls = append(f.calls, elapsedSeconds)
	return f.err
}

func TestTimer_New(t *testing.T) {
	Convey("Given a new timer with defaults", t, func() {
		tm := timer.New()

		Convey("Then it is idle with a full 25-minute interval", func() {
			st := tm.Status()
			So(st.Running, ShouldBeFalse)
			So(st.RemainingSeconds, ShouldEqual, timer.DefaultSessionSeconds)
		})
	})

	Convey("Given a custom session length", t, func() {
		tm := timer.New(timer.WithSessionSeconds(10))

		Convey("Then the countdown starts from it", func() {
			So(tm.Status().RemainingSeconds, ShouldEqual, 10)
		})
	})
}

func TestTimer_Transitions(t *testing.T) {
	ctx := context.Background()

	Convey("Given a running timer", t, func() {
		rec := &flushRecorder{}
		tm := timer.New(timer.WithSessionSeconds(5), timer.WithFlushFunc(rec.flush))
		tm.Start()

		Convey("When ticking", func() {
			So(tm.Tick(ctx), ShouldBeNil)

			Convey("Then the countdown decrements and stays running", func() {
				st := tm.Status()
				So(st.RemainingSeconds, ShouldEqual, 4)
				So(st.Running, ShouldBeTrue)
				So(rec.calls, ShouldBeEmpty)
			})
		})

		Convey("When starting again", func() {
			tm.Start()

			Convey("Then it is a no-op", func() {
				So(tm.Status().Running, ShouldBeTrue)
			})
		})

		Convey("When the countdown depletes", func() {
			for i := 0; i < 5; i++ {
				So(tm.Tick(ctx), ShouldBeNil)
			}

			Convey("Then the full interval flushes and the timer resets to idle", func() {
				So(rec.calls, ShouldResemble, []int{5})
				st := tm.Status()
				So(st.Running, ShouldBeFalse)
				So(st.RemainingSeconds, ShouldEqual, 5)
			})

			Convey("And further ticks do nothing", func() {
				So(tm.Tick(ctx), ShouldBeNil)
				So(rec.calls, ShouldResemble, []int{5})
				So(tm.Status().RemainingSeconds, ShouldEqual, 5)
			})
		})
	})

	Convey("Given an idle timer", t, func() {
		rec := &flushRecorder{}
		tm := timer.New(timer.WithSessionSeconds(5), timer.WithFlushFunc(rec.flush))

		Convey("When ticking", func() {
			So(tm.Tick(ctx), ShouldBeNil)

			Convey("Then nothing moves", func() {
				So(tm.Status().RemainingSeconds, ShouldEqual, 5)
				So(rec.calls, ShouldBeEmpty)
			})
		})
	})
}

func TestTimer_Save(t *testing.T) {
	ctx := context.Background()

	Convey("Given a timer three seconds into a five second interval", t, func() {
		rec := &flushRecorder{}
		tm := timer.New(timer.WithSessionSeconds(5), timer.WithFlushFunc(rec.flush))
		tm.Start()
		So(tm.Tick(ctx), ShouldBeNil)
		So(tm.Tick(ctx), ShouldBeNil)
		So(tm.Tick(ctx), ShouldBeNil)

		Convey("When saving", func() {
			So(tm.Save(ctx), ShouldBeNil)

			Convey("Then the elapsed time flushes and the timer resets", func() {
				So(rec.calls, ShouldResemble, []int{3})
				st := tm.Status()
				So(st.Running, ShouldBeFalse)
				So(st.RemainingSeconds, ShouldEqual, 5)
			})
		})
	})

	Convey("Given a flush that fails", t, func() {
		rec := &flushRecorder{err: errors.New("store unavailable")}
		tm := timer.New(timer.WithSessionSeconds(5), timer.WithFlushFunc(rec.flush))
		tm.Start()
		So(tm.Tick(ctx), ShouldBeNil)

		Convey("When saving", func() {
			err := tm.Save(ctx)

			Convey("Then the error surfaces but the timer has already reset", func() {
				So(err, ShouldNotBeNil)
				st := tm.Status()
				So(st.Running, ShouldBeFalse)
				So(st.RemainingSeconds, ShouldEqual, 5)
			})
		})
	})

	Convey("Given an idle timer with nothing elapsed", t, func() {
		rec := &flushRecorder{}
		tm := timer.New(timer.WithSessionSeconds(5), timer.WithFlushFunc(rec.flush))

		Convey("When saving", func() {
			So(tm.Save(ctx), ShouldBeNil)

			Convey("Then a zero-length interval is still flushed", func() {
				So(rec.calls, ShouldResemble, []int{0})
			})
		})
	})
}

func TestTimer_Reset(t *testing.T) {
	ctx := context.Background()

	Convey("Given a running timer with elapsed time", t, func() {
		rec := &flushRecorder{}
		tm := timer.New(timer.WithSessionSeconds(5), timer.WithFlushFunc(rec.flush))
		tm.Start()
		So(tm.Tick(ctx), ShouldBeNil)

		Convey("When resetting", func() {
			tm.Reset()

			Convey("Then it returns to idle with a full interval and no flush", func() {
				st := tm.Status()
				So(st.Running, ShouldBeFalse)
				So(st.RemainingSeconds, ShouldEqual, 5)
				So(rec.calls, ShouldBeEmpty)
			})
		})
	})
}

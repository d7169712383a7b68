package model_test

import (
	"testing"
	"time"

	"focusboard/internal/domain/model"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFocusSession_Normalized(t *testing.T) {
	Convey("Given a session with an empty username", t, func() {
		s := model.FocusSession{UserID: "u1", FocusedSeconds: 300, CreatedAt: 1700000000000}

		Convey("When normalizing", func() {
			n := s.Normalized()

			Convey("Then the anonymous display name is substituted", func() {
				So(n.Username, ShouldEqual, model.AnonymousUsername)
				So(n.FocusedSeconds, ShouldEqual, 300)
			})
		})
	})

	Convey("Given negative focused seconds", t, func() {
		s := model.FocusSession{UserID: "u1", Username: "ada", FocusedSeconds: -42, CreatedAt: 1700000000000}

		Convey("When normalizing", func() {
			n := s.Normalized()

			Convey("Then the duration degrades to zero", func() {
				So(n.FocusedSeconds, ShouldEqual, 0)
				So(n.Username, ShouldEqual, "ada")
			})
		})
	})

	Convey("Given a well-formed session", t, func() {
		s := model.FocusSession{UserID: "u1", Username: "ada", FocusedSeconds: 1500, CreatedAt: 1700000000000}

		Convey("Then normalization leaves it untouched", func() {
			So(s.Normalized(), ShouldResemble, s)
		})
	})
}

func TestFocusSession_Timestamps(t *testing.T) {
	Convey("Given a session stamped at a known instant", t, func() {
		at := time.Date(2025, time.March, 12, 9, 30, 0, 0, time.UTC)
		s := model.FocusSession{UserID: "u1", CreatedAt: at.UnixMilli()}

		Convey("Then the creation time round-trips through milliseconds", func() {
			So(s.HasTimestamp(), ShouldBeTrue)
			So(s.CreatedTime().Equal(at), ShouldBeTrue)
		})
	})

	Convey("Given a session without a timestamp", t, func() {
		s := model.FocusSession{UserID: "u1"}

		Convey("Then it reports no usable timestamp", func() {
			So(s.HasTimestamp(), ShouldBeFalse)
		})
	})
}

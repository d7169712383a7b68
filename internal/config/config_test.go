package config_test

import (
	"context"
	"testing"

	"focusboard/internal/config"

	"github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	convey.Convey("Given default configuration", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then the defaults describe a runnable service", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Collection, convey.ShouldEqual, "focus_sessions")
			convey.So(cfg.SessionSeconds, convey.ShouldEqual, 1500)
			convey.So(cfg.TickIntervalMS, convey.ShouldEqual, 1000)
			convey.So(cfg.QueueSize, convey.ShouldBeGreaterThan, 0)
			convey.So(cfg.WorkerCount, convey.ShouldBeGreaterThan, 0)
			convey.So(cfg.DedupeSize, convey.ShouldBeGreaterThan, 0)
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.SnapshotBuffer, convey.ShouldEqual, 1)
		})

		convey.Convey("And no identity is bound by default", func() {
			convey.So(cfg.CurrentUserID, convey.ShouldBeEmpty)
			convey.So(cfg.CurrentUserName, convey.ShouldBeEmpty)
		})
	})
}

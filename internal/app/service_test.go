package service_test

import (
	"context"
	"testing"
	"time"

	"focusboard/internal/adapters/identity"
	writequeue "focusboard/internal/adapters/mq/queue"
	"focusboard/internal/adapters/store"
	service "focusboard/internal/app"
	"focusboard/internal/domain/model"
	"focusboard/pkg/logger"

	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var testNow = time.Date(2025, time.March, 12, 15, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func newTestService(opts ...service.Option) (*service.Service, func()) {
	base := []service.Option{
		service.WithStore(store.NewMemoryStore(store.WithClock(fixedNow))),
		service.WithNowFunc(fixedNow),
		service.WithWorkerCount(2),
		service.WithQueueSize(100),
		service.WithSessionSeconds(10),
		// Slow enough that tests control the countdown themselves.
		service.WithTickInterval(time.Hour),
	}
	svc := service.New(append(base, opts...)...)
	ctx, cancel := context.WithCancel(context.Background())
	if err := svc.Start(ctx); err != nil {
		cancel()
		panic(err)
	}
	return svc, func() {
		svc.Stop()
		cancel()
	}
}

func TestService_WritePipeline(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc, stop := newTestService()
		defer stop()

		Convey("When a session write is enqueued", func() {
			ok := svc.Enqueue(ctx, writequeue.Write{
				RequestID: "req-1",
				Session:   model.FocusSession{UserID: "u1", Username: "ada", FocusedSeconds: 1500},
			})
			So(ok, ShouldBeTrue)

			Convey("Then it reaches the leaderboard through the store snapshot", func() {
				So(waitFor(func() bool {
					entries, err := svc.TodayLeaderboard(ctx, 10)
					return err == nil && len(entries) == 1
				}), ShouldBeTrue)

				entries, err := svc.TodayLeaderboard(ctx, 10)
				So(err, ShouldBeNil)
				So(entries[0].UserID, ShouldEqual, "u1")
				So(entries[0].TotalFocusedSeconds, ShouldEqual, 1500)
				So(entries[0].Pomodoros, ShouldEqual, 1)
				So(entries[0].Rank, ShouldEqual, 1)
			})
		})

		Convey("When several users write sessions", func() {
			for _, w := range []writequeue.Write{
				{Session: model.FocusSession{UserID: "u1", Username: "ada", FocusedSeconds: 3000}},
				{Session: model.FocusSession{UserID: "u2", Username: "lin", FocusedSeconds: 600}},
				{Session: model.FocusSession{UserID: "u1", Username: "ada", FocusedSeconds: 600}},
			} {
				So(svc.Enqueue(ctx, w), ShouldBeTrue)
			}

			Convey("Then totals group by user and rank by total", func() {
				So(waitFor(func() bool {
					entries, _ := svc.TodayLeaderboard(ctx, 10)
					return len(entries) == 2 && entries[0].TotalFocusedSeconds == 3600
				}), ShouldBeTrue)

				entries, _ := svc.TodayLeaderboard(ctx, 10)
				So(entries[0].UserID, ShouldEqual, "u1")
				So(entries[1].UserID, ShouldEqual, "u2")

				week, err := svc.WeekLeaderboard(ctx, 10)
				So(err, ShouldBeNil)
				So(week, ShouldHaveLength, 2)
			})

			Convey("And the limit truncates the ranking", func() {
				So(waitFor(func() bool {
					entries, _ := svc.TodayLeaderboard(ctx, 10)
					return len(entries) == 2
				}), ShouldBeTrue)

				entries, _ := svc.TodayLeaderboard(ctx, 1)
				So(entries, ShouldHaveLength, 1)
				So(entries[0].UserID, ShouldEqual, "u1")
			})
		})
	})
}

func TestService_Dedupe(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc, stop := newTestService()
		defer stop()

		Convey("When the same request id arrives twice", func() {
			first := svc.SeenAndRecord(ctx, "req-9")
			second := svc.SeenAndRecord(ctx, "req-9")

			Convey("Then only the first is fresh", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeTrue)
			})
		})

		Convey("When an id is unrecorded after a failed enqueue", func() {
			svc.SeenAndRecord(ctx, "req-9")
			svc.Unrecord(ctx, "req-9")

			Convey("Then the id can be retried", func() {
				So(svc.SeenAndRecord(ctx, "req-9"), ShouldBeFalse)
			})
		})
	})
}

func TestService_Timer(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with a bound identity", t, func() {
		svc, stop := newTestService(
			service.WithIdentity(identity.NewStaticProvider(identity.User{
				ID:          "u1",
				DisplayName: "Ada",
			})),
		)
		defer stop()

		Convey("Then the timer starts idle and full", func() {
			st := svc.TimerStatus(ctx)
			So(st.Running, ShouldBeFalse)
			So(st.RemainingSeconds, ShouldEqual, 10)
		})

		Convey("When starting and saving mid-interval", func() {
			svc.StartTimer(ctx)
			So(svc.TimerStatus(ctx).Running, ShouldBeTrue)

			So(svc.SaveTimer(ctx), ShouldBeNil)

			Convey("Then the timer resets", func() {
				st := svc.TimerStatus(ctx)
				So(st.Running, ShouldBeFalse)
				So(st.RemainingSeconds, ShouldEqual, 10)
			})
		})

		Convey("When resetting a running timer", func() {
			svc.StartTimer(ctx)
			svc.ResetTimer(ctx)

			Convey("Then nothing is persisted", func() {
				st := svc.TimerStatus(ctx)
				So(st.Running, ShouldBeFalse)

				entries, _ := svc.TodayLeaderboard(ctx, 10)
				So(entries, ShouldBeEmpty)
			})
		})
	})
}

func TestService_Summary(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with a bound identity and saved sessions", t, func() {
		svc, stop := newTestService(
			service.WithIdentity(identity.NewStaticProvider(identity.User{
				ID:          "u1",
				DisplayName: "Ada",
				AvatarURL:   "https://example.com/ada.png",
			})),
		)
		defer stop()

		So(svc.Enqueue(ctx, writequeue.Write{
			Session: model.FocusSession{UserID: "u1", Username: "Ada", FocusedSeconds: 25 * 60},
		}), ShouldBeTrue)

		So(waitFor(func() bool {
			entries, _ := svc.TodayLeaderboard(ctx, 10)
			return len(entries) == 1
		}), ShouldBeTrue)

		Convey("When reading the summary", func() {
			sum := svc.Summary(ctx)

			Convey("Then identity, streak, achievements and the weekly shape are filled", func() {
				So(sum.SignedIn, ShouldBeTrue)
				So(sum.UserID, ShouldEqual, "u1")
				So(sum.Username, ShouldEqual, "Ada")
				So(sum.StreakDays, ShouldEqual, 1)
				So(sum.Achievements, ShouldResemble, []int{25})
				// testNow is a Wednesday, index 2 of Monday..Sunday.
				So(sum.DailyMinutes[2], ShouldEqual, 25)
			})
		})
	})

	Convey("Given an anonymous service", t, func() {
		svc, stop := newTestService()
		defer stop()

		Convey("Then the summary carries no identity state", func() {
			sum := svc.Summary(context.Background())
			So(sum.SignedIn, ShouldBeFalse)
			So(sum.StreakDays, ShouldEqual, 0)
			So(sum.Achievements, ShouldBeEmpty)
			So(sum.DailyMinutes, ShouldResemble, [7]int64{})
		})
	})
}

func TestService_Stats(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc, stop := newTestService()
		defer stop()

		Convey("When reading stats", func() {
			stats := svc.GetStats()

			Convey("Then the operational shape is present", func() {
				So(stats["started"], ShouldBeTrue)
				So(stats["collection"], ShouldEqual, "focus_sessions")
				So(stats["queueLength"], ShouldEqual, 0)
				So(stats["totalSessions"], ShouldEqual, 0)
				So(stats["timerRunning"], ShouldBeFalse)
			})
		})
	})
}

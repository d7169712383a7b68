package store_test

import (
	"context"
	"testing"
	"time"

	"focusboard/internal/adapters/store"
	"focusboard/internal/domain/model"

	. "github.com/smartystreets/goconvey/convey"
)

const collection = "focus_sessions"

var frozen = time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return frozen }

func TestMemoryStore_Append(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store with a fixed clock", t, func() {
		s := store.NewMemoryStore(store.WithClock(fixedClock))

		Convey("When appending a session without a timestamp", func() {
			id, err := s.Append(ctx, collection, model.FocusSession{
				UserID:         "u1",
				Username:       "ada",
				FocusedSeconds: 900,
			})

			Convey("Then the record gets an ID and a store-assigned timestamp", func() {
				So(err, ShouldBeNil)
				So(id, ShouldNotBeEmpty)

				snap, err := s.Snapshot(ctx, collection)
				So(err, ShouldBeNil)
				So(snap, ShouldHaveLength, 1)
				So(snap[id].CreatedAt, ShouldEqual, frozen.UnixMilli())
				So(s.Count(ctx, collection), ShouldEqual, 1)
			})
		})

		Convey("When appending a session that already carries a timestamp", func() {
			at := frozen.AddDate(0, 0, -3)
			id, err := s.Append(ctx, collection, model.FocusSession{
				UserID:         "u1",
				Username:       "ada",
				FocusedSeconds: 900,
				CreatedAt:      at.UnixMilli(),
			})

			Convey("Then the provided timestamp is kept", func() {
				So(err, ShouldBeNil)
				snap, _ := s.Snapshot(ctx, collection)
				So(snap[id].CreatedAt, ShouldEqual, at.UnixMilli())
			})
		})

		Convey("When appending a record without a user", func() {
			_, err := s.Append(ctx, collection, model.FocusSession{FocusedSeconds: 100})

			Convey("Then the append is rejected", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "invalid session record")
				So(s.Count(ctx, collection), ShouldEqual, 0)
			})
		})

		Convey("When appending a record with an empty username", func() {
			id, err := s.Append(ctx, collection, model.FocusSession{UserID: "u1", FocusedSeconds: 100})

			Convey("Then the anonymous display name is stored", func() {
				So(err, ShouldBeNil)
				snap, _ := s.Snapshot(ctx, collection)
				So(snap[id].Username, ShouldEqual, model.AnonymousUsername)
			})
		})
	})
}

func TestMemoryStore_SnapshotOrdering(t *testing.T) {
	ctx := context.Background()

	Convey("Given records appended out of chronological order", t, func() {
		s := store.NewMemoryStore(store.WithClock(fixedClock))

		later := model.FocusSession{UserID: "b", FocusedSeconds: 1, CreatedAt: frozen.Add(time.Hour).UnixMilli()}
		earlier := model.FocusSession{UserID: "a", FocusedSeconds: 1, CreatedAt: frozen.UnixMilli()}

		_, err := s.Append(ctx, collection, later)
		So(err, ShouldBeNil)
		_, err = s.Append(ctx, collection, earlier)
		So(err, ShouldBeNil)

		Convey("When listing the snapshot", func() {
			snap, err := s.Snapshot(ctx, collection)
			So(err, ShouldBeNil)
			sessions := snap.Sessions()

			Convey("Then sessions come back in creation order", func() {
				So(sessions, ShouldHaveLength, 2)
				So(sessions[0].UserID, ShouldEqual, "a")
				So(sessions[1].UserID, ShouldEqual, "b")
			})
		})

		Convey("When listing twice", func() {
			snap, _ := s.Snapshot(ctx, collection)

			Convey("Then the order is deterministic", func() {
				first := snap.Sessions()
				second := snap.Sessions()
				So(second, ShouldResemble, first)
			})
		})
	})

	Convey("Given an unknown collection", t, func() {
		s := store.NewMemoryStore()

		Convey("Then its snapshot is empty, not an error", func() {
			snap, err := s.Snapshot(ctx, "nothing-here")
			So(err, ShouldBeNil)
			So(snap, ShouldBeEmpty)
			So(snap.Sessions(), ShouldBeEmpty)
		})
	})
}

func TestMemoryStore_Subscribe(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with one existing record", t, func() {
		s := store.NewMemoryStore(store.WithClock(fixedClock))
		_, err := s.Append(ctx, collection, model.FocusSession{UserID: "u1", FocusedSeconds: 60})
		So(err, ShouldBeNil)

		Convey("When subscribing", func() {
			ch, cancel, err := s.Subscribe(ctx, collection)
			So(err, ShouldBeNil)
			defer cancel()

			Convey("Then the current snapshot is delivered immediately", func() {
				snap := <-ch
				So(snap, ShouldHaveLength, 1)
			})

			Convey("And each append delivers a full replacement snapshot", func() {
				<-ch // initial

				_, err := s.Append(ctx, collection, model.FocusSession{UserID: "u2", FocusedSeconds: 120})
				So(err, ShouldBeNil)

				snap := <-ch
				So(snap, ShouldHaveLength, 2)
			})
		})

		Convey("When the subscriber lags behind several appends", func() {
			ch, cancel, err := s.Subscribe(ctx, collection)
			So(err, ShouldBeNil)
			defer cancel()

			for i := 0; i < 5; i++ {
				_, err := s.Append(ctx, collection, model.FocusSession{UserID: "u2", FocusedSeconds: 60})
				So(err, ShouldBeNil)
			}

			Convey("Then reads land on the latest state, skipping intermediates", func() {
				var snap store.Snapshot
				for {
					select {
					case got := <-ch:
						snap = got
						continue
					default:
					}
					break
				}
				So(snap, ShouldHaveLength, 6)
			})
		})

		Convey("When cancelling a subscription", func() {
			ch, cancel, err := s.Subscribe(ctx, collection)
			So(err, ShouldBeNil)
			cancel()

			Convey("Then the channel drains and closes", func() {
				_, open := <-ch // buffered initial snapshot
				So(open, ShouldBeTrue)
				_, open = <-ch
				So(open, ShouldBeFalse)
			})

			Convey("And cancelling again is harmless", func() {
				So(cancel, ShouldNotPanic)
			})
		})
	})
}

func TestMemoryStore_Close(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with a live subscriber", t, func() {
		s := store.NewMemoryStore()
		ch, cancel, err := s.Subscribe(ctx, collection)
		So(err, ShouldBeNil)
		defer cancel()

		Convey("When closing the store", func() {
			So(s.Close(ctx), ShouldBeNil)

			Convey("Then subscriber channels close", func() {
				<-ch // initial snapshot
				_, open := <-ch
				So(open, ShouldBeFalse)
			})

			Convey("And writes and reads are refused", func() {
				_, err := s.Append(ctx, collection, model.FocusSession{UserID: "u1"})
				So(err, ShouldEqual, store.ErrClosed)

				_, err = s.Snapshot(ctx, collection)
				So(err, ShouldEqual, store.ErrClosed)

				_, _, err = s.Subscribe(ctx, collection)
				So(err, ShouldEqual, store.ErrClosed)
			})

			Convey("And closing twice is a no-op", func() {
				So(s.Close(ctx), ShouldBeNil)
			})
		})
	})
}

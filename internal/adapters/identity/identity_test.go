package identity_test

import (
	"context"
	"testing"

	"focusboard/internal/adapters/identity"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStaticProvider(t *testing.T) {
	ctx := context.Background()

	Convey("Given a provider bound to a user", t, func() {
		p := identity.NewStaticProvider(identity.User{
			ID:          "u1",
			DisplayName: "Ada",
			AvatarURL:   "https://example.com/ada.png",
		})

		Convey("Then the identity resolves", func() {
			u, ok := p.CurrentUser(ctx)
			So(ok, ShouldBeTrue)
			So(u.ID, ShouldEqual, "u1")
			So(u.DisplayName, ShouldEqual, "Ada")
		})
	})

	Convey("Given a provider bound to an empty ID", t, func() {
		p := identity.NewStaticProvider(identity.User{DisplayName: "Nameless"})

		Convey("Then it behaves as anonymous", func() {
			_, ok := p.CurrentUser(ctx)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given an anonymous provider", t, func() {
		p := identity.NewAnonymousProvider()

		Convey("Then no identity resolves", func() {
			u, ok := p.CurrentUser(ctx)
			So(ok, ShouldBeFalse)
			So(u.ID, ShouldBeEmpty)
		})
	})
}

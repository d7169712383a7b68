// Package identity resolves the user the process acts as. There is no
// authentication flow; deployments bind a fixed identity through
// configuration, and everything downstream treats the user as optional.
package identity

import "context"

// User is a resolved identity.
type User struct {
	ID          string
	DisplayName string
	AvatarURL   string
}

// Provider reports the current user, if any.
type Provider interface {
	// CurrentUser returns the bound identity. ok is false when the
	// process runs anonymously.
	CurrentUser(ctx context.Context) (User, bool)
}

// StaticProvider serves one fixed identity for the lifetime of the process.
type StaticProvider struct {
	user  User
	bound bool
}

// NewStaticProvider binds a fixed identity. An empty ID yields an
// anonymous provider.
func NewStaticProvider(user User) *StaticProvider {
	return &StaticProvider{
		user:  user,
		bound: user.ID != "",
	}
}

// NewAnonymousProvider returns a provider with no identity bound.
func NewAnonymousProvider() *StaticProvider {
	return &StaticProvider{}
}

func (p *StaticProvider) CurrentUser(_ context.Context) (User, bool) {
	return p.user, p.bound
}

// Package identity resolves the authenticated actor for a request.
package identity

import (
	"context"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/shared"
)

// Identity describes the authenticated actor. RoleKey and RoleName are
// denormalized onto the user document so permission checks do not need a
// role join on every request.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	RoleID   string `json:"roleId"`
	RoleKey  string `json:"roleKey"`
	RoleName string `json:"roleName"`
	TeamID   string `json:"team,omitempty"`
}

// Provider answers "who is acting" for the current request.
type Provider interface {
	Current(ctx context.Context) (Identity, error)
}

type identityContextKey struct{}

// ContextWith stores the identity in context.
func ContextWith(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, ident)
}

// FromContext extracts the identity from context.
func FromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityContextKey{}).(Identity)
	return ident, ok
}

// ContextProvider reads the identity resolved by the HTTP middleware.
type ContextProvider struct{}

// Current returns the request identity or shared.ErrAnonymous.
func (ContextProvider) Current(ctx context.Context) (Identity, error) {
	ident, ok := FromContext(ctx)
	if !ok {
		return Identity{}, shared.ErrAnonymous
	}
	return ident, nil
}

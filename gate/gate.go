// Package gate is a small authorization library: profiles grant
// "resource:action" permissions, and optional per-resource policies add
// instance-level checks such as ownership.
//
// The subject type is generic so the same gate works with user IDs,
// user structs or token claims.
package gate

import "context"

// Policy adds an instance-level rule for one resource type.
// For list and create the resource is nil.
type Policy[U any] interface {
	Can(ctx context.Context, user U, action Action, resource any) bool
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc[U any] func(ctx context.Context, user U, action Action, resource any) bool

// Can calls f.
func (f PolicyFunc[U]) Can(ctx context.Context, user U, action Action, resource any) bool {
	return f(ctx, user, action, resource)
}

// Gate combines profile permissions with resource policies:
//  1. the subject must be non-zero,
//  2. its profile must grant resource:action,
//  3. when a resource is given and a policy is registered, the policy must allow it.
type Gate[U comparable] struct {
	resolver ProfileResolver[U]
	policies map[string]Policy[U]
}

// New creates a gate resolving profiles through resolver.
func New[U comparable](resolver ProfileResolver[U]) *Gate[U] {
	return &Gate[U]{resolver: resolver, policies: make(map[string]Policy[U])}
}

// Register sets the policy for resourceType, replacing any previous one.
func (g *Gate[U]) Register(resourceType string, p Policy[U]) {
	g.policies[resourceType] = p
}

// Authorize returns nil when allowed, ErrUnauthorized for a zero subject and
// ErrForbidden when the profile or the policy denies the action.
func (g *Gate[U]) Authorize(ctx context.Context, user U, action Action, resourceType string, resource any) error {
	var zero U
	if user == zero {
		return ErrUnauthorized
	}
	if !g.CanProfile(ctx, user, action, resourceType) {
		return ErrForbidden
	}
	if resource == nil {
		return nil
	}
	if p, ok := g.policies[resourceType]; ok && !p.Can(ctx, user, action, resource) {
		return ErrForbidden
	}
	return nil
}

// Can is Authorize as a bool.
func (g *Gate[U]) Can(ctx context.Context, user U, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, user, action, resourceType, resource) == nil
}

// CanProfile checks the profile permission only.
func (g *Gate[U]) CanProfile(ctx context.Context, user U, action Action, resourceType string) bool {
	var zero U
	if user == zero {
		return false
	}
	profile, err := g.resolver.Resolve(ctx, user)
	if err != nil || profile == nil {
		return false
	}
	return profile.HasPermission(NewPermission(resourceType, action))
}

// Profile returns the subject's resolved profile, or nil.
func (g *Gate[U]) Profile(ctx context.Context, user U) Profile {
	profile, err := g.resolver.Resolve(ctx, user)
	if err != nil {
		return nil
	}
	return profile
}

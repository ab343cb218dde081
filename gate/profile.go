package gate

import (
	"context"
	"sort"
)

// Profile is a named set of permissions, typically one per role.
type Profile interface {
	Name() string
	HasPermission(permission Permission) bool
	Permissions() []Permission
}

// ProfileResolver resolves a subject to its profile.
// A nil profile with a nil error means the subject has no profile.
type ProfileResolver[U any] interface {
	Resolve(ctx context.Context, user U) (Profile, error)
}

// ResolverFunc adapts a function to ProfileResolver.
type ResolverFunc[U any] func(ctx context.Context, user U) (Profile, error)

// Resolve calls f.
func (f ResolverFunc[U]) Resolve(ctx context.Context, user U) (Profile, error) {
	return f(ctx, user)
}

// StaticProfile is an in-memory profile.
type StaticProfile struct {
	name        string
	permissions map[Permission]struct{}
}

// NewStaticProfile creates a profile granting the given permissions.
func NewStaticProfile(name string, permissions ...Permission) *StaticProfile {
	p := &StaticProfile{name: name, permissions: make(map[Permission]struct{}, len(permissions))}
	for _, perm := range permissions {
		p.permissions[perm] = struct{}{}
	}
	return p
}

func (p *StaticProfile) Name() string { return p.name }

// Permissions returns the granted permissions sorted for stable output.
func (p *StaticProfile) Permissions() []Permission {
	perms := make([]Permission, 0, len(p.permissions))
	for perm := range p.permissions {
		perms = append(perms, perm)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}

// HasPermission checks requested against every granted permission, wildcards included.
func (p *StaticProfile) HasPermission(requested Permission) bool {
	for perm := range p.permissions {
		if perm.Matches(requested) {
			return true
		}
	}
	return false
}

// ProfileSet maps profile names (roles) to profiles.
type ProfileSet map[string]Profile

// NewProfileSet indexes profiles by name.
func NewProfileSet(profiles ...Profile) ProfileSet {
	set := make(ProfileSet, len(profiles))
	for _, p := range profiles {
		set[p.Name()] = p
	}
	return set
}

// Lookup returns the profile registered under name, or nil.
func (s ProfileSet) Lookup(name string) Profile {
	return s[name]
}

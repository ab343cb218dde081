package policy

import (
	"context"

	"github.com/diewo77/go-mairie/gate"
)

// Ownable is implemented by models that belong to a user.
type Ownable interface {
	GetUserID() uint
}

// OwnershipPolicy lets only the owner perform the guarded actions. With no
// guarded actions every action is guarded.
type OwnershipPolicy struct {
	guarded map[gate.Action]bool
}

func NewOwnershipPolicy(actions ...gate.Action) *OwnershipPolicy {
	p := &OwnershipPolicy{guarded: make(map[gate.Action]bool, len(actions))}
	for _, a := range actions {
		p.guarded[a] = true
	}
	return p
}

// Can allows nil resources (list, create) and unguarded actions. Resources
// that are not Ownable are denied.
func (p *OwnershipPolicy) Can(_ context.Context, userID uint, action gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	if len(p.guarded) > 0 && !p.guarded[action] {
		return true
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		return false
	}
	return ownable.GetUserID() == userID
}

// AdminBypassPolicy allows admins and defers to inner for everyone else.
type AdminBypassPolicy struct {
	inner   gate.Policy[uint]
	isAdmin func(ctx context.Context, userID uint) bool
}

func NewAdminBypassPolicy(inner gate.Policy[uint], isAdmin func(ctx context.Context, userID uint) bool) *AdminBypassPolicy {
	return &AdminBypassPolicy{inner: inner, isAdmin: isAdmin}
}

func (p *AdminBypassPolicy) Can(ctx context.Context, userID uint, action gate.Action, resource any) bool {
	if p.isAdmin(ctx, userID) {
		return true
	}
	return p.inner.Can(ctx, userID, action, resource)
}

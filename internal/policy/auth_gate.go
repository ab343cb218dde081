package policy

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/go-mairie/auth"
	"github.com/diewo77/go-mairie/gate"
	"github.com/diewo77/go-mairie/httpx"
	"gorm.io/gorm"
)

// AuthGate is the application's authorization point: role profiles resolved
// from the database (cached) plus ownership rules on documents.
type AuthGate struct {
	Gate     *gate.Gate[uint]
	Resolver *gate.CachedResolver[uint]
}

// NewAuthGate wires the role resolver behind a cache of cacheTTL.
func NewAuthGate(db *gorm.DB, cacheTTL time.Duration) *AuthGate {
	return NewAuthGateWithResolver(NewRoleResolver(db), cacheTTL)
}

// NewAuthGateWithResolver is NewAuthGate with a custom resolver.
func NewAuthGateWithResolver(resolver gate.ProfileResolver[uint], cacheTTL time.Duration) *AuthGate {
	cached := gate.NewCachedResolver[uint](resolver, cacheTTL)
	ag := &AuthGate{Gate: gate.New[uint](cached), Resolver: cached}
	ag.RegisterPolicy(ResourceDocument, NewAdminBypassPolicy(
		NewOwnershipPolicy(gate.ActionArchive, gate.ActionRestore, gate.ActionDelete),
		ag.IsAdmin,
	))
	return ag
}

func (ag *AuthGate) RegisterPolicy(resourceType string, p gate.Policy[uint]) {
	ag.Gate.Register(resourceType, p)
}

// Authorize checks the user from ctx. It returns gate.ErrUnauthorized without
// a user and gate.ErrForbidden when denied.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return gate.ErrUnauthorized
	}
	return ag.Gate.Authorize(ctx, userID, action, resourceType, resource)
}

func (ag *AuthGate) Can(ctx context.Context, action gate.Action, resourceType string, resource any) bool {
	return ag.Authorize(ctx, action, resourceType, resource) == nil
}

// CanProfile checks the role permission only.
func (ag *AuthGate) CanProfile(ctx context.Context, action gate.Action, resourceType string) bool {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return false
	}
	return ag.Gate.CanProfile(ctx, userID, action, resourceType)
}

// IsAdmin reports whether userID holds the superadmin permission.
func (ag *AuthGate) IsAdmin(ctx context.Context, userID uint) bool {
	profile, err := ag.Resolver.Resolve(ctx, userID)
	if err != nil || profile == nil {
		return false
	}
	return profile.HasPermission(gate.PermissionSuperAdmin)
}

// InvalidateUser drops the cached profile, after a role change or deletion.
func (ag *AuthGate) InvalidateUser(userID uint) {
	ag.Resolver.Invalidate(userID)
}

func (ag *AuthGate) InvalidateAll() {
	ag.Resolver.InvalidateAll()
}

// RequirePermission rejects requests whose role lacks resourceType:action.
func (ag *AuthGate) RequirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.UserIDFromContext(r.Context()); !ok {
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			if !ag.CanProfile(r.Context(), action, resourceType) {
				httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin only lets ADMIN users through.
func (ag *AuthGate) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			if !ag.IsAdmin(r.Context(), userID) {
				httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
